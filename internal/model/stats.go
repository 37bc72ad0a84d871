package model

import "time"

// UserSummary is a user's overall testing statistics. AvgPercentage is the
// mean of per-test percentages, not a pooled correct/answered ratio, so short
// and long tests weigh equally.
type UserSummary struct {
	TestsCount     int     `json:"tests_count"`
	TotalQuestions int     `json:"total_questions"`
	TotalCorrect   int     `json:"total_correct"`
	TotalTime      int     `json:"total_time"`
	AvgPercentage  float64 `json:"avg_percentage"`
}

// CategoryStat is one row of a per-category breakdown for a user.
type CategoryStat struct {
	CategoryName  string  `json:"category_name"`
	TestsCount    int     `json:"tests_count"`
	AvgPercentage float64 `json:"avg_percentage"`
}

// ResultRow is one historical result joined with its category name.
type ResultRow struct {
	CategoryName   string    `json:"category_name"`
	TestDate       time.Time `json:"test_date"`
	TotalQuestions int       `json:"total_questions"`
	CorrectAnswers int       `json:"correct_answers"`
	Percentage     float64   `json:"percentage"`
	TimeSpent      int       `json:"time_spent"`
}

// SystemSummary holds system-wide counters for the admin dashboard.
type SystemSummary struct {
	TotalUsers      int     `json:"total_users"`
	AdminUsers      int     `json:"admin_users"`
	TotalQuestions  int     `json:"total_questions"`
	TotalCategories int     `json:"total_categories"`
	TotalTests      int     `json:"total_tests"`
	TotalAnswered   int     `json:"total_answered"`
	TotalCorrect    int     `json:"total_correct"`
	AvgSuccessRate  float64 `json:"avg_success_rate"`
}

// DailyCount is the number of tests taken on one calendar day.
type DailyCount struct {
	Date       string `json:"date"`
	TestsCount int    `json:"tests_count"`
}

// CategoryPopularity counts tests taken per category.
type CategoryPopularity struct {
	CategoryName string `json:"category_name"`
	TestsCount   int    `json:"tests_count"`
}

// DifficultyCount counts answered questions per difficulty level.
type DifficultyCount struct {
	Difficulty    int `json:"difficulty"`
	AnsweredCount int `json:"answered_count"`
}
