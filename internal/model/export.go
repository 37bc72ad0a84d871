package model

import "time"

// ResultsExport is the top-level JSON structure for a results dump.
type ResultsExport struct {
	ExportedAt time.Time      `json:"exported_at"`
	Results    []ExportResult `json:"results"`
}

// ExportResult is one result with its per-question details, ready for
// external report consumers.
type ExportResult struct {
	Username       string         `json:"username"`
	CategoryName   string         `json:"category_name"`
	TestDate       time.Time      `json:"test_date"`
	TotalQuestions int            `json:"total_questions"`
	CorrectAnswers int            `json:"correct_answers"`
	Percentage     float64        `json:"percentage"`
	TimeSpent      int            `json:"time_spent"`
	Answers        []ExportAnswer `json:"answers"`
}

// ExportAnswer is one answered question for export.
type ExportAnswer struct {
	QuestionText string `json:"question_text"`
	UserAnswer   string `json:"user_answer"`
	IsCorrect    bool   `json:"is_correct"`
	TimeSpent    int    `json:"time_spent"`
}

// StatsExport bundles system-wide statistics for export.
type StatsExport struct {
	ExportedAt             time.Time            `json:"exported_at"`
	Summary                SystemSummary        `json:"summary"`
	DailyActivity          []DailyCount         `json:"daily_activity"`
	CategoryPopularity     []CategoryPopularity `json:"category_popularity"`
	DifficultyDistribution []DifficultyCount    `json:"difficulty_distribution"`
}
