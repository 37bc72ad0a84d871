package store

import (
	"time"

	"github.com/mkravets/quizdrill/internal/model"
)

// Statistics queries are pure reads. Every one of them tolerates an empty
// history and returns zero values or empty slices instead of failing.

// UserSummary returns a user's overall testing statistics. The average is
// the mean of per-test percentages, so a short perfect test and a long weak
// one weigh equally.
func (s *Store) UserSummary(userID int64) (model.UserSummary, error) {
	var sum model.UserSummary
	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(total_questions), 0),
		        COALESCE(SUM(correct_answers), 0),
		        COALESCE(SUM(time_spent), 0),
		        COALESCE(ROUND(AVG(correct_answers * 100.0 / total_questions), 2), 0)
		 FROM test_results WHERE user_id = ?`, userID,
	).Scan(&sum.TestsCount, &sum.TotalQuestions, &sum.TotalCorrect, &sum.TotalTime, &sum.AvgPercentage)
	return sum, err
}

// CategoryBreakdown returns a user's per-category averages, best first.
func (s *Store) CategoryBreakdown(userID int64) ([]model.CategoryStat, error) {
	rows, err := s.db.Query(
		`SELECT c.name, COUNT(*), ROUND(AVG(tr.correct_answers * 100.0 / tr.total_questions), 2)
		 FROM test_results tr
		 JOIN categories c ON tr.category_id = c.id
		 WHERE tr.user_id = ?
		 GROUP BY c.name
		 ORDER BY 3 DESC`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var stats []model.CategoryStat
	for rows.Next() {
		var cs model.CategoryStat
		if err := rows.Scan(&cs.CategoryName, &cs.TestsCount, &cs.AvgPercentage); err != nil {
			return nil, err
		}
		stats = append(stats, cs)
	}
	return stats, rows.Err()
}

// RecentResults returns a user's latest results, newest first.
func (s *Store) RecentResults(userID int64, limit int) ([]model.ResultRow, error) {
	rows, err := s.db.Query(
		`SELECT c.name, tr.test_date, tr.total_questions, tr.correct_answers,
		        ROUND(tr.correct_answers * 100.0 / tr.total_questions, 2), tr.time_spent
		 FROM test_results tr
		 JOIN categories c ON tr.category_id = c.id
		 WHERE tr.user_id = ?
		 ORDER BY tr.test_date DESC
		 LIMIT ?`, userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var results []model.ResultRow
	for rows.Next() {
		var r model.ResultRow
		if err := rows.Scan(&r.CategoryName, &r.TestDate, &r.TotalQuestions, &r.CorrectAnswers, &r.Percentage, &r.TimeSpent); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// SystemSummary returns system-wide counters. With no tests taken the
// success rate is reported as zero, not an error.
func (s *Store) SystemSummary() (model.SystemSummary, error) {
	var sum model.SystemSummary
	counters := []struct {
		query string
		dest  *int
	}{
		{`SELECT COUNT(*) FROM users`, &sum.TotalUsers},
		{`SELECT COUNT(*) FROM users WHERE is_admin = TRUE`, &sum.AdminUsers},
		{`SELECT COUNT(*) FROM questions`, &sum.TotalQuestions},
		{`SELECT COUNT(*) FROM categories`, &sum.TotalCategories},
		{`SELECT COUNT(*) FROM test_results`, &sum.TotalTests},
		{`SELECT COALESCE(SUM(total_questions), 0) FROM test_results`, &sum.TotalAnswered},
		{`SELECT COALESCE(SUM(correct_answers), 0) FROM test_results`, &sum.TotalCorrect},
	}
	for _, c := range counters {
		if err := s.db.QueryRow(c.query).Scan(c.dest); err != nil {
			return sum, err
		}
	}
	err := s.db.QueryRow(
		`SELECT COALESCE(ROUND(AVG(correct_answers * 100.0 / total_questions), 2), 0) FROM test_results`,
	).Scan(&sum.AvgSuccessRate)
	return sum, err
}

// DailyActivity returns tests-per-day counts for the trailing window,
// ascending by date. Days without tests are omitted.
func (s *Store) DailyActivity(windowDays int) ([]model.DailyCount, error) {
	cutoff := time.Now().AddDate(0, 0, -windowDays)
	rows, err := s.db.Query(
		`SELECT DATE(test_date), COUNT(*)
		 FROM test_results
		 WHERE test_date >= ?
		 GROUP BY DATE(test_date)
		 ORDER BY DATE(test_date)`, cutoff,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var days []model.DailyCount
	for rows.Next() {
		var d model.DailyCount
		if err := rows.Scan(&d.Date, &d.TestsCount); err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

// CategoryPopularity counts tests taken per category, most popular first.
func (s *Store) CategoryPopularity() ([]model.CategoryPopularity, error) {
	rows, err := s.db.Query(
		`SELECT c.name, COUNT(*) AS tests_count
		 FROM test_results tr
		 JOIN categories c ON tr.category_id = c.id
		 GROUP BY c.name
		 ORDER BY tests_count DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var pop []model.CategoryPopularity
	for rows.Next() {
		var p model.CategoryPopularity
		if err := rows.Scan(&p.CategoryName, &p.TestsCount); err != nil {
			return nil, err
		}
		pop = append(pop, p)
	}
	return pop, rows.Err()
}

// DifficultyDistribution counts answered questions per difficulty level,
// ascending. The join ignores the question's active flag: deactivated
// questions still count toward history.
func (s *Store) DifficultyDistribution() ([]model.DifficultyCount, error) {
	rows, err := s.db.Query(
		`SELECT q.difficulty, COUNT(ad.id)
		 FROM answer_details ad
		 JOIN questions q ON ad.question_id = q.id
		 GROUP BY q.difficulty
		 ORDER BY q.difficulty`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var dist []model.DifficultyCount
	for rows.Next() {
		var d model.DifficultyCount
		if err := rows.Scan(&d.Difficulty, &d.AnsweredCount); err != nil {
			return nil, err
		}
		dist = append(dist, d)
	}
	return dist, rows.Err()
}
