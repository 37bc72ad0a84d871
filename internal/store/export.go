package store

import (
	"fmt"
	"math"

	"github.com/mkravets/quizdrill/internal/model"
)

// ExportAllResults builds export-ready records from every persisted result,
// newest first, with per-question details resolved to question text.
func (s *Store) ExportAllResults() ([]model.ExportResult, error) {
	rows, err := s.db.Query(
		`SELECT tr.id, u.username, c.name, tr.test_date, tr.total_questions, tr.correct_answers, tr.time_spent
		 FROM test_results tr
		 JOIN users u ON tr.user_id = u.id
		 JOIN categories c ON tr.category_id = c.id
		 ORDER BY tr.test_date DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	type indexedResult struct {
		id int64
		model.ExportResult
	}
	var indexed []indexedResult
	for rows.Next() {
		var r indexedResult
		if err := rows.Scan(&r.id, &r.Username, &r.CategoryName, &r.TestDate, &r.TotalQuestions, &r.CorrectAnswers, &r.TimeSpent); err != nil {
			return nil, err
		}
		r.Percentage = math.Round(float64(r.CorrectAnswers)/float64(r.TotalQuestions)*100*100) / 100
		indexed = append(indexed, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var results []model.ExportResult
	for _, r := range indexed {
		answers, err := s.exportAnswers(r.id)
		if err != nil {
			return nil, fmt.Errorf("answers for result %d: %w", r.id, err)
		}
		r.Answers = answers
		results = append(results, r.ExportResult)
	}
	return results, nil
}

func (s *Store) exportAnswers(resultID int64) ([]model.ExportAnswer, error) {
	rows, err := s.db.Query(
		`SELECT q.question_text, ad.user_answer, ad.is_correct, ad.time_spent
		 FROM answer_details ad
		 JOIN questions q ON ad.question_id = q.id
		 WHERE ad.test_result_id = ?
		 ORDER BY ad.id`, resultID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var answers []model.ExportAnswer
	for rows.Next() {
		var a model.ExportAnswer
		if err := rows.Scan(&a.QuestionText, &a.UserAnswer, &a.IsCorrect, &a.TimeSpent); err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}
