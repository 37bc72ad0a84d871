// Package store is the sqlite persistence layer: the question bank, user
// accounts, committed test results, and the read-only statistics queries.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mkravets/quizdrill/internal/model"
	"github.com/mkravets/quizdrill/internal/session"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT UNIQUE NOT NULL,
		email TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL,
		is_admin BOOLEAN NOT NULL DEFAULT FALSE,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS categories (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT UNIQUE NOT NULL,
		description TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS questions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		category_id INTEGER NOT NULL,
		question_text TEXT NOT NULL,
		question_type TEXT NOT NULL,
		correct_answer TEXT NOT NULL,
		options TEXT,
		difficulty INTEGER NOT NULL DEFAULT 1,
		explanation TEXT NOT NULL DEFAULT '',
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		FOREIGN KEY (category_id) REFERENCES categories(id)
	);

	CREATE TABLE IF NOT EXISTS test_results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		category_id INTEGER NOT NULL,
		total_questions INTEGER NOT NULL,
		correct_answers INTEGER NOT NULL,
		test_date DATETIME NOT NULL,
		time_spent INTEGER NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users(id),
		FOREIGN KEY (category_id) REFERENCES categories(id)
	);

	CREATE TABLE IF NOT EXISTS answer_details (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		test_result_id INTEGER NOT NULL,
		question_id INTEGER NOT NULL,
		user_answer TEXT NOT NULL DEFAULT '',
		is_correct BOOLEAN NOT NULL,
		time_spent INTEGER NOT NULL DEFAULT 0,
		FOREIGN KEY (test_result_id) REFERENCES test_results(id),
		FOREIGN KEY (question_id) REFERENCES questions(id)
	);

	CREATE TABLE IF NOT EXISTS imported_files (
		path TEXT PRIMARY KEY,
		hash TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// InsertCategory creates a category. Names are unique.
func (s *Store) InsertCategory(c model.Category) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO categories (name, description) VALUES (?, ?)`,
		c.Name, c.Description,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetCategoryByName returns a category by its unique name, or nil if absent.
func (s *Store) GetCategoryByName(name string) (*model.Category, error) {
	var c model.Category
	err := s.db.QueryRow(
		`SELECT id, name, description FROM categories WHERE name = ?`, name,
	).Scan(&c.ID, &c.Name, &c.Description)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListCategories returns all categories ordered by name.
func (s *Store) ListCategories() ([]model.Category, error) {
	rows, err := s.db.Query(`SELECT id, name, description FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var categories []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// InsertQuestion stores a question. Options are serialized as JSON for
// multiple-choice questions and left NULL otherwise.
func (s *Store) InsertQuestion(q model.Question) (int64, error) {
	options, err := encodeOptions(q.Options)
	if err != nil {
		return 0, err
	}
	res, err := s.db.Exec(
		`INSERT INTO questions (category_id, question_text, question_type, correct_answer, options, difficulty, explanation, is_active)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		q.CategoryID, q.Text, q.Type, q.CorrectAnswer, options, q.Difficulty, q.Explanation, q.Active,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// UpdateQuestion replaces all editable fields of a question.
func (s *Store) UpdateQuestion(q model.Question) error {
	options, err := encodeOptions(q.Options)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`UPDATE questions SET category_id = ?, question_text = ?, question_type = ?, correct_answer = ?,
		 options = ?, difficulty = ?, explanation = ?, is_active = ? WHERE id = ?`,
		q.CategoryID, q.Text, q.Type, q.CorrectAnswer, options, q.Difficulty, q.Explanation, q.Active, q.ID,
	)
	return err
}

// GetQuestion returns a question by ID regardless of its active flag, so
// historical answer details always resolve.
func (s *Store) GetQuestion(id int64) (model.Question, error) {
	row := s.db.QueryRow(
		`SELECT id, category_id, question_text, question_type, correct_answer, options, difficulty, explanation, is_active
		 FROM questions WHERE id = ?`, id,
	)
	return scanQuestion(row)
}

// DeleteQuestion removes a question that has never been answered.
// A question referenced by answer details is deactivated instead, keeping
// historical results resolvable. Returns whether a hard delete happened.
func (s *Store) DeleteQuestion(id int64) (bool, error) {
	var refs int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM answer_details WHERE question_id = ?`, id).Scan(&refs)
	if err != nil {
		return false, err
	}
	if refs > 0 {
		_, err := s.db.Exec(`UPDATE questions SET is_active = FALSE WHERE id = ?`, id)
		if err != nil {
			return false, err
		}
		slog.Info("question deactivated, referenced by results", "id", id, "refs", refs)
		return false, nil
	}
	if _, err := s.db.Exec(`DELETE FROM questions WHERE id = ?`, id); err != nil {
		return false, err
	}
	return true, nil
}

// SelectQuestions returns a uniform random sample of up to count active
// questions from the category. Callers must treat a short result as a
// shorter session, and an empty one as an unusable category.
func (s *Store) SelectQuestions(categoryID int64, count int) ([]model.Question, error) {
	rows, err := s.db.Query(
		`SELECT id, category_id, question_text, question_type, correct_answer, options, difficulty, explanation, is_active
		 FROM questions WHERE category_id = ? AND is_active = TRUE
		 ORDER BY RANDOM() LIMIT ?`, categoryID, count,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var questions []model.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// QuestionCount returns the number of questions, active or not.
func (s *Store) QuestionCount() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM questions`).Scan(&count)
	return count, err
}

// ActiveQuestionCount returns the number of active questions in a category.
func (s *Store) ActiveQuestionCount(categoryID int64) (int, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM questions WHERE category_id = ? AND is_active = TRUE`, categoryID,
	).Scan(&count)
	return count, err
}

// SaveResult commits a graded session: one test_results row plus one
// answer_details row per question, as a single transaction. On any failure
// the whole commit rolls back; partial results are never visible. The
// result is dated by the session's start time.
func (s *Store) SaveResult(gs *session.GradedSession) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin commit: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO test_results (user_id, category_id, total_questions, correct_answers, test_date, time_spent)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		gs.UserID, gs.CategoryID, gs.TotalQuestions, gs.CorrectAnswers, gs.StartedAt, gs.TimeSpent,
	)
	if err != nil {
		return 0, fmt.Errorf("insert result: %w", err)
	}
	resultID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, a := range gs.Answers {
		_, err := tx.Exec(
			`INSERT INTO answer_details (test_result_id, question_id, user_answer, is_correct, time_spent)
			 VALUES (?, ?, ?, ?, ?)`,
			resultID, a.Question.ID, a.UserAnswer, a.IsCorrect, a.TimeSpent,
		)
		if err != nil {
			return 0, fmt.Errorf("insert answer detail: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit result: %w", err)
	}
	slog.Info("saved test result",
		"id", resultID,
		"user_id", gs.UserID,
		"category_id", gs.CategoryID,
		"correct", gs.CorrectAnswers,
		"total", gs.TotalQuestions,
	)
	return resultID, nil
}

// GetResult returns a persisted result by ID.
func (s *Store) GetResult(id int64) (model.TestResult, error) {
	var r model.TestResult
	err := s.db.QueryRow(
		`SELECT id, user_id, category_id, total_questions, correct_answers, test_date, time_spent
		 FROM test_results WHERE id = ?`, id,
	).Scan(&r.ID, &r.UserID, &r.CategoryID, &r.TotalQuestions, &r.CorrectAnswers, &r.TestDate, &r.TimeSpent)
	return r, err
}

// GetAnswerDetails returns the answer rows owned by a result, in insertion
// order, which matches the session's question order.
func (s *Store) GetAnswerDetails(resultID int64) ([]model.AnswerDetail, error) {
	rows, err := s.db.Query(
		`SELECT id, test_result_id, question_id, user_answer, is_correct, time_spent
		 FROM answer_details WHERE test_result_id = ? ORDER BY id`, resultID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var details []model.AnswerDetail
	for rows.Next() {
		var d model.AnswerDetail
		if err := rows.Scan(&d.ID, &d.TestResultID, &d.QuestionID, &d.UserAnswer, &d.IsCorrect, &d.TimeSpent); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

func encodeOptions(options []string) (any, error) {
	if len(options) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(options)
	if err != nil {
		return nil, fmt.Errorf("encode options: %w", err)
	}
	return string(data), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuestion(row rowScanner) (model.Question, error) {
	var q model.Question
	var options sql.NullString
	err := row.Scan(&q.ID, &q.CategoryID, &q.Text, &q.Type, &q.CorrectAnswer, &options, &q.Difficulty, &q.Explanation, &q.Active)
	if err != nil {
		return q, err
	}
	if options.Valid && options.String != "" {
		if err := json.Unmarshal([]byte(options.String), &q.Options); err != nil {
			return q, fmt.Errorf("decode options for question %d: %w", q.ID, err)
		}
	}
	return q, nil
}
