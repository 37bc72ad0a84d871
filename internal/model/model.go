package model

import "time"

// QuestionType is the closed set of supported question kinds.
type QuestionType string

const (
	TypeMultipleChoice QuestionType = "multiple_choice"
	TypeTrueFalse      QuestionType = "true_false"
	TypeTextInput      QuestionType = "text_input"
)

// Valid reports whether t is one of the known question types.
func (t QuestionType) Valid() bool {
	switch t {
	case TypeMultipleChoice, TypeTrueFalse, TypeTextInput:
		return true
	}
	return false
}

// Difficulty levels range from 1 (easy) to 3 (hard).
const (
	DifficultyEasy   = 1
	DifficultyMedium = 2
	DifficultyHard   = 3
)

// Category groups questions by subject.
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Question is a single quiz question. Options is only populated for
// multiple-choice questions. Questions referenced by historical answers are
// never removed, only deactivated.
type Question struct {
	ID            int64        `json:"id"`
	CategoryID    int64        `json:"category_id"`
	Text          string       `json:"text"`
	Type          QuestionType `json:"type"`
	CorrectAnswer string       `json:"correct_answer"`
	Options       []string     `json:"options,omitempty"`
	Difficulty    int          `json:"difficulty"`
	Explanation   string       `json:"explanation,omitempty"`
	Active        bool         `json:"active"`
}

// User is a registered account. The session engine only consumes the ID and
// the admin flag; authentication lives in the store.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
}

// TestResult is the persisted summary of one completed session.
type TestResult struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	CategoryID     int64     `json:"category_id"`
	TotalQuestions int       `json:"total_questions"`
	CorrectAnswers int       `json:"correct_answers"`
	TestDate       time.Time `json:"test_date"`
	TimeSpent      int       `json:"time_spent"`
}

// AnswerDetail is the persisted per-question outcome belonging to a result.
// An empty UserAnswer means the question was never answered.
type AnswerDetail struct {
	ID           int64  `json:"id"`
	TestResultID int64  `json:"test_result_id"`
	QuestionID   int64  `json:"question_id"`
	UserAnswer   string `json:"user_answer"`
	IsCorrect    bool   `json:"is_correct"`
	TimeSpent    int    `json:"time_spent"`
}

// QuestionImport is used for loading questions from JSON seed files.
type QuestionImport struct {
	Category    string       `json:"category"`
	Text        string       `json:"text"`
	Type        QuestionType `json:"type"`
	Answer      string       `json:"answer"`
	Options     []string     `json:"options,omitempty"`
	Difficulty  int          `json:"difficulty"`
	Explanation string       `json:"explanation,omitempty"`
}
