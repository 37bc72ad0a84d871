// Package session runs one test attempt from question selection through
// grading. A Session is owned by its caller and is not safe for concurrent
// use; persistence is the caller's job, via the graded result handed back
// from Finish.
package session

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/mkravets/quizdrill/internal/grading"
	"github.com/mkravets/quizdrill/internal/model"
)

var (
	// ErrInsufficientQuestions means the category has no active questions.
	ErrInsufficientQuestions = errors.New("no active questions in category")
	// ErrInvalidTransition means an operation was called in the wrong state.
	ErrInvalidTransition = errors.New("invalid session transition")
)

// State is the lifecycle phase of a session.
type State string

const (
	StateInProgress State = "in_progress"
	StateCompleted  State = "completed"
	StateAbandoned  State = "abandoned"
)

// QuestionSource selects questions for a new session. Implemented by the
// store; selection is a random sample of active questions and may return
// fewer than requested.
type QuestionSource interface {
	SelectQuestions(categoryID int64, count int) ([]model.Question, error)
}

type submittedAnswer struct {
	raw       string
	timeSpent int // seconds spent on the question before submitting
}

// Session is one in-flight test attempt. The question snapshots are fixed at
// start; later authoring changes do not affect the session.
type Session struct {
	userID     int64
	categoryID int64
	questions  []model.Question
	answers    []submittedAnswer
	pos        int
	state      State

	startedAt         time.Time
	questionStartedAt time.Time

	now func() time.Time
}

// Start selects up to count random active questions from the category and
// returns a running session. It fails with ErrInsufficientQuestions only
// when the category has no active questions at all; a short selection is a
// valid, shorter session that callers may surface to the user.
func Start(src QuestionSource, userID, categoryID int64, count int) (*Session, error) {
	// A non-positive count would turn into an unbounded LIMIT downstream.
	if count < 1 {
		return nil, fmt.Errorf("question count must be positive, got %d", count)
	}
	questions, err := src.SelectQuestions(categoryID, count)
	if err != nil {
		return nil, fmt.Errorf("select questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, ErrInsufficientQuestions
	}

	s := &Session{
		userID:     userID,
		categoryID: categoryID,
		questions:  questions,
		state:      StateInProgress,
		now:        time.Now,
	}
	s.startedAt = s.now()
	s.questionStartedAt = s.startedAt
	return s, nil
}

// State returns the session's lifecycle phase.
func (s *Session) State() State { return s.state }

// Len returns the number of questions in the session.
func (s *Session) Len() int { return len(s.questions) }

// Position returns the index of the current question (== Len when all
// questions have been answered).
func (s *Session) Position() int { return s.pos }

// Current returns the question awaiting an answer, or nil once every
// question has been answered and the session is ready to finish.
func (s *Session) Current() *model.Question {
	if s.state != StateInProgress || s.pos >= len(s.questions) {
		return nil
	}
	q := s.questions[s.pos]
	return &q
}

// Submit records a raw answer for the current question and advances. The
// answer is stored unvalidated; grading happens in Finish.
func (s *Session) Submit(raw string) error {
	if s.state != StateInProgress {
		return fmt.Errorf("%w: submit in state %s", ErrInvalidTransition, s.state)
	}
	if s.pos >= len(s.questions) {
		return fmt.Errorf("%w: all questions answered", ErrInvalidTransition)
	}
	now := s.now()
	s.answers = append(s.answers, submittedAnswer{
		raw:       raw,
		timeSpent: int(now.Sub(s.questionStartedAt).Seconds()),
	})
	s.pos++
	s.questionStartedAt = now
	return nil
}

// Finish grades every question in order and completes the session.
// Questions without a submitted answer are graded as empty, hence incorrect.
// The returned GradedSession is not persisted; hand it to the store.
func (s *Session) Finish() (*GradedSession, error) {
	if s.state != StateInProgress {
		return nil, fmt.Errorf("%w: finish in state %s", ErrInvalidTransition, s.state)
	}
	s.state = StateCompleted

	gs := &GradedSession{
		UserID:         s.userID,
		CategoryID:     s.categoryID,
		StartedAt:      s.startedAt,
		TotalQuestions: len(s.questions),
		TimeSpent:      int(s.now().Sub(s.startedAt).Seconds()),
	}
	for i, q := range s.questions {
		var raw string
		var spent int
		if i < len(s.answers) {
			raw = s.answers[i].raw
			spent = s.answers[i].timeSpent
		}
		correct := grading.Correct(q, raw)
		if correct {
			gs.CorrectAnswers++
		}
		gs.Answers = append(gs.Answers, GradedAnswer{
			Question:   q,
			UserAnswer: raw,
			IsCorrect:  correct,
			TimeSpent:  spent,
		})
	}
	gs.Percentage = percentage(gs.CorrectAnswers, gs.TotalQuestions)
	return gs, nil
}

// Abandon discards the session without a persisted trace.
func (s *Session) Abandon() error {
	if s.state != StateInProgress {
		return fmt.Errorf("%w: abandon in state %s", ErrInvalidTransition, s.state)
	}
	s.state = StateAbandoned
	return nil
}

// GradedAnswer is one graded question, keyed by the question snapshot so
// callers can show explanations alongside the outcome.
type GradedAnswer struct {
	Question   model.Question
	UserAnswer string
	IsCorrect  bool
	TimeSpent  int
}

// GradedSession is the completed, graded attempt. Grading is pure, so a
// failed persistence attempt may retry with the same value.
type GradedSession struct {
	UserID         int64
	CategoryID     int64
	StartedAt      time.Time
	TotalQuestions int
	CorrectAnswers int
	Percentage     float64
	TimeSpent      int
	Answers        []GradedAnswer
}

// percentage returns correct/total*100 rounded to two decimals. total is
// never zero for a started session.
func percentage(correct, total int) float64 {
	return math.Round(float64(correct)/float64(total)*100*100) / 100
}
