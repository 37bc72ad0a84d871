package store

import (
	"testing"
	"time"

	"github.com/mkravets/quizdrill/internal/model"
	"github.com/mkravets/quizdrill/internal/session"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("newTestStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func insertTestCategory(t *testing.T, s *Store, name string) int64 {
	t.Helper()
	id, err := s.InsertCategory(model.Category{Name: name})
	if err != nil {
		t.Fatalf("insertTestCategory: %v", err)
	}
	return id
}

func insertTestQuestion(t *testing.T, s *Store, categoryID int64, text string, difficulty int) int64 {
	t.Helper()
	id, err := s.InsertQuestion(model.Question{
		CategoryID:    categoryID,
		Text:          text,
		Type:          model.TypeTextInput,
		CorrectAnswer: "answer for " + text,
		Difficulty:    difficulty,
		Active:        true,
	})
	if err != nil {
		t.Fatalf("insertTestQuestion: %v", err)
	}
	return id
}

// insertTestResult writes a result row directly so tests can control the
// test date, which SaveResult always sets to now.
func insertTestResult(t *testing.T, s *Store, userID, categoryID int64, total, correct int, date time.Time) int64 {
	t.Helper()
	res, err := s.db.Exec(
		`INSERT INTO test_results (user_id, category_id, total_questions, correct_answers, test_date, time_spent)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		userID, categoryID, total, correct, date, 60,
	)
	if err != nil {
		t.Fatalf("insertTestResult: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("insertTestResult id: %v", err)
	}
	return id
}

func TestCategoryCRUD(t *testing.T) {
	s := newTestStore(t)

	// Missing category resolves to nil, not an error.
	c, err := s.GetCategoryByName("nope")
	if err != nil {
		t.Fatalf("GetCategoryByName: %v", err)
	}
	if c != nil {
		t.Errorf("expected nil for missing category, got %+v", c)
	}

	insertTestCategory(t, s, "Networking")
	insertTestCategory(t, s, "Basics")

	c, err = s.GetCategoryByName("Basics")
	if err != nil {
		t.Fatalf("GetCategoryByName: %v", err)
	}
	if c == nil || c.Name != "Basics" {
		t.Fatalf("expected category Basics, got %+v", c)
	}

	// ListCategories orders by name.
	list, err := s.ListCategories()
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(list))
	}
	if list[0].Name != "Basics" || list[1].Name != "Networking" {
		t.Errorf("unexpected order: %v, %v", list[0].Name, list[1].Name)
	}
}

func TestQuestionCRUD(t *testing.T) {
	s := newTestStore(t)
	catID := insertTestCategory(t, s, "Basics")

	count, err := s.QuestionCount()
	if err != nil {
		t.Fatalf("QuestionCount: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 questions, got %d", count)
	}

	id, err := s.InsertQuestion(model.Question{
		CategoryID:    catID,
		Text:          "What does CPU stand for?",
		Type:          model.TypeMultipleChoice,
		CorrectAnswer: "Central Processing Unit",
		Options:       []string{"Central Processing Unit", "Computer Personal Unit"},
		Difficulty:    model.DifficultyEasy,
		Explanation:   "The CPU executes instructions.",
		Active:        true,
	})
	if err != nil {
		t.Fatalf("InsertQuestion: %v", err)
	}

	q, err := s.GetQuestion(id)
	if err != nil {
		t.Fatalf("GetQuestion: %v", err)
	}
	if q.Text != "What does CPU stand for?" {
		t.Errorf("unexpected text %q", q.Text)
	}
	if q.Type != model.TypeMultipleChoice {
		t.Errorf("unexpected type %q", q.Type)
	}
	if len(q.Options) != 2 || q.Options[0] != "Central Processing Unit" {
		t.Errorf("options did not round-trip: %v", q.Options)
	}
	if !q.Active {
		t.Error("expected question to be active")
	}

	// Non-choice questions keep a NULL options column.
	tfID := insertTestQuestion(t, s, catID, "RAM is volatile.", model.DifficultyMedium)
	tf, err := s.GetQuestion(tfID)
	if err != nil {
		t.Fatalf("GetQuestion: %v", err)
	}
	if tf.Options != nil {
		t.Errorf("expected nil options, got %v", tf.Options)
	}

	q.Text = "What does CPU mean?"
	q.Difficulty = model.DifficultyMedium
	if err := s.UpdateQuestion(q); err != nil {
		t.Fatalf("UpdateQuestion: %v", err)
	}
	q, _ = s.GetQuestion(id)
	if q.Text != "What does CPU mean?" || q.Difficulty != model.DifficultyMedium {
		t.Errorf("update did not apply: %+v", q)
	}

	count, _ = s.QuestionCount()
	if count != 2 {
		t.Errorf("expected count 2, got %d", count)
	}
}

func TestDeleteQuestion(t *testing.T) {
	s := newTestStore(t)
	catID := insertTestCategory(t, s, "Basics")

	// Unreferenced questions are removed outright.
	id := insertTestQuestion(t, s, catID, "Q1", model.DifficultyEasy)
	hard, err := s.DeleteQuestion(id)
	if err != nil {
		t.Fatalf("DeleteQuestion: %v", err)
	}
	if !hard {
		t.Error("expected hard delete for unreferenced question")
	}
	count, _ := s.QuestionCount()
	if count != 0 {
		t.Errorf("expected 0 questions after delete, got %d", count)
	}

	// A question referenced by answer details is deactivated instead.
	id = insertTestQuestion(t, s, catID, "Q2", model.DifficultyEasy)
	resultID := insertTestResult(t, s, 1, catID, 1, 1, time.Now())
	if _, err := s.db.Exec(
		`INSERT INTO answer_details (test_result_id, question_id, user_answer, is_correct, time_spent)
		 VALUES (?, ?, ?, ?, ?)`, resultID, id, "x", true, 5,
	); err != nil {
		t.Fatalf("insert answer detail: %v", err)
	}

	hard, err = s.DeleteQuestion(id)
	if err != nil {
		t.Fatalf("DeleteQuestion: %v", err)
	}
	if hard {
		t.Error("expected soft delete for referenced question")
	}
	q, err := s.GetQuestion(id)
	if err != nil {
		t.Fatalf("GetQuestion after soft delete: %v", err)
	}
	if q.Active {
		t.Error("expected question to be deactivated")
	}
}

func TestSelectQuestions(t *testing.T) {
	s := newTestStore(t)
	catID := insertTestCategory(t, s, "Basics")

	// Empty category yields no questions, not an error.
	qs, err := s.SelectQuestions(catID, 10)
	if err != nil {
		t.Fatalf("SelectQuestions: %v", err)
	}
	if len(qs) != 0 {
		t.Fatalf("expected 0 questions, got %d", len(qs))
	}

	for i := 0; i < 3; i++ {
		insertTestQuestion(t, s, catID, "Q", model.DifficultyEasy)
	}
	inactiveID := insertTestQuestion(t, s, catID, "hidden", model.DifficultyEasy)
	q, _ := s.GetQuestion(inactiveID)
	q.Active = false
	if err := s.UpdateQuestion(q); err != nil {
		t.Fatalf("UpdateQuestion: %v", err)
	}

	// Asking for more than exists returns the short set, active only.
	qs, err = s.SelectQuestions(catID, 10)
	if err != nil {
		t.Fatalf("SelectQuestions: %v", err)
	}
	if len(qs) != 3 {
		t.Fatalf("expected 3 active questions, got %d", len(qs))
	}
	for _, got := range qs {
		if got.ID == inactiveID {
			t.Error("inactive question selected")
		}
	}

	// The limit caps the sample.
	qs, err = s.SelectQuestions(catID, 2)
	if err != nil {
		t.Fatalf("SelectQuestions: %v", err)
	}
	if len(qs) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(qs))
	}
}

func TestSaveResult(t *testing.T) {
	s := newTestStore(t)
	catID := insertTestCategory(t, s, "Basics")
	q1 := insertTestQuestion(t, s, catID, "Q1", model.DifficultyEasy)
	q2 := insertTestQuestion(t, s, catID, "Q2", model.DifficultyHard)

	started := time.Date(2025, 8, 15, 9, 30, 0, 0, time.UTC)
	gs := &session.GradedSession{
		UserID:         1,
		CategoryID:     catID,
		StartedAt:      started,
		TotalQuestions: 2,
		CorrectAnswers: 1,
		Percentage:     50,
		TimeSpent:      42,
		Answers: []session.GradedAnswer{
			{Question: model.Question{ID: q1}, UserAnswer: "right", IsCorrect: true, TimeSpent: 30},
			{Question: model.Question{ID: q2}, UserAnswer: "", IsCorrect: false, TimeSpent: 12},
		},
	}

	resultID, err := s.SaveResult(gs)
	if err != nil {
		t.Fatalf("SaveResult: %v", err)
	}

	r, err := s.GetResult(resultID)
	if err != nil {
		t.Fatalf("GetResult: %v", err)
	}
	if r.TotalQuestions != 2 || r.CorrectAnswers != 1 || r.TimeSpent != 42 {
		t.Errorf("unexpected result row: %+v", r)
	}
	// The result is dated by the session's start, not the commit moment.
	if !r.TestDate.Equal(started) {
		t.Errorf("expected test date %v, got %v", started, r.TestDate)
	}

	details, err := s.GetAnswerDetails(resultID)
	if err != nil {
		t.Fatalf("GetAnswerDetails: %v", err)
	}
	if len(details) != 2 {
		t.Fatalf("expected 2 answer details, got %d", len(details))
	}
	// Details come back in session order.
	if details[0].QuestionID != q1 || details[1].QuestionID != q2 {
		t.Errorf("details out of order: %+v", details)
	}
	if !details[0].IsCorrect || details[0].UserAnswer != "right" || details[0].TimeSpent != 30 {
		t.Errorf("unexpected first detail: %+v", details[0])
	}
	if details[1].IsCorrect || details[1].UserAnswer != "" {
		t.Errorf("unexpected second detail: %+v", details[1])
	}
}

func TestSaveResultRollsBackOnFailure(t *testing.T) {
	s := newTestStore(t)
	catID := insertTestCategory(t, s, "Basics")
	qID := insertTestQuestion(t, s, catID, "Q1", model.DifficultyEasy)

	// Force the second detail insert to fail mid-transaction.
	if _, err := s.db.Exec(
		`CREATE UNIQUE INDEX one_detail_per_question ON answer_details(test_result_id, question_id)`,
	); err != nil {
		t.Fatalf("create index: %v", err)
	}

	gs := &session.GradedSession{
		UserID:         1,
		CategoryID:     catID,
		StartedAt:      time.Now(),
		TotalQuestions: 2,
		CorrectAnswers: 2,
		TimeSpent:      10,
		Answers: []session.GradedAnswer{
			{Question: model.Question{ID: qID}, UserAnswer: "a", IsCorrect: true, TimeSpent: 5},
			{Question: model.Question{ID: qID}, UserAnswer: "a", IsCorrect: true, TimeSpent: 5},
		},
	}
	if _, err := s.SaveResult(gs); err == nil {
		t.Fatal("expected SaveResult to fail")
	}

	// A failed commit leaves no partial rows in either table.
	var results, details int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM test_results`).Scan(&results); err != nil {
		t.Fatalf("count results: %v", err)
	}
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM answer_details`).Scan(&details); err != nil {
		t.Fatalf("count details: %v", err)
	}
	if results != 0 || details != 0 {
		t.Errorf("expected empty tables after rollback, got %d results and %d details", results, details)
	}
}

func TestUserSummary(t *testing.T) {
	s := newTestStore(t)
	catID := insertTestCategory(t, s, "Basics")

	// No history means zeros, not an error.
	sum, err := s.UserSummary(1)
	if err != nil {
		t.Fatalf("UserSummary: %v", err)
	}
	if sum.TestsCount != 0 || sum.AvgPercentage != 0 {
		t.Errorf("expected zero summary, got %+v", sum)
	}

	// A perfect short test and a 50% long one average to 75, not to the
	// pooled ratio.
	insertTestResult(t, s, 1, catID, 5, 5, time.Now())
	insertTestResult(t, s, 1, catID, 10, 5, time.Now())
	insertTestResult(t, s, 2, catID, 10, 10, time.Now()) // another user's result

	sum, err = s.UserSummary(1)
	if err != nil {
		t.Fatalf("UserSummary: %v", err)
	}
	if sum.TestsCount != 2 {
		t.Errorf("expected 2 tests, got %d", sum.TestsCount)
	}
	if sum.TotalQuestions != 15 || sum.TotalCorrect != 10 {
		t.Errorf("unexpected totals: %+v", sum)
	}
	if sum.AvgPercentage != 75.0 {
		t.Errorf("expected avg 75.0, got %v", sum.AvgPercentage)
	}
}

func TestCategoryBreakdown(t *testing.T) {
	s := newTestStore(t)
	basics := insertTestCategory(t, s, "Basics")
	nets := insertTestCategory(t, s, "Networking")

	insertTestResult(t, s, 1, basics, 10, 5, time.Now())
	insertTestResult(t, s, 1, nets, 10, 9, time.Now())
	insertTestResult(t, s, 1, nets, 10, 7, time.Now())

	stats, err := s.CategoryBreakdown(1)
	if err != nil {
		t.Fatalf("CategoryBreakdown: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(stats))
	}
	// Best average first.
	if stats[0].CategoryName != "Networking" || stats[0].TestsCount != 2 {
		t.Errorf("unexpected first row: %+v", stats[0])
	}
	if stats[0].AvgPercentage != 80.0 {
		t.Errorf("expected Networking avg 80.0, got %v", stats[0].AvgPercentage)
	}
	if stats[1].CategoryName != "Basics" || stats[1].AvgPercentage != 50.0 {
		t.Errorf("unexpected second row: %+v", stats[1])
	}
}

func TestRecentResults(t *testing.T) {
	s := newTestStore(t)
	catID := insertTestCategory(t, s, "Basics")

	now := time.Now()
	insertTestResult(t, s, 1, catID, 10, 6, now.Add(-2*time.Hour))
	insertTestResult(t, s, 1, catID, 10, 8, now.Add(-1*time.Hour))
	insertTestResult(t, s, 1, catID, 10, 10, now)

	results, err := s.RecentResults(1, 2)
	if err != nil {
		t.Fatalf("RecentResults: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	// Newest first.
	if results[0].CorrectAnswers != 10 || results[1].CorrectAnswers != 8 {
		t.Errorf("unexpected order: %+v", results)
	}
	if results[0].Percentage != 100.0 {
		t.Errorf("expected 100.0, got %v", results[0].Percentage)
	}
}

func TestSystemSummary(t *testing.T) {
	s := newTestStore(t)

	// Empty system reports zeros across the board.
	sum, err := s.SystemSummary()
	if err != nil {
		t.Fatalf("SystemSummary: %v", err)
	}
	if sum.TotalUsers != 0 || sum.TotalTests != 0 || sum.AvgSuccessRate != 0 {
		t.Errorf("expected zero summary, got %+v", sum)
	}

	if _, err := s.CreateUser("admin", "", "secret123", true); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if _, err := s.CreateUser("student", "", "secret123", false); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	catID := insertTestCategory(t, s, "Basics")
	insertTestQuestion(t, s, catID, "Q1", model.DifficultyEasy)
	insertTestResult(t, s, 2, catID, 10, 5, time.Now())
	insertTestResult(t, s, 2, catID, 10, 10, time.Now())

	sum, err = s.SystemSummary()
	if err != nil {
		t.Fatalf("SystemSummary: %v", err)
	}
	if sum.TotalUsers != 2 || sum.AdminUsers != 1 {
		t.Errorf("unexpected user counts: %+v", sum)
	}
	if sum.TotalQuestions != 1 || sum.TotalCategories != 1 {
		t.Errorf("unexpected content counts: %+v", sum)
	}
	if sum.TotalTests != 2 || sum.TotalAnswered != 20 || sum.TotalCorrect != 15 {
		t.Errorf("unexpected test counts: %+v", sum)
	}
	if sum.AvgSuccessRate != 75.0 {
		t.Errorf("expected avg success 75.0, got %v", sum.AvgSuccessRate)
	}
}

func TestDailyActivity(t *testing.T) {
	s := newTestStore(t)
	catID := insertTestCategory(t, s, "Basics")

	now := time.Now()
	insertTestResult(t, s, 1, catID, 5, 5, now)
	insertTestResult(t, s, 1, catID, 5, 4, now)
	insertTestResult(t, s, 1, catID, 5, 3, now.AddDate(0, 0, -5))
	insertTestResult(t, s, 1, catID, 5, 2, now.AddDate(0, 0, -45)) // outside the window

	days, err := s.DailyActivity(30)
	if err != nil {
		t.Fatalf("DailyActivity: %v", err)
	}
	if len(days) != 2 {
		t.Fatalf("expected 2 active days, got %d: %+v", len(days), days)
	}
	// Ascending by date; today last with both tests.
	if days[0].TestsCount != 1 || days[1].TestsCount != 2 {
		t.Errorf("unexpected counts: %+v", days)
	}
}

func TestCategoryPopularity(t *testing.T) {
	s := newTestStore(t)
	basics := insertTestCategory(t, s, "Basics")
	nets := insertTestCategory(t, s, "Networking")

	insertTestResult(t, s, 1, nets, 5, 5, time.Now())
	insertTestResult(t, s, 1, basics, 5, 5, time.Now())
	insertTestResult(t, s, 2, basics, 5, 5, time.Now())

	pop, err := s.CategoryPopularity()
	if err != nil {
		t.Fatalf("CategoryPopularity: %v", err)
	}
	if len(pop) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(pop))
	}
	if pop[0].CategoryName != "Basics" || pop[0].TestsCount != 2 {
		t.Errorf("unexpected first row: %+v", pop[0])
	}
}

func TestDifficultyDistribution(t *testing.T) {
	s := newTestStore(t)
	catID := insertTestCategory(t, s, "Basics")
	easy := insertTestQuestion(t, s, catID, "E", model.DifficultyEasy)
	hard := insertTestQuestion(t, s, catID, "H", model.DifficultyHard)

	resultID := insertTestResult(t, s, 1, catID, 3, 2, time.Now())
	for _, qid := range []int64{easy, easy, hard} {
		if _, err := s.db.Exec(
			`INSERT INTO answer_details (test_result_id, question_id, user_answer, is_correct, time_spent)
			 VALUES (?, ?, ?, ?, ?)`, resultID, qid, "a", true, 1,
		); err != nil {
			t.Fatalf("insert answer detail: %v", err)
		}
	}

	// Deactivating a question must not erase its history.
	q, _ := s.GetQuestion(hard)
	q.Active = false
	if err := s.UpdateQuestion(q); err != nil {
		t.Fatalf("UpdateQuestion: %v", err)
	}

	dist, err := s.DifficultyDistribution()
	if err != nil {
		t.Fatalf("DifficultyDistribution: %v", err)
	}
	if len(dist) != 2 {
		t.Fatalf("expected 2 levels, got %d", len(dist))
	}
	if dist[0].Difficulty != model.DifficultyEasy || dist[0].AnsweredCount != 2 {
		t.Errorf("unexpected easy row: %+v", dist[0])
	}
	if dist[1].Difficulty != model.DifficultyHard || dist[1].AnsweredCount != 1 {
		t.Errorf("unexpected hard row: %+v", dist[1])
	}
}

func TestUsers(t *testing.T) {
	s := newTestStore(t)

	// Missing user resolves to nil.
	u, err := s.GetUserByUsername("nope")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if u != nil {
		t.Errorf("expected nil for missing user, got %+v", u)
	}

	id, err := s.CreateUser("olena", "olena@example.com", "secret123", false)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	u, err = s.GetUserByID(id)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if u == nil || u.Username != "olena" || u.IsAdmin {
		t.Fatalf("unexpected user: %+v", u)
	}
	if u.PasswordHash == "secret123" {
		t.Error("password stored in plain text")
	}

	// Authenticate succeeds with the right password and returns nil otherwise.
	u, err = s.Authenticate("olena", "secret123")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if u == nil {
		t.Fatal("expected successful authentication")
	}
	u, err = s.Authenticate("olena", "wrong")
	if err != nil {
		t.Fatalf("Authenticate wrong password: %v", err)
	}
	if u != nil {
		t.Error("expected nil for wrong password")
	}
	u, err = s.Authenticate("ghost", "secret123")
	if err != nil {
		t.Fatalf("Authenticate unknown user: %v", err)
	}
	if u != nil {
		t.Error("expected nil for unknown user")
	}

	if err := s.ToggleAdmin(id); err != nil {
		t.Fatalf("ToggleAdmin: %v", err)
	}
	u, _ = s.GetUserByID(id)
	if !u.IsAdmin {
		t.Error("expected admin after toggle")
	}

	count, err := s.UserCount()
	if err != nil {
		t.Fatalf("UserCount: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 user, got %d", count)
	}
}

func TestImportQuestions(t *testing.T) {
	s := newTestStore(t)

	imports := []model.QuestionImport{
		{Category: "Basics", Text: "Q1", Type: model.TypeTextInput, Answer: "a", Difficulty: 1},
		{Category: "Basics", Text: "Q2", Type: model.TypeTrueFalse, Answer: "true", Difficulty: 2},
		{Category: "Networking", Text: "Q3", Type: model.TypeMultipleChoice, Answer: "x",
			Options: []string{"x", "y", "z"}, Difficulty: 9}, // out-of-range difficulty falls back to easy
	}
	count, err := s.ImportQuestions(imports)
	if err != nil {
		t.Fatalf("ImportQuestions: %v", err)
	}
	if count != 3 {
		t.Errorf("expected 3 imported, got %d", count)
	}

	// Categories are created on first mention.
	cats, _ := s.ListCategories()
	if len(cats) != 2 {
		t.Errorf("expected 2 categories, got %d", len(cats))
	}

	qs, err := s.SelectQuestions(cats[1].ID, 10) // Networking
	if err != nil {
		t.Fatalf("SelectQuestions: %v", err)
	}
	if len(qs) != 1 {
		t.Fatalf("expected 1 question, got %d", len(qs))
	}
	if qs[0].Difficulty != model.DifficultyEasy {
		t.Errorf("expected fallback difficulty %d, got %d", model.DifficultyEasy, qs[0].Difficulty)
	}

	// Unknown type is rejected.
	_, err = s.ImportQuestions([]model.QuestionImport{
		{Category: "Basics", Text: "bad", Type: "essay", Answer: "a"},
	})
	if err == nil {
		t.Error("expected error for unknown question type")
	}

	// Multiple choice needs at least two options.
	_, err = s.ImportQuestions([]model.QuestionImport{
		{Category: "Basics", Text: "bad", Type: model.TypeMultipleChoice, Answer: "x", Options: []string{"x"}},
	})
	if err == nil {
		t.Error("expected error for single-option question")
	}
}

func TestImportedFileHash(t *testing.T) {
	s := newTestStore(t)

	// Missing file returns empty string.
	hash, err := s.GetImportedFileHash("/some/path.json")
	if err != nil {
		t.Fatalf("GetImportedFileHash: %v", err)
	}
	if hash != "" {
		t.Errorf("expected empty hash, got %q", hash)
	}

	if err := s.SetImportedFileHash("/some/path.json", "abc123"); err != nil {
		t.Fatalf("SetImportedFileHash: %v", err)
	}
	hash, err = s.GetImportedFileHash("/some/path.json")
	if err != nil {
		t.Fatalf("GetImportedFileHash: %v", err)
	}
	if hash != "abc123" {
		t.Errorf("expected 'abc123', got %q", hash)
	}

	// Update existing.
	if err := s.SetImportedFileHash("/some/path.json", "def456"); err != nil {
		t.Fatalf("SetImportedFileHash update: %v", err)
	}
	hash, _ = s.GetImportedFileHash("/some/path.json")
	if hash != "def456" {
		t.Errorf("expected 'def456', got %q", hash)
	}
}

func TestExportAllResults(t *testing.T) {
	s := newTestStore(t)

	userID, err := s.CreateUser("olena", "", "secret123", false)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	catID := insertTestCategory(t, s, "Basics")
	qID := insertTestQuestion(t, s, catID, "Q1", model.DifficultyEasy)

	gs := &session.GradedSession{
		UserID:         userID,
		CategoryID:     catID,
		StartedAt:      time.Now(),
		TotalQuestions: 1,
		CorrectAnswers: 1,
		TimeSpent:      10,
		Answers: []session.GradedAnswer{
			{Question: model.Question{ID: qID}, UserAnswer: "answer for Q1", IsCorrect: true, TimeSpent: 10},
		},
	}
	if _, err := s.SaveResult(gs); err != nil {
		t.Fatalf("SaveResult: %v", err)
	}

	results, err := s.ExportAllResults()
	if err != nil {
		t.Fatalf("ExportAllResults: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	r := results[0]
	if r.Username != "olena" || r.CategoryName != "Basics" {
		t.Errorf("unexpected export row: %+v", r)
	}
	if r.Percentage != 100.0 {
		t.Errorf("expected 100.0, got %v", r.Percentage)
	}
	if len(r.Answers) != 1 || !r.Answers[0].IsCorrect {
		t.Errorf("unexpected answers: %+v", r.Answers)
	}
}
