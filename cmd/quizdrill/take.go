package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mkravets/quizdrill/internal/i18n"
	"github.com/mkravets/quizdrill/internal/model"
	"github.com/mkravets/quizdrill/internal/session"
	"github.com/mkravets/quizdrill/internal/store"
)

func takeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "take",
		Short: "Take a test in a chosen category",
		RunE:  runTake,
	}
	f := cmd.Flags()
	addCommonFlags(f)
	f.StringP("user", "u", "", "Username taking the test (required)")
	f.String("password", "", "Password (or set QUIZDRILL_PASSWORD; skips check when empty)")
	f.StringP("category", "c", "", "Category name (interactive choice when empty)")
	f.IntP("count", "n", 10, "Number of questions")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func runTake(cmd *cobra.Command, _ []string) error {
	v, db, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	user, err := resolveUser(db, v.GetString("user"), v.GetString("password"))
	if err != nil {
		return err
	}

	in := bufio.NewScanner(os.Stdin)
	category, err := chooseCategory(db, in, v.GetString("category"))
	if err != nil {
		return err
	}

	count := v.GetInt("count")
	sess, err := session.Start(db, user.ID, category.ID, count)
	if errors.Is(err, session.ErrInsufficientQuestions) {
		fmt.Println(i18n.T("NotEnoughQuestions"))
		return nil
	}
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	if sess.Len() < count {
		fmt.Println(i18n.Td("ShortSession", map[string]any{"Got": sess.Len(), "Want": count}))
	}

	for q := sess.Current(); q != nil; q = sess.Current() {
		printQuestion(q, sess.Position()+1, sess.Len())
		answer, ok := readAnswer(in, q)
		if !ok {
			// Input closed mid-test: drop the attempt without a trace.
			if err := sess.Abandon(); err != nil {
				return err
			}
			fmt.Println(i18n.T("SessionAbandoned"))
			return nil
		}
		if err := sess.Submit(answer); err != nil {
			return fmt.Errorf("submit answer: %w", err)
		}
	}

	graded, err := sess.Finish()
	if err != nil {
		return fmt.Errorf("finish session: %w", err)
	}
	if _, err := db.SaveResult(graded); err != nil {
		return fmt.Errorf("save result: %w", err)
	}

	printSummary(graded)
	printReview(graded)
	return nil
}

// resolveUser looks up the user, verifying the password when one is given.
func resolveUser(db *store.Store, username, password string) (*model.User, error) {
	if password != "" {
		user, err := db.Authenticate(username, password)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, fmt.Errorf("invalid username or password")
		}
		return user, nil
	}
	user, err := db.GetUserByUsername(username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("unknown user %q", username)
	}
	return user, nil
}

func chooseCategory(db *store.Store, in *bufio.Scanner, name string) (*model.Category, error) {
	if name != "" {
		category, err := db.GetCategoryByName(name)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, fmt.Errorf("unknown category %q", name)
		}
		return category, nil
	}

	categories, err := db.ListCategories()
	if err != nil {
		return nil, err
	}
	if len(categories) == 0 {
		return nil, errors.New(i18n.T("NoCategories"))
	}

	fmt.Println(i18n.T("ChooseCategory"))
	for i, c := range categories {
		fmt.Printf("  %d. %s", i+1, c.Name)
		if c.Description != "" {
			fmt.Printf(" — %s", c.Description)
		}
		fmt.Println()
	}
	for {
		fmt.Print("> ")
		if !in.Scan() {
			return nil, errors.New("input closed")
		}
		n, err := strconv.Atoi(strings.TrimSpace(in.Text()))
		if err == nil && n >= 1 && n <= len(categories) {
			return &categories[n-1], nil
		}
	}
}

func printQuestion(q *model.Question, index, total int) {
	fmt.Println()
	fmt.Println(i18n.Td("QuestionProgress", map[string]any{
		"Index":      index,
		"Total":      total,
		"Difficulty": q.Difficulty,
	}))
	fmt.Println(q.Text)
	switch q.Type {
	case model.TypeMultipleChoice:
		for i, opt := range q.Options {
			fmt.Printf("  %d. %s\n", i+1, opt)
		}
	case model.TypeTrueFalse:
		fmt.Println(i18n.T("TrueFalseHint"))
	}
}

// readAnswer reads one answer line. Multiple-choice answers may be given as
// an option number, which is mapped back to the option text before grading.
func readAnswer(in *bufio.Scanner, q *model.Question) (string, bool) {
	fmt.Printf("%s: ", i18n.T("EnterAnswer"))
	if !in.Scan() {
		return "", false
	}
	answer := strings.TrimSpace(in.Text())
	if q.Type == model.TypeMultipleChoice {
		if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(q.Options) {
			return q.Options[n-1], true
		}
	}
	return answer, true
}

func printSummary(gs *session.GradedSession) {
	fmt.Println()
	fmt.Println(i18n.T("ResultsHeader"))
	fmt.Println(i18n.Td("CorrectOutOf", map[string]any{
		"Correct": gs.CorrectAnswers,
		"Total":   gs.TotalQuestions,
	}))
	fmt.Println(i18n.Td("PercentageLine", map[string]any{"Percentage": formatPercent(gs.Percentage)}))
	fmt.Println(i18n.Td("TimeSpentLine", map[string]any{"Seconds": gs.TimeSpent}))
	fmt.Println(gradeFor(gs.Percentage))
}

// gradeFor maps a percentage to the traditional grade line.
func gradeFor(percentage float64) string {
	switch {
	case percentage >= 90:
		return i18n.T("GradeExcellent")
	case percentage >= 75:
		return i18n.T("GradeGood")
	case percentage >= 60:
		return i18n.T("GradeSatisfactory")
	default:
		return i18n.T("GradePoor")
	}
}

func printReview(gs *session.GradedSession) {
	fmt.Println()
	fmt.Println(i18n.T("ReviewHeader"))
	for i, a := range gs.Answers {
		mark := i18n.T("MarkIncorrect")
		if a.IsCorrect {
			mark = i18n.T("MarkCorrect")
		}
		fmt.Printf("%d. %s [%s]\n", i+1, a.Question.Text, mark)
		answer := a.UserAnswer
		if answer == "" {
			answer = i18n.T("NoAnswer")
		}
		fmt.Println("   " + i18n.Td("YourAnswer", map[string]any{"Answer": answer}))
		if !a.IsCorrect {
			fmt.Println("   " + i18n.Td("RightAnswer", map[string]any{"Answer": a.Question.CorrectAnswer}))
		}
		if a.Question.Explanation != "" {
			fmt.Println("   " + i18n.Td("ExplanationLine", map[string]any{"Text": a.Question.Explanation}))
		}
	}
}

func formatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
