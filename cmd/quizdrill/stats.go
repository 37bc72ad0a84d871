package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/mkravets/quizdrill/internal/i18n"
	"github.com/mkravets/quizdrill/internal/model"
	"github.com/mkravets/quizdrill/internal/store"
)

func statsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show a user's testing statistics",
		RunE:  runUserStats,
	}
	f := cmd.Flags()
	addCommonFlags(f)
	f.StringP("user", "u", "", "Username (required)")
	f.Int("recent", 10, "Number of recent results to show")
	_ = cmd.MarkFlagRequired("user")

	system := &cobra.Command{
		Use:   "system",
		Short: "Show system-wide statistics",
		RunE:  runSystemStats,
	}
	sf := system.Flags()
	addCommonFlags(sf)
	sf.Int("days", 30, "Daily activity window in days")
	cmd.AddCommand(system)

	return cmd
}

func runUserStats(cmd *cobra.Command, _ []string) error {
	v, db, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	user, err := db.GetUserByUsername(v.GetString("user"))
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("unknown user %q", v.GetString("user"))
	}

	summary, err := db.UserSummary(user.ID)
	if err != nil {
		return fmt.Errorf("user summary: %w", err)
	}

	fmt.Println(i18n.T("StatsHeader"))
	if summary.TestsCount == 0 {
		fmt.Println(i18n.T("NoTestsYet"))
		return nil
	}
	fmt.Println(i18n.Tp("TestsTaken", summary.TestsCount))
	fmt.Println(i18n.Td("AvgPercentageLine", map[string]any{"Percentage": formatPercent(summary.AvgPercentage)}))
	fmt.Println(i18n.Td("TotalTimeLine", map[string]any{"Seconds": summary.TotalTime}))

	breakdown, err := db.CategoryBreakdown(user.ID)
	if err != nil {
		return fmt.Errorf("category breakdown: %w", err)
	}
	if len(breakdown) > 0 {
		fmt.Println()
		fmt.Println(i18n.T("ByCategoryHeader"))
		for _, cs := range breakdown {
			fmt.Println("  " + i18n.Td("CategoryStatLine", map[string]any{
				"Name":       cs.CategoryName,
				"Tests":      cs.TestsCount,
				"Percentage": formatPercent(cs.AvgPercentage),
			}))
		}
	}

	recent, err := db.RecentResults(user.ID, v.GetInt("recent"))
	if err != nil {
		return fmt.Errorf("recent results: %w", err)
	}
	if len(recent) > 0 {
		fmt.Println()
		fmt.Println(i18n.T("RecentHeader"))
		for _, r := range recent {
			fmt.Println("  " + i18n.Td("RecentLine", map[string]any{
				"Date":       r.TestDate.Format("2006-01-02 15:04"),
				"Name":       r.CategoryName,
				"Correct":    r.CorrectAnswers,
				"Total":      r.TotalQuestions,
				"Percentage": formatPercent(r.Percentage),
			}))
		}
	}
	return nil
}

func runSystemStats(cmd *cobra.Command, _ []string) error {
	v, db, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	summary, err := db.SystemSummary()
	if err != nil {
		return fmt.Errorf("system summary: %w", err)
	}

	fmt.Println(i18n.T("SystemStatsHeader"))
	rows := []struct {
		label string
		value string
	}{
		{"users", strconv.Itoa(summary.TotalUsers)},
		{"admins", strconv.Itoa(summary.AdminUsers)},
		{"categories", strconv.Itoa(summary.TotalCategories)},
		{"questions", strconv.Itoa(summary.TotalQuestions)},
		{"tests", strconv.Itoa(summary.TotalTests)},
		{"answered", strconv.Itoa(summary.TotalAnswered)},
		{"correct", strconv.Itoa(summary.TotalCorrect)},
		{"avg success", formatPercent(summary.AvgSuccessRate) + "%"},
	}
	for _, r := range rows {
		fmt.Printf("  %-12s %s\n", r.label, r.value)
	}

	days := v.GetInt("days")
	activity, err := db.DailyActivity(days)
	if err != nil {
		return fmt.Errorf("daily activity: %w", err)
	}
	if len(activity) > 0 {
		fmt.Println()
		fmt.Println(i18n.Td("DailyActivityHeader", map[string]any{"Days": days}))
		for _, d := range activity {
			fmt.Printf("  %s  %d\n", d.Date, d.TestsCount)
		}
	}

	popularity, err := db.CategoryPopularity()
	if err != nil {
		return fmt.Errorf("category popularity: %w", err)
	}
	if len(popularity) > 0 {
		fmt.Println()
		fmt.Println(i18n.T("CategoryPopularityHeader"))
		for _, p := range popularity {
			fmt.Printf("  %-30s %d\n", p.CategoryName, p.TestsCount)
		}
	}

	distribution, err := db.DifficultyDistribution()
	if err != nil {
		return fmt.Errorf("difficulty distribution: %w", err)
	}
	if len(distribution) > 0 {
		fmt.Println()
		fmt.Println(i18n.T("DifficultyHeader"))
		for _, d := range distribution {
			fmt.Printf("  %d  %d\n", d.Difficulty, d.AnsweredCount)
		}
	}
	return nil
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "export {results|stats}",
		Short:     "Export results or statistics as JSON or CSV",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"results", "stats"},
		RunE:      runExport,
	}
	f := cmd.Flags()
	addCommonFlags(f)
	f.String("format", "json", "Output format (json, csv)")
	f.Int("days", 30, "Daily activity window in days")
	f.StringP("output", "o", "-", "Output file path (- for stdout)")
	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	v, db, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	w, closeOut, err := outputWriter(v.GetString("output"))
	if err != nil {
		return err
	}
	defer closeOut()

	switch args[0] {
	case "results":
		return exportResults(db, w, v.GetString("format"))
	case "stats":
		return exportStats(db, w, v.GetInt("days"), v.GetString("format"))
	}
	return fmt.Errorf("unknown export kind %q", args[0])
}

func exportResults(db *store.Store, w io.Writer, format string) error {
	results, err := db.ExportAllResults()
	if err != nil {
		return fmt.Errorf("export results: %w", err)
	}
	switch format {
	case "csv":
		return writeResultsCSV(w, results)
	case "json":
		return writeJSON(w, model.ResultsExport{ExportedAt: time.Now(), Results: results})
	}
	return fmt.Errorf("unknown format %q", format)
}

func exportStats(db *store.Store, w io.Writer, days int, format string) error {
	if format != "json" {
		return fmt.Errorf("stats export supports json only")
	}
	summary, err := db.SystemSummary()
	if err != nil {
		return err
	}
	activity, err := db.DailyActivity(days)
	if err != nil {
		return err
	}
	popularity, err := db.CategoryPopularity()
	if err != nil {
		return err
	}
	distribution, err := db.DifficultyDistribution()
	if err != nil {
		return err
	}
	return writeJSON(w, model.StatsExport{
		ExportedAt:             time.Now(),
		Summary:                summary,
		DailyActivity:          activity,
		CategoryPopularity:     popularity,
		DifficultyDistribution: distribution,
	})
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	_, err = fmt.Fprintln(w)
	return err
}

func writeResultsCSV(w io.Writer, results []model.ExportResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"username", "category", "test_date", "total_questions", "correct_answers", "percentage", "time_spent"}); err != nil {
		return err
	}
	for _, r := range results {
		record := []string{
			r.Username,
			r.CategoryName,
			r.TestDate.Format(time.RFC3339),
			strconv.Itoa(r.TotalQuestions),
			strconv.Itoa(r.CorrectAnswers),
			formatPercent(r.Percentage),
			strconv.Itoa(r.TimeSpent),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func outputWriter(path string) (io.Writer, func(), error) {
	if path == "" || path == "-" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output file: %w", err)
	}
	return f, func() { f.Close() }, nil
}
