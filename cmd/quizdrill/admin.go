package main

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mkravets/quizdrill/internal/model"
	"github.com/mkravets/quizdrill/internal/store"
)

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load question files and create the default admin",
		RunE:  runSeed,
	}
	f := cmd.Flags()
	addCommonFlags(f)
	f.StringSliceP("questions", "q", []string{"questions/informatics_uk.json"}, "Paths to question JSON files (repeatable)")
	f.String("admin-password", "", "Initial admin password (or set QUIZDRILL_ADMIN_PASSWORD)")
	return cmd
}

func runSeed(cmd *cobra.Command, _ []string) error {
	v, db, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := seedAdmin(db, v.GetString("admin-password")); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if err := loadQuestions(db, v.GetStringSlice("questions")); err != nil {
		return fmt.Errorf("load questions: %w", err)
	}
	return nil
}

// loadQuestions imports each file once, keyed by content hash, so reruns are
// idempotent. A changed file is skipped rather than re-imported: replacing
// questions under historical results would break their integrity.
func loadQuestions(db *store.Store, paths []string) error {
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		hash := sha256sum(data)
		storedHash, err := db.GetImportedFileHash(path)
		if err != nil {
			return fmt.Errorf("check import status for %s: %w", path, err)
		}
		if storedHash == hash {
			slog.Info("questions file unchanged, skipping", "path", path)
			continue
		}
		if storedHash != "" {
			slog.Warn("questions file changed since last import, skipping", "path", path)
			continue
		}

		var imports []model.QuestionImport
		if err := json.Unmarshal(data, &imports); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		count, err := db.ImportQuestions(imports)
		if err != nil {
			return fmt.Errorf("import %s: %w", path, err)
		}
		if err := db.SetImportedFileHash(path, hash); err != nil {
			return fmt.Errorf("record import for %s: %w", path, err)
		}
		slog.Info("imported questions", "path", path, "count", count)
	}
	return nil
}

func sha256sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// seedAdmin creates the default admin account when the database has no
// users yet.
func seedAdmin(db *store.Store, password string) error {
	count, err := db.UserCount()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	if password == "" {
		return fmt.Errorf("admin password is required: set --admin-password or QUIZDRILL_ADMIN_PASSWORD")
	}
	if _, err := db.CreateUser("admin", "", password, true); err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}
	slog.Info("seeded default admin user", "username", "admin")
	return nil
}

func userCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}

	add := &cobra.Command{
		Use:   "add",
		Short: "Create a user",
		RunE:  runUserAdd,
	}
	af := add.Flags()
	addCommonFlags(af)
	af.StringP("user", "u", "", "Username (required)")
	af.String("email", "", "Email address")
	af.String("password", "", "Password (required)")
	af.Bool("admin", false, "Grant admin rights")
	_ = add.MarkFlagRequired("user")
	_ = add.MarkFlagRequired("password")

	list := &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE:  runUserList,
	}
	addCommonFlags(list.Flags())

	toggle := &cobra.Command{
		Use:   "toggle-admin <id>",
		Short: "Flip a user's admin flag",
		Args:  cobra.ExactArgs(1),
		RunE:  runUserToggleAdmin,
	}
	addCommonFlags(toggle.Flags())

	cmd.AddCommand(add, list, toggle)
	return cmd
}

func runUserAdd(cmd *cobra.Command, _ []string) error {
	v, db, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	password := v.GetString("password")
	if len(password) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}
	id, err := db.CreateUser(v.GetString("user"), v.GetString("email"), password, v.GetBool("admin"))
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	fmt.Printf("created user %d\n", id)
	return nil
}

func runUserList(cmd *cobra.Command, _ []string) error {
	_, db, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	users, err := db.ListUsers()
	if err != nil {
		return err
	}
	for _, u := range users {
		role := ""
		if u.IsAdmin {
			role = " (admin)"
		}
		fmt.Printf("%4d  %s%s\n", u.ID, u.Username, role)
	}
	return nil
}

func runUserToggleAdmin(cmd *cobra.Command, args []string) error {
	_, db, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid user id %q", args[0])
	}
	if err := db.ToggleAdmin(id); err != nil {
		return fmt.Errorf("toggle admin: %w", err)
	}
	return nil
}
