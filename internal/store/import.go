package store

import (
	"database/sql"
	"fmt"

	"github.com/mkravets/quizdrill/internal/model"
)

// GetImportedFileHash returns the recorded content hash for a seed file.
// Returns empty string and nil error if the file was never imported.
func (s *Store) GetImportedFileHash(path string) (string, error) {
	var hash string
	err := s.db.QueryRow(`SELECT hash FROM imported_files WHERE path = ?`, path).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return hash, err
}

// SetImportedFileHash records the content hash of an imported seed file.
func (s *Store) SetImportedFileHash(path, hash string) error {
	_, err := s.db.Exec(
		`INSERT INTO imported_files (path, hash) VALUES (?, ?)
		 ON CONFLICT(path) DO UPDATE SET hash = ?`,
		path, hash, hash,
	)
	return err
}

// ImportQuestions inserts questions from a seed file, creating categories on
// first mention. Returns the number of inserted questions.
func (s *Store) ImportQuestions(imports []model.QuestionImport) (int, error) {
	categoryIDs := make(map[string]int64)
	inserted := 0
	for _, qi := range imports {
		if !qi.Type.Valid() {
			return inserted, fmt.Errorf("question %q: unknown type %q", qi.Text, qi.Type)
		}
		if qi.Type == model.TypeMultipleChoice && len(qi.Options) < 2 {
			return inserted, fmt.Errorf("question %q: multiple choice needs at least 2 options", qi.Text)
		}

		catID, ok := categoryIDs[qi.Category]
		if !ok {
			cat, err := s.GetCategoryByName(qi.Category)
			if err != nil {
				return inserted, fmt.Errorf("look up category %q: %w", qi.Category, err)
			}
			if cat != nil {
				catID = cat.ID
			} else {
				catID, err = s.InsertCategory(model.Category{Name: qi.Category})
				if err != nil {
					return inserted, fmt.Errorf("create category %q: %w", qi.Category, err)
				}
			}
			categoryIDs[qi.Category] = catID
		}

		difficulty := qi.Difficulty
		if difficulty < model.DifficultyEasy || difficulty > model.DifficultyHard {
			difficulty = model.DifficultyEasy
		}
		_, err := s.InsertQuestion(model.Question{
			CategoryID:    catID,
			Text:          qi.Text,
			Type:          qi.Type,
			CorrectAnswer: qi.Answer,
			Options:       qi.Options,
			Difficulty:    difficulty,
			Explanation:   qi.Explanation,
			Active:        true,
		})
		if err != nil {
			return inserted, fmt.Errorf("insert question %q: %w", qi.Text, err)
		}
		inserted++
	}
	return inserted, nil
}
