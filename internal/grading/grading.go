// Package grading decides correctness of submitted answers. It is pure: no
// store access, no error paths. Unrecognized input is simply incorrect.
package grading

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/mkravets/quizdrill/internal/model"
)

// True/false answers accept locale synonyms alongside the canonical words.
var (
	trueWords  = wordSet("true", "1", "yes", "так", "правда")
	falseWords = wordSet("false", "0", "no", "ні", "неправда")
)

func wordSet(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

// normalize trims surrounding whitespace and case-folds, so comparisons are
// insensitive to case in any script.
func normalize(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// Correct reports whether raw is a correct answer to q. An empty answer is
// always incorrect.
//
// Text-input and multiple-choice questions compare normalized strings.
// True/false questions map both sides through the synonym sets; an answer
// outside both sets never matches.
func Correct(q model.Question, raw string) bool {
	answer := normalize(raw)
	if answer == "" {
		return false
	}
	want := normalize(q.CorrectAnswer)

	if q.Type == model.TypeTrueFalse {
		av, aok := boolValue(answer)
		wv, wok := boolValue(want)
		return aok && wok && av == wv
	}
	return answer == want
}

// boolValue resolves a normalized word to a boolean via the synonym sets.
func boolValue(word string) (value, ok bool) {
	if _, hit := trueWords[word]; hit {
		return true, true
	}
	if _, hit := falseWords[word]; hit {
		return false, true
	}
	return false, false
}
