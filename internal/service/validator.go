package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var ErrInvalidInput = errors.New("invalid input")

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateStruct runs the struct tags of v and wraps failures in ErrInvalidInput.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed on %q", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(msgs, "; "))
}

// closeAnswerThreshold is the similarity above which a wrong answer counts as a near miss.
const closeAnswerThreshold = 0.75

// IsCloseAnswer reports whether a wrong answer is only a typo away from the
// expected one. It never affects grading, only feedback.
func IsCloseAnswer(userAnswer, correctAnswer string) bool {
	user := normalizeAnswer(userAnswer)
	correct := normalizeAnswer(correctAnswer)

	if user == "" || user == correct {
		return false
	}

	return similarity(user, correct) >= closeAnswerThreshold
}

func normalizeAnswer(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Join(strings.Fields(s), " ")
}

// similarity calculates the similarity between two strings using Levenshtein distance.
func similarity(s1, s2 string) float64 {
	distance := levenshteinDistance(s1, s2)
	maxLen := max(len([]rune(s1)), len([]rune(s2)))

	if maxLen == 0 {
		return 1.0
	}

	return 1.0 - float64(distance)/float64(maxLen)
}

// levenshteinDistance calculates the Levenshtein distance between two strings.
func levenshteinDistance(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)

	cols := len(r2) + 1

	// Two rows instead of the full matrix.
	prev := make([]int, cols)
	curr := make([]int, cols)

	for j := 0; j < cols; j++ {
		prev[j] = j
	}

	for i := 1; i <= len(r1); i++ {
		curr[0] = i

		for j := 1; j < cols; j++ {
			cost := 1
			if r1[i-1] == r2[j-1] {
				cost = 0
			}

			curr[j] = min(
				curr[j-1]+1,    // insertion
				prev[j]+1,      // deletion
				prev[j-1]+cost, // substitution
			)
		}

		prev, curr = curr, prev
	}

	return prev[cols-1]
}
