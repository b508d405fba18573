// Package quiz supplies trivia questions for the round-winner quiz.
package quiz

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/scythe504/stopgo-backend/internal"
)

const AnswerCount = 4

var ErrMalformedQuestion = errors.New("malformed quiz question")

// Provider fetches one question. Implementations must honor ctx cancellation.
type Provider interface {
	FetchQuestion(ctx context.Context) (internal.QuizQuestion, error)
}

type ProviderFunc func(ctx context.Context) (internal.QuizQuestion, error)

func (f ProviderFunc) FetchQuestion(ctx context.Context) (internal.QuizQuestion, error) {
	return f(ctx)
}

// Validate checks the provider contract: a non-empty question, exactly four
// distinct non-empty answers, and a correct answer that is one of them.
func Validate(q internal.QuizQuestion) error {
	if strings.TrimSpace(q.Question) == "" {
		return fmt.Errorf("%w: empty question", ErrMalformedQuestion)
	}
	if len(q.Answers) != AnswerCount {
		return fmt.Errorf("%w: want %d answers, got %d", ErrMalformedQuestion, AnswerCount, len(q.Answers))
	}
	seen := make(map[string]bool, len(q.Answers))
	for _, a := range q.Answers {
		if strings.TrimSpace(a) == "" {
			return fmt.Errorf("%w: empty answer", ErrMalformedQuestion)
		}
		if seen[a] {
			return fmt.Errorf("%w: duplicate answer %q", ErrMalformedQuestion, a)
		}
		seen[a] = true
	}
	if !slices.Contains(q.Answers, q.CorrectAnswer) {
		return fmt.Errorf("%w: correct answer %q not among answers", ErrMalformedQuestion, q.CorrectAnswer)
	}
	return nil
}

// IsCorrect reports whether choice matches the question's correct answer,
// ignoring case and surrounding whitespace.
func IsCorrect(q internal.QuizQuestion, choice string) bool {
	return strings.EqualFold(strings.TrimSpace(choice), strings.TrimSpace(q.CorrectAnswer))
}
