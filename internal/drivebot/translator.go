package drivebot

import (
	"context"
	"strings"

	"driveup-workers/internal/common/genai"
)

const (
	NoResultsAnswer = "I couldn't find any matching cars. Try a different question!"
	FallbackAnswer  = "I'm sorry, I couldn't find an answer for that. Maybe try rephrasing?"
)

// NaturalLanguageQueryTranslator turns a car question into a read-only SQL
// statement over the DriveBot table.
type NaturalLanguageQueryTranslator interface {
	Translate(ctx context.Context, question string, history []genai.Message) (string, error)
}

type GenAITranslator struct {
	completer genai.Completer
}

func NewTranslator(completer genai.Completer) *GenAITranslator {
	return &GenAITranslator{completer: completer}
}

// Translate returns ErrUnsafeSQL when the generated statement fails CheckReadOnly.
func (t *GenAITranslator) Translate(ctx context.Context, question string, history []genai.Message) (string, error) {
	reply, err := t.completer.Complete(ctx, TranslationMessages(question, history))
	if err != nil {
		return "", err
	}
	return CheckReadOnly(StripCodeFences(reply))
}

type Summarizer struct {
	completer genai.Completer
}

func NewSummarizer(completer genai.Completer) *Summarizer {
	return &Summarizer{completer: completer}
}

// Summarize answers without calling the model when there are no rows.
func (s *Summarizer) Summarize(ctx context.Context, rows []map[string]interface{}) (string, error) {
	if len(rows) == 0 {
		return NoResultsAnswer, nil
	}

	messages, err := SummaryMessages(rows)
	if err != nil {
		return "", err
	}
	reply, err := s.completer.Complete(ctx, messages)
	if err != nil {
		return "", err
	}

	if reply = strings.TrimSpace(reply); reply == "" {
		return FallbackAnswer, nil
	}
	return reply, nil
}
