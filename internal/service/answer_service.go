package service

import (
	"context"
	"strings"
)

// PromptTemplate is the single fixed prompt sent to the model
const PromptTemplate = "Answer the question based on the following context:\n\nContext: {context}\n\nQuestion: {question}\n\nAnswer: "

// Completer sends a single-turn prompt to a hosted chat model
type Completer interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// AnswerService formats retrieved context into the prompt and asks the model
type AnswerService struct {
	completer Completer
}

// NewAnswerService creates a new answer service
func NewAnswerService(completer Completer) *AnswerService {
	return &AnswerService{completer: completer}
}

// FormatPrompt fills the prompt template
func FormatPrompt(retrieved, question string) string {
	return strings.NewReplacer("{context}", retrieved, "{question}", question).Replace(PromptTemplate)
}

// GenerateResponse returns the model's reply verbatim. Model errors are
// returned unchanged.
func (s *AnswerService) GenerateResponse(ctx context.Context, retrieved, question string) (string, error) {
	return s.completer.Complete(ctx, FormatPrompt(retrieved, question), 0)
}
