package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/liliang-cn/azrag/internal/domain"
)

// Retriever returns the content of the chunks most relevant to a query
type Retriever interface {
	SearchDocuments(ctx context.Context, query string, top int) ([]string, error)
}

// Answerer produces an answer from retrieved context
type Answerer interface {
	GenerateResponse(ctx context.Context, retrieved, question string) (string, error)
}

// AskService answers questions from indexed documents. It holds no
// mutable state and is safe for concurrent use.
type AskService struct {
	retriever Retriever
	answerer  Answerer
	logger    *zap.Logger
}

// NewAskService creates a new ask service
func NewAskService(retriever Retriever, answerer Answerer, logger *zap.Logger) *AskService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AskService{
		retriever: retriever,
		answerer:  answerer,
		logger:    logger,
	}
}

// Ask retrieves the top chunks for question, joins them with newlines and
// asks the model. An empty retrieval still produces an answer.
func (s *AskService) Ask(ctx context.Context, question string) (*domain.Turn, error) {
	contents, err := s.retriever.SearchDocuments(ctx, question, DefaultTop)
	if err != nil {
		return nil, err
	}

	turn := &domain.Turn{
		Question: question,
		Context:  strings.Join(contents, "\n"),
	}

	answer, err := s.answerer.GenerateResponse(ctx, turn.Context, question)
	if err != nil {
		return nil, err
	}
	turn.Answer = answer

	s.logger.Debug("Answered question",
		zap.Int("chunks", len(contents)),
		zap.Int("answer_len", len(answer)),
	)
	return turn, nil
}
