package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/liliang-cn/azrag/internal/config"
	"github.com/liliang-cn/azrag/internal/domain"
	"github.com/liliang-cn/azrag/internal/search"
)

// DefaultTop is the number of chunks retrieved per question
const DefaultTop = 3

const defaultPollInterval = 500 * time.Millisecond

// SearchClient is the subset of the Azure AI Search API the index service needs
type SearchClient interface {
	ListIndexes(ctx context.Context) ([]string, error)
	GetIndex(ctx context.Context, name string) (*domain.Index, error)
	CreateIndex(ctx context.Context, index domain.Index) (*domain.Index, error)
	DeleteIndex(ctx context.Context, name string) error
	UploadDocuments(ctx context.Context, indexName string, docs []domain.SearchDocument) ([]domain.IndexingResult, error)
	Search(ctx context.Context, indexName string, q search.Query) (*search.Results, error)
}

// IndexService owns the lifecycle of one named search index
type IndexService struct {
	client       SearchClient
	indexName    string
	batchSize    int
	readyTimeout time.Duration
	pollInterval time.Duration
	logger       *zap.Logger
}

// NewIndexService creates a new index service
func NewIndexService(client SearchClient, cfg *config.Config, logger *zap.Logger) *IndexService {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &IndexService{
		client:       client,
		indexName:    config.DefaultIndexName,
		batchSize:    search.MaxBatchSize,
		readyTimeout: 30 * time.Second,
		pollInterval: defaultPollInterval,
		logger:       logger,
	}
	if cfg != nil {
		if cfg.Search.IndexName != "" {
			s.indexName = cfg.Search.IndexName
		}
		if cfg.Search.ReadyTimeout > 0 {
			s.readyTimeout = cfg.Search.ReadyTimeout
		}
	}
	return s
}

// IndexName returns the managed index name
func (s *IndexService) IndexName() string {
	return s.indexName
}

// ListIndexes lists every index on the service
func (s *IndexService) ListIndexes(ctx context.Context) ([]string, error) {
	return s.client.ListIndexes(ctx)
}

// DeleteIndex deletes the index if it exists and waits until the service
// no longer reports it. A missing index is not an error.
func (s *IndexService) DeleteIndex(ctx context.Context) error {
	err := s.client.DeleteIndex(ctx, s.indexName)
	if search.IsNotFound(err) {
		s.logger.Info("Index does not exist", zap.String("index", s.indexName))
		return nil
	}
	if err != nil {
		s.logger.Error("Failed to delete index", zap.String("index", s.indexName), zap.Error(err))
		return fmt.Errorf("failed to delete index %s: %w", s.indexName, err)
	}

	s.logger.Info("Deleted existing index", zap.String("index", s.indexName))
	return s.waitFor(ctx, false)
}

// CreateIndex replaces the index with a fresh one using the fixed schema
func (s *IndexService) CreateIndex(ctx context.Context) (*domain.Index, error) {
	if err := s.DeleteIndex(ctx); err != nil {
		return nil, err
	}

	created, err := s.client.CreateIndex(ctx, domain.DocumentIndex(s.indexName))
	if err != nil {
		s.logger.Error("Failed to create index", zap.String("index", s.indexName), zap.Error(err))
		return nil, fmt.Errorf("failed to create index %s: %w", s.indexName, err)
	}
	s.logger.Info("Created index", zap.String("index", created.Name))

	if err := s.waitFor(ctx, true); err != nil {
		return nil, err
	}
	return created, nil
}

// ToSearchDocuments assigns each chunk its zero-based position as id
func ToSearchDocuments(chunks []domain.Chunk) []domain.SearchDocument {
	docs := make([]domain.SearchDocument, len(chunks))
	for i, c := range chunks {
		source := c.Source
		if source == "" {
			source = domain.UnknownSource
		}
		docs[i] = domain.SearchDocument{
			ID:      strconv.Itoa(i),
			Content: c.Content,
			Source:  source,
		}
	}
	return docs
}

// UploadDocuments uploads chunks in batches of at most the service limit.
// The first batch-level failure aborts the run; per-item failures are
// counted and reported.
func (s *IndexService) UploadDocuments(ctx context.Context, chunks []domain.Chunk) (*domain.UploadSummary, error) {
	docs := ToSearchDocuments(chunks)
	summary := &domain.UploadSummary{Total: len(docs)}

	for start := 0; start < len(docs); start += s.batchSize {
		end := min(start+s.batchSize, len(docs))
		batch := docs[start:end]
		number := start/s.batchSize + 1

		results, err := s.client.UploadDocuments(ctx, s.indexName, batch)
		if err != nil {
			s.logger.Error("Failed to upload batch", zap.Int("batch", number), zap.Error(err))
			return summary, fmt.Errorf("failed to upload batch %d: %w", number, err)
		}

		succeeded := 0
		for _, r := range results {
			if r.Succeeded {
				succeeded++
			}
		}
		succeeded = min(succeeded, len(batch))

		br := domain.BatchResult{
			Number:    number,
			Size:      len(batch),
			Succeeded: succeeded,
			Failed:    len(batch) - succeeded,
		}
		summary.Batches = append(summary.Batches, br)
		summary.Succeeded += br.Succeeded
		summary.Failed += br.Failed

		s.logger.Info("Uploaded batch",
			zap.Int("batch", number),
			zap.Int("succeeded", br.Succeeded),
			zap.Int("size", br.Size),
		)
	}

	s.logger.Info("Upload completed", zap.Int("total", summary.Total))
	return summary, nil
}

// VerifyIndex fetches the index fields and the total document count
func (s *IndexService) VerifyIndex(ctx context.Context) (*domain.IndexReport, error) {
	index, err := s.client.GetIndex(ctx, s.indexName)
	if search.IsNotFound(err) {
		return nil, fmt.Errorf("index %s: %w: %w", s.indexName, domain.ErrNotFound, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get index %s: %w", s.indexName, err)
	}

	res, err := s.client.Search(ctx, s.indexName, search.Query{Search: "*", Top: 1, Count: true})
	if err != nil {
		return nil, fmt.Errorf("failed to count documents: %w", err)
	}

	report := &domain.IndexReport{Name: index.Name, Fields: index.Fields}
	if res.Count != nil {
		report.DocumentCount = *res.Count
	}

	s.logger.Info("Verified index",
		zap.String("index", report.Name),
		zap.Strings("fields", index.FieldNames()),
		zap.Int64("documents", report.DocumentCount),
	)
	return report, nil
}

// SearchDocuments returns up to top content strings in the service's
// relevance order. Ranking is entirely up to the search service.
func (s *IndexService) SearchDocuments(ctx context.Context, query string, top int) ([]string, error) {
	if top <= 0 {
		top = DefaultTop
	}

	res, err := s.client.Search(ctx, s.indexName, search.Query{Search: query, Top: top})
	if err != nil {
		return nil, fmt.Errorf("failed to search index %s: %w", s.indexName, err)
	}

	contents := make([]string, 0, min(top, len(res.Value)))
	for _, r := range res.Value {
		if len(contents) == top {
			break
		}
		contents = append(contents, r.Content)
	}
	return contents, nil
}

// waitFor polls the index until it exists (or is gone), bounded by the
// ready timeout.
func (s *IndexService) waitFor(parent context.Context, exists bool) error {
	ctx, cancel := context.WithTimeout(parent, s.readyTimeout)
	defer cancel()

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		_, err := s.client.GetIndex(ctx, s.indexName)
		switch {
		case err == nil && exists:
			return nil
		case search.IsNotFound(err) && !exists:
			return nil
		case err != nil && !search.IsNotFound(err) && ctx.Err() == nil:
			return fmt.Errorf("failed to check index %s: %w", s.indexName, err)
		}

		select {
		case <-ctx.Done():
			if err := parent.Err(); err != nil {
				return err
			}
			return fmt.Errorf("%w: %s", domain.ErrIndexNotReady, s.indexName)
		case <-ticker.C:
		}
	}
}
