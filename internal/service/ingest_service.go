package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tmc/langchaingo/textsplitter"
	"go.uber.org/zap"

	"github.com/liliang-cn/azrag/internal/config"
	"github.com/liliang-cn/azrag/internal/domain"
)

// Chunking defaults
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// IngestResult is the output of processing a PDF directory
type IngestResult struct {
	Files  []string
	Chunks []domain.Chunk
	// CreatedDir is set when the directory did not exist and was created
	CreatedDir bool
}

// IngestService turns a directory of PDFs into overlapping text chunks
type IngestService struct {
	splitter textsplitter.TextSplitter
	extract  func(path string) ([]string, error)
	logger   *zap.Logger
}

// NewIngestService creates a new ingest service
func NewIngestService(cfg *config.Config, logger *zap.Logger) *IngestService {
	if logger == nil {
		logger = zap.NewNop()
	}

	size, overlap := DefaultChunkSize, DefaultChunkOverlap
	if cfg != nil {
		if cfg.Chunker.ChunkSize > 0 {
			size = cfg.Chunker.ChunkSize
		}
		if cfg.Chunker.ChunkOverlap >= 0 && cfg.Chunker.ChunkOverlap < size {
			overlap = cfg.Chunker.ChunkOverlap
		}
	}

	return &IngestService{
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(size),
			textsplitter.WithChunkOverlap(overlap),
			textsplitter.WithSeparators([]string{"\n\n", "\n", " ", ""}),
		),
		extract: extractPDFPages,
		logger:  logger,
	}
}

// IsPDF reports whether a file name has a .pdf suffix, ignoring case
func IsPDF(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}

// ProcessDirectory extracts and chunks every PDF in dir. A missing
// directory is created and yields an empty result, as does a directory
// without PDFs. Output order is file, then page, then chunk.
func (s *IngestService) ProcessDirectory(ctx context.Context, dir string) (*IngestResult, error) {
	result := &IngestResult{}

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create pdf directory: %w", err)
		}
		s.logger.Info("Created pdf directory", zap.String("dir", dir))
		result.CreatedDir = true
		return result, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to stat pdf directory: %w", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read pdf directory: %w", err)
	}

	for _, e := range entries {
		if e.Type().IsRegular() && IsPDF(e.Name()) {
			result.Files = append(result.Files, e.Name())
		}
	}
	sort.Strings(result.Files)

	if len(result.Files) == 0 {
		s.logger.Info("No PDF files found", zap.String("dir", dir))
		return result, nil
	}

	for _, name := range result.Files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pages, err := s.extract(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}

		chunks, err := s.SplitPages(pages, name)
		if err != nil {
			return nil, fmt.Errorf("failed to split %s: %w", name, err)
		}
		result.Chunks = append(result.Chunks, chunks...)

		s.logger.Info("Processed PDF",
			zap.String("file", name),
			zap.Int("pages", len(pages)),
			zap.Int("chunks", len(chunks)),
		)
	}

	return result, nil
}

// SplitPages chunks page texts in order, tagging each chunk with source
// and its one-based page number.
func (s *IngestService) SplitPages(pages []string, source string) ([]domain.Chunk, error) {
	if source == "" {
		source = domain.UnknownSource
	}

	var chunks []domain.Chunk
	for i, page := range pages {
		if strings.TrimSpace(page) == "" {
			continue
		}
		parts, err := s.splitter.SplitText(page)
		if err != nil {
			return nil, err
		}
		for _, part := range parts {
			if strings.TrimSpace(part) == "" {
				continue
			}
			chunks = append(chunks, domain.Chunk{
				Content: part,
				Source:  source,
				Page:    i + 1,
			})
		}
	}
	return chunks, nil
}
