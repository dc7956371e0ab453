package service

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/liliang-cn/azrag/internal/domain"
)

// RunRecorder persists setup runs
type RunRecorder interface {
	Create(run *domain.SetupRun) error
	Finish(run *domain.SetupRun) error
}

// Troubleshooting is printed when a setup run fails
var Troubleshooting = []string{
	"Check your .env file contains correct credentials",
	"Verify your Azure Search service is running",
	"Ensure you have admin access to the service",
	"Check if your service quota/limits are not exceeded",
}

// SetupService rebuilds the search index from a directory of PDFs.
// It must not run while the server is answering questions from the same
// index; queries during a rebuild can see a missing or partial index.
type SetupService struct {
	ingest *IngestService
	index  *IndexService
	runs   RunRecorder
	out    io.Writer
	logger *zap.Logger
}

// NewSetupService creates a new setup service. runs may be nil.
func NewSetupService(ingest *IngestService, index *IndexService, runs RunRecorder, out io.Writer, logger *zap.Logger) *SetupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if out == nil {
		out = io.Discard
	}
	return &SetupService{
		ingest: ingest,
		index:  index,
		runs:   runs,
		out:    out,
		logger: logger,
	}
}

// Run creates the index, processes PDFs, uploads them and verifies the
// result. When dir holds no PDFs the freshly created index stays empty.
func (s *SetupService) Run(ctx context.Context, dir string) (*domain.SetupRun, error) {
	run := s.start()

	err := func() error {
		fmt.Fprintln(s.out, "\n1. Creating search index...")
		if _, err := s.index.CreateIndex(ctx); err != nil {
			return err
		}

		fmt.Fprintln(s.out, "\n2. Processing PDF documents...")
		res, err := s.process(ctx, dir)
		if err != nil {
			return err
		}
		run.Files = len(res.Files)
		run.Chunks = len(res.Chunks)
		if len(res.Chunks) == 0 {
			fmt.Fprintln(s.out, "No documents found to process!")
			run.Status = domain.RunStatusEmpty
			return nil
		}

		fmt.Fprintf(s.out, "\n3. Uploading %d documents to search index...\n", len(res.Chunks))
		if err := s.upload(ctx, run, res.Chunks); err != nil {
			return err
		}

		fmt.Fprintln(s.out, "\n4. Verifying index setup...")
		report, err := s.index.VerifyIndex(ctx)
		if err != nil {
			return err
		}
		PrintReport(s.out, report)
		return nil
	}()

	return s.finish(run, err)
}

// Init processes PDFs first and touches the index only when there is
// something to upload.
func (s *SetupService) Init(ctx context.Context, dir string) (*domain.SetupRun, error) {
	run := s.start()

	err := func() error {
		fmt.Fprintln(s.out, "Processing PDFs...")
		res, err := s.process(ctx, dir)
		if err != nil {
			return err
		}
		run.Files = len(res.Files)
		run.Chunks = len(res.Chunks)
		if len(res.Chunks) == 0 {
			fmt.Fprintln(s.out, "No documents to process. Please add PDFs and try again.")
			run.Status = domain.RunStatusEmpty
			return nil
		}

		fmt.Fprintln(s.out, "Uploading to Azure Search...")
		if _, err := s.index.CreateIndex(ctx); err != nil {
			return err
		}
		if err := s.upload(ctx, run, res.Chunks); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "Upload complete!")
		return nil
	}()

	return s.finish(run, err)
}

func (s *SetupService) process(ctx context.Context, dir string) (*IngestResult, error) {
	res, err := s.ingest.ProcessDirectory(ctx, dir)
	if err != nil {
		return nil, err
	}
	if res.CreatedDir {
		fmt.Fprintf(s.out, "Created directory %s. Please add PDF files and run again.\n", dir)
	}
	return res, nil
}

func (s *SetupService) upload(ctx context.Context, run *domain.SetupRun, chunks []domain.Chunk) error {
	summary, err := s.index.UploadDocuments(ctx, chunks)
	if summary != nil {
		for _, b := range summary.Batches {
			fmt.Fprintf(s.out, "Uploaded batch %d: %d/%d succeeded\n", b.Number, b.Succeeded, b.Size)
		}
		run.Uploaded = summary.Succeeded
		run.Failed = summary.Failed
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Upload completed. Total documents: %d\n", summary.Total)
	return nil
}

func (s *SetupService) start() *domain.SetupRun {
	run := &domain.SetupRun{IndexName: s.index.IndexName(), Status: domain.RunStatusRunning}
	if s.runs != nil {
		if err := s.runs.Create(run); err != nil {
			s.logger.Warn("Failed to record setup run", zap.Error(err))
		}
	}
	return run
}

func (s *SetupService) finish(run *domain.SetupRun, err error) (*domain.SetupRun, error) {
	switch {
	case err != nil:
		run.Status = domain.RunStatusFailed
		run.Error = err.Error()
		fmt.Fprintf(s.out, "\n❌ Error during setup: %v\n", err)
		fmt.Fprintln(s.out, "\nTroubleshooting steps:")
		for i, step := range Troubleshooting {
			fmt.Fprintf(s.out, "%d. %s\n", i+1, step)
		}
	case run.Status == domain.RunStatusRunning:
		run.Status = domain.RunStatusSucceeded
	}

	if s.runs != nil && run.ID != "" {
		if ferr := s.runs.Finish(run); ferr != nil {
			s.logger.Warn("Failed to record setup run result", zap.String("run_id", run.ID), zap.Error(ferr))
		}
	}

	s.logger.Info("Setup run finished",
		zap.String("run_id", run.ID),
		zap.String("status", run.Status),
		zap.Int("files", run.Files),
		zap.Int("chunks", run.Chunks),
		zap.Int("uploaded", run.Uploaded),
	)
	return run, err
}

// PrintReport writes an index verification report
func PrintReport(out io.Writer, report *domain.IndexReport) {
	fmt.Fprintln(out, "\nIndex verification:")
	fmt.Fprintf(out, "Name: %s\n", report.Name)
	fmt.Fprintln(out, "Fields:")
	for _, f := range report.Fields {
		fmt.Fprintf(out, "  - %s (%s)\n", f.Name, f.Type)
	}
	fmt.Fprintf(out, "Total documents: %d\n", report.DocumentCount)
}
