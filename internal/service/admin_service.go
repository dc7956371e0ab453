package service

import (
	"context"
	"fmt"

	"github.com/liliang-cn/azrag/internal/domain"
)

// RunLister reads recorded setup runs
type RunLister interface {
	List(limit int) ([]*domain.SetupRun, error)
	Get(id string) (*domain.SetupRun, error)
}

// IndexVerifier reports on the managed index
type IndexVerifier interface {
	VerifyIndex(ctx context.Context) (*domain.IndexReport, error)
}

// AdminService exposes read-only operational views
type AdminService struct {
	index IndexVerifier
	runs  RunLister
}

// NewAdminService creates a new admin service. runs may be nil.
func NewAdminService(index IndexVerifier, runs RunLister) *AdminService {
	return &AdminService{
		index: index,
		runs:  runs,
	}
}

// IndexReport verifies the managed index
func (s *AdminService) IndexReport(ctx context.Context) (*domain.IndexReport, error) {
	return s.index.VerifyIndex(ctx)
}

// ListRuns returns the most recent setup runs
func (s *AdminService) ListRuns(ctx context.Context, limit int) ([]*domain.SetupRun, error) {
	if s.runs == nil {
		return []*domain.SetupRun{}, nil
	}
	runs, err := s.runs.List(limit)
	if err != nil {
		return nil, err
	}
	if runs == nil {
		runs = []*domain.SetupRun{}
	}
	return runs, nil
}

// GetRun returns one setup run. A missing run or ledger is ErrNotFound.
func (s *AdminService) GetRun(ctx context.Context, id string) (*domain.SetupRun, error) {
	if s.runs == nil {
		return nil, fmt.Errorf("run %s: %w", id, domain.ErrNotFound)
	}
	run, err := s.runs.Get(id)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, fmt.Errorf("run %s: %w", id, domain.ErrNotFound)
	}
	return run, nil
}
