package cli

import (
	"io"

	"go.uber.org/zap"

	"github.com/liliang-cn/azrag/internal/repository"
	"github.com/liliang-cn/azrag/internal/search"
	"github.com/liliang-cn/azrag/internal/service"
)

func newIndexService() (*service.IndexService, error) {
	if err := cfg.ValidateSearch(); err != nil {
		return nil, err
	}
	client, err := search.NewClient(cfg.Search.Endpoint, cfg.Search.AdminKey, &search.ClientOptions{
		APIVersion: cfg.Search.APIVersion,
	})
	if err != nil {
		return nil, err
	}
	return service.NewIndexService(client, cfg, logger), nil
}

// openLedger opens the run ledger. Commands keep working without it.
func openLedger() (*repository.DB, *repository.RunRepository) {
	db, err := repository.NewDB(cfg.Database.Path)
	if err != nil {
		logger.Warn("Run ledger unavailable", zap.String("path", cfg.Database.Path), zap.Error(err))
		return nil, nil
	}
	return db, repository.NewRunRepository(db)
}

func newSetupService(out io.Writer) (*service.SetupService, func(), error) {
	index, err := newIndexService()
	if err != nil {
		return nil, nil, err
	}

	db, runs := openLedger()
	var recorder service.RunRecorder
	if runs != nil {
		recorder = runs
	}

	setup := service.NewSetupService(service.NewIngestService(cfg, logger), index, recorder, out, logger)
	cleanup := func() {
		if db != nil {
			db.Close()
		}
	}
	return setup, cleanup, nil
}
