package listener

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"stockforge/internal/config"
	"stockforge/internal/connectors"
	"stockforge/internal/pipeline"
	"stockforge/internal/storage"
)

// Service polls one mailbox on an interval and runs the conversion pipeline
// over everything new. Output files land in the configured output dir as part
// of processing, so a cycle is fetch then process, nothing more.
type Service struct {
	db  *storage.DB
	cfg config.Config
	log *slog.Logger
}

func NewService(db *storage.DB, cfg config.Config, log *slog.Logger) *Service {
	return &Service{db: db, cfg: cfg, log: log}
}

func (s *Service) Run(ctx context.Context) error {
	for {
		if err := s.runCycle(); err != nil {
			s.log.Error("listener cycle failed", "err", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(time.Duration(s.cfg.MailListenerIntervalSec) * time.Second):
		}
	}
}

func (s *Service) runCycle() error {
	provider := strings.ToLower(strings.TrimSpace(s.cfg.MailListenerProvider))
	mailConnector, err := connectors.ForProvider(s.cfg, provider)
	if err != nil {
		return err
	}

	fetchService := connectors.NewFetchService(s.db, s.cfg.RawMailDir, mailConnector)
	fetchResult, err := fetchService.FetchAndStore(s.cfg.MailListenerLabel, s.cfg.MailListenerFetchMax)
	if err != nil {
		return err
	}

	processor := pipeline.NewProcessingService(s.db, s.cfg)
	processedEmails, outputs, err := processor.ProcessPending(s.cfg.MailListenerProcessBatch, provider)
	if err != nil {
		return err
	}

	s.log.Info("listener cycle done",
		"provider", provider,
		"fetched", fetchResult.Fetched,
		"stored", fetchResult.Stored,
		"ignored", fetchResult.Ignored,
		"processed", processedEmails,
		"outputs", outputs)
	return nil
}
