// Package scheduler
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/mrtylcn99/aile-hekimligi-kura-sub000/app/dto"
	businessflow "github.com/mrtylcn99/aile-hekimligi-kura-sub000/business_flow"
)

// TranscriptSource yields the latest published roster transcript. Implementations
// typically poll a provincial health directorate endpoint or a watched directory.
// FetchLatest returns an empty document name when nothing new is available.
type TranscriptSource interface {
	FetchLatest(ctx context.Context) (sourceDocument string, text string, err error)
}

// ImportScheduler periodically pulls the latest transcript and runs it through
// the import flow. Repeated runs over the same publication are harmless since
// the import is idempotent per (document, sequence) row.
type ImportScheduler struct {
	source   TranscriptSource
	importer businessflow.ImportFlow
	logger   *log.Logger
	interval time.Duration
}

func NewImportScheduler(
	source TranscriptSource,
	importer businessflow.ImportFlow,
	logger *log.Logger,
	interval time.Duration,
) *ImportScheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	if logger == nil {
		logger = log.Default()
	}
	return &ImportScheduler{
		source:   source,
		importer: importer,
		logger:   logger,
		interval: interval,
	}
}

// Start launches the scheduler loop in a background goroutine and returns a stop function
func (s *ImportScheduler) Start(parent context.Context) func() {
	ctx, cancel := context.WithCancel(parent)

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.runOnce(ctx)

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.runOnce(ctx)
			}
		}
	}()

	return cancel
}

func (s *ImportScheduler) runOnce(ctx context.Context) {
	doc, text, err := s.source.FetchLatest(ctx)
	if err != nil {
		s.logger.Printf("scheduler: fetch latest transcript failed: %v", err)
		return
	}
	if doc == "" {
		return
	}

	resp, err := s.importer.ImportTranscript(ctx, &dto.ImportTranscriptRequest{
		SourceDocument: doc,
		Text:           text,
	})
	if err != nil {
		if businessflow.IsImportLockHeld(err) {
			s.logger.Printf("scheduler: import of %s already in progress, skipping", doc)
			return
		}
		s.logger.Printf("scheduler: import of %s failed: %v", doc, err)
		return
	}

	s.logger.Printf("scheduler: imported %s: %d new, %d updated, %d skipped",
		doc, resp.Imported, resp.Updated, resp.Skipped)
}
