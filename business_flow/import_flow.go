package businessflow

import (
	"context"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/mrtylcn99/aile-hekimligi-kura-sub000/app/dto"
	"github.com/mrtylcn99/aile-hekimligi-kura-sub000/app/metrics"
	"github.com/mrtylcn99/aile-hekimligi-kura-sub000/repository"
	"github.com/mrtylcn99/aile-hekimligi-kura-sub000/transcript"
	"gorm.io/gorm"
)

// ImportFlow handles ingestion of roster transcripts into position records
type ImportFlow interface {
	ImportTranscript(ctx context.Context, req *dto.ImportTranscriptRequest) (*dto.ImportTranscriptResponse, error)
}

// ImportFlowImpl implements the import business flow
type ImportFlowImpl struct {
	positionRepo repository.PositionRecordRepository
	assembler    *transcript.Assembler
	locker       DocumentLocker
	logger       *log.Logger
	db           *gorm.DB
}

// NewImportFlow creates a new import flow instance
func NewImportFlow(
	positionRepo repository.PositionRecordRepository,
	assembler *transcript.Assembler,
	locker DocumentLocker,
	db *gorm.DB,
	logger *log.Logger,
) ImportFlow {
	if logger == nil {
		logger = log.Default()
	}
	return &ImportFlowImpl{
		positionRepo: positionRepo,
		assembler:    assembler,
		locker:       locker,
		logger:       logger,
		db:           db,
	}
}

// ImportTranscript classifies and assembles one transcript, then upserts the
// resulting records inside a single transaction, keyed by
// (source_document, sequence_number) for the two-line format and by national
// ID for flat roster entries. Re-importing the same document converges: corrected
// values overwrite, nothing duplicates. Unparseable lines are counted as
// skipped, never aborting the run.
func (s *ImportFlowImpl) ImportTranscript(ctx context.Context, req *dto.ImportTranscriptRequest) (*dto.ImportTranscriptResponse, error) {
	if err := validateRequest("IMPORT_TRANSCRIPT_FAILED", req); err != nil {
		metrics.ImportRunsTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}
	if strings.TrimSpace(req.Text) == "" {
		metrics.ImportRunsTotal.WithLabelValues("rejected").Inc()
		return nil, NewBusinessError("IMPORT_TRANSCRIPT_FAILED", "Transcript text is empty", ErrTranscriptEmpty)
	}

	// Imports of the same document must not interleave; different documents
	// run in parallel.
	release, err := s.locker.Acquire(ctx, req.SourceDocument)
	if err != nil {
		metrics.ImportRunsTotal.WithLabelValues("failed").Inc()
		return nil, err
	}
	defer release()

	runID := uuid.New()
	lines := transcript.Classify(req.Text)
	records, skipped := s.assembler.Assemble(req.SourceDocument, lines)

	imported := 0
	updated := 0

	// One transaction per document: a cancelled or failed import leaves no
	// partially committed records behind.
	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		for _, record := range records {
			var outcome repository.UpsertOutcome
			var err error
			// Flat roster entries carry a national ID and upsert by it; the
			// two-line format upserts by (source_document, sequence_number).
			if record.NationalID != nil {
				outcome, err = s.positionRepo.UpsertByNationalID(txCtx, record)
			} else {
				outcome, err = s.positionRepo.Upsert(txCtx, record)
			}
			if err != nil {
				return err
			}
			if outcome == repository.UpsertCreated {
				imported++
			} else {
				updated++
			}
		}
		return nil
	})
	if err != nil {
		metrics.ImportRunsTotal.WithLabelValues("failed").Inc()
		s.logger.Printf("import run %s for document %q failed: %v", runID, req.SourceDocument, err)
		return nil, NewBusinessError("IMPORT_TRANSCRIPT_FAILED", "Failed to persist imported records", err)
	}

	metrics.ImportRunsTotal.WithLabelValues("completed").Inc()
	metrics.RecordsImportedTotal.Add(float64(imported))
	metrics.RecordsUpdatedTotal.Add(float64(updated))
	metrics.LinesSkippedTotal.Add(float64(skipped))

	s.logger.Printf("import run %s for document %q: %d imported, %d updated, %d skipped",
		runID, req.SourceDocument, imported, updated, skipped)

	return &dto.ImportTranscriptResponse{
		Message:        "Transcript imported successfully",
		SourceDocument: req.SourceDocument,
		Imported:       imported,
		Updated:        updated,
		Skipped:        skipped,
	}, nil
}
