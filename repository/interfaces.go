// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"

	"github.com/mrtylcn99/aile-hekimligi-kura-sub000/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// UpsertOutcome reports whether an upsert created a new row or overwrote an
// existing one.
type UpsertOutcome int

const (
	UpsertCreated UpsertOutcome = iota
	UpsertUpdated
)

// PositionRecordRepository defines operations for imported position records
type PositionRecordRepository interface {
	Repository[models.PositionRecord, models.PositionRecordFilter]
	// Upsert inserts the record or overwrites the existing row keyed by
	// (source_document, sequence_number). Last write wins.
	Upsert(ctx context.Context, record *models.PositionRecord) (UpsertOutcome, error)
	// UpsertByNationalID inserts the record or overwrites the existing row
	// carrying the same national ID. Flat roster formats have no stable
	// document/sequence pairing across rounds, so the national ID is their
	// upsert key.
	UpsertByNationalID(ctx context.Context, record *models.PositionRecord) (UpsertOutcome, error)
	BySourceAndSequence(ctx context.Context, sourceDocument string, sequenceNumber int) (*models.PositionRecord, error)
	ByNationalID(ctx context.Context, nationalID string) (*models.PositionRecord, error)
	// CountHigherScores counts records in scope with a service score strictly
	// greater than the given one.
	CountHigherScores(ctx context.Context, filter models.PositionRecordFilter, score float64) (int64, error)
	DistinctDistricts(ctx context.Context) ([]string, error)
	// ListVacant returns records open for application: no consent recorded, or
	// the latest preference on the position is rejected/deferred. Ordered by
	// (district, health_center_name) ascending.
	ListVacant(ctx context.Context, filter models.PositionRecordFilter, limit int) ([]*models.PositionRecord, error)
}

// PreferenceRecordRepository defines operations for applicant decisions
type PreferenceRecordRepository interface {
	Repository[models.PreferenceRecord, models.PreferenceRecordFilter]
	// UpsertDecision records a decision for a (user, position) pair, creating
	// the row on first decision and overwriting status/decided_at on
	// re-decision.
	UpsertDecision(ctx context.Context, record *models.PreferenceRecord) (UpsertOutcome, error)
	ByUserAndPosition(ctx context.Context, userID string, positionID uint) (*models.PreferenceRecord, error)
	// LatestByPositionIDs returns, for each position that has any decision,
	// the most recently decided record across all applicants.
	LatestByPositionIDs(ctx context.Context, positionIDs []uint) (map[uint]*models.PreferenceRecord, error)
}

// NotificationRepository defines operations for notification records
type NotificationRepository interface {
	Repository[models.Notification, models.NotificationFilter]
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*models.Notification, error)
	MarkRead(ctx context.Context, id uint) error
}
