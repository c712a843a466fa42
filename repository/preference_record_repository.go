package repository

import (
	"context"
	"errors"

	"github.com/mrtylcn99/aile-hekimligi-kura-sub000/models"
	"github.com/mrtylcn99/aile-hekimligi-kura-sub000/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PreferenceRecordRepositoryImpl implements the PreferenceRecordRepository interface
type PreferenceRecordRepositoryImpl struct {
	*BaseRepository[models.PreferenceRecord, models.PreferenceRecordFilter]
}

// NewPreferenceRecordRepository creates a new preference record repository
func NewPreferenceRecordRepository(db *gorm.DB) PreferenceRecordRepository {
	return &PreferenceRecordRepositoryImpl{
		BaseRepository: NewBaseRepository[models.PreferenceRecord, models.PreferenceRecordFilter](db),
	}
}

// UpsertDecision records one decision for a (user, position) pair. The unique
// constraint on (user_id, position_id) guarantees at most one row per pair:
// concurrent decisions race only on which status wins, never on duplication.
func (r *PreferenceRecordRepositoryImpl) UpsertDecision(ctx context.Context, record *models.PreferenceRecord) (UpsertOutcome, error) {
	db := r.getDB(ctx)

	existing, err := r.ByUserAndPosition(ctx, record.UserID, record.PositionID)
	if err != nil {
		return UpsertCreated, err
	}

	outcome := UpsertCreated
	if existing != nil {
		outcome = UpsertUpdated
		record.ID = existing.ID
		record.UUID = existing.UUID
		record.CreatedAt = existing.CreatedAt
	}
	record.UpdatedAt = utils.UTCNow()

	assignments := clause.AssignmentColumns([]string{"status", "decided_at", "waiting_duration_days", "updated_at"})
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "position_id"}},
		DoUpdates: assignments,
	}).Create(record).Error
	if IsUniqueViolation(err) {
		outcome = UpsertUpdated
		err = db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "position_id"}},
			DoUpdates: assignments,
		}).Create(record).Error
	}
	if err != nil {
		return outcome, err
	}

	return outcome, nil
}

// ByUserAndPosition retrieves the single decision for a (user, position) pair
func (r *PreferenceRecordRepositoryImpl) ByUserAndPosition(ctx context.Context, userID string, positionID uint) (*models.PreferenceRecord, error) {
	db := r.getDB(ctx)

	var record models.PreferenceRecord
	err := db.Where("user_id = ? AND position_id = ?", userID, positionID).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &record, nil
}

// LatestByPositionIDs returns the most recently decided record per position
// across all applicants. Positions with no decision are absent from the map.
func (r *PreferenceRecordRepositoryImpl) LatestByPositionIDs(ctx context.Context, positionIDs []uint) (map[uint]*models.PreferenceRecord, error) {
	result := make(map[uint]*models.PreferenceRecord, len(positionIDs))
	if len(positionIDs) == 0 {
		return result, nil
	}

	db := r.getDB(ctx)

	var records []*models.PreferenceRecord
	err := db.Where("position_id IN ?", positionIDs).
		Order("decided_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	// Ascending order means the last row seen per position is the latest
	for _, record := range records {
		result[record.PositionID] = record
	}

	return result, nil
}

// ByFilter retrieves preference records matching the filter
func (r *PreferenceRecordRepositoryImpl) ByFilter(ctx context.Context, filter models.PreferenceRecordFilter, orderBy string, limit, offset int) ([]*models.PreferenceRecord, error) {
	db := r.getDB(ctx)

	var records []*models.PreferenceRecord
	query := r.applyFilter(db, filter)

	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	err := query.Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

// Count returns the number of preference records matching the filter
func (r *PreferenceRecordRepositoryImpl) Count(ctx context.Context, filter models.PreferenceRecordFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.PreferenceRecord{}), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any preference record matching the filter exists
func (r *PreferenceRecordRepositoryImpl) Exists(ctx context.Context, filter models.PreferenceRecordFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *PreferenceRecordRepositoryImpl) applyFilter(db *gorm.DB, filter models.PreferenceRecordFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.UserID != nil {
		db = db.Where("user_id = ?", *filter.UserID)
	}
	if filter.PositionID != nil {
		db = db.Where("position_id = ?", *filter.PositionID)
	}
	if filter.Status != nil {
		db = db.Where("status = ?", filter.Status.String())
	}
	if filter.DecidedAfter != nil {
		db = db.Where("decided_at >= ?", *filter.DecidedAfter)
	}
	if filter.DecidedBefore != nil {
		db = db.Where("decided_at <= ?", *filter.DecidedBefore)
	}
	return db
}
