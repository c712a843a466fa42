package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/mrtylcn99/aile-hekimligi-kura-sub000/models"
	"github.com/mrtylcn99/aile-hekimligi-kura-sub000/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PositionRecordRepositoryImpl implements the PositionRecordRepository interface
type PositionRecordRepositoryImpl struct {
	*BaseRepository[models.PositionRecord, models.PositionRecordFilter]
}

// NewPositionRecordRepository creates a new position record repository
func NewPositionRecordRepository(db *gorm.DB) PositionRecordRepository {
	return &PositionRecordRepositoryImpl{
		BaseRepository: NewBaseRepository[models.PositionRecord, models.PositionRecordFilter](db),
	}
}

// Upsert inserts the record or overwrites the row keyed by
// (source_document, sequence_number). A re-import of the same document with
// corrected values overwrites in place; it never duplicates.
func (r *PositionRecordRepositoryImpl) Upsert(ctx context.Context, record *models.PositionRecord) (UpsertOutcome, error) {
	db := r.getDB(ctx)

	existing, err := r.BySourceAndSequence(ctx, record.SourceDocument, record.SequenceNumber)
	if err != nil {
		return UpsertCreated, err
	}

	outcome := UpsertCreated
	if existing != nil {
		outcome = UpsertUpdated
		// Keep the row identity and first ingest time stable across re-imports
		record.ID = existing.ID
		record.UUID = existing.UUID
		record.IngestedAt = existing.IngestedAt
	}
	record.UpdatedAt = utils.UTCNow()

	err = db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "source_document"}, {Name: "sequence_number"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"session_start_time", "first_name", "last_name", "national_id",
			"registry_no", "consent_date", "service_score", "title",
			"application_method", "district", "health_center_name", "unit_code",
			"consent_status", "population", "turnover", "updated_at",
		}),
	}).Create(record).Error
	if IsUniqueViolation(err) {
		// Lost a race on a secondary unique index; the conflict target row
		// now exists, so retry once as an overwrite.
		outcome = UpsertUpdated
		err = db.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "source_document"}, {Name: "sequence_number"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"session_start_time", "first_name", "last_name", "national_id",
				"registry_no", "consent_date", "service_score", "title",
				"application_method", "district", "health_center_name", "unit_code",
				"consent_status", "population", "turnover", "updated_at",
			}),
		}).Create(record).Error
	}
	if err != nil {
		return outcome, fmt.Errorf("failed to upsert position record %s/%d: %w",
			record.SourceDocument, record.SequenceNumber, err)
	}

	return outcome, nil
}

// UpsertByNationalID inserts the record or overwrites the row carrying the
// same national ID. Only the fields the flat roster format carries are
// overwritten, so a flat list re-import cannot blank the placement location
// fields of a record that arrived through the two-line format.
func (r *PositionRecordRepositoryImpl) UpsertByNationalID(ctx context.Context, record *models.PositionRecord) (UpsertOutcome, error) {
	if record.NationalID == nil {
		return UpsertCreated, fmt.Errorf("cannot upsert position record by national ID: national ID is not set")
	}

	db := r.getDB(ctx)

	existing, err := r.ByNationalID(ctx, *record.NationalID)
	if err != nil {
		return UpsertCreated, err
	}

	record.UpdatedAt = utils.UTCNow()

	if existing == nil {
		if err := db.Create(record).Error; err != nil {
			return UpsertCreated, fmt.Errorf("failed to insert position record for national ID %s: %w",
				*record.NationalID, err)
		}
		return UpsertCreated, nil
	}

	// Keep the row identity and first ingest time stable across re-imports
	record.ID = existing.ID
	record.UUID = existing.UUID
	record.IngestedAt = existing.IngestedAt

	err = db.Model(&models.PositionRecord{}).
		Where("id = ?", existing.ID).
		Updates(map[string]interface{}{
			"source_document": record.SourceDocument,
			"sequence_number": record.SequenceNumber,
			"first_name":      record.FirstName,
			"last_name":       record.LastName,
			"district":        record.District,
			"service_score":   record.ServiceScore,
			"updated_at":      record.UpdatedAt,
		}).Error
	if err != nil {
		return UpsertUpdated, fmt.Errorf("failed to overwrite position record for national ID %s: %w",
			*record.NationalID, err)
	}

	return UpsertUpdated, nil
}

// BySourceAndSequence retrieves a record by its import identity
func (r *PositionRecordRepositoryImpl) BySourceAndSequence(ctx context.Context, sourceDocument string, sequenceNumber int) (*models.PositionRecord, error) {
	db := r.getDB(ctx)

	var record models.PositionRecord
	err := db.Where("source_document = ? AND sequence_number = ?", sourceDocument, sequenceNumber).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &record, nil
}

// ByNationalID retrieves the most recently ingested record for a national ID
func (r *PositionRecordRepositoryImpl) ByNationalID(ctx context.Context, nationalID string) (*models.PositionRecord, error) {
	db := r.getDB(ctx)

	var record models.PositionRecord
	err := db.Where("national_id = ?", nationalID).
		Order("ingested_at DESC").
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &record, nil
}

// ByFilter retrieves position records matching the filter
func (r *PositionRecordRepositoryImpl) ByFilter(ctx context.Context, filter models.PositionRecordFilter, orderBy string, limit, offset int) ([]*models.PositionRecord, error) {
	db := r.getDB(ctx)

	var records []*models.PositionRecord
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

// Count returns the number of position records matching the filter
func (r *PositionRecordRepositoryImpl) Count(ctx context.Context, filter models.PositionRecordFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.PositionRecord{}), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any position record matching the filter exists
func (r *PositionRecordRepositoryImpl) Exists(ctx context.Context, filter models.PositionRecordFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// CountHigherScores counts records in scope with a strictly greater service score
func (r *PositionRecordRepositoryImpl) CountHigherScores(ctx context.Context, filter models.PositionRecordFilter, score float64) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.PositionRecord{}), filter).
		Where("service_score > ?", score)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// DistinctDistricts returns all districts present on the roster, sorted ascending
func (r *PositionRecordRepositoryImpl) DistinctDistricts(ctx context.Context) ([]string, error) {
	db := r.getDB(ctx)

	var districts []string
	err := db.Model(&models.PositionRecord{}).
		Where("district <> ''").
		Distinct().
		Order("district ASC").
		Pluck("district", &districts).Error
	if err != nil {
		return nil, err
	}

	return districts, nil
}

// ListVacant returns positions currently open for application. A position is
// vacant when the latest decision on it (across all applicants) is rejected
// or deferred, or when no decision exists and no administrative consent is
// recorded. An accepted decision fills the position even if the consent text
// is still blank.
func (r *PositionRecordRepositoryImpl) ListVacant(ctx context.Context, filter models.PositionRecordFilter, limit int) ([]*models.PositionRecord, error) {
	db := r.getDB(ctx)

	latest := db.Session(&gorm.Session{NewDB: true}).
		Table("preference_records p1").
		Select("p1.position_id, p1.status").
		Where("p1.decided_at = (SELECT MAX(p2.decided_at) FROM preference_records p2 WHERE p2.position_id = p1.position_id)")

	query := r.applyFilter(db.Model(&models.PositionRecord{}), filter).
		Joins("LEFT JOIN (?) latest ON latest.position_id = position_records.id", latest).
		Where("latest.status IN ? OR (latest.position_id IS NULL AND COALESCE(TRIM(position_records.consent_status), '') = '')",
			[]string{models.PreferenceStatusRejected.String(), models.PreferenceStatusDeferred.String()}).
		Order("position_records.district ASC, position_records.health_center_name ASC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	var records []*models.PositionRecord
	err := query.Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *PositionRecordRepositoryImpl) applyFilter(db *gorm.DB, filter models.PositionRecordFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("position_records.id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("position_records.uuid = ?", *filter.UUID)
	}
	if filter.SourceDocument != nil {
		db = db.Where("position_records.source_document = ?", *filter.SourceDocument)
	}
	if filter.SequenceNumber != nil {
		db = db.Where("position_records.sequence_number = ?", *filter.SequenceNumber)
	}
	if filter.NationalID != nil {
		db = db.Where("position_records.national_id = ?", *filter.NationalID)
	}
	if filter.District != nil {
		db = db.Where("position_records.district = ?", *filter.District)
	}
	if filter.Title != nil {
		db = db.Where("position_records.title = ?", *filter.Title)
	}
	if filter.ScoreAbove != nil {
		db = db.Where("position_records.service_score > ?", *filter.ScoreAbove)
	}
	if filter.IngestedAfter != nil {
		db = db.Where("position_records.ingested_at >= ?", *filter.IngestedAfter)
	}
	if filter.IngestedBefore != nil {
		db = db.Where("position_records.ingested_at <= ?", *filter.IngestedBefore)
	}
	return db
}
