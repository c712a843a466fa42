// Package testing provides test utilities and database setup for testing the placement core
package testing

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/mrtylcn99/aile-hekimligi-kura-sub000/models"
	"github.com/mrtylcn99/aile-hekimligi-kura-sub000/utils"
	"github.com/google/uuid"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestPosition creates a position record with sensible defaults. Any
// non-zero value in the override is applied on top.
func (tf *TestFixtures) CreateTestPosition(override models.PositionRecord) (*models.PositionRecord, error) {
	seq := rand.Intn(900000) + 1
	now := utils.UTCNow()

	record := &models.PositionRecord{
		UUID:              uuid.New(),
		SourceDocument:    "kura-2023-1.pdf",
		SequenceNumber:    seq,
		SessionStartTime:  "10:00",
		FirstName:         "AYŞE",
		LastName:          "YILMAZ",
		ServiceScore:      50000 + rand.Float64()*10000,
		Title:             "AİLE HEKİMLİĞİ UZMANI",
		ApplicationMethod: "ASM",
		District:          "ÇANKAYA",
		HealthCenterName:  "100. YIL AİLE SAĞLIĞI MERKEZİ",
		UnitCode:          fmt.Sprintf("06.01.%03d", seq%1000),
		IngestedAt:        now,
		UpdatedAt:         now,
	}

	if override.SourceDocument != "" {
		record.SourceDocument = override.SourceDocument
	}
	if override.SequenceNumber != 0 {
		record.SequenceNumber = override.SequenceNumber
	}
	if override.FirstName != "" {
		record.FirstName = override.FirstName
	}
	if override.LastName != "" {
		record.LastName = override.LastName
	}
	if override.NationalID != nil {
		record.NationalID = override.NationalID
	}
	if override.ServiceScore != 0 {
		record.ServiceScore = override.ServiceScore
	}
	if override.Title != "" {
		record.Title = override.Title
	}
	if override.District != "" {
		record.District = override.District
	}
	if override.HealthCenterName != "" {
		record.HealthCenterName = override.HealthCenterName
	}
	if override.UnitCode != "" {
		record.UnitCode = override.UnitCode
	}
	if override.ConsentStatus != "" {
		record.ConsentStatus = override.ConsentStatus
	}
	if override.ConsentDate != nil {
		record.ConsentDate = override.ConsentDate
	}

	if err := tf.DB.DB.Create(record).Error; err != nil {
		return nil, fmt.Errorf("failed to create test position: %w", err)
	}

	return record, nil
}

// CreateTestPreference creates a decided preference for a (user, position) pair
func (tf *TestFixtures) CreateTestPreference(userID string, positionID uint, status models.PreferenceStatus, decidedAt time.Time) (*models.PreferenceRecord, error) {
	record := &models.PreferenceRecord{
		UUID:       uuid.New(),
		UserID:     userID,
		PositionID: positionID,
		Status:     status,
		DecidedAt:  decidedAt,
		CreatedAt:  decidedAt,
		UpdatedAt:  decidedAt,
	}

	if err := tf.DB.DB.Create(record).Error; err != nil {
		return nil, fmt.Errorf("failed to create test preference: %w", err)
	}

	return record, nil
}

// RandomNationalID returns an 11-digit identifier string for test applicants
func RandomNationalID() string {
	return fmt.Sprintf("%011d", rand.Int63n(90000000000)+10000000000)
}
