// Package models contains domain entities and business models for the kura placement system
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// PositionRecord is one offered clinical position extracted from a published
// kura transcript. Records are created by the import pipeline and never
// mutated afterward except through a re-import of the same source document.
type PositionRecord struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_position_records_uuid" json:"uuid"`

	// Import identity: sequence number is unique within one source document
	SourceDocument string `gorm:"size:255;not null;uniqueIndex:uk_position_records_doc_seq,priority:1;index:idx_position_records_doc" json:"source_document"`
	SequenceNumber int    `gorm:"not null;uniqueIndex:uk_position_records_doc_seq,priority:2" json:"sequence_number"`

	// Primary line fields
	SessionStartTime  string     `gorm:"size:5" json:"session_start_time"`
	FirstName         string     `gorm:"size:100;not null" json:"first_name"`
	LastName          string     `gorm:"size:100;not null" json:"last_name"`
	NationalID        *string    `gorm:"size:11;index:idx_position_records_national_id" json:"national_id,omitempty"`
	RegistryNo        *string    `gorm:"size:20" json:"registry_no,omitempty"`
	ConsentDate       *time.Time `json:"consent_date,omitempty"`
	ServiceScore      float64    `gorm:"not null;default:0;index:idx_position_records_district_score,priority:2,sort:desc" json:"service_score"`
	Title             string     `gorm:"size:100" json:"title"`
	ApplicationMethod string     `gorm:"size:50" json:"application_method"`

	// Continuation line fields
	District         string `gorm:"size:100;index:idx_position_records_district_score,priority:1" json:"district"`
	HealthCenterName string `gorm:"size:255" json:"health_center_name"`
	UnitCode         string `gorm:"size:20" json:"unit_code"`
	ConsentStatus    string `gorm:"size:100" json:"consent_status"`

	// Administrative extras carried on the published roster
	Population *string `gorm:"size:20" json:"population,omitempty"`
	Turnover   *string `gorm:"size:20" json:"turnover,omitempty"`

	IngestedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_position_records_ingested_at" json:"ingested_at"`
	UpdatedAt  time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`

	// Relations
	Preferences []PreferenceRecord `gorm:"foreignKey:PositionID" json:"-"`
}

func (PositionRecord) TableName() string {
	return "position_records"
}

// FullName returns the applicant name as printed on the roster
func (p *PositionRecord) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// HasConsent reports whether administrative sign-off is present on the record.
// This is independent of any applicant preference decision.
func (p *PositionRecord) HasConsent() bool {
	return strings.TrimSpace(p.ConsentStatus) != ""
}

// PositionRecordFilter represents filter criteria for position record queries
type PositionRecordFilter struct {
	ID             *uint
	UUID           *uuid.UUID
	SourceDocument *string
	SequenceNumber *int
	NationalID     *string
	District       *string
	Title          *string
	ScoreAbove     *float64
	IngestedAfter  *time.Time
	IngestedBefore *time.Time
}
