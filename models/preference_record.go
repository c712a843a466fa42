package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PreferenceStatus represents an applicant's recorded decision on a position.
// The pending state is implicit: no PreferenceRecord row exists for the pair.
type PreferenceStatus string

const (
	PreferenceStatusAccepted PreferenceStatus = "accepted"
	PreferenceStatusRejected PreferenceStatus = "rejected"
	PreferenceStatusDeferred PreferenceStatus = "deferred"
)

// String returns the string representation of the status
func (s PreferenceStatus) String() string {
	return string(s)
}

// Valid checks if the status is valid
func (s PreferenceStatus) Valid() bool {
	switch s {
	case PreferenceStatusAccepted, PreferenceStatusRejected, PreferenceStatusDeferred:
		return true
	default:
		return false
	}
}

// ReleasesPosition reports whether this decision puts the position back into
// the open pool.
func (s PreferenceStatus) ReleasesPosition() bool {
	return s == PreferenceStatusRejected || s == PreferenceStatusDeferred
}

// Scan implements the sql.Scanner interface for PreferenceStatus
func (s *PreferenceStatus) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*s = PreferenceStatus(v)
	case []byte:
		*s = PreferenceStatus(string(v))
	default:
		return fmt.Errorf("cannot scan %T into PreferenceStatus", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for PreferenceStatus
func (s PreferenceStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid PreferenceStatus: %s", s)
	}
	return string(s), nil
}

// PreferenceDecision is the total view of a (user, position) pair: either no
// decision has been recorded yet, or exactly one status is on file.
type PreferenceDecision struct {
	decided bool
	status  PreferenceStatus
}

// NoDecision returns the implicit pending state.
func NoDecision() PreferenceDecision {
	return PreferenceDecision{}
}

// Decided wraps a recorded status.
func Decided(status PreferenceStatus) PreferenceDecision {
	return PreferenceDecision{decided: true, status: status}
}

// IsDecided reports whether a status is on file.
func (d PreferenceDecision) IsDecided() bool {
	return d.decided
}

// Status returns the recorded status and whether one exists.
func (d PreferenceDecision) Status() (PreferenceStatus, bool) {
	return d.status, d.decided
}

// PreferenceRecord is one applicant's decision on one position. At most one
// row exists per (user_id, position_id); re-deciding overwrites in place.
type PreferenceRecord struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_preference_records_uuid" json:"uuid"`

	UserID     string         `gorm:"size:64;not null;uniqueIndex:uk_preference_records_user_position,priority:1;index:idx_preference_records_user_id" json:"user_id"`
	PositionID uint           `gorm:"not null;uniqueIndex:uk_preference_records_user_position,priority:2;index:idx_preference_records_position_id" json:"position_id"`
	Position   PositionRecord `gorm:"foreignKey:PositionID;references:ID" json:"position,omitempty"`

	Status              PreferenceStatus `gorm:"size:20;not null" json:"status"`
	DecidedAt           time.Time        `gorm:"not null;index:idx_preference_records_decided_at" json:"decided_at"`
	WaitingDurationDays *int             `json:"waiting_duration_days,omitempty"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (PreferenceRecord) TableName() string {
	return "preference_records"
}

// Decision returns the record as a total-state decision value.
func (p *PreferenceRecord) Decision() PreferenceDecision {
	if p == nil {
		return NoDecision()
	}
	return Decided(p.Status)
}

// PreferenceRecordFilter represents filter criteria for preference queries
type PreferenceRecordFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	UserID        *string
	PositionID    *uint
	Status        *PreferenceStatus
	DecidedAfter  *time.Time
	DecidedBefore *time.Time
}
