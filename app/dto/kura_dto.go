// Package dto contains the request and response types exchanged with the
// placement core's collaborators.
package dto

import (
	"time"
)

// ImportTranscriptRequest represents a request to ingest one roster transcript
type ImportTranscriptRequest struct {
	SourceDocument string `json:"source_document" validate:"required,max=255"`
	Text           string `json:"text" validate:"required"`
}

// ImportTranscriptResponse reports the outcome of one import run
type ImportTranscriptResponse struct {
	Message        string `json:"message"`
	SourceDocument string `json:"source_document"`
	Imported       int    `json:"imported"`
	Updated        int    `json:"updated"`
	Skipped        int    `json:"skipped"`
}

// ScopeFilter narrows ranking and vacancy queries to one district and/or title
type ScopeFilter struct {
	District *string `json:"district,omitempty" validate:"omitempty,max=100"`
	Title    *string `json:"title,omitempty" validate:"omitempty,max=100"`
}

// GetRankRequest asks for one applicant's ordinal rank within a scope
type GetRankRequest struct {
	NationalID string      `json:"national_id" validate:"required,len=11,numeric"`
	Scope      ScopeFilter `json:"scope"`
}

// GetRankResponse carries the computed rank
type GetRankResponse struct {
	Rank         int     `json:"rank"`
	Total        int     `json:"total"`
	ServiceScore float64 `json:"service_score"`
	District     string  `json:"district"`
	Title        string  `json:"title"`
}

// DecideRequest records an applicant's decision on an offered position
type DecideRequest struct {
	UserID     string `json:"user_id" validate:"required,max=64"`
	PositionID uint   `json:"position_id" validate:"required"`
	Status     string `json:"status" validate:"required,oneof=accepted rejected deferred"`
}

// DecideResponse acknowledges a recorded decision
type DecideResponse struct {
	Message   string    `json:"message"`
	UserID    string    `json:"user_id"`
	Status    string    `json:"status"`
	DecidedAt time.Time `json:"decided_at"`
}

// PositionDTO is one position record as exposed to consumers
type PositionDTO struct {
	ID               uint       `json:"id"`
	UUID             string     `json:"uuid"`
	SourceDocument   string     `json:"source_document"`
	SequenceNumber   int        `json:"sequence_number"`
	ApplicantName    string     `json:"applicant_name"`
	ServiceScore     float64    `json:"service_score"`
	Title            string     `json:"title"`
	District         string     `json:"district"`
	HealthCenterName string     `json:"health_center_name"`
	UnitCode         string     `json:"unit_code"`
	ConsentStatus    string     `json:"consent_status"`
	Population       *string    `json:"population,omitempty"`
	Turnover         *string    `json:"turnover,omitempty"`
	IngestedAt       time.Time  `json:"ingested_at"`
	ConsentDate      *time.Time `json:"consent_date,omitempty"`
}

// ListVacantResponse carries the derived vacancy view
type ListVacantResponse struct {
	Message string        `json:"message"`
	Count   int           `json:"count"`
	Items   []PositionDTO `json:"items"`
}

// ListPositionsRequest asks for an ordered roster listing
type ListPositionsRequest struct {
	Scope   ScopeFilter `json:"scope"`
	OrderBy string      `json:"order_by" validate:"omitempty,oneof=service_score sequence_number last_name"`
	Limit   int         `json:"limit" validate:"omitempty,min=1,max=500"`
	Offset  int         `json:"offset" validate:"omitempty,min=0"`
}

// ListPositionsResponse carries an ordered roster listing
type ListPositionsResponse struct {
	Message string        `json:"message"`
	Count   int           `json:"count"`
	Items   []PositionDTO `json:"items"`
}

// DistrictListResponse carries the distinct districts on the roster
type DistrictListResponse struct {
	Districts []string `json:"districts"`
}

// StatisticsResponse summarizes the current round
type StatisticsResponse struct {
	TotalPositions  int64   `json:"total_positions"`
	VacantPositions int64   `json:"vacant_positions"`
	DistrictCount   int     `json:"district_count"`
	FillRate        float64 `json:"fill_rate"`
}
