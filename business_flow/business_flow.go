// Package businessflow contains the business logic for the application.
package businessflow

import (
	"github.com/go-playground/validator/v10"
	"github.com/mrtylcn99/aile-hekimligi-kura-sub000/app/dto"
	"github.com/mrtylcn99/aile-hekimligi-kura-sub000/models"
)

// validate is the shared struct validator for incoming requests
var validate = validator.New()

// validateRequest runs tag validation and wraps failures as a validation
// business error so callers can distinguish them from storage failures.
func validateRequest(code string, req any) error {
	if err := validate.Struct(req); err != nil {
		return NewBusinessError(code, "Request validation failed", err)
	}
	return nil
}

// ToPositionDTO converts a position record model to its consumer-facing DTO
func ToPositionDTO(record models.PositionRecord) dto.PositionDTO {
	return dto.PositionDTO{
		ID:               record.ID,
		UUID:             record.UUID.String(),
		SourceDocument:   record.SourceDocument,
		SequenceNumber:   record.SequenceNumber,
		ApplicantName:    record.FullName(),
		ServiceScore:     record.ServiceScore,
		Title:            record.Title,
		District:         record.District,
		HealthCenterName: record.HealthCenterName,
		UnitCode:         record.UnitCode,
		ConsentStatus:    record.ConsentStatus,
		Population:       record.Population,
		Turnover:         record.Turnover,
		IngestedAt:       record.IngestedAt,
		ConsentDate:      record.ConsentDate,
	}
}

// ToPositionDTOs converts a slice of position records
func ToPositionDTOs(records []*models.PositionRecord) []dto.PositionDTO {
	items := make([]dto.PositionDTO, 0, len(records))
	for _, record := range records {
		items = append(items, ToPositionDTO(*record))
	}
	return items
}
