package businessflow

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/mrtylcn99/aile-hekimligi-kura-sub000/app/dto"
	"github.com/mrtylcn99/aile-hekimligi-kura-sub000/models"
	"github.com/mrtylcn99/aile-hekimligi-kura-sub000/repository"
	"github.com/mrtylcn99/aile-hekimligi-kura-sub000/utils"
	"github.com/xuri/excelize/v2"
)

// ExportFlow renders the derived vacancy view as a downloadable workbook,
// one sheet per district.
type ExportFlow interface {
	ExportVacantRoster(ctx context.Context, scope dto.ScopeFilter) (filename string, content []byte, err error)
}

// ExportFlowImpl implements the export business flow
type ExportFlowImpl struct {
	positionRepo repository.PositionRecordRepository
	logger       *log.Logger
}

// NewExportFlow creates a new export flow instance
func NewExportFlow(positionRepo repository.PositionRecordRepository, logger *log.Logger) ExportFlow {
	if logger == nil {
		logger = log.Default()
	}
	return &ExportFlowImpl{
		positionRepo: positionRepo,
		logger:       logger,
	}
}

var exportHeader = []string{
	"Sıra No", "İlçe", "Aile Sağlığı Merkezi", "Birim Kodu", "Nüfus", "Gezici Nüfus",
}

// ExportVacantRoster builds an xlsx workbook of the vacant positions in
// scope, grouped into one sheet per district. Districts without a vacant
// position get no sheet.
func (s *ExportFlowImpl) ExportVacantRoster(ctx context.Context, scope dto.ScopeFilter) (string, []byte, error) {
	filter := scopeToFilter(scope)
	records, err := s.positionRepo.ListVacant(ctx, filter, 0)
	if err != nil {
		return "", nil, NewBusinessError("EXPORT_FAILED", "Failed to derive vacant positions", err)
	}

	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil {
			s.logger.Printf("closing workbook: %v", cerr)
		}
	}()

	// ListVacant orders by district, so records for one district are
	// contiguous and rows land on their sheet in roster order.
	sheets := make(map[string]int)
	first := true
	for _, record := range records {
		sheet := sheetName(record.District)
		if _, ok := sheets[sheet]; !ok {
			if first {
				// Rename the default sheet instead of leaving it empty.
				if err := f.SetSheetName("Sheet1", sheet); err != nil {
					return "", nil, NewBusinessError("EXPORT_FAILED", "Failed to prepare worksheet", err)
				}
				first = false
			} else if _, err := f.NewSheet(sheet); err != nil {
				return "", nil, NewBusinessError("EXPORT_FAILED", "Failed to prepare worksheet", err)
			}
			if err := writeHeaderRow(f, sheet); err != nil {
				return "", nil, err
			}
			sheets[sheet] = 1
		}

		sheets[sheet]++
		if err := writePositionRow(f, sheet, sheets[sheet], record); err != nil {
			return "", nil, err
		}
	}

	if len(records) == 0 {
		if err := writeHeaderRow(f, "Sheet1"); err != nil {
			return "", nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return "", nil, NewBusinessError("EXPORT_FAILED", "Failed to render workbook", err)
	}

	filename := fmt.Sprintf("bos-pozisyonlar-%s.xlsx", utils.UTCNow().Format("2006-01-02"))
	return filename, buf.Bytes(), nil
}

func writeHeaderRow(f *excelize.File, sheet string) error {
	for col, title := range exportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return NewBusinessError("EXPORT_FAILED", "Failed to address header cell", err)
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return NewBusinessError("EXPORT_FAILED", "Failed to write header cell", err)
		}
	}
	return nil
}

func writePositionRow(f *excelize.File, sheet string, row int, record *models.PositionRecord) error {
	values := []any{
		record.SequenceNumber,
		record.District,
		record.HealthCenterName,
		record.UnitCode,
		utils.EmptyIfNil(record.Population),
		utils.EmptyIfNil(record.Turnover),
	}
	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return NewBusinessError("EXPORT_FAILED", "Failed to address cell", err)
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return NewBusinessError("EXPORT_FAILED", "Failed to write cell", err)
		}
	}
	return nil
}

// sheetName makes a district name safe for use as a worksheet title. Excel
// forbids a handful of characters and caps titles at 31 characters.
func sheetName(district string) string {
	if district == "" {
		return "Bilinmeyen"
	}
	replacer := strings.NewReplacer(":", " ", "\\", " ", "/", " ", "?", " ", "*", " ", "[", " ", "]", " ")
	name := strings.TrimSpace(replacer.Replace(district))
	if name == "" {
		return "Bilinmeyen"
	}
	if runes := []rune(name); len(runes) > 31 {
		name = string(runes[:31])
	}
	return name
}
