package businessflow

import (
	"context"
	"log"
	"math"

	"github.com/mrtylcn99/aile-hekimligi-kura-sub000/app/dto"
	"github.com/mrtylcn99/aile-hekimligi-kura-sub000/models"
	"github.com/mrtylcn99/aile-hekimligi-kura-sub000/repository"
	"github.com/mrtylcn99/aile-hekimligi-kura-sub000/utils"
)

// VacancyFlow exposes the derived roster views: vacant positions, ordered
// listings, the district catalog and round statistics. Vacancy is never
// stored; it is recomputed from position rows and the latest decision on
// each position at query time.
type VacancyFlow interface {
	ListVacant(ctx context.Context, scope dto.ScopeFilter) (*dto.ListVacantResponse, error)
	ListPositions(ctx context.Context, req *dto.ListPositionsRequest) (*dto.ListPositionsResponse, error)
	DistrictList(ctx context.Context) (*dto.DistrictListResponse, error)
	Statistics(ctx context.Context) (*dto.StatisticsResponse, error)
}

// VacancyFlowImpl implements the vacancy business flow
type VacancyFlowImpl struct {
	positionRepo repository.PositionRecordRepository
	logger       *log.Logger
}

// NewVacancyFlow creates a new vacancy flow instance
func NewVacancyFlow(positionRepo repository.PositionRecordRepository, logger *log.Logger) VacancyFlow {
	if logger == nil {
		logger = log.Default()
	}
	return &VacancyFlowImpl{
		positionRepo: positionRepo,
		logger:       logger,
	}
}

// orderKeys whitelists the order_by values accepted by ListPositions. Keys
// map straight to column orderings so no caller input ever reaches the query
// builder verbatim.
var orderKeys = map[string]string{
	"":                "service_score DESC",
	"service_score":   "service_score DESC",
	"sequence_number": "sequence_number ASC",
	"last_name":       "last_name ASC",
}

// ListVacant returns positions currently open for application within the
// given scope, ordered by district then health center name.
func (s *VacancyFlowImpl) ListVacant(ctx context.Context, scope dto.ScopeFilter) (*dto.ListVacantResponse, error) {
	filter := scopeToFilter(scope)

	records, err := s.positionRepo.ListVacant(ctx, filter, utils.VacantListLimit)
	if err != nil {
		return nil, NewBusinessError("LIST_VACANT_FAILED", "Failed to derive vacant positions", err)
	}

	items := ToPositionDTOs(records)
	return &dto.ListVacantResponse{
		Message: "Vacant positions derived successfully",
		Count:   len(items),
		Items:   items,
	}, nil
}

// ListPositions returns an ordered page of the roster.
func (s *VacancyFlowImpl) ListPositions(ctx context.Context, req *dto.ListPositionsRequest) (*dto.ListPositionsResponse, error) {
	if err := validateRequest("LIST_POSITIONS_FAILED", req); err != nil {
		return nil, err
	}

	orderBy, ok := orderKeys[req.OrderBy]
	if !ok {
		return nil, NewBusinessError("LIST_POSITIONS_FAILED", "Unsupported order key", ErrInvalidOrderKey)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = utils.DefaultListLimit
	}

	filter := scopeToFilter(req.Scope)
	records, err := s.positionRepo.ByFilter(ctx, filter, orderBy, limit, req.Offset)
	if err != nil {
		return nil, NewBusinessError("LIST_POSITIONS_FAILED", "Failed to list positions", err)
	}

	items := ToPositionDTOs(records)
	return &dto.ListPositionsResponse{
		Message: "Positions listed successfully",
		Count:   len(items),
		Items:   items,
	}, nil
}

// DistrictList returns the distinct districts present on the roster.
func (s *VacancyFlowImpl) DistrictList(ctx context.Context) (*dto.DistrictListResponse, error) {
	districts, err := s.positionRepo.DistinctDistricts(ctx)
	if err != nil {
		return nil, NewBusinessError("DISTRICT_LIST_FAILED", "Failed to list districts", err)
	}
	return &dto.DistrictListResponse{Districts: districts}, nil
}

// Statistics summarizes the current round: totals, vacancy count and the
// fill rate as a percentage rounded to two decimals. An empty roster yields
// a zero fill rate rather than a division error.
func (s *VacancyFlowImpl) Statistics(ctx context.Context) (*dto.StatisticsResponse, error) {
	total, err := s.positionRepo.Count(ctx, models.PositionRecordFilter{})
	if err != nil {
		return nil, NewBusinessError("STATISTICS_FAILED", "Failed to count positions", err)
	}

	vacant, err := s.positionRepo.ListVacant(ctx, models.PositionRecordFilter{}, 0)
	if err != nil {
		return nil, NewBusinessError("STATISTICS_FAILED", "Failed to derive vacant positions", err)
	}

	districts, err := s.positionRepo.DistinctDistricts(ctx)
	if err != nil {
		return nil, NewBusinessError("STATISTICS_FAILED", "Failed to list districts", err)
	}

	vacantCount := int64(len(vacant))
	fillRate := 0.0
	if total > 0 {
		fillRate = math.Round(float64(total-vacantCount)/float64(total)*100*100) / 100
	}

	return &dto.StatisticsResponse{
		TotalPositions:  total,
		VacantPositions: vacantCount,
		DistrictCount:   len(districts),
		FillRate:        fillRate,
	}, nil
}
