package businessflow

import (
	"context"

	"github.com/mrtylcn99/aile-hekimligi-kura-sub000/app/dto"
	"github.com/mrtylcn99/aile-hekimligi-kura-sub000/models"
	"github.com/mrtylcn99/aile-hekimligi-kura-sub000/repository"
)

// RankingFlow computes an applicant's ordinal rank within a roster scope
type RankingFlow interface {
	GetRank(ctx context.Context, req *dto.GetRankRequest) (*dto.GetRankResponse, error)
}

// RankingFlowImpl implements the ranking business flow
type RankingFlowImpl struct {
	positionRepo repository.PositionRecordRepository
}

// NewRankingFlow creates a new ranking flow instance
func NewRankingFlow(positionRepo repository.PositionRecordRepository) RankingFlow {
	return &RankingFlowImpl{positionRepo: positionRepo}
}

// GetRank returns rank = (number of records in scope with a strictly higher
// service score) + 1. Applicants with equal scores share the same rank, and
// a score of zero participates like any other; this mirrors the published
// ranking exactly and is a pure read.
func (s *RankingFlowImpl) GetRank(ctx context.Context, req *dto.GetRankRequest) (*dto.GetRankResponse, error) {
	if err := validateRequest("GET_RANK_FAILED", req); err != nil {
		return nil, err
	}

	record, err := s.positionRepo.ByNationalID(ctx, req.NationalID)
	if err != nil {
		return nil, NewBusinessError("GET_RANK_FAILED", "Failed to look up applicant", err)
	}
	if record == nil {
		return nil, ErrApplicantNotFound
	}

	filter := scopeToFilter(req.Scope)
	if filter.District != nil && *filter.District != record.District {
		return nil, ErrApplicantNotFound
	}
	if filter.Title != nil && *filter.Title != record.Title {
		return nil, ErrApplicantNotFound
	}
	// Default to the applicant's own district when the caller gave no scope,
	// matching the roster's per-district ranking.
	if filter.District == nil {
		filter.District = &record.District
	}

	higher, err := s.positionRepo.CountHigherScores(ctx, filter, record.ServiceScore)
	if err != nil {
		return nil, NewBusinessError("GET_RANK_FAILED", "Failed to count higher scores", err)
	}

	total, err := s.positionRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("GET_RANK_FAILED", "Failed to count records in scope", err)
	}

	return &dto.GetRankResponse{
		Rank:         int(higher) + 1,
		Total:        int(total),
		ServiceScore: record.ServiceScore,
		District:     record.District,
		Title:        record.Title,
	}, nil
}

func scopeToFilter(scope dto.ScopeFilter) models.PositionRecordFilter {
	filter := models.PositionRecordFilter{}
	if scope.District != nil && *scope.District != "" {
		filter.District = scope.District
	}
	if scope.Title != nil && *scope.Title != "" {
		filter.Title = scope.Title
	}
	return filter
}
