package businessflow

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/mrtylcn99/aile-hekimligi-kura-sub000/app/dto"
	"github.com/mrtylcn99/aile-hekimligi-kura-sub000/app/metrics"
	"github.com/mrtylcn99/aile-hekimligi-kura-sub000/app/services"
	"github.com/mrtylcn99/aile-hekimligi-kura-sub000/models"
	"github.com/mrtylcn99/aile-hekimligi-kura-sub000/repository"
	"github.com/mrtylcn99/aile-hekimligi-kura-sub000/utils"
	"gorm.io/gorm"
)

// PreferenceFlow governs the decision workflow on offered positions. The
// implicit pending state is the absence of a preference row; a decision moves
// the pair to accepted, rejected or deferred, and re-deciding overwrites in
// place. There is no terminal lock: the last decision to commit wins.
type PreferenceFlow interface {
	Decide(ctx context.Context, req *dto.DecideRequest) (*dto.DecideResponse, error)
	GetDecision(ctx context.Context, userID string, positionID uint) (models.PreferenceDecision, error)
}

// PreferenceFlowImpl implements the preference business flow
type PreferenceFlowImpl struct {
	positionRepo     repository.PositionRecordRepository
	preferenceRepo   repository.PreferenceRecordRepository
	notificationRepo repository.NotificationRepository
	notifier         services.NotificationService
	logger           *log.Logger
	db               *gorm.DB
}

// NewPreferenceFlow creates a new preference flow instance
func NewPreferenceFlow(
	positionRepo repository.PositionRecordRepository,
	preferenceRepo repository.PreferenceRecordRepository,
	notificationRepo repository.NotificationRepository,
	notifier services.NotificationService,
	db *gorm.DB,
	logger *log.Logger,
) PreferenceFlow {
	if logger == nil {
		logger = log.Default()
	}
	return &PreferenceFlowImpl{
		positionRepo:     positionRepo,
		preferenceRepo:   preferenceRepo,
		notificationRepo: notificationRepo,
		notifier:         notifier,
		logger:           logger,
		db:               db,
	}
}

// statusDisplay maps a decision status to the wording used on the published
// roster and in user-facing notifications.
var statusDisplay = map[models.PreferenceStatus]string{
	models.PreferenceStatusAccepted: "kabul",
	models.PreferenceStatusRejected: "red",
	models.PreferenceStatusDeferred: "pas",
}

// Decide records one decision for a (user, position) pair. The decision and
// its notification are written in a single transaction, so exactly one
// notification exists per successful transition. Decide is idempotent per
// the overwrite semantics and safe to retry.
func (s *PreferenceFlowImpl) Decide(ctx context.Context, req *dto.DecideRequest) (*dto.DecideResponse, error) {
	if err := validateRequest("DECIDE_FAILED", req); err != nil {
		return nil, err
	}

	status := models.PreferenceStatus(req.Status)
	if !status.Valid() {
		return nil, NewBusinessError("DECIDE_FAILED", "Status must be accepted, rejected or deferred", ErrInvalidPreferenceStatus)
	}

	var record *models.PreferenceRecord
	var notification models.Notification

	err := repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		position, err := s.positionRepo.ByID(txCtx, req.PositionID)
		if err != nil {
			return err
		}
		if position == nil {
			return ErrPositionNotFound
		}

		existing, err := s.preferenceRepo.ByUserAndPosition(txCtx, req.UserID, req.PositionID)
		if err != nil {
			return err
		}

		now := utils.UTCNow()
		record = &models.PreferenceRecord{
			UUID:       uuid.New(),
			UserID:     req.UserID,
			PositionID: req.PositionID,
			Status:     status,
			DecidedAt:  now,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if existing != nil {
			days := int(now.Sub(existing.CreatedAt).Hours() / 24)
			record.WaitingDurationDays = &days
		}

		if _, err := s.preferenceRepo.UpsertDecision(txCtx, record); err != nil {
			return err
		}

		notification = models.Notification{
			UUID:      uuid.New(),
			UserID:    req.UserID,
			Title:     "Tercih kaydedildi",
			Body:      decisionBody(position, status),
			Category:  models.NotificationCategoryPreference,
			CreatedAt: now,
		}
		return s.notificationRepo.Save(txCtx, &notification)
	})
	if err != nil {
		if IsPositionNotFound(err) {
			return nil, err
		}
		return nil, NewBusinessError("DECIDE_FAILED", "Failed to record decision", err)
	}

	metrics.DecisionsTotal.WithLabelValues(status.String()).Inc()
	metrics.NotificationsEmittedTotal.Inc()

	// Delivery is best-effort; the persisted notification is the record of
	// truth and delivery failures must not undo a committed decision.
	if err := s.notifier.Dispatch(ctx, notification); err != nil {
		s.logger.Printf("notification dispatch for user %s failed: %v", req.UserID, err)
	}

	return &dto.DecideResponse{
		Message:   "Decision recorded successfully",
		UserID:    req.UserID,
		Status:    status.String(),
		DecidedAt: record.DecidedAt,
	}, nil
}

// GetDecision returns the total-state decision for a (user, position) pair;
// a missing row is the implicit pending state.
func (s *PreferenceFlowImpl) GetDecision(ctx context.Context, userID string, positionID uint) (models.PreferenceDecision, error) {
	if userID == "" {
		return models.NoDecision(), NewBusinessError("GET_DECISION_FAILED", "User ID is required", ErrUserIDRequired)
	}

	record, err := s.preferenceRepo.ByUserAndPosition(ctx, userID, positionID)
	if err != nil {
		return models.NoDecision(), NewBusinessError("GET_DECISION_FAILED", "Failed to look up decision", err)
	}

	return record.Decision(), nil
}

func decisionBody(position *models.PositionRecord, status models.PreferenceStatus) string {
	place := position.HealthCenterName
	if place == "" {
		place = fmt.Sprintf("%s/%d numaralı pozisyon", position.SourceDocument, position.SequenceNumber)
	}
	if position.District != "" {
		place = position.District + " " + place
	}
	return fmt.Sprintf("%s için kararınız: %s", place, statusDisplay[status])
}
