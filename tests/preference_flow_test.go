package tests

import (
	"log"
	"testing"

	"github.com/mrtylcn99/aile-hekimligi-kura-sub000/app/dto"
	"github.com/mrtylcn99/aile-hekimligi-kura-sub000/app/services"
	businessflow "github.com/mrtylcn99/aile-hekimligi-kura-sub000/business_flow"
	"github.com/mrtylcn99/aile-hekimligi-kura-sub000/models"
	"github.com/mrtylcn99/aile-hekimligi-kura-sub000/repository"
	testingutil "github.com/mrtylcn99/aile-hekimligi-kura-sub000/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newPreferenceFlow(db *gorm.DB) businessflow.PreferenceFlow {
	return businessflow.NewPreferenceFlow(
		repository.NewPositionRecordRepository(db),
		repository.NewPreferenceRecordRepository(db),
		repository.NewNotificationRepository(db),
		services.NewNotificationService(services.NewMockPushProvider()),
		db,
		log.Default(),
	)
}

func TestPreferenceFlowDecide(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		flow := newPreferenceFlow(testDB.DB)
		preferenceRepo := repository.NewPreferenceRecordRepository(testDB.DB)
		notificationRepo := repository.NewNotificationRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		position, err := fixtures.CreateTestPosition(models.PositionRecord{})
		require.NoError(t, err)

		t.Run("FirstDecision", func(t *testing.T) {
			resp, err := flow.Decide(ctx, &dto.DecideRequest{
				UserID:     "user-1",
				PositionID: position.ID,
				Status:     "deferred",
			})
			require.NoError(t, err)
			assert.Equal(t, "deferred", resp.Status)
			assert.False(t, resp.DecidedAt.IsZero())

			stored, err := preferenceRepo.ByUserAndPosition(ctx, "user-1", position.ID)
			require.NoError(t, err)
			require.NotNil(t, stored)
			assert.Equal(t, models.PreferenceStatusDeferred, stored.Status)
		})

		t.Run("ExactlyOneNotificationPerTransition", func(t *testing.T) {
			list, err := notificationRepo.ListByUser(ctx, "user-1", 10, 0)
			require.NoError(t, err)
			require.Len(t, list, 1)
			assert.Equal(t, models.NotificationCategoryPreference, list[0].Category)
			assert.Contains(t, list[0].Body, "pas")
		})

		t.Run("RedecisionOverwrites", func(t *testing.T) {
			resp, err := flow.Decide(ctx, &dto.DecideRequest{
				UserID:     "user-1",
				PositionID: position.ID,
				Status:     "accepted",
			})
			require.NoError(t, err)
			assert.Equal(t, "accepted", resp.Status)

			stored, err := preferenceRepo.ByUserAndPosition(ctx, "user-1", position.ID)
			require.NoError(t, err)
			require.NotNil(t, stored)
			assert.Equal(t, models.PreferenceStatusAccepted, stored.Status)
			require.NotNil(t, stored.WaitingDurationDays)

			// One row per pair, one notification per transition.
			count, err := preferenceRepo.Count(ctx, models.PreferenceRecordFilter{
				PositionID: &position.ID,
			})
			require.NoError(t, err)
			assert.Equal(t, int64(1), count)

			list, err := notificationRepo.ListByUser(ctx, "user-1", 10, 0)
			require.NoError(t, err)
			assert.Len(t, list, 2)
		})

		t.Run("IndependentUsersOnSamePosition", func(t *testing.T) {
			_, err := flow.Decide(ctx, &dto.DecideRequest{
				UserID:     "user-2",
				PositionID: position.ID,
				Status:     "rejected",
			})
			require.NoError(t, err)

			count, err := preferenceRepo.Count(ctx, models.PreferenceRecordFilter{
				PositionID: &position.ID,
			})
			require.NoError(t, err)
			assert.Equal(t, int64(2), count)
		})

		t.Run("UnknownPosition", func(t *testing.T) {
			_, err := flow.Decide(ctx, &dto.DecideRequest{
				UserID:     "user-1",
				PositionID: 999999,
				Status:     "accepted",
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsPositionNotFound(err))
		})

		t.Run("InvalidStatus", func(t *testing.T) {
			_, err := flow.Decide(ctx, &dto.DecideRequest{
				UserID:     "user-1",
				PositionID: position.ID,
				Status:     "maybe",
			})
			require.Error(t, err)
		})

		t.Run("MissingUserID", func(t *testing.T) {
			_, err := flow.Decide(ctx, &dto.DecideRequest{
				PositionID: position.ID,
				Status:     "accepted",
			})
			require.Error(t, err)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestPreferenceFlowGetDecision(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		flow := newPreferenceFlow(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		position, err := fixtures.CreateTestPosition(models.PositionRecord{})
		require.NoError(t, err)

		t.Run("PendingByDefault", func(t *testing.T) {
			decision, err := flow.GetDecision(ctx, "user-5", position.ID)
			require.NoError(t, err)
			assert.False(t, decision.IsDecided())
		})

		t.Run("DecidedAfterDecide", func(t *testing.T) {
			_, err := flow.Decide(ctx, &dto.DecideRequest{
				UserID:     "user-5",
				PositionID: position.ID,
				Status:     "rejected",
			})
			require.NoError(t, err)

			decision, err := flow.GetDecision(ctx, "user-5", position.ID)
			require.NoError(t, err)
			require.True(t, decision.IsDecided())

			status, ok := decision.Status()
			require.True(t, ok)
			assert.Equal(t, models.PreferenceStatusRejected, status)
		})

		t.Run("MissingUserID", func(t *testing.T) {
			_, err := flow.GetDecision(ctx, "", position.ID)
			require.Error(t, err)
		})

		return nil
	})
	require.NoError(t, err)
}
