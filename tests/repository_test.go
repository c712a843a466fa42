// Package tests contains test cases for models and repository packages to avoid circular imports
package tests

import (
	"testing"
	"time"

	"github.com/mrtylcn99/aile-hekimligi-kura-sub000/models"
	"github.com/mrtylcn99/aile-hekimligi-kura-sub000/repository"
	testingutil "github.com/mrtylcn99/aile-hekimligi-kura-sub000/testing"
	"github.com/mrtylcn99/aile-hekimligi-kura-sub000/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositionRecordRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewPositionRecordRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		t.Run("UpsertCreates", func(t *testing.T) {
			record := &models.PositionRecord{
				UUID:           uuid.New(),
				SourceDocument: "doc-a.pdf",
				SequenceNumber: 1,
				FirstName:      "AYŞE",
				LastName:       "YILMAZ",
				ServiceScore:   60000,
				District:       "ÇANKAYA",
				IngestedAt:     utils.UTCNow(),
				UpdatedAt:      utils.UTCNow(),
			}
			outcome, err := repo.Upsert(ctx, record)
			require.NoError(t, err)
			assert.Equal(t, repository.UpsertCreated, outcome)
			assert.NotZero(t, record.ID)
		})

		t.Run("UpsertOverwritesSameKey", func(t *testing.T) {
			first := &models.PositionRecord{
				UUID:           uuid.New(),
				SourceDocument: "doc-b.pdf",
				SequenceNumber: 7,
				FirstName:      "MEHMET",
				LastName:       "DEMİR",
				ServiceScore:   40000,
				IngestedAt:     utils.UTCNow(),
				UpdatedAt:      utils.UTCNow(),
			}
			outcome, err := repo.Upsert(ctx, first)
			require.NoError(t, err)
			require.Equal(t, repository.UpsertCreated, outcome)

			second := &models.PositionRecord{
				UUID:           uuid.New(),
				SourceDocument: "doc-b.pdf",
				SequenceNumber: 7,
				FirstName:      "MEHMET",
				LastName:       "DEMİR",
				ServiceScore:   41000,
				IngestedAt:     utils.UTCNow(),
				UpdatedAt:      utils.UTCNow(),
			}
			outcome, err = repo.Upsert(ctx, second)
			require.NoError(t, err)
			assert.Equal(t, repository.UpsertUpdated, outcome)

			stored, err := repo.BySourceAndSequence(ctx, "doc-b.pdf", 7)
			require.NoError(t, err)
			require.NotNil(t, stored)
			assert.Equal(t, first.ID, stored.ID)
			assert.Equal(t, 41000.0, stored.ServiceScore)

			count, err := repo.Count(ctx, models.PositionRecordFilter{
				SourceDocument: utils.ToPtr("doc-b.pdf"),
			})
			require.NoError(t, err)
			assert.Equal(t, int64(1), count)
		})

		t.Run("BySourceAndSequenceNotFound", func(t *testing.T) {
			record, err := repo.BySourceAndSequence(ctx, "doc-a.pdf", 999)
			assert.NoError(t, err)
			assert.Nil(t, record)
		})

		t.Run("ByNationalID", func(t *testing.T) {
			nationalID := testingutil.RandomNationalID()
			created, err := fixtures.CreateTestPosition(models.PositionRecord{
				NationalID: &nationalID,
			})
			require.NoError(t, err)

			record, err := repo.ByNationalID(ctx, nationalID)
			require.NoError(t, err)
			require.NotNil(t, record)
			assert.Equal(t, created.ID, record.ID)
		})

		t.Run("CountHigherScores", func(t *testing.T) {
			district := "MAMAK"
			scores := []float64{30000, 45000, 45000, 60000}
			for i, score := range scores {
				_, err := fixtures.CreateTestPosition(models.PositionRecord{
					SourceDocument: "doc-scores.pdf",
					SequenceNumber: i + 1,
					District:       district,
					ServiceScore:   score,
				})
				require.NoError(t, err)
			}

			filter := models.PositionRecordFilter{District: &district}

			higher, err := repo.CountHigherScores(ctx, filter, 45000)
			require.NoError(t, err)
			// Ties do not count as higher.
			assert.Equal(t, int64(1), higher)

			higher, err = repo.CountHigherScores(ctx, filter, 60000)
			require.NoError(t, err)
			assert.Equal(t, int64(0), higher)

			higher, err = repo.CountHigherScores(ctx, filter, 0)
			require.NoError(t, err)
			assert.Equal(t, int64(4), higher)
		})

		t.Run("DistinctDistricts", func(t *testing.T) {
			_, err := fixtures.CreateTestPosition(models.PositionRecord{District: "SİNCAN"})
			require.NoError(t, err)
			_, err = fixtures.CreateTestPosition(models.PositionRecord{District: "SİNCAN"})
			require.NoError(t, err)

			districts, err := repo.DistinctDistricts(ctx)
			require.NoError(t, err)
			assert.Contains(t, districts, "SİNCAN")

			seen := make(map[string]int)
			for _, d := range districts {
				seen[d]++
			}
			assert.Equal(t, 1, seen["SİNCAN"])
		})

		return nil
	})
	require.NoError(t, err)
}

func TestPositionRecordRepositoryListVacant(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewPositionRecordRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()
		now := utils.UTCNow()

		// No decision, no consent: vacant.
		open, err := fixtures.CreateTestPosition(models.PositionRecord{District: "A"})
		require.NoError(t, err)

		// No decision but consent recorded: filled.
		_, err = fixtures.CreateTestPosition(models.PositionRecord{District: "B", ConsentStatus: "MUVAFAKAT"})
		require.NoError(t, err)

		// Latest decision rejected: vacant even with consent text.
		rejected, err := fixtures.CreateTestPosition(models.PositionRecord{District: "C", ConsentStatus: "MUVAFAKAT"})
		require.NoError(t, err)
		_, err = fixtures.CreateTestPreference("user-1", rejected.ID, models.PreferenceStatusRejected, now)
		require.NoError(t, err)

		// Accepted then rejected later by another applicant: the latest wins.
		flipped, err := fixtures.CreateTestPosition(models.PositionRecord{District: "D"})
		require.NoError(t, err)
		_, err = fixtures.CreateTestPreference("user-1", flipped.ID, models.PreferenceStatusAccepted, now.Add(-time.Hour))
		require.NoError(t, err)
		_, err = fixtures.CreateTestPreference("user-2", flipped.ID, models.PreferenceStatusRejected, now)
		require.NoError(t, err)

		// Latest decision accepted: filled regardless of consent text.
		accepted, err := fixtures.CreateTestPosition(models.PositionRecord{District: "E"})
		require.NoError(t, err)
		_, err = fixtures.CreateTestPreference("user-3", accepted.ID, models.PreferenceStatusAccepted, now)
		require.NoError(t, err)

		// Deferred: still open.
		deferred, err := fixtures.CreateTestPosition(models.PositionRecord{District: "F"})
		require.NoError(t, err)
		_, err = fixtures.CreateTestPreference("user-4", deferred.ID, models.PreferenceStatusDeferred, now)
		require.NoError(t, err)

		vacant, err := repo.ListVacant(ctx, models.PositionRecordFilter{}, 0)
		require.NoError(t, err)

		ids := make(map[uint]bool)
		for _, record := range vacant {
			ids[record.ID] = true
		}
		assert.True(t, ids[open.ID], "undecided position without consent should be vacant")
		assert.True(t, ids[rejected.ID], "rejected position should be vacant")
		assert.True(t, ids[flipped.ID], "latest rejection should reopen the position")
		assert.True(t, ids[deferred.ID], "deferred position should be vacant")
		assert.Len(t, vacant, 4)

		// Ordered by district ascending.
		for i := 1; i < len(vacant); i++ {
			assert.LessOrEqual(t, vacant[i-1].District, vacant[i].District)
		}

		t.Run("ScopedByDistrict", func(t *testing.T) {
			scoped, err := repo.ListVacant(ctx, models.PositionRecordFilter{District: utils.ToPtr("C")}, 0)
			require.NoError(t, err)
			require.Len(t, scoped, 1)
			assert.Equal(t, rejected.ID, scoped[0].ID)
		})

		t.Run("LimitApplies", func(t *testing.T) {
			limited, err := repo.ListVacant(ctx, models.PositionRecordFilter{}, 2)
			require.NoError(t, err)
			assert.Len(t, limited, 2)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestPreferenceRecordRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewPreferenceRecordRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()
		now := utils.UTCNow()

		position, err := fixtures.CreateTestPosition(models.PositionRecord{})
		require.NoError(t, err)

		t.Run("UpsertDecisionCreates", func(t *testing.T) {
			record := &models.PreferenceRecord{
				UUID:       uuid.New(),
				UserID:     "user-10",
				PositionID: position.ID,
				Status:     models.PreferenceStatusDeferred,
				DecidedAt:  now,
				CreatedAt:  now,
			}
			outcome, err := repo.UpsertDecision(ctx, record)
			require.NoError(t, err)
			assert.Equal(t, repository.UpsertCreated, outcome)
		})

		t.Run("UpsertDecisionOverwrites", func(t *testing.T) {
			record := &models.PreferenceRecord{
				UUID:       uuid.New(),
				UserID:     "user-10",
				PositionID: position.ID,
				Status:     models.PreferenceStatusAccepted,
				DecidedAt:  now.Add(time.Minute),
				CreatedAt:  now,
			}
			outcome, err := repo.UpsertDecision(ctx, record)
			require.NoError(t, err)
			assert.Equal(t, repository.UpsertUpdated, outcome)

			stored, err := repo.ByUserAndPosition(ctx, "user-10", position.ID)
			require.NoError(t, err)
			require.NotNil(t, stored)
			assert.Equal(t, models.PreferenceStatusAccepted, stored.Status)

			count, err := repo.Count(ctx, models.PreferenceRecordFilter{
				UserID:     utils.ToPtr("user-10"),
				PositionID: &position.ID,
			})
			require.NoError(t, err)
			assert.Equal(t, int64(1), count)
		})

		t.Run("ByUserAndPositionNotFound", func(t *testing.T) {
			record, err := repo.ByUserAndPosition(ctx, "nobody", position.ID)
			assert.NoError(t, err)
			assert.Nil(t, record)
		})

		t.Run("LatestByPositionIDs", func(t *testing.T) {
			other, err := fixtures.CreateTestPosition(models.PositionRecord{})
			require.NoError(t, err)

			_, err = fixtures.CreateTestPreference("user-11", other.ID, models.PreferenceStatusAccepted, now.Add(-time.Hour))
			require.NoError(t, err)
			_, err = fixtures.CreateTestPreference("user-12", other.ID, models.PreferenceStatusRejected, now)
			require.NoError(t, err)

			latest, err := repo.LatestByPositionIDs(ctx, []uint{other.ID})
			require.NoError(t, err)
			require.Contains(t, latest, other.ID)
			assert.Equal(t, models.PreferenceStatusRejected, latest[other.ID].Status)
			assert.Equal(t, "user-12", latest[other.ID].UserID)
		})

		t.Run("LatestByPositionIDsEmpty", func(t *testing.T) {
			latest, err := repo.LatestByPositionIDs(ctx, nil)
			require.NoError(t, err)
			assert.Empty(t, latest)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestNotificationRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewNotificationRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()

		notification := &models.Notification{
			UUID:     uuid.New(),
			UserID:   "user-20",
			Title:    "Tercih kaydedildi",
			Body:     "ÇANKAYA MERKEZ ASM için kararınız: kabul",
			Category: models.NotificationCategoryPreference,
		}
		require.NoError(t, repo.Save(ctx, notification))
		require.NotZero(t, notification.ID)

		t.Run("ListByUser", func(t *testing.T) {
			list, err := repo.ListByUser(ctx, "user-20", 10, 0)
			require.NoError(t, err)
			require.Len(t, list, 1)
			assert.Equal(t, notification.ID, list[0].ID)
			assert.False(t, utils.IsTrue(list[0].IsRead))
		})

		t.Run("MarkRead", func(t *testing.T) {
			require.NoError(t, repo.MarkRead(ctx, notification.ID))

			list, err := repo.ListByUser(ctx, "user-20", 10, 0)
			require.NoError(t, err)
			require.Len(t, list, 1)
			assert.True(t, utils.IsTrue(list[0].IsRead))
		})

		return nil
	})
	require.NoError(t, err)
}
