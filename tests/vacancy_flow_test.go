package tests

import (
	"bytes"
	"log"
	"testing"

	"github.com/mrtylcn99/aile-hekimligi-kura-sub000/app/dto"
	businessflow "github.com/mrtylcn99/aile-hekimligi-kura-sub000/business_flow"
	"github.com/mrtylcn99/aile-hekimligi-kura-sub000/models"
	"github.com/mrtylcn99/aile-hekimligi-kura-sub000/repository"
	testingutil "github.com/mrtylcn99/aile-hekimligi-kura-sub000/testing"
	"github.com/mrtylcn99/aile-hekimligi-kura-sub000/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestVacancyFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		positionRepo := repository.NewPositionRecordRepository(testDB.DB)
		flow := businessflow.NewVacancyFlow(positionRepo, log.Default())
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()
		now := utils.UTCNow()

		open, err := fixtures.CreateTestPosition(models.PositionRecord{District: "ÇANKAYA"})
		require.NoError(t, err)

		filled, err := fixtures.CreateTestPosition(models.PositionRecord{District: "KEÇİÖREN"})
		require.NoError(t, err)
		_, err = fixtures.CreateTestPreference("user-1", filled.ID, models.PreferenceStatusAccepted, now)
		require.NoError(t, err)

		reopened, err := fixtures.CreateTestPosition(models.PositionRecord{District: "MAMAK"})
		require.NoError(t, err)
		_, err = fixtures.CreateTestPreference("user-2", reopened.ID, models.PreferenceStatusRejected, now)
		require.NoError(t, err)

		t.Run("ListVacant", func(t *testing.T) {
			resp, err := flow.ListVacant(ctx, dto.ScopeFilter{})
			require.NoError(t, err)
			assert.Equal(t, 2, resp.Count)

			ids := make(map[uint]bool)
			for _, item := range resp.Items {
				ids[item.ID] = true
			}
			assert.True(t, ids[open.ID])
			assert.True(t, ids[reopened.ID])
			assert.False(t, ids[filled.ID])
		})

		t.Run("ListVacantScoped", func(t *testing.T) {
			resp, err := flow.ListVacant(ctx, dto.ScopeFilter{District: utils.ToPtr("MAMAK")})
			require.NoError(t, err)
			require.Equal(t, 1, resp.Count)
			assert.Equal(t, reopened.ID, resp.Items[0].ID)
		})

		t.Run("ListPositionsDefaultOrder", func(t *testing.T) {
			resp, err := flow.ListPositions(ctx, &dto.ListPositionsRequest{})
			require.NoError(t, err)
			require.Equal(t, 3, resp.Count)

			// Default ordering is service score descending.
			for i := 1; i < len(resp.Items); i++ {
				assert.GreaterOrEqual(t, resp.Items[i-1].ServiceScore, resp.Items[i].ServiceScore)
			}
		})

		t.Run("ListPositionsBySequence", func(t *testing.T) {
			resp, err := flow.ListPositions(ctx, &dto.ListPositionsRequest{OrderBy: "sequence_number"})
			require.NoError(t, err)
			for i := 1; i < len(resp.Items); i++ {
				assert.LessOrEqual(t, resp.Items[i-1].SequenceNumber, resp.Items[i].SequenceNumber)
			}
		})

		t.Run("ListPositionsRejectsUnknownOrderKey", func(t *testing.T) {
			_, err := flow.ListPositions(ctx, &dto.ListPositionsRequest{OrderBy: "uuid; DROP TABLE"})
			require.Error(t, err)
		})

		t.Run("ListPositionsLimit", func(t *testing.T) {
			resp, err := flow.ListPositions(ctx, &dto.ListPositionsRequest{Limit: 1})
			require.NoError(t, err)
			assert.Equal(t, 1, resp.Count)
		})

		t.Run("DistrictList", func(t *testing.T) {
			resp, err := flow.DistrictList(ctx)
			require.NoError(t, err)
			assert.Contains(t, resp.Districts, "ÇANKAYA")
			assert.Contains(t, resp.Districts, "KEÇİÖREN")
			assert.Contains(t, resp.Districts, "MAMAK")
		})

		t.Run("Statistics", func(t *testing.T) {
			resp, err := flow.Statistics(ctx)
			require.NoError(t, err)
			assert.Equal(t, int64(3), resp.TotalPositions)
			assert.Equal(t, int64(2), resp.VacantPositions)
			assert.Equal(t, 3, resp.DistrictCount)
			// 1 of 3 filled.
			assert.InDelta(t, 33.33, resp.FillRate, 0.01)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestVacancyFlowStatisticsEmptyRoster(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		flow := businessflow.NewVacancyFlow(repository.NewPositionRecordRepository(testDB.DB), log.Default())
		ctx := testingutil.CreateTestContext()

		resp, err := flow.Statistics(ctx)
		require.NoError(t, err)
		assert.Zero(t, resp.TotalPositions)
		assert.Zero(t, resp.FillRate)

		return nil
	})
	require.NoError(t, err)
}

func TestExportFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		flow := businessflow.NewExportFlow(repository.NewPositionRecordRepository(testDB.DB), log.Default())
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		_, err := fixtures.CreateTestPosition(models.PositionRecord{District: "ÇANKAYA", UnitCode: "06.01.001"})
		require.NoError(t, err)
		_, err = fixtures.CreateTestPosition(models.PositionRecord{District: "MAMAK", UnitCode: "06.03.002"})
		require.NoError(t, err)

		filename, content, err := flow.ExportVacantRoster(ctx, dto.ScopeFilter{})
		require.NoError(t, err)
		assert.Contains(t, filename, ".xlsx")
		require.NotEmpty(t, content)

		workbook, err := excelize.OpenReader(bytes.NewReader(content))
		require.NoError(t, err)
		defer workbook.Close()

		sheets := workbook.GetSheetList()
		assert.Contains(t, sheets, "ÇANKAYA")
		assert.Contains(t, sheets, "MAMAK")

		cell, err := workbook.GetCellValue("ÇANKAYA", "A1")
		require.NoError(t, err)
		assert.Equal(t, "Sıra No", cell)

		unit, err := workbook.GetCellValue("ÇANKAYA", "D2")
		require.NoError(t, err)
		assert.Equal(t, "06.01.001", unit)

		return nil
	})
	require.NoError(t, err)
}
