package tests

import (
	"log"
	"testing"

	"github.com/mrtylcn99/aile-hekimligi-kura-sub000/app/dto"
	businessflow "github.com/mrtylcn99/aile-hekimligi-kura-sub000/business_flow"
	"github.com/mrtylcn99/aile-hekimligi-kura-sub000/repository"
	testingutil "github.com/mrtylcn99/aile-hekimligi-kura-sub000/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Flat list rosters put a whole applicant on one line and carry the national
// ID, which the two-line format does not.
const flatRosterTranscript = "T.C. SAĞLIK BAKANLIĞI\n" +
	"\n" +
	"1 AYŞE YILMAZ 10000000146 ÇANKAYA 60000,0\n" +
	"2 MEHMET DEMİR 10000000226 ÇANKAYA 48000,5\n" +
	"3 FATMA KAYA 10000000306 KEÇİÖREN 55000,25\n"

func TestFlatRosterImport(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		importFlow := newImportFlow(testDB.DB)
		positionRepo := repository.NewPositionRecordRepository(testDB.DB)
		rankingFlow := businessflow.NewRankingFlow(positionRepo)
		preferenceFlow := newPreferenceFlow(testDB.DB)
		vacancyFlow := businessflow.NewVacancyFlow(positionRepo, log.Default())
		ctx := testingutil.CreateTestContext()

		t.Run("ImportCarriesNationalID", func(t *testing.T) {
			resp, err := importFlow.ImportTranscript(ctx, &dto.ImportTranscriptRequest{
				SourceDocument: "kura-2022-liste.pdf",
				Text:           flatRosterTranscript,
			})
			require.NoError(t, err)
			assert.Equal(t, 3, resp.Imported)
			assert.Equal(t, 0, resp.Updated)
			assert.Equal(t, 1, resp.Skipped)

			record, err := positionRepo.ByNationalID(ctx, "10000000146")
			require.NoError(t, err)
			require.NotNil(t, record)
			assert.Equal(t, 1, record.SequenceNumber)
			assert.Equal(t, "AYŞE YILMAZ", record.FullName())
			assert.Equal(t, "ÇANKAYA", record.District)
			assert.Equal(t, 60000.0, record.ServiceScore)
		})

		t.Run("RankResolvesImportedApplicant", func(t *testing.T) {
			resp, err := rankingFlow.GetRank(ctx, &dto.GetRankRequest{NationalID: "10000000146"})
			require.NoError(t, err)
			assert.Equal(t, 1, resp.Rank)
			assert.Equal(t, 2, resp.Total)
			assert.Equal(t, "ÇANKAYA", resp.District)

			resp, err = rankingFlow.GetRank(ctx, &dto.GetRankRequest{NationalID: "10000000226"})
			require.NoError(t, err)
			assert.Equal(t, 2, resp.Rank)
			assert.Equal(t, 2, resp.Total)
		})

		t.Run("DecisionFillsImportedPosition", func(t *testing.T) {
			record, err := positionRepo.ByNationalID(ctx, "10000000146")
			require.NoError(t, err)
			require.NotNil(t, record)

			_, err = preferenceFlow.Decide(ctx, &dto.DecideRequest{
				UserID:     "user-10000000146",
				PositionID: record.ID,
				Status:     "accepted",
			})
			require.NoError(t, err)

			resp, err := vacancyFlow.ListVacant(ctx, dto.ScopeFilter{})
			require.NoError(t, err)
			assert.Equal(t, 2, resp.Count)
			for _, item := range resp.Items {
				assert.NotEqual(t, record.ID, item.ID)
			}
		})

		t.Run("ReimportConvergesByNationalID", func(t *testing.T) {
			corrected := "1 AYŞE YILMAZ 10000000146 ÇANKAYA 61000,0\n" +
				"2 MEHMET DEMİR 10000000226 ÇANKAYA 48000,5\n" +
				"3 FATMA KAYA 10000000306 KEÇİÖREN 55000,25\n"

			before, err := positionRepo.ByNationalID(ctx, "10000000146")
			require.NoError(t, err)
			require.NotNil(t, before)

			resp, err := importFlow.ImportTranscript(ctx, &dto.ImportTranscriptRequest{
				SourceDocument: "kura-2022-liste-duzeltme.pdf",
				Text:           corrected,
			})
			require.NoError(t, err)
			assert.Equal(t, 0, resp.Imported)
			assert.Equal(t, 3, resp.Updated)

			after, err := positionRepo.ByNationalID(ctx, "10000000146")
			require.NoError(t, err)
			require.NotNil(t, after)
			assert.Equal(t, before.ID, after.ID)
			assert.Equal(t, before.UUID, after.UUID)
			assert.Equal(t, 61000.0, after.ServiceScore)
			assert.Equal(t, "kura-2022-liste-duzeltme.pdf", after.SourceDocument)
		})

		return nil
	})
	require.NoError(t, err)
}
