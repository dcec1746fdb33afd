package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/monorkin/air-quality-pipeline/internal/database"
	"github.com/monorkin/air-quality-pipeline/internal/models"
	"github.com/monorkin/air-quality-pipeline/internal/pipeline"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Open(filepath.Join(t.TempDir(), "history.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })
	return db
}

func sampleResult(startedAt time.Time) *pipeline.Result {
	flagged := models.Table{
		{Index: 5, Timestamp: startedAt.Add(-5 * time.Minute), Temperature: 500, Humidity: 40, CO2Levels: 500},
		{Index: 10, Timestamp: startedAt.Add(-10 * time.Minute), Temperature: 20, Humidity: -10, CO2Levels: 900},
		{Index: 12, Timestamp: startedAt.Add(-12 * time.Minute), Temperature: 90, Humidity: 120, CO2Levels: 700},
	}
	clean := models.Table{
		{Index: 0, Timestamp: startedAt, Temperature: 21, Humidity: 50, CO2Levels: 850, AirQuality: models.AirQualityPoor},
		{Index: 1, Timestamp: startedAt.Add(-time.Minute), Temperature: 23, Humidity: 52, CO2Levels: 420, AirQuality: models.AirQualityGood},
	}

	return &pipeline.Result{
		Raw:        append(clean.Clone(), flagged...),
		Clean:      clean,
		Flagged:    flagged,
		Summary:    pipeline.Summarize(clean),
		Seed:       42,
		StartedAt:  startedAt,
		FinishedAt: startedAt.Add(time.Second),
	}
}

func TestRecord(t *testing.T) {
	db := setupTestDB(t)
	result := sampleResult(time.Now())

	run, err := Record(context.Background(), db, result, "/srv/reports")
	require.NoError(t, err)

	assert.NotZero(t, run.ID)
	_, err = uuid.Parse(run.RunID)
	assert.NoError(t, err)
	assert.Equal(t, 5, run.Rows)
	assert.Equal(t, 2, run.CleanRecords)
	assert.Equal(t, 3, run.ErrorRecords)
	assert.Equal(t, 1, run.HighCO2Alerts)
	assert.Equal(t, 22.0, run.AvgTemp)
	assert.Equal(t, "/srv/reports", run.OutputDir)
	require.Len(t, run.FlaggedReadings, 3)

	var stored int64
	require.NoError(t, db.Model(&models.FlaggedReading{}).Where("pipeline_run_id = ?", run.ID).Count(&stored).Error)
	assert.Equal(t, int64(3), stored)
}

func TestFind(t *testing.T) {
	db := setupTestDB(t)
	recorded, err := Record(context.Background(), db, sampleResult(time.Now()), ".")
	require.NoError(t, err)

	tests := []struct {
		name       string
		identifier string
	}{
		{name: "by id", identifier: "1"},
		{name: "by run id", identifier: recorded.RunID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run, err := Find(context.Background(), db, tt.identifier)
			require.NoError(t, err)

			assert.Equal(t, recorded.ID, run.ID)
			assert.Equal(t, recorded.RunID, run.RunID)
			require.Len(t, run.FlaggedReadings, 3)

			reasons := map[int]string{}
			for _, reading := range run.FlaggedReadings {
				reasons[reading.RowIndex] = reading.Reason
			}
			assert.Equal(t, map[int]string{
				5:  pipeline.ReasonTemperatureOutOfRange,
				10: pipeline.ReasonHumidityOutOfRange,
				12: pipeline.ReasonTemperatureOutOfRange + "," + pipeline.ReasonHumidityOutOfRange,
			}, reasons)
			assert.Equal(t, 5, run.FlaggedReadings[0].RowIndex, "flagged readings are ordered by row")
		})
	}
}

func TestFind_NotFound(t *testing.T) {
	db := setupTestDB(t)

	for _, identifier := range []string{"42", uuid.NewString()} {
		run, err := Find(context.Background(), db, identifier)

		assert.Nil(t, run)
		assert.ErrorIs(t, err, ErrRunNotFound)
	}
}

func TestList(t *testing.T) {
	db := setupTestDB(t)
	base := time.Date(2024, time.March, 14, 9, 0, 0, 0, time.UTC)

	var recorded []*models.PipelineRun
	for i := 0; i < 3; i++ {
		run, err := Record(context.Background(), db, sampleResult(base.Add(time.Duration(i)*time.Hour)), ".")
		require.NoError(t, err)
		recorded = append(recorded, run)
	}

	all, err := List(context.Background(), db, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, recorded[2].RunID, all[0].RunID, "newest first")
	assert.Equal(t, recorded[0].RunID, all[2].RunID)

	limited, err := List(context.Background(), db, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestList_Empty(t *testing.T) {
	runs, err := List(context.Background(), setupTestDB(t), 10)

	require.NoError(t, err)
	assert.Empty(t, runs)
}
