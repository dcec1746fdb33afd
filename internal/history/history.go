// Package history keeps a ledger of pipeline runs in the SQLite database.
// Each run stores its summary and the readings the validator flagged, so a
// past run can be inspected after its CSV files were overwritten.
package history

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/monorkin/air-quality-pipeline/internal/models"
	"github.com/monorkin/air-quality-pipeline/internal/pipeline"
)

var ErrRunNotFound = errors.New("pipeline run not found")

// Record stores a finished run and its flagged readings in one transaction
func Record(ctx context.Context, db *gorm.DB, result *pipeline.Result, outputDir string) (*models.PipelineRun, error) {
	run := &models.PipelineRun{
		RunID:         uuid.NewString(),
		StartedAt:     result.StartedAt,
		FinishedAt:    result.FinishedAt,
		Rows:          len(result.Raw),
		Seed:          result.Seed,
		CleanRecords:  len(result.Clean),
		ErrorRecords:  len(result.Flagged),
		AvgTemp:       result.Summary.AvgTemp,
		AvgHumidity:   result.Summary.AvgHumidity,
		AvgCO2:        result.Summary.AvgCO2,
		HighCO2Alerts: result.Summary.HighCO2Alerts,
		OutputDir:     outputDir,
	}

	for _, reading := range result.Flagged {
		run.FlaggedReadings = append(run.FlaggedReadings, models.FlaggedReading{
			RowIndex:    reading.Index,
			Timestamp:   reading.Timestamp,
			Temperature: reading.Temperature,
			Humidity:    reading.Humidity,
			CO2Levels:   reading.CO2Levels,
			Reason:      strings.Join(pipeline.Violations(reading), ","),
		})
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(run).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record pipeline run: %w", err)
	}

	return run, nil
}

// List returns up to limit runs, newest first. A limit of zero or less
// returns every run.
func List(ctx context.Context, db *gorm.DB, limit int) ([]models.PipelineRun, error) {
	query := db.WithContext(ctx).Order("started_at DESC").Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var runs []models.PipelineRun
	if err := query.Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to list pipeline runs: %w", err)
	}

	return runs, nil
}

// Find looks a run up by its numeric ID or by its run UUID and loads its
// flagged readings
func Find(ctx context.Context, db *gorm.DB, identifier string) (*models.PipelineRun, error) {
	query := db.WithContext(ctx).Preload("FlaggedReadings", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("row_index ASC")
	})

	var run models.PipelineRun
	var err error
	if id, parseErr := strconv.ParseUint(identifier, 10, 32); parseErr == nil {
		err = query.First(&run, uint(id)).Error
	} else {
		err = query.Where("run_id = ?", identifier).First(&run).Error
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, identifier)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find pipeline run %s: %w", identifier, err)
	}

	return &run, nil
}
