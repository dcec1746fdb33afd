package models

import (
	"time"

	"gorm.io/gorm"
)

type PipelineRun struct {
	gorm.Model
	RunID           string `gorm:"uniqueIndex"`
	StartedAt       time.Time
	FinishedAt      time.Time
	Rows            int
	Seed            int64
	CleanRecords    int
	ErrorRecords    int
	AvgTemp         float64
	AvgHumidity     float64
	AvgCO2          float64 `gorm:"column:avg_co2"`
	HighCO2Alerts   int     `gorm:"column:high_co2_alerts"`
	OutputDir       string
	FlaggedReadings []FlaggedReading
}

type FlaggedReading struct {
	gorm.Model
	PipelineRunID uint
	RowIndex      int
	Timestamp     time.Time `gorm:"index"`
	Temperature   float64
	Humidity      float64
	CO2Levels     float64 `gorm:"column:co2_levels"`
	Reason        string
}
