package pipeline

import (
	"context"
	"log/slog"

	"github.com/monorkin/air-quality-pipeline/internal/models"
)

// Range is an inclusive numeric interval
type Range struct {
	Min float64
	Max float64
}

func (r Range) Contains(value float64) bool {
	return value >= r.Min && value <= r.Max
}

// Physically plausible sensor ranges. A reading outside either one is
// treated as a sensor fault.
var (
	TemperatureRange = Range{Min: -10, Max: 60}
	HumidityRange    = Range{Min: 0, Max: 100}
)

const (
	ReasonTemperatureOutOfRange = "temperature_out_of_range"
	ReasonHumidityOutOfRange    = "humidity_out_of_range"
)

func IsValid(reading models.Reading) bool {
	return TemperatureRange.Contains(reading.Temperature) && HumidityRange.Contains(reading.Humidity)
}

// Violations lists every range check the reading fails, in a fixed order
func Violations(reading models.Reading) []string {
	var reasons []string
	if !TemperatureRange.Contains(reading.Temperature) {
		reasons = append(reasons, ReasonTemperatureOutOfRange)
	}
	if !HumidityRange.Contains(reading.Humidity) {
		reasons = append(reasons, ReasonHumidityOutOfRange)
	}

	return reasons
}

// Validate splits the table into readings that pass both range checks and
// readings that fail at least one. Both partitions keep the input order.
func Validate(ctx context.Context, logger *slog.Logger, table models.Table) (clean models.Table, flagged models.Table) {
	if logger == nil {
		logger = slog.Default()
	}

	logger.InfoContext(ctx, "Starting data validation", "records", len(table))

	clean = make(models.Table, 0, len(table))
	flagged = make(models.Table, 0)
	for _, reading := range table {
		if IsValid(reading) {
			clean = append(clean, reading)
			continue
		}

		logger.DebugContext(ctx, "Flagged reading",
			"index", reading.Index,
			"temperature", reading.Temperature,
			"humidity", reading.Humidity,
			"reasons", Violations(reading),
		)
		flagged = append(flagged, reading)
	}

	recordValidation(ctx, len(clean), len(flagged))

	logger.InfoContext(ctx, "Validation complete", "clean", len(clean), "flagged", len(flagged))

	return clean, flagged
}
