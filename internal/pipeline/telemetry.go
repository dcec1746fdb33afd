package pipeline

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var meter = otel.Meter("github.com/monorkin/air-quality-pipeline/internal/pipeline")

const (
	// partitionKey labels validated records with the partition they landed in
	partitionKey = "partition"
	// stageKey labels stage durations with the stage name
	stageKey = "stage"
)

var (
	// validatedRecords counts readings leaving the validator, per partition.
	validatedRecords metric.Int64Counter
	// stageDuration measures how long each stage of a run took.
	stageDuration metric.Float64Histogram
	// runFailures counts runs that stopped on an error.
	runFailures metric.Int64Counter
)

func init() {
	var err error
	validatedRecords, err = meter.Int64Counter(
		"pipeline.records.validated",
		metric.WithDescription("The number of readings routed by the validator, labeled with the partition they were routed to."),
	)
	if err != nil {
		panic("pipeline: failed to init 'pipeline.records.validated' instrument")
	}

	stageDuration, err = meter.Float64Histogram(
		"pipeline.stage.duration",
		metric.WithDescription("The duration of a single pipeline stage."),
		metric.WithUnit("ms"),
	)
	if err != nil {
		panic("pipeline: failed to init 'pipeline.stage.duration' instrument")
	}

	runFailures, err = meter.Int64Counter(
		"pipeline.runs.failures",
		metric.WithDescription("The number of pipeline runs that stopped on an error."),
	)
	if err != nil {
		panic("pipeline: failed to init 'pipeline.runs.failures' instrument")
	}
}

var (
	cleanPartition   = attribute.NewSet(attribute.String(partitionKey, "clean"))
	flaggedPartition = attribute.NewSet(attribute.String(partitionKey, "flagged"))
)

func recordValidation(ctx context.Context, clean, flagged int) {
	validatedRecords.Add(ctx, int64(clean), metric.WithAttributeSet(cleanPartition))
	validatedRecords.Add(ctx, int64(flagged), metric.WithAttributeSet(flaggedPartition))
}

// measureStage records the time elapsed since start under the stage name
func measureStage(ctx context.Context, stage string, start time.Time) {
	attrs := attribute.NewSet(attribute.String(stageKey, stage))
	stageDuration.Record(ctx, durationMillis(time.Since(start)), metric.WithAttributeSet(attrs))
}

// durationMillis converts d to fractional milliseconds
func durationMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func recordFailure(ctx context.Context, stage string) {
	attrs := attribute.NewSet(attribute.String(stageKey, stage))
	runFailures.Add(ctx, 1, metric.WithAttributeSet(attrs))
}
