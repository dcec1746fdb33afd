package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/monorkin/air-quality-pipeline/internal/models"
	"github.com/monorkin/air-quality-pipeline/internal/report"
)

const (
	stageGenerate  = "generate"
	stageValidate  = "validate"
	stageTransform = "transform"
	stagePersist   = "persist"
	stageReport    = "report"
)

// Result holds every table a run produced along with the written artifacts
type Result struct {
	Raw        models.Table
	Clean      models.Table
	Flagged    models.Table
	Summary    models.Summary
	Seed       int64
	StartedAt  time.Time
	FinishedAt time.Time
	Artifacts  []string
}

// Runner executes one batch run: generate, validate, transform, persist and
// report, strictly in that order. The first error stops the run and leaves
// any files already written in place.
type Runner struct {
	Generator *Generator
	Writer    *report.Writer
	Logger    *slog.Logger
	// Workbook additionally exports every table into one XLSX file
	Workbook bool
}

func NewRunner(generator *Generator, writer *report.Writer, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}

	return &Runner{
		Generator: generator,
		Writer:    writer,
		Logger:    logger,
	}
}

func (r *Runner) Run(ctx context.Context) (*Result, error) {
	result := &Result{
		Seed:      r.Generator.Seed,
		StartedAt: time.Now(),
	}

	start := time.Now()
	raw, err := r.Generator.Generate()
	if err != nil {
		recordFailure(ctx, stageGenerate)
		return nil, err
	}
	result.Raw = raw
	measureStage(ctx, stageGenerate, start)
	r.Logger.DebugContext(ctx, "Generated sensor readings", "records", len(raw), "seed", r.Generator.Seed)

	start = time.Now()
	clean, flagged := Validate(ctx, r.Logger, raw)
	result.Flagged = flagged
	measureStage(ctx, stageValidate, start)

	start = time.Now()
	result.Clean = DeriveAirQuality(clean)
	measureStage(ctx, stageTransform, start)

	start = time.Now()
	if err := r.persist(result); err != nil {
		recordFailure(ctx, stagePersist)
		return nil, err
	}
	measureStage(ctx, stagePersist, start)

	r.Logger.InfoContext(ctx, "Pipeline execution complete")

	start = time.Now()
	if err := r.report(result); err != nil {
		recordFailure(ctx, stageReport)
		return nil, err
	}
	measureStage(ctx, stageReport, start)

	result.FinishedAt = time.Now()

	return result, nil
}

func (r *Runner) persist(result *Result) error {
	path, err := r.Writer.WriteCleaned(result.Clean)
	if err != nil {
		return err
	}
	result.Artifacts = append(result.Artifacts, path)

	path, err = r.Writer.WriteErrors(result.Flagged)
	if err != nil {
		return err
	}
	if path != "" {
		result.Artifacts = append(result.Artifacts, path)
	}

	return nil
}

func (r *Runner) report(result *Result) error {
	result.Summary = Summarize(result.Clean)

	path, err := r.Writer.WriteSummary(result.Summary)
	if err != nil {
		return err
	}
	result.Artifacts = append(result.Artifacts, path)

	path, err = r.Writer.WriteChart(result.Clean)
	if err != nil {
		return err
	}
	result.Artifacts = append(result.Artifacts, path)

	if r.Workbook {
		path, err = r.Writer.WriteWorkbook(result.Clean, result.Flagged, result.Summary)
		if err != nil {
			return err
		}
		result.Artifacts = append(result.Artifacts, path)
	}

	return nil
}
