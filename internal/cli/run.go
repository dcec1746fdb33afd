package cli

import (
	"github.com/spf13/cobra"

	"github.com/monorkin/air-quality-pipeline/internal/database"
	"github.com/monorkin/air-quality-pipeline/internal/globals"
	"github.com/monorkin/air-quality-pipeline/internal/history"
	"github.com/monorkin/air-quality-pipeline/internal/pipeline"
	"github.com/monorkin/air-quality-pipeline/internal/report"
)

func runPipeline(cmd *cobra.Command, args []string) error {
	globals.MustBeInitialized()
	settings := globals.Settings
	ctx := cmd.Context()

	generator := pipeline.NewGenerator(pipeline.DefaultRows, pipeline.DefaultSeed)
	writer := report.NewWriter(settings.Output.Dir, globals.Logger)

	runner := pipeline.NewRunner(generator, writer, globals.Logger)
	runner.Workbook = settings.Export.Workbook

	result, err := runner.Run(ctx)
	if err != nil {
		globals.Logger.Error("Pipeline failed", "error", err)
		return err
	}

	if !settings.History.Enabled {
		return nil
	}

	if err := openHistory(); err != nil {
		return err
	}

	run, err := history.Record(ctx, database.DB, result, settings.Output.Dir)
	if err != nil {
		return err
	}

	globals.Logger.Info("Run recorded in history", "id", run.ID, "run_id", run.RunID)

	return nil
}
