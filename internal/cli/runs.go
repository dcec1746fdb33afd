package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/monorkin/air-quality-pipeline/internal/database"
	"github.com/monorkin/air-quality-pipeline/internal/globals"
	"github.com/monorkin/air-quality-pipeline/internal/history"
	"github.com/monorkin/air-quality-pipeline/internal/models"
)

const timestampFormat = "2006-01-02T15:04:05Z07:00"

var listLimit int

// runsCmd represents the runs command
var runsCmd = &cobra.Command{
	Use:     "runs",
	Aliases: []string{"r", "run"},
	Short:   "Inspect recorded pipeline runs",
	Long:    `Commands for inspecting pipeline runs recorded in the run history (enabled with history.enabled).`,
}

// runsListCmd represents the runs list command
var runsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List recorded runs",
	Long:    `List recorded runs, newest first, with their record counts and high CO2 alerts.`,
	Args:    cobra.NoArgs,
	RunE:    runRunsList,
}

// runsShowCmd represents the runs show command
var runsShowCmd = &cobra.Command{
	Use:   "show <id_or_run_id>",
	Short: "Show a recorded run and its flagged readings",
	Long: `Show a recorded run specified by either its numeric ID or its run ID.

Examples:
  air-quality-pipeline runs show 1
  air-quality-pipeline runs show 0b7e1c3a-6f0e-4a53-9d62-2f7f4b1f2c11`,
	Args: cobra.ExactArgs(1),
	RunE: runRunsShow,
}

func runRunsList(cmd *cobra.Command, args []string) error {
	if err := openHistory(); err != nil {
		return err
	}

	runs, err := history.List(cmd.Context(), database.DB, listLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "ID\tRUN ID\tSTARTED\tCLEAN\tFLAGGED\tHIGH CO2")
	fmt.Fprintln(w, "--\t------\t-------\t-----\t-------\t--------")

	for _, run := range runs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\t%d\n",
			run.ID,
			run.RunID,
			run.StartedAt.Format(timestampFormat),
			run.CleanRecords,
			run.ErrorRecords,
			run.HighCO2Alerts,
		)
	}

	globals.Logger.Debug("Run list completed", "count", len(runs))

	return nil
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	if err := openHistory(); err != nil {
		return err
	}

	run, err := history.Find(cmd.Context(), database.DB, args[0])
	if err != nil {
		return err
	}

	output, err := json.MarshalIndent(NewRunInfo(run), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format run: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(output))

	return nil
}

// RunInfo represents a recorded run for JSON output
type RunInfo struct {
	ID              uint                 `json:"id"`
	RunID           string               `json:"run_id"`
	StartedAt       string               `json:"started_at"`
	FinishedAt      string               `json:"finished_at"`
	Rows            int                  `json:"rows"`
	Seed            int64                `json:"seed"`
	OutputDir       string               `json:"output_dir"`
	CleanRecords    int                  `json:"clean_records"`
	ErrorRecords    int                  `json:"error_records"`
	AvgTemp         float64              `json:"avg_temp"`
	AvgHumidity     float64              `json:"avg_humidity"`
	AvgCO2          float64              `json:"avg_co2"`
	HighCO2Alerts   int                  `json:"high_co2_alerts"`
	FlaggedReadings []FlaggedReadingInfo `json:"flagged_readings"`
}

// FlaggedReadingInfo represents a flagged reading for JSON output
type FlaggedReadingInfo struct {
	RowIndex    int     `json:"row_index"`
	Timestamp   string  `json:"timestamp"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	CO2Levels   float64 `json:"co2_levels"`
	Reason      string  `json:"reason"`
}

func NewRunInfo(run *models.PipelineRun) RunInfo {
	info := RunInfo{
		ID:              run.ID,
		RunID:           run.RunID,
		StartedAt:       formatTime(run.StartedAt),
		FinishedAt:      formatTime(run.FinishedAt),
		Rows:            run.Rows,
		Seed:            run.Seed,
		OutputDir:       run.OutputDir,
		CleanRecords:    run.CleanRecords,
		ErrorRecords:    run.ErrorRecords,
		AvgTemp:         run.AvgTemp,
		AvgHumidity:     run.AvgHumidity,
		AvgCO2:          run.AvgCO2,
		HighCO2Alerts:   run.HighCO2Alerts,
		FlaggedReadings: make([]FlaggedReadingInfo, 0, len(run.FlaggedReadings)),
	}

	for _, reading := range run.FlaggedReadings {
		info.FlaggedReadings = append(info.FlaggedReadings, FlaggedReadingInfo{
			RowIndex:    reading.RowIndex,
			Timestamp:   formatTime(reading.Timestamp),
			Temperature: reading.Temperature,
			Humidity:    reading.Humidity,
			CO2Levels:   reading.CO2Levels,
			Reason:      reading.Reason,
		})
	}

	return info
}

func formatTime(t time.Time) string {
	return t.Format(timestampFormat)
}

func init() {
	// Add runs command to root
	rootCmd.AddCommand(runsCmd)

	// Add list and show subcommands to runs
	runsListCmd.Flags().IntVarP(&listLimit, "limit", "n", 20, "Maximum number of runs to list (0 lists all)")
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
}
