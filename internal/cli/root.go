package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/monorkin/air-quality-pipeline/internal/config"
	"github.com/monorkin/air-quality-pipeline/internal/database"
	"github.com/monorkin/air-quality-pipeline/internal/globals"
)

var (
	verbose    bool
	configPath string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "air-quality-pipeline",
	Short: "Synthetic air quality sensor data pipeline",
	Long: `Generates a reproducible batch of synthetic air quality sensor readings,
separates physically implausible readings from clean ones, classifies air
quality from CO2 levels and writes the results.

Running without a subcommand executes the whole pipeline and writes
cleaned_air_quality.csv, sensor_errors_log.csv, pipeline_summary.json and
data_trends.png into the output directory (the working directory by default).`,
	Args:              cobra.NoArgs,
	SilenceUsage:      true,
	PersistentPreRunE: initializeApp,
	RunE:              runPipeline,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose (debug) logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", fmt.Sprintf("Path to the YAML config file (default %s)", config.DefaultConfigPath()))
}

// initializeApp loads settings and sets up the logger for every command
func initializeApp(cmd *cobra.Command, args []string) error {
	settings, err := config.LoadSettings(configPath)
	if err != nil {
		return err
	}

	globals.Initialize(verbose, settings)

	return nil
}

// openHistory connects to the run history database
func openHistory() error {
	dbPath := globals.Settings.DBPath()
	globals.Logger.Debug("Opening run history", "path", dbPath)

	if err := database.Init(dbPath); err != nil {
		return fmt.Errorf("failed to open run history: %w", err)
	}

	return nil
}
