package report

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/monorkin/air-quality-pipeline/internal/models"
)

const (
	CleanedFileName = "cleaned_air_quality.csv"
	ErrorsFileName  = "sensor_errors_log.csv"

	TimestampLayout = "2006-01-02 15:04:05.000000"
)

var (
	RawColumns   = []string{"Timestamp", "Temperature", "Humidity", "CO2_Levels"}
	CleanColumns = append(append([]string{}, RawColumns...), "Air_Quality")
)

// Writer persists pipeline artifacts into a single output directory
type Writer struct {
	Dir    string
	Logger *slog.Logger
}

func NewWriter(dir string, logger *slog.Logger) *Writer {
	if dir == "" {
		dir = "."
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Writer{Dir: dir, Logger: logger}
}

// Path resolves an artifact name against the output directory
func (w *Writer) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}

	return filepath.Join(w.Dir, name)
}

// WriteCleaned writes the classified clean table, Air_Quality included
func (w *Writer) WriteCleaned(table models.Table) (string, error) {
	path := w.Path(CleanedFileName)
	if err := w.writeCSV(path, CleanColumns, cleanRecords(table)); err != nil {
		return "", fmt.Errorf("failed to write cleaned readings: %w", err)
	}

	return path, nil
}

// WriteErrors writes flagged readings in their raw shape. Nothing is written
// for an empty table and the returned path is empty.
func (w *Writer) WriteErrors(table models.Table) (string, error) {
	if len(table) == 0 {
		return "", nil
	}

	path := w.Path(ErrorsFileName)
	if err := w.writeCSV(path, RawColumns, rawRecords(table)); err != nil {
		return "", fmt.Errorf("failed to write sensor errors: %w", err)
	}

	w.Logger.Info("Errors logged", "path", path, "records", len(table))

	return path, nil
}

func (w *Writer) writeCSV(path string, headers []string, records [][]string) error {
	w.Logger.Debug("Writing CSV file", "path", path, "record_count", len(records))

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for i, record := range records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}

	return file.Close()
}

func rawRecord(reading models.Reading) []string {
	return []string{
		formatTimestamp(reading.Timestamp),
		formatFloat(reading.Temperature),
		formatFloat(reading.Humidity),
		formatFloat(reading.CO2Levels),
	}
}

func rawRecords(table models.Table) [][]string {
	records := make([][]string, len(table))
	for i, reading := range table {
		records[i] = rawRecord(reading)
	}

	return records
}

func cleanRecords(table models.Table) [][]string {
	records := make([][]string, len(table))
	for i, reading := range table {
		records[i] = append(rawRecord(reading), string(reading.AirQuality))
	}

	return records
}

func formatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// formatFloat uses the shortest representation that parses back to the
// same float64
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
