package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/monorkin/air-quality-pipeline/internal/models"
)

const (
	WorkbookFileName = "air_quality_report.xlsx"

	CleanedSheet = "Cleaned"
	ErrorsSheet  = "Errors"
	SummarySheet = "Summary"
)

// WriteWorkbook bundles the cleaned readings, the flagged readings and the
// summary into one spreadsheet
func (w *Writer) WriteWorkbook(clean, flagged models.Table, summary models.Summary) (string, error) {
	path := w.Path(WorkbookFileName)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", CleanedSheet); err != nil {
		return "", fmt.Errorf("failed to rename sheet: %w", err)
	}
	if err := writeSheet(f, CleanedSheet, CleanColumns, clean, true); err != nil {
		return "", err
	}

	if _, err := f.NewSheet(ErrorsSheet); err != nil {
		return "", fmt.Errorf("failed to create sheet %s: %w", ErrorsSheet, err)
	}
	if err := writeSheet(f, ErrorsSheet, RawColumns, flagged, false); err != nil {
		return "", err
	}

	if _, err := f.NewSheet(SummarySheet); err != nil {
		return "", fmt.Errorf("failed to create sheet %s: %w", SummarySheet, err)
	}
	if err := writeSummarySheet(f, summary); err != nil {
		return "", err
	}

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save workbook: %w", err)
	}

	w.Logger.Info("Workbook saved", "path", path)

	return path, nil
}

func writeSheet(f *excelize.File, sheet string, headers []string, table models.Table, withAirQuality bool) error {
	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}

	for i, reading := range table {
		row := []interface{}{
			formatTimestamp(reading.Timestamp),
			reading.Temperature,
			reading.Humidity,
			reading.CO2Levels,
		}
		if withAirQuality {
			row = append(row, string(reading.AirQuality))
		}

		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}

	return nil
}

func writeSummarySheet(f *excelize.File, summary models.Summary) error {
	rows := [][]interface{}{
		{"total_records", summary.TotalRecords},
		{"avg_temp", summary.AvgTemp},
		{"avg_humidity", summary.AvgHumidity},
		{"avg_co2", summary.AvgCO2},
		{"high_co2_alerts", summary.HighCO2Alerts},
	}

	for i, row := range rows {
		if err := setRow(f, SummarySheet, i+1, row); err != nil {
			return err
		}
	}

	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}

	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d of sheet %s: %w", row, sheet, err)
	}

	return nil
}
