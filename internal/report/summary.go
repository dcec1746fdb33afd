package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/monorkin/air-quality-pipeline/internal/models"
)

const SummaryFileName = "pipeline_summary.json"

func (w *Writer) WriteSummary(summary models.Summary) (string, error) {
	path := w.Path(SummaryFileName)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.MarshalIndent(summary, "", "    ")
	if err != nil {
		return "", fmt.Errorf("failed to encode summary: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write summary: %w", err)
	}

	w.Logger.Info("Summary report saved", "path", path)

	return path, nil
}
