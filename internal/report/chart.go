package report

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/monorkin/air-quality-pipeline/internal/models"
)

const (
	ChartFileName = "data_trends.png"

	chartTitle  = "Environmental Sensor Trends"
	chartWidth  = 12 * vg.Inch
	chartHeight = 6 * vg.Inch

	// CO2 is divided by this factor so it shares the temperature axis
	co2ScaleFactor = 20.0
)

var (
	temperatureColor = color.RGBA{R: 255, G: 165, B: 0, A: 255}
	co2Color         = color.RGBA{R: 0, G: 128, B: 0, A: 255}
)

// WriteChart renders temperature and scaled CO2 over time as a PNG. An empty
// table yields a chart with axes and title only.
func (w *Writer) WriteChart(table models.Table) (string, error) {
	path := w.Path(ChartFileName)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	p, err := trendPlot(table)
	if err != nil {
		return "", fmt.Errorf("failed to build trend chart: %w", err)
	}

	if err := p.Save(chartWidth, chartHeight, path); err != nil {
		return "", fmt.Errorf("failed to save trend chart: %w", err)
	}

	w.Logger.Info("Trend graph saved", "path", path)

	return path, nil
}

func trendPlot(table models.Table) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = chartTitle
	p.X.Label.Text = "Time"
	p.X.Tick.Marker = plot.TimeTicks{Format: "15:04", Time: plot.UnixTimeIn(time.Local)}
	p.Legend.Top = true

	if len(table) == 0 {
		return p, nil
	}

	temperature := make(plotter.XYs, len(table))
	co2 := make(plotter.XYs, len(table))
	for i, reading := range table {
		x := float64(reading.Timestamp.Unix())
		temperature[i] = plotter.XY{X: x, Y: reading.Temperature}
		co2[i] = plotter.XY{X: x, Y: reading.CO2Levels / co2ScaleFactor}
	}

	temperatureLine, err := plotter.NewLine(temperature)
	if err != nil {
		return nil, err
	}
	temperatureLine.Color = temperatureColor

	co2Line, err := plotter.NewLine(co2)
	if err != nil {
		return nil, err
	}
	co2Line.Color = co2Color

	p.Add(temperatureLine, co2Line)
	p.Legend.Add("Temp (°C)", temperatureLine)
	p.Legend.Add("CO2 (Scaled)", co2Line)

	return p, nil
}
