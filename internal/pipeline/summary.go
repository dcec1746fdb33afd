package pipeline

import (
	"math"

	"github.com/monorkin/air-quality-pipeline/internal/models"
)

// Summarize computes record count, rounded column means and the number of
// poor air quality readings. Means of an empty table are reported as zero.
func Summarize(table models.Table) models.Summary {
	summary := models.Summary{
		TotalRecords:  len(table),
		HighCO2Alerts: table.CountAirQuality(models.AirQualityPoor),
	}
	if len(table) == 0 {
		return summary
	}

	var temperature, humidity, co2 float64
	for _, reading := range table {
		temperature += reading.Temperature
		humidity += reading.Humidity
		co2 += reading.CO2Levels
	}

	n := float64(len(table))
	summary.AvgTemp = round2(temperature / n)
	summary.AvgHumidity = round2(humidity / n)
	summary.AvgCO2 = round2(co2 / n)

	return summary
}

func round2(value float64) float64 {
	return math.RoundToEven(value*100) / 100
}
