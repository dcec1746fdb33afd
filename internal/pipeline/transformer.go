package pipeline

import (
	"github.com/monorkin/air-quality-pipeline/internal/models"
)

// DeriveAirQuality returns a copy of the table with AirQuality set from each
// reading's CO2 level. Running it again over its own output changes nothing.
func DeriveAirQuality(table models.Table) models.Table {
	derived := table.Clone()
	for i := range derived {
		derived[i].AirQuality = models.ClassifyCO2(derived[i].CO2Levels)
	}

	return derived
}
