package models

import (
	"time"
)

type AirQuality string

const (
	AirQualityGood AirQuality = "Good"
	AirQualityPoor AirQuality = "Poor"

	// Readings strictly above this CO2 level are classified as poor air.
	PoorCO2Threshold = 800.0
)

// ClassifyCO2 maps a CO2 level (ppm) to its air quality label
func ClassifyCO2(co2 float64) AirQuality {
	if co2 > PoorCO2Threshold {
		return AirQualityPoor
	}

	return AirQualityGood
}

// Reading is a single timestamped sensor observation. Index is the row's
// position in the generated table and is never written to any output.
type Reading struct {
	Index       int
	Timestamp   time.Time
	Temperature float64
	Humidity    float64
	CO2Levels   float64
	AirQuality  AirQuality
}

// Table is an ordered set of readings sharing one schema
type Table []Reading

func (t Table) Len() int {
	return len(t)
}

// Clone returns a copy of the table that can be modified without touching
// the original.
func (t Table) Clone() Table {
	if t == nil {
		return nil
	}

	clone := make(Table, len(t))
	copy(clone, t)
	return clone
}

func (t Table) CountAirQuality(quality AirQuality) int {
	count := 0
	for _, reading := range t {
		if reading.AirQuality == quality {
			count++
		}
	}

	return count
}
