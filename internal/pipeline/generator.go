package pipeline

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/monorkin/air-quality-pipeline/internal/models"
)

const (
	DefaultRows = 100
	DefaultSeed = 42

	// MinRows is the smallest table that still holds both injected faults
	MinRows = faultyHumidityRow + 1

	faultyTemperatureRow   = 5
	faultyTemperatureValue = 500.0
	faultyHumidityRow      = 10
	faultyHumidityValue    = -10.0
)

var ErrTooFewRows = errors.New("too few rows to inject sensor faults")

// Bounds of the uniform distributions the synthetic readings are drawn from
var (
	temperatureSpread = Range{Min: 15, Max: 35}
	humiditySpread    = Range{Min: 30, Max: 90}
	co2Spread         = Range{Min: 300, Max: 1000}
)

// Generator produces a reproducible table of synthetic sensor readings with
// two deliberately broken rows.
type Generator struct {
	Rows int
	Seed int64
	Now  func() time.Time
}

func NewGenerator(rows int, seed int64) *Generator {
	return &Generator{
		Rows: rows,
		Seed: seed,
		Now:  time.Now,
	}
}

// Generate builds the table. Timestamps start at Now and step back one
// minute per row. Each column is drawn in full before the next one so that
// a given seed always yields the same values per column.
func (g *Generator) Generate() (models.Table, error) {
	if g.Rows < MinRows {
		return nil, fmt.Errorf("%w: got %d, need at least %d", ErrTooFewRows, g.Rows, MinRows)
	}

	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	start := now()

	source := rand.New(rand.NewSource(g.Seed))
	temperatures := uniform(source, temperatureSpread, g.Rows)
	humidities := uniform(source, humiditySpread, g.Rows)
	co2Levels := uniform(source, co2Spread, g.Rows)

	table := make(models.Table, g.Rows)
	for i := range table {
		table[i] = models.Reading{
			Index:       i,
			Timestamp:   start.Add(-time.Duration(i) * time.Minute),
			Temperature: temperatures[i],
			Humidity:    humidities[i],
			CO2Levels:   co2Levels[i],
		}
	}

	table[faultyTemperatureRow].Temperature = faultyTemperatureValue
	table[faultyHumidityRow].Humidity = faultyHumidityValue

	return table, nil
}

func uniform(source *rand.Rand, spread Range, n int) []float64 {
	values := make([]float64, n)
	for i := range values {
		values[i] = spread.Min + source.Float64()*(spread.Max-spread.Min)
	}

	return values
}
