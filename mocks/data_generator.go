package mocks

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/rxtech-lab/argo-dataprep/internal/types"
)

// DataGenerator produces reproducible synthetic price bars for tests.
type DataGenerator struct {
	rng *rand.Rand
}

// NewDataGenerator creates a new DataGenerator with the given seed.
func NewDataGenerator(seed int64) *DataGenerator {
	return &DataGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how bars are generated.
type GeneratorConfig struct {
	Symbol    string
	StartTime time.Time
	// Interval between bars. Zero means one calendar day.
	Interval     time.Duration
	Count        int
	InitialPrice float64
	// Volatility is the per-bar standard deviation of returns (0.01 = 1%)
	Volatility float64
	// Trend is the total drift spread across the series
	Trend      float64
	VolumeBase float64
	// VolumeVariance is the relative volume spread (0.0 to 1.0)
	VolumeVariance float64
}

// DefaultConfig returns daily bars starting 2000-01-03 around a price of 1500.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Symbol:         "^GSPC",
		StartTime:      time.Date(2000, 1, 3, 0, 0, 0, 0, time.UTC),
		Count:          250,
		InitialPrice:   1500,
		Volatility:     0.012,
		VolumeBase:     1_000_000,
		VolumeVariance: 0.3,
	}
}

// Generate creates bars following a geometric Brownian motion.
func (g *DataGenerator) Generate(config GeneratorConfig) []types.PriceBar {
	bars := make([]types.PriceBar, config.Count)
	price := config.InitialPrice
	current := config.StartTime

	for i := range bars {
		open := price

		// Box-Muller
		u1 := 1 - g.rng.Float64()
		u2 := g.rng.Float64()
		z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

		drift := config.Trend / float64(config.Count)
		closePrice := open * (1 + config.Volatility*z + drift)
		if closePrice <= 0 {
			closePrice = open * 0.99
		}

		high := math.Max(open, closePrice) + math.Abs(g.rng.Float64()*config.Volatility*open*0.5)
		low := math.Min(open, closePrice) - math.Abs(g.rng.Float64()*config.Volatility*open*0.5)
		if low <= 0 {
			low = math.Min(open, closePrice) * 0.99
		}

		volume := config.VolumeBase * (1.0 + (g.rng.Float64()*2-1)*config.VolumeVariance)
		if volume < 0 {
			volume = config.VolumeBase * 0.1
		}

		bars[i] = types.PriceBar{
			ID:     fmt.Sprintf("%s-%d", config.Symbol, i),
			Symbol: config.Symbol,
			Date:   current,
			Open:   roundToDecimals(open, 4),
			High:   roundToDecimals(high, 4),
			Low:    roundToDecimals(low, 4),
			Close:  roundToDecimals(closePrice, 4),
			Volume: int64(math.Round(volume)),
		}

		price = closePrice
		current = next(current, config.Interval)
	}

	return bars
}

// Daily generates count daily bars for symbol with the default settings.
func (g *DataGenerator) Daily(symbol string, count int) []types.PriceBar {
	config := DefaultConfig()
	config.Symbol = symbol
	config.Count = count

	return g.Generate(config)
}

func next(t time.Time, interval time.Duration) time.Time {
	if interval == 0 {
		return t.AddDate(0, 0, 1)
	}

	return t.Add(interval)
}

func roundToDecimals(val float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))

	return math.Round(val*pow) / pow
}
