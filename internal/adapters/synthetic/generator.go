// Package synthetic genera históricos de barras deterministas para operar
// sin APIs. Es el último eslabón de toda cadena de fallback de barras: un
// run offline produce datos plausibles y reproducibles.
package synthetic

import (
	"context"
	"hash/fnv"
	"math/rand"
	"time"

	"github.com/alejandrodnm/dailyideas/internal/domain"
)

// AssetClass decide niveles base, volatilidad y volumen de la serie.
type AssetClass int

const (
	Stocks AssetClass = iota
	Forex
	Bonds
	Crypto
)

const historyBars = 30

var forexBase = map[string]float64{
	"EURUSD=X": 1.08,
	"GBPUSD=X": 1.27,
	"USDJPY=X": 155.0,
}

var bondBase = map[string]float64{
	"^TNX": 4.3,
	"^TYX": 4.5,
	"^FVX": 4.0,
	"^IRX": 5.2,
}

var cryptoBase = map[string]float64{
	"BTC/USD": 60000,
	"ETH/USD": 3000,
}

// Generator implementa ports.BarProvider sin red. La serie de cada símbolo
// sale de un RNG sembrado con el hash FNV del símbolo, así que dos runs
// producen exactamente las mismas barras.
type Generator struct {
	class AssetClass
	now   func() time.Time
}

// NewGenerator crea un generador para la clase de activo dada.
func NewGenerator(class AssetClass) *Generator {
	return &Generator{class: class, now: time.Now}
}

func (g *Generator) Name() string { return "synthetic" }

// FetchBars genera el histórico de cada símbolo. Nunca falla.
func (g *Generator) FetchBars(_ context.Context, symbols []string) (map[string]domain.Instrument, error) {
	out := make(map[string]domain.Instrument, len(symbols))
	for _, symbol := range symbols {
		out[symbol] = g.generate(symbol)
	}
	return out, nil
}

func (g *Generator) generate(symbol string) domain.Instrument {
	rng := rand.New(rand.NewSource(seed(symbol)))

	price := g.basePrice(symbol, rng)
	volatility := g.volatility()

	end := g.now()
	history := make([]domain.Bar, 0, historyBars)
	for i := 0; i < historyBars; i++ {
		date := end.AddDate(0, 0, -(historyBars - 1 - i)).Format("2006-01-02")

		change := rng.NormFloat64() * volatility
		// Deriva alcista suave en el último tramo: deja algo que rankear.
		if i >= historyBars-10 {
			change += volatility / 2
		}
		open := price
		price *= 1 + change
		if price <= 0 {
			price = open
		}

		high := maxF(open, price) * (1 + rng.Float64()*volatility/2)
		low := minF(open, price) * (1 - rng.Float64()*volatility/2)

		history = append(history, domain.Bar{
			Date:   date,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  price,
			Volume: g.volume(rng),
		})
	}

	return domain.Instrument{
		Info: domain.Info{
			Symbol:       symbol,
			ShortName:    symbol,
			Sector:       "Unknown",
			CurrentPrice: price,
		},
		History: history,
	}
}

func (g *Generator) basePrice(symbol string, rng *rand.Rand) float64 {
	switch g.class {
	case Forex:
		if base, ok := forexBase[symbol]; ok {
			return base
		}
		return 0.8 + rng.Float64()
	case Bonds:
		if base, ok := bondBase[symbol]; ok {
			return base
		}
		return 3.5 + rng.Float64()
	case Crypto:
		if base, ok := cryptoBase[symbol]; ok {
			return base
		}
		return 10 + rng.Float64()*990
	default:
		return 50 + rng.Float64()*450
	}
}

func (g *Generator) volatility() float64 {
	switch g.class {
	case Forex:
		return 0.004
	case Bonds:
		return 0.01
	case Crypto:
		return 0.035
	default:
		return 0.015
	}
}

func (g *Generator) volume(rng *rand.Rand) float64 {
	switch g.class {
	case Forex, Bonds:
		return 0
	case Crypto:
		return float64(10_000 + rng.Intn(90_000))
	default:
		return float64(1_000_000 + rng.Intn(9_000_000))
	}
}

func seed(symbol string) int64 {
	h := fnv.New64a()
	h.Write([]byte(symbol))
	return int64(h.Sum64())
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
