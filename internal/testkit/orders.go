// Package testkit generates reproducible sample datasets for demos and tests.
package testkit

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"math/rand"
	"strconv"
	"time"

	"edalens/adapters/excel"
)

// OrderGeneratorConfig configures the e-commerce order generator
type OrderGeneratorConfig struct {
	Orders      int       `json:"orders"`
	Customers   int       `json:"customers"`
	MissingRate float64   `json:"missing_rate"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Seed        int64     `json:"seed"`
}

// DefaultOrderConfig returns sensible defaults for order generation
func DefaultOrderConfig() OrderGeneratorConfig {
	return OrderGeneratorConfig{
		Orders:      500,
		Customers:   120,
		MissingRate: 0.2,
		StartDate:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC),
		Seed:        42,
	}
}

// OrderColumns is the header of every generated table
var OrderColumns = []string{
	"order_id", "order_date", "customer_id", "country", "device_type", "traffic_source",
	"payment_method", "pages_viewed", "session_duration_sec", "cart_value", "discount_pct",
	"order_value", "risk_score", "tenure_days", "loyalty_tier", "random_noise",
}

// OrderGenerator produces one row per order. The columns are built so every dashboard
// section has something to show: order_value tracks cart_value, pages_viewed has a long
// right tail, discount_pct is missing on organic traffic, order_id has high cardinality
// and random_noise correlates with nothing.
type OrderGenerator struct {
	config OrderGeneratorConfig
	rng    *rand.Rand
}

// NewOrderGenerator creates a generator seeded from the config
func NewOrderGenerator(config OrderGeneratorConfig) *OrderGenerator {
	return &OrderGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate builds the full table as raw cells
func (g *OrderGenerator) Generate() *excel.RawData {
	raw := &excel.RawData{Headers: append([]string(nil), OrderColumns...)}
	customers := g.config.Customers
	if customers <= 0 {
		customers = 1
	}

	for i := 0; i < g.config.Orders; i++ {
		customer := g.rng.Intn(customers) + 1
		orderTime := g.randomTimeInRange(g.config.StartDate, g.config.EndDate)
		source := g.randomTrafficSource()

		// lognormal browsing depth: most sessions are short, a few run very long
		pages := 1 + int(math.Exp(g.rng.NormFloat64()*0.9+1.1))
		duration := 60 + g.rng.Intn(1800)
		cart := 20.0 + g.rng.Float64()*180.0

		discount := ""
		discountPct := 0.0
		if source != "organic" && g.rng.Float64() < 0.7 {
			discountPct = 5.0 + float64(g.rng.Intn(20))
			discount = formatFloat(discountPct, 0)
		}

		// lognormal shipping and add-ons give a long right tail
		extras := math.Exp(g.rng.NormFloat64()*0.9 + 2.5)
		value := cart*(1-discountPct/100) + extras

		tenure := float64(orderTime.Sub(g.config.StartDate).Hours()/24) + float64(g.rng.Intn(400))

		raw.Rows = append(raw.Rows, []string{
			fmt.Sprintf("order_%05d", i+1),
			orderTime.Format("2006-01-02"),
			fmt.Sprintf("customer_%04d", customer),
			g.randomCountry(),
			g.randomDeviceType(),
			source,
			g.randomPaymentMethod(),
			strconv.Itoa(pages),
			strconv.Itoa(duration),
			formatFloat(cart, 2),
			discount,
			formatFloat(value, 2),
			g.maybeMissing(formatFloat(g.rng.Float64()*0.5, 3)),
			formatFloat(tenure, 0),
			loyaltyTier(tenure),
			formatFloat(g.rng.Float64()*100, 2),
		})
	}
	return raw
}

// WriteCSV generates the table and writes it as comma-separated text
func (g *OrderGenerator) WriteCSV(w io.Writer) error {
	raw := g.Generate()
	cw := csv.NewWriter(w)
	if err := cw.Write(raw.Headers); err != nil {
		return err
	}
	if err := cw.WriteAll(raw.Rows); err != nil {
		return err
	}
	return cw.Error()
}

func (g *OrderGenerator) maybeMissing(cell string) string {
	if g.rng.Float64() < g.config.MissingRate {
		return ""
	}
	return cell
}

func loyaltyTier(tenureDays float64) string {
	switch {
	case tenureDays > 180:
		return "gold"
	case tenureDays > 90:
		return "silver"
	case tenureDays > 30:
		return "bronze"
	default:
		return ""
	}
}

func formatFloat(v float64, decimals int) string {
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

func (g *OrderGenerator) randomTimeInRange(start, end time.Time) time.Time {
	span := end.Sub(start)
	if span <= 0 {
		return start
	}
	return start.Add(time.Duration(g.rng.Int63n(int64(span))))
}

func (g *OrderGenerator) weighted(values []string, weights []float64) string {
	r := g.rng.Float64()
	cumulative := 0.0
	for i, weight := range weights {
		cumulative += weight
		if r <= cumulative {
			return values[i]
		}
	}
	return values[0]
}

func (g *OrderGenerator) randomCountry() string {
	countries := []string{"US", "CA", "GB", "DE", "FR", "AU", "JP"}
	return countries[g.rng.Intn(len(countries))]
}

func (g *OrderGenerator) randomDeviceType() string {
	return g.weighted([]string{"mobile", "desktop", "tablet"}, []float64{0.6, 0.35, 0.05})
}

func (g *OrderGenerator) randomTrafficSource() string {
	return g.weighted(
		[]string{"organic", "paid_search", "email", "social", "direct"},
		[]float64{0.35, 0.25, 0.2, 0.15, 0.05})
}

func (g *OrderGenerator) randomPaymentMethod() string {
	return g.weighted(
		[]string{"credit_card", "debit_card", "paypal", "apple_pay", "bank_transfer"},
		[]float64{0.5, 0.2, 0.15, 0.1, 0.05})
}
