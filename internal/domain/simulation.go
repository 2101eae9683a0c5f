package domain

import (
	"math"
	"strings"
)

// HiringCostPerHead is the monthly expense added for each new hire
const HiringCostPerHead = 5000.0

// FinancialBaseline holds the starting financial assumptions of the business
type FinancialBaseline struct {
	Cash       float64 `json:"cash" toml:"cash" yaml:"cash"`
	FixedCosts float64 `json:"fixedCosts" toml:"fixed_costs" yaml:"fixed_costs"`
	UnitsSold  int     `json:"unitsSold" toml:"units_sold" yaml:"units_sold"`
	UnitPrice  float64 `json:"unitPrice" toml:"unit_price" yaml:"unit_price"`
	Salaries   float64 `json:"salaries" toml:"salaries" yaml:"salaries"`
}

// Baseline fallback values used when a setting is left empty
const (
	DefaultCash       = 100000.0
	DefaultFixedCosts = 20000.0
	DefaultUnitsSold  = 500
	DefaultUnitPrice  = 100.0
	DefaultSalaries   = 30000.0
)

// DefaultBaseline returns the baseline the calculator starts with
func DefaultBaseline() FinancialBaseline {
	return FinancialBaseline{
		Cash:       DefaultCash,
		FixedCosts: DefaultFixedCosts,
		UnitsSold:  DefaultUnitsSold,
		UnitPrice:  DefaultUnitPrice,
		Salaries:   DefaultSalaries,
	}
}

// SimulationInput represents the three user-controlled levers
type SimulationInput struct {
	HiringCount          int     `json:"hiring"`
	MarketingSpend       float64 `json:"marketing"`
	PriceIncreasePercent float64 `json:"priceIncrease"`
}

// SimulationResult holds the metrics derived from a baseline and an input
type SimulationResult struct {
	Revenue      float64 `json:"revenue"`
	Expenses     float64 `json:"expenses"`
	Profit       float64 `json:"profit"`
	RunwayMonths float64 `json:"runway"`
}

// Compute projects revenue, expenses, profit and runway.
// Inputs are expected to be already coerced; Compute never fails.
func Compute(b FinancialBaseline, in SimulationInput) SimulationResult {
	adjustedPrice := b.UnitPrice * (1 + in.PriceIncreasePercent/100)

	revenue := float64(b.UnitsSold) * adjustedPrice
	expenses := b.FixedCosts + in.MarketingSpend + b.Salaries + float64(in.HiringCount)*HiringCostPerHead
	profit := revenue - expenses

	var runway float64
	if expenses != 0 {
		runway = roundTenths(b.Cash / expenses)
	}

	return SimulationResult{
		Revenue:      revenue,
		Expenses:     expenses,
		Profit:       profit,
		RunwayMonths: runway,
	}
}

func roundTenths(v float64) float64 {
	return math.Round(v*10) / 10
}

// Advisory thresholds
const (
	HighHiringThreshold    = 5
	HighMarketingThreshold = 40000.0
	HighPriceThreshold     = 20.0
)

// Advisory messages, emitted in this order
const (
	AdviceHighHiring    = "High hiring might increase expenses."
	AdviceHighMarketing = "Consider optimizing marketing spend."
	AdviceHighPrice     = "High price increase might reduce sales."
	AdviceAllSafe       = "All metrics are within safe range."
)

// Advise returns the advisory text shown next to a simulation
func Advise(in SimulationInput) string {
	var rec []string
	if in.HiringCount > HighHiringThreshold {
		rec = append(rec, AdviceHighHiring)
	}
	if in.MarketingSpend > HighMarketingThreshold {
		rec = append(rec, AdviceHighMarketing)
	}
	if in.PriceIncreasePercent > HighPriceThreshold {
		rec = append(rec, AdviceHighPrice)
	}

	if len(rec) == 0 {
		return AdviceAllSafe
	}
	return strings.Join(rec, " ")
}
