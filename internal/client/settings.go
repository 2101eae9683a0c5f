package client

import (
	"regexp"
	"strconv"
	"strings"

	"cfohelper/internal/domain"
)

// DefaultCurrency is the display symbol used when none is set
const DefaultCurrency = "₹"

// Settings are the user-editable baseline values plus the display currency.
// Zero values fall back to the defaults when saved.
type Settings struct {
	Currency   string  `toml:"currency" yaml:"currency"`
	UnitsSold  int     `toml:"units_sold" yaml:"units_sold"`
	UnitPrice  float64 `toml:"unit_price" yaml:"unit_price"`
	FixedCosts float64 `toml:"fixed_costs" yaml:"fixed_costs"`
	Salaries   float64 `toml:"salaries" yaml:"salaries"`
}

// DefaultSettings matches domain.DefaultBaseline
func DefaultSettings() Settings {
	return Settings{
		Currency:   DefaultCurrency,
		UnitsSold:  domain.DefaultUnitsSold,
		UnitPrice:  domain.DefaultUnitPrice,
		FixedCosts: domain.DefaultFixedCosts,
		Salaries:   domain.DefaultSalaries,
	}
}

// WithFallbacks replaces every zero or empty field with its default
func (s Settings) WithFallbacks() Settings {
	if strings.TrimSpace(s.Currency) == "" {
		s.Currency = DefaultCurrency
	}
	if s.UnitsSold == 0 {
		s.UnitsSold = domain.DefaultUnitsSold
	}
	if s.UnitPrice == 0 {
		s.UnitPrice = domain.DefaultUnitPrice
	}
	if s.FixedCosts == 0 {
		s.FixedCosts = domain.DefaultFixedCosts
	}
	if s.Salaries == 0 {
		s.Salaries = domain.DefaultSalaries
	}
	return s
}

// Baseline builds the simulation baseline for the given cash on hand
func (s Settings) Baseline(cash float64) domain.FinancialBaseline {
	return domain.FinancialBaseline{
		Cash:       cash,
		FixedCosts: s.FixedCosts,
		UnitsSold:  s.UnitsSold,
		UnitPrice:  s.UnitPrice,
		Salaries:   s.Salaries,
	}
}

// CoerceInput turns raw slider text into a SimulationInput.
// Each value is read from its leading number, the way a browser form reads it;
// blank or non-numeric text becomes 0 and hiring keeps only its integer part.
func CoerceInput(hiring, marketing, priceIncrease string) domain.SimulationInput {
	return domain.SimulationInput{
		HiringCount:          int(leadingNumber(hiring)),
		MarketingSpend:       leadingNumber(marketing),
		PriceIncreasePercent: leadingNumber(priceIncrease),
	}
}

var numberPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

func leadingNumber(s string) float64 {
	m := numberPrefix.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return v
}
