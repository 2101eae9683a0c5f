package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// SimulationType identifies which panel produced a history entry
type SimulationType string

// SimulationType constants
const (
	SimulationDashboard SimulationType = "Dashboard"
	SimulationForecast  SimulationType = "Forecast"
)

// ErrUnknownSimulationType is returned for a panel name outside Dashboard/Forecast
var ErrUnknownSimulationType = errors.New("unknown simulation type")

// ParseSimulationType accepts the canonical name in any letter case
func ParseSimulationType(s string) (SimulationType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dashboard":
		return SimulationDashboard, nil
	case "forecast":
		return SimulationForecast, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSimulationType, s)
}

// HistoryEntry is one persisted simulation run and its outputs
type HistoryEntry struct {
	ID             uuid.UUID      `json:"id" yaml:"id"`
	SimulationType SimulationType `json:"simulationType" yaml:"simulation_type"`
	Hiring         int            `json:"hiring" yaml:"hiring"`
	Marketing      float64        `json:"marketing" yaml:"marketing"`
	PriceIncrease  float64        `json:"priceIncrease" yaml:"price_increase"`
	Revenue        float64        `json:"revenue" yaml:"revenue"`
	Expenses       float64        `json:"expenses" yaml:"expenses"`
	Profit         float64        `json:"profit" yaml:"profit"`
	Runway         Months         `json:"runway" yaml:"runway"`
	Suggestion     string         `json:"suggestion" yaml:"suggestion"`
	Date           EntryTime      `json:"date" yaml:"date"`
}

// NewHistoryEntry builds an entry from a completed simulation
func NewHistoryEntry(kind SimulationType, in SimulationInput, res SimulationResult, suggestion string, at time.Time) HistoryEntry {
	return HistoryEntry{
		SimulationType: kind,
		Hiring:         in.HiringCount,
		Marketing:      in.MarketingSpend,
		PriceIncrease:  in.PriceIncreasePercent,
		Revenue:        res.Revenue,
		Expenses:       res.Expenses,
		Profit:         res.Profit,
		Runway:         Months(res.RunwayMonths),
		Suggestion:     suggestion,
		Date:           EntryTime{Time: at},
	}
}

// Input returns the levers the entry was computed from
func (e HistoryEntry) Input() SimulationInput {
	return SimulationInput{
		HiringCount:          e.Hiring,
		MarketingSpend:       e.Marketing,
		PriceIncreasePercent: e.PriceIncrease,
	}
}

// Months is a runway length. It reads from a JSON number or a numeric string.
type Months float64

// UnmarshalJSON implements lenient decoding for runway values
func (m *Months) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), "\"")
	if s == "" || s == "null" {
		*m = 0
		return nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("unable to parse runway: %s", s)
	}
	*m = Months(v)
	return nil
}

// EntryTime handles the timestamp formats browsers and servers send.
// A date in any other format is kept verbatim in Raw and echoed back unchanged.
type EntryTime struct {
	time.Time
	Raw string
}

var entryTimeFormats = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	time.DateTime,
	"1/2/2006, 3:04:05 PM", // en-US toLocaleString
}

// Display renders the time with format, or the raw text when it was never parsed
func (t EntryTime) Display(format func(time.Time) string) string {
	if t.Raw != "" {
		return t.Raw
	}
	return format(t.Time)
}

// MarshalJSON writes the raw text when present, otherwise RFC 3339
func (t EntryTime) MarshalJSON() ([]byte, error) {
	if t.Raw != "" {
		return json.Marshal(t.Raw)
	}
	return t.Time.MarshalJSON()
}

// UnmarshalJSON implements custom JSON unmarshalling for flexible timestamp parsing
func (t *EntryTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		s = string(b)
	}
	t.parse(s)
	return nil
}

// MarshalYAML writes the timestamp as RFC 3339
func (t EntryTime) MarshalYAML() (interface{}, error) {
	if t.Raw != "" {
		return t.Raw, nil
	}
	return t.Time.Format(time.RFC3339Nano), nil
}

// UnmarshalYAML accepts the same formats as UnmarshalJSON
func (t *EntryTime) UnmarshalYAML(value *yaml.Node) error {
	t.parse(value.Value)
	return nil
}

// ParseEntryTime reads a stored or client-sent date. It never fails.
func ParseEntryTime(s string) EntryTime {
	var t EntryTime
	t.parse(s)
	return t
}

func (t *EntryTime) parse(s string) {
	t.Time, t.Raw = time.Time{}, ""
	s = strings.TrimSpace(s)
	if s == "" || s == "null" {
		return
	}

	for _, format := range entryTimeFormats {
		if parsed, err := time.Parse(format, s); err == nil {
			t.Time = parsed
			return
		}
	}
	t.Raw = s
}
