// Package cli implements the cfoctl command line front end.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"cfohelper/internal/client"
	"cfohelper/internal/domain"
	"cfohelper/internal/utils"
)

// Theme colors
var (
	ColorBorder    = lipgloss.Color("#3F3F46")
	ColorTextMuted = lipgloss.Color("#A1A1AA")
	ColorText      = lipgloss.Color("#FAFAFA")
	ColorAccent    = lipgloss.Color("#38BDF8")
	ColorWarn      = lipgloss.Color("#FBBF24")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	valueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	warnStyle = lipgloss.NewStyle().
			Foreground(ColorWarn)

	dimStyle = lipgloss.NewStyle().
			Foreground(ColorBorder)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1).
			Width(20)
)

// FormatMoney formats an amount with two decimals after the currency symbol
func FormatMoney(currency string, v float64) string {
	return fmt.Sprintf("%s%.2f", currency, v)
}

// FormatRunway formats a runway in months with one decimal
func FormatRunway(months float64) string {
	return fmt.Sprintf("%.1f months", months)
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(64).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

func card(label, value string) string {
	return cardStyle.Render(mutedStyle.Render(label) + "\n" + valueStyle.Render(value))
}

// RenderPanel renders a panel's metrics, chart and advice
func RenderPanel(p *client.Panel, currency string) string {
	res := p.Result
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		card("Revenue", FormatMoney(currency, res.Revenue)),
		card("Expenses", FormatMoney(currency, res.Expenses)),
		card("Profit", FormatMoney(currency, res.Profit)),
	)

	var b strings.Builder
	b.WriteString(RenderTitle(string(p.Kind) + " Simulation"))
	b.WriteString("\n")
	b.WriteString(cards)
	b.WriteString("\n")
	b.WriteString("  Runway: " + valueStyle.Render(FormatRunway(res.RunwayMonths)) + "\n\n")
	if p.Chart != nil {
		b.WriteString(RenderChart(p.Chart))
		b.WriteString("\n")
	}

	suggestion := p.Suggestion
	style := valueStyle
	if suggestion != domain.AdviceAllSafe {
		style = warnStyle
	}
	b.WriteString("  " + headerStyle.Render("Recommendation") + "\n")
	b.WriteString("  " + style.Render(suggestion) + "\n\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  Simulations run on this panel: %d", p.UsageCount)) + "\n")
	return b.String()
}

// RenderChart draws the chart as horizontal bars scaled to the largest magnitude
func RenderChart(c *client.Chart) string {
	const width = 40

	var maxAbs float64
	labelWidth := 0
	for i, v := range c.Data {
		maxAbs = math.Max(maxAbs, math.Abs(v))
		if i < len(c.Labels) && len(c.Labels[i]) > labelWidth {
			labelWidth = len(c.Labels[i])
		}
	}

	var b strings.Builder
	b.WriteString("  " + headerStyle.Render(c.Label) + "\n")
	for i, v := range c.Data {
		label := ""
		if i < len(c.Labels) {
			label = c.Labels[i]
		}
		n := 0
		if maxAbs > 0 {
			n = int(math.Round(math.Abs(v) / maxAbs * width))
		}
		bar := strings.Repeat("█", n)
		if v < 0 {
			bar = strings.Repeat("░", n)
		}
		color := lipgloss.Color(c.Colors[i%len(c.Colors)])
		b.WriteString(fmt.Sprintf("  %-*s ", labelWidth, label))
		b.WriteString(lipgloss.NewStyle().Foreground(color).Render(bar))
		b.WriteString(" " + mutedStyle.Render(strconv.FormatFloat(v, 'f', 2, 64)) + "\n")
	}
	return b.String()
}

// Table represents a bordered text table for CLI output.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// RenderTable renders a bordered table with headers and rows.
// The first column is left-aligned, the rest right-aligned.
func RenderTable(t Table) string {
	numCols := len(t.Headers)
	if numCols == 0 {
		return ""
	}

	widths := make([]int, numCols)
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < numCols && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	rule := func(left, mid, right string) string {
		parts := make([]string, numCols)
		for i, w := range widths {
			parts[i] = strings.Repeat("─", w+2)
		}
		return dimStyle.Render(left+strings.Join(parts, mid)+right) + "\n"
	}
	pad := func(s string, w int, left bool) string {
		gap := strings.Repeat(" ", w-lipgloss.Width(s))
		if left {
			return " " + s + gap + " "
		}
		return " " + gap + s + " "
	}

	var b strings.Builder
	if t.Title != "" {
		b.WriteString("  " + headerStyle.Render(t.Title) + "\n")
	}

	b.WriteString(rule("╭", "┬", "╮"))
	b.WriteString(dimStyle.Render("│"))
	for i, h := range t.Headers {
		b.WriteString(headerStyle.Render(pad(h, widths[i], true)))
		b.WriteString(dimStyle.Render("│"))
	}
	b.WriteString("\n")
	b.WriteString(rule("├", "┼", "┤"))

	for _, row := range t.Rows {
		b.WriteString(dimStyle.Render("│"))
		for i := 0; i < numCols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			b.WriteString(valueStyle.Render(pad(cell, widths[i], i == 0)))
			b.WriteString(dimStyle.Render("│"))
		}
		b.WriteString("\n")
	}
	b.WriteString(rule("╰", "┴", "╯"))
	return b.String()
}

// RenderHistory renders history entries newest first, followed by their suggestions
func RenderHistory(history []domain.HistoryEntry, currency string) string {
	if len(history) == 0 {
		return mutedStyle.Render("  No simulations yet.") + "\n"
	}

	t := Table{
		Title:   fmt.Sprintf("History (%d)", len(history)),
		Headers: []string{"Date", "Type", "Hiring", "Marketing", "Price %", "Revenue", "Expenses", "Profit", "Runway"},
	}
	for _, e := range history {
		in := e.Input()
		t.Rows = append(t.Rows, []string{
			e.Date.Display(utils.FormatEntryTime),
			string(e.SimulationType),
			strconv.Itoa(in.HiringCount),
			FormatMoney(currency, in.MarketingSpend),
			strconv.FormatFloat(in.PriceIncreasePercent, 'f', -1, 64),
			FormatMoney(currency, e.Revenue),
			FormatMoney(currency, e.Expenses),
			FormatMoney(currency, e.Profit),
			FormatRunway(float64(e.Runway)),
		})
	}
	return RenderTable(t)
}

// RenderSettings renders the saved baseline settings
func RenderSettings(s client.Settings, path string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("  Config file: %s\n\n", path))
	b.WriteString("  " + headerStyle.Render("[Settings]") + "\n")
	b.WriteString(fmt.Sprintf("    Currency:     %s\n", s.Currency))
	b.WriteString(fmt.Sprintf("    Units sold:   %d\n", s.UnitsSold))
	b.WriteString(fmt.Sprintf("    Unit price:   %s\n", FormatMoney(s.Currency, s.UnitPrice)))
	b.WriteString(fmt.Sprintf("    Fixed costs:  %s\n", FormatMoney(s.Currency, s.FixedCosts)))
	b.WriteString(fmt.Sprintf("    Salaries:     %s\n", FormatMoney(s.Currency, s.Salaries)))
	return b.String()
}
