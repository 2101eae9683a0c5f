// Package report exports simulations and history to PDF and YAML files.
package report

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"cfohelper/internal/client"
	"cfohelper/internal/domain"
	"cfohelper/internal/utils"
)

// Default export file names per panel
const (
	DashboardFileName = "CFO_Helper_Report.pdf"
	ForecastFileName  = "CFO_Helper_Forecast.pdf"
)

// DefaultFileName returns the export file name for a panel
func DefaultFileName(kind domain.SimulationType) string {
	if kind == domain.SimulationForecast {
		return ForecastFileName
	}
	return DashboardFileName
}

// Report is everything one PDF export shows
type Report struct {
	Kind       domain.SimulationType
	Currency   string
	Baseline   domain.FinancialBaseline
	Input      domain.SimulationInput
	Result     domain.SimulationResult
	Suggestion string
	History    []domain.HistoryEntry
	Generated  time.Time
}

const (
	pageWidth    = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 20.0
	contentWidth = pageWidth - marginLeft - marginRight
	chartHeight  = 50.0
)

type pdfReport struct {
	pdf      *fpdf.Fpdf
	tr       func(string) string
	report   Report
	currency string
}

// RenderPDF lays out r as an A4 document
func RenderPDF(r Report) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginLeft, marginTop, marginRight)
	pdf.SetAutoPageBreak(true, marginBottom)

	rep := &pdfReport{
		pdf:      pdf,
		tr:       pdf.UnicodeTranslatorFromDescriptor(""),
		report:   r,
		currency: r.Currency,
	}
	if rep.currency == "" {
		rep.currency = client.DefaultCurrency
	}

	rep.addSummaryPage()
	if len(r.History) > 0 {
		rep.addHistoryPage()
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// WritePDF renders r into the file at path
func WritePDF(path string, r Report) error {
	data, err := RenderPDF(r)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// text converts UTF-8 to the core font encoding. The rupee sign has no
// cp1252 glyph and is spelled out.
func (r *pdfReport) text(s string) string {
	return r.tr(strings.ReplaceAll(s, "₹", "Rs."))
}

func (r *pdfReport) money(v float64) string {
	return r.text(fmt.Sprintf("%s%.2f", r.currency, v))
}

func (r *pdfReport) heading(title string) {
	r.pdf.Ln(4)
	r.pdf.SetFont("Arial", "B", 12)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 8, r.text(title), "B", 1, "L", false, 0, "")
	r.pdf.Ln(1)
	r.pdf.SetFont("Arial", "", 10)
	r.pdf.SetTextColor(50, 50, 50)
}

func (r *pdfReport) row(label, value string) {
	r.pdf.CellFormat(60, 6, r.text(label), "", 0, "L", false, 0, "")
	r.pdf.CellFormat(contentWidth-60, 6, value, "", 1, "L", false, 0, "")
}

func (r *pdfReport) addSummaryPage() {
	rep := r.report
	r.pdf.AddPage()

	title := "CFO Helper Report"
	if rep.Kind == domain.SimulationForecast {
		title = "CFO Helper Forecast"
	}
	r.pdf.SetFont("Arial", "B", 22)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 12, title, "", 1, "C", false, 0, "")

	generated := rep.Generated
	if generated.IsZero() {
		generated = utils.Now()
	}
	r.pdf.SetFont("Arial", "I", 10)
	r.pdf.SetTextColor(120, 120, 120)
	r.pdf.CellFormat(contentWidth, 6, "Generated: "+utils.FormatEntryTime(generated), "", 1, "C", false, 0, "")

	b := rep.Baseline
	r.heading("Baseline")
	r.row("Cash on hand", r.money(b.Cash))
	r.row("Fixed costs", r.money(b.FixedCosts))
	r.row("Salaries", r.money(b.Salaries))
	r.row("Units sold", strconv.Itoa(b.UnitsSold))
	r.row("Unit price", r.money(b.UnitPrice))

	in := rep.Input
	r.heading("Inputs")
	r.row("New hires", strconv.Itoa(in.HiringCount))
	r.row("Marketing spend", r.money(in.MarketingSpend))
	r.row("Price increase", fmt.Sprintf("%g%%", in.PriceIncreasePercent))

	res := rep.Result
	r.heading("Projected metrics")
	r.row("Revenue", r.money(res.Revenue))
	r.row("Expenses", r.money(res.Expenses))
	r.row("Profit", r.money(res.Profit))
	r.row("Runway", fmt.Sprintf("%.1f months", res.RunwayMonths))

	r.heading("Recommendation")
	r.pdf.MultiCell(contentWidth, 5, r.text(rep.Suggestion), "", "L", false)

	r.heading(fmt.Sprintf("Amount (%s)", r.currency))
	r.addChart([]float64{res.Revenue, res.Expenses, res.Profit})
}

// addChart draws one bar per value around a zero line
func (r *pdfReport) addChart(values []float64) {
	var maxPos, maxNeg float64
	for _, v := range values {
		maxPos = math.Max(maxPos, v)
		maxNeg = math.Max(maxNeg, -v)
	}

	top := r.pdf.GetY() + 2
	var scale float64
	if span := maxPos + maxNeg; span > 0 {
		scale = chartHeight / span
	}
	zeroY := top + maxPos*scale

	const barWidth = 30.0
	gap := (contentWidth - float64(len(values))*barWidth) / float64(len(values)+1)
	for i, v := range values {
		x := marginLeft + gap + float64(i)*(barWidth+gap)
		h := math.Abs(v) * scale
		y := zeroY - h
		if v < 0 {
			y = zeroY
		}
		red, green, blue := hexRGB(client.ChartColors[i%len(client.ChartColors)])
		r.pdf.SetFillColor(red, green, blue)
		r.pdf.Rect(x, y, barWidth, h, "F")
	}

	r.pdf.SetDrawColor(150, 150, 150)
	r.pdf.Line(marginLeft, zeroY, marginLeft+contentWidth, zeroY)

	r.pdf.SetY(top + chartHeight + 2)
	r.pdf.SetX(marginLeft + gap)
	r.pdf.SetFont("Arial", "", 9)
	for i := range values {
		label := client.ChartLabels[i%len(client.ChartLabels)]
		r.pdf.CellFormat(barWidth, 5, label, "", 0, "C", false, 0, "")
		if i < len(values)-1 {
			r.pdf.CellFormat(gap, 5, "", "", 0, "C", false, 0, "")
		}
	}
	r.pdf.Ln(-1)
}

var historyColumns = []struct {
	title string
	width float64
	align string
}{
	{"Date", 38, "L"},
	{"Type", 22, "L"},
	{"Hiring", 14, "R"},
	{"Marketing", 26, "R"},
	{"Price %", 16, "R"},
	{"Profit", 30, "R"},
	{"Runway", 34, "R"},
}

func (r *pdfReport) addHistoryPage() {
	r.pdf.AddPage()
	r.heading("Simulation history")

	r.pdf.SetFont("Arial", "B", 9)
	r.pdf.SetFillColor(0, 51, 102)
	r.pdf.SetTextColor(255, 255, 255)
	for _, col := range historyColumns {
		r.pdf.CellFormat(col.width, 7, col.title, "", 0, col.align, true, 0, "")
	}
	r.pdf.Ln(-1)

	r.pdf.SetFont("Arial", "", 9)
	r.pdf.SetTextColor(50, 50, 50)
	for i, e := range r.report.History {
		if i%2 == 0 {
			r.pdf.SetFillColor(245, 247, 250)
		} else {
			r.pdf.SetFillColor(255, 255, 255)
		}
		in := e.Input()
		cells := []string{
			e.Date.Display(utils.FormatEntryTime),
			string(e.SimulationType),
			strconv.Itoa(in.HiringCount),
			r.money(in.MarketingSpend),
			fmt.Sprintf("%g", in.PriceIncreasePercent),
			r.money(e.Profit),
			fmt.Sprintf("%.1f months", float64(e.Runway)),
		}
		for j, col := range historyColumns {
			r.pdf.CellFormat(col.width, 6, cells[j], "", 0, col.align, true, 0, "")
		}
		r.pdf.Ln(-1)
	}
}

// hexRGB parses "#rrggbb"; anything else is grey
func hexRGB(hex string) (int, int, int) {
	v, err := strconv.ParseUint(strings.TrimPrefix(hex, "#"), 16, 32)
	if err != nil || len(hex) != 7 {
		return 128, 128, 128
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}
