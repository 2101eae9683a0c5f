package client

// ChartLabels name the three bars every panel chart shows
var ChartLabels = []string{"Revenue", "Expenses", "Profit"}

// ChartColors are the bar colors, in ChartLabels order
var ChartColors = []string{"#4ade80", "#f87171", "#60a5fa"}

// Chart is a panel's bar chart model. A panel keeps one Chart for its
// lifetime; each run replaces only the dataset.
type Chart struct {
	Labels  []string
	Colors  []string
	Label   string
	Data    []float64
	updates int
}

// NewChart creates a chart showing data
func NewChart(currency string, data []float64) *Chart {
	return &Chart{
		Labels: ChartLabels,
		Colors: ChartColors,
		Label:  "Amount (" + currency + ")",
		Data:   append([]float64(nil), data...),
	}
}

// Update replaces the dataset
func (c *Chart) Update(data []float64) {
	c.Data = append(c.Data[:0], data...)
	c.updates++
}

// Updates counts how many times the dataset was replaced since creation
func (c *Chart) Updates() int {
	return c.updates
}
