package report

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"cafesales/internal/core"
)

// Chart file names written by the renderer.
const (
	TrendChartFile    = "daily_sales_trend.png"
	TopItemsChartFile = "top_items.png"
	LocationChartFile = "sales_by_location.png"
	PaymentChartFile  = "payment_distribution.png"
)

// TopItemCount is how many items the revenue ranking chart shows.
const TopItemCount = 3

// Renderer writes the fixed set of chart images for a cleaned dataset.
type Renderer struct {
	dir    string
	logger *slog.Logger
}

func NewRenderer(dir string, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{dir: dir, logger: logger}
}

// RenderAll computes every aggregate view and writes one image per view.
// An empty dataset fails up front with ErrEmptyDataset.
func (r *Renderer) RenderAll(txs []core.Transaction) error {
	if len(txs) == 0 {
		return ErrEmptyDataset
	}
	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return fmt.Errorf("create figures directory %s: %w", r.dir, err)
	}

	steps := []struct {
		name   string
		render func([]core.Transaction) error
	}{
		{TrendChartFile, r.renderTrend},
		{TopItemsChartFile, r.renderTopItems},
		{LocationChartFile, r.renderLocations},
		{PaymentChartFile, r.renderPayments},
	}
	for _, step := range steps {
		if err := step.render(txs); err != nil {
			return fmt.Errorf("render %s: %w", step.name, err)
		}
		r.logger.Info("chart written", "file", filepath.Join(r.dir, step.name))
	}
	return nil
}

func (r *Renderer) renderTrend(txs []core.Transaction) error {
	trend, err := DailyTrend(txs)
	if err != nil {
		return err
	}

	pts := make(plotter.XYs, len(trend))
	for i, d := range trend {
		pts[i].X = float64(d.Date.Unix())
		pts[i].Y = float64(d.Revenue.Cents) / 100
	}

	p := plot.New()
	p.Title.Text = "Daily Sales Trend"
	p.X.Label.Text = "Date"
	p.Y.Label.Text = "Total Sales ($)"
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}
	p.Add(plotter.NewGrid())

	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.Color = plotutil.Color(0)
	p.Add(line)

	return p.Save(12*vg.Inch, 6*vg.Inch, filepath.Join(r.dir, TrendChartFile))
}

func (r *Renderer) renderTopItems(txs []core.Transaction) error {
	items, err := TopItems(txs, TopItemCount)
	if err != nil {
		return err
	}

	values := make(plotter.Values, len(items))
	names := make([]string, len(items))
	for i, it := range items {
		values[i] = float64(it.Revenue.Cents) / 100
		names[i] = it.Item
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Top %d Items by Revenue", TopItemCount)
	p.Y.Label.Text = "Revenue ($)"

	bars, err := plotter.NewBarChart(values, vg.Points(40))
	if err != nil {
		return err
	}
	bars.Color = plotutil.Color(1)
	p.Add(bars)
	p.NominalX(names...)

	return p.Save(10*vg.Inch, 7*vg.Inch, filepath.Join(r.dir, TopItemsChartFile))
}

func (r *Renderer) renderLocations(txs []core.Transaction) error {
	locations, err := SalesByLocation(txs)
	if err != nil {
		return err
	}

	values := make(plotter.Values, len(locations))
	names := make([]string, len(locations))
	for i, loc := range locations {
		values[i] = float64(loc.Revenue.Cents) / 100
		names[i] = string(loc.Location)
	}

	p := plot.New()
	p.Title.Text = "Total Sales by Location"
	p.Y.Label.Text = "Total Sales ($)"

	bars, err := plotter.NewBarChart(values, vg.Points(50))
	if err != nil {
		return err
	}
	bars.Color = plotutil.Color(2)
	p.Add(bars)
	p.NominalX(names...)

	return p.Save(8*vg.Inch, 6*vg.Inch, filepath.Join(r.dir, LocationChartFile))
}

func (r *Renderer) renderPayments(txs []core.Transaction) error {
	shares, err := PaymentDistribution(txs)
	if err != nil {
		return err
	}

	values := make(plotter.Values, len(shares))
	names := make([]string, len(shares))
	for i, s := range shares {
		values[i] = s.Share * 100
		names[i] = s.Method
	}

	p := plot.New()
	p.Title.Text = "Payment Method Distribution"
	p.Y.Label.Text = "Share of Transactions (%)"

	bars, err := plotter.NewBarChart(values, vg.Points(50))
	if err != nil {
		return err
	}
	bars.Color = plotutil.Color(3)
	p.Add(bars)
	p.NominalX(names...)

	return p.Save(9*vg.Inch, 6*vg.Inch, filepath.Join(r.dir, PaymentChartFile))
}
