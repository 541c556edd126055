package charts

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/ivanoskov/bc-money/internal/metrics"
	"github.com/ivanoskov/bc-money/internal/service"
)

// ChartGenerator рисует PNG-графики для бота и CLI
type ChartGenerator struct {
	currency string
}

// NewChartGenerator создает новый генератор графиков
func NewChartGenerator(currency string) *ChartGenerator {
	return &ChartGenerator{currency: currency}
}

var (
	colorSuccess = drawing.ColorFromHex("#10B981")
	colorWarning = drawing.ColorFromHex("#F59E0B")
	colorDanger  = drawing.ColorFromHex("#EF4444")
	colorNeutral = drawing.ColorFromHex(metrics.OtherColor)
)

func background() chart.Style {
	return chart.Style{
		Padding: chart.Box{
			Top:    50,
			Left:   50,
			Right:  50,
			Bottom: 50,
		},
		FillColor: chart.ColorWhite,
	}
}

// hexColor разбирает цвет категории; пустой или битый цвет заменяется нейтральным
func hexColor(hex string) drawing.Color {
	h := strings.TrimPrefix(hex, "#")
	if len(h) != 3 && len(h) != 6 {
		return colorNeutral
	}
	return drawing.ColorFromHex(h)
}

func (g *ChartGenerator) money(v float64) string {
	return fmt.Sprintf("%.0f %s", v, g.currency)
}

// GenerateCategoryPieChart круговая диаграмма расходов по категориям
func (g *ChartGenerator) GenerateCategoryPieChart(amounts []metrics.CategoryAmount) ([]byte, error) {
	values := make([]chart.Value, 0, len(amounts))
	for _, a := range amounts {
		if !a.Amount.IsPositive() {
			continue
		}
		color := hexColor(a.Color)
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s: %s", a.Name, g.money(a.Amount.InexactFloat64())),
			Value: a.Amount.InexactFloat64(),
			Style: chart.Style{
				FillColor:   color,
				StrokeColor: color,
				FontSize:    12,
				FontColor:   chart.ColorBlack,
			},
		})
	}
	if len(values) == 0 {
		return nil, nil // нет данных для графика
	}

	pie := chart.PieChart{
		Title:      "Gastos por categoría",
		Width:      800,
		Height:     800,
		Values:     values,
		Background: background(),
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := pie.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render category pie chart: %w", err)
	}
	return buffer.Bytes(), nil
}

// GenerateBudgetChart столбцы процента использования бюджетов, окрашенные по статусу
func (g *ChartGenerator) GenerateBudgetChart(lines []service.BudgetLine) ([]byte, error) {
	bars := make([]chart.Value, 0, len(lines))
	nonZero := false
	for _, line := range lines {
		if !line.Percentage.Valid {
			continue
		}
		pct := line.Percentage.Decimal.InexactFloat64()
		if pct != 0 {
			nonZero = true
		}
		color := statusColor(line.Status)
		bars = append(bars, chart.Value{
			Label: fmt.Sprintf("%s (%.0f%%)", line.Category, pct),
			Value: pct,
			Style: chart.Style{
				StrokeColor: color,
				FillColor:   color,
			},
		})
	}
	if !nonZero {
		return nil, nil
	}

	graph := chart.BarChart{
		Title:      "Presupuestos",
		Width:      1200,
		Height:     600,
		BarWidth:   60,
		Background: background(),
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%.0f%%", v.(float64))
			},
			Style: chart.Style{
				FontSize:  12,
				FontColor: chart.ColorBlack,
			},
		},
		Bars: bars,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render budget chart: %w", err)
	}
	return buffer.Bytes(), nil
}

// GenerateWeeklyTrendChart расходы по неделям
func (g *ChartGenerator) GenerateWeeklyTrendChart(buckets []metrics.WeekBucket) ([]byte, error) {
	bars := make([]chart.Value, 0, len(buckets))
	nonZero := false
	for _, b := range buckets {
		v := b.Expenses.InexactFloat64()
		if v != 0 {
			nonZero = true
		}
		bars = append(bars, chart.Value{
			Label: b.Label,
			Value: v,
			Style: chart.Style{
				StrokeColor: chart.ColorBlue,
				FillColor:   chart.ColorBlue.WithAlpha(180),
			},
		})
	}
	if !nonZero {
		return nil, nil
	}

	graph := chart.BarChart{
		Title:      "Tendencia semanal",
		Width:      800,
		Height:     400,
		BarWidth:   80,
		Background: background(),
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				return g.money(v.(float64))
			},
		},
		Bars: bars,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render weekly trend chart: %w", err)
	}
	return buffer.Bytes(), nil
}

func statusColor(status metrics.Status) drawing.Color {
	switch status {
	case metrics.StatusSuccess:
		return colorSuccess
	case metrics.StatusWarning:
		return colorWarning
	case metrics.StatusDanger:
		return colorDanger
	default:
		return colorNeutral
	}
}
