package charts

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivanoskov/bc-money/internal/metrics"
	"github.com/ivanoskov/bc-money/internal/service"
)

var pngMagic = []byte("\x89PNG")

func TestGenerateCategoryPieChart(t *testing.T) {
	g := NewChartGenerator("CLP")

	png, err := g.GenerateCategoryPieChart([]metrics.CategoryAmount{
		{Name: "Comida", Amount: decimal.NewFromInt(450), Color: "#10B981"},
		{Name: metrics.OtherLabel, Amount: decimal.NewFromInt(50), Color: ""},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic))
}

func TestGenerateCharts_NoData(t *testing.T) {
	g := NewChartGenerator("CLP")

	png, err := g.GenerateCategoryPieChart(nil)
	assert.NoError(t, err)
	assert.Nil(t, png)

	png, err = g.GenerateWeeklyTrendChart([]metrics.WeekBucket{{Label: "Sem 1", Expenses: decimal.Zero}})
	assert.NoError(t, err)
	assert.Nil(t, png)

	png, err = g.GenerateBudgetChart([]service.BudgetLine{{
		Category:    "Comida",
		BudgetUsage: metrics.BudgetUsage{Status: metrics.StatusMisconfigured},
	}})
	assert.NoError(t, err)
	assert.Nil(t, png)
}

func TestGenerateBudgetChart(t *testing.T) {
	g := NewChartGenerator("CLP")

	png, err := g.GenerateBudgetChart([]service.BudgetLine{
		{Category: "Comida", BudgetUsage: metrics.BudgetUsage{Percentage: decimal.NewNullDecimal(decimal.NewFromInt(90)), Status: metrics.StatusWarning}},
		{Category: "General", BudgetUsage: metrics.BudgetUsage{Percentage: decimal.NewNullDecimal(decimal.NewFromInt(120)), Status: metrics.StatusDanger}},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic))
}

func TestGenerateWeeklyTrendChart(t *testing.T) {
	g := NewChartGenerator("CLP")

	png, err := g.GenerateWeeklyTrendChart([]metrics.WeekBucket{
		{Label: "Sem 1", Expenses: decimal.NewFromInt(120)},
		{Label: "Sem 2", Expenses: decimal.Zero},
		{Label: "Sem 3", Expenses: decimal.NewFromInt(75)},
		{Label: "Sem 4", Expenses: decimal.NewFromInt(300)},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic))
}

func TestHexColor(t *testing.T) {
	assert.Equal(t, colorNeutral, hexColor(""))
	assert.Equal(t, colorNeutral, hexColor("#12"))
	assert.Equal(t, colorSuccess, hexColor("#10B981"))
}
