package bot

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivanoskov/bc-money/internal/metrics"
	"github.com/ivanoskov/bc-money/internal/model"
	"github.com/ivanoskov/bc-money/internal/service"
)

func TestParseAmountAndDescription(t *testing.T) {
	amount, description, err := parseAmountAndDescription("  1500 Almuerzo ")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1500).Equal(amount))
	assert.Equal(t, "Almuerzo", description)

	amount, description, err = parseAmountAndDescription("99.90")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("99.9").Equal(amount))
	assert.Empty(t, description)

	for _, args := range []string{"", "abc", "-5 x", "0"} {
		_, _, err := parseAmountAndDescription(args)
		var usage usageError
		assert.True(t, errors.As(err, &usage), args)
	}
}

func TestParseMonth(t *testing.T) {
	today := model.NewDate(2026, time.October, 16)

	month, err := parseMonth("", today)
	require.NoError(t, err)
	assert.Equal(t, today, month)

	month, err = parseMonth("2025-12", today)
	require.NoError(t, err)
	assert.Equal(t, model.NewDate(2025, time.December, 1), month)

	_, err = parseMonth("diciembre", today)
	assert.Error(t, err)
}

func TestErrorText(t *testing.T) {
	assert.Equal(t, "El aporte debe ser mayor a cero.", errorText(metrics.ErrInvalidContribution))
	assert.Equal(t, "Meta no encontrada.", errorText(service.ErrGoalNotFound))
	assert.Contains(t, errorText(errors.New("boom")), "No se pudo completar")
}

func TestFormatBudgets(t *testing.T) {
	overview := &service.BudgetOverview{
		Currency: "CLP",
		Budgets: []service.BudgetLine{
			{Category: "Comida", BudgetUsage: metrics.BudgetUsage{
				Budget:     model.Budget{Amount: decimal.NewFromInt(500)},
				Spent:      decimal.NewFromInt(450),
				Percentage: decimal.NewNullDecimal(decimal.NewFromInt(90)),
				Status:     metrics.StatusWarning,
			}},
			{Category: "General", BudgetUsage: metrics.BudgetUsage{Status: metrics.StatusMisconfigured}},
		},
		Totals: metrics.Totals{Budgeted: decimal.NewFromInt(500), Spent: decimal.NewFromInt(450), Percentage: decimal.NewFromInt(90)},
	}

	text := formatBudgets(overview)
	assert.Contains(t, text, "🟡 Comida: 450.00 CLP de 500.00 CLP (90%)")
	assert.Contains(t, text, "⚪ General: límite inválido")
	assert.Contains(t, text, "Total: 450.00 CLP de 500.00 CLP (90%)")

	assert.Equal(t, "No tienes presupuestos configurados.", formatBudgets(&service.BudgetOverview{}))
}

func TestGoalLine(t *testing.T) {
	line := service.GoalLine{
		Goal:     model.Goal{Name: "Viaje", Status: model.GoalActive, TargetAmount: decimal.NewFromInt(1000), CurrentAmount: decimal.NewFromInt(250)},
		Progress: decimal.NewFromInt(25),
		Plan:     &metrics.SavingsPlan{Outcome: metrics.OutcomePlan, Monthly: decimal.NewFromInt(1500)},
	}
	assert.Equal(t, "• Viaje: 25% (250.00 de 1000.00), 1500.00/mes\n", goalLine(line, ""))

	line.Plan = &metrics.SavingsPlan{Outcome: metrics.OutcomeError}
	assert.Equal(t, "• Viaje: 25% (250.00 CLP de 1000.00 CLP), fecha vencida\n", goalLine(line, "CLP"))
}
