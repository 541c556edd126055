package metrics

import (
	"github.com/shopspring/decimal"

	"github.com/ivanoskov/bc-money/internal/model"
)

// WeeksPerMonth среднее число недель в месяце, используется для почасовой оплаты
var WeeksPerMonth = decimal.RequireFromString("4.33")

// GrossMonthlyIncome месячный доход до вычетов. Незаполненные поля считаются нулем.
func GrossMonthlyIncome(p model.Profile) decimal.Decimal {
	if p.IncomeType == model.IncomeHourly {
		return valueOrZero(p.HourlyRate).Mul(valueOrZero(p.HoursPerWeek)).Mul(WeeksPerMonth)
	}
	// fixed и variable берут оклад
	return valueOrZero(p.FixedSalary)
}

// MonthlyNetIncome месячный доход после вычетов.
// Если процент чистого дохода не указан, доход не уменьшается.
func MonthlyNetIncome(p model.Profile) decimal.Decimal {
	net := hundred
	if p.NetIncomePercentage.Valid && !p.NetIncomePercentage.Decimal.IsZero() {
		net = p.NetIncomePercentage.Decimal
	}
	return GrossMonthlyIncome(p).Mul(net).Div(hundred)
}

func valueOrZero(v decimal.NullDecimal) decimal.Decimal {
	if !v.Valid {
		return decimal.Zero
	}
	return v.Decimal
}
