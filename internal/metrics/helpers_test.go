package metrics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ivanoskov/bc-money/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func strPtr(s string) *string {
	return &s
}

func day(y int, m time.Month, d int) model.Date {
	return model.NewDate(y, m, d)
}

func tx(typ model.TransactionType, amount string, category *string, date model.Date) model.Transaction {
	return model.Transaction{
		Type:       typ,
		Amount:     dec(amount),
		CategoryID: category,
		Date:       date,
	}
}
