package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/ivanoskov/bc-money/internal/metrics"
	"github.com/ivanoskov/bc-money/internal/model"
)

const reportTopCategories = 5

// MonthlyReport отчет за календарный месяц
type MonthlyReport struct {
	Currency      string                   `json:"currency"`
	Month         model.Date               `json:"month"`
	Summary       metrics.Summary          `json:"summary"`
	TopCategories []metrics.CategoryAmount `json:"top_categories"`
	Transactions  []model.Transaction      `json:"transactions"`
	Categories    []model.Category         `json:"-"`
	Degraded      []string                 `json:"degraded,omitempty"`
}

// MonthlyReport строит отчет за месяц, содержащий день month
func (s *FinanceService) MonthlyReport(ctx context.Context, userID string, month model.Date) (*MonthlyReport, error) {
	start, end := month.StartOfMonth(), month.EndOfMonth()

	l := s.newLoader("report", userID)
	data, err := s.loadUserData(ctx, l, userID, start, end, model.GoalActive)
	if err != nil {
		return nil, err
	}

	report := &MonthlyReport{
		Currency:      s.currencyOf(data.profile),
		Month:         start,
		Summary:       metrics.Summarize(data.transactions),
		TopCategories: metrics.RankCategories(data.transactions, data.categories, reportTopCategories),
		Transactions:  data.transactions,
		Categories:    data.categories,
		Degraded:      l.Degraded(),
	}
	l.logData.Log().Info("MonthlyReport.Complete")
	return report, nil
}

// FileName имя CSV-файла отчета
func (r *MonthlyReport) FileName() string {
	return fmt.Sprintf("bc-money-reporte-%s.csv", r.Month.Format("2006-01"))
}

// WriteCSV выгружает транзакции месяца в CSV
func (r *MonthlyReport) WriteCSV(w io.Writer) error {
	names := make(map[string]string, len(r.Categories))
	for _, c := range r.Categories {
		names[c.ID] = c.Name
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Fecha", "Tipo", "Categoría", "Descripción", "Monto"}); err != nil {
		return err
	}
	for _, t := range r.Transactions {
		category := ""
		if !t.Uncategorized() {
			category = names[*t.CategoryID]
		}
		description := ""
		if t.Description != nil {
			description = *t.Description
		}
		record := []string{t.Date.String(), typeLabel(t.Type), category, description, t.Amount.String()}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func typeLabel(t model.TransactionType) string {
	switch t {
	case model.TransactionIncome:
		return "Ingreso"
	case model.TransactionTransfer:
		return "Transferencia"
	default:
		return "Gasto"
	}
}
