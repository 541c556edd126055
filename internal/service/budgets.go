package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ivanoskov/bc-money/internal/metrics"
	"github.com/ivanoskov/bc-money/internal/model"
)

var ErrInvalidBudget = errors.New("budget amount must be positive")

// BudgetOverview страница бюджетов: каждый бюджет оценивается по своему периоду
type BudgetOverview struct {
	Currency string         `json:"currency"`
	Budgets  []BudgetLine   `json:"budgets"`
	Totals   metrics.Totals `json:"totals"`
	Degraded []string       `json:"degraded,omitempty"`
}

func (s *FinanceService) BudgetOverview(ctx context.Context, userID string) (*BudgetOverview, error) {
	today := s.today()
	l := s.newLoader("budgets", userID)

	budgets, err := fetch(ctx, l, "budgets", func(ctx context.Context) ([]model.Budget, error) {
		return s.repo.GetBudgets(ctx, userID)
	})
	if err != nil {
		return nil, err
	}

	// Одна выборка покрывает окна всех бюджетов
	start, end := today.StartOfMonth(), today.EndOfMonth()
	for _, b := range budgets {
		from, to := b.Window(today)
		if from.Before(start) {
			start = from
		}
		if to.After(end) {
			end = to
		}
	}

	var (
		profile      *model.Profile
		transactions []model.Transaction
		categories   []model.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		profile, err = fetchOne(gctx, l, "profile", func(ctx context.Context) (*model.Profile, error) {
			return s.repo.GetProfile(ctx, userID)
		})
		return err
	})
	g.Go(func() error {
		var err error
		transactions, err = fetch(gctx, l, "transactions", func(ctx context.Context) ([]model.Transaction, error) {
			return s.repo.GetTransactions(ctx, userID, model.TransactionFilter{
				StartDate: &start,
				EndDate:   &end,
				Type:      model.TransactionExpense,
			})
		})
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = fetch(gctx, l, "categories", func(ctx context.Context) ([]model.Category, error) {
			return s.repo.GetCategories(ctx, userID)
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load budget data: %w", err)
	}

	usages := make([]metrics.BudgetUsage, 0, len(budgets))
	for _, b := range budgets {
		from, to := b.Window(today)
		windowed := filterTransactions(transactions, metrics.Between(from, to))
		usages = append(usages, metrics.EvaluateBudget(b, windowed))
	}

	overview := &BudgetOverview{
		Currency: s.currencyOf(profile),
		Budgets:  budgetLines(usages, categories),
		Totals:   metrics.BudgetTotals(usages),
		Degraded: l.Degraded(),
	}
	l.logData.Log().Info("BudgetOverview.Complete")
	return overview, nil
}

// SaveBudget создает или обновляет бюджет пользователя
func (s *FinanceService) SaveBudget(ctx context.Context, userID string, budget model.Budget) (*model.Budget, error) {
	if !budget.Amount.IsPositive() {
		return nil, ErrInvalidBudget
	}
	switch budget.Period {
	case model.PeriodWeekly, model.PeriodMonthly, model.PeriodYearly:
	case "":
		budget.Period = model.PeriodMonthly
	default:
		return nil, fmt.Errorf("unknown budget period %q", budget.Period)
	}
	budget.UserID = userID
	if err := s.repo.SaveBudget(ctx, &budget); err != nil {
		return nil, err
	}
	return &budget, nil
}

func (s *FinanceService) DeleteBudget(ctx context.Context, userID, budgetID string) error {
	return s.repo.DeleteBudget(ctx, budgetID, userID)
}

func filterTransactions(transactions []model.Transaction, pred metrics.Predicate) []model.Transaction {
	out := make([]model.Transaction, 0, len(transactions))
	for _, t := range transactions {
		if pred(t) {
			out = append(out, t)
		}
	}
	return out
}

