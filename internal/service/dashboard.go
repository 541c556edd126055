package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/ivanoskov/bc-money/internal/metrics"
	"github.com/ivanoskov/bc-money/internal/model"
)

const (
	dashboardWeeks   = 4
	dashboardRecent  = 5
	dashboardGoals   = 2
	generalBudgetTag = "General"
)

// BudgetLine использование бюджета с названием категории
type BudgetLine struct {
	Category string `json:"category"`
	Color    string `json:"color"`
	metrics.BudgetUsage
}

// GoalLine цель с прогрессом и планом взносов (если задана целевая дата)
type GoalLine struct {
	Goal     model.Goal           `json:"goal"`
	Progress decimal.Decimal      `json:"progress"`
	Plan     *metrics.SavingsPlan `json:"plan,omitempty"`
}

// Dashboard показатели главной страницы за текущий месяц
type Dashboard struct {
	Currency      string                   `json:"currency"`
	Start         model.Date               `json:"start"`
	End           model.Date               `json:"end"`
	Summary       metrics.Summary          `json:"summary"`
	Categories    []metrics.CategoryAmount `json:"categories"`
	Budgets       []BudgetLine             `json:"budgets"`
	OverallBudget decimal.NullDecimal      `json:"overall_budget"`
	Goals         []GoalLine               `json:"goals"`
	WeeklyTrend   []metrics.WeekBucket     `json:"weekly_trend"`
	Recent        []model.Transaction      `json:"recent"`
	// Degraded коллекции, которые не удалось загрузить и которые посчитаны как пустые
	Degraded []string `json:"degraded,omitempty"`
}

type userData struct {
	profile      *model.Profile
	transactions []model.Transaction
	categories   []model.Category
	budgets      []model.Budget
	goals        []model.Goal
}

// loadUserData параллельно загружает коллекции пользователя за интервал [start, end]
func (s *FinanceService) loadUserData(ctx context.Context, l *loader, userID string, start, end model.Date, goalStatus model.GoalStatus) (*userData, error) {
	data := &userData{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		data.profile, err = fetchOne(gctx, l, "profile", func(ctx context.Context) (*model.Profile, error) {
			return s.repo.GetProfile(ctx, userID)
		})
		return err
	})
	g.Go(func() error {
		var err error
		data.transactions, err = fetch(gctx, l, "transactions", func(ctx context.Context) ([]model.Transaction, error) {
			return s.repo.GetTransactions(ctx, userID, model.TransactionFilter{StartDate: &start, EndDate: &end})
		})
		return err
	})
	g.Go(func() error {
		var err error
		data.categories, err = fetch(gctx, l, "categories", func(ctx context.Context) ([]model.Category, error) {
			return s.repo.GetCategories(ctx, userID)
		})
		return err
	})
	g.Go(func() error {
		var err error
		data.budgets, err = fetch(gctx, l, "budgets", func(ctx context.Context) ([]model.Budget, error) {
			return s.repo.GetBudgets(ctx, userID)
		})
		return err
	})
	g.Go(func() error {
		var err error
		data.goals, err = fetch(gctx, l, "goals", func(ctx context.Context) ([]model.Goal, error) {
			return s.repo.GetGoals(ctx, userID, goalStatus)
		})
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load data: %w", err)
	}
	return data, nil
}

func (s *FinanceService) currencyOf(profile *model.Profile) string {
	if profile != nil && profile.Currency != "" {
		return profile.Currency
	}
	return s.currency
}

// Dashboard собирает показатели текущего месяца. Недоступные коллекции
// считаются пустыми и перечисляются в Degraded.
func (s *FinanceService) Dashboard(ctx context.Context, userID string) (*Dashboard, error) {
	today := s.today()
	start, end := today.StartOfMonth(), today.EndOfMonth()

	l := s.newLoader("dashboard", userID)
	data, err := s.loadUserData(ctx, l, userID, start, end, model.GoalActive)
	if err != nil {
		l.logData.Log().WithError(err).Error("Dashboard.Error")
		return nil, err
	}

	usages := metrics.EvaluateBudgets(data.budgets, data.transactions)
	goals := data.goals
	if len(goals) > dashboardGoals {
		goals = goals[:dashboardGoals]
	}
	recent := data.transactions
	if len(recent) > dashboardRecent {
		recent = recent[:dashboardRecent]
	}

	dashboard := &Dashboard{
		Currency:      s.currencyOf(data.profile),
		Start:         start,
		End:           end,
		Summary:       metrics.Summarize(data.transactions),
		Categories:    metrics.RankCategories(data.transactions, data.categories, s.topCategories),
		Budgets:       budgetLines(usages, data.categories),
		OverallBudget: metrics.OverallUsage(usages),
		Goals:         goalLines(goals, today),
		WeeklyTrend:   metrics.WeeklyExpenses(data.transactions, today, dashboardWeeks),
		Recent:        recent,
		Degraded:      l.Degraded(),
	}

	l.logData.AddData("degraded", len(dashboard.Degraded))
	l.logData.Log().Info("Dashboard.Complete")
	return dashboard, nil
}

func budgetLines(usages []metrics.BudgetUsage, categories []model.Category) []BudgetLine {
	lookup := make(map[string]model.Category, len(categories))
	for _, c := range categories {
		lookup[c.ID] = c
	}
	lines := make([]BudgetLine, 0, len(usages))
	for _, u := range usages {
		line := BudgetLine{Category: generalBudgetTag, Color: metrics.OtherColor, BudgetUsage: u}
		if u.Budget.CategoryID != nil {
			if c, ok := lookup[*u.Budget.CategoryID]; ok {
				line.Category = c.Name
				if c.Color != "" {
					line.Color = c.Color
				}
			}
		}
		lines = append(lines, line)
	}
	return lines
}

func goalLines(goals []model.Goal, today model.Date) []GoalLine {
	lines := make([]GoalLine, 0, len(goals))
	for _, g := range goals {
		line := GoalLine{Goal: g, Progress: metrics.GoalProgress(g)}
		if plan, ok := metrics.ProjectGoal(g, today); ok {
			line.Plan = &plan
		}
		lines = append(lines, line)
	}
	return lines
}
