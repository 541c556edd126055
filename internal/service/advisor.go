package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/ivanoskov/bc-money/internal/metrics"
	"github.com/ivanoskov/bc-money/internal/model"
)

const advisorWindowDays = 30

// AdvisorProfile черты профиля, которые передаются советнику
type AdvisorProfile struct {
	IncomeType        model.IncomeType `json:"income_type,omitempty"`
	LifeSituation     string           `json:"life_situation,omitempty"`
	RiskTolerance     string           `json:"risk_tolerance,omitempty"`
	InvestmentHorizon string           `json:"investment_horizon,omitempty"`
}

type AdvisorGoal struct {
	Name     string          `json:"name"`
	Target   decimal.Decimal `json:"target"`
	Current  decimal.Decimal `json:"current"`
	Progress string          `json:"progress"`
}

// AdvisorContext снимок финансового состояния для запроса к советнику
type AdvisorContext struct {
	Profile          AdvisorProfile  `json:"profile"`
	MonthlyNetIncome decimal.Decimal `json:"monthly_net_income"`
	Last30Days       metrics.Summary `json:"last30Days"`
	Goals            []AdvisorGoal   `json:"goals"`
	Budgets          int             `json:"budgets"`
	Degraded         []string        `json:"degraded,omitempty"`
}

// AdvisorContext собирает показатели за последние 30 дней, активные цели и число бюджетов
func (s *FinanceService) AdvisorContext(ctx context.Context, userID string) (*AdvisorContext, error) {
	today := s.today()
	start := today.AddDays(-advisorWindowDays)
	l := s.newLoader("advisor", userID)

	var (
		profile      *model.Profile
		transactions []model.Transaction
		goals        []model.Goal
		budgets      []model.Budget
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
			return s.repo.GetTransactions(ctx, userID, model.TransactionFilter{StartDate: &start})
		})
		return err
	})
	g.Go(func() error {
		var err error
		goals, err = fetch(gctx, l, "goals", func(ctx context.Context) ([]model.Goal, error) {
			return s.repo.GetGoals(ctx, userID, model.GoalActive)
		})
		return err
	})
	g.Go(func() error {
		var err error
		budgets, err = fetch(gctx, l, "budgets", func(ctx context.Context) ([]model.Budget, error) {
			return s.repo.GetBudgets(ctx, userID)
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load advisor context: %w", err)
	}

	snapshot := &AdvisorContext{
		MonthlyNetIncome: decimal.Zero,
		Last30Days:       metrics.Summarize(transactions),
		Goals:            make([]AdvisorGoal, 0, len(goals)),
		Budgets:          len(budgets),
		Degraded:         l.Degraded(),
	}
	if profile != nil {
		snapshot.Profile = AdvisorProfile{
			IncomeType:        profile.IncomeType,
			LifeSituation:     profile.LifeSituation,
			RiskTolerance:     profile.RiskTolerance,
			InvestmentHorizon: profile.InvestmentHorizon,
		}
		snapshot.MonthlyNetIncome = metrics.MonthlyNetIncome(*profile)
	}
	for _, goal := range goals {
		snapshot.Goals = append(snapshot.Goals, AdvisorGoal{
			Name:     goal.Name,
			Target:   goal.TargetAmount,
			Current:  goal.CurrentAmount,
			Progress: metrics.GoalProgress(goal).StringFixed(0),
		})
	}
	return snapshot, nil
}
