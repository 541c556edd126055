package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/ivanoskov/bc-money/internal/metrics"
	"github.com/ivanoskov/bc-money/internal/model"
	"github.com/ivanoskov/bc-money/internal/repository"
)

var errUnavailable = errors.New("service unavailable")

// fakeRepository хранилище в памяти с возможностью сломать или замедлить коллекцию
type fakeRepository struct {
	mu            sync.Mutex
	profile       *model.Profile
	transactions  []model.Transaction
	categories    []model.Category
	budgets       []model.Budget
	goals         []model.Goal
	contributions []model.GoalContribution
	failing       map[string]bool
	delays        map[string]time.Duration
	lastFilter    model.TransactionFilter
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		failing: make(map[string]bool),
		delays:  make(map[string]time.Duration),
	}
}

func (f *fakeRepository) guard(ctx context.Context, name string) error {
	f.mu.Lock()
	delay := f.delays[name]
	failing := f.failing[name]
	f.mu.Unlock()

	if delay > 0 {
		// как и настоящий клиент, контекст не прерывает запрос
		time.Sleep(delay)
	}
	if failing {
		return errUnavailable
	}
	return nil
}

func (f *fakeRepository) GetProfile(ctx context.Context, userID string) (*model.Profile, error) {
	if err := f.guard(ctx, "profile"); err != nil {
		return nil, err
	}
	if f.profile == nil {
		return nil, repository.ErrNotFound
	}
	p := *f.profile
	return &p, nil
}

func (f *fakeRepository) GetCategories(ctx context.Context, userID string) ([]model.Category, error) {
	if err := f.guard(ctx, "categories"); err != nil {
		return nil, err
	}
	return append([]model.Category(nil), f.categories...), nil
}

func (f *fakeRepository) CreateCategory(ctx context.Context, category *model.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	category.ID = "cat-new"
	f.categories = append(f.categories, *category)
	return nil
}

func (f *fakeRepository) DeleteCategory(ctx context.Context, id string, userID string) error {
	return nil
}

func (f *fakeRepository) GetTransactions(ctx context.Context, userID string, filter model.TransactionFilter) ([]model.Transaction, error) {
	if err := f.guard(ctx, "transactions"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastFilter = filter

	var from, to model.Date
	if filter.StartDate != nil {
		from = *filter.StartDate
	}
	if filter.EndDate != nil {
		to = *filter.EndDate
	}
	out := make([]model.Transaction, 0)
	for _, t := range f.transactions {
		if !metrics.Between(from, to)(t) {
			continue
		}
		if filter.Type != "" && t.Type != filter.Type {
			continue
		}
		out = append(out, t)
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (f *fakeRepository) CreateTransaction(ctx context.Context, transaction *model.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.transactions = append(f.transactions, *transaction)
	return nil
}

func (f *fakeRepository) DeleteTransaction(ctx context.Context, id string, userID string) error {
	return nil
}

func (f *fakeRepository) GetBudgets(ctx context.Context, userID string) ([]model.Budget, error) {
	if err := f.guard(ctx, "budgets"); err != nil {
		return nil, err
	}
	return append([]model.Budget(nil), f.budgets...), nil
}

func (f *fakeRepository) SaveBudget(ctx context.Context, budget *model.Budget) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if budget.ID == "" {
		budget.ID = "budget-new"
	}
	f.budgets = append(f.budgets, *budget)
	return nil
}

func (f *fakeRepository) DeleteBudget(ctx context.Context, id string, userID string) error {
	return nil
}

func (f *fakeRepository) GetGoals(ctx context.Context, userID string, status model.GoalStatus) ([]model.Goal, error) {
	if err := f.guard(ctx, "goals"); err != nil {
		return nil, err
	}
	out := make([]model.Goal, 0)
	for _, g := range f.goals {
		if status == "" || g.Status == status {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeRepository) GetGoal(ctx context.Context, id string, userID string) (*model.Goal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, g := range f.goals {
		if g.ID == id && g.UserID == userID {
			goal := g
			return &goal, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeRepository) SaveGoal(ctx context.Context, goal *model.Goal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if goal.ID == "" {
		goal.ID = "goal-new"
		f.goals = append(f.goals, *goal)
		return nil
	}
	for i := range f.goals {
		if f.goals[i].ID == goal.ID {
			f.goals[i] = *goal
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeRepository) DeleteGoal(ctx context.Context, id string, userID string) error {
	return nil
}

func (f *fakeRepository) CreateContribution(ctx context.Context, contribution *model.GoalContribution) error {
	if err := f.guard(ctx, "contributions"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.contributions = append(f.contributions, *contribution)
	return nil
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func strPtr(s string) *string {
	return &s
}

// fixedNow 16 октября 2026, полдень UTC
var fixedNow = time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC)

func newTestService(repo *fakeRepository, opts ...Option) *FinanceService {
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewFinanceService(repo, quietLogger(), opts...)
}
