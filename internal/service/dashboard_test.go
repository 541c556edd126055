package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivanoskov/bc-money/internal/metrics"
	"github.com/ivanoskov/bc-money/internal/model"
)

const userID = "8d1c0b1e-0000-4000-8000-000000000001"

func seededRepository() *fakeRepository {
	repo := newFakeRepository()
	food := strPtr("cat-food")
	day := func(d int) model.Date { return model.NewDate(2026, time.October, d) }
	target := day(31)

	repo.profile = &model.Profile{ID: userID, Currency: "CLP"}
	repo.categories = []model.Category{
		{ID: "cat-food", Name: "Comida", Color: "#10B981", Type: model.CategoryExpense},
		{ID: "cat-salary", Name: "Sueldo", Type: model.CategoryIncome, IsSystem: true},
	}
	repo.transactions = []model.Transaction{
		{ID: "t1", Type: model.TransactionIncome, Amount: dec("2000"), Date: day(1), CategoryID: strPtr("cat-salary")},
		{ID: "t2", Type: model.TransactionExpense, Amount: dec("450"), Date: day(3), CategoryID: food},
		{ID: "t3", Type: model.TransactionExpense, Amount: dec("50"), Date: day(12)},
		{ID: "t4", Type: model.TransactionExpense, Amount: dec("999"), Date: model.NewDate(2026, time.September, 30), CategoryID: food},
	}
	repo.budgets = []model.Budget{
		{ID: "b1", CategoryID: food, Amount: dec("500"), Period: model.PeriodMonthly},
		{ID: "b2", Amount: dec("100"), Period: model.PeriodMonthly},
	}
	repo.goals = []model.Goal{
		{ID: "g1", UserID: userID, Name: "Viaje", TargetAmount: dec("1000"), CurrentAmount: dec("250"), TargetDate: &target, Status: model.GoalActive},
		{ID: "g2", UserID: userID, Name: "Auto", TargetAmount: dec("5000"), CurrentAmount: dec("0"), Status: model.GoalActive},
		{ID: "g3", UserID: userID, Name: "Casa", TargetAmount: dec("9000"), CurrentAmount: dec("0"), Status: model.GoalActive},
		{ID: "g4", UserID: userID, Name: "Hecho", TargetAmount: dec("10"), CurrentAmount: dec("10"), Status: model.GoalCompleted},
	}
	return repo
}

func TestDashboard(t *testing.T) {
	svc := newTestService(seededRepository())

	d, err := svc.Dashboard(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, "CLP", d.Currency)
	assert.Equal(t, model.NewDate(2026, time.October, 1), d.Start)
	assert.Equal(t, model.NewDate(2026, time.October, 31), d.End)
	assert.Empty(t, d.Degraded)

	assert.True(t, dec("2000").Equal(d.Summary.Income))
	assert.True(t, dec("500").Equal(d.Summary.Expenses))
	assert.True(t, dec("75").Equal(d.Summary.SavingsRate))

	require.Len(t, d.Categories, 2)
	assert.Equal(t, "Comida", d.Categories[0].Name)
	assert.Equal(t, metrics.OtherLabel, d.Categories[1].Name)

	require.Len(t, d.Budgets, 2)
	assert.Equal(t, "Comida", d.Budgets[0].Category)
	assert.Equal(t, metrics.StatusWarning, d.Budgets[0].Status)
	assert.Equal(t, "General", d.Budgets[1].Category)
	assert.True(t, dec("50").Equal(d.Budgets[1].Spent))
	require.True(t, d.OverallBudget.Valid)
	assert.True(t, dec("70").Equal(d.OverallBudget.Decimal))

	require.Len(t, d.Goals, 2)
	assert.Equal(t, "g1", d.Goals[0].Goal.ID)
	assert.True(t, dec("25").Equal(d.Goals[0].Progress))
	require.NotNil(t, d.Goals[0].Plan)
	assert.Equal(t, metrics.OutcomePlan, d.Goals[0].Plan.Outcome)
	assert.Equal(t, 15, d.Goals[0].Plan.Days)
	assert.Nil(t, d.Goals[1].Plan)

	assert.Len(t, d.WeeklyTrend, 4)
	assert.Len(t, d.Recent, 3)
}

func TestDashboard_FailedCollectionDegradesToEmpty(t *testing.T) {
	repo := seededRepository()
	repo.failing["budgets"] = true
	repo.failing["profile"] = true
	svc := newTestService(repo, WithCurrency("EUR"))

	d, err := svc.Dashboard(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, []string{"budgets", "profile"}, d.Degraded)
	assert.Equal(t, "EUR", d.Currency)
	assert.Empty(t, d.Budgets)
	assert.False(t, d.OverallBudget.Valid)
	assert.True(t, dec("500").Equal(d.Summary.Expenses))
	assert.Len(t, d.Goals, 2)
}

func TestDashboard_SlowCollectionTimesOut(t *testing.T) {
	repo := seededRepository()
	repo.delays["transactions"] = 300 * time.Millisecond
	svc := newTestService(repo, WithFetchTimeout(20*time.Millisecond))

	started := time.Now()
	d, err := svc.Dashboard(context.Background(), userID)
	require.NoError(t, err)

	assert.Less(t, time.Since(started), 250*time.Millisecond)
	assert.Equal(t, []string{"transactions"}, d.Degraded)
	assert.True(t, d.Summary.Income.IsZero())
	assert.True(t, d.Summary.SavingsRate.IsZero())
	require.Len(t, d.Budgets, 2)
	assert.Equal(t, metrics.StatusSuccess, d.Budgets[0].Status)
}

func TestDashboard_CancelledContext(t *testing.T) {
	repo := seededRepository()
	repo.delays["goals"] = 200 * time.Millisecond
	svc := newTestService(repo)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Dashboard(ctx, userID)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBudgetOverview_UsesEachBudgetWindow(t *testing.T) {
	repo := seededRepository()
	food := strPtr("cat-food")
	repo.budgets = []model.Budget{
		{ID: "weekly", CategoryID: food, Amount: dec("100"), Period: model.PeriodWeekly},
		{ID: "yearly", CategoryID: food, Amount: dec("2000"), Period: model.PeriodYearly},
	}
	repo.transactions = append(repo.transactions, model.Transaction{
		ID: "t5", Type: model.TransactionExpense, Amount: dec("80"), Date: model.NewDate(2026, time.October, 14), CategoryID: food,
	})
	svc := newTestService(repo)

	overview, err := svc.BudgetOverview(context.Background(), userID)
	require.NoError(t, err)

	require.Len(t, overview.Budgets, 2)
	// неделя 12–18 октября
	assert.True(t, dec("80").Equal(overview.Budgets[0].Spent), overview.Budgets[0].Spent.String())
	assert.Equal(t, metrics.StatusSuccess, overview.Budgets[0].Status)
	// весь 2026 год, включая сентябрь
	assert.True(t, dec("1529").Equal(overview.Budgets[1].Spent), overview.Budgets[1].Spent.String())

	assert.True(t, dec("2100").Equal(overview.Totals.Budgeted))
	assert.True(t, dec("1609").Equal(overview.Totals.Spent))
	assert.Equal(t, model.TransactionExpense, repo.lastFilter.Type)
	assert.Equal(t, model.NewDate(2026, time.January, 1), *repo.lastFilter.StartDate)
}

func TestSaveBudget_Validation(t *testing.T) {
	svc := newTestService(newFakeRepository())

	_, err := svc.SaveBudget(context.Background(), userID, model.Budget{Amount: dec("0")})
	assert.ErrorIs(t, err, ErrInvalidBudget)

	_, err = svc.SaveBudget(context.Background(), userID, model.Budget{Amount: dec("10"), Period: "daily"})
	assert.Error(t, err)

	saved, err := svc.SaveBudget(context.Background(), userID, model.Budget{Amount: dec("10")})
	require.NoError(t, err)
	assert.Equal(t, model.PeriodMonthly, saved.Period)
	assert.Equal(t, userID, saved.UserID)
}
