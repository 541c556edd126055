package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivanoskov/bc-money/internal/metrics"
	"github.com/ivanoskov/bc-money/internal/model"
)

func TestCreateGoal_AmountMode(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(repo)

	goal, err := svc.CreateGoal(context.Background(), userID, GoalInput{
		Name:         " Fondo ",
		GoalType:     "emergency_fund",
		TargetAmount: dec("3000"),
	})
	require.NoError(t, err)

	assert.Equal(t, "goal-new", goal.ID)
	assert.Equal(t, "Fondo", goal.Name)
	assert.Equal(t, "#10B981", goal.Color)
	assert.Equal(t, model.TargetAmount, goal.TargetMode)
	assert.Equal(t, model.GoalActive, goal.Status)
	assert.False(t, goal.TargetPercentage.Valid)
	assert.True(t, dec("3000").Equal(goal.TargetAmount))
}

func TestCreateGoal_PercentageModeUsesNetIncome(t *testing.T) {
	repo := newFakeRepository()
	repo.profile = &model.Profile{
		ID:                  userID,
		IncomeType:          model.IncomeHourly,
		HourlyRate:          decimal.NewNullDecimal(dec("14")),
		HoursPerWeek:        decimal.NewNullDecimal(dec("27")),
		NetIncomePercentage: decimal.NewNullDecimal(dec("75")),
	}
	svc := newTestService(repo)
	target := model.NewDate(2027, time.January, 14) // 90 дней

	goal, err := svc.CreateGoal(context.Background(), userID, GoalInput{
		Name:             "Vacaciones",
		TargetMode:       model.TargetPercentage,
		TargetPercentage: dec("20"),
		TargetDate:       &target,
	})
	require.NoError(t, err)

	// 1227.555 * 20% * 3 месяца
	assert.True(t, dec("736.533").Equal(goal.TargetAmount), goal.TargetAmount.String())
	require.True(t, goal.TargetPercentage.Valid)
	assert.True(t, dec("20").Equal(goal.TargetPercentage.Decimal))
}

func TestCreateGoal_Validation(t *testing.T) {
	svc := newTestService(newFakeRepository())

	inputs := []GoalInput{
		{Name: "", TargetAmount: dec("10")},
		{Name: "x", TargetAmount: dec("0")},
		{Name: "x", TargetMode: model.TargetPercentage, TargetPercentage: dec("0")},
		{Name: "x", TargetMode: model.TargetPercentage, TargetPercentage: dec("101")},
		{Name: "x", TargetMode: "ratio", TargetAmount: dec("10")},
	}
	for _, in := range inputs {
		_, err := svc.CreateGoal(context.Background(), userID, in)
		assert.ErrorIs(t, err, ErrInvalidGoal)
	}
}

func TestCreateGoal_PercentageWithoutProfile(t *testing.T) {
	svc := newTestService(newFakeRepository())

	_, err := svc.CreateGoal(context.Background(), userID, GoalInput{
		Name:             "x",
		TargetMode:       model.TargetPercentage,
		TargetPercentage: dec("10"),
	})
	assert.Error(t, err)
}

func TestContribute_CompletesGoal(t *testing.T) {
	repo := newFakeRepository()
	repo.goals = []model.Goal{
		{ID: "g1", UserID: userID, TargetAmount: dec("1000"), CurrentAmount: dec("900"), Status: model.GoalActive},
	}
	svc := newTestService(repo)

	goal, err := svc.Contribute(context.Background(), userID, "g1", dec("150"))
	require.NoError(t, err)

	assert.Equal(t, model.GoalCompleted, goal.Status)
	require.NotNil(t, goal.CompletedAt)
	assert.Equal(t, fixedNow, *goal.CompletedAt)
	assert.True(t, dec("1050").Equal(repo.goals[0].CurrentAmount))
	assert.Equal(t, model.GoalCompleted, repo.goals[0].Status)

	require.Len(t, repo.contributions, 1)
	assert.Equal(t, "g1", repo.contributions[0].GoalID)
	assert.True(t, dec("150").Equal(repo.contributions[0].Amount))
	assert.Equal(t, model.NewDate(2026, time.October, 16), repo.contributions[0].Date)
	assert.NotEmpty(t, repo.contributions[0].ID)
}

func TestContribute_Errors(t *testing.T) {
	repo := newFakeRepository()
	repo.goals = []model.Goal{{ID: "g1", UserID: userID, TargetAmount: dec("10"), CurrentAmount: dec("0")}}
	svc := newTestService(repo)

	_, err := svc.Contribute(context.Background(), userID, "missing", dec("5"))
	assert.ErrorIs(t, err, ErrGoalNotFound)

	_, err = svc.Contribute(context.Background(), "someone-else", "g1", dec("5"))
	assert.ErrorIs(t, err, ErrGoalNotFound)

	_, err = svc.Contribute(context.Background(), userID, "g1", dec("-5"))
	assert.ErrorIs(t, err, metrics.ErrInvalidContribution)
	assert.Empty(t, repo.contributions)
}

func TestUpdateGoal_RaisingTargetReopens(t *testing.T) {
	completedAt := fixedNow.Add(-48 * time.Hour)
	repo := newFakeRepository()
	repo.goals = []model.Goal{{
		ID: "g1", UserID: userID, Name: "Viaje", TargetAmount: dec("500"), CurrentAmount: dec("500"),
		Status: model.GoalCompleted, CompletedAt: &completedAt,
	}}
	svc := newTestService(repo)

	goal, err := svc.UpdateGoal(context.Background(), userID, "g1", GoalInput{Name: "Viaje", TargetAmount: dec("800")})
	require.NoError(t, err)

	assert.Equal(t, model.GoalActive, goal.Status)
	assert.Nil(t, goal.CompletedAt)
	assert.Equal(t, model.GoalActive, repo.goals[0].Status)
	assert.True(t, dec("500").Equal(repo.goals[0].CurrentAmount))
}

func TestGoalPlans(t *testing.T) {
	svc := newTestService(seededRepository())

	overview, err := svc.GoalPlans(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, "CLP", overview.Currency)
	assert.Empty(t, overview.Degraded)
	lines := overview.Goals
	require.Len(t, lines, 4)
	require.NotNil(t, lines[0].Plan)
	assert.True(t, dec("1500").Equal(lines[0].Plan.Monthly), lines[0].Plan.Monthly.String())
	assert.True(t, dec("100").Equal(lines[3].Progress))
}

func TestGoalPlans_MissingProfileUsesDefaultCurrency(t *testing.T) {
	repo := seededRepository()
	repo.profile = nil
	svc := newTestService(repo, WithCurrency("EUR"))

	overview, err := svc.GoalPlans(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, "EUR", overview.Currency)
	assert.Equal(t, []string{"profile"}, overview.Degraded)
	assert.Len(t, overview.Goals, 4)
}

func TestContribute_HistoryFailureKeepsContribution(t *testing.T) {
	repo := newFakeRepository()
	repo.goals = []model.Goal{{ID: "g1", UserID: userID, Name: "Viaje", TargetAmount: dec("1000"), CurrentAmount: dec("100"), Status: model.GoalActive}}
	repo.failing["contributions"] = true
	svc := newTestService(repo)

	goal, err := svc.Contribute(context.Background(), userID, "g1", dec("50"))
	require.NoError(t, err)

	assert.True(t, dec("150").Equal(goal.CurrentAmount))
	assert.True(t, dec("150").Equal(repo.goals[0].CurrentAmount))
	assert.Empty(t, repo.contributions)
}

func TestContribute_PausedGoalStaysPaused(t *testing.T) {
	repo := newFakeRepository()
	repo.goals = []model.Goal{{ID: "g1", UserID: userID, Name: "Auto", TargetAmount: dec("100"), CurrentAmount: dec("90"), Status: model.GoalPaused}}
	svc := newTestService(repo)

	goal, err := svc.Contribute(context.Background(), userID, "g1", dec("20"))
	require.NoError(t, err)

	assert.Equal(t, model.GoalPaused, goal.Status)
	assert.Nil(t, goal.CompletedAt)
	assert.Equal(t, model.GoalPaused, repo.goals[0].Status)
	require.Len(t, repo.contributions, 1)
}
