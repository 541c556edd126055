package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ivanoskov/bc-money/internal/metrics"
	"github.com/ivanoskov/bc-money/internal/model"
	"github.com/ivanoskov/bc-money/internal/repository"
)

var (
	ErrGoalNotFound = errors.New("goal not found")
	ErrInvalidGoal  = errors.New("invalid goal")
)

// goalColors цвета по типу цели
var goalColors = map[string]string{
	"emergency_fund": "#10B981",
	"savings":        "#3B82F6",
	"purchase":       "#F59E0B",
	"education":      "#8B5CF6",
	"investment":     "#EC4899",
	"other":          "#6B7280",
}

// GoalInput данные формы создания/редактирования цели
type GoalInput struct {
	Name             string
	Description      string
	GoalType         string
	TargetMode       model.TargetMode
	TargetAmount     decimal.Decimal
	TargetPercentage decimal.Decimal
	TargetDate       *model.Date
	Priority         int
}

func (in GoalInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidGoal)
	}
	switch in.TargetMode {
	case model.TargetPercentage:
		if !in.TargetPercentage.IsPositive() || in.TargetPercentage.GreaterThan(decimal.NewFromInt(100)) {
			return fmt.Errorf("%w: percentage must be in (0, 100]", ErrInvalidGoal)
		}
	case model.TargetAmount, "":
		if !in.TargetAmount.IsPositive() {
			return fmt.Errorf("%w: target amount must be positive", ErrInvalidGoal)
		}
	default:
		return fmt.Errorf("%w: unknown target mode %q", ErrInvalidGoal, in.TargetMode)
	}
	return nil
}

// targetAmount сумма цели; для процентной цели рассчитывается от чистого дохода профиля
func (s *FinanceService) targetAmount(ctx context.Context, userID string, in GoalInput) (decimal.Decimal, error) {
	if in.TargetMode != model.TargetPercentage {
		return in.TargetAmount, nil
	}
	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get profile: %w", err)
	}
	monthlyNet := metrics.MonthlyNetIncome(*profile)
	return metrics.DeriveTargetAmount(monthlyNet, in.TargetPercentage, in.TargetDate, s.today()), nil
}

func (in GoalInput) apply(goal *model.Goal) {
	goal.Name = strings.TrimSpace(in.Name)
	goal.Description = nil
	if d := strings.TrimSpace(in.Description); d != "" {
		goal.Description = &d
	}
	goal.GoalType = in.GoalType
	if goal.GoalType == "" {
		goal.GoalType = "savings"
	}
	goal.Color = goalColors[goal.GoalType]
	if goal.Color == "" {
		goal.Color = goalColors["other"]
	}
	goal.TargetMode = in.TargetMode
	if goal.TargetMode == "" {
		goal.TargetMode = model.TargetAmount
	}
	goal.TargetPercentage = decimal.NullDecimal{}
	if goal.TargetMode == model.TargetPercentage {
		goal.TargetPercentage = decimal.NewNullDecimal(in.TargetPercentage)
	}
	goal.TargetDate = in.TargetDate
	goal.Priority = in.Priority
}

// CreateGoal создает активную цель
func (s *FinanceService) CreateGoal(ctx context.Context, userID string, in GoalInput) (*model.Goal, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	target, err := s.targetAmount(ctx, userID, in)
	if err != nil {
		return nil, err
	}

	goal := model.Goal{
		UserID:        userID,
		CurrentAmount: decimal.Zero,
		TargetAmount:  target,
		Status:        model.GoalActive,
	}
	in.apply(&goal)

	if err := s.repo.SaveGoal(ctx, &goal); err != nil {
		return nil, err
	}
	s.log.WithField("user_id", userID).WithField("goal_id", goal.ID).Info("Goal.Created")
	return &goal, nil
}

// UpdateGoal редактирует цель; завершенная цель с увеличенной суммой снова становится активной
func (s *FinanceService) UpdateGoal(ctx context.Context, userID, goalID string, in GoalInput) (*model.Goal, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	goal, err := s.getGoal(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}
	target, err := s.targetAmount(ctx, userID, in)
	if err != nil {
		return nil, err
	}

	in.apply(goal)
	updated := metrics.ApplyTargetChange(*goal, target)
	if err := s.repo.SaveGoal(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Contribute добавляет взнос в цель и сохраняет запись о нем
func (s *FinanceService) Contribute(ctx context.Context, userID, goalID string, amount decimal.Decimal) (*model.Goal, error) {
	goal, err := s.getGoal(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	updated, err := metrics.ApplyContribution(*goal, amount, now)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SaveGoal(ctx, &updated); err != nil {
		return nil, err
	}

	contribution := &model.GoalContribution{
		ID:     uuid.New().String(),
		GoalID: updated.ID,
		Amount: amount,
		Date:   model.DateOf(now),
	}
	entry := s.log.WithField("user_id", userID).WithField("goal_id", goalID).WithField("amount", amount.String())
	// баланс цели уже сохранен; потеря записи истории не отменяет взнос
	if err := s.repo.CreateContribution(ctx, contribution); err != nil {
		entry.WithError(err).Warn("Goal.ContributionNotRecorded")
	}
	if updated.Status == model.GoalCompleted && goal.Status != model.GoalCompleted {
		entry.Info("Goal.Completed")
	} else {
		entry.Info("Goal.Contribution")
	}
	return &updated, nil
}

// GoalOverview страница целей
type GoalOverview struct {
	Currency string     `json:"currency"`
	Goals    []GoalLine `json:"goals"`
	Degraded []string   `json:"degraded,omitempty"`
}

// GoalPlans все цели пользователя с прогрессом и планом взносов
func (s *FinanceService) GoalPlans(ctx context.Context, userID string) (*GoalOverview, error) {
	goals, err := s.repo.GetGoals(ctx, userID, "")
	if err != nil {
		return nil, err
	}

	l := s.newLoader("goals", userID)
	profile, err := fetchOne(ctx, l, "profile", func(ctx context.Context) (*model.Profile, error) {
		return s.repo.GetProfile(ctx, userID)
	})
	if err != nil {
		return nil, err
	}

	return &GoalOverview{
		Currency: s.currencyOf(profile),
		Goals:    goalLines(goals, s.today()),
		Degraded: l.Degraded(),
	}, nil
}

func (s *FinanceService) DeleteGoal(ctx context.Context, userID, goalID string) error {
	return s.repo.DeleteGoal(ctx, goalID, userID)
}

func (s *FinanceService) getGoal(ctx context.Context, userID, goalID string) (*model.Goal, error) {
	goal, err := s.repo.GetGoal(ctx, goalID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}
	return goal, nil
}
