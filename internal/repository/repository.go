package repository

import (
	"context"
	"errors"

	"github.com/ivanoskov/bc-money/internal/model"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrSystemCategory = errors.New("system categories cannot be modified")
)

// Repository доступ к данным пользователя в хранилище
type Repository interface {
	// Профиль
	GetProfile(ctx context.Context, userID string) (*model.Profile, error)

	// Категории
	GetCategories(ctx context.Context, userID string) ([]model.Category, error)
	CreateCategory(ctx context.Context, category *model.Category) error
	DeleteCategory(ctx context.Context, id string, userID string) error

	// Транзакции
	GetTransactions(ctx context.Context, userID string, filter model.TransactionFilter) ([]model.Transaction, error)
	CreateTransaction(ctx context.Context, transaction *model.Transaction) error
	DeleteTransaction(ctx context.Context, id string, userID string) error

	// Бюджеты
	GetBudgets(ctx context.Context, userID string) ([]model.Budget, error)
	SaveBudget(ctx context.Context, budget *model.Budget) error
	DeleteBudget(ctx context.Context, id string, userID string) error

	// Цели
	GetGoals(ctx context.Context, userID string, status model.GoalStatus) ([]model.Goal, error)
	GetGoal(ctx context.Context, id string, userID string) (*model.Goal, error)
	SaveGoal(ctx context.Context, goal *model.Goal) error
	DeleteGoal(ctx context.Context, id string, userID string) error
	CreateContribution(ctx context.Context, contribution *model.GoalContribution) error
}
