package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"

	"github.com/ivanoskov/bc-money/internal/model"
)

const (
	tableProfiles      = "profiles"
	tableCategories    = "categories"
	tableTransactions  = "transactions"
	tableBudgets       = "budgets"
	tableGoals         = "goals"
	tableContributions = "goal_contributions"
)

type SupabaseRepository struct {
	client *supabase.Client
}

func NewSupabaseRepository(url, key string) (*SupabaseRepository, error) {
	client, err := supabase.NewClient(url, key, &supabase.ClientOptions{})
	if err != nil {
		return nil, err
	}

	return &SupabaseRepository{
		client: client,
	}, nil
}

// execute выполняет запрос и разбирает ответ в out.
// Клиент postgrest не принимает context, поэтому ctx проверяется только перед вызовом.
func execute(ctx context.Context, query *postgrest.FilterBuilder, out interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, _, err := query.Execute()
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}

func (r *SupabaseRepository) GetProfile(ctx context.Context, userID string) (*model.Profile, error) {
	var profiles []model.Profile
	query := r.client.From(tableProfiles).
		Select("*", "", false).
		Eq("id", userID)
	if err := execute(ctx, query, &profiles); err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if len(profiles) == 0 {
		return nil, ErrNotFound
	}
	return &profiles[0], nil
}

func (r *SupabaseRepository) GetCategories(ctx context.Context, userID string) ([]model.Category, error) {
	var categories []model.Category
	// Собственные категории пользователя и общие системные
	query := r.client.From(tableCategories).
		Select("*", "", false).
		Or(fmt.Sprintf("user_id.eq.%s,is_system.eq.true", userID), "").
		Order("name", &postgrest.OrderOpts{Ascending: true})
	if err := execute(ctx, query, &categories); err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	return categories, nil
}

func (r *SupabaseRepository) CreateCategory(ctx context.Context, category *model.Category) error {
	if category.IsSystem {
		return ErrSystemCategory
	}
	var created []model.Category
	query := r.client.From(tableCategories).Insert(category, false, "", "representation", "")
	if err := execute(ctx, query, &created); err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	if len(created) > 0 {
		category.ID = created[0].ID
		category.CreatedAt = created[0].CreatedAt
	}
	return nil
}

func (r *SupabaseRepository) DeleteCategory(ctx context.Context, id string, userID string) error {
	var deleted []model.Category
	// Системные категории не принадлежат пользователю и под фильтр не попадают
	query := r.client.From(tableCategories).
		Delete("representation", "").
		Eq("id", id).
		Eq("user_id", userID).
		Eq("is_system", "false")
	if err := execute(ctx, query, &deleted); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if len(deleted) == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SupabaseRepository) GetTransactions(ctx context.Context, userID string, filter model.TransactionFilter) ([]model.Transaction, error) {
	var transactions []model.Transaction
	query := r.client.From(tableTransactions).
		Select("*", "", false).
		Eq("user_id", userID)

	// Gte и Lte по одной колонке перезаписывают друг друга, поэтому границы идут через and
	var bounds []string
	if filter.StartDate != nil {
		bounds = append(bounds, "date.gte."+filter.StartDate.String())
	}
	if filter.EndDate != nil {
		bounds = append(bounds, "date.lte."+filter.EndDate.String())
	}
	if len(bounds) > 0 {
		query = query.And(strings.Join(bounds, ","), "")
	}
	if filter.Type != "" {
		query = query.Eq("type", string(filter.Type))
	}

	// Сначала новые
	query = query.Order("date", nil)

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit, "")
	}

	if err := execute(ctx, query, &transactions); err != nil {
		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}
	return transactions, nil
}

func (r *SupabaseRepository) CreateTransaction(ctx context.Context, transaction *model.Transaction) error {
	var created []model.Transaction
	query := r.client.From(tableTransactions).Insert(transaction, false, "", "representation", "")
	if err := execute(ctx, query, &created); err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	if len(created) > 0 {
		transaction.CreatedAt = created[0].CreatedAt
	}
	return nil
}

func (r *SupabaseRepository) DeleteTransaction(ctx context.Context, id string, userID string) error {
	query := r.client.From(tableTransactions).
		Delete("", "").
		Eq("id", id).
		Eq("user_id", userID)
	if err := execute(ctx, query, nil); err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return nil
}

func (r *SupabaseRepository) GetBudgets(ctx context.Context, userID string) ([]model.Budget, error) {
	var budgets []model.Budget
	query := r.client.From(tableBudgets).
		Select("*", "", false).
		Eq("user_id", userID)
	if err := execute(ctx, query, &budgets); err != nil {
		return nil, fmt.Errorf("failed to get budgets: %w", err)
	}
	return budgets, nil
}

func (r *SupabaseRepository) SaveBudget(ctx context.Context, budget *model.Budget) error {
	var saved []model.Budget
	var query *postgrest.FilterBuilder
	if budget.ID == "" {
		query = r.client.From(tableBudgets).Insert(budget, false, "", "representation", "")
	} else {
		query = r.client.From(tableBudgets).
			Update(budget, "representation", "").
			Eq("id", budget.ID).
			Eq("user_id", budget.UserID)
	}
	if err := execute(ctx, query, &saved); err != nil {
		return fmt.Errorf("failed to save budget: %w", err)
	}
	if len(saved) > 0 {
		budget.ID = saved[0].ID
	}
	return nil
}

func (r *SupabaseRepository) DeleteBudget(ctx context.Context, id string, userID string) error {
	query := r.client.From(tableBudgets).
		Delete("", "").
		Eq("id", id).
		Eq("user_id", userID)
	if err := execute(ctx, query, nil); err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	return nil
}

func (r *SupabaseRepository) GetGoals(ctx context.Context, userID string, status model.GoalStatus) ([]model.Goal, error) {
	var goals []model.Goal
	query := r.client.From(tableGoals).
		Select("*", "", false).
		Eq("user_id", userID)
	if status != "" {
		query = query.Eq("status", string(status))
	}
	query = query.Order("priority", &postgrest.OrderOpts{Ascending: true})
	if err := execute(ctx, query, &goals); err != nil {
		return nil, fmt.Errorf("failed to get goals: %w", err)
	}
	return goals, nil
}

func (r *SupabaseRepository) GetGoal(ctx context.Context, id string, userID string) (*model.Goal, error) {
	var goals []model.Goal
	query := r.client.From(tableGoals).
		Select("*", "", false).
		Eq("id", id).
		Eq("user_id", userID)
	if err := execute(ctx, query, &goals); err != nil {
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}
	if len(goals) == 0 {
		return nil, ErrNotFound
	}
	return &goals[0], nil
}

func (r *SupabaseRepository) SaveGoal(ctx context.Context, goal *model.Goal) error {
	var saved []model.Goal
	var query *postgrest.FilterBuilder
	if goal.ID == "" {
		query = r.client.From(tableGoals).Insert(goal, false, "", "representation", "")
	} else {
		query = r.client.From(tableGoals).
			Update(goal, "representation", "").
			Eq("id", goal.ID).
			Eq("user_id", goal.UserID)
	}
	if err := execute(ctx, query, &saved); err != nil {
		return fmt.Errorf("failed to save goal: %w", err)
	}
	if len(saved) > 0 {
		goal.ID = saved[0].ID
	}
	return nil
}

func (r *SupabaseRepository) DeleteGoal(ctx context.Context, id string, userID string) error {
	query := r.client.From(tableGoals).
		Delete("", "").
		Eq("id", id).
		Eq("user_id", userID)
	if err := execute(ctx, query, nil); err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	return nil
}

func (r *SupabaseRepository) CreateContribution(ctx context.Context, contribution *model.GoalContribution) error {
	query := r.client.From(tableContributions).Insert(contribution, false, "", "", "")
	if err := execute(ctx, query, nil); err != nil {
		return fmt.Errorf("failed to create contribution: %w", err)
	}
	return nil
}
