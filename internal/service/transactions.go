package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ivanoskov/bc-money/internal/model"
)

var (
	ErrCategoryMismatch = errors.New("category does not accept this transaction type")
	ErrUnknownCategory  = errors.New("unknown category")
)

// AddTransaction сохраняет транзакцию пользователя; дата по умолчанию сегодняшняя
func (s *FinanceService) AddTransaction(ctx context.Context, userID string, transaction model.Transaction) (*model.Transaction, error) {
	transaction.UserID = userID
	if transaction.Date.IsZero() {
		transaction.Date = s.today()
	}
	if transaction.PaymentMethod == "" {
		transaction.PaymentMethod = model.PaymentCash
	}
	if err := transaction.Validate(); err != nil {
		return nil, err
	}

	if !transaction.Uncategorized() {
		categories, err := s.repo.GetCategories(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to get categories: %w", err)
		}
		category, ok := findCategory(categories, *transaction.CategoryID)
		if !ok {
			return nil, ErrUnknownCategory
		}
		if !category.Accepts(transaction.Type) {
			return nil, ErrCategoryMismatch
		}
	}

	transaction.CreatedAt = s.now()
	transaction.GenerateID()
	if err := s.repo.CreateTransaction(ctx, &transaction); err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (s *FinanceService) RecentTransactions(ctx context.Context, userID string, limit int) ([]model.Transaction, error) {
	return s.repo.GetTransactions(ctx, userID, model.TransactionFilter{Limit: limit})
}

func (s *FinanceService) DeleteTransaction(ctx context.Context, userID, transactionID string) error {
	return s.repo.DeleteTransaction(ctx, transactionID, userID)
}

func (s *FinanceService) Categories(ctx context.Context, userID string) ([]model.Category, error) {
	return s.repo.GetCategories(ctx, userID)
}

// CreateCategory создает пользовательскую категорию
func (s *FinanceService) CreateCategory(ctx context.Context, userID string, category model.Category) (*model.Category, error) {
	category.Name = strings.TrimSpace(category.Name)
	if category.Name == "" {
		return nil, errors.New("category name is required")
	}
	switch category.Type {
	case model.CategoryIncome, model.CategoryExpense, model.CategoryBoth:
	default:
		return nil, fmt.Errorf("unknown category type %q", category.Type)
	}
	category.UserID = &userID
	category.IsSystem = false
	category.CreatedAt = s.now()
	if err := s.repo.CreateCategory(ctx, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *FinanceService) DeleteCategory(ctx context.Context, userID, categoryID string) error {
	return s.repo.DeleteCategory(ctx, categoryID, userID)
}

func findCategory(categories []model.Category, id string) (model.Category, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return model.Category{}, false
}
