package model

import "time"

type CategoryType string

const (
	CategoryIncome  CategoryType = "income"
	CategoryExpense CategoryType = "expense"
	CategoryBoth    CategoryType = "both"
)

// Category пользовательская или системная (UserID == nil) категория
type Category struct {
	ID        string       `json:"id,omitempty"`
	UserID    *string      `json:"user_id"`
	Name      string       `json:"name"`
	Type      CategoryType `json:"type"`
	Color     string       `json:"color"`
	IsSystem  bool         `json:"is_system"`
	CreatedAt time.Time    `json:"created_at,omitempty"`
}

// Shared сообщает, что категория общая для всех пользователей
func (c Category) Shared() bool {
	return c.UserID == nil || c.IsSystem
}

// Accepts проверяет, подходит ли категория для транзакции данного типа
func (c Category) Accepts(t TransactionType) bool {
	switch c.Type {
	case CategoryBoth:
		return true
	case CategoryIncome:
		return t == TransactionIncome
	case CategoryExpense:
		return t == TransactionExpense
	}
	return false
}
