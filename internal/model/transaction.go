package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionIncome   TransactionType = "income"
	TransactionExpense  TransactionType = "expense"
	TransactionTransfer TransactionType = "transfer"
)

type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentDebit    PaymentMethod = "debit"
	PaymentCredit   PaymentMethod = "credit"
	PaymentTransfer PaymentMethod = "transfer"
	PaymentOther    PaymentMethod = "other"
)

var ErrNegativeAmount = errors.New("amount must not be negative")

// Transaction хранит сумму без знака, направление определяется полем Type
type Transaction struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	Amount        decimal.Decimal `json:"amount"`
	Type          TransactionType `json:"type"`
	CategoryID    *string         `json:"category_id"`
	Description   *string         `json:"description"`
	Date          Date            `json:"date"`
	IsEssential   bool            `json:"is_essential"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	CreatedAt     time.Time       `json:"created_at,omitempty"`
}

// GenerateID генерирует новый UUID для транзакции, если он еще не установлен
func (t *Transaction) GenerateID() {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
}

// Validate проверяет инварианты транзакции перед записью
func (t Transaction) Validate() error {
	if t.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	switch t.Type {
	case TransactionIncome, TransactionExpense, TransactionTransfer:
	default:
		return fmt.Errorf("unknown transaction type %q", t.Type)
	}
	if t.Date.IsZero() {
		return errors.New("transaction date is required")
	}
	return nil
}

// Uncategorized сообщает, что у транзакции нет категории
func (t Transaction) Uncategorized() bool {
	return t.CategoryID == nil || *t.CategoryID == ""
}

// TransactionFilter ограничивает выборку транзакций
type TransactionFilter struct {
	StartDate *Date
	EndDate   *Date
	Type      TransactionType
	Limit     int
}
