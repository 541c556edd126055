package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type GoalStatus string

const (
	GoalActive    GoalStatus = "active"
	GoalPaused    GoalStatus = "paused"
	GoalCompleted GoalStatus = "completed"
	GoalCancelled GoalStatus = "cancelled"
)

type TargetMode string

const (
	TargetAmount     TargetMode = "amount"
	TargetPercentage TargetMode = "percentage"
)

// Goal цель накоплений
type Goal struct {
	ID               string              `json:"id,omitempty"`
	UserID           string              `json:"user_id"`
	Name             string              `json:"name"`
	Description      *string             `json:"description"`
	Color            string              `json:"color,omitempty"`
	TargetAmount     decimal.Decimal     `json:"target_amount"`
	CurrentAmount    decimal.Decimal     `json:"current_amount"`
	TargetDate       *Date               `json:"target_date"`
	Priority         int                 `json:"priority"`
	GoalType         string              `json:"goal_type,omitempty"`
	Status           GoalStatus          `json:"status"`
	TargetMode       TargetMode          `json:"target_mode"`
	TargetPercentage decimal.NullDecimal `json:"target_percentage"`
	CompletedAt      *time.Time          `json:"completed_at"`
}

// GoalContribution запись об отдельном взносе в цель
type GoalContribution struct {
	ID     string          `json:"id,omitempty"`
	GoalID string          `json:"goal_id"`
	Amount decimal.Decimal `json:"amount"`
	Date   Date            `json:"date"`
}
