package model

import "github.com/shopspring/decimal"

type IncomeType string

const (
	IncomeHourly   IncomeType = "hourly"
	IncomeFixed    IncomeType = "fixed"
	IncomeVariable IncomeType = "variable"
)

// Profile настройки дохода пользователя; незаполненные поля допустимы на любом шаге онбординга
type Profile struct {
	ID                  string              `json:"id"`
	Email               string              `json:"email"`
	FullName            *string             `json:"full_name"`
	Currency            string              `json:"currency"`
	IncomeType          IncomeType          `json:"income_type"`
	HourlyRate          decimal.NullDecimal `json:"hourly_rate"`
	HoursPerWeek        decimal.NullDecimal `json:"hours_per_week"`
	FixedSalary         decimal.NullDecimal `json:"fixed_salary"`
	NetIncomePercentage decimal.NullDecimal `json:"net_income_percentage"`
	RiskTolerance       string              `json:"risk_tolerance,omitempty"`
	InvestmentHorizon   string              `json:"investment_horizon,omitempty"`
	LifeSituation       string              `json:"life_situation,omitempty"`
	OnboardingCompleted bool                `json:"onboarding_completed"`
}
