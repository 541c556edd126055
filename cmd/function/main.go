package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ivanoskov/bc-money/internal/bot"
	"github.com/ivanoskov/bc-money/internal/config"
	"github.com/ivanoskov/bc-money/internal/logging"
	"github.com/ivanoskov/bc-money/internal/model"
	"github.com/ivanoskov/bc-money/internal/repository"
	"github.com/ivanoskov/bc-money/internal/service"
)

// Request структура входящего запроса от API Gateway
type Request struct {
	Body string `json:"body"`
}

// Response структура ответа для API Gateway
type Response struct {
	StatusCode int               `json:"statusCode"`
	Body       string            `json:"body"`
	Headers    map[string]string `json:"headers,omitempty"`
}

// viewRequest запрос на представление данных пользователя
type viewRequest struct {
	UserID string `json:"user_id"`
	View   string `json:"view"`
	Month  string `json:"month,omitempty"`
}

var errBadRequest = errors.New("bad request")

var timeNow = time.Now

// Handler обрабатывает webhook Telegram (тело с update_id) или запрос представления
func Handler(ctx context.Context, request Request) (*Response, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return errorResponse(http.StatusInternalServerError, err)
	}
	log := logging.SetupLogging(cfg.LogLevel)

	repo, err := repository.NewSupabaseRepository(cfg.SupabaseURL, cfg.SupabaseKey)
	if err != nil {
		return errorResponse(http.StatusInternalServerError, err)
	}

	finance := service.NewFinanceService(repo, log,
		service.WithFetchTimeout(cfg.FetchTimeout),
		service.WithTopCategories(cfg.TopCategories),
		service.WithCurrency(cfg.Currency),
	)

	if isTelegramUpdate(request.Body) {
		b, err := bot.NewBot(cfg.TelegramToken, finance, cfg.TelegramUsers, log)
		if err != nil {
			return errorResponse(http.StatusInternalServerError, err)
		}
		if err := b.HandleWebhook(ctx, []byte(request.Body)); err != nil {
			return errorResponse(http.StatusInternalServerError, err)
		}
		return jsonResponse(map[string]bool{"ok": true})
	}

	var req viewRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return errorResponse(http.StatusBadRequest, fmt.Errorf("%w: %v", errBadRequest, err))
	}
	view, err := renderView(ctx, finance, req)
	if errors.Is(err, errBadRequest) {
		return errorResponse(http.StatusBadRequest, err)
	}
	if err != nil {
		log.WithError(err).WithField("view", req.View).Error("Function.View")
		return errorResponse(http.StatusInternalServerError, err)
	}
	return jsonResponse(view)
}

// views операции сервиса, доступные через функцию
type views interface {
	Dashboard(ctx context.Context, userID string) (*service.Dashboard, error)
	BudgetOverview(ctx context.Context, userID string) (*service.BudgetOverview, error)
	GoalPlans(ctx context.Context, userID string) (*service.GoalOverview, error)
	MonthlyReport(ctx context.Context, userID string, month model.Date) (*service.MonthlyReport, error)
	AdvisorContext(ctx context.Context, userID string) (*service.AdvisorContext, error)
}

func renderView(ctx context.Context, finance views, req viewRequest) (interface{}, error) {
	if req.UserID == "" {
		return nil, fmt.Errorf("%w: user_id is required", errBadRequest)
	}
	switch req.View {
	case "dashboard", "":
		return finance.Dashboard(ctx, req.UserID)
	case "budgets":
		return finance.BudgetOverview(ctx, req.UserID)
	case "goals":
		return finance.GoalPlans(ctx, req.UserID)
	case "advisor":
		return finance.AdvisorContext(ctx, req.UserID)
	case "report":
		month := model.DateOf(timeNow())
		if req.Month != "" {
			parsed, err := model.ParseDate(req.Month + "-01")
			if err != nil {
				return nil, fmt.Errorf("%w: month must be yyyy-mm", errBadRequest)
			}
			month = parsed
		}
		return finance.MonthlyReport(ctx, req.UserID, month)
	default:
		return nil, fmt.Errorf("%w: unknown view %q", errBadRequest, req.View)
	}
}

func isTelegramUpdate(body string) bool {
	var probe struct {
		UpdateID *int `json:"update_id"`
	}
	return json.Unmarshal([]byte(body), &probe) == nil && probe.UpdateID != nil
}

func jsonResponse(v interface{}) (*Response, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return errorResponse(http.StatusInternalServerError, err)
	}
	return &Response{
		StatusCode: http.StatusOK,
		Body:       string(body),
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	}, nil
}

func errorResponse(status int, err error) (*Response, error) {
	body, _ := json.Marshal(map[string]string{"error": err.Error()})
	return &Response{
		StatusCode: status,
		Body:       string(body),
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	}, nil
}

func main() {
	// Точка входа для локального тестирования
}
