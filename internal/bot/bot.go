package bot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/ivanoskov/bc-money/internal/charts"
	"github.com/ivanoskov/bc-money/internal/model"
	"github.com/ivanoskov/bc-money/internal/service"
)

var ErrUnknownUser = errors.New("telegram user is not linked to an account")

// Finance операции сервиса, которые использует бот
type Finance interface {
	Dashboard(ctx context.Context, userID string) (*service.Dashboard, error)
	BudgetOverview(ctx context.Context, userID string) (*service.BudgetOverview, error)
	GoalPlans(ctx context.Context, userID string) (*service.GoalOverview, error)
	Contribute(ctx context.Context, userID, goalID string, amount decimal.Decimal) (*model.Goal, error)
	AddTransaction(ctx context.Context, userID string, transaction model.Transaction) (*model.Transaction, error)
	MonthlyReport(ctx context.Context, userID string, month model.Date) (*service.MonthlyReport, error)
}

// sender часть tgbotapi.BotAPI, через которую бот отвечает пользователю
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type Bot struct {
	api     sender
	finance Finance
	users   map[int64]string // ID Telegram -> ID пользователя приложения
	log     *logrus.Logger
	now     func() time.Time
}

// NewBot подключается к Telegram и создает бота
func NewBot(token string, finance Finance, users map[int64]string, log *logrus.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot api: %w", err)
	}
	return newBot(api, finance, users, log), nil
}

func newBot(api sender, finance Finance, users map[int64]string, log *logrus.Logger) *Bot {
	return &Bot{
		api:     api,
		finance: finance,
		users:   users,
		log:     log,
		now:     time.Now,
	}
}

// Start запускает бота в режиме long polling до отмены контекста
func (b *Bot) Start(ctx context.Context) error {
	api, ok := b.api.(*tgbotapi.BotAPI)
	if !ok {
		return errors.New("long polling requires a telegram api client")
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := api.GetUpdatesChan(u)
	defer api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if err := b.handleUpdate(ctx, update); err != nil {
				// Логируем ошибку, но продолжаем работу
				b.log.WithError(err).WithField("update_id", update.UpdateID).Error("Bot.Update")
			}
		}
	}
}

// HandleWebhook - точка входа для обработки входящих webhook-обновлений
func (b *Bot) HandleWebhook(ctx context.Context, body []byte) error {
	var update tgbotapi.Update
	if err := json.Unmarshal(body, &update); err != nil {
		return err
	}
	return b.handleUpdate(ctx, update)
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) error {
	switch {
	case update.Message != nil:
		return b.handleMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		return b.handleCallback(update.CallbackQuery)
	}
	return nil
}

// userID ищет пользователя приложения по отправителю сообщения
func (b *Bot) userID(from *tgbotapi.User) (string, error) {
	if from == nil {
		return "", ErrUnknownUser
	}
	id, ok := b.users[from.ID]
	if !ok {
		return "", ErrUnknownUser
	}
	return id, nil
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) error {
	command := message.Command()
	args := message.CommandArguments()
	if !message.IsCommand() {
		command = buttonCommands[message.Text]
		args = ""
	}

	if command == "start" || command == "" {
		return b.handleStart(message)
	}

	userID, err := b.userID(message.From)
	if err != nil {
		b.log.WithField("telegram_id", message.Chat.ID).Warn("Bot.UnknownUser")
		return b.reply(message.Chat.ID, "❌ Tu cuenta de Telegram no está vinculada a BC Money.")
	}

	entry := b.log.WithField("user_id", userID).WithField("command", command)
	var handleErr error
	switch command {
	case "dashboard":
		handleErr = b.handleDashboard(ctx, message.Chat.ID, userID)
	case "presupuestos":
		handleErr = b.handleBudgets(ctx, message.Chat.ID, userID)
	case "metas":
		handleErr = b.handleGoals(ctx, message.Chat.ID, userID)
	case "aportar":
		handleErr = b.handleContribute(ctx, message.Chat.ID, userID, args)
	case "gasto":
		handleErr = b.handleTransaction(ctx, message.Chat.ID, userID, model.TransactionExpense, args)
	case "ingreso":
		handleErr = b.handleTransaction(ctx, message.Chat.ID, userID, model.TransactionIncome, args)
	case "reporte":
		handleErr = b.handleReport(ctx, message.Chat.ID, userID, args)
	default:
		return b.reply(message.Chat.ID, helpText)
	}
	if handleErr != nil {
		entry.WithError(handleErr).Error("Bot.Command")
		return b.reply(message.Chat.ID, "❌ "+errorText(handleErr))
	}
	entry.Info("Bot.Command")
	return nil
}

func (b *Bot) handleStart(message *tgbotapi.Message) error {
	msg := tgbotapi.NewMessage(message.Chat.ID, "¡Bienvenido a BC Money! 💰\n\n"+helpText)
	msg.ReplyMarkup = mainKeyboard()
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) handleDashboard(ctx context.Context, chatID int64, userID string) error {
	d, err := b.finance.Dashboard(ctx, userID)
	if err != nil {
		return err
	}
	if err := b.reply(chatID, formatDashboard(d)); err != nil {
		return err
	}

	gen := charts.NewChartGenerator(d.Currency)
	pie, err := gen.GenerateCategoryPieChart(d.Categories)
	if err != nil {
		return err
	}
	if err := b.sendPhoto(chatID, "categorias.png", pie); err != nil {
		return err
	}
	trend, err := gen.GenerateWeeklyTrendChart(d.WeeklyTrend)
	if err != nil {
		return err
	}
	return b.sendPhoto(chatID, "tendencia.png", trend)
}

func (b *Bot) handleBudgets(ctx context.Context, chatID int64, userID string) error {
	overview, err := b.finance.BudgetOverview(ctx, userID)
	if err != nil {
		return err
	}
	if err := b.reply(chatID, formatBudgets(overview)); err != nil {
		return err
	}
	png, err := charts.NewChartGenerator(overview.Currency).GenerateBudgetChart(overview.Budgets)
	if err != nil {
		return err
	}
	return b.sendPhoto(chatID, "presupuestos.png", png)
}

func (b *Bot) handleGoals(ctx context.Context, chatID int64, userID string) error {
	overview, err := b.finance.GoalPlans(ctx, userID)
	if err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(chatID, formatGoals(overview))
	if keyboard, ok := goalsKeyboard(overview.Goals); ok {
		msg.ReplyMarkup = keyboard
	}
	_, err = b.api.Send(msg)
	return err
}

func (b *Bot) handleContribute(ctx context.Context, chatID int64, userID, args string) error {
	goalID, amount, err := parseContribution(args)
	if err != nil {
		return err
	}
	goal, err := b.finance.Contribute(ctx, userID, goalID, amount)
	if err != nil {
		return err
	}
	return b.reply(chatID, formatContribution(goal, amount))
}

func (b *Bot) handleTransaction(ctx context.Context, chatID int64, userID string, kind model.TransactionType, args string) error {
	amount, description, err := parseAmountAndDescription(args)
	if err != nil {
		return err
	}
	transaction := model.Transaction{Type: kind, Amount: amount}
	if description != "" {
		transaction.Description = &description
	}
	saved, err := b.finance.AddTransaction(ctx, userID, transaction)
	if err != nil {
		return err
	}
	return b.reply(chatID, formatSavedTransaction(saved))
}

func (b *Bot) handleReport(ctx context.Context, chatID int64, userID, args string) error {
	month, err := parseMonth(args, model.DateOf(b.now()))
	if err != nil {
		return err
	}
	report, err := b.finance.MonthlyReport(ctx, userID, month)
	if err != nil {
		return err
	}
	if err := b.reply(chatID, formatReport(report)); err != nil {
		return err
	}

	var csv bytes.Buffer
	if err := report.WriteCSV(&csv); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: report.FileName(), Bytes: csv.Bytes()})
	_, err = b.api.Send(doc)
	return err
}

func (b *Bot) handleCallback(callback *tgbotapi.CallbackQuery) error {
	if goalID, ok := goalFromCallback(callback.Data); ok && callback.Message != nil {
		text := fmt.Sprintf("Envía el monto del aporte:\n/aportar %s 50000", goalID)
		if err := b.reply(callback.Message.Chat.ID, text); err != nil {
			return err
		}
	}

	// Отвечаем на callback, чтобы убрать loading indicator
	_, err := b.api.Request(tgbotapi.NewCallback(callback.ID, ""))
	return err
}

func (b *Bot) reply(chatID int64, text string) error {
	_, err := b.api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

// sendPhoto отправляет график; пустой график (нет данных) пропускается
func (b *Bot) sendPhoto(chatID int64, name string, png []byte) error {
	if len(png) == 0 {
		return nil
	}
	_, err := b.api.Send(tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: name, Bytes: png}))
	return err
}
