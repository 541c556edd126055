package bot

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ivanoskov/bc-money/internal/model"
	"github.com/ivanoskov/bc-money/internal/service"
)

const goalCallbackPrefix = "goal_"

// buttonCommands команды, которые отправляют кнопки главной клавиатуры
var buttonCommands = map[string]string{
	"📊 Resumen":      "dashboard",
	"💼 Presupuestos": "presupuestos",
	"🎯 Metas":        "metas",
	"📄 Reporte":      "reporte",
}

func mainKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("📊 Resumen"),
			tgbotapi.NewKeyboardButton("💼 Presupuestos"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("🎯 Metas"),
			tgbotapi.NewKeyboardButton("📄 Reporte"),
		),
	)
}

// goalsKeyboard кнопки взноса для активных целей
func goalsKeyboard(lines []service.GoalLine) (tgbotapi.InlineKeyboardMarkup, bool) {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, line := range lines {
		if line.Goal.Status != model.GoalActive {
			continue
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ "+line.Goal.Name, goalCallbackPrefix+line.Goal.ID),
		))
	}
	if len(rows) == 0 {
		return tgbotapi.InlineKeyboardMarkup{}, false
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...), true
}

func goalFromCallback(data string) (string, bool) {
	if !strings.HasPrefix(data, goalCallbackPrefix) {
		return "", false
	}
	id := strings.TrimPrefix(data, goalCallbackPrefix)
	return id, id != ""
}
