package telegram

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"ac-advisor/internal/analytics"
	"ac-advisor/internal/users"
)

const (
	welcomeText = "👋 Привет! Я помогу подобрать кондиционер по площади помещения и расскажу, как они устроены.\n\n" +
		"Выберите действие в меню ниже."
	helpText = "ℹ️ *Что я умею*\n\n" +
		"• «🔍 Подобрать кондиционер» или /calc — подбор моделей по площади\n" +
		"• «📖 Теория кондиционеров» или /theory — справочник\n" +
		"• /cancel — отменить текущий подбор"
	unknownText       = "Не понял запрос 🤔 Выберите действие в меню 👇"
	nothingToCancel   = "Сейчас нечего отменять"
	adminOnlyText     = "Команда доступна только администратору"
	dateLayout        = "2006-01-02"
	statsUsageMessage = "Usage: /stats [YYYY-MM-DD]"
)

var errStatsUnavailable = errors.New("журнал подборов не настроен")

// handleIncomingMessage routes one user message. It runs on the user's lane.
func (b *Bot) handleIncomingMessage(ctx context.Context, msg *tgbotapi.Message) {
	b.touchUser(msg.From)

	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	switch strings.TrimSpace(msg.Text) {
	case calcButton:
		b.startCalculation(ctx, msg.From.ID)
		return
	case theoryButton:
		b.showTheoryMenu(msg.Chat.ID, 0)
		return
	case helpButton:
		b.sendMessage(msg.Chat.ID, helpText)
		return
	}

	handled, err := b.dialogue.HandleText(ctx, msg.From.ID, msg.Text)
	if err != nil {
		log.Printf("dialogue error for user %d: %v", msg.From.ID, err)
	}
	if !handled {
		b.sendMainMenu(msg.Chat.ID, unknownText)
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		b.sendMainMenu(msg.Chat.ID, welcomeText)
	case "help":
		b.sendMessage(msg.Chat.ID, helpText)
	case "calc":
		b.startCalculation(ctx, msg.From.ID)
	case "cancel":
		ok, err := b.dialogue.Cancel(ctx, msg.From.ID)
		if err != nil {
			log.Printf("failed to cancel dialogue of user %d: %v", msg.From.ID, err)
		}
		if !ok {
			b.sendMainMenu(msg.Chat.ID, nothingToCancel)
		}
	case "theory":
		b.showTheoryMenu(msg.Chat.ID, 0)
	case "stats":
		b.handleStatsCommand(ctx, msg)
	default:
		b.sendMainMenu(msg.Chat.ID, unknownText)
	}
}

func (b *Bot) startCalculation(ctx context.Context, userID int64) {
	if err := b.dialogue.Start(ctx, userID); err != nil {
		log.Printf("failed to start calculation for user %d: %v", userID, err)
	}
}

// handleCallback
func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if _, err := b.s.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		log.Printf("failed to answer callback: %v", err)
	}

	switch {
	case cb.Data == newCalculationCmd:
		if err := b.dialogue.Restart(ctx, cb.From.ID); err != nil {
			log.Printf("failed to restart calculation for user %d: %v", cb.From.ID, err)
		}
	case cb.Data == mainMenuCmd:
		if cb.Message != nil {
			b.sendMainMenu(cb.Message.Chat.ID, welcomeText)
		}
	case cb.Data == theoryPrefix || strings.HasPrefix(cb.Data, theoryPrefix+":"):
		b.handleTheoryCallback(cb)
	default:
		log.Printf("unknown callback %q from user %d", cb.Data, cb.From.ID)
	}
}

func (b *Bot) touchUser(from *tgbotapi.User) {
	if b.users == nil || from == nil {
		return
	}
	u := users.User{ID: from.ID, Username: from.UserName, FirstName: from.FirstName, LastName: from.LastName}
	if err := b.users.Touch(u, b.now().UTC()); err != nil {
		log.Printf("failed to update user activity for %d: %v", from.ID, err)
	}
}

// handleStatsCommand sends the daily calculation report to the admin.
func (b *Bot) handleStatsCommand(ctx context.Context, msg *tgbotapi.Message) {
	if b.adminUserID == 0 || msg.From.ID != b.adminUserID {
		b.sendMessage(msg.Chat.ID, adminOnlyText)
		return
	}
	day := b.now().UTC()
	if arg := strings.TrimSpace(msg.CommandArguments()); arg != "" {
		d, err := time.Parse(dateLayout, arg)
		if err != nil {
			b.sendMessage(msg.Chat.ID, b.escapeIfNeeded(statsUsageMessage))
			return
		}
		day = d
	}
	report, err := b.DailyReport(ctx, day)
	if err != nil {
		b.sendMessage(msg.Chat.ID, b.escapeIfNeeded(fmt.Sprintf("Не удалось собрать статистику: %v", err)))
		return
	}
	b.sendMessage(msg.Chat.ID, b.escapeIfNeeded(report))
}

// DailyReport renders calculation statistics of the given UTC day together
// with user counts.
func (b *Bot) DailyReport(ctx context.Context, day time.Time) (string, error) {
	if b.stats == nil {
		return "", errStatsUnavailable
	}
	calcs, err := b.stats.LoadCalculations(ctx)
	if err != nil {
		return "", fmt.Errorf("load calculations: %w", err)
	}
	report := analytics.AnalyzeDaily(calcs, day).Summary()
	if b.users != nil {
		report += fmt.Sprintf("\n👥 Пользователей всего: %d", b.users.Count())
		// only the last activity is kept, so a day count is exact for today only
		start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
		if now := b.now().UTC(); !now.Before(start) && now.Before(start.AddDate(0, 0, 1)) {
			report += fmt.Sprintf(", активных за день: %d", b.users.ActiveSince(start))
		}
		report += "\n"
	}
	report += fmt.Sprintf("🗂 Активных подборов сейчас: %d\n", b.sessions.Len())
	return report, nil
}

// SendDailyReport pushes the report to the admin; used by the scheduler.
func (b *Bot) SendDailyReport(ctx context.Context) error {
	if b.adminUserID == 0 {
		return nil
	}
	report, err := b.DailyReport(ctx, b.now().UTC())
	if err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(b.adminUserID, b.escapeIfNeeded(report))
	msg.ParseMode = b.parseModeValue()
	_, err = b.s.Send(msg)
	return err
}
