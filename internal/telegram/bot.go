package telegram

import (
	"context"
	"fmt"
	"log"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"ac-advisor/internal/dialogue"
	"ac-advisor/internal/session"
	"ac-advisor/internal/storage"
	"ac-advisor/internal/theory"
	"ac-advisor/internal/users"
)

const (
	newCalculationCmd = "new_calculation"
	mainMenuCmd       = "main_menu"
	theoryPrefix      = "theory"

	calcButton   = "🔍 Подобрать кондиционер"
	theoryButton = "📖 Теория кондиционеров"
	helpButton   = "ℹ️ Помощь"
)

// Deps are the collaborators of the bot. Guide, Users and Stats are optional.
type Deps struct {
	Sessions    *session.Registry
	Engine      dialogue.Recommender
	Auditor     dialogue.Auditor
	Guide       *theory.Guide
	Users       *users.Service
	Stats       storage.Loader
	AdminUserID int64
	ParseMode   string
}

type Bot struct {
	api         *tgbotapi.BotAPI
	s           sender
	dialogue    *dialogue.Machine
	sessions    *session.Registry
	guide       *theory.Guide
	users       *users.Service
	stats       storage.Loader
	adminUserID int64
	parseMode   string
	dispatch    *dispatcher
	now         func() time.Time
}

func New(botToken string, deps Deps) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, err
	}
	b := newBot(botAPISender{api: api}, deps)
	b.api = api
	log.Printf("🤖 Authorized on account @%s", api.Self.UserName)
	return b, nil
}

func newBot(s sender, deps Deps) *Bot {
	sessions := deps.Sessions
	if sessions == nil {
		sessions = session.NewRegistry()
	}
	guide := deps.Guide
	if guide == nil {
		guide = theory.New(nil)
	}
	b := &Bot{
		s:           s,
		sessions:    sessions,
		guide:       guide,
		users:       deps.Users,
		stats:       deps.Stats,
		adminUserID: deps.AdminUserID,
		parseMode:   deps.ParseMode,
		dispatch:    newDispatcher(),
		now:         time.Now,
	}
	b.dialogue = dialogue.NewMachine(sessions, deps.Engine, b, deps.Auditor)
	return b
}

// Dialogue exposes the state machine, e.g. for scheduled session expiry.
func (b *Bot) Dialogue() *dialogue.Machine { return b.dialogue }

// Sessions is the registry of dialogue sessions in progress.
func (b *Bot) Sessions() *session.Registry { return b.sessions }

// Start polls Telegram until ctx is cancelled, then waits for queued work.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.dispatch.Wait()

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.HandleUpdate(ctx, update)
		}
	}
}

// HandleUpdate queues the update on its user's lane.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil && update.Message.From != nil:
		msg := update.Message
		b.dispatch.Submit(msg.From.ID, func() { b.handleIncomingMessage(ctx, msg) })
	case update.CallbackQuery != nil && update.CallbackQuery.From != nil:
		cb := update.CallbackQuery
		b.dispatch.Submit(cb.From.ID, func() { b.handleCallback(ctx, cb) })
	}
}

// ExpireIdle queues the expiry of every session idle longer than maxIdle on
// its user's lane, behind any update already queued for that user. It
// returns the number of sessions queued; the job skips a session that was
// replaced or answered in the meantime.
func (b *Bot) ExpireIdle(ctx context.Context, maxIdle time.Duration) int {
	idle := b.dialogue.IdleSessions(maxIdle)
	for _, s := range idle {
		s := s
		b.dispatch.Submit(s.UserID, func() {
			if b.dialogue.ExpireSession(ctx, s) {
				log.Printf("⌛ Session of user %d expired", s.UserID)
			}
		})
	}
	return len(idle)
}

// Prompt implements dialogue.Presenter. In private chats the chat id equals
// the user id. Dialogue texts are always Telegram Markdown.
func (b *Bot) Prompt(_ context.Context, userID int64, text string, options ...dialogue.Option) error {
	msg := tgbotapi.NewMessage(userID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if kb, ok := optionsKeyboard(options); ok {
		msg.ReplyMarkup = kb
	}
	if _, err := b.s.Send(msg); err != nil {
		return fmt.Errorf("send to %d: %w", userID, err)
	}
	return nil
}

func optionsKeyboard(options []dialogue.Option) (tgbotapi.InlineKeyboardMarkup, bool) {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, o := range options {
		switch o {
		case dialogue.OptionNewCalculation:
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("🔄 Новый расчет", newCalculationCmd),
			))
		}
	}
	if len(rows) == 0 {
		return tgbotapi.InlineKeyboardMarkup{}, false
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...), true
}

func (b *Bot) mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(calcButton)),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(theoryButton),
			tgbotapi.NewKeyboardButton(helpButton),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func (b *Bot) parseModeValue() string {
	switch b.parseMode {
	case tgbotapi.ModeHTML, tgbotapi.ModeMarkdown, tgbotapi.ModeMarkdownV2:
		return b.parseMode
	case "":
		return tgbotapi.ModeMarkdown
	}
	return ""
}

func (b *Bot) escapeIfNeeded(s string) string {
	mode := b.parseModeValue()
	if mode == "" {
		return s
	}
	return tgbotapi.EscapeText(mode, s)
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = b.parseModeValue()
	if _, err := b.s.Send(msg); err != nil {
		log.Printf("failed to send message: %v", err)
	}
}

func (b *Bot) sendMainMenu(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = b.parseModeValue()
	msg.ReplyMarkup = b.mainMenuKeyboard()
	if _, err := b.s.Send(msg); err != nil {
		log.Printf("failed to send main menu: %v", err)
	}
}
