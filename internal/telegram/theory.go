package telegram

import (
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const theoryEmptyText = "📖 Справочник пока пуст"

// showTheoryMenu sends the list of sections, or edits messageID in place when
// it is not zero. Guide content is plain text and is escaped for the parse mode.
func (b *Bot) showTheoryMenu(chatID int64, messageID int) {
	sections := b.guide.Sections()
	if len(sections) == 0 {
		b.sendMessage(chatID, theoryEmptyText)
		return
	}
	var text strings.Builder
	text.WriteString("📖 *Теория кондиционеров*\n\nВыберите раздел для изучения:\n\n")
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, s := range sections {
		if s.Blurb != "" {
			fmt.Fprintf(&text, "• *%s* - %s\n", b.escapeIfNeeded(s.Title), b.escapeIfNeeded(s.Blurb))
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(s.Title, theoryPrefix+":"+s.Key),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🔙 Назад в меню", mainMenuCmd),
	))
	b.showInline(chatID, messageID, text.String(), tgbotapi.NewInlineKeyboardMarkup(rows...))
}

func (b *Bot) showTheorySection(chatID int64, messageID int, sectionKey string) bool {
	s, ok := b.guide.Section(sectionKey)
	if !ok {
		return false
	}
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, t := range s.Topics {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("• "+t.Title, theoryPrefix+":"+s.Key+":"+t.Key),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🔙 Назад к разделам", theoryPrefix),
	))
	b.showInline(chatID, messageID, fmt.Sprintf("*%s*\n\nВыберите тему:", b.escapeIfNeeded(s.Title)), tgbotapi.NewInlineKeyboardMarkup(rows...))
	return true
}

func (b *Bot) showTheoryTopic(chatID int64, messageID int, sectionKey, topicKey string) bool {
	t, ok := b.guide.Topic(sectionKey, topicKey)
	if !ok {
		return false
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🔙 Назад к разделу", theoryPrefix+":"+sectionKey)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("📚 Все разделы", theoryPrefix)),
	)
	b.showInline(chatID, messageID, fmt.Sprintf("*%s*\n\n%s", b.escapeIfNeeded(t.Title), b.escapeIfNeeded(t.Text)), kb)
	return true
}

// handleTheoryCallback understands "theory", "theory:<section>" and
// "theory:<section>:<topic>".
func (b *Bot) handleTheoryCallback(cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		return
	}
	chatID, messageID := cb.Message.Chat.ID, cb.Message.MessageID
	parts := strings.Split(cb.Data, ":")
	found := true
	switch len(parts) {
	case 1:
		b.showTheoryMenu(chatID, messageID)
	case 2:
		found = b.showTheorySection(chatID, messageID, parts[1])
	case 3:
		found = b.showTheoryTopic(chatID, messageID, parts[1], parts[2])
	default:
		found = false
	}
	if !found {
		b.sendMessage(chatID, "Раздел не найден")
	}
}

func (b *Bot) showInline(chatID int64, messageID int, text string, kb tgbotapi.InlineKeyboardMarkup) {
	var c tgbotapi.Chattable
	if messageID != 0 {
		edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, kb)
		edit.ParseMode = b.parseModeValue()
		c = edit
	} else {
		msg := tgbotapi.NewMessage(chatID, text)
		msg.ParseMode = b.parseModeValue()
		msg.ReplyMarkup = kb
		c = msg
	}
	if _, err := b.s.Send(c); err != nil {
		log.Printf("failed to show theory: %v", err)
	}
}
