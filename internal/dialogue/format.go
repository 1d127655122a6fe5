package dialogue

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"ac-advisor/internal/capacity"
	"ac-advisor/internal/catalog"
	"ac-advisor/internal/recommend"
)

const (
	promptText = "🔢 *Подбор кондиционера по площади*\n\n" +
		"Введите площадь помещения в квадратных метрах (например: 25)\n\n" +
		"📝 *Примечание:* Учитывайте:\n" +
		"• Высоту потолков (стандарт - 2.5-3 м)\n" +
		"• Количество окон и их ориентацию\n" +
		"• Наличие тепловыделяющей техники\n\n" +
		"Для отмены введите /cancel"
	restartPromptText = "🔄 *Новый расчет*\n\n" +
		"Введите площадь помещения в квадратных метрах (например: 25)"
	notANumberText = "❌ Пожалуйста, введите число (например: 25 или 25.5)"
	cancelledText  = "❌ Подбор отменен"
	expiredText    = "⌛ Подбор отменен: ответа не было слишком долго. Чтобы начать заново, нажмите «🔍 Подобрать кондиционер»"
)

func outOfRangeText() string {
	return fmt.Sprintf("❌ Пожалуйста, введите реальную площадь помещения (больше %s и не более %s м²)",
		formatNumber(recommend.MinArea), formatNumber(recommend.MaxArea))
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func yesNo(v bool) string {
	if v {
		return "✅"
	}
	return "❌"
}

func esc(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}

// FormatResult renders a calculation result as a Telegram Markdown message.
func FormatResult(res recommend.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📐 *Результаты подбора для %s м²*\n\n", esc(formatNumber(res.Area)))
	fmt.Fprintf(&b, "✅ Рекомендуемая мощность: *%d BTU*\n", res.Capacity)
	fmt.Fprintf(&b, "   (≈%.1f Вт охлаждения)\n\n", capacity.ToPower(res.Capacity))

	if res.MatchCount == 0 {
		b.WriteString("❌ *Подходящих моделей не найдено*\n\n")
		b.WriteString("Попробуйте:\n• Увеличить/уменьшить площадь\n• Обратиться к консультанту")
		return b.String()
	}

	fmt.Fprintf(&b, "✅ Найдено *%d* подходящих моделей:\n\n", res.MatchCount)
	for i, m := range res.Presented {
		writeModel(&b, i+1, m)
	}
	if more := res.More(); more > 0 {
		fmt.Fprintf(&b, "... и еще %d моделей\n\n", more)
	}
	b.WriteString("📝 *Рекомендации:*\n" +
		"• Для спальни выбирайте тихие модели (<25 дБ)\n" +
		"• Для часто меняющихся условий - инверторные\n" +
		"• Для умного дома - модели с Wi-Fi\n")
	return b.String()
}

func writeModel(b *strings.Builder, n int, m catalog.EquipmentRecord) {
	fmt.Fprintf(b, "*%d. %s %s*\n", n, esc(m.Brand), esc(m.Model))
	fmt.Fprintf(b, "   • Мощность: %d BTU (%s кВт)\n", m.BTU, formatNumber(m.CoolingPower))
	fmt.Fprintf(b, "   • Площадь: %s-%s м²\n", formatNumber(m.AreaMin), formatNumber(m.AreaMax))
	fmt.Fprintf(b, "   • Тип: %s\n", esc(m.Type))
	fmt.Fprintf(b, "   • Инвертор: %s\n", yesNo(m.Inverter))
	fmt.Fprintf(b, "   • Wi-Fi: %s\n", yesNo(m.WiFi))
	fmt.Fprintf(b, "   • Класс энергии: %s\n", esc(m.EnergyClass))
	fmt.Fprintf(b, "   • Ценовой диапазон: %s\n\n", m.PriceTier.Label())
}
