package bot

import (
	"fmt"
	"strings"

	"github.com/Fi44er/usdt_topup/internal/models"
	"github.com/Fi44er/usdt_topup/internal/service"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const timeLayout = "02.01.2006 15:04"

var statusLabels = map[string]string{
	string(models.DepositPending):    "⏳ ожидает проверки",
	string(models.DepositConfirmed):  "✅ зачислено",
	string(models.PaymentSubmitted):  "🕓 создана",
	string(models.PaymentProcessing): "⚙️ в работе",
	string(models.PaymentPaid):       "✅ оплачена",
	string(models.PaymentCancelled):  "🚫 отменена",
	// shared by deposits and requests
	string(models.PaymentRejected): "❌ отклонена",
}

func statusLabel(status string) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return status
}

func menuNotificationsLabel(unread int64) string {
	return fmt.Sprintf("%s (%d)", btnNotifications, unread)
}

func formatDashboard(d *service.Dashboard) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "💰 *Баланс*\n\n")
	fmt.Fprintf(&sb, "Доступно: `%s` USDT (~`%s` ₽)\n", d.User.AvailableBalance, d.AvailableRub.StringFixed(2))
	fmt.Fprintf(&sb, "Заморожено: `%s` USDT\n", d.User.FrozenBalance)
	fmt.Fprintf(&sb, "Курс: `%s` ₽ за 1 USDT", d.Rate.StringFixed(2))
	if d.UnreadCount > 0 {
		fmt.Fprintf(&sb, "\n\n🔔 Непрочитанных уведомлений: %d", d.UnreadCount)
	}
	return sb.String()
}

func formatPaymentRequest(r *models.PaymentRequest) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🧾 *Заявка на оплату*\n\n")
	fmt.Fprintf(&sb, "Сумма: `%s` ₽\n", r.AmountRub.StringFixed(2))
	fmt.Fprintf(&sb, "Списание: `%s` USDT по курсу `%s`\n", r.AmountUsdt, r.FrozenRate.StringFixed(2))
	if r.Urgency == models.UrgencyUrgent {
		sb.WriteString("Срочная")
		if r.HasUrgentFee == 1 {
			sb.WriteString(", с комиссией")
		}
		sb.WriteString("\n")
	}
	if r.Comment != nil {
		fmt.Fprintf(&sb, "Комментарий: %s\n", tgbotapi.EscapeText(tgbotapi.ModeMarkdown, *r.Comment))
	}
	fmt.Fprintf(&sb, "Статус: %s", statusLabel(string(r.Status)))
	return sb.String()
}

func formatNotification(n *models.Notification) string {
	mark := "🔵"
	if n.IsRead == 1 {
		mark = "⚪️"
	}
	return fmt.Sprintf("%s %s\n_%s_", mark, tgbotapi.EscapeText(tgbotapi.ModeMarkdown, n.Message), n.CreatedAt.Format(timeLayout))
}

func formatHistory(entries []service.HistoryEntry, limit int) string {
	if len(entries) == 0 {
		return "История пуста."
	}

	var sb strings.Builder
	sb.WriteString("📜 *История операций*\n")
	for i, e := range entries {
		if i == limit {
			fmt.Fprintf(&sb, "\n…и ещё %d", len(entries)-limit)
			break
		}
		sb.WriteString("\n")
		switch e.Kind {
		case service.HistoryDeposit:
			fmt.Fprintf(&sb, "➕ Пополнение `%s` USDT", e.AmountUsdt)
		case service.HistoryPayment:
			fmt.Fprintf(&sb, "💳 Оплата `%s` ₽ (`%s` USDT)", e.AmountRub.StringFixed(2), e.AmountUsdt)
		}
		fmt.Fprintf(&sb, ", %s, %s", statusLabel(e.Status), e.CreatedAt.Format(timeLayout))
	}
	return sb.String()
}
