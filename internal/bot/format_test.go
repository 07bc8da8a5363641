package bot

import (
	"strings"
	"testing"
	"time"

	"github.com/Fi44er/usdt_topup/internal/models"
	"github.com/Fi44er/usdt_topup/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatDashboard(t *testing.T) {
	text := formatDashboard(&service.Dashboard{
		User: &models.User{
			AvailableBalance: decimal.RequireFromString("12.5"),
			FrozenBalance:    decimal.RequireFromString("2"),
		},
		Rate:         decimal.RequireFromString("95.1"),
		AvailableRub: decimal.RequireFromString("1188.75"),
		UnreadCount:  3,
	})

	assert.Contains(t, text, "`12.5` USDT")
	assert.Contains(t, text, "`1188.75` ₽")
	assert.Contains(t, text, "`95.10` ₽")
	assert.Contains(t, text, "Непрочитанных уведомлений: 3")
}

func TestFormatPaymentRequestEscapesComment(t *testing.T) {
	comment := "card *4276_01*"
	text := formatPaymentRequest(&models.PaymentRequest{
		AmountRub:  decimal.RequireFromString("1000"),
		AmountUsdt: decimal.RequireFromString("10.2"),
		FrozenRate: decimal.RequireFromString("100"),
		Urgency:    models.UrgencyUrgent,
		Comment:    &comment,
		Status:     models.PaymentSubmitted,
	})

	assert.Contains(t, text, "`1000.00` ₽")
	assert.Contains(t, text, "Срочная")
	assert.Contains(t, text, `card \*4276\_01\*`)
	assert.Contains(t, text, statusLabel(string(models.PaymentSubmitted)))
}

func TestFormatPaymentRequestUrgency(t *testing.T) {
	base := models.PaymentRequest{
		AmountRub:  decimal.RequireFromString("1000"),
		AmountUsdt: decimal.RequireFromString("10"),
		FrozenRate: decimal.RequireFromString("100"),
		Status:     models.PaymentSubmitted,
	}

	standard := base
	standard.Urgency = models.UrgencyStandard
	assert.NotContains(t, formatPaymentRequest(&standard), "Срочная")

	noFee := base
	noFee.Urgency = models.UrgencyUrgent
	text := formatPaymentRequest(&noFee)
	assert.Contains(t, text, "Срочная\n")
	assert.NotContains(t, text, "комиссией")

	withFee := base
	withFee.Urgency = models.UrgencyUrgent
	withFee.HasUrgentFee = 1
	assert.Contains(t, formatPaymentRequest(&withFee), "Срочная, с комиссией\n")
}

func TestFormatHistoryLimitsEntries(t *testing.T) {
	rub := decimal.RequireFromString("500")
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	entries := []service.HistoryEntry{
		{Kind: service.HistoryPayment, Status: "paid", AmountUsdt: decimal.NewFromInt(5), AmountRub: &rub, CreatedAt: now},
		{Kind: service.HistoryDeposit, Status: "pending", AmountUsdt: decimal.NewFromInt(50), CreatedAt: now},
		{Kind: service.HistoryDeposit, Status: "confirmed", AmountUsdt: decimal.NewFromInt(10), CreatedAt: now},
	}

	text := formatHistory(entries, 2)
	assert.Contains(t, text, "Оплата `500.00` ₽")
	assert.Contains(t, text, "Пополнение `50` USDT")
	assert.NotContains(t, text, "`10` USDT")
	assert.Contains(t, text, "ещё 1")
	assert.Equal(t, 2, strings.Count(text, now.Format(timeLayout)))

	assert.Equal(t, "История пуста.", formatHistory(nil, 10))
}

func TestMainMenuShowsUnreadCount(t *testing.T) {
	menu := GetMainMenu(4)
	last := menu.Keyboard[len(menu.Keyboard)-1][0].Text
	assert.Equal(t, btnNotifications+" (4)", last)
	assert.True(t, strings.HasPrefix(last, btnNotifications))

	assert.Equal(t, btnNotifications, GetMainMenu(0).Keyboard[2][0].Text)
}

func TestStatusLabelFallsBackToRaw(t *testing.T) {
	assert.Equal(t, "mystery", statusLabel("mystery"))
}
