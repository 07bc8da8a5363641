package bot

import (
	"context"
	"errors"
	"fmt"

	"github.com/Fi44er/usdt_topup/internal/models"
	"github.com/Fi44er/usdt_topup/internal/service"
	"github.com/Fi44er/usdt_topup/utils"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const listLimit = 10

func (b *Bot) handlePay(ctx context.Context, chatID, userID int64, user *models.User) {
	if !user.AvailableBalance.IsPositive() {
		b.sendMenu(ctx, chatID, user, "❌ На балансе нет свободных средств. Сначала пополните баланс.")
		return
	}

	rate := b.service.CurrentRate(ctx)
	b.setState(userID, stateAwaitingPayAmount)
	b.sendMessage(chatID, fmt.Sprintf(
		"Доступно: `%s` USDT\nКурс: `%s` ₽ за 1 USDT\n\nВведите сумму к оплате в рублях:",
		user.AvailableBalance, rate.StringFixed(2),
	), cancelKeyboard())
}

func (b *Bot) handlePayAmount(ctx context.Context, chatID, userID int64, user *models.User, text string) {
	amount, err := utils.ParseAmount(text, utils.RubPlaces)
	if err != nil {
		b.sendMessage(chatID, "❌ Неверная сумма. Введите положительное число, например `5000`.", cancelKeyboard())
		return
	}

	b.setSessionAmount(userID, amount)
	b.setState(userID, stateAwaitingPayComment)
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnSkip)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnCancel)),
	)
	b.sendMessage(chatID, "Добавьте реквизиты или комментарий к оплате, либо нажмите «Пропустить»:", keyboard)
}

func (b *Bot) handlePayComment(ctx context.Context, chatID, userID int64, user *models.User, text string) {
	comment := text
	if text == btnSkip {
		comment = ""
	}

	amount := b.sessionAmount(userID)
	b.setState(userID, stateDefault)

	req, err := b.service.SubmitPaymentRequest(ctx, user.ID, service.PaymentRequestInput{
		AmountRub: amount,
		Urgency:   models.UrgencyStandard,
		Comment:   comment,
	})
	switch {
	case errors.Is(err, service.ErrInsufficientFunds):
		b.sendMenu(ctx, chatID, user, "❌ Недостаточно средств для этой суммы.")
		return
	case errors.Is(err, service.ErrInvalidAmount):
		b.sendMenu(ctx, chatID, user, "❌ Сумма слишком мала.")
		return
	case err != nil:
		b.logger.Errorf("Failed to submit payment request for %s: %v", user.ID, err)
		b.sendMenu(ctx, chatID, user, "Не удалось создать заявку. Попробуйте позже.")
		return
	}

	keyboard := tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("❌ Отменить заявку", callbackCancel+req.ID),
	))
	b.sendMessage(chatID, formatPaymentRequest(req), keyboard)
	b.sendMenu(ctx, chatID, user, "Заявка передана оператору.")
}

func (b *Bot) handleHistory(ctx context.Context, chatID int64, user *models.User) {
	entries, err := b.service.GetHistory(ctx, user.ID, service.HistoryAll)
	if err != nil {
		b.logger.Errorf("Failed to load history of %s: %v", user.ID, err)
		b.sendMessage(chatID, "Не удалось загрузить историю.", nil)
		return
	}
	b.sendMenu(ctx, chatID, user, formatHistory(entries, listLimit))
}
