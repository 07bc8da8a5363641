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

const btnSkip = "Пропустить"

func (b *Bot) handleTopUp(ctx context.Context, chatID, userID int64, user *models.User) {
	address := b.service.DepositAddress()
	if address == "" {
		b.sendMenu(ctx, chatID, user, "Пополнение временно недоступно.")
		return
	}

	b.setState(userID, stateAwaitingTopUpAmount)
	msg := fmt.Sprintf(
		"Отправьте USDT (сеть TRC-20) на адрес:\n\n`%s`\n\nЗатем введите отправленную сумму в USDT:",
		address,
	)
	b.sendMessage(chatID, msg, cancelKeyboard())
}

func (b *Bot) handleTopUpAmount(ctx context.Context, chatID, userID int64, user *models.User, text string) {
	amount, err := utils.ParseAmount(text, utils.UsdtPlaces)
	if err != nil {
		b.sendMessage(chatID, "❌ Неверная сумма. Введите положительное число, например `150.5`.", cancelKeyboard())
		return
	}

	b.setSessionAmount(userID, amount)
	b.setState(userID, stateAwaitingTopUpTxHash)
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnSkip)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnCancel)),
	)
	b.sendMessage(chatID, "Укажите хеш транзакции (64 символа) или нажмите «Пропустить»:", keyboard)
}

func (b *Bot) handleTopUpTxHash(ctx context.Context, chatID, userID int64, user *models.User, text string) {
	txHash := text
	if text == btnSkip {
		txHash = ""
	} else if !utils.IsTxHash(text) {
		b.sendMessage(chatID, "❌ Хеш должен состоять из 64 шестнадцатеричных символов.", nil)
		return
	}

	amount := b.sessionAmount(userID)
	b.setState(userID, stateDefault)

	deposit, err := b.service.CreateDeposit(ctx, user.ID, amount, txHash)
	switch {
	case errors.Is(err, service.ErrInvalidAmount), errors.Is(err, service.ErrInvalidInput):
		b.sendMenu(ctx, chatID, user, "❌ Неверные данные пополнения.")
		return
	case err != nil:
		b.logger.Errorf("Failed to create deposit for %s: %v", user.ID, err)
		b.sendMenu(ctx, chatID, user, "Не удалось создать заявку. Попробуйте позже.")
		return
	}

	b.sendMenu(ctx, chatID, user, fmt.Sprintf(
		"✅ Заявка на пополнение `%s` USDT создана. Баланс обновится после проверки оператором.",
		deposit.Amount,
	))
}
