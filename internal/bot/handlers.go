package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Fi44er/usdt_topup/internal/models"
	"github.com/Fi44er/usdt_topup/internal/service"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	callbackRead   = "read:"
	callbackCancel = "cancel:"
)

func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	b.withUserCheck(ctx, func(ctx context.Context, update tgbotapi.Update, user *models.User) {
		text := strings.TrimSpace(update.Message.Text)
		chatID := update.Message.Chat.ID
		userID := update.Message.From.ID

		b.logger.Infof("Processing message from user %s: %s", user.ID, text)

		if text == btnCancel || text == "/cancel" {
			b.setState(userID, stateDefault)
			b.sendMenu(ctx, chatID, user, "Действие отменено.")
			return
		}

		switch b.getUserState(userID) {
		case stateAwaitingTopUpAmount:
			b.handleTopUpAmount(ctx, chatID, userID, user, text)
			return
		case stateAwaitingTopUpTxHash:
			b.handleTopUpTxHash(ctx, chatID, userID, user, text)
			return
		case stateAwaitingPayAmount:
			b.handlePayAmount(ctx, chatID, userID, user, text)
			return
		case stateAwaitingPayComment:
			b.handlePayComment(ctx, chatID, userID, user, text)
			return
		}

		switch {
		case text == "/start":
			b.sendMenu(ctx, chatID, user, "Добро пожаловать! Пополняйте баланс в USDT и оплачивайте счета в рублях.")
		case text == btnBalance || text == "/balance":
			b.handleBalance(ctx, chatID, user)
		case text == btnTopUp:
			b.handleTopUp(ctx, chatID, userID, user)
		case text == btnPay:
			b.handlePay(ctx, chatID, userID, user)
		case text == btnHistory || text == "/history":
			b.handleHistory(ctx, chatID, user)
		case strings.HasPrefix(text, btnNotifications):
			b.handleNotifications(ctx, chatID, user)
		default:
			b.sendMenu(ctx, chatID, user, "Неизвестная команда. Используйте меню.")
		}
	})(update)
}

func (b *Bot) sendMenu(ctx context.Context, chatID int64, user *models.User, text string) {
	unread, err := b.service.UnreadCount(ctx, user.ID)
	if err != nil {
		b.logger.Warnf("Failed to count notifications of user %s: %v", user.ID, err)
	}
	b.sendMessage(chatID, text, GetMainMenu(unread))
}

func (b *Bot) handleBalance(ctx context.Context, chatID int64, user *models.User) {
	dash, err := b.service.GetDashboard(ctx, user.ID)
	if err != nil {
		b.logger.Errorf("Failed to build dashboard for %s: %v", user.ID, err)
		b.sendMessage(chatID, "Не удалось получить баланс. Попробуйте позже.", nil)
		return
	}
	b.sendMessage(chatID, formatDashboard(dash), GetMainMenu(dash.UnreadCount))
}

func (b *Bot) handleNotifications(ctx context.Context, chatID int64, user *models.User) {
	items, err := b.service.ListNotifications(ctx, user.ID)
	if err != nil {
		b.logger.Errorf("Failed to list notifications of %s: %v", user.ID, err)
		b.sendMessage(chatID, "Не удалось загрузить уведомления.", nil)
		return
	}
	if len(items) == 0 {
		b.sendMenu(ctx, chatID, user, "Уведомлений пока нет.")
		return
	}

	if len(items) > listLimit {
		items = items[:listLimit]
	}
	for _, n := range items {
		var markup interface{}
		if n.IsRead == 0 {
			markup = tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("✔️ Прочитано", callbackRead+n.ID),
			))
		}
		b.sendMessage(chatID, formatNotification(n), markup)
	}
}

func (b *Bot) handleCallbackQuery(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	user, err := b.service.GetUserByTelegramID(ctx, fmt.Sprint(callback.From.ID))
	if err != nil || user == nil {
		b.answerCallback(callback.ID, "Сначала отправьте /start")
		return
	}

	switch {
	case strings.HasPrefix(callback.Data, callbackRead):
		id := strings.TrimPrefix(callback.Data, callbackRead)
		err := b.service.MarkNotificationRead(ctx, user.ID, id)
		if errors.Is(err, service.ErrNotificationNotFound) {
			b.answerCallback(callback.ID, "Уведомление не найдено")
			return
		}
		if err != nil {
			b.logger.Errorf("Failed to mark notification %s read: %v", id, err)
			b.answerCallback(callback.ID, "Ошибка, попробуйте позже")
			return
		}
		b.clearInlineKeyboard(callback)
		b.answerCallback(callback.ID, "Отмечено как прочитанное")

	case strings.HasPrefix(callback.Data, callbackCancel):
		id := strings.TrimPrefix(callback.Data, callbackCancel)
		req, err := b.service.CancelPaymentRequest(ctx, user.ID, id)
		switch {
		case errors.Is(err, service.ErrInvalidTransition):
			b.answerCallback(callback.ID, "Заявку уже нельзя отменить")
			return
		case err != nil:
			b.logger.Errorf("Failed to cancel request %s: %v", id, err)
			b.answerCallback(callback.ID, "Ошибка, попробуйте позже")
			return
		}
		b.clearInlineKeyboard(callback)
		b.answerCallback(callback.ID, "Заявка отменена")
		b.sendMenu(ctx, callback.From.ID, user, fmt.Sprintf("Заявка на %s ₽ отменена, %s USDT возвращено на баланс.", req.AmountRub.StringFixed(2), req.AmountUsdt))

	default:
		b.answerCallback(callback.ID, "")
	}
}

func (b *Bot) clearInlineKeyboard(callback *tgbotapi.CallbackQuery) {
	if callback.Message == nil {
		return
	}
	edit := tgbotapi.NewEditMessageReplyMarkup(callback.Message.Chat.ID, callback.Message.MessageID, tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{},
	})
	if _, err := b.API.Request(edit); err != nil {
		b.logger.Warnf("Failed to clear keyboard: %v", err)
	}
}
