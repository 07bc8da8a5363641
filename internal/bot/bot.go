package bot

import (
	"context"
	"sync"

	"github.com/Fi44er/usdt_topup/internal/service"
	"github.com/Fi44er/usdt_topup/utils"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	btnBalance       = "💰 Баланс"
	btnTopUp         = "➕ Пополнить"
	btnPay           = "💳 Оплатить"
	btnHistory       = "📜 История"
	btnNotifications = "🔔 Уведомления"
	btnCancel        = "❌ Отмена"
)

type Bot struct {
	API        *tgbotapi.BotAPI
	service    *service.Service
	logger     *utils.Logger
	userStates map[int64]*session
	stateMutex *sync.Mutex
}

func NewBot(api *tgbotapi.BotAPI, service *service.Service, logger *utils.Logger) *Bot {
	return &Bot{
		API:        api,
		service:    service,
		logger:     logger,
		userStates: make(map[int64]*session),
		stateMutex: &sync.Mutex{},
	}
}

// Start polls for updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) {
	b.logger.Info("Starting bot...")
	updates := b.API.GetUpdatesChan(tgbotapi.NewUpdate(0))

	go func() {
		<-ctx.Done()
		b.API.StopReceivingUpdates()
	}()

	for update := range updates {
		b.logger.Debugf("Received update: %d", update.UpdateID)
		if update.CallbackQuery != nil {
			b.handleCallbackQuery(ctx, update.CallbackQuery)
			continue
		}
		if update.Message != nil {
			b.HandleUpdate(ctx, update)
		}
	}
	b.logger.Info("Bot stopped")
}

func GetMainMenu(unread int64) tgbotapi.ReplyKeyboardMarkup {
	notifications := btnNotifications
	if unread > 0 {
		notifications = menuNotificationsLabel(unread)
	}
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnBalance),
			tgbotapi.NewKeyboardButton(btnTopUp),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnPay),
			tgbotapi.NewKeyboardButton(btnHistory),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(notifications),
		),
	)
}

func cancelKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnCancel)),
	)
}
