package bot

import (
	"context"
	"strconv"

	"github.com/Fi44er/usdt_topup/internal/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// withUserCheck resolves the sender to a registered user, registering it on
// the first message.
func (b *Bot) withUserCheck(ctx context.Context, handler func(context.Context, tgbotapi.Update, *models.User)) func(tgbotapi.Update) {
	return func(update tgbotapi.Update) {
		from := update.Message.From
		if from == nil {
			return
		}

		user, err := b.service.RegisterUser(ctx, strconv.FormatInt(from.ID, 10), from.UserName)
		if err != nil {
			b.logger.Errorf("Failed to resolve user %d: %v", from.ID, err)
			b.sendMessage(update.Message.Chat.ID, "Произошла ошибка. Попробуйте позже.", nil)
			return
		}

		handler(ctx, update, user)
	}
}
