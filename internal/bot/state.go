package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
)

// Константы состояний пользователя
const (
	stateDefault             = ""
	stateAwaitingTopUpAmount = "awaiting_topup_amount"
	stateAwaitingTopUpTxHash = "awaiting_topup_txhash"
	stateAwaitingPayAmount   = "awaiting_pay_amount"
	stateAwaitingPayComment  = "awaiting_pay_comment"
)

// session keeps the state of a multi-step dialog between messages.
type session struct {
	state  string
	amount decimal.Decimal
}

func (b *Bot) sendMessage(chatID int64, text string, replyMarkup interface{}) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if replyMarkup != nil {
		msg.ReplyMarkup = replyMarkup
	}
	if _, err := b.API.Send(msg); err != nil {
		b.logger.Errorf("Failed to send message: %v", err)
	}
}

func (b *Bot) answerCallback(callbackID, text string) {
	if _, err := b.API.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		b.logger.Errorf("Failed to answer callback: %v", err)
	}
}

func (b *Bot) setState(userID int64, state string) {
	b.stateMutex.Lock()
	defer b.stateMutex.Unlock()
	if state == stateDefault {
		delete(b.userStates, userID)
	} else {
		s, ok := b.userStates[userID]
		if !ok {
			s = &session{}
			b.userStates[userID] = s
		}
		s.state = state
	}
	b.logger.Debugf("Set state for user %d: %s", userID, state)
}

func (b *Bot) getUserState(userID int64) string {
	b.stateMutex.Lock()
	defer b.stateMutex.Unlock()
	if s, ok := b.userStates[userID]; ok {
		return s.state
	}
	return stateDefault
}

func (b *Bot) setSessionAmount(userID int64, amount decimal.Decimal) {
	b.stateMutex.Lock()
	defer b.stateMutex.Unlock()
	if s, ok := b.userStates[userID]; ok {
		s.amount = amount
	}
}

func (b *Bot) sessionAmount(userID int64) decimal.Decimal {
	b.stateMutex.Lock()
	defer b.stateMutex.Unlock()
	if s, ok := b.userStates[userID]; ok {
		return s.amount
	}
	return decimal.Zero
}
