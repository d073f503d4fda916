package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/sealbound/pactkeeper/internal/format"
)

// TelegramDispatcher sends reminders as Telegram messages with inline
// kept / broke / skip buttons. Pressing a button routes back through the
// bot's callback handler, which records the response in the ledger.
type TelegramDispatcher struct {
	api *tgbotapi.BotAPI
}

func NewTelegramDispatcher(api *tgbotapi.BotAPI) *TelegramDispatcher {
	return &TelegramDispatcher{api: api}
}

func (d *TelegramDispatcher) Dispatch(ctx context.Context, req Request) (int, error) {
	text := "⏰ **Promise check**\n\n**" + req.ContractTitle + "**"
	if req.ContractBody != "" {
		text += "\n\n" + req.ContractBody
	}
	text += "\n\nDid you keep your promise?"

	parsed := format.ParseMarkdown(text)
	msg := tgbotapi.NewMessage(req.UserID, parsed.Text)
	msg.Entities = parsed.Entities
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Kept", fmt.Sprintf("resp:%d:kept", req.ReminderID)),
			tgbotapi.NewInlineKeyboardButtonData("❌ Broke", fmt.Sprintf("resp:%d:broke", req.ReminderID)),
			tgbotapi.NewInlineKeyboardButtonData("⏭ Skip", fmt.Sprintf("resp:%d:skipped", req.ReminderID)),
		),
	)

	sent, err := d.api.Send(msg)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDispatchFailed, err)
	}
	return sent.MessageID, nil
}
