package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/sealbound/pactkeeper/internal/models"
	"github.com/sealbound/pactkeeper/internal/repository"
)

func (h *Handlers) handlePendingList(ctx context.Context, msg *tgbotapi.Message) {
	pending, err := h.repos.Reminder.GetPendingByUserID(ctx, msg.From.ID)
	if err != nil {
		h.sendMessage(msg.Chat.ID, "Could not load pending reminders, please try again later")
		return
	}
	if len(pending) == 0 {
		h.sendMessage(msg.Chat.ID, "⏰ Nothing pending, all caught up")
		return
	}

	var sb strings.Builder
	sb.WriteString("⏰ Pending reminders\n\n")
	for _, rem := range pending {
		sb.WriteString(fmt.Sprintf("#%d %s — %s\n", rem.ReminderID, rem.ContractTitle,
			rem.TriggeredAt.Format("Jan 2 15:04")))
	}
	sb.WriteString("\nAnswer with /respond <id> <kept|broke|skipped> [note]")
	h.sendMessage(msg.Chat.ID, sb.String())
}

func (h *Handlers) handleRespond(ctx context.Context, msg *tgbotapi.Message) {
	fields := strings.SplitN(strings.TrimSpace(msg.CommandArguments()), " ", 3)
	if len(fields) < 2 {
		h.sendMessage(msg.Chat.ID, "Usage: /respond <reminder-id> <kept|broke|skipped> [note]")
		return
	}

	reminderID, err := strconv.Atoi(fields[0])
	if err != nil {
		h.sendMessage(msg.Chat.ID, "The reminder id must be a number")
		return
	}
	response := models.ReminderResponse(strings.ToLower(fields[1]))
	if !models.ValidResponse(response) {
		h.sendMessage(msg.Chat.ID, "The answer must be kept, broke or skipped")
		return
	}
	note := ""
	if len(fields) == 3 {
		note = strings.TrimSpace(fields[2])
	}

	if !h.ownsReminder(ctx, reminderID, msg.From.ID) {
		h.sendMessage(msg.Chat.ID, "No such reminder")
		return
	}

	if err := h.repos.Reminder.Respond(ctx, reminderID, response, note); err != nil {
		h.replyRespondError(msg.Chat.ID, err)
		return
	}
	h.sendMessage(msg.Chat.ID, responseAck(response, reminderID))
}

func (h *Handlers) handleHistory(ctx context.Context, msg *tgbotapi.Message) {
	history, err := h.repos.Reminder.GetHistoryByUserID(ctx, msg.From.ID, 20)
	if err != nil {
		h.sendMessage(msg.Chat.ID, "Could not load your history, please try again later")
		return
	}
	if len(history) == 0 {
		h.sendMessage(msg.Chat.ID, "📖 No reminders yet")
		return
	}

	var sb strings.Builder
	sb.WriteString("📖 Recent reminders\n\n")
	for _, rem := range history {
		sb.WriteString(fmt.Sprintf("%s #%d %s — %s\n", responseEmoji(rem.Response),
			rem.ReminderID, rem.ContractTitle, rem.TriggeredAt.Format("Jan 2 15:04")))
		if rem.ReflectionNote != "" {
			sb.WriteString("   💬 " + rem.ReflectionNote + "\n")
		}
	}
	h.sendMessage(msg.Chat.ID, sb.String())
}

// HandleCallbackQuery resolves inline button presses. Reminder buttons carry
// "resp:<reminderID>:<kept|broke|skipped>", draft previews carry
// "draft:<confirm|cancel>".
func (h *Handlers) HandleCallbackQuery(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	parts := strings.Split(callback.Data, ":")
	if len(parts) == 2 && parts[0] == "draft" {
		h.handleDraftCallback(ctx, callback, parts[1])
		return
	}
	if len(parts) != 3 || parts[0] != "resp" {
		h.answerCallback(callback.ID)
		return
	}

	reminderID, err := strconv.Atoi(parts[1])
	if err != nil {
		h.answerCallback(callback.ID)
		return
	}
	response := models.ReminderResponse(parts[2])
	if !models.ValidResponse(response) {
		h.answerCallback(callback.ID)
		return
	}

	if !h.ownsReminder(ctx, reminderID, callback.From.ID) {
		h.answerCallbackWithAlert(callback.ID, "This reminder is not yours")
		return
	}

	err = h.repos.Reminder.Respond(ctx, reminderID, response, "")
	switch {
	case errors.Is(err, repository.ErrAlreadyResponded):
		h.answerCallbackWithAlert(callback.ID, "Already answered")
		return
	case errors.Is(err, repository.ErrNotFound):
		h.answerCallbackWithAlert(callback.ID, "This reminder no longer exists")
		return
	case err != nil:
		h.answerCallbackWithAlert(callback.ID, "Something went wrong, try /respond instead")
		return
	}

	h.answerCallback(callback.ID)
	if callback.Message != nil {
		h.editMessageText(callback.Message.Chat.ID, callback.Message.MessageID,
			responseAck(response, reminderID))
	}
}

// ownsReminder guards the response path: reminder ids are global, the
// answering user must be the reminded one.
func (h *Handlers) ownsReminder(ctx context.Context, reminderID int, userID int64) bool {
	rem, err := h.repos.Reminder.GetByID(ctx, reminderID)
	if err != nil {
		return false
	}
	return rem.UserID == userID
}

func (h *Handlers) replyRespondError(chatID int64, err error) {
	switch {
	case errors.Is(err, repository.ErrAlreadyResponded):
		h.sendMessage(chatID, "That reminder is already answered, the first answer stands")
	case errors.Is(err, repository.ErrNotFound):
		h.sendMessage(chatID, "No such reminder")
	default:
		h.sendMessage(chatID, "Could not record your answer, please try again later")
	}
}

func responseAck(response models.ReminderResponse, reminderID int) string {
	switch response {
	case models.ResponseKept:
		return fmt.Sprintf("✅ Reminder #%d: promise kept. Keep the chain going.", reminderID)
	case models.ResponseBroke:
		return fmt.Sprintf("❌ Reminder #%d: promise broken. Tomorrow is a new pact.", reminderID)
	default:
		return fmt.Sprintf("⏭ Reminder #%d skipped.", reminderID)
	}
}

func responseEmoji(response models.ReminderResponse) string {
	switch response {
	case models.ResponseKept:
		return "✅"
	case models.ResponseBroke:
		return "❌"
	case models.ResponseSkipped:
		return "⏭"
	default:
		return "⏳"
	}
}
