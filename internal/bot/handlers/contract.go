package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/sealbound/pactkeeper/internal/models"
	"github.com/sealbound/pactkeeper/internal/repository"
	"github.com/sealbound/pactkeeper/internal/rrule"
	"github.com/sealbound/pactkeeper/internal/trigger"
)

func (h *Handlers) handlePactCreate(ctx context.Context, msg *tgbotapi.Message) {
	args := strings.TrimSpace(msg.CommandArguments())
	if args == "" {
		h.sendMessage(msg.Chat.ID, "Usage: /pact <title> | <details>\nExample: /pact Drink water before coffee | Every morning, no excuses.")
		return
	}

	title, body := args, ""
	if idx := strings.Index(args, "|"); idx >= 0 {
		title = strings.TrimSpace(args[:idx])
		body = strings.TrimSpace(args[idx+1:])
	}
	if title == "" {
		h.sendMessage(msg.Chat.ID, "The pact needs a title")
		return
	}

	contract := &models.Contract{
		UserID:   msg.From.ID,
		Title:    title,
		Body:     body,
		Category: "other",
		Status:   models.StatusActive,
	}
	if err := h.repos.Contract.Create(ctx, contract); err != nil {
		h.sendMessage(msg.Chat.ID, "Could not seal the pact, please try again later")
		return
	}

	h.sendMessage(msg.Chat.ID, fmt.Sprintf(
		"🤝 Pact #%d sealed: %s\nAttach a trigger with /when %d time HH:MM (or day, at, if).",
		contract.ContractID, contract.Title, contract.ContractID))
}

func (h *Handlers) handlePactList(ctx context.Context, msg *tgbotapi.Message) {
	contracts, err := h.repos.Contract.GetByUserID(ctx, msg.From.ID)
	if err != nil {
		h.sendMessage(msg.Chat.ID, "Could not load your pacts, please try again later")
		return
	}
	if len(contracts) == 0 {
		h.sendMessage(msg.Chat.ID, "🤝 No pacts yet. Seal one with /pact <title>")
		return
	}

	settings, err := h.repos.Settings.GetOrCreate(ctx, msg.From.ID)
	if err != nil {
		settings = models.NewDefaultUserSettings(msg.From.ID)
	}
	loc := settings.Location()
	now := time.Now()

	var sb strings.Builder
	sb.WriteString("🤝 Your pacts\n\n")
	for _, contract := range contracts {
		sb.WriteString(fmt.Sprintf("%s #%d %s [%s]\n", statusEmoji(contract.Status), contract.ContractID, contract.Title, contract.Category))

		conditions, err := h.repos.Condition.GetByContractID(ctx, contract.ContractID)
		if err != nil {
			continue
		}
		for _, cond := range conditions {
			spec, perr := trigger.Parse(cond)
			if perr != nil {
				sb.WriteString(fmt.Sprintf("   ⚠️ condition %d is malformed\n", cond.ConditionID))
				continue
			}
			line := "   • " + spec.Describe()
			if !cond.IsRecurring {
				line += " (once)"
			}
			if !cond.Active {
				line += " (done)"
			}
			sb.WriteString(line + " — id " + strconv.Itoa(cond.ConditionID) + "\n")
		}
		if contract.IsActive() {
			if next := rrule.NextTriggerAcross(conditions, now, loc); next != nil {
				sb.WriteString("   ⏭ next reminder " + next.Format("Mon 15:04") + "\n")
			}
		}
		sb.WriteString("\n")
	}
	h.sendMessage(msg.Chat.ID, sb.String())
}

func (h *Handlers) handlePactSign(ctx context.Context, msg *tgbotapi.Message) {
	args := strings.SplitN(strings.TrimSpace(msg.CommandArguments()), " ", 2)
	if len(args) < 2 {
		h.sendMessage(msg.Chat.ID, "Usage: /sign <pact-id> <your name>")
		return
	}
	contractID, err := strconv.Atoi(args[0])
	if err != nil {
		h.sendMessage(msg.Chat.ID, "The pact id must be a number")
		return
	}

	signature := strings.TrimSpace(args[1])
	if err := h.repos.Contract.SetSignature(ctx, contractID, msg.From.ID, signature); err != nil {
		h.replyNotFound(msg.Chat.ID, err)
		return
	}
	h.sendMessage(msg.Chat.ID, fmt.Sprintf("✍️ Pact #%d signed: %s", contractID, signature))
}

func (h *Handlers) handlePactStatus(ctx context.Context, msg *tgbotapi.Message, action string) {
	contractID, err := strconv.Atoi(strings.TrimSpace(msg.CommandArguments()))
	if err != nil {
		h.sendMessage(msg.Chat.ID, fmt.Sprintf("Usage: /%s <pact-id>", action))
		return
	}

	var to models.ContractStatus
	var confirmation string
	switch action {
	case "pause":
		to, confirmation = models.StatusPaused, "⏸ Pact #%d paused. /resume %d when you are ready."
	case "resume":
		to, confirmation = models.StatusActive, "▶️ Pact #%d is active again."
	case "complete":
		to, confirmation = models.StatusCompleted, "🏁 Pact #%d completed. Well kept."
	case "fail":
		to, confirmation = models.StatusFailed, "💔 Pact #%d marked as failed."
	}

	if err := h.repos.Contract.UpdateStatus(ctx, contractID, msg.From.ID, to); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			h.sendMessage(msg.Chat.ID, "No such pact")
		case errors.Is(err, repository.ErrInvalidTransition):
			h.sendMessage(msg.Chat.ID, "That pact cannot change to this state")
		default:
			h.sendMessage(msg.Chat.ID, "Could not update the pact, please try again later")
		}
		return
	}

	if strings.Count(confirmation, "%d") == 2 {
		h.sendMessage(msg.Chat.ID, fmt.Sprintf(confirmation, contractID, contractID))
	} else {
		h.sendMessage(msg.Chat.ID, fmt.Sprintf(confirmation, contractID))
	}
}

func (h *Handlers) handlePactDelete(ctx context.Context, msg *tgbotapi.Message) {
	contractID, err := strconv.Atoi(strings.TrimSpace(msg.CommandArguments()))
	if err != nil {
		h.sendMessage(msg.Chat.ID, "Usage: /delete <pact-id>")
		return
	}

	if err := h.repos.Contract.Delete(ctx, contractID, msg.From.ID); err != nil {
		h.replyNotFound(msg.Chat.ID, err)
		return
	}
	h.sendMessage(msg.Chat.ID, fmt.Sprintf("🗑 Pact #%d and its history deleted", contractID))
}

func (h *Handlers) replyNotFound(chatID int64, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		h.sendMessage(chatID, "No such pact")
		return
	}
	h.sendMessage(chatID, "Something went wrong, please try again later")
}

func statusEmoji(status models.ContractStatus) string {
	switch status {
	case models.StatusActive:
		return "🟢"
	case models.StatusPaused:
		return "⏸"
	case models.StatusCompleted:
		return "🏁"
	case models.StatusFailed:
		return "💔"
	default:
		return "▫️"
	}
}
