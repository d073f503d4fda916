package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/sealbound/pactkeeper/internal/models"
	"github.com/sealbound/pactkeeper/internal/trigger"
)

const whenUsage = `Usage:
  /when <pact-id> time HH:MM [once]
  /when <pact-id> day Monday,Wednesday [once]
  /when <pact-id> at <place>
  /when <pact-id> if <situation>`

func (h *Handlers) handleConditionAdd(ctx context.Context, msg *tgbotapi.Message) {
	fields := strings.Fields(msg.CommandArguments())
	if len(fields) < 3 {
		h.sendMessage(msg.Chat.ID, whenUsage)
		return
	}

	contractID, err := strconv.Atoi(fields[0])
	if err != nil {
		h.sendMessage(msg.Chat.ID, "The pact id must be a number")
		return
	}

	// Ownership check before writing anything.
	if _, err := h.repos.Contract.GetByID(ctx, contractID, msg.From.ID); err != nil {
		h.replyNotFound(msg.Chat.ID, err)
		return
	}

	cond := &models.Condition{
		ContractID:  contractID,
		IsRecurring: true,
		Active:      true,
	}

	kind := strings.ToLower(fields[1])
	rest := fields[2:]
	switch kind {
	case "time", "day":
		if kind == "time" {
			cond.Type = models.ConditionTime
		} else {
			cond.Type = models.ConditionDay
		}
		cond.Value = rest[0]
		if len(rest) > 1 {
			if strings.EqualFold(rest[len(rest)-1], "once") {
				cond.IsRecurring = false
				rest = rest[:len(rest)-1]
			}
			cond.Value = strings.Join(rest, "")
		}
	case "at":
		cond.Type = models.ConditionLocation
		cond.Value = strings.ToLower(strings.Join(rest, " "))
	case "if":
		cond.Type = models.ConditionSituation
		cond.Value = strings.ToLower(strings.Join(rest, " "))
	default:
		h.sendMessage(msg.Chat.ID, whenUsage)
		return
	}

	spec, err := trigger.Parse(cond)
	if err != nil {
		h.sendMessage(msg.Chat.ID, "I cannot read that condition: "+err.Error())
		return
	}

	if err := h.repos.Condition.Create(ctx, cond); err != nil {
		h.sendMessage(msg.Chat.ID, "Could not save the condition, please try again later")
		return
	}

	reply := fmt.Sprintf("⏱ Condition %d attached to pact #%d: %s", cond.ConditionID, contractID, spec.Describe())
	if !cond.IsRecurring {
		reply += " (fires once)"
	}
	if cond.IsTag() {
		reply += "\nTag conditions fire when you /checkin " + cond.Value
	}
	h.sendMessage(msg.Chat.ID, reply)
}

func (h *Handlers) handleConditionRemove(ctx context.Context, msg *tgbotapi.Message) {
	conditionID, err := strconv.Atoi(strings.TrimSpace(msg.CommandArguments()))
	if err != nil {
		h.sendMessage(msg.Chat.ID, "Usage: /unwhen <condition-id>")
		return
	}

	if err := h.repos.Condition.Delete(ctx, conditionID, msg.From.ID); err != nil {
		h.replyNotFound(msg.Chat.ID, err)
		return
	}
	h.sendMessage(msg.Chat.ID, fmt.Sprintf("⏱ Condition %d detached", conditionID))
}

// handleCheckin is the manual trigger path: the clock scan never matches tag
// conditions, the user announces the place or situation instead.
func (h *Handlers) handleCheckin(ctx context.Context, msg *tgbotapi.Message) {
	tag := strings.ToLower(strings.TrimSpace(msg.CommandArguments()))
	if tag == "" {
		h.sendMessage(msg.Chat.ID, "Usage: /checkin <tag>\nExample: /checkin gym")
		return
	}

	matches, err := h.repos.Condition.FindActiveTagConditions(ctx, msg.From.ID, tag)
	if err != nil {
		h.sendMessage(msg.Chat.ID, "Could not look up your pacts, please try again later")
		return
	}
	if len(matches) == 0 {
		h.sendMessage(msg.Chat.ID, fmt.Sprintf("No active pact listens for %q", tag))
		return
	}

	now := time.Now()
	fired := 0
	for _, cw := range matches {
		event := trigger.FireEvent{
			Contract:  &cw.Contract,
			Condition: cw.Conditions[0],
			MatchedAt: now,
		}
		reminderID, created, err := h.sched.FireManual(ctx, event, now)
		if err != nil {
			h.sendMessage(msg.Chat.ID, "Could not record the check-in, please try again later")
			continue
		}
		if !created {
			continue
		}
		fired++
		h.sendReminderPrompt(msg.Chat.ID, reminderID, cw.Title)
	}
	if fired == 0 {
		h.sendMessage(msg.Chat.ID, "Already checked in this minute, nothing new to answer")
	}
}

// sendReminderPrompt asks the user to resolve a freshly recorded reminder
// right in the chat, with the same buttons a scheduled reminder carries.
func (h *Handlers) sendReminderPrompt(chatID int64, reminderID int, title string) {
	out := tgbotapi.NewMessage(chatID, fmt.Sprintf("🤝 Checked in. Did you keep %q?", title))
	out.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Kept", fmt.Sprintf("resp:%d:kept", reminderID)),
			tgbotapi.NewInlineKeyboardButtonData("❌ Broke", fmt.Sprintf("resp:%d:broke", reminderID)),
			tgbotapi.NewInlineKeyboardButtonData("⏭ Skip", fmt.Sprintf("resp:%d:skipped", reminderID)),
		),
	)
	if _, err := h.api.Send(out); err != nil {
		h.sendMessage(chatID, "Check-in recorded, see /pending to answer it")
	}
}
