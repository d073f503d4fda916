package handlers

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/sealbound/pactkeeper/internal/ai"
	"github.com/sealbound/pactkeeper/internal/models"
	"github.com/sealbound/pactkeeper/internal/trigger"
)

// pendingDraft is a drafted contract waiting for the user's confirmation.
// Nothing is stored until the user taps confirm.
type pendingDraft struct {
	Draft     *ai.ContractDraft
	ExpiresAt time.Time
}

var (
	pendingDrafts = make(map[int64]*pendingDraft) // userID -> draft
	draftMutex    sync.Mutex
)

const draftTimeout = 5 * time.Minute

func (h *Handlers) handleAIMessage(ctx context.Context, msg *tgbotapi.Message) {
	if h.ai == nil {
		h.sendMessage(msg.Chat.ID, "Free-text drafting is not enabled, use /pact instead")
		return
	}

	draft, err := h.ai.ParseContractDraft(ctx, msg.Text)
	if err != nil {
		log.Printf("Failed to draft contract for user %d: %v", msg.From.ID, err)
		h.sendMessage(msg.Chat.ID, "I could not draft a pact from that, try /pact <title> instead")
		return
	}
	if draft.Confidence < 0.5 {
		reply := "I am not sure what you are promising, can you say it more plainly?"
		if draft.AIMessage != "" {
			reply = draft.AIMessage
		}
		h.sendMessage(msg.Chat.ID, reply)
		return
	}

	// Drop conditions the evaluator would reject rather than storing rules
	// that can never fire.
	valid := draft.Conditions[:0]
	for _, cd := range draft.Conditions {
		probe := &models.Condition{Type: models.ConditionType(cd.Type), Value: cd.Value}
		if _, err := trigger.Parse(probe); err != nil {
			log.Printf("Dropping undraftable condition %s=%q: %v", cd.Type, cd.Value, err)
			continue
		}
		valid = append(valid, cd)
	}
	draft.Conditions = valid

	draftMutex.Lock()
	pendingDrafts[msg.From.ID] = &pendingDraft{
		Draft:     draft,
		ExpiresAt: time.Now().Add(draftTimeout),
	}
	draftMutex.Unlock()

	h.sendDraftPreview(msg.Chat.ID, draft)
}

func (h *Handlers) sendDraftPreview(chatID int64, draft *ai.ContractDraft) {
	var sb strings.Builder
	sb.WriteString("📝 Draft pact\n\n")
	sb.WriteString(draft.Title + "\n")
	if draft.Body != "" && draft.Body != draft.Title {
		sb.WriteString(draft.Body + "\n")
	}
	sb.WriteString("Category: " + draft.Category + "\n")
	if len(draft.Conditions) == 0 {
		sb.WriteString("No trigger yet, attach one with /when after sealing\n")
	}
	for _, cd := range draft.Conditions {
		line := "• " + describeDraftCondition(cd)
		if !cd.IsRecurring {
			line += " (once)"
		}
		sb.WriteString(line + "\n")
	}
	if draft.AIMessage != "" {
		sb.WriteString("\n" + draft.AIMessage)
	}

	out := tgbotapi.NewMessage(chatID, sb.String())
	out.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🤝 Seal it", "draft:confirm"),
			tgbotapi.NewInlineKeyboardButtonData("❌ Discard", "draft:cancel"),
		),
	)
	if _, err := h.api.Send(out); err != nil {
		log.Printf("Failed to send draft preview: %v", err)
	}
}

func describeDraftCondition(cd ai.ConditionDraft) string {
	probe := &models.Condition{Type: models.ConditionType(cd.Type), Value: cd.Value}
	if spec, err := trigger.Parse(probe); err == nil {
		return spec.Describe()
	}
	return cd.Type + " " + cd.Value
}

// handleDraftCallback resolves the confirm/discard buttons under a draft
// preview.
func (h *Handlers) handleDraftCallback(ctx context.Context, callback *tgbotapi.CallbackQuery, action string) {
	userID := callback.From.ID

	draftMutex.Lock()
	pending, ok := pendingDrafts[userID]
	delete(pendingDrafts, userID)
	draftMutex.Unlock()

	if !ok || time.Now().After(pending.ExpiresAt) {
		h.answerCallbackWithAlert(callback.ID, "This draft expired, describe your promise again")
		return
	}
	if action == "cancel" {
		h.answerCallback(callback.ID)
		if callback.Message != nil {
			h.editMessageText(callback.Message.Chat.ID, callback.Message.MessageID, "Draft discarded")
		}
		return
	}

	contract, err := h.sealDraft(ctx, userID, pending.Draft)
	if err != nil {
		log.Printf("Failed to seal draft for user %d: %v", userID, err)
		h.answerCallbackWithAlert(callback.ID, "Could not seal the pact, please try again")
		return
	}

	h.answerCallback(callback.ID)
	if callback.Message != nil {
		h.editMessageText(callback.Message.Chat.ID, callback.Message.MessageID,
			fmt.Sprintf("🤝 Pact #%d sealed: %s\nSee it with /pacts", contract.ContractID, contract.Title))
	}
	// Fresh time conditions may be due this very minute.
	h.sched.Notify()
}

func (h *Handlers) sealDraft(ctx context.Context, userID int64, draft *ai.ContractDraft) (*models.Contract, error) {
	contract := &models.Contract{
		UserID:   userID,
		Title:    draft.Title,
		Body:     draft.Body,
		Category: draft.Category,
		Status:   models.StatusActive,
	}
	if err := h.repos.Contract.Create(ctx, contract); err != nil {
		return nil, err
	}

	for _, cd := range draft.Conditions {
		cond := &models.Condition{
			ContractID:  contract.ContractID,
			Type:        models.ConditionType(cd.Type),
			Value:       cd.Value,
			IsRecurring: cd.IsRecurring,
			Active:      true,
		}
		if err := h.repos.Condition.Create(ctx, cond); err != nil {
			log.Printf("Failed to attach drafted condition to contract %d: %v", contract.ContractID, err)
		}
	}

	if cat, err := h.repos.Category.GetOrCreateByName(ctx, userID, contract.Category); err == nil {
		if err := h.repos.Category.IncrementUsage(ctx, cat.CategoryID); err != nil {
			log.Printf("Failed to bump category usage: %v", err)
		}
	}
	return contract, nil
}
