package handlers

import (
	"context"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/sealbound/pactkeeper/internal/ai"
	"github.com/sealbound/pactkeeper/internal/repository"
	"github.com/sealbound/pactkeeper/internal/scheduler"
)

type Repositories struct {
	User      *repository.UserRepository
	Settings  *repository.UserSettingsRepository
	Category  *repository.CategoryRepository
	Contract  *repository.ContractRepository
	Condition *repository.ConditionRepository
	Reminder  *repository.ReminderRepository
}

type Handlers struct {
	api   *tgbotapi.BotAPI
	repos *Repositories
	ai    *ai.Client
	sched *scheduler.Scheduler
}

func New(api *tgbotapi.BotAPI, repos *Repositories, aiClient *ai.Client, sched *scheduler.Scheduler) *Handlers {
	return &Handlers{
		api:   api,
		repos: repos,
		ai:    aiClient,
		sched: sched,
	}
}

func (h *Handlers) HandleCommand(ctx context.Context, msg *tgbotapi.Message) {
	// Ensure user exists
	if _, err := h.repos.User.GetOrCreate(ctx, msg.From.ID, msg.From.UserName); err != nil {
		log.Printf("Failed to get/create user: %v", err)
		return
	}

	switch msg.Command() {
	case "start":
		h.handleStart(ctx, msg)
	case "help":
		h.handleHelp(ctx, msg)
	case "pact":
		h.handlePactCreate(ctx, msg)
	case "pacts":
		h.handlePactList(ctx, msg)
	case "sign":
		h.handlePactSign(ctx, msg)
	case "when":
		h.handleConditionAdd(ctx, msg)
	case "unwhen":
		h.handleConditionRemove(ctx, msg)
	case "pause":
		h.handlePactStatus(ctx, msg, "pause")
	case "resume":
		h.handlePactStatus(ctx, msg, "resume")
	case "complete":
		h.handlePactStatus(ctx, msg, "complete")
	case "fail":
		h.handlePactStatus(ctx, msg, "fail")
	case "delete":
		h.handlePactDelete(ctx, msg)
	case "checkin":
		h.handleCheckin(ctx, msg)
	case "pending":
		h.handlePendingList(ctx, msg)
	case "respond":
		h.handleRespond(ctx, msg)
	case "history":
		h.handleHistory(ctx, msg)
	case "stats":
		h.handleStats(ctx, msg)
	case "categories":
		h.handleCategories(ctx, msg)
	case "timezone":
		h.handleTimezone(ctx, msg)
	case "quiet":
		h.handleQuietHours(ctx, msg)
	case "settings":
		h.handleSettings(ctx, msg)
	default:
		h.sendMessage(msg.Chat.ID, "Unknown command, see /help")
	}
}

func (h *Handlers) HandleMessage(ctx context.Context, msg *tgbotapi.Message) {
	// Ensure user exists
	if _, err := h.repos.User.GetOrCreate(ctx, msg.From.ID, msg.From.UserName); err != nil {
		log.Printf("Failed to get/create user: %v", err)
		return
	}

	h.handleAIMessage(ctx, msg)
}

func (h *Handlers) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.api.Send(msg); err != nil {
		log.Printf("Failed to send message: %v", err)
	}
}

func (h *Handlers) editMessageText(chatID int64, messageID int, text string) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	if _, err := h.api.Send(edit); err != nil {
		log.Printf("Failed to edit message: %v", err)
	}
}

func (h *Handlers) answerCallback(callbackID string) {
	answer := tgbotapi.NewCallback(callbackID, "")
	if _, err := h.api.Request(answer); err != nil {
		log.Printf("Failed to answer callback: %v", err)
	}
}

func (h *Handlers) answerCallbackWithAlert(callbackID string, text string) {
	answer := tgbotapi.NewCallbackWithAlert(callbackID, text)
	if _, err := h.api.Request(answer); err != nil {
		log.Printf("Failed to answer callback with alert: %v", err)
	}
}

func (h *Handlers) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	if _, err := h.repos.Settings.GetOrCreate(ctx, msg.From.ID); err != nil {
		log.Printf("Failed to create settings for user %d: %v", msg.From.ID, err)
	}
	if err := h.repos.Category.SeedDefaults(ctx, msg.From.ID); err != nil {
		log.Printf("Failed to seed categories for user %d: %v", msg.From.ID, err)
	}

	text := `🤝 Welcome to Pactkeeper.

Seal promises with your future self and I will hold you to them.

/pact Drink water before coffee — seal a new pact
/when 1 time 07:30 — remind me at 07:30 every day
/when 1 day Monday,Friday — remind me on those days
/when 1 at gym — fires when you /checkin gym
/stats — streaks and kept rate

Or just describe your promise in plain words and I will draft the pact for you.

/help for the full command list.`
	h.sendMessage(msg.Chat.ID, text)
}

func (h *Handlers) handleHelp(ctx context.Context, msg *tgbotapi.Message) {
	text := `📜 Commands

Pacts
  /pact <title> | <details> — seal a new pact
  /pacts — list your pacts
  /sign <id> <name> — sign a pact
  /pause /resume /complete /fail <id>
  /delete <id> — remove a pact and its history

Conditions
  /when <id> time HH:MM [once]
  /when <id> day Monday,Wednesday [once]
  /when <id> at <place> — manual check-in trigger
  /when <id> if <situation> — manual check-in trigger
  /unwhen <condition-id> — detach a condition
  /checkin <tag> — I am there / it is happening

Reminders
  /pending — unanswered reminders
  /respond <id> <kept|broke|skipped> [note]
  /history — recent reminders

Profile
  /stats — streaks and kept rate
  /categories — your category list
  /timezone <IANA name> — e.g. Europe/Berlin
  /quiet <from> <until> — e.g. /quiet 22:00 08:00
  /settings — current preferences`
	h.sendMessage(msg.Chat.ID, text)
}
