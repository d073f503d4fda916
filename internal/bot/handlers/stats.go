package handlers

import (
	"context"
	"fmt"
	"log"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/sealbound/pactkeeper/internal/format"
	"github.com/sealbound/pactkeeper/internal/models"
	"github.com/sealbound/pactkeeper/internal/streak"
)

func (h *Handlers) handleStats(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID

	settings, err := h.repos.Settings.GetOrCreate(ctx, userID)
	if err != nil {
		settings = models.NewDefaultUserSettings(userID)
	}
	loc := settings.Location()

	keptTimes, err := h.repos.Reminder.GetKeptTimes(ctx, userID)
	if err != nil {
		h.sendMessage(msg.Chat.ID, "Could not load your stats, please try again later")
		return
	}
	kept, broke, err := h.repos.Reminder.CountResponses(ctx, userID)
	if err != nil {
		h.sendMessage(msg.Chat.ID, "Could not load your stats, please try again later")
		return
	}

	current := streak.Current(keptTimes, time.Now(), loc)
	best := streak.Best(keptTimes, loc)
	rate := streak.KeptRate(kept, broke)

	active, _ := h.repos.Contract.CountByStatus(ctx, userID, models.StatusActive)
	completed, _ := h.repos.Contract.CountByStatus(ctx, userID, models.StatusCompleted)

	text := fmt.Sprintf(`📊 **Your record**

🔥 Current streak: %d day(s)
🏆 Best streak: %d day(s)
✅ Kept rate: %d%% (%d kept, %d broken)

🟢 Active pacts: %d
🏁 Completed pacts: %d`,
		current, best, rate, kept, broke, active, completed)

	if current > 0 && current == best {
		text += "\n\nYou are at your all-time best, do not break the chain."
	}

	parsed := format.ParseMarkdown(text)
	reply := tgbotapi.NewMessage(msg.Chat.ID, parsed.Text)
	reply.Entities = parsed.Entities
	if _, err := h.api.Send(reply); err != nil {
		log.Printf("Failed to send stats: %v", err)
	}
}
