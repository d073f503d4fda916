package handlers

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/sealbound/pactkeeper/internal/format"
)

func (h *Handlers) handleCategories(ctx context.Context, msg *tgbotapi.Message) {
	categories, err := h.repos.Category.GetByUserID(ctx, msg.From.ID)
	if err != nil {
		h.sendMessage(msg.Chat.ID, "Could not load your categories, please try again later")
		return
	}
	if len(categories) == 0 {
		if err := h.repos.Category.SeedDefaults(ctx, msg.From.ID); err == nil {
			categories, _ = h.repos.Category.GetByUserID(ctx, msg.From.ID)
		}
	}

	var sb strings.Builder
	sb.WriteString("🏷 Your categories\n\n")
	for _, cat := range categories {
		sb.WriteString(fmt.Sprintf("• %s (%d pacts)\n", cat.CategoryName, cat.UsageCount))
	}
	h.sendMessage(msg.Chat.ID, sb.String())
}

func (h *Handlers) handleTimezone(ctx context.Context, msg *tgbotapi.Message) {
	name := strings.TrimSpace(msg.CommandArguments())
	if name == "" {
		settings, err := h.repos.Settings.GetOrCreate(ctx, msg.From.ID)
		if err != nil {
			h.sendMessage(msg.Chat.ID, "Could not load your settings, please try again later")
			return
		}
		h.sendMessage(msg.Chat.ID, fmt.Sprintf(
			"🌍 Your timezone is %s\nChange it with /timezone <IANA name>, e.g. /timezone Europe/Berlin", settings.Timezone))
		return
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		h.sendMessage(msg.Chat.ID, fmt.Sprintf("%q is not a timezone I know. Use an IANA name like Europe/Berlin or Asia/Taipei.", name))
		return
	}
	if err := h.repos.Settings.SetTimezone(ctx, msg.From.ID, loc.String()); err != nil {
		h.sendMessage(msg.Chat.ID, "Could not save the timezone, please try again later")
		return
	}

	h.sendMessage(msg.Chat.ID, fmt.Sprintf(
		"🌍 Timezone set to %s. It is %s there now, reminders follow this clock.",
		loc.String(), time.Now().In(loc).Format("15:04")))
}

func (h *Handlers) handleQuietHours(ctx context.Context, msg *tgbotapi.Message) {
	fields := strings.Fields(msg.CommandArguments())
	if len(fields) == 1 && strings.EqualFold(fields[0], "off") {
		// Equal bounds disable the window.
		if err := h.repos.Settings.SetQuietHours(ctx, msg.From.ID, "00:00", "00:00"); err != nil {
			h.sendMessage(msg.Chat.ID, "Could not save quiet hours, please try again later")
			return
		}
		h.sendMessage(msg.Chat.ID, "🔕 Quiet hours disabled, reminders arrive around the clock")
		return
	}
	if len(fields) != 2 {
		h.sendMessage(msg.Chat.ID, "Usage: /quiet <from> <until> (e.g. /quiet 22:00 08:00) or /quiet off")
		return
	}

	start, end := fields[0], fields[1]
	if !validClockString(start) || !validClockString(end) {
		h.sendMessage(msg.Chat.ID, "Times must be HH:MM, e.g. /quiet 22:00 08:00")
		return
	}
	if err := h.repos.Settings.SetQuietHours(ctx, msg.From.ID, start, end); err != nil {
		h.sendMessage(msg.Chat.ID, "Could not save quiet hours, please try again later")
		return
	}
	h.sendMessage(msg.Chat.ID, fmt.Sprintf(
		"🔕 Quiet hours set: %s to %s. Due reminders are still recorded, see them with /pending.", start, end))
}

func (h *Handlers) handleSettings(ctx context.Context, msg *tgbotapi.Message) {
	arg := strings.ToLower(strings.TrimSpace(msg.CommandArguments()))
	switch arg {
	case "reminders on":
		h.setRemindersEnabled(ctx, msg, true)
		return
	case "reminders off":
		h.setRemindersEnabled(ctx, msg, false)
		return
	}

	settings, err := h.repos.Settings.GetOrCreate(ctx, msg.From.ID)
	if err != nil {
		h.sendMessage(msg.Chat.ID, "Could not load your settings, please try again later")
		return
	}

	reminders := "on"
	if !settings.RemindersEnabled {
		reminders = "off"
	}
	quiet := fmt.Sprintf("%s to %s", settings.QuietStart, settings.QuietEnd)
	if settings.QuietStart == settings.QuietEnd {
		quiet = "disabled"
	}

	text := fmt.Sprintf(`⚙️ **Settings**

🌍 Timezone: %s
⏰ Reminders: %s
🔕 Quiet hours: %s

/timezone <IANA name>
/quiet <from> <until> or /quiet off
/settings reminders on|off`,
		settings.Timezone, reminders, quiet)

	parsed := format.ParseMarkdown(text)
	reply := tgbotapi.NewMessage(msg.Chat.ID, parsed.Text)
	reply.Entities = parsed.Entities
	if _, err := h.api.Send(reply); err != nil {
		log.Printf("Failed to send settings: %v", err)
	}
}

func (h *Handlers) setRemindersEnabled(ctx context.Context, msg *tgbotapi.Message, enabled bool) {
	if err := h.repos.Settings.SetRemindersEnabled(ctx, msg.From.ID, enabled); err != nil {
		h.sendMessage(msg.Chat.ID, "Could not save the setting, please try again later")
		return
	}
	if enabled {
		h.sendMessage(msg.Chat.ID, "⏰ Reminders are on")
	} else {
		h.sendMessage(msg.Chat.ID, "🔇 Reminders are off. Matches are still recorded and wait in /pending.")
	}
}

func validClockString(s string) bool {
	if _, err := time.Parse("15:04", s); err != nil {
		return false
	}
	return true
}
