package handlers

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/grossessebot/internal/risk"
)

// NewStatsHandler returns a handler for the admin /stats command: the
// number of recorded risk evaluations per label.
func NewStatsHandler(deps HandlerDeps) bot.HandlerFunc {
	return statsHandler{deps}.Handle
}

type statsHandler struct {
	deps HandlerDeps
}

func (h statsHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "stats")
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	counts, err := h.deps.Assistant.Stats(ctx)
	text := h.deps.Config.Messages.ErrorGeneralMsg
	if err != nil {
		log.ErrorContext(ctx, "Failed to load evaluation stats", "error", err, "chat_id", chatID)
	} else {
		text = formatStats(h.deps.Config.Messages.StatsHeaderMsg, h.deps.Config.Messages.StatsEmptyMsg, counts)
	}

	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		log.ErrorContext(ctx, "Failed to send stats", "error", err, "chat_id", chatID)
	}
}

// formatStats lists the known labels from lowest to highest risk, then any
// other stored label.
func formatStats(header, empty string, counts map[string]int) string {
	if len(counts) == 0 {
		return empty
	}

	var sb strings.Builder
	sb.WriteString(header)
	total := 0
	seen := make(map[string]bool, len(risk.Labels))
	for _, l := range risk.Labels {
		seen[string(l)] = true
		fmt.Fprintf(&sb, "\n• %s : %d", l.French(), counts[string(l)])
		total += counts[string(l)]
	}
	for _, label := range slices.Sorted(maps.Keys(counts)) {
		if !seen[label] {
			fmt.Fprintf(&sb, "\n• %s : %d", label, counts[label])
			total += counts[label]
		}
	}
	fmt.Fprintf(&sb, "\nTotal : %d", total)
	return sb.String()
}
