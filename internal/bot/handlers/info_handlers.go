package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/grossessebot/internal/knowledge"
)

// textFunc computes the reply to a command message.
type textFunc func(deps HandlerDeps, msg *models.Message) string

// replyHandler answers a command with a single text message.
type replyHandler struct {
	deps HandlerDeps
	name string
	text textFunc
}

func newReplyHandler(deps HandlerDeps, name string, text textFunc) bot.HandlerFunc {
	return replyHandler{deps: deps, name: name, text: text}.Handle
}

func (h replyHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", h.name)

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID
	log.InfoContext(ctx, "Handling command", "chat_id", chatID, "user_id", update.Message.From.ID)

	_, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: h.text(h.deps, update.Message)})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send reply", "error", err, "chat_id", chatID)
	} else {
		log.DebugContext(ctx, "Successfully sent reply", "chat_id", chatID)
	}
}

// NewStartHandler returns a handler for the /start command.
func NewStartHandler(deps HandlerDeps) bot.HandlerFunc {
	return newReplyHandler(deps, "start", func(d HandlerDeps, _ *models.Message) string {
		return withBotName(d, d.Config.Messages.Welcome)
	})
}

// NewHelpHandler returns a handler for the /help command.
func NewHelpHandler(deps HandlerDeps) bot.HandlerFunc {
	return newReplyHandler(deps, "help", func(d HandlerDeps, _ *models.Message) string {
		return withBotName(d, d.Config.Messages.Help)
	})
}

// NewSummaryHandler returns a handler for the /resume command.
func NewSummaryHandler(deps HandlerDeps) bot.HandlerFunc {
	return newReplyHandler(deps, "summary", func(d HandlerDeps, msg *models.Message) string {
		return d.Assistant.Summary(SessionKey(msg.Chat.ID))
	})
}

// NewHealthTipHandler returns a handler for the /astuce command.
func NewHealthTipHandler(deps HandlerDeps) bot.HandlerFunc {
	return newReplyHandler(deps, "health_tip", func(d HandlerDeps, _ *models.Message) string {
		return "💡 " + d.Assistant.HealthTip()
	})
}

// NewEmergencyHandler returns a handler for the /urgence command.
func NewEmergencyHandler(deps HandlerDeps) bot.HandlerFunc {
	return newReplyHandler(deps, "emergency", func(HandlerDeps, *models.Message) string {
		return knowledge.EmergencyInfo()
	})
}

// NewSymptomHandler returns a handler for /symptome <terme>, a search over
// the per-trimester symptom catalogue.
func NewSymptomHandler(deps HandlerDeps) bot.HandlerFunc {
	return newReplyHandler(deps, "symptom_search", func(d HandlerDeps, msg *models.Message) string {
		term := commandArgs(msg.Text)
		if term == "" {
			return d.Config.Messages.SymptomUsageMsg
		}

		results := knowledge.SearchSymptoms(term)
		if len(results) == 0 {
			return fmt.Sprintf(d.Config.Messages.SymptomNotFoundFmt, term)
		}

		var sb strings.Builder
		var stage string
		for _, r := range results {
			if label := r.Stage.Label(); label != stage {
				if stage != "" {
					sb.WriteString("\n")
				}
				fmt.Fprintf(&sb, "📅 %s\n", label)
				stage = label
			}
			fmt.Fprintf(&sb, "• %s\n", r)
		}
		return strings.TrimRight(sb.String(), "\n")
	})
}

func withBotName(d HandlerDeps, text string) string {
	if username := d.botUsername(); username != "" {
		return strings.ReplaceAll(text, "@botname", "@"+username)
	}
	return text
}

// commandArgs returns the text after the command word, e.g. "fatigue" for
// "/symptome@bot fatigue".
func commandArgs(text string) string {
	_, args, _ := strings.Cut(strings.TrimSpace(text), " ")
	return strings.TrimSpace(args)
}
