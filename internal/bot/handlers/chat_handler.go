package handlers

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/grossessebot/internal/assistant"
)

type chatHandler struct {
	deps HandlerDeps

	mu          sync.Mutex
	mentionUser string
	mention     *regexp.Regexp
}

// NewChatHandler creates the default handler: every private message, and
// group messages that mention the bot or reply to it, go to the assistant.
func NewChatHandler(deps HandlerDeps) bot.HandlerFunc {
	h := &chatHandler{deps: deps}
	return h.Handle
}

func (h *chatHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "chat")

	msg := update.Message
	if msg == nil || msg.From == nil || msg.Text == "" {
		log.DebugContext(ctx, "Ignoring update without text message or sender", "update_id", update.ID)
		return
	}
	chatID := msg.Chat.ID

	if !h.shouldHandle(msg) {
		log.DebugContext(ctx, "Bot not mentioned or referenced, skipping", "chat_id", chatID)
		return
	}

	text := h.stripMention(msg.Text)
	stopTyping := keepTyping(ctx, b, chatID, log)
	result, err := h.deps.Assistant.HandleMessage(ctx, SessionKey(chatID), text)
	stopTyping()

	reply := result.Response
	switch {
	case errors.Is(err, assistant.ErrEmptyMessage):
		reply = assistant.EmptyMessageResponse
	case err != nil:
		log.ErrorContext(ctx, "Failed to handle message", "error", err, "chat_id", chatID)
		reply = h.deps.Config.Messages.ErrorGeneralMsg
	case result.IsEmergency:
		log.WarnContext(ctx, "Emergency message answered", "chat_id", chatID, "user_id", msg.From.ID)
	}

	params := &bot.SendMessageParams{ChatID: chatID, Text: reply}
	if msg.Chat.Type != models.ChatTypePrivate {
		params.ReplyParameters = &models.ReplyParameters{MessageID: msg.ID}
	}
	if _, err := b.SendMessage(ctx, params); err != nil {
		log.ErrorContext(ctx, "Failed to send reply", "error", err, "chat_id", chatID)
		return
	}
	log.DebugContext(ctx, "Reply sent", "chat_id", chatID, "intent", result.Intent)
}

// shouldHandle accepts private chats, and in groups a mention of the bot
// or a reply to one of its messages.
func (h *chatHandler) shouldHandle(msg *models.Message) bool {
	if msg.Chat.Type == models.ChatTypePrivate {
		return true
	}

	if re := h.mentionPattern(); re != nil && re.MatchString(msg.Text) {
		return true
	}

	botID := h.deps.botID()
	return botID != 0 && msg.ReplyToMessage != nil && msg.ReplyToMessage.From != nil && msg.ReplyToMessage.From.ID == botID
}

func (h *chatHandler) stripMention(text string) string {
	re := h.mentionPattern()
	if re == nil {
		return text
	}
	return strings.TrimSpace(re.ReplaceAllString(text, ""))
}

// mentionPattern matches "@username" case-insensitively. It is compiled once
// and rebuilt only if the bot username changes.
func (h *chatHandler) mentionPattern() *regexp.Regexp {
	username := h.deps.botUsername()
	if username == "" {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.mention == nil || h.mentionUser != username {
		h.mention = regexp.MustCompile(`(?i)@` + regexp.QuoteMeta(username) + `\b`)
		h.mentionUser = username
	}
	return h.mention
}
