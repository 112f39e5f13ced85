// Package telegram adapts the engine to the Telegram Bot API: deciding
// which inbound messages are addressed to the bot, and sending replies
// back with Markdown formatting and file attachments.
package telegram

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/Livo-Africa/accountbot/internal/engine"
	"github.com/Livo-Africa/accountbot/internal/intent"
	"github.com/Livo-Africa/accountbot/internal/models"
)

// Bot pumps Telegram updates through the engine.
type Bot struct {
	api      *tgbotapi.BotAPI
	engine   *engine.Engine
	username string
	log      zerolog.Logger
}

// New authenticates against the Bot API. An empty username falls back to
// the authenticated bot's own.
func New(token, username string, eng *engine.Engine, log zerolog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	if username == "" {
		username = api.Self.UserName
	}
	return &Bot{
		api:      api,
		engine:   eng,
		username: strings.TrimPrefix(username, "@"),
		log:      log,
	}, nil
}

// knownBare lists first words that address the bot without a prefix.
var knownBare = map[string]bool{
	"balance": true, "today": true, "week": true, "month": true,
	"categories": true, "list": true, "export": true, "chart": true,
	"show_prices": true, "budgets": true, "budget_summary": true,
	"help": true, "commands": true, "menu": true,
	"tutorial": true, "start": true,
	"goal": true, "goal_status": true,
	"delete": true, "delete_budget": true, "forget": true,
	"price_check": true, "price": true, "record": true,
}

// Gate decides whether an inbound message is addressed to the bot and
// returns the text to dispatch. Private chats pass everything and channels
// nothing; groups need a '+'/'/' prefix, a known bare keyword, an
// @username mention (stripped before dispatch), or a numeric reply while
// the sender has a correction session open.
func Gate(m *tgbotapi.Message, username string, hasSession func(int64) bool) (string, bool) {
	if m == nil || m.Chat == nil || m.Chat.IsChannel() {
		return "", false
	}
	text := strings.TrimSpace(m.Text)
	if m.Chat.IsPrivate() {
		return text, true
	}
	if text == "" {
		return "", false
	}
	if username != "" {
		mention := "@" + strings.ToLower(username)
		if idx := strings.Index(strings.ToLower(text), mention); idx >= 0 {
			cleaned := text[:idx] + text[idx+len(mention):]
			return strings.Join(strings.Fields(cleaned), " "), true
		}
	}
	if strings.HasPrefix(text, "+") || strings.HasPrefix(text, "/") {
		return text, true
	}
	if knownBare[strings.ToLower(strings.Fields(text)[0])] {
		return text, true
	}
	if _, ok := intent.NumericReply(text); ok && m.From != nil && hasSession != nil && hasSession(m.From.ID) {
		return text, true
	}
	return "", false
}

// inbound converts a Telegram message into the engine's shape. Users
// without a public @username are identified by their display name.
func inbound(m *tgbotapi.Message, text string) models.Message {
	msg := models.Message{Text: text, ChatID: m.Chat.ID, ChatType: m.Chat.Type}
	if m.From != nil {
		msg.UserID = m.From.ID
		msg.UserName = m.From.UserName
		if msg.UserName == "" {
			msg.UserName = strings.TrimSpace(m.From.FirstName + " " + m.From.LastName)
		}
	}
	return msg
}

// Run long-polls for updates until ctx is canceled.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)
	b.log.Info().Str("username", b.username).Msg("long-polling for updates")
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.HandleUpdate(ctx, update)
		}
	}
}

// HandleUpdate gates and dispatches one update. Shared by the long-poll
// loop and the webhook entrypoint.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	m := update.Message
	if m == nil {
		return
	}
	text, ok := Gate(m, b.username, b.engine.HasOpenSession)
	if !ok {
		return
	}
	msg := inbound(m, text)
	b.log.Debug().
		Int64("chat", msg.ChatID).
		Str("user", msg.UserName).
		Str("text", text).
		Msg("inbound message")
	reply := b.engine.Dispatch(ctx, msg)
	if err := b.send(m.Chat.ID, reply); err != nil {
		b.log.Error().Err(err).Int64("chat", m.Chat.ID).Msg("send failed")
	}
}

// send delivers the reply text and any attached document.
func (b *Bot) send(chatID int64, reply models.Reply) error {
	if reply.Text != "" {
		msg := tgbotapi.NewMessage(chatID, reply.Text)
		msg.ParseMode = tgbotapi.ModeMarkdown
		if _, err := b.api.Send(msg); err != nil {
			// Markdown chokes on unbalanced markers in user text; retry plain.
			msg.ParseMode = ""
			if _, err := b.api.Send(msg); err != nil {
				return err
			}
		}
	}
	if reply.Document != nil {
		doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
			Name:  reply.Document.Filename,
			Bytes: reply.Document.Payload,
		})
		if _, err := b.api.Send(doc); err != nil {
			return err
		}
	}
	return nil
}
