package bot

import (
	"context"
	"errors"

	"github.com/rbhz/wr-dictionary/app/clients/wordreference"
	"github.com/rbhz/wr-dictionary/app/db"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
)

const callbackIDRemove = "rm"

type ctxKey string

const ctxUserKey ctxKey = "user"

type Handler interface {
	Handle(ctx context.Context, b Bot, u tgbotapi.Update)
	Passthrough(tgbotapi.Update) bool
	Match(u tgbotapi.Update) bool
}

// ContextHandler is a handler that extends context for the following handlers
type ContextHandler interface {
	Handler
	Context(ctx context.Context, b Bot, u tgbotapi.Update) context.Context
}

// Searcher looks up term translations
type Searcher interface {
	Search(ctx context.Context, from string, to string, term string) (wordreference.SearchResult, error)
}

// Bot describes bot for handlers
type Bot interface {
	Send(tgbotapi.Chattable) (tgbotapi.Message, error)
	SendCallback(tgbotapi.CallbackConfig) (*tgbotapi.APIResponse, error)
	DB() db.Storage
	Searcher() Searcher
}

// dispatch runs matching handlers until one of them stops the chain
func dispatch(ctx context.Context, b Bot, handlers []Handler, u tgbotapi.Update) {
	for _, handler := range handlers {
		if !handler.Match(u) {
			continue
		}
		if ch, ok := handler.(ContextHandler); ok {
			ctx = ch.Context(ctx, b, u)
		}
		handler.Handle(ctx, b, u)
		if !handler.Passthrough(u) {
			break
		}
	}
}

// neverPassthrough implements Passthrough with always false
type neverPassthrough struct{}

// Passthrough always returns false
func (h neverPassthrough) Passthrough(u tgbotapi.Update) bool {
	return false
}

// sender returns author of message or callback
func sender(u tgbotapi.Update) *tgbotapi.User {
	switch {
	case u.Message != nil:
		return u.Message.From
	case u.CallbackQuery != nil:
		return u.CallbackQuery.From
	}
	return nil
}

// UserHandler loads user from storage and puts it into context
type UserHandler struct{}

func (h UserHandler) Match(u tgbotapi.Update) bool {
	return sender(u) != nil
}

func (h UserHandler) Passthrough(u tgbotapi.Update) bool {
	return true
}

func (h UserHandler) Handle(ctx context.Context, b Bot, u tgbotapi.Update) {}

// Context adds stored user to context, creating it on first contact
func (h UserHandler) Context(ctx context.Context, b Bot, u tgbotapi.Update) context.Context {
	from := sender(u)
	user, err := b.DB().GetUser(db.UserID(from.ID))
	if err != nil {
		if !errors.Is(err, db.ErrNotFound) {
			log.Error().Err(err).Int64("user", from.ID).Msg("failed to get user")
			return ctx
		}
		user = db.User{
			ID:       db.UserID(from.ID),
			Username: from.UserName,
			Config:   db.UserConfig{From: db.DefaultFrom, To: db.DefaultTo},
		}
		if err := b.DB().SaveUser(user); err != nil {
			log.Error().Err(err).Int64("user", from.ID).Msg("failed to save user")
		}
	}
	return context.WithValue(ctx, ctxUserKey, user)
}

// userFromContext returns context user or a fresh one with default config
func userFromContext(ctx context.Context, u tgbotapi.Update) db.User {
	if user, ok := ctx.Value(ctxUserKey).(db.User); ok {
		return user
	}
	user := db.User{Config: db.UserConfig{From: db.DefaultFrom, To: db.DefaultTo}}
	if from := sender(u); from != nil {
		user.ID = db.UserID(from.ID)
		user.Username = from.UserName
	}
	return user
}
