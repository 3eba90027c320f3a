package bot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rbhz/wr-dictionary/app/clients/wordreference"
	"github.com/rbhz/wr-dictionary/app/db"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
)

// searchErrorText returns user facing message for search error
func searchErrorText(term string, err error) string {
	switch {
	case errors.Is(err, wordreference.ErrNoEntryFound):
		return fmt.Sprintf("Sorry, no entry found for %q", term)
	case errors.Is(err, wordreference.ErrUnsupportedLanguage):
		return "Sorry, this language pair is not supported. Change it with /pair, see /languages"
	default:
		return "Sorry, dictionary is unavailable right now, try again later"
	}
}

func removeKeyboard(itemID string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Remove", fmt.Sprintf("%v|%v", callbackIDRemove, itemID)),
		),
	)
}

// WordHandler handles term lookups
type WordHandler struct {
	neverPassthrough
}

// Match returns true if message is a text
func (h WordHandler) Match(u tgbotapi.Update) bool {
	return u.Message != nil && u.Message.Text != "" && !u.Message.IsCommand()
}

// Handle looks term up, sends result to user and saves it to history
func (h WordHandler) Handle(ctx context.Context, b Bot, u tgbotapi.Update) {
	chatID := u.Message.Chat.ID
	term := strings.ToLower(strings.TrimSpace(u.Message.Text))
	user := userFromContext(ctx, u)
	from, to := user.Pair()

	result, err := b.Searcher().Search(ctx, from, to, term)
	if err != nil {
		if !errors.Is(err, wordreference.ErrNoEntryFound) && !errors.Is(err, wordreference.ErrUnsupportedLanguage) {
			log.Error().Err(err).Str("term", term).Str("pair", wordreference.Pair(from, to)).Msg("failed to search term")
		}
		_, _ = b.Send(tgbotapi.NewMessage(chatID, searchErrorText(term, err)))
		return
	}

	text, err := GetResultMessageText(from, to, term, result)
	if err != nil {
		log.Error().Err(err).Str("term", term).Msg("failed to render result")
		return
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true

	item := db.NewUserDictionaryItem(user.ID, from, to, term, result)
	if err := b.DB().SaveUserItem(item); err != nil {
		log.Error().
			Err(err).
			Str("term", term).
			Int64("user", int64(user.ID)).
			Msg("failed to save user item")
	} else {
		msg.ReplyMarkup = removeKeyboard(item.ID)
	}
	_, _ = b.Send(msg)
}

// RemoveHandler removes item from user history
type RemoveHandler struct {
	neverPassthrough
}

// Match returns true if update is remove callback
func (h RemoveHandler) Match(u tgbotapi.Update) bool {
	return u.CallbackQuery != nil && strings.HasPrefix(u.CallbackQuery.Data, callbackIDRemove+"|")
}

// Handle deletes item and drops the button from message
func (h RemoveHandler) Handle(ctx context.Context, b Bot, u tgbotapi.Update) {
	query := u.CallbackQuery
	itemID := strings.TrimPrefix(query.Data, callbackIDRemove+"|")
	userID := db.UserID(query.From.ID)
	if err := b.DB().DeleteUserItem(userID, itemID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			_, _ = b.SendCallback(tgbotapi.NewCallback(query.ID, "Already removed"))
			return
		}
		log.Error().Err(err).Int64("user", int64(userID)).Str("item", itemID).Msg("failed to remove user item")
		_, _ = b.SendCallback(tgbotapi.NewCallback(query.ID, "Failed to remove"))
		return
	}
	_, _ = b.SendCallback(tgbotapi.NewCallback(query.ID, "Removed from history"))
	if query.Message != nil && query.Message.Chat != nil {
		_, _ = b.Send(tgbotapi.NewEditMessageReplyMarkup(
			query.Message.Chat.ID,
			query.Message.MessageID,
			tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}},
		))
	}
}

// HistoryHandler handles /history command
type HistoryHandler struct {
	neverPassthrough
}

// Match returns true if update is /history command
func (h HistoryHandler) Match(u tgbotapi.Update) bool {
	return u.Message != nil && u.Message.Command() == "history"
}

// GetHistoryMessageText renders latest user lookups, newest last
func GetHistoryMessageText(items []db.UserDictionaryItem) (string, error) {
	if len(items) > maxHistory {
		items = items[len(items)-maxHistory:]
	}
	buf := &bytes.Buffer{}
	if err := historyTmpl.Execute(buf, map[string]interface{}{"Items": items}); err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}
	return buf.String(), nil
}

// Handle sends recent lookups
func (h HistoryHandler) Handle(ctx context.Context, b Bot, u tgbotapi.Update) {
	chatID := u.Message.Chat.ID
	userID := db.UserID(u.Message.From.ID)
	items, err := b.DB().GetUserDictionary(userID)
	if err != nil {
		log.Error().Err(err).Int64("user", int64(userID)).Msg("failed to get user dictionary")
		_, _ = b.Send(tgbotapi.NewMessage(chatID, "Sorry, failed to load your history"))
		return
	}
	if len(items) == 0 {
		_, _ = b.Send(tgbotapi.NewMessage(chatID, "Your history is empty, send me a word!"))
		return
	}
	text, err := GetHistoryMessageText(items)
	if err != nil {
		log.Error().Err(err).Int64("user", int64(userID)).Msg("failed to render history")
		return
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	_, _ = b.Send(msg)
}
