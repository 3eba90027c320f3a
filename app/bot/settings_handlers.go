package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/rbhz/wr-dictionary/app/clients/wordreference"
	"github.com/rbhz/wr-dictionary/app/db"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
)

// LanguagesHandler handles /languages command
type LanguagesHandler struct {
	neverPassthrough
}

// Match returns true if update is /languages command
func (h LanguagesHandler) Match(u tgbotapi.Update) bool {
	return u.Message != nil && u.Message.Command() == "languages"
}

// Handle sends supported languages list
func (h LanguagesHandler) Handle(ctx context.Context, b Bot, u tgbotapi.Update) {
	_, _ = b.Send(tgbotapi.NewMessage(u.Message.Chat.ID, languagesText()))
}

func languagesText() string {
	lines := []string{"Supported languages:"}
	for _, code := range wordreference.LanguageCodes() {
		lines = append(lines, fmt.Sprintf("%s: %s", code, wordreference.Languages[code]))
	}
	return strings.Join(lines, "\n")
}

// PairHandler handles /pair command
type PairHandler struct {
	neverPassthrough
}

// Match returns true if update is /pair command
func (h PairHandler) Match(u tgbotapi.Update) bool {
	return u.Message != nil && u.Message.Command() == "pair"
}

// parsePair validates /pair arguments
func parsePair(args string) (from string, to string, err error) {
	fields := strings.Fields(strings.ToLower(args))
	if len(fields) != 2 {
		return "", "", fmt.Errorf("expected two language codes, got %d", len(fields))
	}
	for _, code := range fields {
		if !wordreference.IsSupported(code) {
			return "", "", fmt.Errorf("%w: %q", wordreference.ErrUnsupportedLanguage, code)
		}
	}
	return fields[0], fields[1], nil
}

// Handle saves language pair to user config
func (h PairHandler) Handle(ctx context.Context, b Bot, u tgbotapi.Update) {
	user := userFromContext(ctx, u)
	chatID := u.Message.Chat.ID
	if strings.TrimSpace(u.Message.CommandArguments()) == "" {
		from, to := user.Pair()
		_, _ = b.Send(tgbotapi.NewMessage(chatID, fmt.Sprintf(
			"Current language pair: %s → %s\nUsage: /pair <from> <to>, e.g. /pair it en", from, to,
		)))
		return
	}
	from, to, err := parsePair(u.Message.CommandArguments())
	if err != nil {
		_, _ = b.Send(tgbotapi.NewMessage(chatID, fmt.Sprintf("Invalid language pair: %v\nSee /languages", err)))
		return
	}
	// user failed to load, saving would overwrite stored one
	if _, ok := ctx.Value(ctxUserKey).(db.User); !ok {
		log.Error().Int64("user", int64(user.ID)).Msg("no loaded user to save language pair")
		_, _ = b.Send(tgbotapi.NewMessage(chatID, "Sorry, failed to save language pair"))
		return
	}
	user.Config.From, user.Config.To = from, to
	if err := b.DB().SaveUser(user); err != nil {
		log.Error().Err(err).Int64("user", int64(user.ID)).Msg("failed to save user")
		_, _ = b.Send(tgbotapi.NewMessage(chatID, "Sorry, failed to save language pair"))
		return
	}
	_, _ = b.Send(tgbotapi.NewMessage(chatID, fmt.Sprintf("Language pair set: %s → %s", from, to)))
}
