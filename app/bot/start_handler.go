package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const startText = `Hi! Just send me a word and I will look it up on WordReference.
Current language pair: %s → %s

/pair <from> <to> - change language pair
/languages - list supported languages
/history - your recent lookups`

type StartHandler struct {
	neverPassthrough
}

func (h StartHandler) Match(u tgbotapi.Update) bool {
	return u.Message != nil && (u.Message.Command() == "start" || u.Message.Command() == "help")
}

func (h StartHandler) Handle(ctx context.Context, b Bot, u tgbotapi.Update) {
	from, to := userFromContext(ctx, u).Pair()
	_, _ = b.Send(tgbotapi.NewMessage(u.Message.Chat.ID, fmt.Sprintf(startText, from, to)))
}
