package bot

import (
	"context"
	"time"

	"github.com/rbhz/wr-dictionary/app/db"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const updateTimeout = 15 * time.Second

// TelegramBot handles Telegram API integration and updates handling
type TelegramBot struct {
	UserName string
	api      *tgbotapi.BotAPI
	db       db.Storage
	searcher Searcher
	handlers []Handler
}

func (b *TelegramBot) processUpdate(u tgbotapi.Update) {
	ctx, cancel := context.WithTimeout(context.Background(), updateTimeout)
	defer cancel()
	dispatch(ctx, b, b.handlers, u)
}

func (b *TelegramBot) Start() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	for u := range updates {
		b.processUpdate(u)
	}
}

func (b *TelegramBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	message, err := b.api.Send(c)
	if err != nil {
		log.Error().Err(err).Msg("failed to send")
	}
	return message, err
}

func (b *TelegramBot) SendCallback(c tgbotapi.CallbackConfig) (*tgbotapi.APIResponse, error) {
	resp, err := b.api.Request(c)
	if err != nil {
		log.Error().Err(err).Msg("failed to answer callback")
	}
	return resp, err
}

func (b *TelegramBot) DB() db.Storage {
	return b.db
}

func (b *TelegramBot) Searcher() Searcher {
	return b.searcher
}

func NewTelegramBot(token string, storage db.Storage, searcher Searcher, handlers []Handler) (*TelegramBot, error) {
	botAPI, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize bot")
	}
	log.Info().Str("username", botAPI.Self.UserName).Msg("telegram bot initialized")
	return &TelegramBot{
		UserName: botAPI.Self.UserName,
		api:      botAPI,
		db:       storage,
		searcher: searcher,
		handlers: handlers,
	}, nil
}
