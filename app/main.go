package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rbhz/wr-dictionary/app/api"
	"github.com/rbhz/wr-dictionary/app/bot"
	"github.com/rbhz/wr-dictionary/app/clients/wordreference"
	"github.com/rbhz/wr-dictionary/app/db"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog"
	log "github.com/rs/zerolog/log"
	bolt "go.etcd.io/bbolt"
)

type Opts struct {
	APIKey    string        `long:"wr-key" env:"WR_API_KEY" required:"true" description:"WordReference API key"`
	Timeout   time.Duration `long:"timeout" env:"WR_TIMEOUT" default:"10s" description:"WordReference request timeout"`
	Debug     bool          `long:"debug" env:"DEBUG" description:"Enable debug logging"`
	BotToken  string        `long:"bot-token" env:"BOT_TOKEN" description:"Telegram bot token"`
	BoltDB    string        `long:"boltdb" env:"BOLTDB" default:"./dict.data" description:"Path to BoltDB"`
	RedisURL  string        `long:"redis" env:"REDIS_URL" description:"Redis database URL"`
	JWTSecret string        `long:"jwt" env:"JWT_SECRET" description:"JWT secret"`
	Port      int           `long:"port" env:"PORT" default:"8080" description:"Port to listen on"`

	Args struct {
		From string `positional-arg-name:"from" description:"Source language code"`
		To   string `positional-arg-name:"to" description:"Target language code"`
		Term string `positional-arg-name:"term" description:"Term to look up"`
	} `positional-args:"yes"`
}

func main() {
	var opts Opts
	if _, err := flags.Parse(&opts); err != nil {
		if flags.WroteHelp(err) {
			return
		}
		os.Exit(2)
	}
	setupLog(opts.Debug)

	client, err := wordreference.NewClient(
		opts.APIKey,
		wordreference.WithHTTPClient(&http.Client{Timeout: opts.Timeout}),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create WordReference client")
	}

	if opts.Args.From != "" {
		if err := lookup(client, opts); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}
	serve(client, opts)
}

func setupLog(debug bool) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

// lookup runs a single search and prints result
func lookup(client *wordreference.Client, opts Opts) error {
	if opts.Args.To == "" || opts.Args.Term == "" {
		return fmt.Errorf("usage: wr-dictionary [OPTIONS] <from> <to> <term>")
	}
	result, err := client.Search(context.Background(), opts.Args.From, opts.Args.To, opts.Args.Term)
	if err != nil {
		return err
	}
	fmt.Println(result.String())
	return nil
}

func serve(client *wordreference.Client, opts Opts) {
	if opts.BotToken == "" || opts.JWTSecret == "" {
		log.Fatal().Msg("--bot-token and --jwt are required to serve")
	}
	storage, closeStorage := getStorage(opts)
	defer closeStorage()

	// Start API
	go func() {
		api := api.NewServer(storage, client, opts.BotToken, opts.JWTSecret)
		if err := api.Run(opts.Port); err != nil {
			log.Fatal().Err(err).Msg("failed to run API server")
		}
	}()

	// initialize Telegram bot
	b, err := bot.NewTelegramBot(opts.BotToken, storage, client, []bot.Handler{
		bot.UserHandler{},
		bot.StartHandler{},
		// Settings
		bot.LanguagesHandler{},
		bot.PairHandler{},
		// Dictionary
		bot.HistoryHandler{},
		bot.RemoveHandler{},
		bot.WordHandler{},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telegram bot")
	}
	b.Start()
}

func getStorage(opts Opts) (db.Storage, func()) {
	if opts.RedisURL != "" {
		redisStorage, err := db.NewRedisStorage(opts.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create redis client")
		}
		return redisStorage, func() {
			if err := redisStorage.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close redis client")
			}
		}
	}
	boltDB, err := bolt.Open(opts.BoltDB, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create boltDB database")
	}
	boltStorage, err := db.NewBoltStorage(boltDB)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create bolt storage")
	}
	return boltStorage, func() {
		if err := boltDB.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close boltDB database")
		}
	}
}
