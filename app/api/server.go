package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rbhz/wr-dictionary/app/clients/wordreference"
	"github.com/rbhz/wr-dictionary/app/db"
	"github.com/rs/zerolog/log"
)

type ctxKey string

const ctxUserIDKey ctxKey = "userID"

// Searcher looks up term translations
type Searcher interface {
	Search(ctx context.Context, from string, to string, term string) (wordreference.SearchResult, error)
}

type Server struct {
	storage db.Storage
	router  chi.Router
}

func (s *Server) Run(port int) error {
	return http.ListenAndServe(fmt.Sprintf(":%d", port), s.router)
}

func (s *Server) setJsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// writeJSON marshals value and writes it with given status
func writeJSON(w http.ResponseWriter, status int, value interface{}) {
	response, jerr := json.Marshal(value)
	if jerr != nil {
		log.Error().Err(jerr).Msg("failed to marshal response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(status)
	if _, err := w.Write(response); err != nil {
		log.Warn().Err(err).Msg("failed to write response")
	}
}

func writeText(w http.ResponseWriter, status int, text string) {
	w.WriteHeader(status)
	if _, err := w.Write([]byte(text)); err != nil {
		log.Warn().Err(err).Msg("failed to write response")
	}
}

func NewServer(storage db.Storage, searcher Searcher, tgToken string, jwtSecret string) *Server {
	s := &Server{storage: storage}
	dict := dictionaryService{storage: storage, searcher: searcher}
	auth := authService{telegramToken: tgToken, jwtSecret: []byte(jwtSecret)}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.setJsonContentType)
		r.Route("/auth", func(r chi.Router) {
			r.Get("/telegram", auth.TelegramRedirectHandler)
		})
		r.Get("/languages", dict.GetLanguages)
		r.Group(func(r chi.Router) {
			r.Use(auth.UserCtx)
			r.Get("/search/{from}/{to}/{term}", dict.Search)
			r.Route("/dictionary", func(r chi.Router) {
				r.Get("/", dict.GetUserDictionary)
				r.Post("/{from}/{to}/{term}", dict.SaveWord)
				r.Delete("/{id}", dict.DeleteWord)
			})
		})
	})

	s.router = r
	return s
}
