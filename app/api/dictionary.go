package api

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/rbhz/wr-dictionary/app/clients/wordreference"
	"github.com/rbhz/wr-dictionary/app/db"
	"github.com/rs/zerolog/log"
)

// Language represents catalog entry in API response
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// dictionaryService implements methods for dictionary API
type dictionaryService struct {
	storage  db.Storage
	searcher Searcher
}

func userFromContext(w http.ResponseWriter, r *http.Request) (db.UserID, bool) {
	userID, ok := r.Context().Value(ctxUserIDKey).(db.UserID)
	if !ok {
		log.Error().Interface("user", r.Context().Value(ctxUserIDKey)).Msg("invalid user id in context")
		w.WriteHeader(http.StatusInternalServerError)
	}
	return userID, ok
}

// pathParam returns decoded URL parameter.
// chi matches on RawPath when request has one, leaving parameters escaped.
func pathParam(r *http.Request, name string) (string, error) {
	value := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return value, nil
	}
	return url.PathUnescape(value)
}

// searchParams returns decoded language pair and term of request
func searchParams(w http.ResponseWriter, r *http.Request) (from string, to string, term string, ok bool) {
	var err error
	if from, err = pathParam(r, "from"); err == nil {
		if to, err = pathParam(r, "to"); err == nil {
			term, err = pathParam(r, "term")
		}
	}
	if err != nil {
		writeText(w, http.StatusBadRequest, "invalid path")
		return "", "", "", false
	}
	return from, to, term, true
}

// writeSearchError maps search errors to response status
func writeSearchError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, wordreference.ErrUnsupportedLanguage):
		writeText(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, wordreference.ErrNoEntryFound):
		writeText(w, http.StatusNotFound, "no entry found")
	case errors.Is(err, wordreference.ErrTransport),
		errors.Is(err, wordreference.ErrMalformedResponse),
		errors.Is(err, wordreference.ErrMalformedPayload):
		log.Error().Err(err).Msg("dictionary lookup failed")
		writeText(w, http.StatusBadGateway, "dictionary unavailable")
	default:
		log.Error().Err(err).Msg("unexpected lookup error")
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// GetLanguages returns supported languages
func (d dictionaryService) GetLanguages(w http.ResponseWriter, r *http.Request) {
	codes := wordreference.LanguageCodes()
	languages := make([]Language, 0, len(codes))
	for _, code := range codes {
		languages = append(languages, Language{Code: code, Name: wordreference.Languages[code]})
	}
	writeJSON(w, http.StatusOK, languages)
}

// Search looks up a term without saving it
func (d dictionaryService) Search(w http.ResponseWriter, r *http.Request) {
	if _, ok := userFromContext(w, r); !ok {
		return
	}
	from, to, term, ok := searchParams(w, r)
	if !ok {
		return
	}
	result, err := d.searcher.Search(r.Context(), from, to, term)
	if err != nil {
		writeSearchError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// GetUserDictionary returns user lookup history
func (d dictionaryService) GetUserDictionary(w http.ResponseWriter, r *http.Request) {
	userID, ok := userFromContext(w, r)
	if !ok {
		return
	}
	dictionary, err := d.storage.GetUserDictionary(userID)
	if err != nil {
		log.Error().Err(err).Int64("user", int64(userID)).Msg("failed to get user dictionary")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, dictionary)
}

// SaveWord looks up a term and saves it to user history
func (d dictionaryService) SaveWord(w http.ResponseWriter, r *http.Request) {
	userID, ok := userFromContext(w, r)
	if !ok {
		return
	}
	from, to, term, ok := searchParams(w, r)
	if !ok {
		return
	}
	result, err := d.searcher.Search(r.Context(), from, to, term)
	if err != nil {
		writeSearchError(w, err)
		return
	}
	item := db.NewUserDictionaryItem(userID, from, to, term, result)
	if err := d.storage.SaveUserItem(item); err != nil {
		log.Error().Err(err).Int64("user", int64(userID)).Str("term", term).Msg("failed to save user item")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// DeleteWord removes item from user history
func (d dictionaryService) DeleteWord(w http.ResponseWriter, r *http.Request) {
	userID, ok := userFromContext(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	if err := d.storage.DeleteUserItem(userID, id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeText(w, http.StatusNotFound, "item not found")
			return
		}
		log.Error().Err(err).Int64("user", int64(userID)).Str("item", id).Msg("failed to delete user item")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
