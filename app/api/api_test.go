package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/rbhz/wr-dictionary/app/clients/wordreference"
	"github.com/rbhz/wr-dictionary/app/db"
)

const (
	testTGToken   = "123123213:1231231312"
	testJWTSecret = "tokentokentokentoken"
	testUserID    = 1
)

// emptyHandler is a dummy handler for testing.
type emptyHandler struct{}

func (h *emptyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {}

// ErrorStorage is a dummy storage for testing storage error handling.
type ErrorStorage struct {
	*db.InMemoryStorage
}

func (d ErrorStorage) GetUserDictionary(db.UserID) ([]db.UserDictionaryItem, error) {
	return nil, errors.New("test")
}

func (d ErrorStorage) SaveUserItem(db.UserDictionaryItem) error {
	return errors.New("test")
}

func (d ErrorStorage) DeleteUserItem(db.UserID, string) error {
	return errors.New("test")
}

// stubSearcher returns fixed result and records requested lookups.
type stubSearcher struct {
	result wordreference.SearchResult
	err    error
	calls  []string
	mx     sync.Mutex
}

func (s *stubSearcher) Search(_ context.Context, from string, to string, term string) (wordreference.SearchResult, error) {
	s.mx.Lock()
	defer s.mx.Unlock()
	s.calls = append(s.calls, from+"/"+to+"/"+term)
	return s.result, s.err
}

func (s *stubSearcher) Calls() []string {
	s.mx.Lock()
	defer s.mx.Unlock()
	return append([]string(nil), s.calls...)
}

func getSearchResult() wordreference.SearchResult {
	return wordreference.SearchResult{
		WebURL: "http://www.wordreference.com/iten/ciao",
		Translations: []wordreference.Translation{{
			Original:   wordreference.Term{Text: "ciao", PartOfSpeech: "inter"},
			Candidates: []wordreference.Term{{Text: "hello", PartOfSpeech: "excl"}},
		}},
		Compounds: []wordreference.Translation{},
	}
}

// getTestServer returns a test server.
func getTestServer(storage db.Storage, searcher Searcher) (*httptest.Server, func()) {
	if storage == nil {
		storage = db.NewInMemoryStorage()
	}
	if searcher == nil {
		searcher = &stubSearcher{result: getSearchResult()}
	}

	server := NewServer(storage, searcher, testTGToken, testJWTSecret)
	srv := httptest.NewServer(server.router)
	return srv, srv.Close
}

// getTestJWT returns a test JWT signed with testJWTSecret
func getTestJWT() string {
	token, _ := (&authService{telegramToken: testTGToken, jwtSecret: []byte(testJWTSecret)}).createToken(testUserID)
	return "Bearer " + token
}
