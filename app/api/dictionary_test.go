package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/rbhz/wr-dictionary/app/clients/wordreference"
	"github.com/rbhz/wr-dictionary/app/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doRequest(t *testing.T, method string, url string, auth bool) *http.Response {
	req, err := http.NewRequest(method, url, nil)
	require.NoError(t, err)
	if auth {
		req.Header.Set("Authorization", getTestJWT())
	}
	r, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { r.Body.Close() })
	return r
}

func checkUnauthorized(t *testing.T, r *http.Response) {
	assert.Equal(t, http.StatusUnauthorized, r.StatusCode)
	body, err := io.ReadAll(r.Body)
	require.NoError(t, err)
	assert.Equal(t, "unauthorized", string(body))
}

func TestGetLanguages(t *testing.T) {
	ts, cancel := getTestServer(nil, nil)
	defer cancel()
	r := doRequest(t, http.MethodGet, ts.URL+"/api/v1/languages", false)

	assert.Equal(t, http.StatusOK, r.StatusCode)
	assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
	var languages []Language
	require.NoError(t, json.NewDecoder(r.Body).Decode(&languages))
	require.Len(t, languages, len(wordreference.Languages))
	assert.Equal(t, Language{Code: "ar", Name: "Arabic"}, languages[0])
	assert.Equal(t, Language{Code: "zh", Name: "Chinese"}, languages[len(languages)-1])
}

func TestSearch(t *testing.T) {
	const path = "/api/v1/search/it/en/ciao"
	t.Run("success", func(t *testing.T) {
		searcher := &stubSearcher{result: getSearchResult()}
		storage := db.NewInMemoryStorage()
		ts, cancel := getTestServer(storage, searcher)
		defer cancel()
		r := doRequest(t, http.MethodGet, ts.URL+path, true)

		assert.Equal(t, http.StatusOK, r.StatusCode)
		var result wordreference.SearchResult
		require.NoError(t, json.NewDecoder(r.Body).Decode(&result))
		assert.Equal(t, getSearchResult(), result)
		assert.Equal(t, []string{"it/en/ciao"}, searcher.Calls())

		items, err := storage.GetUserDictionary(db.UserID(testUserID))
		require.NoError(t, err)
		assert.Len(t, items, 0)
	})
	t.Run("escaped term", func(t *testing.T) {
		searcher := &stubSearcher{result: getSearchResult()}
		ts, cancel := getTestServer(nil, searcher)
		defer cancel()
		r := doRequest(t, http.MethodGet, ts.URL+"/api/v1/search/it/en/a%2Fb", true)
		assert.Equal(t, http.StatusOK, r.StatusCode)
		r = doRequest(t, http.MethodGet, ts.URL+"/api/v1/search/en/it/ice%20cream", true)
		assert.Equal(t, http.StatusOK, r.StatusCode)
		r = doRequest(t, http.MethodGet, ts.URL+"/api/v1/search/en/it/100%25", true)
		assert.Equal(t, http.StatusOK, r.StatusCode)
		assert.Equal(t, []string{"it/en/a/b", "en/it/ice cream", "en/it/100%"}, searcher.Calls())
	})
	errorCases := []struct {
		name   string
		err    error
		status int
	}{
		{"unsupported language", fmt.Errorf("%w: source language %q", wordreference.ErrUnsupportedLanguage, "xx"), http.StatusBadRequest},
		{"no entry", wordreference.ErrNoEntryFound, http.StatusNotFound},
		{"transport", fmt.Errorf("%w: %w", wordreference.ErrTransport, &wordreference.StatusError{StatusCode: 500}), http.StatusBadGateway},
		{"malformed response", wordreference.ErrMalformedResponse, http.StatusBadGateway},
		{"malformed payload", wordreference.ErrMalformedPayload, http.StatusBadGateway},
		{"unexpected", errors.New("unexpected"), http.StatusInternalServerError},
	}
	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			ts, cancel := getTestServer(nil, &stubSearcher{err: tc.err})
			defer cancel()
			r := doRequest(t, http.MethodGet, ts.URL+path, true)
			assert.Equal(t, tc.status, r.StatusCode)
		})
	}
	t.Run("unauthorized", func(t *testing.T) {
		searcher := &stubSearcher{}
		ts, cancel := getTestServer(nil, searcher)
		defer cancel()
		checkUnauthorized(t, doRequest(t, http.MethodGet, ts.URL+path, false))
		assert.Empty(t, searcher.Calls())
	})
}

func TestGetUserDictionary(t *testing.T) {
	const path = "/api/v1/dictionary"
	t.Run("success", func(t *testing.T) {
		storage := db.NewInMemoryStorage()
		ts, cancel := getTestServer(storage, nil)
		defer cancel()
		created := time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC)
		item1 := db.NewUserDictionaryItem(db.UserID(testUserID), "it", "en", "ciao", getSearchResult())
		item1.Created = created.Add(time.Hour)
		item2 := db.NewUserDictionaryItem(db.UserID(testUserID), "it", "en", "casa", getSearchResult())
		item2.Created = created
		other := db.NewUserDictionaryItem(db.UserID(testUserID+1), "it", "en", "casa", getSearchResult())
		for _, item := range []db.UserDictionaryItem{item1, item2, other} {
			require.NoError(t, storage.SaveUserItem(item))
		}

		r := doRequest(t, http.MethodGet, ts.URL+path, true)
		assert.Equal(t, http.StatusOK, r.StatusCode)
		var items []db.UserDictionaryItem
		require.NoError(t, json.NewDecoder(r.Body).Decode(&items))
		assert.Equal(t, []db.UserDictionaryItem{item2, item1}, items)
	})
	t.Run("empty", func(t *testing.T) {
		ts, cancel := getTestServer(nil, nil)
		defer cancel()
		r := doRequest(t, http.MethodGet, ts.URL+path, true)

		assert.Equal(t, http.StatusOK, r.StatusCode)
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, `[]`, string(body))
	})
	t.Run("storage error", func(t *testing.T) {
		ts, cancel := getTestServer(ErrorStorage{db.NewInMemoryStorage()}, nil)
		defer cancel()
		r := doRequest(t, http.MethodGet, ts.URL+path, true)
		assert.Equal(t, http.StatusInternalServerError, r.StatusCode)
	})
	t.Run("unauthorized", func(t *testing.T) {
		ts, cancel := getTestServer(nil, nil)
		defer cancel()
		checkUnauthorized(t, doRequest(t, http.MethodGet, ts.URL+path, false))
	})
}

func TestSaveWord(t *testing.T) {
	const path = "/api/v1/dictionary/it/en/ciao"
	t.Run("success", func(t *testing.T) {
		storage := db.NewInMemoryStorage()
		searcher := &stubSearcher{result: getSearchResult()}
		ts, cancel := getTestServer(storage, searcher)
		defer cancel()
		r := doRequest(t, http.MethodPost, ts.URL+path, true)

		assert.Equal(t, http.StatusCreated, r.StatusCode)
		var item db.UserDictionaryItem
		require.NoError(t, json.NewDecoder(r.Body).Decode(&item))
		assert.NotEmpty(t, item.ID)
		assert.Equal(t, db.UserID(testUserID), item.User)
		assert.Equal(t, "it", item.From)
		assert.Equal(t, "en", item.To)
		assert.Equal(t, "ciao", item.Term)
		assert.Equal(t, getSearchResult(), item.Result())
		assert.Equal(t, []string{"it/en/ciao"}, searcher.Calls())

		saved, err := storage.GetUserItem(db.UserID(testUserID), item.ID)
		require.NoError(t, err)
		assert.Equal(t, item.Term, saved.Term)
	})
	t.Run("escaped term", func(t *testing.T) {
		storage := db.NewInMemoryStorage()
		searcher := &stubSearcher{result: getSearchResult()}
		ts, cancel := getTestServer(storage, searcher)
		defer cancel()
		r := doRequest(t, http.MethodPost, ts.URL+"/api/v1/dictionary/it/en/a%2Fb", true)

		assert.Equal(t, http.StatusCreated, r.StatusCode)
		assert.Equal(t, []string{"it/en/a/b"}, searcher.Calls())
		items, err := storage.GetUserDictionary(db.UserID(testUserID))
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "a/b", items[0].Term)
	})
	t.Run("search error", func(t *testing.T) {
		storage := db.NewInMemoryStorage()
		ts, cancel := getTestServer(storage, &stubSearcher{err: wordreference.ErrNoEntryFound})
		defer cancel()
		r := doRequest(t, http.MethodPost, ts.URL+path, true)

		assert.Equal(t, http.StatusNotFound, r.StatusCode)
		items, err := storage.GetUserDictionary(db.UserID(testUserID))
		require.NoError(t, err)
		assert.Len(t, items, 0)
	})
	t.Run("storage error", func(t *testing.T) {
		ts, cancel := getTestServer(ErrorStorage{db.NewInMemoryStorage()}, nil)
		defer cancel()
		r := doRequest(t, http.MethodPost, ts.URL+path, true)
		assert.Equal(t, http.StatusInternalServerError, r.StatusCode)
	})
	t.Run("unauthorized", func(t *testing.T) {
		storage := db.NewInMemoryStorage()
		ts, cancel := getTestServer(storage, nil)
		defer cancel()
		checkUnauthorized(t, doRequest(t, http.MethodPost, ts.URL+path, false))
		items, err := storage.GetUserDictionary(db.UserID(testUserID))
		require.NoError(t, err)
		assert.Len(t, items, 0)
	})
}

func TestDeleteWord(t *testing.T) {
	const path = "/api/v1/dictionary/"
	t.Run("success", func(t *testing.T) {
		storage := db.NewInMemoryStorage()
		ts, cancel := getTestServer(storage, nil)
		defer cancel()
		item := db.NewUserDictionaryItem(db.UserID(testUserID), "it", "en", "ciao", getSearchResult())
		require.NoError(t, storage.SaveUserItem(item))

		r := doRequest(t, http.MethodDelete, ts.URL+path+item.ID, true)
		assert.Equal(t, http.StatusNoContent, r.StatusCode)
		_, err := storage.GetUserItem(db.UserID(testUserID), item.ID)
		assert.ErrorIs(t, err, db.ErrNotFound)
	})
	t.Run("other user item", func(t *testing.T) {
		storage := db.NewInMemoryStorage()
		ts, cancel := getTestServer(storage, nil)
		defer cancel()
		item := db.NewUserDictionaryItem(db.UserID(testUserID+1), "it", "en", "ciao", getSearchResult())
		require.NoError(t, storage.SaveUserItem(item))

		r := doRequest(t, http.MethodDelete, ts.URL+path+item.ID, true)
		assert.Equal(t, http.StatusNotFound, r.StatusCode)
		_, err := storage.GetUserItem(item.User, item.ID)
		assert.NoError(t, err)
	})
	t.Run("storage error", func(t *testing.T) {
		ts, cancel := getTestServer(ErrorStorage{db.NewInMemoryStorage()}, nil)
		defer cancel()
		r := doRequest(t, http.MethodDelete, ts.URL+path+"id1", true)
		assert.Equal(t, http.StatusInternalServerError, r.StatusCode)
	})
	t.Run("unauthorized", func(t *testing.T) {
		ts, cancel := getTestServer(nil, nil)
		defer cancel()
		checkUnauthorized(t, doRequest(t, http.MethodDelete, ts.URL+path+"id1", false))
	})
}
