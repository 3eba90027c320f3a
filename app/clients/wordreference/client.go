package wordreference

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"

	"github.com/rs/zerolog/log"
)

const (
	defaultAPIURL = "http://api.wordreference.com"
	defaultWebURL = "http://www.wordreference.com"
)

// Client implements integration with WordReference API
// docs: http://www.wordreference.com/docs/api.aspx
type Client struct {
	apiKey string
	apiURL string
	webURL string
	client *http.Client
}

// Option configures Client
type Option func(*Client)

// WithHTTPClient sets HTTP client used for requests, e.g. one with timeout.
// Nil keeps the default client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.client = client
		}
	}
}

// WithBaseURLs overrides API and web hosts
func WithBaseURLs(apiURL string, webURL string) Option {
	return func(c *Client) {
		c.apiURL = apiURL
		c.webURL = webURL
	}
}

// NewClient creates client with default HTTP client
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingCredential
	}
	c := &Client{
		apiKey: apiKey,
		apiURL: defaultAPIURL,
		webURL: defaultWebURL,
		client: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Search looks up term translations from one language to another
func (c *Client) Search(ctx context.Context, from string, to string, term string) (SearchResult, error) {
	var result SearchResult
	if !IsSupported(from) {
		return result, fmt.Errorf("%w: source language %q", ErrUnsupportedLanguage, from)
	}
	if !IsSupported(to) {
		return result, fmt.Errorf("%w: target language %q", ErrUnsupportedLanguage, to)
	}

	pair := Pair(from, to)
	escapedTerm := url.PathEscape(term)
	apiURL := fmt.Sprintf("%s/%s/json/%s/%s", c.apiURL, url.PathEscape(c.apiKey), pair, escapedTerm)
	webURL := fmt.Sprintf("%s/%s/%s", c.webURL, pair, escapedTerm)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return result, fmt.Errorf("%w: create request: %w", ErrTransport, err)
	}
	log.Debug().Str("pair", pair).Str("term", term).Msg("wordreference request")
	response, err := c.client.Do(req)
	if err != nil {
		return result, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return result, fmt.Errorf("%w: read response body: %w", ErrTransport, err)
	}
	if response.StatusCode < 200 || response.StatusCode > 299 {
		return result, fmt.Errorf("%w: %w", ErrTransport, &StatusError{
			StatusCode: response.StatusCode,
			Body:       string(body),
		})
	}

	if !json.Valid(body) {
		return result, fmt.Errorf("%w: invalid JSON", ErrMalformedResponse)
	}
	var data rawObject
	if err := json.Unmarshal(body, &data); err != nil {
		// valid JSON of other type, there is no term0 in it
		return result, ErrNoEntryFound
	}
	term0, ok := data[keyTerm0]
	if !ok {
		return result, ErrNoEntryFound
	}

	translations, err := translationsFromResponse(term0)
	if err != nil {
		return result, err
	}
	compounds, err := compoundsFromResponse(data)
	if err != nil {
		return result, err
	}
	return SearchResult{
		WebURL:       webURL,
		Translations: translations,
		Compounds:    compounds,
	}, nil
}

// translationsFromResponse returns principal translations followed by additional ones
func translationsFromResponse(term0 json.RawMessage) ([]Translation, error) {
	groups, err := decodeObject(term0)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformedResponse, keyTerm0, err)
	}
	principal, err := fromGroup(groups, keyPrincipalTranslations)
	if err != nil {
		return nil, err
	}
	additional, err := fromGroup(groups, keyAdditionalTranslations)
	if err != nil {
		return nil, err
	}
	return append(principal, additional...), nil
}

func compoundsFromResponse(data rawObject) ([]Translation, error) {
	original, ok := data[keyOriginal]
	if !ok {
		return []Translation{}, nil
	}
	groups, err := decodeObject(original)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformedResponse, keyOriginal, err)
	}
	return fromGroup(groups, keyCompounds)
}

// fromGroup converts entries of named group ordered by key.
// Keys are compared as strings, so "10" goes before "2".
// Missing group gives empty list.
func fromGroup(groups rawObject, name string) ([]Translation, error) {
	raw, ok := groups[name]
	if !ok {
		return []Translation{}, nil
	}
	group, err := decodeObject(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformedResponse, name, err)
	}
	keys := make([]string, 0, len(group))
	for key := range group {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	result := make([]Translation, 0, len(keys))
	for _, key := range keys {
		var p TermPayload
		if err := p.UnmarshalJSON(group[key]); err != nil {
			return nil, fmt.Errorf("%s entry %q: %w", name, key, err)
		}
		t, err := NewTranslation(p)
		if err != nil {
			return nil, fmt.Errorf("%s entry %q: %w", name, key, err)
		}
		result = append(result, t)
	}
	return result, nil
}
