package db

import (
	"encoding/base64"
	"errors"
	"sort"
	"time"

	"github.com/rbhz/wr-dictionary/app/clients/wordreference"

	"github.com/google/uuid"
)

// UserID is a type for users ID
type UserID int64

// ErrNotFound is returned when object not found
var ErrNotFound error = errors.New("not found")

// default language pair for new users
const (
	DefaultFrom = "en"
	DefaultTo   = "it"
)

// GenerateID generates new uuid and encodes it to base64
func GenerateID() string {
	id := [16]byte(uuid.New())
	return base64.RawURLEncoding.EncodeToString(id[:])
}

// Storage defines method provided by database interfaces
type Storage interface {
	// GetUser returns user by ID
	GetUser(UserID) (User, error)
	// SaveUser saves user to DB
	SaveUser(User) error

	// GetUserItem returns item from user dictionary by item ID
	GetUserItem(UserID, string) (UserDictionaryItem, error)
	// SaveUserItem saves UserDictionaryItem
	SaveUserItem(UserDictionaryItem) error
	// DeleteUserItem removes item from user dictionary
	DeleteUserItem(UserID, string) error
	// GetUserDictionary returns user dictionary items, oldest first
	GetUserDictionary(UserID) ([]UserDictionaryItem, error)
}

// User holds user data
type User struct {
	ID       UserID
	IsAdmin  bool
	Username string
	Config   UserConfig
}

// UserConfig holds user config params
type UserConfig struct {
	From string
	To   string
}

// Pair returns user language pair, falling back to defaults
func (u User) Pair() (from string, to string) {
	from, to = u.Config.From, u.Config.To
	if from == "" {
		from = DefaultFrom
	}
	if to == "" {
		to = DefaultTo
	}
	return from, to
}

// UserDictionaryItem holds a single lookup saved by user
type UserDictionaryItem struct {
	ID           string
	User         UserID
	From         string
	To           string
	Term         string
	WebURL       string
	Translations []wordreference.Translation
	Compounds    []wordreference.Translation
	Created      time.Time
}

// NewUserDictionaryItem creates dictionary item from search result
func NewUserDictionaryItem(
	user UserID,
	from string,
	to string,
	term string,
	result wordreference.SearchResult,
) UserDictionaryItem {
	return UserDictionaryItem{
		ID:           GenerateID(),
		User:         user,
		From:         from,
		To:           to,
		Term:         term,
		WebURL:       result.WebURL,
		Translations: result.Translations,
		Compounds:    result.Compounds,
		Created:      time.Now().UTC(),
	}
}

// Result returns saved lookup as search result
func (i UserDictionaryItem) Result() wordreference.SearchResult {
	return wordreference.SearchResult{
		WebURL:       i.WebURL,
		Translations: i.Translations,
		Compounds:    i.Compounds,
	}
}

// sortItems orders items by creation time
func sortItems(items []UserDictionaryItem) {
	sort.SliceStable(items, func(i, j int) bool { return items[i].Created.Before(items[j].Created) })
}
