package wordreference

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// response keys, matched exactly
const (
	keyTerm0                  = "term0"
	keyPrincipalTranslations  = "PrincipalTranslations"
	keyAdditionalTranslations = "AdditionalTranslations"
	keyOriginal               = "original"
	keyCompounds              = "Compounds"
)

// rawObject is a JSON object with undecoded values
type rawObject map[string]json.RawMessage

var errNotObject = errors.New("not an object")

// decodeObject decodes raw JSON object, null included
func decodeObject(raw json.RawMessage) (rawObject, error) {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, errNotObject
	}
	var obj rawObject
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, errNotObject
	}
	return obj, nil
}

// SearchResult holds translations found for a single search
type SearchResult struct {
	WebURL       string        `json:"url"`
	Translations []Translation `json:"translations"`
	Compounds    []Translation `json:"compounds"`
}

// String renders web URL followed by translations and compounds
func (r SearchResult) String() string {
	lines := make([]string, 0, len(r.Translations)+len(r.Compounds)+2)
	lines = append(lines, r.WebURL)
	for _, t := range r.Translations {
		lines = append(lines, t.String())
	}
	if len(r.Compounds) > 0 {
		lines = append(lines, "Compounds:")
		for _, t := range r.Compounds {
			lines = append(lines, t.String())
		}
	}
	return strings.Join(lines, "\n")
}
