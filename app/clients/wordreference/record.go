package wordreference

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Term holds a single term with its grammar details
type Term struct {
	Text         string `json:"term"`
	PartOfSpeech string `json:"POS"`
	Usage        string `json:"usage"`
	Sense        string `json:"sense"`
}

// TermPayload is a raw translation entry as returned by API.
// Nil fields were absent in the response.
type TermPayload struct {
	OriginalTerm      *Term   `json:"OriginalTerm"`
	FirstTranslation  *Term   `json:"FirstTranslation"`
	SecondTranslation *Term   `json:"SecondTranslation"`
	ThirdTranslation  *Term   `json:"ThirdTranslation"`
	FourthTranslation *Term   `json:"FourthTranslation"`
	Note              *string `json:"Note"`
}

// UnmarshalJSON decodes payload matching field names exactly.
// A null field is the same as an absent one.
func (p *TermPayload) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}
	decoded := TermPayload{}
	terms := []struct {
		key string
		dst **Term
	}{
		{"OriginalTerm", &decoded.OriginalTerm},
		{"FirstTranslation", &decoded.FirstTranslation},
		{"SecondTranslation", &decoded.SecondTranslation},
		{"ThirdTranslation", &decoded.ThirdTranslation},
		{"FourthTranslation", &decoded.FourthTranslation},
	}
	for _, t := range terms {
		raw, ok := fields[t.key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, t.dst); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrMalformedPayload, t.key, err)
		}
	}
	if raw, ok := fields["Note"]; ok {
		if err := json.Unmarshal(raw, &decoded.Note); err != nil {
			return fmt.Errorf("%w: Note: %w", ErrMalformedPayload, err)
		}
	}
	*p = decoded
	return nil
}

// candidates returns translations up to the first missing one
func (p TermPayload) candidates() []Term {
	ordered := []*Term{p.FirstTranslation, p.SecondTranslation, p.ThirdTranslation, p.FourthTranslation}
	result := make([]Term, 0, len(ordered))
	for _, t := range ordered {
		if t == nil {
			break
		}
		result = append(result, *t)
	}
	return result
}

// Translation is a source term with its translations and usage note
type Translation struct {
	Original   Term   `json:"original"`
	Candidates []Term `json:"candidates"`
	Note       string `json:"note"`
}

// NewTranslation validates payload and creates Translation from it
func NewTranslation(p TermPayload) (Translation, error) {
	switch {
	case p.OriginalTerm == nil:
		return Translation{}, fmt.Errorf("%w: missing OriginalTerm", ErrMalformedPayload)
	case p.FirstTranslation == nil:
		return Translation{}, fmt.Errorf("%w: missing FirstTranslation", ErrMalformedPayload)
	case p.Note == nil:
		return Translation{}, fmt.Errorf("%w: missing Note", ErrMalformedPayload)
	}
	return Translation{
		Original:   *p.OriginalTerm,
		Candidates: p.candidates(),
		Note:       *p.Note,
	}, nil
}

// String renders translation for display.
// Usage is shown only for the original term.
func (t Translation) String() string {
	var b strings.Builder
	b.WriteString(t.Original.Text)
	if t.Original.PartOfSpeech != "" {
		b.WriteString(" [" + t.Original.PartOfSpeech + "]")
	}
	if t.Original.Usage != "" || t.Original.Sense != "" {
		b.WriteString(",")
	}
	if t.Original.Usage != "" {
		b.WriteString(" " + t.Original.Usage)
	}
	if t.Original.Sense != "" {
		b.WriteString(" (" + t.Original.Sense + ")")
	}

	for _, c := range t.Candidates {
		b.WriteString("\n\t" + c.Text)
		if c.PartOfSpeech != "" {
			b.WriteString(" [" + c.PartOfSpeech + "]")
		}
		if c.Sense != "" {
			b.WriteString(", (" + c.Sense + ")")
		}
	}

	if t.Note != "" {
		b.WriteString("\n\tNote: " + t.Note)
	}
	return b.String()
}
