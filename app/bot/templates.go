package bot

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/rbhz/wr-dictionary/app/clients/wordreference"
)

// limits keeping messages under Telegram length limit
const (
	maxTranslations = 10
	maxCompounds    = 5
	maxHistory      = 20
)

const searchResultTemplate = `<b>{{ .Term }}</b> ({{ .From }} → {{ .To }})
{{- range $t := .Translations }}
<pre>{{ $t.String }}</pre>
{{- end }}
{{- if .Compounds }}
<b>Compounds:</b>
{{- range $t := .Compounds }}
<pre>{{ $t.String }}</pre>
{{- end }}
{{- end }}
<a href="{{ .WebURL }}">WordReference</a>`

const historyTemplate = `<b>Recent lookups:</b>
{{- range $i := .Items }}
{{ $i.From }} → {{ $i.To }}: <a href="{{ $i.WebURL }}">{{ $i.Term }}</a>
{{- end }}`

var (
	searchResultTmpl = template.Must(template.New("result").Parse(searchResultTemplate))
	historyTmpl      = template.Must(template.New("history").Parse(historyTemplate))
)

func firstN(items []wordreference.Translation, n int) []wordreference.Translation {
	if len(items) > n {
		return items[:n]
	}
	return items
}

// GetResultMessageText renders search result as Telegram HTML
func GetResultMessageText(from string, to string, term string, result wordreference.SearchResult) (string, error) {
	buf := &bytes.Buffer{}
	err := searchResultTmpl.Execute(buf, map[string]interface{}{
		"From":         from,
		"To":           to,
		"Term":         term,
		"WebURL":       result.WebURL,
		"Translations": firstN(result.Translations, maxTranslations),
		"Compounds":    firstN(result.Compounds, maxCompounds),
	})
	if err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}
	return buf.String(), nil
}
