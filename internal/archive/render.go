package archive

import (
	"bytes"
	"fmt"
	"html"
	htmltemplate "html/template"
	"strings"
	"text/template"
)

// EscapeMode controls how user text is embedded into generated documents.
type EscapeMode string

const (
	// EscapeRaw embeds title and content verbatim, so submitted markup is
	// rendered by the browser. This is the historical behaviour.
	EscapeRaw EscapeMode = "raw"

	// EscapeHTML escapes title and content before embedding them.
	EscapeHTML EscapeMode = "escape"
)

// ParseEscapeMode maps a config value onto an EscapeMode.
func ParseEscapeMode(s string) (EscapeMode, error) {
	switch EscapeMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", EscapeRaw:
		return EscapeRaw, nil
	case EscapeHTML:
		return EscapeHTML, nil
	default:
		return "", fmt.Errorf("unknown escape mode %q", s)
	}
}

var documentTmpl = template.Must(template.New("document").Parse(`<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
  <meta charset="UTF-8" />
  <title>{{.Title}}</title>
</head>
<body>
  <h1>{{.Title}}</h1>
  <pre>{{.Content}}</pre>
</body>
</html>
`))

var indexTmpl = htmltemplate.Must(htmltemplate.New("index").Parse(`<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
  <meta charset="UTF-8" />
  <title>{{.Title}}</title>
</head>
<body>
  <h1>{{.Title}}</h1>
  <ul>
{{- range .Entries}}
    <li><a href="{{.Link}}">{{.DisplayName}}</a></li>
{{- end}}
  </ul>
</body>
</html>
`))

// Renderer turns a (title, content) pair into a standalone HTML document.
type Renderer struct {
	Lang   string
	Escape EscapeMode
}

func (r Renderer) Render(title, content string) ([]byte, error) {
	if r.Escape == EscapeHTML {
		title = html.EscapeString(title)
		content = html.EscapeString(content)
	}

	var buf bytes.Buffer
	err := documentTmpl.Execute(&buf, struct {
		Lang, Title, Content string
	}{Lang: r.lang(), Title: title, Content: content})
	if err != nil {
		return nil, fmt.Errorf("render document: %w", err)
	}
	return buf.Bytes(), nil
}

func (r Renderer) lang() string {
	if r.Lang == "" {
		return "zh"
	}
	return r.Lang
}

// IndexPage holds the fixed parts of the generated listing.
type IndexPage struct {
	Lang  string
	Title string
}

func (p IndexPage) Render(entries []IndexEntry) ([]byte, error) {
	lang, title := p.Lang, p.Title
	if lang == "" {
		lang = "zh"
	}
	if title == "" {
		title = DefaultIndexTitle
	}

	var buf bytes.Buffer
	err := indexTmpl.Execute(&buf, struct {
		Lang, Title string
		Entries     []IndexEntry
	}{Lang: lang, Title: title, Entries: entries})
	if err != nil {
		return nil, fmt.Errorf("render index: %w", err)
	}
	return buf.Bytes(), nil
}

// DefaultIndexTitle reads "archived file list".
const DefaultIndexTitle = "归档文件列表"
