package markdown

import (
	"bytes"
	"html/template"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/russross/blackfriday/v2"
)

// Markdown wraps operator-supplied markdown (the crop help panel) and renders
// it to sanitized HTML once.
type Markdown struct {
	// Source is the markdown source code.
	Source string

	once sync.Once
	// renderedHTML caches the HTML content rendered from the markdown source.
	renderedHTML template.HTML
}

var (
	bfRenderer = blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
		Flags: blackfriday.Safelink | blackfriday.NofollowLinks | blackfriday.HrefTargetBlank | blackfriday.Smartypants | blackfriday.SmartypantsDashes,
	})
	bfExtensions = blackfriday.NoIntraEmphasis | blackfriday.Tables | blackfriday.Autolink | blackfriday.Strikethrough | blackfriday.SpaceHeadings | blackfriday.NoEmptyLineBeforeBlock
	policy       = bluemonday.UGCPolicy()
)

func NewMarkdown(source string) *Markdown {
	return &Markdown{Source: source}
}

// Render converts the Markdown Source into sanitized HTML. Safe for
// concurrent use; the first call renders, later calls hit the cache.
func (m *Markdown) Render() template.HTML {
	m.once.Do(func() {
		if m.Source == "" {
			return
		}
		unsafe := blackfriday.Run([]byte(m.Source),
			blackfriday.WithRenderer(bfRenderer),
			blackfriday.WithExtensions(bfExtensions),
		)
		m.renderedHTML = template.HTML(bytes.TrimSpace(policy.SanitizeBytes(unsafe)))
	})
	return m.renderedHTML
}

// PlainText strips all markup, for use in attributes such as title="".
func (m *Markdown) PlainText() string {
	return string(bytes.TrimSpace(bluemonday.StrictPolicy().SanitizeBytes([]byte(m.Render()))))
}
