package markdown

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewMarkdown_Empty(t *testing.T) {
	md := NewMarkdown("")
	require.NotNil(t, md)
	require.Equal(t, "", md.Source)
	require.Equal(t, "", strings.TrimSpace(string(md.Render())))
}

func TestMarkdown_Render_Sanitizes(t *testing.T) {
	md := NewMarkdown("hello <script>alert(1)</script> **world**")

	html := string(md.Render())
	require.NotContains(t, strings.ToLower(html), "<script")
	require.Contains(t, html, "<strong>world</strong>")

	// caching path
	html2 := string(md.Render())
	require.Equal(t, html, html2)
}

func TestMarkdown_Render_Concurrent(t *testing.T) {
	md := NewMarkdown("Drag the *frame* to choose the crop.")

	var wg sync.WaitGroup
	results := make([]string, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = string(md.Render())
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		require.Equal(t, results[0], r)
	}
	require.Contains(t, results[0], "<em>frame</em>")
}

func TestMarkdown_PlainText(t *testing.T) {
	md := NewMarkdown("Pick a **ratio**, then drag.")

	text := md.PlainText()
	require.Contains(t, text, "Pick a ratio")
	require.NotContains(t, text, "<")
}
