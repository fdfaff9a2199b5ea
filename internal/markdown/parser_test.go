package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	p := NewParser()

	out, err := p.Parse([]byte("# Headline\n\nSome **bold** text."))
	require.NoError(t, err)

	html := string(out)
	assert.Contains(t, html, "<h1")
	assert.Contains(t, html, "Headline")
	assert.Contains(t, html, "<strong>bold</strong>")
}

func TestParseHTMLEscapesRawHTML(t *testing.T) {
	p := NewParser()

	out := string(p.ParseHTML("hello <script>alert(1)</script>"))
	assert.False(t, strings.Contains(out, "<script>"), "raw HTML must not pass through")
}

func TestParseHTMLGFMList(t *testing.T) {
	p := NewParser()

	out := string(p.ParseHTML("- one\n- two"))
	assert.Contains(t, out, "<li>")
}
