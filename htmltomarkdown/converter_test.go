package htmltomarkdown_test

import (
	"testing"

	"github.com/fwojciec/clipdoc"
	"github.com/fwojciec/clipdoc/htmltomarkdown"
	"github.com/fwojciec/clipdoc/markdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		html string
		want []string
	}{
		{"paragraph", `<p>Hello, world!</p>`, []string{"Hello, world!"}},
		{"headings", `<h1>Title</h1><h2>Subtitle</h2>`, []string{"# Title", "## Subtitle"}},
		{"links", `<p>Read <a href="https://example.com">the report</a>.</p>`, []string{"[the report](https://example.com)"}},
		{"unordered list", `<ul><li>First</li><li>Second</li></ul>`, []string{"- First", "- Second"}},
		{"ordered list", `<ol><li>First</li><li>Second</li></ol>`, []string{"1. First", "2. Second"}},
		{"inline code", `<p>Run <code>make</code> now.</p>`, []string{"`make`"}},
		{"code block", "<pre><code class=\"language-go\">package main\n</code></pre>", []string{"```go", "package main"}},
		{"emphasis", `<p><strong>Bold</strong> and <em>italic</em>.</p>`, []string{"**Bold**", "*italic*"}},
		{"blockquote", `<blockquote><p>Quoted.</p></blockquote>`, []string{"> Quoted."}},
		{"table", `<table><thead><tr><th>Name</th></tr></thead><tbody><tr><td>Alice</td></tr></tbody></table>`, []string{"Name", "Alice", "|", "---"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			md, err := htmltomarkdown.NewConverter().Convert(tc.html)

			require.NoError(t, err)
			for _, w := range tc.want {
				assert.Contains(t, md, w)
			}
		})
	}

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert("\n<p>text</p>\n\n")

		require.NoError(t, err)
		assert.Equal(t, "text", md)
	})

	t.Run("returns error for empty input", func(t *testing.T) {
		t.Parallel()

		_, err := htmltomarkdown.NewConverter().Convert(" ")

		assert.Equal(t, clipdoc.EINVALID, clipdoc.ErrorCode(err))
	})
}

func TestConverter_FeedsBlockParser(t *testing.T) {
	t.Parallel()

	html := `<h1>Budget Vote</h1><p>The <strong>council</strong> voted.</p><ul><li>Roads</li><li>Parks</li></ul>`

	md, err := htmltomarkdown.NewConverter().Convert(html)
	require.NoError(t, err)

	blocks, err := markdown.NewParser().Parse(md)
	require.NoError(t, err)

	require.Len(t, blocks, 4)
	assert.Equal(t, clipdoc.BlockHeading, blocks[0].Kind)
	assert.Equal(t, "Budget Vote\n", blocks[0].Text)
	assert.Equal(t, "The council voted.\n", blocks[1].Text)
	require.Len(t, blocks[1].Spans, 1)
	assert.True(t, blocks[1].Spans[0].Style.Bold)
	assert.Equal(t, clipdoc.ListUnordered, blocks[2].List)
	assert.Equal(t, "Parks\n", blocks[3].Text)
}
