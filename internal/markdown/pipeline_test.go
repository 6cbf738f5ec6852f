package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

type setIndex map[string]bool

func (s setIndex) Has(slug string) bool { return s[slug] }

// findElements parses fragment and returns every element with the given tag.
func findElements(t *testing.T, fragment, tag string) []*html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(fragment))
	require.NoError(t, err)

	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return out
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func TestTransform_DuplicateHeadingsGetDistinctIDs(t *testing.T) {
	src := "## Setup\n\ntext\n\n## Setup\n\n## Setup\n"
	res := New().Transform([]byte(src), Context{})

	require.Len(t, res.TOC, 3)
	assert.Equal(t, "setup", res.TOC[0].ID)
	assert.Equal(t, "setup-1", res.TOC[1].ID)
	assert.Equal(t, "setup-2", res.TOC[2].ID)

	headings := findElements(t, res.HTML, "h2")
	require.Len(t, headings, 3)
	for i, want := range []string{"setup", "setup-1", "setup-2"} {
		id, ok := attr(headings[i], "id")
		require.True(t, ok)
		assert.Equal(t, want, id)
	}
}

func TestTransform_SkippedLevelNestsUnderParent(t *testing.T) {
	src := "## Overview\n\n#### Details\n\n## Next\n"
	res := New().Transform([]byte(src), Context{})

	require.Len(t, res.TOC, 2)
	assert.Equal(t, "overview", res.TOC[0].ID)
	require.Len(t, res.TOC[0].Children, 1)
	assert.Equal(t, "details", res.TOC[0].Children[0].ID)
	assert.Equal(t, 4, res.TOC[0].Children[0].Level)
	assert.Equal(t, "next", res.TOC[1].ID)
	assert.Empty(t, res.TOC[1].Children)
}

func TestTransform_TOCExcludesOuterLevels(t *testing.T) {
	src := "# Title\n\n## Intro\n\n### Sub\n\n##### Deep\n"
	res := New().Transform([]byte(src), Context{})

	require.Len(t, res.TOC, 1)
	assert.Equal(t, "intro", res.TOC[0].ID)
	require.Len(t, res.TOC[0].Children, 1)
	assert.Equal(t, "sub", res.TOC[0].Children[0].ID)

	h1 := findElements(t, res.HTML, "h1")
	require.Len(t, h1, 1)
	id, _ := attr(h1[0], "id")
	assert.Equal(t, "title", id)

	h5 := findElements(t, res.HTML, "h5")
	require.Len(t, h5, 1)
	id, _ = attr(h5[0], "id")
	assert.Equal(t, "deep", id)
}

func TestHeadingID(t *testing.T) {
	seen := map[string]struct{}{}
	assert.Equal(t, "hello-world", HeadingID("Hello, World!", seen))
	assert.Equal(t, "hello-world-1", HeadingID("Hello World", seen))
	assert.Equal(t, "api-v2-usage", HeadingID("  API  v2 -- usage ", seen))
	assert.Equal(t, "section", HeadingID("!!!", seen))
}

func TestTransform_HeadingTextIncludesInlineCode(t *testing.T) {
	res := New().Transform([]byte("## Using `kong` flags\n"), Context{})
	require.Len(t, res.TOC, 1)
	assert.Equal(t, "Using kong flags", res.TOC[0].Title)
	assert.Equal(t, "using-kong-flags", res.TOC[0].ID)
}

func TestTransform_LinkValidation(t *testing.T) {
	idx := setIndex{"guides/setup": true, "guides/config": true, "": true}
	ctx := Context{Locale: "en", Version: "v1", FilePath: "en/v1/guides/setup.md", Index: idx}

	src := strings.Join([]string{
		"[abs](/en/docs/v1/guides/setup)",
		"[rel](config.md#options)",
		"[home](/en/docs/v1/)",
		"[ext](https://example.com/missing)",
		"[mail](mailto:docs@example.com)",
		"[anchor](#top)",
		"[Missing](no-such-file.mdx)",
	}, "\n\n")

	res := New().Transform([]byte(src), ctx)
	require.Len(t, res.LinkErrors, 1)
	assert.Contains(t, res.LinkErrors[0], "no-such-file.mdx")

	anchors := findElements(t, res.HTML, "a")
	assert.Len(t, anchors, 7)
}

func TestTransform_NilIndexSkipsValidation(t *testing.T) {
	res := New().Transform([]byte("[x](nowhere.md)"), Context{})
	assert.Empty(t, res.LinkErrors)
	assert.NotNil(t, res.LinkErrors)
}

func TestTransform_ImageReference(t *testing.T) {
	src := "![Alt](./img.png \"A <title>\")\n\n![Remote](https://cdn.example.com/x.png)\n"
	res := New().Transform([]byte(src), Context{})

	refs := findElements(t, res.HTML, "doc-image")
	require.Len(t, refs, 1)
	src0, _ := attr(refs[0], "src")
	alt, _ := attr(refs[0], "alt")
	title, _ := attr(refs[0], "title")
	assert.Equal(t, "./img.png", src0)
	assert.Equal(t, "Alt", alt)
	assert.Equal(t, "A <title>", title)
	assert.Contains(t, res.HTML, `title="A &lt;title&gt;"`)

	imgs := findElements(t, res.HTML, "img")
	require.Len(t, imgs, 1)
	remote, _ := attr(imgs[0], "src")
	assert.Equal(t, "https://cdn.example.com/x.png", remote)
}

func TestTransform_AssetReference(t *testing.T) {
	idx := setIndex{}
	src := "[Download \"manual\"](files/manual.pdf \"PDF\") and [zip](https://example.com/a.zip)\n"
	res := New().Transform([]byte(src), Context{Locale: "en", Version: "v1", Index: idx})

	assets := findElements(t, res.HTML, "doc-asset")
	require.Len(t, assets, 1)
	href, _ := attr(assets[0], "href")
	_, download := attr(assets[0], "download")
	title, _ := attr(assets[0], "title")
	assert.Equal(t, "files/manual.pdf", href)
	assert.True(t, download)
	assert.Equal(t, "PDF", title)
	assert.Equal(t, `Download "manual"`, textOf(assets[0]))

	assert.Empty(t, res.LinkErrors)
	assert.Len(t, findElements(t, res.HTML, "a"), 1)
}

func TestTransform_AssetReferenceKeepsInlineContent(t *testing.T) {
	src := "[**Guide** v2](files/guide.pdf) and [![Alt](./i.png)](./file.pdf \"T\")\n"
	res := New().Transform([]byte(src), Context{})

	assets := findElements(t, res.HTML, "doc-asset")
	require.Len(t, assets, 2)
	assert.Equal(t, "Guide v2", textOf(assets[0]))
	assert.Contains(t, res.HTML, `<doc-asset href="files/guide.pdf" download><strong>Guide</strong> v2</doc-asset>`)

	images := findElements(t, res.HTML, "doc-image")
	require.Len(t, images, 1)
	assert.Equal(t, assets[1], images[0].Parent)
	alt, _ := attr(images[0], "alt")
	src0, _ := attr(images[0], "src")
	assert.Equal(t, "Alt", alt)
	assert.Equal(t, "./i.png", src0)
}

func TestTransform_TypedCodeBlock(t *testing.T) {
	src := "```go title=\"main.go\"\nfmt.Println(\"<hi>\")\n```\n"
	res := New().Transform([]byte(src), Context{})

	blocks := findElements(t, res.HTML, "div")
	require.NotEmpty(t, blocks)
	lang, _ := attr(blocks[0], "data-language")
	assert.Equal(t, "go", lang)

	assert.Contains(t, res.HTML, `<span class="code-block-language">Go</span>`)
	assert.Contains(t, res.HTML, `<span class="code-block-filename">main.go</span>`)
	assert.NotContains(t, res.HTML, "No syntax highlighting")

	buttons := findElements(t, res.HTML, "button")
	require.Len(t, buttons, 1)
	raw, _ := attr(buttons[0], "data-code")
	assert.Equal(t, "fmt.Println(\"<hi>\")\n", raw)

	codes := findElements(t, res.HTML, "code")
	require.Len(t, codes, 1)
	class, _ := attr(codes[0], "class")
	assert.Equal(t, "language-go", class)
	assert.Equal(t, "fmt.Println(\"<hi>\")\n", textOf(codes[0]))

	pres := findElements(t, res.HTML, "pre")
	require.Len(t, pres, 1)
	style, _ := attr(pres[0], "style")
	assert.Contains(t, style, "white-space: pre-wrap")
}

func TestTransform_UntypedCodeBlocks(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		filename string
	}{
		{name: "no language", src: "```\nplain\n```\n"},
		{name: "placeholder", src: "```text\nplain\n```\n"},
		{name: "metadata as language", src: "```title=\"notes.txt\"\nplain\n```\n", filename: "notes.txt"},
		{name: "indented", src: "    plain\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := New().Transform([]byte(tt.src), Context{})
			assert.Contains(t, res.HTML, `<span class="code-block-language">Plain Text</span>`)
			assert.Contains(t, res.HTML, "No syntax highlighting")
			assert.Contains(t, res.HTML, `data-language="text"`)
			if tt.filename != "" {
				assert.Contains(t, res.HTML, `<span class="code-block-filename">`+tt.filename+`</span>`)
			}
		})
	}
}

func TestTransform_EmptyCodeBlock(t *testing.T) {
	res := New().Transform([]byte("```js\n   \n```\n"), Context{})
	assert.Contains(t, res.HTML, `<div class="code-block code-block-empty">Empty code block</div>`)
	assert.Empty(t, findElements(t, res.HTML, "pre"))
}

func TestLanguageDisplayName(t *testing.T) {
	assert.Equal(t, "TypeScript", LanguageDisplayName("ts"))
	assert.Equal(t, "YAML", LanguageDisplayName("yml"))
	assert.Equal(t, "ELIXIR", LanguageDisplayName("elixir"))
}

func TestParseCodeMeta(t *testing.T) {
	meta := ParseCodeMeta(`js title="app.js" highlight="1-3"`)
	assert.Equal(t, map[string]string{"title": "app.js", "highlight": "1-3"}, meta)
}

func TestCandidateSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/en/docs/v1/guides/setup", "guides/setup"},
		{"/en/v1/guides/setup.md", "guides/setup"},
		{"./config.mdx?x=1#frag", "config"},
		{"guides/index.md", "guides"},
		{"/en/docs/v1/", ""},
		{"/fr/docs/v1/page", "fr/docs/v1/page"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, CandidateSlug(tt.in, "en", "v1"))
		})
	}
}

type panickingIndex struct{}

func (panickingIndex) Has(string) bool { panic("index exploded") }

func TestTransform_FallbackOnInternalFailure(t *testing.T) {
	src := "## Heading\n\n[x](somewhere.md)\n"
	res := New().Transform([]byte(src), Context{Index: panickingIndex{}})

	assert.Equal(t, src, res.HTML)
	assert.Empty(t, res.TOC)
	require.Len(t, res.LinkErrors, 1)
	assert.Contains(t, res.LinkErrors[0], "index exploded")
}

func TestTransform_FallbackEscapesWhenRawHTMLDisabled(t *testing.T) {
	src := "<b>bold</b> [x](somewhere.md)\n"
	res := New(WithRawHTML(false)).Transform([]byte(src), Context{Index: panickingIndex{}})

	assert.Equal(t, "&lt;b&gt;bold&lt;/b&gt; [x](somewhere.md)\n", res.HTML)
	require.Len(t, res.LinkErrors, 1)
}

func TestTransform_RawHTMLToggle(t *testing.T) {
	src := "<Callout>hi</Callout>\n"
	assert.Contains(t, New().Transform([]byte(src), Context{}).HTML, "<Callout>")
	assert.NotContains(t, New(WithRawHTML(false)).Transform([]byte(src), Context{}).HTML, "<Callout>")
}
