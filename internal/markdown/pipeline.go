package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
	nethtml "golang.org/x/net/html"
)

// SlugIndex reports whether a slug exists in the current locale/version scope.
type SlugIndex interface {
	Has(slug string) bool
}

// Context scopes a single Transform call.
type Context struct {
	Locale  string
	Version string
	// FilePath is the content-root relative source path. It is used to
	// resolve relative link targets.
	FilePath string
	// Index is the fully built slug index of the scope. A nil index disables
	// link validation.
	Index SlugIndex
}

// Result is the outcome of transforming one document.
type Result struct {
	HTML       string    `json:"html"`
	TOC        []TOCItem `json:"toc"`
	LinkErrors []string  `json:"linkErrors"`
}

// Options configures a Pipeline.
type Options struct {
	// RawHTML passes inline HTML and JSX-like blocks through untouched.
	RawHTML bool
}

// Option mutates Options.
type Option func(*Options)

// WithRawHTML toggles raw HTML passthrough. It is enabled by default.
func WithRawHTML(enabled bool) Option {
	return func(o *Options) { o.RawHTML = enabled }
}

// Pipeline converts Markdown bodies. It is safe for concurrent use; all
// per-document state lives in the parser context of a single call.
type Pipeline struct {
	md      goldmark.Markdown
	rawHTML bool
}

// New creates a Pipeline.
func New(opts ...Option) *Pipeline {
	o := Options{RawHTML: true}
	for _, opt := range opts {
		opt(&o)
	}

	rendererOpts := []renderer.Option{
		renderer.WithNodeRenderers(util.Prioritized(&nodeRenderer{}, 100)),
	}
	if o.RawHTML {
		rendererOpts = append(rendererOpts, html.WithUnsafe())
	}

	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithASTTransformers(util.Prioritized(&passTransformer{passes: defaultPasses()}, 100)),
		),
		goldmark.WithRendererOptions(rendererOpts...),
	)
	return &Pipeline{md: md, rawHTML: o.RawHTML}
}

var stateKey = parser.NewContextKey()

// docState is the per-document state shared by the passes.
type docState struct {
	ctx        Context
	seenIDs    map[string]struct{}
	headings   []headingEntry
	linkErrors []string
}

// Transform converts source into HTML. It never panics and never returns an
// error: on internal failure the untouched source is returned as HTML with an
// empty TOC and a single diagnostic. With raw HTML disabled the source is
// escaped first.
func (p *Pipeline) Transform(source []byte, ctx Context) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = p.fallback(source, fmt.Errorf("panic: %v", r))
		}
	}()

	st := &docState{ctx: ctx, seenIDs: make(map[string]struct{})}
	pctx := parser.NewContext()
	pctx.Set(stateKey, st)

	var buf bytes.Buffer
	if err := p.md.Convert(source, &buf, parser.WithContext(pctx)); err != nil {
		return p.fallback(source, err)
	}

	linkErrors := st.linkErrors
	if linkErrors == nil {
		linkErrors = []string{}
	}
	return Result{
		HTML:       buf.String(),
		TOC:        buildTOC(st.headings),
		LinkErrors: linkErrors,
	}
}

func (p *Pipeline) fallback(source []byte, err error) Result {
	out := string(source)
	if !p.rawHTML {
		out = nethtml.EscapeString(out)
	}
	return Result{
		HTML:       out,
		TOC:        []TOCItem{},
		LinkErrors: []string{fmt.Sprintf("markdown transform failed: %v", err)},
	}
}

// pass visits nodes of one kind and optionally returns a replacement.
// Returning nil keeps the node.
type pass interface {
	name() string
	visit(n ast.Node, source []byte, st *docState) ast.Node
}

func defaultPasses() []pass {
	return []pass{
		headingPass{},
		linkPass{},
		imagePass{},
		assetPass{},
		codePass{},
	}
}

type passTransformer struct {
	passes []pass
}

type replacement struct {
	old ast.Node
	new ast.Node
}

func (t *passTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	st, ok := pc.Get(stateKey).(*docState)
	if !ok {
		st = &docState{seenIDs: make(map[string]struct{})}
	}
	source := reader.Source()

	for _, p := range t.passes {
		var pending []replacement
		err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
			if !entering {
				return ast.WalkContinue, nil
			}
			if r := p.visit(n, source, st); r != nil {
				pending = append(pending, replacement{old: n, new: r})
				return ast.WalkSkipChildren, nil
			}
			return ast.WalkContinue, nil
		})
		if err != nil {
			panic(fmt.Sprintf("%s pass: %v", p.name(), err))
		}

		for _, r := range pending {
			parent := r.old.Parent()
			if parent == nil {
				continue
			}
			parent.ReplaceChild(parent, r.old, r.new)
		}
	}
}
