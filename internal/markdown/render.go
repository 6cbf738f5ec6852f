package markdown

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
	"golang.org/x/net/html"
)

type nodeRenderer struct{}

func (r *nodeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindImageRef, r.renderImageRef)
	reg.Register(KindAssetRef, r.renderAssetRef)
	reg.Register(KindCodeWidget, r.renderCodeWidget)
}

func writeAttr(w util.BufWriter, name, value string) {
	_, _ = w.WriteString(" " + name + `="` + html.EscapeString(value) + `"`)
}

func (r *nodeRenderer) renderImageRef(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ImageRef)
	_, _ = w.WriteString("<doc-image")
	writeAttr(w, "src", n.Src)
	writeAttr(w, "alt", n.Alt)
	if n.Title != "" {
		writeAttr(w, "title", n.Title)
	}
	_, _ = w.WriteString("></doc-image>")
	return ast.WalkSkipChildren, nil
}

func (r *nodeRenderer) renderAssetRef(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		_, _ = w.WriteString("</doc-asset>")
		return ast.WalkContinue, nil
	}
	n := node.(*AssetRef)
	_, _ = w.WriteString("<doc-asset")
	writeAttr(w, "href", n.Href)
	_, _ = w.WriteString(" download")
	if n.Title != "" {
		writeAttr(w, "title", n.Title)
	}
	_, _ = w.WriteString(">")
	return ast.WalkContinue, nil
}

func (r *nodeRenderer) renderCodeWidget(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*CodeWidget)

	if n.Empty() {
		_, _ = w.WriteString(`<div class="code-block code-block-empty">Empty code block</div>` + "\n")
		return ast.WalkSkipChildren, nil
	}

	lang := n.Language
	if lang == "" {
		lang = "text"
	}

	_, _ = w.WriteString(`<div class="code-block"`)
	writeAttr(w, "data-language", lang)
	_, _ = w.WriteString(">\n")

	_, _ = w.WriteString(`<div class="code-block-header">`)
	_, _ = w.WriteString(`<span class="code-block-language">` + html.EscapeString(n.DisplayName) + `</span>`)
	if !n.Typed() {
		_, _ = w.WriteString(`<span class="code-block-plain">No syntax highlighting</span>`)
	}
	if n.Filename != "" {
		_, _ = w.WriteString(`<span class="code-block-filename">` + html.EscapeString(n.Filename) + `</span>`)
	}
	_, _ = w.WriteString(`<button type="button" class="code-block-copy"`)
	writeAttr(w, "data-code", n.Code)
	_, _ = w.WriteString(">Copy</button></div>\n")

	_, _ = w.WriteString(`<pre class="code-block-body" style="white-space: pre-wrap; overflow-wrap: anywhere;">`)
	if n.Typed() {
		_, _ = w.WriteString("<code")
		writeAttr(w, "class", "language-"+n.Language)
		_, _ = w.WriteString(">")
	} else {
		_, _ = w.WriteString("<code>")
	}
	_, _ = w.WriteString(html.EscapeString(n.Code))
	_, _ = w.WriteString("</code></pre>\n</div>\n")
	return ast.WalkSkipChildren, nil
}
