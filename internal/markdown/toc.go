package markdown

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/yuin/goldmark/ast"
)

// TOC depth bounds. Headings outside the range still receive ids.
const (
	MinTOCLevel = 2
	MaxTOCLevel = 4
)

// TOCItem is one entry of a document's table of contents.
type TOCItem struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Level    int       `json:"level"`
	Children []TOCItem `json:"children"`
}

type headingEntry struct {
	id    string
	title string
	level int
}

var (
	nonWordRe    = regexp.MustCompile(`[^\p{L}\p{N}_\s-]+`)
	whitespaceRe = regexp.MustCompile(`\s+`)
	hyphenRunRe  = regexp.MustCompile(`-{2,}`)
)

// HeadingID derives a unique anchor id for heading text and records it in
// seen. Collisions get a numeric suffix: "setup", "setup-1", "setup-2".
func HeadingID(title string, seen map[string]struct{}) string {
	base := strings.ToLower(strings.TrimSpace(title))
	base = nonWordRe.ReplaceAllString(base, "")
	base = whitespaceRe.ReplaceAllString(base, "-")
	base = hyphenRunRe.ReplaceAllString(base, "-")
	base = strings.Trim(base, "-")
	if base == "" {
		base = "section"
	}

	id := base
	for n := 1; ; n++ {
		if _, taken := seen[id]; !taken {
			break
		}
		id = base + "-" + strconv.Itoa(n)
	}
	seen[id] = struct{}{}
	return id
}

type headingPass struct{}

func (headingPass) name() string { return "headings" }

func (headingPass) visit(n ast.Node, source []byte, st *docState) ast.Node {
	heading, ok := n.(*ast.Heading)
	if !ok {
		return nil
	}

	title := plainText(heading, source)
	id := HeadingID(title, st.seenIDs)
	heading.SetAttributeString("id", []byte(id))

	if heading.Level >= MinTOCLevel && heading.Level <= MaxTOCLevel {
		st.headings = append(st.headings, headingEntry{id: id, title: title, level: heading.Level})
	}
	return nil
}

// buildTOC nests headings using a stack of open entries. A deeper heading
// becomes a child of the nearest shallower one even when levels are skipped.
func buildTOC(headings []headingEntry) []TOCItem {
	type node struct {
		item     TOCItem
		children []*node
	}

	var roots []*node
	var stack []*node
	for _, h := range headings {
		n := &node{item: TOCItem{ID: h.id, Title: h.title, Level: h.level}}
		for len(stack) > 0 && stack[len(stack)-1].item.Level >= h.level {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			roots = append(roots, n)
		} else {
			top := stack[len(stack)-1]
			top.children = append(top.children, n)
		}
		stack = append(stack, n)
	}

	var freeze func(nodes []*node) []TOCItem
	freeze = func(nodes []*node) []TOCItem {
		items := make([]TOCItem, 0, len(nodes))
		for _, n := range nodes {
			item := n.item
			item.Children = freeze(n.children)
			items = append(items, item)
		}
		return items
	}
	return freeze(roots)
}

// plainText flattens the inline content of n.
func plainText(n ast.Node, source []byte) string {
	var b strings.Builder
	var walk func(ast.Node)
	walk = func(node ast.Node) {
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			switch v := c.(type) {
			case *ast.Text:
				b.Write(v.Segment.Value(source))
				if v.SoftLineBreak() || v.HardLineBreak() {
					b.WriteByte(' ')
				}
			case *ast.String:
				b.Write(v.Value)
			case *ast.RawHTML:
				continue
			default:
				walk(c)
			}
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}
