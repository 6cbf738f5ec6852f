package markdown

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark/ast"
)

// KindCodeWidget identifies the node that replaces fenced and indented code.
var KindCodeWidget = ast.NewNodeKind("CodeWidget")

// CodeWidget is a code block rendered with a header and copy affordance.
type CodeWidget struct {
	ast.BaseBlock
	// Language is the declared language token, empty for untyped blocks.
	Language string
	// DisplayName is the badge text shown in the header.
	DisplayName string
	Filename    string
	Meta        map[string]string
	// Code is the raw, unescaped block text.
	Code string
}

// Kind implements ast.Node.
func (n *CodeWidget) Kind() ast.NodeKind { return KindCodeWidget }

// Dump implements ast.Node.
func (n *CodeWidget) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Language": n.Language,
		"Filename": n.Filename,
	}, nil)
}

// Typed reports whether the block declared a real language.
func (n *CodeWidget) Typed() bool { return n.Language != "" }

// Empty reports whether the block has no visible code.
func (n *CodeWidget) Empty() bool { return strings.TrimSpace(n.Code) == "" }

var placeholderLanguages = map[string]struct{}{
	"text": {}, "plain": {}, "plaintext": {}, "none": {}, "empty": {},
}

var metadataKeywords = map[string]struct{}{
	"title": {}, "filename": {}, "file": {}, "showlinenumbers": {}, "linenumbers": {}, "highlight": {}, "copy": {},
}

var metaPairRe = regexp.MustCompile(`(\w+)="([^"]*)"`)

var languageNames = map[string]string{
	"js": "JavaScript", "javascript": "JavaScript", "jsx": "JSX",
	"ts": "TypeScript", "typescript": "TypeScript", "tsx": "TSX",
	"py": "Python", "python": "Python",
	"go": "Go", "golang": "Go",
	"rb": "Ruby", "ruby": "Ruby",
	"rs": "Rust", "rust": "Rust",
	"java": "Java", "kt": "Kotlin", "kotlin": "Kotlin", "swift": "Swift",
	"c": "C", "cpp": "C++", "c++": "C++", "cs": "C#", "csharp": "C#",
	"php": "PHP",
	"sh": "Shell", "shell": "Shell", "bash": "Bash", "zsh": "Zsh",
	"ps1": "PowerShell", "powershell": "PowerShell",
	"json": "JSON", "yaml": "YAML", "yml": "YAML", "toml": "TOML", "xml": "XML", "ini": "INI",
	"html": "HTML", "css": "CSS", "scss": "SCSS",
	"sql": "SQL", "graphql": "GraphQL", "gql": "GraphQL",
	"md": "Markdown", "markdown": "Markdown", "mdx": "MDX",
	"dockerfile": "Dockerfile", "docker": "Dockerfile",
	"diff": "Diff", "http": "HTTP",
}

// LanguageDisplayName maps a language token to its badge text.
func LanguageDisplayName(lang string) string {
	if name, ok := languageNames[strings.ToLower(lang)]; ok {
		return name
	}
	return strings.ToUpper(lang)
}

// ParseCodeMeta extracts key="value" pairs from a fence info string.
func ParseCodeMeta(info string) map[string]string {
	meta := make(map[string]string)
	for _, m := range metaPairRe.FindAllStringSubmatch(info, -1) {
		meta[m[1]] = m[2]
	}
	return meta
}

// classifyLanguage returns the usable language token of a fence, or "" when
// the token is a placeholder or stray metadata.
func classifyLanguage(token string) string {
	lower := strings.ToLower(strings.TrimSpace(token))
	if lower == "" {
		return ""
	}
	if _, ok := placeholderLanguages[lower]; ok {
		return ""
	}
	if strings.Contains(lower, "=") {
		return ""
	}
	if _, ok := metadataKeywords[lower]; ok {
		return ""
	}
	return token
}

type codePass struct{}

func (codePass) name() string { return "code" }

func (codePass) visit(n ast.Node, source []byte, _ *docState) ast.Node {
	var info string
	switch block := n.(type) {
	case *ast.FencedCodeBlock:
		if block.Info != nil {
			info = strings.TrimSpace(string(block.Info.Segment.Value(source)))
		}
	case *ast.CodeBlock:
	default:
		return nil
	}

	token := info
	if i := strings.IndexAny(info, " \t"); i >= 0 {
		token = info[:i]
	}
	lang := classifyLanguage(token)
	meta := ParseCodeMeta(info)

	widget := &CodeWidget{
		Language: lang,
		Filename: firstNonEmpty(meta["title"], meta["filename"], meta["file"]),
		Meta:     meta,
		Code:     blockText(n, source),
	}
	if lang != "" {
		widget.DisplayName = LanguageDisplayName(lang)
	} else {
		widget.DisplayName = "Plain Text"
	}
	return widget
}

func blockText(n ast.Node, source []byte) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(source))
	}
	return b.String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
