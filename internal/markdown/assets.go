package markdown

import (
	"path"
	"strings"

	"github.com/yuin/goldmark/ast"
)

// KindImageRef and KindAssetRef identify the reference nodes that replace
// local images and binary-asset links.
var (
	KindImageRef = ast.NewNodeKind("ImageRef")
	KindAssetRef = ast.NewNodeKind("AssetRef")
)

// ImageRef is a local image resolved later by the asset manifest.
type ImageRef struct {
	ast.BaseInline
	Src   string
	Alt   string
	Title string
}

// Kind implements ast.Node.
func (n *ImageRef) Kind() ast.NodeKind { return KindImageRef }

// Dump implements ast.Node.
func (n *ImageRef) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Src": n.Src, "Alt": n.Alt, "Title": n.Title}, nil)
}

// AssetRef is a download link to a binary file. The original link content
// is kept as its children.
type AssetRef struct {
	ast.BaseInline
	Href string
	// Label is the flattened link text.
	Label string
	Title string
}

// Kind implements ast.Node.
func (n *AssetRef) Kind() ast.NodeKind { return KindAssetRef }

// Dump implements ast.Node.
func (n *AssetRef) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Href": n.Href, "Label": n.Label, "Title": n.Title}, nil)
}

var assetExtensions = map[string]struct{}{
	// documents
	".pdf": {}, ".doc": {}, ".docx": {}, ".odt": {}, ".rtf": {}, ".epub": {},
	".ppt": {}, ".pptx": {}, ".odp": {}, ".key": {},
	// spreadsheets
	".xls": {}, ".xlsx": {}, ".ods": {}, ".csv": {}, ".tsv": {},
	// archives
	".zip": {}, ".tar": {}, ".gz": {}, ".tgz": {}, ".bz2": {}, ".xz": {}, ".7z": {}, ".rar": {},
	// structured data
	".json": {}, ".xml": {}, ".yaml": {}, ".yml": {}, ".toml": {},
	// installers
	".exe": {}, ".msi": {}, ".dmg": {}, ".pkg": {}, ".deb": {}, ".rpm": {}, ".apk": {}, ".appimage": {},
	// disk images
	".iso": {}, ".img": {}, ".vhd": {}, ".vmdk": {},
}

// IsAssetTarget reports whether target links to a binary or document file
// that should be offered as a download.
func IsAssetTarget(target string) bool {
	ext := strings.ToLower(path.Ext(StripQueryAndFragment(target)))
	_, ok := assetExtensions[ext]
	return ok
}

func isRemoteImage(src string) bool {
	lower := strings.ToLower(strings.TrimSpace(src))
	return strings.HasPrefix(lower, "http://") ||
		strings.HasPrefix(lower, "https://") ||
		strings.HasPrefix(lower, "//") ||
		strings.HasPrefix(lower, "data:")
}

type imagePass struct{}

func (imagePass) name() string { return "images" }

func (imagePass) visit(n ast.Node, source []byte, _ *docState) ast.Node {
	img, ok := n.(*ast.Image)
	if !ok {
		return nil
	}
	src := string(img.Destination)
	if src == "" || isRemoteImage(src) {
		return nil
	}
	return &ImageRef{
		Src:   src,
		Alt:   plainText(img, source),
		Title: string(img.Title),
	}
}

type assetPass struct{}

func (assetPass) name() string { return "assets" }

func (assetPass) visit(n ast.Node, source []byte, _ *docState) ast.Node {
	link, ok := n.(*ast.Link)
	if !ok {
		return nil
	}
	href := string(link.Destination)
	if IsExternal(href) || IsAnchor(href) || !IsAssetTarget(href) {
		return nil
	}
	ref := &AssetRef{
		Href:  href,
		Label: plainText(link, source),
		Title: string(link.Title),
	}
	var children []ast.Node
	for c := link.FirstChild(); c != nil; c = c.NextSibling() {
		children = append(children, c)
	}
	for _, c := range children {
		ref.AppendChild(ref, c)
	}
	return ref
}
