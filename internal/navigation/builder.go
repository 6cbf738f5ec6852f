package navigation

import (
	"log/slog"
	"math"
	"os"
	"path"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/docpipe/internal/content"
	"git.home.luguber.info/inful/docpipe/internal/logfields"
)

// Builder scans a content root and produces navigation trees.
type Builder struct {
	root   string
	loader *content.Loader
	logger *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithLoader shares a document loader (and its cache) with the builder.
func WithLoader(l *content.Loader) Option {
	return func(b *Builder) { b.loader = l }
}

// WithLogger sets the logger used for non-fatal diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) { b.logger = logger }
}

// NewBuilder creates a Builder for the content root.
func NewBuilder(root string, opts ...Option) *Builder {
	b := &Builder{root: root, logger: slog.Default()}
	for _, opt := range opts {
		opt(b)
	}
	if b.loader == nil {
		b.loader = content.NewLoader(root, content.WithLogger(b.logger))
	}
	return b
}

// Build scans locale/version once and returns the sorted navigation tree.
// A missing scope yields an empty tree. An invalid sidebar config is ignored
// and reported in Tree.Diagnostics.
func (b *Builder) Build(locale, version string) (Tree, error) {
	tree := Tree{Locale: locale, Version: version, Items: []Item{}}
	scope := filepath.Join(b.root, locale, version)

	if info, err := os.Stat(scope); err != nil || !info.IsDir() {
		b.logger.Warn("Navigation scope not found", logfields.Path(scope), logfields.Locale(locale), logfields.Version(version))
		return tree, nil
	}

	s := &scan{builder: b, locale: locale, version: version, tree: &tree}
	items := s.dir(scope, "")

	if cfgPath, ok := FindSidebarConfig(scope); ok {
		cfg, err := LoadSidebarConfig(cfgPath)
		if err != nil {
			b.logger.Warn("Ignoring sidebar config", logfields.Path(cfgPath), logfields.Error(err))
			tree.Diagnostics = append(tree.Diagnostics, err.Error())
		} else {
			items = ApplySidebarConfig(items, cfg)
		}
	}

	tree.Items = Sort(items)
	return tree, nil
}

type scan struct {
	builder *Builder
	locale  string
	version string
	tree    *Tree
}

func (s *scan) dir(abs, rel string) []Item {
	entries, err := os.ReadDir(abs)
	if err != nil {
		s.builder.logger.Warn("Skipping unreadable directory", logfields.Path(abs), logfields.Error(err))
		s.tree.Diagnostics = append(s.tree.Diagnostics, "unreadable directory "+rel+": "+err.Error())
		return nil
	}

	items := make([]Item, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") || IsSidebarFile(name) {
			continue
		}
		childRel := path.Join(rel, name)

		if entry.IsDir() {
			children := s.dir(filepath.Join(abs, name), childRel)
			if len(children) == 0 {
				continue
			}
			items = append(items, Item{
				Title:        FormatDirectoryName(name),
				Order:        minOrder(children),
				Kind:         KindDirectory,
				OriginalPath: childRel,
				Children:     children,
			})
			continue
		}

		if !content.IsMarkdown(name) {
			continue
		}
		if item, ok := s.page(childRel); ok {
			items = append(items, item)
		}
	}
	return items
}

func (s *scan) page(rel string) (Item, bool) {
	doc, err := s.builder.loader.Load(path.Join(s.locale, s.version, rel))
	if err != nil {
		s.builder.logger.Warn("Skipping document", logfields.Path(rel), logfields.Error(err))
		s.tree.Diagnostics = append(s.tree.Diagnostics, err.Error())
		return Item{}, false
	}

	fm := doc.Frontmatter
	item := Item{
		Title:        fm.Title,
		Path:         PagePath(s.locale, s.version, doc.Slug),
		Order:        fm.Order,
		Kind:         KindPage,
		OriginalPath: rel,
	}
	if fm.SidebarPosition != nil {
		item.Order = *fm.SidebarPosition
	}
	if fm.SidebarLabel != nil {
		item.Title = *fm.SidebarLabel
		item.CustomLabel = true
	}
	if fm.Deprecated {
		item.Badge = BadgeDeprecated
	}
	return item, true
}

func minOrder(items []Item) float64 {
	m := math.Inf(1)
	for _, item := range items {
		m = math.Min(m, item.Order)
	}
	return m
}
