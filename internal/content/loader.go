package content

import (
	stderrors "errors"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/docpipe/internal/foundation/errors"
	"git.home.luguber.info/inful/docpipe/internal/frontmatter"
	"git.home.luguber.info/inful/docpipe/internal/logfields"
)

// Loader reads documents below a content root, optionally through a Cache.
type Loader struct {
	root   string
	cache  *Cache
	logger *slog.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithCache routes document loads through c. The cache is owned by the caller.
func WithCache(c *Cache) LoaderOption {
	return func(l *Loader) { l.cache = c }
}

// WithLogger sets the logger used for non-fatal diagnostics.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) { l.logger = logger }
}

// NewLoader creates a Loader rooted at root.
func NewLoader(root string, opts ...LoaderOption) *Loader {
	l := &Loader{root: root, logger: slog.Default()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Root returns the content root directory.
func (l *Loader) Root() string { return l.root }

// Load parses the document at relPath (relative to the content root).
func Load(root, relPath string) (*Document, error) {
	return NewLoader(root).Load(relPath)
}

// Load parses the document at relPath. Frontmatter failures are returned as a
// classified validation error wrapping *ValidationError.
func (l *Loader) Load(relPath string) (*Document, error) {
	relPath = filepath.ToSlash(filepath.Clean(relPath))
	abs := filepath.Join(l.root, filepath.FromSlash(relPath))

	if l.cache != nil {
		return l.cache.Load(abs, func() (*Document, error) { return readDocument(abs, relPath) })
	}
	return readDocument(abs, relPath)
}

func readDocument(abs, relPath string) (*Document, error) {
	// #nosec G304 -- relPath comes from walking the configured content root
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read document").
			WithContext("path", relPath).
			Build()
	}

	return parseDocument(relPath, data)
}

func parseDocument(relPath string, data []byte) (*Document, error) {
	block, err := frontmatter.Parse(data)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryParse, "malformed frontmatter").
			Warning().
			WithContext("path", relPath).
			Build()
	}

	raw, _, _, _ := frontmatter.Split(data)
	fm, err := validateFrontmatter(relPath, block.Fields)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "document excluded").
			Warning().
			WithContext("path", relPath).
			Build()
	}

	return &Document{
		Frontmatter: fm,
		Body:        string(block.Body),
		Slug:        Slug(relPath),
		FilePath:    relPath,
		BodyLine:    block.BodyLine,
		Fingerprint: mdfp.CalculateFingerprintFromParts(strings.TrimRight(string(raw), "\r\n"), string(block.Body)),
	}, nil
}

// Excluded describes a document left out of a Set.
type Excluded struct {
	Path   string       `json:"path"`
	Reason string       `json:"reason"`
	Issues []FieldIssue `json:"issues,omitempty"`
}

// SlugIndex is the set of slugs that exist within one locale/version scope.
type SlugIndex map[string]struct{}

// Has reports whether slug exists in the index.
func (idx SlugIndex) Has(slug string) bool {
	_, ok := idx[slug]
	return ok
}

// Set holds every valid document of one locale/version scope.
type Set struct {
	Locale    string
	Version   string
	Documents []*Document
	Excluded  []Excluded

	bySlug map[string]*Document
}

// Get returns the document with the given slug.
func (s *Set) Get(slug string) (*Document, bool) {
	doc, ok := s.bySlug[slug]
	return doc, ok
}

// Index returns a fresh slug index for the set.
func (s *Set) Index() SlugIndex {
	idx := make(SlugIndex, len(s.bySlug))
	for slug := range s.bySlug {
		idx[slug] = struct{}{}
	}
	return idx
}

// LoadAll loads every Markdown document below locale/version. A missing
// scope directory yields an empty Set; invalid documents are excluded.
func (l *Loader) LoadAll(locale, version string) (*Set, error) {
	set := &Set{Locale: locale, Version: version, bySlug: make(map[string]*Document)}
	scope := filepath.Join(l.root, locale, version)

	info, err := os.Stat(scope)
	if err != nil || !info.IsDir() {
		l.logger.Warn("Content scope not found", logfields.Path(scope), logfields.Locale(locale), logfields.Version(version))
		return set, nil
	}

	var files []string
	walkErr := filepath.WalkDir(scope, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			l.logger.Warn("Skipping unreadable entry", logfields.Path(p), logfields.Error(err))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if p != scope && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && IsMarkdown(d.Name()) {
			rel, relErr := filepath.Rel(l.root, p)
			if relErr == nil {
				files = append(files, filepath.ToSlash(rel))
			}
		}
		return nil
	})
	if walkErr != nil {
		return nil, errors.WrapError(walkErr, errors.CategoryFileSystem, "failed to walk content scope").
			WithContext("path", scope).
			Build()
	}
	sort.Strings(files)

	for _, rel := range files {
		doc, err := l.Load(rel)
		if err != nil {
			ex := Excluded{Path: rel, Reason: err.Error()}
			var verr *ValidationError
			if stderrors.As(err, &verr) {
				ex.Reason = "invalid frontmatter"
				ex.Issues = verr.Issues
			}
			l.logger.Warn("Document excluded", logfields.Path(rel), logfields.Error(err))
			set.Excluded = append(set.Excluded, ex)
			continue
		}
		if existing, dup := set.bySlug[doc.Slug]; dup {
			set.Excluded = append(set.Excluded, Excluded{
				Path:   rel,
				Reason: "duplicate slug " + quoteSlug(doc.Slug) + " already provided by " + existing.FilePath,
			})
			l.logger.Warn("Duplicate slug", logfields.Path(rel), logfields.Slug(doc.Slug))
			continue
		}
		set.bySlug[doc.Slug] = doc
		set.Documents = append(set.Documents, doc)
	}

	sort.SliceStable(set.Documents, func(i, j int) bool {
		return set.Documents[i].Slug < set.Documents[j].Slug
	})
	return set, nil
}

func quoteSlug(slug string) string {
	if slug == "" {
		return `"" (home)`
	}
	return `"` + path.Clean(slug) + `"`
}

// LoadAll loads one locale/version scope below root.
func LoadAll(root, locale, version string, opts ...LoaderOption) (*Set, error) {
	return NewLoader(root, opts...).LoadAll(locale, version)
}
