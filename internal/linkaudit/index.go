package linkaudit

import (
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/docpipe/internal/content"
	"git.home.luguber.info/inful/docpipe/internal/foundation/errors"
)

// Index maps the slugs of one scope to source files. Keys are content-root
// relative ("en/v1/guides/setup"), with and without the file extension.
type Index struct {
	locale  string
	version string
	// bySlug maps every key to its file.
	bySlug map[string]string
	// canonical holds one extension-less key per file, sorted.
	canonical []string
	files     []string
}

// BuildIndex walks locale/version below root once and indexes every
// Markdown file. A missing scope yields an empty index.
func BuildIndex(root, locale, version string) (*Index, error) {
	idx := &Index{locale: locale, version: version, bySlug: make(map[string]string)}
	scope := filepath.Join(root, locale, version)

	err := filepath.WalkDir(scope, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == scope {
				return fs.SkipAll
			}
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
		if d.IsDir() || !content.IsMarkdown(d.Name()) {
			return nil
		}
		rel, relErr := filepath.Rel(root, p)
		if relErr != nil {
			return nil
		}
		idx.add(filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to index content scope").
			WithContext("path", scope).
			Build()
	}

	sort.Strings(idx.canonical)
	sort.Strings(idx.files)
	return idx, nil
}

func (idx *Index) add(rel string) {
	stem := strings.TrimSuffix(rel, path.Ext(rel))
	idx.files = append(idx.files, rel)
	idx.canonical = append(idx.canonical, stem)
	idx.bySlug[rel] = rel
	if _, taken := idx.bySlug[stem]; !taken {
		idx.bySlug[stem] = rel
	}
	if path.Base(stem) == "index" {
		dir := path.Dir(stem)
		if _, taken := idx.bySlug[dir]; !taken {
			idx.bySlug[dir] = rel
		}
	}
}

// Has reports whether slug resolves to a file.
func (idx *Index) Has(slug string) bool {
	_, ok := idx.bySlug[slug]
	return ok
}

// File returns the file a slug resolves to.
func (idx *Index) File(slug string) (string, bool) {
	f, ok := idx.bySlug[slug]
	return f, ok
}

// Files returns every indexed file, sorted.
func (idx *Index) Files() []string {
	return append([]string(nil), idx.files...)
}

// Slugs returns one extension-less key per file, sorted.
func (idx *Index) Slugs() []string {
	return append([]string(nil), idx.canonical...)
}

// Len returns the number of indexed files.
func (idx *Index) Len() int { return len(idx.files) }

func (idx *Index) scopePrefix() string {
	return idx.locale + "/" + idx.version + "/"
}
