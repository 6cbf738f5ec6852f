package linkaudit

import (
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/docpipe/internal/logfields"
	"git.home.luguber.info/inful/docpipe/internal/metrics"
)

// Reasons attached to broken links.
const (
	ReasonMissingTarget = "Target file does not exist"
	ReasonInvalidURL    = "Invalid URL format"
)

// Auditor audits and repairs links of one locale/version scope.
type Auditor struct {
	root      string
	locale    string
	version   string
	threshold float64
	backupDir string
	logger    *slog.Logger
	recorder  metrics.Recorder
	now       func() time.Time
	writeFile func(name string, data []byte, perm os.FileMode) error

	index *Index
}

// Option configures an Auditor.
type Option func(*Auditor)

// WithSimilarityThreshold overrides DefaultSimilarityThreshold.
func WithSimilarityThreshold(t float64) Option {
	return func(a *Auditor) { a.threshold = t }
}

// WithBackupDir places backups below dir instead of next to the content root.
func WithBackupDir(dir string) Option {
	return func(a *Auditor) { a.backupDir = dir }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Auditor) { a.logger = logger }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(a *Auditor) { a.recorder = r }
}

// WithClock overrides the time source used to name backups.
func WithClock(now func() time.Time) Option {
	return func(a *Auditor) { a.now = now }
}

// New creates an Auditor for root/locale/version.
func New(root, locale, version string, opts ...Option) *Auditor {
	a := &Auditor{
		root:      root,
		locale:    locale,
		version:   version,
		threshold: DefaultSimilarityThreshold,
		logger:    slog.Default(),
		recorder:  metrics.NoopRecorder{},
		now:       time.Now,
		writeFile: os.WriteFile,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// BuildIndex (re)builds the slug index. It must complete before any link
// is validated; Audit calls it itself.
func (a *Auditor) BuildIndex() (*Index, error) {
	idx, err := BuildIndex(a.root, a.locale, a.version)
	if err != nil {
		return nil, err
	}
	a.index = idx
	return idx, nil
}

func (a *Auditor) ensureIndex() (*Index, error) {
	if a.index != nil {
		return a.index, nil
	}
	return a.BuildIndex()
}

// ValidateLink checks one link. It returns an empty reason for valid links.
func (a *Auditor) ValidateLink(l Link) (valid bool, reason string) {
	idx, err := a.ensureIndex()
	if err != nil {
		return false, err.Error()
	}
	if !wellFormed(l.URL) {
		return false, ReasonInvalidURL
	}

	for _, slug := range a.candidates(l) {
		if idx.Has(slug) {
			return true, ""
		}
	}
	for _, slug := range a.candidates(l) {
		if _, err := os.Stat(filepath.Join(a.root, filepath.FromSlash(slug))); err == nil {
			return true, ""
		}
	}
	return false, ReasonMissingTarget
}

// candidates returns the root-relative slugs a link may point at: the
// scope-root interpretation first, then the file-relative one.
func (a *Auditor) candidates(l Link) []string {
	primary := slugOf(Normalize(l.URL, a.locale, a.version))
	out := []string{primary}
	if strings.HasPrefix(l.URL, "/") || l.FilePath == "" {
		return out
	}
	rel := path.Join(path.Dir(l.FilePath), strings.Trim(stripSuffix(l.URL), "/"))
	if rel != primary && strings.HasPrefix(rel, a.locale+"/"+a.version+"/") {
		out = append(out, rel)
	}
	return out
}

func stripSuffix(link string) string {
	if s := suffixOf(link); s != "" {
		return strings.TrimSuffix(link, s)
	}
	return link
}

// FindPlausibleTarget proposes a replacement slug (content-root relative,
// without extension) for a broken link: an exact slug match, then a file
// with the same basename, then the most similar slug scoring above the
// threshold.
func (a *Auditor) FindPlausibleTarget(brokenURL string) (string, bool) {
	return a.plausibleTarget([]string{slugOf(Normalize(brokenURL, a.locale, a.version))})
}

// targetFor is FindPlausibleTarget for a scanned link. Relative links are
// also matched from the directory of the linking file.
func (a *Auditor) targetFor(l Link) (string, bool) {
	return a.plausibleTarget(a.candidates(l))
}

// plausibleTarget runs the three suggestion steps over every reading of a
// link. Each step is tried for all readings before falling through.
func (a *Auditor) plausibleTarget(slugs []string) (string, bool) {
	idx, err := a.ensureIndex()
	if err != nil || idx.Len() == 0 || len(slugs) == 0 {
		return "", false
	}

	stems := make([]string, 0, len(slugs))
	for _, slug := range slugs {
		if file, ok := idx.File(slug); ok {
			return strings.TrimSuffix(file, path.Ext(file)), true
		}
		stems = append(stems, strings.TrimSuffix(slug, path.Ext(slug)))
	}

	base := path.Base(stems[0])
	for _, candidate := range idx.Slugs() {
		if path.Base(candidate) == base {
			return candidate, true
		}
	}

	prefix := idx.scopePrefix()
	type scored struct {
		slug  string
		score float64
	}
	ranked := make([]scored, 0, idx.Len())
	for _, candidate := range idx.Slugs() {
		best := 0.0
		for _, stem := range stems {
			if score := Similarity(strings.TrimPrefix(stem, prefix), strings.TrimPrefix(candidate, prefix)); score > best {
				best = score
			}
		}
		ranked = append(ranked, scored{slug: candidate, score: best})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	if ranked[0].score > a.threshold {
		return ranked[0].slug, true
	}
	return "", false
}

// suggest renders a target slug in the same form as the original link:
// absolute links stay absolute, relative links are made relative to the
// linking file, extensions and query/fragment suffixes are preserved.
func (a *Auditor) suggest(l Link, targetSlug string) string {
	file, ok := a.index.File(targetSlug)
	if !ok {
		return ""
	}
	orig := stripSuffix(l.URL)
	target := targetSlug
	if ext := path.Ext(orig); ext == ".md" || ext == ".mdx" {
		target = file
	}

	var out string
	switch {
	case strings.HasPrefix(orig, "/"):
		if strings.HasPrefix(strings.TrimPrefix(orig, "/"), a.index.scopePrefix()) {
			out = "/" + target
		} else {
			out = "/" + strings.TrimPrefix(target, a.index.scopePrefix())
		}
	case strings.HasPrefix(orig, a.index.scopePrefix()):
		out = target
	default:
		rel, err := filepath.Rel(filepath.FromSlash(path.Dir(l.FilePath)), filepath.FromSlash(target))
		if err != nil {
			out = strings.TrimPrefix(target, a.index.scopePrefix())
		} else {
			out = filepath.ToSlash(rel)
		}
		if strings.HasPrefix(orig, "./") && !strings.HasPrefix(out, "../") {
			out = "./" + out
		}
	}
	return out + suffixOf(l.URL)
}

// Audit indexes the scope, then scans and validates every file. Unreadable
// files are reported in Errors and skipped.
func (a *Auditor) Audit() (*AuditResult, error) {
	start := a.now()
	idx, err := a.BuildIndex()
	if err != nil {
		return nil, err
	}
	a.recorder.ObserveStageDuration("audit_index", a.now().Sub(start))

	res := &AuditResult{
		RunID:          uuid.NewString(),
		Locale:         a.locale,
		Version:        a.version,
		BrokenLinks:    []BrokenLink{},
		FixableLinks:   []BrokenLink{},
		UnfixableLinks: []BrokenLink{},
	}

	scanStart := a.now()
	for _, file := range idx.Files() {
		links, err := ScanFile(a.root, file)
		if err != nil {
			a.logger.Warn("Skipping unreadable file", logfields.Path(file), logfields.Error(err))
			res.Errors = append(res.Errors, file+": "+err.Error())
			continue
		}
		res.ProcessedFiles++

		for _, l := range links {
			res.TotalLinks++
			valid, reason := a.ValidateLink(l)
			if valid {
				res.ValidLinks++
				continue
			}

			broken := BrokenLink{
				FilePath:    l.FilePath,
				LineNumber:  l.LineNumber,
				OriginalURL: l.URL,
				LinkText:    l.Text,
				Reason:      reason,
				link:        l,
			}
			if reason == ReasonMissingTarget {
				if target, ok := a.targetFor(l); ok {
					broken.SuggestedFix = a.suggest(l, target)
				}
			}

			res.BrokenLinks = append(res.BrokenLinks, broken)
			if broken.Fixable() {
				res.FixableLinks = append(res.FixableLinks, broken)
			} else {
				res.UnfixableLinks = append(res.UnfixableLinks, broken)
			}
		}
	}
	a.recorder.ObserveStageDuration("audit_scan", a.now().Sub(scanStart))
	a.recorder.AddAuditLinks(metrics.LinkValid, res.ValidLinks)
	a.recorder.AddAuditLinks(metrics.LinkFixable, len(res.FixableLinks))
	a.recorder.AddAuditLinks(metrics.LinkUnfixable, len(res.UnfixableLinks))

	a.logger.Info("Link audit complete",
		logfields.RunID(res.RunID),
		logfields.Locale(a.locale),
		logfields.Version(a.version),
		logfields.Count(res.TotalLinks),
		slog.Int("broken", len(res.BrokenLinks)))
	return res, nil
}
