package linkaudit

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"git.home.luguber.info/inful/docpipe/internal/foundation/errors"
	"git.home.luguber.info/inful/docpipe/internal/logfields"
	"git.home.luguber.info/inful/docpipe/internal/markdown"
	"git.home.luguber.info/inful/docpipe/internal/metrics"
)

type filePlan struct {
	path     string
	content  []byte
	mode     os.FileMode
	fixed    []FixedLink
	stripped []FixedLink
}

// Fix audits the scope and repairs every broken link: fixable links get their
// url replaced by the suggestion, unfixable links are reduced to their text.
//
// Unless dryRun is set, the whole content root is backed up before the first
// write. A failed backup aborts with ErrBackupFailed and no file modified.
// Per-file failures are collected in FixResult.Errors.
func (a *Auditor) Fix(dryRun bool) (*FixResult, error) {
	audit, err := a.Audit()
	if err != nil {
		return nil, err
	}

	res := &FixResult{
		RunID:         audit.RunID,
		DryRun:        dryRun,
		FixedLinks:    []FixedLink{},
		StrippedLinks: []FixedLink{},
		Errors:        append([]string{}, audit.Errors...),
	}

	plans := a.plan(audit.BrokenLinks, res)
	if len(plans) == 0 {
		return res, nil
	}

	if !dryRun {
		dest, err := a.backupTarget(res.RunID)
		if err == nil {
			err = copyTree(a.root, dest)
		}
		if err != nil {
			a.logger.Error("Backup failed, no files modified", logfields.Path(dest), logfields.Error(err))
			return res, errors.WrapError(fmt.Errorf("%w: %w", ErrBackupFailed, err), errors.CategoryBackup, "backup failed, no files modified").
				Fatal().
				WithContext("path", dest).
				Build()
		}
		res.BackupCreated = true
		res.BackupPath = dest
		a.logger.Info("Created content backup", logfields.Path(dest), logfields.RunID(res.RunID))
	}

	for _, p := range plans {
		if !dryRun {
			abs := filepath.Join(a.root, filepath.FromSlash(p.path))
			if err := a.writeFile(abs, p.content, p.mode); err != nil {
				a.logger.Warn("Failed to write file", logfields.Path(p.path), logfields.Error(err))
				res.Errors = append(res.Errors, p.path+": "+err.Error())
				continue
			}
		}
		res.FixedLinks = append(res.FixedLinks, p.fixed...)
		res.StrippedLinks = append(res.StrippedLinks, p.stripped...)
	}
	res.TotalFixed = len(res.FixedLinks) + len(res.StrippedLinks)

	if !dryRun {
		a.recorder.AddFixActions(metrics.FixRewritten, len(res.FixedLinks))
		a.recorder.AddFixActions(metrics.FixStripped, len(res.StrippedLinks))
	}
	a.logger.Info("Link fix complete",
		logfields.RunID(res.RunID),
		logfields.Count(res.TotalFixed),
		slog.Bool("dry_run", dryRun))
	return res, nil
}

// plan computes the rewritten content of every file with broken links.
// Files that cannot be read or edited are reported and skipped.
func (a *Auditor) plan(broken []BrokenLink, res *FixResult) []filePlan {
	byFile := make(map[string][]BrokenLink)
	for _, b := range broken {
		byFile[b.FilePath] = append(byFile[b.FilePath], b)
	}
	files := make([]string, 0, len(byFile))
	for f := range byFile {
		files = append(files, f)
	}
	sort.Strings(files)

	plans := make([]filePlan, 0, len(files))
	for _, file := range files {
		abs := filepath.Join(a.root, filepath.FromSlash(file))
		info, err := os.Stat(abs)
		if err != nil {
			res.Errors = append(res.Errors, file+": "+err.Error())
			continue
		}
		// #nosec G304 -- file comes from the slug index walk
		source, err := os.ReadFile(abs)
		if err != nil {
			res.Errors = append(res.Errors, file+": "+err.Error())
			continue
		}

		links := byFile[file]
		sort.SliceStable(links, func(i, j int) bool { return links[i].LineNumber > links[j].LineNumber })

		p := filePlan{path: file, mode: info.Mode().Perm()}
		edits := make([]markdown.Edit, 0, len(links))
		for _, b := range links {
			l := b.link
			if b.Fixable() {
				edits = append(edits, markdown.Edit{
					Start:       l.urlStart,
					End:         l.urlEnd,
					Replacement: []byte(b.SuggestedFix),
					Expect:      []byte(l.URL),
				})
				p.fixed = append(p.fixed, FixedLink{
					FilePath:    file,
					LineNumber:  b.LineNumber,
					OriginalURL: b.OriginalURL,
					NewURL:      b.SuggestedFix,
					LinkText:    b.LinkText,
				})
				continue
			}
			edits = append(edits, markdown.Edit{
				Start:       l.start,
				End:         l.end,
				Replacement: []byte(l.Text),
				Expect:      []byte(l.Raw()),
			})
			p.stripped = append(p.stripped, FixedLink{
				FilePath:    file,
				LineNumber:  b.LineNumber,
				OriginalURL: b.OriginalURL,
				LinkText:    b.LinkText,
			})
		}

		updated, err := markdown.ApplyEdits(source, edits)
		if err != nil {
			res.Errors = append(res.Errors, file+": "+err.Error())
			continue
		}
		p.content = updated
		plans = append(plans, p)
	}
	return plans
}
