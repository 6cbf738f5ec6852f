package linkaudit

import (
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrBackupFailed is returned by Fix when the pre-write backup could not be
// created. No file has been modified when it is returned.
var ErrBackupFailed = stderrors.New("content backup failed")

// backupTarget names the backup directory for this run.
func (a *Auditor) backupTarget(runID string) (string, error) {
	absRoot, err := filepath.Abs(a.root)
	if err != nil {
		return "", err
	}
	parent := a.backupDir
	if parent == "" {
		parent = filepath.Dir(absRoot)
	}
	short := runID
	if len(short) > 8 {
		short = short[:8]
	}
	name := fmt.Sprintf("%s.backup-%s-%s", filepath.Base(absRoot), a.now().UTC().Format("20060102-150405"), short)
	return filepath.Join(parent, name), nil
}

// copyTree copies the directory src to dst, which must not exist and must
// not lie inside src.
func copyTree(src, dst string) error {
	absSrc, err := filepath.Abs(src)
	if err != nil {
		return err
	}
	absDst, err := filepath.Abs(dst)
	if err != nil {
		return err
	}
	if rel, err := filepath.Rel(absSrc, absDst); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("backup directory %s is inside content root %s", absDst, absSrc)
	}
	if err := os.MkdirAll(filepath.Dir(absDst), 0o750); err != nil {
		return err
	}
	if err := os.Mkdir(absDst, 0o750); err != nil {
		return err
	}

	return filepath.WalkDir(absSrc, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(absSrc, p)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		target := filepath.Join(absDst, rel)

		switch {
		case d.IsDir():
			return os.MkdirAll(target, 0o750)
		case d.Type()&fs.ModeSymlink != 0:
			link, err := os.Readlink(p)
			if err != nil {
				return err
			}
			return os.Symlink(link, target)
		case d.Type().IsRegular():
			return copyFile(p, target)
		default:
			return nil
		}
	})
}

// copyFile copies a file from src to dst, keeping its permission bits.
func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	// #nosec G304 -- src is inside the content root being backed up
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = sourceFile.Close() }()

	// #nosec G304 -- dst is inside the freshly created backup directory
	destFile, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		_ = destFile.Close()
		return err
	}
	return destFile.Close()
}
