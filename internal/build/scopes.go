package build

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/docpipe/internal/config"
)

// Scope is one locale/version pair.
type Scope struct {
	Locale  string
	Version string
}

// DiscoverScopes returns the scopes to build. Configured locales and
// versions are used as given; missing lists are filled from the directory
// layout below the content root.
func DiscoverScopes(cc config.ContentConfig) ([]Scope, error) {
	locales := cc.Locales
	if len(locales) == 0 {
		var err error
		if locales, err = subdirs(cc.Root); err != nil {
			return nil, err
		}
	}

	var scopes []Scope
	for _, locale := range locales {
		versions := cc.Versions
		if len(versions) == 0 {
			var err error
			if versions, err = subdirs(filepath.Join(cc.Root, locale)); err != nil {
				return nil, err
			}
		}
		for _, version := range versions {
			scopes = append(scopes, Scope{Locale: locale, Version: version})
		}
	}
	return scopes, nil
}

func subdirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}
