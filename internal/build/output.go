package build

import (
	"encoding/json"
	"os"
	"path"
	"path/filepath"
)

// pageName maps a slug to its artifact stem. The scope home page is "index".
func pageName(slug string) string {
	if slug == "" {
		return "index"
	}
	return slug
}

// artifactPaths returns the scope-relative html and toc paths for a slug.
func artifactPaths(slug string) (htmlRel, tocRel string) {
	stem := pageName(slug)
	return path.Clean(stem) + ".html", path.Clean(stem) + ".toc.json"
}

func writeFile(dir, rel string, data []byte) error {
	target := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return err
	}
	// #nosec G306 -- rendered documentation is meant to be world readable
	return os.WriteFile(target, data, 0o644)
}

func writeJSON(dir, rel string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return writeFile(dir, rel, append(data, '\n'))
}
