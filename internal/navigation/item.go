package navigation

import (
	"encoding/json"
	"fmt"
)

// Kind discriminates navigation items.
type Kind int

const (
	// KindPage is a leaf pointing at a document.
	KindPage Kind = iota
	// KindDirectory groups child items and has no path of its own.
	KindDirectory
)

func (k Kind) String() string {
	if k == KindDirectory {
		return "directory"
	}
	return "page"
}

// MarshalJSON encodes the kind as the boolean isDirectory flag.
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k == KindDirectory)
}

// UnmarshalJSON decodes the boolean isDirectory flag.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var dir bool
	if err := json.Unmarshal(data, &dir); err != nil {
		return fmt.Errorf("isDirectory: %w", err)
	}
	if dir {
		*k = KindDirectory
	} else {
		*k = KindPage
	}
	return nil
}

// Badge marks a page in the sidebar.
type Badge string

const (
	BadgeDeprecated Badge = "deprecated"
	BadgeNew        Badge = "new"
	BadgeBeta       Badge = "beta"
)

// Item is a node of the navigation forest.
type Item struct {
	Title string `json:"title"`
	// Path is the site path of a page, empty for directories.
	Path  string  `json:"path"`
	Order float64 `json:"order"`
	Kind  Kind    `json:"isDirectory"`
	// OriginalPath is the scope-relative source path used as a config key.
	OriginalPath string `json:"originalPath"`
	CustomLabel  bool   `json:"customLabel"`
	Collapsed    bool   `json:"collapsed,omitempty"`
	Badge        Badge  `json:"badge,omitempty"`
	Children     []Item `json:"children,omitempty"`
}

// IsDirectory reports whether the item is a directory.
func (i Item) IsDirectory() bool { return i.Kind == KindDirectory }

// Tree is the navigation forest of one locale/version scope.
type Tree struct {
	Locale  string `json:"locale"`
	Version string `json:"version"`
	Items   []Item `json:"items"`
	// Diagnostics lists non-fatal problems met while building.
	Diagnostics []string `json:"diagnostics,omitempty"`
}

// PagePath returns the site path of a document slug.
func PagePath(locale, version, slug string) string {
	base := "/" + locale + "/docs/" + version
	if slug == "" {
		return base
	}
	return base + "/" + slug
}

func cloneItems(items []Item) []Item {
	if items == nil {
		return nil
	}
	out := make([]Item, len(items))
	for i, item := range items {
		item.Children = cloneItems(item.Children)
		out[i] = item
	}
	return out
}
