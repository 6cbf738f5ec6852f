package navigation

import "fmt"

// Find returns the item whose path equals p.
func Find(items []Item, p string) (Item, bool) {
	if p == "" {
		return Item{}, false
	}
	for _, item := range items {
		if item.Path == p {
			return item, true
		}
		if found, ok := Find(item.Children, p); ok {
			return found, true
		}
	}
	return Item{}, false
}

// Breadcrumbs returns the chain of items from a root to the item with path p,
// or nil when no item matches.
func Breadcrumbs(items []Item, p string) []Item {
	if p == "" {
		return nil
	}
	for _, item := range items {
		if item.Path == p {
			return []Item{item}
		}
		if trail := Breadcrumbs(item.Children, p); trail != nil {
			return append([]Item{item}, trail...)
		}
	}
	return nil
}

// Stats summarizes a navigation forest.
type Stats struct {
	TotalItems  int `json:"totalItems"`
	MaxDepth    int `json:"maxDepth"`
	Directories int `json:"directories"`
	Pages       int `json:"pages"`
}

// ComputeStats walks the forest once. Roots are at depth 1.
func ComputeStats(items []Item) Stats {
	var st Stats
	var walk func([]Item, int)
	walk = func(level []Item, depth int) {
		if len(level) > 0 && depth > st.MaxDepth {
			st.MaxDepth = depth
		}
		for _, item := range level {
			st.TotalItems++
			if item.IsDirectory() {
				st.Directories++
			} else {
				st.Pages++
			}
			walk(item.Children, depth+1)
		}
	}
	walk(items, 1)
	return st
}

// Validate checks structural consistency and returns one message per
// problem. It never fails.
func Validate(items []Item) []string {
	issues := []string{}
	seen := make(map[string]string)

	var walk func([]Item, string)
	walk = func(level []Item, parent string) {
		for i, item := range level {
			where := item.OriginalPath
			if where == "" {
				where = fmt.Sprintf("%s[%d]", parent, i)
			}
			if item.Title == "" {
				issues = append(issues, fmt.Sprintf("item %s has no title", where))
			}
			if item.Path != "" {
				if first, dup := seen[item.Path]; dup {
					issues = append(issues, fmt.Sprintf("duplicate path %s (%s and %s)", item.Path, first, where))
				} else {
					seen[item.Path] = where
				}
			}
			if !item.IsDirectory() && item.Path == "" {
				issues = append(issues, fmt.Sprintf("page %s has no path", where))
			}
			walk(item.Children, where)
		}
	}
	walk(items, "root")
	return issues
}
