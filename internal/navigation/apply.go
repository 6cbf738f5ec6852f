package navigation

import (
	"path"
	"sort"
	"strings"
)

// keyVariants returns the config keys an item answers to. Directories also
// answer to their basename when withBasename is set.
func keyVariants(item Item, withBasename bool) []string {
	orig := item.OriginalPath
	variants := []string{
		orig,
		strings.TrimSuffix(orig, "/"),
		strings.TrimPrefix(orig, "/"),
	}
	if withBasename {
		variants = append(variants, path.Base(strings.Trim(orig, "/")))
	}
	return variants
}

func normalizeKey(key string) string {
	return strings.Trim(strings.TrimSpace(key), "/")
}

// lookup finds the first variant of item present in table.
func lookup[V any](table map[string]V, item Item, withBasename bool) (V, bool) {
	for _, v := range keyVariants(item, withBasename) {
		if val, ok := table[v]; ok {
			return val, true
		}
	}
	var zero V
	return zero, false
}

func normalizedTable[V any](in map[string]V) map[string]V {
	out := make(map[string]V, len(in)*2)
	for k, v := range in {
		out[k] = v
		out[normalizeKey(k)] = v
	}
	return out
}

// ApplySidebarConfig applies hidden, groups, labels and order, in that order,
// at every level of the forest. A nil config returns a copy of items.
func ApplySidebarConfig(items []Item, cfg *SidebarConfig) []Item {
	out := cloneItems(items)
	if cfg == nil {
		return out
	}
	out = FilterHidden(out, cfg.Hidden)
	out = ApplyGroups(out, cfg.Groups)
	out = ApplyLabels(out, cfg.Labels)
	out = ApplyOrder(out, cfg.Order)
	return out
}

// FilterHidden removes items matching an entry of hidden.
func FilterHidden(items []Item, hidden []string) []Item {
	if len(hidden) == 0 {
		return cloneItems(items)
	}
	set := make(map[string]struct{}, len(hidden)*2)
	for _, h := range hidden {
		set[h] = struct{}{}
		set[normalizeKey(h)] = struct{}{}
	}

	var filter func([]Item) []Item
	filter = func(in []Item) []Item {
		out := make([]Item, 0, len(in))
		for _, item := range in {
			if _, hide := lookup(set, item, true); hide {
				continue
			}
			item.Children = filter(item.Children)
			out = append(out, item)
		}
		return out
	}
	return filter(items)
}

// ApplyGroups overrides title, order and collapsed state of directories.
func ApplyGroups(items []Item, groups map[string]Group) []Item {
	if len(groups) == 0 {
		return cloneItems(items)
	}
	table := normalizedTable(groups)

	var apply func([]Item) []Item
	apply = func(in []Item) []Item {
		out := make([]Item, len(in))
		for i, item := range in {
			if item.IsDirectory() {
				if g, ok := lookup(table, item, true); ok {
					if g.Title != "" {
						item.Title = g.Title
					}
					if g.Order != nil {
						item.Order = *g.Order
					}
					item.Collapsed = g.Collapsed
				}
			}
			item.Children = apply(item.Children)
			out[i] = item
		}
		return out
	}
	return apply(items)
}

// ApplyLabels overrides item titles and marks them as custom labels.
func ApplyLabels(items []Item, labels map[string]string) []Item {
	if len(labels) == 0 {
		return cloneItems(items)
	}
	table := normalizedTable(labels)

	var apply func([]Item) []Item
	apply = func(in []Item) []Item {
		out := make([]Item, len(in))
		for i, item := range in {
			if label, ok := lookup(table, item, item.IsDirectory()); ok {
				item.Title = label
				item.CustomLabel = true
			}
			item.Children = apply(item.Children)
			out[i] = item
		}
		return out
	}
	return apply(items)
}

// ApplyOrder reorders each level by position in order. Listed items take
// their list index as order; unlisted items follow, keeping their relative
// order.
func ApplyOrder(items []Item, order []string) []Item {
	if len(order) == 0 {
		return cloneItems(items)
	}
	index := make(map[string]int, len(order)*2)
	for i := len(order) - 1; i >= 0; i-- {
		index[order[i]] = i
		index[normalizeKey(order[i])] = i
	}

	var apply func([]Item) []Item
	apply = func(in []Item) []Item {
		out := make([]Item, len(in))
		var unlisted []int
		for i, item := range in {
			item.Children = apply(item.Children)
			if pos, ok := lookup(index, item, item.IsDirectory()); ok {
				item.Order = float64(pos)
			} else {
				unlisted = append(unlisted, i)
			}
			out[i] = item
		}

		sort.SliceStable(unlisted, func(a, b int) bool {
			return out[unlisted[a]].Order < out[unlisted[b]].Order
		})
		for rank, i := range unlisted {
			out[i].Order = float64(len(order) + rank)
		}
		return out
	}
	return apply(items)
}

// Sort orders every level by order, then title. Ties keep scan order.
func Sort(items []Item) []Item {
	out := cloneItems(items)
	var sortLevel func([]Item)
	sortLevel = func(level []Item) {
		sort.SliceStable(level, func(i, j int) bool {
			if level[i].Order != level[j].Order {
				return level[i].Order < level[j].Order
			}
			return level[i].Title < level[j].Title
		})
		for i := range level {
			sortLevel(level[i].Children)
		}
	}
	sortLevel(out)
	return out
}
