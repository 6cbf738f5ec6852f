package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func page(title, orig string, order float64) Item {
	return Item{Title: title, Path: "/en/docs/v1/" + orig, Order: order, Kind: KindPage, OriginalPath: orig}
}

func dir(title, orig string, order float64, children ...Item) Item {
	return Item{Title: title, Order: order, Kind: KindDirectory, OriginalPath: orig, Children: children}
}

func titles(items []Item) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Title)
	}
	return out
}

func guidesFixture() []Item {
	return []Item{
		dir("Guides", "guides", 1,
			page("Best Practices", "guides/best-practices.mdx", 2),
			page("Setup", "guides/setup.mdx", 1),
		),
		page("Intro", "intro.md", 0),
	}
}

func TestSort_OrderThenTitle(t *testing.T) {
	items := []Item{
		page("C", "c.md", 3),
		page("A", "a.md", 1),
		page("B", "b.md", 2),
	}
	sorted := Sort(items)

	orders := []float64{sorted[0].Order, sorted[1].Order, sorted[2].Order}
	assert.Equal(t, []float64{1, 2, 3}, orders)
	assert.Equal(t, []string{"C", "A", "B"}, titles(items), "input untouched")

	tied := Sort([]Item{page("Zeta", "z.md", 1), page("Alpha", "a.md", 1), page("Same", "s1.md", 0), page("Same", "s2.md", 0)})
	assert.Equal(t, []string{"Same", "Same", "Alpha", "Zeta"}, titles(tied))
	assert.Equal(t, "s1.md", tied[0].OriginalPath)
}

func TestFilterHidden_SlashVariants(t *testing.T) {
	for _, entry := range []string{
		"guides/best-practices.mdx",
		"/guides/best-practices.mdx",
		"guides/best-practices.mdx/",
		"/guides/best-practices.mdx/",
	} {
		t.Run(entry, func(t *testing.T) {
			out := FilterHidden(guidesFixture(), []string{entry})
			require.Len(t, out, 2)
			assert.Equal(t, []string{"Setup"}, titles(out[0].Children))
			assert.Equal(t, "Intro", out[1].Title)
		})
	}
}

func TestFilterHidden_Basename(t *testing.T) {
	out := FilterHidden(guidesFixture(), []string{"setup.mdx"})
	assert.Equal(t, []string{"Best Practices"}, titles(out[0].Children))
}

func TestApplyGroups(t *testing.T) {
	order := 9.0
	out := ApplyGroups(guidesFixture(), map[string]Group{
		"/guides/": {Title: "How-to Guides", Order: &order, Collapsed: true},
		"intro.md": {Title: "ignored for pages"},
	})
	assert.Equal(t, "How-to Guides", out[0].Title)
	assert.InDelta(t, 9.0, out[0].Order, 0)
	assert.True(t, out[0].Collapsed)
	assert.Equal(t, "Intro", out[1].Title)
}

func TestApplyLabels(t *testing.T) {
	nested := []Item{dir("Reference", "docs/reference", 0, page("Auth", "docs/reference/auth.md", 0))}

	out := ApplyLabels(nested, map[string]string{
		"reference":               "API Reference",
		"auth.md":                 "not matched by basename for pages",
		"/docs/reference/auth.md": "Authentication",
	})
	require.Len(t, out, 1)
	assert.Equal(t, "API Reference", out[0].Title)
	assert.True(t, out[0].CustomLabel)
	assert.Equal(t, "Authentication", out[0].Children[0].Title)
	assert.True(t, out[0].Children[0].CustomLabel)
	assert.Equal(t, "Reference", nested[0].Title, "input untouched")
}

func TestApplyOrder(t *testing.T) {
	items := []Item{
		page("A", "a.md", 5),
		page("B", "b.md", 1),
		page("C", "c.md", 3),
		page("D", "d.md", 2),
	}
	out := Sort(ApplyOrder(items, []string{"c.md", "/a.md"}))
	assert.Equal(t, []string{"C", "A", "B", "D"}, titles(out))
	assert.InDelta(t, 0.0, out[0].Order, 0)
	assert.InDelta(t, 1.0, out[1].Order, 0)
	assert.InDelta(t, 2.0, out[2].Order, 0)
	assert.InDelta(t, 3.0, out[3].Order, 0)
}

func TestApplySidebarConfig_NilIsCopy(t *testing.T) {
	in := guidesFixture()
	out := ApplySidebarConfig(in, nil)
	require.Equal(t, in, out)
	out[0].Children[0].Title = "changed"
	assert.Equal(t, "Best Practices", in[0].Children[0].Title)
}
