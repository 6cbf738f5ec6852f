package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"git.home.luguber.info/inful/docpipe/internal/navigation"
)

// NavCmd implements the 'nav' command.
type NavCmd struct {
	Locale  string `arg:"" help:"Locale directory, e.g. en"`
	Version string `arg:"" name:"doc-version" help:"Version directory, e.g. v1"`
	Format  string `short:"f" default:"text" help:"Output format (text or json)" enum:"text,json"`
	Stats   bool   `help:"Print tree statistics"`
}

func (n *NavCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	tree, err := navigation.NewBuilder(cfg.Content.Root).Build(n.Locale, n.Version)
	if err != nil {
		return err
	}

	w := g.out()
	if n.Format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(tree)
	}

	printItems(w, tree.Items, 0)
	for _, d := range tree.Diagnostics {
		_, _ = fmt.Fprintf(w, "! %s\n", d)
	}
	if n.Stats {
		st := navigation.ComputeStats(tree.Items)
		_, _ = fmt.Fprintf(w, "%d items (%d directories, %d pages), depth %d\n",
			st.TotalItems, st.Directories, st.Pages, st.MaxDepth)
	}
	return nil
}

func printItems(w io.Writer, items []navigation.Item, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, item := range items {
		if item.IsDirectory() {
			_, _ = fmt.Fprintf(w, "%s%s/\n", indent, item.Title)
			printItems(w, item.Children, depth+1)
			continue
		}
		line := fmt.Sprintf("%s%s  %s", indent, item.Title, item.Path)
		if item.Badge != "" {
			line += " [" + string(item.Badge) + "]"
		}
		_, _ = fmt.Fprintln(w, line)
	}
}
