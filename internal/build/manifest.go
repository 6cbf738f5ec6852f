package build

import (
	"time"

	"git.home.luguber.info/inful/docpipe/internal/content"
)

// Manifest describes the artifacts of one scope. It is written as
// manifest.json next to the rendered pages.
type Manifest struct {
	RunID       string             `json:"runId"`
	Locale      string             `json:"locale"`
	Version     string             `json:"version"`
	GeneratedAt time.Time          `json:"generatedAt"`
	Documents   []ManifestEntry    `json:"documents"`
	Excluded    []content.Excluded `json:"excluded"`
	Diagnostics []string           `json:"diagnostics,omitempty"`
}

// ManifestEntry is one rendered document.
type ManifestEntry struct {
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Source      string   `json:"source"`
	Output      string   `json:"output"`
	TOC         string   `json:"toc"`
	Fingerprint string   `json:"fingerprint"`
	LinkErrors  []string `json:"linkErrors"`
}
