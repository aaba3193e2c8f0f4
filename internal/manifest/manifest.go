// Package manifest records what a site build produced: one fingerprint per
// page plus the configuration snapshot the pages were rendered with.
package manifest

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/docsite/internal/frontmatter"
)

// FileName is the manifest's name inside the output directory.
const FileName = "manifest.json"

// Status values of a finished build.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Manifest is the record of one build.
type Manifest struct {
	ID         string    `json:"id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Status     string    `json:"status"`
	Duration   int64     `json:"duration_ms"`
	ConfigHash string    `json:"config_hash"`
	Pages      []Page    `json:"pages"`
}

// Page is one generated page.
type Page struct {
	Slug        string `json:"slug"`
	URL         string `json:"url"`
	Source      string `json:"source"`
	Fingerprint string `json:"fingerprint"`
}

// New starts a manifest with a fresh build id.
func New(configHash string, started time.Time) *Manifest {
	return &Manifest{
		ID:         uuid.NewString(),
		StartedAt:  started.UTC(),
		ConfigHash: configHash,
		Pages:      []Page{},
	}
}

// Finish stamps the end of the build and orders pages by URL.
func (m *Manifest) Finish(status string, finished time.Time) {
	m.Status = status
	m.FinishedAt = finished.UTC()
	m.Duration = finished.Sub(m.StartedAt).Milliseconds()
	sort.Slice(m.Pages, func(i, j int) bool { return m.Pages[i].URL < m.Pages[j].URL })
}

// Fingerprint returns the content fingerprint of a page. An existing
// fingerprint field in the front matter does not take part in the hash.
func Fingerprint(fm frontmatter.FrontMatter, body []byte) (string, error) {
	fields := make(frontmatter.FrontMatter, len(fm))
	for k, v := range fm {
		if k == mdfp.FingerprintField {
			continue
		}
		fields[k] = v
	}

	header := ""
	if len(fields) > 0 {
		serialized, err := frontmatter.SerializeYAML(fields)
		if err != nil {
			return "", fmt.Errorf("serialize front matter for fingerprint: %w", err)
		}
		header = strings.TrimSuffix(string(serialized), "\n")
	}
	return mdfp.CalculateFingerprintFromParts(header, string(body)), nil
}

// ToJSON serializes the manifest to JSON.
func (m *Manifest) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	return data, nil
}

// FromJSON deserializes a manifest from JSON.
func FromJSON(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}
	return &m, nil
}

// Hash identifies the build's inputs: the config snapshot and every page
// fingerprint. Two builds with equal hashes produced the same site.
func (m *Manifest) Hash() (string, error) {
	pages := make([]Page, len(m.Pages))
	copy(pages, m.Pages)
	sort.Slice(pages, func(i, j int) bool { return pages[i].URL < pages[j].URL })

	data, err := json.Marshal(struct {
		ConfigHash string `json:"config_hash"`
		Pages      []Page `json:"pages"`
	}{m.ConfigHash, pages})
	if err != nil {
		return "", fmt.Errorf("marshal for hash: %w", err)
	}
	return fmt.Sprintf("%x", sha256.Sum256(data)), nil
}

// Changes lists page URLs that differ between two manifests.
type Changes struct {
	Added   []string
	Removed []string
	Changed []string
}

// Empty reports whether no page differs.
func (c Changes) Empty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0 && len(c.Changed) == 0
}

// Diff compares m against a previous manifest. A nil prev reports every page as added.
func (m *Manifest) Diff(prev *Manifest) Changes {
	before := map[string]string{}
	if prev != nil {
		for _, p := range prev.Pages {
			before[p.URL] = p.Fingerprint
		}
	}

	var c Changes
	seen := make(map[string]bool, len(m.Pages))
	for _, p := range m.Pages {
		seen[p.URL] = true
		fp, ok := before[p.URL]
		switch {
		case !ok:
			c.Added = append(c.Added, p.URL)
		case fp != p.Fingerprint:
			c.Changed = append(c.Changed, p.URL)
		}
	}
	for url := range before {
		if !seen[url] {
			c.Removed = append(c.Removed, url)
		}
	}
	sort.Strings(c.Added)
	sort.Strings(c.Removed)
	sort.Strings(c.Changed)
	return c
}
