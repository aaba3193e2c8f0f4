package config

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Snapshot computes a stable hash of the fields that change generated pages.
// Logging and serve settings are excluded.
func (c *Config) Snapshot() string {
	if c == nil {
		return ""
	}
	h := sha256.New()
	w := func(parts ...string) {
		h.Write([]byte(strings.Join(parts, "=")))
		h.Write([]byte{0})
	}
	w("site.product", c.Site.Product)
	w("site.site_name", c.Site.SiteName)
	w("site.category", c.Site.Category)
	w("content.dir", c.Content.Dir)
	w("content.partials_dir", c.Content.PartialsDir)
	w("navigation.order_file", c.Navigation.OrderFile)
	w("source.host", c.Source.Host)
	w("source.repo", c.Source.Repo)
	w("source.branch", c.Source.Branch)
	w("source.prefix", c.Source.Prefix)
	w("render.highlight_style", c.Render.HighlightStyle)
	return hex.EncodeToString(h.Sum(nil))
}
