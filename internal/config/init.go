package config

import (
	"fmt"
	"os"
)

const exampleConfig = `# docsite configuration
site:
  product: nomad
  site_name: Nomad by HashiCorp
  category: docs

content:
  root: .
  dir: content
  partials_dir: content/partials

navigation:
  # Manually curated sidebar order. Leave empty to list pages in path order.
  order_file: data/docs-navigation.yaml

source:
  host: https://github.com
  repo: hashicorp/nomad
  branch: master
  prefix: website
  # Use the branch checked out in content.root instead of source.branch.
  detect_branch: false

render:
  highlight_style: github

build:
  concurrency: 4

output:
  directory: ./out
  clean: true

logging:
  level: info
  format: text

serve:
  port: 3000
  metrics: true
  # Periodic full rebuild on top of file watching, e.g. 5m. 0 disables it.
  rebuild_interval: 0s
`

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}
	if err := os.WriteFile(configPath, []byte(exampleConfig), 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
