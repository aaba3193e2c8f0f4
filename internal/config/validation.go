package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks the configuration after defaults have been applied.
// All problems are reported together.
func Validate(cfg *Config) error {
	var errs []error

	if strings.ContainsAny(cfg.Site.Category, `/\`) {
		errs = append(errs, fmt.Errorf("site.category must be a single path segment, got %q", cfg.Site.Category))
	}
	if parts := strings.Split(cfg.Source.Repo, "/"); len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		errs = append(errs, fmt.Errorf("source.repo must look like <org>/<repo>, got %q", cfg.Source.Repo))
	}
	if !strings.HasPrefix(cfg.Source.Host, "http://") && !strings.HasPrefix(cfg.Source.Host, "https://") {
		errs = append(errs, fmt.Errorf("source.host must be an http(s) URL, got %q", cfg.Source.Host))
	}
	if cfg.Build.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("build.concurrency must be positive, got %d", cfg.Build.Concurrency))
	}
	if cfg.Serve.Port < 1 || cfg.Serve.Port > 65535 {
		errs = append(errs, fmt.Errorf("serve.port out of range: %d", cfg.Serve.Port))
	}
	if cfg.Serve.RebuildInterval < 0 {
		errs = append(errs, fmt.Errorf("serve.rebuild_interval must not be negative, got %s", cfg.Serve.RebuildInterval))
	}
	if cfg.Content.PartialsDir == cfg.Content.Dir {
		errs = append(errs, errors.New("content.partials_dir must differ from content.dir"))
	}

	return errors.Join(errs...)
}
