package config

import "runtime"

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config)
	Domain() string
}

var defaultAppliers = []DefaultApplier{
	siteDefaults{},
	contentDefaults{},
	sourceDefaults{},
	renderDefaults{},
	buildDefaults{},
	outputDefaults{},
	loggingDefaults{},
	serveDefaults{},
}

func applyDefaults(cfg *Config) {
	for _, applier := range defaultAppliers {
		applier.ApplyDefaults(cfg)
	}
}

type siteDefaults struct{}

func (siteDefaults) Domain() string { return "site" }

func (siteDefaults) ApplyDefaults(cfg *Config) {
	if cfg.Site.Product == "" {
		cfg.Site.Product = "nomad"
	}
	if cfg.Site.SiteName == "" {
		cfg.Site.SiteName = "Nomad by HashiCorp"
	}
	if cfg.Site.Category == "" {
		cfg.Site.Category = "docs"
	}
}

type contentDefaults struct{}

func (contentDefaults) Domain() string { return "content" }

func (contentDefaults) ApplyDefaults(cfg *Config) {
	if cfg.Content.Root == "" {
		cfg.Content.Root = "."
	}
	if cfg.Content.Dir == "" {
		cfg.Content.Dir = "content"
	}
	if cfg.Content.PartialsDir == "" {
		cfg.Content.PartialsDir = "content/partials"
	}
}

type sourceDefaults struct{}

func (sourceDefaults) Domain() string { return "source" }

func (sourceDefaults) ApplyDefaults(cfg *Config) {
	if cfg.Source.Host == "" {
		cfg.Source.Host = "https://github.com"
	}
	if cfg.Source.Repo == "" {
		cfg.Source.Repo = "hashicorp/nomad"
	}
	if cfg.Source.Branch == "" {
		cfg.Source.Branch = "master"
	}
	if cfg.Source.Prefix == "" {
		cfg.Source.Prefix = "website"
	}
}

type renderDefaults struct{}

func (renderDefaults) Domain() string { return "render" }

func (renderDefaults) ApplyDefaults(cfg *Config) {
	if cfg.Render.HighlightStyle == "" {
		cfg.Render.HighlightStyle = "github"
	}
}

type buildDefaults struct{}

func (buildDefaults) Domain() string { return "build" }

func (buildDefaults) ApplyDefaults(cfg *Config) {
	if cfg.Build.Concurrency <= 0 {
		cfg.Build.Concurrency = runtime.NumCPU()
	}
}

type outputDefaults struct{}

func (outputDefaults) Domain() string { return "output" }

func (outputDefaults) ApplyDefaults(cfg *Config) {
	if cfg.Output.Directory == "" {
		cfg.Output.Directory = "./out"
	}
}

type loggingDefaults struct{}

func (loggingDefaults) Domain() string { return "logging" }

func (loggingDefaults) ApplyDefaults(cfg *Config) {
	cfg.Logging.Level = NormalizeLogLevel(string(cfg.Logging.Level))
	cfg.Logging.Format = NormalizeLogFormat(string(cfg.Logging.Format))
}

type serveDefaults struct{}

func (serveDefaults) Domain() string { return "serve" }

func (serveDefaults) ApplyDefaults(cfg *Config) {
	if cfg.Serve.Port == 0 {
		cfg.Serve.Port = 3000
	}
}
