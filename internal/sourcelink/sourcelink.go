// Package sourcelink builds the "view source" URL shown on every page.
package sourcelink

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"strings"

	"github.com/go-git/go-git/v5"

	ferrors "git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/logfields"
)

// ErrDetachedHead is returned by DetectBranch when HEAD does not point at a branch.
var ErrDetachedHead = errors.New("HEAD is not on a branch")

// Linker maps site-relative source paths to repository blob URLs of the form
// <host>/<org>/<repo>/blob/<branch>/<prefix>/<path>.
type Linker struct {
	base string
}

// New validates the parts of the repository location.
func New(host, repo, branch, prefix string) (*Linker, error) {
	u, err := url.Parse(strings.TrimSpace(host))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, ferrors.ConfigError("source host must be an http(s) URL").
			WithContext("host", host).
			Build()
	}
	parts := strings.Split(strings.Trim(repo, "/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, ferrors.ConfigError("source repo must be <org>/<repo>").
			WithContext("repo", repo).
			Build()
	}
	if strings.TrimSpace(branch) == "" {
		return nil, ferrors.ConfigError("source branch must not be empty").Build()
	}

	base := strings.TrimRight(u.String(), "/") + "/" + path.Join(parts[0], parts[1], "blob", branch, strings.Trim(prefix, "/"))
	return &Linker{base: base}, nil
}

// URL returns the blob URL for sourcePath (slash separated, relative to the site root).
func (l *Linker) URL(sourcePath string) string {
	return l.base + "/" + strings.TrimLeft(path.Clean("/"+sourcePath), "/")
}

// DetectBranch returns the short name of the branch checked out in the
// repository containing dir.
func DetectBranch(dir string) (string, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("open repository at %s: %w", dir, err)
	}
	ref, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("read HEAD: %w", err)
	}
	if !ref.Name().IsBranch() {
		return "", ErrDetachedHead
	}
	return ref.Name().Short(), nil
}

// Options mirrors the source section of the site configuration.
type Options struct {
	Host         string
	Repo         string
	Branch       string
	Prefix       string
	DetectBranch bool
	// Dir is where branch detection starts looking for a repository.
	Dir string
}

// FromOptions builds a Linker, preferring the checked-out branch when
// detection is enabled and falling back to the configured branch.
func FromOptions(opts Options, logger *slog.Logger) (*Linker, error) {
	if logger == nil {
		logger = slog.Default()
	}
	branch := opts.Branch
	if opts.DetectBranch {
		detected, err := DetectBranch(opts.Dir)
		if err != nil {
			logger.Warn("Branch detection failed, using configured branch",
				slog.String("branch", branch),
				logfields.Path(opts.Dir),
				logfields.Error(err))
		} else {
			branch = detected
		}
	}
	return New(opts.Host, opts.Repo, branch, opts.Prefix)
}
