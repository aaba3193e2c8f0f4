package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsite/internal/config"
	ferrors "git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

func writeProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"content/docs/index.mdx":                    "---\npage_title: Documentation\n---\n# Welcome\n",
		"content/docs/install.mdx":                  "---\npage_title: Installing Nomad\n---\n~> Check the checksum.\n",
		"content/docs/job-specification/index.mdx":  "---\npage_title: Job Specification\n---\n",
		"content/docs/job-specification/update.mdx": "---\npage_title: update Stanza\n---\n<Placement groups={['job', 'group', 'update']} />\n",
	}
	for name, body := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	}
	cfg := "content:\n  root: " + root + "\noutput:\n  directory: " + filepath.Join(root, "out") + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "docsite.yaml"), []byte(cfg), 0o600))
	return root
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var cli CLI
	cli.stderr = io.Discard
	parser, err := kong.New(&cli,
		kong.Name("docsite"),
		kong.Vars{"version": "test"},
		kong.Exit(func(int) { t.Fatal("unexpected exit") }))
	require.NoError(t, err)

	kctx, err := parser.Parse(args)
	require.NoError(t, err)

	var out bytes.Buffer
	err = kctx.Run(&Global{Context: context.Background(), Stdout: &out}, &cli)
	return out.String(), err
}

func TestPaths(t *testing.T) {
	root := writeProject(t)
	cfgPath := filepath.Join(root, "docsite.yaml")

	out, err := run(t, "-c", cfgPath, "paths")
	require.NoError(t, err)
	assert.Equal(t, "/docs\n/docs/install\n/docs/job-specification\n/docs/job-specification/update\n", out)

	out, err = run(t, "-c", cfgPath, "paths", "--json")
	require.NoError(t, err)
	var doc struct {
		Paths []struct {
			Params struct {
				Slug []string `json:"slug"`
			} `json:"params"`
		} `json:"paths"`
		Fallback bool `json:"fallback"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Paths, 4)
	assert.Empty(t, doc.Paths[0].Params.Slug)
	assert.Equal(t, []string{"job-specification", "update"}, doc.Paths[3].Params.Slug)
	assert.False(t, doc.Fallback)
	assert.Contains(t, out, `"slug": []`)
}

func TestRender(t *testing.T) {
	root := writeProject(t)
	cfgPath := filepath.Join(root, "docsite.yaml")

	out, err := run(t, "-c", cfgPath, "render", "install")
	require.NoError(t, err)
	assert.Contains(t, out, "<title>Installing Nomad | Nomad by HashiCorp</title>")
	assert.Contains(t, out, `<div class="alert alert-warning g-type-body" role="alert">`)

	out, err = run(t, "-c", cfgPath, "render", "job-specification/update", "--format", "content")
	require.NoError(t, err)
	assert.Contains(t, out, `class="g-placement-table"`)
	assert.NotContains(t, out, "<html")

	out, err = run(t, "-c", cfgPath, "render", "--format", "props")
	require.NoError(t, err)
	var props map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &props))
	assert.Equal(t, "/docs", props["url"])
	assert.Equal(t, "https://github.com/hashicorp/nomad/blob/master/website/content/docs/index.mdx", props["resourceUrl"])
}

func TestRender_NotFound(t *testing.T) {
	root := writeProject(t)
	_, err := run(t, "-c", filepath.Join(root, "docsite.yaml"), "render", "nope")
	require.Error(t, err)
	assert.Equal(t, 4, ferrors.NewCLIErrorAdapter(false, slog.New(slog.NewTextHandler(io.Discard, nil))).ExitCodeFor(err))
}

func TestRender_InvalidSlug(t *testing.T) {
	root := writeProject(t)
	_, err := run(t, "-c", filepath.Join(root, "docsite.yaml"), "render", "a/../b")
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
}

func TestBuild(t *testing.T) {
	root := writeProject(t)
	out, err := run(t, "-c", filepath.Join(root, "docsite.yaml"), "build", "-j", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Built 4 pages into "+filepath.Join(root, "out"))
	assert.FileExists(t, filepath.Join(root, "out", "docs", "job-specification", "update", "index.html"))
	assert.FileExists(t, filepath.Join(root, "out", "manifest.json"))
}

func TestBuild_OutputOverride(t *testing.T) {
	root := writeProject(t)
	dest := filepath.Join(t.TempDir(), "site")
	_, err := run(t, "-c", filepath.Join(root, "docsite.yaml"), "build", "-o", dest, "--no-clean")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dest, "docs", "index.html"))
}

func TestBrokenConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "docsite.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("unknown_section: true\n"), 0o600))

	_, err := run(t, "-c", cfgPath, "paths")
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestInit(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "docsite.yaml")

	out, err := run(t, "-c", cfgPath, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote configuration to "+cfgPath)

	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "docs", cfg.Site.Category)

	_, err = run(t, "-c", cfgPath, "init")
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))

	_, err = run(t, "-c", cfgPath, "init", "--force")
	require.NoError(t, err)
}

func TestNewLogger_Precedence(t *testing.T) {
	lc := config.LoggingConfig{Level: config.LogLevelError, Format: config.LogFormatJSON}
	ctx := context.Background()

	c := &CLI{stderr: io.Discard}
	assert.False(t, c.newLogger(lc).Enabled(ctx, slog.LevelWarn))

	t.Setenv(LogLevelEnv, "warn")
	assert.True(t, c.newLogger(lc).Enabled(ctx, slog.LevelWarn))
	assert.False(t, c.newLogger(lc).Enabled(ctx, slog.LevelInfo))

	c.Verbose = true
	assert.True(t, c.newLogger(lc).Enabled(ctx, slog.LevelDebug))
}

func TestNewLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	c := &CLI{stderr: &buf}
	c.newLogger(config.LoggingConfig{Level: config.LogLevelInfo, Format: config.LogFormatJSON}).Info("hello")
	assert.True(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}
