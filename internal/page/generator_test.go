package page

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsite/internal/content"
	ferrors "git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/markdown"
	"git.home.luguber.info/inful/docsite/internal/metrics"
	"git.home.luguber.info/inful/docsite/internal/sidenav"
	"git.home.luguber.info/inful/docsite/internal/sourcelink"
)

type stageRecorder struct {
	metrics.NoopRecorder
	mu      sync.Mutex
	results map[string]metrics.ResultLabel
}

func (r *stageRecorder) IncStageResult(stage string, result metrics.ResultLabel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.results == nil {
		r.results = make(map[string]metrics.ResultLabel)
	}
	r.results[stage] = result
}

func writeSite(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, body := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	}
	return root
}

func newGenerator(t *testing.T, root string, opts ...Option) *Generator {
	t.Helper()
	renderer, err := markdown.NewRenderer(markdown.Options{PartialsDir: filepath.Join(root, "content", "partials")})
	require.NoError(t, err)
	links, err := sourcelink.New("https://github.com", "hashicorp/nomad", "master", "website")
	require.NoError(t, err)
	resolver := content.NewResolver(root, "content", "docs", nil)
	nav := sidenav.NewIndex(filepath.Join(root, "content", "docs"), "docs", nil, nil)
	return NewGenerator("docs", resolver, renderer, links, nav, opts...)
}

func TestGenerate(t *testing.T) {
	root := writeSite(t, map[string]string{
		"content/docs/index.mdx":                  "---\npage_title: Documentation\n---\n# Welcome\n",
		"content/docs/job-specification/index.mdx": "---\npage_title: Job Specification\n---\n",
		"content/docs/job-specification/update.mdx": "---\npage_title: update Stanza\nsidebar_title: update\ndescription: Rolling updates\n---\n" +
			"## Parameters\n\n@include 'note.mdx'\n",
		"content/partials/note.mdx": "=> Updates are staged.\n",
	})
	rec := &stageRecorder{}
	g := newGenerator(t, root, WithRecorder(rec))

	props, err := g.Generate(context.Background(), content.MustSlug("job-specification", "update"))
	require.NoError(t, err)

	assert.Equal(t, "/docs/job-specification/update", props.URL)
	assert.Equal(t, "https://github.com/hashicorp/nomad/blob/master/website/content/docs/job-specification/update.mdx", props.ResourceURL)
	assert.Equal(t, "content/docs/job-specification/update.mdx", props.SourcePath)
	assert.Equal(t, "update Stanza", props.Title())
	assert.Equal(t, "Rolling updates", props.Description())
	assert.Contains(t, props.RenderedContent.Markup(), `<div class="alert alert-success g-type-body" role="alert">`)
	assert.Contains(t, props.RenderedContent.Markup(), `id="parameters"`)
	assert.NotEmpty(t, props.Fingerprint)

	require.Len(t, props.Sidenav, 1)
	assert.Equal(t, "Job Specification", props.Sidenav[0].Title)
	assert.True(t, props.Sidenav[0].Category)
	require.Len(t, props.Sidenav[0].Children, 1)
	assert.Equal(t, "/docs/job-specification/update", props.Sidenav[0].Children[0].URL)

	for _, stage := range []string{StageResolve, StageParse, StageRender, StageSidenav} {
		assert.Equal(t, metrics.ResultSuccess, rec.results[stage], stage)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	root := writeSite(t, map[string]string{
		"content/docs/index.mdx": "---\npage_title: Documentation\n---\n# Welcome\n\n- `a` first\n",
	})
	g := newGenerator(t, root)

	first, err := g.Generate(context.Background(), content.MustSlug())
	require.NoError(t, err)
	second, err := g.Generate(context.Background(), content.MustSlug())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGenerate_NotFound(t *testing.T) {
	root := writeSite(t, map[string]string{"content/docs/index.mdx": "# Home\n"})
	g := newGenerator(t, root)

	_, err := g.Generate(context.Background(), content.MustSlug("nope"))
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNotFound))
	assert.ErrorIs(t, err, content.ErrPageNotFound)

	ce, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	assert.Equal(t, "nope", ce.Context()["slug"])
}

func TestGenerate_InvalidFrontMatter(t *testing.T) {
	root := writeSite(t, map[string]string{"content/docs/bad.mdx": "---\npage_title: [oops\n---\nbody\n"})
	rec := &stageRecorder{}
	g := newGenerator(t, root, WithRecorder(rec))

	_, err := g.Generate(context.Background(), content.MustSlug("bad"))
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryContent))
	assert.Equal(t, metrics.ResultFailed, rec.results[StageParse])
}

func TestGenerate_Canceled(t *testing.T) {
	root := writeSite(t, map[string]string{"content/docs/index.mdx": "# Home\n"})
	g := newGenerator(t, root)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := g.Generate(ctx, content.MustSlug())
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
