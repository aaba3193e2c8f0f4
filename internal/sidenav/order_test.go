package sidenav

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

const sampleOrder = `
- install
- "-----"
- category: job-specification
  name: Job Specification
  content:
    - update
    - category: task
      content:
        - artifact
- title: Learn Nomad
  href: https://learn.hashicorp.com/nomad
`

func TestParseOrder(t *testing.T) {
	order, err := ParseOrder([]byte(sampleOrder))
	require.NoError(t, err)
	require.Len(t, order, 4)

	assert.Equal(t, OrderItem{Page: "install"}, order[0])
	assert.True(t, order[1].Divider)

	cat := order[2]
	assert.Equal(t, "job-specification", cat.Category)
	assert.Equal(t, "Job Specification", cat.Name)
	require.Len(t, cat.Content, 2)
	assert.Equal(t, "update", cat.Content[0].Page)
	assert.Equal(t, "task", cat.Content[1].Category)
	assert.Equal(t, Order{{Page: "artifact"}}, cat.Content[1].Content)

	assert.Equal(t, OrderItem{Title: "Learn Nomad", Href: "https://learn.hashicorp.com/nomad"}, order[3])
}

func TestParseOrder_InvalidItems(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"mapping without category or link", "- name: orphan\n"},
		{"link without href", "- title: Learn\n"},
		{"nested sequence", "- - a\n"},
		{"not yaml", "- [unclosed\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOrder([]byte(tt.yaml))
			require.Error(t, err)
			assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNavigation))
		})
	}
}

func TestLoadOrder(t *testing.T) {
	order, err := LoadOrder("")
	require.NoError(t, err)
	assert.Nil(t, order)

	_, err = LoadOrder(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNotFound))

	p := filepath.Join(t.TempDir(), "nav.yaml")
	require.NoError(t, os.WriteFile(p, []byte(sampleOrder), 0o600))
	order, err = LoadOrder(p)
	require.NoError(t, err)
	assert.Len(t, order, 4)
}
