package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit_NoFrontmatter_ReturnsBodyOnly(t *testing.T) {
	input := []byte("# Title\n\nHello\n")

	header, body, had, err := Split(input)
	require.NoError(t, err)
	require.False(t, had)
	require.Empty(t, header)
	require.Equal(t, input, body)
}

func TestSplit_YAMLFrontmatter_SplitsHeaderAndBody(t *testing.T) {
	header, body, had, err := Split([]byte("---\nkey: value\n---\n# Title\n"))
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("key: value\n"), header)
	require.Equal(t, []byte("# Title\n"), body)
}

func TestSplit_CRLF(t *testing.T) {
	header, body, had, err := Split([]byte("---\r\nkey: value\r\n---\r\n# Title\r\n"))
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("key: value\r\n"), header)
	require.Equal(t, []byte("# Title\r\n"), body)
}

func TestSplit_EmptyBlock(t *testing.T) {
	header, body, had, err := Split([]byte("---\n---\n# Title\n"))
	require.NoError(t, err)
	require.True(t, had)
	require.Empty(t, header)
	require.Equal(t, []byte("# Title\n"), body)
}

func TestSplit_ClosingDelimiterAtEOF(t *testing.T) {
	header, body, had, err := Split([]byte("---\npage_title: Only metadata\n---"))
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("page_title: Only metadata\n"), header)
	require.Empty(t, body)
}

func TestSplit_MissingClosingDelimiter(t *testing.T) {
	_, _, had, err := Split([]byte("---\nkey: value\n# Title\n"))
	require.ErrorIs(t, err, ErrMissingClosingDelimiter)
	require.False(t, had)
}

func TestParse(t *testing.T) {
	raw := []byte("---\nlayout: docs\npage_title: Update Stanza - Job Specification\nsidebar_title: update\ndescription: |-\n  The \"update\" stanza.\n---\n\n# `update` Stanza\n")

	fm, body, err := Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "docs", fm.String("layout"))
	assert.Equal(t, "Update Stanza - Job Specification", fm.String("page_title"))
	assert.Equal(t, "update", fm.String("sidebar_title"))
	assert.Equal(t, `The "update" stanza.`, fm.String("description"))
	assert.Equal(t, "", fm.String("missing"))
	assert.Equal(t, "\n# `update` Stanza\n", string(body))
}

func TestParse_NoHeaderYieldsEmptyMetadata(t *testing.T) {
	fm, body, err := Parse([]byte("plain body"))
	require.NoError(t, err)
	assert.NotNil(t, fm)
	assert.Empty(t, fm)
	assert.Equal(t, "plain body", string(body))
}

func TestParse_IsIdempotentOnBody(t *testing.T) {
	_, body, err := Parse([]byte("---\npage_title: A\n---\n# A\n\ntext --- with dashes\n"))
	require.NoError(t, err)

	fm2, body2, err := Parse(body)
	require.NoError(t, err)
	assert.Empty(t, fm2)
	assert.Equal(t, body, body2)
}

func TestParse_InvalidYAML(t *testing.T) {
	_, _, err := Parse([]byte("---\npage_title: [unclosed\n---\nbody\n"))
	require.ErrorIs(t, err, ErrInvalidYAML)

	_, _, err = Parse([]byte("---\n- a list\n- not a map\n---\nbody\n"))
	require.ErrorIs(t, err, ErrInvalidYAML)
}

func TestFrontMatter_Bool(t *testing.T) {
	fm := FrontMatter{"hidden": true, "draft": "yes"}
	assert.True(t, fm.Bool("hidden"))
	assert.False(t, fm.Bool("draft"))
	assert.False(t, fm.Bool("missing"))
}
