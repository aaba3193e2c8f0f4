package content

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlug_Paths(t *testing.T) {
	root := Slug{}
	assert.True(t, root.IsRoot())
	assert.Equal(t, "", root.String())
	assert.Equal(t, "docs", root.Path("docs"))
	assert.Equal(t, "/docs", root.URL("docs"))

	s := MustSlug("job-specification", "update")
	assert.False(t, s.IsRoot())
	assert.Equal(t, "job-specification/update", s.String())
	assert.Equal(t, "/docs/job-specification/update", s.URL("docs"))
}

func TestNewSlug_RejectsUnsafeSegments(t *testing.T) {
	for _, seg := range []string{"", ".", "..", "a/b", `a\b`} {
		_, err := NewSlug("ok", seg)
		assert.ErrorIs(t, err, ErrInvalidSlug, "segment %q", seg)
	}
}

func TestParseSlug(t *testing.T) {
	s, err := ParseSlug("/job-specification/update/")
	require.NoError(t, err)
	assert.Equal(t, []string{"job-specification", "update"}, s.Segments())

	s, err = ParseSlug("/")
	require.NoError(t, err)
	assert.True(t, s.IsRoot())

	_, err = ParseSlug("a//b")
	assert.ErrorIs(t, err, ErrInvalidSlug)
}

func TestSlug_SegmentsIsACopy(t *testing.T) {
	s := MustSlug("a", "b")
	segs := s.Segments()
	segs[0] = "changed"
	assert.Equal(t, "a/b", s.String())
}

func TestSlug_JSON(t *testing.T) {
	data, err := json.Marshal(MustSlug("drivers", "docker"))
	require.NoError(t, err)
	assert.JSONEq(t, `["drivers","docker"]`, string(data))

	data, err = json.Marshal(Slug{})
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))

	var back Slug
	require.NoError(t, json.Unmarshal([]byte(`["drivers","docker"]`), &back))
	assert.True(t, back.Equal(MustSlug("drivers", "docker")))

	assert.Error(t, json.Unmarshal([]byte(`["..",""]`), &back))
}
