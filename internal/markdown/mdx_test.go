package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractComponents(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "self closing without attributes",
			in:   "<EnterpriseAlert/>",
			want: "<mdx-component data-name=\"EnterpriseAlert\" data-attrs=\"\">\n</mdx-component>\n",
		},
		{
			name: "inline children",
			in:   "<Tab heading=\"Go\">Text</Tab>",
			want: "<mdx-component data-name=\"Tab\" data-attrs=\"heading=&#34;Go&#34;\">\n\nText\n\n</mdx-component>\n",
		},
		{
			name: "attributes across lines",
			in:   "<Placement\n  groups={['job']}\n/>",
			want: "<mdx-component data-name=\"Placement\" data-attrs=\"groups={[&#39;job&#39;]}\">\n</mdx-component>\n",
		},
		{
			name: "lowercase html untouched",
			in:   "<div>\nhi\n</div>",
			want: "<div>\nhi\n</div>",
		},
		{
			name: "inline in heading",
			in:   "## Namespaces <EnterpriseAlert inline />",
			want: "## Namespaces <mdx-component data-name=\"EnterpriseAlert\" data-attrs=\"inline\"></mdx-component>",
		},
		{
			name: "inline paired tag in paragraph",
			in:   "Use <Badge theme=\"blue\">beta</Badge> builds.",
			want: "Use <mdx-component data-name=\"Badge\" data-attrs=\"theme=&#34;blue&#34;\">beta</mdx-component> builds.",
		},
		{
			name: "tag followed by text",
			in:   "<EnterpriseAlert inline /> is required.",
			want: "<mdx-component data-name=\"EnterpriseAlert\" data-attrs=\"inline\"></mdx-component> is required.",
		},
		{
			name: "code spans untouched",
			in:   "Wrap it in `<Tabs>` first.",
			want: "Wrap it in `<Tabs>` first.",
		},
		{
			name: "tags in code fences untouched",
			in:   "```jsx\n<Tabs>\n```",
			want: "```jsx\n<Tabs>\n```",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractComponents([]byte(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestExtractComponents_MismatchedClose(t *testing.T) {
	_, err := extractComponents([]byte("<Tabs>\n</Tab>\n"))
	assert.ErrorIs(t, err, ErrUnbalancedComponent)
}

func TestExtractComponents_InlineUnbalanced(t *testing.T) {
	for _, in := range []string{
		"Text <Badge>never closed",
		"Text </Badge> stray",
	} {
		_, err := extractComponents([]byte(in))
		assert.ErrorIs(t, err, ErrUnbalancedComponent, in)
	}
}

func TestFenceTracker(t *testing.T) {
	var f fenceTracker
	assert.False(t, f.inFence("text"))
	assert.True(t, f.inFence("~~~~ hcl"))
	assert.True(t, f.inFence("~~~"))
	assert.True(t, f.inFence("~~~~"))
	assert.False(t, f.inFence("after"))
}
