package search

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleMarkup = `<h2><a href="#update-strategy" class="__permalink-h" aria-label="Permalink">»</a>` +
	`<a id="update-strategy" class="__target-h" aria-hidden="true"></a>Update <code>Strategy</code></h2>` +
	`<p>The <strong>update</strong> block configures rolling updates.</p>` +
	`<script>var ignored = true;</script>` +
	`<h3 id="plain">Plain</h3>`

func TestExtract(t *testing.T) {
	doc, err := Extract(sampleMarkup)
	require.NoError(t, err)

	assert.Equal(t, []Heading{
		{ID: "update-strategy", Title: "Update Strategy", Level: 2},
		{ID: "plain", Title: "Plain", Level: 3},
	}, doc.Headings)
	assert.Equal(t, "Update Strategy The update block configures rolling updates. Plain", doc.Text)
	assert.NotContains(t, doc.Text, "»")
	assert.NotContains(t, doc.Text, "ignored")
}

func TestExtract_Truncates(t *testing.T) {
	doc, err := Extract("<p>" + strings.Repeat("word ", 2000) + "</p>")
	require.NoError(t, err)
	assert.LessOrEqual(t, len(doc.Text), maxTextLength)
	assert.True(t, strings.HasSuffix(doc.Text, "word"))
}

func TestIndex_ConcurrentAddSortedOutput(t *testing.T) {
	idx := NewIndex()
	urls := []string{"/docs/c", "/docs/a", "/docs/b"}

	var wg sync.WaitGroup
	for _, u := range urls {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, idx.Add(u, "T "+u, "", "<p>x</p>"))
		}()
	}
	wg.Wait()

	docs := idx.Documents()
	require.Len(t, docs, 3)
	assert.Equal(t, "/docs/a", docs[0].URL)
	assert.Equal(t, "/docs/c", docs[2].URL)

	data, err := json.Marshal(idx)
	require.NoError(t, err)
	var decoded []Document
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, docs, decoded)
}
