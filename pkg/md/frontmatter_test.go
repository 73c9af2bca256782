package md

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFrontMatter(t *testing.T) {
	source := "---\ntitle: Lease\nauthor: Ann\ntemplate: rental@0.2.0\nparties: 2\n---\nBody text\n"

	meta, body, err := ParseFrontMatter([]byte(source))
	require.NoError(t, err)

	assert.Equal(t, "Lease", meta.Title)
	assert.Equal(t, "Ann", meta.Author)
	assert.Equal(t, "rental@0.2.0", meta.Template)
	assert.EqualValues(t, 2, meta.Custom["parties"])
	assert.Equal(t, "Body text", strings.TrimSpace(string(body)))
}

func TestParseFrontMatter_None(t *testing.T) {
	meta, body, err := ParseFrontMatter([]byte("Just text"))
	require.NoError(t, err)

	assert.Empty(t, meta.Title)
	assert.NotNil(t, meta.Custom)
	assert.Equal(t, "Just text", strings.TrimSpace(string(body)))
}

func TestParseFrontMatter_Invalid(t *testing.T) {
	_, _, err := ParseFrontMatter([]byte("---\ntitle: [unclosed\n---\nbody"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse front matter")
}
