package root

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/ciceromark-cli/pkg/ciceromark"
)

func TestNewCmdRoot(t *testing.T) {
	cmd := NewCmdRoot()
	assert.Equal(t, "cmk", cmd.Use)

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	for _, want := range []string{"init", "slate", "markdown", "pdf", "config", "completion"} {
		assert.Contains(t, names, want)
	}

	for _, flag := range []string{"config", "output", "no-color", "verbose"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), flag)
	}
}

func TestRoot_Version(t *testing.T) {
	cmd := NewCmdRoot()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--version"})

	require.NoError(t, cmd.Execute())
	assert.True(t, strings.HasPrefix(out.String(), "cmk version "))
}

func TestRoot_SlatePipeline(t *testing.T) {
	for _, v := range []string{"CMK_OUTPUT", "CMK_CODE_MARKS", "CMK_LOG_LEVEL", "LOG_LEVEL"} {
		t.Setenv(v, "")
	}

	cmd := NewCmdRoot()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader(`{"nodes":[{"object":"block","type":"heading_two","nodes":[{"object":"text","text":"Terms"}]}]}`))
	cmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "config.yml"), "--no-color", "slate", "-"})

	require.NoError(t, cmd.Execute())

	doc, err := ciceromark.Decode(out.Bytes())
	require.NoError(t, err)
	require.Len(t, doc.Nodes, 1)
	assert.Equal(t, ciceromark.ClassHeading, doc.Nodes[0].Class)
	assert.Equal(t, "2", doc.Nodes[0].Level)
}

func TestRoot_InvalidOutputFlag(t *testing.T) {
	cmd := NewCmdRoot()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(`{"nodes":[]}`))
	cmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "config.yml"), "-o", "xml", "slate"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")
}
