package main

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/llm-wikimedia/internal/embed"
	"github.com/pdiddy/llm-wikimedia/pkg/types"
)

func newFlagCmd(t *testing.T, flags ...string) *cobra.Command {
	t.Helper()
	c := &cobra.Command{}
	c.Flags().StringP("language", "l", "", "")
	c.Flags().StringP("site", "s", "", "")
	require.NoError(t, c.ParseFlags(flags))
	return c
}

func TestRequestFromFlags(t *testing.T) {
	defaults := types.FetchConfig{Lang: types.LangFR, Site: types.SiteWikipedia}

	req := requestFromFlags(newFlagCmd(t), []string{"Tour", "Eiffel"}, defaults)
	assert.Equal(t, types.Request{Page: "Tour Eiffel", Lang: types.LangFR, Site: types.SiteWikipedia}, req)

	req = requestFromFlags(newFlagCmd(t, "-l", "de", "-s", "wiktionary"), []string{"Haus"}, defaults)
	assert.Equal(t, types.Request{Page: "Haus", Lang: types.LangDE, Site: types.SiteWiktionary}, req)

	req = requestFromFlags(newFlagCmd(t), []string{"Go"}, types.FetchConfig{})
	assert.Equal(t, types.Request{Page: "Go", Lang: types.LangEN, Site: types.SiteWikipedia}, req)
}

func TestNewBackend(t *testing.T) {
	b, cleanup, err := newBackend(types.Config{Embed: types.EmbedConfig{Backend: types.BackendCommand, Command: "llm"}})
	require.NoError(t, err)
	defer cleanup()
	assert.IsType(t, &embed.CommandBackend{}, b)

	_, _, err = newBackend(types.Config{Embed: types.EmbedConfig{Backend: types.BackendOpenAI}})
	assert.ErrorContains(t, err, "api key")

	_, _, err = newBackend(types.Config{Embed: types.EmbedConfig{Backend: "ollama"}})
	assert.ErrorContains(t, err, "unsupported embed backend")
}

func TestToolSchemaCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"tool", "--schema"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
		toolCmd.Flags().Set("schema", "false")
	})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), `"name": "wikimedia"`)
	assert.Contains(t, out.String(), `"required": [`)
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "llm-wikimedia dev\n", out.String())
}
