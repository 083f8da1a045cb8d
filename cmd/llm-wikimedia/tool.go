package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/llm-wikimedia/internal/tool"
	"github.com/pdiddy/llm-wikimedia/internal/wikimedia"
)

var toolCmd = &cobra.Command{
	Use:   "tool",
	Short: "Run the wikimedia function-calling tool",
	Long: `Tool exposes the fetcher to LLM tool-calling hosts. With --schema it
prints the JSON definition of the wikimedia(page, lang, site) tool.
Otherwise it reads JSON arguments from --args or standard input, fetches
the article and prints its wikitext.`,
	Args: cobra.NoArgs,
	RunE: runTool,
}

func init() {
	toolCmd.Flags().Bool("schema", false, "print the tool definition as JSON and exit")
	toolCmd.Flags().String("args", "", `JSON arguments, e.g. {"page":"Go","lang":"en"} (default: read stdin)`)

	rootCmd.AddCommand(toolCmd)
}

func runTool(cmd *cobra.Command, args []string) error {
	if schema, _ := cmd.Flags().GetBool("schema"); schema {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(tool.Definition())
	}

	var in io.Reader = cmd.InOrStdin()
	if raw, _ := cmd.Flags().GetString("args"); raw != "" {
		in = strings.NewReader(raw)
	}

	cfg := loadConfig()
	f := wikimedia.NewFetcher(cfg.Fetch.HTTPConfig, logger)
	text, err := tool.Call(cmd.Context(), f, in)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}
