package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/llm-wikimedia/internal/fragment"
	"github.com/pdiddy/llm-wikimedia/internal/wikimedia"
	"github.com/pdiddy/llm-wikimedia/pkg/types"
)

var fragmentCmd = &cobra.Command{
	Use:   "fragment REFERENCE",
	Short: "Resolve a wikipedia: or wiktionary: fragment reference",
	Long: `Fragment resolves references such as "wikipedia:Alan Turing" or
"wiktionary:house" into prompt fragments and prints the article text.
Articles are fetched in the configured default language.`,
	Args: cobra.ExactArgs(1),
	RunE: runFragment,
}

func init() {
	fragmentCmd.Flags().Bool("json", false, "print the fragment with its source URL as JSON")

	rootCmd.AddCommand(fragmentCmd)
}

func runFragment(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	f := wikimedia.NewFetcher(cfg.Fetch.HTTPConfig, logger)
	lang := cfg.Fetch.Lang
	if lang == "" {
		lang = types.LangEN
	}

	frag, err := fragment.Default(f, lang).Load(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(frag)
	}
	fmt.Fprintln(cmd.OutOrStdout(), frag.Content)
	return nil
}
