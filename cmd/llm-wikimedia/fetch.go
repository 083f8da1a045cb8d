package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/llm-wikimedia/internal/wikimedia"
	"github.com/pdiddy/llm-wikimedia/pkg/types"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch PAGE",
	Short: "Print the wikitext of the latest revision of a page",
	Long: `Fetch downloads the latest revision of PAGE through Special:Export and
prints its raw wikitext. Multiple arguments are joined with spaces, so
quoting multi-word titles is optional.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringP("language", "l", "", "language code: de, en, es, fr, it, nl, no, pt, ro (default from config, en)")
	fetchCmd.Flags().StringP("site", "s", "", "site: wikipedia or wiktionary (default from config, wikipedia)")
	fetchCmd.Flags().Bool("json", false, "print the article with revision metadata as JSON")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	req := requestFromFlags(cmd, args, cfg.Fetch)

	f := wikimedia.NewFetcher(cfg.Fetch.HTTPConfig, logger)
	article, err := f.Fetch(cmd.Context(), req)
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(article)
	}
	fmt.Fprintln(cmd.OutOrStdout(), article.Text)
	return nil
}

// requestFromFlags builds a Request from positional args and the
// -l/-s flags, falling back to the configured defaults.
func requestFromFlags(cmd *cobra.Command, args []string, defaults types.FetchConfig) types.Request {
	lang, _ := cmd.Flags().GetString("language")
	site, _ := cmd.Flags().GetString("site")

	req := types.Request{
		Page: strings.Join(args, " "),
		Lang: types.Lang(lang),
		Site: types.Site(site),
	}
	if req.Lang == "" {
		req.Lang = defaults.Lang
	}
	if req.Site == "" {
		req.Site = defaults.Site
	}
	return req.WithDefaults()
}
