package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/llm-wikimedia/internal/embed"
	"github.com/pdiddy/llm-wikimedia/internal/httputil"
	"github.com/pdiddy/llm-wikimedia/internal/store"
)

var similarCmd = &cobra.Command{
	Use:   "similar COLLECTION QUERY",
	Short: "Find the stored sections most similar to a query",
	Long: `Similar embeds QUERY with the model COLLECTION was built with and
prints the closest sections from the local store (openai backend only).`,
	Args: cobra.MinimumNArgs(2),
	RunE: runSimilar,
}

func init() {
	similarCmd.Flags().IntP("number", "n", 0, "number of results (default from config, 10)")
	similarCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(similarCmd)
}

func runSimilar(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	ctx := cmd.Context()
	collection, query := args[0], strings.Join(args[1:], " ")

	st, err := store.Open(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	model, err := st.CollectionModel(ctx, collection)
	if err != nil {
		return err
	}
	embedder, err := embed.NewOpenAIEmbedder(cfg.OpenAI, model, httputil.NewClient(cfg.Fetch.HTTPConfig))
	if err != nil {
		return err
	}
	vector, err := embedder.Embed(ctx, query)
	if err != nil {
		return err
	}

	n, _ := cmd.Flags().GetInt("number")
	matches, err := st.Similar(ctx, collection, vector, n)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(matches)
	}

	if len(matches) == 0 {
		fmt.Fprintln(out, "No results found.")
		return nil
	}
	for i, m := range matches {
		fmt.Fprintf(out, "%2d  %.4f  %s\n", i+1, m.Score, m.ID)
	}
	return nil
}
