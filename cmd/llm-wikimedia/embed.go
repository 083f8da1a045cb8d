package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/llm-wikimedia/internal/convert"
	"github.com/pdiddy/llm-wikimedia/internal/embed"
	"github.com/pdiddy/llm-wikimedia/internal/httputil"
	"github.com/pdiddy/llm-wikimedia/internal/store"
	"github.com/pdiddy/llm-wikimedia/internal/wikimedia"
	"github.com/pdiddy/llm-wikimedia/pkg/types"
)

var embedCmd = &cobra.Command{
	Use:   "embed COLLECTION PAGE",
	Short: "Create embeddings for all top-level sections of a Wikipedia page",
	Long: `Embed fetches PAGE from Wikipedia, converts it to Markdown with pandoc,
splits it into top-level sections and embeds each one into COLLECTION.

The command backend (default) writes the sections to a temporary directory
and runs "llm embed-multi COLLECTION --files DIR '*' --prefix URL --store".
The openai backend calls the OpenAI embeddings API and stores the vectors
in the local SQLite store used by "similar" and "export".`,
	Args: cobra.ExactArgs(2),
	RunE: runEmbed,
}

func init() {
	embedCmd.Flags().StringP("model", "m", "", "embedding model (default from config)")
	embedCmd.Flags().StringP("language", "l", "", "language code of the Wikipedia edition (default from config, en)")
	embedCmd.Flags().String("backend", "", "embedding backend: command or openai (default from config, command)")

	rootCmd.AddCommand(embedCmd)
}

func runEmbed(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	ctx := cmd.Context()

	if m, _ := cmd.Flags().GetString("model"); m != "" {
		cfg.Embed.Model = m
	}
	if b, _ := cmd.Flags().GetString("backend"); b != "" {
		cfg.Embed.Backend = types.EmbedBackend(b)
	}
	lang := cfg.Fetch.Lang
	if l, _ := cmd.Flags().GetString("language"); l != "" {
		lang = types.Lang(l)
	}
	if lang == "" {
		lang = types.LangEN
	}

	conv, err := convert.New(ctx, cfg.Embed.Pandoc, nil, logger)
	if err != nil {
		return err
	}

	backend, closeBackend, err := newBackend(cfg)
	if err != nil {
		return err
	}
	defer closeBackend()

	p := &embed.Pipeline{
		Fetcher:   wikimedia.NewFetcher(cfg.Fetch.HTTPConfig, logger),
		Converter: conv,
		Backend:   backend,
		Logger:    logger,
	}
	res, err := p.Run(ctx, embed.Request{
		Collection: args[0],
		Page:       args[1],
		Lang:       lang,
		Model:      cfg.Embed.Model,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "%s: %d sections, %d embedded, %d unchanged\n",
		args[1], res.Sections, res.Embedded, res.Skipped)
	return nil
}

// newBackend builds the configured embedding backend and a cleanup func.
func newBackend(cfg types.Config) (embed.Backend, func(), error) {
	switch cfg.Embed.Backend {
	case types.BackendCommand, "":
		return &embed.CommandBackend{Command: cfg.Embed.Command, Stdout: os.Stderr}, func() {}, nil
	case types.BackendOpenAI:
		embedder, err := embed.NewOpenAIEmbedder(cfg.OpenAI, cfg.Embed.Model, httputil.NewClient(cfg.Fetch.HTTPConfig))
		if err != nil {
			return nil, nil, err
		}
		st, err := store.Open(cfg.Store)
		if err != nil {
			return nil, nil, err
		}
		b := &embed.StoreBackend{Embedder: embedder, Store: st, Logger: logger}
		return b, func() { st.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported embed backend %q: use command or openai", cfg.Embed.Backend)
	}
}
