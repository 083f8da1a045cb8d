package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/llm-wikimedia/internal/store"
)

var exportCmd = &cobra.Command{
	Use:   "export COLLECTION",
	Short: "Export a stored collection to YAML or JSON",
	Long: `Export writes the sections of COLLECTION from the local store, without
their vectors, as YAML (default) or JSON.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	exportCmd.Flags().StringP("output", "o", "", "output file (default: stdout)")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	if format != "yaml" && format != "json" {
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}

	cfg := loadConfig()
	st, err := store.Open(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	var w io.Writer = cmd.OutOrStdout()
	if path, _ := cmd.Flags().GetString("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
		defer f.Close()
		w = f
	}

	if format == "json" {
		return st.ExportJSON(cmd.Context(), args[0], w)
	}
	return st.ExportYAML(cmd.Context(), args[0], w)
}
