package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"quotebuilder/model"
	"quotebuilder/services"
)

// newExportCmd renders a quote JSON document to a file without a server.
func newExportCmd() *cobra.Command {
	var quotePath, audience, format, outDir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render a quote document as an Excel or PDF file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			aud, err := services.ParseAudience(audience)
			if err != nil {
				return err
			}
			f, err := services.ParseFormat(format)
			if err != nil {
				return err
			}

			q, err := readQuote(cmd.InOrStdin(), quotePath)
			if err != nil {
				return err
			}
			out, err := services.RenderQuote(q, aud, f, time.Now())
			if err != nil {
				return fmt.Errorf("export %s: %w", quotePath, err)
			}

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("export: create %s: %w", outDir, err)
			}
			dest := filepath.Join(outDir, out.FileName)
			if err := os.WriteFile(dest, out.Data, 0o644); err != nil {
				return fmt.Errorf("export: write %s: %w", dest, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dest)
			return nil
		},
	}

	cmd.Flags().StringVar(&quotePath, "quote", "", `quote JSON file, or "-" for stdin`)
	cmd.Flags().StringVar(&audience, "audience", "client", "client or contractor")
	cmd.Flags().StringVar(&format, "format", "xlsx", "xlsx or pdf")
	cmd.Flags().StringVar(&outDir, "out", ".", "output directory")
	cmd.MarkFlagRequired("quote")

	return cmd
}

func readQuote(stdin io.Reader, path string) (model.Quote, error) {
	var q model.Quote

	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return q, fmt.Errorf("export: %w", err)
		}
		defer f.Close()
		r = f
	}
	if err := json.NewDecoder(r).Decode(&q); err != nil {
		return q, fmt.Errorf("export: decode %s: %w", path, err)
	}
	return q, nil
}
