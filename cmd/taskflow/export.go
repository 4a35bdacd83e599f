package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/GerardFevill/taskflow/internal/export"
)

func newExportCmd(c *cli) *cobra.Command {
	var (
		formatName      string
		compressionName string
		outPath         string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a snapshot of the whole board",
		Long: `Export writes every project with its tickets and tasks.

Example:
  taskflow export --format yaml
  taskflow export --format cbor --compress zstd -o board.cbor.zst`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := export.ParseFormat(formatName)
			if err != nil {
				return err
			}
			compression, err := export.ParseCompression(compressionName)
			if err != nil {
				return err
			}

			res, err := c.services.Export.Export(cmd.Context(), export.Options{
				Format:      format,
				Compression: compression,
			})
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}

			if outPath == "" || outPath == "-" {
				_, err = cmd.OutOrStdout().Write(res.Data)
				return err
			}
			if err := os.WriteFile(outPath, res.Data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", outPath, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%d bytes, blake3 %s)\n", outPath, len(res.Data), res.Checksum)
			return nil
		},
	}

	cmd.Flags().StringVar(&formatName, "format", string(export.FormatJSON), "json, csv, yaml or cbor")
	cmd.Flags().StringVar(&compressionName, "compress", string(export.CompressionNone), "none or zstd")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "output file (default: stdout)")
	return cmd
}
