package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/dreamlog/pkg/codec"
	"github.com/aretw0/dreamlog/pkg/core"
	"github.com/spf13/cobra"
)

var (
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the whole journal as JSON or YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var enc core.Codec = codec.JSON{Indent: true}
		if exportFormat != "json" {
			c, err := codec.Lookup(exportFormat)
			if err != nil {
				return err
			}
			enc = c
		}

		svc, _, err := openJournal()
		if err != nil {
			return err
		}
		defer svc.Close()

		all, err := svc.List(context.Background())
		if err != nil {
			return describe(err)
		}

		data, err := enc.Encode(all)
		if err != nil {
			return fmt.Errorf("encode export: %w", err)
		}

		if exportOutput == "" || exportOutput == "-" {
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}
		if err := os.WriteFile(exportOutput, data, 0644); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d dreams to %s\n", len(all), exportOutput)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "json or yaml")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default stdout)")
}
