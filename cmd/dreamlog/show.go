package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aretw0/dreamlog/pkg/datefmt"
	"github.com/aretw0/dreamlog/pkg/reference"
	"github.com/spf13/cobra"
)

var showJSON bool

var showCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Print a single dream",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := openJournal()
		if err != nil {
			return err
		}
		defer svc.Close()

		dream, ok, err := svc.Get(context.Background(), args[0])
		if err != nil {
			return describe(err)
		}
		if !ok {
			return fmt.Errorf("dream %q not found", args[0])
		}

		out := cmd.OutOrStdout()
		if showJSON {
			encoder := json.NewEncoder(out)
			encoder.SetIndent("", "  ")
			return encoder.Encode(dream)
		}

		now := time.Now()
		vocab := reference.Builtin()
		fmt.Fprintf(out, "%s\n%s\n\n", dream.Title, datefmt.Detailed(dream.CreatedAt.Local(), now))
		fmt.Fprintf(out, "%s\n\n", dream.Content)
		for _, tag := range dream.Tags {
			if c, ok := vocab.CategoryFor(tag); ok {
				fmt.Fprintf(out, "#%s  %s\n", tag, c.Description)
			} else {
				fmt.Fprintf(out, "#%s\n", tag)
			}
		}
		if dream.Mood != "" {
			fmt.Fprintf(out, "Mood: %s\n", dream.Mood)
		}
		if dream.Location != "" {
			fmt.Fprintf(out, "Location: %s\n", dream.Location)
		}
		if !dream.UpdatedAt.Equal(dream.CreatedAt.Time) {
			fmt.Fprintf(out, "Edited %s\n", datefmt.Detailed(dream.UpdatedAt.Local(), now))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output in JSON format")
}
