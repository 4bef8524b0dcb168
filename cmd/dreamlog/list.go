package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/aretw0/dreamlog/pkg/core"
	"github.com/aretw0/dreamlog/pkg/datefmt"
	"github.com/spf13/cobra"
)

var (
	listJSON   bool
	listTag    string
	listSearch string
	listSort   string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List dreams, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := openJournal()
		if err != nil {
			return err
		}
		defer svc.Close()

		all, err := svc.List(context.Background())
		if err != nil {
			return describe(err)
		}

		sortKey := core.ParseSortKey(listSort)
		view := core.DeriveView(all, core.Query{Tag: listTag, Search: listSearch, Sort: sortKey})

		out := cmd.OutOrStdout()
		if listJSON {
			encoder := json.NewEncoder(out)
			encoder.SetIndent("", "  ")
			return encoder.Encode(view)
		}

		if len(view) == 0 {
			fmt.Fprintln(out, "No dreams found.")
			return nil
		}

		now := time.Now()
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		for _, d := range view {
			stamp := d.CreatedAt
			if sortKey == core.SortByUpdated {
				stamp = d.UpdatedAt
			}
			mark := ""
			if d.Bookmarked {
				mark = "*"
			}
			fmt.Fprintf(w, "%s\t%s\t%s%s\t%s\n", d.ID, datefmt.Relative(stamp.Local(), now), d.Title, mark, strings.Join(d.Tags, ","))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringVar(&listTag, "tag", core.AllTags, "Filter dreams by tag")
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "Case-insensitive text search on title and content")
	listCmd.Flags().StringVar(&listSort, "sort", string(core.SortByCreated), "Sort by createdAt or updatedAt")
}
