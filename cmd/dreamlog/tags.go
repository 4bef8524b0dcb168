package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/aretw0/dreamlog/pkg/core"
	"github.com/aretw0/dreamlog/pkg/reference"
	"github.com/spf13/cobra"
)

var tagsUsed bool

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List the tag vocabulary",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		counts := map[string]int{}
		if tagsUsed {
			svc, _, err := openJournal()
			if err != nil {
				return err
			}
			defer svc.Close()

			all, err := svc.List(context.Background())
			if err != nil {
				return describe(err)
			}
			for _, d := range all {
				for _, t := range d.Tags {
					counts[t]++
				}
			}
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		for _, tag := range reference.Tags() {
			if tag.Value == core.AllTags {
				continue
			}
			if tagsUsed {
				fmt.Fprintf(w, "%s\t%s\t%d\n", tag.Value, tag.Name, counts[tag.Value])
				continue
			}
			fmt.Fprintf(w, "%s\t%s\n", tag.Value, tag.Name)
		}
		return w.Flush()
	},
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Describe the dream categories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		for _, c := range reference.Categories() {
			fmt.Fprintf(out, "%s\n  %s\n", c.Name, c.Description)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tagsCmd)
	rootCmd.AddCommand(categoriesCmd)
	tagsCmd.Flags().BoolVar(&tagsUsed, "used", false, "Show how many dreams carry each tag")
}
