package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var resetYes bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Erase the stored journal",
	Long:  `reset removes the stored collection. It is also the way out of a corrupt journal.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !resetYes {
			return errors.New("refusing to erase the journal without --yes")
		}

		svc, _, err := openJournal()
		if err != nil {
			return err
		}
		defer svc.Close()

		if err := svc.Reset(context.Background()); err != nil {
			return describe(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Journal erased.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)
	resetCmd.Flags().BoolVar(&resetYes, "yes", false, "Confirm erasing every dream")
}
