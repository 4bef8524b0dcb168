package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a dream from the journal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := openJournal()
		if err != nil {
			return err
		}
		defer svc.Close()

		if err := svc.Delete(context.Background(), args[0]); err != nil {
			return describe(err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Dream deleted: %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
