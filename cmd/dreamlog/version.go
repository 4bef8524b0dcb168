package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/dreamlog"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of dreamlog",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "dreamlog version %s\n", strings.TrimSpace(dreamlog.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
