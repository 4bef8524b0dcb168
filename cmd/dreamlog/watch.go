package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	lcsource "github.com/aretw0/dreamlog/pkg/adapters/lifecycle"
	"github.com/aretw0/dreamlog/pkg/core"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print changes made to the journal by other processes",
	Long:  `watch follows the stored collection until interrupted. Only the fs adapter supports it.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := openJournal()
		if err != nil {
			return err
		}
		defer svc.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		events, err := svc.Watch(ctx)
		if errors.Is(err, core.ErrNotSupported) {
			return fmt.Errorf("the configured adapter cannot be watched: %w", err)
		}
		if err != nil {
			return err
		}

		source := lcsource.NewSource(svc, events)
		if err := source.Start(ctx); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Watching %s (Ctrl+C to stop)\n", svc.Key())
		for change := range source.Events() {
			fmt.Fprintln(out, change)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
