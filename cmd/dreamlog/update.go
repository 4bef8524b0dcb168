package main

import (
	"context"
	"fmt"

	"github.com/aretw0/dreamlog/pkg/core"
	"github.com/spf13/cobra"
)

var (
	updateTitle    string
	updateContent  string
	updateTags     []string
	updateBookmark bool
	updateMood     string
	updateLocation string
)

var updateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Edit an existing dream",
	Long:  `Only the flags given on the command line are changed.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		var patch core.Patch
		if flags.Changed("title") {
			patch.Title = &updateTitle
		}
		if flags.Changed("content") {
			patch.Content = &updateContent
		}
		if flags.Changed("tag") {
			patch.Tags = &updateTags
		}
		if flags.Changed("bookmark") {
			patch.Bookmarked = &updateBookmark
		}
		if flags.Changed("mood") {
			mood := core.Mood(updateMood)
			patch.Mood = &mood
		}
		if flags.Changed("location") {
			patch.Location = &updateLocation
		}

		svc, _, err := openJournal()
		if err != nil {
			return err
		}
		defer svc.Close()

		dream, err := svc.Update(context.Background(), args[0], patch)
		if err != nil {
			return describe(err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Dream updated: %s\n", dream.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)
	updateCmd.Flags().StringVarP(&updateTitle, "title", "t", "", "New title")
	updateCmd.Flags().StringVar(&updateContent, "content", "", "New text")
	updateCmd.Flags().StringSliceVar(&updateTags, "tag", nil, "Replace tags (repeatable)")
	updateCmd.Flags().BoolVar(&updateBookmark, "bookmark", false, "Bookmark or unbookmark the dream")
	updateCmd.Flags().StringVar(&updateMood, "mood", "", "happy, neutral, scary or unknown")
	updateCmd.Flags().StringVar(&updateLocation, "location", "", "Where the dream happened")
}
