package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/dreamlog/pkg/core"
	"github.com/spf13/cobra"
)

var (
	createTitle    string
	createContent  string
	createTags     []string
	createMood     string
	createLocation string
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Record a new dream",
	Long:  `Create a dream from flags. Use --content - to read the text from stdin.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		content := createContent
		if content == "-" {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			content = string(data)
		}

		svc, _, err := openJournal()
		if err != nil {
			return err
		}
		defer svc.Close()

		dream, err := svc.Create(context.Background(), core.Draft{
			Title:    createTitle,
			Content:  content,
			Tags:     createTags,
			Mood:     core.Mood(createMood),
			Location: createLocation,
		})
		if err != nil {
			return describe(err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Dream saved: %s\n", dream.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(createCmd)
	createCmd.Flags().StringVarP(&createTitle, "title", "t", "", "Dream title")
	createCmd.Flags().StringVar(&createContent, "content", "", "Dream text, or - for stdin")
	createCmd.Flags().StringSliceVar(&createTags, "tag", nil, "Tag value (repeatable)")
	createCmd.Flags().StringVar(&createMood, "mood", "", "happy, neutral, scary or unknown")
	createCmd.Flags().StringVar(&createLocation, "location", "", "Where the dream happened")
}
