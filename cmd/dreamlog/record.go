package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/dreamlog/pkg/core"
	"github.com/aretw0/dreamlog/pkg/transcribe"
	"github.com/spf13/cobra"
)

var (
	recordAudio string
	recordTitle string
	recordTags  []string
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Transcribe an audio recording and save it as a dream",
	Long: `record uploads the audio file to an OpenAI-compatible transcription endpoint
and saves the transcript as the dream content. Nothing is saved if transcription fails.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(recordTitle) == "" {
			return errors.New("--title is required")
		}

		f, err := os.Open(recordAudio)
		if err != nil {
			return fmt.Errorf("open audio: %w", err)
		}
		defer f.Close()

		svc, cfg, err := openJournal()
		if err != nil {
			return err
		}
		defer svc.Close()

		client := transcribe.New(transcribe.Config{
			BaseURL:  cfg.Transcribe.URL,
			APIKey:   cfg.Transcribe.APIKey,
			Model:    cfg.Transcribe.Model,
			Language: cfg.Transcribe.Language,
			Logger:   slog.Default(),
		})

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		text, err := client.Transcribe(ctx, f, filepath.Base(recordAudio))
		if err != nil {
			return fmt.Errorf("failed to transcribe audio: %w", err)
		}

		dream, err := svc.Create(ctx, core.Draft{Title: recordTitle, Content: text, Tags: recordTags})
		if err != nil {
			return describe(err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Dream saved: %s\n%s\n", dream.ID, dream.Content)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(recordCmd)
	recordCmd.Flags().StringVarP(&recordAudio, "audio", "a", "", "Audio file to transcribe")
	recordCmd.Flags().StringVarP(&recordTitle, "title", "t", "", "Dream title")
	recordCmd.Flags().StringSliceVar(&recordTags, "tag", nil, "Tag value (repeatable)")
	recordCmd.MarkFlagRequired("audio")
}
