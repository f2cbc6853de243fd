package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/iqro/internal/app"
	"github.com/abhisek/iqro/internal/screens/study"
	"github.com/abhisek/iqro/internal/tts"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	l, err := openLearner(cmd)
	if err != nil {
		return err
	}
	defer l.Close()

	if l.progress.Degraded() || l.bookmarks.Degraded() {
		fmt.Fprintln(os.Stderr, "Saved progress could not be read; changes will only last until you quit.")
	}

	studyOpts := study.DefaultOptions()
	studyOpts.Voice = voiceFlag(cmd, tts.ConfigFromEnv())
	if v, _ := cmd.Flags().GetBool("no-auto-complete"); v {
		studyOpts.AutoComplete = false
	}

	return app.Run(app.Options{
		Curriculum: l.cur,
		Progress:   l.progress,
		Bookmarks:  l.bookmarks,
		Player:     newPlayer(ctx),
		Feedback:   newFeedback(ctx, l.store.EventRepo()),
		Study:      studyOpts,
	})
}

func init() {
	rootCmd.Flags().Bool("no-auto-complete", false, "Do not mark items done when their audio plays to the end")
}
