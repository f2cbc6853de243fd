package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/iqro/internal/logging"
	"github.com/abhisek/iqro/internal/store"
)

// log is built in PersistentPreRunE. The TUI logs to a file so it does
// not draw over the screen; other commands log to stderr.
var log = zap.NewNop().Sugar()

var rootCmd = &cobra.Command{
	Use:   "iqro",
	Short: "Iqro reading practice for children",
	Long:  "Iqro: a terminal companion for learning to read Arabic letters, one Iqro book at a time.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetString("log-level")
		opts := logging.Options{Level: level}
		if cmd == cmd.Root() {
			file, err := logging.DefaultFile()
			if err != nil {
				return err
			}
			opts.File = file
		}
		l, err := logging.New(opts)
		if err != nil {
			return err
		}
		log = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = log.Sync()
	},
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// Execute runs the root command. Interrupts cancel the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides IQRO_DB env var)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (overrides IQRO_LOG_LEVEL)")
	rootCmd.PersistentFlags().String("voice", "", "Remote voice name (overrides IQRO_TTS_VOICE)")

	rootCmd.AddCommand(sayCmd)
	rootCmd.AddCommand(itemsCmd)
	rootCmd.AddCommand(markCmd)
	rootCmd.AddCommand(bookmarkCmd)
	rootCmd.AddCommand(bookmarksCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(surahCmd)
	rootCmd.AddCommand(ayahCmd)
	rootCmd.AddCommand(pageCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(liveCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then IQRO_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
