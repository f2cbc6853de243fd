package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear all completed items (and optionally bookmarks)",
	RunE: func(cmd *cobra.Command, args []string) error {
		withBookmarks, _ := cmd.Flags().GetBool("bookmarks")
		yes, _ := cmd.Flags().GetBool("yes")

		what := "all reading progress"
		if withBookmarks {
			what += " and bookmarks"
		}
		if !yes && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), fmt.Sprintf("Erase %s?", what)) {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing was changed.")
			return nil
		}

		l, err := openLearner(cmd)
		if err != nil {
			return err
		}
		defer l.Close()

		l.progress.Reset()
		if withBookmarks {
			l.bookmarks.Reset()
		}
		log.Infow("learner data reset", "bookmarks", withBookmarks)
		fmt.Fprintf(cmd.OutOrStdout(), "Erased %s.\n", what)
		return savedOrWarn(l.progress.Degraded() || (withBookmarks && l.bookmarks.Degraded()))
	},
}

// confirm asks a yes/no question; only "y" or "yes" agree.
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N] ", question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func init() {
	resetCmd.Flags().Bool("bookmarks", false, "Also erase bookmarks")
	resetCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}
