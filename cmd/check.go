package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/abhisek/iqro/internal/feedback"
)

var checkCmd = &cobra.Command{
	Use:   "check <item-id> --heard <text>",
	Short: "Grade what was read aloud for an item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		heard, _ := cmd.Flags().GetString("heard")
		l, err := openLearner(cmd)
		if err != nil {
			return err
		}
		defer l.Close()

		it, err := resolveItem(l.cur, args[0])
		if err != nil {
			return err
		}
		res, err := newFeedback(cmd.Context(), l.store.EventRepo()).Evaluate(cmd.Context(), it, heard)
		if err != nil {
			return err
		}
		printVerdict(cmd.OutOrStdout(), res)
		return nil
	},
}

func printVerdict(w io.Writer, r *feedback.Result) {
	fmt.Fprintf(w, "%s  %d/100  (%s)\n", r.Verdict, r.Score, r.Source)
	for _, tip := range r.Tips {
		fmt.Fprintf(w, "  • %s\n", tip)
	}
}

func init() {
	checkCmd.Flags().String("heard", "", "What the learner said, as text")
	_ = checkCmd.MarkFlagRequired("heard")
}
