package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/iqro/internal/curriculum"
	"github.com/abhisek/iqro/internal/progress"
)

var itemsCmd = &cobra.Command{
	Use:   "items",
	Short: "List curriculum items with their completion",
	RunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetInt("level")
		l, err := openLearner(cmd)
		if err != nil {
			return err
		}
		defer l.Close()
		return printItems(cmd.OutOrStdout(), l.cur, l.progress, l.bookmarks, level)
	},
}

func printItems(w io.Writer, cur *curriculum.Curriculum, set *progress.Set, bm *progress.Bookmarks, level int) error {
	levels := cur.Levels()
	if level != 0 {
		lvl, ok := cur.Level(level)
		if !ok {
			return fmt.Errorf("no level %d", level)
		}
		levels = []curriculum.Level{lvl}
	}
	for _, lvl := range levels {
		fmt.Fprintf(w, "Iqro %d: %s\n", lvl.Number, lvl.Title)
		for _, sec := range lvl.Sections {
			fmt.Fprintf(w, "  %s\n", sec.Title)
			for _, it := range sec.Items {
				id := it.ID.String()
				done, star := " ", " "
				if set.IsMarked(id) {
					done = "✓"
				}
				if bm.IsMarked(id) {
					star = "★"
				}
				fmt.Fprintf(w, "    %s%s %-8s %-10s %s\n", done, star, id, it.Transliteration, it.Arabic)
			}
		}
	}
	return nil
}

var markCmd = &cobra.Command{
	Use:   "mark <item-id>",
	Short: "Toggle an item between done and not done",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := openLearner(cmd)
		if err != nil {
			return err
		}
		defer l.Close()

		it, err := resolveItem(l.cur, args[0])
		if err != nil {
			return err
		}
		state := "not done"
		if l.progress.Toggle(it.ID.String()) {
			state = "done"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) marked %s\n", it.ID, it.Transliteration, state)
		return savedOrWarn(l.progress.Degraded())
	},
}

var bookmarkCmd = &cobra.Command{
	Use:   "bookmark <item-id>",
	Short: "Toggle a bookmark on an item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := openLearner(cmd)
		if err != nil {
			return err
		}
		defer l.Close()

		it, err := resolveItem(l.cur, args[0])
		if err != nil {
			return err
		}
		if l.bookmarks.Toggle(progress.BookmarkFor(it, time.Now())) {
			fmt.Fprintf(cmd.OutOrStdout(), "bookmarked %s (%s)\n", it.ID, it.Transliteration)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "removed bookmark %s (%s)\n", it.ID, it.Transliteration)
		}
		return savedOrWarn(l.bookmarks.Degraded())
	},
}

var bookmarksCmd = &cobra.Command{
	Use:   "bookmarks",
	Short: "List bookmarked items",
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := openLearner(cmd)
		if err != nil {
			return err
		}
		defer l.Close()
		printBookmarks(cmd.OutOrStdout(), l.bookmarks.List())
		return nil
	},
}

func printBookmarks(w io.Writer, list []progress.Bookmark) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No bookmarks yet.")
		return
	}
	for _, b := range list {
		fmt.Fprintf(w, "%-8s %-10s %-8s Iqro %d · %s · %s\n",
			b.ItemID, b.Transliteration, b.Arabic, b.Level, b.SectionTitle,
			b.SavedAt.Local().Format("2006-01-02 15:04"))
	}
}

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show completion per level",
	RunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetInt("level")
		l, err := openLearner(cmd)
		if err != nil {
			return err
		}
		defer l.Close()
		if list, _ := cmd.Flags().GetBool("list"); list {
			return printCompleted(cmd.OutOrStdout(), l.cur, l.progress, level)
		}
		return printProgress(cmd.OutOrStdout(), l.cur, l.progress, level)
	},
}

func printProgress(w io.Writer, cur *curriculum.Curriculum, set *progress.Set, level int) error {
	levels := cur.Levels()
	if level != 0 {
		lvl, ok := cur.Level(level)
		if !ok {
			return fmt.Errorf("no level %d", level)
		}
		levels = []curriculum.Level{lvl}
	}
	const barWidth = 20
	for _, lvl := range levels {
		r := set.CompletionRatio(lvl.Number, lvl.ItemIDs())
		filled := int(r.Fraction() * barWidth)
		fmt.Fprintf(w, "Iqro %d  %s%s  %3d%%  %d/%d\n", r.Level,
			strings.Repeat("█", filled), strings.Repeat("░", barWidth-filled),
			r.Percent, r.Count, r.Total)
	}
	return nil
}

// printCompleted lists completed items, optionally for one level. Ids no
// longer in the curriculum are listed as they were stored.
func printCompleted(w io.Writer, cur *curriculum.Curriculum, set *progress.Set, level int) error {
	if level != 0 {
		if _, ok := cur.Level(level); !ok {
			return fmt.Errorf("no level %d", level)
		}
	}
	n := 0
	for _, id := range set.Items() {
		if level != 0 {
			parsed, err := curriculum.ParseItemID(id)
			if err != nil || parsed.Level != level {
				continue
			}
		}
		n++
		it, err := cur.Item(id)
		if err != nil {
			fmt.Fprintf(w, "✓  %s\n", id)
			continue
		}
		fmt.Fprintf(w, "✓  %-8s %s  %s\n", id, it.Arabic, it.Transliteration)
	}
	if n == 0 {
		fmt.Fprintln(w, "Nothing completed yet.")
	}
	return nil
}

// savedOrWarn turns a degraded store into an error so scripts notice that
// the change was not persisted.
func savedOrWarn(degraded bool) error {
	if degraded {
		return fmt.Errorf("change applied in memory only: the database could not be written")
	}
	return nil
}

func init() {
	itemsCmd.Flags().Int("level", 0, "Only list this level")
	progressCmd.Flags().Int("level", 0, "Only show this level")
	progressCmd.Flags().Bool("list", false, "List completed items instead of per-level totals")
}
