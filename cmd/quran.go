package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abhisek/iqro/internal/playback"
	"github.com/abhisek/iqro/internal/quran"
	"github.com/abhisek/iqro/internal/tts"
)

var surahCmd = &cobra.Command{
	Use:   "surah <number>",
	Short: "Print a surah, optionally reading it aloud verse by verse",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid surah number %q", args[0])
		}
		edition, _ := cmd.Flags().GetString("edition")
		play, _ := cmd.Flags().GetBool("play")

		ctx := cmd.Context()
		s, err := quran.NewClient(quran.ConfigFromEnv(), log).Surah(ctx, n, edition)
		if err != nil {
			return fetchFailed(err)
		}
		printSurah(cmd.OutOrStdout(), s)

		if !play {
			return nil
		}
		player := newPlayer(ctx)
		defer player.Close()
		return readAyahs(ctx, cmd.OutOrStdout(), player, s, voiceFlag(cmd, tts.ConfigFromEnv()))
	},
}

var ayahCmd = &cobra.Command{
	Use:   "ayah <surah:verse|number>",
	Short: "Print a single verse",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		edition, _ := cmd.Flags().GetString("edition")
		a, err := quran.NewClient(quran.ConfigFromEnv(), log).Ayah(cmd.Context(), args[0], edition)
		if err != nil {
			return fetchFailed(err)
		}
		if a.Surah != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) %d:%d\n", a.Surah.EnglishName, a.Surah.Name, a.Surah.Number, a.NumberInSurah)
		}
		fmt.Fprintln(cmd.OutOrStdout(), a.Text)
		return nil
	},
}

var pageCmd = &cobra.Command{
	Use:   "page <number>",
	Short: "Print one mushaf page (1-604)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid page number %q", args[0])
		}
		edition, _ := cmd.Flags().GetString("edition")
		p, err := quran.NewClient(quran.ConfigFromEnv(), log).Page(cmd.Context(), n, edition)
		if err != nil {
			return fetchFailed(err)
		}
		printPage(cmd.OutOrStdout(), p)
		return nil
	},
}

// fetchFailed adds a hint to failures that may clear up on their own.
func fetchFailed(err error) error {
	var fe *quran.FetchError
	if errors.As(err, &fe) && fe.Retryable() {
		return fmt.Errorf("%w\ntemporary failure, run the command again in a moment", err)
	}
	return err
}

func printPage(w io.Writer, p *quran.Page) {
	fmt.Fprintf(w, "Page %d\n", p.Number)
	surah := 0
	for _, a := range p.Ayahs {
		if a.Surah != nil && a.Surah.Number != surah {
			surah = a.Surah.Number
			fmt.Fprintf(w, "\n%d. %s (%s)\n", a.Surah.Number, a.Surah.EnglishName, a.Surah.Name)
		}
		fmt.Fprintf(w, "%4d  %s\n", a.NumberInSurah, a.Text)
	}
}

func printSurah(w io.Writer, s *quran.Surah) {
	fmt.Fprintf(w, "%d. %s (%s) · %s · %d ayahs\n\n", s.Number, s.EnglishName, s.Name,
		s.EnglishNameTranslation, s.NumberOfAyahs)
	for _, a := range s.Ayahs {
		fmt.Fprintf(w, "%4d  %s\n", a.NumberInSurah, a.Text)
	}
}

// readAyahs plays each verse in turn until one fails or ctx ends.
func readAyahs(ctx context.Context, w io.Writer, player *playback.Controller, s *quran.Surah, voice string) error {
	for _, a := range s.Ayahs {
		id := fmt.Sprintf("%d:%d", s.Number, a.NumberInSurah)
		fmt.Fprintf(w, "▶ %s\n", id)
		res := <-player.Play(ctx, playback.SynthesizedClip{ID: id, Text: a.Text, Lang: "ar", Voice: voice}).Done()
		switch res.Outcome {
		case playback.Ended:
		case playback.Failed:
			return fmt.Errorf("reading %s: %w", id, res.Err)
		default:
			return nil
		}
	}
	return nil
}

func init() {
	for _, c := range []*cobra.Command{surahCmd, ayahCmd, pageCmd} {
		c.Flags().String("edition", "", "Text or translation edition, e.g. quran-uthmani or en.asad (overrides IQRO_QURAN_EDITION)")
	}
	surahCmd.Flags().Bool("play", false, "Read the surah aloud after printing it")
}
