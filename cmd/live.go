package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/iqro/internal/feedback"
	"github.com/abhisek/iqro/internal/playback"
	"github.com/abhisek/iqro/internal/tts"
)

// micFrame is 100ms of 16 kHz 16-bit mono audio.
const (
	micFrame    = 3200
	micInterval = 100 * time.Millisecond
)

var liveCmd = &cobra.Command{
	Use:   "live <item-id>",
	Short: "Practise an item in a spoken session with the live tutor",
	Long: `Starts a spoken session: the tutor reads the item and listens for the reply.

Microphone audio is raw 16 kHz 16-bit mono PCM from a file or stdin, e.g.
  arecord -f S16_LE -r 16000 -c 1 -t raw | iqro live 1-0-1 --mic -
Without --mic the tutor only speaks.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		micPath, _ := cmd.Flags().GetString("mic")
		ctx := cmd.Context()

		l, err := openLearner(cmd)
		if err != nil {
			return err
		}
		defer l.Close()

		it, err := resolveItem(l.cur, args[0])
		if err != nil {
			return err
		}

		var mic <-chan []byte
		if micPath != "" {
			r, pace, closeMic, err := openMic(micPath, cmd.InOrStdin())
			if err != nil {
				return err
			}
			defer closeMic()
			mic = readFrames(ctx, r, pace)
		}

		out := cmd.OutOrStdout()
		var (
			mu    sync.Mutex
			heard []string
		)
		system, opening := feedback.LivePrompt(it)
		src := playback.LiveSession{
			ID:     it.ID.String(),
			System: system,
			Prompt: opening,
			Lang:   "ar",
			Voice:  voiceFlag(cmd, tts.ConfigFromEnv()),
			Mic:    mic,
			OnTranscript: func(t playback.Transcript) {
				mu.Lock()
				defer mu.Unlock()
				if t.Speaker == "user" {
					heard = append(heard, t.Text)
				}
				fmt.Fprintf(out, "%s: %s\n", t.Speaker, t.Text)
			},
		}

		player := newPlayer(ctx)
		defer player.Close()

		res := <-player.Play(ctx, src).Done()
		if res.Outcome == playback.Failed {
			return fmt.Errorf("live session: %w", res.Err)
		}
		if res.Outcome != playback.Ended {
			return nil
		}

		mu.Lock()
		said := strings.TrimSpace(strings.Join(heard, " "))
		mu.Unlock()
		if said == "" {
			return nil
		}
		grade, err := newFeedback(ctx, l.store.EventRepo()).Evaluate(ctx, it, said)
		if err != nil {
			return err
		}
		printVerdict(out, grade)
		if grade.Verdict == feedback.Correct {
			l.progress.Mark(it.ID.String())
		}
		return nil
	},
}

// openMic opens path, or stdin for "-". Regular files are paced in real
// time; pipes are assumed to be live already.
func openMic(path string, stdin io.Reader) (io.Reader, time.Duration, func(), error) {
	if path == "-" {
		return stdin, 0, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("open microphone input: %w", err)
	}
	var pace time.Duration
	if fi, err := f.Stat(); err == nil && fi.Mode().IsRegular() {
		pace = micInterval
	}
	return f, pace, func() { f.Close() }, nil
}

// readFrames sends micFrame-sized chunks of r until EOF or ctx ends, then
// closes the channel.
func readFrames(ctx context.Context, r io.Reader, pace time.Duration) <-chan []byte {
	ch := make(chan []byte)
	go func() {
		defer close(ch)
		var tick <-chan time.Time
		if pace > 0 {
			t := time.NewTicker(pace)
			defer t.Stop()
			tick = t.C
		}
		for {
			buf := make([]byte, micFrame)
			n, err := io.ReadFull(r, buf)
			if n > 0 {
				if tick != nil {
					select {
					case <-tick:
					case <-ctx.Done():
						return
					}
				}
				select {
				case ch <- buf[:n]:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
					log.Warnw("reading microphone input", "error", err)
				}
				return
			}
		}
	}()
	return ch
}

func init() {
	liveCmd.Flags().String("mic", "", `Raw 16 kHz mono PCM input: a file path or "-" for stdin`)
}
