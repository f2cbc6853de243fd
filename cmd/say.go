package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/iqro/internal/curriculum"
	"github.com/abhisek/iqro/internal/playback"
	"github.com/abhisek/iqro/internal/tts"
)

var sayCmd = &cobra.Command{
	Use:   "say <item-id|text>",
	Short: "Speak an item or any text and wait until it finishes (Ctrl-C stops)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		useNative, _ := cmd.Flags().GetBool("native")
		lang, _ := cmd.Flags().GetString("lang")

		src := sayTarget(curriculum.Default(), strings.Join(args, " "), lang, voiceFlag(cmd, tts.ConfigFromEnv()), useNative)

		player := newPlayer(ctx)
		defer player.Close()

		res := <-player.Play(ctx, src).Done()
		out := cmd.OutOrStdout()
		switch res.Outcome {
		case playback.Ended:
			if res.Fallback {
				fmt.Fprintln(out, "(spoken with the device voice)")
			}
			return nil
		case playback.Stopped:
			fmt.Fprintln(out, "stopped")
			return nil
		default:
			return fmt.Errorf("could not play %q: %w", src.SourceID(), res.Err)
		}
	},
}

// sayTarget plays a curriculum item when arg names one, else arg itself.
func sayTarget(cur *curriculum.Curriculum, arg, lang, voice string, useNative bool) playback.Source {
	id, text := "text", arg
	if it, err := cur.Item(arg); err == nil {
		id, text = it.ID.String(), it.Arabic
	}
	if useNative {
		return playback.NativeSpeech{ID: id, Text: text, Lang: lang}
	}
	return playback.SynthesizedClip{ID: id, Text: text, Lang: lang, Voice: voice}
}

func init() {
	sayCmd.Flags().Bool("native", false, "Use the device speech engine only")
	sayCmd.Flags().String("lang", "ar", "Language of the text")
}
