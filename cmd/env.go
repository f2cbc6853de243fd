package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/iqro/internal/curriculum"
	"github.com/abhisek/iqro/internal/feedback"
	"github.com/abhisek/iqro/internal/llm"
	"github.com/abhisek/iqro/internal/native"
	"github.com/abhisek/iqro/internal/playback"
	"github.com/abhisek/iqro/internal/progress"
	"github.com/abhisek/iqro/internal/speaker"
	"github.com/abhisek/iqro/internal/store"
	"github.com/abhisek/iqro/internal/tts"
)

// learner bundles the persistent state shared by most commands.
type learner struct {
	store     *store.Store
	cur       *curriculum.Curriculum
	progress  *progress.Set
	bookmarks *progress.Bookmarks
}

// openLearner opens the database and loads progress and bookmarks.
func openLearner(cmd *cobra.Command) (*learner, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	l := &learner{
		store:     st,
		cur:       curriculum.Default(),
		progress:  progress.NewSet(st.KV(), progress.ProgressKey, log),
		bookmarks: progress.NewBookmarks(st.KV(), log),
	}
	l.progress.Load()
	l.bookmarks.Load()
	return l, nil
}

func (l *learner) Close() error {
	return l.store.Close()
}

// voiceFlag returns --voice, falling back to the speech config.
func voiceFlag(cmd *cobra.Command, cfg tts.Config) string {
	if v, _ := cmd.Flags().GetString("voice"); v != "" {
		return v
	}
	return cfg.Voice
}

// newPlayer builds the playback controller from whatever is available:
// the remote synthesizer and live model need an API key and a speaker,
// native speech needs an installed engine. Missing parts are logged and
// left out.
func newPlayer(ctx context.Context, opts ...playback.Option) *playback.Controller {
	cfg := playback.ConfigFromEnv()
	ttsCfg := tts.ConfigFromEnv()
	var backends playback.Backends

	if engine, err := native.Detect(native.ConfigFromEnv(), log); err != nil {
		log.Warnw("native speech unavailable", "error", err)
	} else {
		backends.Native = playback.NewNativeBackend(playback.EngineSpeaker(engine))
	}

	dev, err := speaker.NewOto(speaker.Speech)
	if err != nil {
		log.Warnw("audio output unavailable", "error", err)
		return playback.New(cfg, backends, log, opts...)
	}

	synth, err := tts.NewGeminiSynthesizer(ctx, ttsCfg)
	switch {
	case errors.Is(err, tts.ErrNoAPIKey):
		log.Infow("remote speech disabled, no API key")
	case err != nil:
		log.Warnw("remote speech unavailable", "error", err)
	default:
		backends.Clip = playback.NewClipBackend(synth, dev, cfg, log)
	}

	if live, err := tts.NewGeminiLive(ctx, ttsCfg); err == nil {
		backends.Live = playback.NewLiveBackend(live, dev, log)
	}

	return playback.New(cfg, backends, log, opts...)
}

// newFeedback builds the grader. Without a configured model it grades
// locally.
func newFeedback(ctx context.Context, events store.EventRepo) *feedback.Service {
	provider, err := llm.NewProviderFromEnv(ctx, events)
	if err != nil {
		log.Infow("AI feedback unavailable, grading locally", "error", err)
		return feedback.NewService(nil, feedback.DefaultConfig(), log)
	}
	return feedback.NewService(provider, feedback.DefaultConfig(), log)
}

// resolveItem looks up an item id, or reports the valid form.
func resolveItem(cur *curriculum.Curriculum, id string) (curriculum.Item, error) {
	if _, err := curriculum.ParseItemID(id); err != nil {
		return curriculum.Item{}, err
	}
	return cur.Item(id)
}
