// Package feedback grades a learner's reading of a curriculum item.
package feedback

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/abhisek/iqro/internal/curriculum"
	"github.com/abhisek/iqro/internal/llm"
)

// Verdict is the coarse grade.
type Verdict string

const (
	Correct   Verdict = "correct"
	Close     Verdict = "close"
	Incorrect Verdict = "incorrect"
)

// Result is a graded reading.
type Result struct {
	Score   int
	Verdict Verdict
	Tips    []string

	// Source is "ai" or "local".
	Source string
}

// Config tunes the model request.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns the default request settings.
func DefaultConfig() Config {
	return Config{MaxTokens: 300, Temperature: 0.2}
}

// Service grades readings with a model, or locally without one.
type Service struct {
	provider llm.Provider
	cfg      Config
	log      *zap.SugaredLogger
}

// NewService creates a Service. A nil provider grades locally.
func NewService(provider llm.Provider, cfg Config, log *zap.SugaredLogger) *Service {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Service{provider: provider, cfg: cfg, log: log}
}

type output struct {
	Score   int      `json:"score"`
	Verdict string   `json:"verdict"`
	Tips    []string `json:"tips"`
}

// Evaluate grades heard against item. Model failures fall back to the
// local comparison.
func (s *Service) Evaluate(ctx context.Context, item curriculum.Item, heard string) (*Result, error) {
	heard = strings.TrimSpace(heard)
	if heard == "" {
		return nil, errors.New("feedback: nothing was heard")
	}
	if s.provider == nil {
		return Local(item, heard), nil
	}

	res, err := s.evaluateAI(ctx, item, heard)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.log.Warnw("AI feedback failed, grading locally", "item", item.ID.String(), "error", err)
		return Local(item, heard), nil
	}
	return res, nil
}

func (s *Service) evaluateAI(ctx context.Context, item curriculum.Item, heard string) (*Result, error) {
	ctx = llm.WithPurpose(ctx, "pronunciation-feedback")

	msg, err := buildMessage(item, heard)
	if err != nil {
		return nil, fmt.Errorf("build feedback prompt: %w", err)
	}
	resp, err := s.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: msg}},
		Schema:      Schema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return nil, err
	}

	var out output
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse feedback response: %w", err)
	}
	if len(out.Tips) > 3 {
		out.Tips = out.Tips[:3]
	}
	return &Result{Score: out.Score, Verdict: Verdict(out.Verdict), Tips: out.Tips, Source: "ai"}, nil
}

// Local grades by transliteration similarity.
func Local(item curriculum.Item, heard string) *Result {
	score := int(math.Round(similarity(item.Transliteration, heard) * 100))
	res := &Result{Score: score, Source: "local"}
	switch {
	case score >= 90:
		res.Verdict = Correct
	case score >= 60:
		res.Verdict = Close
		res.Tips = []string{fmt.Sprintf("Listen again and copy the sound %q.", item.Transliteration)}
	default:
		res.Verdict = Incorrect
		res.Tips = []string{
			fmt.Sprintf("This letter is read %q.", item.Transliteration),
			"Play it with Enter and repeat slowly.",
		}
	}
	return res
}
