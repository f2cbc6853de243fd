// Package quran reads surah and ayah text from the alquran.cloud API.
package quran

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"
)

// Config holds API client settings.
type Config struct {
	BaseURL string
	Edition string
	Timeout time.Duration

	// Attempts and Backoff bound the retry of transient failures.
	Attempts int
	Backoff  time.Duration
}

// DefaultConfig returns settings for the public API.
func DefaultConfig() Config {
	return Config{
		BaseURL:  "https://api.alquran.cloud/v1",
		Edition:  "quran-uthmani",
		Timeout:  10 * time.Second,
		Attempts: 3,
		Backoff:  500 * time.Millisecond,
	}
}

// ConfigFromEnv reads IQRO_QURAN_URL and IQRO_QURAN_EDITION.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if v := os.Getenv("IQRO_QURAN_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("IQRO_QURAN_EDITION"); v != "" {
		cfg.Edition = v
	}
	return cfg
}

// FetchError is the final failure of a request after retries.
type FetchError struct {
	URL      string
	Status   int // zero for network errors
	Attempts int
	Err      error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: HTTP %d after %d attempt(s): %v", e.URL, e.Status, e.Attempts, e.Err)
	}
	return fmt.Sprintf("fetch %s after %d attempt(s): %v", e.URL, e.Attempts, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Retryable reports whether trying again later may succeed.
func (e *FetchError) Retryable() bool {
	return transient(e.Status)
}

// Client is an alquran.cloud API client.
type Client struct {
	cfg  Config
	http *http.Client
	log  *zap.SugaredLogger
}

// NewClient creates a Client.
func NewClient(cfg Config, log *zap.SugaredLogger) *Client {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if cfg.Attempts < 1 {
		cfg.Attempts = 1
	}
	return &Client{cfg: cfg, http: &http.Client{Timeout: cfg.Timeout}, log: log}
}

// Surah fetches a whole surah. An empty edition uses the configured one.
func (c *Client) Surah(ctx context.Context, number int, edition string) (*Surah, error) {
	if number < 1 || number > 114 {
		return nil, fmt.Errorf("surah number %d out of range 1-114", number)
	}
	var s Surah
	if err := c.get(ctx, fmt.Sprintf("/surah/%d/%s", number, c.edition(edition)), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Ayah fetches one verse by reference: "2:255" or an absolute number.
func (c *Client) Ayah(ctx context.Context, ref, edition string) (*Ayah, error) {
	var a Ayah
	if err := c.get(ctx, fmt.Sprintf("/ayah/%s/%s", ref, c.edition(edition)), &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Page fetches the verses on one mushaf page (1-604).
func (c *Client) Page(ctx context.Context, number int, edition string) (*Page, error) {
	if number < 1 || number > 604 {
		return nil, fmt.Errorf("page number %d out of range 1-604", number)
	}
	var p Page
	if err := c.get(ctx, fmt.Sprintf("/page/%d/%s", number, c.edition(edition)), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) edition(e string) string {
	if e == "" {
		return c.cfg.Edition
	}
	return e
}

// envelope is the API's response wrapper.
type envelope struct {
	Code   int             `json:"code"`
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

// get fetches path into out, retrying transient failures with a fixed
// backoff.
func (c *Client) get(ctx context.Context, path string, out any) error {
	url := c.cfg.BaseURL + path
	var (
		status int
		err    error
	)
	for attempt := 1; attempt <= c.cfg.Attempts; attempt++ {
		var body []byte
		status, body, err = c.do(ctx, url)
		if err == nil {
			if err := decode(body, out); err != nil {
				return &FetchError{URL: url, Status: status, Attempts: attempt, Err: err}
			}
			return nil
		}
		if ctx.Err() != nil || (status != 0 && !transient(status)) {
			return &FetchError{URL: url, Status: status, Attempts: attempt, Err: err}
		}
		if attempt == c.cfg.Attempts {
			break
		}
		c.log.Warnw("quran request failed, retrying", "url", url, "attempt", attempt, "status", status, "error", err)
		select {
		case <-ctx.Done():
			return &FetchError{URL: url, Attempts: attempt, Err: ctx.Err()}
		case <-time.After(c.cfg.Backoff):
		}
	}
	return &FetchError{URL: url, Status: status, Attempts: c.cfg.Attempts, Err: err}
}

func (c *Client) do(ctx context.Context, url string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return 0, nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return resp.StatusCode, body, nil
}

func decode(body []byte, out any) error {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if env.Code != http.StatusOK {
		return fmt.Errorf("api error %d: %s", env.Code, env.Status)
	}
	if len(env.Data) == 0 {
		return errors.New("api response has no data")
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}

// transient reports whether a status (zero for network errors) is worth
// retrying.
func transient(status int) bool {
	return status == 0 || status == http.StatusTooManyRequests || status >= 500
}
