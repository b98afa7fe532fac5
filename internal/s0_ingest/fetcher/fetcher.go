package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/wonny/roster/pkg/logger"
)

// Outcome classifies a single download attempt
type Outcome string

const (
	OutcomeOK         Outcome = "ok"
	OutcomeBadStatus  Outcome = "bad_status"
	OutcomeBadArchive Outcome = "bad_archive"
	OutcomeNoEntry    Outcome = "no_entry"
	OutcomeTimeout    Outcome = "timeout"
	OutcomeTransport  Outcome = "transport"
)

// Attempt records what happened on one try
type Attempt struct {
	Index      int     `json:"index"`
	Outcome    Outcome `json:"outcome"`
	StatusCode int     `json:"status_code,omitempty"`
	Bytes      int     `json:"bytes"`
	Err        error   `json:"-"`
}

// Download is a successful fetch: the selected CSV entry and its raw bytes
type Download struct {
	URL      string
	Entry    string
	Data     []byte
	Attempts []Attempt
}

// FetchError is returned once the attempt budget is exhausted
type FetchError struct {
	URL      string
	Attempts []Attempt
}

func (e *FetchError) Error() string {
	if len(e.Attempts) == 0 {
		return fmt.Sprintf("download %s failed: no attempts made", e.URL)
	}
	last := e.Attempts[len(e.Attempts)-1]
	msg := fmt.Sprintf("download %s failed after %d attempt(s): last outcome %s", e.URL, len(e.Attempts), last.Outcome)
	if last.Err != nil {
		msg += ": " + last.Err.Error()
	}
	return msg
}

// Unwrap exposes the last attempt's error
func (e *FetchError) Unwrap() error {
	if len(e.Attempts) == 0 {
		return nil
	}
	return e.Attempts[len(e.Attempts)-1].Err
}

// Getter performs a GET (pkg/httputil.Client satisfies it)
type Getter interface {
	Get(ctx context.Context, url string) (*http.Response, error)
}

// SleepFunc waits between attempts; it must return early when ctx is done
type SleepFunc func(ctx context.Context, d time.Duration) error

// Config holds the attempt budget
type Config struct {
	MaxAttempts int
	RetryDelay  time.Duration
}

// Fetcher downloads the roster archive with a fixed-delay attempt budget
// ⭐ SSOT: 원본 아카이브 다운로드는 여기서만 수행
type Fetcher struct {
	client Getter
	cfg    Config
	logger *logger.Logger
	sleep  SleepFunc
}

// New creates a Fetcher. A non-positive MaxAttempts means a single attempt.
func New(client Getter, cfg Config, log *logger.Logger) *Fetcher {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &Fetcher{
		client: client,
		cfg:    cfg,
		logger: log.Stage("fetch"),
		sleep:  sleepCtx,
	}
}

// WithSleep replaces the inter-attempt wait
func (f *Fetcher) WithSleep(fn SleepFunc) *Fetcher {
	f.sleep = fn
	return f
}

// Fetch downloads url and extracts the first CSV entry.
// Every failure kind is retried until MaxAttempts; exhaustion returns *FetchError.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Download, error) {
	attempts := make([]Attempt, 0, f.cfg.MaxAttempts)

	for i := 1; i <= f.cfg.MaxAttempts; i++ {
		att, entry, data := f.try(ctx, url, i)
		attempts = append(attempts, att)
		f.logAttempt(url, att)

		if att.Outcome == OutcomeOK {
			f.logger.WithFields(map[string]interface{}{
				"entry": entry,
				"bytes": len(data),
			}).Info("Extracted CSV entry")
			return &Download{URL: url, Entry: entry, Data: data, Attempts: attempts}, nil
		}

		if ctx.Err() != nil {
			break
		}
		if i < f.cfg.MaxAttempts {
			if err := f.sleep(ctx, f.cfg.RetryDelay); err != nil {
				break
			}
		}
	}

	ferr := &FetchError{URL: url, Attempts: attempts}
	f.logger.WithError(ferr).Error("Download failed")
	return nil, ferr
}

// try performs one attempt
func (f *Fetcher) try(ctx context.Context, url string, index int) (Attempt, string, []byte) {
	att := Attempt{Index: index}

	resp, err := f.client.Get(ctx, url)
	if err != nil {
		att.Outcome, att.Err = classifyTransport(err), err
		return att, "", nil
	}
	defer resp.Body.Close()

	att.StatusCode = resp.StatusCode
	body, err := io.ReadAll(resp.Body)
	att.Bytes = len(body)
	if err != nil {
		att.Outcome, att.Err = classifyTransport(err), fmt.Errorf("read body: %w", err)
		return att, "", nil
	}

	if resp.StatusCode != http.StatusOK {
		att.Outcome, att.Err = OutcomeBadStatus, fmt.Errorf("unexpected status %d", resp.StatusCode)
		return att, "", nil
	}

	entry, data, err := ExtractEntry(body)
	switch {
	case errors.Is(err, ErrNoEntry):
		att.Outcome, att.Err = OutcomeNoEntry, err
		return att, "", nil
	case err != nil:
		att.Outcome, att.Err = OutcomeBadArchive, err
		return att, "", nil
	}

	att.Outcome = OutcomeOK
	return att, entry, data
}

func (f *Fetcher) logAttempt(url string, att Attempt) {
	log := f.logger.WithFields(map[string]interface{}{
		"url":          url,
		"attempt":      att.Index,
		"max_attempts": f.cfg.MaxAttempts,
		"outcome":      att.Outcome,
		"status_code":  att.StatusCode,
		"bytes":        att.Bytes,
	})
	if att.Outcome == OutcomeOK {
		log.Info("Download attempt succeeded")
		return
	}
	log.WithError(att.Err).Warn("Download attempt failed")
}

// classifyTransport separates timeouts from other transport faults
func classifyTransport(err error) Outcome {
	if errors.Is(err, context.DeadlineExceeded) {
		return OutcomeTimeout
	}
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return OutcomeTimeout
	}
	return OutcomeTransport
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
