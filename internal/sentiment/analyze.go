package sentiment

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/oukeidos/sentiview/internal/apperrors"
	"github.com/oukeidos/sentiview/internal/logger"
)

// ErrEmptyInput is returned when the trimmed input has no text at all.
var ErrEmptyInput = apperrors.Input("Please enter some text to analyze.")

// Classifier labels a single utterance. Implementations must be safe for
// concurrent use when Options.Concurrency is above one.
type Classifier interface {
	Classify(ctx context.Context, utterance string) (Label, error)
}

// ClassifierFunc adapts a plain function to Classifier.
type ClassifierFunc func(ctx context.Context, utterance string) (Label, error)

func (f ClassifierFunc) Classify(ctx context.Context, utterance string) (Label, error) {
	return f(ctx, utterance)
}

const (
	DefaultMaxAttempts = 3
	MaxConcurrency     = 16
)

// Progress is reported after every classified utterance.
type Progress struct {
	Done  int
	Total int
}

type Options struct {
	// Concurrency bounds the number of in-flight Classify calls. Zero means one.
	Concurrency int
	// QPS caps request starts per second across all workers. Zero disables the cap.
	QPS int
	// MaxAttempts per utterance, including the first. Zero means DefaultMaxAttempts.
	MaxAttempts int
	// RampUp spreads worker start times to avoid a burst at the beginning.
	RampUp     time.Duration
	OnProgress func(Progress)
}

func (o Options) normalized() Options {
	if o.Concurrency <= 0 {
		o.Concurrency = 1
	}
	if o.Concurrency > MaxConcurrency {
		o.Concurrency = MaxConcurrency
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = DefaultMaxAttempts
	}
	return o
}

// SplitUtterances returns the non-blank lines of text in input order.
// Lines are kept verbatim apart from a trailing carriage return.
func SplitUtterances(text string) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	trimmed = strings.ReplaceAll(trimmed, "\r\n", "\n")
	var out []string
	for _, line := range strings.Split(trimmed, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

// Analyze classifies every utterance of text and tallies the labels.
// Any utterance that still fails after its retries aborts the whole run.
func Analyze(ctx context.Context, c Classifier, text string, opts Options) (Report, error) {
	utterances := SplitUtterances(text)
	if len(utterances) == 0 {
		return Report{}, ErrEmptyInput
	}
	if c == nil {
		return Report{}, fmt.Errorf("classifier is nil")
	}
	opts = opts.normalized()

	labels, err := classifyAll(ctx, c, utterances, opts)
	if err != nil {
		return Report{}, err
	}

	results := make([]Result, len(utterances))
	for i, u := range utterances {
		results[i] = Result{Utterance: u, Label: labels[i]}
	}
	return Report{
		Text:    strings.TrimSpace(text),
		Results: results,
		Counts:  Tally(results),
	}, nil
}

func classifyAll(parent context.Context, c Classifier, utterances []string, opts Options) ([]Label, error) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	labels := make([]Label, len(utterances))
	workers := opts.Concurrency
	if workers > len(utterances) {
		workers = len(utterances)
	}

	rateCh, stopRate := newRateLimiter(opts.QPS)
	defer stopRate()

	jobs := make(chan int, len(utterances))
	for i := range utterances {
		jobs <- i
	}
	close(jobs)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		done     int
		firstErr error
	)
	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
			cancel()
		}
		mu.Unlock()
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			if delay := rampDelay(worker, workers, opts.RampUp); delay > 0 {
				timer := time.NewTimer(delay)
				select {
				case <-ctx.Done():
					timer.Stop()
					return
				case <-timer.C:
				}
			}
			for i := range jobs {
				if ctx.Err() != nil {
					return
				}
				label, err := classifyWithRetry(ctx, c, utterances[i], rateCh, opts.MaxAttempts)
				if err != nil {
					fail(fmt.Errorf("utterance %d: %w", i+1, err))
					return
				}
				mu.Lock()
				labels[i] = label
				done++
				progress := Progress{Done: done, Total: len(utterances)}
				mu.Unlock()
				if opts.OnProgress != nil {
					opts.OnProgress(progress)
				}
			}
		}(w)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := parent.Err(); err != nil {
		return nil, err
	}
	return labels, nil
}

func classifyWithRetry(ctx context.Context, c Classifier, utterance string, rateCh <-chan time.Time, maxAttempts int) (Label, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if rateCh != nil {
			select {
			case <-ctx.Done():
				return Negative, ctx.Err()
			case <-rateCh:
			}
		}
		label, err := c.Classify(ctx, utterance)
		if err == nil {
			if !label.Valid() {
				err = apperrors.Validation(fmt.Errorf("classifier returned invalid label %d", int(label)))
			} else {
				return label, nil
			}
		}
		lastErr = err

		retry, backoff := retryDecision(ctx, err, attempt, maxAttempts)
		if !retry {
			break
		}
		logger.Warn("Classification retry", "attempt", attempt, "backoff", backoff, "error", err)
		select {
		case <-ctx.Done():
			return Negative, ctx.Err()
		case <-time.After(backoff):
		}
	}
	return Negative, lastErr
}

var backoffBase = 1 * time.Second

func retryDecision(ctx context.Context, err error, attempt, maxAttempts int) (bool, time.Duration) {
	if err == nil || attempt >= maxAttempts {
		return false, 0
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
		return false, 0
	}
	if !apperrors.IsRetryable(err) {
		return false, 0
	}
	maxBackoff := 20 * backoffBase
	backoff := backoffBase << (attempt - 1)
	if apperrors.IsRateLimit(err) {
		backoff *= 2
	}
	if backoff > maxBackoff {
		backoff = maxBackoff
	}
	if backoffBase > 0 {
		backoff += time.Duration(rand.Int63n(int64(backoffBase)))
	}
	return true, backoff
}

func newRateLimiter(qps int) (<-chan time.Time, func()) {
	if qps <= 0 {
		return nil, func() {}
	}
	ticker := time.NewTicker(time.Second / time.Duration(qps))
	return ticker.C, ticker.Stop
}

func rampDelay(worker, concurrency int, ramp time.Duration) time.Duration {
	if ramp <= 0 || concurrency <= 1 {
		return 0
	}
	return time.Duration(int64(ramp) * int64(worker) / int64(concurrency-1))
}
