package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	contextPkg "FintechAgent/pkg/context"
	"FintechAgent/pkg/metrics"
	"FintechAgent/pkg/utils"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

const defaultTimeout = 15 * time.Second

// Fallback wraps a Generator so that callers always get displayable text:
// every failure becomes a fixed apology string.
type Fallback struct {
	generator    Generator
	breaker      *gobreaker.CircuitBreaker
	cache        ReplyCache
	cacheTTL     time.Duration
	timeout      time.Duration
	isCredential IsCredentialError
	log          *logrus.Logger
}

type FallbackOption func(*Fallback)

func WithTimeout(timeout time.Duration) FallbackOption {
	return func(f *Fallback) {
		if timeout > 0 {
			f.timeout = timeout
		}
	}
}

func WithCache(cache ReplyCache, ttl time.Duration) FallbackOption {
	return func(f *Fallback) {
		f.cache = cache
		f.cacheTTL = ttl
	}
}

func WithCredentialCheck(check IsCredentialError) FallbackOption {
	return func(f *Fallback) {
		f.isCredential = check
	}
}

func NewFallback(generator Generator, log *logrus.Logger, opts ...FallbackOption) *Fallback {
	f := &Fallback{
		generator: generator,
		timeout:   defaultTimeout,
		cacheTTL:  10 * time.Minute,
		log:       log,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "generator",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || (f.isCredential != nil && f.isCredential(err))
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			f.log.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Generator circuit breaker state changed")
		},
	})

	return f
}

// Generate returns generated text for prompt, or an apology string when the
// generator fails, times out, or returns nothing usable.
func (f *Fallback) Generate(ctx context.Context, prompt string, maxLength int) string {
	requestID := contextPkg.GetRequestID(ctx)
	cacheKey := utils.HashKey(prompt, fmt.Sprint(maxLength))

	if f.cache != nil {
		if reply, ok, err := f.cache.GetReply(ctx, cacheKey); err != nil {
			f.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Warn("Reply cache lookup failed")
		} else if ok {
			metrics.GeneratorRequests.WithLabelValues("cache_hit").Inc()
			return reply
		}
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	result, err := f.breaker.Execute(func() (interface{}, error) {
		return f.call(ctx, prompt, maxLength)
	})
	if err != nil {
		return f.apology(requestID, err)
	}

	text := StripMarkup(result.(string))
	if text == "" {
		metrics.GeneratorRequests.WithLabelValues("empty").Inc()
		return ReplyEmpty
	}
	metrics.GeneratorRequests.WithLabelValues("success").Inc()

	if f.cache != nil {
		if err := f.cache.SetReply(ctx, cacheKey, text, f.cacheTTL); err != nil {
			f.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Warn("Reply cache store failed")
		}
	}

	return text
}

// call runs the generator on its own goroutine so the timeout holds even
// when the backend ignores ctx.
func (f *Fallback) call(ctx context.Context, prompt string, maxLength int) (string, error) {
	type outcome struct {
		text string
		err  error
	}
	done := make(chan outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("generator panic: %v", r)}
			}
		}()
		text, err := f.generator.Generate(ctx, prompt, maxLength)
		done <- outcome{text: text, err: err}
	}()

	select {
	case res := <-done:
		return res.text, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (f *Fallback) apology(requestID string, err error) string {
	fields := logrus.Fields{
		"request_id": requestID,
		"error":      err.Error(),
	}

	switch {
	case f.isCredential != nil && f.isCredential(err):
		metrics.GeneratorRequests.WithLabelValues("misconfigured").Inc()
		f.log.WithFields(fields).Error("Generator credentials are not configured")
		return ReplyMissingCredentials
	case errors.Is(err, context.DeadlineExceeded):
		metrics.GeneratorRequests.WithLabelValues("timeout").Inc()
		f.log.WithFields(fields).Warn("Generator timed out")
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.GeneratorRequests.WithLabelValues("circuit_open").Inc()
		f.log.WithFields(fields).Warn("Generator circuit is open")
	default:
		metrics.GeneratorRequests.WithLabelValues("error").Inc()
		f.log.WithFields(fields).Error("Generator call failed")
	}

	return ReplyGenerationFailed
}
