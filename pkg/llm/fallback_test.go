package llm

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"FintechAgent/pkg/log"
)

var errNoToken = errors.New("no token")

type memoryCache struct {
	mu    sync.Mutex
	items map[string]string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: map[string]string{}}
}

func (c *memoryCache) GetReply(_ context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[key]
	return v, ok, nil
}

func (c *memoryCache) SetReply(_ context.Context, key string, reply string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = reply
	return nil
}

func TestStripMarkup(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"### Answer\nSave 20%.", "Answer\nSave 20%."},
		{"---\nHello\n---", "Hello"},
		{"#### Tips", "Tips"},
		{"no markup", "no markup"},
		{"a - b -- c", "a - b -- c"},
	}
	for _, tt := range tests {
		if got := StripMarkup(tt.in); got != tt.want {
			t.Errorf("StripMarkup(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFallback_ReturnsCleanedText(t *testing.T) {
	gen := GeneratorFunc(func(_ context.Context, prompt string, maxLength int) (string, error) {
		if maxLength != DefaultMaxLength {
			t.Errorf("got maxLength %d, want %d", maxLength, DefaultMaxLength)
		}
		return "### Budget tip\nSpend less than you earn.", nil
	})
	f := NewFallback(gen, log.NewDiscardLogger())

	got := f.Generate(context.Background(), "tip?", DefaultMaxLength)
	if got != "Budget tip\nSpend less than you earn." {
		t.Errorf("got %q", got)
	}
}

func TestFallback_ErrorBecomesApology(t *testing.T) {
	gen := GeneratorFunc(func(context.Context, string, int) (string, error) {
		return "", errors.New("502 bad gateway")
	})
	f := NewFallback(gen, log.NewDiscardLogger())

	if got := f.Generate(context.Background(), "hi", 10); got != ReplyGenerationFailed {
		t.Errorf("got %q, want %q", got, ReplyGenerationFailed)
	}
}

func TestFallback_MissingCredentials(t *testing.T) {
	gen := GeneratorFunc(func(context.Context, string, int) (string, error) {
		return "", errNoToken
	})
	f := NewFallback(gen, log.NewDiscardLogger(), WithCredentialCheck(func(err error) bool {
		return errors.Is(err, errNoToken)
	}))

	if got := f.Generate(context.Background(), "hi", 10); got != ReplyMissingCredentials {
		t.Errorf("got %q, want %q", got, ReplyMissingCredentials)
	}
}

func TestFallback_EmptyOutput(t *testing.T) {
	gen := GeneratorFunc(func(context.Context, string, int) (string, error) {
		return "  ---  ", nil
	})
	f := NewFallback(gen, log.NewDiscardLogger())

	if got := f.Generate(context.Background(), "hi", 10); got != ReplyEmpty {
		t.Errorf("got %q, want %q", got, ReplyEmpty)
	}
}

func TestFallback_TimeoutIgnoredByBackend(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	gen := GeneratorFunc(func(context.Context, string, int) (string, error) {
		<-release
		return "too late", nil
	})
	f := NewFallback(gen, log.NewDiscardLogger(), WithTimeout(20*time.Millisecond))

	start := time.Now()
	got := f.Generate(context.Background(), "hi", 10)
	if got != ReplyGenerationFailed {
		t.Errorf("got %q, want %q", got, ReplyGenerationFailed)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Generate took %v, want it bounded by the timeout", elapsed)
	}
}

func TestFallback_PanicBecomesApology(t *testing.T) {
	gen := GeneratorFunc(func(context.Context, string, int) (string, error) {
		panic("nil map")
	})
	f := NewFallback(gen, log.NewDiscardLogger())

	if got := f.Generate(context.Background(), "hi", 10); got != ReplyGenerationFailed {
		t.Errorf("got %q, want %q", got, ReplyGenerationFailed)
	}
}

func TestFallback_CircuitOpensAfterConsecutiveFailures(t *testing.T) {
	var calls atomic.Int32
	gen := GeneratorFunc(func(context.Context, string, int) (string, error) {
		calls.Add(1)
		return "", errors.New("unavailable")
	})
	f := NewFallback(gen, log.NewDiscardLogger())

	for i := 0; i < 8; i++ {
		if got := f.Generate(context.Background(), "hi", 10); got != ReplyGenerationFailed {
			t.Fatalf("call %d: got %q", i, got)
		}
	}
	if n := calls.Load(); n != 5 {
		t.Errorf("generator called %d times, want 5 before the circuit opened", n)
	}
}

func TestFallback_CredentialErrorsDoNotTripCircuit(t *testing.T) {
	var calls atomic.Int32
	gen := GeneratorFunc(func(context.Context, string, int) (string, error) {
		calls.Add(1)
		return "", errNoToken
	})
	f := NewFallback(gen, log.NewDiscardLogger(), WithCredentialCheck(func(err error) bool {
		return errors.Is(err, errNoToken)
	}))

	for i := 0; i < 8; i++ {
		f.Generate(context.Background(), "hi", 10)
	}
	if n := calls.Load(); n != 8 {
		t.Errorf("generator called %d times, want 8", n)
	}
}

func TestFallback_UsesCache(t *testing.T) {
	var calls atomic.Int32
	gen := GeneratorFunc(func(context.Context, string, int) (string, error) {
		calls.Add(1)
		return "Compound interest grows on interest.", nil
	})
	f := NewFallback(gen, log.NewDiscardLogger(), WithCache(newMemoryCache(), time.Minute))

	first := f.Generate(context.Background(), "compound interest?", 10)
	second := f.Generate(context.Background(), "compound interest?", 10)
	if first != second {
		t.Errorf("got %q then %q, want identical replies", first, second)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("generator called %d times, want 1", n)
	}
}
