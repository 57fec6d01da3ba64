package telegram

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestDispatcherExecutesJobs(t *testing.T) {
	d := NewDispatcher(DispatcherOptions{QueueSize: 8, Workers: 2})

	var ran atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		err := d.Enqueue(context.Background(), "test", func() error {
			defer wg.Done()
			ran.Add(1)
			return nil
		})
		if err != nil {
			t.Fatalf("enqueue: %v", err)
		}
	}
	wg.Wait()
	d.Close()

	if got := ran.Load(); got != 5 {
		t.Fatalf("ran = %d, want 5", got)
	}
	if got := d.ErrorCount(); got != 0 {
		t.Fatalf("error count = %d, want 0", got)
	}
}

func TestDispatcherCountsPermanentFailures(t *testing.T) {
	d := NewDispatcher(DispatcherOptions{QueueSize: 1, Workers: 1, MaxRetries: 2})

	done := make(chan struct{})
	err := d.Enqueue(context.Background(), "test", func() error {
		defer close(done)
		// Not a transient network error, so no retries fire.
		return errors.New("bad request")
	})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	<-done
	d.Close()

	if got := d.ErrorCount(); got != 1 {
		t.Fatalf("error count = %d, want 1", got)
	}
}

func TestDispatcherQueueFull(t *testing.T) {
	d := NewDispatcher(DispatcherOptions{QueueSize: 1, Workers: 1})
	defer d.Close()

	block := make(chan struct{})
	release := make(chan struct{})
	if err := d.Enqueue(context.Background(), "test", func() error {
		close(block)
		<-release
		return nil
	}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	<-block

	// The worker is busy; fill the buffer, then the next enqueue must refuse.
	if err := d.Enqueue(context.Background(), "test", func() error { return nil }); err != nil {
		t.Fatalf("enqueue into buffer: %v", err)
	}
	if err := d.Enqueue(context.Background(), "test", func() error { return nil }); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("err = %v, want ErrQueueFull", err)
	}
	close(release)
}

func TestDispatcherClosedQueue(t *testing.T) {
	d := NewDispatcher(DispatcherOptions{QueueSize: 1, Workers: 1})
	d.Close()

	err := d.Enqueue(context.Background(), "test", func() error { return nil })
	if !errors.Is(err, ErrQueueClosed) {
		t.Fatalf("err = %v, want ErrQueueClosed", err)
	}
}

func TestDispatcherNilRun(t *testing.T) {
	d := NewDispatcher(DispatcherOptions{})
	defer d.Close()

	if err := d.Enqueue(context.Background(), "test", nil); err == nil {
		t.Fatal("expected error for nil run function")
	}
}

func TestDispatcherCloseIsIdempotent(t *testing.T) {
	d := NewDispatcher(DispatcherOptions{})
	d.Close()
	d.Close()
}

func TestSanitizeErrorMessage(t *testing.T) {
	err := errors.New(`Post "https://api.telegram.org/bot123456:AAHdqTcvbFx-abc_def/sendMessage": timeout`)
	got := sanitizeErrorMessage(err)
	want := `Post "https://api.telegram.org/bot<redacted>/sendMessage": timeout`
	if got != want {
		t.Fatalf("sanitized = %q, want %q", got, want)
	}
	if sanitizeErrorMessage(nil) != "" {
		t.Fatal("nil error must sanitize to empty string")
	}
}

func TestShouldRetryClassification(t *testing.T) {
	if ShouldRetry(nil) {
		t.Fatal("nil error must not retry")
	}
	if ShouldRetry(errors.New("telegram: bad request")) {
		t.Fatal("application errors must not retry")
	}
	if !ShouldRetry(timeoutErr{}) {
		t.Fatal("timeouts must retry")
	}
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }
