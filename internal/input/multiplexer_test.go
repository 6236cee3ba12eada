package input_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/ekimekim/awp/internal/input"
)

func TestNextDeliversSingleKeys(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	mux := input.New()
	mux.AddSource(ctx, "keys", strings.NewReader("qf"))

	for _, want := range []byte{'q', 'f'} {
		event, err := mux.Next(ctx)
		if err != nil {
			t.Fatalf("Next returned error: %v", err)
		}
		if event.Key() != want {
			t.Fatalf("expected %q, got %q", want, event)
		}
	}
}

func TestNextBatchesEscapeSequence(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	mux := input.New(input.WithEscapeTimeout(50 * time.Millisecond))
	pr, pw := io.Pipe()
	defer pw.Close()
	mux.AddSource(ctx, "tty", pr)

	go func() {
		_, _ = pw.Write([]byte{0x1b})
		time.Sleep(5 * time.Millisecond)
		_, _ = pw.Write([]byte("[A"))
	}()

	event, err := mux.Next(ctx)
	if err != nil {
		t.Fatalf("Next returned error: %v", err)
	}
	if !bytes.Equal(event, []byte("\x1b[A")) {
		t.Fatalf("expected escape sequence as one event, got %q", event)
	}
	if event.Key() != 0 {
		t.Fatalf("sequence should have no single key, got %q", event.Key())
	}
}

func TestEscapeBatchEndsAtTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	mux := input.New(input.WithEscapeTimeout(20 * time.Millisecond))
	pr, pw := io.Pipe()
	defer pw.Close()
	mux.AddSource(ctx, "tty", pr)

	go func() {
		_, _ = pw.Write([]byte{0x1b})
		time.Sleep(200 * time.Millisecond)
		_, _ = pw.Write([]byte("q"))
	}()

	first, err := mux.Next(ctx)
	if err != nil {
		t.Fatalf("Next returned error: %v", err)
	}
	if !bytes.Equal(first, []byte{0x1b}) {
		t.Fatalf("expected lone escape, got %q", first)
	}
	second, err := mux.Next(ctx)
	if err != nil {
		t.Fatalf("Next returned error: %v", err)
	}
	if second.Key() != 'q' {
		t.Fatalf("expected q after escape timeout, got %q", second)
	}
}

func TestGetTimesOut(t *testing.T) {
	mux := input.New()
	_, err := mux.Get(context.Background(), 10*time.Millisecond)
	if !errors.Is(err, input.ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}

func TestNextReturnsCancellationCause(t *testing.T) {
	cause := errors.New("child exited")
	ctx, cancel := context.WithCancelCause(context.Background())
	mux := input.New()

	done := make(chan error, 1)
	go func() {
		_, err := mux.Next(ctx)
		done <- err
	}()
	cancel(cause)

	select {
	case err := <-done:
		if !errors.Is(err, cause) {
			t.Fatalf("expected cancellation cause, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Next did not return after cancellation")
	}
}

func TestSourcesPreserveOrder(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	mux := input.New()
	mux.AddSource(ctx, "a", strings.NewReader("abcdef"))
	mux.Wait()

	var got []byte
	for range 6 {
		b, err := mux.Get(ctx, time.Second)
		if err != nil {
			t.Fatalf("Get returned error: %v", err)
		}
		got = append(got, b)
	}
	if string(got) != "abcdef" {
		t.Fatalf("expected FIFO order, got %q", got)
	}
}
