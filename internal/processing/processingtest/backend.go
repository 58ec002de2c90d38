// Package processingtest provides a processing.Backend for tests that writes
// small deterministic files instead of running ffmpeg.
package processingtest

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/killallgit/studio-api/internal/processing"
)

// Call records one backend invocation
type Call struct {
	Op      string
	Input   string
	Outputs []string
}

// Backend writes "<op>:<input size>" into every output
type Backend struct {
	// Err, when set, is returned by every operation before writing anything
	Err error
	// Delay is slept (or until ctx is done) before each operation
	Delay time.Duration

	mu    sync.Mutex
	calls []Call
}

var _ processing.Backend = (*Backend)(nil)

// Calls returns a copy of the recorded invocations
func (b *Backend) Calls() []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Call(nil), b.calls...)
}

func (b *Backend) Trim(ctx context.Context, input, output string, params processing.TrimParams) error {
	if err := params.Validate(); err != nil {
		return err
	}
	return b.render(ctx, "trim", input, output)
}

func (b *Backend) Split(ctx context.Context, input string, points []float64, outputs []string) error {
	if len(outputs) != len(points)+1 {
		return fmt.Errorf("split needs %d outputs, got %d", len(points)+1, len(outputs))
	}
	return b.render(ctx, "split", input, outputs...)
}

func (b *Backend) Equalize(ctx context.Context, input, output string, gains []int) error {
	return b.render(ctx, "equalize", input, output)
}

func (b *Backend) ExtractVocals(ctx context.Context, input, vocalsOutput, instrumentalOutput string) error {
	return b.render(ctx, "extract_vocals", input, vocalsOutput, instrumentalOutput)
}

func (b *Backend) render(ctx context.Context, op, input string, outputs ...string) error {
	b.mu.Lock()
	b.calls = append(b.calls, Call{Op: op, Input: input, Outputs: outputs})
	b.mu.Unlock()

	if b.Delay > 0 {
		select {
		case <-time.After(b.Delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if b.Err != nil {
		return b.Err
	}

	src, err := os.ReadFile(input)
	if err != nil {
		return err
	}
	for _, out := range outputs {
		content := fmt.Sprintf("%s:%d", op, len(src))
		if err := os.WriteFile(out, []byte(content), 0644); err != nil {
			return err
		}
	}
	return nil
}
