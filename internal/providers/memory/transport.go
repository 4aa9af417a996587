// Package memory provides a deterministic in-memory transport for tests and
// local development. Outcomes are scripted per call; internal counters are
// mutex-guarded so the transport stays correct under concurrent sends.
package memory

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lattiq/seswire/internal/core"
)

// DefaultName is the provider tag unless overridden.
const DefaultName = "memory"

// Transport records every message it receives and replays a scripted
// outcome per call.
type Transport struct {
	mu     sync.Mutex
	name   string
	script []error
	calls  int
	last   *core.Message
}

// Option customizes the transport at construction time.
type Option func(*Transport)

// WithName overrides the provider tag.
func WithName(name string) Option {
	return func(t *Transport) { t.name = name }
}

// WithScript sets the outcome of each call in order: a nil entry succeeds,
// a non-nil entry is returned as the failure. Calls beyond the script's end
// repeat the last entry; an empty script always succeeds.
func WithScript(outcomes ...error) Option {
	return func(t *Transport) { t.script = outcomes }
}

// New creates the transport.
func New(opts ...Option) *Transport {
	t := &Transport{name: DefaultName}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Name returns the provider tag.
func (t *Transport) Name() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.name
}

// Send records the call and replays the scripted outcome.
func (t *Transport) Send(ctx context.Context, msg *core.Message) (*core.SendResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, core.NewNetworkError(t.Name(), err)
	}

	t.mu.Lock()
	t.calls++
	t.last = msg
	call := t.calls
	var outcome error
	if len(t.script) > 0 {
		idx := call - 1
		if idx >= len(t.script) {
			idx = len(t.script) - 1
		}
		outcome = t.script[idx]
	}
	name := t.name
	t.mu.Unlock()

	if outcome != nil {
		return nil, outcome
	}

	return &core.SendResult{
		Provider:   name,
		MessageID:  uuid.NewString(),
		Accepted:   true,
		StatusCode: http.StatusOK,
		RequestID:  uuid.NewString(),
		Timestamp:  time.Now(),
	}, nil
}

// Calls returns how many times Send was invoked.
func (t *Transport) Calls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls
}

// LastMessage returns the most recently received message, nil if none.
func (t *Transport) LastMessage() *core.Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last
}

// Reset clears counters and the last-message cache.
func (t *Transport) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls = 0
	t.last = nil
}
