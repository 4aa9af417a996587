package seswire

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lattiq/seswire/internal/providers/memory"
)

// recordingMiddleware counts hook invocations and captures outcomes.
type recordingMiddleware struct {
	mu       sync.Mutex
	before   int
	after    int
	messages []*Message
	outcomes []*Outcome
}

func (r *recordingMiddleware) BeforeSend(ctx context.Context, msg *Message, provider string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.before++
	r.messages = append(r.messages, msg)
}

func (r *recordingMiddleware) AfterSend(ctx context.Context, outcome *Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.after++
	r.outcomes = append(r.outcomes, outcome)
}

type panickyMiddleware struct{}

func (panickyMiddleware) BeforeSend(ctx context.Context, msg *Message, provider string) {
	panic("before")
}

func (panickyMiddleware) AfterSend(ctx context.Context, outcome *Outcome) {
	panic("after")
}

func testMessage() *Message {
	return &Message{
		From:     Address{Email: "sender@example.com"},
		To:       []Address{{Email: "to@example.com"}},
		Subject:  "Hello {{name}}",
		TextBody: "Hi {{name}}",
	}
}

func newTestClient(t *testing.T, transport Transport, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{WithTransport(transport)}, opts...)
	client, err := New(DefaultConfig(), opts...)
	require.NoError(t, err)
	return client
}

func TestSendSuccess(t *testing.T) {
	transport := memory.New()
	mw := &recordingMiddleware{}
	client := newTestClient(t, transport, WithMiddleware(mw))

	result, err := client.Send(context.Background(), testMessage())
	require.NoError(t, err)

	assert.True(t, result.Accepted)
	assert.Equal(t, "memory", result.Provider)
	assert.NotEmpty(t, result.RequestID)
	assert.Equal(t, 1, transport.Calls())

	assert.Equal(t, 1, mw.before)
	assert.Equal(t, 1, mw.after)
	require.Len(t, mw.outcomes, 1)
	assert.Equal(t, result, mw.outcomes[0].Result)
	assert.NoError(t, mw.outcomes[0].Err)
	assert.Equal(t, 1, mw.outcomes[0].Attempts)
	assert.Equal(t, "memory", mw.outcomes[0].Provider)
}

func TestSendInvalidMessageSkipsTransportAndHooks(t *testing.T) {
	transport := memory.New()
	mw := &recordingMiddleware{}
	client := newTestClient(t, transport, WithMiddleware(mw))

	msg := testMessage()
	msg.To = nil

	_, err := client.Send(context.Background(), msg)
	require.Error(t, err)

	assert.Equal(t, KindInvalidMessage, KindOf(err))
	assert.Equal(t, 0, transport.Calls())
	assert.Equal(t, 0, mw.before)
	assert.Equal(t, 0, mw.after)
}

func TestSendRetriesTransientFailures(t *testing.T) {
	netErr := NewNetworkError("memory", errors.New("connection reset"))
	transport := memory.New(memory.WithScript(netErr, netErr, nil))
	mw := &recordingMiddleware{}
	client := newTestClient(t, transport,
		WithMiddleware(mw),
		WithRetry(3, time.Millisecond, false),
	)

	result, err := client.Send(context.Background(), testMessage())
	require.NoError(t, err)

	assert.True(t, result.Accepted)
	assert.Equal(t, 3, transport.Calls())

	// Hooks observe the terminal outcome only, not intermediate failures.
	assert.Equal(t, 1, mw.before)
	assert.Equal(t, 1, mw.after)
	require.Len(t, mw.outcomes, 1)
	assert.Equal(t, 3, mw.outcomes[0].Attempts)
}

func TestSendNeverRetriesAuthFailure(t *testing.T) {
	authErr := NewAuthError("memory", 403, "denied")
	transport := memory.New(memory.WithScript(authErr))
	client := newTestClient(t, transport, WithRetry(5, time.Millisecond, false))

	_, err := client.Send(context.Background(), testMessage())
	require.Error(t, err)

	assert.Equal(t, KindAuthFailed, KindOf(err))
	assert.Equal(t, 1, transport.Calls())
}

func TestSendExhaustsAttempts(t *testing.T) {
	netErr := NewNetworkError("memory", errors.New("timeout"))
	transport := memory.New(memory.WithScript(netErr))
	mw := &recordingMiddleware{}
	client := newTestClient(t, transport,
		WithMiddleware(mw),
		WithRetry(2, time.Millisecond, false),
	)

	_, err := client.Send(context.Background(), testMessage())
	require.Error(t, err)

	assert.Equal(t, KindNetwork, KindOf(err))
	assert.Equal(t, 2, transport.Calls())

	require.Len(t, mw.outcomes, 1)
	assert.Equal(t, 2, mw.outcomes[0].Attempts)
	assert.Error(t, mw.outcomes[0].Err)
	assert.Nil(t, mw.outcomes[0].Result)
}

func TestSendHonorsRetryAfterHint(t *testing.T) {
	rateErr := NewRateLimitError("memory", 429, time.Millisecond)
	transport := memory.New(memory.WithScript(rateErr, nil))
	client := newTestClient(t, transport, WithRetry(3, time.Minute, false))

	start := time.Now()
	_, err := client.Send(context.Background(), testMessage())
	require.NoError(t, err)

	// The provider hint replaced the minute-long backoff.
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, 2, transport.Calls())
}

func TestSendInterpolatesBeforeHooksAndTransport(t *testing.T) {
	transport := memory.New()
	mw := &recordingMiddleware{}
	client := newTestClient(t, transport, WithMiddleware(mw))

	original := testMessage()
	_, err := client.Send(context.Background(), original,
		WithParams(map[string]string{"name": "Ada"}))
	require.NoError(t, err)

	assert.Equal(t, "Hello Ada", transport.LastMessage().Subject)
	require.Len(t, mw.messages, 1)
	assert.Equal(t, "Hello Ada", mw.messages[0].Subject)
	assert.Equal(t, "Hello {{name}}", original.Subject)
}

func TestSendInterpolationFailureSkipsTransport(t *testing.T) {
	transport := memory.New()
	client := newTestClient(t, transport)

	msg := testMessage()
	msg.TextBody = "Hi {{name"

	_, err := client.Send(context.Background(), msg)
	require.Error(t, err)

	assert.Equal(t, KindInterpolation, KindOf(err))
	assert.Equal(t, 0, transport.Calls())
}

func TestSendMiddlewareOrder(t *testing.T) {
	transport := memory.New()
	var order []string

	first := &orderedMiddleware{name: "first", order: &order}
	second := &orderedMiddleware{name: "second", order: &order}
	client := newTestClient(t, transport, WithMiddleware(first, second))

	_, err := client.Send(context.Background(), testMessage())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"first.before", "second.before",
		"first.after", "second.after",
	}, order)
}

type orderedMiddleware struct {
	name  string
	order *[]string
}

func (m *orderedMiddleware) BeforeSend(ctx context.Context, msg *Message, provider string) {
	*m.order = append(*m.order, m.name+".before")
}

func (m *orderedMiddleware) AfterSend(ctx context.Context, outcome *Outcome) {
	*m.order = append(*m.order, m.name+".after")
}

func TestSendSurvivesPanickingMiddleware(t *testing.T) {
	transport := memory.New()
	mw := &recordingMiddleware{}
	client := newTestClient(t, transport, WithMiddleware(panickyMiddleware{}, mw))

	result, err := client.Send(context.Background(), testMessage())
	require.NoError(t, err)

	assert.True(t, result.Accepted)
	assert.Equal(t, 1, mw.before)
	assert.Equal(t, 1, mw.after)
}

func TestSendConcurrent(t *testing.T) {
	transport := memory.New()
	client := newTestClient(t, transport)

	const n = 16
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = client.Send(context.Background(), testMessage())
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "send %d", i)
	}
	assert.Equal(t, n, transport.Calls())
}

func TestClosedClientRejectsSends(t *testing.T) {
	transport := memory.New()
	client := newTestClient(t, transport)

	require.NoError(t, client.Close())
	require.NoError(t, client.Close()) // idempotent

	_, err := client.Send(context.Background(), testMessage())
	assert.ErrorIs(t, err, ErrClientClosed)
	assert.Equal(t, 0, transport.Calls())
}

func TestSendCancelledContextDuringBackoff(t *testing.T) {
	netErr := NewNetworkError("memory", errors.New("timeout"))
	transport := memory.New(memory.WithScript(netErr))
	client := newTestClient(t, transport, WithRetry(3, time.Minute, false))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.Send(ctx, testMessage())
	require.Error(t, err)

	assert.Equal(t, KindNetwork, KindOf(err))
	assert.Equal(t, 1, transport.Calls())
}

func TestNewValidatesConfig(t *testing.T) {
	_, err := New(DefaultConfig(),
		WithTransport(memory.New()),
		WithRetry(0, time.Millisecond, false),
	)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	_, err = New(DefaultConfig()) // no region, no transport
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}
