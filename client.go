package seswire

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/lattiq/seswire/internal/core"
	"github.com/lattiq/seswire/internal/providers/ses"
)

// Client implements the Sender interface. All methods are safe for
// concurrent use; concurrent sends share nothing but the transport, which
// must itself be concurrency-safe.
type Client struct {
	config    Config
	transport Transport
	tracer    trace.Tracer
	mu        sync.RWMutex
	closed    bool
}

// New creates a new client with the given configuration.
func New(config Config, opts ...Option) (*Client, error) {
	for _, opt := range opts {
		opt(&config)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	client := &Client{
		config: config,
		tracer: otel.Tracer("github.com/lattiq/seswire"),
	}

	if config.Transport != nil {
		client.transport = config.Transport
		return client, nil
	}

	transport, err := ses.New(ses.Config{
		Region:          config.Region,
		AccessKeyID:     config.Credentials.AccessKeyID,
		SecretAccessKey: config.Credentials.SecretAccessKey,
		SessionToken:    config.Credentials.SessionToken,
		Endpoint:        config.Endpoint,
		Timeout:         config.Timeout,
		UserAgent:       UserAgent(),
		Logger:          config.Logging.Logger,
		Verbosity:       config.Logging.Verbosity,
		RedactHeaders:   config.Logging.RedactHeaders,
		BodyLogLimit:    config.Logging.BodyLimit,
	})
	if err != nil {
		return nil, err
	}
	client.transport = transport

	return client, nil
}

// Send validates, interpolates, and delivers a message, retrying transient
// failures per the configured policy. Middleware observes the resolved
// message before the first attempt and the terminal outcome exactly once.
func (c *Client) Send(ctx context.Context, msg *Message, opts ...SendOption) (*SendResult, error) {
	var callOpts sendOptions
	for _, opt := range opts {
		opt(&callOpts)
	}

	ctx, span := c.tracer.Start(ctx, "seswire.Client.Send")
	defer span.End()

	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		span.RecordError(ErrClientClosed)
		span.SetStatus(codes.Error, ErrClientClosed.Error())
		return nil, ErrClientClosed
	}
	c.mu.RUnlock()

	provider := c.transport.Name()
	span.SetAttributes(
		attribute.String("seswire.from", msg.From.Email),
		attribute.String("seswire.subject", msg.Subject),
		attribute.Int("seswire.recipients", msg.TotalRecipients()),
		attribute.String("seswire.provider", provider),
	)

	if err := msg.Validate(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return nil, err
	}

	resolved, err := Interpolate(msg, callOpts.params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "interpolation failed")
		return nil, err
	}

	c.notifyBefore(ctx, resolved, provider)

	result, attempts, err := c.deliver(ctx, resolved)
	span.SetAttributes(attribute.Int("seswire.attempts", attempts))

	c.notifyAfter(ctx, &Outcome{
		Message:  resolved,
		Provider: provider,
		Result:   result,
		Err:      err,
		Attempts: attempts,
	})

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "send failed")
		return nil, err
	}

	span.SetAttributes(
		attribute.String("seswire.message_id", result.MessageID),
		attribute.String("seswire.request_id", result.RequestID),
	)
	span.SetStatus(codes.Ok, "message sent")

	return result, nil
}

// deliver runs the attempt loop. The wait between attempts parks on a timer
// channel; no goroutine is held busy and concurrent sends proceed
// unaffected.
func (c *Client) deliver(ctx context.Context, msg *Message) (*SendResult, int, error) {
	policy := c.config.Retry

	var lastErr error
	attempts := 0
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		attempts = attempt

		result, err := c.transport.Send(ctx, msg)
		if err == nil {
			return result, attempts, nil
		}
		lastErr = err

		if attempt == policy.MaxAttempts || !policy.IsRetryable(err) {
			break
		}

		delay := policy.DelayForAttempt(attempt)
		if retryAfter := core.GetRetryAfter(err); retryAfter > 0 {
			delay = retryAfter
		}

		select {
		case <-ctx.Done():
			return nil, attempts, core.NewNetworkError(c.transport.Name(), ctx.Err())
		case <-time.After(delay):
		}
	}

	return nil, attempts, lastErr
}

// notifyBefore invokes the pre-send hooks in registration order. A panicking
// hook is contained; observers never abort a send.
func (c *Client) notifyBefore(ctx context.Context, msg *Message, provider string) {
	for _, mw := range c.config.Middlewares {
		invokeHook(func() { mw.BeforeSend(ctx, msg, provider) })
	}
}

// notifyAfter invokes the post-send hooks exactly once with the terminal
// outcome, in registration order.
func (c *Client) notifyAfter(ctx context.Context, outcome *Outcome) {
	for _, mw := range c.config.Middlewares {
		invokeHook(func() { mw.AfterSend(ctx, outcome) })
	}
}

func invokeHook(hook func()) {
	defer func() {
		// Middleware is side-effect only; a panic there is its problem,
		// not the send's.
		_ = recover()
	}()
	hook()
}

// Transport returns the transport backing this client.
func (c *Client) Transport() Transport {
	return c.transport
}

// Close closes the client. Subsequent sends fail with ErrClientClosed.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	if closer, ok := c.transport.(interface{ Close() error }); ok {
		return closer.Close()
	}

	return nil
}
