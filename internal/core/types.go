package core

import (
	"context"
	"mime"
	"net/mail"
	"strconv"
	"strings"
	"time"
)

// Transport delivers a message to a single email provider. Implementations
// must be safe for concurrent use; the client invokes the same transport from
// any number of goroutines.
type Transport interface {
	// Send delivers the message and reports the provider's verdict.
	// Failures are always *Error values carrying exactly one Kind.
	Send(ctx context.Context, msg *Message) (*SendResult, error)

	// Name identifies the provider behind this transport. The client passes
	// it to middleware so observers see which backend handled the message.
	Name() string
}

// Middleware observes the send pipeline. Both hooks are side-effect only:
// return values do not exist and a misbehaving hook never aborts a send.
// Hooks run sequentially in registration order.
type Middleware interface {
	// BeforeSend runs once per send with the fully resolved message,
	// after validation and interpolation but before the first attempt.
	BeforeSend(ctx context.Context, msg *Message, provider string)

	// AfterSend runs exactly once per send with the terminal outcome,
	// whether that is a success or the final failure.
	AfterSend(ctx context.Context, outcome *Outcome)
}

// Outcome is the terminal result of a send as observed by middleware.
// Exactly one of Result and Err is set.
type Outcome struct {
	// Message is the resolved message that was (or was not) delivered.
	Message *Message

	// Provider is the transport name that handled the attempts.
	Provider string

	// Result is set when the send succeeded.
	Result *SendResult

	// Err is set when every attempt was exhausted or a non-retryable
	// failure stopped the loop.
	Err error

	// Attempts is the number of transport invocations that were made.
	Attempts int
}

// Address represents an email address with optional display name.
type Address struct {
	Name  string `json:"name"`  // Display name (optional)
	Email string `json:"email"` // Email address (required)
}

// String returns the formatted email address.
// If Name is provided, returns "Name <email@domain.com>"
// Otherwise returns just "email@domain.com"
func (a Address) String() string {
	if a.Name != "" {
		return mime.QEncoding.Encode("UTF-8", a.Name) + " <" + a.Email + ">"
	}
	return a.Email
}

// Valid checks if the address has a valid email format.
func (a Address) Valid() bool {
	if a.Email == "" {
		return false
	}
	_, err := mail.ParseAddress(a.String())
	return err == nil
}

// Message is an immutable email passed through the send pipeline. The client
// never mutates a caller's message; interpolation produces a copy.
type Message struct {
	From     Address           `json:"from"`      // Sender address
	To       []Address         `json:"to"`        // Primary recipients
	CC       []Address         `json:"cc"`        // Carbon copy recipients
	BCC      []Address         `json:"bcc"`       // Blind carbon copy recipients
	ReplyTo  *Address          `json:"reply_to"`  // Reply-To address (optional)
	Subject  string            `json:"subject"`   // Email subject
	HTMLBody string            `json:"html_body"` // HTML body content
	TextBody string            `json:"text_body"` // Plain text body content
	Headers  map[string]string `json:"headers"`   // Custom headers

	// IdempotencyKey lets the provider de-duplicate retried sends. It is
	// advisory to the remote service; nothing is enforced locally.
	IdempotencyKey string `json:"idempotency_key,omitempty"`
}

// Validate checks if the message has valid structure and required fields.
func (m *Message) Validate() error {
	if !m.From.Valid() {
		return NewInvalidMessageError("from", "invalid or missing sender address")
	}

	if len(m.To) == 0 {
		return NewInvalidMessageError("to", "at least one recipient required")
	}

	for i, to := range m.To {
		if !to.Valid() {
			return NewInvalidMessageError("to", "invalid recipient address at index "+strconv.Itoa(i))
		}
	}

	for i, cc := range m.CC {
		if !cc.Valid() {
			return NewInvalidMessageError("cc", "invalid CC address at index "+strconv.Itoa(i))
		}
	}

	for i, bcc := range m.BCC {
		if !bcc.Valid() {
			return NewInvalidMessageError("bcc", "invalid BCC address at index "+strconv.Itoa(i))
		}
	}

	if m.ReplyTo != nil && !m.ReplyTo.Valid() {
		return NewInvalidMessageError("reply_to", "invalid reply-to address")
	}

	if strings.TrimSpace(m.Subject) == "" {
		return NewInvalidMessageError("subject", "subject is required")
	}

	if strings.TrimSpace(m.TextBody) == "" && strings.TrimSpace(m.HTMLBody) == "" {
		return NewInvalidMessageError("body", "either text or HTML body is required")
	}

	return nil
}

// Clone returns a deep copy of the message. Address slices and the header map
// are copied so the pipeline can substitute bodies without touching the
// caller's value.
func (m *Message) Clone() *Message {
	out := *m
	out.To = append([]Address(nil), m.To...)
	out.CC = append([]Address(nil), m.CC...)
	out.BCC = append([]Address(nil), m.BCC...)
	if m.ReplyTo != nil {
		replyTo := *m.ReplyTo
		out.ReplyTo = &replyTo
	}
	if m.Headers != nil {
		out.Headers = make(map[string]string, len(m.Headers))
		for k, v := range m.Headers {
			out.Headers[k] = v
		}
	}
	return &out
}

// TotalRecipients returns the total number of recipients (To + CC + BCC).
func (m *Message) TotalRecipients() int {
	return len(m.To) + len(m.CC) + len(m.BCC)
}

// SendResult contains the result of a successful transport call.
type SendResult struct {
	// Provider is the name of the transport that accepted the message.
	Provider string

	// MessageID is the identifier assigned by the provider, when present.
	MessageID string

	// Accepted reports whether the provider acknowledged the message.
	Accepted bool

	// StatusCode is the remote HTTP status, when the transport is HTTP-based.
	StatusCode int

	// RequestID identifies the provider-side request. It is always set:
	// either issued by the provider or synthesized locally.
	RequestID string

	// Timestamp when the provider accepted the message.
	Timestamp time.Time
}
