package ses

import (
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Verbosity selects how much of the wire exchange is logged.
type Verbosity int

const (
	// VerbosityNone logs nothing.
	VerbosityNone Verbosity = iota

	// VerbosityMinimal logs method, URL, status, and timing.
	VerbosityMinimal

	// VerbosityHeaders adds headers, with sensitive names redacted.
	VerbosityHeaders

	// VerbosityBody adds bodies, truncated at the configured byte ceiling.
	VerbosityBody

	// VerbosityVerbose logs everything with no body ceiling.
	VerbosityVerbose
)

// String returns the tier name.
func (v Verbosity) String() string {
	switch v {
	case VerbosityNone:
		return "none"
	case VerbosityMinimal:
		return "minimal"
	case VerbosityHeaders:
		return "headers"
	case VerbosityBody:
		return "body"
	case VerbosityVerbose:
		return "verbose"
	default:
		return "unknown"
	}
}

// defaultBodyLogLimit caps logged bodies below the verbose tier.
const defaultBodyLogLimit = 1024

const redactedPlaceholder = "[REDACTED]"

// Header names whose values never reach the log, on top of any
// caller-supplied set.
var defaultRedactHeaders = []string{
	"authorization",
	"proxy-authorization",
	"x-amz-security-token",
}

// wireLog emits structured request/response records. It observes only;
// nothing here influences control flow or the returned result.
type wireLog struct {
	log       zerolog.Logger
	verbosity Verbosity
	redact    map[string]struct{}
	bodyLimit int
}

func newWireLog(logger zerolog.Logger, verbosity Verbosity, redactHeaders []string, bodyLimit int) *wireLog {
	redact := make(map[string]struct{}, len(defaultRedactHeaders)+len(redactHeaders))
	for _, name := range defaultRedactHeaders {
		redact[name] = struct{}{}
	}
	for _, name := range redactHeaders {
		redact[strings.ToLower(name)] = struct{}{}
	}

	if bodyLimit <= 0 {
		bodyLimit = defaultBodyLogLimit
	}

	return &wireLog{
		log:       logger.With().Str("component", "ses_wire").Logger(),
		verbosity: verbosity,
		redact:    redact,
		bodyLimit: bodyLimit,
	}
}

func (w *wireLog) logRequest(method, url string, headers map[string]string, body []byte) {
	if w.verbosity == VerbosityNone {
		return
	}

	evt := w.log.Debug().
		Str("direction", "out").
		Str("method", method).
		Str("url", url)

	if w.verbosity >= VerbosityHeaders {
		dict := zerolog.Dict()
		for name, value := range headers {
			dict.Str(strings.ToLower(name), w.headerValue(name, value))
		}
		evt = evt.Dict("headers", dict)
	}
	if w.verbosity >= VerbosityBody {
		evt = evt.Str("body", w.renderBody(body))
	}

	evt.Msg("request")
}

func (w *wireLog) logResponse(status int, headers http.Header, body []byte, elapsed time.Duration) {
	if w.verbosity == VerbosityNone {
		return
	}

	evt := w.log.Debug().
		Str("direction", "in").
		Int("status", status).
		Dur("elapsed", elapsed)

	if w.verbosity >= VerbosityHeaders {
		dict := zerolog.Dict()
		for name := range headers {
			dict.Str(strings.ToLower(name), w.headerValue(name, headers.Get(name)))
		}
		evt = evt.Dict("headers", dict)
	}
	if w.verbosity >= VerbosityBody {
		evt = evt.Str("body", w.renderBody(body))
	}

	evt.Msg("response")
}

func (w *wireLog) headerValue(name, value string) string {
	if _, ok := w.redact[strings.ToLower(name)]; ok {
		return redactedPlaceholder
	}
	return value
}

func (w *wireLog) renderBody(body []byte) string {
	if w.verbosity >= VerbosityVerbose || len(body) <= w.bodyLimit {
		return string(body)
	}
	return string(body[:w.bodyLimit]) + "...[truncated]"
}
