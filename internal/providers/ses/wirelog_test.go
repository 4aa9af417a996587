package ses

import (
	"bytes"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func captureWireLog(verbosity Verbosity, redact []string, bodyLimit int) (*wireLog, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	return newWireLog(logger, verbosity, redact, bodyLimit), &buf
}

func TestWireLogNoneIsSilent(t *testing.T) {
	wire, buf := captureWireLog(VerbosityNone, nil, 0)

	wire.logRequest(http.MethodPost, "https://example.com", map[string]string{"Authorization": "secret"}, []byte("body"))
	wire.logResponse(200, http.Header{}, []byte("body"), time.Millisecond)

	assert.Zero(t, buf.Len())
}

func TestWireLogMinimalOmitsHeadersAndBody(t *testing.T) {
	wire, buf := captureWireLog(VerbosityMinimal, nil, 0)

	wire.logRequest(http.MethodPost, "https://example.com/v2", map[string]string{"Authorization": "secret"}, []byte("payload"))

	out := buf.String()
	assert.Contains(t, out, `"method":"POST"`)
	assert.Contains(t, out, "https://example.com/v2")
	assert.NotContains(t, out, "secret")
	assert.NotContains(t, out, "payload")
}

func TestWireLogRedactsSensitiveHeaders(t *testing.T) {
	wire, buf := captureWireLog(VerbosityHeaders, []string{"X-Custom-Secret"}, 0)

	wire.logRequest(http.MethodPost, "https://example.com", map[string]string{
		"Authorization":        "AWS4-HMAC-SHA256 Credential=abc",
		"X-Amz-Security-Token": "token-value",
		"X-Custom-Secret":      "custom-value",
		"Content-Type":         "application/json",
	}, nil)

	out := buf.String()
	assert.NotContains(t, out, "Credential=abc")
	assert.NotContains(t, out, "token-value")
	assert.NotContains(t, out, "custom-value")
	assert.Contains(t, out, redactedPlaceholder)
	assert.Contains(t, out, "application/json")
}

func TestWireLogBodyTruncation(t *testing.T) {
	wire, buf := captureWireLog(VerbosityBody, nil, 16)

	body := []byte(strings.Repeat("a", 64))
	wire.logRequest(http.MethodPost, "https://example.com", nil, body)

	out := buf.String()
	assert.Contains(t, out, strings.Repeat("a", 16)+"...[truncated]")
	assert.NotContains(t, out, strings.Repeat("a", 17))
}

func TestWireLogVerboseHasNoCeiling(t *testing.T) {
	wire, buf := captureWireLog(VerbosityVerbose, nil, 16)

	body := []byte(strings.Repeat("b", 64))
	wire.logResponse(200, http.Header{}, body, time.Millisecond)

	out := buf.String()
	assert.Contains(t, out, strings.Repeat("b", 64))
	assert.NotContains(t, out, "[truncated]")
}

func TestVerbosityString(t *testing.T) {
	assert.Equal(t, "none", VerbosityNone.String())
	assert.Equal(t, "minimal", VerbosityMinimal.String())
	assert.Equal(t, "headers", VerbosityHeaders.String())
	assert.Equal(t, "body", VerbosityBody.String())
	assert.Equal(t, "verbose", VerbosityVerbose.String())
	assert.Equal(t, "unknown", Verbosity(99).String())
}
