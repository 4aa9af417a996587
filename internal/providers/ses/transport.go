// Package ses implements the email transport for the Amazon SES v2 HTTP API.
// Unlike the official SDK client it builds, signs, and classifies the request
// itself, so the wire behavior is fully owned by this repository.
package ses

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lattiq/seswire/internal/core"
	"github.com/lattiq/seswire/internal/sigv4"
)

const (
	// ProviderName tags results and failures raised by this transport.
	ProviderName = "aws_ses"

	// signingService is the SigV4 service name for SES.
	signingService = "ses"

	// sendPath is the SES v2 outbound send operation.
	sendPath = "/v2/email/outbound-emails"

	// requestIDHeader carries the provider-issued request id.
	requestIDHeader = "X-Amzn-Requestid"

	// idempotencyHeader carries the caller's deduplication token.
	idempotencyHeader = "X-Idempotency-Key"

	charsetUTF8 = "UTF-8"
)

// Config holds everything the transport needs at construction. All fields
// are immutable after New returns.
type Config struct {
	// Region selects the regional endpoint and scopes the signature.
	Region string

	// Static credentials. When AccessKeyID is empty the transport resolves
	// credentials through the AWS default chain (environment, shared config,
	// instance metadata).
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string

	// Endpoint overrides the regional endpoint. Mostly for tests and
	// API-compatible stand-ins.
	Endpoint string

	// Timeout bounds a single outbound call. Zero means the caller's
	// context is the only bound.
	Timeout time.Duration

	// HTTPClient is the underlying client. Defaults to a dedicated client;
	// must be safe for concurrent use.
	HTTPClient *http.Client

	// UserAgent is sent with every request.
	UserAgent string

	// Logger and verbosity for wire logging. Logging never alters control
	// flow or the returned result.
	Logger        zerolog.Logger
	Verbosity     Verbosity
	RedactHeaders []string
	BodyLogLimit  int

	// Clock and Hasher are injected by tests needing fixed signatures.
	Clock  func() time.Time
	Hasher sigv4.Hasher
}

// Transport delivers messages over the SES v2 HTTP API. Safe for concurrent
// use: all fields are read-only after construction.
type Transport struct {
	endpoint string
	creds    sigv4.Credentials
	signer   *sigv4.Signer
	client   *http.Client
	timeout  time.Duration
	ua       string
	wire     *wireLog
}

// New constructs the transport, resolving credentials through the AWS
// default chain when no static pair is supplied.
func New(cfg Config) (*Transport, error) {
	if cfg.Region == "" {
		return nil, fmt.Errorf("ses: region is required")
	}

	creds := sigv4.Credentials{
		AccessKeyID:     cfg.AccessKeyID,
		SecretAccessKey: cfg.SecretAccessKey,
		SessionToken:    cfg.SessionToken,
		Region:          cfg.Region,
		Service:         signingService,
	}
	if creds.AccessKeyID == "" {
		resolved, err := resolveDefaultCredentials(cfg.Region)
		if err != nil {
			return nil, fmt.Errorf("ses: resolving credentials: %w", err)
		}
		creds.AccessKeyID = resolved.AccessKeyID
		creds.SecretAccessKey = resolved.SecretAccessKey
		creds.SessionToken = resolved.SessionToken
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://email.%s.amazonaws.com", cfg.Region)
	}
	endpoint = strings.TrimSuffix(endpoint, "/")

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}

	var signerOpts []sigv4.Option
	if cfg.Clock != nil {
		signerOpts = append(signerOpts, sigv4.WithClock(cfg.Clock))
	}
	if cfg.Hasher != nil {
		signerOpts = append(signerOpts, sigv4.WithHasher(cfg.Hasher))
	}

	return &Transport{
		endpoint: endpoint,
		creds:    creds,
		signer:   sigv4.NewSigner(signerOpts...),
		client:   client,
		timeout:  cfg.Timeout,
		ua:       cfg.UserAgent,
		wire:     newWireLog(cfg.Logger, cfg.Verbosity, cfg.RedactHeaders, cfg.BodyLogLimit),
	}, nil
}

// resolveDefaultCredentials walks the AWS default chain once at construction
// time and pins the result for the lifetime of the transport.
func resolveDefaultCredentials(region string) (aws.Credentials, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return aws.Credentials{}, err
	}
	return awsCfg.Credentials.Retrieve(ctx)
}

// Name returns the provider tag.
func (t *Transport) Name() string {
	return ProviderName
}

// Send serializes, signs, and posts the message, then classifies the
// provider's answer into the failure taxonomy.
func (t *Transport) Send(ctx context.Context, msg *core.Message) (*core.SendResult, error) {
	body, err := json.Marshal(buildSendBody(msg))
	if err != nil {
		return nil, core.NewNetworkError(ProviderName, fmt.Errorf("encoding request body: %w", err))
	}

	headers := map[string]string{
		"Content-Type": "application/json",
	}
	if t.ua != "" {
		headers["User-Agent"] = t.ua
	}
	if msg.IdempotencyKey != "" {
		headers[idempotencyHeader] = msg.IdempotencyKey
	}

	requestURL := t.endpoint + sendPath
	signed, err := t.signer.Sign(http.MethodPost, requestURL, headers, body, t.creds)
	if err != nil {
		return nil, core.NewNetworkError(ProviderName, err)
	}

	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL, bytes.NewReader(body))
	if err != nil {
		return nil, core.NewNetworkError(ProviderName, err)
	}
	req.ContentLength = int64(len(body))
	for name, value := range signed {
		if strings.EqualFold(name, "host") {
			req.Host = value
			continue
		}
		req.Header.Set(name, value)
	}

	t.wire.logRequest(req.Method, requestURL, signed, body)

	start := time.Now()
	resp, err := t.client.Do(req)
	if err != nil {
		return nil, core.NewNetworkError(ProviderName, err)
	}
	defer resp.Body.Close()

	respBody, err := readBody(resp)
	if err != nil {
		return nil, core.NewNetworkError(ProviderName, fmt.Errorf("reading response body: %w", err))
	}

	t.wire.logResponse(resp.StatusCode, resp.Header, respBody, time.Since(start))

	return classify(resp, respBody)
}

// classify maps the HTTP outcome onto the failure taxonomy. 2xx is the only
// success; everything else carries exactly one failure kind.
func classify(resp *http.Response, body []byte) (*core.SendResult, error) {
	status := resp.StatusCode

	switch {
	case status >= 200 && status < 300:
		var out sendEmailResponse
		if len(body) > 0 {
			if err := json.Unmarshal(body, &out); err != nil {
				return nil, core.NewNetworkError(ProviderName, fmt.Errorf("malformed response body: %w", err))
			}
		}
		return &core.SendResult{
			Provider:   ProviderName,
			MessageID:  out.MessageID,
			Accepted:   true,
			StatusCode: status,
			RequestID:  requestID(resp),
			Timestamp:  time.Now(),
		}, nil

	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return nil, core.NewAuthError(ProviderName, status, "request rejected by provider")

	case status == http.StatusTooManyRequests:
		return nil, core.NewRateLimitError(ProviderName, status, parseRetryAfter(resp.Header.Get("Retry-After")))

	default:
		code, message := parseAPIError(body)
		return nil, core.NewProviderError(ProviderName, status, code, message)
	}
}

// requestID reads the provider-issued id, synthesizing one so the field is
// always populated.
func requestID(resp *http.Response) string {
	if id := resp.Header.Get(requestIDHeader); id != "" {
		return id
	}
	return uuid.NewString()
}

// parseRetryAfter understands the seconds form of Retry-After. An absent or
// unparseable header yields zero, letting the retry policy use its own
// backoff.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	secs, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// parseAPIError pulls the provider's code and description out of an error
// body. SES answers with either {"message": ..., "Code": ...} or the older
// {"Message": ..., "__type": ...} shape.
func parseAPIError(body []byte) (code, message string) {
	if len(body) == 0 {
		return "", "request failed"
	}

	var apiErr struct {
		Message string `json:"message"`
		Code    string `json:"Code"`
		Type    string `json:"__type"`
	}
	if err := json.Unmarshal(body, &apiErr); err != nil {
		return "", strings.TrimSpace(string(body))
	}

	code = apiErr.Code
	if code == "" {
		code = apiErr.Type
	}
	message = apiErr.Message
	if message == "" {
		message = "request failed"
	}
	return code, message
}
