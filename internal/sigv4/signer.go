package sigv4

import (
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Credentials scope a signature to an access key, region, and service.
// The secret key is consumed only through the HMAC key chain and is never
// logged or serialized.
type Credentials struct {
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string // optional, for temporary credentials
	Region          string
	Service         string
}

// Signer produces signed header sets. Zero dependencies on network or
// mutable state: signing is deterministic given identical inputs and clock.
type Signer struct {
	hasher Hasher
	now    func() time.Time
}

// Option configures a Signer.
type Option func(*Signer)

// WithHasher selects the crypto implementation. Defaults to the platform
// accelerated one.
func WithHasher(h Hasher) Option {
	return func(s *Signer) { s.hasher = h }
}

// WithClock injects the timestamp source. Tests needing reproducible
// signatures supply a fixed clock.
func WithClock(now func() time.Time) Option {
	return func(s *Signer) { s.now = now }
}

// NewSigner creates a signer.
func NewSigner(opts ...Option) *Signer {
	s := &Signer{
		hasher: NewHasher(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sign derives the SigV4 authentication headers for the request and returns
// the complete header map: the caller's headers plus x-amz-date, host,
// x-amz-content-sha256, the session token when present, and Authorization.
// The input map is not mutated.
func (s *Signer) Sign(method, rawURL string, headers map[string]string, payload []byte, creds Credentials) (map[string]string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing request URL: %w", err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("request URL %q has no host", rawURL)
	}

	t := s.now().UTC()
	amzDate := t.Format(TimeFormat)
	dateStamp := t.Format(ShortTimeFormat)

	signed := make(map[string]string, len(headers)+4)
	for name, value := range headers {
		signed[name] = value
	}
	signed["host"] = u.Host
	signed[AmzDateHeader] = amzDate
	if creds.SessionToken != "" {
		signed[AmzSecurityTokenHeader] = creds.SessionToken
	}

	payloadHash := s.hashHex(payload)
	signed[AmzContentSHAHeader] = payloadHash

	canonical, signedHeaders := buildCanonicalRequest(method, u, signed, payloadHash)

	scope := strings.Join([]string{dateStamp, creds.Region, creds.Service, requestSuffix}, "/")
	stringToSign := strings.Join([]string{
		SigningAlgorithm,
		amzDate,
		scope,
		s.hashHex([]byte(canonical)),
	}, "\n")

	key := s.deriveKey(creds.SecretAccessKey, dateStamp, creds.Region, creds.Service)
	signature := hex.EncodeToString(s.hmac(key, stringToSign))

	signed[AuthorizationHeader] = fmt.Sprintf("%s Credential=%s/%s, SignedHeaders=%s, Signature=%s",
		SigningAlgorithm, creds.AccessKeyID, scope, signedHeaders, signature)

	return signed, nil
}

// deriveKey runs the four-step HMAC chain narrowing the secret to a single
// date, region, and service.
func (s *Signer) deriveKey(secret, dateStamp, region, service string) []byte {
	kDate := s.hmac([]byte(keyPrefix+secret), dateStamp)
	kRegion := s.hmac(kDate, region)
	kService := s.hmac(kRegion, service)
	return s.hmac(kService, requestSuffix)
}

func (s *Signer) hmac(key []byte, msg string) []byte {
	sum := s.hasher.HMAC(key, []byte(msg))
	return sum[:]
}

func (s *Signer) hashHex(data []byte) string {
	if len(data) == 0 {
		return EmptyStringSHA256
	}
	sum := s.hasher.Sum256(data)
	return hex.EncodeToString(sum[:])
}
