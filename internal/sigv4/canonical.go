package sigv4

import (
	"net/url"
	"sort"
	"strings"
)

// buildCanonicalRequest produces the normalized text encoding of a request
// used as signing input. headers must already contain every header that is
// to be signed, including host. Returns the canonical request and the
// semicolon-joined signed header list.
func buildCanonicalRequest(method string, u *url.URL, headers map[string]string, payloadHash string) (string, string) {
	canonHeaders, signedHeaders := canonicalHeaders(headers)

	var sb strings.Builder
	sb.WriteString(strings.ToUpper(method))
	sb.WriteByte('\n')
	sb.WriteString(canonicalURI(u))
	sb.WriteByte('\n')
	sb.WriteString(canonicalQuery(u))
	sb.WriteByte('\n')
	sb.WriteString(canonHeaders)
	sb.WriteByte('\n')
	sb.WriteString(signedHeaders)
	sb.WriteByte('\n')
	sb.WriteString(payloadHash)
	return sb.String(), signedHeaders
}

// canonicalURI percent-encodes each path segment individually and joins them
// with "/". The root path is "/".
func canonicalURI(u *url.URL) string {
	if u.Path == "" || u.Path == "/" {
		return "/"
	}
	segments := strings.Split(u.Path, "/")
	for i, seg := range segments {
		segments[i] = uriEncode(seg)
	}
	return strings.Join(segments, "/")
}

// canonicalQuery percent-encodes every parameter name and value and sorts
// pairs by encoded name, then by encoded value for duplicate names.
func canonicalQuery(u *url.URL) string {
	if u.RawQuery == "" {
		return ""
	}

	var pairs []string
	for _, part := range strings.Split(u.RawQuery, "&") {
		if part == "" {
			continue
		}
		name, value := part, ""
		if idx := strings.IndexByte(part, '='); idx >= 0 {
			name, value = part[:idx], part[idx+1:]
		}
		decodedName, err := url.QueryUnescape(name)
		if err != nil {
			decodedName = name
		}
		decodedValue, err := url.QueryUnescape(value)
		if err != nil {
			decodedValue = value
		}
		pairs = append(pairs, uriEncode(decodedName)+"="+uriEncode(decodedValue))
	}
	sort.Strings(pairs)
	return strings.Join(pairs, "&")
}

// canonicalHeaders lower-cases names, trims values, sorts by name, and emits
// one name:value line per header. The second return value is the sorted
// signed header list.
func canonicalHeaders(headers map[string]string) (string, string) {
	names := make([]string, 0, len(headers))
	byName := make(map[string]string, len(headers))
	for name, value := range headers {
		lower := strings.ToLower(name)
		names = append(names, lower)
		byName[lower] = strings.TrimSpace(value)
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		sb.WriteString(name)
		sb.WriteByte(':')
		sb.WriteString(byName[name])
		sb.WriteByte('\n')
	}
	return sb.String(), strings.Join(names, ";")
}

// uriEncode percent-encodes everything except RFC 3986 unreserved
// characters, using upper-case hex digits.
func uriEncode(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9',
			c == '-', c == '_', c == '.', c == '~':
			sb.WriteByte(c)
		default:
			sb.WriteByte('%')
			sb.WriteByte(hexUpper[c>>4])
			sb.WriteByte(hexUpper[c&0xf])
		}
	}
	return sb.String()
}

const hexUpper = "0123456789ABCDEF"
