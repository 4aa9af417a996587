package seswire

import (
	"strings"

	"github.com/lattiq/seswire/internal/core"
)

// Interpolate substitutes {{key}} placeholders in the subject and bodies and
// returns a new message; the input is never mutated. Placeholders without a
// matching key pass through verbatim; only malformed syntax (an unterminated
// placeholder) is an error.
func Interpolate(msg *Message, params map[string]string) (*Message, error) {
	out := msg.Clone()

	var err error
	if out.Subject, err = interpolateString(msg.Subject, params); err != nil {
		return nil, err
	}
	if out.TextBody, err = interpolateString(msg.TextBody, params); err != nil {
		return nil, err
	}
	if out.HTMLBody, err = interpolateString(msg.HTMLBody, params); err != nil {
		return nil, err
	}

	return out, nil
}

func interpolateString(s string, params map[string]string) (string, error) {
	if !strings.Contains(s, "{{") {
		return s, nil
	}

	var sb strings.Builder
	rest := s
	for {
		open := strings.Index(rest, "{{")
		if open < 0 {
			sb.WriteString(rest)
			break
		}
		sb.WriteString(rest[:open])

		closing := strings.Index(rest[open+2:], "}}")
		if closing < 0 {
			return "", core.NewInterpolationError("unterminated placeholder in " + quoteSnippet(rest[open:]))
		}

		token := rest[open : open+2+closing+2]
		key := strings.TrimSpace(rest[open+2 : open+2+closing])
		if value, ok := params[key]; ok {
			sb.WriteString(value)
		} else {
			sb.WriteString(token)
		}

		rest = rest[open+2+closing+2:]
	}

	return sb.String(), nil
}

// quoteSnippet quotes a snippet for error messages, capping its length so a whole
// body never ends up in an error string.
func quoteSnippet(s string) string {
	const max = 32
	if len(s) > max {
		s = s[:max] + "..."
	}
	return "\"" + s + "\""
}
