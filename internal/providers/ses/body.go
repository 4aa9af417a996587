package ses

import (
	"io"
	"net/http"
	"sort"

	"github.com/lattiq/seswire/internal/core"
)

// SES v2 SendEmail request shape. Only the simple-content subset is used;
// raw MIME and template content are out of scope.
type sendEmailRequest struct {
	FromEmailAddress string      `json:"FromEmailAddress"`
	Destination      destination `json:"Destination"`
	ReplyToAddresses []string    `json:"ReplyToAddresses,omitempty"`
	Content          content     `json:"Content"`
}

type destination struct {
	ToAddresses  []string `json:"ToAddresses"`
	CcAddresses  []string `json:"CcAddresses,omitempty"`
	BccAddresses []string `json:"BccAddresses,omitempty"`
}

type content struct {
	Simple simpleMessage `json:"Simple"`
}

type simpleMessage struct {
	Subject contentPart     `json:"Subject"`
	Body    messageBody     `json:"Body"`
	Headers []messageHeader `json:"Headers,omitempty"`
}

type contentPart struct {
	Data    string `json:"Data"`
	Charset string `json:"Charset"`
}

type messageBody struct {
	Text *contentPart `json:"Text,omitempty"`
	HTML *contentPart `json:"Html,omitempty"`
}

type messageHeader struct {
	Name  string `json:"Name"`
	Value string `json:"Value"`
}

type sendEmailResponse struct {
	MessageID string `json:"MessageId"`
}

// buildSendBody maps a validated message onto the provider body. Subject and
// bodies are charset-tagged as UTF-8; custom headers become provider tags.
func buildSendBody(msg *core.Message) sendEmailRequest {
	out := sendEmailRequest{
		FromEmailAddress: msg.From.String(),
		Destination: destination{
			ToAddresses:  addressStrings(msg.To),
			CcAddresses:  addressStrings(msg.CC),
			BccAddresses: addressStrings(msg.BCC),
		},
		Content: content{
			Simple: simpleMessage{
				Subject: contentPart{Data: msg.Subject, Charset: charsetUTF8},
			},
		},
	}

	if msg.ReplyTo != nil {
		out.ReplyToAddresses = []string{msg.ReplyTo.String()}
	}

	if msg.TextBody != "" {
		out.Content.Simple.Body.Text = &contentPart{Data: msg.TextBody, Charset: charsetUTF8}
	}
	if msg.HTMLBody != "" {
		out.Content.Simple.Body.HTML = &contentPart{Data: msg.HTMLBody, Charset: charsetUTF8}
	}

	// Sorted so identical messages serialize to identical bytes; the
	// signature over the payload depends on it.
	names := make([]string, 0, len(msg.Headers))
	for name := range msg.Headers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		out.Content.Simple.Headers = append(out.Content.Simple.Headers, messageHeader{Name: name, Value: msg.Headers[name]})
	}

	return out
}

func addressStrings(addrs []core.Address) []string {
	if len(addrs) == 0 {
		return nil
	}
	out := make([]string, len(addrs))
	for i, addr := range addrs {
		out[i] = addr.String()
	}
	return out
}

func readBody(resp *http.Response) ([]byte, error) {
	// SES answers are small; a hard cap keeps a misbehaving proxy from
	// ballooning memory.
	const maxBody = 1 << 20
	return io.ReadAll(io.LimitReader(resp.Body, maxBody))
}
