package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validMessage() *Message {
	return &Message{
		From:     Address{Email: "sender@example.com", Name: "Sender"},
		To:       []Address{{Email: "to@example.com"}},
		Subject:  "Hello",
		TextBody: "Hi there",
		Headers:  map[string]string{"X-Category": "test"},
	}
}

func TestMessageValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Message)
		wantErr bool
		field   string
	}{
		{name: "valid", mutate: func(m *Message) {}},
		{name: "html only body", mutate: func(m *Message) {
			m.TextBody = ""
			m.HTMLBody = "<p>hi</p>"
		}},
		{name: "missing sender", mutate: func(m *Message) { m.From = Address{} }, wantErr: true, field: "from"},
		{name: "empty recipients", mutate: func(m *Message) { m.To = nil }, wantErr: true, field: "to"},
		{name: "bad recipient", mutate: func(m *Message) { m.To = []Address{{Email: "not-an-address"}} }, wantErr: true, field: "to"},
		{name: "bad cc", mutate: func(m *Message) { m.CC = []Address{{Email: "@"}} }, wantErr: true, field: "cc"},
		{name: "bad bcc", mutate: func(m *Message) { m.BCC = []Address{{Email: "@"}} }, wantErr: true, field: "bcc"},
		{name: "bad reply-to", mutate: func(m *Message) { m.ReplyTo = &Address{Email: "nope"} }, wantErr: true, field: "reply_to"},
		{name: "blank subject", mutate: func(m *Message) { m.Subject = "   " }, wantErr: true, field: "subject"},
		{name: "no body", mutate: func(m *Message) {
			m.TextBody = ""
			m.HTMLBody = ""
		}, wantErr: true, field: "body"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg := validMessage()
			tc.mutate(msg)

			err := msg.Validate()
			if !tc.wantErr {
				assert.NoError(t, err)
				return
			}

			var sendErr *Error
			require.ErrorAs(t, err, &sendErr)
			assert.Equal(t, KindInvalidMessage, sendErr.Kind)
			assert.Equal(t, tc.field, sendErr.Field)
		})
	}
}

func TestAddressString(t *testing.T) {
	assert.Equal(t, "plain@example.com", Address{Email: "plain@example.com"}.String())
	assert.Equal(t, "Ada <ada@example.com>", Address{Email: "ada@example.com", Name: "Ada"}.String())
}

func TestMessageClone(t *testing.T) {
	original := validMessage()
	original.ReplyTo = &Address{Email: "reply@example.com"}

	clone := original.Clone()
	clone.To[0].Email = "other@example.com"
	clone.Headers["X-Category"] = "changed"
	clone.ReplyTo.Email = "changed@example.com"
	clone.Subject = "changed"

	assert.Equal(t, "to@example.com", original.To[0].Email)
	assert.Equal(t, "test", original.Headers["X-Category"])
	assert.Equal(t, "reply@example.com", original.ReplyTo.Email)
	assert.Equal(t, "Hello", original.Subject)
}

func TestTotalRecipients(t *testing.T) {
	msg := validMessage()
	msg.CC = []Address{{Email: "cc@example.com"}}
	msg.BCC = []Address{{Email: "bcc1@example.com"}, {Email: "bcc2@example.com"}}

	assert.Equal(t, 4, msg.TotalRecipients())
}

func TestValidateErrorIsPipelineError(t *testing.T) {
	msg := validMessage()
	msg.To = nil

	err := msg.Validate()
	assert.True(t, errors.Is(err, &Error{Kind: KindInvalidMessage}))
	assert.False(t, IsRetryable(err))
}
