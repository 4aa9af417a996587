package seswire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func interpolationFixture() *Message {
	return &Message{
		From:     Address{Email: "sender@example.com"},
		To:       []Address{{Email: "to@example.com"}},
		Subject:  "Hello {{name}}",
		TextBody: "Hi {{name}}, your {{plan}} plan is ready.",
		HTMLBody: "<p>Hi {{name}}</p>",
	}
}

func TestInterpolateSubstitutes(t *testing.T) {
	out, err := Interpolate(interpolationFixture(), map[string]string{
		"name": "Ada",
		"plan": "starter",
	})
	require.NoError(t, err)

	assert.Equal(t, "Hello Ada", out.Subject)
	assert.Equal(t, "Hi Ada, your starter plan is ready.", out.TextBody)
	assert.Equal(t, "<p>Hi Ada</p>", out.HTMLBody)
}

func TestInterpolateLeavesUnknownKeysVerbatim(t *testing.T) {
	out, err := Interpolate(interpolationFixture(), map[string]string{"name": "Ada"})
	require.NoError(t, err)

	assert.Equal(t, "Hello Ada", out.Subject)
	assert.Equal(t, "Hi Ada, your {{plan}} plan is ready.", out.TextBody)
}

func TestInterpolateNilParams(t *testing.T) {
	out, err := Interpolate(interpolationFixture(), nil)
	require.NoError(t, err)

	assert.Equal(t, "Hello {{name}}", out.Subject)
	assert.Equal(t, "Hi {{name}}, your {{plan}} plan is ready.", out.TextBody)
}

func TestInterpolateTrimsKeyWhitespace(t *testing.T) {
	msg := interpolationFixture()
	msg.Subject = "Hello {{ name }}"

	out, err := Interpolate(msg, map[string]string{"name": "Ada"})
	require.NoError(t, err)

	assert.Equal(t, "Hello Ada", out.Subject)
}

func TestInterpolateUnterminatedPlaceholder(t *testing.T) {
	msg := interpolationFixture()
	msg.TextBody = "Hi {{name, welcome"

	_, err := Interpolate(msg, map[string]string{"name": "Ada"})
	require.Error(t, err)
	assert.Equal(t, KindInterpolation, KindOf(err))
}

func TestInterpolateDoesNotMutateInput(t *testing.T) {
	msg := interpolationFixture()

	_, err := Interpolate(msg, map[string]string{"name": "Ada", "plan": "starter"})
	require.NoError(t, err)

	assert.Equal(t, "Hello {{name}}", msg.Subject)
	assert.Equal(t, "Hi {{name}}, your {{plan}} plan is ready.", msg.TextBody)
}

func TestInterpolateAdjacentPlaceholders(t *testing.T) {
	msg := interpolationFixture()
	msg.Subject = "{{a}}{{b}}"

	out, err := Interpolate(msg, map[string]string{"a": "1", "b": "2"})
	require.NoError(t, err)

	assert.Equal(t, "12", out.Subject)
}
