package notify

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/quotedprintable"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gopkg.in/gomail.v2"
)

func newTestNotifier(t *testing.T, sendErr error) (*SMTPNotifier, *[]*gomail.Message) {
	t.Helper()
	n := NewSMTPNotifier(SMTPConfig{
		Host:        "localhost",
		Port:        2525,
		From:        "noreply@campus.edu",
		FrontendURL: "https://campus.example/",
	}, zaptest.NewLogger(t))

	var sent []*gomail.Message
	n.send = func(m *gomail.Message) error {
		sent = append(sent, m)
		return sendErr
	}
	return n, &sent
}

// renderBody returns the decoded HTML body of a single-part message.
func renderBody(t *testing.T, m *gomail.Message) string {
	t.Helper()
	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)

	_, body, ok := strings.Cut(buf.String(), "\r\n\r\n")
	require.True(t, ok, "message has no body")

	decoded, err := io.ReadAll(quotedprintable.NewReader(strings.NewReader(body)))
	require.NoError(t, err)
	return string(decoded)
}

func TestSendVerification(t *testing.T) {
	n, sent := newTestNotifier(t, nil)

	err := n.SendVerification(context.Background(), "ada@mit.edu", "abc123")
	require.NoError(t, err)
	require.Len(t, *sent, 1)

	m := (*sent)[0]
	assert.Equal(t, []string{"ada@mit.edu"}, m.GetHeader("To"))
	assert.Equal(t, []string{"noreply@campus.edu"}, m.GetHeader("From"))
	assert.Equal(t, []string{"Verify your Campus Connect account"}, m.GetHeader("Subject"))
	assert.Contains(t, renderBody(t, m), "https://campus.example/verify-email?token=abc123")
}

func TestSendMutualAdmire_EscapesName(t *testing.T) {
	n, sent := newTestNotifier(t, nil)

	err := n.SendMutualAdmire(context.Background(), "bob@mit.edu", "<b>Ada</b>")
	require.NoError(t, err)
	require.Len(t, *sent, 1)

	body := renderBody(t, (*sent)[0])
	assert.NotContains(t, body, "<b>Ada</b>")
	assert.Contains(t, body, "&lt;b&gt;Ada&lt;/b&gt;")
}

func TestSendAdmire_Errors(t *testing.T) {
	t.Run("relay failure is returned", func(t *testing.T) {
		n, _ := newTestNotifier(t, errors.New("connection refused"))
		err := n.SendAdmire(context.Background(), "bob@mit.edu")
		assert.ErrorContains(t, err, "connection refused")
	})

	t.Run("cancelled context skips delivery", func(t *testing.T) {
		n, sent := newTestNotifier(t, nil)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := n.SendAdmire(ctx, "bob@mit.edu")
		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, *sent)
	})
}
