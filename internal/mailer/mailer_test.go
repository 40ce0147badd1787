package mailer

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type recordingDialer struct {
	sent []*gomail.Message
	err  error
}

func (d *recordingDialer) DialAndSend(m ...*gomail.Message) error {
	if d.err != nil {
		return d.err
	}
	d.sent = append(d.sent, m...)
	return nil
}

func TestSMTPMailer_Send(t *testing.T) {
	d := &recordingDialer{}
	m := &SMTPMailer{from: "noreply@example.com", dialer: d, log: zerolog.Nop()}

	err := m.Send(context.Background(), Message{To: "a@b.com", Subject: "Results", HTML: "<p>hi</p>"})
	require.NoError(t, err)
	require.Len(t, d.sent, 1)

	msg := d.sent[0]
	assert.Equal(t, []string{"noreply@example.com"}, msg.GetHeader("From"))
	assert.Equal(t, []string{"a@b.com"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"Results"}, msg.GetHeader("Subject"))

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)
	assert.True(t, strings.Contains(buf.String(), "<p>hi</p>"))
}

func TestSMTPMailer_SendError(t *testing.T) {
	d := &recordingDialer{err: errors.New("connection refused")}
	m := &SMTPMailer{from: "x@y.z", dialer: d, log: zerolog.Nop()}

	err := m.Send(context.Background(), Message{To: "a@b.com"})
	assert.ErrorContains(t, err, "connection refused")
}

func TestSMTPMailer_CancelledContext(t *testing.T) {
	d := &recordingDialer{}
	m := &SMTPMailer{from: "x@y.z", dialer: d, log: zerolog.Nop()}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, m.Send(ctx, Message{To: "a@b.com"}), context.Canceled)
	assert.Empty(t, d.sent)
}
