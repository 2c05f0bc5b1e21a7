package monitor

import (
	"context"
	"net/smtp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMTPAlerter_ComposesOneMessage(t *testing.T) {
	// GIVEN: A configured SMTP alerter with a captured transport
	// WHEN: Sending a change alert and a fetch failure
	// THEN: One HTML message goes to the notify address listing both

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	a := &SMTPAlerter{
		Host: "smtp.example.test", Port: 2525,
		Username: "monitor@example.test", Password: "secret",
		To: []string{"ops@example.test"},
		send: func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
			gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
			return nil
		},
	}

	err := a.Send(context.Background(), []Alert{
		{Document: Document{Label: "ACM Table", URL: "https://example.test/t.pdf"}, Changed: true},
		{Document: Document{Label: "ACM Guide"}, Err: "HTTP 404"},
	})
	require.NoError(t, err)

	assert.Equal(t, "smtp.example.test:2525", gotAddr)
	assert.Equal(t, "monitor@example.test", gotFrom)
	assert.Equal(t, []string{"ops@example.test"}, gotTo)
	msg := string(gotMsg)
	assert.Contains(t, msg, "Subject: HRD Corp ACM Document Update Detected\r\n")
	assert.Contains(t, msg, "<strong>ACM Table</strong>: content has changed.")
	assert.Contains(t, msg, "Could not fetch: HTTP 404")
}

func TestSMTPAlerter_NotConfigured(t *testing.T) {
	a := &SMTPAlerter{Host: "smtp.example.test"}
	assert.False(t, a.Configured())
	assert.Error(t, a.Send(context.Background(), []Alert{{}}))
}

func TestComposeMessage_KualaLumpurTime(t *testing.T) {
	at := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	msg := string(composeMessage("a@example.test", []string{"b@example.test"}, nil, at))
	assert.Contains(t, msg, "Checked: 2 Mar 2026 08:00 KL time")
}
