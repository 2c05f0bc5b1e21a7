package monitor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/warp/acm-engine/logging"
)

// Alert reports one watched document that changed or could not be fetched.
type Alert struct {
	Document Document `json:"document"`
	Changed  bool     `json:"changed"`
	Err      string   `json:"error,omitempty"`
}

// Alerter delivers alerts to an administrator.
type Alerter interface {
	Send(ctx context.Context, alerts []Alert) error
}

// AlerterFunc adapts a function to Alerter.
type AlerterFunc func(ctx context.Context, alerts []Alert) error

func (f AlerterFunc) Send(ctx context.Context, alerts []Alert) error { return f(ctx, alerts) }

// LogAlerter only logs alerts. Used when SMTP is not configured.
type LogAlerter struct {
	Log *logging.Logger
}

func (a LogAlerter) Send(_ context.Context, alerts []Alert) error {
	log := logging.Or(a.Log)
	log.Warn("[Monitor] SMTP not configured, alerts logged only")
	for _, al := range alerts {
		if al.Err != "" {
			log.Warnf("[Monitor] ALERT %s: could not fetch: %s", al.Document.Label, al.Err)
		} else {
			log.Warnf("[Monitor] ALERT %s: content has changed (%s)", al.Document.Label, al.Document.URL)
		}
	}
	return nil
}

// =============================================================================
// SMTP
// =============================================================================

// SMTPAlerter emails alerts through an SMTP relay with PLAIN auth.
type SMTPAlerter struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string   // defaults to Username
	To       []string // defaults to From

	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// Configured reports whether enough settings are present to send mail.
func (a *SMTPAlerter) Configured() bool {
	return a.Host != "" && a.Username != "" && a.Password != ""
}

const alertSubject = "HRD Corp ACM Document Update Detected"

func (a *SMTPAlerter) Send(ctx context.Context, alerts []Alert) error {
	if !a.Configured() {
		return errors.New("smtp credentials not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	from := a.From
	if from == "" {
		from = a.Username
	}
	to := a.To
	if len(to) == 0 {
		to = []string{from}
	}
	port := a.Port
	if port == 0 {
		port = 587
	}

	send := a.send
	if send == nil {
		send = smtp.SendMail
	}
	addr := net.JoinHostPort(a.Host, strconv.Itoa(port))
	auth := smtp.PlainAuth("", a.Username, a.Password, a.Host)
	return send(addr, auth, from, to, composeMessage(from, to, alerts, time.Now()))
}

var kualaLumpur = time.FixedZone("MYT", 8*60*60)

func composeMessage(from string, to []string, alerts []Alert, at time.Time) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "From: \"HRD Corp Monitor\" <%s>\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", alertSubject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")

	b.WriteString(`<div style="font-family:sans-serif;max-width:600px">`)
	fmt.Fprintf(&b, `<h2 style="color:#b71c1c">%s</h2>`, alertSubject)
	b.WriteString("<p>The following document(s) have changed or could not be reached:</p><ul>")
	for _, al := range alerts {
		label := html.EscapeString(al.Document.Label)
		if al.Err != "" {
			fmt.Fprintf(&b, `<li><strong>%s</strong><br>Could not fetch: %s<br>`+
				`Please check <a href="https://hrdcorp.gov.my">hrdcorp.gov.my</a> manually for a new version.</li>`,
				label, html.EscapeString(al.Err))
			continue
		}
		url := html.EscapeString(al.Document.URL)
		fmt.Fprintf(&b, `<li><strong>%s</strong>: content has changed.<br><a href="%s">%s</a><br>`+
			`Please review the updated document and update the ACM rates in the admin panel.</li>`,
			label, url, url)
	}
	b.WriteString("</ul><hr>")
	fmt.Fprintf(&b, `<p style="color:#888;font-size:12px">Checked: %s KL time</p></div>`,
		at.In(kualaLumpur).Format("2 Jan 2006 15:04"))
	return b.Bytes()
}
