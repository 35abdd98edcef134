package mail

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/shandysiswandi/gocle/pkg/goerror"
)

// ErrSMTPHostPortRequired is returned when Host or Port are missing.
var ErrSMTPHostPortRequired = errors.New("mail: smtp host and port are required")

// SMTPConfig configures the SMTP sender.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	// From is the default sender when a message has none.
	From string
}

// SMTP implements Mail over a plain SMTP server, e.g. a local mail catcher.
type SMTP struct {
	addr        string
	defaultFrom string
	auth        smtp.Auth
	send        func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTP constructs an SMTP mail sender.
func NewSMTP(cfg SMTPConfig) (*SMTP, error) {
	if cfg.Host == "" || cfg.Port == 0 {
		return nil, ErrSMTPHostPortRequired
	}

	var auth smtp.Auth
	if cfg.Username != "" && cfg.Password != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	return &SMTP{
		addr:        fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		defaultFrom: cfg.From,
		auth:        auth,
		send:        smtp.SendMail,
	}, nil
}

// Send delivers msg and returns the generated Message-ID.
func (s *SMTP) Send(ctx context.Context, msg Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	recipients := nonEmpty(append(append(append([]string{}, msg.To...), msg.Cc...), msg.Bcc...))
	if len(recipients) == 0 {
		return "", goerror.NewInternal("Invalid email request", ErrNoRecipients)
	}

	from := msg.From
	if from == "" {
		from = s.defaultFrom
	}
	if from == "" {
		return "", goerror.NewInternal("Invalid email request", ErrNoSender)
	}

	id := randomToken() + "@" + s.addr
	body, contentType := buildBody(msg)

	headers := []string{
		"From: " + from,
		"To: " + strings.Join(nonEmpty(msg.To), ", "),
	}
	if cc := nonEmpty(msg.Cc); len(cc) > 0 {
		headers = append(headers, "Cc: "+strings.Join(cc, ", "))
	}
	if replyTo := nonEmpty(msg.ReplyTo); len(replyTo) > 0 {
		headers = append(headers, "Reply-To: "+strings.Join(replyTo, ", "))
	}
	headers = append(headers,
		"Subject: "+msg.Subject,
		"Message-ID: <"+id+">",
		"MIME-Version: 1.0",
		"Content-Type: "+contentType,
	)

	raw := strings.Join(headers, "\r\n") + "\r\n\r\n" + body
	if err := s.send(s.addr, s.auth, from, recipients, []byte(raw)); err != nil {
		return "", goerror.NewInternal("Email could not be sent", err)
	}

	return id, nil
}

// Close implements io.Closer; connections are opened per message.
func (s *SMTP) Close() error {
	return nil
}

func buildBody(msg Message) (body string, contentType string) {
	textType := "text/plain; charset=" + charset(msg.TextCharset)
	htmlType := "text/html; charset=" + charset(msg.HTMLCharset)

	switch {
	case msg.HTMLBody != "" && msg.TextBody != "":
		boundary := "gocle-" + randomToken()
		var sb strings.Builder
		sb.WriteString("This is a multipart message in MIME format.\r\n")
		fmt.Fprintf(&sb, "--%s\r\nContent-Type: %s\r\n\r\n%s\r\n", boundary, textType, msg.TextBody)
		fmt.Fprintf(&sb, "--%s\r\nContent-Type: %s\r\n\r\n%s\r\n", boundary, htmlType, msg.HTMLBody)
		fmt.Fprintf(&sb, "--%s--", boundary)
		return sb.String(), "multipart/alternative; boundary=" + boundary
	case msg.HTMLBody != "":
		return msg.HTMLBody, htmlType
	default:
		return msg.TextBody, textType
	}
}

func randomToken() string {
	var b [12]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "fallback"
	}
	return hex.EncodeToString(b[:])
}
