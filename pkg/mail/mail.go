// Package mail sends email through AWS SES, or through plain SMTP when running
// locally.
//
// Callers work with the Mail interface and the Message payload; templated
// sends are only available where the provider supports stored templates.
package mail

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	// DriverSES selects AWS Simple Email Service.
	DriverSES = "ses"
	// DriverSMTP selects a plain SMTP server.
	DriverSMTP = "smtp"

	// DefaultCharset is used when a charset is left empty.
	DefaultCharset = "UTF-8"
)

var (
	// ErrUnknownDriver indicates an unsupported mail driver.
	ErrUnknownDriver = errors.New("mail: unknown driver")
	// ErrNoRecipients is returned when To, Cc and Bcc are all empty.
	ErrNoRecipients = errors.New("mail: no recipients provided")
	// ErrNoSender is returned when neither the message nor the sender config has a From.
	ErrNoSender = errors.New("mail: no sender provided")
)

// Tag is a name/value pair attached to a sent email for event publishing.
type Tag struct {
	Name  string `json:"name" validate:"required,max=255"`
	Value string `json:"value" validate:"required,max=255"`
}

// Envelope holds the addressing shared by every kind of email. Empty optional
// entries are left out of provider requests.
type Envelope struct {
	// From is the sender; the configured default applies when empty.
	From             string   `json:"from" validate:"omitempty,email"`
	To               []string `json:"to" validate:"required_without_all=Cc Bcc,dive,email"`
	Cc               []string `json:"cc" validate:"dive,email"`
	Bcc              []string `json:"bcc" validate:"dive,email"`
	ReplyTo          []string `json:"reply_to" validate:"dive,email"`
	ReturnPath       string   `json:"return_path" validate:"omitempty,email"`
	SourceARN        string   `json:"source_arn" validate:"omitempty,arn"`
	ReturnPathARN    string   `json:"return_path_arn" validate:"omitempty,arn"`
	Tags             []Tag    `json:"tags" validate:"dive"`
	ConfigurationSet string   `json:"configuration_set"`
}

// Message is an email with inline content. At least one of TextBody and
// HTMLBody is required.
type Message struct {
	Envelope

	Subject        string `json:"subject" validate:"required"`
	SubjectCharset string `json:"subject_charset"`
	TextBody       string `json:"text_body" validate:"required_without=HTMLBody"`
	TextCharset    string `json:"text_charset"`
	HTMLBody       string `json:"html_body"`
	HTMLCharset    string `json:"html_charset"`
}

// TemplatedMessage is an email rendered from a stored template. TemplateData
// is either a JSON string or a value marshaled to JSON.
type TemplatedMessage struct {
	Envelope

	Template     string `json:"template" validate:"required"`
	TemplateData any    `json:"template_data" validate:"required"`
}

// Mail abstracts an email provider.
type Mail interface {
	io.Closer
	// Send dispatches msg and returns the provider message id.
	Send(ctx context.Context, msg Message) (string, error)
}

// TemplatedMail is implemented by providers with stored templates.
type TemplatedMail interface {
	Mail
	SendTemplated(ctx context.Context, msg TemplatedMessage) (string, error)
}

// FactoryOptions groups configuration for mail drivers.
type FactoryOptions struct {
	SES  SESOptions
	SMTP SMTPConfig
}

// NewFromDriver constructs a Mail implementation by driver name.
func NewFromDriver(ctx context.Context, driver string, opts FactoryOptions) (Mail, error) {
	switch strings.ToLower(driver) {
	case DriverSES:
		return NewSES(ctx, opts.SES)
	case DriverSMTP:
		return NewSMTP(opts.SMTP)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, driver)
	}
}

func charset(cs string) string {
	if cs == "" {
		return DefaultCharset
	}
	return cs
}
