package mail

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"github.com/shandysiswandi/gocle/pkg/awscfg"
	"github.com/shandysiswandi/gocle/pkg/goerror"
	"github.com/shandysiswandi/gocle/pkg/validator"
)

// SESClient is the subset of the AWS SES client used here.
type SESClient interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
	SendTemplatedEmail(ctx context.Context, params *ses.SendTemplatedEmailInput, optFns ...func(*ses.Options)) (*ses.SendTemplatedEmailOutput, error)
}

// SESOptions configures the SES sender.
type SESOptions struct {
	AWS awscfg.Options
	// From is the default sender when a message has none.
	From string
	// Validator checks messages before they are sent. Optional.
	Validator validator.Validator
}

// SES implements TemplatedMail using AWS Simple Email Service.
type SES struct {
	client      SESClient
	defaultFrom string
	validator   validator.Validator
}

// NewSES constructs an SES sender with a client created from opts.
func NewSES(ctx context.Context, opts SESOptions) (*SES, error) {
	cfg, err := awscfg.Load(ctx, opts.AWS)
	if err != nil {
		return nil, err
	}

	client := ses.NewFromConfig(cfg, func(o *ses.Options) {
		o.BaseEndpoint = opts.AWS.BaseEndpoint()
	})

	return NewSESWithClient(client, opts.From, opts.Validator), nil
}

// NewSESWithClient wraps an existing client.
func NewSESWithClient(client SESClient, from string, v validator.Validator) *SES {
	return &SES{client: client, defaultFrom: from, validator: v}
}

// Send sends msg with inline content.
func (s *SES) Send(ctx context.Context, msg Message) (string, error) {
	from, err := s.prepare(msg.From, msg)
	if err != nil {
		return "", err
	}

	body := &types.Body{}
	if msg.TextBody != "" {
		body.Text = &types.Content{Data: aws.String(msg.TextBody), Charset: aws.String(charset(msg.TextCharset))}
	}
	if msg.HTMLBody != "" {
		body.Html = &types.Content{Data: aws.String(msg.HTMLBody), Charset: aws.String(charset(msg.HTMLCharset))}
	}

	out, err := s.client.SendEmail(ctx, &ses.SendEmailInput{
		Source:      aws.String(from),
		Destination: destination(msg.Envelope),
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String(charset(msg.SubjectCharset))},
			Body:    body,
		},
		ReplyToAddresses:     nonEmpty(msg.ReplyTo),
		ReturnPath:           optional(msg.ReturnPath),
		SourceArn:            optional(msg.SourceARN),
		ReturnPathArn:        optional(msg.ReturnPathARN),
		Tags:                 tags(msg.Tags),
		ConfigurationSetName: optional(msg.ConfigurationSet),
	})
	if err != nil {
		return "", goerror.NewInternal("Email could not be sent", err)
	}

	return aws.ToString(out.MessageId), nil
}

// SendTemplated sends msg rendered from a stored SES template.
func (s *SES) SendTemplated(ctx context.Context, msg TemplatedMessage) (string, error) {
	from, err := s.prepare(msg.From, msg)
	if err != nil {
		return "", err
	}

	data, err := templateData(msg.TemplateData)
	if err != nil {
		return "", goerror.NewInternal("Invalid email request", err)
	}

	out, err := s.client.SendTemplatedEmail(ctx, &ses.SendTemplatedEmailInput{
		Source:               aws.String(from),
		Destination:          destination(msg.Envelope),
		Template:             aws.String(msg.Template),
		TemplateData:         aws.String(data),
		ReplyToAddresses:     nonEmpty(msg.ReplyTo),
		ReturnPath:           optional(msg.ReturnPath),
		SourceArn:            optional(msg.SourceARN),
		ReturnPathArn:        optional(msg.ReturnPathARN),
		Tags:                 tags(msg.Tags),
		ConfigurationSetName: optional(msg.ConfigurationSet),
	})
	if err != nil {
		return "", goerror.NewInternal("Email could not be sent", err)
	}

	return aws.ToString(out.MessageId), nil
}

// Close implements io.Closer; the SDK client holds nothing to release.
func (s *SES) Close() error {
	return nil
}

// prepare validates msg and resolves the sender.
func (s *SES) prepare(from string, msg any) (string, error) {
	if s.validator != nil {
		if err := s.validator.Validate(msg); err != nil {
			return "", goerror.NewInternal("Invalid email request", err)
		}
	}

	if from == "" {
		from = s.defaultFrom
	}
	if from == "" {
		return "", goerror.NewInternal("Invalid email request", ErrNoSender)
	}

	return from, nil
}

func destination(env Envelope) *types.Destination {
	return &types.Destination{
		ToAddresses:  nonEmpty(env.To),
		CcAddresses:  nonEmpty(env.Cc),
		BccAddresses: nonEmpty(env.Bcc),
	}
}

func templateData(data any) (string, error) {
	switch v := data.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case json.RawMessage:
		return string(v), nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}

func tags(in []Tag) []types.MessageTag {
	if len(in) == 0 {
		return nil
	}

	out := make([]types.MessageTag, 0, len(in))
	for _, t := range in {
		out = append(out, types.MessageTag{Name: aws.String(t.Name), Value: aws.String(t.Value)})
	}
	return out
}

// nonEmpty drops blank entries and returns nil for an empty result.
func nonEmpty(in []string) []string {
	var out []string
	for _, s := range in {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return aws.String(s)
}
