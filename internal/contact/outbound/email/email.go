package email

import (
	"context"
	"fmt"
	"html"

	"go.opentelemetry.io/otel/codes"

	"github.com/shandysiswandi/gocle/internal/contact/entity"
	"github.com/shandysiswandi/gocle/pkg/instrument"
	"github.com/shandysiswandi/gocle/pkg/mail"
)

// Mail forwards submissions to the owner's inbox with the sender as reply-to.
type Mail struct {
	client mail.Mail
	owner  string
	ins    instrument.Instrumentation
}

func New(client mail.Mail, owner string, ins instrument.Instrumentation) *Mail {
	return &Mail{client: client, owner: owner, ins: ins}
}

func (m *Mail) SendMessageCopy(ctx context.Context, msg entity.Message) error {
	ctx, span := m.ins.Tracer("contact.outbound.email").Start(ctx, "SendMessageCopy")
	defer span.End()

	_, err := m.client.Send(ctx, mail.Message{
		Envelope: mail.Envelope{
			To:      []string{m.owner},
			ReplyTo: []string{msg.SenderEmail},
			Tags:    []mail.Tag{{Name: "kind", Value: "contact-message"}},
		},
		Subject:  "[contact] " + msg.Subject,
		TextBody: fmt.Sprintf("From: %s <%s>\nAt: %s\n\n%s", msg.SenderName, msg.SenderEmail, msg.CreatedAt.Format("2006-01-02 15:04:05 MST"), msg.Body),
		HTMLBody: fmt.Sprintf("<p><strong>%s</strong> &lt;%s&gt;</p><pre>%s</pre>",
			html.EscapeString(msg.SenderName), html.EscapeString(msg.SenderEmail), html.EscapeString(msg.Body)),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
