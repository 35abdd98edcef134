package notify

import (
	"context"

	"go.opentelemetry.io/otel/codes"

	"github.com/shandysiswandi/gocle/internal/contact/entity"
	"github.com/shandysiswandi/gocle/pkg/instrument"
	"github.com/shandysiswandi/gocle/pkg/notify"
)

const eventMessageReceived = "contact.message.received"

// Notify announces new submissions on an SNS topic.
type Notify struct {
	publisher notify.Publisher
	topicARN  string
	ins       instrument.Instrumentation
}

func New(p notify.Publisher, topicARN string, ins instrument.Instrumentation) *Notify {
	return &Notify{publisher: p, topicARN: topicARN, ins: ins}
}

func (n *Notify) PublishMessageReceived(ctx context.Context, msg entity.Message) error {
	ctx, span := n.ins.Tracer("contact.outbound.notify").Start(ctx, "PublishMessageReceived")
	defer span.End()

	_, err := n.publisher.Publish(ctx, notify.PublishInput{
		TopicARN: n.topicARN,
		Subject:  "New contact message",
		Message: map[string]any{
			"event":        eventMessageReceived,
			"message_id":   msg.ID,
			"sender_email": msg.SenderEmail,
			"subject":      msg.Subject,
		},
		Attributes: map[string]notify.Attribute{
			"event": {DataType: "String", StringValue: eventMessageReceived},
		},
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
