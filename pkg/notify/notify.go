// Package notify publishes messages to AWS Simple Notification Service.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"

	"github.com/shandysiswandi/gocle/pkg/awscfg"
	"github.com/shandysiswandi/gocle/pkg/goerror"
	"github.com/shandysiswandi/gocle/pkg/validator"
)

// StructureJSON tells SNS the message is a JSON object keyed by protocol.
const StructureJSON = "json"

// Client is the subset of the AWS SNS client used here.
type Client interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Publisher publishes notifications.
type Publisher interface {
	Publish(ctx context.Context, in PublishInput) (string, error)
}

// Attribute is a typed message attribute.
type Attribute struct {
	DataType    string `json:"data_type" validate:"required,oneof=String String.Array Number Binary"`
	StringValue string `json:"string_value" validate:"required_without=BinaryValue"`
	BinaryValue []byte `json:"binary_value"`
}

// PublishInput describes a message to publish. Message is either a string or
// a map; a map is sent as {"default": <json>} with the json structure. At
// least one of TopicARN, TargetARN or PhoneNumber is required.
type PublishInput struct {
	Message          any                  `json:"message" validate:"required"`
	TopicARN         string               `json:"topic_arn" validate:"required_without_all=TargetARN PhoneNumber,omitempty,arn"`
	TargetARN        string               `json:"target_arn" validate:"omitempty,arn"`
	PhoneNumber      string               `json:"phone_number" validate:"omitempty,e164"`
	Subject          string               `json:"subject" validate:"max=100"`
	MessageStructure string               `json:"message_structure" validate:"omitempty,oneof=json"`
	Attributes       map[string]Attribute `json:"attributes" validate:"dive"`
}

// SNS implements Publisher on top of the AWS SDK.
type SNS struct {
	client    Client
	validator validator.Validator
}

// New builds an SNS publisher with a client created from opts.
func New(ctx context.Context, opts awscfg.Options, v validator.Validator) (*SNS, error) {
	cfg, err := awscfg.Load(ctx, opts)
	if err != nil {
		return nil, err
	}

	client := sns.NewFromConfig(cfg, func(o *sns.Options) {
		o.BaseEndpoint = opts.BaseEndpoint()
	})

	return NewWithClient(client, v), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client Client, v validator.Validator) *SNS {
	return &SNS{client: client, validator: v}
}

// Publish sends the message and returns the SNS message id.
func (s *SNS) Publish(ctx context.Context, in PublishInput) (string, error) {
	if s.validator != nil {
		if err := s.validator.Validate(in); err != nil {
			return "", goerror.NewInternal("Invalid notification request", err)
		}
	}

	params, err := buildPublishInput(in)
	if err != nil {
		return "", goerror.NewInternal("Invalid notification request", err)
	}

	out, err := s.client.Publish(ctx, params)
	if err != nil {
		return "", goerror.NewInternal("Notification could not be published", err)
	}

	return aws.ToString(out.MessageId), nil
}

func buildPublishInput(in PublishInput) (*sns.PublishInput, error) {
	params := &sns.PublishInput{
		TopicArn:    optional(in.TopicARN),
		TargetArn:   optional(in.TargetARN),
		PhoneNumber: optional(in.PhoneNumber),
		Subject:     optional(in.Subject),
	}

	switch msg := in.Message.(type) {
	case string:
		params.Message = aws.String(msg)
		params.MessageStructure = optional(in.MessageStructure)
	case map[string]any, map[string]string:
		body, err := json.Marshal(msg)
		if err != nil {
			return nil, err
		}
		wrapped, err := json.Marshal(map[string]string{"default": string(body)})
		if err != nil {
			return nil, err
		}
		params.Message = aws.String(string(wrapped))
		params.MessageStructure = aws.String(StructureJSON)
	default:
		return nil, fmt.Errorf("notify: unsupported message type %T", in.Message)
	}

	if len(in.Attributes) > 0 {
		params.MessageAttributes = make(map[string]types.MessageAttributeValue, len(in.Attributes))
		for name, attr := range in.Attributes {
			params.MessageAttributes[name] = types.MessageAttributeValue{
				DataType:    aws.String(attr.DataType),
				StringValue: optional(attr.StringValue),
				BinaryValue: attr.BinaryValue,
			}
		}
	}

	return params, nil
}

// optional maps "" to an absent SDK field.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return aws.String(s)
}
