package validator

import (
	"testing"

	"github.com/shandysiswandi/gocle/pkg/goerror"
	"github.com/shandysiswandi/gocle/pkg/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type topicInput struct {
	TopicARN string `json:"topic_arn" validate:"required,arn"`
	Subject  string `json:"subject" validate:"max=5"`
	Region   string `validate:"required"`
}

func newValidator(t *testing.T) *V10Validator {
	t.Helper()

	v, err := NewV10Validator()
	require.NoError(t, err)
	return v
}

func TestV10Validator_Validate(t *testing.T) {
	v := newValidator(t)

	t.Run("Valid", func(t *testing.T) {
		err := v.Validate(topicInput{TopicARN: "arn:aws:sns:us-east-1:123456789012:contact", Region: "us-east-1"})

		assert.NoError(t, err)
	})

	t.Run("AllFieldsReportedInOrder", func(t *testing.T) {
		// Arrange
		in := topicInput{TopicARN: "not-an-arn", Subject: "too long subject"}

		// Act
		err := v.Validate(in)

		// Assert
		verr, ok := goerror.AsValidation(err)
		require.True(t, ok)
		assert.Equal(t, []response.ErrorDetail{
			{Location: "topic_arn", Message: "topic_arn must be a valid amazon resource name"},
			{Location: "subject", Message: "subject must be a maximum of 5 characters in length"},
			{Location: "region", Message: "region is a required field"},
		}, verr.Details)
	})

	t.Run("NotAStruct", func(t *testing.T) {
		err := v.Validate("plain string")

		assert.Error(t, err)
		assert.Equal(t, goerror.ClassUnclassified, goerror.Classify(err))
	})
}

func TestV10Validator_Var(t *testing.T) {
	v := newValidator(t)

	msg, err := v.Var("someone@example.com", "required,email")
	require.NoError(t, err)
	assert.Empty(t, msg)

	msg, err = v.Var("nope", "required,email")
	require.NoError(t, err)
	assert.Equal(t, "must be a valid email address", msg)

	msg, err = v.Var(int64(0), "min=1")
	require.NoError(t, err)
	assert.Equal(t, "must be 1 or greater", msg)

	msg, err = v.Var("anything", "")
	require.NoError(t, err)
	assert.Empty(t, msg)
}

func TestV10Validator_CheckRules(t *testing.T) {
	v := newValidator(t)

	assert.NoError(t, v.CheckRules("", "required,max=10,email"))
	assert.NoError(t, v.CheckRules(int64(0), "min=1,max=100"))
	assert.NoError(t, v.CheckRules("", ""))

	assert.ErrorIs(t, v.CheckRules("", "definitely_not_a_rule"), ErrInvalidRules)
	assert.ErrorIs(t, v.CheckRules("", "max=abc"), ErrInvalidRules)
}

func TestV10Validator_AlphaSpace(t *testing.T) {
	v := newValidator(t)

	tests := []struct {
		name    string
		value   string
		wantMsg string
	}{
		{name: "Plain", value: "Ana Maria"},
		{name: "Accents and punctuation", value: "José O'Neil-Smith"},
		{name: "Digits", value: "R2D2", wantMsg: "can contain only letters and spaces"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := v.Var(tt.value, "alphaspace")

			require.NoError(t, err)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}

func TestNamespaceToLocation(t *testing.T) {
	tests := []struct {
		name string
		ns   string
		want string
	}{
		{name: "TopLevel", ns: "topicInput.topic_arn", want: "topic_arn"},
		{name: "NoStructName", ns: "PageSize", want: "page_size"},
		{name: "MapKeyKept", ns: "PublishInput.attributes[DataType].DataType", want: "attributes[DataType].data_type"},
		{name: "Indexed", ns: "Form.Tags[0]", want: "tags[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, namespaceToLocation(tt.ns))
		})
	}
}

type attribute struct {
	DataType string `validate:"required"`
}

type attributesInput struct {
	Attributes map[string]attribute `validate:"dive"`
}

func TestV10Validator_NestedLocation(t *testing.T) {
	// Arrange
	v := newValidator(t)
	in := attributesInput{Attributes: map[string]attribute{"color": {}}}

	// Act
	err := v.Validate(in)

	// Assert
	verr, ok := goerror.AsValidation(err)
	require.True(t, ok)
	require.Len(t, verr.Details, 1)
	assert.Equal(t, "attributes[color].data_type", verr.Details[0].Location)
}
