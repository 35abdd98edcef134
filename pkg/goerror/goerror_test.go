package goerror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/shandysiswandi/gocle/pkg/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_StatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "Server", err: NewServer(errors.New("db down")), want: http.StatusInternalServerError},
		{name: "Internal", err: NewInternal("could not decrypt", nil), want: http.StatusInternalServerError},
		{name: "BadRequest", err: NewBadRequest("bad"), want: http.StatusBadRequest},
		{name: "NotFound", err: NewNotFound(42), want: http.StatusNotFound},
		{name: "Conflict", err: NewBusiness("dup", CodeConflict), want: http.StatusConflict},
		{name: "Unauthorized", err: NewBusiness("who", CodeUnauthorized), want: http.StatusUnauthorized},
		{name: "Forbidden", err: NewBusiness("no", CodeForbidden), want: http.StatusForbidden},
		{name: "TooMany", err: NewBusiness("slow", CodeTooManyRequest), want: http.StatusTooManyRequests},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gerr *Error
			require.ErrorAs(t, tt.err, &gerr)
			assert.Equal(t, tt.want, gerr.StatusCode())
		})
	}
}

func TestError_Messages(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewServer(cause)

	var gerr *Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, "Internal server error", gerr.Msg())
	assert.Equal(t, "Internal server error: connection refused", gerr.Error())
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, gerr.String(), "ERROR_CODE_INTERNAL")

	nf := NewNotFound("abc")
	require.ErrorAs(t, nf, &gerr)
	assert.Equal(t, "abc", gerr.Identifier())
	assert.Equal(t, "Resource with id abc could not be found", gerr.Error())

	assert.Equal(t, "Internal error", (&Error{}).Error())
}

func TestValidationError(t *testing.T) {
	t.Run("Schemas", func(t *testing.T) {
		schema := map[string]any{"title": "dummy"}
		err := NewValidation([]response.ErrorDetail{{Location: "first_name", Message: "is a required field"}}, schema)

		assert.Equal(t, map[string]any{SourceRequestBody: schema}, err.Schemas())
		assert.Contains(t, err.Error(), "first_name")

		err.Source = SourceQueryParameters
		assert.Equal(t, map[string]any{SourceQueryParameters: schema}, err.Schemas())
	})

	t.Run("NoSchema", func(t *testing.T) {
		assert.Nil(t, NewInvalidFormat("bad json").Schemas())
	})

	t.Run("InvalidInputPairs", func(t *testing.T) {
		err := NewInvalidInput("email", "already used", "name", "too short", "dangling")

		assert.Equal(t, []response.ErrorDetail{
			{Location: "email", Message: "already used"},
			{Location: "name", Message: "too short"},
		}, err.Details)
	})
}

func TestClassify(t *testing.T) {
	verr := NewInvalidFormat("bad")
	tests := []struct {
		name string
		err  error
		want Class
	}{
		{name: "Nil", err: nil, want: ClassNone},
		{name: "Validation", err: verr, want: ClassValidation},
		{name: "WrappedValidation", err: fmt.Errorf("resolve: %w", verr), want: ClassValidation},
		{name: "Service", err: NewBadRequest("x"), want: ClassService},
		{name: "ServiceWrappingValidation", err: NewServer(verr), want: ClassService},
		{name: "Joined", err: errors.Join(errors.New("a"), NewNotFound(1)), want: ClassService},
		{name: "Plain", err: errors.New("boom"), want: ClassUnclassified},
		{name: "Unclassified", err: NewUnclassified(errors.New("boom")), want: ClassUnclassified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestAs(t *testing.T) {
	v, ok := AsValidation(fmt.Errorf("x: %w", NewInvalidFormat("bad")))
	assert.True(t, ok)
	assert.Len(t, v.Details, 1)

	s, ok := AsService(NewNotFound(1))
	assert.True(t, ok)
	assert.Equal(t, CodeNotFound, s.Code())

	_, ok = AsService(errors.New("plain"))
	assert.False(t, ok)

	u := NewUnclassified(nil)
	assert.Equal(t, "unclassified error", u.Error())
	assert.NotNil(t, u.Unwrap())
}
