package platformerrors

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewError_CarriesRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-42")
	err := NewError(ctx, LayerDomain, ErrorTypeForbidden, "not a participant", nil, "abc")

	assert.Equal(t, "req-42", err.GetRequestID())
	assert.Equal(t, ErrorTypeForbidden, err.GetErrorType())
	assert.Equal(t, "abc", err.GetUUID())
	assert.Contains(t, err.Error(), "not a participant")
}

func TestAsError_PreservesType(t *testing.T) {
	ctx := context.Background()
	inner := NewError(ctx, LayerRepository, ErrorTypeNotFound, "conversation not found", nil, "uuid-1")

	wrapped := AsError(ctx, LayerDomain, inner, "load conversation")
	require.NotNil(t, wrapped)
	assert.Equal(t, ErrorTypeNotFound, wrapped.Type)
	assert.Equal(t, "uuid-1", wrapped.UUID)
	assert.True(t, IsErrorType(wrapped, ErrorTypeNotFound))

	plain := AsError(ctx, LayerDomain, errors.New("boom"), "load conversation")
	assert.Equal(t, ErrorTypeInternal, plain.Type)
	assert.Nil(t, AsError(ctx, LayerDomain, nil, "noop"))
}

func TestErrorTypeToHTTPStatus(t *testing.T) {
	cases := map[ErrorType]int{
		ErrorTypeNotFound:      http.StatusNotFound,
		ErrorTypeValidation:    http.StatusBadRequest,
		ErrorTypeConflict:      http.StatusConflict,
		ErrorTypeUnauthorized:  http.StatusUnauthorized,
		ErrorTypeForbidden:     http.StatusForbidden,
		ErrorTypeExternal:      http.StatusBadGateway,
		ErrorTypeDatabaseError: http.StatusInternalServerError,
		ErrorTypeInternal:      http.StatusInternalServerError,
	}
	for errorType, status := range cases {
		assert.Equal(t, status, ErrorTypeToHTTPStatus(errorType), errorType)
	}
}
