package errors

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsMatchesTypeAndCode(t *testing.T) {
	err := NewInsufficientPointsError(5, 10)
	assert.True(t, errors.Is(err, ErrInsufficientPoints))
	assert.False(t, errors.Is(err, ErrQuotaExceeded))

	wrapped := fmt.Errorf("edit limit: %w", err)
	assert.True(t, errors.Is(wrapped, ErrInsufficientPoints))
	assert.Equal(t, "INSUFFICIENT_POINTS", Code(wrapped))
}

func TestStoreErrorUnwrapsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewStoreError(cause, "save order")

	assert.True(t, errors.Is(err, ErrStoreUnavailable))
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "save order failed")
	assert.Contains(t, err.Error(), "connection reset")
	assert.Equal(t, "save order", err.Context["operation"])
}

func TestExternalAPIError(t *testing.T) {
	cause := errors.New("quota exceeded")
	err := NewExternalAPIError(cause, "gemini")

	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "EXTERNAL_API", Code(err))
	assert.Equal(t, ErrorTypeExternal, err.Type)
	assert.Equal(t, "gemini", err.Context["api"])
}

func TestCodeOfForeignError(t *testing.T) {
	assert.Equal(t, "", Code(errors.New("plain")))
	assert.Equal(t, "", Code(nil))
}

func TestLogFields(t *testing.T) {
	err := NewUnknownItemError("Sushi")
	fields := err.LogFields()

	require.GreaterOrEqual(t, len(fields), 8)
	assert.Equal(t, "error_type", fields[0])
	assert.Equal(t, ErrorTypeNotFound, fields[1])
	assert.Contains(t, fields, "item")
	assert.Contains(t, fields, "Sushi")
}

func TestHandlerLevels(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	ctx := context.Background()

	h.Handle(ctx, ErrQuotaExceeded)
	assert.Contains(t, buf.String(), "level=INFO")
	assert.Contains(t, buf.String(), "QUOTA_EXCEEDED")

	buf.Reset()
	h.Handle(ctx, NewStoreError(errors.New("down"), "load user"))
	assert.Contains(t, buf.String(), "level=ERROR")

	buf.Reset()
	h.Handle(ctx, fmt.Errorf("send reply: %w", errors.New("boom")))
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "error_code=INTERNAL")
	assert.Contains(t, buf.String(), "send reply: boom")

	buf.Reset()
	h.Handle(ctx, nil)
	assert.Empty(t, buf.String())
}
