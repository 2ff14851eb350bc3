package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInfoCtx_AddsRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := &Logger{Logger: zap.New(core)}

	ctx := context.WithValue(context.Background(), RequestIdKey, "abc123")
	l.InfoCtx(ctx, "student created", zap.String("id", "s1"))
	l.InfoCtx(context.Background(), "no request")

	entries := logs.All()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, "abc123", entries[0].ContextMap()["request_id"])
		assert.Equal(t, "s1", entries[0].ContextMap()["id"])
		assert.NotContains(t, entries[1].ContextMap(), "request_id")
	}
}

func TestGlobalLogger(t *testing.T) {
	l := NewNop()
	SetGlobalLogger(l)
	t.Cleanup(func() { SetGlobalLogger(nil) })

	assert.Same(t, l, GetGlobalLogger())
}
