package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestWithContext(t *testing.T) {
	logger, err := NewForEnvironment("development")
	require.NoError(t, err)

	ctx := context.Background()
	ctxWithLogger := WithContext(ctx, logger)

	retrievedLogger := FromContext(ctxWithLogger)
	assert.NotNil(t, retrievedLogger)
}

func TestFromContext_NotFound(t *testing.T) {
	ctx := context.Background()
	logger := FromContext(ctx)

	// Should return a no-op logger
	assert.NotNil(t, logger)
}

func TestWithRequestID(t *testing.T) {
	logger, err := NewForEnvironment("development")
	require.NoError(t, err)

	ctx := context.Background()
	requestID := "req-123"

	newCtx, newLogger := WithRequestID(ctx, logger, requestID)

	assert.NotNil(t, newCtx)
	assert.NotNil(t, newLogger)
	assert.Equal(t, requestID, GetRequestID(newCtx))
}

func TestWithRunID(t *testing.T) {
	logger, err := NewForEnvironment("development")
	require.NoError(t, err)

	ctx := context.Background()
	runID := "3f1ce1b4-8b5e-4a6b-92f4-5a1f9a8d2c10"

	newCtx, newLogger := WithRunID(ctx, logger, runID)

	assert.NotNil(t, newCtx)
	assert.NotNil(t, newLogger)
	assert.Equal(t, runID, GetRunID(newCtx))
}

func TestGetRequestID_NotFound(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "", GetRequestID(ctx))
}

func TestGetRunID_NotFound(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "", GetRunID(ctx))
}

// observedLogger builds a logger writing JSON entries into buf.
func observedLogger(buf *bytes.Buffer) *zap.Logger {
	encoderConfig := zapcore.EncoderConfig{
		MessageKey: "msg",
		LevelKey:   "level",
	}
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(buf),
		zapcore.DebugLevel,
	)
	return zap.New(core)
}

func TestContextLoggerCarriesRequestAndRunID(t *testing.T) {
	var buf bytes.Buffer
	base := observedLogger(&buf)

	ctx := context.Background()
	ctx, _ = WithRequestID(ctx, base, "req-42")
	ctx = context.WithValue(ctx, RunIDKey, "run-7")
	ctx = WithContext(ctx, base)

	L(ctx).Info("sync started")

	out := buf.String()
	assert.Contains(t, out, "req-42")
	assert.Contains(t, out, "run-7")
	assert.Contains(t, out, "sync started")
}

func TestContextLoggerWithNilLogger(t *testing.T) {
	cl := &ContextLogger{ctx: context.Background()}
	// Must not panic
	cl.Info("no destination")
	cl.Error("still no destination")
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	base := observedLogger(&buf)

	cl := WithLogger(context.Background(), base)
	cl.With(zap.String("marketplace", "TRENDYOL")).Warn("rate limited")

	out := buf.String()
	assert.Contains(t, out, "rate limited")
}
