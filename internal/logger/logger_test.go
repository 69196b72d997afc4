package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromContext(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	Set(zap.New(core))
	t.Cleanup(func() { Set(nil) })

	FromContext(context.Background()).Info("global")
	scoped := zap.New(core).With(zap.String("request_id", "r1"))
	FromContext(WithContext(context.Background(), scoped)).Info("scoped")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "global", entries[0].Message)
	assert.Equal(t, "r1", entries[1].ContextMap()["request_id"])
}

func TestInitializeWithoutSentry(t *testing.T) {
	t.Cleanup(func() { Set(nil) })
	require.NoError(t, Initialize(Config{Debug: true}))
	assert.NotNil(t, Default())
}
