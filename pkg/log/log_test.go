package log

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextWithCorrelationID(t *testing.T) {
	t.Run("mantém o ID informado", func(t *testing.T) {
		ctx, id := ContextWithCorrelationID(context.Background(), "req-123")

		assert.Equal(t, "req-123", id)
		assert.Equal(t, "req-123", GetCorrelationID(ctx))
	})

	t.Run("gera um ID quando vazio", func(t *testing.T) {
		ctx, id := ContextWithCorrelationID(context.Background(), "")

		assert.NotEmpty(t, id)
		assert.Equal(t, id, GetCorrelationID(ctx))
	})
}

func TestFromContext(t *testing.T) {
	ctx, id := WithCorrelationID(context.Background())

	entry := FromContext(ctx)
	assert.Equal(t, id, entry.Data[CorrelationIDField])

	bare := FromContext(context.Background())
	_, ok := bare.Data[CorrelationIDField]
	assert.False(t, ok)
}

func TestGetCorrelationID_Empty(t *testing.T) {
	assert.Empty(t, GetCorrelationID(context.Background()))
}
