package settings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attensync/internal/kv"
)

func TestRelayURLDefaultAndOverride(t *testing.T) {
	ctx := context.Background()
	s := New(kv.NewMemory(), "https://default.example/hook")

	assert.Equal(t, "https://default.example/hook", s.RelayURL(ctx))

	require.NoError(t, s.SetRelayURL(ctx, "https://override.example/hook"))
	assert.Equal(t, "https://override.example/hook", s.RelayURL(ctx))

	// Saving empty reverts to the default.
	require.NoError(t, s.SetRelayURL(ctx, ""))
	assert.Equal(t, "https://default.example/hook", s.RelayURL(ctx))
}

func TestRelayURLEmptyDefaultDisables(t *testing.T) {
	s := New(kv.NewMemory(), "")
	assert.Empty(t, s.RelayURL(context.Background()))
}
