package repomanager

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_EmbeddedBackends(t *testing.T) {
	for _, backend := range []string{BackendMemory, BackendBadger} {
		t.Run(backend, func(t *testing.T) {
			m, err := New(Options{Backend: backend})
			require.NoError(t, err)
			t.Cleanup(func() { _ = m.Close() })

			require.NoError(t, m.RunMigrations(context.Background()))

			ctx := context.Background()
			obj, err := m.Objects().Create(ctx, "owner", "owner/k", "k", 1)
			require.NoError(t, err)
			got, err := m.Objects().Get(ctx, obj.ID)
			require.NoError(t, err)
			assert.Equal(t, obj.LinkID, got.LinkID)

			assert.NotNil(t, m.Users())
			assert.NotNil(t, m.RefreshTokens())
		})
	}
}

func TestNew_UnknownBackend(t *testing.T) {
	_, err := New(Options{Backend: "mongo"})
	assert.ErrorContains(t, err, "mongo")
}
