package refreshtokens

import (
	"context"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/sharebox/internal/common"
)

func embeddedRepos(t *testing.T) map[string]Repository {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return map[string]Repository{
		"memory": NewMemoryRepository(),
		"badger": NewBadgerRepository(db),
	}
}

func TestEmbedded_ConsumeOnce(t *testing.T) {
	for name, repo := range embeddedRepos(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, repo.Create(ctx, "u1", "tok", time.Hour))

			rt, err := repo.Consume(ctx, "tok")
			require.NoError(t, err)
			assert.Equal(t, "u1", rt.UserID)
			assert.True(t, rt.Expires.After(time.Now()))

			_, err = repo.Consume(ctx, "tok")
			assert.ErrorIs(t, err, common.ErrorNotFound)
		})
	}
}
