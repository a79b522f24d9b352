package objects

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/sharebox/internal/common"
	"github.com/dmitrijs2005/sharebox/internal/server/models"
)

func openTestBadger(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// backends returns fresh instances of every embedded backend with a
// controllable clock.
func backends(t *testing.T) map[string]func(now func() time.Time) Repository {
	return map[string]func(now func() time.Time) Repository{
		"memory": func(now func() time.Time) Repository {
			r := NewMemoryRepository()
			r.now = now
			return r
		},
		"badger": func(now func() time.Time) Repository {
			r := NewBadgerRepository(openTestBadger(t))
			r.now = now
			return r
		},
	}
}

func tickingClock() func() time.Time {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	n := 0
	return func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Second)
	}
}

func withLinkIDs(t *testing.T, ids ...string) {
	t.Helper()
	orig := newLinkID
	i := 0
	newLinkID = func() (string, error) {
		if i >= len(ids) {
			return "", errors.New("out of ids")
		}
		id := ids[i]
		i++
		return id, nil
	}
	t.Cleanup(func() { newLinkID = orig })
}

func TestRepository_CreateGetResolve(t *testing.T) {
	for name, mk := range backends(t) {
		t.Run(name, func(t *testing.T) {
			repo := mk(tickingClock())
			ctx := context.Background()

			obj, err := repo.Create(ctx, "alice", "alice/k.txt", "k.txt", 12)
			require.NoError(t, err)
			assert.NotEmpty(t, obj.ID)
			assert.Len(t, obj.LinkID, 64)
			assert.Equal(t, models.Private(), obj.Permission)
			assert.EqualValues(t, 12, obj.SizeBytes)

			got, err := repo.Get(ctx, obj.ID)
			require.NoError(t, err)
			assert.Equal(t, obj.ID, got.ID)
			assert.Equal(t, "alice", got.OwnerID)
			assert.Equal(t, "k.txt", got.DisplayName)
			assert.True(t, obj.CreatedAt.Equal(got.CreatedAt))

			byLink, err := repo.GetByLinkID(ctx, obj.LinkID)
			require.NoError(t, err)
			assert.Equal(t, obj.ID, byLink.ID)

			_, err = repo.Get(ctx, "missing")
			assert.ErrorIs(t, err, common.ErrorNotFound)
			_, err = repo.GetByLinkID(ctx, "missing")
			assert.ErrorIs(t, err, common.ErrorNotFound)
		})
	}
}

func TestRepository_ListByOwnerOrdered(t *testing.T) {
	for name, mk := range backends(t) {
		t.Run(name, func(t *testing.T) {
			repo := mk(tickingClock())
			ctx := context.Background()

			var ids []string
			for _, n := range []string{"a", "b", "c"} {
				o, err := repo.Create(ctx, "alice", "alice/"+n, n, 1)
				require.NoError(t, err)
				ids = append(ids, o.ID)
			}
			_, err := repo.Create(ctx, "bob", "bob/x", "x", 1)
			require.NoError(t, err)

			list, err := repo.ListByOwner(ctx, "alice")
			require.NoError(t, err)
			require.Len(t, list, 3)
			for i, o := range list {
				assert.Equal(t, ids[i], o.ID)
			}

			empty, err := repo.ListByOwner(ctx, "carol")
			require.NoError(t, err)
			assert.Empty(t, empty)
		})
	}
}

func TestRepository_ApplyMutation(t *testing.T) {
	for name, mk := range backends(t) {
		t.Run(name, func(t *testing.T) {
			repo := mk(tickingClock())
			ctx := context.Background()

			obj, err := repo.Create(ctx, "alice", "alice/k", "k", 1)
			require.NoError(t, err)

			require.NoError(t, repo.ApplyMutation(ctx, obj.ID, models.PasswordProtected("ab")))
			got, err := repo.Get(ctx, obj.ID)
			require.NoError(t, err)
			cred, ok := got.Permission.Credential()
			assert.True(t, ok)
			assert.Equal(t, "ab", cred)

			require.NoError(t, repo.ApplyMutation(ctx, obj.ID, models.Public()))
			got, err = repo.Get(ctx, obj.ID)
			require.NoError(t, err)
			assert.Equal(t, models.Public(), got.Permission)
			_, ok = got.Permission.Credential()
			assert.False(t, ok)

			assert.ErrorIs(t, repo.ApplyMutation(ctx, "missing", models.Public()), common.ErrorNotFound)
		})
	}
}

func TestRepository_ReturnedRecordsAreCopies(t *testing.T) {
	for name, mk := range backends(t) {
		t.Run(name, func(t *testing.T) {
			repo := mk(tickingClock())
			ctx := context.Background()

			obj, err := repo.Create(ctx, "alice", "alice/k", "k", 1)
			require.NoError(t, err)
			obj.Permission = models.Public()

			got, err := repo.Get(ctx, obj.ID)
			require.NoError(t, err)
			assert.Equal(t, models.Private(), got.Permission)
		})
	}
}

func TestRepository_DeleteRunsHook(t *testing.T) {
	for name, mk := range backends(t) {
		t.Run(name, func(t *testing.T) {
			repo := mk(tickingClock())
			ctx := context.Background()

			obj, err := repo.Create(ctx, "alice", "alice/k", "k", 1)
			require.NoError(t, err)

			hookErr := errors.New("disk failure")
			err = repo.Delete(ctx, obj.ID, func() error { return hookErr })
			assert.ErrorIs(t, err, hookErr)

			// failed hook keeps the record reachable everywhere
			_, err = repo.Get(ctx, obj.ID)
			require.NoError(t, err)
			_, err = repo.GetByLinkID(ctx, obj.LinkID)
			require.NoError(t, err)

			called := false
			require.NoError(t, repo.Delete(ctx, obj.ID, func() error { called = true; return nil }))
			assert.True(t, called)

			_, err = repo.Get(ctx, obj.ID)
			assert.ErrorIs(t, err, common.ErrorNotFound)
			_, err = repo.GetByLinkID(ctx, obj.LinkID)
			assert.ErrorIs(t, err, common.ErrorNotFound)
			list, err := repo.ListByOwner(ctx, "alice")
			require.NoError(t, err)
			assert.Empty(t, list)

			assert.ErrorIs(t, repo.Delete(ctx, obj.ID, nil), common.ErrorNotFound)
		})
	}
}

func TestRepository_DeleteHookDoesNotBlockOtherRecords(t *testing.T) {
	for name, mk := range backends(t) {
		t.Run(name, func(t *testing.T) {
			repo := mk(tickingClock())
			ctx := context.Background()

			victim, err := repo.Create(ctx, "alice", "alice/a", "a", 1)
			require.NoError(t, err)
			other, err := repo.Create(ctx, "bob", "bob/b", "b", 1)
			require.NoError(t, err)

			entered := make(chan struct{})
			release := make(chan struct{})
			done := make(chan error, 1)
			go func() {
				done <- repo.Delete(ctx, victim.ID, func() error {
					close(entered)
					<-release
					return nil
				})
			}()
			<-entered

			read := make(chan error, 1)
			go func() {
				_, err := repo.GetByLinkID(ctx, other.LinkID)
				if err == nil {
					_, err = repo.ListByOwner(ctx, "bob")
				}
				read <- err
			}()

			select {
			case err := <-read:
				assert.NoError(t, err)
			case <-time.After(2 * time.Second):
				t.Fatal("reads of an unrelated record blocked by a pending delete")
			}

			close(release)
			require.NoError(t, <-done)
			_, err = repo.Get(ctx, victim.ID)
			assert.ErrorIs(t, err, common.ErrorNotFound)
		})
	}
}

func TestRepository_LinkIDsNeverReused(t *testing.T) {
	const (
		first  = "1111111111111111111111111111111111111111111111111111111111111111"
		second = "2222222222222222222222222222222222222222222222222222222222222222"
	)
	for name, mk := range backends(t) {
		t.Run(name, func(t *testing.T) {
			repo := mk(tickingClock())
			ctx := context.Background()

			// The generator offers the deleted record's link id again first.
			withLinkIDs(t, first, first, second)

			a, err := repo.Create(ctx, "alice", "alice/a", "a", 1)
			require.NoError(t, err)
			require.Equal(t, first, a.LinkID)
			require.NoError(t, repo.Delete(ctx, a.ID, nil))

			b, err := repo.Create(ctx, "alice", "alice/b", "b", 1)
			require.NoError(t, err)
			assert.Equal(t, second, b.LinkID)

			_, err = repo.GetByLinkID(ctx, first)
			assert.ErrorIs(t, err, common.ErrorNotFound)
		})
	}
}

func TestRepository_LinkSpaceExhausted(t *testing.T) {
	const id = "3333333333333333333333333333333333333333333333333333333333333333"
	for name, mk := range backends(t) {
		t.Run(name, func(t *testing.T) {
			repo := mk(tickingClock())
			ctx := context.Background()

			ids := make([]string, MaxLinkAttempts+1)
			for i := range ids {
				ids[i] = id
			}
			withLinkIDs(t, ids...)

			_, err := repo.Create(ctx, "alice", "alice/a", "a", 1)
			require.NoError(t, err)

			_, err = repo.Create(ctx, "alice", "alice/b", "b", 1)
			assert.ErrorIs(t, err, ErrLinkSpaceExhausted)

			list, err := repo.ListByOwner(ctx, "alice")
			require.NoError(t, err)
			assert.Len(t, list, 1)
		})
	}
}
