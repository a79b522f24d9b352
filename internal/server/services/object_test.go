package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/sharebox/internal/common"
	"github.com/dmitrijs2005/sharebox/internal/logging"
	"github.com/dmitrijs2005/sharebox/internal/server/blobs"
	"github.com/dmitrijs2005/sharebox/internal/server/metrics"
	"github.com/dmitrijs2005/sharebox/internal/server/models"
	"github.com/dmitrijs2005/sharebox/internal/server/repositories/objects"
	"github.com/dmitrijs2005/sharebox/internal/server/repositories/repomanager"
)

func strPtr(s string) *string { return &s }

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// objectsManager swaps the objects repository of a memory manager.
type objectsManager struct {
	*repomanager.MemoryRepositoryManager
	objects objects.Repository
}

func (m *objectsManager) Objects() objects.Repository { return m.objects }

// faultyStore wraps a working store and fails the selected calls.
type faultyStore struct {
	blobs.Store
	readErr   error
	removeErr error
	removed   []string
}

func (f *faultyStore) Read(ctx context.Context, key string) (io.ReadCloser, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.Store.Read(ctx, key)
}

func (f *faultyStore) Remove(ctx context.Context, key string) error {
	f.removed = append(f.removed, key)
	if f.removeErr != nil {
		return f.removeErr
	}
	return f.Store.Remove(ctx, key)
}

// failingCreate rejects every record creation.
type failingCreate struct {
	objects.Repository
}

func (failingCreate) Create(context.Context, string, string, string, int64) (*models.Object, error) {
	return nil, errBoom{}
}

type fixture struct {
	svc     *ObjectService
	store   *faultyStore
	fs      afero.Fs
	metrics *metrics.Metrics
}

func newFixture(t *testing.T, wrap func(objects.Repository) objects.Repository) *fixture {
	t.Helper()

	fsys := afero.NewMemMapFs()
	fsStore, err := blobs.NewFSStoreOn(fsys, "/blobs")
	require.NoError(t, err)
	store := &faultyStore{Store: fsStore}

	mem := repomanager.NewMemoryRepositoryManager()
	var rm repomanager.RepositoryManager = mem
	if wrap != nil {
		rm = &objectsManager{MemoryRepositoryManager: mem, objects: wrap(mem.Objects())}
	}

	mx := metrics.New()
	return &fixture{
		svc:     NewObjectService(rm, store, testServerConfig(), mx, discardLogger()),
		store:   store,
		fs:      fsys,
		metrics: mx,
	}
}

func (f *fixture) upload(t *testing.T, owner, name, body string) *models.Object {
	t.Helper()
	obj, err := f.svc.CreateObject(context.Background(), owner, name, strings.NewReader(body))
	require.NoError(t, err)
	return obj
}

func readAll(t *testing.T, d *Download) string {
	t.Helper()
	defer d.Body.Close()
	b, err := io.ReadAll(d.Body)
	require.NoError(t, err)
	return string(b)
}

func TestCreateObject(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	obj := f.upload(t, "alice", "report.PDF", "hello")
	assert.Equal(t, "alice", obj.OwnerID)
	assert.Equal(t, "report.PDF", obj.DisplayName)
	assert.EqualValues(t, 5, obj.SizeBytes)
	assert.Equal(t, models.VisibilityPrivate, obj.Permission.Visibility())
	assert.True(t, strings.HasPrefix(obj.StorageKey, "alice/"))
	assert.True(t, strings.HasSuffix(obj.StorageKey, ".pdf"))
	assert.Len(t, obj.LinkID, 64)

	ok, err := afero.Exists(f.fs, "/blobs/"+obj.StorageKey)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = f.svc.CreateObject(ctx, "", "x.txt", strings.NewReader("x"))
	assert.ErrorIs(t, err, common.ErrAuthenticationRequired)

	_, err = f.svc.CreateObject(ctx, "alice", "   ", strings.NewReader("x"))
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestCreateObject_TooLargeLeavesNothing(t *testing.T) {
	f := newFixture(t, nil)
	f.svc.maxUpload = 4

	_, err := f.svc.CreateObject(context.Background(), "alice", "big.bin", strings.NewReader("12345"))
	require.ErrorIs(t, err, common.ErrInvalidInput)

	list, err := f.svc.ListObjects(context.Background(), "alice")
	require.NoError(t, err)
	assert.Empty(t, list)
	require.Len(t, f.store.removed, 1)

	ok, err := afero.Exists(f.fs, "/blobs/"+f.store.removed[0])
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCreateObject_RecordFailureRemovesBytes(t *testing.T) {
	f := newFixture(t, func(r objects.Repository) objects.Repository { return failingCreate{r} })

	_, err := f.svc.CreateObject(context.Background(), "alice", "a.txt", strings.NewReader("hello"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error creating record")

	require.Len(t, f.store.removed, 1)
	ok, err := afero.Exists(f.fs, "/blobs/"+f.store.removed[0])
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestListObjects_OwnerScoped(t *testing.T) {
	f := newFixture(t, nil)
	a1 := f.upload(t, "alice", "1.txt", "1")
	f.upload(t, "bob", "b.txt", "b")
	a2 := f.upload(t, "alice", "2.txt", "2")

	list, err := f.svc.ListObjects(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, a1.ID, list[0].ID)
	assert.Equal(t, a2.ID, list[1].ID)

	_, err = f.svc.ListObjects(context.Background(), "")
	assert.ErrorIs(t, err, common.ErrAuthenticationRequired)
}

func TestGetMetadata(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	obj := f.upload(t, "alice", "a.txt", "a")

	_, err := f.svc.SetPermission(ctx, obj.ID, "alice", models.AccessPublic, nil)
	require.NoError(t, err)

	got, err := f.svc.GetMetadata(ctx, obj.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, obj.ID, got.ID)

	// public objects still hide metadata from everyone but the owner
	_, err = f.svc.GetMetadata(ctx, obj.ID, "bob")
	assert.ErrorIs(t, err, common.ErrForbidden)
	_, err = f.svc.GetMetadata(ctx, obj.ID, "")
	assert.ErrorIs(t, err, common.ErrForbidden)

	_, err = f.svc.GetMetadata(ctx, "missing", "alice")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

// Owner protects a file, shares it, then makes it private again.
func TestScenario_PasswordThenPrivate(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	obj := f.upload(t, "alice", "secret.txt", "top secret")

	link, err := f.svc.SetPermission(ctx, obj.ID, "alice", models.AccessPassword, strPtr("hunter2"))
	require.NoError(t, err)
	assert.Equal(t, "http://share.test/download/"+obj.LinkID, link)

	d, err := f.svc.ResolveAndFetch(ctx, obj.LinkID, strPtr("hunter2"))
	require.NoError(t, err)
	assert.Equal(t, "top secret", readAll(t, d))

	_, err = f.svc.ResolveAndFetch(ctx, obj.LinkID, strPtr("Hunter2"))
	assert.ErrorIs(t, err, common.ErrCredentialMismatch)
	_, err = f.svc.ResolveAndFetch(ctx, obj.LinkID, nil)
	assert.ErrorIs(t, err, common.ErrCredentialMismatch)
	_, err = f.svc.ResolveAndFetch(ctx, obj.LinkID, strPtr(""))
	assert.ErrorIs(t, err, common.ErrCredentialMismatch)

	_, err = f.svc.SetPermission(ctx, obj.ID, "alice", models.AccessPrivate, strPtr("ignored"))
	require.NoError(t, err)

	got, err := f.svc.GetMetadata(ctx, obj.ID, "alice")
	require.NoError(t, err)
	_, hasCred := got.Permission.Credential()
	assert.False(t, hasCred)

	_, err = f.svc.ResolveAndFetch(ctx, obj.LinkID, strPtr("hunter2"))
	assert.ErrorIs(t, err, common.ErrAuthenticationRequired)

	// the owner keeps access through the authenticated path
	d, err = f.svc.OpenOwned(ctx, obj.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, "top secret", readAll(t, d))
	_, err = f.svc.OpenOwned(ctx, obj.ID, "bob")
	assert.ErrorIs(t, err, common.ErrForbidden)
}

// A public file is readable by anyone but only its owner may delete it.
func TestScenario_PublicThenDelete(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	obj := f.upload(t, "alice", "photo.jpg", "pixels")

	_, err := f.svc.SetPermission(ctx, obj.ID, "bob", models.AccessPublic, nil)
	assert.ErrorIs(t, err, common.ErrForbidden)

	got, err := f.svc.GetMetadata(ctx, obj.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, models.VisibilityPrivate, got.Permission.Visibility(), "denied change leaves the record as it was")
	_, err = f.svc.ResolveAndFetch(ctx, obj.LinkID, nil)
	assert.ErrorIs(t, err, common.ErrAuthenticationRequired)

	_, err = f.svc.SetPermission(ctx, obj.ID, "alice", models.AccessPublic, nil)
	require.NoError(t, err)

	for _, cred := range []*string{nil, strPtr(""), strPtr("anything")} {
		d, err := f.svc.ResolveAndFetch(ctx, obj.LinkID, cred)
		require.NoError(t, err)
		assert.Equal(t, "pixels", readAll(t, d))
	}

	assert.ErrorIs(t, f.svc.DeleteObject(ctx, obj.ID, "bob"), common.ErrForbidden)
	require.NoError(t, f.svc.DeleteObject(ctx, obj.ID, "alice"))

	_, err = f.svc.ResolveAndFetch(ctx, obj.LinkID, nil)
	assert.ErrorIs(t, err, common.ErrorNotFound)
	_, err = f.svc.GetMetadata(ctx, obj.ID, "alice")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.ErrorIs(t, f.svc.DeleteObject(ctx, obj.ID, "alice"), common.ErrorNotFound)

	ok, err := afero.Exists(f.fs, "/blobs/"+obj.StorageKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSetPermission_BlankCredentialRejected(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	obj := f.upload(t, "alice", "a.txt", "a")

	_, err := f.svc.SetPermission(ctx, obj.ID, "alice", models.AccessPassword, strPtr(" "))
	assert.ErrorIs(t, err, common.ErrInvalidCredential)

	_, err = f.svc.SetPermission(ctx, obj.ID, "alice", models.AccessPassword, nil)
	assert.ErrorIs(t, err, common.ErrInvalidCredential)

	_, err = f.svc.SetPermission(ctx, obj.ID, "alice", "Public", nil)
	assert.ErrorIs(t, err, common.ErrInvalidVisibility)

	got, err := f.svc.GetMetadata(ctx, obj.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, models.VisibilityPrivate, got.Permission.Visibility())

	_, err = f.svc.SetPermission(ctx, "missing", "alice", models.AccessPublic, nil)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestSetPermission_Idempotent(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	obj := f.upload(t, "alice", "a.txt", "a")

	link1, err := f.svc.SetPermission(ctx, obj.ID, "alice", models.AccessPassword, strPtr(" pw "))
	require.NoError(t, err)
	first, err := f.svc.GetMetadata(ctx, obj.ID, "alice")
	require.NoError(t, err)

	link2, err := f.svc.SetPermission(ctx, obj.ID, "alice", models.AccessPassword, strPtr(" pw "))
	require.NoError(t, err)
	second, err := f.svc.GetMetadata(ctx, obj.ID, "alice")
	require.NoError(t, err)

	assert.Equal(t, link1, link2)
	assert.Equal(t, first, second)

	// stored untrimmed
	cred, ok := second.Permission.Credential()
	require.True(t, ok)
	assert.Equal(t, " pw ", cred)
}

func TestResolveAndFetch_MalformedLink(t *testing.T) {
	f := newFixture(t, nil)
	for _, id := range []string{"", "abc", strings.Repeat("z", 64)} {
		_, err := f.svc.ResolveAndFetch(context.Background(), id, nil)
		assert.ErrorIs(t, err, common.ErrorNotFound, id)
	}
}

func TestResolveAndFetch_StorageUnavailable(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	obj := f.upload(t, "alice", "a.txt", "a")
	_, err := f.svc.SetPermission(ctx, obj.ID, "alice", models.AccessPublic, nil)
	require.NoError(t, err)

	f.store.readErr = fmt.Errorf("blobs: read: %w: %w", common.ErrStorageUnavailable, errBoom{})

	_, err = f.svc.ResolveAndFetch(ctx, obj.LinkID, nil)
	require.ErrorIs(t, err, common.ErrStorageUnavailable)
	assert.True(t, common.IsRetryable(err))

	n, err := testutil.GatherAndCount(f.metrics.Registry(), "sharebox_storage_errors_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestDeleteObject_ByteFailureKeepsRecord(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	obj := f.upload(t, "alice", "a.txt", "a")

	f.store.removeErr = fmt.Errorf("blobs: remove: %w: %w", common.ErrStorageUnavailable, errBoom{})

	err := f.svc.DeleteObject(ctx, obj.ID, "alice")
	require.ErrorIs(t, err, common.ErrStorageUnavailable)

	got, err := f.svc.GetMetadata(ctx, obj.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, obj.ID, got.ID)

	f.store.removeErr = nil
	require.NoError(t, f.svc.DeleteObject(ctx, obj.ID, "alice"))
}

func TestDeleteThenCreate_NewLink(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		obj := f.upload(t, "alice", "a.txt", "a")
		require.False(t, seen[obj.LinkID], "link id reused")
		seen[obj.LinkID] = true
		require.NoError(t, f.svc.DeleteObject(ctx, obj.ID, "alice"))
	}
}

// Concurrent permission flips never let a fetch observe anything but a
// whole permission state.
func TestConcurrentPermissionAndFetch(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	obj := f.upload(t, "alice", "a.txt", "payload")

	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			vis := models.AccessPublic
			var cred *string
			if i%2 == 1 {
				vis, cred = models.AccessPassword, strPtr("pw")
			}
			if _, err := f.svc.SetPermission(ctx, obj.ID, "alice", vis, cred); err != nil {
				t.Errorf("SetPermission: %v", err)
				return
			}
		}
		close(stop)
	}()

	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				d, err := f.svc.ResolveAndFetch(ctx, obj.LinkID, nil)
				switch {
				case err == nil:
					b, _ := io.ReadAll(d.Body)
					d.Body.Close()
					if string(b) != "payload" {
						t.Errorf("unexpected body %q", b)
					}
				case errors.Is(err, common.ErrCredentialMismatch), errors.Is(err, common.ErrAuthenticationRequired):
				default:
					t.Errorf("unexpected error: %v", err)
				}
			}
		}()
	}

	wg.Wait()
}
