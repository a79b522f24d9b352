package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/sharebox/internal/common"
	"github.com/dmitrijs2005/sharebox/internal/logging"
	"github.com/dmitrijs2005/sharebox/internal/server/access"
	"github.com/dmitrijs2005/sharebox/internal/server/blobs"
	"github.com/dmitrijs2005/sharebox/internal/server/config"
	"github.com/dmitrijs2005/sharebox/internal/server/keylock"
	"github.com/dmitrijs2005/sharebox/internal/server/links"
	"github.com/dmitrijs2005/sharebox/internal/server/metrics"
	"github.com/dmitrijs2005/sharebox/internal/server/models"
	"github.com/dmitrijs2005/sharebox/internal/server/repositories/objects"
	"github.com/dmitrijs2005/sharebox/internal/server/repositories/repomanager"
)

// Operation labels used for decision metrics and logs.
const (
	OpMetadata   = "metadata"
	OpPermission = "permission"
	OpFetch      = "fetch"
	OpOpenOwned  = "open_owned"
	OpDelete     = "delete"
	OpCreate     = "create"
)

// Download is an authorized byte stream together with the record it
// belongs to. The caller must close Body.
type Download struct {
	Object *models.Object
	Body   io.ReadCloser
}

// ObjectService runs the object operations: upload, listing, metadata,
// permission changes, shared downloads and deletion.
//
// Permission changes and deletes hold the record's exclusive lock; byte
// access holds the shared lock from the record re-read until the byte
// reader is open.
type ObjectService struct {
	objects   objects.Repository
	blobs     blobs.Store
	resolver  *links.Resolver
	locks     *keylock.Striped
	metrics   *metrics.Metrics
	logger    logging.Logger
	baseURL   string
	maxUpload int64
}

func NewObjectService(m repomanager.RepositoryManager, store blobs.Store, cfg *config.Config, mx *metrics.Metrics, logger logging.Logger) *ObjectService {
	repo := m.Objects()
	return &ObjectService{
		objects:   repo,
		blobs:     store,
		resolver:  links.NewResolver(repo),
		locks:     keylock.NewStriped(keylock.DefaultShards),
		metrics:   mx,
		logger:    logger.With("module", "objects"),
		baseURL:   strings.TrimRight(cfg.PublicBaseURL, "/"),
		maxUpload: cfg.MaxUploadBytes,
	}
}

// ShareLink returns the public download URL for linkID.
func (s *ObjectService) ShareLink(linkID string) string {
	return s.baseURL + "/download/" + linkID
}

func (s *ObjectService) decide(op string, d access.Decision) error {
	s.metrics.Decision(op, string(d.Reason))
	return d.Err()
}

func (s *ObjectService) storageFailed(ctx context.Context, op string, err error) {
	if errors.Is(err, common.ErrStorageUnavailable) {
		s.metrics.StorageError(op)
		s.logger.Warn(ctx, "byte store failure", "op", op, "error", err)
	}
}

// CreateObject stores the bytes read from r and then the Private record
// describing them. A record is never created for bytes that did not
// reach the store, and bytes are removed again if the record cannot be
// created.
func (s *ObjectService) CreateObject(ctx context.Context, owner, displayName string, r io.Reader) (*models.Object, error) {
	if owner == "" {
		return nil, common.ErrAuthenticationRequired
	}
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, fmt.Errorf("%w: file name is required", common.ErrInvalidInput)
	}

	key := blobs.NewStorageKey(owner, displayName)

	limited := r
	if s.maxUpload > 0 {
		limited = io.LimitReader(r, s.maxUpload+1)
	}

	size, err := s.blobs.Write(ctx, owner, key, limited)
	if err != nil {
		s.storageFailed(ctx, OpCreate, err)
		return nil, fmt.Errorf("error storing bytes: %w", err)
	}

	if s.maxUpload > 0 && size > s.maxUpload {
		s.discard(ctx, key)
		return nil, fmt.Errorf("%w: file exceeds %d bytes", common.ErrInvalidInput, s.maxUpload)
	}

	obj, err := s.objects.Create(ctx, owner, key, displayName, size)
	if err != nil {
		s.discard(ctx, key)
		return nil, fmt.Errorf("error creating record: %w", err)
	}

	s.logger.Info(ctx, "object created", "id", obj.ID, "owner", owner, "size", size)
	return obj, nil
}

// discard removes bytes that no record points at.
func (s *ObjectService) discard(ctx context.Context, key string) {
	if err := s.blobs.Remove(ctx, key); err != nil {
		s.logger.Error(ctx, "orphaned bytes left in store", "key", key, "error", err)
	}
}

// ListObjects returns the owner's records in creation order.
func (s *ObjectService) ListObjects(ctx context.Context, owner string) ([]*models.Object, error) {
	if owner == "" {
		return nil, common.ErrAuthenticationRequired
	}
	return s.objects.ListByOwner(ctx, owner)
}

// GetMetadata returns the record with the given id if requester owns it.
func (s *ObjectService) GetMetadata(ctx context.Context, id, requester string) (*models.Object, error) {
	obj, err := s.objects.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.decide(OpMetadata, access.AuthorizeMetadataRead(obj, requester)); err != nil {
		return nil, err
	}
	return obj, nil
}

// SetPermission validates and applies a visibility change requested by the
// owner and returns the object's share link. Repeating a call with the
// same arguments leaves the same state.
func (s *ObjectService) SetPermission(ctx context.Context, id, requester, visibility string, credential *string) (string, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	obj, err := s.objects.Get(ctx, id)
	if err != nil {
		return "", err
	}

	next, d := access.AuthorizeMutation(obj, requester, visibility, credential)
	if err := s.decide(OpPermission, d); err != nil {
		return "", err
	}

	if err := s.objects.ApplyMutation(ctx, id, next); err != nil {
		return "", fmt.Errorf("error applying permission: %w", err)
	}

	s.logger.Info(ctx, "permission changed", "id", id, "visibility", next.Visibility().String())
	return s.ShareLink(obj.LinkID), nil
}

// ResolveAndFetch serves the anonymous download path: the link is
// resolved, the record re-read under its shared lock and the supplied
// credential checked before the bytes are opened.
func (s *ObjectService) ResolveAndFetch(ctx context.Context, linkID string, credential *string) (*Download, error) {
	found, err := s.resolver.Resolve(ctx, linkID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.RLock(found.ID)
	defer unlock()

	obj, err := s.objects.Get(ctx, found.ID)
	if err != nil {
		return nil, err
	}
	if err := s.decide(OpFetch, access.AuthorizeByteAccess(obj, credential)); err != nil {
		return nil, err
	}

	return s.open(ctx, OpFetch, obj)
}

// OpenOwned serves the owner's authenticated byte path, which ignores
// visibility.
func (s *ObjectService) OpenOwned(ctx context.Context, id, requester string) (*Download, error) {
	unlock := s.locks.RLock(id)
	defer unlock()

	obj, err := s.objects.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.decide(OpOpenOwned, access.AuthorizeOwnerByteAccess(obj, requester)); err != nil {
		return nil, err
	}

	return s.open(ctx, OpOpenOwned, obj)
}

func (s *ObjectService) open(ctx context.Context, op string, obj *models.Object) (*Download, error) {
	body, err := s.blobs.Read(ctx, obj.StorageKey)
	if err != nil {
		s.storageFailed(ctx, op, err)
		return nil, fmt.Errorf("error reading bytes: %w", err)
	}
	return &Download{Object: obj, Body: body}, nil
}

// DeleteObject removes the record and its bytes, or neither.
func (s *ObjectService) DeleteObject(ctx context.Context, id, requester string) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	obj, err := s.objects.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.decide(OpDelete, access.AuthorizeDelete(obj, requester)); err != nil {
		return err
	}

	err = s.objects.Delete(ctx, id, func() error {
		return s.blobs.Remove(ctx, obj.StorageKey)
	})
	if err != nil {
		s.storageFailed(ctx, OpDelete, err)
		return fmt.Errorf("error deleting object: %w", err)
	}

	s.logger.Info(ctx, "object deleted", "id", id)
	return nil
}
