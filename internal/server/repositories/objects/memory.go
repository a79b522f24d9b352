package objects

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/sharebox/internal/common"
	"github.com/dmitrijs2005/sharebox/internal/server/models"
)

// MemoryRepository keeps records in process memory.
type MemoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]*models.Object
	byLink  map[string]string
	byOwner map[string]map[string]struct{}
	minted  map[string]struct{}
	now     func() time.Time
	last    time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:    make(map[string]*models.Object),
		byLink:  make(map[string]string),
		byOwner: make(map[string]map[string]struct{}),
		minted:  make(map[string]struct{}),
		now:     time.Now,
	}
}

func (r *MemoryRepository) Create(_ context.Context, ownerID, storageKey, displayName string, sizeBytes int64) (*models.Object, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	linkID, err := mintLink(func(id string) error {
		if _, ok := r.minted[id]; ok {
			return errLinkTaken
		}
		r.minted[id] = struct{}{}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// creation times are strictly increasing so listing follows insertion
	created := r.now().UTC()
	if !created.After(r.last) {
		created = r.last.Add(time.Nanosecond)
	}
	r.last = created

	obj := &models.Object{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		DisplayName: displayName,
		StorageKey:  storageKey,
		SizeBytes:   sizeBytes,
		CreatedAt:   created,
		Permission:  models.Private(),
		LinkID:      linkID,
	}

	r.byID[obj.ID] = obj
	r.byLink[linkID] = obj.ID
	if r.byOwner[ownerID] == nil {
		r.byOwner[ownerID] = make(map[string]struct{})
	}
	r.byOwner[ownerID][obj.ID] = struct{}{}

	return obj.Clone(), nil
}

func (r *MemoryRepository) Get(_ context.Context, id string) (*models.Object, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	obj, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return obj.Clone(), nil
}

func (r *MemoryRepository) GetByLinkID(_ context.Context, linkID string) (*models.Object, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byLink[linkID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return r.byID[id].Clone(), nil
}

func (r *MemoryRepository) ListByOwner(_ context.Context, ownerID string) ([]*models.Object, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.Object, 0, len(r.byOwner[ownerID]))
	for id := range r.byOwner[ownerID] {
		out = append(out, r.byID[id].Clone())
	}
	sortByCreation(out)
	return out, nil
}

func (r *MemoryRepository) ApplyMutation(_ context.Context, id string, perm models.Permission) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	obj, ok := r.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	obj.Permission = perm
	return nil
}

// Delete runs beforeCommit without holding the repository lock, so other
// records stay readable while it does I/O. Callers serialize access to id.
func (r *MemoryRepository) Delete(_ context.Context, id string, beforeCommit func() error) error {
	r.mu.RLock()
	_, ok := r.byID[id]
	r.mu.RUnlock()
	if !ok {
		return common.ErrorNotFound
	}

	if beforeCommit != nil {
		if err := beforeCommit(); err != nil {
			return err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	obj, ok := r.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	delete(r.byID, id)
	delete(r.byLink, obj.LinkID)
	delete(r.byOwner[obj.OwnerID], id)
	if len(r.byOwner[obj.OwnerID]) == 0 {
		delete(r.byOwner, obj.OwnerID)
	}
	return nil
}

func sortByCreation(objs []*models.Object) {
	sort.Slice(objs, func(i, j int) bool {
		if objs[i].CreatedAt.Equal(objs[j].CreatedAt) {
			return objs[i].ID < objs[j].ID
		}
		return objs[i].CreatedAt.Before(objs[j].CreatedAt)
	})
}
