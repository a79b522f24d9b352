package objects

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/sharebox/internal/common"
	"github.com/dmitrijs2005/sharebox/internal/server/models"
)

// Key layout:
//
//	object/<id>          record (JSON)
//	link/<linkId>        id of the record holding the link, empty once deleted
//	owner/<owner>/<id>   empty, one per owned record
const (
	prefixObject = "object/"
	prefixLink   = "link/"
	prefixOwner  = "owner/"
)

func keyObject(id string) []byte { return []byte(prefixObject + id) }
func keyLink(linkID string) []byte { return []byte(prefixLink + linkID) }
func keyOwner(owner, id string) []byte { return []byte(prefixOwner + owner + "/" + id) }
func keyOwnerPrefix(owner string) []byte { return []byte(prefixOwner + owner + "/") }

type objectData struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	DisplayName string    `json:"display_name"`
	StorageKey  string    `json:"storage_key"`
	SizeBytes   int64     `json:"size_bytes"`
	CreatedAt   time.Time `json:"created_at"`
	Visibility  string    `json:"visibility"`
	Credential  string    `json:"credential,omitempty"`
	LinkID      string    `json:"link_id"`
}

func encodeObject(o *models.Object) ([]byte, error) {
	cred, _ := o.Permission.Credential()
	return json.Marshal(objectData{
		ID:          o.ID,
		OwnerID:     o.OwnerID,
		DisplayName: o.DisplayName,
		StorageKey:  o.StorageKey,
		SizeBytes:   o.SizeBytes,
		CreatedAt:   o.CreatedAt,
		Visibility:  o.Permission.Visibility().String(),
		Credential:  cred,
		LinkID:      o.LinkID,
	})
}

func decodeObject(b []byte) (*models.Object, error) {
	var d objectData
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, err
	}
	v, ok := models.ParseVisibility(d.Visibility)
	if !ok {
		return nil, fmt.Errorf("object %s: unknown visibility %q", d.ID, d.Visibility)
	}
	perm, err := models.RestorePermission(v, d.Credential)
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", d.ID, err)
	}
	return &models.Object{
		ID:          d.ID,
		OwnerID:     d.OwnerID,
		DisplayName: d.DisplayName,
		StorageKey:  d.StorageKey,
		SizeBytes:   d.SizeBytes,
		CreatedAt:   d.CreatedAt,
		Permission:  perm,
		LinkID:      d.LinkID,
	}, nil
}

// BadgerRepository stores records in an embedded Badger database. Link keys
// are kept as empty tombstones after deletion.
type BadgerRepository struct {
	db  *badger.DB
	now func() time.Time
}

func NewBadgerRepository(db *badger.DB) *BadgerRepository {
	return &BadgerRepository{db: db, now: time.Now}
}

func getObject(txn *badger.Txn, id string) (*models.Object, error) {
	item, err := txn.Get(keyObject(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, err
	}
	var obj *models.Object
	err = item.Value(func(val []byte) error {
		obj, err = decodeObject(val)
		return err
	})
	return obj, err
}

func putObject(txn *badger.Txn, obj *models.Object) error {
	b, err := encodeObject(obj)
	if err != nil {
		return err
	}
	return txn.Set(keyObject(obj.ID), b)
}

func (r *BadgerRepository) Create(_ context.Context, ownerID, storageKey, displayName string, sizeBytes int64) (*models.Object, error) {
	obj := &models.Object{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		DisplayName: displayName,
		StorageKey:  storageKey,
		SizeBytes:   sizeBytes,
		CreatedAt:   r.now().UTC(),
		Permission:  models.Private(),
	}

	err := r.db.Update(func(txn *badger.Txn) error {
		linkID, err := mintLink(func(id string) error {
			_, err := txn.Get(keyLink(id))
			if err == nil {
				return errLinkTaken
			}
			if !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}
			return txn.Set(keyLink(id), []byte(obj.ID))
		})
		if err != nil {
			return err
		}
		obj.LinkID = linkID

		if err := putObject(txn, obj); err != nil {
			return err
		}
		return txn.Set(keyOwner(ownerID, obj.ID), nil)
	})
	if err != nil {
		if errors.Is(err, ErrLinkSpaceExhausted) {
			return nil, err
		}
		return nil, fmt.Errorf("badger error: %w", err)
	}
	return obj, nil
}

func (r *BadgerRepository) Get(_ context.Context, id string) (*models.Object, error) {
	var obj *models.Object
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		obj, err = getObject(txn, id)
		return err
	})
	return obj, wrapBadger(err)
}

func (r *BadgerRepository) GetByLinkID(_ context.Context, linkID string) (*models.Object, error) {
	var obj *models.Object
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(keyLink(linkID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return common.ErrorNotFound
		}
		if err != nil {
			return err
		}
		id, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		if len(id) == 0 {
			return common.ErrorNotFound
		}
		obj, err = getObject(txn, string(id))
		return err
	})
	return obj, wrapBadger(err)
}

func (r *BadgerRepository) ListByOwner(_ context.Context, ownerID string) ([]*models.Object, error) {
	result := []*models.Object{}
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = keyOwnerPrefix(ownerID)
		it := txn.NewIterator(opts)
		defer it.Close()

		prefixLen := len(opts.Prefix)
		for it.Rewind(); it.Valid(); it.Next() {
			id := string(it.Item().Key()[prefixLen:])
			obj, err := getObject(txn, id)
			if err != nil {
				return err
			}
			result = append(result, obj)
		}
		return nil
	})
	if err != nil {
		return nil, wrapBadger(err)
	}
	sortByCreation(result)
	return result, nil
}

func (r *BadgerRepository) ApplyMutation(_ context.Context, id string, perm models.Permission) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		obj, err := getObject(txn, id)
		if err != nil {
			return err
		}
		obj.Permission = perm
		return putObject(txn, obj)
	})
	return wrapBadger(err)
}

func (r *BadgerRepository) Delete(_ context.Context, id string, beforeCommit func() error) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		obj, err := getObject(txn, id)
		if err != nil {
			return err
		}
		if err := txn.Delete(keyObject(id)); err != nil {
			return err
		}
		if err := txn.Delete(keyOwner(obj.OwnerID, id)); err != nil {
			return err
		}
		if err := txn.Set(keyLink(obj.LinkID), nil); err != nil {
			return err
		}
		if beforeCommit != nil {
			if err := beforeCommit(); err != nil {
				return hookError{err}
			}
		}
		return nil
	})
	var he hookError
	if errors.As(err, &he) {
		return he.err
	}
	return wrapBadger(err)
}

// hookError carries a beforeCommit failure out of the transaction unwrapped.
type hookError struct{ err error }

func (e hookError) Error() string { return e.err.Error() }
func (e hookError) Unwrap() error { return e.err }

func wrapBadger(err error) error {
	if err == nil || errors.Is(err, common.ErrorNotFound) {
		return err
	}
	return fmt.Errorf("badger error: %w", err)
}
