// Package objects stores object records: ownership, permission and the
// share link of every uploaded file.
package objects

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/sharebox/internal/server/links"
	"github.com/dmitrijs2005/sharebox/internal/server/models"
)

// Repository is the object record store.
//
// Every implementation indexes records by id, by link id and by owner, and
// keeps a permanent registry of minted link ids so that a link id is never
// handed out twice, including after the record that held it is deleted.
type Repository interface {
	// Create stores a new Private record with fresh id and link id.
	Create(ctx context.Context, ownerID, storageKey, displayName string, sizeBytes int64) (*models.Object, error)

	// Get returns the record with the given id or common.ErrorNotFound.
	Get(ctx context.Context, id string) (*models.Object, error)

	// GetByLinkID returns the record holding linkID or common.ErrorNotFound.
	GetByLinkID(ctx context.Context, linkID string) (*models.Object, error)

	// ListByOwner returns the owner's records ordered by creation time.
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Object, error)

	// ApplyMutation replaces the record's permission.
	ApplyMutation(ctx context.Context, id string, perm models.Permission) error

	// Delete removes the record. beforeCommit, when set, runs inside the
	// same unit of work; if it fails the record is kept.
	Delete(ctx context.Context, id string, beforeCommit func() error) error
}

// MaxLinkAttempts bounds link id generation on collision.
const MaxLinkAttempts = 8

// newLinkID is a seam for forcing collisions in tests.
var newLinkID = links.NewLinkID

var (
	errLinkTaken = errors.New("link id already registered")

	// ErrLinkSpaceExhausted is returned when every attempt hit a registered id.
	ErrLinkSpaceExhausted = errors.New("objects: could not mint an unused link id")
)

// mintLink generates link ids until register accepts one. register returns
// errLinkTaken for an id that was minted before.
func mintLink(register func(linkID string) error) (string, error) {
	for i := 0; i < MaxLinkAttempts; i++ {
		id, err := newLinkID()
		if err != nil {
			return "", err
		}
		err = register(id)
		if errors.Is(err, errLinkTaken) {
			continue
		}
		if err != nil {
			return "", err
		}
		return id, nil
	}
	return "", fmt.Errorf("%w after %d attempts", ErrLinkSpaceExhausted, MaxLinkAttempts)
}
