// Package links mints share-link identifiers and resolves them to objects.
package links

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/dmitrijs2005/sharebox/internal/common"
	"github.com/dmitrijs2005/sharebox/internal/server/models"
)

// NewLinkID returns a fresh link identifier: common.LinkIDBytes bytes from
// crypto/rand, hex encoded.
func NewLinkID() (string, error) {
	s, err := common.MakeRandHexString(common.LinkIDBytes)
	if err != nil {
		return "", fmt.Errorf("link id: %w", err)
	}
	return s, nil
}

// WellFormed reports whether id has the shape produced by NewLinkID.
func WellFormed(id string) bool {
	if len(id) != hex.EncodedLen(common.LinkIDBytes) {
		return false
	}
	_, err := hex.DecodeString(id)
	return err == nil
}

// Finder looks an object up by its link id.
type Finder interface {
	GetByLinkID(ctx context.Context, linkID string) (*models.Object, error)
}

type Resolver struct {
	finder Finder
}

func NewResolver(f Finder) *Resolver {
	return &Resolver{finder: f}
}

// Resolve returns the object owning linkID or common.ErrorNotFound.
// Malformed ids never reach the store.
func (r *Resolver) Resolve(ctx context.Context, linkID string) (*models.Object, error) {
	if !WellFormed(linkID) {
		return nil, common.ErrorNotFound
	}
	obj, err := r.finder.GetByLinkID(ctx, linkID)
	if err != nil {
		return nil, err
	}
	return obj, nil
}
