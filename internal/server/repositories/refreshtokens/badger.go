package refreshtokens

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/dmitrijs2005/sharebox/internal/common"
	"github.com/dmitrijs2005/sharebox/internal/server/models"
)

const prefixToken = "refresh/"

type tokenData struct {
	UserID  string    `json:"user_id"`
	Expires time.Time `json:"expires"`
}

// BadgerRepository stores tokens with a TTL so Badger drops them once they
// expire; a token read back after expiry is reported as missing.
type BadgerRepository struct {
	db *badger.DB
}

func NewBadgerRepository(db *badger.DB) *BadgerRepository {
	return &BadgerRepository{db: db}
}

func (r *BadgerRepository) Create(_ context.Context, userID string, token string, validity time.Duration) error {
	b, err := json.Marshal(tokenData{UserID: userID, Expires: time.Now().Add(validity)})
	if err != nil {
		return err
	}
	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry([]byte(prefixToken+token), b).WithTTL(validity))
	})
	if err != nil {
		return fmt.Errorf("badger error: %w", err)
	}
	return nil
}

func (r *BadgerRepository) Consume(_ context.Context, token string) (*models.RefreshToken, error) {
	key := []byte(prefixToken + token)
	var d tokenData
	err := r.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		if err := item.Value(func(val []byte) error { return json.Unmarshal(val, &d) }); err != nil {
			return err
		}
		return txn.Delete(key)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("badger error: %w", err)
	}
	return &models.RefreshToken{UserID: d.UserID, Token: token, Expires: d.Expires}, nil
}
