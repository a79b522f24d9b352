package users

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

const prefixUser = "user/"

func keyUser(name string) []byte { return []byte(prefixUser + name) }

type userData struct {
	ID           string    `json:"id"`
	UserName     string    `json:"username"`
	PasswordHash []byte    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// BadgerRepository keys users by name under "user/".
type BadgerRepository struct {
	db *badger.DB
}

func NewBadgerRepository(db *badger.DB) *BadgerRepository {
	return &BadgerRepository{db: db}
}

func (r *BadgerRepository) Create(_ context.Context, user *models.User) (*models.User, error) {
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now().UTC()

	err := r.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(keyUser(user.UserName))
		if err == nil {
			return common.ErrAlreadyExists
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		b, err := json.Marshal(userData{
			ID:           user.ID,
			UserName:     user.UserName,
			PasswordHash: user.PasswordHash,
			CreatedAt:    user.CreatedAt,
		})
		if err != nil {
			return err
		}
		return txn.Set(keyUser(user.UserName), b)
	})
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("badger error: %w", err)
	}
	return user, nil
}

func (r *BadgerRepository) GetUserByLogin(_ context.Context, login string) (*models.User, error) {
	var d userData
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(keyUser(login))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &d)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("badger error: %w", err)
	}
	return &models.User{ID: d.ID, UserName: d.UserName, PasswordHash: d.PasswordHash, CreatedAt: d.CreatedAt}, nil
}
