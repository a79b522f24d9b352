package repomanager

import (
	"context"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/dmitrijs2005/sharebox/internal/server/repositories/objects"
	"github.com/dmitrijs2005/sharebox/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/sharebox/internal/server/repositories/users"
)

// BadgerRepositoryManager keeps all records in one embedded Badger database,
// separated by key prefix.
type BadgerRepositoryManager struct {
	db            *badger.DB
	users         *users.BadgerRepository
	refreshTokens *refreshtokens.BadgerRepository
	objects       *objects.BadgerRepository
}

// NewBadgerRepositoryManager opens Badger at path, or in memory when path
// is empty.
func NewBadgerRepositoryManager(path string) (*BadgerRepositoryManager, error) {
	opts := badger.DefaultOptions(path).WithLoggingLevel(badger.WARNING)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger at %q: %w", path, err)
	}
	return &BadgerRepositoryManager{
		db:            db,
		users:         users.NewBadgerRepository(db),
		refreshTokens: refreshtokens.NewBadgerRepository(db),
		objects:       objects.NewBadgerRepository(db),
	}, nil
}

// RunMigrations is a no-op: the key layout needs no schema.
func (m *BadgerRepositoryManager) RunMigrations(context.Context) error { return nil }

func (m *BadgerRepositoryManager) Users() users.Repository { return m.users }

func (m *BadgerRepositoryManager) RefreshTokens() refreshtokens.Repository { return m.refreshTokens }

func (m *BadgerRepositoryManager) Objects() objects.Repository { return m.objects }

func (m *BadgerRepositoryManager) Close() error {
	return m.db.Close()
}
