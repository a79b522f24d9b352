// Package repomanager vends a consistent set of repositories for the
// configured record backend and owns the resources behind them.
package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/sharebox/internal/server/repositories/objects"
	"github.com/dmitrijs2005/sharebox/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/sharebox/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context) error
	Users() users.Repository
	RefreshTokens() refreshtokens.Repository
	Objects() objects.Repository
	Close() error
}

// Supported record backends.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendBadger   = "badger"
)

type Options struct {
	Backend     string
	DatabaseDSN string
	// BadgerPath is the Badger data directory; empty runs Badger in memory.
	BadgerPath string
}

// New opens the backend named in opts.
func New(opts Options) (RepositoryManager, error) {
	switch opts.Backend {
	case BackendMemory:
		return NewMemoryRepositoryManager(), nil
	case BackendPostgres:
		return NewPostgresRepositoryManager(opts.DatabaseDSN)
	case BackendBadger:
		return NewBadgerRepositoryManager(opts.BadgerPath)
	default:
		return nil, fmt.Errorf("unknown record backend %q", opts.Backend)
	}
}
