package repomanager

import (
	"context"

	"github.com/dmitrijs2005/sharebox/internal/server/repositories/objects"
	"github.com/dmitrijs2005/sharebox/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/sharebox/internal/server/repositories/users"
)

// MemoryRepositoryManager keeps everything in process memory; state is lost
// on restart.
type MemoryRepositoryManager struct {
	users         *users.MemoryRepository
	refreshTokens *refreshtokens.MemoryRepository
	objects       *objects.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		users:         users.NewMemoryRepository(),
		refreshTokens: refreshtokens.NewMemoryRepository(),
		objects:       objects.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) RunMigrations(context.Context) error { return nil }

func (m *MemoryRepositoryManager) Users() users.Repository { return m.users }

func (m *MemoryRepositoryManager) RefreshTokens() refreshtokens.Repository { return m.refreshTokens }

func (m *MemoryRepositoryManager) Objects() objects.Repository { return m.objects }

func (m *MemoryRepositoryManager) Close() error { return nil }
