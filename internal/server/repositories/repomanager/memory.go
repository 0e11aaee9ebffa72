package repomanager

import (
	"context"

	"github.com/dmitrijs2005/handlekeeper/internal/server/repositories/accounts"
)

// MemoryRepositoryManager backs every repository with process memory.
// Nothing survives a restart.
type MemoryRepositoryManager struct {
	accounts *accounts.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{accounts: accounts.NewMemoryRepository()}
}

func (m *MemoryRepositoryManager) RunMigrations(context.Context) error { return nil }

func (m *MemoryRepositoryManager) Accounts() accounts.Repository { return m.accounts }

// WithinTx stages writes made through the supplied repository and publishes
// them only when fn succeeds.
func (m *MemoryRepositoryManager) WithinTx(ctx context.Context, fn func(ctx context.Context, accounts accounts.Repository) error) (err error) {
	staged := m.accounts.Begin()

	defer func() {
		if p := recover(); p != nil {
			staged.Rollback()
			panic(p)
		}
		if err != nil {
			staged.Rollback()
			return
		}
		err = staged.Commit()
	}()

	err = fn(ctx, staged)
	return err
}

func (m *MemoryRepositoryManager) Close() error { return nil }

// Len reports how many accounts are stored.
func (m *MemoryRepositoryManager) Len() int { return m.accounts.Len() }
