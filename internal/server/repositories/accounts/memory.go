package accounts

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/handlekeeper/internal/common"
	"github.com/dmitrijs2005/handlekeeper/internal/server/models"
)

// MemoryRepository keeps accounts in process memory. Both unique keys are
// enforced under one lock, so it is a faithful stand-in for the postgres
// constraints.
type MemoryRepository struct {
	mu       sync.RWMutex
	byHandle map[string]*models.Account
	byEmail  map[string]*models.Account
	now      func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byHandle: make(map[string]*models.Account),
		byEmail:  make(map[string]*models.Account),
		now:      time.Now,
	}
}

func (r *MemoryRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.conflict(account); err != nil {
		return nil, err
	}
	r.insert(account)
	return clone(account), nil
}

func (r *MemoryRepository) GetByHandle(ctx context.Context, handle string) (*models.Account, error) {
	return r.get(ctx, r.byHandle, handle)
}

func (r *MemoryRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.get(ctx, r.byEmail, email)
}

// Len reports the number of stored accounts.
func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byHandle)
}

// Begin starts a staged unit of work. Creates are buffered until Commit and
// are visible only through the returned repository.
func (r *MemoryRepository) Begin() *StagedRepository {
	return &StagedRepository{parent: r}
}

func (r *MemoryRepository) get(ctx context.Context, index map[string]*models.Account, key string) (*models.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := index[key]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clone(a), nil
}

// conflict must be called with mu held.
func (r *MemoryRepository) conflict(a *models.Account) error {
	if _, ok := r.byHandle[a.Handle]; ok {
		return common.ErrHandleTaken
	}
	if _, ok := r.byEmail[a.Email]; ok {
		return common.ErrEmailTaken
	}
	return nil
}

// insert must be called with mu held. It assigns ID and CreatedAt in place.
func (r *MemoryRepository) insert(a *models.Account) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = r.now().UTC()
	}
	stored := clone(a)
	r.byHandle[stored.Handle] = stored
	r.byEmail[stored.Email] = stored
}

// StagedRepository buffers creates on top of a MemoryRepository.
type StagedRepository struct {
	parent  *MemoryRepository
	pending []*models.Account
}

func (s *StagedRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.parent.mu.RLock()
	err := s.parent.conflict(account)
	s.parent.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	for _, p := range s.pending {
		if p.Handle == account.Handle {
			return nil, common.ErrHandleTaken
		}
		if p.Email == account.Email {
			return nil, common.ErrEmailTaken
		}
	}

	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	account.CreatedAt = s.parent.now().UTC()
	s.pending = append(s.pending, clone(account))
	return clone(account), nil
}

func (s *StagedRepository) GetByHandle(ctx context.Context, handle string) (*models.Account, error) {
	for _, p := range s.pending {
		if p.Handle == handle {
			return clone(p), nil
		}
	}
	return s.parent.GetByHandle(ctx, handle)
}

func (s *StagedRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	for _, p := range s.pending {
		if p.Email == email {
			return clone(p), nil
		}
	}
	return s.parent.GetByEmail(ctx, email)
}

// Commit publishes the buffered accounts. Uniqueness is re-checked under the
// parent's write lock; on conflict nothing is applied.
func (s *StagedRepository) Commit() error {
	s.parent.mu.Lock()
	defer s.parent.mu.Unlock()

	for _, p := range s.pending {
		if err := s.parent.conflict(p); err != nil {
			return err
		}
	}
	for _, p := range s.pending {
		s.parent.insert(p)
	}
	s.pending = nil
	return nil
}

// Rollback discards the buffered accounts.
func (s *StagedRepository) Rollback() {
	s.pending = nil
}

func clone(a *models.Account) *models.Account {
	c := *a
	return &c
}
