package auth

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"

	"github.com/dmitrijs2005/handlekeeper/internal/common"
)

// BcryptHasher hashes and verifies passwords with bcrypt. At most
// `concurrency` computations run at once; callers beyond that wait for a
// slot or for their context to end.
type BcryptHasher struct {
	cost int
	sem  *semaphore.Weighted

	dummyOnce sync.Once
	dummyHash []byte
}

// NewBcryptHasher builds a hasher. A zero cost selects common.DefaultBcryptCost
// and a non-positive concurrency selects runtime.NumCPU().
func NewBcryptHasher(cost, concurrency int) *BcryptHasher {
	if cost == 0 {
		cost = common.DefaultBcryptCost
	}
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}
	return &BcryptHasher{cost: cost, sem: semaphore.NewWeighted(int64(concurrency))}
}

// Cost reports the configured work factor.
func (h *BcryptHasher) Cost() int { return h.cost }

// maxPasswordBytes is the most bcrypt consumes; longer passwords are cut to
// this length instead of being rejected.
const maxPasswordBytes = 72

func bcryptInput(password string) []byte {
	b := []byte(password)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}

// Hash returns the bcrypt encoding of password with a fresh salt.
func (h *BcryptHasher) Hash(ctx context.Context, password string) (string, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer h.sem.Release(1)

	b, err := bcrypt.GenerateFromPassword(bcryptInput(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// Verify reports whether password matches hash. It never returns an error:
// a malformed hash, a mismatch or a cancelled context all yield false.
//
// An empty hash is compared against a throwaway hash of the same cost, so
// the "no such account" path takes as long as a wrong password.
func (h *BcryptHasher) Verify(ctx context.Context, password, hash string) bool {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return false
	}
	defer h.sem.Release(1)

	if hash == "" {
		_ = bcrypt.CompareHashAndPassword(h.dummy(), bcryptInput(password))
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), bcryptInput(password)) == nil
}

func (h *BcryptHasher) dummy() []byte {
	h.dummyOnce.Do(func() {
		h.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("handlekeeper-dummy"), h.cost)
	})
	return h.dummyHash
}
