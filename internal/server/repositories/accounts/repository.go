// Package accounts stores registered accounts. Lookups take already
// normalized (lowercase) keys and return common.ErrorNotFound when nothing
// matches; Create reports unique violations as common.ErrHandleTaken or
// common.ErrEmailTaken.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/handlekeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	GetByHandle(ctx context.Context, handle string) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
}
