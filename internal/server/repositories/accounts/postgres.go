package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrijs2005/handlekeeper/internal/common"
	"github.com/dmitrijs2005/handlekeeper/internal/dbx"
	"github.com/dmitrijs2005/handlekeeper/internal/server/models"
)

// SQLSTATE unique_violation and the constraint names from the accounts
// migration.
const (
	uniqueViolation  = "23505"
	handleConstraint = "accounts_handle_key"
	emailConstraint  = "accounts_email_key"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {

	query :=
		`INSERT INTO accounts (id, handle, username, email, password_hash)
         VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at
		 `

	id := uuid.NewString()
	err := r.db.QueryRowContext(ctx, query,
		id, account.Handle, account.Username, account.Email, account.PasswordHash).Scan(&account.CreatedAt)

	if err != nil {
		return nil, mapInsertError(err)
	}

	account.ID = id
	return account, nil
}

func (r *PostgresRepository) GetByHandle(ctx context.Context, handle string) (*models.Account, error) {
	query :=
		`SELECT id, handle, username, email, password_hash, created_at FROM accounts
		 WHERE handle = $1
		 `
	return r.getOne(ctx, query, handle)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	query :=
		`SELECT id, handle, username, email, password_hash, created_at FROM accounts
		 WHERE email = $1
		 `
	return r.getOne(ctx, query, email)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, key string) (*models.Account, error) {
	a := &models.Account{}
	err := r.db.QueryRowContext(ctx, query, key).
		Scan(&a.ID, &a.Handle, &a.Username, &a.Email, &a.PasswordHash, &a.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return a, nil
}

// mapInsertError turns a unique violation into the matching conflict error.
// The constraint name decides which one.
func mapInsertError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		switch pgErr.ConstraintName {
		case handleConstraint:
			return common.ErrHandleTaken
		case emailConstraint:
			return common.ErrEmailTaken
		}
	}
	return fmt.Errorf("db error: %w", err)
}
