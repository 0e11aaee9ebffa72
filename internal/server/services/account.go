// Package services contains server-side business logic. This file implements
// AccountService, which registers accounts, authenticates them and issues
// short-lived bearer tokens.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/dmitrijs2005/handlekeeper/internal/common"
	"github.com/dmitrijs2005/handlekeeper/internal/logging"
	"github.com/dmitrijs2005/handlekeeper/internal/server/models"
	"github.com/dmitrijs2005/handlekeeper/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/handlekeeper/internal/server/repositories/repomanager"
)

// PasswordHasher hashes passwords and checks candidates against a hash.
// Verify treats an empty hash as "no account" and still spends a full
// comparison before returning false.
type PasswordHasher interface {
	Hash(ctx context.Context, password string) (string, error)
	Verify(ctx context.Context, password, hash string) bool
}

// TokenIssuer signs a token for a subject.
type TokenIssuer interface {
	Issue(subject string) (token string, expiresAt time.Time, err error)
}

// SignUpInput is the registration request. Every field is required.
type SignUpInput struct {
	Handle   string `json:"user_handle" validate:"required"`
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SignInInput identifies an account by handle or email. Handle wins when
// both are present.
type SignInInput struct {
	Handle   string `json:"user_handle" validate:"required_without=Email"`
	Email    string `json:"email" validate:"required_without=Handle"`
	Password string `json:"password" validate:"required"`
}

// AuthResult is returned by a successful signup or signin.
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	Account   *models.Account
}

// AccountService provides the account authentication flow:
// - SignUp: validate, enforce unique handle and email, persist, issue a token
// - SignIn: resolve by handle or email, verify the password, issue a token
type AccountService struct {
	repomanager  repomanager.RepositoryManager
	hasher       PasswordHasher
	tokens       TokenIssuer
	validate     *validator.Validate
	logger       logging.Logger
	atomicSignup bool
}

// Option customises an AccountService.
type Option func(*AccountService)

// WithAtomicSignup makes SignUp insert the account and issue its token in one
// transaction, so a signing failure leaves no account behind.
func WithAtomicSignup(enabled bool) Option {
	return func(s *AccountService) { s.atomicSignup = enabled }
}

// WithLogger sets the logger used for rejections and failures.
func WithLogger(l logging.Logger) Option {
	return func(s *AccountService) { s.logger = l }
}

// NewAccountService wires the service to its store, hasher and token issuer.
func NewAccountService(m repomanager.RepositoryManager, h PasswordHasher, t TokenIssuer, opts ...Option) *AccountService {
	s := &AccountService{
		repomanager: m,
		hasher:      h,
		tokens:      t,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		logger:      logging.NewNop(),
	}
	for _, o := range opts {
		o(s)
	}
	s.logger = s.logger.With("module", "account_service")
	return s
}

// SignUp registers a new account and returns a token for it.
//
// Errors: common.ErrValidation, common.ErrHandleTaken, common.ErrEmailTaken,
// common.ErrSecretNotConfigured, common.ErrorInternal. Unless atomic signup
// is enabled, ErrSecretNotConfigured is returned after the account has been
// stored.
func (s *AccountService) SignUp(ctx context.Context, in SignUpInput) (*AuthResult, error) {
	if err := s.validate.StructCtx(ctx, in); err != nil {
		s.logger.Warn(ctx, "signup rejected: missing fields", "user_handle", in.Handle, "email", in.Email)
		return nil, fmt.Errorf("%w: %v", common.ErrValidation, err)
	}

	handle := strings.ToLower(in.Handle)
	email := strings.ToLower(in.Email)
	log := s.logger.With("user_handle", handle, "email", email)

	repo := s.repomanager.Accounts()

	if _, err := repo.GetByHandle(ctx, handle); err == nil {
		log.Warn(ctx, "signup rejected: handle exists")
		return nil, common.ErrHandleTaken
	} else if !errors.Is(err, common.ErrorNotFound) {
		log.Error(ctx, "signup failed: handle lookup", "error", err)
		return nil, common.ErrorInternal
	}

	if _, err := repo.GetByEmail(ctx, email); err == nil {
		log.Warn(ctx, "signup rejected: email exists")
		return nil, common.ErrEmailTaken
	} else if !errors.Is(err, common.ErrorNotFound) {
		log.Error(ctx, "signup failed: email lookup", "error", err)
		return nil, common.ErrorInternal
	}

	hash, err := s.hasher.Hash(ctx, in.Password)
	if err != nil {
		log.Error(ctx, "signup failed: hash", "error", err)
		return nil, common.ErrorInternal
	}

	account := &models.Account{Handle: handle, Username: in.Username, Email: email, PasswordHash: hash}

	var result *AuthResult
	create := func(ctx context.Context, repo accounts.Repository) error {
		created, err := repo.Create(ctx, account)
		if err != nil {
			return err
		}
		result, err = s.issue(created)
		return err
	}

	if s.atomicSignup {
		err = s.repomanager.WithinTx(ctx, create)
	} else {
		err = create(ctx, repo)
	}
	if err != nil {
		return nil, s.signUpError(ctx, log, err)
	}

	log.Info(ctx, "account registered")
	return result, nil
}

func (s *AccountService) signUpError(ctx context.Context, log logging.Logger, err error) error {
	switch {
	case errors.Is(err, common.ErrHandleTaken):
		log.Warn(ctx, "signup rejected: handle exists on insert")
		return common.ErrHandleTaken
	case errors.Is(err, common.ErrEmailTaken):
		log.Warn(ctx, "signup rejected: email exists on insert")
		return common.ErrEmailTaken
	case errors.Is(err, common.ErrSecretNotConfigured):
		log.Error(ctx, "signup failed: signing secret not configured", "rolled_back", s.atomicSignup)
		return common.ErrSecretNotConfigured
	default:
		log.Error(ctx, "signup failed", "error", err)
		return common.ErrorInternal
	}
}

// SignIn authenticates by handle or email and returns a token.
//
// Unknown identifiers and wrong passwords both yield
// common.ErrInvalidCredentials after a full password comparison.
func (s *AccountService) SignIn(ctx context.Context, in SignInInput) (*AuthResult, error) {
	if err := s.validate.StructCtx(ctx, in); err != nil {
		s.logger.Warn(ctx, "signin rejected: missing credentials", "user_handle", in.Handle, "email", in.Email)
		return nil, fmt.Errorf("%w: %v", common.ErrValidation, err)
	}

	repo := s.repomanager.Accounts()

	var (
		account *models.Account
		err     error
		log     logging.Logger
	)
	if in.Handle != "" {
		handle := strings.ToLower(in.Handle)
		log = s.logger.With("user_handle", handle)
		account, err = repo.GetByHandle(ctx, handle)
	} else {
		email := strings.ToLower(in.Email)
		log = s.logger.With("email", email)
		account, err = repo.GetByEmail(ctx, email)
	}

	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.Verify(ctx, in.Password, "")
			if ctx.Err() != nil {
				log.Error(ctx, "signin failed: verify", "error", ctx.Err())
				return nil, common.ErrorInternal
			}
			log.Warn(ctx, "signin rejected: invalid credentials")
			return nil, common.ErrInvalidCredentials
		}
		log.Error(ctx, "signin failed: lookup", "error", err)
		return nil, common.ErrorInternal
	}

	if !s.hasher.Verify(ctx, in.Password, account.PasswordHash) {
		// A false result after the context ended is a timeout, not a wrong password.
		if ctx.Err() != nil {
			log.Error(ctx, "signin failed: verify", "error", ctx.Err())
			return nil, common.ErrorInternal
		}
		log.Warn(ctx, "signin rejected: invalid credentials")
		return nil, common.ErrInvalidCredentials
	}

	result, err := s.issue(account)
	if err != nil {
		if errors.Is(err, common.ErrSecretNotConfigured) {
			log.Error(ctx, "signin failed: signing secret not configured")
			return nil, common.ErrSecretNotConfigured
		}
		log.Error(ctx, "signin failed: token", "error", err)
		return nil, common.ErrorInternal
	}

	log.Info(ctx, "signed in")
	return result, nil
}

// Profile returns the account for an authenticated handle.
func (s *AccountService) Profile(ctx context.Context, handle string) (*models.Account, error) {
	account, err := s.repomanager.Accounts().GetByHandle(ctx, strings.ToLower(handle))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		s.logger.Error(ctx, "profile lookup failed", "user_handle", handle, "error", err)
		return nil, common.ErrorInternal
	}
	return account, nil
}

func (s *AccountService) issue(account *models.Account) (*AuthResult, error) {
	token, exp, err := s.tokens.Issue(account.Handle)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, ExpiresAt: exp, Account: account}, nil
}
