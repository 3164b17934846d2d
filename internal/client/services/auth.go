// Package services contains the application services of the TaskKeeper
// client. This file defines the credential store: signup, login, logout,
// and restoring the persisted session at startup.
package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
	"github.com/dmitrijs2005/taskkeeper/internal/client/repositories/accounts"
	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/cryptox"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// AuthService defines account operations for the CLI.
//
// Contract:
//   - Restore: load the account directory and resume a persisted session.
//   - Signup: register a new account and start a session for it.
//   - Login: verify credentials and start a session.
//   - Logout: end the session; idempotent.
//   - CurrentAccount: the account of the active session, or nil.
//
// Unknown email and wrong password both yield common.ErrInvalidCredentials.
type AuthService interface {
	Restore(ctx context.Context) (*models.Account, error)
	Signup(ctx context.Context, name, email string, password []byte) (*models.Account, error)
	Login(ctx context.Context, email string, password []byte) error
	Logout(ctx context.Context) error
	CurrentAccount() *models.Account
}

// SessionListener is told the new session email ("" after logout) whenever
// the session changes. The task service's Load fits this signature.
type SessionListener func(ctx context.Context, email string) error

type AuthOption func(*authService)

// WithSessionListener registers fn to be called on every session change.
func WithSessionListener(fn SessionListener) AuthOption {
	return func(a *authService) { a.listeners = append(a.listeners, fn) }
}

type authService struct {
	repo      accounts.Repository
	logger    logging.Logger
	listeners []SessionListener

	mu       sync.Mutex
	loaded   bool
	accounts []models.Account
	current  string
}

// NewAuthService constructs an AuthService persisting through repo.
func NewAuthService(repo accounts.Repository, logger logging.Logger, opts ...AuthOption) AuthService {
	a := &authService{repo: repo, logger: logger}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NormalizeEmail trims and lower-cases an email address. Emails are unique
// under this normalization.
func NormalizeEmail(email string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(email))
}

func (a *authService) ensureLoaded(ctx context.Context) error {
	if a.loaded {
		return nil
	}
	list, err := a.repo.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("load accounts: %w", err)
	}
	a.accounts = list
	a.loaded = true
	return nil
}

func (a *authService) find(email string) (models.Account, bool) {
	for _, acc := range a.accounts {
		if acc.Email == email {
			return acc, true
		}
	}
	return models.Account{}, false
}

// Restore loads the directory and resumes the persisted session if it still
// points at a registered account. A stale pointer is cleared.
func (a *authService) Restore(ctx context.Context) (*models.Account, error) {
	a.mu.Lock()
	if err := a.ensureLoaded(ctx); err != nil {
		a.mu.Unlock()
		return nil, err
	}

	email, ok, err := a.repo.Session(ctx)
	if err != nil {
		a.mu.Unlock()
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !ok {
		a.mu.Unlock()
		return nil, nil
	}

	acc, found := a.find(email)
	if !found {
		a.mu.Unlock()
		a.logger.Warn(ctx, "dropping session of unknown account", "email", email)
		if err := a.repo.ClearSession(ctx); err != nil {
			return nil, fmt.Errorf("clear stale session: %w", err)
		}
		return nil, nil
	}
	a.current = acc.Email
	a.mu.Unlock()

	a.logger.Info(ctx, "session restored", "email", acc.Email)
	if err := a.activate(ctx, acc.Email); err != nil {
		return nil, err
	}
	return &acc, nil
}

// Signup registers a new account. The digest is derived off the caller's
// goroutine; if ctx ends first nothing is persisted.
func (a *authService) Signup(ctx context.Context, name, email string, password []byte) (*models.Account, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)
	if name == "" || email == "" || len(password) == 0 {
		return nil, fmt.Errorf("%w: name, email and password are required", common.ErrInvalidInput)
	}

	a.mu.Lock()
	if err := a.ensureLoaded(ctx); err != nil {
		a.mu.Unlock()
		return nil, err
	}
	_, exists := a.find(email)
	a.mu.Unlock()
	if exists {
		return nil, common.ErrDuplicateAccount
	}

	salt := cryptox.GenerateSalt()
	digest, err := cryptox.Await(ctx, cryptox.DeriveKeyAsync(password, salt, cryptox.DefaultIterations, cryptox.DefaultKeyLen))
	if err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}

	acc := models.Account{
		Name:       name,
		Email:      email,
		Hash:       digest,
		Salt:       salt,
		Iterations: cryptox.DefaultIterations,
	}

	a.mu.Lock()
	// another signup for the same email may have finished while deriving
	if _, exists := a.find(email); exists {
		a.mu.Unlock()
		return nil, common.ErrDuplicateAccount
	}
	next := append(append(make([]models.Account, 0, len(a.accounts)+1), a.accounts...), acc)
	if err := a.repo.SaveAllWithSession(ctx, next, email); err != nil {
		a.mu.Unlock()
		return nil, fmt.Errorf("save accounts: %w", err)
	}
	a.accounts = next
	a.current = email
	a.mu.Unlock()

	a.logger.Info(ctx, "account created", "email", email)
	if err := a.activate(ctx, email); err != nil {
		return nil, err
	}
	return &acc, nil
}

// Login verifies password against the stored digest and starts a session.
func (a *authService) Login(ctx context.Context, email string, password []byte) error {
	email = NormalizeEmail(email)

	a.mu.Lock()
	if err := a.ensureLoaded(ctx); err != nil {
		a.mu.Unlock()
		return err
	}
	acc, found := a.find(email)
	a.mu.Unlock()

	if !found {
		// pay for a derivation anyway so unknown emails are not faster
		_, _ = cryptox.Await(ctx, cryptox.DeriveKeyAsync(password, cryptox.GenerateSalt(), cryptox.DefaultIterations, cryptox.DefaultKeyLen))
		a.logger.Info(ctx, "login failed", "email", email)
		return common.ErrInvalidCredentials
	}

	keyLen := cryptox.DefaultKeyLen
	if n := decodedLen(acc.Hash); n > 0 {
		keyLen = n
	}
	candidate, err := cryptox.Await(ctx, cryptox.DeriveKeyAsync(password, acc.Salt, acc.Iterations, keyLen))
	if err != nil {
		return fmt.Errorf("derive key: %w", err)
	}
	if !cryptox.VerifyKey(candidate, acc.Hash) {
		a.logger.Info(ctx, "login failed", "email", email)
		return common.ErrInvalidCredentials
	}

	if err := a.repo.SetSession(ctx, email); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	a.mu.Lock()
	a.current = email
	a.mu.Unlock()

	a.logger.Info(ctx, "login successful", "email", email)
	return a.activate(ctx, email)
}

// Logout clears the in-memory session first, so it always ends even when
// the persisted pointer cannot be removed.
func (a *authService) Logout(ctx context.Context) error {
	a.mu.Lock()
	was := a.current
	a.current = ""
	a.mu.Unlock()

	err := a.repo.ClearSession(ctx)
	if nerr := a.notify(ctx, ""); err == nil {
		err = nerr
	}
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	if was != "" {
		a.logger.Info(ctx, "logged out", "email", was)
	}
	return nil
}

func (a *authService) CurrentAccount() *models.Account {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.current == "" {
		return nil
	}
	acc, ok := a.find(a.current)
	if !ok {
		return nil
	}
	return &acc
}

// activate hands the new session to the listeners. If one of them fails the
// session is dropped again, in memory and in the repository.
func (a *authService) activate(ctx context.Context, email string) error {
	err := a.notify(ctx, email)
	if err == nil {
		return nil
	}

	a.mu.Lock()
	if a.current == email {
		a.current = ""
	}
	a.mu.Unlock()

	if cerr := a.repo.ClearSession(ctx); cerr != nil {
		a.logger.Error(ctx, "failed to drop session", "email", email, "error", cerr)
	}
	_ = a.notify(ctx, "")
	return err
}

func (a *authService) notify(ctx context.Context, email string) error {
	for _, fn := range a.listeners {
		if err := fn(ctx, email); err != nil {
			a.logger.Error(ctx, "session listener failed", "email", email, "error", err)
			return fmt.Errorf("session change: %w", err)
		}
	}
	return nil
}

func decodedLen(b64 string) int {
	b, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return 0
	}
	return len(b)
}
