// internal/service/identity_service.go
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"filter-studio/internal/kv"
	"filter-studio/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store keys, kept identical to the layout the editor client has always used.
const (
	SessionKey  = "filter_studio_user_v4"
	AccountsKey = "filter_studio_accounts_v4"
)

// sessionKeyFor scopes the session record to one client. The empty token
// addresses the bare SessionKey used by a single-device install.
func sessionKeyFor(token string) string {
	if token == "" {
		return SessionKey
	}
	return SessionKey + ":" + token
}

var (
	ErrInvalidEmail = errors.New("email is required")
	ErrNoSession    = errors.New("no active session")
)

// IdentityService signs users in by email and tracks one current session
// per client token.
type IdentityService struct {
	Store kv.Store
	Log   *zap.Logger

	// NewID mints account ids. Defaults to a random UUID.
	NewID func() string

	mu sync.Mutex
}

func NewIdentityService(store kv.Store, log *zap.Logger) *IdentityService {
	if log == nil {
		log = zap.NewNop()
	}
	return &IdentityService{
		Store: store,
		Log:   log,
		NewID: uuid.NewString,
	}
}

// Signup returns the account registered under email, creating it on first
// use. For a returning email the stored account is returned as is and name
// is ignored. Either way the account becomes the current session of token.
func (s *IdentityService) Signup(ctx context.Context, token, email, name string) (models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return models.User{}, ErrInvalidEmail
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	accounts, err := s.loadAccounts(ctx)
	if err != nil {
		return models.User{}, err
	}

	var user *models.User
	for i := range accounts {
		if accounts[i].Email == email {
			user = &accounts[i]
			break
		}
	}

	if user == nil {
		created := models.User{ID: s.NewID(), Email: email, Name: strings.TrimSpace(name)}
		accounts = append(accounts, created)
		if err := s.writeJSON(ctx, AccountsKey, accounts); err != nil {
			return models.User{}, err
		}
		s.Log.Info("account created", zap.String("user_id", created.ID))
		user = &created
	}

	if err := s.writeJSON(ctx, sessionKeyFor(token), user); err != nil {
		return models.User{}, err
	}
	return *user, nil
}

// CurrentUser reads the session record of token. A missing or unreadable
// record yields nil without error; only store failures are returned.
func (s *IdentityService) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	raw, ok, err := s.Store.Get(ctx, sessionKeyFor(token))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var u models.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil || u.ID == "" {
		s.Log.Warn("ignoring malformed session record", zap.Error(err))
		return nil, nil
	}
	return &u, nil
}

// Restore loads the current session of token and derives its role.
func (s *IdentityService) Restore(ctx context.Context, token string) (*models.Session, error) {
	u, err := s.CurrentUser(ctx, token)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNoSession
	}
	return models.NewSession(*u), nil
}

// Logout clears the session record of token. Accounts and other clients'
// sessions are untouched.
func (s *IdentityService) Logout(ctx context.Context, token string) error {
	return s.Store.Remove(ctx, sessionKeyFor(token))
}

func (s *IdentityService) loadAccounts(ctx context.Context) ([]models.User, error) {
	raw, ok, err := s.Store.Get(ctx, AccountsKey)
	if err != nil {
		return nil, err
	}
	if !ok || raw == "" {
		return nil, nil
	}

	var accounts []models.User
	if err := json.Unmarshal([]byte(raw), &accounts); err != nil {
		return nil, fmt.Errorf("%w: accounts: %v", ErrCorruptCollection, err)
	}
	return accounts, nil
}

func (s *IdentityService) writeJSON(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Store.Set(ctx, key, string(b))
}
