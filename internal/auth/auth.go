// Package auth resolves who is calling and what they may do.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/hance08/txgate/internal/config"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
)

// Principal is an authenticated caller.
type Principal struct {
	Name string
	Role string
}

func (p Principal) IsZero() bool {
	return p.Name == "" && p.Role == ""
}

type Authorizer interface {
	Authorize(ctx context.Context, p Principal, capability string) error
}

// RoleAuthorizer grants capabilities by role.
type RoleAuthorizer struct {
	roles map[string]map[string]bool
}

var _ Authorizer = (*RoleAuthorizer)(nil)

func NewRoleAuthorizer(roles map[string][]string) *RoleAuthorizer {
	ra := &RoleAuthorizer{roles: make(map[string]map[string]bool, len(roles))}
	for role, caps := range roles {
		set := make(map[string]bool, len(caps))
		for _, c := range caps {
			set[c] = true
		}
		ra.roles[role] = set
	}
	return ra
}

func (ra *RoleAuthorizer) Authorize(_ context.Context, p Principal, capability string) error {
	if p.Role == "" {
		return ErrUnauthenticated
	}
	if !ra.roles[p.Role][capability] {
		return fmt.Errorf("role %q lacks %q: %w", p.Role, capability, ErrForbidden)
	}
	return nil
}

// Authenticator checks credentials against the users listed in config.
type Authenticator struct {
	users map[string]config.UserConfig
}

func NewAuthenticator(users []config.UserConfig) *Authenticator {
	a := &Authenticator{users: make(map[string]config.UserConfig, len(users))}
	for _, u := range users {
		a.users[u.Username] = u
	}
	return a
}

func (a *Authenticator) Authenticate(username, password string) (Principal, error) {
	u, ok := a.users[username]
	if !ok || u.PasswordHash == "" {
		// Burn comparable time so unknown users are not distinguishable.
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return Principal{}, ErrUnauthenticated
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return Principal{}, ErrUnauthenticated
	}
	return Principal{Name: u.Username, Role: u.Role}, nil
}

// Lookup resolves a configured user without a password, for local CLI use.
func (a *Authenticator) Lookup(username string) (Principal, error) {
	u, ok := a.users[username]
	if !ok {
		return Principal{}, fmt.Errorf("unknown user %q: %w", username, ErrUnauthenticated)
	}
	return Principal{Name: u.Username, Role: u.Role}, nil
}

// HashPassword produces a value suitable for auth.users[].password_hash.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("txgate"), bcrypt.MinCost)
