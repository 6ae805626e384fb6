package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/careops/careops/internal/domain/tenant"
	"github.com/careops/careops/internal/platform/auth"
)

var (
	// ErrInvalidCredentials covers every user-level login failure: unknown
	// email, user belonging to a different tenant, wrong password, role not
	// admitted by the login path, or a deactivated account. Callers must
	// surface all of them identically to resist user enumeration.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNotFound is returned for user lookups that match no row in the
	// caller's tenant.
	ErrNotFound = errors.New("user not found")
)

// dummyHash is compared against when the user lookup fails, so that login
// latency does not reveal whether the email exists.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("credential-padding"), bcrypt.DefaultCost)

// LoginResult is the successful login payload.
type LoginResult struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
	User      *User          `json:"user"`
	Tenant    *tenant.Tenant `json:"tenant"`
}

type Service struct {
	users   Repository
	tenants *tenant.Service
	issuer  *auth.TokenIssuer
}

func NewService(users Repository, tenants *tenant.Service, issuer *auth.TokenIssuer) *Service {
	return &Service{users: users, tenants: tenants, issuer: issuer}
}

// Login validates credentials against the selected tenant and issues a
// session token with a fixed 24-hour expiry. allowedRoles, when non-empty,
// restricts which roles may use this login path (e.g. the patient portal);
// rejected roles fail with the same generic error as a bad password.
func (s *Service) Login(ctx context.Context, email, password, tenantSelector string, allowedRoles ...auth.Role) (*LoginResult, error) {
	tn, err := s.tenants.Resolve(ctx, tenantSelector)
	if errors.Is(err, tenant.ErrNotFound) {
		return nil, tenant.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("resolve tenant: %w", err)
	}

	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.GetByEmail(ctx, tn.ID, email)
	if err != nil {
		// Burn a hash comparison anyway to keep timing uniform.
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.Active || !tn.Active() {
		return nil, ErrInvalidCredentials
	}
	if len(allowedRoles) > 0 && !roleAllowed(user.Role, allowedRoles) {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.issuer.Issue(user.ID, user.TenantID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user, Tenant: tn}, nil
}

func roleAllowed(role auth.Role, allowed []auth.Role) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

// CreateUser provisions a user inside the caller's tenant. Only super
// admins may create users in other tenants or mint further super admins.
func (s *Service) CreateUser(ctx context.Context, identity *auth.Identity, u *User, password string) error {
	if u.Email == "" {
		return fmt.Errorf("email is required")
	}
	if !u.Role.Valid() {
		return fmt.Errorf("invalid role: %q", u.Role)
	}
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	if u.Role == auth.RoleSuperAdmin && identity.Role != auth.RoleSuperAdmin {
		return fmt.Errorf("only super admins may create super admins")
	}
	if !identity.CrossTenant() {
		u.TenantID = identity.TenantID
	} else if u.TenantID == uuid.Nil {
		u.TenantID = identity.TenantID
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.PasswordHash = string(hash)
	u.Active = true
	return s.users.Create(ctx, u)
}

func (s *Service) GetUser(ctx context.Context, identity *auth.Identity, id uuid.UUID) (*User, error) {
	return s.users.GetByID(ctx, identity.TenantID, id)
}

func (s *Service) ListUsers(ctx context.Context, identity *auth.Identity, limit, offset int) ([]*User, int, error) {
	return s.users.List(ctx, identity.TenantID, limit, offset)
}

// DeactivateUser blocks further logins without deleting history.
func (s *Service) DeactivateUser(ctx context.Context, identity *auth.Identity, id uuid.UUID) (*User, error) {
	u, err := s.users.GetByID(ctx, identity.TenantID, id)
	if err != nil {
		return nil, err
	}
	u.Active = false
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
