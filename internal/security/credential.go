package security

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pnci1029/Football-Club-sub002/internal/model"
)

// ErrInvalidCredentials covers every authentication failure: unknown
// username, wrong password, inactive account, wrong tenant scope.
// Callers cannot distinguish the cause.
var ErrInvalidCredentials = errors.New("invalid credentials")

// CredentialStore validates administrator credentials and resolves
// administrator identities for authenticated requests.
type CredentialStore interface {
	// Authenticate verifies a username/password pair. When tenantScope is
	// non-empty, a subdomain-level administrator must be assigned to that
	// subdomain; master administrators authenticate against any scope.
	Authenticate(ctx context.Context, username, password, tenantScope string) (*Principal, error)

	// ByID resolves an administrator by the subject of a validated token.
	// Returns (nil, nil) when no such administrator exists.
	ByID(ctx context.Context, id uint) (*Principal, error)
}

// GormCredentialStore reads administrators from the database
type GormCredentialStore struct {
	db *gorm.DB
}

// NewCredentialStore creates a database-backed credential store
func NewCredentialStore(db *gorm.DB) *GormCredentialStore {
	return &GormCredentialStore{db: db}
}

// Authenticate implements CredentialStore
func (s *GormCredentialStore) Authenticate(ctx context.Context, username, password, tenantScope string) (*Principal, error) {
	var admin model.Administrator
	result := s.db.WithContext(ctx).Where("username = ?", username).First(&admin)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, result.Error
	}

	if err := verifyAdministrator(&admin, password, tenantScope); err != nil {
		return nil, err
	}

	return principalFromModel(&admin), nil
}

// verifyAdministrator applies the post-lookup checks: password match,
// active account, and the tenant-scope restriction for subdomain
// administrators. Every failure collapses to ErrInvalidCredentials.
func verifyAdministrator(admin *model.Administrator, password, tenantScope string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}

	if !admin.Active {
		return ErrInvalidCredentials
	}

	// Subdomain administrators only authenticate against their own tenant
	if tenantScope != "" && admin.PrivilegeLevel == model.PrivilegeSubdomain && admin.AssignedSubdomain != tenantScope {
		return ErrInvalidCredentials
	}

	return nil
}

// ByID implements CredentialStore
func (s *GormCredentialStore) ByID(ctx context.Context, id uint) (*Principal, error) {
	var admin model.Administrator
	result := s.db.WithContext(ctx).First(&admin, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return principalFromModel(&admin), nil
}
