package tenant

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/pnci1029/Football-Club-sub002/internal/model"
)

// ErrNotFound means no active tenant is registered for the subdomain
var ErrNotFound = errors.New("tenant not found")

// Record is a directory lookup result
type Record struct {
	ID   uint
	Name string
}

// Directory resolves subdomain codes to tenant identities. Lookups are
// read-only; resolving the same subdomain twice within one request
// yields identical results.
type Directory interface {
	LookupBySubdomain(ctx context.Context, code string) (*Record, error)

	// ActiveSubdomains lists the registered subdomain codes. Used only
	// for development-mode suggestions on unknown-subdomain rejections.
	ActiveSubdomains(ctx context.Context) ([]string, error)
}

// GormDirectory reads the tenant directory from the database
type GormDirectory struct {
	db *gorm.DB
}

// NewDirectory creates a database-backed tenant directory
func NewDirectory(db *gorm.DB) *GormDirectory {
	return &GormDirectory{db: db}
}

// LookupBySubdomain implements Directory. Inactive tenants resolve as
// not found.
func (d *GormDirectory) LookupBySubdomain(ctx context.Context, code string) (*Record, error) {
	var t model.Tenant
	result := d.db.WithContext(ctx).
		Where("subdomain = ? AND active = ?", code, true).
		First(&t)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, result.Error
	}
	return &Record{ID: t.ID, Name: t.Name}, nil
}

// ActiveSubdomains implements Directory
func (d *GormDirectory) ActiveSubdomains(ctx context.Context) ([]string, error) {
	var subdomains []string
	result := d.db.WithContext(ctx).
		Model(&model.Tenant{}).
		Where("active = ?", true).
		Order("subdomain").
		Pluck("subdomain", &subdomains)
	if result.Error != nil {
		return nil, result.Error
	}
	return subdomains, nil
}
