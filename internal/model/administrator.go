package model

import (
	"time"

	"gorm.io/gorm"
)

// Privilege levels for administrators. Master administrators are
// unrestricted; subdomain administrators are bound to exactly one tenant.
const (
	PrivilegeMaster    = "master"
	PrivilegeSubdomain = "subdomain"
)

// Administrator represents an administrator account stored in the
// credential store. Subdomain-level administrators carry the subdomain
// they are assigned to; master administrators leave it empty.
type Administrator struct {
	ID                uint           `json:"id" gorm:"primaryKey"`
	Username          string         `json:"username" gorm:"type:varchar(100);uniqueIndex;not null"`
	Password          string         `json:"-" gorm:"type:varchar(255)"`
	Role              string         `json:"role" gorm:"type:varchar(50);default:'ADMIN'"`
	PrivilegeLevel    string         `json:"privilege_level" gorm:"type:varchar(20);not null;default:'subdomain'"`
	AssignedSubdomain string         `json:"assigned_subdomain,omitempty" gorm:"type:varchar(63);index"`
	Active            bool           `json:"active" gorm:"default:true"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `json:"-" gorm:"index"`
}
