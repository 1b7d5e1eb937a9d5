package model

import (
	"time"

	"gorm.io/gorm"
)

// Tenant represents one customer organization, reached through its own
// DNS subdomain. This table backs the tenant directory.
type Tenant struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Subdomain   string         `json:"subdomain" gorm:"type:varchar(63);uniqueIndex;not null"`
	Name        string         `json:"name" gorm:"type:varchar(100);not null"`
	Description string         `json:"description" gorm:"type:text"`
	Active      bool           `json:"active" gorm:"default:true"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}
