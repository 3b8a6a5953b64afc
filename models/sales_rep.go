package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SalesRep is an assignment target referenced by routing rules.
type SalesRep struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name     string    `gorm:"not null" json:"name"`
	Email    string    `json:"email"`
	Phone    string    `json:"phone"`
	IsActive bool      `gorm:"default:true" json:"is_active"`

	gorm.Model `json:"-"`
}

func (s *SalesRep) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}
