package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Member is a staff or admin account. Credentials are matched by the
// get_member_by_credentials stored procedure, so the password column is
// compared by equality rather than hashed (see DESIGN.md).
type Member struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Email    string    `gorm:"uniqueIndex;not null" json:"email"`
	Name     string    `json:"name"`
	Password string    `gorm:"not null" json:"-"`
	Role     string    `gorm:"type:varchar(20);not null;default:'member'" json:"role"` // 'admin' or 'member'

	gorm.Model `json:"-"`
}

func (m *Member) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return
}

func (m *Member) IsAdmin() bool {
	return m.Role == "admin"
}
