package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CustomFieldTypes are the supported input kinds for dashboard-configured
// form fields.
var CustomFieldTypes = []string{"text", "number", "select", "checkbox", "radio"}

func IsValidCustomFieldType(fieldType string) bool {
	for _, t := range CustomFieldTypes {
		if t == fieldType {
			return true
		}
	}
	return false
}

// CustomFieldDefinition is a persistent, dashboard-configured form field.
// Definitions survive form resets; their values live only in the submitted
// form snapshot. Session-only (non-persistent) fields are never stored here.
type CustomFieldDefinition struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Label         string    `gorm:"not null" json:"label"`
	FieldType     string    `gorm:"type:varchar(20);not null" json:"type"`
	SugarCRMField string    `gorm:"column:sugar_crm_field;not null" json:"sugarCrmField"`
	Options       JSONB     `gorm:"type:jsonb" json:"options"` // {"values": [...]} for select/radio
	IsPersistent  bool      `gorm:"default:true" json:"isPersistent"`

	gorm.Model `json:"-"`
}

func (c *CustomFieldDefinition) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}
