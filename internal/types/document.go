package types

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Document is one persisted page/template layout. Tree holds the
// JSON-encoded canonical document tree as produced by the canonicalizer.
type Document struct {
	ID        int            `gorm:"primaryKey;autoIncrement" json:"id"`
	Mode      string         `gorm:"column:mode;not null;index;default:breakdance" json:"mode"`
	Tree      datatypes.JSON `gorm:"type:jsonb;column:tree" json:"tree"`
	CreatedAt time.Time      `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;index" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Document) TableName() string { return "document" }
