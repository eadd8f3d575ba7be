package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Asset is one icon in the library. The binary lives in the blob store under
// StorageKey; deleting the asset removes both.
type Asset struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name       string    `gorm:"not null;column:name" json:"name"`
	CategoryID uuid.UUID `gorm:"index;not null;column:category_id" json:"category_id"`
	Category   *Category `gorm:"foreignKey:CategoryID;references:ID" json:"category,omitempty"`
	SectionID  uuid.UUID `gorm:"index;not null;column:section_id" json:"section_id"`
	Section    *Section  `gorm:"foreignKey:SectionID;references:ID" json:"section,omitempty"`

	StorageKey  string `gorm:"uniqueIndex;not null;column:storage_key" json:"-"`
	ContentType string `gorm:"not null;column:content_type" json:"content_type"`
	HasAlpha    bool   `gorm:"not null;default:false;column:has_alpha" json:"has_alpha"`
	Width       int    `gorm:"column:width" json:"width"`
	Height      int    `gorm:"column:height" json:"height"`
	SizeBytes   int64  `gorm:"column:size_bytes" json:"size_bytes"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Asset) TableName() string { return "asset" }
