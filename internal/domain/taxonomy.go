package domain

import (
	"time"

	"github.com/google/uuid"
)

// Category and Section form the two-level taxonomy the asset library is
// grouped by. Names are free text matched by exact string equality; the tree
// only ever grows.
type Category struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `gorm:"uniqueIndex;not null;column:name" json:"name"`

	Sections []Section `gorm:"foreignKey:CategoryID;references:ID" json:"sections,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Category) TableName() string { return "category" }

type Section struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CategoryID uuid.UUID `gorm:"not null;column:category_id;uniqueIndex:idx_section_category_name,priority:1" json:"category_id"`
	Name       string    `gorm:"not null;column:name;uniqueIndex:idx_section_category_name,priority:2" json:"name"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Section) TableName() string { return "section" }
