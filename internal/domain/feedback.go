package domain

import (
	"time"

	"github.com/google/uuid"
)

// Feedback is append-only; there is no edit or delete path.
type Feedback struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID  uuid.UUID `gorm:"index;not null;column:user_id" json:"user_id"`
	User    *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	Message string    `gorm:"not null;column:message" json:"message"`
	Page    string    `gorm:"column:page" json:"page"`

	CreatedAt time.Time `json:"created_at"`
}

func (Feedback) TableName() string { return "feedback" }
