package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	GoogleSub       string    `gorm:"uniqueIndex;not null;column:google_sub" json:"-"`
	Email           string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	FirstName       string    `gorm:"column:first_name" json:"first_name"`
	LastName        string    `gorm:"column:last_name" json:"last_name"`
	AvatarBucketKey string    `gorm:"column:avatar_bucket_key" json:"-"`
	AvatarURL       string    `gorm:"column:avatar_url" json:"avatar_url"`
	AvatarColor     string    `gorm:"column:avatar_color" json:"avatar_color"`
	Admin           bool      `gorm:"not null;default:false;column:admin" json:"admin"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "user" }
