package domain

import (
	"time"
)

// BlobChunk backs the database blob store. A stored object is the ordered
// concatenation of its chunks' Data, GridFS style.
type BlobChunk struct {
	StorageKey string `gorm:"primaryKey;column:storage_key" json:"storage_key"`
	Index      int    `gorm:"primaryKey;autoIncrement:false;column:chunk_index" json:"chunk_index"`
	Data       []byte `gorm:"not null;column:data" json:"-"`
	Size       int    `gorm:"not null;column:size" json:"size"`

	CreatedAt time.Time `json:"created_at"`
}

func (BlobChunk) TableName() string { return "blob_chunk" }
