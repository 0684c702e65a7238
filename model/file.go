package model

import "time"

type File struct {
	ID uint64 `gorm:"primaryKey" json:"id,omitempty"`

	UUID string `gorm:"column:uuid;type:varchar(36);not null;uniqueIndex" json:"uuid"`

	Name string `gorm:"column:name;size:255;not null" json:"name"`

	// BlobKey addresses the stored bytes in the object store. The key is
	// written only after the object exists, never the other way around.
	BlobKey string `gorm:"column:blob_key;size:512;not null;index" json:"-"`

	Size int64 `gorm:"column:size;not null" json:"size"`

	UserID uint64 `gorm:"column:user_id;not null;index" json:"user_id,omitempty"`
	User   User   `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name.
func (File) TableName() string {
	return "file"
}
