package model

import "time"

type FileRecord struct {
	ID uint64 `gorm:"primaryKey" json:"id"`

	UserID uint64 `gorm:"column:user_id;not null;index" json:"user_id"`
	User   User   `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"-"`

	Name string `gorm:"column:name;size:255;not null" json:"name"`

	// StorageKey addresses the blob in the object store. It is never
	// derived from Name and never changes after the row is created.
	StorageKey string `gorm:"column:storage_key;size:512;uniqueIndex;not null" json:"-"`

	BucketName string `gorm:"column:bucket_name;size:64;not null" json:"-"`

	Size        int64  `gorm:"column:size;not null" json:"size"`
	ContentType string `gorm:"column:content_type;size:128;not null;default:''" json:"content_type"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name.
func (FileRecord) TableName() string {
	return "file_record"
}
