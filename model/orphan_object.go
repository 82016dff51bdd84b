package model

import "time"

// OrphanObject is a pending deletion in the object store. A row exists
// from the moment the catalog stops referencing a storage key until the
// backing object is confirmed gone, so an interrupted delete never leaks
// a blob.
type OrphanObject struct {
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"id"`

	BucketName string `gorm:"column:bucket_name;type:varchar(64);not null" json:"bucket_name"`
	StorageKey string `gorm:"column:storage_key;type:varchar(512);uniqueIndex;not null" json:"storage_key"`

	Status      string     `gorm:"column:status;type:varchar(32);index;not null" json:"status"` // pending / retrying / failed
	ErrorMsg    string     `gorm:"column:error_msg;type:text" json:"error_msg"`
	RetryCount  int        `gorm:"column:retry_count;default:0" json:"retry_count"`
	NextRetryAt *time.Time `gorm:"column:next_retry_at" json:"next_retry_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name.
func (OrphanObject) TableName() string {
	return "orphan_object"
}
