package model

import (
	"time"
)

type User struct {
	ID uint64 `gorm:"primaryKey" json:"id"`

	Handle string `gorm:"column:handle;type:varchar(50);not null;unique" json:"handle"`

	Password string `gorm:"column:pass_word;type:varchar(255);not null" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name.
func (User) TableName() string {
	return "user_db"
}
