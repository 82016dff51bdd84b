package dto

import "time"

// FileResponse is the API shape of a catalog row.
type FileResponse struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	CreatedAt   time.Time `json:"created_at"`
}

// LoginResponse is returned by the API login.
type LoginResponse struct {
	Token  string `json:"token"`
	UserID uint64 `json:"user_id"`
	Handle string `json:"handle"`
}
