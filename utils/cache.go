package utils

import (
	"GoVault/model"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const fileListCacheTTL = 5 * time.Minute

// FileListCache caches per-user file listings in Redis. A lookup miss
// is never an error; callers fall through to the catalog.
type FileListCache struct {
	client *redis.Client
}

// NewFileListCache creates a file-list cache over a Redis client.
func NewFileListCache(client *redis.Client) *FileListCache {
	return &FileListCache{client: client}
}

func fileListCacheKey(userID uint64) string {
	return fmt.Sprintf("user:file:list:%d", userID)
}

// cachedFile is the cache wire shape. The model's API-facing json tags
// hide StorageKey and BucketName, so records cannot round-trip through
// their own tags without losing fields.
type cachedFile struct {
	ID          uint64    `json:"id"`
	UserID      uint64    `json:"user_id"`
	Name        string    `json:"name"`
	StorageKey  string    `json:"storage_key"`
	BucketName  string    `json:"bucket_name"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	CreatedAt   time.Time `json:"created_at"`
}

// Get reads a cached listing for a user.
func (c *FileListCache) Get(ctx context.Context, userID uint64) ([]model.FileRecord, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	val, err := c.client.Get(ctx, fileListCacheKey(userID)).Result()
	if err != nil {
		return nil, false
	}
	var cached []cachedFile
	if err := json.Unmarshal([]byte(val), &cached); err != nil {
		return nil, false
	}
	files := make([]model.FileRecord, 0, len(cached))
	for _, cf := range cached {
		files = append(files, model.FileRecord{
			ID:          cf.ID,
			UserID:      cf.UserID,
			Name:        cf.Name,
			StorageKey:  cf.StorageKey,
			BucketName:  cf.BucketName,
			Size:        cf.Size,
			ContentType: cf.ContentType,
			CreatedAt:   cf.CreatedAt,
		})
	}
	return files, true
}

// Set writes a cached listing for a user.
func (c *FileListCache) Set(ctx context.Context, userID uint64, files []model.FileRecord) error {
	if c == nil || c.client == nil {
		return nil
	}
	cached := make([]cachedFile, 0, len(files))
	for _, file := range files {
		cached = append(cached, cachedFile{
			ID:          file.ID,
			UserID:      file.UserID,
			Name:        file.Name,
			StorageKey:  file.StorageKey,
			BucketName:  file.BucketName,
			Size:        file.Size,
			ContentType: file.ContentType,
			CreatedAt:   file.CreatedAt,
		})
	}
	data, err := json.Marshal(cached)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, fileListCacheKey(userID), string(data), fileListCacheTTL).Err()
}

// Invalidate clears the cached listing after a mutation.
func (c *FileListCache) Invalidate(ctx context.Context, userID uint64) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, fileListCacheKey(userID)).Err()
}
