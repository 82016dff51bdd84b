package service

import (
	"GoVault/internal/storage"
	"GoVault/model"
	"GoVault/utils"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"gorm.io/gorm"
)

// Files is the metadata catalog plus the upload/download/delete
// orchestration across catalog and object store. Every read and write
// path authorizes against the owner before touching data.
type Files struct {
	db        *gorm.DB
	store     storage.Store
	bucket    string
	cache     *utils.FileListCache
	reconcile *Reconciler
}

// NewFiles creates the file service.
func NewFiles(db *gorm.DB, store storage.Store, bucket string, cache *utils.FileListCache, reconcile *Reconciler) *Files {
	return &Files{
		db:        db,
		store:     store,
		bucket:    bucket,
		cache:     cache,
		reconcile: reconcile,
	}
}

// BuildStorageKey builds a fresh object key for a user's upload. The key
// is opaque and never derived from the display name.
func BuildStorageKey(handle string) string {
	return fmt.Sprintf("files/%s/%s", handle, utils.NewStorageKey())
}

// Upload streams the content into the object store and creates the
// catalog row only after the object write succeeded, so a failed put
// leaves no metadata behind. If the row insert fails the object is
// removed again, falling back to the reconciler when that also fails.
func (f *Files) Upload(ctx context.Context, userID uint64, handle, name string, size int64, contentType string, reader io.Reader) (*model.FileRecord, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationErr("empty filename")
	}
	if size < 0 {
		return nil, validationErr("negative size")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := BuildStorageKey(handle)
	if err := f.store.PutObject(ctx, f.bucket, key, reader, size, storage.PutOptions{
		ContentType: contentType,
	}); err != nil {
		return nil, storageErr("put object", err)
	}

	record := &model.FileRecord{
		UserID:      userID,
		Name:        name,
		StorageKey:  key,
		BucketName:  f.bucket,
		Size:        size,
		ContentType: contentType,
	}
	if err := f.db.Create(record).Error; err != nil {
		if removeErr := f.store.RemoveObject(ctx, f.bucket, key); removeErr != nil {
			if scheduleErr := f.reconcile.Schedule(ctx, f.bucket, key, removeErr.Error()); scheduleErr != nil {
				log.Printf("orphan schedule failed for %s: %v", key, scheduleErr)
			}
		}
		return nil, err
	}
	_ = f.cache.Invalidate(ctx, userID)
	return record, nil
}

// ListFor returns a user's files, newest first.
func (f *Files) ListFor(ctx context.Context, userID uint64) ([]model.FileRecord, error) {
	if files, ok := f.cache.Get(ctx, userID); ok {
		return files, nil
	}
	var files []model.FileRecord
	if err := f.db.
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&files).Error; err != nil {
		return nil, err
	}
	_ = f.cache.Set(ctx, userID, files)
	return files, nil
}

// Get returns a file record after the ownership check. A missing record
// is ErrNotFound; someone else's record is ErrForbidden.
func (f *Files) Get(fileID, requesterID uint64) (*model.FileRecord, error) {
	var record model.FileRecord
	if err := f.db.Where("id = ?", fileID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if record.UserID != requesterID {
		return nil, ErrForbidden
	}
	return &record, nil
}

// Download opens a stream over the file's content. A record whose
// backing object is gone fails with ErrContentMissing, distinguishable
// from an id that never existed.
func (f *Files) Download(ctx context.Context, fileID, requesterID uint64) (io.ReadCloser, *model.FileRecord, storage.ObjectInfo, error) {
	record, err := f.Get(fileID, requesterID)
	if err != nil {
		return nil, nil, storage.ObjectInfo{}, err
	}
	object, info, err := f.store.GetObject(ctx, record.BucketName, record.StorageKey)
	if err != nil {
		if storage.IsNotFound(err) {
			return nil, nil, storage.ObjectInfo{}, ErrContentMissing
		}
		return nil, nil, storage.ObjectInfo{}, storageErr("get object", err)
	}
	return object, record, info, nil
}

// Delete removes the catalog row and the backing object. The row and an
// orphan marker go in one transaction, then the object delete runs; on
// success the marker is cleared, otherwise the reconcile worker picks it
// up. The file never reappears after this returns.
func (f *Files) Delete(ctx context.Context, fileID, requesterID uint64) error {
	record, err := f.Get(fileID, requesterID)
	if err != nil {
		return err
	}

	if err := f.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.FileRecord{}, record.ID).Error; err != nil {
			return err
		}
		return f.reconcile.RecordPendingTx(tx, record.BucketName, record.StorageKey)
	}); err != nil {
		return err
	}
	_ = f.cache.Invalidate(ctx, requesterID)

	if err := f.store.RemoveObject(ctx, record.BucketName, record.StorageKey); err != nil && !storage.IsNotFound(err) {
		if scheduleErr := f.reconcile.Schedule(ctx, record.BucketName, record.StorageKey, err.Error()); scheduleErr != nil {
			log.Printf("orphan schedule failed for %s: %v", record.StorageKey, scheduleErr)
		}
		return nil
	}
	if err := f.reconcile.Clear(record.StorageKey); err != nil {
		log.Printf("orphan clear failed for %s: %v", record.StorageKey, err)
	}
	return nil
}
