package service

import (
	"GoVault/internal/mq"
	"GoVault/internal/storage"
	"GoVault/model"
	"encoding/json"
	"errors"
	"log"
	"time"

	"golang.org/x/net/context"
	"gorm.io/gorm"
)

// ReconcileMessage is the payload sent to the reconcile worker.
type ReconcileMessage struct {
	OrphanID uint64 `json:"orphan_id"`
	Attempt  int    `json:"attempt"`
}

// Reconciler tracks storage keys the catalog no longer references and
// drives their deletion in the object store.
type Reconciler struct {
	db    *gorm.DB
	store storage.Store
}

// NewReconciler creates a reconciler over the catalog and object store.
func NewReconciler(db *gorm.DB, store storage.Store) *Reconciler {
	return &Reconciler{db: db, store: store}
}

// RecordPendingTx inserts an orphan row inside the caller's transaction,
// so the row becomes visible atomically with the catalog mutation.
func (r *Reconciler) RecordPendingTx(tx *gorm.DB, bucket, storageKey string) error {
	orphan := &model.OrphanObject{
		BucketName: bucket,
		StorageKey: storageKey,
		Status:     "pending",
	}
	return tx.Create(orphan).Error
}

// Clear removes the orphan row for a storage key after the object is
// confirmed gone.
func (r *Reconciler) Clear(storageKey string) error {
	return r.db.Where("storage_key = ?", storageKey).Delete(&model.OrphanObject{}).Error
}

// Schedule records an orphan (if not already recorded) and enqueues it
// for the worker. Used when a synchronous object delete fails.
func (r *Reconciler) Schedule(ctx context.Context, bucket, storageKey, reason string) error {
	orphan := &model.OrphanObject{
		BucketName: bucket,
		StorageKey: storageKey,
		Status:     "pending",
		ErrorMsg:   reason,
	}
	if err := r.db.Where("storage_key = ?", storageKey).
		FirstOrCreate(orphan).Error; err != nil {
		return err
	}
	return r.Enqueue(ctx, orphan.ID, 0)
}

// Enqueue publishes a reconcile task to RabbitMQ.
func (r *Reconciler) Enqueue(ctx context.Context, orphanID uint64, attempt int) error {
	body, err := json.Marshal(ReconcileMessage{OrphanID: orphanID, Attempt: attempt})
	if err != nil {
		return err
	}
	publisher, err := mq.GetPublisher()
	if err != nil {
		return err
	}
	return publisher.PublishTask(ctx, body)
}

// Process deletes the object behind an orphan row and removes the row.
// A missing row or already-deleted object both count as done.
func (r *Reconciler) Process(ctx context.Context, orphanID uint64) error {
	var orphan model.OrphanObject
	if err := r.db.Where("id = ?", orphanID).First(&orphan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if err := r.store.RemoveObject(ctx, orphan.BucketName, orphan.StorageKey); err != nil {
		if !storage.IsNotFound(err) {
			return storageErr("remove orphan", err)
		}
	}
	return r.db.Delete(&model.OrphanObject{}, orphan.ID).Error
}

// MarkRetrying records a retry attempt on the orphan row.
func (r *Reconciler) MarkRetrying(orphanID uint64, attempt int, procErr error, nextRetryAt time.Time) error {
	return r.db.Model(&model.OrphanObject{}).
		Where("id = ?", orphanID).
		Updates(map[string]interface{}{
			"status":        "retrying",
			"error_msg":     procErr.Error(),
			"retry_count":   attempt,
			"next_retry_at": &nextRetryAt,
		}).Error
}

// MarkFailed records a permanent failure and returns the row so the
// caller can raise an alert. The row is kept for manual cleanup.
func (r *Reconciler) MarkFailed(orphanID uint64, procErr error) (*model.OrphanObject, error) {
	if err := r.db.Model(&model.OrphanObject{}).
		Where("id = ?", orphanID).
		Updates(map[string]interface{}{
			"status":    "failed",
			"error_msg": procErr.Error(),
		}).Error; err != nil {
		return nil, err
	}
	var orphan model.OrphanObject
	if err := r.db.Where("id = ?", orphanID).First(&orphan).Error; err != nil {
		return nil, err
	}
	return &orphan, nil
}

// RequeueStale re-enqueues orphan rows that have sat untouched longer
// than olderThan. Covers crashes between recording a row and publishing
// its task.
func (r *Reconciler) RequeueStale(ctx context.Context, olderThan time.Duration) (int, error) {
	orphans, err := r.staleOrphans(time.Now().Add(-olderThan))
	if err != nil {
		return 0, err
	}
	requeued := 0
	for _, orphan := range orphans {
		if err := r.Enqueue(ctx, orphan.ID, orphan.RetryCount); err != nil {
			log.Printf("requeue orphan %d failed: %v", orphan.ID, err)
			continue
		}
		requeued++
	}
	return requeued, nil
}

// staleOrphans returns unfinished orphan rows untouched since cutoff.
// Failed rows are excluded; they wait for manual cleanup.
func (r *Reconciler) staleOrphans(cutoff time.Time) ([]model.OrphanObject, error) {
	var orphans []model.OrphanObject
	err := r.db.
		Where("status IN ? AND updated_at < ?", []string{"pending", "retrying"}, cutoff).
		Find(&orphans).Error
	return orphans, err
}
