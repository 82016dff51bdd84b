package service

import (
	"GoVault/model"
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

func mustCreateUser(t *testing.T, users *Users, handle string) *model.User {
	user, err := users.Create(handle, "p1")
	if err != nil {
		t.Fatalf("create user %s failed: %v", handle, err)
	}
	return user
}

func mustUpload(t *testing.T, files *Files, user *model.User, name, content string) *model.FileRecord {
	record, err := files.Upload(
		context.Background(),
		user.ID,
		user.Handle,
		name,
		int64(len(content)),
		"text/plain",
		strings.NewReader(content),
	)
	if err != nil {
		t.Fatalf("upload %s failed: %v", name, err)
	}
	return record
}

// TestUploadAndDownload tests the upload/list/download round trip.
func TestUploadAndDownload(t *testing.T) {
	files, _, users := newTestFiles(t)
	alice := mustCreateUser(t, users, "alice")

	record := mustUpload(t, files, alice, "note.txt", "ten bytes!")
	if record.ID == 0 {
		t.Fatal("record ID should not be zero")
	}
	if record.StorageKey == "" || record.StorageKey == "note.txt" {
		t.Fatalf("storage key must be opaque, got %q", record.StorageKey)
	}

	listed, err := files.ListFor(context.Background(), alice.ID)
	if err != nil {
		t.Fatalf("ListFor failed: %v", err)
	}
	if len(listed) != 1 || listed[0].Name != "note.txt" || listed[0].Size != 10 {
		t.Fatalf("unexpected listing: %+v", listed)
	}

	object, got, _, err := files.Download(context.Background(), record.ID, alice.ID)
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	defer object.Close()
	if got.Name != "note.txt" {
		t.Fatalf("expect note.txt, got %s", got.Name)
	}
	content, err := io.ReadAll(object)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if !bytes.Equal(content, []byte("ten bytes!")) {
		t.Fatalf("content mismatch: %q", content)
	}
}

// TestListOrder tests newest-first ordering.
func TestListOrder(t *testing.T) {
	files, _, users := newTestFiles(t)
	alice := mustCreateUser(t, users, "alice")

	mustUpload(t, files, alice, "first.txt", "a")
	mustUpload(t, files, alice, "second.txt", "b")

	listed, err := files.ListFor(context.Background(), alice.ID)
	if err != nil {
		t.Fatalf("ListFor failed: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expect 2 files, got %d", len(listed))
	}
	if listed[0].Name != "second.txt" {
		t.Fatalf("expect newest first, got %s", listed[0].Name)
	}
}

// TestUploadValidation tests rejected uploads.
func TestUploadValidation(t *testing.T) {
	files, store, users := newTestFiles(t)
	alice := mustCreateUser(t, users, "alice")

	_, err := files.Upload(context.Background(), alice.ID, alice.Handle, "   ", 1, "", strings.NewReader("x"))
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expect ErrValidation for empty name, got %v", err)
	}
	if store.Len() != 0 {
		t.Fatal("rejected upload must not write an object")
	}
}

// TestUploadStorageFailure tests that a failed object write creates no row.
func TestUploadStorageFailure(t *testing.T) {
	files, store, users := newTestFiles(t)
	alice := mustCreateUser(t, users, "alice")

	store.FailPuts = true
	_, err := files.Upload(context.Background(), alice.ID, alice.Handle, "note.txt", 10, "text/plain", strings.NewReader("ten bytes!"))
	if !errors.Is(err, ErrStorage) {
		t.Fatalf("expect ErrStorage, got %v", err)
	}

	var count int64
	testDB.Model(&model.FileRecord{}).Count(&count)
	if count != 0 {
		t.Fatalf("expect no metadata rows after failed put, got %d", count)
	}
}

// TestOwnershipEnforced tests that only the owner can read or delete.
func TestOwnershipEnforced(t *testing.T) {
	files, _, users := newTestFiles(t)
	alice := mustCreateUser(t, users, "alice")
	bob := mustCreateUser(t, users, "bob")

	record := mustUpload(t, files, alice, "note.txt", "ten bytes!")

	if _, err := files.Get(record.ID, bob.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expect ErrForbidden on Get, got %v", err)
	}
	if _, _, _, err := files.Download(context.Background(), record.ID, bob.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expect ErrForbidden on Download, got %v", err)
	}
	if err := files.Delete(context.Background(), record.ID, bob.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expect ErrForbidden on Delete, got %v", err)
	}

	if _, err := files.Get(99999, bob.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expect ErrNotFound for unknown id, got %v", err)
	}
}

// TestDeleteRemovesRowAndObject tests the happy delete path.
func TestDeleteRemovesRowAndObject(t *testing.T) {
	files, store, users := newTestFiles(t)
	alice := mustCreateUser(t, users, "alice")

	record := mustUpload(t, files, alice, "note.txt", "ten bytes!")
	if err := files.Delete(context.Background(), record.ID, alice.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	listed, err := files.ListFor(context.Background(), alice.ID)
	if err != nil {
		t.Fatalf("ListFor failed: %v", err)
	}
	if len(listed) != 0 {
		t.Fatalf("expect empty listing, got %d", len(listed))
	}
	if _, _, _, err := files.Download(context.Background(), record.ID, alice.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expect ErrNotFound after delete, got %v", err)
	}
	if store.Len() != 0 {
		t.Fatal("backing object should be gone")
	}

	var orphans int64
	testDB.Model(&model.OrphanObject{}).Count(&orphans)
	if orphans != 0 {
		t.Fatalf("expect no orphan rows, got %d", orphans)
	}
}

// TestDeleteWithFailingRemove tests that a failed object delete leaves
// an orphan row for the reconciler instead of leaking silently.
func TestDeleteWithFailingRemove(t *testing.T) {
	files, store, users := newTestFiles(t)
	alice := mustCreateUser(t, users, "alice")

	record := mustUpload(t, files, alice, "note.txt", "ten bytes!")
	store.FailRemoves = true
	if err := files.Delete(context.Background(), record.ID, alice.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	// Row gone even though the object delete failed.
	if _, err := files.Get(record.ID, alice.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expect ErrNotFound, got %v", err)
	}
	if store.Len() != 1 {
		t.Fatal("the object should still be there")
	}

	var orphan model.OrphanObject
	if err := testDB.Where("storage_key = ?", record.StorageKey).First(&orphan).Error; err != nil {
		t.Fatalf("expect orphan row: %v", err)
	}

	// The reconciler finishes the job once the store recovers.
	store.FailRemoves = false
	reconciler := NewReconciler(testDB, store)
	if err := reconciler.Process(context.Background(), orphan.ID); err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if store.Len() != 0 {
		t.Fatal("reconciler should delete the object")
	}
	var count int64
	testDB.Model(&model.OrphanObject{}).Count(&count)
	if count != 0 {
		t.Fatalf("expect orphan row cleared, got %d", count)
	}
}

// TestDownloadContentMissing tests the row-without-object case.
func TestDownloadContentMissing(t *testing.T) {
	files, store, users := newTestFiles(t)
	alice := mustCreateUser(t, users, "alice")

	record := mustUpload(t, files, alice, "note.txt", "ten bytes!")
	if err := store.RemoveObject(context.Background(), record.BucketName, record.StorageKey); err != nil {
		t.Fatalf("remove failed: %v", err)
	}

	_, _, _, err := files.Download(context.Background(), record.ID, alice.ID)
	if !errors.Is(err, ErrContentMissing) {
		t.Fatalf("expect ErrContentMissing, got %v", err)
	}
	if !errors.Is(err, ErrNotFound) {
		t.Fatal("ErrContentMissing should still match ErrNotFound")
	}
}

// TestAliceAndBobScenario walks the end-to-end ownership scenario.
func TestAliceAndBobScenario(t *testing.T) {
	files, _, users := newTestFiles(t)
	ctx := context.Background()

	alice := mustCreateUser(t, users, "alice")
	record := mustUpload(t, files, alice, "note.txt", "ten bytes!")

	listed, err := files.ListFor(ctx, alice.ID)
	if err != nil || len(listed) != 1 || listed[0].Name != "note.txt" || listed[0].Size != 10 {
		t.Fatalf("unexpected listing: %v %+v", err, listed)
	}

	bob := mustCreateUser(t, users, "bob")
	if _, _, _, err := files.Download(ctx, record.ID, bob.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("bob should be forbidden, got %v", err)
	}

	if err := files.Delete(ctx, record.ID, alice.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	listed, err = files.ListFor(ctx, alice.ID)
	if err != nil || len(listed) != 0 {
		t.Fatalf("expect empty listing: %v %+v", err, listed)
	}
	if _, _, _, err := files.Download(ctx, record.ID, alice.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expect ErrNotFound after delete, got %v", err)
	}
}
