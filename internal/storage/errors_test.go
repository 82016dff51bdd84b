package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/minio/minio-go/v7"
)

// TestIsNotFound tests not-found classification.
func TestIsNotFound(t *testing.T) {
	if !IsNotFound(ErrObjectNotFound) {
		t.Fatal("ErrObjectNotFound should classify as not found")
	}
	if !IsNotFound(fmt.Errorf("wrapped: %w", ErrObjectNotFound)) {
		t.Fatal("wrapped ErrObjectNotFound should classify as not found")
	}
	if !IsNotFound(minio.ErrorResponse{Code: "NoSuchKey", StatusCode: http.StatusNotFound}) {
		t.Fatal("NoSuchKey should classify as not found")
	}
	if IsNotFound(minio.ErrorResponse{Code: "InternalError", StatusCode: http.StatusInternalServerError}) {
		t.Fatal("InternalError should not classify as not found")
	}
	if IsNotFound(nil) {
		t.Fatal("nil is not an error")
	}
}

// TestIsTransient tests retryability classification.
func TestIsTransient(t *testing.T) {
	if IsTransient(nil) {
		t.Fatal("nil is not transient")
	}
	if IsTransient(ErrObjectNotFound) {
		t.Fatal("not-found is permanent")
	}
	if !IsTransient(context.DeadlineExceeded) {
		t.Fatal("deadline exceeded is transient")
	}
	if !IsTransient(minio.ErrorResponse{Code: "SlowDown", StatusCode: http.StatusServiceUnavailable}) {
		t.Fatal("SlowDown is transient")
	}
	if !IsTransient(minio.ErrorResponse{StatusCode: http.StatusTooManyRequests}) {
		t.Fatal("429 is transient")
	}
	if IsTransient(minio.ErrorResponse{Code: "AccessDenied", StatusCode: http.StatusForbidden}) {
		t.Fatal("access denied is permanent")
	}
	if !IsTransient(errors.New("connection reset")) {
		t.Fatal("unknown errors default to transient")
	}
}
