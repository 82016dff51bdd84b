package storage

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/minio/minio-go/v7"
)

// ErrObjectNotFound is returned by the memory store and recognized by
// IsNotFound for any Store implementation.
var ErrObjectNotFound = errors.New("object not found")

// IsNotFound reports whether err means the object does not exist.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrObjectNotFound) {
		return true
	}
	var resp minio.ErrorResponse
	if errors.As(err, &resp) {
		return resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket" || resp.StatusCode == http.StatusNotFound
	}
	return false
}

// IsTransient reports whether err is worth retrying: network trouble,
// timeouts and server-side 5xx/429 responses. Not-found and access
// errors are permanent.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if IsNotFound(err) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var resp minio.ErrorResponse
	if errors.As(err, &resp) {
		if resp.StatusCode == http.StatusTooManyRequests {
			return true
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return true
		}
		switch resp.Code {
		case "SlowDown", "InternalError", "ServiceUnavailable", "RequestTimeout":
			return true
		}
		return false
	}
	// Unknown error shapes are treated as transient so the reconcile
	// worker keeps trying instead of leaking objects.
	return true
}
