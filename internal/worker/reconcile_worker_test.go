package worker

import (
	"GoVault/internal/service"
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
)

func TestPickRetryDelay(t *testing.T) {
	delays := []time.Duration{10 * time.Second, 30 * time.Second, 2 * time.Minute}

	cases := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 10 * time.Second},
		{1, 10 * time.Second},
		{2, 30 * time.Second},
		{3, 2 * time.Minute},
		{4, 2 * time.Minute},
		{100, 2 * time.Minute},
	}
	for _, tc := range cases {
		if got := pickRetryDelay(tc.attempt, delays); got != tc.want {
			t.Errorf("attempt %d: got %v, want %v", tc.attempt, got, tc.want)
		}
	}
	if got := pickRetryDelay(1, nil); got != 0 {
		t.Errorf("empty ladder: got %v, want 0", got)
	}
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

var _ net.Error = timeoutErr{}

func TestShouldRetry(t *testing.T) {
	transient := fmt.Errorf("%w: remove orphan: %w", service.ErrStorage, timeoutErr{})
	if !shouldRetry(transient) {
		t.Error("timeouts against the store should retry")
	}

	canceled := fmt.Errorf("%w: remove orphan: %w", service.ErrStorage, context.Canceled)
	if !shouldRetry(canceled) {
		t.Error("context cancellation should retry")
	}

	denied := minio.ErrorResponse{Code: "AccessDenied", StatusCode: 403}
	permanent := fmt.Errorf("%w: remove orphan: %w", service.ErrStorage, denied)
	if shouldRetry(permanent) {
		t.Error("non-transient storage errors should go to the DLQ")
	}

	if !shouldRetry(errors.New("db connection refused")) {
		t.Error("database errors should retry")
	}
}
