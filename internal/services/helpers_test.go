package services

import (
	"context"
	"sync"
	"time"

	"budgetwise/internal/logger"
)

func init() {
	logger.Init("test")
}

// recordingInvalidator records the owners whose cache was invalidated.
type recordingInvalidator struct {
	mu     sync.Mutex
	owners []string
}

func (r *recordingInvalidator) Invalidate(_ context.Context, ownerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.owners = append(r.owners, ownerID)
}

func (r *recordingInvalidator) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.owners)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
