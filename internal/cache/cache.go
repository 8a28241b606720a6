// Package cache stores composed dashboards so repeated views skip the
// storage round trips. Entries are scoped by a per-owner generation number
// that every mutation bumps, so an entry never outlives a relevant change.
package cache

import (
	"context"
	"fmt"
	"time"

	"budgetwise/internal/analytics"
)

// Key identifies a dashboard view.
type Key struct {
	OwnerID string
	Range   analytics.Window
	// Today is the calendar day the view was computed on. Budget status
	// depends on the current date, so views do not carry across days.
	Today time.Time
}

// Invalidator discards every cached view of an owner.
type Invalidator interface {
	Invalidate(ctx context.Context, ownerID string)
}

// DashboardCache caches dashboards.
//
// Get returns a token alongside the lookup result. The token binds to the
// owner's generation at lookup time and must be handed to Set, so a view
// computed before a concurrent invalidation is stored where it can no longer
// be read.
type DashboardCache interface {
	Invalidator
	Get(ctx context.Context, key Key) (dash *analytics.Dashboard, token string, ok bool)
	Set(ctx context.Context, token string, dash *analytics.Dashboard)
}

// Noop is a DashboardCache that never stores anything.
type Noop struct{}

func (Noop) Get(context.Context, Key) (*analytics.Dashboard, string, bool) { return nil, "", false }
func (Noop) Set(context.Context, string, *analytics.Dashboard) {}
func (Noop) Invalidate(context.Context, string) {}

const keyPrefix = "budgetwise"

func generationKey(ownerID string) string {
	return fmt.Sprintf("%s:gen:%s", keyPrefix, ownerID)
}

func dashboardKey(generation string, key Key) string {
	return fmt.Sprintf("%s:dash:%s:%s:%s:%s:%s",
		keyPrefix,
		key.OwnerID,
		generation,
		key.Range.Start.UTC().Format(time.RFC3339Nano),
		key.Range.End.UTC().Format(time.RFC3339Nano),
		key.Today.Format(time.DateOnly),
	)
}
