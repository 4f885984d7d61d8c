package sync

import (
	"context"
	"errors"
	"hash/fnv"
	"strings"
)

// Runner executes a single reconciliation pass.
type Runner interface {
	RunOnce(context.Context) error
}

// ErrNoKinds is returned when a runner has no catalog kinds to reconcile.
var ErrNoKinds = errors.New("no connector catalog kinds are configured")

// ErrSyncAlreadyRunning is returned by a try-lock runner when another pass
// is already in progress.
var ErrSyncAlreadyRunning = errors.New("catalog sync is already running")

// LockKey derives a stable Postgres advisory lock key for a scope.
func LockKey(scope, name string) int64 {
	scope = strings.ToLower(strings.TrimSpace(scope))
	name = strings.ToLower(strings.TrimSpace(name))

	h := fnv.New64a()
	_, _ = h.Write([]byte(scope))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(name))
	return int64(h.Sum64())
}
