package sync

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/open-sspm/connector-catalog/internal/db/gen"
)

var globalRunOnceLockKey = LockKey("catalog", "runonce")

// sessionLocker takes session-level advisory locks on one pinned connection.
type sessionLocker interface {
	AcquireAdvisoryLock(ctx context.Context, key int64) error
	TryAcquireAdvisoryLock(ctx context.Context, key int64) (bool, error)
	ReleaseAdvisoryLock(ctx context.Context, key int64) error
}

type acquireFunc func(ctx context.Context) (sessionLocker, func(), error)

type runOnceLockRunner struct {
	acquire acquireFunc
	inner   Runner
	tryLock bool
}

// NewBlockingRunOnceLockRunner waits for any in-flight pass before running inner.
func NewBlockingRunOnceLockRunner(pool *pgxpool.Pool, inner Runner) Runner {
	return &runOnceLockRunner{acquire: poolAcquire(pool), inner: inner}
}

// NewTryRunOnceLockRunner returns ErrSyncAlreadyRunning instead of waiting.
func NewTryRunOnceLockRunner(pool *pgxpool.Pool, inner Runner) Runner {
	return &runOnceLockRunner{acquire: poolAcquire(pool), inner: inner, tryLock: true}
}

func poolAcquire(pool *pgxpool.Pool) acquireFunc {
	if pool == nil {
		return nil
	}
	return func(ctx context.Context) (sessionLocker, func(), error) {
		conn, err := pool.Acquire(ctx)
		if err != nil {
			return nil, nil, err
		}
		return gen.New(conn), conn.Release, nil
	}
}

func (r *runOnceLockRunner) RunOnce(ctx context.Context) error {
	if r == nil || r.acquire == nil || r.inner == nil {
		return errors.New("catalog sync runner is not configured")
	}

	lockQ, release, err := r.acquire(ctx)
	if err != nil {
		return err
	}

	locked := false
	defer func() {
		if locked {
			unlockCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			_ = lockQ.ReleaseAdvisoryLock(unlockCtx, globalRunOnceLockKey)
		}
		release()
	}()

	if r.tryLock {
		ok, err := lockQ.TryAcquireAdvisoryLock(ctx, globalRunOnceLockKey)
		if err != nil {
			return err
		}
		if !ok {
			return ErrSyncAlreadyRunning
		}
	} else if err := lockQ.AcquireAdvisoryLock(ctx, globalRunOnceLockKey); err != nil {
		return err
	}
	locked = true

	return r.inner.RunOnce(ctx)
}
