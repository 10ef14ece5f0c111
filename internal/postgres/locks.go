package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/servicehq/servicehub/internal/types"
)

// LockKey acquires an advisory lock based on the provided request.
// If Timeout is nil, defaults to 30 seconds. If Timeout is 0 or negative,
// uses fail-fast behavior. Auto released on tx commit/rollback.
// Must be called inside a transaction.
func (c *Client) LockKey(ctx context.Context, req types.LockRequest) error {
	tx := c.TxFromContext(ctx)
	if tx == nil {
		return fmt.Errorf("LockKey must be called inside transaction")
	}

	timeout := req.GetTimeout()

	// Handle zero or negative timeout (fail-fast)
	if timeout <= 0 {
		ok, err := c.TryLockKey(ctx, req.Key)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("lock already held (timeout: 0ms)")
		}
		return nil
	}

	// Set lock_timeout for this transaction (automatically reset on commit/rollback)
	timeoutMs := int(timeout.Milliseconds())
	if err := tx.Exec(fmt.Sprintf("SET LOCAL lock_timeout = %d", timeoutMs)).Error; err != nil {
		return fmt.Errorf("failed to set lock timeout: %w", err)
	}

	// Acquire the lock (will respect lock_timeout we just set)
	if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", req.Key).Error; err != nil {
		if isLockTimeoutError(err) {
			return fmt.Errorf("failed to acquire lock within %v: %w", timeout, err)
		}
		return fmt.Errorf("failed to acquire lock: %w", err)
	}

	return nil
}

// isLockTimeoutError checks if the error is a PostgreSQL lock timeout error
// using the server error code rather than message text.
func isLockTimeoutError(err error) bool {
	if err == nil {
		return false
	}

	// PostgreSQL error code 55P03 = lock_not_available
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "55P03"
	}

	return false
}

// TryLockKey tries acquiring advisory lock immediately.
// Returns ok=false if lock is already held.
// Auto released on tx commit/rollback.
// Must be called inside a transaction.
func (c *Client) TryLockKey(ctx context.Context, key string) (bool, error) {
	tx := c.TxFromContext(ctx)
	if tx == nil {
		return false, fmt.Errorf("TryLockKey must be called inside transaction")
	}

	var ok bool
	if err := tx.Raw("SELECT pg_try_advisory_xact_lock(hashtext(?))", key).Scan(&ok).Error; err != nil {
		return false, err
	}
	return ok, nil
}
