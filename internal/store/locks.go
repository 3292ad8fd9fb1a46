package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/perankh/perankh/internal/oldworld"
)

// AcquireLock claims the cross-process import lock for a game. The upsert
// succeeds when no row exists or the existing row is older than the
// staleness horizon; otherwise zero rows change and ErrLockHeld comes
// back. Returns the token identifying this holder.
func (s *Store) AcquireLock(ctx context.Context, gameID string) (string, error) {
	token := uuid.NewString()
	staleSeconds := int(s.staleAfter.Seconds())

	res, err := s.db.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO match_locks (game_id, locked_at, locked_by)
		VALUES (?, datetime('now'), ?)
		ON CONFLICT (game_id) DO UPDATE SET
			locked_at = datetime('now'),
			locked_by = excluded.locked_by
		WHERE match_locks.locked_at < datetime('now', '-%d seconds')`, staleSeconds),
		gameID, token)
	if err != nil {
		return "", fmt.Errorf("acquire lock for %s: %w", gameID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("acquire lock for %s: %w", gameID, err)
	}
	if n == 0 {
		s.log.Warn("import lock held by another process", zap.String("game_id", gameID))
		return "", oldworld.ErrLockHeld
	}

	s.log.Debug("acquired import lock",
		zap.String("game_id", gameID), zap.String("token", token))
	return token, nil
}

// ReleaseLock drops the lock row if this holder still owns it. A stolen
// lock (taken over after going stale) is left alone.
func (s *Store) ReleaseLock(ctx context.Context, gameID, token string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM match_locks WHERE game_id = ? AND locked_by = ?", gameID, token)
	if err != nil {
		return fmt.Errorf("release lock for %s: %w", gameID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		s.log.Warn("lock already released or taken over", zap.String("game_id", gameID))
	}
	return nil
}

// CleanupStaleLocks removes every lock row past the staleness horizon and
// returns how many were dropped.
func (s *Store) CleanupStaleLocks(ctx context.Context) (int64, error) {
	staleSeconds := int(s.staleAfter.Seconds())
	res, err := s.db.ExecContext(ctx, fmt.Sprintf(
		"DELETE FROM match_locks WHERE locked_at < datetime('now', '-%d seconds')", staleSeconds))
	if err != nil {
		return 0, fmt.Errorf("cleanup stale locks: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("cleanup stale locks: %w", err)
	}
	if n > 0 {
		s.log.Info("removed stale import locks", zap.Int64("count", n))
	}
	return n, nil
}
