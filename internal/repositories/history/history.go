package history

import (
	"context"
	"time"

	"github.com/gduverger/instapack/internal/domain"
)

type Repository interface {
	// Record stores one retrieval outcome.
	Record(ctx context.Context, retrieval domain.Retrieval) error

	// GetByBatchID returns all outcomes of one batch run, oldest first.
	GetByBatchID(ctx context.Context, batchID string) ([]*domain.Retrieval, error)

	// CountByStatus returns per-status counters for a chat (all chats when
	// chatID is zero).
	CountByStatus(ctx context.Context, chatID int64) (map[string]int64, error)

	// CleanupOldRecords deletes rows older than the given duration and
	// returns how many were removed.
	CleanupOldRecords(ctx context.Context, olderThan time.Duration) (int64, error)
}
