package history

import (
	"context"
	"time"

	"github.com/gduverger/instapack/internal/domain"
	"github.com/gduverger/instapack/internal/repositories"
	"github.com/gduverger/instapack/pkg/logger"
	"github.com/jackc/pgx/v5/pgxpool"

	sq "github.com/Masterminds/squirrel"
)

type Pgx struct {
	pg     *pgxpool.Pool
	logger logger.Logger
}

func NewPgx(pg *pgxpool.Pool, logger logger.Logger) *Pgx {
	return &Pgx{
		pg:     pg,
		logger: logger.WithComponent("HistoryRepo"),
	}
}

var _ Repository = (*Pgx)(nil)

func (p *Pgx) Record(ctx context.Context, retrieval domain.Retrieval) error {
	query, args, err := repositories.SqBuilder.
		Insert("retrievals").
		Columns("batch_id", "chat_id", "url", "shortcode", "status", "reason", "media_count", "created_at").
		Values(retrieval.BatchID, retrieval.ChatID, retrieval.URL, retrieval.Shortcode,
			retrieval.Status, retrieval.Reason, retrieval.MediaCount, time.Now()).
		ToSql()
	if err != nil {
		return repositories.ErrBadQuery
	}

	_, err = p.pg.Exec(ctx, query, args...)
	return err
}

func (p *Pgx) GetByBatchID(ctx context.Context, batchID string) ([]*domain.Retrieval, error) {
	query, args, err := repositories.SqBuilder.
		Select("id", "batch_id", "chat_id", "url", "shortcode", "status", "reason", "media_count", "created_at").
		From("retrievals").
		Where(sq.Eq{"batch_id": batchID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	rows, err := p.pg.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var retrievals []*domain.Retrieval
	for rows.Next() {
		var r domain.Retrieval
		if err := rows.Scan(&r.ID, &r.BatchID, &r.ChatID, &r.URL, &r.Shortcode,
			&r.Status, &r.Reason, &r.MediaCount, &r.CreatedAt); err != nil {
			return nil, err
		}
		retrievals = append(retrievals, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return retrievals, nil
}

func (p *Pgx) CountByStatus(ctx context.Context, chatID int64) (map[string]int64, error) {
	builder := repositories.SqBuilder.
		Select("status", "COUNT(*)").
		From("retrievals").
		GroupBy("status")
	if chatID != 0 {
		builder = builder.Where(sq.Eq{"chat_id": chatID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	rows, err := p.pg.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

func (p *Pgx) CleanupOldRecords(ctx context.Context, olderThan time.Duration) (int64, error) {
	query, args, err := repositories.SqBuilder.
		Delete("retrievals").
		Where(sq.Lt{"created_at": time.Now().Add(-olderThan)}).
		ToSql()
	if err != nil {
		return 0, repositories.ErrBadQuery
	}

	result, err := p.pg.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
