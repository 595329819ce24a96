package repository

import (
	"context"
	"fmt"
	"time"

	"clickwin_backend/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

type statisticsRow struct {
	Day        time.Time `db:"day"`
	LinkClicks int       `db:"link_clicks"`
}

// incrementLinkClicks upserts the per-day click counter. One row per UTC
// calendar day, keyed by date.
func (r *Repository) incrementLinkClicks(ctx context.Context, tx *sqlx.Tx, at time.Time) error {
	day := at.UTC().Truncate(24 * time.Hour)

	query, args, err := squirrel.
		Insert("daily_statistics").
		Columns("day", "link_clicks").
		Values(day, 1).
		Suffix("ON CONFLICT (day) DO UPDATE SET link_clicks = daily_statistics.link_clicks + 1").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build statistics upsert query: %w", err)
	}

	_, err = tx.ExecContext(ctx, query, args...)
	return err
}

func (r *Repository) GetDailyStatistics(ctx context.Context, days int) ([]*model.DailyStatistics, error) {
	query, args, err := squirrel.
		Select("day", "link_clicks").
		From("daily_statistics").
		OrderBy("day DESC").
		Limit(uint64(days)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build statistics query: %w", err)
	}

	var rows []statisticsRow
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily statistics: %w", err)
	}

	stats := make([]*model.DailyStatistics, len(rows))
	for i, row := range rows {
		stats[i] = &model.DailyStatistics{
			Day:        row.Day,
			LinkClicks: row.LinkClicks,
		}
	}

	return stats, nil
}
