package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"clickwin_backend/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

type linkRow struct {
	Index    int    `db:"link_index"`
	URL      string `db:"url"`
	ImageURL string `db:"image_url"`
}

func (r *Repository) ListLinks(ctx context.Context) ([]*model.Link, error) {
	query, args, err := squirrel.
		Select("link_index", "url", "image_url").
		From("links").
		OrderBy("link_index").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build links query: %w", err)
	}

	var rows []linkRow
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}

	links := make([]*model.Link, len(rows))
	for i, row := range rows {
		links[i] = &model.Link{
			Index:    row.Index,
			URL:      row.URL,
			ImageURL: row.ImageURL,
		}
	}

	return links, nil
}

func (r *Repository) CreateLink(ctx context.Context, link *model.Link) error {
	query, args, err := squirrel.
		Insert("links").
		SetMap(map[string]interface{}{
			"link_index": link.Index,
			"url":        link.URL,
			"image_url":  link.ImageURL,
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build link insert query: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("failed to insert link: %w", err)
	}

	return nil
}

func (r *Repository) checkLinkExists(ctx context.Context, tx *sqlx.Tx, linkIndex int) error {
	query, args, err := squirrel.
		Select("1").
		From("links").
		Where(squirrel.Eq{"link_index": linkIndex}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	var one int
	err = tx.GetContext(ctx, &one, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrLinkNotFound
		}
		return err
	}

	return nil
}
