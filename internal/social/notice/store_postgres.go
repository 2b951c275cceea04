// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package notice

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/blablabook/internal/platform/database/schema"
	"github.com/taibuivan/blablabook/internal/platform/dberr"
	"github.com/taibuivan/blablabook/internal/platform/postgres"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var selectColumns = schema.List(schema.SocialNotice.Columns()...)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNotice(row rowScanner, extra ...any) (*Notice, error) {
	n := &Notice{}
	dest := append([]any{
		&n.ID, &n.UserID, &n.BookID, &n.Title, &n.Content, &n.IsSpoiler, &n.IsPublic, &n.CreatedAt, &n.UpdatedAt,
	}, extra...)
	return n, row.Scan(dest...)
}

func (repository *PostgresRepository) ListByBook(context context.Context, bookID, viewerID int64, limit, offset int) ([]*Notice, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER()
		FROM %s
		WHERE %s = $1 AND (%s OR %s = $2)
		ORDER BY %s DESC
		LIMIT $3 OFFSET $4`,
		selectColumns, schema.SocialNotice.Table,
		schema.SocialNotice.BookID, schema.SocialNotice.IsPublic, schema.SocialNotice.UserID,
		schema.SocialNotice.CreatedAt,
	)
	return repository.list(context, query, bookID, viewerID, limit, offset)
}

func (repository *PostgresRepository) ListByUser(context context.Context, userID int64, limit, offset int) ([]*Notice, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER()
		FROM %s
		WHERE %s = $1
		ORDER BY %s DESC
		LIMIT $2 OFFSET $3`,
		selectColumns, schema.SocialNotice.Table, schema.SocialNotice.UserID, schema.SocialNotice.CreatedAt,
	)
	return repository.list(context, query, userID, limit, offset)
}

func (repository *PostgresRepository) list(context context.Context, query string, args ...any) ([]*Notice, int, error) {
	rows, err := postgres.Conn(context, repository.db).Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_notices")
	}
	defer rows.Close()

	var total int
	notices := make([]*Notice, 0)
	for rows.Next() {
		n, err := scanNotice(rows, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_notice")
		}
		notices = append(notices, n)
	}
	return notices, total, dberr.Wrap(rows.Err(), "list_notices")
}

func (repository *PostgresRepository) GetNotice(context context.Context, id int64) (*Notice, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, selectColumns, schema.SocialNotice.Table, schema.SocialNotice.ID)

	n, err := scanNotice(postgres.Conn(context, repository.db).QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_notice", ErrNotFound)
	}
	return n, nil
}

func (repository *PostgresRepository) CreateNotice(context context.Context, n *Notice) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s, %s, %s`,
		schema.SocialNotice.Table,
		schema.SocialNotice.UserID, schema.SocialNotice.BookID, schema.SocialNotice.Title,
		schema.SocialNotice.Content, schema.SocialNotice.IsSpoiler, schema.SocialNotice.IsPublic,
		schema.SocialNotice.ID, schema.SocialNotice.CreatedAt, schema.SocialNotice.UpdatedAt,
	)

	err := postgres.Conn(context, repository.db).
		QueryRow(context, query, n.UserID, n.BookID, n.Title, n.Content, n.IsSpoiler, n.IsPublic).
		Scan(&n.ID, &n.CreatedAt, &n.UpdatedAt)
	return dberr.Wrap(err, "create_notice")
}

func (repository *PostgresRepository) UpdateNotice(context context.Context, n *Notice) error {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $5, %s = NOW()
		WHERE %s = $1
		RETURNING %s`,
		schema.SocialNotice.Table,
		schema.SocialNotice.Title, schema.SocialNotice.Content, schema.SocialNotice.IsSpoiler,
		schema.SocialNotice.IsPublic, schema.SocialNotice.UpdatedAt,
		schema.SocialNotice.ID,
		schema.SocialNotice.UpdatedAt,
	)

	err := postgres.Conn(context, repository.db).
		QueryRow(context, query, n.ID, n.Title, n.Content, n.IsSpoiler, n.IsPublic).
		Scan(&n.UpdatedAt)
	return dberr.Wrap(err, "update_notice", ErrNotFound)
}

func (repository *PostgresRepository) DeleteNotice(context context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.SocialNotice.Table, schema.SocialNotice.ID)

	tag, err := postgres.Conn(context, repository.db).Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_notice")
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
