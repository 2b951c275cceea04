// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package rate

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

var selectColumns = schema.List(schema.SocialRate.Columns()...)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRate(row rowScanner, extra ...any) (*Rate, error) {
	r := &Rate{}
	dest := append([]any{&r.ID, &r.UserID, &r.BookID, &r.Score, &r.CreatedAt, &r.UpdatedAt}, extra...)
	return r, row.Scan(dest...)
}

func (repository *PostgresRepository) ListByBook(context context.Context, bookID int64, limit, offset int) ([]*Rate, int, error) {
	return repository.list(context, schema.SocialRate.BookID, bookID, limit, offset)
}

func (repository *PostgresRepository) ListByUser(context context.Context, userID int64, limit, offset int) ([]*Rate, int, error) {
	return repository.list(context, schema.SocialRate.UserID, userID, limit, offset)
}

func (repository *PostgresRepository) list(context context.Context, column string, value int64, limit, offset int) ([]*Rate, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER()
		FROM %s
		WHERE %s = $1
		ORDER BY %s DESC
		LIMIT $2 OFFSET $3`,
		selectColumns, schema.SocialRate.Table, column, schema.SocialRate.CreatedAt,
	)

	rows, err := postgres.Conn(context, repository.db).Query(context, query, value, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_rates")
	}
	defer rows.Close()

	var total int
	rates := make([]*Rate, 0)
	for rows.Next() {
		r, err := scanRate(rows, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_rate")
		}
		rates = append(rates, r)
	}
	return rates, total, dberr.Wrap(rows.Err(), "list_rates")
}

func (repository *PostgresRepository) GetRate(context context.Context, id int64) (*Rate, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, selectColumns, schema.SocialRate.Table, schema.SocialRate.ID)

	r, err := scanRate(postgres.Conn(context, repository.db).QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_rate", ErrNotFound)
	}
	return r, nil
}

func (repository *PostgresRepository) FindByUserAndBook(context context.Context, userID, bookID int64) (*Rate, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = $2`,
		selectColumns, schema.SocialRate.Table, schema.SocialRate.UserID, schema.SocialRate.BookID,
	)

	r, err := scanRate(postgres.Conn(context, repository.db).QueryRow(context, query, userID, bookID))
	if err != nil {
		return nil, dberr.Wrap(err, "find_rate", ErrNotFound)
	}
	return r, nil
}

func (repository *PostgresRepository) CreateRate(context context.Context, r *Rate) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		VALUES ($1, $2, $3)
		RETURNING %s, %s, %s`,
		schema.SocialRate.Table, schema.SocialRate.UserID, schema.SocialRate.BookID, schema.SocialRate.Score,
		schema.SocialRate.ID, schema.SocialRate.CreatedAt, schema.SocialRate.UpdatedAt,
	)

	err := postgres.Conn(context, repository.db).
		QueryRow(context, query, r.UserID, r.BookID, r.Score).
		Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt)
	if dberr.IsUniqueViolation(err) {
		return ErrDuplicate
	}
	return dberr.Wrap(err, "create_rate")
}

func (repository *PostgresRepository) UpdateScore(context context.Context, id int64, score int) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1`,
		schema.SocialRate.Table, schema.SocialRate.Score, schema.SocialRate.UpdatedAt, schema.SocialRate.ID,
	)

	tag, err := postgres.Conn(context, repository.db).Exec(context, query, id, score)
	if err != nil {
		return dberr.Wrap(err, "update_rate")
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) DeleteRate(context context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.SocialRate.Table, schema.SocialRate.ID)

	tag, err := postgres.Conn(context, repository.db).Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_rate")
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) Summarize(context context.Context, bookID int64) (*Summary, error) {
	query := fmt.Sprintf(`SELECT COALESCE(AVG(%s), 0)::float8, COUNT(*) FROM %s WHERE %s = $1`,
		schema.SocialRate.Score, schema.SocialRate.Table, schema.SocialRate.BookID,
	)

	summary := &Summary{BookID: bookID}
	err := postgres.Conn(context, repository.db).QueryRow(context, query, bookID).Scan(&summary.Average, &summary.Count)
	if err != nil {
		return nil, dberr.Wrap(err, "summarize_rates")
	}
	return summary, nil
}
