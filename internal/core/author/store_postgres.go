// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package author

import (
	"context"
	"fmt"
	"strconv"

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

// selectColumns is the projection scanned by scanAuthor.
var selectColumns = schema.List(
	schema.CoreAuthor.ID, schema.CoreAuthor.Name, schema.CoreAuthor.OpenLibraryKey, schema.CoreAuthor.ImageURL,
	schema.CoreAuthor.Bio, schema.CoreAuthor.CreatedAt, schema.CoreAuthor.UpdatedAt,
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAuthor(row rowScanner) (*Author, error) {
	a := &Author{}
	err := row.Scan(&a.ID, &a.Name, &a.OpenLibraryKey, &a.ImageURL, &a.Bio, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func (repository *PostgresRepository) ListAuthors(context context.Context, f Filter, limit, offset int) ([]*Author, int, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE TRUE`, selectColumns, schema.CoreAuthor.Table)
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s WHERE TRUE`, schema.CoreAuthor.Table)

	args := []any{}
	countArgs := []any{}

	if f.Query != "" {
		searchTerm := "%" + f.Query + "%"
		query += fmt.Sprintf(` AND %s ILIKE $1`, schema.CoreAuthor.Name)
		countQuery += fmt.Sprintf(` AND %s ILIKE $1`, schema.CoreAuthor.Name)
		args = append(args, searchTerm)
		countArgs = append(countArgs, searchTerm)
	}

	query += fmt.Sprintf(" ORDER BY %s ASC LIMIT $", schema.CoreAuthor.Name) + itos(len(args)+1) + ` OFFSET $` + itos(len(args)+2)
	args = append(args, limit, offset)

	db := postgres.Conn(context, repository.db)

	var total int
	if err := db.QueryRow(context, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_authors")
	}

	rows, err := db.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_authors")
	}
	defer rows.Close()

	authors := make([]*Author, 0)
	for rows.Next() {
		a, err := scanAuthor(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_author")
		}
		authors = append(authors, a)
	}

	return authors, total, dberr.Wrap(rows.Err(), "list_authors")
}

func (repository *PostgresRepository) GetAuthor(context context.Context, id int64) (*Author, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, selectColumns, schema.CoreAuthor.Table, schema.CoreAuthor.ID)

	a, err := scanAuthor(postgres.Conn(context, repository.db).QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_author", ErrNotFound)
	}
	return a, nil
}

func (repository *PostgresRepository) CreateAuthor(context context.Context, a *Author) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
		RETURNING %s, %s, %s
	`,
		schema.CoreAuthor.Table, schema.CoreAuthor.Name, schema.CoreAuthor.OpenLibraryKey, schema.CoreAuthor.ImageURL,
		schema.CoreAuthor.Bio,
		schema.CoreAuthor.ID, schema.CoreAuthor.CreatedAt, schema.CoreAuthor.UpdatedAt,
	)

	err := postgres.Conn(context, repository.db).QueryRow(context, query, a.Name, a.OpenLibraryKey, a.ImageURL, a.Bio).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	return dberr.Wrap(err, "create_author")
}

func (repository *PostgresRepository) UpdateAuthor(context context.Context, a *Author) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = NOW()
		WHERE %s = $1
		RETURNING %s, %s, %s
	`,
		schema.CoreAuthor.Table, schema.CoreAuthor.Name, schema.CoreAuthor.ImageURL, schema.CoreAuthor.Bio,
		schema.CoreAuthor.UpdatedAt, schema.CoreAuthor.ID,
		schema.CoreAuthor.OpenLibraryKey, schema.CoreAuthor.CreatedAt, schema.CoreAuthor.UpdatedAt,
	)

	err := postgres.Conn(context, repository.db).QueryRow(context, query, a.ID, a.Name, a.ImageURL, a.Bio).
		Scan(&a.OpenLibraryKey, &a.CreatedAt, &a.UpdatedAt)
	return dberr.Wrap(err, "update_author", ErrNotFound)
}

func (repository *PostgresRepository) DeleteAuthor(context context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.CoreAuthor.Table, schema.CoreAuthor.ID)

	cmd, err := postgres.Conn(context, repository.db).Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_author")
	}

	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// FindOrCreateByOpenLibraryKey upserts on the key. The no-op update lets
// RETURNING yield an existing row; its stored name is kept.
func (repository *PostgresRepository) FindOrCreateByOpenLibraryKey(context context.Context, key, name string) (*Author, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s)
		VALUES ($1, $2)
		ON CONFLICT (%s) DO UPDATE SET %s = EXCLUDED.%s
		RETURNING %s
	`,
		schema.CoreAuthor.Table, schema.CoreAuthor.Name, schema.CoreAuthor.OpenLibraryKey,
		schema.CoreAuthor.OpenLibraryKey, schema.CoreAuthor.OpenLibraryKey, schema.CoreAuthor.OpenLibraryKey,
		selectColumns,
	)

	a, err := scanAuthor(postgres.Conn(context, repository.db).QueryRow(context, query, name, key))
	if err != nil {
		return nil, dberr.Wrap(err, "find_or_create_author")
	}
	return a, nil
}

func (repository *PostgresRepository) ApplyEnrichment(context context.Context, id int64, name string, imageURL, bio *string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = COALESCE(NULLIF($2, ''), %s),
		    %s = COALESCE($3, %s),
		    %s = COALESCE($4, %s),
		    %s = NOW()
		WHERE %s = $1
	`,
		schema.CoreAuthor.Table,
		schema.CoreAuthor.Name, schema.CoreAuthor.Name,
		schema.CoreAuthor.ImageURL, schema.CoreAuthor.ImageURL,
		schema.CoreAuthor.Bio, schema.CoreAuthor.Bio,
		schema.CoreAuthor.UpdatedAt, schema.CoreAuthor.ID,
	)

	cmd, err := postgres.Conn(context, repository.db).Exec(context, query, id, name, imageURL, bio)
	if err != nil {
		return dberr.Wrap(err, "enrich_author")
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func itos(i int) string {
	return strconv.Itoa(i)
}
