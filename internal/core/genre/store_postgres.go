// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package genre

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

func (repository *PostgresRepository) ListGenres(context context.Context) ([]*Genre, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s ASC`,
		schema.List(schema.CoreGenre.ID, schema.CoreGenre.Name, schema.CoreGenre.Slug, schema.CoreGenre.CreatedAt),
		schema.CoreGenre.Table, schema.CoreGenre.Name)

	rows, err := postgres.Conn(context, repository.db).Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_genres")
	}
	defer rows.Close()

	genres := make([]*Genre, 0)
	for rows.Next() {
		g := &Genre{}
		if err := rows.Scan(&g.ID, &g.Name, &g.Slug, &g.CreatedAt); err != nil {
			return nil, dberr.Wrap(err, "scan_genre")
		}
		genres = append(genres, g)
	}

	return genres, dberr.Wrap(rows.Err(), "list_genres")
}

func (repository *PostgresRepository) GetGenre(context context.Context, id int64) (*Genre, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.List(schema.CoreGenre.ID, schema.CoreGenre.Name, schema.CoreGenre.Slug, schema.CoreGenre.CreatedAt),
		schema.CoreGenre.Table, schema.CoreGenre.ID)

	g := &Genre{}
	err := postgres.Conn(context, repository.db).QueryRow(context, query, id).Scan(&g.ID, &g.Name, &g.Slug, &g.CreatedAt)
	if err != nil {
		return nil, dberr.Wrap(err, "get_genre", ErrNotFound)
	}
	return g, nil
}

// FindOrCreate upserts on the slug. The no-op update lets RETURNING yield the existing row.
func (repository *PostgresRepository) FindOrCreate(context context.Context, name, slug string) (*Genre, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s)
		VALUES ($1, $2)
		ON CONFLICT (%s) DO UPDATE SET %s = EXCLUDED.%s
		RETURNING %s
	`,
		schema.CoreGenre.Table, schema.CoreGenre.Name, schema.CoreGenre.Slug,
		schema.CoreGenre.Slug, schema.CoreGenre.Slug, schema.CoreGenre.Slug,
		schema.List(schema.CoreGenre.ID, schema.CoreGenre.Name, schema.CoreGenre.Slug, schema.CoreGenre.CreatedAt),
	)

	g := &Genre{}
	err := postgres.Conn(context, repository.db).QueryRow(context, query, name, slug).Scan(&g.ID, &g.Name, &g.Slug, &g.CreatedAt)
	if err != nil {
		return nil, dberr.Wrap(err, "find_or_create_genre")
	}
	return g, nil
}
