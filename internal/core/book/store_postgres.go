// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/blablabook/internal/platform/database/schema"
	"github.com/taibuivan/blablabook/internal/platform/dberr"
	"github.com/taibuivan/blablabook/internal/platform/postgres"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed book store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// bookColumns is the bare projection scanned by scanBook, aliased "b".
var bookColumns = schema.Qualified("b",
	schema.CoreBook.ID, schema.CoreBook.Title, schema.CoreBook.Description, schema.CoreBook.PublicationYear,
	schema.CoreBook.PageCount, schema.CoreBook.CoverURL, schema.CoreBook.OpenLibraryKey, schema.CoreBook.ImportStatus,
	schema.CoreBook.ImportedBy, schema.CoreBook.ImportedAt, schema.CoreBook.ImportReason,
	schema.CoreBook.CreatedAt, schema.CoreBook.UpdatedAt,
)

// relationColumns aggregates authors and genres into JSON arrays so a book is
// hydrated in one round-trip.
var relationColumns = fmt.Sprintf(`
	COALESCE((
		SELECT json_agg(json_build_object(
			'id', a.%s, 'name', a.%s, 'open_library_key', a.%s, 'image_url', a.%s, 'bio', a.%s,
			'created_at', a.%s, 'updated_at', a.%s) ORDER BY a.%s)
		FROM %s a
		JOIN %s ba ON a.%s = ba.%s
		WHERE ba.%s = b.%s
	), '[]') AS authors,
	COALESCE((
		SELECT json_agg(json_build_object('id', g.%s, 'name', g.%s, 'slug', g.%s) ORDER BY g.%s)
		FROM %s g
		JOIN %s bg ON g.%s = bg.%s
		WHERE bg.%s = b.%s
	), '[]') AS genres`,
	schema.CoreAuthor.ID, schema.CoreAuthor.Name, schema.CoreAuthor.OpenLibraryKey, schema.CoreAuthor.ImageURL,
	schema.CoreAuthor.Bio, schema.CoreAuthor.CreatedAt, schema.CoreAuthor.UpdatedAt, schema.CoreAuthor.Name,
	schema.CoreAuthor.Table, schema.BookAuthor.Table, schema.CoreAuthor.ID, schema.BookAuthor.AuthorID,
	schema.BookAuthor.BookID, schema.CoreBook.ID,
	schema.CoreGenre.ID, schema.CoreGenre.Name, schema.CoreGenre.Slug, schema.CoreGenre.Name,
	schema.CoreGenre.Table, schema.BookGenre.Table, schema.CoreGenre.ID, schema.BookGenre.GenreID,
	schema.BookGenre.BookID, schema.CoreBook.ID,
)

type rowScanner interface {
	Scan(dest ...any) error
}

// scanBook reads bookColumns followed by any extra destinations.
func scanBook(row rowScanner, extra ...any) (*Book, error) {
	b := &Book{}
	var status string
	var reason *string

	dest := []any{
		&b.ID, &b.Title, &b.Description, &b.PublicationYear, &b.PageCount, &b.CoverURL, &b.OpenLibraryKey,
		&status, &b.ImportedBy, &b.ImportedAt, &reason, &b.CreatedAt, &b.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	b.ImportStatus = ImportStatus(status)
	if reason != nil {
		r := ImportReason(*reason)
		b.ImportReason = &r
	}
	return b, nil
}

// scanHydrated reads a book plus its aggregated authors and genres.
func scanHydrated(row rowScanner, extra ...any) (*Book, error) {
	var authorsJSON, genresJSON []byte

	b, err := scanBook(row, append([]any{&authorsJSON, &genresJSON}, extra...)...)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(authorsJSON, &b.Authors); err != nil {
		return nil, fmt.Errorf("decode authors: %w", err)
	}
	if err := json.Unmarshal(genresJSON, &b.Genres); err != nil {
		return nil, fmt.Errorf("decode genres: %w", err)
	}
	return b, nil
}

// # Reads

/*
ListBooks returns a filtered, paginated slice of books and the total count.

The total comes from COUNT(*) OVER() so a single query serves both.
*/
func (repository *PostgresRepository) ListBooks(context context.Context, filter Filter, limit, offset int) ([]*Book, int, error) {
	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(fmt.Sprintf(`SELECT %s, %s, COUNT(*) OVER() AS total_count FROM %s b WHERE TRUE`,
		bookColumns, relationColumns, schema.CoreBook.Table))

	if filter.Query != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND b.%s ILIKE $%d", schema.CoreBook.Title, argID))
		args = append(args, "%"+filter.Query+"%")
		argID++
	}

	if len(filter.GenreIDs) > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" AND EXISTS (SELECT 1 FROM %s WHERE %s = b.%s AND %s = ANY($%d))",
			schema.BookGenre.Table, schema.BookGenre.BookID, schema.CoreBook.ID, schema.BookGenre.GenreID, argID))
		args = append(args, filter.GenreIDs)
		argID++
	}

	if filter.AuthorID != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND EXISTS (SELECT 1 FROM %s WHERE %s = b.%s AND %s = $%d)",
			schema.BookAuthor.Table, schema.BookAuthor.BookID, schema.CoreBook.ID, schema.BookAuthor.AuthorID, argID))
		args = append(args, *filter.AuthorID)
		argID++
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY b.%s ASC, b.%s ASC LIMIT $%d OFFSET $%d",
		schema.CoreBook.Title, schema.CoreBook.ID, argID, argID+1))
	args = append(args, limit, offset)

	rows, err := postgres.Conn(context, repository.db).Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_books")
	}
	defer rows.Close()

	total := 0
	books := make([]*Book, 0)
	for rows.Next() {
		b, err := scanHydrated(rows, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_book")
		}
		books = append(books, b)
	}

	return books, total, dberr.Wrap(rows.Err(), "list_books")
}

func (repository *PostgresRepository) GetBook(context context.Context, id int64) (*Book, error) {
	query := fmt.Sprintf(`SELECT %s, %s FROM %s b WHERE b.%s = $1`,
		bookColumns, relationColumns, schema.CoreBook.Table, schema.CoreBook.ID)

	b, err := scanHydrated(postgres.Conn(context, repository.db).QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_book", ErrNotFound)
	}
	return b, nil
}

func (repository *PostgresRepository) GetByOpenLibraryKey(context context.Context, key string) (*Book, error) {
	query := fmt.Sprintf(`SELECT %s, %s FROM %s b WHERE b.%s = $1`,
		bookColumns, relationColumns, schema.CoreBook.Table, schema.CoreBook.OpenLibraryKey)

	b, err := scanHydrated(postgres.Conn(context, repository.db).QueryRow(context, query, key))
	if err != nil {
		return nil, dberr.Wrap(err, "get_book_by_key", ErrNotFound)
	}
	return b, nil
}

func (repository *PostgresRepository) LockBook(context context.Context, id int64) (*Book, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s b WHERE b.%s = $1 FOR UPDATE`,
		bookColumns, schema.CoreBook.Table, schema.CoreBook.ID)

	b, err := scanBook(postgres.Conn(context, repository.db).QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "lock_book", ErrNotFound)
	}
	return b, nil
}

func (repository *PostgresRepository) CountEngagements(context context.Context, id int64) (int, error) {
	query := fmt.Sprintf(`
		SELECT (SELECT count(*) FROM %s WHERE %s = $1)
		     + (SELECT count(*) FROM %s WHERE %s = $1)
		     + (SELECT count(*) FROM %s WHERE %s = $1)
	`,
		schema.SocialRate.Table, schema.SocialRate.BookID,
		schema.SocialNotice.Table, schema.SocialNotice.BookID,
		schema.LibraryReadingList.Table, schema.LibraryReadingList.BookID,
	)

	var count int
	if err := postgres.Conn(context, repository.db).QueryRow(context, query, id).Scan(&count); err != nil {
		return 0, dberr.Wrap(err, "count_book_engagements")
	}
	return count, nil
}

// # Writes

func (repository *PostgresRepository) CreateBook(context context.Context, b *Book) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING %s, %s, %s
	`,
		schema.CoreBook.Table,
		schema.CoreBook.Title, schema.CoreBook.Description, schema.CoreBook.PublicationYear, schema.CoreBook.PageCount,
		schema.CoreBook.CoverURL, schema.CoreBook.OpenLibraryKey, schema.CoreBook.ImportStatus,
		schema.CoreBook.ImportedBy, schema.CoreBook.ImportedAt, schema.CoreBook.ImportReason,
		schema.CoreBook.ID, schema.CoreBook.CreatedAt, schema.CoreBook.UpdatedAt,
	)

	var reason *string
	if b.ImportReason != nil {
		r := string(*b.ImportReason)
		reason = &r
	}

	err := postgres.Conn(context, repository.db).QueryRow(context, query,
		b.Title, b.Description, b.PublicationYear, b.PageCount, b.CoverURL, b.OpenLibraryKey,
		string(b.ImportStatus), b.ImportedBy, b.ImportedAt, reason,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)

	return dberr.Wrap(err, "create_book")
}

func (repository *PostgresRepository) LinkAuthor(context context.Context, bookID, authorID int64) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		schema.BookAuthor.Table, schema.BookAuthor.BookID, schema.BookAuthor.AuthorID)

	_, err := postgres.Conn(context, repository.db).Exec(context, query, bookID, authorID)
	return dberr.Wrap(err, "link_book_author")
}

func (repository *PostgresRepository) LinkGenre(context context.Context, bookID, genreID int64) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		schema.BookGenre.Table, schema.BookGenre.BookID, schema.BookGenre.GenreID)

	_, err := postgres.Conn(context, repository.db).Exec(context, query, bookID, genreID)
	return dberr.Wrap(err, "link_book_genre")
}

func (repository *PostgresRepository) Confirm(context context.Context, id int64) (bool, error) {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1 AND %s = $3`,
		schema.CoreBook.Table, schema.CoreBook.ImportStatus, schema.CoreBook.UpdatedAt,
		schema.CoreBook.ID, schema.CoreBook.ImportStatus)

	cmd, err := postgres.Conn(context, repository.db).Exec(context, query, id, string(StatusConfirmed), string(StatusTemporary))
	if err != nil {
		return false, dberr.Wrap(err, "confirm_book")
	}
	return cmd.RowsAffected() > 0, nil
}

func (repository *PostgresRepository) DeleteBook(context context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.CoreBook.Table, schema.CoreBook.ID)

	cmd, err := postgres.Conn(context, repository.db).Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_book")
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteTemporaryImportedBefore relies on ON DELETE CASCADE to drop the author,
// genre and engagement rows of each swept book.
func (repository *PostgresRepository) DeleteTemporaryImportedBefore(context context.Context, cutoff time.Time) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s < $2`,
		schema.CoreBook.Table, schema.CoreBook.ImportStatus, schema.CoreBook.ImportedAt)

	cmd, err := postgres.Conn(context, repository.db).Exec(context, query, string(StatusTemporary), cutoff)
	if err != nil {
		return 0, dberr.Wrap(err, "delete_temporary_books")
	}
	return cmd.RowsAffected(), nil
}
