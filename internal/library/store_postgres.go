// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package library

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

var (
	libraryColumns = schema.List(schema.LibraryShelf.Columns()...)
	entryColumns   = schema.List(schema.LibraryReadingList.Columns()...)
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLibrary(row rowScanner) (*Library, error) {
	l := &Library{}
	err := row.Scan(&l.ID, &l.UserID, &l.Name, &l.Description, &l.IsPublic, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}

func scanEntry(row rowScanner, extra ...any) (*Entry, error) {
	e := &Entry{}
	var status string
	dest := append([]any{&e.ID, &e.LibraryID, &e.BookID, &status, &e.StartedAt, &e.FinishedAt, &e.CreatedAt, &e.UpdatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	e.Status = ReadingStatus(status)
	return e, nil
}

// # Libraries

func (repository *PostgresRepository) ListLibraries(context context.Context, userID int64) ([]*Library, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s ASC`,
		libraryColumns, schema.LibraryShelf.Table, schema.LibraryShelf.UserID, schema.LibraryShelf.Name,
	)

	rows, err := postgres.Conn(context, repository.db).Query(context, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_libraries")
	}
	defer rows.Close()

	libraries := make([]*Library, 0)
	for rows.Next() {
		l, err := scanLibrary(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_library")
		}
		libraries = append(libraries, l)
	}
	return libraries, dberr.Wrap(rows.Err(), "list_libraries")
}

func (repository *PostgresRepository) GetLibrary(context context.Context, id int64) (*Library, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, libraryColumns, schema.LibraryShelf.Table, schema.LibraryShelf.ID)

	l, err := scanLibrary(postgres.Conn(context, repository.db).QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_library", ErrNotFound)
	}
	return l, nil
}

func (repository *PostgresRepository) CreateLibrary(context context.Context, l *Library) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
		RETURNING %s, %s, %s`,
		schema.LibraryShelf.Table,
		schema.LibraryShelf.UserID, schema.LibraryShelf.Name, schema.LibraryShelf.Description, schema.LibraryShelf.IsPublic,
		schema.LibraryShelf.ID, schema.LibraryShelf.CreatedAt, schema.LibraryShelf.UpdatedAt,
	)

	err := postgres.Conn(context, repository.db).
		QueryRow(context, query, l.UserID, l.Name, l.Description, l.IsPublic).
		Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
	return dberr.Wrap(err, "create_library")
}

func (repository *PostgresRepository) UpdateLibrary(context context.Context, l *Library) error {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = NOW()
		WHERE %s = $1
		RETURNING %s`,
		schema.LibraryShelf.Table,
		schema.LibraryShelf.Name, schema.LibraryShelf.Description, schema.LibraryShelf.IsPublic, schema.LibraryShelf.UpdatedAt,
		schema.LibraryShelf.ID,
		schema.LibraryShelf.UpdatedAt,
	)

	err := postgres.Conn(context, repository.db).
		QueryRow(context, query, l.ID, l.Name, l.Description, l.IsPublic).
		Scan(&l.UpdatedAt)
	return dberr.Wrap(err, "update_library", ErrNotFound)
}

func (repository *PostgresRepository) DeleteLibrary(context context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.LibraryShelf.Table, schema.LibraryShelf.ID)

	tag, err := postgres.Conn(context, repository.db).Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_library")
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// # Reading List

func (repository *PostgresRepository) ListEntries(context context.Context, libraryID int64, limit, offset int) ([]*Entry, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER()
		FROM %s
		WHERE %s = $1
		ORDER BY %s DESC
		LIMIT $2 OFFSET $3`,
		entryColumns, schema.LibraryReadingList.Table, schema.LibraryReadingList.LibraryID, schema.LibraryReadingList.UpdatedAt,
	)

	rows, err := postgres.Conn(context, repository.db).Query(context, query, libraryID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_entries")
	}
	defer rows.Close()

	var total int
	entries := make([]*Entry, 0)
	for rows.Next() {
		e, err := scanEntry(rows, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_entry")
		}
		entries = append(entries, e)
	}
	return entries, total, dberr.Wrap(rows.Err(), "list_entries")
}

func (repository *PostgresRepository) GetEntry(context context.Context, id int64) (*Entry, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, entryColumns, schema.LibraryReadingList.Table, schema.LibraryReadingList.ID)

	e, err := scanEntry(postgres.Conn(context, repository.db).QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_entry", ErrEntryNotFound)
	}
	return e, nil
}

func (repository *PostgresRepository) FindEntry(context context.Context, libraryID, bookID int64) (*Entry, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = $2`,
		entryColumns, schema.LibraryReadingList.Table, schema.LibraryReadingList.LibraryID, schema.LibraryReadingList.BookID,
	)

	e, err := scanEntry(postgres.Conn(context, repository.db).QueryRow(context, query, libraryID, bookID))
	if err != nil {
		return nil, dberr.Wrap(err, "find_entry", ErrEntryNotFound)
	}
	return e, nil
}

func (repository *PostgresRepository) CreateEntry(context context.Context, e *Entry) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s, %s, %s`,
		schema.LibraryReadingList.Table,
		schema.LibraryReadingList.LibraryID, schema.LibraryReadingList.BookID, schema.LibraryReadingList.ReadingStatus,
		schema.LibraryReadingList.StartedAt, schema.LibraryReadingList.FinishedAt,
		schema.LibraryReadingList.ID, schema.LibraryReadingList.CreatedAt, schema.LibraryReadingList.UpdatedAt,
	)

	err := postgres.Conn(context, repository.db).
		QueryRow(context, query, e.LibraryID, e.BookID, string(e.Status), e.StartedAt, e.FinishedAt).
		Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if dberr.IsUniqueViolation(err) {
		return ErrDuplicate
	}
	return dberr.Wrap(err, "create_entry")
}

func (repository *PostgresRepository) UpdateEntry(context context.Context, e *Entry) error {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = NOW()
		WHERE %s = $1
		RETURNING %s`,
		schema.LibraryReadingList.Table,
		schema.LibraryReadingList.ReadingStatus, schema.LibraryReadingList.StartedAt,
		schema.LibraryReadingList.FinishedAt, schema.LibraryReadingList.UpdatedAt,
		schema.LibraryReadingList.ID,
		schema.LibraryReadingList.UpdatedAt,
	)

	err := postgres.Conn(context, repository.db).
		QueryRow(context, query, e.ID, string(e.Status), e.StartedAt, e.FinishedAt).
		Scan(&e.UpdatedAt)
	return dberr.Wrap(err, "update_entry", ErrEntryNotFound)
}

func (repository *PostgresRepository) DeleteEntry(context context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.LibraryReadingList.Table, schema.LibraryReadingList.ID)

	tag, err := postgres.Conn(context, repository.db).Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_entry")
	}
	if tag.RowsAffected() == 0 {
		return ErrEntryNotFound
	}
	return nil
}
