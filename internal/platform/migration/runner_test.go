// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration

import (
	"io"
	"strings"
	"testing"

	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/blablabook/data/migrations"
)

func TestConvertToPgx5DSN(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"postgres://u:p@db:5432/blablabook", "pgx5://u:p@db:5432/blablabook"},
		{"postgresql://u:p@db/blablabook?sslmode=disable", "pgx5://u:p@db/blablabook?sslmode=disable"},
		{"pgx5://u@db/blablabook", "pgx5://u@db/blablabook"},
		{"host=db user=u dbname=blablabook", "host=db user=u dbname=blablabook"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, convertToPgx5DSN(tt.in))
		})
	}
}

func TestEmbeddedSchema(t *testing.T) {
	source, err := iofs.New(migrations.FS, ".")
	require.NoError(t, err)
	defer source.Close()

	first, err := source.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)

	up, identifier, err := source.ReadUp(first)
	require.NoError(t, err)
	defer up.Close()
	assert.Equal(t, "init", identifier)

	schema, err := io.ReadAll(up)
	require.NoError(t, err)
	for _, table := range []string{"core.book", "social.rate", "social.notice", "library.readinglist", "users.account"} {
		assert.Contains(t, strings.ToLower(string(schema)), table)
	}
}

func TestSourceName(t *testing.T) {
	assert.Equal(t, "embedded", sourceName(""))
	assert.Equal(t, "./data/migrations", sourceName("./data/migrations"))
}
