package migrations

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	files, err := fs.Glob(embedded, "sql/*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	body, err := fs.ReadFile(embedded, files[0])
	require.NoError(t, err)
	schema := string(body)

	assert.Contains(t, schema, "-- +goose Up")
	assert.Contains(t, schema, "-- +goose Down")
	assert.Contains(t, schema, "account_no    VARCHAR(20)    PRIMARY KEY")
	assert.True(t, strings.Contains(schema, "ON DELETE CASCADE"), "comments must cascade with their customer")
}

func TestRunRejectsUnknownDirection(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	err := run(context.Background(), nil, Direction("sideways"), logger)

	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown migration direction "sideways"`)
}
