package repositories_test

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tkoskim/breachpoint/internal/sqlite"
	"github.com/tkoskim/breachpoint/internal/testhelpers"
)

// newTestDB creates a new in-memory database seeded with the case catalog.
func newTestDB(t *testing.T) *sqlite.Database {
	t.Helper()
	db, err := sqlite.NewDatabase(context.Background(), ":memory:", testhelpers.NewLogger(io.Discard))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, db.Close())
	})
	return db
}
