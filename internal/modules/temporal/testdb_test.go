package temporal

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/feltlab/timepatterns/internal/database"
)

// newAnalyticsTestDB creates a migrated, shared in-memory analytics database.
// The shared cache keeps the database alive across pool connections.
func newAnalyticsTestDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.New(database.Config{
		Path:    "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		Profile: database.ProfileAnalytics,
		Name:    "analytics",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.Migrate())
	return db
}
