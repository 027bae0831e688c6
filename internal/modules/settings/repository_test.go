package settings

import (
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feltlab/timepatterns/internal/database"
)

func newTestDB(t *testing.T) *database.DB {
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

func TestGet_MissingKeyReturnsNil(t *testing.T) {
	repo := NewRepository(newTestDB(t).Conn(), zerolog.Nop())

	value, err := repo.Get("no_such_key")
	require.NoError(t, err)
	assert.Nil(t, value)
}

func TestSetAndGet(t *testing.T) {
	repo := NewRepository(newTestDB(t).Conn(), zerolog.Nop())

	desc := "gap threshold"
	require.NoError(t, repo.Set("session_gap_minutes", "45", &desc))

	value, err := repo.Get("session_gap_minutes")
	require.NoError(t, err)
	require.NotNil(t, value)
	assert.Equal(t, "45", *value)
}

func TestSet_OverwritesExistingValue(t *testing.T) {
	repo := NewRepository(newTestDB(t).Conn(), zerolog.Nop())

	require.NoError(t, repo.Set("max_daily_volume", "500", nil))
	require.NoError(t, repo.Set("max_daily_volume", "300", nil))

	value, err := repo.Get("max_daily_volume")
	require.NoError(t, err)
	require.NotNil(t, value)
	assert.Equal(t, "300", *value)
}

func TestGetFloat(t *testing.T) {
	repo := NewRepository(newTestDB(t).Conn(), zerolog.Nop())

	// Missing key falls back
	f, err := repo.GetFloat("fatigue_threshold_minutes", 300)
	require.NoError(t, err)
	assert.InDelta(t, 300.0, f, 1e-9)

	require.NoError(t, repo.Set("fatigue_threshold_minutes", "240", nil))
	f, err = repo.GetFloat("fatigue_threshold_minutes", 300)
	require.NoError(t, err)
	assert.InDelta(t, 240.0, f, 1e-9)

	// Unparsable value falls back without error
	require.NoError(t, repo.Set("fatigue_threshold_minutes", "not-a-number", nil))
	f, err = repo.GetFloat("fatigue_threshold_minutes", 300)
	require.NoError(t, err)
	assert.InDelta(t, 300.0, f, 1e-9)
}

func TestGetInt(t *testing.T) {
	repo := NewRepository(newTestDB(t).Conn(), zerolog.Nop())

	require.NoError(t, repo.Set("session_min_actions", "8", nil))

	i, err := repo.GetInt("session_min_actions", 5)
	require.NoError(t, err)
	assert.Equal(t, 8, i)

	i, err = repo.GetInt("missing", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, i)
}

func TestGetBool(t *testing.T) {
	repo := NewRepository(newTestDB(t).Conn(), zerolog.Nop())

	b, err := repo.GetBool("performance_alerts", false)
	require.NoError(t, err)
	assert.False(t, b)

	require.NoError(t, repo.Set("performance_alerts", "1", nil))
	b, err = repo.GetBool("performance_alerts", false)
	require.NoError(t, err)
	assert.True(t, b)

	require.NoError(t, repo.Set("performance_alerts", "0", nil))
	b, err = repo.GetBool("performance_alerts", true)
	require.NoError(t, err)
	assert.False(t, b)
}

func TestGetAll(t *testing.T) {
	repo := NewRepository(newTestDB(t).Conn(), zerolog.Nop())

	require.NoError(t, repo.Set("a", "1", nil))
	require.NoError(t, repo.Set("b", "2", nil))

	all, err := repo.GetAll()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, all)
}

func TestDelete(t *testing.T) {
	repo := NewRepository(newTestDB(t).Conn(), zerolog.Nop())

	require.NoError(t, repo.Set("a", "1", nil))
	require.NoError(t, repo.Delete("a"))

	value, err := repo.Get("a")
	require.NoError(t, err)
	assert.Nil(t, value)
}

func TestDefaultFloat(t *testing.T) {
	assert.InDelta(t, 30.0, DefaultFloat("session_gap_minutes", 1), 1e-9)
	assert.InDelta(t, 1.5, DefaultFloat("fatigue_night_modifier", 1), 1e-9)
	assert.InDelta(t, 7.0, DefaultFloat("unregistered_key", 7), 1e-9)
}

func TestSettingDefaults_HaveDescriptions(t *testing.T) {
	for key := range SettingDefaults {
		_, ok := SettingDescriptions[key]
		assert.True(t, ok, "missing description for %s", key)
	}
}
