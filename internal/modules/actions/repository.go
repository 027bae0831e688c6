// Package actions provides read-only access to the upstream poker store.
// The store is populated by the hand collector; this service never writes to it.
package actions

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Repository handles reads from poker.db (hands, detailed_actions, tilt_events)
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new actions repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "actions").Logger(),
	}
}

// GetByPlayer retrieves the full action stream for one player,
// chronologically ordered by the hand's play time.
func (r *Repository) GetByPlayer(playerID string) ([]Action, error) {
	query := `
		SELECT da.id, da.hand_id, da.player_id, da.action_type, da.net_win,
		       da.raise_percentage, da.hand_strength, h.played_at, h.time_of_day_category
		FROM detailed_actions da
		JOIN hands h ON da.hand_id = h.id
		WHERE da.player_id = ?
		ORDER BY h.played_at, da.id
	`

	rows, err := r.db.Query(query, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get actions for player %s: %w", playerID, err)
	}
	defer rows.Close()

	var result []Action
	for rows.Next() {
		var a Action
		var playedAt int64
		if err := rows.Scan(&a.ID, &a.HandID, &a.PlayerID, &a.ActionType, &a.NetWin,
			&a.RaisePercentage, &a.HandStrength, &playedAt, &a.TimeCategory); err != nil {
			return nil, fmt.Errorf("failed to scan action: %w", err)
		}
		a.PlayedAt = time.Unix(playedAt, 0).UTC()
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate actions: %w", err)
	}

	return result, nil
}

// HandIDsSince returns the IDs of hands that arrived in the store after the
// given Unix timestamp. A zero timestamp returns every hand (first run).
func (r *Repository) HandIDsSince(sinceUnix int64) ([]string, error) {
	rows, err := r.db.Query("SELECT id FROM hands WHERE created_at > ? ORDER BY created_at", sinceUnix)
	if err != nil {
		return nil, fmt.Errorf("failed to get new hand IDs: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan hand ID: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate hand IDs: %w", err)
	}

	return ids, nil
}

// ActivePlayers returns the players with at least minActions actions among
// the given batch of hand IDs. These are the players worth re-analyzing.
func (r *Repository) ActivePlayers(handIDs []string, minActions int) ([]string, error) {
	if len(handIDs) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(handIDs)-1) + "?"
	query := fmt.Sprintf(`
		SELECT player_id
		FROM detailed_actions
		WHERE hand_id IN (%s)
		GROUP BY player_id
		HAVING COUNT(*) >= ?
		ORDER BY player_id
	`, placeholders)

	args := make([]interface{}, 0, len(handIDs)+1)
	for _, id := range handIDs {
		args = append(args, id)
	}
	args = append(args, minActions)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get active players: %w", err)
	}
	defer rows.Close()

	var players []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("failed to scan player ID: %w", err)
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate players: %w", err)
	}

	return players, nil
}

// CountHands returns the lifetime distinct hand count for a player
func (r *Repository) CountHands(playerID string) (int, error) {
	var count int
	err := r.db.QueryRow(
		"SELECT COUNT(DISTINCT hand_id) FROM detailed_actions WHERE player_id = ?",
		playerID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count hands for player %s: %w", playerID, err)
	}
	return count, nil
}

// TiltEventsByPlayer retrieves all tilt events for a player
func (r *Repository) TiltEventsByPlayer(playerID string) ([]TiltEvent, error) {
	rows, err := r.db.Query(
		"SELECT id, player_id, started_at, duration_minutes FROM tilt_events WHERE player_id = ? ORDER BY started_at",
		playerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get tilt events for player %s: %w", playerID, err)
	}
	defer rows.Close()

	var events []TiltEvent
	for rows.Next() {
		var e TiltEvent
		var startedAt int64
		if err := rows.Scan(&e.ID, &e.PlayerID, &startedAt, &e.DurationMinutes); err != nil {
			return nil, fmt.Errorf("failed to scan tilt event: %w", err)
		}
		e.StartedAt = time.Unix(startedAt, 0).UTC()
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tilt events: %w", err)
	}

	return events, nil
}
