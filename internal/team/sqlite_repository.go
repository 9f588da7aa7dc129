package team

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// SQLiteRepository implements Repository on a database/sql handle opened
// with the modernc SQLite driver.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a Repository backed by the given SQLite handle.
// The schema must already be migrated.
func NewSQLiteRepository(db *sql.DB) Repository {
	return &SQLiteRepository{db: db}
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Save inserts or updates the team and its unsaved players. New players are
// positioned after the players already stored for the team.
func (r *SQLiteRepository) Save(ctx context.Context, t *Team) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	teamID := t.ID
	createdAt := t.CreatedAt

	if teamID == uuid.Nil {
		teamID = uuid.New()
		createdAt = now
		_, err = tx.ExecContext(ctx, `
			INSERT INTO teams (id, name, short_name, founded, stadium, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			teamID, t.Name, t.ShortName, t.Founded, t.Stadium, toMillis(now), toMillis(now))
		if err != nil {
			if isSQLiteUniqueViolation(err) {
				return ErrDuplicateTeamName
			}
			return fmt.Errorf("inserting team: %w", err)
		}
	} else {
		result, err := tx.ExecContext(ctx, `
			UPDATE teams
			SET name = ?, short_name = ?, founded = ?, stadium = ?, updated_at = ?
			WHERE id = ?`,
			t.Name, t.ShortName, t.Founded, t.Stadium, toMillis(now), teamID)
		if err != nil {
			if isSQLiteUniqueViolation(err) {
				return ErrDuplicateTeamName
			}
			return fmt.Errorf("updating team: %w", err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("updating team: %w", err)
		}
		if n == 0 {
			return ErrTeamNotFound
		}
	}

	pending := t.Players.unsaved()
	playerIDs := make([]uuid.UUID, len(pending))
	positions := make([]int, len(pending))
	if len(pending) > 0 {
		// Positions continue from what is stored, not from the in-memory
		// roster, which may be stale.
		var next int
		err := tx.QueryRowContext(ctx, `
			SELECT COALESCE(MAX(position), -1) + 1 FROM players WHERE team_id = ?`, teamID).Scan(&next)
		if err != nil {
			return fmt.Errorf("reading next player position: %w", err)
		}
		for i := range positions {
			positions[i] = next + i
		}
	}

	for i, p := range pending {
		playerIDs[i] = uuid.New()
		_, err := tx.ExecContext(ctx, `
			INSERT INTO players (id, team_id, name, position, created_at)
			VALUES (?, ?, ?, ?, ?)`,
			playerIDs[i], teamID, p.Name, positions[i], toMillis(now))
		if err != nil {
			return fmt.Errorf("inserting player: %w", err)
		}

		if p.NameParts == nil {
			continue
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO player_names (player_id, first_name, last_name)
			VALUES (?, ?, ?)`,
			playerIDs[i], p.NameParts.First, p.NameParts.Last)
		if err != nil {
			return fmt.Errorf("inserting player name: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing team: %w", err)
	}

	t.ID = teamID
	t.CreatedAt = createdAt
	t.UpdatedAt = now
	for i, p := range pending {
		p.ID = playerIDs[i]
		p.TeamID = teamID
		p.Position = positions[i]
		p.CreatedAt = now
	}

	return nil
}

// GetByID retrieves a single team by its UUID.
func (r *SQLiteRepository) GetByID(ctx context.Context, id uuid.UUID, opts ...LoadOption) (*Team, error) {
	return r.getOne(ctx, "WHERE id = ?", []any{id}, opts)
}

// GetByName retrieves a single team by its unique name.
func (r *SQLiteRepository) GetByName(ctx context.Context, name string, opts ...LoadOption) (*Team, error) {
	return r.getOne(ctx, "WHERE name = ?", []any{name}, opts)
}

// First retrieves the earliest created team.
func (r *SQLiteRepository) First(ctx context.Context, opts ...LoadOption) (*Team, error) {
	return r.getOne(ctx, "", nil, opts)
}

// List retrieves all teams ordered by creation time.
func (r *SQLiteRepository) List(ctx context.Context, opts ...LoadOption) ([]Team, error) {
	teams, err := r.queryTeams(ctx, "", nil, 0)
	if err != nil {
		return nil, err
	}

	cfg := newLoadConfig(opts)
	for i := range teams {
		if err := r.loadPlayers(ctx, &teams[i], cfg); err != nil {
			return nil, err
		}
	}

	return teams, nil
}

// Delete removes a team and all of its players.
func (r *SQLiteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		DELETE FROM player_names
		WHERE player_id IN (SELECT id FROM players WHERE team_id = ?)`, id)
	if err != nil {
		return fmt.Errorf("deleting player names: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM players WHERE team_id = ?`, id); err != nil {
		return fmt.Errorf("deleting players: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM teams WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting team: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting team: %w", err)
	}
	if n == 0 {
		return ErrTeamNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing delete: %w", err)
	}

	return nil
}

func (r *SQLiteRepository) getOne(ctx context.Context, where string, args []any, opts []LoadOption) (*Team, error) {
	teams, err := r.queryTeams(ctx, where, args, 1)
	if err != nil {
		return nil, err
	}
	if len(teams) == 0 {
		return nil, ErrTeamNotFound
	}

	t := &teams[0]
	if err := r.loadPlayers(ctx, t, newLoadConfig(opts)); err != nil {
		return nil, err
	}

	return t, nil
}

// queryTeams reads team rows and closes the cursor before returning, so
// callers may issue further queries on a single-connection handle.
func (r *SQLiteRepository) queryTeams(ctx context.Context, where string, args []any, limit int) ([]Team, error) {
	query := `
		SELECT id, name, short_name, founded, stadium, created_at, updated_at
		FROM teams ` + where + `
		ORDER BY created_at ASC, rowid ASC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying teams: %w", err)
	}
	defer rows.Close()

	teams := []Team{}
	for rows.Next() {
		var t Team
		var createdAt, updatedAt int64
		err := rows.Scan(&t.ID, &t.Name, &t.ShortName, &t.Founded, &t.Stadium, &createdAt, &updatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning team row: %w", err)
		}
		t.CreatedAt = fromMillis(createdAt)
		t.UpdatedAt = fromMillis(updatedAt)
		t.Players = UnloadedRoster()
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating team rows: %w", err)
	}

	return teams, nil
}

func (r *SQLiteRepository) loadPlayers(ctx context.Context, t *Team, cfg loadConfig) error {
	if !cfg.players {
		return nil
	}

	query := `
		SELECT p.id, p.team_id, p.name, p.position, p.created_at, n.first_name, n.last_name
		FROM players p
		LEFT JOIN player_names n ON n.player_id = p.id
		WHERE p.team_id = ?
		ORDER BY p.position ASC`
	if !cfg.names {
		query = `
		SELECT p.id, p.team_id, p.name, p.position, p.created_at, NULL, NULL
		FROM players p
		WHERE p.team_id = ?
		ORDER BY p.position ASC`
	}

	rows, err := r.db.QueryContext(ctx, query, t.ID)
	if err != nil {
		return fmt.Errorf("querying players: %w", err)
	}
	defer rows.Close()

	var players []*Player
	for rows.Next() {
		var p Player
		var createdAt int64
		var first, last sql.NullString
		err := rows.Scan(&p.ID, &p.TeamID, &p.Name, &p.Position, &createdAt, &first, &last)
		if err != nil {
			return fmt.Errorf("scanning player row: %w", err)
		}
		p.CreatedAt = fromMillis(createdAt)
		if first.Valid && last.Valid {
			p.NameParts = &PlayerName{First: first.String, Last: last.String}
		}
		players = append(players, &p)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating player rows: %w", err)
	}

	t.Players = LoadedRoster(players...)
	return nil
}

func isSQLiteUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
