package team

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

// Save inserts or updates the team and its unsaved players in one transaction.
// New players are positioned after the players already stored for the team.
func (r *PostgresRepository) Save(ctx context.Context, t *Team) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	saved := *t
	if t.ID == uuid.Nil {
		query := `
			INSERT INTO teams (name, short_name, founded, stadium)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at, updated_at`

		err := tx.QueryRow(ctx, query, t.Name, t.ShortName, t.Founded, t.Stadium).
			Scan(&saved.ID, &saved.CreatedAt, &saved.UpdatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicateTeamName
			}
			return fmt.Errorf("inserting team: %w", err)
		}
	} else {
		query := `
			UPDATE teams
			SET name = $2, short_name = $3, founded = $4, stadium = $5, updated_at = now()
			WHERE id = $1
			RETURNING updated_at`

		err := tx.QueryRow(ctx, query, t.ID, t.Name, t.ShortName, t.Founded, t.Stadium).Scan(&saved.UpdatedAt)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrTeamNotFound
			}
			if isUniqueViolation(err) {
				return ErrDuplicateTeamName
			}
			return fmt.Errorf("updating team: %w", err)
		}
	}

	pending := t.Players.unsaved()
	inserted := make([]Player, len(pending))
	var next int
	if len(pending) > 0 {
		// The team row is locked by the insert or update above, so
		// concurrent saves of the same team serialize here.
		query := `SELECT COALESCE(MAX(position), -1) + 1 FROM players WHERE team_id = $1`
		if err := tx.QueryRow(ctx, query, saved.ID).Scan(&next); err != nil {
			return fmt.Errorf("reading next player position: %w", err)
		}
	}

	for i, p := range pending {
		query := `
			INSERT INTO players (team_id, name, position)
			VALUES ($1, $2, $3)
			RETURNING id, team_id, position, created_at`

		err := tx.QueryRow(ctx, query, saved.ID, p.Name, next+i).
			Scan(&inserted[i].ID, &inserted[i].TeamID, &inserted[i].Position, &inserted[i].CreatedAt)
		if err != nil {
			return fmt.Errorf("inserting player: %w", err)
		}

		if p.NameParts == nil {
			continue
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO player_names (player_id, first_name, last_name)
			VALUES ($1, $2, $3)`,
			inserted[i].ID, p.NameParts.First, p.NameParts.Last)
		if err != nil {
			return fmt.Errorf("inserting player name: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing team: %w", err)
	}

	t.ID = saved.ID
	t.CreatedAt = saved.CreatedAt
	t.UpdatedAt = saved.UpdatedAt
	for i, p := range pending {
		p.ID = inserted[i].ID
		p.TeamID = inserted[i].TeamID
		p.Position = inserted[i].Position
		p.CreatedAt = inserted[i].CreatedAt
	}

	return nil
}

// GetByID retrieves a single team by its UUID.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID, opts ...LoadOption) (*Team, error) {
	query := `
		SELECT id, name, short_name, founded, stadium, created_at, updated_at
		FROM teams
		WHERE id = $1`

	return r.getOne(ctx, query, []any{id}, opts)
}

// GetByName retrieves a single team by its unique name.
func (r *PostgresRepository) GetByName(ctx context.Context, name string, opts ...LoadOption) (*Team, error) {
	query := `
		SELECT id, name, short_name, founded, stadium, created_at, updated_at
		FROM teams
		WHERE name = $1`

	return r.getOne(ctx, query, []any{name}, opts)
}

// First retrieves the earliest created team.
func (r *PostgresRepository) First(ctx context.Context, opts ...LoadOption) (*Team, error) {
	query := `
		SELECT id, name, short_name, founded, stadium, created_at, updated_at
		FROM teams
		ORDER BY created_at ASC, id ASC
		LIMIT 1`

	return r.getOne(ctx, query, nil, opts)
}

// List retrieves all teams ordered by creation time.
func (r *PostgresRepository) List(ctx context.Context, opts ...LoadOption) ([]Team, error) {
	query := `
		SELECT id, name, short_name, founded, stadium, created_at, updated_at
		FROM teams
		ORDER BY created_at ASC, id ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing teams: %w", err)
	}
	defer rows.Close()

	var teams []Team
	for rows.Next() {
		var t Team
		err := rows.Scan(&t.ID, &t.Name, &t.ShortName, &t.Founded, &t.Stadium, &t.CreatedAt, &t.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning team row: %w", err)
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating team rows: %w", err)
	}

	if teams == nil {
		teams = []Team{}
	}

	cfg := newLoadConfig(opts)
	for i := range teams {
		if err := r.loadPlayers(ctx, &teams[i], cfg); err != nil {
			return nil, err
		}
	}

	return teams, nil
}

// Delete removes a team by its UUID. Players and their names go with it
// through ON DELETE CASCADE.
func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM teams WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting team: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrTeamNotFound
	}

	return nil
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, args []any, opts []LoadOption) (*Team, error) {
	var t Team
	err := r.pool.QueryRow(ctx, query, args...).
		Scan(&t.ID, &t.Name, &t.ShortName, &t.Founded, &t.Stadium, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("querying team: %w", err)
	}

	if err := r.loadPlayers(ctx, &t, newLoadConfig(opts)); err != nil {
		return nil, err
	}

	return &t, nil
}

func (r *PostgresRepository) loadPlayers(ctx context.Context, t *Team, cfg loadConfig) error {
	if !cfg.players {
		t.Players = UnloadedRoster()
		return nil
	}

	query := `
		SELECT p.id, p.team_id, p.name, p.position, p.created_at, n.first_name, n.last_name
		FROM players p
		LEFT JOIN player_names n ON n.player_id = p.id
		WHERE p.team_id = $1
		ORDER BY p.position ASC`
	if !cfg.names {
		query = `
		SELECT p.id, p.team_id, p.name, p.position, p.created_at, NULL::text, NULL::text
		FROM players p
		WHERE p.team_id = $1
		ORDER BY p.position ASC`
	}

	rows, err := r.pool.Query(ctx, query, t.ID)
	if err != nil {
		return fmt.Errorf("querying players: %w", err)
	}
	defer rows.Close()

	var players []*Player
	for rows.Next() {
		var p Player
		var first, last *string
		err := rows.Scan(&p.ID, &p.TeamID, &p.Name, &p.Position, &p.CreatedAt, &first, &last)
		if err != nil {
			return fmt.Errorf("scanning player row: %w", err)
		}
		if first != nil && last != nil {
			p.NameParts = &PlayerName{First: *first, Last: *last}
		}
		players = append(players, &p)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating player rows: %w", err)
	}

	t.Players = LoadedRoster(players...)
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
