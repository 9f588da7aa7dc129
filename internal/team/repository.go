package team

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrTeamNotFound is returned when a team record is not found.
var ErrTeamNotFound = errors.New("team not found")

// ErrDuplicateTeamName is returned when a team with the same name already exists.
var ErrDuplicateTeamName = errors.New("team name already exists")

// ErrInvalidPlayerName is returned when a player's first or last name is blank.
var ErrInvalidPlayerName = errors.New("player first and last name are required")

// ErrPlayersNotLoaded is returned by AddPlayer when the team was retrieved
// without its players. The text is meant to be shown to API clients as-is.
var ErrPlayersNotLoaded = errors.New("You must first retrieve the team's players before adding a new player")

// Repository persists teams together with their players.
type Repository interface {
	// Save inserts or updates the team and, when its roster is loaded,
	// inserts the players that have no ID yet. It runs in one transaction.
	Save(ctx context.Context, t *Team) error
	GetByID(ctx context.Context, id uuid.UUID, opts ...LoadOption) (*Team, error)
	GetByName(ctx context.Context, name string, opts ...LoadOption) (*Team, error)
	// First returns the earliest created team.
	First(ctx context.Context, opts ...LoadOption) (*Team, error)
	List(ctx context.Context, opts ...LoadOption) ([]Team, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// LoadOption selects which relations are fetched with a team.
type LoadOption func(*loadConfig)

type loadConfig struct {
	players bool
	names   bool
}

// WithPlayers fetches the team's players, leaving the roster loaded.
func WithPlayers() LoadOption {
	return func(c *loadConfig) {
		c.players = true
	}
}

// WithPlayerNames fetches the players and the name parts of each one.
func WithPlayerNames() LoadOption {
	return func(c *loadConfig) {
		c.players = true
		c.names = true
	}
}

func newLoadConfig(opts []LoadOption) loadConfig {
	var c loadConfig
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
