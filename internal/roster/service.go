// Package roster coordinates team registration and player signings on top
// of a team.Repository.
package roster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/daap14/squad/internal/team"
)

// Service provides roster operations.
type Service struct {
	repo team.Repository
}

// NewService creates a new roster Service.
func NewService(repo team.Repository) *Service {
	return &Service{repo: repo}
}

// RegisterTeam creates and stores a team with an empty roster.
func (s *Service) RegisterTeam(ctx context.Context, name, shortName, founded, stadium string) (*team.Team, error) {
	t := team.NewTeam(name, shortName, founded, stadium)
	if err := s.repo.Save(ctx, t); err != nil {
		return nil, fmt.Errorf("saving team: %w", err)
	}

	slog.Info("team registered", "teamId", t.ID, "name", t.Name)
	return t, nil
}

// GetTeam retrieves a team. Players are only fetched when includePlayers is
// set; includeNames additionally fetches each player's name parts.
func (s *Service) GetTeam(ctx context.Context, id uuid.UUID, includePlayers, includeNames bool) (*team.Team, error) {
	return s.repo.GetByID(ctx, id, loadOptions(includePlayers, includeNames)...)
}

// ListTeams retrieves every team in creation order.
func (s *Service) ListTeams(ctx context.Context, includePlayers bool) ([]team.Team, error) {
	return s.repo.List(ctx, loadOptions(includePlayers, false)...)
}

// SignPlayer adds a player to the team and stores it. The team is fetched
// with its players so that AddPlayer operates on a loaded roster.
func (s *Service) SignPlayer(ctx context.Context, teamID uuid.UUID, firstName, lastName string) (*team.Player, error) {
	t, err := s.repo.GetByID(ctx, teamID, team.WithPlayers())
	if err != nil {
		return nil, err
	}

	p, err := t.AddPlayer(firstName, lastName)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, t); err != nil {
		return nil, fmt.Errorf("saving roster: %w", err)
	}

	slog.Info("player signed", "teamId", t.ID, "playerId", p.ID, "rosterSize", t.Players.Len())
	return p, nil
}

// AddToLoadedTeam adds a player to a team the caller already holds and
// stores it. When the team was retrieved without players it is fetched
// again with them and the add is retried once.
func (s *Service) AddToLoadedTeam(ctx context.Context, t *team.Team, firstName, lastName string) (*team.Team, *team.Player, error) {
	p, err := t.AddPlayer(firstName, lastName)
	if errors.Is(err, team.ErrPlayersNotLoaded) && t.ID != uuid.Nil {
		slog.Debug("roster not loaded, refetching", "teamId", t.ID)
		t, err = s.repo.GetByID(ctx, t.ID, team.WithPlayers())
		if err != nil {
			return nil, nil, err
		}
		p, err = t.AddPlayer(firstName, lastName)
	}
	if err != nil {
		return nil, nil, err
	}

	if err := s.repo.Save(ctx, t); err != nil {
		return nil, nil, fmt.Errorf("saving roster: %w", err)
	}

	return t, p, nil
}

// ReleaseTeam deletes a team and its players.
func (s *Service) ReleaseTeam(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	slog.Info("team released", "teamId", id)
	return nil
}

func loadOptions(includePlayers, includeNames bool) []team.LoadOption {
	switch {
	case includeNames:
		return []team.LoadOption{team.WithPlayerNames()}
	case includePlayers:
		return []team.LoadOption{team.WithPlayers()}
	default:
		return nil
	}
}
