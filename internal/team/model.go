package team

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Team represents a row in the teams table together with its roster.
// A Team is the aggregate root: players are only added through AddPlayer.
type Team struct {
	ID        uuid.UUID
	Name      string
	ShortName string
	Founded   string
	Stadium   string
	Players   Roster
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewTeam creates an unsaved team with an empty, loaded roster.
func NewTeam(name, shortName, founded, stadium string) *Team {
	return &Team{
		Name:      name,
		ShortName: shortName,
		Founded:   founded,
		Stadium:   stadium,
		Players:   LoadedRoster(),
	}
}

// AddPlayer appends a new player to the roster. It fails with
// ErrPlayersNotLoaded when the roster was not fetched from the store.
func (t *Team) AddPlayer(firstName, lastName string) (*Player, error) {
	if !t.Players.IsLoaded() {
		return nil, ErrPlayersNotLoaded
	}

	p, err := NewPlayer(firstName, lastName)
	if err != nil {
		return nil, err
	}
	p.TeamID = t.ID
	p.Position = t.Players.Len()

	t.Players.items = append(t.Players.items, p)
	return p, nil
}

// Player represents a row in the players table.
type Player struct {
	ID uuid.UUID
	// TeamID references the owning team; it is not an ownership edge.
	TeamID uuid.UUID
	Name   string
	// NameParts is nil unless the player was loaded WithPlayerNames.
	NameParts *PlayerName
	// Position orders the roster. AddPlayer sets a provisional value; the
	// store assigns the final one on save.
	Position  int
	CreatedAt time.Time
}

// NewPlayer builds a player whose display name is composed from the given parts.
func NewPlayer(firstName, lastName string) (*Player, error) {
	parts := PlayerName{
		First: strings.TrimSpace(firstName),
		Last:  strings.TrimSpace(lastName),
	}
	if parts.First == "" || parts.Last == "" {
		return nil, ErrInvalidPlayerName
	}

	return &Player{
		Name:      parts.Full(),
		NameParts: &parts,
	}, nil
}

// PlayerName is the value object a player's display name is built from.
type PlayerName struct {
	First string
	Last  string
}

// Full returns "First Last".
func (n PlayerName) Full() string {
	return n.First + " " + n.Last
}

// Roster is the player collection of a team. It is either unloaded, when
// the team came from the store without its players, or loaded with the
// players in insertion order. The zero value is unloaded.
type Roster struct {
	loaded bool
	items  []*Player
}

// LoadedRoster returns a roster holding exactly the given players.
func LoadedRoster(players ...*Player) Roster {
	items := make([]*Player, 0, len(players))
	items = append(items, players...)
	return Roster{loaded: true, items: items}
}

// UnloadedRoster returns a roster whose players were not fetched.
func UnloadedRoster() Roster {
	return Roster{}
}

// IsLoaded reports whether the players are present in memory.
func (r Roster) IsLoaded() bool {
	return r.loaded
}

// Len returns the number of players in memory. It is 0 for an unloaded roster.
func (r Roster) Len() int {
	return len(r.items)
}

// Items returns a copy of the player slice.
func (r Roster) Items() []*Player {
	out := make([]*Player, len(r.items))
	copy(out, r.items)
	return out
}

// unsaved returns the players that have not been assigned an ID yet.
func (r Roster) unsaved() []*Player {
	var out []*Player
	for _, p := range r.items {
		if p.ID == uuid.Nil {
			out = append(out, p)
		}
	}
	return out
}
