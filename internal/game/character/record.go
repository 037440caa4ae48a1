package character

import (
	"context"
	"slices"

	"github.com/cory-johannsen/dmbot/internal/game/entity"
	"github.com/cory-johannsen/dmbot/internal/game/stats"
)

// Record is the persisted shape of a Player. Temporary stats are
// session-only and never stored.
type Record struct {
	Username string          `json:"username" yaml:"username"`
	Password string          `json:"password" yaml:"password"`
	Stats    stats.Stats     `json:"stats" yaml:"stats"`
	Feats    []string        `json:"feats" yaml:"feats"`
	Position entity.Position `json:"position" yaml:"position"`
}

// Record snapshots p for storage.
func (p *Player) Record() Record {
	feats := slices.Clone(p.Feats)
	if feats == nil {
		feats = []string{}
	}
	return Record{
		Username: p.Username,
		Password: p.PasswordHash,
		Stats:    p.Base,
		Feats:    feats,
		Position: p.Pos,
	}
}

// FromRecord rebuilds a Player with no temporary override.
func FromRecord(r Record) *Player {
	feats := slices.Clone(r.Feats)
	if feats == nil {
		feats = []string{}
	}
	return &Player{
		Username:     r.Username,
		PasswordHash: r.Password,
		Feats:        feats,
		Body:         entity.Body{Base: r.Stats, Pos: r.Position},
	}
}

// Store persists players keyed by username.
type Store interface {
	// Load returns the stored player or an error wrapping ErrNotFound when
	// the record is missing or undecodable.
	Load(ctx context.Context, username string) (*Player, error)
	// Save writes p, overwriting any prior record for the same username.
	Save(ctx context.Context, p *Player) error
}
