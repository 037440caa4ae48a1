package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/dmbot/internal/game/character"
	"github.com/cory-johannsen/dmbot/internal/game/fault"
	"github.com/cory-johannsen/dmbot/internal/game/stats"
)

// ErrInvalidUsername is returned for an empty username.
var ErrInvalidUsername = fmt.Errorf("postgres store: username must not be empty: %w", fault.ErrInvalidInput)

// PlayerRepository implements character.Store on the players table.
type PlayerRepository struct {
	db *pgxpool.Pool
}

var _ character.Store = (*PlayerRepository)(nil)

// NewPlayerRepository creates a PlayerRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewPlayerRepository(db *pgxpool.Pool) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// Load fetches a player by username.
//
// Postcondition: a missing row, or one with stats outside 0..255, yields an
// error wrapping character.ErrNotFound; query failures wrap fault.ErrStorage.
func (r *PlayerRepository) Load(ctx context.Context, username string) (*character.Player, error) {
	if username == "" {
		return nil, ErrInvalidUsername
	}

	var (
		rec  character.Record
		vals [8]int16
	)
	err := r.db.QueryRow(ctx,
		`SELECT username, password_hash,
		        health, movement, strength, dexterity, constitution, wisdom, intellect, charisma,
		        feats, pos_x, pos_y
		 FROM players WHERE username = $1`,
		username,
	).Scan(&rec.Username, &rec.Password,
		&vals[0], &vals[1], &vals[2], &vals[3], &vals[4], &vals[5], &vals[6], &vals[7],
		&rec.Feats, &rec.Position.X, &rec.Position.Y)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("loading %q: %w", username, character.ErrNotFound)
		}
		return nil, fault.Storage("querying player", err)
	}

	var raw [8]uint8
	for i, v := range vals {
		if v < 0 || v > 255 {
			return nil, fmt.Errorf("loading %q: stat %d out of range: %w", username, v, character.ErrNotFound)
		}
		raw[i] = uint8(v)
	}
	rec.Stats, err = stats.FromValues(raw[:])
	if err != nil {
		return nil, fmt.Errorf("loading %q: %w: %v", username, character.ErrNotFound, err)
	}
	return character.FromRecord(rec), nil
}

// Save upserts p. Temporary stats are not stored.
func (r *PlayerRepository) Save(ctx context.Context, p *character.Player) error {
	if p.Username == "" {
		return ErrInvalidUsername
	}
	rec := p.Record()
	s := rec.Stats
	_, err := r.db.Exec(ctx,
		`INSERT INTO players (username, password_hash,
		        health, movement, strength, dexterity, constitution, wisdom, intellect, charisma,
		        feats, pos_x, pos_y)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 ON CONFLICT (username) DO UPDATE SET
		        password_hash = EXCLUDED.password_hash,
		        health = EXCLUDED.health,
		        movement = EXCLUDED.movement,
		        strength = EXCLUDED.strength,
		        dexterity = EXCLUDED.dexterity,
		        constitution = EXCLUDED.constitution,
		        wisdom = EXCLUDED.wisdom,
		        intellect = EXCLUDED.intellect,
		        charisma = EXCLUDED.charisma,
		        feats = EXCLUDED.feats,
		        pos_x = EXCLUDED.pos_x,
		        pos_y = EXCLUDED.pos_y,
		        updated_at = NOW()`,
		rec.Username, rec.Password,
		int16(s.Health), int16(s.Movement), int16(s.Strength), int16(s.Dexterity),
		int16(s.Constitution), int16(s.Wisdom), int16(s.Intellect), int16(s.Charisma),
		rec.Feats, rec.Position.X, rec.Position.Y,
	)
	if err != nil {
		return fault.Storage("upserting player", err)
	}
	return nil
}

// Delete removes a player. Deleting a missing player is not an error.
func (r *PlayerRepository) Delete(ctx context.Context, username string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM players WHERE username = $1`, username); err != nil {
		return fault.Storage("deleting player", err)
	}
	return nil
}
