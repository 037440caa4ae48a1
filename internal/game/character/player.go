// Package character defines the player account: credentials, base stats,
// feats and grid position, plus the record shape it is stored as.
package character

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/cory-johannsen/dmbot/internal/game/entity"
	"github.com/cory-johannsen/dmbot/internal/game/fault"
	"github.com/cory-johannsen/dmbot/internal/game/stats"
)

// ErrNotFound is returned by a Store when no record exists for a username
// or the stored record cannot be decoded.
var ErrNotFound = fmt.Errorf("player: %w", fault.ErrNotFound)

// Player is a registered account playing in a campaign.
//
// Username is immutable after creation. PasswordHash is never plaintext.
type Player struct {
	Username     string
	PasswordHash string
	Feats        []string
	entity.Body
}

var _ entity.Entity = (*Player)(nil)

// Create builds a new player at the origin with no feats.
//
// Precondition: username and password must be non-empty.
// Postcondition: Returns a Player whose PasswordHash verifies password.
func Create(username, password string, base stats.Stats) (*Player, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("creating player: username and password are required: %w", fault.ErrInvalidInput)
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}
	return &Player{
		Username:     username,
		PasswordHash: hash,
		Feats:        []string{},
		Body:         entity.NewBody(base),
	}, nil
}

// Identifier returns the username.
func (p *Player) Identifier() string {
	return p.Username
}

// Move relocates the player within their movement budget.
func (p *Player) Move(to entity.Position) error {
	return p.MoveAs(p.Username, to)
}

// AddFeat appends name to the feat list. Duplicates are kept.
func (p *Player) AddFeat(name string) {
	p.Feats = append(p.Feats, name)
}

// Authenticate reports whether password matches the stored hash.
func (p *Player) Authenticate(password string) bool {
	return CheckPassword(password, p.PasswordHash)
}

// HashPassword creates a bcrypt hash of the given password.
//
// Postcondition: Returns a bcrypt hash string.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
