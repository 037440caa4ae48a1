// Package file stores player records as one file per username.
package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/dmbot/internal/game/character"
	"github.com/cory-johannsen/dmbot/internal/game/fault"
)

// Format selects the on-disk encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrInvalidUsername is returned for usernames that cannot be a file name.
var ErrInvalidUsername = fmt.Errorf("file store: username is not a valid file name: %w", fault.ErrInvalidInput)

// Store implements character.Store under a directory, one <username>.<format>
// file per player.
type Store struct {
	dir    string
	format Format
}

var _ character.Store = (*Store)(nil)

// NewStore returns a Store rooted at dir. The directory is created on first save.
//
// Precondition: format is FormatJSON or FormatYAML.
func NewStore(dir string, format Format) (*Store, error) {
	switch format {
	case FormatJSON, FormatYAML:
	default:
		return nil, fmt.Errorf("file store: unsupported format %q", format)
	}
	return &Store{dir: dir, format: format}, nil
}

// Path returns the file a username is stored in.
func (s *Store) Path(username string) (string, error) {
	if username == "" || username == "." || username == ".." ||
		strings.ContainsAny(username, `/\`) || strings.ContainsRune(username, 0) {
		return "", fmt.Errorf("%q: %w", username, ErrInvalidUsername)
	}
	return filepath.Join(s.dir, username+"."+string(s.format)), nil
}

// Load reads and decodes the record for username.
//
// Postcondition: a missing or undecodable file yields an error wrapping
// character.ErrNotFound; other read failures wrap fault.ErrStorage.
func (s *Store) Load(_ context.Context, username string) (*character.Player, error) {
	path, err := s.Path(username)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading %q: %w", username, character.ErrNotFound)
	}
	if err != nil {
		return nil, fault.Storage(fmt.Sprintf("reading %s", path), err)
	}
	var rec character.Record
	if err := s.decode(data, &rec); err != nil {
		return nil, fmt.Errorf("decoding %s: %w: %v", path, character.ErrNotFound, err)
	}
	if rec.Username != username {
		return nil, fmt.Errorf("decoding %s: record is for %q: %w", path, rec.Username, character.ErrNotFound)
	}
	return character.FromRecord(rec), nil
}

// Save writes p atomically, replacing any prior record.
func (s *Store) Save(_ context.Context, p *character.Player) error {
	path, err := s.Path(p.Username)
	if err != nil {
		return err
	}
	data, err := s.encode(p.Record())
	if err != nil {
		return fault.Storage("encoding player", err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fault.Storage("create players directory", err)
	}
	tmp, err := os.CreateTemp(s.dir, "player-*.tmp")
	if err != nil {
		return fault.Storage("create temp player file", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fault.Storage("write player file", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fault.Storage("close temp player file", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fault.Storage("replace player file", err)
	}
	return nil
}

func (s *Store) encode(rec character.Record) ([]byte, error) {
	if s.format == FormatYAML {
		return yaml.Marshal(rec)
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rec); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *Store) decode(data []byte, rec *character.Record) error {
	if s.format == FormatYAML {
		return yaml.Unmarshal(data, rec)
	}
	return json.Unmarshal(data, rec)
}
