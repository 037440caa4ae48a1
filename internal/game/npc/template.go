package npc

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/dmbot/internal/game/stats"
)

// Template is a bestiary entry a DM can spawn by ID instead of typing out
// eight stats.
type Template struct {
	ID    string      `yaml:"id"`
	Name  string      `yaml:"name"`
	Stats stats.Stats `yaml:"stats"`
}

// Validate checks that the template has an ID, a name and non-zero stats.
func (t *Template) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("monster template: id must not be empty")
	}
	if t.Name == "" {
		return fmt.Errorf("monster template %q: name must not be empty", t.ID)
	}
	for _, s := range stats.All {
		if t.Stats.Value(s) == 0 {
			return fmt.Errorf("monster template %q: %s must be >= 1", t.ID, s)
		}
	}
	return nil
}

// Spawn creates a fresh Monster from the template.
func (t *Template) Spawn() *Monster {
	return NewMonster(t.Name, t.Stats)
}

// LoadTemplateFromBytes parses and validates a single YAML template.
func LoadTemplateFromBytes(data []byte) (*Template, error) {
	var tmpl Template
	if err := yaml.Unmarshal(data, &tmpl); err != nil {
		return nil, fmt.Errorf("parsing template YAML: %w", err)
	}
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// Bestiary indexes templates by lowercase ID.
type Bestiary map[string]*Template

// LoadBestiary reads every *.yaml file in dir.
//
// Postcondition: Returns an error naming the first invalid file or duplicate ID.
func LoadBestiary(dir string) (Bestiary, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading bestiary dir %q: %w", dir, err)
	}

	b := make(Bestiary)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		tmpl, err := LoadTemplateFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		key := strings.ToLower(tmpl.ID)
		if _, dup := b[key]; dup {
			return nil, fmt.Errorf("loading %q: duplicate template id %q", path, tmpl.ID)
		}
		b[key] = tmpl
	}
	return b, nil
}

// Get returns the template with the given ID, ignoring case.
func (b Bestiary) Get(id string) (*Template, bool) {
	t, ok := b[strings.ToLower(id)]
	return t, ok
}

// IDs returns the template IDs in sorted order.
func (b Bestiary) IDs() []string {
	ids := make([]string, 0, len(b))
	for _, t := range b {
		ids = append(ids, t.ID)
	}
	sort.Strings(ids)
	return ids
}
