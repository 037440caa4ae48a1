package npc_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/dmbot/internal/game/entity"
	"github.com/cory-johannsen/dmbot/internal/game/npc"
	"github.com/cory-johannsen/dmbot/internal/game/stats"
)

func TestNewMonster(t *testing.T) {
	s := stats.New(20, 30, 12, 12, 12, 12, 12, 12)
	m := npc.NewMonster("Test", s)
	assert.Equal(t, "Test", m.Identifier())
	assert.Equal(t, s, m.Stats())
	assert.False(t, m.HasTempStats())
	assert.Equal(t, entity.Origin, m.Position())
}

func TestMonster_MoveLimit(t *testing.T) {
	m := npc.NewMonster("Goblin", stats.New(20, 30, 12, 12, 12, 12, 12, 12))
	require.NoError(t, m.Move(entity.Position{X: 6}))
	err := m.Move(entity.Position{X: 13})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "can move at most 6 spaces")
	assert.Equal(t, entity.Position{X: 6}, m.Position())
}

func TestMonster_DamageUnconscious(t *testing.T) {
	m := npc.NewMonster("Goblin", stats.New(20, 30, 12, 12, 12, 12, 12, 12))
	assert.False(t, m.Damage(20))
	assert.Equal(t, uint8(0), m.Stats().Health)
}

const goblin = `id: goblin
name: Goblin
stats:
  health: 7
  movement: 30
  strength: 8
  dexterity: 14
  constitution: 10
  wisdom: 8
  intellect: 10
  charisma: 8
`

func TestLoadBestiary(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "goblin.yaml"), []byte(goblin), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("ignored"), 0o644))

	b, err := npc.LoadBestiary(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"goblin"}, b.IDs())

	tmpl, ok := b.Get("GOBLIN")
	require.True(t, ok)
	m := tmpl.Spawn()
	assert.Equal(t, "Goblin", m.Name)
	assert.Equal(t, uint8(14), m.Stats().Dexterity)
}

func TestLoadBestiary_RejectsZeroStat(t *testing.T) {
	dir := t.TempDir()
	bad := "id: blob\nname: Blob\nstats:\n  health: 5\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "blob.yaml"), []byte(bad), 0o644))

	_, err := npc.LoadBestiary(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "movement must be >= 1")
}

func TestLoadBestiary_RejectsDuplicate(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), []byte(goblin), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yaml"), []byte(goblin), 0o644))

	_, err := npc.LoadBestiary(dir)
	assert.ErrorContains(t, err, "duplicate template id")
}

func TestLoadBestiary_MissingDir(t *testing.T) {
	_, err := npc.LoadBestiary(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestShippedBestiaryLoads(t *testing.T) {
	b, err := npc.LoadBestiary("../../../content/bestiary")
	require.NoError(t, err)
	assert.Equal(t, []string{"goblin", "orc", "skeleton", "wolf"}, b.IDs())
	wolf, ok := b.Get("Wolf")
	require.True(t, ok)
	assert.Equal(t, uint8(40), wolf.Stats.Movement)
}
