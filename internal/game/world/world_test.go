package world_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/dmbot/internal/game/character"
	"github.com/cory-johannsen/dmbot/internal/game/fault"
	"github.com/cory-johannsen/dmbot/internal/game/npc"
	"github.com/cory-johannsen/dmbot/internal/game/stats"
	"github.com/cory-johannsen/dmbot/internal/game/world"
)

type memStore struct {
	saved  map[string]character.Record
	failOn map[string]bool
}

func newMemStore() *memStore {
	return &memStore{saved: map[string]character.Record{}, failOn: map[string]bool{}}
}

func (m *memStore) Load(_ context.Context, username string) (*character.Player, error) {
	r, ok := m.saved[username]
	if !ok {
		return nil, fmt.Errorf("%s: %w", username, character.ErrNotFound)
	}
	return character.FromRecord(r), nil
}

func (m *memStore) Save(_ context.Context, p *character.Player) error {
	if m.failOn[p.Username] {
		return errors.New("disk full")
	}
	m.saved[p.Username] = p.Record()
	return nil
}

func testStats() stats.Stats {
	return stats.New(20, 30, 12, 12, 12, 12, 12, 12)
}

func player(name string) *character.Player {
	return character.FromRecord(character.Record{Username: name, Stats: testStats()})
}

func TestUsers(t *testing.T) {
	store := newMemStore()
	w := world.New(store, zaptest.NewLogger(t))
	_, err := w.AddGame("Test", "dm", "#test")
	require.NoError(t, err)
	g, err := w.GetGame("#test")
	require.NoError(t, err)

	p, err := character.Create("test", "pw", testStats())
	require.NoError(t, err)
	require.NoError(t, g.Login(p, "nick", "pw"))
	w.AddUser("nick", "#test", p)

	assert.True(t, w.IsUserLoggedIn("nick"))
	assert.True(t, w.IsAccountLoggedIn("test"))
	assert.False(t, w.IsAccountLoggedIn("nick"))
	got, err := w.GetUser("nick")
	require.NoError(t, err)
	assert.Same(t, p, got)
	ch, ok := w.UserChannel("nick")
	assert.True(t, ok)
	assert.Equal(t, "#test", ch)

	p.AddFeat("Dodge")
	origin, err := w.RemoveUser(context.Background(), "nick")
	require.NoError(t, err)
	assert.Equal(t, "#test", origin)
	assert.False(t, w.IsUserLoggedIn("nick"))
	assert.False(t, g.InRoster("nick"))
	assert.Equal(t, []string{"Dodge"}, store.saved["test"].Feats)

	_, err = w.GetUser("nick")
	assert.ErrorIs(t, err, world.ErrUserNotFound)
	_, err = w.RemoveUser(context.Background(), "nick")
	assert.ErrorIs(t, err, world.ErrUserNotFound)
}

func TestRemoveUser_SaveFailureKeepsSession(t *testing.T) {
	store := newMemStore()
	store.failOn["test"] = true
	w := world.New(store, zaptest.NewLogger(t))
	w.AddUser("nick", "#test", player("test"))

	_, err := w.RemoveUser(context.Background(), "nick")
	require.Error(t, err)
	assert.Equal(t, fault.KindStorage, fault.KindOf(err))
	assert.True(t, w.IsUserLoggedIn("nick"))
}

func TestGames(t *testing.T) {
	w := world.New(newMemStore(), zaptest.NewLogger(t))
	assert.False(t, w.GameExists("#test"))
	_, err := w.GetGame("#test")
	assert.ErrorIs(t, err, world.ErrGameNotFound)

	g, err := w.AddGame("Test", "dm", "#test")
	require.NoError(t, err)
	assert.True(t, w.GameExists("#test"))
	assert.True(t, g.IsDM("dm"))

	_, err = w.AddGame("Other", "dm2", "#test")
	assert.ErrorIs(t, err, world.ErrGameExists)
	got, err := w.GetGame("#test")
	require.NoError(t, err)
	assert.Equal(t, "Test", got.Title)
}

func TestGetEntity(t *testing.T) {
	w := world.New(newMemStore(), zaptest.NewLogger(t))
	p := player("test")
	w.AddUser("nick", "#test", p)
	m := npc.NewMonster("Goblin", testStats())
	assert.Equal(t, 0, w.AddMonster(m, "#test"))

	e, err := w.GetEntity("nick", "")
	require.NoError(t, err)
	assert.Equal(t, "test", e.Identifier())

	e, err = w.GetEntity("@0", "#test")
	require.NoError(t, err)
	assert.Equal(t, "Goblin", e.Identifier())

	_, err = w.GetEntity("@1", "#test")
	assert.ErrorIs(t, err, world.ErrMonsterNotFound)
	assert.Equal(t, fault.KindNotFound, fault.KindOf(err))

	_, err = w.GetEntity("@0", "#other")
	assert.ErrorIs(t, err, world.ErrMonsterNotFound)

	_, err = w.GetEntity("@0", "")
	assert.ErrorIs(t, err, world.ErrChannelRequired)

	for _, bad := range []string{"@", "@x", "@-1", "@+1", "@+0", "@-0", "@ 0", "@0x1", "@1_0"} {
		_, err = w.GetEntity(bad, "#test")
		assert.ErrorIs(t, err, world.ErrInvalidIdentifier, bad)
		assert.Equal(t, fault.KindInvalidInput, fault.KindOf(err))
	}

	_, err = w.GetEntity("stranger", "#test")
	assert.ErrorIs(t, err, world.ErrUserNotFound)
}

func TestAddMonster_IndicesInOrder(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		w := world.New(newMemStore(), zaptest.NewLogger(t))
		n := rapid.IntRange(0, 20).Draw(rt, "n")
		other := rapid.IntRange(0, 5).Draw(rt, "other")
		for i := 0; i < other; i++ {
			w.AddMonster(npc.NewMonster("noise", testStats()), "#other")
		}
		for i := 0; i < n; i++ {
			idx := w.AddMonster(npc.NewMonster(fmt.Sprintf("m%d", i), testStats()), "#test")
			assert.Equal(rt, i, idx)
		}
		for i := 0; i < n; i++ {
			e, err := w.GetEntity(fmt.Sprintf("@%d", i), "#test")
			require.NoError(rt, err)
			assert.Equal(rt, fmt.Sprintf("m%d", i), e.Identifier())
		}
		_, err := w.GetEntity(fmt.Sprintf("@%d", n), "#test")
		assert.ErrorIs(rt, err, world.ErrMonsterNotFound)
		assert.Len(rt, w.Monsters("#test"), n)
	})
}

func TestSaveAll(t *testing.T) {
	store := newMemStore()
	w := world.New(store, zaptest.NewLogger(t))
	w.AddUser("a", "#test", player("alice"))
	w.AddUser("b", "#test", player("bob"))
	w.AddUser("c", "#test", player("carol"))
	require.NoError(t, w.SaveAll(context.Background()))
	assert.Len(t, store.saved, 3)

	store.saved = map[string]character.Record{}
	store.failOn["alice"] = true
	store.failOn["carol"] = true
	err := w.SaveAll(context.Background())
	require.Error(t, err)
	assert.Equal(t, []string{"alice", "carol"}, world.FailedSaves(err))
	assert.Contains(t, store.saved, "bob")
	assert.True(t, errors.Is(err, fault.ErrStorage))

	var se *world.SaveError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "a", se.Nick)
}

func TestFailedSaves_Nil(t *testing.T) {
	assert.Nil(t, world.FailedSaves(nil))
	assert.Nil(t, world.FailedSaves(errors.New("other")))
}
