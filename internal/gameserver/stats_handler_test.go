package gameserver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup_Private(t *testing.T) {
	h := newHarness(t)
	h.campaign()
	h.one(h.pm("test", "addfeat Dodge"))

	r := h.one(h.pm("dm", "lookup test"))
	assert.Equal(t, Response{Target: "dm", Message: "test (test): Health 20, Movement 30, Str 12, Dex 12, Con 12, Wis 12, Int 12, Cha 12 Feats [Dodge]"}, r)

	r = h.one(h.pm("dm", "lookup test str"))
	assert.Equal(t, "test (test): 12 str", r.Message)

	r = h.one(h.pm("dm", "lookup test FEATS"))
	assert.Equal(t, "test (test): [Dodge]", r.Message)

	r = h.one(h.pm("dm", "lookup test pos"))
	assert.Equal(t, "test (test) is at (0, 0).", r.Message)

	r = h.one(h.pm("dm", "lookup test luck"))
	assert.Equal(t, "luck is not a valid stat.", r.Message)

	r = h.one(h.pm("dm", "lookup ghost"))
	assert.Equal(t, "ghost is not logged in.", r.Message)

	r = h.one(h.pm("dm", "lookup"))
	assert.Equal(t, "Incorrect format for lookup. Format is:\nlookup target [stat]", r.Message)
}

func TestLookup_Channel(t *testing.T) {
	h := newHarness(t)
	h.campaign()
	h.one(h.pm("dm", "addmonster #test Orc 15 30 16 10 14 8 8 8"))

	r := h.one(h.say("test", "#test", ".lookup test hp"))
	assert.Equal(t, Response{Target: "#test", Message: "test (test): 20 hp"}, r)

	r = h.one(h.say("test", "#test", ".lookup @0"))
	assert.Equal(t, Response{Target: "test", Message: "You must be the DM to do that!"}, r)

	r = h.one(h.say("dm", "#test", ".lookup @0 str"))
	assert.Equal(t, "Orc (@0): 16 str", r.Message)

	r = h.one(h.say("dm", "#test", ".lookup @0 feats"))
	assert.Equal(t, "feats is not a valid stat.", r.Message)

	r = h.one(h.say("dm", "#test", ".lookup @4"))
	assert.Equal(t, "@4 is not a valid monster.", r.Message)

	r = h.one(h.say("dm", "#test", ".lookup"))
	assert.Equal(t, "Incorrect format for .lookup. Format is:\n.lookup target [stat]", r.Message)
}

func TestMLookup(t *testing.T) {
	h := newHarness(t)
	h.campaign()
	h.one(h.pm("dm", "addmonster #test Orc 15 30 16 10 14 8 8 8"))

	r := h.one(h.pm("dm", "mlookup #test @0"))
	assert.Equal(t, "Orc (@0): Health 15, Movement 30, Str 16, Dex 10, Con 14, Wis 8, Int 8, Cha 8", r.Message)

	r = h.one(h.pm("dm", "mlookup #test orc"))
	assert.Equal(t, "orc is not a valid monster.", r.Message)

	r = h.one(h.pm("test", "mlookup #test @0"))
	assert.Equal(t, "You must be the DM to do that!", r.Message)

	r = h.one(h.pm("dm", "mlookup #none @0"))
	assert.Equal(t, "There is no game in #none.", r.Message)
}

func TestUpdateAndIncrease(t *testing.T) {
	h := newHarness(t)
	r := h.one(h.say("test", "#test", ".update str 14"))
	assert.Equal(t, "You're not logged in.", r.Message)

	h.campaign()
	r = h.one(h.say("test", "#test", ".update str 14"))
	assert.Equal(t, Response{Target: "#test", Message: "test (test) now has 14 str."}, r)

	r = h.one(h.say("test", "#test", ".increase Strength 3"))
	assert.Equal(t, "test (test) now has 17 Strength.", r.Message)

	r = h.one(h.say("test", "#test", ".increase str 250"))
	assert.Equal(t, "test (test) now has 255 str.", r.Message)

	r = h.one(h.say("test", "#test", ".update str lots"))
	assert.Equal(t, "lots is not a valid positive integer.", r.Message)

	r = h.one(h.say("test", "#test", ".update luck 3"))
	assert.Equal(t, "luck is not a valid stat.", r.Message)

	r = h.one(h.say("test", "#test", ".increase str"))
	assert.Equal(t, "Incorrect format for .increase. Format is:\n.increase stat value", r.Message)
}

func TestTempAndClearTemp(t *testing.T) {
	h := newHarness(t)
	h.campaign()

	r := h.one(h.say("test", "#test", ".temp test 25 30 14 14 14 14 14 14"))
	assert.Equal(t, Response{Target: "test", Message: "You must be the DM to do that!"}, r)

	r = h.one(h.say("dm", "#test", ".temp test 25 30 14 14 14 14 14 14"))
	assert.Equal(t, "test (test) now has temporary Health 25, Movement 30, Str 14, Dex 14, Con 14, Wis 14, Int 14, Cha 14.", r.Message)

	r = h.one(h.pm("dm", "lookup test con"))
	assert.Equal(t, "test (test): Temp. 14 con", r.Message)

	r = h.one(h.say("dm", "#test", ".damage test 5"))
	assert.Equal(t, "test (test) took 5 damage and has 20 health remaining.", r.Message)

	r = h.one(h.say("dm", "#test", ".cleartemp test"))
	assert.Equal(t, "test (test) has reverted to Health 20, Movement 30, Str 12, Dex 12, Con 12, Wis 12, Int 12, Cha 12.", r.Message)

	r = h.one(h.say("dm", "#test", ".temp test 25 30 14 14 14 14 14 0"))
	assert.Equal(t, "Stats must be non-zero positive integers. Format is:\n.temp target health movement str dex con wis int cha", r.Message)

	r = h.one(h.say("dm", "#test", ".temp ghost 25 30 14 14 14 14 14 14"))
	assert.Equal(t, "ghost is not logged in or does not exist.", r.Message)

	r = h.one(h.say("dm", "#test", ".cleartemp @3"))
	assert.Equal(t, "@3 is not logged in or does not exist.", r.Message)

	p, err := h.w.GetUser("test")
	require.NoError(t, err)
	assert.False(t, p.HasTempStats())
}
