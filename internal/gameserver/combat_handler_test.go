package gameserver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrivateRoll(t *testing.T) {
	h := newHarness(t)
	r := h.one(h.pm("alice", "roll"))
	assert.Equal(t, Response{Target: "alice", Message: "You rolled 10."}, r)

	r = h.one(h.pm("alice", "roll 2d6+1"))
	assert.Equal(t, "You rolled 2d6+1: [4 4] +1 = 9.", r.Message)

	r = h.one(h.pm("alice", "roll banana"))
	assert.Equal(t, "banana is not a valid dice expression.", r.Message)

	r = h.one(h.pm("alice", "roll 1d6 1d8"))
	assert.Contains(t, r.Message, "Incorrect format for roll.")
}

func TestChannelRoll(t *testing.T) {
	h := newHarness(t)
	r := h.one(h.say("test", "#test", ".roll"))
	assert.Equal(t, Response{Target: "#test", Message: "test is not logged in."}, r)

	h.campaign()
	h.one(h.pm("dm", "addmonster #test Orc 15 30 16 10 14 8 8 3"))

	r = h.one(h.say("test", "#test", ".roll"))
	assert.Equal(t, Response{Target: "#test", Message: "test rolled 10."}, r)

	r = h.one(h.say("test", "#test", ".roll STR"))
	assert.Equal(t, "test rolled 11.", r.Message)

	r = h.one(h.say("test", "#test", ".roll luck"))
	assert.Equal(t, "luck is not a valid stat.\nOptions: str dex con wis int cha (or their full names).", r.Message)

	r = h.one(h.say("dm", "#test", ".roll @0"))
	assert.Equal(t, "Orc rolled 10.", r.Message)

	r = h.one(h.say("dm", "#test", ".roll @0 str"))
	assert.Equal(t, "Orc rolled 13.", r.Message)

	r = h.one(h.say("dm", "#test", ".roll @0 cha"))
	assert.Equal(t, "Orc rolled 6.", r.Message)

	r = h.one(h.say("test", "#test", ".roll @0"))
	assert.Equal(t, Response{Target: "test", Message: "You must be the DM to do that!"}, r)

	r = h.one(h.say("dm", "#test", ".roll @9"))
	assert.Equal(t, "@9 is not a valid monster.", r.Message)

	r = h.one(h.say("dm", "#test", ".roll a b c"))
	assert.Contains(t, r.Message, "Incorrect format for .roll.")
}

func TestDamage(t *testing.T) {
	h := newHarness(t)
	h.campaign()
	h.one(h.pm("dm", "addmonster #test Orc 15 30 16 10 14 8 8 8"))

	r := h.one(h.say("dm", "#test", ".damage @0 4"))
	assert.Equal(t, "Orc (@0) took 4 damage and has 11 health remaining.", r.Message)

	r = h.one(h.say("dm", "#test", ".damage @0 -1"))
	assert.Equal(t, "-1 is not a valid positive integer.", r.Message)

	r = h.one(h.say("dm", "#test", ".damage @7 1"))
	assert.Equal(t, "@7 is not a valid monster.", r.Message)

	r = h.one(h.say("dm", "#test", ".damage ghost 1"))
	assert.Equal(t, "ghost is not logged in.", r.Message)

	r = h.one(h.say("test", "#test", ".damage @0 1"))
	assert.Equal(t, Response{Target: "test", Message: "You must be the DM to do that!"}, r)

	r = h.one(h.say("dm", "#other", ".damage @0 1"))
	assert.Equal(t, Response{Target: "dm", Message: "There is no game in #other."}, r)

	r = h.one(h.say("dm", "#test", ".damage @0"))
	assert.Equal(t, "Incorrect format for .damage. Format is:\n.damage target value", r.Message)
}

func TestMove_Self(t *testing.T) {
	h := newHarness(t)
	h.campaign()

	r := h.one(h.say("test", "#test", ".move 6 0"))
	assert.Equal(t, "test moved to (6, 0).", r.Message)
	r = h.one(h.say("test", "#test", ".mv 6 6"))
	assert.Equal(t, "test moved to (6, 6).", r.Message)
	r = h.one(h.say("test", "#test", ".move 9 9"))
	assert.Equal(t, "test moved to (9, 9).", r.Message)
	r = h.one(h.say("test", "#test", ".move 20 20"))
	assert.Equal(t, "test can move at most 6 spaces in a turn.", r.Message)

	r = h.one(h.say("test", "#test", ".move x 1"))
	assert.Equal(t, "x is not a valid integer.", r.Message)

	r = h.one(h.say("test", "#test", ".move 1"))
	assert.Contains(t, r.Message, "Incorrect format for .move.")

	r = h.one(h.say("test", "#test", ".move @0 1 1"))
	assert.Equal(t, Response{Target: "test", Message: "You must be the DM to do that!"}, r)
}
