package app

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/habib-676/talk-sync-server/internal/core"
)

func decodeFrame(t *testing.T, f core.Frame) core.Envelope {
	t.Helper()
	var env core.Envelope
	require.NoError(t, json.Unmarshal(f, &env))
	return env
}

func TestBroadcaster_SendsOnlineSetToEveryAttachedConnection(t *testing.T) {
	req := require.New(t)
	b := NewBroadcaster()
	c1 := &fakeConn{}
	c2 := &fakeConn{}
	b.Attach(c1)
	b.Attach(c2)

	b.Announce([]PresenceEntry{
		{ID: "u2", Conn: c2},
		{ID: "u1", Conn: c1},
	})

	for _, c := range []*fakeConn{c1, c2} {
		frames := c.received()
		req.Len(frames, 1)
		env := decodeFrame(t, frames[0])
		req.Equal(core.EventGetOnlineUsers, env.Event)

		var ids []string
		req.NoError(json.Unmarshal(env.Data, &ids))
		req.Equal([]string{"u1", "u2"}, ids)
	}
}

func TestBroadcaster_UnregisteredPartyObservesPresence(t *testing.T) {
	req := require.New(t)
	b := NewBroadcaster()
	registered := &fakeConn{}
	observer := &fakeConn{}
	b.Attach(registered)
	// The observer never supplied a uid, so it appears in no entry set.
	b.Attach(observer)

	b.Announce([]PresenceEntry{{ID: "u1", Conn: registered}})

	frames := observer.received()
	req.Len(frames, 1)
	env := decodeFrame(t, frames[0])
	req.Equal(core.EventGetOnlineUsers, env.Event)

	var ids []string
	req.NoError(json.Unmarshal(env.Data, &ids))
	req.Equal([]string{"u1"}, ids)
}

func TestBroadcaster_DetachedConnectionStopsReceiving(t *testing.T) {
	req := require.New(t)
	b := NewBroadcaster()
	c := &fakeConn{}
	b.Attach(c)
	b.Detach(c)

	b.Announce([]PresenceEntry{{ID: "u1", Conn: &fakeConn{}}})

	req.Empty(c.received())
}

func TestBroadcaster_DeadConnectionDoesNotBlockOthers(t *testing.T) {
	req := require.New(t)
	b := NewBroadcaster()
	dead := &fakeConn{dead: true}
	live := &fakeConn{}
	b.Attach(dead)
	b.Attach(live)

	b.Announce([]PresenceEntry{
		{ID: "u1", Conn: dead},
		{ID: "u2", Conn: live},
	})

	req.Empty(dead.received())
	req.Len(live.received(), 1)
}

func TestBroadcaster_EmptyAudience(t *testing.T) {
	NewBroadcaster().Announce(nil)
}

func TestRegistryWithBroadcaster_EndToEndPresence(t *testing.T) {
	req := require.New(t)
	b := NewBroadcaster()
	reg := NewRegistry(b)
	c1 := &fakeConn{}
	c2 := &fakeConn{}
	b.Attach(c1)
	b.Attach(c2)

	reg.Register("u1", c1)
	reg.Register("u2", c2)
	b.Detach(c1)
	reg.Unregister("u1", c1)

	// c2 saw every announcement while attached: [u1], [u1 u2], [u2].
	frames := c2.received()
	req.Len(frames, 3)

	var ids []string
	env := decodeFrame(t, frames[2])
	req.NoError(json.Unmarshal(env.Data, &ids))
	req.Equal([]string{"u2"}, ids)
}
