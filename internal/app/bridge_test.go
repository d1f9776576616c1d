package app

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBridge_DeliversVerbatimToOnlineUser(t *testing.T) {
	req := require.New(t)
	reg := NewRegistry(nil)
	c := &fakeConn{}
	reg.Register("u1", c)
	b := NewBridge(reg)

	payload := json.RawMessage(`{"senderId":"u2","text":"hej"}`)
	delivered := b.DeliverIfOnline("u1", "newMessage", payload)

	req.True(delivered)
	frames := c.received()
	req.Len(frames, 1)
	env := decodeFrame(t, frames[0])
	req.Equal("newMessage", env.Event)
	req.Equal(string(payload), string(env.Data))
}

func TestBridge_OfflineUserIsNoop(t *testing.T) {
	b := NewBridge(NewRegistry(nil))
	delivered := b.DeliverIfOnline("ghost", "sessionRequested", json.RawMessage(`{}`))
	require.False(t, delivered)
}

func TestBridge_BackpressuredConnectionReportsUndelivered(t *testing.T) {
	reg := NewRegistry(nil)
	reg.Register("u1", &fakeConn{dead: true})
	b := NewBridge(reg)

	delivered := b.DeliverIfOnline("u1", "notification:new", nil)
	require.False(t, delivered)
}

func TestBridge_FIFOPerDestination(t *testing.T) {
	req := require.New(t)
	reg := NewRegistry(nil)
	c := &fakeConn{}
	reg.Register("u1", c)
	b := NewBridge(reg)

	for i, ev := range []string{"newMessage", "sessionRequested", "sessionAccepted"} {
		payload, _ := json.Marshal(map[string]int{"seq": i})
		b.DeliverIfOnline("u1", ev, payload)
	}

	frames := c.received()
	req.Len(frames, 3)
	for i, want := range []string{"newMessage", "sessionRequested", "sessionAccepted"} {
		env := decodeFrame(t, frames[i])
		req.Equal(want, env.Event)
	}
}
