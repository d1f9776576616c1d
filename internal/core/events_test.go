package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncode_MarshalsDataUnderEvent(t *testing.T) {
	req := require.New(t)

	f, err := Encode(EventGetOnlineUsers, []string{"u1", "u2"})
	req.NoError(err)

	var env Envelope
	req.NoError(json.Unmarshal(f, &env))
	req.Equal(EventGetOnlineUsers, env.Event)
	req.JSONEq(`["u1","u2"]`, string(env.Data))
}

func TestEncode_RawMessagePassesThroughUntouched(t *testing.T) {
	req := require.New(t)
	raw := json.RawMessage(`{"sdp":"X","type":"offer"}`)

	f, err := Encode(EventCallAccepted, raw)
	req.NoError(err)

	var env Envelope
	req.NoError(json.Unmarshal(f, &env))
	req.Equal(string(raw), string(env.Data))
}

func TestEncode_NilDataOmitsField(t *testing.T) {
	req := require.New(t)

	f, err := Encode(EventCallDeclined, nil)
	req.NoError(err)
	req.JSONEq(`{"event":"callDeclined"}`, string(f))
}
