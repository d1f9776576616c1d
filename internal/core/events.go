package core

import (
	"encoding/json"
	"fmt"
)

// Wire event names. These are part of the client contract and must not
// be renamed.
const (
	// Client -> server.
	EventCallUser     = "callUser"
	EventAcceptCall   = "acceptCall"
	EventDeclineCall  = "declineCall"
	EventIceCandidate = "iceCandidate"
	EventEndCall      = "endCall"

	// Server -> client.
	EventGetOnlineUsers = "getOnlineUsers"
	EventIncomingCall   = "incomingCall"
	EventCallAccepted   = "callAccepted"
	EventCallDeclined   = "callDeclined"
)

// Envelope is the framing for every message on the socket:
// an event name plus an event-specific JSON body.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Encode marshals data under the given event name into a single frame.
func Encode(event string, data any) (Frame, error) {
	var (
		raw json.RawMessage
		err error
	)
	switch v := data.(type) {
	case nil:
	case json.RawMessage:
		raw = v
	default:
		raw, err = json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", event, err)
		}
	}
	b, err := json.Marshal(Envelope{Event: event, Data: raw})
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", event, err)
	}
	return Frame(b), nil
}
