package app

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/habib-676/talk-sync-server/internal/core"
	"github.com/habib-676/talk-sync-server/internal/domain"
)

// CallRouter relays call-setup messages between exactly two users. It
// keeps no call state: the whole negotiation lives on the two clients,
// the server only resolves the destination and forwards. An offline
// destination means the message is dropped; the caller's UI times out
// on its own, the server never synthesizes a rejection.
type CallRouter struct {
	reg *Registry
}

func NewCallRouter(reg *Registry) *CallRouter {
	return &CallRouter{reg: reg}
}

// IncomingCall is the payload delivered to the callee on callUser.
type IncomingCall struct {
	From   domain.UserID   `json:"from"`
	Name   string          `json:"name"`
	Signal json.RawMessage `json:"signal"`
}

// CallUser forwards an invite (offer) to the callee, attaching the
// caller's id and display name so the callee can answer back.
func (rt *CallRouter) CallUser(from domain.UserID, userToCall domain.UserID, name string, signal json.RawMessage) {
	rt.forward(userToCall, core.EventIncomingCall, IncomingCall{From: from, Name: name, Signal: signal})
}

// AcceptCall forwards the answer signal back to the original caller.
// The signal travels unwrapped, exactly as the callee produced it.
func (rt *CallRouter) AcceptCall(to domain.UserID, signal json.RawMessage) {
	rt.forward(to, core.EventCallAccepted, signal)
}

// DeclineCall tells the original caller the invite was rejected.
func (rt *CallRouter) DeclineCall(to domain.UserID) {
	rt.forward(to, core.EventCallDeclined, nil)
}

// ICECandidate relays one network candidate to the other party.
func (rt *CallRouter) ICECandidate(to domain.UserID, candidate json.RawMessage) {
	rt.forward(to, core.EventIceCandidate, candidate)
}

// EndCall tells the other party the call is over.
func (rt *CallRouter) EndCall(to domain.UserID) {
	rt.forward(to, core.EventEndCall, nil)
}

func (rt *CallRouter) forward(to domain.UserID, event string, data any) {
	if to == "" {
		log.Debug().Str("module", "app.callrouter").Str("event", event).Msg("missing destination")
		return
	}
	conn, ok := rt.reg.Lookup(to)
	if !ok {
		log.Debug().Str("module", "app.callrouter").Str("event", event).Str("to", string(to)).Msg("destination offline")
		return
	}
	frame, err := core.Encode(event, data)
	if err != nil {
		log.Error().Err(err).Str("module", "app.callrouter").Str("event", event).Msg("encode")
		return
	}
	if err := conn.TrySend(frame); err != nil {
		log.Debug().Err(err).Str("module", "app.callrouter").Str("event", event).Str("to", string(to)).Msg("send failed")
	}
}
