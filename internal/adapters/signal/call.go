package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/habib-676/talk-sync-server/internal/domain"
)

func (ctl *SocketController) handleCallUser(uid domain.UserID, data []byte) {
	type callUserPayload struct {
		UserToCall string          `json:"userToCall"`
		SignalData json.RawMessage `json:"signalData"`
		From       string          `json:"from"`
		Name       string          `json:"name"`
	}
	var p callUserPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad callUser payload")
		return
	}

	from := uid
	if from == "" {
		from = domain.UserID(p.From)
	}
	if !ctl.limiter.Allow(from) {
		log.Warn().Str("module", "signal").Str("from", string(from)).Msg("callUser rate limited")
		return
	}

	log.Info().Str("module", "signal").Str("from", string(from)).Str("to", p.UserToCall).Msg("callUser")
	ctl.router.CallUser(from, domain.UserID(p.UserToCall), p.Name, p.SignalData)
}

func (ctl *SocketController) handleAcceptCall(uid domain.UserID, data []byte) {
	type acceptCallPayload struct {
		To     string          `json:"to"`
		Signal json.RawMessage `json:"signal"`
	}
	var p acceptCallPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad acceptCall payload")
		return
	}
	log.Info().Str("module", "signal").Str("from", string(uid)).Str("to", p.To).Msg("acceptCall")
	ctl.router.AcceptCall(domain.UserID(p.To), p.Signal)
}

func (ctl *SocketController) handleDeclineCall(uid domain.UserID, data []byte) {
	type declineCallPayload struct {
		To string `json:"to"`
	}
	var p declineCallPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad declineCall payload")
		return
	}
	log.Info().Str("module", "signal").Str("from", string(uid)).Str("to", p.To).Msg("declineCall")
	ctl.router.DeclineCall(domain.UserID(p.To))
}

func (ctl *SocketController) handleICECandidate(uid domain.UserID, data []byte) {
	type iceCandidatePayload struct {
		To        string          `json:"to"`
		Candidate json.RawMessage `json:"candidate"`
	}
	var p iceCandidatePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad iceCandidate payload")
		return
	}
	ctl.router.ICECandidate(domain.UserID(p.To), p.Candidate)
}

func (ctl *SocketController) handleEndCall(uid domain.UserID, data []byte) {
	type endCallPayload struct {
		To string `json:"to"`
	}
	var p endCallPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad endCall payload")
		return
	}
	log.Info().Str("module", "signal").Str("from", string(uid)).Str("to", p.To).Msg("endCall")
	ctl.router.EndCall(domain.UserID(p.To))
}
