package training

import (
	"context"

	"cypher-backend/internal/notify"
	"cypher-backend/internal/vapi"
	"cypher-backend/pkg/logger"
)

// Terminal event markers. Vapi signals call end either with a dedicated
// report event or with a status transition to "ended".
var terminalEventTypes = map[string]bool{
	"end-of-call-report": true,
	"call-ended":         true,
}

const statusEnded = "ended"

func isTerminal(m vapi.EventMessage) bool {
	if terminalEventTypes[m.Type] {
		return true
	}
	if m.Status == statusEnded {
		return true
	}
	return m.Call != nil && m.Call.Status == statusEnded
}

// EventOutcome describes what HandleEvent did, for logging and tests.
type EventOutcome struct {
	Terminal  bool
	CallID    string
	Matched   bool
	EmailSent bool
}

// HandleEvent processes one webhook event. It never returns an error: the
// webhook contract is to acknowledge everything so the provider does not
// retry, so internal failures are logged and swallowed here.
//
// Replays are safe: the registry take is atomic, so a second delivery of the
// same terminal event finds no context and becomes a no-op.
func (s *Service) HandleEvent(ctx context.Context, env vapi.EventEnvelope) EventOutcome {
	log := logger.From(ctx)
	out := EventOutcome{Terminal: isTerminal(env.Message)}

	if env.Message.Call != nil {
		out.CallID = env.Message.Call.ID
	}
	if !out.Terminal {
		log.Debug("ignoring non-terminal event", "type", env.Message.Type)
		return out
	}
	if out.CallID == "" {
		log.Warn("terminal event without call id", "type", env.Message.Type)
		return out
	}

	cc, ok, err := s.store.Take(ctx, out.CallID)
	if err != nil {
		log.Error("registry lookup failed", "call_id", out.CallID, "err", err)
		return out
	}
	if !ok {
		// Legitimate: restarted process, replayed event, or a call this
		// instance never registered.
		log.Info("terminal event for unknown call", "call_id", out.CallID)
		return out
	}
	out.Matched = true

	if s.mailer == nil {
		log.Info("call ended, email disabled", "call_id", out.CallID, "employee", cc.EmployeeName)
		return out
	}

	report := notify.CallReport{
		Context:         cc,
		DurationSeconds: env.Message.Call.Duration,
		EndedAt:         env.Message.Call.EndedAt,
		Status:          env.Message.Call.Status,
	}
	if err := s.mailer.SendCallReport(ctx, report); err != nil {
		log.Error("completion email failed", "call_id", out.CallID, "err", err)
		return out
	}
	out.EmailSent = true
	log.Info("completion email sent", "call_id", out.CallID, "employee", cc.EmployeeName)
	return out
}
