package notify

import (
	"context"

	"cypher-backend/internal/registry"
)

// Mailer delivers the end-of-call report to the operator.
//
// Sending is best-effort: callers log failures and continue, and a nil/absent
// mailer means notifications are simply disabled.
type Mailer interface {
	SendCallReport(ctx context.Context, r CallReport) error
}

// CallReport joins the registered call context with the terminal event data.
type CallReport struct {
	Context registry.CallContext

	// From the webhook event.
	DurationSeconds float64
	EndedAt         string
	Status          string
}
