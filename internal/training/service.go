package training

import (
	"context"
	"strings"
	"time"

	"cypher-backend/internal/notify"
	"cypher-backend/internal/registry"
	"cypher-backend/internal/vapi"
	"cypher-backend/pkg/logger"
)

// CallPlacer is the slice of the Vapi client the launch path needs.
type CallPlacer interface {
	CreateCall(ctx context.Context, req vapi.CreateCallRequest) (vapi.Call, error)
}

// Service orchestrates the training-call flow: launch an outbound call,
// register its context, and resolve the terminal webhook event back to it.
type Service struct {
	placer CallPlacer
	store  registry.Store

	// mailer is nil when email is not configured; the completion notice is
	// then skipped, which is not a failure.
	mailer notify.Mailer

	assistantID   string
	phoneNumberID string

	now func() time.Time
}

func NewService(placer CallPlacer, store registry.Store, mailer notify.Mailer, assistantID, phoneNumberID string) *Service {
	return &Service{
		placer:        placer,
		store:         store,
		mailer:        mailer,
		assistantID:   assistantID,
		phoneNumberID: phoneNumberID,
		now:           time.Now,
	}
}

// Launch validates the request, places exactly one outbound call, and
// registers the call context under the provider-assigned id.
//
// A registry insert failure after a successful provider call is logged and
// swallowed: the phone is already ringing, so the launch must still report
// success. The cost is a webhook that will later find no context, which the
// webhook path already treats as a no-op.
func (s *Service) Launch(ctx context.Context, req LaunchRequest) (LaunchResult, error) {
	if req.PhoneNumber == "" {
		return LaunchResult{}, ErrPhoneRequired
	}
	if !strings.HasPrefix(req.PhoneNumber, "+") {
		return LaunchResult{}, ErrPhoneFormat
	}

	log := logger.From(ctx)
	log.Info("initiating training call",
		"employee", req.EmployeeName,
		"phone", req.PhoneNumber,
		"scenario", req.Scenario.Title,
		"vectors", strings.Join(req.Vectors, ","),
	)

	call, err := s.placer.CreateCall(ctx, vapi.CreateCallRequest{
		AssistantID:   s.assistantID,
		PhoneNumberID: s.phoneNumberID,
		Customer:      vapi.Customer{Number: req.PhoneNumber},
		Metadata: vapi.CallMetadata{
			EmployeeName:  req.EmployeeName,
			EmployeeEmail: req.EmployeeEmail,
			ScenarioID:    req.Scenario.ID,
			ScenarioTitle: req.Scenario.Title,
			Vectors:       strings.Join(req.Vectors, ","),
		},
	})
	if err != nil {
		return LaunchResult{}, err
	}

	cc := registry.CallContext{
		CallID:        call.ID,
		EmployeeName:  req.EmployeeName,
		EmployeeEmail: req.EmployeeEmail,
		PhoneNumber:   req.PhoneNumber,
		Scenario:      registry.Scenario{ID: req.Scenario.ID, Title: req.Scenario.Title},
		Vectors:       req.Vectors,
		StartedAt:     s.now().UTC(),
	}
	if err := s.store.Insert(ctx, cc); err != nil {
		log.Error("call context registration failed", "call_id", call.ID, "err", err)
	} else {
		log.Info("call initiated", "call_id", call.ID, "status", call.Status)
	}

	return LaunchResult{CallID: call.ID, Status: call.Status}, nil
}
