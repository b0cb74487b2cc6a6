package registry

import "time"

// CallContext identifies one in-flight simulated attack call.
//
// Invariants:
// - CallID is the provider-assigned call id and the registry key.
// - All fields are immutable for the life of the context.
// - Inserted only by the launch path; removed only by the webhook path
//   (or by TTL eviction when the terminal event never arrives).

type CallContext struct {
	CallID string `json:"call_id"`

	EmployeeName  string `json:"employee_name"`
	EmployeeEmail string `json:"employee_email"`
	PhoneNumber   string `json:"phone_number"`

	Scenario Scenario `json:"scenario"`

	// Vectors names the attack channels used for this scenario, in the
	// order the operator selected them.
	Vectors []string `json:"vectors,omitempty"`

	StartedAt time.Time `json:"started_at"`
}

type Scenario struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}
