package training

import "errors"

// LaunchRequest is the wire request from the dashboard. Field names match
// the UI payload exactly.
type LaunchRequest struct {
	PhoneNumber   string   `json:"phoneNumber"`
	EmployeeName  string   `json:"employeeName"`
	EmployeeEmail string   `json:"employeeEmail"`
	Scenario      Scenario `json:"scenario"`
	Vectors       []string `json:"vectors"`
}

// Scenario is opaque to this service beyond id and title.
type Scenario struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type LaunchResult struct {
	CallID string
	Status string
}

var (
	// ErrPhoneRequired and ErrPhoneFormat reject a launch before any
	// provider call is made.
	ErrPhoneRequired = errors.New("training: phone number is required")
	ErrPhoneFormat   = errors.New("training: phone number must be E.164")
)
