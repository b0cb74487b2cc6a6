package vapi

// Wire types for the Vapi REST API.
//
// Keep these provider-shaped: field names follow the JSON the hosted API
// accepts and emits. Business logic should not leak into this package.

// CreateCallRequest is the body for POST /call/phone.
type CreateCallRequest struct {
	AssistantID   string       `json:"assistantId"`
	PhoneNumberID string       `json:"phoneNumberId"`
	Customer      Customer     `json:"customer"`
	Metadata      CallMetadata `json:"metadata,omitempty"`

	AssistantOverrides *AssistantOverrides `json:"assistantOverrides,omitempty"`
}

type Customer struct {
	Number string `json:"number"`
}

// CallMetadata rides along with the call and is echoed back on webhook
// events; it is the only channel for correlating provider-side state with
// the training context.
type CallMetadata struct {
	EmployeeName  string `json:"employeeName,omitempty"`
	EmployeeEmail string `json:"employeeEmail,omitempty"`
	ScenarioID    string `json:"scenarioId,omitempty"`
	ScenarioTitle string `json:"scenarioTitle,omitempty"`

	// Vectors is comma-joined; Vapi metadata values are flat strings.
	Vectors string `json:"vectors,omitempty"`
}

type AssistantOverrides struct {
	BackgroundSound            string `json:"backgroundSound,omitempty"`
	BackgroundDenoisingEnabled *bool  `json:"backgroundDenoisingEnabled,omitempty"`
}

// Call is the subset of the call resource this service reads.
type Call struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	Type      string `json:"type,omitempty"`
	StartedAt string `json:"startedAt,omitempty"`
}

// Assistant is the configuration body for POST /assistant and the resource
// returned from it.
type Assistant struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`

	Model       AssistantModel       `json:"model"`
	Voice       AssistantVoice       `json:"voice"`
	Transcriber AssistantTranscriber `json:"transcriber"`

	StopSpeakingPlan *StopSpeakingPlan `json:"stopSpeakingPlan,omitempty"`

	FirstMessage   string   `json:"firstMessage,omitempty"`
	EndCallPhrases []string `json:"endCallPhrases,omitempty"`

	ResponseDelaySeconds   float64 `json:"responseDelaySeconds"`
	LLMRequestDelaySeconds float64 `json:"llmRequestDelaySeconds"`
	SilenceTimeoutSeconds  int     `json:"silenceTimeoutSeconds,omitempty"`
	MaxDurationSeconds     int     `json:"maxDurationSeconds,omitempty"`

	BackgroundSound              string `json:"backgroundSound,omitempty"`
	BackchannelingEnabled        bool   `json:"backchannelingEnabled,omitempty"`
	BackgroundDenoisingEnabled   bool   `json:"backgroundDenoisingEnabled"`
	ModelOutputInMessagesEnabled bool   `json:"modelOutputInMessagesEnabled,omitempty"`
}

type AssistantModel struct {
	Provider                  string         `json:"provider"`
	Model                     string         `json:"model"`
	Messages                  []ModelMessage `json:"messages,omitempty"`
	Temperature               float64        `json:"temperature,omitempty"`
	MaxTokens                 int            `json:"maxTokens,omitempty"`
	EmotionRecognitionEnabled bool           `json:"emotionRecognitionEnabled,omitempty"`
}

type ModelMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type AssistantVoice struct {
	Provider        string  `json:"provider"`
	VoiceID         string  `json:"voiceId"`
	Stability       float64 `json:"stability,omitempty"`
	SimilarityBoost float64 `json:"similarityBoost,omitempty"`
}

type AssistantTranscriber struct {
	Provider string `json:"provider"`
	Model    string `json:"model,omitempty"`
	Language string `json:"language,omitempty"`
}

// StopSpeakingPlan tunes how aggressively the assistant yields to the callee.
type StopSpeakingPlan struct {
	NumWords               int      `json:"numWords,omitempty"`
	VoiceSeconds           float64  `json:"voiceSeconds,omitempty"`
	BackoffSeconds         float64  `json:"backoffSeconds,omitempty"`
	AcknowledgementPhrases []string `json:"acknowledgementPhrases,omitempty"`
}

// EventEnvelope is the webhook push body. Vapi nests everything under
// "message"; unknown event shapes must decode without error.
type EventEnvelope struct {
	Message EventMessage `json:"message"`
}

type EventMessage struct {
	Type   string     `json:"type"`
	Status string     `json:"status,omitempty"`
	Call   *EventCall `json:"call,omitempty"`
}

type EventCall struct {
	ID     string `json:"id"`
	Status string `json:"status,omitempty"`

	// Duration is in seconds. EndedAt is passed through as the provider
	// formats it.
	Duration float64 `json:"duration,omitempty"`
	EndedAt  string  `json:"endedAt,omitempty"`
}
