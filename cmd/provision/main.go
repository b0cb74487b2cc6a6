// Command provision creates the Vapi assistant used for training calls and
// prints its id. One-shot, operator-triggered; the printed ASSISTANT_ID goes
// into the API process env.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"cypher-backend/internal/vapi"
)

const (
	defaultBaseURL = "https://api.vapi.ai"
	requestTimeout = 30 * time.Second
)

func main() {
	apiKey := os.Getenv("VAPI_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "error: VAPI_API_KEY is required")
		os.Exit(1)
	}
	baseURL := os.Getenv("VAPI_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	client := vapi.NewClient(baseURL, apiKey, requestTimeout)

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	assistant, err := client.CreateAssistant(ctx, trainingAssistant())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: creating assistant: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Assistant created successfully")
	fmt.Printf("  ID:    %s\n", assistant.ID)
	fmt.Printf("  Name:  %s\n", assistant.Name)
	fmt.Printf("  Voice: %s - %s\n", assistant.Voice.Provider, assistant.Voice.VoiceID)
	fmt.Printf("  Model: %s\n", assistant.Model.Model)
	fmt.Println()
	fmt.Println("Add this to your .env to place calls:")
	fmt.Printf("  ASSISTANT_ID=%s\n", assistant.ID)
}
