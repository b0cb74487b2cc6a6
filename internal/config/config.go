package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration required by the API process.
// All values must come from env (or env-file loaded by the process runner).
// No business logic should depend on raw environment variables.
type Config struct {
	App      AppConfig
	Vapi     VapiConfig
	Email    EmailConfig
	Registry RegistryConfig
	Redis    RedisConfig
}

type AppConfig struct {
	Env  string
	Port int
}

type VapiConfig struct {
	APIKey        string
	AssistantID   string
	PhoneNumberID string

	// BaseURL is overridable for local testing; defaults to the hosted API.
	BaseURL string
	Timeout time.Duration

	// WebhookSecret, when set, must match the x-vapi-secret header on
	// inbound webhook requests.
	WebhookSecret string
}

type EmailConfig struct {
	ResendAPIKey string
	From         string
	To           string
}

type RegistryConfig struct {
	// TTL bounds how long an unresolved call context is retained when the
	// terminal webhook event never arrives.
	TTL        time.Duration
	MaxEntries int
}

// RedisConfig is optional; when Host is empty the in-memory registry is used.
type RedisConfig struct {
	Host string
	Port int
}

const (
	defaultPort           = 3001
	defaultVapiBaseURL    = "https://api.vapi.ai"
	defaultVapiTimeout    = 30 * time.Second
	defaultRegistryTTL    = 30 * time.Minute
	defaultRegistryMaxLen = 10000
	defaultRedisPort      = 6379
)

func Load() (Config, error) {
	c := Config{}

	c.App.Env = strings.TrimSpace(os.Getenv("APP_ENV"))
	if c.App.Env == "" {
		c.App.Env = "local"
	}
	c.App.Port = optionalInt("APP_PORT", defaultPort)

	c.Vapi.APIKey = os.Getenv("VAPI_API_KEY")
	c.Vapi.AssistantID = strings.TrimSpace(os.Getenv("ASSISTANT_ID"))
	c.Vapi.PhoneNumberID = strings.TrimSpace(os.Getenv("TWILIO_PHONE_NUMBER_ID"))
	c.Vapi.BaseURL = strings.TrimSpace(os.Getenv("VAPI_BASE_URL"))
	if c.Vapi.BaseURL == "" {
		c.Vapi.BaseURL = defaultVapiBaseURL
	}
	c.Vapi.Timeout = optionalDuration("VAPI_TIMEOUT", defaultVapiTimeout)
	c.Vapi.WebhookSecret = os.Getenv("VAPI_WEBHOOK_SECRET")

	c.Email.ResendAPIKey = os.Getenv("RESEND_API_KEY")
	c.Email.From = strings.TrimSpace(os.Getenv("EMAIL_FROM"))
	c.Email.To = strings.TrimSpace(os.Getenv("EMAIL_TO"))

	c.Registry.TTL = optionalDuration("REGISTRY_TTL", defaultRegistryTTL)
	c.Registry.MaxEntries = optionalInt("REGISTRY_MAX_ENTRIES", defaultRegistryMaxLen)

	c.Redis.Host = strings.TrimSpace(os.Getenv("REDIS_HOST"))
	c.Redis.Port = optionalInt("REDIS_PORT", defaultRedisPort)

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate reports every missing or invalid value in a single error so an
// operator can fix the whole .env in one pass.
func (c Config) Validate() error {
	var errs []error

	if !isValidEnv(c.App.Env) {
		errs = append(errs, fmt.Errorf("APP_ENV must be one of local, dev, staging, production, got %q", c.App.Env))
	}
	if c.App.Port <= 0 || c.App.Port > 65535 {
		errs = append(errs, fmt.Errorf("APP_PORT must be a valid port, got %d", c.App.Port))
	}

	if c.Vapi.APIKey == "" {
		errs = append(errs, errors.New("VAPI_API_KEY is required"))
	}
	if c.Vapi.AssistantID == "" {
		errs = append(errs, errors.New("ASSISTANT_ID is required"))
	}
	if c.Vapi.PhoneNumberID == "" {
		errs = append(errs, errors.New("TWILIO_PHONE_NUMBER_ID is required"))
	}
	if c.Vapi.Timeout <= 0 {
		errs = append(errs, errors.New("VAPI_TIMEOUT must be a positive duration"))
	}

	// Email is optional but all-or-nothing: a partially configured mailer
	// would fail on every send.
	if c.emailPartial() {
		errs = append(errs, errors.New("email requires RESEND_API_KEY, EMAIL_FROM and EMAIL_TO together"))
	}

	if c.Registry.TTL <= 0 {
		errs = append(errs, errors.New("REGISTRY_TTL must be a positive duration"))
	}
	if c.Registry.MaxEntries <= 0 {
		errs = append(errs, errors.New("REGISTRY_MAX_ENTRIES must be > 0"))
	}

	if c.Redis.Host != "" && (c.Redis.Port <= 0 || c.Redis.Port > 65535) {
		errs = append(errs, fmt.Errorf("REDIS_PORT must be a valid port, got %d", c.Redis.Port))
	}

	return joinErrors(errs)
}

// EmailEnabled reports whether the completion email should be sent at all.
func (c Config) EmailEnabled() bool {
	return c.Email.ResendAPIKey != "" && c.Email.From != "" && c.Email.To != ""
}

func (c Config) emailPartial() bool {
	any := c.Email.ResendAPIKey != "" || c.Email.From != "" || c.Email.To != ""
	return any && !c.EmailEnabled()
}

func (c Config) IsProduction() bool {
	return c.App.Env == "production"
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}

func (c Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// UseRedisRegistry reports whether the shared Redis-backed registry should be
// used instead of the process-local one.
func (c Config) UseRedisRegistry() bool {
	return c.Redis.Host != ""
}

func optionalInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return -1
	}
	return n
}

func optionalDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return -1
	}
	return d
}

func isValidEnv(v string) bool {
	switch v {
	case "local", "dev", "staging", "production":
		return true
	default:
		return false
	}
}

func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}
	var b strings.Builder
	b.WriteString("config errors:\n")
	for _, e := range errs {
		b.WriteString("- ")
		b.WriteString(e.Error())
		b.WriteString("\n")
	}
	return errors.New(strings.TrimSpace(b.String()))
}
