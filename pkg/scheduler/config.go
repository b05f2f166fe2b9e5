package scheduler

import "time"

// Config holds connection settings for the hosted scheduling service.
type Config struct {
	// BaseURL is the scheduling service API root, e.g.
	// "https://scheduler.internal".
	BaseURL string `env:"SCHEDULER_URL,required"`

	// APIKey is sent as a bearer token when set.
	APIKey string `env:"SCHEDULER_API_KEY"`

	// Timeout bounds each API call.
	Timeout time.Duration `env:"SCHEDULER_TIMEOUT" envDefault:"10s"`
}
