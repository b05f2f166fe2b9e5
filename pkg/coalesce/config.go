package coalesce

import "time"

// Config holds coalescer settings.
type Config struct {
	// HookBaseURL is the public root the scheduler posts webhooks back
	// to, e.g. "https://api.example.com".
	HookBaseURL string `env:"NOTIFY_HOOK_BASE_URL,required"`

	// DefaultDelay is the coalescing window used when a send does not
	// specify one.
	DefaultDelay time.Duration `env:"NOTIFY_DEFAULT_DELAY" envDefault:"900s"`

	// Disabled turns Send into a no-op for sandboxed and test
	// environments.
	Disabled bool `env:"NOTIFY_SCHEDULER_DISABLED" envDefault:"false"`
}
