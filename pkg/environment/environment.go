package environment

import (
	"context"
	"os"
)

// Environment represents the application environment.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

// Parse normalizes an environment name, accepting the common short forms.
// Unknown values fall back to Development so a missing variable never
// silently enables production behavior.
func Parse(s string) Environment {
	switch s {
	case string(Production), "prod":
		return Production
	case string(Staging), "stage":
		return Staging
	default:
		return Development
	}
}

// Detect reads the environment from the APP_ENV variable.
func Detect() Environment {
	return Parse(os.Getenv("APP_ENV"))
}

type contextKey struct{}

// WithContext attaches the environment to the context.
func WithContext(ctx context.Context, env Environment) context.Context {
	return context.WithValue(ctx, contextKey{}, env)
}

// FromContext retrieves the environment from the context, or an empty
// string when none was attached.
func FromContext(ctx context.Context) Environment {
	if ctx == nil {
		return ""
	}
	env, _ := ctx.Value(contextKey{}).(Environment)
	return env
}

// IsProduction reports whether the environment in ctx is production.
func IsProduction(ctx context.Context) bool {
	return FromContext(ctx) == Production
}

// IsDevelopment reports whether the environment in ctx is development.
func IsDevelopment(ctx context.Context) bool {
	return FromContext(ctx) == Development
}
