// Package logger provides a slog factory with environment presets and a
// set of typed attribute constructors shared across the notification
// pipeline, keeping log field names consistent between components.
package logger
