// Package config loads configuration structs from environment variables
// using `env` field tags, with optional .env file support for local
// development. Loaded configurations are cached per type for the process
// lifetime.
package config
