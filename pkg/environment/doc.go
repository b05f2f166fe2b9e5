// Package environment provides the application environment type and
// context helpers used to switch delivery behavior between development,
// staging and production.
package environment
