// Package pg bootstraps the postgres layer behind the preference store:
// pooled connections via pgx/v5 with startup retries, goose schema
// migrations, and a health probe.
package pg
