// Package prefs holds active users and their per-notification-type
// channel opt-ins.
//
// The Store interface expands user and outlet references into active
// users joined with their setting rows in a single query. PGStore is the
// postgres implementation; CachedStore adds a short-TTL redis
// read-through cache in front of any Store. Schema migrations live in
// the migrations directory and are applied with pkg/pg.
package prefs
