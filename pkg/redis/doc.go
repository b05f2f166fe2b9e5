// Package redis provides connection bootstrap and health probing for
// the redis instance backing the preference cache.
package redis
