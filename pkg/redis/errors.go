package redis

import "errors"

var (
	ErrFailedToParseURL  = errors.New("redis: failed to parse connection URL")
	ErrNotReady          = errors.New("redis: server did not become ready in time")
	ErrHealthcheckFailed = errors.New("redis: healthcheck failed")
)
