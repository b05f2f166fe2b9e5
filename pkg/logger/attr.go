package logger

import "log/slog"

// Error creates an attribute for a single error under the key "error".
// Nil errors produce an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// UserID records the user identifier under the key "user_id".
func UserID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("user_id", id)
}

// OutletID records the outlet identifier under the key "outlet_id".
func OutletID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("outlet_id", id)
}

// Channel records the delivery channel under the key "channel".
func Channel(name string) slog.Attr {
	return slog.String("channel", name)
}

// EventType records the notification type under the key "event_type".
func EventType(typ string) slog.Attr {
	return slog.String("event_type", typ)
}

// EventKey records the coalescing key under the key "event_key".
func EventKey(key string) slog.Attr {
	return slog.String("event_key", key)
}

// Recipients records the number of recipients under the key "recipients".
func Recipients(n int) slog.Attr {
	return slog.Int("recipients", n)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}
