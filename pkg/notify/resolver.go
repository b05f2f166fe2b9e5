package notify

import (
	"context"
	"errors"

	"github.com/marketfeed/notifykit/pkg/prefs"
)

// Resolver expands a spec's abstract recipients into the concrete
// per-channel delivery plan, honoring opt-in settings and channel
// eligibility.
type Resolver struct {
	store prefs.Store
}

// NewResolver creates a Resolver over the given preference store.
func NewResolver(store prefs.Store) (*Resolver, error) {
	if store == nil {
		return nil, errors.New("notify: preference store cannot be nil")
	}
	return &Resolver{store: store}, nil
}

// Resolve validates the spec, queries the store once for all matching
// active users, and buckets each user into the channels they are
// eligible for. A channel is considered for a user only when the
// payload has a section for it, the user opted in (or SkipCheck is
// set), and the required contact field exists for sms/email.
func (r *Resolver) Resolve(ctx context.Context, spec Spec) (*Resolved, error) {
	if spec.Type == "" {
		return nil, ErrMissingType
	}
	if !spec.Payload.HasAny() {
		return nil, ErrNoPayload
	}

	userIDs := dedupe(spec.Recipients.Users, func(ref UserRef) string { return ref.ID })
	outletIDs := dedupe(spec.Recipients.Outlets, func(ref OutletRef) string { return ref.ID })

	rows, err := r.store.FetchActiveUsersWithSettings(ctx, userIDs, outletIDs, spec.Type)
	if err != nil {
		return nil, errors.Join(ErrResolution, err)
	}

	resolved := &Resolved{Payload: spec.Payload.withType(spec.Type)}

	for _, row := range rows {
		setting := row.Setting
		if setting == nil && !spec.SkipCheck {
			// No explicit preference means no implicit opt-in.
			continue
		}

		allow := func(optIn bool) bool {
			return spec.SkipCheck || optIn
		}
		optedIn := func(read func(prefs.Setting) bool) bool {
			if setting == nil {
				return allow(false)
			}
			return allow(read(*setting))
		}

		if spec.Payload.Push != nil && optedIn(func(s prefs.Setting) bool { return s.SendPush }) {
			resolved.Push = append(resolved.Push, row.User.ID)
		}
		if spec.Payload.Fresco != nil && optedIn(func(s prefs.Setting) bool { return s.SendFresco }) {
			resolved.Fresco = append(resolved.Fresco, row.User.ID)
		}
		if spec.Payload.SMS != nil && row.User.Phone != "" && optedIn(func(s prefs.Setting) bool { return s.SendSMS }) {
			resolved.SMS = append(resolved.SMS, row.User.Phone)
		}
		if spec.Payload.Email != nil && row.User.Email != "" && optedIn(func(s prefs.Setting) bool { return s.SendEmail }) {
			resolved.Email = append(resolved.Email, row.User.Email)
		}
	}

	return resolved, nil
}

// dedupe extracts non-empty ids in input order, dropping repeats.
func dedupe[T any](refs []T, id func(T) string) []string {
	seen := make(map[string]bool, len(refs))
	out := make([]string, 0, len(refs))
	for _, ref := range refs {
		v := id(ref)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
