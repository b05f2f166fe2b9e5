package notify

import "maps"

// Channel names one delivery medium.
type Channel string

const (
	ChannelPush   Channel = "push"
	ChannelEmail  Channel = "email"
	ChannelSMS    Channel = "sms"
	ChannelFresco Channel = "fresco"
)

// UserRef identifies a recipient user. Callers holding richer user
// objects only need to carry the id over.
type UserRef struct {
	ID string `json:"id"`
}

// OutletRef identifies a recipient outlet; it expands to the outlet's
// current members during resolution.
type OutletRef struct {
	ID string `json:"id"`
}

// Recipients is the abstract recipient set of one notification.
type Recipients struct {
	Users   []UserRef   `json:"users,omitempty"`
	Outlets []OutletRef `json:"outlets,omitempty"`
}

// UserIDs is a convenience constructor for plain-id recipient lists.
func UserIDs(ids ...string) []UserRef {
	refs := make([]UserRef, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, UserRef{ID: id})
	}
	return refs
}

// OutletIDs is a convenience constructor for plain-id outlet lists.
func OutletIDs(ids ...string) []OutletRef {
	refs := make([]OutletRef, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, OutletRef{ID: id})
	}
	return refs
}

// Payload carries one optional section per channel. A nil section means
// that channel is never attempted for this notification, regardless of
// user opt-ins.
type Payload struct {
	Push   map[string]any `json:"push,omitempty"`
	Email  map[string]any `json:"email,omitempty"`
	SMS    map[string]any `json:"sms,omitempty"`
	Fresco map[string]any `json:"fresco,omitempty"`
}

// HasAny reports whether at least one channel section is present.
func (p Payload) HasAny() bool {
	return p.Push != nil || p.Email != nil || p.SMS != nil || p.Fresco != nil
}

// withType returns a copy of the payload with the notification type
// injected into the push and fresco sections, which client apps need for
// routing. SMS and email sections are left untouched.
func (p Payload) withType(typ string) Payload {
	out := p
	if p.Push != nil {
		out.Push = maps.Clone(p.Push)
		out.Push["type"] = typ
	}
	if p.Fresco != nil {
		out.Fresco = maps.Clone(p.Fresco)
		out.Fresco["type"] = typ
	}
	return out
}

// Spec describes one logical notification: who should receive it, what
// each channel should carry, and whether missing opt-in rows count as
// opted in.
type Spec struct {
	Type       string     `json:"type"`
	Recipients Recipients `json:"recipients"`
	Payload    Payload    `json:"payload"`

	// SkipCheck treats users without an explicit setting row as opted in
	// to every channel. Without it such users are excluded entirely.
	SkipCheck bool `json:"skip_check,omitempty"`
}

// Resolved is the concrete per-channel delivery plan produced from a
// Spec: user ids for push and fresco, phone numbers for sms, addresses
// for email.
type Resolved struct {
	Push    []string
	Fresco  []string
	SMS     []string
	Email   []string
	Payload Payload
}

// ChannelResult is the settled outcome of one channel's send.
type ChannelResult struct {
	Channel Channel  `json:"channel"`
	Sent    []string `json:"sent,omitempty"`
	Failed  []string `json:"failed,omitempty"`
	Err     error    `json:"-"`
}

// OK reports whether the channel send succeeded.
func (r *ChannelResult) OK() bool {
	return r != nil && r.Err == nil
}

// DispatchResult holds one slot per channel; a nil slot means the
// channel had no eligible recipients and was never attempted.
type DispatchResult struct {
	Email  *ChannelResult
	SMS    *ChannelResult
	Fresco *ChannelResult
	Push   *ChannelResult
}
