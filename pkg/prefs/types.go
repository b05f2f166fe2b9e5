package prefs

// User is the recipient-side view of an account: just the fields needed
// to decide channel eligibility and address a delivery.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Setting is a user's opt-in record for one notification type. Zero or
// one row exists per (user, type); absence means no explicit preference.
type Setting struct {
	UserID     string `json:"user_id"`
	Type       string `json:"type"`
	SendPush   bool   `json:"send_push"`
	SendSMS    bool   `json:"send_sms"`
	SendFresco bool   `json:"send_fresco"`
	SendEmail  bool   `json:"send_email"`
}

// UserWithSetting pairs an active user with their setting row for the
// queried notification type, or nil when no row exists.
type UserWithSetting struct {
	User    User     `json:"user"`
	Setting *Setting `json:"setting"`
}
