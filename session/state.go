package session

import "time"

// Identity is the backend-verified principal behind the current session.
// It is issued by the identity backend and treated as immutable for the
// lifetime of a session.
type Identity struct {
	ID       string
	Email    string
	Metadata map[string]string
}

// DisplayName returns the display name carried in the identity metadata,
// or the empty string when none was provided.
func (i *Identity) DisplayName() string {
	if i == nil || i.Metadata == nil {
		return ""
	}
	return i.Metadata["display_name"]
}

// Profile is the application-level user record keyed 1:1 by [Identity.ID].
type Profile struct {
	ID          string
	Email       string
	IsActive    bool
	DisplayName string
	AvatarURL   string
	Metadata    map[string]string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// State is the point-in-time content of the session store: the current
// profile (nil when signed out), the in-flight flow flag, and the message
// of the last failed flow ("" when clear).
type State struct {
	Profile   *Profile
	Loading   bool
	LastError string
}
