package domain

// SessionUser is the logged-in user held by the session manager. It is either
// built from a full login/profile response or reconstructed from access token
// claims, in which case only the claim-backed fields are populated and the
// rest stay empty until a profile fetch completes. A SessionUser is always
// replaced wholesale, never patched field by field.
type SessionUser struct {
	ID                int64  `json:"id"`
	ProfileID         *int64 `json:"profileId,omitempty"`
	Name              string `json:"name"`
	UserID            string `json:"userid"`
	Email             string `json:"email,omitempty"`
	Region            string `json:"region,omitempty"`
	PreferredPosition string `json:"preferredPosition,omitempty"`
	Role              string `json:"role,omitempty"`
	PhoneNumber       string `json:"phoneNumber,omitempty"`
	IsExPlayer        *bool  `json:"isExPlayer,omitempty"`
	ActivityStartDate string `json:"activityStartDate,omitempty"`
	ActivityEndDate   string `json:"activityEndDate,omitempty"`
	BirthDate         string `json:"birthDate,omitempty"`
	CreatedAt         string `json:"createdAt,omitempty"`
	UpdatedAt         string `json:"updatedAt,omitempty"`
}

// Valid reports whether a persisted user snapshot is usable. Snapshots that
// fail this check are discarded rather than restored.
func (u SessionUser) Valid() bool {
	return u.ID != 0 && u.UserID != ""
}

// WithProfile returns a copy of the user with profile-backed fields merged in.
// The profile is the source of truth for name and contact fields; the
// claim-derived values are provisional placeholders.
func (u SessionUser) WithProfile(p Profile) SessionUser {
	next := u
	id := p.ID
	next.ProfileID = &id
	if p.Name != "" {
		next.Name = p.Name
	}
	next.Region = p.Region
	next.PreferredPosition = p.PreferredPosition
	next.PhoneNumber = p.PhoneNumber
	return next
}

// Profile is a user's domain-level identity on the user service, distinct
// from the authentication account.
type Profile struct {
	ID                int64  `json:"id"`
	AccountID         int64  `json:"accountId"`
	Name              string `json:"name"`
	Region            string `json:"region,omitempty"`
	PreferredPosition string `json:"preferredPosition,omitempty"`
	PhoneNumber       string `json:"phoneNumber,omitempty"`
	IsExPlayer        *bool  `json:"isExPlayer,omitempty"`
	BirthDate         string `json:"birthDate,omitempty"`
	CreatedAt         string `json:"createdAt,omitempty"`
	UpdatedAt         string `json:"updatedAt,omitempty"`
}
