package domain

// Membership links a profile to a team on the team service.
type Membership struct {
	ID        int64  `json:"id"`
	TeamID    int64  `json:"teamId"`
	TeamName  string `json:"teamName"`
	ProfileID int64  `json:"profileId"`
	Role      string `json:"role,omitempty"`
	JoinedAt  string `json:"joinedAt,omitempty"`
}
