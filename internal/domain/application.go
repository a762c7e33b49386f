package domain

// ApplicationStatus is the server-confirmed state of an application.
// Transitions are one way: PENDING moves to ACCEPTED or REJECTED, both
// terminal, or the application is cancelled and removed outright.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "PENDING"
	ApplicationAccepted ApplicationStatus = "ACCEPTED"
	ApplicationRejected ApplicationStatus = "REJECTED"
)

// MyApplication is an outgoing application made by the current user.
type MyApplication struct {
	ApplicationID   int64             `json:"applicationId"`
	PostID          int64             `json:"postId"`
	PostTitle       string            `json:"postTitle"`
	Status          ApplicationStatus `json:"status"`
	AppliedAt       string            `json:"appliedAt"`
	Message         string            `json:"message,omitempty"`
	RejectionReason *string           `json:"rejectionReason,omitempty"`
}

// ReceivedApplication is an incoming application to one of the current
// user's posts.
type ReceivedApplication struct {
	ApplicationID int64             `json:"applicationId"`
	PostID        int64             `json:"postId"`
	PostTitle     string            `json:"postTitle"`
	ApplicantID   int64             `json:"applicantId"`
	ApplicantName string            `json:"applicantName"`
	Status        ApplicationStatus `json:"status"`
	AppliedAt     string            `json:"appliedAt"`
	Message       string            `json:"message,omitempty"`
}
