package domain

// Notification types emitted by the platform.
const (
	NotificationApplicationReceived = "APPLICATION_RECEIVED"
	NotificationApplicationAccepted = "APPLICATION_ACCEPTED"
	NotificationApplicationRejected = "APPLICATION_REJECTED"
)

// RelatedRecruitPost is the related-entity type for post-linked notifications.
const RelatedRecruitPost = "RECRUIT_POST"

// Notification is a message delivered to a profile's inbox.
type Notification struct {
	ID                int64   `json:"id"`
	ReceiverProfileID int64   `json:"receiverProfileId"`
	Type              string  `json:"type"`
	Message           string  `json:"message"`
	IsRead            bool    `json:"isRead"`
	RelatedType       *string `json:"relatedType,omitempty"`
	RelatedID         *int64  `json:"relatedId,omitempty"`
	CreatedAt         string  `json:"createdAt"`
}
