package dto

// LoginRequest represents a login request
type LoginRequest struct {
	LoginID  string `json:"loginId"`
	Password string `json:"password"`
}

// RefreshRequest represents a token refresh request
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// TokenResponse represents the auth service response to login and refresh.
// RefreshToken is only present when the service rotates it.
type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// CreateAccountRequest represents an account creation request
type CreateAccountRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	UserID   string `json:"userid,omitempty"`
}

// CreateAccountResponse represents an account creation response
type CreateAccountResponse struct {
	ID int64 `json:"id"`
}

// CreateProfileRequest represents a profile creation request
type CreateProfileRequest struct {
	AccountID         int64  `json:"accountId"`
	Name              string `json:"name"`
	Region            string `json:"region,omitempty"`
	PreferredPosition string `json:"preferredPosition,omitempty"`
	PhoneNumber       string `json:"phoneNumber,omitempty"`
	BirthDate         string `json:"birthDate,omitempty"`
}

// CreatePostRequest represents a recruit post creation request. The writer
// profile ID is injected from the session before dispatch.
type CreatePostRequest struct {
	Title             string  `json:"title"`
	Content           string  `json:"content"`
	Region            string  `json:"region"`
	SubRegion         *string `json:"subRegion,omitempty"`
	Category          string  `json:"category"`
	TargetType        string  `json:"targetType,omitempty"`
	GameDate          *string `json:"gameDate,omitempty"`
	RequiredPersonnel *int    `json:"requiredPersonnel,omitempty"`
	WriterProfileID   int64   `json:"writerProfileId,omitempty"`
}

// ApplicationRequest represents an application to a recruit post
type ApplicationRequest struct {
	ApplicantProfileID int64   `json:"applicantProfileId"`
	Description        *string `json:"description,omitempty"`
}

// ApplicationStatusRequest updates an application's status (ACCEPTED or REJECTED)
type ApplicationStatusRequest struct {
	Status string `json:"status"`
}

// ApplicationRecord is the recruit service's wire shape for an application,
// mapped into domain applications by the api layer.
type ApplicationRecord struct {
	ID                 int64   `json:"id"`
	PostID             int64   `json:"postId"`
	Status             string  `json:"status"`
	Description        *string `json:"description,omitempty"`
	ApplicationDate    string  `json:"applicationDate"`
	ApplicantProfileID *int64  `json:"applicantProfileId,omitempty"`
}

// CreateNotificationRequest represents a notification creation request
type CreateNotificationRequest struct {
	ReceiverProfileID int64   `json:"receiverProfileId"`
	Type              string  `json:"type"`
	Message           string  `json:"message"`
	RelatedType       *string `json:"relatedType,omitempty"`
	RelatedID         *int64  `json:"relatedId,omitempty"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string      `json:"error"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}
