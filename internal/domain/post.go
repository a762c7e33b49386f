package domain

// RecruitCategory partitions recruit posts by what is being recruited.
type RecruitCategory string

const (
	CategoryMercenary RecruitCategory = "MERCENARY"
	CategoryTeam      RecruitCategory = "TEAM"
	CategoryMatch     RecruitCategory = "MATCH"
)

// Categories lists the known categories in their canonical display order.
// The flat post list is always the union of per-category partitions in this
// order.
var Categories = []RecruitCategory{CategoryMercenary, CategoryTeam, CategoryMatch}

// Valid reports whether the category is one the platform knows.
func (c RecruitCategory) Valid() bool {
	switch c {
	case CategoryMercenary, CategoryTeam, CategoryMatch:
		return true
	}
	return false
}

// PostStatus is the recruiting state of a post.
type PostStatus string

const (
	PostRecruiting PostStatus = "RECRUITING"
	PostCompleted  PostStatus = "COMPLETED"
)

// RecruitPost is a recruitment posting (mercenary, team or match).
type RecruitPost struct {
	ID                int64           `json:"id"`
	Title             string          `json:"title"`
	Content           string          `json:"content"`
	Region            string          `json:"region"`
	SubRegion         *string         `json:"subRegion,omitempty"`
	Category          RecruitCategory `json:"category"`
	TargetType        string          `json:"targetType"`
	GameDate          *string         `json:"gameDate,omitempty"`
	RequiredPersonnel *int            `json:"requiredPersonnel,omitempty"`
	Status            PostStatus      `json:"status"`
	AuthorID          *int64          `json:"authorId,omitempty"`
	AuthorName        *string         `json:"authorName,omitempty"`
	AcceptedCount     int             `json:"acceptedCount,omitempty"`
	CreatedAt         string          `json:"createdAt"`
	UpdatedAt         string          `json:"updatedAt"`
}
