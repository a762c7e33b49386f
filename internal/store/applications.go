package store

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/kickoffhq/kickoff-client/internal/api"
	"github.com/kickoffhq/kickoff-client/internal/domain"
	"github.com/kickoffhq/kickoff-client/internal/dto"
)

// ApplicationStore caches the current user's outgoing and incoming
// applications. Loads replace a list wholesale and swallow failures after
// resetting it; accept/reject/cancel call the backend first and propagate
// failures so the caller can surface them.
type ApplicationStore struct {
	recruit       *api.RecruitAPI
	users         *api.UserAPI
	notifications *api.NotificationAPI
	logger        *zap.Logger

	mu       sync.RWMutex
	my       []domain.MyApplication
	received []domain.ReceivedApplication
}

// NewApplicationStore creates an empty application store.
func NewApplicationStore(
	recruit *api.RecruitAPI,
	users *api.UserAPI,
	notifications *api.NotificationAPI,
	logger *zap.Logger,
) *ApplicationStore {
	return &ApplicationStore{
		recruit:       recruit,
		users:         users,
		notifications: notifications,
		logger:        logger,
	}
}

// LoadMy refreshes the outgoing list for an account. The account is first
// resolved to its profile, then applications are listed by applicant. Any
// failure resets the list to empty.
func (s *ApplicationStore) LoadMy(ctx context.Context, accountID int64) {
	my, err := s.fetchMy(ctx, accountID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.logger.Warn("failed to load my applications", zap.Int64("account_id", accountID), zap.Error(err))
		s.my = nil
		return
	}
	s.my = my
}

func (s *ApplicationStore) fetchMy(ctx context.Context, accountID int64) ([]domain.MyApplication, error) {
	profile, err := s.users.ProfileByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, fmt.Errorf("account %d has no profile", accountID)
	}

	records, err := s.recruit.ApplicationsByApplicant(ctx, profile.ID)
	if err != nil {
		return nil, err
	}

	my := make([]domain.MyApplication, 0, len(records))
	for _, record := range records {
		my = append(my, domain.MyApplication{
			ApplicationID: record.ID,
			PostID:        record.PostID,
			PostTitle:     s.postTitle(ctx, record.PostID),
			Status:        domain.ApplicationStatus(record.Status),
			AppliedAt:     record.ApplicationDate,
			Message:       stringValue(record.Description),
		})
	}
	return my, nil
}

// LoadReceived refreshes the incoming list for a profile. Any failure resets
// the list to empty.
func (s *ApplicationStore) LoadReceived(ctx context.Context, profileID int64) {
	records, err := s.recruit.ReceivedApplications(ctx, profileID)

	if err != nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.logger.Warn("failed to load received applications", zap.Int64("profile_id", profileID), zap.Error(err))
		s.received = nil
		return
	}

	received := make([]domain.ReceivedApplication, 0, len(records))
	for _, record := range records {
		applicantID := int64(0)
		applicantName := "anonymous"
		if record.ApplicantProfileID != nil {
			applicantID = *record.ApplicantProfileID
			applicantName = fmt.Sprintf("profile %d", applicantID)
		}
		received = append(received, domain.ReceivedApplication{
			ApplicationID: record.ID,
			PostID:        record.PostID,
			PostTitle:     s.postTitle(ctx, record.PostID),
			ApplicantID:   applicantID,
			ApplicantName: applicantName,
			Status:        domain.ApplicationStatus(record.Status),
			AppliedAt:     record.ApplicationDate,
			Message:       stringValue(record.Description),
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.received = received
}

// Refresh reloads both lists.
func (s *ApplicationStore) Refresh(ctx context.Context, accountID, profileID int64) {
	s.LoadMy(ctx, accountID)
	s.LoadReceived(ctx, profileID)
}

// Accept confirms an incoming application. The backend is updated first;
// only then does the cached entry move to ACCEPTED, and the applicant gets a
// best-effort notification.
func (s *ApplicationStore) Accept(ctx context.Context, applicationID, postID int64) error {
	return s.decide(ctx, applicationID, postID, domain.ApplicationAccepted)
}

// Reject declines an incoming application, mirroring Accept.
func (s *ApplicationStore) Reject(ctx context.Context, applicationID, postID int64) error {
	return s.decide(ctx, applicationID, postID, domain.ApplicationRejected)
}

func (s *ApplicationStore) decide(ctx context.Context, applicationID, postID int64, status domain.ApplicationStatus) error {
	if err := s.recruit.UpdateApplicationStatus(ctx, postID, applicationID, status); err != nil {
		return err
	}

	var decided *domain.ReceivedApplication
	s.mu.Lock()
	for i := range s.received {
		if s.received[i].ApplicationID == applicationID {
			s.received[i].Status = status
			app := s.received[i]
			decided = &app
			break
		}
	}
	s.mu.Unlock()

	if decided != nil {
		s.notifyApplicant(ctx, *decided, postID, status)
	}
	return nil
}

// notifyApplicant tells the applicant about the decision. Failures only get
// logged; the decision itself already succeeded.
func (s *ApplicationStore) notifyApplicant(ctx context.Context, app domain.ReceivedApplication, postID int64, status domain.ApplicationStatus) {
	if app.ApplicantID == 0 {
		return
	}

	notificationType := domain.NotificationApplicationAccepted
	message := fmt.Sprintf("Your application for '%s' has been accepted.", app.PostTitle)
	if status == domain.ApplicationRejected {
		notificationType = domain.NotificationApplicationRejected
		message = fmt.Sprintf("Your application for '%s' has been rejected.", app.PostTitle)
	}

	relatedType := domain.RelatedRecruitPost
	if _, err := s.notifications.Create(ctx, dto.CreateNotificationRequest{
		ReceiverProfileID: app.ApplicantID,
		Type:              notificationType,
		Message:           message,
		RelatedType:       &relatedType,
		RelatedID:         &postID,
	}); err != nil {
		s.logger.Warn("failed to notify applicant",
			zap.Int64("application_id", app.ApplicationID),
			zap.Error(err),
		)
	}
}

// Cancel withdraws one of the user's own applications. The backend call
// happens first; on success the entry disappears from the outgoing list.
func (s *ApplicationStore) Cancel(ctx context.Context, applicationID, postID int64) error {
	if err := s.recruit.CancelApplication(ctx, postID, applicationID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	filtered := s.my[:0:0]
	for _, app := range s.my {
		if app.ApplicationID != applicationID {
			filtered = append(filtered, app)
		}
	}
	s.my = filtered
	return nil
}

// My returns a copy of the outgoing list.
func (s *ApplicationStore) My() []domain.MyApplication {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.MyApplication, len(s.my))
	copy(out, s.my)
	return out
}

// Received returns a copy of the incoming list.
func (s *ApplicationStore) Received() []domain.ReceivedApplication {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ReceivedApplication, len(s.received))
	copy(out, s.received)
	return out
}

// postTitle resolves a post's title for display; a missing post leaves the
// title empty.
func (s *ApplicationStore) postTitle(ctx context.Context, postID int64) string {
	post, err := s.recruit.GetPost(ctx, postID)
	if err != nil || post == nil {
		return ""
	}
	return post.Title
}

func stringValue(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
