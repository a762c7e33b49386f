package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kickoffhq/kickoff-client/internal/domain"
	"github.com/kickoffhq/kickoff-client/internal/dto"
	"github.com/kickoffhq/kickoff-client/internal/utils"
)

// ErrNotLoggedIn is returned by flows that need an active session.
var ErrNotLoggedIn = errors.New("not logged in")

// ErrNoProfile is returned by flows that need the session's profile, when
// the account has none attached.
var ErrNoProfile = errors.New("no profile attached to this account")

// SignupInput is everything collected by the signup form.
type SignupInput struct {
	Email             string
	Password          string
	UserID            string
	Name              string
	Region            string
	PreferredPosition string
	PhoneNumber       string
	BirthDate         string
}

func (in SignupInput) validate() error {
	if !utils.ValidateEmail(in.Email) {
		return errors.New("invalid email address")
	}
	if !utils.ValidatePassword(in.Password) {
		return errors.New("password needs at least 8 characters with upper, lower and digit")
	}
	if in.Name == "" {
		return errors.New("name is required")
	}
	if !utils.ValidatePhoneNumber(in.PhoneNumber) {
		return errors.New("phone number must look like 010-1234-5678")
	}
	return nil
}

// Signup creates the account and then its profile, the same two calls the
// web frontend makes. The account survives a failed profile creation; the
// user can attach a profile later.
func (a *App) Signup(ctx context.Context, in SignupInput) (int64, error) {
	if err := in.validate(); err != nil {
		return 0, err
	}

	accountID, err := a.apis.Auth.CreateAccount(ctx, dto.CreateAccountRequest{
		Email:    utils.SanitizeEmail(in.Email),
		Password: in.Password,
		Role:     "USER",
		UserID:   in.UserID,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create account: %w", err)
	}

	_, err = a.apis.Users.CreateProfile(ctx, dto.CreateProfileRequest{
		AccountID:         accountID,
		Name:              in.Name,
		Region:            in.Region,
		PreferredPosition: in.PreferredPosition,
		PhoneNumber:       in.PhoneNumber,
		BirthDate:         in.BirthDate,
	})
	if err != nil {
		return accountID, fmt.Errorf("account %d created but profile failed: %w", accountID, err)
	}

	return accountID, nil
}

// CreatePost publishes a recruit post under the session's profile and caches
// it in the post store.
func (a *App) CreatePost(ctx context.Context, req dto.CreatePostRequest) (domain.RecruitPost, error) {
	if !a.session.IsLoggedIn() {
		return domain.RecruitPost{}, ErrNotLoggedIn
	}
	profileID := a.session.ProfileID()
	if profileID == 0 {
		return domain.RecruitPost{}, ErrNoProfile
	}

	req.WriterProfileID = profileID
	post, err := a.apis.Recruit.CreatePost(ctx, req)
	if err != nil {
		return domain.RecruitPost{}, err
	}

	a.posts.Add(post)
	return post, nil
}

// Apply submits an application to a post and tells the post's author about
// it. The notification is best effort; the application already went through.
func (a *App) Apply(ctx context.Context, postID int64, message string) (dto.ApplicationRecord, error) {
	if !a.session.IsLoggedIn() {
		return dto.ApplicationRecord{}, ErrNotLoggedIn
	}
	profileID := a.session.ProfileID()
	if profileID == 0 {
		return dto.ApplicationRecord{}, ErrNoProfile
	}

	post, err := a.apis.Recruit.GetPost(ctx, postID)
	if err != nil {
		return dto.ApplicationRecord{}, err
	}
	if post == nil {
		return dto.ApplicationRecord{}, fmt.Errorf("post %d not found", postID)
	}

	req := dto.ApplicationRequest{ApplicantProfileID: profileID}
	if message != "" {
		req.Description = &message
	}

	record, err := a.apis.Recruit.Apply(ctx, postID, req)
	if err != nil {
		return dto.ApplicationRecord{}, err
	}

	a.notifyAuthor(ctx, post)
	return record, nil
}

func (a *App) notifyAuthor(ctx context.Context, post *domain.RecruitPost) {
	if post.AuthorID == nil || *post.AuthorID == 0 {
		return
	}

	relatedType := domain.RelatedRecruitPost
	_, err := a.apis.Notifications.Create(ctx, dto.CreateNotificationRequest{
		ReceiverProfileID: *post.AuthorID,
		Type:              domain.NotificationApplicationReceived,
		Message:           fmt.Sprintf("New application for '%s'.", post.Title),
		RelatedType:       &relatedType,
		RelatedID:         &post.ID,
	})
	if err != nil {
		a.infra.Logger().Warn("failed to notify post author",
			zap.Int64("post_id", post.ID),
			zap.Error(err),
		)
	}
}
