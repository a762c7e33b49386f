package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kickoffhq/kickoff-client/internal/domain"
	"github.com/kickoffhq/kickoff-client/internal/dto"
	"github.com/kickoffhq/kickoff-client/internal/httpclient"
)

// RecruitAPI talks to the recruit post service.
type RecruitAPI struct {
	client  *httpclient.Client
	baseURL string
}

// NewRecruitAPI creates a recruit service client
func NewRecruitAPI(client *httpclient.Client, baseURL string) *RecruitAPI {
	return &RecruitAPI{client: client, baseURL: baseURL}
}

// postPage is the paged wrapper some deployments of the recruit service
// return instead of a bare array.
type postPage struct {
	Content []domain.RecruitPost `json:"content"`
}

// ListPosts fetches one category page of recruit posts. The response is
// either a bare array or a {content: [...]} page; both decode to the same
// slice. A 404 is an empty result.
func (a *RecruitAPI) ListPosts(ctx context.Context, category domain.RecruitCategory, page, size int) ([]domain.RecruitPost, error) {
	url := fmt.Sprintf("%s/api/recruit/posts?category=%s&page=%d&size=%d", a.baseURL, category, page, size)

	var raw json.RawMessage
	if err := a.client.Get(ctx, url, &raw); err != nil {
		if httpclient.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	posts, err := decodePostList(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode post list: %w", err)
	}

	// The service omits the category on some list payloads; the request
	// parameter is authoritative for partitioning.
	for i := range posts {
		if posts[i].Category == "" {
			posts[i].Category = category
		}
	}
	return posts, nil
}

func decodePostList(raw json.RawMessage) ([]domain.RecruitPost, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var posts []domain.RecruitPost
	if err := json.Unmarshal(raw, &posts); err == nil {
		return posts, nil
	}

	var paged postPage
	if err := json.Unmarshal(raw, &paged); err != nil {
		return nil, err
	}
	return paged.Content, nil
}

// GetPost fetches one post; nil when it no longer exists.
func (a *RecruitAPI) GetPost(ctx context.Context, postID int64) (*domain.RecruitPost, error) {
	var post domain.RecruitPost
	url := fmt.Sprintf("%s/api/recruit/posts/%d", a.baseURL, postID)
	if err := a.client.Get(ctx, url, &post); err != nil {
		if httpclient.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return &post, nil
}

// CreatePost publishes a new recruit post.
func (a *RecruitAPI) CreatePost(ctx context.Context, req dto.CreatePostRequest) (domain.RecruitPost, error) {
	var post domain.RecruitPost
	if err := a.client.Post(ctx, a.baseURL+"/api/recruit/posts", req, &post); err != nil {
		return domain.RecruitPost{}, fmt.Errorf("failed to create post: %w", err)
	}
	return post, nil
}

// Apply submits an application to a post.
func (a *RecruitAPI) Apply(ctx context.Context, postID int64, req dto.ApplicationRequest) (dto.ApplicationRecord, error) {
	var record dto.ApplicationRecord
	url := fmt.Sprintf("%s/api/recruit/posts/%d/applications", a.baseURL, postID)
	if err := a.client.Post(ctx, url, req, &record); err != nil {
		return dto.ApplicationRecord{}, fmt.Errorf("failed to apply: %w", err)
	}
	return record, nil
}

// UpdateApplicationStatus accepts or rejects an application.
func (a *RecruitAPI) UpdateApplicationStatus(ctx context.Context, postID, applicationID int64, status domain.ApplicationStatus) error {
	url := fmt.Sprintf("%s/api/recruit/posts/%d/applications/%d", a.baseURL, postID, applicationID)
	req := dto.ApplicationStatusRequest{Status: string(status)}
	if err := a.client.Patch(ctx, url, req, nil); err != nil {
		return fmt.Errorf("failed to update application status: %w", err)
	}
	return nil
}

// CancelApplication withdraws an application.
func (a *RecruitAPI) CancelApplication(ctx context.Context, postID, applicationID int64) error {
	url := fmt.Sprintf("%s/api/recruit/posts/%d/applications/%d", a.baseURL, postID, applicationID)
	if err := a.client.Delete(ctx, url); err != nil {
		return fmt.Errorf("failed to cancel application: %w", err)
	}
	return nil
}

// ApplicationsByApplicant lists the applications a profile has made.
func (a *RecruitAPI) ApplicationsByApplicant(ctx context.Context, profileID int64) ([]dto.ApplicationRecord, error) {
	var records []dto.ApplicationRecord
	url := fmt.Sprintf("%s/api/recruit/applications/by-applicant/%d", a.baseURL, profileID)
	if err := a.client.Get(ctx, url, &records); err != nil {
		if httpclient.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return records, nil
}

// ReceivedApplications lists the applications made to a profile's posts.
func (a *RecruitAPI) ReceivedApplications(ctx context.Context, profileID int64) ([]dto.ApplicationRecord, error) {
	var records []dto.ApplicationRecord
	url := fmt.Sprintf("%s/api/recruit/applications/received/%d", a.baseURL, profileID)
	if err := a.client.Get(ctx, url, &records); err != nil {
		if httpclient.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list received applications: %w", err)
	}
	return records, nil
}
