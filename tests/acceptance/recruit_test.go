package acceptance

import (
	"github.com/kickoffhq/kickoff-client/internal/domain"
	"github.com/kickoffhq/kickoff-client/internal/dto"
)

func (s *Suite) login(userID string) {
	_, err := s.App.Session().Login(s.ctx, userID, "Password123")
	s.Require().NoError(err)
}

func (s *Suite) TestCreatePost_AppearsInPartition() {
	s.Platform.SeedAccount("author@example.com", "Password123", "author", "The Author")
	s.login("author")

	post, err := s.App.CreatePost(s.ctx, dto.CreatePostRequest{
		Title:    "need a keeper",
		Content:  "sunday morning",
		Region:   "Seoul",
		Category: string(domain.CategoryMercenary),
	})
	s.Require().NoError(err)
	s.NotZero(post.ID)

	posts := s.App.Posts().PostsByCategory(domain.CategoryMercenary)
	s.Require().Len(posts, 1)
	s.Equal("need a keeper", posts[0].Title)
}

func (s *Suite) TestPosts_UnionAcrossCategories() {
	s.Platform.SeedAccount("author@example.com", "Password123", "author", "The Author")
	s.login("author")

	for _, category := range []domain.RecruitCategory{
		domain.CategoryMatch,
		domain.CategoryTeam,
		domain.CategoryMercenary,
	} {
		_, err := s.App.CreatePost(s.ctx, dto.CreatePostRequest{
			Title:    "post " + string(category),
			Region:   "Seoul",
			Category: string(category),
		})
		s.Require().NoError(err)
	}

	for _, category := range domain.Categories {
		s.App.Posts().Load(s.ctx, category, 0, 20)
	}

	posts := s.App.Posts().Posts()
	s.Require().Len(posts, 3)
	s.Equal(domain.CategoryMercenary, posts[0].Category)
	s.Equal(domain.CategoryTeam, posts[1].Category)
	s.Equal(domain.CategoryMatch, posts[2].Category)
}

func (s *Suite) TestListPosts_AcceptsPagedEnvelope() {
	s.Platform.SeedAccount("author@example.com", "Password123", "author", "The Author")
	s.login("author")

	_, err := s.App.CreatePost(s.ctx, dto.CreatePostRequest{
		Title:    "enveloped",
		Region:   "Seoul",
		Category: string(domain.CategoryTeam),
	})
	s.Require().NoError(err)

	s.Platform.SetWrapPostPage(true)
	s.App.Posts().Load(s.ctx, domain.CategoryTeam, 0, 20)

	posts := s.App.Posts().PostsByCategory(domain.CategoryTeam)
	s.Require().Len(posts, 1)
	s.Equal("enveloped", posts[0].Title)
}

func (s *Suite) TestApply_NotifiesAuthor() {
	_, authorProfileID := s.Platform.SeedAccount("author@example.com", "Password123", "author", "The Author")
	s.Platform.SeedAccount("player@example.com", "Password123", "player", "The Player")

	s.login("author")
	post, err := s.App.CreatePost(s.ctx, dto.CreatePostRequest{
		Title:    "need a striker",
		Region:   "Seoul",
		Category: string(domain.CategoryMercenary),
	})
	s.Require().NoError(err)

	s.App.Session().Logout()
	s.login("player")

	record, err := s.App.Apply(s.ctx, post.ID, "count me in")
	s.Require().NoError(err)
	s.Equal(string(domain.ApplicationPending), record.Status)

	inbox := s.Platform.NotificationsFor(authorProfileID)
	s.Require().Len(inbox, 1)
	s.Equal(domain.NotificationApplicationReceived, inbox[0].Type)
	s.Contains(inbox[0].Message, "need a striker")
}

func (s *Suite) TestAccept_NotifiesApplicant() {
	authorID, authorProfileID := s.Platform.SeedAccount("author@example.com", "Password123", "author", "The Author")
	_, playerProfileID := s.Platform.SeedAccount("player@example.com", "Password123", "player", "The Player")

	s.login("author")
	post, err := s.App.CreatePost(s.ctx, dto.CreatePostRequest{
		Title:    "need a striker",
		Region:   "Seoul",
		Category: string(domain.CategoryMercenary),
	})
	s.Require().NoError(err)

	s.App.Session().Logout()
	s.login("player")
	record, err := s.App.Apply(s.ctx, post.ID, "count me in")
	s.Require().NoError(err)

	s.App.Session().Logout()
	s.login("author")

	s.App.Applications().Refresh(s.ctx, authorID, authorProfileID)
	received := s.App.Applications().Received()
	s.Require().Len(received, 1)
	s.Equal(domain.ApplicationPending, received[0].Status)

	s.Require().NoError(s.App.Applications().Accept(s.ctx, record.ID, post.ID))

	s.Equal(domain.ApplicationAccepted, s.App.Applications().Received()[0].Status)

	inbox := s.Platform.NotificationsFor(playerProfileID)
	var accepted int
	for _, n := range inbox {
		if n.Type == domain.NotificationApplicationAccepted {
			accepted++
			s.Contains(n.Message, "need a striker")
		}
	}
	s.Equal(1, accepted)
}

func (s *Suite) TestCancel_RemovesFromMyApplications() {
	s.Platform.SeedAccount("author@example.com", "Password123", "author", "The Author")
	playerID, _ := s.Platform.SeedAccount("player@example.com", "Password123", "player", "The Player")

	s.login("author")
	post, err := s.App.CreatePost(s.ctx, dto.CreatePostRequest{
		Title:    "need a striker",
		Region:   "Seoul",
		Category: string(domain.CategoryMercenary),
	})
	s.Require().NoError(err)

	s.App.Session().Logout()
	s.login("player")
	record, err := s.App.Apply(s.ctx, post.ID, "")
	s.Require().NoError(err)

	s.App.Applications().LoadMy(s.ctx, playerID)
	s.Require().Len(s.App.Applications().My(), 1)
	s.Equal("need a striker", s.App.Applications().My()[0].PostTitle)

	s.Require().NoError(s.App.Applications().Cancel(s.ctx, record.ID, post.ID))
	s.Empty(s.App.Applications().My())

	// the platform no longer has it either
	s.App.Applications().LoadMy(s.ctx, playerID)
	s.Empty(s.App.Applications().My())
}
