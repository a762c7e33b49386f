package acceptance

import (
	"net/http"
	"net/http/httptest"
	"net/url"

	"github.com/kickoffhq/kickoff-client/internal/app"
)

func (s *Suite) TestLogin_Success() {
	accountID, profileID := s.Platform.SeedAccount("son@example.com", "Password123", "sonny", "Son Heungmin")

	user, err := s.App.Session().Login(s.ctx, "sonny", "Password123")
	s.Require().NoError(err)

	s.Equal(accountID, user.ID)
	s.Equal("sonny", user.UserID)
	s.True(s.App.Session().IsLoggedIn())
	s.Equal(profileID, s.App.Session().ProfileID())
	s.Equal("Son Heungmin", s.App.Session().User().Name)

	creds, err := s.infra.CredStore().Get()
	s.Require().NoError(err)
	s.True(creds.HasAccessToken())
	s.True(creds.HasRefreshToken())
}

func (s *Suite) TestLogin_WithEmail() {
	s.Platform.SeedAccount("son@example.com", "Password123", "sonny", "Son Heungmin")

	user, err := s.App.Session().Login(s.ctx, "son@example.com", "Password123")
	s.Require().NoError(err)
	s.Equal("sonny", user.UserID)
}

func (s *Suite) TestLogin_WrongPassword() {
	s.Platform.SeedAccount("son@example.com", "Password123", "sonny", "Son Heungmin")

	_, err := s.App.Session().Login(s.ctx, "sonny", "wrong")
	s.Require().Error(err)
	s.False(s.App.Session().IsLoggedIn())
}

func (s *Suite) TestExpiredAccessToken_RefreshesAndRetries() {
	_, profileID := s.Platform.SeedAccount("son@example.com", "Password123", "sonny", "Son Heungmin")
	s.Platform.SeedMembership(profileID, "FC Hongdae")

	_, err := s.App.Session().Login(s.ctx, "sonny", "Password123")
	s.Require().NoError(err)

	s.Platform.ExpireAccess()

	memberships, err := s.App.APIs().Teams.MembershipsByProfile(s.ctx, profileID)
	s.Require().NoError(err)
	s.Require().Len(memberships, 1)
	s.Equal("FC Hongdae", memberships[0].TeamName)
	s.Equal(1, s.Platform.RefreshCalls())

	// the rotated pair was persisted, so the next call needs no refresh
	_, err = s.App.APIs().Teams.MembershipsByProfile(s.ctx, profileID)
	s.Require().NoError(err)
	s.Equal(1, s.Platform.RefreshCalls())
}

func (s *Suite) TestFailedRefresh_ClearsCredentials() {
	_, profileID := s.Platform.SeedAccount("son@example.com", "Password123", "sonny", "Son Heungmin")

	_, err := s.App.Session().Login(s.ctx, "sonny", "Password123")
	s.Require().NoError(err)

	s.Platform.ExpireAccess()
	s.Platform.SetRefreshFails(true)

	_, err = s.App.APIs().Teams.MembershipsByProfile(s.ctx, profileID)
	s.Require().Error(err)

	creds, err := s.infra.CredStore().Get()
	s.Require().NoError(err)
	s.False(creds.HasAccessToken())
	s.False(creds.HasRefreshToken())
}

// dropAccessToken rebuilds the stored record with only the refresh token,
// the state a restart with an expired and purged access token leaves behind.
func (s *Suite) dropAccessToken() {
	creds, err := s.infra.CredStore().Get()
	s.Require().NoError(err)
	s.Require().True(creds.HasRefreshToken())
	s.Require().NoError(s.infra.CredStore().Clear())
	s.Require().NoError(s.infra.CredStore().SetTokens("", creds.RefreshToken))
}

func (s *Suite) TestRestore_AfterRestart() {
	accountID, profileID := s.Platform.SeedAccount("son@example.com", "Password123", "sonny", "Son Heungmin")

	s.Require().NoError(s.App.Session().SetKeepLoggedIn(true))
	_, err := s.App.Session().Login(s.ctx, "sonny", "Password123")
	s.Require().NoError(err)

	s.dropAccessToken()

	s.RebuildApp()
	s.False(s.App.Session().IsLoggedIn())

	s.App.Session().Restore(s.ctx)

	s.True(s.App.Session().IsLoggedIn())
	s.Equal(accountID, s.App.Session().User().ID)
	s.Equal(profileID, s.App.Session().ProfileID())
	s.Equal(1, s.Platform.RefreshCalls())
}

func (s *Suite) TestRestore_SkippedWithoutKeepLoggedIn() {
	s.Platform.SeedAccount("son@example.com", "Password123", "sonny", "Son Heungmin")

	_, err := s.App.Session().Login(s.ctx, "sonny", "Password123")
	s.Require().NoError(err)
	s.dropAccessToken()

	s.RebuildApp()
	s.App.Session().Restore(s.ctx)

	s.False(s.App.Session().IsLoggedIn())
	s.Equal(0, s.Platform.RefreshCalls())
}

func (s *Suite) TestLogout_PreservesKeepLoggedIn() {
	s.Platform.SeedAccount("son@example.com", "Password123", "sonny", "Son Heungmin")

	s.Require().NoError(s.App.Session().SetKeepLoggedIn(true))
	_, err := s.App.Session().Login(s.ctx, "sonny", "Password123")
	s.Require().NoError(err)

	s.App.Session().Logout()

	s.False(s.App.Session().IsLoggedIn())
	creds, err := s.infra.CredStore().Get()
	s.Require().NoError(err)
	s.False(creds.HasAccessToken())
	s.False(creds.HasRefreshToken())
	s.True(creds.KeepLoggedIn)
}

func (s *Suite) TestOAuthCallback_LogsIn() {
	accountID, _ := s.Platform.SeedAccount("son@example.com", "Password123", "sonny", "Son Heungmin")
	access, refresh := s.Platform.MintTokens(accountID)

	query := url.Values{"token": {access}, "refreshToken": {refresh}}
	req := httptest.NewRequest(http.MethodGet, "/oauth/callback?"+query.Encode(), nil)
	rec := httptest.NewRecorder()
	s.App.Router().ServeHTTP(rec, req)

	s.Equal(http.StatusOK, rec.Code)
	s.True(s.App.Session().IsLoggedIn())
	s.Equal(accountID, s.App.Session().User().ID)
}

func (s *Suite) TestOAuthCallback_MissingToken() {
	req := httptest.NewRequest(http.MethodGet, "/oauth/callback", nil)
	rec := httptest.NewRecorder()
	s.App.Router().ServeHTTP(rec, req)

	s.Equal(http.StatusBadRequest, rec.Code)
	s.False(s.App.Session().IsLoggedIn())
}

func (s *Suite) TestSignup_CreatesAccountAndProfile() {
	accountID, err := s.App.Signup(s.ctx, app.SignupInput{
		Email:       "new@example.com",
		Password:    "Password123",
		UserID:      "newbie",
		Name:        "New Player",
		Region:      "Seoul",
		PhoneNumber: "010-1234-5678",
	})
	s.Require().NoError(err)
	s.NotZero(accountID)

	user, err := s.App.Session().Login(s.ctx, "newbie", "Password123")
	s.Require().NoError(err)
	s.Equal(accountID, user.ID)
	s.Equal("New Player", s.App.Session().User().Name)
}

func (s *Suite) TestSignup_RejectsWeakPassword() {
	_, err := s.App.Signup(s.ctx, app.SignupInput{
		Email:    "new@example.com",
		Password: "short",
		Name:     "New Player",
	})
	s.Require().Error(err)
}
