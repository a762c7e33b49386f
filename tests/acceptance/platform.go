package acceptance

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/kickoffhq/kickoff-client/internal/domain"
	"github.com/kickoffhq/kickoff-client/internal/dto"
)

const platformSecret = "acceptance-platform-secret"

type platformAccount struct {
	id       int64
	email    string
	password string
	userID   string
	role     string
}

type platformApplication struct {
	id                 int64
	postID             int64
	applicantProfileID int64
	status             string
	description        string
	applicationDate    string
}

// Platform simulates the backend services the client talks to: auth, users,
// recruit, notifications and teams behind one address. It mints real JWTs,
// rotates refresh tokens and rejects stale access tokens with 401, which is
// enough to drive the whole pipeline end to end.
type Platform struct {
	mu sync.Mutex

	accounts      map[int64]*platformAccount
	profiles      map[int64]domain.Profile
	posts         map[int64]domain.RecruitPost
	applications  map[int64]*platformApplication
	notifications map[int64]domain.Notification
	memberships   map[int64][]domain.Membership

	validAccess  map[string]bool
	validRefresh map[string]int64

	refreshCalls int
	refreshFails bool
	wrapPostPage bool

	nextID int64
	server *httptest.Server
}

func NewPlatform() *Platform {
	p := &Platform{
		accounts:      make(map[int64]*platformAccount),
		profiles:      make(map[int64]domain.Profile),
		posts:         make(map[int64]domain.RecruitPost),
		applications:  make(map[int64]*platformApplication),
		notifications: make(map[int64]domain.Notification),
		memberships:   make(map[int64][]domain.Membership),
		validAccess:   make(map[string]bool),
		validRefresh:  make(map[string]int64),
	}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(p.authMiddleware())
	p.routes(router)
	p.server = httptest.NewServer(router)
	return p
}

func (p *Platform) Close() {
	p.server.Close()
}

func (p *Platform) URL() string {
	return p.server.URL
}

// SeedAccount creates an account with an attached profile and returns both ids.
func (p *Platform) SeedAccount(email, password, userID, name string) (int64, int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	accountID := p.id()
	p.accounts[accountID] = &platformAccount{
		id:       accountID,
		email:    email,
		password: password,
		userID:   userID,
		role:     "USER",
	}

	profileID := p.id()
	p.profiles[profileID] = domain.Profile{
		ID:        profileID,
		AccountID: accountID,
		Name:      name,
	}
	return accountID, profileID
}

// MintTokens issues a fresh valid token pair for an account, as the OAuth
// identity provider would.
func (p *Platform) MintTokens(accountID int64) (string, string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.issueTokens(accountID)
}

// ExpireAccess invalidates every outstanding access token, so the next
// request gets a 401 and the client has to refresh.
func (p *Platform) ExpireAccess() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.validAccess = make(map[string]bool)
}

func (p *Platform) SetRefreshFails(fail bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.refreshFails = fail
}

// SetWrapPostPage switches the post listing to the paged envelope shape.
func (p *Platform) SetWrapPostPage(wrap bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.wrapPostPage = wrap
}

func (p *Platform) RefreshCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.refreshCalls
}

// NotificationsFor returns the stored notifications of one profile.
func (p *Platform) NotificationsFor(profileID int64) []domain.Notification {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []domain.Notification
	for _, n := range p.notifications {
		if n.ReceiverProfileID == profileID {
			out = append(out, n)
		}
	}
	return out
}

// AddNotification seeds a stored notification and returns it.
func (p *Platform) AddNotification(profileID int64, message string, read bool) domain.Notification {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := domain.Notification{
		ID:                p.id(),
		ReceiverProfileID: profileID,
		Type:              domain.NotificationApplicationReceived,
		Message:           message,
		IsRead:            read,
		CreatedAt:         time.Now().Format(time.RFC3339),
	}
	p.notifications[n.ID] = n
	return n
}

// SeedMembership registers a team membership for a profile.
func (p *Platform) SeedMembership(profileID int64, teamName string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.memberships[profileID] = append(p.memberships[profileID], domain.Membership{
		TeamID:    p.id(),
		TeamName:  teamName,
		ProfileID: profileID,
		Role:      "MEMBER",
	})
}

func (p *Platform) id() int64 {
	p.nextID++
	return p.nextID
}

// issueTokens mints a new pair and registers both. Callers hold the lock.
func (p *Platform) issueTokens(accountID int64) (string, string) {
	account := p.accounts[accountID]
	now := time.Now()
	claims := jwt.MapClaims{
		"accountId": account.id,
		"email":     account.email,
		"userid":    account.userID,
		"role":      account.role,
		"iat":       now.Unix(),
		"exp":       now.Add(15 * time.Minute).Unix(),
		"jti":       uuid.NewString(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	access, err := token.SignedString([]byte(platformSecret))
	if err != nil {
		panic(err)
	}

	refresh := uuid.NewString()
	p.validAccess[access] = true
	p.validRefresh[refresh] = accountID
	return access, refresh
}

// authMiddleware guards everything except the auth service itself.
func (p *Platform) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/auth/") {
			c.Next()
			return
		}

		token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		p.mu.Lock()
		ok := p.validAccess[token]
		p.mu.Unlock()
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error:   "Unauthorized",
				Message: "invalid or expired token",
			})
			return
		}
		c.Next()
	}
}

func (p *Platform) routes(router *gin.Engine) {
	auth := router.Group("/api/auth")
	{
		auth.POST("/login", p.login)
		auth.POST("/token/refresh", p.refresh)
		auth.POST("/accounts", p.createAccount)
	}

	users := router.Group("/api/users")
	{
		users.POST("/profiles", p.createProfile)
		users.GET("/profiles/by-account/:id", p.profileByAccount)
	}

	recruit := router.Group("/api/recruit")
	{
		recruit.GET("/posts", p.listPosts)
		recruit.POST("/posts", p.createPost)
		recruit.GET("/posts/:id", p.getPost)
		recruit.POST("/posts/:id/applications", p.apply)
		recruit.PATCH("/posts/:id/applications/:appId", p.updateApplication)
		recruit.DELETE("/posts/:id/applications/:appId", p.deleteApplication)
		recruit.GET("/applications/by-applicant/:profileId", p.applicationsByApplicant)
		recruit.GET("/applications/received/:profileId", p.receivedApplications)
	}

	notifications := router.Group("/api/notifications")
	{
		notifications.GET("", p.listNotifications)
		notifications.POST("", p.createNotification)
		notifications.POST("/:id/read", p.markNotificationRead)
		notifications.DELETE("/:id", p.deleteNotification)
	}

	router.GET("/api/teams/memberships/by-profile/:profileId", p.listMemberships)
}

func (p *Platform) login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Message: err.Error()})
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	for _, account := range p.accounts {
		if (account.userID == req.LoginID || account.email == req.LoginID) && account.password == req.Password {
			access, refresh := p.issueTokens(account.id)
			c.JSON(http.StatusOK, dto.TokenResponse{AccessToken: access, RefreshToken: refresh})
			return
		}
	}
	c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized", Message: "bad credentials"})
}

func (p *Platform) refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Message: err.Error()})
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.refreshCalls++

	if p.refreshFails {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized", Message: "refresh disabled"})
		return
	}

	accountID, ok := p.validRefresh[req.RefreshToken]
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized", Message: "unknown refresh token"})
		return
	}

	// one-shot rotation
	delete(p.validRefresh, req.RefreshToken)
	access, refresh := p.issueTokens(accountID)
	c.JSON(http.StatusOK, dto.TokenResponse{AccessToken: access, RefreshToken: refresh})
}

func (p *Platform) createAccount(c *gin.Context) {
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Message: err.Error()})
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	accountID := p.id()
	p.accounts[accountID] = &platformAccount{
		id:       accountID,
		email:    req.Email,
		password: req.Password,
		userID:   req.UserID,
		role:     req.Role,
	}
	c.JSON(http.StatusCreated, dto.CreateAccountResponse{ID: accountID})
}

func (p *Platform) createProfile(c *gin.Context) {
	var req dto.CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Message: err.Error()})
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	profile := domain.Profile{
		ID:                p.id(),
		AccountID:         req.AccountID,
		Name:              req.Name,
		Region:            req.Region,
		PreferredPosition: req.PreferredPosition,
		PhoneNumber:       req.PhoneNumber,
	}
	p.profiles[profile.ID] = profile
	c.JSON(http.StatusCreated, profile)
}

func (p *Platform) profileByAccount(c *gin.Context) {
	accountID := pathID(c, "id")
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, profile := range p.profiles {
		if profile.AccountID == accountID {
			c.JSON(http.StatusOK, profile)
			return
		}
	}
	c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Not found", Message: "no profile"})
}

func (p *Platform) listPosts(c *gin.Context) {
	category := c.Query("category")
	p.mu.Lock()
	defer p.mu.Unlock()

	posts := []domain.RecruitPost{}
	for _, post := range p.posts {
		if category == "" || string(post.Category) == category {
			posts = append(posts, post)
		}
	}

	if p.wrapPostPage {
		c.JSON(http.StatusOK, gin.H{"content": posts, "totalElements": len(posts)})
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (p *Platform) createPost(c *gin.Context) {
	var req dto.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Message: err.Error()})
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	writerID := req.WriterProfileID
	post := domain.RecruitPost{
		ID:         p.id(),
		Title:      req.Title,
		Content:    req.Content,
		Region:     req.Region,
		Category:   domain.RecruitCategory(req.Category),
		TargetType: req.TargetType,
		Status:     domain.PostRecruiting,
		AuthorID:   &writerID,
		CreatedAt:  time.Now().Format(time.RFC3339),
	}
	p.posts[post.ID] = post
	c.JSON(http.StatusCreated, post)
}

func (p *Platform) getPost(c *gin.Context) {
	postID := pathID(c, "id")
	p.mu.Lock()
	defer p.mu.Unlock()
	post, ok := p.posts[postID]
	if !ok {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Not found", Message: "no such post"})
		return
	}
	c.JSON(http.StatusOK, post)
}

func (p *Platform) apply(c *gin.Context) {
	postID := pathID(c, "id")
	var req dto.ApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Message: err.Error()})
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	application := &platformApplication{
		id:                 p.id(),
		postID:             postID,
		applicantProfileID: req.ApplicantProfileID,
		status:             string(domain.ApplicationPending),
		applicationDate:    time.Now().Format(time.RFC3339),
	}
	if req.Description != nil {
		application.description = *req.Description
	}
	p.applications[application.id] = application
	c.JSON(http.StatusCreated, p.applicationRecord(application))
}

func (p *Platform) updateApplication(c *gin.Context) {
	applicationID := pathID(c, "appId")
	var req dto.ApplicationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Message: err.Error()})
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	application, ok := p.applications[applicationID]
	if !ok {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Not found", Message: "no such application"})
		return
	}
	application.status = req.Status
	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "updated"})
}

func (p *Platform) deleteApplication(c *gin.Context) {
	applicationID := pathID(c, "appId")
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.applications, applicationID)
	c.Status(http.StatusNoContent)
}

func (p *Platform) applicationsByApplicant(c *gin.Context) {
	profileID := pathID(c, "profileId")
	p.mu.Lock()
	defer p.mu.Unlock()

	records := []dto.ApplicationRecord{}
	for _, application := range p.applications {
		if application.applicantProfileID == profileID {
			records = append(records, p.applicationRecord(application))
		}
	}
	c.JSON(http.StatusOK, records)
}

func (p *Platform) receivedApplications(c *gin.Context) {
	profileID := pathID(c, "profileId")
	p.mu.Lock()
	defer p.mu.Unlock()

	records := []dto.ApplicationRecord{}
	for _, application := range p.applications {
		post, ok := p.posts[application.postID]
		if !ok || post.AuthorID == nil || *post.AuthorID != profileID {
			continue
		}
		records = append(records, p.applicationRecord(application))
	}
	c.JSON(http.StatusOK, records)
}

func (p *Platform) applicationRecord(application *platformApplication) dto.ApplicationRecord {
	record := dto.ApplicationRecord{
		ID:              application.id,
		PostID:          application.postID,
		Status:          application.status,
		ApplicationDate: application.applicationDate,
	}
	applicant := application.applicantProfileID
	record.ApplicantProfileID = &applicant
	if application.description != "" {
		description := application.description
		record.Description = &description
	}
	return record
}

func (p *Platform) listNotifications(c *gin.Context) {
	profileID, _ := strconv.ParseInt(c.Query("receiverProfileId"), 10, 64)
	p.mu.Lock()
	defer p.mu.Unlock()

	notifications := []domain.Notification{}
	for _, n := range p.notifications {
		if n.ReceiverProfileID == profileID {
			notifications = append(notifications, n)
		}
	}
	c.JSON(http.StatusOK, notifications)
}

func (p *Platform) createNotification(c *gin.Context) {
	var req dto.CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Message: err.Error()})
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	n := domain.Notification{
		ID:                p.id(),
		ReceiverProfileID: req.ReceiverProfileID,
		Type:              req.Type,
		Message:           req.Message,
		RelatedType:       req.RelatedType,
		RelatedID:         req.RelatedID,
		CreatedAt:         time.Now().Format(time.RFC3339),
	}
	p.notifications[n.ID] = n
	c.JSON(http.StatusCreated, n)
}

func (p *Platform) markNotificationRead(c *gin.Context) {
	notificationID := pathID(c, "id")
	p.mu.Lock()
	defer p.mu.Unlock()
	n, ok := p.notifications[notificationID]
	if !ok {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Not found", Message: "no such notification"})
		return
	}
	n.IsRead = true
	p.notifications[notificationID] = n
	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "read"})
}

func (p *Platform) deleteNotification(c *gin.Context) {
	notificationID := pathID(c, "id")
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.notifications, notificationID)
	c.Status(http.StatusNoContent)
}

func (p *Platform) listMemberships(c *gin.Context) {
	profileID := pathID(c, "profileId")
	p.mu.Lock()
	defer p.mu.Unlock()
	memberships := p.memberships[profileID]
	if memberships == nil {
		memberships = []domain.Membership{}
	}
	c.JSON(http.StatusOK, memberships)
}

func pathID(c *gin.Context, name string) int64 {
	id, _ := strconv.ParseInt(c.Param(name), 10, 64)
	return id
}
