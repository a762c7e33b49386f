package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/kickoffhq/kickoff-client/internal/app"
	"github.com/kickoffhq/kickoff-client/internal/config"
	"github.com/kickoffhq/kickoff-client/internal/domain"
	"github.com/kickoffhq/kickoff-client/internal/dto"
)

const usage = `Usage: kickoff <command> [flags]

Commands:
  login          log in with loginId and password
  logout         drop the local session
  signup         create an account and profile
  whoami         show the current session user
  posts          list recruit posts
  create-post    publish a recruit post
  apply          apply to a recruit post
  applications   list my or received applications
  accept         accept a received application
  reject         reject a received application
  cancel         cancel one of my applications
  notifications  show the inbox
  read           mark a notification as read
  read-all       mark every notification as read
  teams          list my team memberships
  watch          run the local callback and metrics server
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	command, args := os.Args[1], os.Args[2:]

	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	infra, err := app.NewInfrastructure(ctx, *cfg)
	if err != nil {
		log.Fatalf("Failed to initialize infrastructure: %v", err)
	}

	application := app.NewApp(infra, cfg)

	if command == "watch" {
		runWatch(ctx, infra, application)
		return
	}

	defer func() {
		if err := infra.Shutdown(ctx); err != nil {
			infra.Logger().Warn("shutdown incomplete", zap.Error(err))
		}
	}()

	if err := run(ctx, command, args, application); err != nil {
		fmt.Fprintf(os.Stderr, "kickoff %s: %v\n", command, err)
		os.Exit(1)
	}
}

func runWatch(ctx context.Context, infra app.Infrastructure, application *app.App) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		infra.Logger().Info("Received shutdown signal")
		cancel()
	}()

	if err := application.Run(ctx); err != nil {
		infra.Logger().Fatal("Watch mode failed", zap.Error(err))
	}
}

func run(ctx context.Context, command string, args []string, application *app.App) error {
	switch command {
	case "login":
		return runLogin(ctx, args, application)
	case "logout":
		application.Session().Logout()
		fmt.Println("logged out")
		return nil
	case "signup":
		return runSignup(ctx, args, application)
	case "whoami":
		return runWhoami(ctx, application)
	case "posts":
		return runPosts(ctx, args, application)
	case "create-post":
		return runCreatePost(ctx, args, application)
	case "apply":
		return runApply(ctx, args, application)
	case "applications":
		return runApplications(ctx, args, application)
	case "accept", "reject", "cancel":
		return runDecision(ctx, command, args, application)
	case "notifications":
		return runNotifications(ctx, args, application)
	case "read":
		return runRead(ctx, args, application)
	case "read-all":
		return runReadAll(ctx, application)
	case "teams":
		return runTeams(ctx, application)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func runLogin(ctx context.Context, args []string, application *app.App) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	loginID := fs.String("u", "", "login id (userid or email)")
	password := fs.String("p", "", "password")
	keep := fs.Bool("keep", true, "keep the session across restarts")
	_ = fs.Parse(args)

	if *loginID == "" || *password == "" {
		return fmt.Errorf("both -u and -p are required")
	}

	if err := application.Session().SetKeepLoggedIn(*keep); err != nil {
		return err
	}
	user, err := application.Session().Login(ctx, *loginID, *password)
	if err != nil {
		return err
	}

	fmt.Printf("logged in as %s (account %d)\n", user.Name, user.ID)
	return nil
}

func runSignup(ctx context.Context, args []string, application *app.App) error {
	fs := flag.NewFlagSet("signup", flag.ExitOnError)
	var in app.SignupInput
	fs.StringVar(&in.Email, "email", "", "email address")
	fs.StringVar(&in.Password, "password", "", "password")
	fs.StringVar(&in.UserID, "userid", "", "public user id (optional)")
	fs.StringVar(&in.Name, "name", "", "display name")
	fs.StringVar(&in.Region, "region", "", "home region (optional)")
	fs.StringVar(&in.PreferredPosition, "position", "", "preferred position (optional)")
	fs.StringVar(&in.PhoneNumber, "phone", "", "phone number, 010-1234-5678 (optional)")
	fs.StringVar(&in.BirthDate, "birth", "", "birth date, YYYY-MM-DD (optional)")
	_ = fs.Parse(args)

	accountID, err := application.Signup(ctx, in)
	if err != nil {
		return err
	}

	fmt.Printf("account %d created\n", accountID)
	return nil
}

func runWhoami(ctx context.Context, application *app.App) error {
	application.Session().Restore(ctx)
	user := application.Session().User()
	if user == nil {
		fmt.Println("not logged in")
		return nil
	}
	return printJSON(user)
}

func runPosts(ctx context.Context, args []string, application *app.App) error {
	fs := flag.NewFlagSet("posts", flag.ExitOnError)
	category := fs.String("category", "", "one of MERCENARY, TEAM, MATCH (default all)")
	page := fs.Int("page", 0, "page number")
	size := fs.Int("size", 20, "page size")
	_ = fs.Parse(args)

	application.Session().Restore(ctx)

	categories := domain.Categories
	if *category != "" {
		c := domain.RecruitCategory(*category)
		if !c.Valid() {
			return fmt.Errorf("unknown category %q", *category)
		}
		categories = []domain.RecruitCategory{c}
	}

	for _, c := range categories {
		application.Posts().Load(ctx, c, *page, *size)
	}

	if *category != "" {
		return printJSON(application.Posts().PostsByCategory(domain.RecruitCategory(*category)))
	}
	return printJSON(application.Posts().Posts())
}

func runCreatePost(ctx context.Context, args []string, application *app.App) error {
	fs := flag.NewFlagSet("create-post", flag.ExitOnError)
	req := dto.CreatePostRequest{}
	fs.StringVar(&req.Title, "title", "", "post title")
	fs.StringVar(&req.Content, "content", "", "post body")
	fs.StringVar(&req.Region, "region", "", "region")
	fs.StringVar(&req.Category, "category", "", "one of MERCENARY, TEAM, MATCH")
	fs.StringVar(&req.TargetType, "target", "", "target type (optional)")
	gameDate := fs.String("date", "", "game date (optional)")
	personnel := fs.Int("personnel", 0, "required personnel (optional)")
	_ = fs.Parse(args)

	if req.Title == "" || req.Category == "" {
		return fmt.Errorf("-title and -category are required")
	}
	if !domain.RecruitCategory(req.Category).Valid() {
		return fmt.Errorf("unknown category %q", req.Category)
	}
	if *gameDate != "" {
		req.GameDate = gameDate
	}
	if *personnel > 0 {
		req.RequiredPersonnel = personnel
	}

	application.Session().Restore(ctx)
	post, err := application.CreatePost(ctx, req)
	if err != nil {
		return err
	}

	fmt.Printf("post %d published\n", post.ID)
	return nil
}

func runApply(ctx context.Context, args []string, application *app.App) error {
	fs := flag.NewFlagSet("apply", flag.ExitOnError)
	postID := fs.Int64("post", 0, "post id")
	message := fs.String("message", "", "message to the author (optional)")
	_ = fs.Parse(args)

	if *postID == 0 {
		return fmt.Errorf("-post is required")
	}

	application.Session().Restore(ctx)
	record, err := application.Apply(ctx, *postID, *message)
	if err != nil {
		return err
	}

	fmt.Printf("application %d submitted\n", record.ID)
	return nil
}

func runApplications(ctx context.Context, args []string, application *app.App) error {
	fs := flag.NewFlagSet("applications", flag.ExitOnError)
	received := fs.Bool("received", false, "show applications to my posts instead of my own")
	_ = fs.Parse(args)

	application.Session().Restore(ctx)
	user := application.Session().User()
	if user == nil {
		return app.ErrNotLoggedIn
	}

	if *received {
		application.Applications().LoadReceived(ctx, application.Session().ProfileID())
		return printJSON(application.Applications().Received())
	}

	application.Applications().LoadMy(ctx, user.ID)
	return printJSON(application.Applications().My())
}

func runDecision(ctx context.Context, command string, args []string, application *app.App) error {
	fs := flag.NewFlagSet(command, flag.ExitOnError)
	applicationID := fs.Int64("application", 0, "application id")
	postID := fs.Int64("post", 0, "post id")
	_ = fs.Parse(args)

	if *applicationID == 0 || *postID == 0 {
		return fmt.Errorf("both -application and -post are required")
	}

	application.Session().Restore(ctx)

	var err error
	switch command {
	case "accept":
		err = application.Applications().Accept(ctx, *applicationID, *postID)
	case "reject":
		err = application.Applications().Reject(ctx, *applicationID, *postID)
	case "cancel":
		err = application.Applications().Cancel(ctx, *applicationID, *postID)
	}
	if err != nil {
		return err
	}

	fmt.Printf("application %d %sed\n", *applicationID, command)
	return nil
}

func runNotifications(ctx context.Context, args []string, application *app.App) error {
	fs := flag.NewFlagSet("notifications", flag.ExitOnError)
	unreadOnly := fs.Bool("unread", false, "show only unread entries")
	_ = fs.Parse(args)

	if err := loadInbox(ctx, application); err != nil {
		return err
	}

	notifications := application.Notifications().Notifications()
	if *unreadOnly {
		filtered := notifications[:0:0]
		for _, n := range notifications {
			if !n.IsRead {
				filtered = append(filtered, n)
			}
		}
		notifications = filtered
	}

	fmt.Printf("%d unread\n", application.Notifications().UnreadCount())
	return printJSON(notifications)
}

func runRead(ctx context.Context, args []string, application *app.App) error {
	fs := flag.NewFlagSet("read", flag.ExitOnError)
	id := fs.Int64("id", 0, "notification id")
	_ = fs.Parse(args)

	if *id == 0 {
		return fmt.Errorf("-id is required")
	}

	if err := loadInbox(ctx, application); err != nil {
		return err
	}
	return application.Notifications().MarkAsRead(ctx, *id)
}

func runReadAll(ctx context.Context, application *app.App) error {
	if err := loadInbox(ctx, application); err != nil {
		return err
	}
	return application.Notifications().MarkAllAsRead(ctx)
}

func loadInbox(ctx context.Context, application *app.App) error {
	application.Session().Restore(ctx)
	profileID := application.Session().ProfileID()
	if profileID == 0 {
		return app.ErrNoProfile
	}
	application.Notifications().Load(ctx, profileID)
	return nil
}

func runTeams(ctx context.Context, application *app.App) error {
	application.Session().Restore(ctx)
	profileID := application.Session().ProfileID()
	if profileID == 0 {
		return app.ErrNoProfile
	}

	memberships, err := application.APIs().Teams.MembershipsByProfile(ctx, profileID)
	if err != nil {
		return err
	}
	return printJSON(memberships)
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
