package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"tingle/internal/database"
	"tingle/internal/events"
	"tingle/internal/featureflags"
	"tingle/internal/models"
	"tingle/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) Close() {}

func (p *recordingPublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Type, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type testEnv struct {
	db  *gorm.DB
	pub *recordingPublisher

	users         repository.UserRepository
	follows       repository.FollowRepository
	posts         repository.PostRepository
	notifications repository.NotificationRepository

	identity    *IdentityService
	userSvc     *UserService
	graph       *GraphService
	feed        *FeedService
	suggestions *SuggestionService
	postSvc     *PostService
	commentSvc  *CommentService
	notifySvc   *NotificationService
	messageSvc  *MessageService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.OpenSQLite()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })

	env := &testEnv{
		db:            db,
		pub:           &recordingPublisher{},
		users:         repository.NewUserRepository(db),
		follows:       repository.NewFollowRepository(db),
		posts:         repository.NewPostRepository(db),
		notifications: repository.NewNotificationRepository(db),
	}
	accounts := repository.NewAccountRepository(db)
	comments := repository.NewCommentRepository(db)
	messages := repository.NewMessageRepository(db)

	env.notifySvc = NewNotificationService(env.notifications, env.posts)
	env.identity = NewIdentityService(env.users, accounts)
	env.userSvc = NewUserService(env.users, env.follows, featureflags.NewManager("profile_cache=on"))
	env.graph = NewGraphService(env.users, env.follows, env.notifySvc, env.pub)
	env.feed = NewFeedService(env.posts)
	env.suggestions = NewSuggestionService(env.users, env.follows)
	env.postSvc = NewPostService(env.posts, env.users, env.notifySvc, env.pub)
	env.commentSvc = NewCommentService(comments, env.posts, env.notifySvc, env.pub)
	env.messageSvc = NewMessageService(messages, env.users, env.pub)
	return env
}

func (e *testEnv) user(t *testing.T, username string) *models.User {
	t.Helper()
	email := fmt.Sprintf("%s@example.com", username)
	u := &models.User{Name: username, Username: username, Email: &email}
	require.NoError(t, e.db.Create(u).Error)
	return u
}

func (e *testEnv) follow(t *testing.T, from, to *models.User) {
	t.Helper()
	require.NoError(t, e.graph.Follow(context.Background(), from.ID, to.ID))
}

func (e *testEnv) post(t *testing.T, author *models.User, text string) *models.PostView {
	t.Helper()
	view, err := e.postSvc.CreatePost(context.Background(), CreatePostInput{UserID: author.ID, Text: text})
	require.NoError(t, err)
	return view
}

func (e *testEnv) edgeCount(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&models.Follow{}).Count(&n).Error)
	return n
}

func (e *testEnv) notificationsFor(t *testing.T, userID uint) []models.Notification {
	t.Helper()
	var rows []models.Notification
	require.NoError(t, e.db.Where("to_user_id = ?", userID).Order("id ASC").Find(&rows).Error)
	return rows
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, code, models.ErrorCode(err), err.Error())
}
