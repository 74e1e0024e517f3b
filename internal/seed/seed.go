package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"tingle/internal/auth"
	"tingle/internal/events"
	"tingle/internal/middleware"
	"tingle/internal/models"
	"tingle/internal/repository"
	"tingle/internal/service"

	"gorm.io/gorm"
)

// Options sizes a seeding run. Per-entity counts are capped by the number of
// other users available.
type Options struct {
	Users                   int   `yaml:"users"`
	PostsPerUser            int   `yaml:"postsPerUser"`
	FollowsPerUser          int   `yaml:"followsPerUser"`
	LikesPerPost            int   `yaml:"likesPerPost"`
	CommentsPerPost         int   `yaml:"commentsPerPost"`
	ConversationsPerUser    int   `yaml:"conversationsPerUser"`
	MessagesPerConversation int   `yaml:"messagesPerConversation"`
	MaxDays                 int   `yaml:"maxDays"`
	Seed                    int64 `yaml:"seed"`
}

// Validate rejects negative counts and interaction counts without a second user.
func (o Options) Validate() error {
	for name, n := range map[string]int{
		"users":                   o.Users,
		"postsPerUser":            o.PostsPerUser,
		"followsPerUser":          o.FollowsPerUser,
		"likesPerPost":            o.LikesPerPost,
		"commentsPerPost":         o.CommentsPerPost,
		"conversationsPerUser":    o.ConversationsPerUser,
		"messagesPerConversation": o.MessagesPerConversation,
		"maxDays":                 o.MaxDays,
	} {
		if n < 0 {
			return fmt.Errorf("%s must not be negative", name)
		}
	}
	if o.Users < 2 && (o.FollowsPerUser > 0 || o.LikesPerPost > 0 || o.ConversationsPerUser > 0) {
		return errors.New("interactions need at least 2 users")
	}
	return nil
}

// Summary counts what a run created.
type Summary struct {
	Users    int
	Posts    int
	Follows  int
	Likes    int
	Comments int
	Messages int
}

// Seeder fills a database through the domain services so counts,
// notifications and events match what real traffic produces.
type Seeder struct {
	db       *gorm.DB
	opts     Options
	factory  *Factory
	graph    *service.GraphService
	posts    *service.PostService
	comments *service.CommentService
	messages *service.MessageService
}

// NewSeeder returns a Seeder for db. Every seeded user gets a credentials
// account with DefaultPassword.
func NewSeeder(db *gorm.DB, opts Options, publisher events.Publisher) (*Seeder, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(DefaultPassword)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}

	users := repository.NewUserRepository(db)
	follows := repository.NewFollowRepository(db)
	posts := repository.NewPostRepository(db)
	notifications := service.NewNotificationService(repository.NewNotificationRepository(db), posts)

	return &Seeder{
		db:       db,
		opts:     opts,
		factory:  NewFactory(db, opts.Seed, opts.MaxDays, hash),
		graph:    service.NewGraphService(users, follows, notifications, publisher),
		posts:    service.NewPostService(posts, users, notifications, publisher),
		comments: service.NewCommentService(repository.NewCommentRepository(db), posts, notifications, publisher),
		messages: service.NewMessageService(repository.NewMessageRepository(db), users, publisher),
	}, nil
}

// ClearAll deletes every row of every domain table, children first.
func (s *Seeder) ClearAll(ctx context.Context) error {
	middleware.Logger.InfoContext(ctx, "clearing existing data")
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		for _, model := range []interface{}{
			&models.Message{},
			&models.Notification{},
			&models.Comment{},
			&models.Like{},
			&models.Post{},
			&models.Follow{},
			&models.Account{},
			&models.User{},
		} {
			if err := all.Delete(model).Error; err != nil {
				return fmt.Errorf("clear %T: %w", model, err)
			}
		}
		return nil
	})
}

// Run creates users, posts and the interactions between them.
func (s *Seeder) Run(ctx context.Context) (*Summary, error) {
	summary := &Summary{}

	users, err := s.seedUsers(ctx)
	if err != nil {
		return summary, err
	}
	summary.Users = len(users)

	if err := s.seedFollows(ctx, users, summary); err != nil {
		return summary, err
	}

	posts, err := s.seedPosts(users)
	if err != nil {
		return summary, err
	}
	summary.Posts = len(posts)

	if err := s.seedEngagement(ctx, users, posts, summary); err != nil {
		return summary, err
	}
	if err := s.seedMessages(ctx, users, summary); err != nil {
		return summary, err
	}

	middleware.Logger.InfoContext(ctx, "seeding complete",
		slog.Int("users", summary.Users),
		slog.Int("posts", summary.Posts),
		slog.Int("follows", summary.Follows),
		slog.Int("likes", summary.Likes),
		slog.Int("comments", summary.Comments),
		slog.Int("messages", summary.Messages),
	)
	return summary, nil
}

const maxUserAttempts = 5

func (s *Seeder) seedUsers(ctx context.Context) ([]*models.User, error) {
	users := make([]*models.User, 0, s.opts.Users)
	for len(users) < s.opts.Users {
		var (
			user *models.User
			err  error
		)
		// Generated handles can collide; a fresh draw usually resolves it.
		for attempt := 0; attempt < maxUserAttempts; attempt++ {
			if user, err = s.factory.CreateUser(); err == nil {
				break
			}
		}
		if err != nil {
			return users, fmt.Errorf("create user: %w", err)
		}
		users = append(users, user)
	}
	middleware.Logger.InfoContext(ctx, "users created", slog.Int("count", len(users)))
	return users, nil
}

func (s *Seeder) seedFollows(ctx context.Context, users []*models.User, summary *Summary) error {
	n := min(s.opts.FollowsPerUser, len(users)-1)
	for i, follower := range users {
		for _, j := range s.factory.pick(len(users), n, i) {
			if err := s.graph.Follow(ctx, follower.ID, users[j].ID); err != nil {
				return fmt.Errorf("follow %d -> %d: %w", follower.ID, users[j].ID, err)
			}
			summary.Follows++
		}
	}
	return nil
}

func (s *Seeder) seedPosts(users []*models.User) ([]*models.Post, error) {
	posts := make([]*models.Post, 0, len(users)*s.opts.PostsPerUser)
	for _, user := range users {
		for i := 0; i < s.opts.PostsPerUser; i++ {
			posts = append(posts, s.factory.BuildPost(user))
		}
	}
	if err := s.factory.CreatePostsBatch(posts); err != nil {
		return nil, fmt.Errorf("create posts: %w", err)
	}
	return posts, nil
}

func (s *Seeder) seedEngagement(ctx context.Context, users []*models.User, posts []*models.Post, summary *Summary) error {
	index := make(map[uint]int, len(users))
	for i, u := range users {
		index[u.ID] = i
	}

	likes := min(s.opts.LikesPerPost, len(users)-1)
	for _, post := range posts {
		author := index[post.UserID]
		for _, j := range s.factory.pick(len(users), likes, author) {
			if _, err := s.posts.LikePost(ctx, users[j].ID, post.ID); err != nil {
				return fmt.Errorf("like post %d: %w", post.ID, err)
			}
			summary.Likes++
		}
		for i := 0; i < s.opts.CommentsPerPost; i++ {
			commenter := users[s.factory.rng.Intn(len(users))]
			_, err := s.comments.CreateComment(ctx, service.CreateCommentInput{
				UserID: commenter.ID,
				PostID: post.ID,
				Text:   s.factory.CommentText(),
			})
			if err != nil {
				return fmt.Errorf("comment on post %d: %w", post.ID, err)
			}
			summary.Comments++
		}
	}
	return nil
}

func (s *Seeder) seedMessages(ctx context.Context, users []*models.User, summary *Summary) error {
	n := min(s.opts.ConversationsPerUser, len(users)-1)
	for i, user := range users {
		for _, j := range s.factory.pick(len(users), n, i) {
			other := users[j]
			for k := 0; k < s.opts.MessagesPerConversation; k++ {
				from, to := user, other
				if k%2 == 1 {
					from, to = other, user
				}
				_, err := s.messages.Send(ctx, service.SendInput{
					FromUserID: from.ID,
					ToUserID:   to.ID,
					Content:    s.factory.MessageText(),
				})
				if err != nil {
					return fmt.Errorf("message %d -> %d: %w", from.ID, to.ID, err)
				}
				summary.Messages++
			}
		}
	}
	return nil
}
