package service

import (
	"context"
	"strings"
	"time"

	"tingle/internal/cache"
	"tingle/internal/events"
	"tingle/internal/models"
	"tingle/internal/observability"
	"tingle/internal/repository"
	"tingle/internal/validation"
)

// PostService handles post authoring and likes.
type PostService struct {
	posts         repository.PostRepository
	users         repository.UserRepository
	notifications *NotificationService
	events        events.Publisher
}

// NewPostService returns a new PostService.
func NewPostService(
	posts repository.PostRepository,
	users repository.UserRepository,
	notifications *NotificationService,
	publisher events.Publisher,
) *PostService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &PostService{
		posts:         posts,
		users:         users,
		notifications: notifications,
		events:        publisher,
	}
}

type CreatePostInput struct {
	UserID uint
	Text   string
	Image  string
}

type UpdatePostInput struct {
	UserID uint
	PostID uint
	Text   string
	Image  *string
}

// LikeResult is the outcome of a like toggle.
type LikeResult struct {
	Message    string `json:"message"`
	LikesCount int64  `json:"likesCount"`
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.PostView, error) {
	text, err := validation.PostText(in.Text)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	post := &models.Post{UserID: in.UserID, Text: text, Image: strings.TrimSpace(in.Image)}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.GetPost(ctx, in.UserID, post.ID)
}

func (s *PostService) GetPost(ctx context.Context, viewerID, postID uint) (*models.PostView, error) {
	post, err := s.posts.GetDetailed(ctx, postID, viewerID)
	if err != nil {
		return nil, err
	}
	view := post.View()
	return &view, nil
}

// ownedPost loads the post and checks userID authored it.
func (s *PostService) ownedPost(ctx context.Context, userID, postID uint, action string) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.UserID != userID {
		return nil, models.NewForbiddenError("You can only " + action + " your own posts")
	}
	return post, nil
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.PostView, error) {
	text, err := validation.PostText(in.Text)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	post, err := s.ownedPost(ctx, in.UserID, in.PostID, "edit")
	if err != nil {
		return nil, err
	}

	post.Text = text
	if in.Image != nil {
		post.Image = strings.TrimSpace(*in.Image)
	}
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.GetPost(ctx, in.UserID, post.ID)
}

// DeletePost removes the post together with its likes and comments.
func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) error {
	if _, err := s.ownedPost(ctx, userID, postID, "delete"); err != nil {
		return err
	}
	return s.posts.Delete(ctx, postID)
}

// ListUserPostsInput pages through one author's posts.
type ListUserPostsInput struct {
	ViewerID uint
	AuthorID uint
	Page     int
	Limit    int
}

func (s *PostService) ListUserPosts(ctx context.Context, in ListUserPostsInput) ([]models.PostView, error) {
	if _, err := s.users.GetByID(ctx, in.AuthorID); err != nil {
		return nil, err
	}
	posts, err := s.posts.ListByUser(ctx, in.AuthorID, in.ViewerID, in.Limit, offset(in.Page, in.Limit))
	if err != nil {
		return nil, err
	}
	return models.PostViews(posts), nil
}

// LikePost records userID's like and notifies the author.
func (s *PostService) LikePost(ctx context.Context, userID, postID uint) (*LikeResult, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	release, err := lockAction(ctx, cache.LikeLockKey(postID, userID))
	if err != nil {
		return nil, err
	}
	defer release()

	created, err := s.posts.Like(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, models.NewConflictError("You have already liked this post")
	}
	observability.LikesTotal.Inc()

	s.notifications.Notify(ctx, NotifyInput{
		Type:       models.NotificationLike,
		FromUserID: userID,
		ToUserID:   post.UserID,
		PostID:     &post.ID,
	})
	s.events.Publish(ctx, events.Event{
		Type:         events.PostLiked,
		ActorID:      userID,
		TargetUserID: post.UserID,
		PostID:       &post.ID,
		OccurredAt:   time.Now().UTC(),
	})

	count, err := s.posts.LikeCount(ctx, postID)
	if err != nil {
		return nil, err
	}
	return &LikeResult{Message: "Post liked successfully", LikesCount: count}, nil
}

// UnlikePost removes userID's like; removing a missing like is a no-op.
func (s *PostService) UnlikePost(ctx context.Context, userID, postID uint) (*LikeResult, error) {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	release, err := lockAction(ctx, cache.LikeLockKey(postID, userID))
	if err != nil {
		return nil, err
	}
	defer release()

	if _, err := s.posts.Unlike(ctx, postID, userID); err != nil {
		return nil, err
	}
	count, err := s.posts.LikeCount(ctx, postID)
	if err != nil {
		return nil, err
	}
	return &LikeResult{Message: "Post unliked successfully", LikesCount: count}, nil
}
