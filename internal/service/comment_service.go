package service

import (
	"context"
	"time"

	"tingle/internal/events"
	"tingle/internal/models"
	"tingle/internal/repository"
	"tingle/internal/validation"
)

// CommentService handles replies to posts.
type CommentService struct {
	comments      repository.CommentRepository
	posts         repository.PostRepository
	notifications *NotificationService
	events        events.Publisher
}

// NewCommentService returns a new CommentService.
func NewCommentService(
	comments repository.CommentRepository,
	posts repository.PostRepository,
	notifications *NotificationService,
	publisher events.Publisher,
) *CommentService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &CommentService{
		comments:      comments,
		posts:         posts,
		notifications: notifications,
		events:        publisher,
	}
}

type CreateCommentInput struct {
	UserID uint
	PostID uint
	Text   string
}

type UpdateCommentInput struct {
	UserID    uint
	CommentID uint
	Text      string
}

// ListComments returns a page of the post's comments, newest first.
func (s *CommentService) ListComments(ctx context.Context, postID uint, page, limit int) ([]models.CommentView, error) {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByPost(ctx, postID, limit, offset(page, limit))
	if err != nil {
		return nil, err
	}
	views := make([]models.CommentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, c.View())
	}
	return views, nil
}

// CreateComment adds a comment and notifies the post's author.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.CommentView, error) {
	text, err := validation.CommentText(in.Text)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	post, err := s.posts.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{PostID: post.ID, UserID: in.UserID, Text: text}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.notifications.Notify(ctx, NotifyInput{
		Type:       models.NotificationComment,
		FromUserID: in.UserID,
		ToUserID:   post.UserID,
		PostID:     &post.ID,
		Body:       text,
	})
	s.events.Publish(ctx, events.Event{
		Type:         events.PostCommented,
		ActorID:      in.UserID,
		TargetUserID: post.UserID,
		PostID:       &post.ID,
		OccurredAt:   time.Now().UTC(),
	})

	view := comment.View()
	return &view, nil
}

func (s *CommentService) UpdateComment(ctx context.Context, in UpdateCommentInput) (*models.CommentView, error) {
	text, err := validation.CommentText(in.Text)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	comment, err := s.comments.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}
	if comment.UserID != in.UserID {
		return nil, models.NewForbiddenError("You can only edit your own comments")
	}

	comment.Text = text
	if err := s.comments.UpdateText(ctx, comment); err != nil {
		return nil, err
	}
	view := comment.View()
	return &view, nil
}

func (s *CommentService) DeleteComment(ctx context.Context, userID, commentID uint) error {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.UserID != userID {
		return models.NewForbiddenError("You can only delete your own comments")
	}
	return s.comments.Delete(ctx, commentID)
}
