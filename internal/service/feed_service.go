package service

import (
	"context"

	"tingle/internal/models"
	"tingle/internal/observability"
	"tingle/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// FeedService composes the home timeline and the explore ranking.
type FeedService struct {
	posts repository.PostRepository
}

// NewFeedService returns a new FeedService.
func NewFeedService(posts repository.PostRepository) *FeedService {
	return &FeedService{posts: posts}
}

// HomeFeedInput selects a page of the viewer's timeline.
type HomeFeedInput struct {
	ViewerID      uint
	FollowingOnly bool
	Page          int
	Limit         int
}

// Home returns the viewer's own posts and those of accounts they follow,
// newest first. FollowingOnly drops the viewer's own posts.
func (s *FeedService) Home(ctx context.Context, in HomeFeedInput) (views []models.PostView, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "FeedService", "Home",
		attribute.Bool("feed.following_only", in.FollowingOnly),
		attribute.Int("feed.page", in.Page),
	)
	defer func() { observability.EndSpan(span, err) }()

	posts, err := s.posts.HomeFeed(ctx, in.ViewerID, in.FollowingOnly, in.Limit, offset(in.Page, in.Limit))
	if err != nil {
		return nil, err
	}
	return models.PostViews(posts), nil
}

// Explore ranks every post by likes, then comments, then recency.
func (s *FeedService) Explore(ctx context.Context, viewerID uint, page, limit int) (views []models.PostView, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "FeedService", "Explore",
		attribute.Int("feed.page", page))
	defer func() { observability.EndSpan(span, err) }()

	posts, err := s.posts.Explore(ctx, viewerID, limit, offset(page, limit))
	if err != nil {
		return nil, err
	}
	return models.PostViews(posts), nil
}
