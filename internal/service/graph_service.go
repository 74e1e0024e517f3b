package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"tingle/internal/cache"
	"tingle/internal/events"
	"tingle/internal/middleware"
	"tingle/internal/models"
	"tingle/internal/observability"
	"tingle/internal/repository"
)

const lockBusyMessage = "Another request for this action is in progress"

// GraphService maintains the follow graph.
type GraphService struct {
	users         repository.UserRepository
	follows       repository.FollowRepository
	notifications *NotificationService
	events        events.Publisher
}

// NewGraphService returns a new GraphService.
func NewGraphService(
	users repository.UserRepository,
	follows repository.FollowRepository,
	notifications *NotificationService,
	publisher events.Publisher,
) *GraphService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &GraphService{
		users:         users,
		follows:       follows,
		notifications: notifications,
		events:        publisher,
	}
}

// lockAction takes the advisory lock for a natural key, mapping a held lock
// to a Conflict.
func lockAction(ctx context.Context, key string) (func(), error) {
	release, err := cache.Lock(ctx, key, cache.ActionLockTTL)
	if err != nil {
		if errors.Is(err, cache.ErrLockHeld) {
			return nil, models.NewConflictError(lockBusyMessage)
		}
		return nil, models.NewInternalError(err)
	}
	return release, nil
}

// Follow creates the edge followerID -> targetID and notifies the target.
func (s *GraphService) Follow(ctx context.Context, followerID, targetID uint) error {
	if followerID == targetID {
		return models.NewConflictError("You cannot follow yourself")
	}
	if _, err := s.users.GetByID(ctx, targetID); err != nil {
		return err
	}

	release, err := lockAction(ctx, cache.FollowLockKey(followerID, targetID))
	if err != nil {
		return err
	}
	defer release()

	created, err := s.follows.Create(ctx, followerID, targetID)
	if err != nil {
		return err
	}
	if !created {
		return models.NewConflictError("You are already following this user")
	}
	observability.FollowsTotal.Inc()

	s.notifications.Notify(ctx, NotifyInput{
		Type:       models.NotificationFollow,
		FromUserID: followerID,
		ToUserID:   targetID,
	})
	s.events.Publish(ctx, events.Event{
		Type:         events.UserFollowed,
		ActorID:      followerID,
		TargetUserID: targetID,
		OccurredAt:   time.Now().UTC(),
	})

	middleware.Logger.InfoContext(ctx, "user followed",
		slog.Uint64("follower_id", uint64(followerID)),
		slog.Uint64("following_id", uint64(targetID)),
	)
	return nil
}

// Unfollow removes the edge followerID -> targetID.
func (s *GraphService) Unfollow(ctx context.Context, followerID, targetID uint) error {
	if followerID == targetID {
		return models.NewConflictError("You cannot unfollow yourself")
	}
	if _, err := s.users.GetByID(ctx, targetID); err != nil {
		return err
	}

	release, err := lockAction(ctx, cache.FollowLockKey(followerID, targetID))
	if err != nil {
		return err
	}
	defer release()

	deleted, err := s.follows.Delete(ctx, followerID, targetID)
	if err != nil {
		return err
	}
	if !deleted {
		return models.NewConflictError("You are not following this user")
	}
	return nil
}

// ListEdgesInput pages through one side of a user's edges.
type ListEdgesInput struct {
	ViewerID uint
	UserID   uint
	Page     int
	Limit    int
}

// Followers lists the users following in.UserID, most recent first.
func (s *GraphService) Followers(ctx context.Context, in ListEdgesInput) (models.Page[models.UserListItem], error) {
	return s.listEdges(ctx, in, s.follows.ListFollowers)
}

// Following lists the users in.UserID follows, most recent first.
func (s *GraphService) Following(ctx context.Context, in ListEdgesInput) (models.Page[models.UserListItem], error) {
	return s.listEdges(ctx, in, s.follows.ListFollowing)
}

type edgeLister func(ctx context.Context, userID uint, limit, offset int) ([]repository.FollowEdge, int64, error)

func (s *GraphService) listEdges(ctx context.Context, in ListEdgesInput, list edgeLister) (models.Page[models.UserListItem], error) {
	var page models.Page[models.UserListItem]
	if _, err := s.users.GetByID(ctx, in.UserID); err != nil {
		return page, err
	}

	edges, total, err := list(ctx, in.UserID, in.Limit, offset(in.Page, in.Limit))
	if err != nil {
		return page, err
	}

	users := make([]models.User, 0, len(edges))
	for _, e := range edges {
		users = append(users, e.User)
	}
	items, err := annotateUsers(ctx, s.follows, in.ViewerID, users)
	if err != nil {
		return page, err
	}
	for i := range items {
		followedAt := edges[i].FollowedAt
		items[i].FollowedAt = &followedAt
	}
	return models.NewPage(items, total, in.Page, in.Limit), nil
}
