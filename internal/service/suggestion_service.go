package service

import (
	"context"
	"strconv"

	"tingle/internal/models"
	"tingle/internal/observability"
	"tingle/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// SuggestionService proposes accounts to follow.
type SuggestionService struct {
	users   repository.UserRepository
	follows repository.FollowRepository
}

func NewSuggestionService(users repository.UserRepository, follows repository.FollowRepository) *SuggestionService {
	return &SuggestionService{users: users, follows: follows}
}

// Suggest returns up to limit accounts the viewer does not follow. Tiers run
// in order, each only filling what the previous left: most followed accounts,
// then accounts followed by the viewer's followees in edge order, then the
// newest accounts.
func (s *SuggestionService) Suggest(ctx context.Context, viewerID uint, limit int) (items []models.UserListItem, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "SuggestionService", "Suggest",
		attribute.Int("suggestions.limit", limit))
	defer func() { observability.EndSpan(span, err) }()

	items = []models.UserListItem{}
	if limit <= 0 {
		return items, nil
	}

	following, err := s.follows.FollowingIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	exclude := append([]uint{viewerID}, following...)

	take := func(tier int, rows []repository.CandidateRow) {
		for _, row := range rows {
			count := row.FollowerCount
			items = append(items, models.UserListItem{
				ID:            row.ID,
				Name:          row.Name,
				Username:      row.Username,
				Image:         row.Image,
				Bio:           row.Bio,
				FollowerCount: &count,
			})
			exclude = append(exclude, row.ID)
		}
		observability.SuggestionTierFill.WithLabelValues(strconv.Itoa(tier)).Observe(float64(len(rows)))
	}

	popular, err := s.users.PopularCandidates(ctx, exclude, limit)
	if err != nil {
		return nil, err
	}
	take(1, popular)

	if remaining := limit - len(items); remaining > 0 && len(following) > 0 {
		ids, err := s.follows.FolloweesOf(ctx, following, exclude, remaining)
		if err != nil {
			return nil, err
		}
		rows, err := s.users.CandidatesByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		take(2, rows)
	}

	if remaining := limit - len(items); remaining > 0 {
		rows, err := s.users.NewestCandidates(ctx, exclude, remaining)
		if err != nil {
			return nil, err
		}
		take(3, rows)
	}

	return items, nil
}
