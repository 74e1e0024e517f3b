package repository

import (
	"context"
	"time"

	"tingle/internal/models"
	"tingle/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowEdge is a user reached through a follow edge, with the edge's
// creation time.
type FollowEdge struct {
	User       models.User
	FollowedAt time.Time
}

// FollowRepository defines persistence operations for the follow graph.
type FollowRepository interface {
	Create(ctx context.Context, followerID, followingID uint) (bool, error)
	Delete(ctx context.Context, followerID, followingID uint) (bool, error)
	Exists(ctx context.Context, followerID, followingID uint) (bool, error)
	FollowingIDs(ctx context.Context, followerID uint) ([]uint, error)
	FollowingSet(ctx context.Context, followerID uint, targetIDs []uint) (map[uint]bool, error)
	ListFollowers(ctx context.Context, userID uint, limit, offset int) ([]FollowEdge, int64, error)
	ListFollowing(ctx context.Context, userID uint, limit, offset int) ([]FollowEdge, int64, error)
	FolloweesOf(ctx context.Context, followerIDs, exclude []uint, limit int) ([]uint, error)
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository creates a new follow repository
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

// Create inserts the edge and reports false when it already existed.
func (r *followRepository) Create(ctx context.Context, followerID, followingID uint) (bool, error) {
	follow := models.Follow{FollowerID: followerID, FollowingID: followingID}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&follow)
	if res.Error != nil {
		if isUniqueConstraintError(res.Error) {
			return false, nil
		}
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Delete removes the edge and reports false when none existed.
func (r *followRepository) Delete(ctx context.Context, followerID, followingID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *followRepository) Exists(ctx context.Context, followerID, followingID uint) (bool, error) {
	var count int64
	if err := readDB(r.db).WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *followRepository) FollowingIDs(ctx context.Context, followerID uint) ([]uint, error) {
	ids := []uint{}
	if err := readDB(r.db).WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ?", followerID).
		Order("id ASC").
		Pluck("following_id", &ids).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}

// FollowingSet reports which of targetIDs followerID follows.
func (r *followRepository) FollowingSet(ctx context.Context, followerID uint, targetIDs []uint) (map[uint]bool, error) {
	set := make(map[uint]bool, len(targetIDs))
	if followerID == 0 || len(targetIDs) == 0 {
		return set, nil
	}
	var ids []uint
	if err := readDB(r.db).WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ? AND following_id IN ?", followerID, targetIDs).
		Pluck("following_id", &ids).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

type edgeRow struct {
	UserID     uint
	FollowedAt time.Time
}

// ListFollowers returns users following userID, most recent edge first.
func (r *followRepository) ListFollowers(ctx context.Context, userID uint, limit, offset int) ([]FollowEdge, int64, error) {
	return r.listEdges(ctx, "following_id", "follower_id", userID, limit, offset)
}

// ListFollowing returns users userID follows, most recent edge first.
func (r *followRepository) ListFollowing(ctx context.Context, userID uint, limit, offset int) ([]FollowEdge, int64, error) {
	return r.listEdges(ctx, "follower_id", "following_id", userID, limit, offset)
}

func (r *followRepository) listEdges(ctx context.Context, anchor, other string, userID uint, limit, offset int) ([]FollowEdge, int64, error) {
	defer observability.TrackQuery("list_edges", "follows")()

	db := readDB(r.db).WithContext(ctx)

	var total int64
	if err := db.Model(&models.Follow{}).Where(anchor+" = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var rows []edgeRow
	if err := db.Model(&models.Follow{}).
		Select(other+" AS user_id, created_at AS followed_at").
		Where(anchor+" = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Scan(&rows).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	if len(rows) == 0 {
		return []FollowEdge{}, total, nil
	}

	ids := make([]uint, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.UserID)
	}
	var users []models.User
	if err := db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	byID := make(map[uint]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	edges := make([]FollowEdge, 0, len(rows))
	for _, row := range rows {
		if u, ok := byID[row.UserID]; ok {
			edges = append(edges, FollowEdge{User: u, FollowedAt: row.FollowedAt})
		}
	}
	return edges, total, nil
}

// FolloweesOf walks the outgoing edges of followerIDs in edge order and
// returns up to limit distinct followees not listed in exclude. The scan
// stops as soon as the quota is met.
func (r *followRepository) FolloweesOf(ctx context.Context, followerIDs, exclude []uint, limit int) ([]uint, error) {
	defer observability.TrackQuery("followees_of", "follows")()

	result := []uint{}
	if len(followerIDs) == 0 || limit <= 0 {
		return result, nil
	}

	skip := make(map[uint]struct{}, len(exclude))
	for _, id := range exclude {
		skip[id] = struct{}{}
	}

	rows, err := readDB(r.db).WithContext(ctx).
		Model(&models.Follow{}).
		Select("following_id").
		Where("follower_id IN ?", followerIDs).
		Order("id ASC").
		Rows()
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() && len(result) < limit {
		var id uint
		if err := rows.Scan(&id); err != nil {
			return nil, models.NewInternalError(err)
		}
		if _, seen := skip[id]; seen {
			continue
		}
		skip[id] = struct{}{}
		result = append(result, id)
	}
	if err := rows.Err(); err != nil {
		return nil, models.NewInternalError(err)
	}
	return result, nil
}
