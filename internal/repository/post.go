package repository

import (
	"context"

	"tingle/internal/models"
	"tingle/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepository defines the interface for post and like data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	GetDetailed(ctx context.Context, id, viewerID uint) (*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
	HomeFeed(ctx context.Context, viewerID uint, followingOnly bool, limit, offset int) ([]models.Post, error)
	Explore(ctx context.Context, viewerID uint, limit, offset int) ([]models.Post, error)
	ListByUser(ctx context.Context, authorID, viewerID uint, limit, offset int) ([]models.Post, error)
	TextsByIDs(ctx context.Context, ids []uint) (map[uint]string, error)
	Like(ctx context.Context, postID, userID uint) (bool, error)
	Unlike(ctx context.Context, postID, userID uint) (bool, error)
	LikeCount(ctx context.Context, postID uint) (int64, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// applyPostDetails selects the computed counters and the viewer's like flag.
func applyPostDetails(db *gorm.DB, viewerID uint) *gorm.DB {
	return db.Select(`posts.*, `+
		`(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) AS likes_count, `+
		`(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comments_count, `+
		`EXISTS (SELECT 1 FROM likes WHERE likes.post_id = posts.id AND likes.user_id = ?) AS is_liked`, viewerID).
		Preload("User")
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// GetByID loads the bare post row.
func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, notFoundOrInternal(err, "Post", id)
	}
	return &post, nil
}

// GetDetailed loads the post with its author, counters and viewer flag.
func (r *postRepository) GetDetailed(ctx context.Context, id, viewerID uint) (*models.Post, error) {
	var post models.Post
	if err := applyPostDetails(readDB(r.db).WithContext(ctx), viewerID).
		Where("posts.id = ?", id).
		First(&post).Error; err != nil {
		return nil, notFoundOrInternal(err, "Post", id)
	}
	return &post, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).
		Model(post).
		Select("text", "image", "updated_at").
		Updates(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Delete removes the post with its likes and comments in one transaction.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return models.NewInternalError(err)
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return models.NewInternalError(err)
		}
		res := tx.Delete(&models.Post{}, id)
		if res.Error != nil {
			return models.NewInternalError(res.Error)
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Post", id)
		}
		return nil
	})
}

// HomeFeed returns posts by users the viewer follows, plus the viewer's own
// unless followingOnly is set, newest first.
func (r *postRepository) HomeFeed(ctx context.Context, viewerID uint, followingOnly bool, limit, offset int) ([]models.Post, error) {
	defer observability.TrackQuery("home_feed", "posts")()

	db := readDB(r.db).WithContext(ctx)
	followed := db.Model(&models.Follow{}).Select("following_id").Where("follower_id = ?", viewerID)
	q := applyPostDetails(db, viewerID)
	if followingOnly {
		q = q.Where("posts.user_id IN (?)", followed)
	} else {
		q = q.Where("posts.user_id IN (?) OR posts.user_id = ?", followed, viewerID)
	}

	posts := []models.Post{}
	if err := q.Order("posts.created_at DESC").
		Order("posts.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// Explore ranks all posts by engagement, then recency.
func (r *postRepository) Explore(ctx context.Context, viewerID uint, limit, offset int) ([]models.Post, error) {
	defer observability.TrackQuery("explore", "posts")()

	posts := []models.Post{}
	if err := applyPostDetails(readDB(r.db).WithContext(ctx), viewerID).
		Order("likes_count DESC").
		Order("comments_count DESC").
		Order("posts.created_at DESC").
		Order("posts.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) ListByUser(ctx context.Context, authorID, viewerID uint, limit, offset int) ([]models.Post, error) {
	defer observability.TrackQuery("list_by_user", "posts")()

	posts := []models.Post{}
	if err := applyPostDetails(readDB(r.db).WithContext(ctx), viewerID).
		Where("posts.user_id = ?", authorID).
		Order("posts.created_at DESC").
		Order("posts.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// TextsByIDs returns the text of every existing post in ids.
func (r *postRepository) TextsByIDs(ctx context.Context, ids []uint) (map[uint]string, error) {
	texts := make(map[uint]string, len(ids))
	if len(ids) == 0 {
		return texts, nil
	}
	var rows []struct {
		ID   uint
		Text string
	}
	if err := readDB(r.db).WithContext(ctx).
		Model(&models.Post{}).
		Select("id, text").
		Where("id IN ?", ids).
		Scan(&rows).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	for _, row := range rows {
		texts[row.ID] = row.Text
	}
	return texts, nil
}

// Like records the like and reports false when it already existed.
func (r *postRepository) Like(ctx context.Context, postID, userID uint) (bool, error) {
	like := models.Like{PostID: postID, UserID: userID}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&like)
	if res.Error != nil {
		if isUniqueConstraintError(res.Error) {
			return false, nil
		}
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Unlike removes the like and reports false when none existed.
func (r *postRepository) Unlike(ctx context.Context, postID, userID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&models.Like{})
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *postRepository) LikeCount(ctx context.Context, postID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Like{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
