package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"tingle/internal/cache"
	"tingle/internal/models"
	"tingle/internal/observability"

	"gorm.io/gorm"
)

// CandidateRow is a user projection annotated with its follower count, used
// by search and suggestion queries.
type CandidateRow struct {
	ID            uint
	Name          string
	Username      string
	Image         string
	Bio           string
	CreatedAt     time.Time
	FollowerCount int64
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetCachedByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UsernameTaken(ctx context.Context, username string, excludeID uint) (bool, error)
	Create(ctx context.Context, user *models.User) error
	UpdateFields(ctx context.Context, id uint, fields map[string]any) error
	Counts(ctx context.Context, id uint) (models.UserCounts, error)
	ListByIDs(ctx context.Context, ids []uint) ([]models.User, error)
	Search(ctx context.Context, query string, limit, offset int) ([]models.User, int64, error)
	PopularCandidates(ctx context.Context, exclude []uint, limit int) ([]CandidateRow, error)
	NewestCandidates(ctx context.Context, exclude []uint, limit int) ([]CandidateRow, error)
	CandidatesByIDs(ctx context.Context, ids []uint) ([]CandidateRow, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

const followerCountExpr = "(SELECT COUNT(*) FROM follows WHERE follows.following_id = users.id)"

const candidateColumns = "users.id, users.name, users.username, users.image, users.bio, users.created_at, " +
	followerCountExpr + " AS follower_count"

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := readDB(r.db).WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFoundOrInternal(err, "User", id)
	}
	return &user, nil
}

// GetCachedByID reads the user through the profile cache.
func (r *userRepository) GetCachedByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := cache.Aside(ctx, cache.UserKey(id), &user, cache.UserTTL, func() error {
		if err := readDB(r.db).WithContext(ctx).First(&user, id).Error; err != nil {
			return notFoundOrInternal(err, "User", id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail returns nil without error when no user has the email.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := readDB(r.db).WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

// GetByUsername returns nil without error when the handle is unknown.
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := readDB(r.db).WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

// UsernameTaken checks the primary, since handle assignment races with writes.
func (r *userRepository) UsernameTaken(ctx context.Context, username string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return duplicateError("User already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

// UpdateFields applies a partial column update and drops the cached profile.
func (r *userRepository) UpdateFields(ctx context.Context, id uint, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		if isUniqueConstraintError(res.Error) {
			return duplicateError("Username is already taken")
		}
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("User", id)
	}
	cache.InvalidateUser(ctx, id)
	return nil
}

func (r *userRepository) Counts(ctx context.Context, id uint) (models.UserCounts, error) {
	defer observability.TrackQuery("counts", "users")()

	var counts models.UserCounts
	db := readDB(r.db).WithContext(ctx)
	if err := db.Model(&models.Follow{}).Where("following_id = ?", id).Count(&counts.Followers).Error; err != nil {
		return counts, models.NewInternalError(err)
	}
	if err := db.Model(&models.Follow{}).Where("follower_id = ?", id).Count(&counts.Following).Error; err != nil {
		return counts, models.NewInternalError(err)
	}
	if err := db.Model(&models.Post{}).Where("user_id = ?", id).Count(&counts.Posts).Error; err != nil {
		return counts, models.NewInternalError(err)
	}
	return counts, nil
}

func (r *userRepository) ListByIDs(ctx context.Context, ids []uint) ([]models.User, error) {
	users := []models.User{}
	if len(ids) == 0 {
		return users, nil
	}
	if err := readDB(r.db).WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

// Search matches name or username case-insensitively, ordered by username
// then name.
func (r *userRepository) Search(ctx context.Context, query string, limit, offset int) ([]models.User, int64, error) {
	defer observability.TrackQuery("search", "users")()

	pattern := "%" + escapeLike(strings.ToLower(strings.TrimSpace(query))) + "%"
	where := func(db *gorm.DB) *gorm.DB {
		return db.Where(`LOWER(users.username) LIKE ? ESCAPE '\' OR LOWER(users.name) LIKE ? ESCAPE '\'`, pattern, pattern)
	}

	var total int64
	if err := where(readDB(r.db).WithContext(ctx).Model(&models.User{})).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	users := []models.User{}
	if err := where(readDB(r.db).WithContext(ctx)).
		Order("users.username ASC").
		Order("users.name ASC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return users, total, nil
}

// PopularCandidates lists users most followed first, ties by id.
func (r *userRepository) PopularCandidates(ctx context.Context, exclude []uint, limit int) ([]CandidateRow, error) {
	defer observability.TrackQuery("popular_candidates", "users")()

	rows := []CandidateRow{}
	if limit <= 0 {
		return rows, nil
	}
	q := readDB(r.db).WithContext(ctx).Table("users").Select(candidateColumns)
	q = excludeIDs(q, "users.id", exclude).
		Order("follower_count DESC").
		Order("users.id ASC").
		Limit(limit)
	if err := q.Scan(&rows).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return rows, nil
}

// NewestCandidates lists the most recently joined users.
func (r *userRepository) NewestCandidates(ctx context.Context, exclude []uint, limit int) ([]CandidateRow, error) {
	defer observability.TrackQuery("newest_candidates", "users")()

	rows := []CandidateRow{}
	if limit <= 0 {
		return rows, nil
	}
	q := readDB(r.db).WithContext(ctx).Table("users").Select(candidateColumns)
	q = excludeIDs(q, "users.id", exclude).
		Order("users.created_at DESC").
		Order("users.id DESC").
		Limit(limit)
	if err := q.Scan(&rows).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return rows, nil
}

// CandidatesByIDs loads candidate rows in the order of ids.
func (r *userRepository) CandidatesByIDs(ctx context.Context, ids []uint) ([]CandidateRow, error) {
	if len(ids) == 0 {
		return []CandidateRow{}, nil
	}
	var rows []CandidateRow
	if err := readDB(r.db).WithContext(ctx).
		Table("users").
		Select(candidateColumns).
		Where("users.id IN ?", ids).
		Scan(&rows).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	byID := make(map[uint]CandidateRow, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}
	ordered := make([]CandidateRow, 0, len(rows))
	for _, id := range ids {
		if row, ok := byID[id]; ok {
			ordered = append(ordered, row)
		}
	}
	return ordered, nil
}
