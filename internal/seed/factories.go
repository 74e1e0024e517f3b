// Package seed creates demo data for development databases. These helpers
// are intended for development and testing only.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"tingle/internal/models"
	"tingle/internal/validation"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// DefaultPassword is the credentials password of every seeded user.
const DefaultPassword = "password123"

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db           *gorm.DB
	faker        *gofakeit.Faker
	rng          *rand.Rand
	maxDays      int
	passwordHash string
}

// NewFactory creates a Factory bound to db. A zero seed picks a random one.
// passwordHash is stored on every credentials account the factory creates.
func NewFactory(db *gorm.DB, seed int64, maxDays int, passwordHash string) *Factory {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if maxDays <= 0 {
		maxDays = 90
	}
	return &Factory{
		db:           db,
		faker:        gofakeit.New(seed),
		// #nosec G404: acceptable for seeding
		rng:          rand.New(rand.NewSource(seed)),
		maxDays:      maxDays,
		passwordHash: passwordHash,
	}
}

// BuildUser returns an unsaved user with a valid handle and bio.
func (f *Factory) BuildUser(overrides ...func(*models.User)) *models.User {
	first, last := f.faker.FirstName(), f.faker.LastName()
	email := strings.ToLower(fmt.Sprintf("%s.%s.%d@example.com", first, last, f.faker.Number(1000, 9999)))
	user := &models.User{
		Name:      validation.Truncate(first+" "+last, validation.NameMaxLength),
		Username:  f.handle(first, last),
		Email:     &email,
		Bio:       validation.Truncate(f.faker.Sentence(12), validation.BioMaxLength),
		Image:     fmt.Sprintf("https://i.pravatar.cc/150?u=%s", f.faker.UUID()),
		CreatedAt: f.pastTime(),
	}
	for _, override := range overrides {
		override(user)
	}
	return user
}

// handle derives a username of the form first_last123 within the length limit.
func (f *Factory) handle(first, last string) string {
	clean := func(s string) string {
		var b strings.Builder
		for _, r := range strings.ToLower(s) {
			if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
				b.WriteRune(r)
			}
		}
		return b.String()
	}
	suffix := fmt.Sprintf("%d", f.faker.Number(100, 999))
	base := clean(first) + "_" + clean(last)
	if room := validation.UsernameMaxLength - len(suffix); len(base) > room {
		base = base[:room]
	}
	return base + suffix
}

// CreateUser persists a built user together with a credentials account.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := f.BuildUser(overrides...)
	err := f.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		if user.Email == nil || f.passwordHash == "" {
			return nil
		}
		return tx.Create(&models.Account{
			UserID:            user.ID,
			Provider:          models.ProviderCredentials,
			ProviderAccountID: strings.ToLower(*user.Email),
			PasswordHash:      f.passwordHash,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// BuildPost returns an unsaved post by user, backdated within maxDays.
func (f *Factory) BuildPost(user *models.User, overrides ...func(*models.Post)) *models.Post {
	post := &models.Post{
		UserID:    user.ID,
		Text:      validation.Truncate(f.faker.Sentence(f.rng.Intn(25)+5), validation.PostMaxLength),
		CreatedAt: f.pastTime(),
	}
	// Roughly a third of posts carry an image.
	if f.rng.Intn(3) == 0 {
		post.Image = fmt.Sprintf("https://picsum.photos/seed/%s/800/800", f.faker.UUID())
	}
	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreatePostsBatch persists posts in a single insert.
func (f *Factory) CreatePostsBatch(posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	return f.db.CreateInBatches(posts, 100).Error
}

// CommentText returns a comment body within the comment limit.
func (f *Factory) CommentText() string {
	return validation.Truncate(f.faker.Sentence(f.rng.Intn(12)+3), validation.CommentMaxLength)
}

// MessageText returns a direct message body within the message limit.
func (f *Factory) MessageText() string {
	return validation.Truncate(f.faker.Sentence(f.rng.Intn(15)+2), validation.MessageMaxLength)
}

// pastTime spreads timestamps over the last maxDays days.
func (f *Factory) pastTime() time.Time {
	back := time.Duration(f.rng.Intn(f.maxDays))*24*time.Hour +
		time.Duration(f.rng.Intn(24))*time.Hour +
		time.Duration(f.rng.Intn(60))*time.Minute
	return time.Now().Add(-back)
}

// pick returns n distinct indexes in [0, size) excluding skip.
func (f *Factory) pick(size, n, skip int) []int {
	if n <= 0 {
		return nil
	}
	perm := f.rng.Perm(size)
	out := make([]int, 0, n)
	for _, i := range perm {
		if len(out) == n {
			break
		}
		if i != skip {
			out = append(out, i)
		}
	}
	return out
}
