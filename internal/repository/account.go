package repository

import (
	"context"
	"errors"

	"tingle/internal/models"

	"gorm.io/gorm"
)

// AccountRepository persists identity-provider links.
type AccountRepository interface {
	GetByProvider(ctx context.Context, provider, subject string) (*models.Account, error)
	GetForUser(ctx context.Context, userID uint, provider string) (*models.Account, error)
	Create(ctx context.Context, account *models.Account) error
	UpdatePasswordHash(ctx context.Context, id uint, hash string) error
}

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository returns a new AccountRepository implementation.
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

// GetByProvider returns nil without error when the subject is not linked.
func (r *accountRepository) GetByProvider(ctx context.Context, provider, subject string) (*models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).
		Where("provider = ? AND provider_account_id = ?", provider, subject).
		First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &account, nil
}

// GetForUser returns nil without error when the user has no such link.
func (r *accountRepository) GetForUser(ctx context.Context, userID uint, provider string) (*models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND provider = ?", userID, provider).
		First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &account, nil
}

func (r *accountRepository) Create(ctx context.Context, account *models.Account) error {
	if err := r.db.WithContext(ctx).Create(account).Error; err != nil {
		if isUniqueConstraintError(err) {
			return duplicateError("Account is already linked")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *accountRepository) UpdatePasswordHash(ctx context.Context, id uint, hash string) error {
	if err := r.db.WithContext(ctx).Model(&models.Account{}).Where("id = ?", id).Update("password_hash", hash).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
