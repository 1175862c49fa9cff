package mysql

import (
	"context"
	"errors"
	"fmt"

	userDomain "credit-scoring-backend/internal/domain/user"

	"gorm.io/gorm"
)

type UserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) *UserRepository { return &UserRepository{db: db} }

func (r *UserRepository) Create(ctx context.Context, u *userDomain.User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		// The unique email index backs the usecase-level existence check.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return userDomain.ErrEmailTaken
		}
		return fmt.Errorf("user storage error: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*userDomain.User, error) {
	var out userDomain.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&out).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, userDomain.ErrNotFound
		}
		return nil, fmt.Errorf("user storage error: %w", err)
	}
	return &out, nil
}
