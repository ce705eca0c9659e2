package repository

import (
	"context"

	"eventpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByUserName(ctx context.Context, userName string) (*model.User, error)
	List(ctx context.Context, includeInactive bool) ([]model.User, error)
	Save(ctx context.Context, u *model.User) error
}

type userRepo struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) UserRepository { return &userRepo{db: db} }

func (r *userRepo) Create(ctx context.Context, u *model.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *userRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	return &u, err
}

func (r *userRepo) FindByUserName(ctx context.Context, userName string) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).Where("user_name = ?", userName).First(&u).Error
	return &u, err
}

func (r *userRepo) List(ctx context.Context, includeInactive bool) ([]model.User, error) {
	q := r.db.WithContext(ctx)
	if !includeInactive {
		q = q.Where("is_active = true")
	}
	var users []model.User
	err := q.Order("user_name ASC").Find(&users).Error
	return users, err
}

func (r *userRepo) Save(ctx context.Context, u *model.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}
