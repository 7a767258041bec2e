package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/std-1224/payper-tenant/internal/moduleregistry/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func New(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) List(ctx context.Context) ([]*domain.AppModule, error) {
	var modules []*domain.AppModule
	err := r.db.WithContext(ctx).
		Order("is_core DESC").
		Order("name ASC").
		Find(&modules).Error
	return modules, err
}

func (r *repo) FindByIDs(ctx context.Context, ids []snowflake.ID) ([]*domain.AppModule, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var modules []*domain.AppModule
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&modules).Error
	return modules, err
}

func (r *repo) FindByKey(ctx context.Context, key string) (*domain.AppModule, error) {
	var module domain.AppModule
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&module).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrModuleNotFound
	}
	if err != nil {
		return nil, err
	}
	return &module, nil
}

func (r *repo) Create(ctx context.Context, module *domain.AppModule) error {
	return r.db.WithContext(ctx).Create(module).Error
}
