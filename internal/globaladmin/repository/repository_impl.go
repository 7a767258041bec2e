package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/std-1224/payper-tenant/internal/globaladmin/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func New(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) CurrentRole(ctx context.Context, userID snowflake.ID) (domain.Role, error) {
	var role domain.Role
	err := r.db.WithContext(ctx).
		Raw("SELECT role FROM global_admins WHERE user_id = ? AND is_active = ? ORDER BY created_at ASC LIMIT 1", userID, true).
		Scan(&role).Error
	if err != nil {
		return "", err
	}
	if role == "" {
		return "", domain.ErrNoRole
	}
	return role, nil
}

func (r *repo) FindActiveByUser(ctx context.Context, userID snowflake.ID) (*domain.GlobalAdmin, error) {
	var admin domain.GlobalAdmin
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at ASC").
		First(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrAdminNotFound
	}
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *repo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.GlobalAdmin{}).Count(&count).Error
	return count, err
}

func (r *repo) Create(ctx context.Context, admin *domain.GlobalAdmin) error {
	return r.db.WithContext(ctx).Create(admin).Error
}

func (r *repo) List(ctx context.Context) ([]*domain.GlobalAdmin, error) {
	var admins []*domain.GlobalAdmin
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&admins).Error
	return admins, err
}

func (r *repo) SetActive(ctx context.Context, id snowflake.ID, active bool) error {
	tx := r.db.WithContext(ctx).Model(&domain.GlobalAdmin{}).Where("id = ?", id).Update("is_active", active)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrAdminNotFound
	}
	return nil
}
