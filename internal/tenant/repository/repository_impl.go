package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/std-1224/payper-tenant/internal/tenant/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func New(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) WithTx(tx *gorm.DB) domain.Repository {
	return &repo{db: tx}
}

func (r *repo) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Tenant{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

func (r *repo) CreateTenant(ctx context.Context, tenant *domain.Tenant) error {
	return r.db.WithContext(ctx).Create(tenant).Error
}

func (r *repo) FindTenant(ctx context.Context, id snowflake.ID) (*domain.Tenant, error) {
	var tenant domain.Tenant
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&tenant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrTenantNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (r *repo) ListTenants(ctx context.Context, filter domain.ListFilter) ([]*domain.Tenant, error) {
	stmt := r.db.WithContext(ctx).Model(&domain.Tenant{})
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		stmt = stmt.Where("LOWER(name) LIKE ? OR LOWER(slug) LIKE ?", like, like)
	}
	if filter.Limit > 0 {
		stmt = stmt.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		stmt = stmt.Offset(filter.Offset)
	}

	var tenants []*domain.Tenant
	err := stmt.Order("created_at DESC").Find(&tenants).Error
	return tenants, err
}

func (r *repo) UpdateTenant(ctx context.Context, id snowflake.ID, fields map[string]any) error {
	tx := r.db.WithContext(ctx).Model(&domain.Tenant{}).Where("id = ?", id).Updates(fields)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrTenantNotFound
	}
	return nil
}

func (r *repo) DeleteTenant(ctx context.Context, id snowflake.ID) error {
	tx := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Tenant{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrTenantNotFound
	}
	return nil
}

func (r *repo) CreateContacts(ctx context.Context, contacts []*domain.Contact) error {
	if len(contacts) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(contacts).Error
}

func (r *repo) ListContacts(ctx context.Context, tenantID snowflake.ID) ([]*domain.Contact, error) {
	var contacts []*domain.Contact
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("is_primary DESC, created_at ASC").
		Find(&contacts).Error
	return contacts, err
}

func (r *repo) FindContact(ctx context.Context, tenantID, contactID snowflake.ID) (*domain.Contact, error) {
	var contact domain.Contact
	err := r.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, contactID).First(&contact).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrContactNotFound
	}
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

func (r *repo) DeleteContact(ctx context.Context, tenantID, contactID snowflake.ID) error {
	tx := r.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, contactID).Delete(&domain.Contact{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrContactNotFound
	}
	return nil
}

func (r *repo) ClearPrimaryContacts(ctx context.Context, tenantID snowflake.ID) error {
	return r.db.WithContext(ctx).Model(&domain.Contact{}).
		Where("tenant_id = ? AND is_primary = ?", tenantID, true).
		Update("is_primary", false).Error
}

func (r *repo) CreateModuleActivations(ctx context.Context, activations []*domain.ModuleActivation) error {
	if len(activations) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(activations).Error
}

func (r *repo) ListModuleActivations(ctx context.Context, tenantID snowflake.ID) ([]*domain.ModuleActivation, error) {
	var activations []*domain.ModuleActivation
	err := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID).Find(&activations).Error
	return activations, err
}

func (r *repo) FindModuleActivation(ctx context.Context, tenantID, appID snowflake.ID) (*domain.ModuleActivation, error) {
	var activation domain.ModuleActivation
	err := r.db.WithContext(ctx).Where("tenant_id = ? AND app_id = ?", tenantID, appID).First(&activation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrActivationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &activation, nil
}

func (r *repo) UpdateModuleActivation(ctx context.Context, tenantID, appID snowflake.ID, fields map[string]any) error {
	tx := r.db.WithContext(ctx).Model(&domain.ModuleActivation{}).
		Where("tenant_id = ? AND app_id = ?", tenantID, appID).
		Updates(fields)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrActivationNotFound
	}
	return nil
}

func (r *repo) CountModuleActivations(ctx context.Context, tenantIDs []snowflake.ID) (map[snowflake.ID]int64, error) {
	counts := make(map[snowflake.ID]int64, len(tenantIDs))
	if len(tenantIDs) == 0 {
		return counts, nil
	}

	type row struct {
		TenantID snowflake.ID
		Total    int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&domain.ModuleActivation{}).
		Select("tenant_id, COUNT(*) AS total").
		Where("tenant_id IN ? AND enabled = ?", tenantIDs, true).
		Group("tenant_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, item := range rows {
		counts[item.TenantID] = item.Total
	}
	return counts, nil
}

func (r *repo) CreateUser(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *repo) ListUsers(ctx context.Context, tenantID snowflake.ID) ([]*domain.User, error) {
	var users []*domain.User
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at ASC").
		Find(&users).Error
	return users, err
}

func (r *repo) FindUser(ctx context.Context, tenantID, userID snowflake.ID) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repo) UpdateUser(ctx context.Context, tenantID, userID snowflake.ID, fields map[string]any) error {
	tx := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("tenant_id = ? AND id = ?", tenantID, userID).
		Updates(fields)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *repo) DeleteUser(ctx context.Context, tenantID, userID snowflake.ID) error {
	tx := r.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, userID).Delete(&domain.User{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *repo) CreateLocation(ctx context.Context, location *domain.Location) error {
	return r.db.WithContext(ctx).Create(location).Error
}

func (r *repo) ListLocations(ctx context.Context, tenantID snowflake.ID) ([]*domain.Location, error) {
	var locations []*domain.Location
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at ASC").
		Find(&locations).Error
	return locations, err
}
