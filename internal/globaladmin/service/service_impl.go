package service

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/std-1224/payper-tenant/internal/config"
	"github.com/std-1224/payper-tenant/internal/globaladmin/domain"
	"github.com/std-1224/payper-tenant/pkg/db"
	"go.uber.org/zap"
)

type Service struct {
	log       *zap.Logger
	repo      domain.Repository
	genID     *snowflake.Node
	bootstrap bool
}

func New(log *zap.Logger, cfg config.Config, repo domain.Repository, genID *snowflake.Node) domain.Service {
	return &Service{
		log:       log.Named("globaladmin.service"),
		repo:      repo,
		genID:     genID,
		bootstrap: cfg.BootstrapFirstOperator,
	}
}

// Resolve resolves the operator role in two stages: the privileged role
// lookup first, then a filtered record lookup. Lookup errors degrade to
// "no role" so a failed query can never grant or crash.
func (s *Service) Resolve(ctx context.Context, userID snowflake.ID) (*domain.GlobalAdmin, error) {
	if admin := s.lookup(ctx, userID); admin != nil {
		return admin, nil
	}
	return nil, domain.ErrNoRole
}

func (s *Service) ResolveOnSignup(ctx context.Context, userID snowflake.ID) (*domain.GlobalAdmin, error) {
	if admin := s.lookup(ctx, userID); admin != nil {
		return admin, nil
	}

	if !s.bootstrap {
		return nil, domain.ErrNoRole
	}

	if err := s.registerFirstOperator(ctx, userID); err != nil {
		s.log.Warn("first-operator bootstrap failed", zap.Error(err))
		return nil, domain.ErrNoRole
	}

	// Retry the privileged lookup exactly once.
	role, err := s.repo.CurrentRole(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrNoRole) {
			s.log.Warn("role lookup failed after bootstrap", zap.Error(err))
		}
		return nil, domain.ErrNoRole
	}

	return &domain.GlobalAdmin{UserID: userID, Role: role, IsActive: true}, nil
}

func (s *Service) Grant(ctx context.Context, userID snowflake.ID, role domain.Role) (*domain.GlobalAdmin, error) {
	if !role.IsValid() {
		return nil, domain.ErrInvalidRole
	}

	admin := &domain.GlobalAdmin{
		ID:       s.genID.Generate(),
		UserID:   userID,
		Role:     role,
		IsActive: true,
	}
	if err := s.repo.Create(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}

func (s *Service) List(ctx context.Context) ([]*domain.GlobalAdmin, error) {
	return s.repo.List(ctx)
}

func (s *Service) SetActive(ctx context.Context, id snowflake.ID, active bool) error {
	return s.repo.SetActive(ctx, id, active)
}

func (s *Service) lookup(ctx context.Context, userID snowflake.ID) *domain.GlobalAdmin {
	role, err := s.repo.CurrentRole(ctx, userID)
	if err == nil {
		return &domain.GlobalAdmin{UserID: userID, Role: role, IsActive: true}
	}
	if !errors.Is(err, domain.ErrNoRole) {
		s.log.Warn("privileged role lookup failed", zap.Error(err))
	}

	admin, err := s.repo.FindActiveByUser(ctx, userID)
	if err == nil {
		return admin
	}
	if !errors.Is(err, domain.ErrAdminNotFound) {
		s.log.Warn("admin record lookup failed", zap.Error(err))
	}
	return nil
}

// registerFirstOperator inserts a super_admin record for userID iff no
// admin record exists yet. Concurrent attempts race on the unique index;
// the loser's conflict is swallowed.
func (s *Service) registerFirstOperator(ctx context.Context, userID snowflake.ID) error {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	admin := &domain.GlobalAdmin{
		ID:       s.genID.Generate(),
		UserID:   userID,
		Role:     domain.RoleSuperAdmin,
		IsActive: true,
	}
	if err := s.repo.Create(ctx, admin); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil
		}
		return err
	}

	s.log.Info("registered first operator as super admin", zap.String("user_id", userID.String()))
	return nil
}
