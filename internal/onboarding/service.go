package onboarding

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	registrydomain "github.com/std-1224/payper-tenant/internal/moduleregistry/domain"
	tenantdomain "github.com/std-1224/payper-tenant/internal/tenant/domain"
	"go.uber.org/zap"
)

// Service drives the wizard: draft lifecycle, step navigation and the
// final hand-off to the tenant sequencer.
type Service struct {
	log      *zap.Logger
	store    *Store
	registry registrydomain.Repository
	tenants  tenantdomain.Service
}

func NewService(log *zap.Logger, store *Store, registry registrydomain.Repository, tenants tenantdomain.Service) *Service {
	return &Service{
		log:      log.Named("onboarding.service"),
		store:    store,
		registry: registry,
		tenants:  tenants,
	}
}

func (s *Service) Start(ctx context.Context, ownerID snowflake.ID) *Draft {
	_ = ctx
	return s.store.Create(ownerID)
}

func (s *Service) Get(ctx context.Context, ownerID snowflake.ID, draftID string) (*Draft, error) {
	_ = ctx
	return s.store.Get(draftID, ownerID)
}

func (s *Service) Discard(ctx context.Context, ownerID snowflake.ID, draftID string) error {
	_ = ctx
	if _, err := s.store.Get(draftID, ownerID); err != nil {
		return err
	}
	s.store.Delete(draftID)
	return nil
}

func (s *Service) UpdateBasic(ctx context.Context, ownerID snowflake.ID, draftID string, input BasicInput) (*Draft, error) {
	_ = ctx
	return s.store.Mutate(draftID, ownerID, func(d *Draft) error {
		d.applyBasic(input)
		return nil
	})
}

// Advance moves the wizard forward. Entering the modules step seeds the
// core-module default selection on first entry.
func (s *Service) Advance(ctx context.Context, ownerID snowflake.ID, draftID string) (*Draft, error) {
	draft, err := s.store.Mutate(draftID, ownerID, func(d *Draft) error {
		return d.advance()
	})
	if err != nil {
		return nil, err
	}

	if draft.Step == StepModules && !draft.modulesSeeded {
		registry, err := s.registry.List(ctx)
		if err != nil {
			return nil, err
		}
		draft, err = s.store.Mutate(draftID, ownerID, func(d *Draft) error {
			d.seedModules(registry)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return draft, nil
}

func (s *Service) Back(ctx context.Context, ownerID snowflake.ID, draftID string) (*Draft, error) {
	_ = ctx
	return s.store.Mutate(draftID, ownerID, func(d *Draft) error {
		d.back()
		return nil
	})
}

func (s *Service) AddContact(ctx context.Context, ownerID snowflake.ID, draftID string, contact tenantdomain.ContactDraft) (*Draft, error) {
	_ = ctx
	return s.store.Mutate(draftID, ownerID, func(d *Draft) error {
		_, err := d.addContact(contact)
		return err
	})
}

func (s *Service) RemoveContact(ctx context.Context, ownerID snowflake.ID, draftID, token string) (*Draft, error) {
	_ = ctx
	return s.store.Mutate(draftID, ownerID, func(d *Draft) error {
		return d.removeContact(token)
	})
}

func (s *Service) SetPrimaryContact(ctx context.Context, ownerID snowflake.ID, draftID, token string) (*Draft, error) {
	_ = ctx
	return s.store.Mutate(draftID, ownerID, func(d *Draft) error {
		return d.setPrimary(token)
	})
}

func (s *Service) ToggleModule(ctx context.Context, ownerID snowflake.ID, draftID string, moduleID snowflake.ID) (*Draft, error) {
	_ = ctx
	return s.store.Mutate(draftID, ownerID, func(d *Draft) error {
		d.toggleModule(moduleID)
		return nil
	})
}

func (s *Service) SetInviteEnabled(ctx context.Context, ownerID snowflake.ID, draftID string, enabled bool) (*Draft, error) {
	_ = ctx
	return s.store.Mutate(draftID, ownerID, func(d *Draft) error {
		d.setInvite(enabled)
		return nil
	})
}

func (s *Service) UpdateInvite(ctx context.Context, ownerID snowflake.ID, draftID string, email, role *string) (*Draft, error) {
	_ = ctx
	return s.store.Mutate(draftID, ownerID, func(d *Draft) error {
		return d.updateInvite(email, role)
	})
}

// Submit materializes the draft and runs the sequencer. A slug
// collision snaps the wizard back to step 1 with every drafted contact
// and module intact; success discards the draft.
func (s *Service) Submit(ctx context.Context, ownerID snowflake.ID, draftID string) (*tenantdomain.Tenant, error) {
	var req tenantdomain.OnboardRequest
	if _, err := s.store.Mutate(draftID, ownerID, func(d *Draft) error {
		if err := d.Basic.Validate(); err != nil {
			return err
		}
		req = d.toRequest()
		return nil
	}); err != nil {
		return nil, err
	}

	created, err := s.tenants.Onboard(ctx, req)
	if err != nil {
		if errors.Is(err, tenantdomain.ErrSlugTaken) {
			if _, snapErr := s.store.Mutate(draftID, ownerID, func(d *Draft) error {
				d.Step = StepBasicInfo
				d.touch()
				return nil
			}); snapErr != nil {
				s.log.Warn("failed to snap draft to step 1", zap.Error(snapErr))
			}
		}
		return nil, err
	}

	s.store.Delete(draftID)
	return created, nil
}

// SweepLoop evicts expired drafts until ctx is cancelled.
func (s *Service) SweepLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if removed := s.store.Sweep(now.UTC()); removed > 0 {
				s.log.Debug("swept expired drafts", zap.Int("removed", removed))
			}
		}
	}
}
