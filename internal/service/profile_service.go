package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"cleanops/internal/cache"
	apperrors "cleanops/internal/errors"
	"cleanops/internal/model"
	"cleanops/internal/repository"
	"cleanops/internal/session"
)

const profileCacheTTL = 24 * time.Hour

// ProfileUpdate carries the fields a profile owner may change. Empty fields
// are left untouched. Role is deliberately absent; see UpdateRole.
type ProfileUpdate struct {
	Name    string
	Phone   string
	Address string
}

// ProfileService handles user administration and profile edits.
type ProfileService interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Profile, error)
	List(ctx context.Context, actor *model.Profile) ([]model.Profile, error)
	Update(ctx context.Context, actor *model.Profile, id uuid.UUID, in ProfileUpdate) (*model.Profile, error)
	// UpdateRole is the privileged write path for role changes.
	UpdateRole(ctx context.Context, actor *model.Profile, id uuid.UUID, role model.Role) (*model.Profile, error)
	Deactivate(ctx context.Context, actor *model.Profile, id uuid.UUID) error
}

type profileService struct {
	repo  repository.ProfileRepository
	cache *cache.Client
}

// NewProfileService creates a new profile service.
func NewProfileService(repo repository.ProfileRepository, cacheClient *cache.Client) ProfileService {
	return &profileService{repo: repo, cache: cacheClient}
}

// Get retrieves a profile by ID, serving the cached slot first.
func (s *profileService) Get(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	store := s.store(id)
	if cached := store.LoadProfile(ctx); cached != nil {
		return cached, nil
	}

	profile, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, err
	}

	store.SaveProfile(ctx, profile)
	return profile, nil
}

// List returns all profiles; admin only.
func (s *profileService) List(ctx context.Context, actor *model.Profile) ([]model.Profile, error) {
	if !session.HasPermission(actor.Role, session.CanManageUsers) {
		return nil, apperrors.ErrForbidden
	}
	return s.repo.List(ctx)
}

// Update edits a profile. Owners edit themselves; admins edit anyone. The
// role column is never written here regardless of the payload.
func (s *profileService) Update(ctx context.Context, actor *model.Profile, id uuid.UUID, in ProfileUpdate) (*model.Profile, error) {
	if actor.ID != id && !session.HasPermission(actor.Role, session.CanManageUsers) {
		return nil, apperrors.ErrForbidden
	}

	profile, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, err
	}

	if in.Name != "" {
		profile.Name = in.Name
	}
	if in.Phone != "" {
		profile.Phone = in.Phone
	}
	if in.Address != "" {
		profile.Address = in.Address
	}

	if err := s.repo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	s.store(id).SaveProfile(ctx, profile)
	return profile, nil
}

// UpdateRole changes a profile's role; admin only, and never through the
// regular update path.
func (s *profileService) UpdateRole(ctx context.Context, actor *model.Profile, id uuid.UUID, role model.Role) (*model.Profile, error) {
	if !session.HasPermission(actor.Role, session.CanManageUsers) {
		return nil, apperrors.ErrForbidden
	}
	if !role.Valid() {
		return nil, fmt.Errorf("unknown role %q", role)
	}

	if err := s.repo.UpdateRole(ctx, id, role); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, err
	}

	profile, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.store(id).SaveProfile(ctx, profile)
	return profile, nil
}

// Deactivate soft-disables a profile; admin only.
func (s *profileService) Deactivate(ctx context.Context, actor *model.Profile, id uuid.UUID) error {
	if !session.HasPermission(actor.Role, session.CanManageUsers) {
		return apperrors.ErrForbidden
	}

	profile, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.ErrProfileNotFound
		}
		return err
	}

	profile.Active = false
	if err := s.repo.Update(ctx, profile); err != nil {
		return err
	}

	// Drop both slots so the next resolution cannot restore a session for
	// a disabled account.
	s.store(id).Clear(ctx)
	return nil
}

func (s *profileService) store(id uuid.UUID) *session.Store {
	return session.NewStore(s.cache, session.UserScope(id), profileCacheTTL)
}
