package users

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/team-fruitee/fruitee-backend/pkg/db/models"
	"github.com/team-fruitee/fruitee-backend/pkg/enums"
	pkgerrors "github.com/team-fruitee/fruitee-backend/pkg/errors"
	"github.com/team-fruitee/fruitee-backend/pkg/pagination"
)

// ListFilters narrows the member listing.
type ListFilters struct {
	Role   *enums.UserRole
	Status *enums.UserStatus
}

// ListResult is one page of the member directory.
type ListResult struct {
	Users      []models.User `json:"users"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

// Service exposes the member directory consumed by coordinators.
// Registration and login live in the external auth provider.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*models.User, error)
	List(ctx context.Context, filters ListFilters, page pagination.Params) (*ListResult, error)
	SetStatus(ctx context.Context, userID uuid.UUID, status enums.UserStatus) error
}

type service struct {
	repo Repository
}

// NewService builds a user directory service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user, nil
}

func (s *service) List(ctx context.Context, filters ListFilters, page pagination.Params) (*ListResult, error) {
	if filters.Role != nil && !filters.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role filter")
	}
	if filters.Status != nil && !filters.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
	}

	cursor, err := pagination.ParseCursor(page.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(page.Limit)
	users, err := s.repo.List(ctx, filters, pagination.LimitWithBuffer(page.Limit), cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}

	result := &ListResult{Users: users}
	if len(users) > limit {
		result.Users = users[:limit]
		last := result.Users[limit-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return result, nil
}

func (s *service) SetStatus(ctx context.Context, userID uuid.UUID, status enums.UserStatus) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if !status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid user status")
	}
	if _, err := s.Get(ctx, userID); err != nil {
		return err
	}
	if err := s.repo.UpdateStatus(ctx, userID, status); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user status")
	}
	return nil
}
