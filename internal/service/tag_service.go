package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"recipebox/internal/apperrors"
	"recipebox/internal/model"
	"recipebox/internal/repository"
)

// TagService exposes owner-scoped tag operations. Ids belonging to another
// user surface as not-found, never as forbidden.
type TagService interface {
	List(ctx context.Context, ownerID uint, assignedOnly bool) ([]model.Tag, error)
	Create(ctx context.Context, ownerID uint, name string) (tag *model.Tag, created bool, err error)
	Update(ctx context.Context, ownerID, id uint, name string) (*model.Tag, error)
	Delete(ctx context.Context, ownerID, id uint) error
}

type tagService struct {
	tags repository.TagRepository
}

// NewTagService builds a TagService over the tag repository.
func NewTagService(tags repository.TagRepository) TagService {
	return &tagService{tags: tags}
}

func (s *tagService) List(ctx context.Context, ownerID uint, assignedOnly bool) ([]model.Tag, error) {
	return s.tags.ListByOwner(ctx, ownerID, assignedOnly)
}

func (s *tagService) Create(ctx context.Context, ownerID uint, name string) (*model.Tag, bool, error) {
	if strings.TrimSpace(name) == "" {
		return nil, false, apperrors.NewValidationError("name", "name must not be blank")
	}
	return s.tags.GetOrCreate(ctx, ownerID, name)
}

func (s *tagService) Update(ctx context.Context, ownerID, id uint, name string) (*model.Tag, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.NewValidationError("name", "name must not be blank")
	}
	tag, err := s.tags.FindByOwnerAndID(ctx, ownerID, id)
	if err != nil {
		return nil, asNotFound(err)
	}
	tag.Name = name
	if err := s.tags.Update(ctx, tag); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.NewValidationError("name", "tag with this name already exists")
		}
		return nil, err
	}
	return tag, nil
}

func (s *tagService) Delete(ctx context.Context, ownerID, id uint) error {
	tag, err := s.tags.FindByOwnerAndID(ctx, ownerID, id)
	if err != nil {
		return asNotFound(err)
	}
	return s.tags.Delete(ctx, tag)
}

// asNotFound collapses missing rows into the shared not-found error so that
// absent and foreign-owned resources are indistinguishable to callers.
func asNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrNotFound
	}
	return err
}
