package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"recipebox/internal/model"
)

// TagRepository defines owner-scoped tag persistence operations. Every method
// takes the owner explicitly; there is no ambient current user.
type TagRepository interface {
	ListByOwner(ctx context.Context, ownerID uint, assignedOnly bool) ([]model.Tag, error)
	FindByOwnerAndID(ctx context.Context, ownerID, id uint) (*model.Tag, error)
	GetOrCreate(ctx context.Context, ownerID uint, name string) (tag *model.Tag, created bool, err error)
	Update(ctx context.Context, tag *model.Tag) error
	Delete(ctx context.Context, tag *model.Tag) error
}

type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates a GORM-backed tag repository.
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) ListByOwner(ctx context.Context, ownerID uint, assignedOnly bool) ([]model.Tag, error) {
	q := r.db.WithContext(ctx).Model(&model.Tag{}).Where("tags.user_id = ?", ownerID)
	if assignedOnly {
		// A tag referenced by several recipes must still appear once.
		q = q.Joins("JOIN recipe_tags ON recipe_tags.tag_id = tags.id").Distinct("tags.*")
	}
	var tags []model.Tag
	if err := q.Order("tags.name DESC").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *tagRepository) FindByOwnerAndID(ctx context.Context, ownerID, id uint) (*model.Tag, error) {
	var tag model.Tag
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", ownerID, id).First(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// GetOrCreate looks up an exact (owner, name) match and inserts only when
// absent. A lost race on the unique index falls back to re-reading the winner.
func (r *tagRepository) GetOrCreate(ctx context.Context, ownerID uint, name string) (*model.Tag, bool, error) {
	var tag model.Tag
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND name = ?", ownerID, name).First(&tag).Error
	if err == nil {
		return &tag, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	tag = model.Tag{UserID: ownerID, Name: name}
	if err := r.db.WithContext(ctx).Create(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			var existing model.Tag
			if lookupErr := r.db.WithContext(ctx).
				Where("user_id = ? AND name = ?", ownerID, name).First(&existing).Error; lookupErr == nil {
				return &existing, false, nil
			}
		}
		return nil, false, err
	}
	return &tag, true, nil
}

func (r *tagRepository) Update(ctx context.Context, tag *model.Tag) error {
	return r.db.WithContext(ctx).Save(tag).Error
}

// Delete removes the tag and detaches it from every recipe referencing it.
func (r *tagRepository) Delete(ctx context.Context, tag *model.Tag) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(tag).Association("Recipes").Clear(); err != nil {
			return err
		}
		return tx.Delete(tag).Error
	})
}
