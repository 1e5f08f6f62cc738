package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"github.com/stackit-qa/backend/internal/apperror"
	"github.com/stackit-qa/backend/internal/models"
)

var (
	tagNamePattern  = regexp.MustCompile(`^[a-z0-9-]+$`)
	hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
)

// ListTags returns active tags ordered by the requested sort
// (popular, alphabetical, or newest).
func (s *Service) ListTags(ctx context.Context, sort string, limit int) ([]models.Tag, error) {
	if limit < 1 || limit > 100 {
		limit = 50
	}

	order := "question_count desc"
	switch sort {
	case "alphabetical":
		order = "name asc"
	case "newest":
		order = "created_at desc"
	}

	var tags []models.Tag
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order(order).
		Limit(limit).
		Find(&tags).Error
	return tags, err
}

// PopularTags returns active tags that are in use, most used first.
func (s *Service) PopularTags(ctx context.Context, limit int) ([]models.Tag, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var tags []models.Tag
	err := s.db.WithContext(ctx).
		Where("is_active = ? AND question_count > 0", true).
		Order("question_count desc").
		Limit(limit).
		Find(&tags).Error
	return tags, err
}

// CreateTag registers a new tag. Names are normalized to lowercase and must
// be unique.
func (s *Service) CreateTag(ctx context.Context, actor models.User, name, description, color string) (models.Tag, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if len(name) < 2 || len(name) > 30 {
		return models.Tag{}, apperror.Validation("name", "Tag name must be between 2 and 30 characters")
	}
	if !tagNamePattern.MatchString(name) {
		return models.Tag{}, apperror.Validation("name", "Tag name can only contain lowercase letters, numbers, and hyphens")
	}
	if len(description) > 200 {
		return models.Tag{}, apperror.Validation("description", "Description cannot exceed 200 characters")
	}
	if color != "" && !hexColorPattern.MatchString(color) {
		return models.Tag{}, apperror.Validation("color", "Color must be a valid hex color code")
	}

	var existing models.Tag
	err := s.db.WithContext(ctx).Where("name = ?", name).First(&existing).Error
	if err == nil {
		return models.Tag{}, apperror.Conflict("Tag already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Tag{}, err
	}

	tag := models.Tag{
		Name:        name,
		Description: description,
		CreatedByID: &actor.ID,
	}
	if color != "" {
		tag.Color = color
	}

	if err := s.db.WithContext(ctx).Create(&tag).Error; err != nil {
		return models.Tag{}, err
	}
	return tag, nil
}

// DeactivateTag hides a tag from listings without removing it from existing
// questions.
func (s *Service) DeactivateTag(ctx context.Context, tagID int) error {
	var tag models.Tag
	err := s.db.WithContext(ctx).First(&tag, tagID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound("Tag")
	}
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Model(&tag).Update("is_active", false).Error
}
