package service

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stackit-qa/backend/internal/apperror"
	"github.com/stackit-qa/backend/internal/models"
)

const maxQuestionTags = 5

// normalizeTags lowercases and trims tag names, dropping empties and
// duplicates while preserving order.
func normalizeTags(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	tags := make([]string, 0, len(raw))
	for _, t := range raw {
		name := strings.ToLower(strings.TrimSpace(t))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		tags = append(tags, name)
	}
	return tags
}

// CreateQuestion sanitizes the description, normalizes the tags, and creates
// the question together with its tag associations, the author's question
// counter, and each tag's usage counter.
func (s *Service) CreateQuestion(ctx context.Context, author models.User, title, description string, rawTags []string) (models.Question, error) {
	title = strings.TrimSpace(title)
	if len(title) < 10 || len(title) > 200 {
		return models.Question{}, apperror.Validation("title", "Title must be between 10 and 200 characters")
	}
	if len(strings.TrimSpace(description)) < 20 {
		return models.Question{}, apperror.Validation("description", "Description must be at least 20 characters")
	}

	tags := normalizeTags(rawTags)
	if len(tags) == 0 {
		return models.Question{}, apperror.Validation("tags", "At least one valid tag is required")
	}
	if len(tags) > maxQuestionTags {
		return models.Question{}, apperror.Validation("tags", "You must provide 1-5 tags")
	}

	question := models.Question{
		Title:       title,
		Description: SanitizeHTML(description),
		AuthorID:    author.ID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&question).Error; err != nil {
			return err
		}

		tagRows := make([]models.Tag, 0, len(tags))
		for _, name := range tags {
			tag := models.Tag{Name: name, QuestionCount: 1}
			err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "name"}},
				DoUpdates: clause.Assignments(map[string]interface{}{
					"question_count": gorm.Expr("tags.question_count + 1"),
				}),
			}).Create(&tag).Error
			if err != nil {
				return err
			}
			if tag.ID == 0 {
				if err := tx.Where("name = ?", name).First(&tag).Error; err != nil {
					return err
				}
			}
			tagRows = append(tagRows, tag)
		}

		if err := tx.Model(&question).Association("Tags").Append(tagRows); err != nil {
			return err
		}
		question.Tags = tagRows

		return tx.Model(&models.User{}).Where("id = ?", author.ID).
			UpdateColumn("questions_count", gorm.Expr("questions_count + 1")).Error
	})
	if err != nil {
		return models.Question{}, err
	}

	question.Author = author
	return question, nil
}
