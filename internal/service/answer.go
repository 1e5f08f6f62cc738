package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stackit-qa/backend/internal/apperror"
	"github.com/stackit-qa/backend/internal/models"
)

// CreateAnswer adds an answer to a live question, bumps the denormalized
// counters, and notifies the question's author.
func (s *Service) CreateAnswer(ctx context.Context, author models.User, questionID int, content string) (models.Answer, error) {
	if len(strings.TrimSpace(content)) < 10 {
		return models.Answer{}, apperror.Validation("content", "Answer content must be at least 10 characters")
	}

	var answer models.Answer
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var question models.Question
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND is_deleted = ?", questionID, false).
			First(&question).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("Question")
		}
		if err != nil {
			return err
		}

		answer = models.Answer{
			Content:    SanitizeHTML(content),
			AuthorID:   author.ID,
			QuestionID: question.ID,
		}
		if err := tx.Create(&answer).Error; err != nil {
			return err
		}

		err = tx.Model(&models.Question{}).Where("id = ?", question.ID).
			UpdateColumn("answer_count", gorm.Expr("answer_count + 1")).Error
		if err != nil {
			return err
		}

		err = tx.Model(&models.User{}).Where("id = ?", author.ID).
			UpdateColumn("answers_count", gorm.Expr("answers_count + 1")).Error
		if err != nil {
			return err
		}

		if question.AuthorID != author.ID {
			n := models.Notification{
				RecipientID: question.AuthorID,
				SenderID:    &author.ID,
				Type:        models.NotificationAnswer,
				Message:     fmt.Sprintf("%s answered your question %q", author.Username, question.Title),
				QuestionID:  &question.ID,
				AnswerID:    &answer.ID,
			}
			if err := tx.Create(&n).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return models.Answer{}, err
	}

	answer.Author = author
	return answer, nil
}
