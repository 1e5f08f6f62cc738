package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stackit-qa/backend/internal/apperror"
	"github.com/stackit-qa/backend/internal/models"
)

// SoftDeleteQuestion hides a question while keeping it and an audit trail,
// and releases its tags' usage counters.
func (s *Service) SoftDeleteQuestion(ctx context.Context, questionID int, actor models.User) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var question models.Question
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&question, questionID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("Question")
		}
		if err != nil {
			return err
		}

		if question.IsDeleted {
			return apperror.Conflict("Question is already deleted")
		}

		now := time.Now().UTC()
		err = tx.Model(&question).Updates(map[string]interface{}{
			"is_deleted":    true,
			"deleted_at":    now,
			"deleted_by_id": actor.ID,
		}).Error
		if err != nil {
			return err
		}

		var tags []models.Tag
		if err := tx.Model(&question).Association("Tags").Find(&tags); err != nil {
			return err
		}
		for _, tag := range tags {
			err := tx.Model(&models.Tag{}).Where("id = ?", tag.ID).
				UpdateColumn("question_count", gorm.Expr("GREATEST(question_count - 1, 0)")).Error
			if err != nil {
				return err
			}
		}

		return nil
	})
}

// SoftDeleteAnswer hides an answer, adjusts the question's answer count, and
// removes acceptance if this was the accepted answer.
func (s *Service) SoftDeleteAnswer(ctx context.Context, answerID int, actor models.User) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var answer models.Answer
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&answer, answerID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("Answer")
		}
		if err != nil {
			return err
		}

		if answer.IsDeleted {
			return apperror.Conflict("Answer is already deleted")
		}

		var question models.Question
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&question, answer.QuestionID).Error
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		err = tx.Model(&answer).Updates(map[string]interface{}{
			"is_deleted":    true,
			"deleted_at":    now,
			"deleted_by_id": actor.ID,
		}).Error
		if err != nil {
			return err
		}

		err = tx.Model(&models.Question{}).Where("id = ?", question.ID).
			UpdateColumn("answer_count", gorm.Expr("GREATEST(answer_count - 1, 0)")).Error
		if err != nil {
			return err
		}

		if question.AcceptedAnswerID != nil && *question.AcceptedAnswerID == answer.ID {
			err = tx.Model(&question).Updates(map[string]interface{}{
				"accepted_answer_id": nil,
				"accepted_at":        nil,
				"accepted_by_id":     nil,
			}).Error
			if err != nil {
				return err
			}
			if err := applyReputation(tx, answer.AuthorID, -repAccept, 0); err != nil {
				return err
			}
		}

		return nil
	})
}

// SetUserStatus blocks or unblocks an account. Admin accounts cannot be
// blocked, and admins cannot change their own status.
func (s *Service) SetUserStatus(ctx context.Context, actor models.User, userID int, status string) (models.User, error) {
	if status != models.StatusActive && status != models.StatusBlocked {
		return models.User{}, apperror.Validation("status", "Status must be active or blocked")
	}

	var user models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&user, userID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("User")
		}
		if err != nil {
			return err
		}

		if user.Role == models.RoleAdmin && status == models.StatusBlocked {
			return apperror.Forbidden("Cannot block admin users")
		}
		if user.ID == actor.ID {
			return apperror.Forbidden("Cannot change your own status")
		}

		user.Status = status
		return tx.Model(&user).Update("status", status).Error
	})
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}
