package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stackit-qa/backend/internal/apperror"
	"github.com/stackit-qa/backend/internal/models"
)

type AcceptResult struct {
	IsAccepted bool
}

// AcceptAnswer toggles acceptance of an answer. Only the question's author
// may call it. Accepting moves acceptance off any previously accepted answer;
// accepting the currently accepted answer removes acceptance entirely.
//
// The question row is locked for the whole transaction, so two concurrent
// accept calls on the same question cannot leave it pointing at two answers.
func (s *Service) AcceptAnswer(ctx context.Context, answerID int, caller models.User) (AcceptResult, error) {
	var res AcceptResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var answer models.Answer
		err := tx.Where("id = ? AND is_deleted = ?", answerID, false).First(&answer).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("Answer")
		}
		if err != nil {
			return err
		}

		var question models.Question
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND is_deleted = ?", answer.QuestionID, false).
			First(&question).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("Associated question")
		}
		if err != nil {
			return err
		}

		if question.AuthorID != caller.ID {
			return apperror.Forbidden("Only the question author can accept answers")
		}

		if question.AcceptedAnswerID != nil && *question.AcceptedAnswerID == answer.ID {
			// Toggle off: the documented way to remove acceptance.
			err := tx.Model(&question).Updates(map[string]interface{}{
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
			res.IsAccepted = false
			return nil
		}

		// Moving acceptance off another answer reverses its author's bonus.
		if question.AcceptedAnswerID != nil {
			var previous models.Answer
			if err := tx.First(&previous, *question.AcceptedAnswerID).Error; err != nil {
				return err
			}
			if err := applyReputation(tx, previous.AuthorID, -repAccept, 0); err != nil {
				return err
			}
		}

		now := time.Now().UTC()
		err = tx.Model(&question).Updates(map[string]interface{}{
			"accepted_answer_id": answer.ID,
			"accepted_at":        now,
			"accepted_by_id":     caller.ID,
		}).Error
		if err != nil {
			return err
		}

		if err := applyReputation(tx, answer.AuthorID, repAccept, 0); err != nil {
			return err
		}

		if answer.AuthorID != caller.ID {
			n := models.Notification{
				RecipientID: answer.AuthorID,
				SenderID:    &caller.ID,
				Type:        models.NotificationAccept,
				Message:     fmt.Sprintf("%s accepted your answer", caller.Username),
				QuestionID:  &question.ID,
				AnswerID:    &answer.ID,
			}
			if err := tx.Create(&n).Error; err != nil {
				return err
			}
		}

		res.IsAccepted = true
		return nil
	})

	if err != nil {
		return AcceptResult{}, err
	}
	return res, nil
}
