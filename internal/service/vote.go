package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stackit-qa/backend/internal/apperror"
	"github.com/stackit-qa/backend/internal/models"
)

type VoteTarget string

const (
	TargetQuestion VoteTarget = "question"
	TargetAnswer   VoteTarget = "answer"
)

// VoteResult reports the aggregate after the ledger change and the voter's
// resulting direction ("" when the vote was toggled off).
type VoteResult struct {
	VoteCount int
	UserVote  string
}

// Vote applies one voter's up/down vote to a question or answer.
//
// The target row is locked for the duration of the transaction, so concurrent
// votes on the same entity serialize instead of overwriting each other. With
// no existing entry the vote is inserted; an entry with the same direction is
// removed (toggle-off); an opposite entry switches direction in place. The
// aggregate vote count is recomputed from the ledger and persisted together
// with the ledger change, and the author's reputation moves by the matching
// signed delta in the same transaction.
func (s *Service) Vote(ctx context.Context, target VoteTarget, targetID int, voter models.User, voteType string) (VoteResult, error) {
	if voteType != models.VoteUp && voteType != models.VoteDown {
		return VoteResult{}, apperror.Validation("type", `Vote type must be "up" or "down"`)
	}

	var res VoteResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		authorID, err := lockVoteTarget(tx, target, targetID)
		if err != nil {
			return err
		}

		if authorID == voter.ID {
			return apperror.Forbidden(fmt.Sprintf("You cannot vote on your own %s", target))
		}

		var existing models.Vote
		err = voteScope(tx, target, targetID).Where("user_id = ?", voter.ID).First(&existing).Error

		var repDelta, upvotesDelta int
		fresh := false

		switch {
		case err == nil && existing.Type == voteType:
			// Toggle off.
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
			if voteType == models.VoteUp {
				repDelta, upvotesDelta = -repUpvote, -1
			} else {
				repDelta = -repDownvote
			}
			res.UserVote = ""

		case err == nil:
			// Switch direction.
			existing.Type = voteType
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
			if voteType == models.VoteUp {
				repDelta, upvotesDelta = repUpvote-repDownvote, 1
			} else {
				repDelta, upvotesDelta = repDownvote-repUpvote, -1
			}
			res.UserVote = voteType

		case errors.Is(err, gorm.ErrRecordNotFound):
			vote := models.Vote{UserID: voter.ID, Type: voteType}
			if target == TargetQuestion {
				vote.QuestionID = &targetID
			} else {
				vote.AnswerID = &targetID
			}
			if err := tx.Create(&vote).Error; err != nil {
				return err
			}
			if voteType == models.VoteUp {
				repDelta, upvotesDelta = repUpvote, 1
			} else {
				repDelta = repDownvote
			}
			fresh = true
			res.UserVote = voteType

		default:
			return err
		}

		count, err := recountVotes(tx, target, targetID)
		if err != nil {
			return err
		}
		res.VoteCount = count

		if err := applyReputation(tx, authorID, repDelta, upvotesDelta); err != nil {
			return err
		}

		// Fresh upvotes notify the author. The self-vote rule already rules
		// out author == voter, but keep the guard anyway.
		if fresh && voteType == models.VoteUp && authorID != voter.ID {
			n := models.Notification{
				RecipientID: authorID,
				SenderID:    &voter.ID,
				Type:        models.NotificationVote,
				Message:     fmt.Sprintf("%s upvoted your %s", voter.Username, target),
			}
			if target == TargetQuestion {
				n.QuestionID = &targetID
			} else {
				n.AnswerID = &targetID
			}
			if err := tx.Create(&n).Error; err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		return VoteResult{}, err
	}
	return res, nil
}

// lockVoteTarget locks the live target row and returns its author.
func lockVoteTarget(tx *gorm.DB, target VoteTarget, targetID int) (int, error) {
	switch target {
	case TargetQuestion:
		var question models.Question
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND is_deleted = ?", targetID, false).
			First(&question).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, apperror.NotFound("Question")
		}
		return question.AuthorID, err
	case TargetAnswer:
		var answer models.Answer
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND is_deleted = ?", targetID, false).
			First(&answer).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, apperror.NotFound("Answer")
		}
		return answer.AuthorID, err
	default:
		return 0, apperror.Validation("target", "unknown vote target")
	}
}

func voteScope(tx *gorm.DB, target VoteTarget, targetID int) *gorm.DB {
	if target == TargetQuestion {
		return tx.Model(&models.Vote{}).Where("question_id = ?", targetID)
	}
	return tx.Model(&models.Vote{}).Where("answer_id = ?", targetID)
}

// recountVotes recomputes the aggregate from the ledger and persists it on
// the target, all inside the caller's transaction.
func recountVotes(tx *gorm.DB, target VoteTarget, targetID int) (int, error) {
	var up, down int64
	if err := voteScope(tx, target, targetID).Where("type = ?", models.VoteUp).Count(&up).Error; err != nil {
		return 0, err
	}
	if err := voteScope(tx, target, targetID).Where("type = ?", models.VoteDown).Count(&down).Error; err != nil {
		return 0, err
	}

	count := int(up - down)

	var model interface{} = &models.Answer{}
	if target == TargetQuestion {
		model = &models.Question{}
	}
	err := tx.Model(model).Where("id = ?", targetID).
		UpdateColumn("vote_count", count).Error
	return count, err
}

func applyReputation(tx *gorm.DB, userID, repDelta, upvotesDelta int) error {
	if repDelta == 0 && upvotesDelta == 0 {
		return nil
	}

	updates := map[string]interface{}{}
	if repDelta != 0 {
		updates["reputation"] = gorm.Expr("reputation + ?", repDelta)
	}
	if upvotesDelta != 0 {
		updates["upvotes_received"] = gorm.Expr("upvotes_received + ?", upvotesDelta)
	}
	return tx.Model(&models.User{}).Where("id = ?", userID).UpdateColumns(updates).Error
}
