// Package service implements the forum's state transitions: question and
// answer creation, the vote ledger, answer acceptance, reputation deltas,
// notifications, tags, and moderation. Handlers translate HTTP requests into
// these operations and map the returned apperror values to status codes.
package service

import (
	"gorm.io/gorm"
)

type Service struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Reputation deltas applied to content authors alongside the triggering
// ledger change, always in the same transaction.
const (
	repUpvote   = 10
	repDownvote = -2
	repAccept   = 15
)
