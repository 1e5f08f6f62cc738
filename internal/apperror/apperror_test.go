package apperror

import (
	"errors"
	"testing"
)

func TestErrorsIs(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		target    error
		wantMatch bool
	}{
		{
			name:      "NotFound wraps ErrNotFound",
			err:       NotFound("Question"),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "Validation wraps ErrValidation",
			err:       Validation("title", "Title is required"),
			target:    ErrValidation,
			wantMatch: true,
		},
		{
			name:      "Conflict wraps ErrConflict",
			err:       Conflict("Tag already exists"),
			target:    ErrConflict,
			wantMatch: true,
		},
		{
			name:      "Forbidden wraps ErrForbidden",
			err:       Forbidden("Only the question author can accept answers"),
			target:    ErrForbidden,
			wantMatch: true,
		},
		{
			name:      "Unauthenticated wraps ErrUnauthenticated",
			err:       Unauthenticated("Token is invalid or expired."),
			target:    ErrUnauthenticated,
			wantMatch: true,
		},
		{
			name:      "NotFound does not match ErrValidation",
			err:       NotFound("Answer"),
			target:    ErrValidation,
			wantMatch: false,
		},
		{
			name:      "Forbidden does not match ErrConflict",
			err:       Forbidden("You cannot vote on your own answer"),
			target:    ErrConflict,
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, tt.target); got != tt.wantMatch {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.wantMatch)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name        string
		err         *AppError
		wantMessage string
	}{
		{
			name:        "NotFound names the resource",
			err:         NotFound("Question"),
			wantMessage: "Question not found",
		},
		{
			name:        "Validation keeps the custom message",
			err:         Validation("tags", "At least one valid tag is required"),
			wantMessage: "At least one valid tag is required",
		},
		{
			name:        "Conflict keeps the message as-is",
			err:         Conflict("Question is already deleted"),
			wantMessage: "Question is already deleted",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMessage {
				t.Errorf("Error() = %q, want %q", got, tt.wantMessage)
			}
		})
	}
}

func TestValidationField(t *testing.T) {
	err := Validation("email", "Please provide a valid email address")
	if err.Field != "email" {
		t.Errorf("Field = %q, want %q", err.Field, "email")
	}

	var appErr *AppError
	if !errors.As(err, &appErr) {
		t.Fatal("errors.As failed to extract *AppError")
	}
}
