package calculator

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidAmount        = errors.New("amount must be a positive number")
	ErrMissingField         = errors.New("required field missing")
	ErrNoParticipants       = errors.New("must have at least one participant")
	ErrSplitMismatch        = errors.New("split amounts do not add up to the expense amount")
	ErrUnknownParticipant   = errors.New("unknown participant")
	ErrDuplicateParticipant = errors.New("participant listed more than once")
	ErrInvalidCategory      = errors.New("invalid category")
	ErrInvalidDate          = errors.New("date must be in YYYY-MM-DD format")
	ErrInvalidSplitType     = errors.New("invalid split type")
)

// SplitMismatchError carries the proposed sum and the expense amount so the
// caller can show the discrepancy.
type SplitMismatchError struct {
	Sum    float64
	Amount float64
}

func (e *SplitMismatchError) Error() string {
	return fmt.Sprintf("%s: splits total %.2f, expense amount %.2f", ErrSplitMismatch, e.Sum, e.Amount)
}

func (e *SplitMismatchError) Is(target error) bool {
	return target == ErrSplitMismatch
}

// UnknownParticipantError names the participant ID that is not on the roster.
type UnknownParticipantError struct {
	ParticipantID string
}

func (e *UnknownParticipantError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnknownParticipant, e.ParticipantID)
}

func (e *UnknownParticipantError) Is(target error) bool {
	return target == ErrUnknownParticipant
}

func missingField(name string) error {
	return fmt.Errorf("%w: %s", ErrMissingField, name)
}
