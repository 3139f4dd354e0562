package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the domain layer.
var (
	ErrNotFound      = errors.New("domain: not found")
	ErrConflict      = errors.New("domain: conflict")
	ErrInvalidInput  = errors.New("domain: invalid input")
	ErrQuotaExceeded = errors.New("domain: plan quota exceeded")
	ErrRoomOccupied  = errors.New("domain: room already occupied")
)

// Rejection reports a command whose precondition was not met. The snapshot it
// was applied to is left unchanged. Err is one of the sentinels above so
// callers can branch with errors.Is.
type Rejection struct {
	Command string
	Reason  string
	Err     error
}

// Reject builds a Rejection for command wrapping the given sentinel.
func Reject(command string, err error, reason string) *Rejection {
	return &Rejection{Command: command, Reason: reason, Err: err}
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("%s rejected: %s", r.Command, r.Reason)
}

func (r *Rejection) Unwrap() error {
	return r.Err
}
