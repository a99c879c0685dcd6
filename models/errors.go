package models

import "fmt"

// ErrorKind groups error codes by how the HTTP shell should answer them.
type ErrorKind string

const (
	KindValidation   ErrorKind = "validation"
	KindNotFound     ErrorKind = "not_found"
	KindConflict     ErrorKind = "conflict"
	KindTransient    ErrorKind = "transient"
	KindUnauthorized ErrorKind = "unauthorized"
)

// Error is a named, caller-facing error. Two errors match under errors.Is when
// their codes are equal, so a detailed copy made with WithMessage still matches
// the sentinel it came from.
type Error struct {
	Kind    ErrorKind `json:"-"`
	Code    string    `json:"code"`
	Message string    `json:"error"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithMessage returns a copy of e carrying a more specific message.
func (e *Error) WithMessage(format string, args ...interface{}) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Message: fmt.Sprintf(format, args...)}
}

func newError(kind ErrorKind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Validation errors
var (
	ErrInvalidName     = newError(KindValidation, "invalid_name", "team name must be between 1 and 50 characters")
	ErrInvalidMembers  = newError(KindValidation, "invalid_members", "member count must be between 1 and 10")
	ErrInvalidContact  = newError(KindValidation, "invalid_contact", "contact info must be at most 100 characters")
	ErrInvalidScore    = newError(KindValidation, "invalid_score", "scores must be non-negative integers")
	ErrInvalidTarget   = newError(KindValidation, "invalid_target_score", "target score must be at least 1")
	ErrInvalidType     = newError(KindValidation, "invalid_match_type", "match type must be regular or champion_return")
	ErrInvalidMode     = newError(KindValidation, "invalid_mode", "court mode must be regular or champion")
	ErrInvalidID       = newError(KindValidation, "invalid_id", "malformed id")
	ErrInvalidPosition = newError(KindValidation, "invalid_position", "positions must be positive and team ids unique")
	ErrSameTeam        = newError(KindValidation, "same_team", "a match needs two different teams")
	ErrInvalidInput    = newError(KindValidation, "invalid_input", "invalid request body")
)

// State-conflict and lookup errors
var (
	ErrNameExists         = newError(KindConflict, "name_exists", "a team with this name already exists")
	ErrQueueFull          = newError(KindConflict, "queue_full", "the queue is full")
	ErrCourtClosed        = newError(KindConflict, "court_closed", "the court is closed")
	ErrTeamNotFound       = newError(KindNotFound, "team_not_found", "team not found")
	ErrTeamNotInQueue     = newError(KindConflict, "team_not_in_queue", "team is not waiting in the queue")
	ErrMatchNotFound      = newError(KindNotFound, "match_not_found", "match not found")
	ErrMatchNotActive     = newError(KindConflict, "match_not_active", "match is not active")
	ErrMatchNotConfirming = newError(KindConflict, "match_not_confirming", "match is not awaiting confirmation")
	ErrTeamNotInMatch     = newError(KindConflict, "team_not_in_match", "team is not part of this match")
	ErrPositionConflict   = newError(KindConflict, "position_conflict", "requested positions collide with other waiting teams")
)

// Infrastructure and auth errors
var (
	ErrJoinFailed   = newError(KindTransient, "join_failed", "could not assign a queue position, try again")
	ErrUnauthorized = newError(KindUnauthorized, "unauthorized", "admin privileges required")
)
