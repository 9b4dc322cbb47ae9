// Copyright The Open Assembly Project contributors.
// SPDX-License-Identifier: MIT

package domain

import "errors"

// ErrorType represents the semantic category of an error
type ErrorType int

const (
	ErrorTypeValidation  ErrorType = iota // Input validation errors (400 Bad Request)
	ErrorTypeForbidden                    // Authorization/eligibility errors (403 Forbidden)
	ErrorTypeNotFound                     // Resource not found errors (404 Not Found)
	ErrorTypeConflict                     // Resource conflict errors (409 Conflict)
	ErrorTypeInternal                     // Internal server errors (500 Internal Server Error)
	ErrorTypeUnavailable                  // Service unavailable errors (503 Service Unavailable)
)

// ErrorCode is a stable machine-readable code for governance outcomes that
// callers branch on. These are expected outcomes of the decision rules, not
// system faults.
type ErrorCode string

const (
	// CodeNotEligible means the member has no active voting-eligible membership.
	CodeNotEligible ErrorCode = "not_eligible"
	// CodeAlreadyVoted means a ballot already exists for this (vote, member) pair.
	CodeAlreadyVoted ErrorCode = "already_voted"
	// CodeVoteClosed means the vote no longer accepts ballots.
	CodeVoteClosed ErrorCode = "vote_closed"
	// CodeChannelMismatch means the ballot channel contradicts the member's
	// registered attendance mode.
	CodeChannelMismatch ErrorCode = "channel_mismatch"
	// CodeAlreadyFinalized means a FINAL protocol already exists for the meeting.
	CodeAlreadyFinalized ErrorCode = "already_finalized"
	// CodeQuorumUnavailable means the eligible-membership count source is unreachable.
	CodeQuorumUnavailable ErrorCode = "quorum_unavailable"
)

// DomainError represents an error with semantic type information
type DomainError struct {
	Type    ErrorType
	Code    ErrorCode // optional outcome code for caller branching
	Message string
	Err     error // underlying error for wrapping
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// GetErrorType returns the semantic type of an error
func GetErrorType(err error) ErrorType {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type
	}
	return ErrorTypeInternal // default fallback
}

// GetErrorCode returns the outcome code of an error, or empty when the error
// carries none (unexpected operational errors carry no code).
func GetErrorCode(err error) ErrorCode {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ""
}

// Error constructors for different types
func NewValidationError(message string, err ...error) *DomainError {
	return &DomainError{Type: ErrorTypeValidation, Message: message, Err: errors.Join(err...)}
}

func NewForbiddenError(message string, err ...error) *DomainError {
	return &DomainError{Type: ErrorTypeForbidden, Message: message, Err: errors.Join(err...)}
}

func NewNotFoundError(message string, err ...error) *DomainError {
	return &DomainError{Type: ErrorTypeNotFound, Message: message, Err: errors.Join(err...)}
}

func NewConflictError(message string, err ...error) *DomainError {
	return &DomainError{Type: ErrorTypeConflict, Message: message, Err: errors.Join(err...)}
}

func NewInternalError(message string, err ...error) *DomainError {
	return &DomainError{Type: ErrorTypeInternal, Message: message, Err: errors.Join(err...)}
}

func NewUnavailableError(message string, err ...error) *DomainError {
	return &DomainError{Type: ErrorTypeUnavailable, Message: message, Err: errors.Join(err...)}
}

// Outcome constructors for the governance decision rules.

func NewNotEligibleError(message string, err ...error) *DomainError {
	return &DomainError{Type: ErrorTypeForbidden, Code: CodeNotEligible, Message: message, Err: errors.Join(err...)}
}

func NewAlreadyVotedError(message string, err ...error) *DomainError {
	return &DomainError{Type: ErrorTypeConflict, Code: CodeAlreadyVoted, Message: message, Err: errors.Join(err...)}
}

func NewVoteClosedError(message string, err ...error) *DomainError {
	return &DomainError{Type: ErrorTypeConflict, Code: CodeVoteClosed, Message: message, Err: errors.Join(err...)}
}

func NewChannelMismatchError(message string, err ...error) *DomainError {
	return &DomainError{Type: ErrorTypeValidation, Code: CodeChannelMismatch, Message: message, Err: errors.Join(err...)}
}

func NewAlreadyFinalizedError(message string, err ...error) *DomainError {
	return &DomainError{Type: ErrorTypeConflict, Code: CodeAlreadyFinalized, Message: message, Err: errors.Join(err...)}
}

func NewQuorumUnavailableError(message string, err ...error) *DomainError {
	return &DomainError{Type: ErrorTypeUnavailable, Code: CodeQuorumUnavailable, Message: message, Err: errors.Join(err...)}
}
