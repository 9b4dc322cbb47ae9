// Copyright The Open Assembly Project contributors.
// SPDX-License-Identifier: MIT

package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestDomainErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      *DomainError
		expected string
	}{
		{
			name:     "message only",
			err:      NewValidationError("choice is required"),
			expected: "choice is required",
		},
		{
			name:     "wrapped error",
			err:      NewInternalError("failed to store ballot", errors.New("connection reset")),
			expected: "failed to store ballot: connection reset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.expected {
				t.Errorf("expected error message %q, got %q", tt.expected, tt.err.Error())
			}
		})
	}
}

func TestGetErrorType(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorType
	}{
		{name: "validation", err: NewValidationError("bad input"), expected: ErrorTypeValidation},
		{name: "forbidden", err: NewForbiddenError("nope"), expected: ErrorTypeForbidden},
		{name: "not found", err: NewNotFoundError("missing"), expected: ErrorTypeNotFound},
		{name: "conflict", err: NewConflictError("exists"), expected: ErrorTypeConflict},
		{name: "internal", err: NewInternalError("broken"), expected: ErrorTypeInternal},
		{name: "unavailable", err: NewUnavailableError("down"), expected: ErrorTypeUnavailable},
		{name: "plain error falls back to internal", err: errors.New("plain"), expected: ErrorTypeInternal},
		{name: "wrapped domain error", err: fmt.Errorf("outer: %w", NewConflictError("inner")), expected: ErrorTypeConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetErrorType(tt.err); got != tt.expected {
				t.Errorf("expected error type %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestGetErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorCode
	}{
		{name: "not eligible", err: NewNotEligibleError("membership inactive"), expected: CodeNotEligible},
		{name: "already voted", err: NewAlreadyVotedError("ballot exists"), expected: CodeAlreadyVoted},
		{name: "vote closed", err: NewVoteClosedError("vote is closed"), expected: CodeVoteClosed},
		{name: "channel mismatch", err: NewChannelMismatchError("wrong channel"), expected: CodeChannelMismatch},
		{name: "already finalized", err: NewAlreadyFinalizedError("final protocol exists"), expected: CodeAlreadyFinalized},
		{name: "quorum unavailable", err: NewQuorumUnavailableError("membership service down"), expected: CodeQuorumUnavailable},
		{name: "plain domain error has no code", err: NewConflictError("exists"), expected: ""},
		{name: "plain error has no code", err: errors.New("plain"), expected: ""},
		{name: "wrapped outcome keeps its code", err: fmt.Errorf("outer: %w", NewAlreadyVotedError("inner")), expected: CodeAlreadyVoted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetErrorCode(tt.err); got != tt.expected {
				t.Errorf("expected error code %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestOutcomeErrorTypes(t *testing.T) {
	if GetErrorType(NewAlreadyVotedError("x")) != ErrorTypeConflict {
		t.Error("already_voted should be a conflict")
	}
	if GetErrorType(NewNotEligibleError("x")) != ErrorTypeForbidden {
		t.Error("not_eligible should be forbidden")
	}
	if GetErrorType(NewChannelMismatchError("x")) != ErrorTypeValidation {
		t.Error("channel_mismatch should be a validation error")
	}
	if GetErrorType(NewQuorumUnavailableError("x")) != ErrorTypeUnavailable {
		t.Error("quorum_unavailable should be unavailable")
	}
}

func TestDomainErrorUnwrap(t *testing.T) {
	inner := errors.New("inner")
	err := NewInternalError("outer", inner)
	if !errors.Is(err, inner) {
		t.Error("expected wrapped error to be reachable via errors.Is")
	}
}
