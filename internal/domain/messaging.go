// Copyright The Open Assembly Project contributors.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/openassembly/governance-service/internal/domain/models"
)

// Message represents a domain message interface
type Message interface {
	Subject() string
	Data() []byte
	Respond(data []byte) error
	HasReply() bool
}

// MessageHandler defines how the service handles incoming messages
type MessageHandler interface {
	HandleMessage(ctx context.Context, msg Message)
	HandlerReady() bool
}

// MeetingIndexSender handles indexing operations for meetings.
type MeetingIndexSender interface {
	SendIndexMeeting(ctx context.Context, action models.MessageAction, data models.Meeting) error
	SendDeleteIndexMeeting(ctx context.Context, data string) error
}

// AgendaItemIndexSender handles indexing operations for agenda items.
type AgendaItemIndexSender interface {
	SendIndexAgendaItem(ctx context.Context, action models.MessageAction, data models.AgendaItem) error
	SendDeleteIndexAgendaItem(ctx context.Context, data string) error
}

// VoteIndexSender handles indexing operations for votes.
type VoteIndexSender interface {
	SendIndexVote(ctx context.Context, action models.MessageAction, data models.Vote) error
}

// BallotIndexSender handles indexing operations for ballots.
type BallotIndexSender interface {
	SendIndexBallot(ctx context.Context, action models.MessageAction, data models.Ballot) error
}

// AttendanceIndexSender handles indexing operations for attendance records.
type AttendanceIndexSender interface {
	SendIndexAttendanceRecord(ctx context.Context, action models.MessageAction, data models.AttendanceRecord) error
}

// ProtocolIndexSender handles indexing operations for meeting protocols.
type ProtocolIndexSender interface {
	SendIndexMeetingProtocol(ctx context.Context, action models.MessageAction, data models.MeetingProtocol) error
}

// MeetingAccessSender handles access control operations for meetings.
type MeetingAccessSender interface {
	SendUpdateAccessMeeting(ctx context.Context, data models.MeetingAccessMessage) error
	SendDeleteAllAccessMeeting(ctx context.Context, data string) error
}

// GovernanceEventSender handles governance lifecycle events.
type GovernanceEventSender interface {
	SendVoteClosed(ctx context.Context, data models.VoteClosedMessage) error
	SendProtocolFinalized(ctx context.Context, data models.ProtocolFinalizedMessage) error
}

// VotingEligibility is the single narrow capability through which the
// governance service asks the Membership Authority whether a member may
// vote. Every eligibility decision goes through this interface so that the
// rule lives in exactly one place.
type VotingEligibility interface {
	// IsActiveVotingMember returns the member's current membership status
	// within the organization.
	IsActiveVotingMember(ctx context.Context, organizationUID, memberUID string) (*models.MembershipStatus, error)

	// CountEligibleMembers returns the number of active, voting-eligible
	// memberships of the organization at the time of the call.
	CountEligibleMembers(ctx context.Context, organizationUID string) (int, error)
}

// GovernanceMessageSender composes the messaging operations the governance
// services need.
type GovernanceMessageSender interface {
	MeetingIndexSender
	AgendaItemIndexSender
	VoteIndexSender
	BallotIndexSender
	AttendanceIndexSender
	ProtocolIndexSender
	MeetingAccessSender
	GovernanceEventSender
}

// MessageBuilder is the main interface that composes all messaging
// capabilities, including the external membership lookups.
type MessageBuilder interface {
	GovernanceMessageSender
	VotingEligibility
}
