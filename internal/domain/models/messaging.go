// Copyright The Open Assembly Project contributors.
// SPDX-License-Identifier: MIT

package models

import "time"

// NATS subjects that the governance service sends messages about.
const (
	// IndexMeetingSubject is the subject for the meeting indexing.
	// The subject is of the form: assembly.index.meeting
	IndexMeetingSubject = "assembly.index.meeting"

	// IndexAgendaItemSubject is the subject for the agenda item indexing.
	// The subject is of the form: assembly.index.agenda_item
	IndexAgendaItemSubject = "assembly.index.agenda_item"

	// IndexVoteSubject is the subject for the vote indexing.
	// The subject is of the form: assembly.index.vote
	IndexVoteSubject = "assembly.index.vote"

	// IndexBallotSubject is the subject for the ballot indexing.
	// The subject is of the form: assembly.index.ballot
	IndexBallotSubject = "assembly.index.ballot"

	// IndexAttendanceRecordSubject is the subject for the attendance record indexing.
	// The subject is of the form: assembly.index.attendance_record
	IndexAttendanceRecordSubject = "assembly.index.attendance_record"

	// IndexMeetingProtocolSubject is the subject for the meeting protocol indexing.
	// The subject is of the form: assembly.index.meeting_protocol
	IndexMeetingProtocolSubject = "assembly.index.meeting_protocol"

	// UpdateAccessMeetingSubject is the subject for the meeting access control updates.
	// The subject is of the form: assembly.update_access.meeting
	UpdateAccessMeetingSubject = "assembly.update_access.meeting"

	// DeleteAllAccessMeetingSubject is the subject for the meeting access control deletion.
	// The subject is of the form: assembly.delete_all_access.meeting
	DeleteAllAccessMeetingSubject = "assembly.delete_all_access.meeting"

	// VoteClosedSubject is the subject for vote closed events.
	// The subject is of the form: assembly.governance-api.vote_closed
	VoteClosedSubject = "assembly.governance-api.vote_closed"

	// ProtocolFinalizedSubject is the subject for protocol finalized events.
	// The subject is of the form: assembly.governance-api.protocol_finalized
	ProtocolFinalizedSubject = "assembly.governance-api.protocol_finalized"
)

// NATS subjects that the governance service requests from collaborators.
const (
	// MembershipVotingStatusSubject is the request/reply subject for a
	// member's voting status, served by the membership service.
	MembershipVotingStatusSubject = "assembly.membership-api.voting_status"

	// MembershipEligibleCountSubject is the request/reply subject for the
	// count of active voting-eligible memberships of an organization.
	MembershipEligibleCountSubject = "assembly.membership-api.eligible_count"
)

// NATS wildcard subjects that the governance service handles messages about.
const (
	// GovernanceAPIQueue is the queue name for the governance API subscriptions.
	GovernanceAPIQueue = "assembly.governance-api.queue"
)

// NATS specific subjects that the governance service handles messages about.
const (
	// CastBallotSubject records a member's ballot on a vote.
	CastBallotSubject = "assembly.governance-api.cast_ballot"

	// CanCastVoteSubject answers the read-only ballot eligibility predicate.
	CanCastVoteSubject = "assembly.governance-api.can_cast_vote"

	// CloseVoteSubject closes a vote for further ballots.
	CloseVoteSubject = "assembly.governance-api.close_vote"

	// RegisterAttendanceSubject registers a member's attendance mode.
	RegisterAttendanceSubject = "assembly.governance-api.register_attendance"

	// GetVoteTallySubject returns the reconciled tally of a vote.
	GetVoteTallySubject = "assembly.governance-api.get_vote_tally"

	// GetQuorumSubject returns the current quorum computation of a meeting.
	GetQuorumSubject = "assembly.governance-api.get_quorum"

	// PreviewProtocolSubject returns a transient protocol snapshot of a meeting.
	PreviewProtocolSubject = "assembly.governance-api.preview_protocol"

	// FinalizeProtocolSubject finalizes the protocol of a meeting.
	FinalizeProtocolSubject = "assembly.governance-api.finalize_protocol"

	// AttachProtocolDocumentSubject attaches a rendered document reference
	// to a finalized protocol.
	AttachProtocolDocumentSubject = "assembly.governance-api.attach_protocol_document"

	// GetProtocolSubject returns a stored protocol by UID.
	GetProtocolSubject = "assembly.governance-api.get_protocol"

	// CreateMeetingSubject creates a governance meeting.
	CreateMeetingSubject = "assembly.governance-api.create_meeting"

	// GetMeetingSubject returns a stored meeting by UID.
	GetMeetingSubject = "assembly.governance-api.get_meeting"

	// AddAgendaItemSubject appends an agenda item to a meeting.
	AddAgendaItemSubject = "assembly.governance-api.add_agenda_item"

	// OpenVoteSubject opens a vote on an agenda item.
	OpenVoteSubject = "assembly.governance-api.open_vote"

	// MembershipUpdatedSubject is the membership change event published by
	// the membership service.
	MembershipUpdatedSubject = "assembly.membership-api.member_updated"
)

// MessageAction is a type for the action of a governance message.
type MessageAction string

// MessageAction constants for the action of a governance message.
const (
	// ActionCreated is the action for a resource creation message.
	ActionCreated MessageAction = "created"
	// ActionUpdated is the action for a resource update message.
	ActionUpdated MessageAction = "updated"
	// ActionDeleted is the action for a resource deletion message.
	ActionDeleted MessageAction = "deleted"
)

// GovernanceIndexerMessage is a NATS message schema for sending messages
// related to governance resource changes to the indexer service.
type GovernanceIndexerMessage struct {
	Action  MessageAction     `json:"action"`
	Headers map[string]string `json:"headers"`
	Data    any               `json:"data"`
	// Tags is a list of tags to be set on the indexed resource for search.
	Tags []string `json:"tags"`
}

// MeetingAccessMessage is the schema for the data in the message sent to the
// access-control sync service.
type MeetingAccessMessage struct {
	UID             string   `json:"uid"`
	OrganizationUID string   `json:"organization_uid"`
	Public          bool     `json:"public"`
	Organizers      []string `json:"organizers"`
}

// VoteClosedMessage is the event payload published when a vote is closed.
type VoteClosedMessage struct {
	VoteUID    string `json:"vote_uid"`
	MeetingUID string `json:"meeting_uid"`
	ClosedAt   string `json:"closed_at"`
	ClosedBy   string `json:"closed_by"`
}

// ProtocolFinalizedMessage is the event payload published when a meeting
// protocol is finalized.
type ProtocolFinalizedMessage struct {
	ProtocolUID    string `json:"protocol_uid"`
	MeetingUID     string `json:"meeting_uid"`
	ProtocolNumber uint64 `json:"protocol_number"`
	Reference      string `json:"reference"`
	FinalizedBy    string `json:"finalized_by"`
}

// CastBallotMessage is the request payload of the cast_ballot subject.
type CastBallotMessage struct {
	VoteUID   string `json:"vote_uid"`
	MemberUID string `json:"member_uid"`
	Choice    string `json:"choice"`
	Channel   string `json:"channel"`
}

// CanCastVoteMessage is the request payload of the can_cast_vote subject.
type CanCastVoteMessage struct {
	VoteUID   string `json:"vote_uid"`
	MemberUID string `json:"member_uid"`
	Channel   string `json:"channel"`
}

// CloseVoteMessage is the request payload of the close_vote subject.
type CloseVoteMessage struct {
	VoteUID   string `json:"vote_uid"`
	Principal string `json:"principal"`
}

// RegisterAttendanceMessage is the request payload of the
// register_attendance subject.
type RegisterAttendanceMessage struct {
	MeetingUID string `json:"meeting_uid"`
	MemberUID  string `json:"member_uid"`
	Mode       string `json:"mode"`
}

// FinalizeProtocolMessage is the request payload of the finalize_protocol
// subject.
type FinalizeProtocolMessage struct {
	MeetingUID string `json:"meeting_uid"`
	Principal  string `json:"principal"`
}

// AttachProtocolDocumentMessage is the request payload of the
// attach_protocol_document subject.
type AttachProtocolDocumentMessage struct {
	ProtocolUID string `json:"protocol_uid"`
	DocumentRef string `json:"document_ref"`
	Principal   string `json:"principal"`
}

// CreateMeetingMessage is the request payload of the create_meeting subject.
type CreateMeetingMessage struct {
	OrganizationUID string    `json:"organization_uid"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	ScheduledAt     time.Time `json:"scheduled_at"`
	Location        string    `json:"location,omitempty"`
	Principal       string    `json:"principal"`
}

// AddAgendaItemMessage is the request payload of the add_agenda_item subject.
type AddAgendaItemMessage struct {
	MeetingUID string  `json:"meeting_uid"`
	Title      string  `json:"title"`
	Body       string  `json:"body,omitempty"`
	Resolution *string `json:"resolution,omitempty"`
	Principal  string  `json:"principal"`
}

// OpenVoteMessage is the request payload of the open_vote subject.
type OpenVoteMessage struct {
	AgendaItemUID string `json:"agenda_item_uid"`
	Principal     string `json:"principal"`
}

// FinalizeProtocolResponse is the reply payload of the finalize_protocol
// subject. Code carries "already_finalized" when the protocol returned is
// an earlier finalization rather than the one this request produced.
type FinalizeProtocolResponse struct {
	Protocol *MeetingProtocol `json:"protocol"`
	Code     string           `json:"code,omitempty"`
}

// ErrorResponse is the reply payload for failed governance operations so
// that callers can branch on the outcome code.
type ErrorResponse struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}
