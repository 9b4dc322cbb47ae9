// Copyright The Open Assembly Project contributors.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/openassembly/governance-service/internal/domain/models"
)

// MeetingRepository defines the interface for meeting storage operations.
// This interface can be implemented by different storage backends (NATS, PostgreSQL, etc.)
type MeetingRepository interface {
	Create(ctx context.Context, meeting *models.Meeting) error
	Exists(ctx context.Context, meetingUID string) (bool, error)
	Get(ctx context.Context, meetingUID string) (*models.Meeting, error)
	GetWithRevision(ctx context.Context, meetingUID string) (*models.Meeting, uint64, error)
	Update(ctx context.Context, meeting *models.Meeting, revision uint64) error
	ListAll(ctx context.Context) ([]*models.Meeting, error)
}

// AgendaItemRepository defines the interface for agenda item storage operations.
type AgendaItemRepository interface {
	Create(ctx context.Context, item *models.AgendaItem) error
	Get(ctx context.Context, itemUID string) (*models.AgendaItem, error)
	GetWithRevision(ctx context.Context, itemUID string) (*models.AgendaItem, uint64, error)
	Update(ctx context.Context, item *models.AgendaItem, revision uint64) error
	// ListByMeeting returns the meeting's agenda items sorted by sequence.
	ListByMeeting(ctx context.Context, meetingUID string) ([]*models.AgendaItem, error)
}

// VoteRepository defines the interface for vote storage operations.
type VoteRepository interface {
	Create(ctx context.Context, vote *models.Vote) error
	Get(ctx context.Context, voteUID string) (*models.Vote, error)
	GetWithRevision(ctx context.Context, voteUID string) (*models.Vote, uint64, error)
	Update(ctx context.Context, vote *models.Vote, revision uint64) error
}

// BallotRepository defines the interface for ballot storage operations.
// Ballots are append-only: there is no update or delete.
type BallotRepository interface {
	// Create records a ballot if and only if no ballot exists for the
	// (vote, member) pair; a concurrent or repeated cast yields a conflict
	// from the storage layer's uniqueness guarantee, never a duplicate.
	Create(ctx context.Context, ballot *models.Ballot) error
	Get(ctx context.Context, voteUID, memberUID string) (*models.Ballot, error)
	Exists(ctx context.Context, voteUID, memberUID string) (bool, error)
	ListByVote(ctx context.Context, voteUID string) ([]*models.Ballot, error)
	// CountByMeetingAndMember counts a member's ballots across all votes of
	// a meeting; used to reject contradictory attendance re-registration.
	CountByMeetingAndMember(ctx context.Context, meetingUID, memberUID string) (int, error)
}

// AttendanceRepository defines the interface for attendance record storage
// operations.
type AttendanceRepository interface {
	Create(ctx context.Context, record *models.AttendanceRecord) error
	Get(ctx context.Context, meetingUID, memberUID string) (*models.AttendanceRecord, error)
	GetWithRevision(ctx context.Context, meetingUID, memberUID string) (*models.AttendanceRecord, uint64, error)
	Update(ctx context.Context, record *models.AttendanceRecord, revision uint64) error
	ListByMeeting(ctx context.Context, meetingUID string) ([]*models.AttendanceRecord, error)
}

// ProtocolRepository defines the interface for meeting protocol storage
// operations. Protocols are append-only legal artifacts: a FINAL row is
// never the target of an update other than the one-time document
// attachment.
type ProtocolRepository interface {
	Create(ctx context.Context, protocol *models.MeetingProtocol) error
	Get(ctx context.Context, protocolUID string) (*models.MeetingProtocol, error)
	GetWithRevision(ctx context.Context, protocolUID string) (*models.MeetingProtocol, uint64, error)
	// GetFinalByMeeting returns the meeting's FINAL protocol, or a not-found
	// error when the meeting has none.
	GetFinalByMeeting(ctx context.Context, meetingUID string) (*models.MeetingProtocol, error)
	// MarkFinal atomically claims the FINAL slot of a meeting for the given
	// protocol. Exactly one caller wins; the rest get a conflict.
	MarkFinal(ctx context.Context, meetingUID, protocolUID string) error
	// NextProtocolNumber returns the organization's next protocol number.
	// Numbers are strictly increasing and never reused.
	NextProtocolNumber(ctx context.Context, organizationUID string) (uint64, error)
	// AttachDocument records the rendered document reference on a FINAL
	// protocol, exactly once.
	AttachDocument(ctx context.Context, protocolUID, documentRef string) error
	ListByMeeting(ctx context.Context, meetingUID string) ([]*models.MeetingProtocol, error)
}

// SettingsRepository defines the interface for organization governance
// settings storage operations.
type SettingsRepository interface {
	Get(ctx context.Context, organizationUID string) (*models.OrganizationSettings, error)
	Put(ctx context.Context, settings *models.OrganizationSettings) error
}
