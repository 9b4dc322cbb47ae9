// Copyright The Open Assembly Project contributors.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/openassembly/governance-service/internal/domain/models"
)

// MockMeetingRepository implements MeetingRepository for testing
type MockMeetingRepository struct {
	mock.Mock
}

func (m *MockMeetingRepository) Create(ctx context.Context, meeting *models.Meeting) error {
	args := m.Called(ctx, meeting)
	return args.Error(0)
}

func (m *MockMeetingRepository) Exists(ctx context.Context, meetingUID string) (bool, error) {
	args := m.Called(ctx, meetingUID)
	return args.Bool(0), args.Error(1)
}

func (m *MockMeetingRepository) Get(ctx context.Context, meetingUID string) (*models.Meeting, error) {
	args := m.Called(ctx, meetingUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Meeting), args.Error(1)
}

func (m *MockMeetingRepository) GetWithRevision(ctx context.Context, meetingUID string) (*models.Meeting, uint64, error) {
	args := m.Called(ctx, meetingUID)
	if args.Get(0) == nil {
		return nil, args.Get(1).(uint64), args.Error(2)
	}
	return args.Get(0).(*models.Meeting), args.Get(1).(uint64), args.Error(2)
}

func (m *MockMeetingRepository) Update(ctx context.Context, meeting *models.Meeting, revision uint64) error {
	args := m.Called(ctx, meeting, revision)
	return args.Error(0)
}

func (m *MockMeetingRepository) ListAll(ctx context.Context) ([]*models.Meeting, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Meeting), args.Error(1)
}

// MockAgendaItemRepository implements AgendaItemRepository for testing
type MockAgendaItemRepository struct {
	mock.Mock
}

func (m *MockAgendaItemRepository) Create(ctx context.Context, item *models.AgendaItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockAgendaItemRepository) Get(ctx context.Context, itemUID string) (*models.AgendaItem, error) {
	args := m.Called(ctx, itemUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AgendaItem), args.Error(1)
}

func (m *MockAgendaItemRepository) GetWithRevision(ctx context.Context, itemUID string) (*models.AgendaItem, uint64, error) {
	args := m.Called(ctx, itemUID)
	if args.Get(0) == nil {
		return nil, args.Get(1).(uint64), args.Error(2)
	}
	return args.Get(0).(*models.AgendaItem), args.Get(1).(uint64), args.Error(2)
}

func (m *MockAgendaItemRepository) Update(ctx context.Context, item *models.AgendaItem, revision uint64) error {
	args := m.Called(ctx, item, revision)
	return args.Error(0)
}

func (m *MockAgendaItemRepository) ListByMeeting(ctx context.Context, meetingUID string) ([]*models.AgendaItem, error) {
	args := m.Called(ctx, meetingUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AgendaItem), args.Error(1)
}

// MockVoteRepository implements VoteRepository for testing
type MockVoteRepository struct {
	mock.Mock
}

func (m *MockVoteRepository) Create(ctx context.Context, vote *models.Vote) error {
	args := m.Called(ctx, vote)
	return args.Error(0)
}

func (m *MockVoteRepository) Get(ctx context.Context, voteUID string) (*models.Vote, error) {
	args := m.Called(ctx, voteUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vote), args.Error(1)
}

func (m *MockVoteRepository) GetWithRevision(ctx context.Context, voteUID string) (*models.Vote, uint64, error) {
	args := m.Called(ctx, voteUID)
	if args.Get(0) == nil {
		return nil, args.Get(1).(uint64), args.Error(2)
	}
	return args.Get(0).(*models.Vote), args.Get(1).(uint64), args.Error(2)
}

func (m *MockVoteRepository) Update(ctx context.Context, vote *models.Vote, revision uint64) error {
	args := m.Called(ctx, vote, revision)
	return args.Error(0)
}

// MockBallotRepository implements BallotRepository for testing
type MockBallotRepository struct {
	mock.Mock
}

func (m *MockBallotRepository) Create(ctx context.Context, ballot *models.Ballot) error {
	args := m.Called(ctx, ballot)
	return args.Error(0)
}

func (m *MockBallotRepository) Get(ctx context.Context, voteUID, memberUID string) (*models.Ballot, error) {
	args := m.Called(ctx, voteUID, memberUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ballot), args.Error(1)
}

func (m *MockBallotRepository) Exists(ctx context.Context, voteUID, memberUID string) (bool, error) {
	args := m.Called(ctx, voteUID, memberUID)
	return args.Bool(0), args.Error(1)
}

func (m *MockBallotRepository) ListByVote(ctx context.Context, voteUID string) ([]*models.Ballot, error) {
	args := m.Called(ctx, voteUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Ballot), args.Error(1)
}

func (m *MockBallotRepository) CountByMeetingAndMember(ctx context.Context, meetingUID, memberUID string) (int, error) {
	args := m.Called(ctx, meetingUID, memberUID)
	return args.Int(0), args.Error(1)
}

// MockAttendanceRepository implements AttendanceRepository for testing
type MockAttendanceRepository struct {
	mock.Mock
}

func (m *MockAttendanceRepository) Create(ctx context.Context, record *models.AttendanceRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockAttendanceRepository) Get(ctx context.Context, meetingUID, memberUID string) (*models.AttendanceRecord, error) {
	args := m.Called(ctx, meetingUID, memberUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AttendanceRecord), args.Error(1)
}

func (m *MockAttendanceRepository) GetWithRevision(ctx context.Context, meetingUID, memberUID string) (*models.AttendanceRecord, uint64, error) {
	args := m.Called(ctx, meetingUID, memberUID)
	if args.Get(0) == nil {
		return nil, args.Get(1).(uint64), args.Error(2)
	}
	return args.Get(0).(*models.AttendanceRecord), args.Get(1).(uint64), args.Error(2)
}

func (m *MockAttendanceRepository) Update(ctx context.Context, record *models.AttendanceRecord, revision uint64) error {
	args := m.Called(ctx, record, revision)
	return args.Error(0)
}

func (m *MockAttendanceRepository) ListByMeeting(ctx context.Context, meetingUID string) ([]*models.AttendanceRecord, error) {
	args := m.Called(ctx, meetingUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AttendanceRecord), args.Error(1)
}

// MockProtocolRepository implements ProtocolRepository for testing
type MockProtocolRepository struct {
	mock.Mock
}

func (m *MockProtocolRepository) Create(ctx context.Context, protocol *models.MeetingProtocol) error {
	args := m.Called(ctx, protocol)
	return args.Error(0)
}

func (m *MockProtocolRepository) Get(ctx context.Context, protocolUID string) (*models.MeetingProtocol, error) {
	args := m.Called(ctx, protocolUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MeetingProtocol), args.Error(1)
}

func (m *MockProtocolRepository) GetWithRevision(ctx context.Context, protocolUID string) (*models.MeetingProtocol, uint64, error) {
	args := m.Called(ctx, protocolUID)
	if args.Get(0) == nil {
		return nil, args.Get(1).(uint64), args.Error(2)
	}
	return args.Get(0).(*models.MeetingProtocol), args.Get(1).(uint64), args.Error(2)
}

func (m *MockProtocolRepository) GetFinalByMeeting(ctx context.Context, meetingUID string) (*models.MeetingProtocol, error) {
	args := m.Called(ctx, meetingUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MeetingProtocol), args.Error(1)
}

func (m *MockProtocolRepository) MarkFinal(ctx context.Context, meetingUID, protocolUID string) error {
	args := m.Called(ctx, meetingUID, protocolUID)
	return args.Error(0)
}

func (m *MockProtocolRepository) NextProtocolNumber(ctx context.Context, organizationUID string) (uint64, error) {
	args := m.Called(ctx, organizationUID)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *MockProtocolRepository) AttachDocument(ctx context.Context, protocolUID, documentRef string) error {
	args := m.Called(ctx, protocolUID, documentRef)
	return args.Error(0)
}

func (m *MockProtocolRepository) ListByMeeting(ctx context.Context, meetingUID string) ([]*models.MeetingProtocol, error) {
	args := m.Called(ctx, meetingUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MeetingProtocol), args.Error(1)
}

// MockSettingsRepository implements SettingsRepository for testing
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) Get(ctx context.Context, organizationUID string) (*models.OrganizationSettings, error) {
	args := m.Called(ctx, organizationUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OrganizationSettings), args.Error(1)
}

func (m *MockSettingsRepository) Put(ctx context.Context, settings *models.OrganizationSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

// MockVotingEligibility implements VotingEligibility for testing
type MockVotingEligibility struct {
	mock.Mock
}

func (m *MockVotingEligibility) IsActiveVotingMember(ctx context.Context, organizationUID, memberUID string) (*models.MembershipStatus, error) {
	args := m.Called(ctx, organizationUID, memberUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MembershipStatus), args.Error(1)
}

func (m *MockVotingEligibility) CountEligibleMembers(ctx context.Context, organizationUID string) (int, error) {
	args := m.Called(ctx, organizationUID)
	return args.Int(0), args.Error(1)
}

// MockMessageBuilder implements MessageBuilder for testing
type MockMessageBuilder struct {
	mock.Mock
}

func (m *MockMessageBuilder) SendIndexMeeting(ctx context.Context, action models.MessageAction, data models.Meeting) error {
	args := m.Called(ctx, action, data)
	return args.Error(0)
}

func (m *MockMessageBuilder) SendDeleteIndexMeeting(ctx context.Context, data string) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

func (m *MockMessageBuilder) SendIndexAgendaItem(ctx context.Context, action models.MessageAction, data models.AgendaItem) error {
	args := m.Called(ctx, action, data)
	return args.Error(0)
}

func (m *MockMessageBuilder) SendDeleteIndexAgendaItem(ctx context.Context, data string) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

func (m *MockMessageBuilder) SendIndexVote(ctx context.Context, action models.MessageAction, data models.Vote) error {
	args := m.Called(ctx, action, data)
	return args.Error(0)
}

func (m *MockMessageBuilder) SendIndexBallot(ctx context.Context, action models.MessageAction, data models.Ballot) error {
	args := m.Called(ctx, action, data)
	return args.Error(0)
}

func (m *MockMessageBuilder) SendIndexAttendanceRecord(ctx context.Context, action models.MessageAction, data models.AttendanceRecord) error {
	args := m.Called(ctx, action, data)
	return args.Error(0)
}

func (m *MockMessageBuilder) SendIndexMeetingProtocol(ctx context.Context, action models.MessageAction, data models.MeetingProtocol) error {
	args := m.Called(ctx, action, data)
	return args.Error(0)
}

func (m *MockMessageBuilder) SendUpdateAccessMeeting(ctx context.Context, data models.MeetingAccessMessage) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

func (m *MockMessageBuilder) SendDeleteAllAccessMeeting(ctx context.Context, data string) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

func (m *MockMessageBuilder) SendVoteClosed(ctx context.Context, data models.VoteClosedMessage) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

func (m *MockMessageBuilder) SendProtocolFinalized(ctx context.Context, data models.ProtocolFinalizedMessage) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

func (m *MockMessageBuilder) IsActiveVotingMember(ctx context.Context, organizationUID, memberUID string) (*models.MembershipStatus, error) {
	args := m.Called(ctx, organizationUID, memberUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MembershipStatus), args.Error(1)
}

func (m *MockMessageBuilder) CountEligibleMembers(ctx context.Context, organizationUID string) (int, error) {
	args := m.Called(ctx, organizationUID)
	return args.Int(0), args.Error(1)
}

// MockMessage implements Message for testing
type MockMessage struct {
	mock.Mock
}

func (m *MockMessage) Subject() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockMessage) Data() []byte {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]byte)
}

func (m *MockMessage) Respond(data []byte) error {
	args := m.Called(data)
	return args.Error(0)
}

func (m *MockMessage) HasReply() bool {
	args := m.Called()
	return args.Bool(0)
}

// MockProtocolRenderer is a mock implementation of the ProtocolRenderer interface
type MockProtocolRenderer struct {
	mock.Mock
}

func (m *MockProtocolRenderer) RequestRender(ctx context.Context, protocol *models.MeetingProtocol) error {
	args := m.Called(ctx, protocol)
	return args.Error(0)
}
