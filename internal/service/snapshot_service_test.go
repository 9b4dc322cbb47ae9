// Copyright The Open Assembly Project contributors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/openassembly/governance-service/internal/domain"
	"github.com/openassembly/governance-service/internal/domain/models"
	"github.com/openassembly/governance-service/pkg/utils"
)

type snapshotServiceMocks struct {
	meetingRepo    *domain.MockMeetingRepository
	agendaItemRepo *domain.MockAgendaItemRepository
	voteRepo       *domain.MockVoteRepository
	ballotRepo     *domain.MockBallotRepository
	attendanceRepo *domain.MockAttendanceRepository
	settingsRepo   *domain.MockSettingsRepository
	eligibility    *domain.MockVotingEligibility
}

func setupSnapshotServiceForTesting() (*SnapshotService, *snapshotServiceMocks) {
	m := &snapshotServiceMocks{
		meetingRepo:    new(domain.MockMeetingRepository),
		agendaItemRepo: new(domain.MockAgendaItemRepository),
		voteRepo:       new(domain.MockVoteRepository),
		ballotRepo:     new(domain.MockBallotRepository),
		attendanceRepo: new(domain.MockAttendanceRepository),
		settingsRepo:   new(domain.MockSettingsRepository),
		eligibility:    new(domain.MockVotingEligibility),
	}

	tallyService := NewTallyService(m.voteRepo, m.ballotRepo)
	quorumService := NewQuorumService(m.meetingRepo, m.attendanceRepo, m.settingsRepo, m.eligibility)
	service := NewSnapshotService(m.meetingRepo, m.agendaItemRepo, m.attendanceRepo, tallyService, quorumService)

	return service, m
}

func TestSnapshotService_BuildSnapshot(t *testing.T) {
	ctx := context.Background()

	t.Run("agenda, tallies, attendance and quorum assembled", func(t *testing.T) {
		service, m := setupSnapshotServiceForTesting()

		meeting := publishedMeeting("meeting-1")
		m.meetingRepo.On("Get", mock.Anything, "meeting-1").Return(meeting, nil)
		m.agendaItemRepo.On("ListByMeeting", mock.Anything, "meeting-1").Return([]*models.AgendaItem{
			{UID: "item-1", MeetingUID: "meeting-1", Sequence: 1, Title: "Approval of the budget", VoteUID: utils.StringPtr("vote-1")},
			{UID: "item-2", MeetingUID: "meeting-1", Sequence: 2, Title: "Any other business"},
		}, nil)

		m.voteRepo.On("Get", mock.Anything, "vote-1").Return(openVote("vote-1"), nil)
		m.ballotRepo.On("ListByVote", mock.Anything, "vote-1").Return([]*models.Ballot{
			{VoteUID: "vote-1", MemberUID: "member-1", Choice: models.BallotChoiceFor, Channel: models.BallotChannelLive},
			{VoteUID: "vote-1", MemberUID: "member-2", Choice: models.BallotChoiceAgainst, Channel: models.BallotChannelRemote},
		}, nil)

		records := []*models.AttendanceRecord{
			{MeetingUID: "meeting-1", MemberUID: "member-1", Mode: models.AttendanceModeInPerson},
			{MeetingUID: "meeting-1", MemberUID: "member-2", Mode: models.AttendanceModeRemote},
		}
		m.attendanceRepo.On("ListByMeeting", mock.Anything, "meeting-1").Return(records, nil)
		m.eligibility.On("CountEligibleMembers", mock.Anything, "org-1").Return(4, nil)
		m.settingsRepo.On("Get", mock.Anything, "org-1").Return(&models.OrganizationSettings{
			OrganizationUID: "org-1",
			QuorumRule:      models.QuorumRule{MinimumCount: utils.IntPtr(2)},
		}, nil)

		snapshot, err := service.BuildSnapshot(ctx, "meeting-1")

		assert.NoError(t, err)
		assert.Equal(t, "meeting-1", snapshot.MeetingUID)
		assert.Equal(t, "org-1", snapshot.OrganizationUID)
		assert.Equal(t, meeting.Title, snapshot.MeetingTitle)
		assert.False(t, snapshot.BuiltAt.IsZero())

		assert.Len(t, snapshot.AgendaEntries, 2)
		assert.Equal(t, "item-1", snapshot.AgendaEntries[0].AgendaItemUID)
		assert.NotNil(t, snapshot.AgendaEntries[0].Tally)
		assert.Equal(t, 2, snapshot.AgendaEntries[0].Tally.Combined.Total)
		assert.Equal(t, "item-2", snapshot.AgendaEntries[1].AgendaItemUID)
		assert.Nil(t, snapshot.AgendaEntries[1].Tally)

		assert.Equal(t, 1, snapshot.Attendance.InPerson)
		assert.Equal(t, 1, snapshot.Attendance.Remote)
		assert.Equal(t, 2, snapshot.Attendance.Total)

		assert.Equal(t, 2, snapshot.Quorum.PresentTotal)
		assert.True(t, snapshot.Quorum.HasQuorum)
	})

	t.Run("meeting without agenda items", func(t *testing.T) {
		service, m := setupSnapshotServiceForTesting()

		m.meetingRepo.On("Get", mock.Anything, "meeting-1").Return(publishedMeeting("meeting-1"), nil)
		m.agendaItemRepo.On("ListByMeeting", mock.Anything, "meeting-1").Return([]*models.AgendaItem{}, nil)
		m.attendanceRepo.On("ListByMeeting", mock.Anything, "meeting-1").Return([]*models.AttendanceRecord{}, nil)
		m.eligibility.On("CountEligibleMembers", mock.Anything, "org-1").Return(10, nil)
		m.settingsRepo.On("Get", mock.Anything, "org-1").Return(&models.OrganizationSettings{
			OrganizationUID: "org-1",
			QuorumRule:      models.QuorumRule{MinimumCount: utils.IntPtr(3)},
		}, nil)

		snapshot, err := service.BuildSnapshot(ctx, "meeting-1")

		assert.NoError(t, err)
		assert.Empty(t, snapshot.AgendaEntries)
		assert.Equal(t, 0, snapshot.Attendance.Total)
		assert.False(t, snapshot.Quorum.HasQuorum)
	})

	t.Run("tally failure aborts the build", func(t *testing.T) {
		service, m := setupSnapshotServiceForTesting()

		m.meetingRepo.On("Get", mock.Anything, "meeting-1").Return(publishedMeeting("meeting-1"), nil)
		m.agendaItemRepo.On("ListByMeeting", mock.Anything, "meeting-1").Return([]*models.AgendaItem{
			{UID: "item-1", MeetingUID: "meeting-1", Sequence: 1, Title: "Approval of the budget", VoteUID: utils.StringPtr("vote-1")},
		}, nil)
		m.voteRepo.On("Get", mock.Anything, "vote-1").Return(nil, domain.NewInternalError("kv read failed"))

		snapshot, err := service.BuildSnapshot(ctx, "meeting-1")

		assert.Error(t, err)
		assert.Nil(t, snapshot)
	})

	t.Run("quorum unavailable aborts the build", func(t *testing.T) {
		service, m := setupSnapshotServiceForTesting()

		m.meetingRepo.On("Get", mock.Anything, "meeting-1").Return(publishedMeeting("meeting-1"), nil)
		m.agendaItemRepo.On("ListByMeeting", mock.Anything, "meeting-1").Return([]*models.AgendaItem{}, nil)
		m.attendanceRepo.On("ListByMeeting", mock.Anything, "meeting-1").Return([]*models.AttendanceRecord{}, nil)
		m.eligibility.On("CountEligibleMembers", mock.Anything, "org-1").Return(0, domain.NewUnavailableError("membership authority unreachable"))

		snapshot, err := service.BuildSnapshot(ctx, "meeting-1")

		assert.Error(t, err)
		assert.Nil(t, snapshot)
		assert.Equal(t, domain.CodeQuorumUnavailable, domain.GetErrorCode(err))
	})
}
