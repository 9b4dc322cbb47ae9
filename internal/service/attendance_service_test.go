// Copyright The Open Assembly Project contributors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/openassembly/governance-service/internal/domain"
	"github.com/openassembly/governance-service/internal/domain/models"
)

// setupAttendanceServiceForTesting creates an AttendanceService with all mock dependencies for testing
func setupAttendanceServiceForTesting() (*AttendanceService, *domain.MockAttendanceRepository, *domain.MockMeetingRepository, *domain.MockBallotRepository, *domain.MockVotingEligibility, *domain.MockMessageBuilder) {
	mockAttendanceRepo := new(domain.MockAttendanceRepository)
	mockMeetingRepo := new(domain.MockMeetingRepository)
	mockBallotRepo := new(domain.MockBallotRepository)
	mockEligibility := new(domain.MockVotingEligibility)
	mockBuilder := new(domain.MockMessageBuilder)

	service := NewAttendanceService(mockAttendanceRepo, mockMeetingRepo, mockBallotRepo, mockEligibility, mockBuilder)

	return service, mockAttendanceRepo, mockMeetingRepo, mockBallotRepo, mockEligibility, mockBuilder
}

func publishedMeeting(uid string) *models.Meeting {
	return &models.Meeting{
		UID:             uid,
		OrganizationUID: "org-1",
		Title:           "Annual General Assembly",
		ScheduledAt:     time.Date(2026, 3, 15, 18, 0, 0, 0, time.UTC),
		Status:          models.MeetingStatusPublished,
	}
}

func TestAttendanceService_RegisterAttendance(t *testing.T) {
	ctx := context.Background()

	t.Run("first registration creates the record", func(t *testing.T) {
		service, attendanceRepo, meetingRepo, _, eligibility, builder := setupAttendanceServiceForTesting()

		meetingRepo.On("Get", mock.Anything, "meeting-1").Return(publishedMeeting("meeting-1"), nil)
		eligibility.On("IsActiveVotingMember", mock.Anything, "org-1", "member-1").Return(&models.MembershipStatus{Active: true, CanVote: true}, nil)
		attendanceRepo.On("GetWithRevision", mock.Anything, "meeting-1", "member-1").Return(nil, uint64(0), domain.NewNotFoundError("attendance record not found"))
		attendanceRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.AttendanceRecord")).Return(nil)
		builder.On("SendIndexAttendanceRecord", mock.Anything, models.ActionCreated, mock.AnythingOfType("models.AttendanceRecord")).Return(nil)

		record, err := service.RegisterAttendance(ctx, "meeting-1", "member-1", models.AttendanceModeInPerson)

		assert.NoError(t, err)
		assert.Equal(t, models.AttendanceModeInPerson, record.Mode)
		assert.False(t, record.RegisteredAt.IsZero())
		attendanceRepo.AssertExpectations(t)
	})

	t.Run("re-registering the same mode is idempotent", func(t *testing.T) {
		service, attendanceRepo, meetingRepo, _, eligibility, _ := setupAttendanceServiceForTesting()

		meetingRepo.On("Get", mock.Anything, "meeting-1").Return(publishedMeeting("meeting-1"), nil)
		eligibility.On("IsActiveVotingMember", mock.Anything, "org-1", "member-1").Return(&models.MembershipStatus{Active: true, CanVote: true}, nil)
		attendanceRepo.On("GetWithRevision", mock.Anything, "meeting-1", "member-1").Return(&models.AttendanceRecord{
			MeetingUID: "meeting-1", MemberUID: "member-1", Mode: models.AttendanceModeRemote,
		}, uint64(2), nil)

		record, err := service.RegisterAttendance(ctx, "meeting-1", "member-1", models.AttendanceModeRemote)

		assert.NoError(t, err)
		assert.Equal(t, models.AttendanceModeRemote, record.Mode)
		attendanceRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		attendanceRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("mode switch allowed before any ballot", func(t *testing.T) {
		service, attendanceRepo, meetingRepo, ballotRepo, eligibility, builder := setupAttendanceServiceForTesting()

		meetingRepo.On("Get", mock.Anything, "meeting-1").Return(publishedMeeting("meeting-1"), nil)
		eligibility.On("IsActiveVotingMember", mock.Anything, "org-1", "member-1").Return(&models.MembershipStatus{Active: true, CanVote: true}, nil)
		attendanceRepo.On("GetWithRevision", mock.Anything, "meeting-1", "member-1").Return(&models.AttendanceRecord{
			MeetingUID: "meeting-1", MemberUID: "member-1", Mode: models.AttendanceModeRemote,
		}, uint64(2), nil)
		ballotRepo.On("CountByMeetingAndMember", mock.Anything, "meeting-1", "member-1").Return(0, nil)
		attendanceRepo.On("Update", mock.Anything, mock.AnythingOfType("*models.AttendanceRecord"), uint64(2)).Return(nil)
		builder.On("SendIndexAttendanceRecord", mock.Anything, models.ActionUpdated, mock.AnythingOfType("models.AttendanceRecord")).Return(nil)

		record, err := service.RegisterAttendance(ctx, "meeting-1", "member-1", models.AttendanceModeInPerson)

		assert.NoError(t, err)
		assert.Equal(t, models.AttendanceModeInPerson, record.Mode)
		assert.NotNil(t, record.UpdatedAt)
		attendanceRepo.AssertExpectations(t)
	})

	t.Run("mode switch refused once ballots exist", func(t *testing.T) {
		service, attendanceRepo, meetingRepo, ballotRepo, eligibility, _ := setupAttendanceServiceForTesting()

		meetingRepo.On("Get", mock.Anything, "meeting-1").Return(publishedMeeting("meeting-1"), nil)
		eligibility.On("IsActiveVotingMember", mock.Anything, "org-1", "member-1").Return(&models.MembershipStatus{Active: true, CanVote: true}, nil)
		attendanceRepo.On("GetWithRevision", mock.Anything, "meeting-1", "member-1").Return(&models.AttendanceRecord{
			MeetingUID: "meeting-1", MemberUID: "member-1", Mode: models.AttendanceModeRemote,
		}, uint64(2), nil)
		ballotRepo.On("CountByMeetingAndMember", mock.Anything, "meeting-1", "member-1").Return(2, nil)

		record, err := service.RegisterAttendance(ctx, "meeting-1", "member-1", models.AttendanceModeInPerson)

		assert.Error(t, err)
		assert.Nil(t, record)
		assert.Equal(t, domain.ErrorTypeConflict, domain.GetErrorType(err))
		attendanceRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("mode switch reverted when a ballot lands mid-switch", func(t *testing.T) {
		service, attendanceRepo, meetingRepo, ballotRepo, eligibility, builder := setupAttendanceServiceForTesting()

		meetingRepo.On("Get", mock.Anything, "meeting-1").Return(publishedMeeting("meeting-1"), nil)
		eligibility.On("IsActiveVotingMember", mock.Anything, "org-1", "member-1").Return(&models.MembershipStatus{Active: true, CanVote: true}, nil)
		attendanceRepo.On("GetWithRevision", mock.Anything, "meeting-1", "member-1").Return(&models.AttendanceRecord{
			MeetingUID: "meeting-1", MemberUID: "member-1", Mode: models.AttendanceModeRemote,
		}, uint64(2), nil).Once()
		// The pre-switch count sees no ballots, then a remote ballot commits
		// before the post-switch count.
		ballotRepo.On("CountByMeetingAndMember", mock.Anything, "meeting-1", "member-1").Return(0, nil).Once()
		attendanceRepo.On("Update", mock.Anything, mock.AnythingOfType("*models.AttendanceRecord"), uint64(2)).Return(nil).Once()
		ballotRepo.On("CountByMeetingAndMember", mock.Anything, "meeting-1", "member-1").Return(1, nil).Once()
		attendanceRepo.On("GetWithRevision", mock.Anything, "meeting-1", "member-1").Return(&models.AttendanceRecord{
			MeetingUID: "meeting-1", MemberUID: "member-1", Mode: models.AttendanceModeInPerson,
		}, uint64(3), nil).Once()
		attendanceRepo.On("Update", mock.Anything, mock.MatchedBy(func(r *models.AttendanceRecord) bool {
			return r.Mode == models.AttendanceModeRemote
		}), uint64(3)).Return(nil).Once()

		record, err := service.RegisterAttendance(ctx, "meeting-1", "member-1", models.AttendanceModeInPerson)

		assert.Error(t, err)
		assert.Nil(t, record)
		assert.Equal(t, domain.ErrorTypeConflict, domain.GetErrorType(err))
		attendanceRepo.AssertExpectations(t)
		ballotRepo.AssertExpectations(t)
		builder.AssertNotCalled(t, "SendIndexAttendanceRecord", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("revert left alone when another writer moved the record on", func(t *testing.T) {
		service, attendanceRepo, meetingRepo, ballotRepo, eligibility, _ := setupAttendanceServiceForTesting()

		meetingRepo.On("Get", mock.Anything, "meeting-1").Return(publishedMeeting("meeting-1"), nil)
		eligibility.On("IsActiveVotingMember", mock.Anything, "org-1", "member-1").Return(&models.MembershipStatus{Active: true, CanVote: true}, nil)
		attendanceRepo.On("GetWithRevision", mock.Anything, "meeting-1", "member-1").Return(&models.AttendanceRecord{
			MeetingUID: "meeting-1", MemberUID: "member-1", Mode: models.AttendanceModeRemote,
		}, uint64(2), nil).Once()
		ballotRepo.On("CountByMeetingAndMember", mock.Anything, "meeting-1", "member-1").Return(0, nil).Once()
		attendanceRepo.On("Update", mock.Anything, mock.AnythingOfType("*models.AttendanceRecord"), uint64(2)).Return(nil).Once()
		ballotRepo.On("CountByMeetingAndMember", mock.Anything, "meeting-1", "member-1").Return(1, nil).Once()
		// The record no longer holds the mode this switch wrote, so the
		// revert must not touch it.
		attendanceRepo.On("GetWithRevision", mock.Anything, "meeting-1", "member-1").Return(&models.AttendanceRecord{
			MeetingUID: "meeting-1", MemberUID: "member-1", Mode: models.AttendanceModeRemote,
		}, uint64(4), nil).Once()

		record, err := service.RegisterAttendance(ctx, "meeting-1", "member-1", models.AttendanceModeInPerson)

		assert.Error(t, err)
		assert.Nil(t, record)
		assert.Equal(t, domain.ErrorTypeConflict, domain.GetErrorType(err))
		attendanceRepo.AssertExpectations(t)
		attendanceRepo.AssertNumberOfCalls(t, "Update", 1)
	})

	t.Run("concurrent create resolved by the surviving record", func(t *testing.T) {
		service, attendanceRepo, meetingRepo, _, eligibility, _ := setupAttendanceServiceForTesting()

		meetingRepo.On("Get", mock.Anything, "meeting-1").Return(publishedMeeting("meeting-1"), nil)
		eligibility.On("IsActiveVotingMember", mock.Anything, "org-1", "member-1").Return(&models.MembershipStatus{Active: true, CanVote: true}, nil)
		attendanceRepo.On("GetWithRevision", mock.Anything, "meeting-1", "member-1").Return(nil, uint64(0), domain.NewNotFoundError("attendance record not found"))
		attendanceRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.AttendanceRecord")).Return(domain.NewConflictError("record already exists"))
		attendanceRepo.On("Get", mock.Anything, "meeting-1", "member-1").Return(&models.AttendanceRecord{
			MeetingUID: "meeting-1", MemberUID: "member-1", Mode: models.AttendanceModeInPerson,
		}, nil)

		record, err := service.RegisterAttendance(ctx, "meeting-1", "member-1", models.AttendanceModeInPerson)

		assert.NoError(t, err)
		assert.Equal(t, models.AttendanceModeInPerson, record.Mode)
	})

	t.Run("concurrent create with a different surviving mode is a conflict", func(t *testing.T) {
		service, attendanceRepo, meetingRepo, _, eligibility, _ := setupAttendanceServiceForTesting()

		meetingRepo.On("Get", mock.Anything, "meeting-1").Return(publishedMeeting("meeting-1"), nil)
		eligibility.On("IsActiveVotingMember", mock.Anything, "org-1", "member-1").Return(&models.MembershipStatus{Active: true, CanVote: true}, nil)
		attendanceRepo.On("GetWithRevision", mock.Anything, "meeting-1", "member-1").Return(nil, uint64(0), domain.NewNotFoundError("attendance record not found"))
		attendanceRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.AttendanceRecord")).Return(domain.NewConflictError("record already exists"))
		attendanceRepo.On("Get", mock.Anything, "meeting-1", "member-1").Return(&models.AttendanceRecord{
			MeetingUID: "meeting-1", MemberUID: "member-1", Mode: models.AttendanceModeRemote,
		}, nil)

		record, err := service.RegisterAttendance(ctx, "meeting-1", "member-1", models.AttendanceModeInPerson)

		assert.Error(t, err)
		assert.Nil(t, record)
		assert.Equal(t, domain.ErrorTypeConflict, domain.GetErrorType(err))
	})

	t.Run("inactive member is refused", func(t *testing.T) {
		service, attendanceRepo, meetingRepo, _, eligibility, _ := setupAttendanceServiceForTesting()

		meetingRepo.On("Get", mock.Anything, "meeting-1").Return(publishedMeeting("meeting-1"), nil)
		eligibility.On("IsActiveVotingMember", mock.Anything, "org-1", "member-1").Return(&models.MembershipStatus{Active: false}, nil)

		record, err := service.RegisterAttendance(ctx, "meeting-1", "member-1", models.AttendanceModeInPerson)

		assert.Error(t, err)
		assert.Nil(t, record)
		assert.Equal(t, domain.CodeNotEligible, domain.GetErrorCode(err))
		attendanceRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("completed meeting refuses registration", func(t *testing.T) {
		service, _, meetingRepo, _, _, _ := setupAttendanceServiceForTesting()

		completed := publishedMeeting("meeting-1")
		completed.Status = models.MeetingStatusCompleted
		meetingRepo.On("Get", mock.Anything, "meeting-1").Return(completed, nil)

		record, err := service.RegisterAttendance(ctx, "meeting-1", "member-1", models.AttendanceModeInPerson)

		assert.Error(t, err)
		assert.Nil(t, record)
		assert.Equal(t, domain.ErrorTypeValidation, domain.GetErrorType(err))
	})

	t.Run("invalid mode", func(t *testing.T) {
		service, _, meetingRepo, _, _, _ := setupAttendanceServiceForTesting()

		record, err := service.RegisterAttendance(ctx, "meeting-1", "member-1", "hologram")

		assert.Error(t, err)
		assert.Nil(t, record)
		assert.Equal(t, domain.ErrorTypeValidation, domain.GetErrorType(err))
		meetingRepo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})
}
