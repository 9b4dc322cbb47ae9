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

func setupQuorumServiceForTesting() (*QuorumService, *domain.MockMeetingRepository, *domain.MockAttendanceRepository, *domain.MockSettingsRepository, *domain.MockVotingEligibility) {
	mockMeetingRepo := new(domain.MockMeetingRepository)
	mockAttendanceRepo := new(domain.MockAttendanceRepository)
	mockSettingsRepo := new(domain.MockSettingsRepository)
	mockEligibility := new(domain.MockVotingEligibility)

	service := NewQuorumService(mockMeetingRepo, mockAttendanceRepo, mockSettingsRepo, mockEligibility)

	return service, mockMeetingRepo, mockAttendanceRepo, mockSettingsRepo, mockEligibility
}

func TestQuorumService_ComputeQuorum(t *testing.T) {
	ctx := context.Background()

	t.Run("quorum met with percentage rule", func(t *testing.T) {
		service, meetingRepo, attendanceRepo, settingsRepo, eligibility := setupQuorumServiceForTesting()

		meetingRepo.On("Get", mock.Anything, "meeting-1").Return(publishedMeeting("meeting-1"), nil)
		attendanceRepo.On("ListByMeeting", mock.Anything, "meeting-1").Return([]*models.AttendanceRecord{
			{MeetingUID: "meeting-1", MemberUID: "member-1", Mode: models.AttendanceModeInPerson},
			{MeetingUID: "meeting-1", MemberUID: "member-2", Mode: models.AttendanceModeInPerson},
			{MeetingUID: "meeting-1", MemberUID: "member-3", Mode: models.AttendanceModeWrittenProxy},
			{MeetingUID: "meeting-1", MemberUID: "member-4", Mode: models.AttendanceModeRemote},
			{MeetingUID: "meeting-1", MemberUID: "member-5", Mode: models.AttendanceModeRemote},
		}, nil)
		eligibility.On("CountEligibleMembers", mock.Anything, "org-1").Return(9, nil)
		settingsRepo.On("Get", mock.Anything, "org-1").Return(&models.OrganizationSettings{
			OrganizationUID: "org-1",
			QuorumRule:      models.QuorumRule{RequiredPercentage: utils.Float64Ptr(50)},
		}, nil)

		result, err := service.ComputeQuorum(ctx, "meeting-1")

		assert.NoError(t, err)
		assert.Equal(t, 2, result.PresentInPerson)
		assert.Equal(t, 1, result.PresentWritten)
		assert.Equal(t, 2, result.PresentRemote)
		assert.Equal(t, 5, result.PresentTotal)
		assert.Equal(t, 9, result.TotalEligible)
		assert.Equal(t, 5, result.RequiredCount)
		assert.True(t, result.HasQuorum)
	})

	t.Run("quorum missed with absolute rule", func(t *testing.T) {
		service, meetingRepo, attendanceRepo, settingsRepo, eligibility := setupQuorumServiceForTesting()

		meetingRepo.On("Get", mock.Anything, "meeting-1").Return(publishedMeeting("meeting-1"), nil)
		attendanceRepo.On("ListByMeeting", mock.Anything, "meeting-1").Return([]*models.AttendanceRecord{
			{MeetingUID: "meeting-1", MemberUID: "member-1", Mode: models.AttendanceModeRemote},
		}, nil)
		eligibility.On("CountEligibleMembers", mock.Anything, "org-1").Return(20, nil)
		settingsRepo.On("Get", mock.Anything, "org-1").Return(&models.OrganizationSettings{
			OrganizationUID: "org-1",
			QuorumRule:      models.QuorumRule{MinimumCount: utils.IntPtr(3)},
		}, nil)

		result, err := service.ComputeQuorum(ctx, "meeting-1")

		assert.NoError(t, err)
		assert.Equal(t, 1, result.PresentTotal)
		assert.Equal(t, 3, result.RequiredCount)
		assert.False(t, result.HasQuorum)
	})

	t.Run("missing settings fall back to simple majority", func(t *testing.T) {
		service, meetingRepo, attendanceRepo, settingsRepo, eligibility := setupQuorumServiceForTesting()

		meetingRepo.On("Get", mock.Anything, "meeting-1").Return(publishedMeeting("meeting-1"), nil)
		attendanceRepo.On("ListByMeeting", mock.Anything, "meeting-1").Return([]*models.AttendanceRecord{
			{MeetingUID: "meeting-1", MemberUID: "member-1", Mode: models.AttendanceModeInPerson},
			{MeetingUID: "meeting-1", MemberUID: "member-2", Mode: models.AttendanceModeRemote},
		}, nil)
		eligibility.On("CountEligibleMembers", mock.Anything, "org-1").Return(4, nil)
		settingsRepo.On("Get", mock.Anything, "org-1").Return(nil, domain.NewNotFoundError("organization settings not found"))

		result, err := service.ComputeQuorum(ctx, "meeting-1")

		assert.NoError(t, err)
		assert.Equal(t, 2, result.PresentTotal)
		assert.Equal(t, 2, result.RequiredCount)
		assert.True(t, result.HasQuorum)
	})

	t.Run("membership authority unreachable", func(t *testing.T) {
		service, meetingRepo, attendanceRepo, settingsRepo, eligibility := setupQuorumServiceForTesting()

		meetingRepo.On("Get", mock.Anything, "meeting-1").Return(publishedMeeting("meeting-1"), nil)
		attendanceRepo.On("ListByMeeting", mock.Anything, "meeting-1").Return([]*models.AttendanceRecord{}, nil)
		eligibility.On("CountEligibleMembers", mock.Anything, "org-1").Return(0, domain.NewUnavailableError("membership authority unreachable"))

		result, err := service.ComputeQuorum(ctx, "meeting-1")

		assert.Error(t, err)
		assert.Nil(t, result)
		assert.Equal(t, domain.CodeQuorumUnavailable, domain.GetErrorCode(err))
		settingsRepo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})

	t.Run("unknown meeting", func(t *testing.T) {
		service, meetingRepo, _, _, _ := setupQuorumServiceForTesting()

		meetingRepo.On("Get", mock.Anything, "meeting-404").Return(nil, domain.NewNotFoundError("meeting not found"))

		result, err := service.ComputeQuorum(ctx, "meeting-404")

		assert.Error(t, err)
		assert.Nil(t, result)
		assert.Equal(t, domain.ErrorTypeNotFound, domain.GetErrorType(err))
	})
}
