// Copyright The Open Assembly Project contributors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"

	"github.com/openassembly/governance-service/internal/domain"
	"github.com/openassembly/governance-service/internal/domain/models"
	"github.com/openassembly/governance-service/internal/logging"
)

// QuorumService implements the quorum calculator. Quorum is always
// evaluated against the live membership count at computation time, never
// carried forward from an earlier figure.
type QuorumService struct {
	meetingRepository    domain.MeetingRepository
	attendanceRepository domain.AttendanceRepository
	settingsRepository   domain.SettingsRepository
	eligibility          domain.VotingEligibility
}

// NewQuorumService creates a new QuorumService.
func NewQuorumService(
	meetingRepository domain.MeetingRepository,
	attendanceRepository domain.AttendanceRepository,
	settingsRepository domain.SettingsRepository,
	eligibility domain.VotingEligibility,
) *QuorumService {
	return &QuorumService{
		meetingRepository:    meetingRepository,
		attendanceRepository: attendanceRepository,
		settingsRepository:   settingsRepository,
		eligibility:          eligibility,
	}
}

// ServiceReady checks if the service is ready for use.
func (s *QuorumService) ServiceReady() bool {
	return s.meetingRepository != nil &&
		s.attendanceRepository != nil &&
		s.settingsRepository != nil &&
		s.eligibility != nil
}

// ComputeQuorum derives the meeting's present-member counts per attendance
// mode and compares them against the organization's quorum rule.
func (s *QuorumService) ComputeQuorum(ctx context.Context, meetingUID string) (*models.QuorumResult, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("quorum service is not ready")
	}

	ctx = logging.AppendCtx(ctx, slog.String("meeting_uid", meetingUID))

	meeting, err := s.meetingRepository.Get(ctx, meetingUID)
	if err != nil {
		return nil, err
	}

	records, err := s.attendanceRepository.ListByMeeting(ctx, meetingUID)
	if err != nil {
		return nil, err
	}

	totalEligible, err := s.eligibility.CountEligibleMembers(ctx, meeting.OrganizationUID)
	if err != nil {
		// Without a live eligible-member count there is no honest quorum
		// answer. Refuse rather than guess.
		return nil, domain.NewQuorumUnavailableError(
			"eligible member count is unavailable from the membership authority", err)
	}

	// Organizations without stored settings fall back to the simple
	// majority rule.
	rule := models.DefaultQuorumRule()
	settings, err := s.settingsRepository.Get(ctx, meeting.OrganizationUID)
	if err == nil {
		rule = settings.QuorumRule
	} else if domain.GetErrorType(err) != domain.ErrorTypeNotFound {
		return nil, err
	}

	result := models.ComputeQuorum(records, totalEligible, rule)

	slog.DebugContext(ctx, "quorum computed",
		"present_total", result.PresentTotal,
		"required_count", result.RequiredCount,
		"has_quorum", result.HasQuorum,
	)

	return &result, nil
}
