// Copyright The Open Assembly Project contributors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/openassembly/governance-service/internal/domain"
	"github.com/openassembly/governance-service/internal/domain/models"
	"github.com/openassembly/governance-service/internal/logging"
)

// AttendanceService implements attendance registration for meetings. A
// member holds exactly one attendance mode per meeting; the mode decides
// which ballot channel the member may use.
type AttendanceService struct {
	attendanceRepository domain.AttendanceRepository
	meetingRepository    domain.MeetingRepository
	ballotRepository     domain.BallotRepository
	eligibility          domain.VotingEligibility
	messageBuilder       domain.MessageBuilder
}

// NewAttendanceService creates a new AttendanceService.
func NewAttendanceService(
	attendanceRepository domain.AttendanceRepository,
	meetingRepository domain.MeetingRepository,
	ballotRepository domain.BallotRepository,
	eligibility domain.VotingEligibility,
	messageBuilder domain.MessageBuilder,
) *AttendanceService {
	return &AttendanceService{
		attendanceRepository: attendanceRepository,
		meetingRepository:    meetingRepository,
		ballotRepository:     ballotRepository,
		eligibility:          eligibility,
		messageBuilder:       messageBuilder,
	}
}

// ServiceReady checks if the service is ready for use.
func (s *AttendanceService) ServiceReady() bool {
	return s.attendanceRepository != nil &&
		s.meetingRepository != nil &&
		s.ballotRepository != nil &&
		s.eligibility != nil &&
		s.messageBuilder != nil
}

// RegisterAttendance records a member's participation mode for a meeting.
// Re-registering the same mode is an idempotent no-op. Switching to a
// contradictory mode is allowed only while the member has cast no ballots
// in the meeting; after that the recorded channel would no longer match
// the ballots, so the switch is refused.
func (s *AttendanceService) RegisterAttendance(ctx context.Context, meetingUID, memberUID string, mode models.AttendanceMode) (*models.AttendanceRecord, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("attendance service is not ready")
	}

	ctx = logging.AppendCtx(ctx, slog.String("meeting_uid", meetingUID))
	ctx = logging.AppendCtx(ctx, slog.String("member_uid", memberUID))
	ctx = logging.AppendCtx(ctx, slog.String("mode", string(mode)))

	if !mode.IsValid() {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid attendance mode '%s'", mode))
	}

	meeting, err := s.meetingRepository.Get(ctx, meetingUID)
	if err != nil {
		return nil, err
	}
	if !meeting.AcceptsVoting() {
		return nil, domain.NewValidationError(
			fmt.Sprintf("meeting '%s' is %s and no longer accepts attendance registration", meetingUID, meeting.Status))
	}

	status, err := s.eligibility.IsActiveVotingMember(ctx, meeting.OrganizationUID, memberUID)
	if err != nil {
		return nil, err
	}
	if !status.Active {
		return nil, domain.NewNotEligibleError(
			fmt.Sprintf("member '%s' holds no active membership in organization '%s'", memberUID, meeting.OrganizationUID))
	}

	existing, revision, err := s.attendanceRepository.GetWithRevision(ctx, meetingUID, memberUID)
	if err != nil && domain.GetErrorType(err) != domain.ErrorTypeNotFound {
		return nil, err
	}

	if existing != nil {
		if existing.Mode == mode {
			slog.DebugContext(ctx, "attendance mode unchanged, nothing to do")
			return existing, nil
		}
		return s.switchMode(ctx, existing, revision, mode)
	}

	record := &models.AttendanceRecord{
		MeetingUID:   meetingUID,
		MemberUID:    memberUID,
		Mode:         mode,
		RegisteredAt: time.Now().UTC(),
	}

	err = s.attendanceRepository.Create(ctx, record)
	if err != nil {
		if domain.GetErrorType(err) == domain.ErrorTypeConflict {
			// A concurrent registration won the create. The surviving
			// record decides: same mode means this request is satisfied.
			winner, getErr := s.attendanceRepository.Get(ctx, meetingUID, memberUID)
			if getErr != nil {
				return nil, getErr
			}
			if winner.Mode == mode {
				return winner, nil
			}
			return nil, domain.NewConflictError(
				fmt.Sprintf("member '%s' is already registered with mode '%s'", memberUID, winner.Mode), err)
		}
		return nil, err
	}

	slog.DebugContext(ctx, "attendance registered")

	if err := s.messageBuilder.SendIndexAttendanceRecord(ctx, models.ActionCreated, *record); err != nil {
		slog.ErrorContext(ctx, "error sending attendance index message", logging.ErrKey, err)
	}

	return record, nil
}

// switchMode replaces a member's attendance mode, refused once the member
// has ballots in the meeting whose channel the old mode granted.
func (s *AttendanceService) switchMode(ctx context.Context, existing *models.AttendanceRecord, revision uint64, mode models.AttendanceMode) (*models.AttendanceRecord, error) {
	ballotCount, err := s.ballotRepository.CountByMeetingAndMember(ctx, existing.MeetingUID, existing.MemberUID)
	if err != nil {
		return nil, err
	}
	if ballotCount > 0 {
		return nil, domain.NewConflictError(
			fmt.Sprintf("member '%s' has cast %d ballot(s) in meeting '%s' and cannot switch attendance mode",
				existing.MemberUID, ballotCount, existing.MeetingUID))
	}

	now := time.Now().UTC()
	oldMode := existing.Mode
	existing.Mode = mode
	existing.UpdatedAt = &now

	err = s.attendanceRepository.Update(ctx, existing, revision)
	if err != nil {
		return nil, err
	}

	// A ballot cast through the old mode's channel can commit between the
	// count above and the update. Re-count after the update and revert the
	// switch when one slipped in.
	ballotCount, err = s.ballotRepository.CountByMeetingAndMember(ctx, existing.MeetingUID, existing.MemberUID)
	if err != nil {
		return nil, err
	}
	if ballotCount > 0 {
		if revertErr := s.revertModeSwitch(ctx, existing.MeetingUID, existing.MemberUID, mode, oldMode); revertErr != nil {
			slog.ErrorContext(ctx, "error reverting attendance mode switch", logging.ErrKey, revertErr, logging.PriorityCritical())
		}
		return nil, domain.NewConflictError(
			fmt.Sprintf("member '%s' has cast %d ballot(s) in meeting '%s' and cannot switch attendance mode",
				existing.MemberUID, ballotCount, existing.MeetingUID))
	}

	slog.DebugContext(ctx, "attendance mode switched")

	if err := s.messageBuilder.SendIndexAttendanceRecord(ctx, models.ActionUpdated, *existing); err != nil {
		slog.ErrorContext(ctx, "error sending attendance index message", logging.ErrKey, err)
	}

	return existing, nil
}

// revertModeSwitch undoes a just-committed mode update. The revision check
// leaves the record alone when another writer has changed it again since.
func (s *AttendanceService) revertModeSwitch(ctx context.Context, meetingUID, memberUID string, switchedMode, oldMode models.AttendanceMode) error {
	record, revision, err := s.attendanceRepository.GetWithRevision(ctx, meetingUID, memberUID)
	if err != nil {
		return err
	}
	if record.Mode != switchedMode {
		return nil
	}

	now := time.Now().UTC()
	record.Mode = oldMode
	record.UpdatedAt = &now

	return s.attendanceRepository.Update(ctx, record, revision)
}

// GetAttendance returns a member's attendance record for a meeting.
func (s *AttendanceService) GetAttendance(ctx context.Context, meetingUID, memberUID string) (*models.AttendanceRecord, error) {
	if !s.ServiceReady() {
		return nil, domain.NewUnavailableError("attendance service is not ready")
	}
	return s.attendanceRepository.Get(ctx, meetingUID, memberUID)
}
