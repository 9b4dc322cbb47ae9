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

// VoteService implements the vote ledger: one immutable ballot per member
// per vote, per-channel recording, and the open/closed state machine.
type VoteService struct {
	voteRepository       domain.VoteRepository
	ballotRepository     domain.BallotRepository
	meetingRepository    domain.MeetingRepository
	attendanceRepository domain.AttendanceRepository
	eligibility          domain.VotingEligibility
	messageBuilder       domain.MessageBuilder
}

// NewVoteService creates a new VoteService.
func NewVoteService(
	voteRepository domain.VoteRepository,
	ballotRepository domain.BallotRepository,
	meetingRepository domain.MeetingRepository,
	attendanceRepository domain.AttendanceRepository,
	eligibility domain.VotingEligibility,
	messageBuilder domain.MessageBuilder,
) *VoteService {
	return &VoteService{
		voteRepository:       voteRepository,
		ballotRepository:     ballotRepository,
		meetingRepository:    meetingRepository,
		attendanceRepository: attendanceRepository,
		eligibility:          eligibility,
		messageBuilder:       messageBuilder,
	}
}

// ServiceReady checks if the service is ready for use.
func (s *VoteService) ServiceReady() bool {
	return s.voteRepository != nil &&
		s.ballotRepository != nil &&
		s.meetingRepository != nil &&
		s.attendanceRepository != nil &&
		s.eligibility != nil &&
		s.messageBuilder != nil
}

// checkBallotPreconditions runs the single rule chain shared by CastBallot
// and CanCastVote: vote open, membership eligibility, channel matching the
// registered attendance mode. It returns the vote so callers don't read it
// twice.
func (s *VoteService) checkBallotPreconditions(ctx context.Context, voteUID, memberUID string, channel models.BallotChannel) (*models.Vote, error) {
	vote, err := s.voteRepository.Get(ctx, voteUID)
	if err != nil {
		return nil, err
	}

	if !vote.IsOpen() {
		return nil, domain.NewVoteClosedError(fmt.Sprintf("vote '%s' is closed", voteUID))
	}

	status, err := s.eligibility.IsActiveVotingMember(ctx, vote.OrganizationUID, memberUID)
	if err != nil {
		// The Membership Authority being unreachable is not a refusal;
		// surface it as unavailable so callers retry instead of treating
		// the member as ineligible.
		return nil, err
	}
	if !status.Active || !status.CanVote {
		return nil, domain.NewNotEligibleError(
			fmt.Sprintf("member '%s' holds no active voting membership in organization '%s'", memberUID, vote.OrganizationUID))
	}

	record, err := s.attendanceRepository.Get(ctx, vote.MeetingUID, memberUID)
	if err != nil {
		if domain.GetErrorType(err) == domain.ErrorTypeNotFound {
			return nil, domain.NewChannelMismatchError(
				fmt.Sprintf("member '%s' has no attendance record for meeting '%s'", memberUID, vote.MeetingUID))
		}
		return nil, err
	}

	if record.Mode.Channel() != channel {
		return nil, domain.NewChannelMismatchError(
			fmt.Sprintf("attendance mode '%s' does not grant the '%s' channel", record.Mode, channel))
	}

	return vote, nil
}

// CastBallot records a member's ballot on an open vote, exactly once. The
// (vote, member) uniqueness is enforced by the storage layer's
// create-if-absent write, so a duplicate or concurrent cast observes a
// conflict rather than producing a second ballot.
func (s *VoteService) CastBallot(ctx context.Context, req *models.CastBallotRequest) (*models.Ballot, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("vote service is not ready")
	}

	ctx = logging.AppendCtx(ctx, slog.String("vote_uid", req.VoteUID))
	ctx = logging.AppendCtx(ctx, slog.String("member_uid", req.MemberUID))
	ctx = logging.AppendCtx(ctx, slog.String("channel", string(req.Channel)))

	if !req.Choice.IsValid() {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid ballot choice '%s'", req.Choice))
	}
	if !req.Channel.IsValid() {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid ballot channel '%s'", req.Channel))
	}

	vote, err := s.checkBallotPreconditions(ctx, req.VoteUID, req.MemberUID, req.Channel)
	if err != nil {
		return nil, err
	}

	ballot := &models.Ballot{
		VoteUID:    req.VoteUID,
		MemberUID:  req.MemberUID,
		MeetingUID: vote.MeetingUID,
		Choice:     req.Choice,
		Channel:    req.Channel,
		CastAt:     time.Now().UTC(),
	}

	err = s.ballotRepository.Create(ctx, ballot)
	if err != nil {
		if domain.GetErrorType(err) == domain.ErrorTypeConflict {
			return nil, domain.NewAlreadyVotedError(
				fmt.Sprintf("member '%s' has already voted on vote '%s'", req.MemberUID, req.VoteUID), err)
		}
		return nil, err
	}

	slog.DebugContext(ctx, "ballot recorded", "choice", req.Choice)

	// Indexing is best-effort; the ballot is committed either way.
	if err := s.messageBuilder.SendIndexBallot(ctx, models.ActionCreated, *ballot); err != nil {
		slog.ErrorContext(ctx, "error sending ballot index message", logging.ErrKey, err)
	}

	return ballot, nil
}

// CanCastVote is the read-only predicate answering whether a member could
// cast a ballot right now. It runs the identical rule chain as CastBallot
// and maps the refusal to an outcome code without writing anything.
func (s *VoteService) CanCastVote(ctx context.Context, voteUID, memberUID string, channel models.BallotChannel) (*models.BallotEligibility, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("vote service is not ready")
	}

	ctx = logging.AppendCtx(ctx, slog.String("vote_uid", voteUID))
	ctx = logging.AppendCtx(ctx, slog.String("member_uid", memberUID))

	if !channel.IsValid() {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid ballot channel '%s'", channel))
	}

	_, err := s.checkBallotPreconditions(ctx, voteUID, memberUID, channel)
	if err != nil {
		if code := domain.GetErrorCode(err); code != "" {
			return &models.BallotEligibility{Allowed: false, Reason: string(code)}, nil
		}
		// Not-found, unavailable and internal failures are errors, not
		// eligibility answers.
		return nil, err
	}

	exists, err := s.ballotRepository.Exists(ctx, voteUID, memberUID)
	if err != nil {
		return nil, err
	}
	if exists {
		return &models.BallotEligibility{Allowed: false, Reason: string(domain.CodeAlreadyVoted)}, nil
	}

	return &models.BallotEligibility{Allowed: true}, nil
}

// CloseVote transitions an open vote to closed. Only chair or board members
// of the vote's organization may close a vote. Closing an already closed
// vote is a no-op so retries are harmless.
func (s *VoteService) CloseVote(ctx context.Context, voteUID, principal string) (*models.Vote, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("vote service is not ready")
	}

	ctx = logging.AppendCtx(ctx, slog.String("vote_uid", voteUID))
	ctx = logging.AppendCtx(ctx, slog.String("principal", principal))

	vote, revision, err := s.voteRepository.GetWithRevision(ctx, voteUID)
	if err != nil {
		return nil, err
	}

	status, err := s.eligibility.IsActiveVotingMember(ctx, vote.OrganizationUID, principal)
	if err != nil {
		return nil, err
	}
	if !status.Active || !status.IsChairOrBoard() {
		return nil, domain.NewForbiddenError(
			fmt.Sprintf("principal '%s' lacks chair or board role in organization '%s'", principal, vote.OrganizationUID))
	}

	if !vote.IsOpen() {
		slog.DebugContext(ctx, "vote already closed, nothing to do")
		return vote, nil
	}

	now := time.Now().UTC()
	vote.Status = models.VoteStatusClosed
	vote.ClosedAt = &now

	err = s.voteRepository.Update(ctx, vote, revision)
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "vote closed")

	if err := s.messageBuilder.SendVoteClosed(ctx, models.VoteClosedMessage{
		VoteUID:    vote.UID,
		MeetingUID: vote.MeetingUID,
		ClosedAt:   now.Format(time.RFC3339),
		ClosedBy:   principal,
	}); err != nil {
		slog.ErrorContext(ctx, "error sending vote closed message", logging.ErrKey, err)
	}

	if err := s.messageBuilder.SendIndexVote(ctx, models.ActionUpdated, *vote); err != nil {
		slog.ErrorContext(ctx, "error sending vote index message", logging.ErrKey, err)
	}

	return vote, nil
}
