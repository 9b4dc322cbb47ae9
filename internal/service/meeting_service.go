// Copyright The Open Assembly Project contributors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/openassembly/governance-service/internal/domain"
	"github.com/openassembly/governance-service/internal/domain/models"
	"github.com/openassembly/governance-service/internal/logging"
	"github.com/openassembly/governance-service/pkg/utils"
)

// MeetingService implements the meeting and agenda operations that carry
// the governance flows: creating meetings, appending agenda items and
// opening votes on them.
type MeetingService struct {
	meetingRepository    domain.MeetingRepository
	agendaItemRepository domain.AgendaItemRepository
	voteRepository       domain.VoteRepository
	eligibility          domain.VotingEligibility
	messageBuilder       domain.MessageBuilder
}

// NewMeetingService creates a new MeetingService.
func NewMeetingService(
	meetingRepository domain.MeetingRepository,
	agendaItemRepository domain.AgendaItemRepository,
	voteRepository domain.VoteRepository,
	eligibility domain.VotingEligibility,
	messageBuilder domain.MessageBuilder,
) *MeetingService {
	return &MeetingService{
		meetingRepository:    meetingRepository,
		agendaItemRepository: agendaItemRepository,
		voteRepository:       voteRepository,
		eligibility:          eligibility,
		messageBuilder:       messageBuilder,
	}
}

// ServiceReady checks if the service is ready for use.
func (s *MeetingService) ServiceReady() bool {
	return s.meetingRepository != nil &&
		s.agendaItemRepository != nil &&
		s.voteRepository != nil &&
		s.eligibility != nil &&
		s.messageBuilder != nil
}

// requireChairOrBoard checks that the principal holds chair or board
// authority in the organization.
func (s *MeetingService) requireChairOrBoard(ctx context.Context, organizationUID, principal string) error {
	status, err := s.eligibility.IsActiveVotingMember(ctx, organizationUID, principal)
	if err != nil {
		return err
	}
	if !status.Active || !status.IsChairOrBoard() {
		return domain.NewForbiddenError(
			fmt.Sprintf("principal '%s' lacks chair or board role in organization '%s'", principal, organizationUID))
	}
	return nil
}

// CreateMeeting creates a new scheduled meeting for an organization.
func (s *MeetingService) CreateMeeting(ctx context.Context, payload *models.CreateMeetingMessage) (*models.Meeting, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("meeting service is not ready")
	}

	if payload.OrganizationUID == "" {
		return nil, domain.NewValidationError("organization UID is required")
	}
	if payload.Title == "" {
		return nil, domain.NewValidationError("meeting title is required")
	}
	if payload.ScheduledAt.IsZero() {
		return nil, domain.NewValidationError("meeting scheduled time is required")
	}

	ctx = logging.AppendCtx(ctx, slog.String("organization_uid", payload.OrganizationUID))
	ctx = logging.AppendCtx(ctx, slog.String("principal", payload.Principal))

	if err := s.requireChairOrBoard(ctx, payload.OrganizationUID, payload.Principal); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	meeting := &models.Meeting{
		UID:             uuid.New().String(),
		OrganizationUID: payload.OrganizationUID,
		Title:           payload.Title,
		Description:     payload.Description,
		ScheduledAt:     payload.ScheduledAt,
		Location:        payload.Location,
		Status:          models.MeetingStatusScheduled,
		CreatedAt:       utils.TimePtr(now),
	}

	if err := s.meetingRepository.Create(ctx, meeting); err != nil {
		return nil, err
	}

	ctx = logging.AppendCtx(ctx, slog.String("meeting_uid", meeting.UID))
	slog.InfoContext(ctx, "meeting created")

	if err := s.messageBuilder.SendIndexMeeting(ctx, models.ActionCreated, *meeting); err != nil {
		slog.ErrorContext(ctx, "error sending meeting index message", logging.ErrKey, err)
	}

	if err := s.messageBuilder.SendUpdateAccessMeeting(ctx, models.MeetingAccessMessage{
		UID:             meeting.UID,
		OrganizationUID: meeting.OrganizationUID,
		Public:          false,
		Organizers:      []string{payload.Principal},
	}); err != nil {
		slog.ErrorContext(ctx, "error sending meeting access message", logging.ErrKey, err)
	}

	return meeting, nil
}

// GetMeeting returns a stored meeting by UID.
func (s *MeetingService) GetMeeting(ctx context.Context, meetingUID string) (*models.Meeting, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("meeting service is not ready")
	}

	return s.meetingRepository.Get(ctx, meetingUID)
}

// AddAgendaItem appends an agenda item to a meeting. Items get the next
// free sequence number and start without a vote.
func (s *MeetingService) AddAgendaItem(ctx context.Context, payload *models.AddAgendaItemMessage) (*models.AgendaItem, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("meeting service is not ready")
	}

	if payload.Title == "" {
		return nil, domain.NewValidationError("agenda item title is required")
	}

	ctx = logging.AppendCtx(ctx, slog.String("meeting_uid", payload.MeetingUID))
	ctx = logging.AppendCtx(ctx, slog.String("principal", payload.Principal))

	meeting, err := s.meetingRepository.Get(ctx, payload.MeetingUID)
	if err != nil {
		return nil, err
	}
	if !meeting.AcceptsVoting() {
		return nil, domain.NewValidationError(
			fmt.Sprintf("meeting '%s' is %s and no longer accepts agenda changes", meeting.UID, meeting.Status))
	}

	if err := s.requireChairOrBoard(ctx, meeting.OrganizationUID, payload.Principal); err != nil {
		return nil, err
	}

	existing, err := s.agendaItemRepository.ListByMeeting(ctx, payload.MeetingUID)
	if err != nil {
		return nil, err
	}

	sequence := 1
	for _, item := range existing {
		if item.Sequence >= sequence {
			sequence = item.Sequence + 1
		}
	}

	now := time.Now().UTC()
	item := &models.AgendaItem{
		UID:        uuid.New().String(),
		MeetingUID: payload.MeetingUID,
		Sequence:   sequence,
		Title:      payload.Title,
		Body:       payload.Body,
		Resolution: payload.Resolution,
		CreatedAt:  utils.TimePtr(now),
	}

	if err := s.agendaItemRepository.Create(ctx, item); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "agenda item added",
		"agenda_item_uid", item.UID,
		"sequence", item.Sequence,
	)

	if err := s.messageBuilder.SendIndexAgendaItem(ctx, models.ActionCreated, *item); err != nil {
		slog.ErrorContext(ctx, "error sending agenda item index message", logging.ErrKey, err)
	}

	return item, nil
}

// OpenVote opens a vote on an agenda item. An item carries at most one
// vote; opening a second one is a conflict.
func (s *MeetingService) OpenVote(ctx context.Context, agendaItemUID, principal string) (*models.Vote, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("meeting service is not ready")
	}

	ctx = logging.AppendCtx(ctx, slog.String("agenda_item_uid", agendaItemUID))
	ctx = logging.AppendCtx(ctx, slog.String("principal", principal))

	item, revision, err := s.agendaItemRepository.GetWithRevision(ctx, agendaItemUID)
	if err != nil {
		return nil, err
	}
	if item.HasVote() {
		return nil, domain.NewConflictError(
			fmt.Sprintf("agenda item '%s' already has vote '%s'", agendaItemUID, *item.VoteUID))
	}

	meeting, err := s.meetingRepository.Get(ctx, item.MeetingUID)
	if err != nil {
		return nil, err
	}
	if !meeting.AcceptsVoting() {
		return nil, domain.NewValidationError(
			fmt.Sprintf("meeting '%s' is %s and no longer accepts votes", meeting.UID, meeting.Status))
	}

	if err := s.requireChairOrBoard(ctx, meeting.OrganizationUID, principal); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	vote := &models.Vote{
		UID:             uuid.New().String(),
		AgendaItemUID:   item.UID,
		MeetingUID:      item.MeetingUID,
		OrganizationUID: meeting.OrganizationUID,
		Status:          models.VoteStatusOpen,
		CreatedAt:       utils.TimePtr(now),
	}

	if err := s.voteRepository.Create(ctx, vote); err != nil {
		return nil, err
	}

	item.VoteUID = utils.StringPtr(vote.UID)
	item.UpdatedAt = utils.TimePtr(now)
	if err := s.agendaItemRepository.Update(ctx, item, revision); err != nil {
		// The vote row exists but nothing points at it, so it stays
		// invisible to ballots. Report the conflict to the caller.
		slog.ErrorContext(ctx, "error linking vote to agenda item", logging.ErrKey, err)
		return nil, err
	}

	ctx = logging.AppendCtx(ctx, slog.String("vote_uid", vote.UID))
	slog.InfoContext(ctx, "vote opened")

	if err := s.messageBuilder.SendIndexVote(ctx, models.ActionCreated, *vote); err != nil {
		slog.ErrorContext(ctx, "error sending vote index message", logging.ErrKey, err)
	}
	if err := s.messageBuilder.SendIndexAgendaItem(ctx, models.ActionUpdated, *item); err != nil {
		slog.ErrorContext(ctx, "error sending agenda item index message", logging.ErrKey, err)
	}

	return vote, nil
}
