// Copyright The Open Assembly Project contributors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/openassembly/governance-service/internal/domain"
	"github.com/openassembly/governance-service/internal/domain/models"
	"github.com/openassembly/governance-service/internal/logging"
	"github.com/openassembly/governance-service/pkg/concurrent"
	"github.com/openassembly/governance-service/pkg/constants"
	"github.com/openassembly/governance-service/pkg/utils"
)

// ProtocolService implements the protocol finalizer. A meeting has at most
// one FINAL protocol; the FINAL marker in the registry is the commit point,
// so a finalize that fails before the marker leaves no visible protocol and
// a finalize that loses the marker race returns the winner's protocol.
type ProtocolService struct {
	meetingRepository  domain.MeetingRepository
	protocolRepository domain.ProtocolRepository
	snapshotService    *SnapshotService
	eligibility        domain.VotingEligibility
	messageBuilder     domain.MessageBuilder
	renderer           domain.ProtocolRenderer
}

// NewProtocolService creates a new ProtocolService. The renderer is
// optional; without one, finalized protocols simply wait for an external
// document attachment.
func NewProtocolService(
	meetingRepository domain.MeetingRepository,
	protocolRepository domain.ProtocolRepository,
	snapshotService *SnapshotService,
	eligibility domain.VotingEligibility,
	messageBuilder domain.MessageBuilder,
	renderer domain.ProtocolRenderer,
) *ProtocolService {
	return &ProtocolService{
		meetingRepository:  meetingRepository,
		protocolRepository: protocolRepository,
		snapshotService:    snapshotService,
		eligibility:        eligibility,
		messageBuilder:     messageBuilder,
		renderer:           renderer,
	}
}

// ServiceReady checks if the service is ready for use.
func (s *ProtocolService) ServiceReady() bool {
	return s.meetingRepository != nil &&
		s.protocolRepository != nil &&
		s.snapshotService != nil &&
		s.eligibility != nil &&
		s.messageBuilder != nil
}

// PreviewDraft builds a throwaway snapshot of the meeting's current
// governance state. Nothing is stored and no protocol number is consumed.
func (s *ProtocolService) PreviewDraft(ctx context.Context, meetingUID string) (*models.ProtocolSnapshot, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("protocol service is not ready")
	}

	return s.snapshotService.BuildSnapshot(ctx, meetingUID)
}

// Finalize freezes the meeting's current snapshot into its one FINAL
// protocol. Only chair or board members may finalize. If the meeting
// already has a FINAL protocol the existing protocol is returned together
// with an already-finalized error, including when a concurrent finalize won
// the race first.
func (s *ProtocolService) Finalize(ctx context.Context, meetingUID, principal string) (*models.MeetingProtocol, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("protocol service is not ready")
	}

	ctx = logging.AppendCtx(ctx, slog.String("meeting_uid", meetingUID))
	ctx = logging.AppendCtx(ctx, slog.String("principal", principal))

	meeting, err := s.meetingRepository.Get(ctx, meetingUID)
	if err != nil {
		return nil, err
	}

	status, err := s.eligibility.IsActiveVotingMember(ctx, meeting.OrganizationUID, principal)
	if err != nil {
		return nil, err
	}
	if !status.Active || !status.IsChairOrBoard() {
		return nil, domain.NewForbiddenError(
			fmt.Sprintf("principal '%s' lacks chair or board role in organization '%s'", principal, meeting.OrganizationUID))
	}

	if existing, errFinal := s.protocolRepository.GetFinalByMeeting(ctx, meetingUID); errFinal == nil {
		return existing, domain.NewAlreadyFinalizedError(
			fmt.Sprintf("meeting '%s' already has final protocol '%s'", meetingUID, existing.UID))
	} else if domain.GetErrorType(errFinal) != domain.ErrorTypeNotFound {
		return nil, errFinal
	}

	snapshot, err := s.snapshotService.BuildSnapshot(ctx, meetingUID)
	if err != nil {
		return nil, err
	}

	content, err := msgpack.Marshal(snapshot)
	if err != nil {
		slog.ErrorContext(ctx, "error encoding protocol snapshot", logging.ErrKey, err)
		return nil, domain.NewInternalError("error encoding protocol snapshot", err)
	}

	number, err := s.protocolRepository.NextProtocolNumber(ctx, meeting.OrganizationUID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	protocol := &models.MeetingProtocol{
		UID:             uuid.New().String(),
		MeetingUID:      meetingUID,
		OrganizationUID: meeting.OrganizationUID,
		ProtocolNumber:  number,
		// A FINAL protocol is never rewritten; a correction is a new row at
		// the next version carrying SupersedesID, so the first finalize is
		// always version 1.
		Version:     1,
		Status:      models.ProtocolStatusFinal,
		Content:     content,
		FinalizedAt: utils.TimePtr(now),
		CreatedAt:   utils.TimePtr(now),
	}
	protocol.Reference = models.NewProtocolReference(protocol.UID)

	// The row must exist before the marker can point at it. An orphaned row
	// from a crash between these two writes is invisible to readers, which
	// only follow the marker.
	if err := s.protocolRepository.Create(ctx, protocol); err != nil {
		return nil, err
	}

	if err := s.protocolRepository.MarkFinal(ctx, meetingUID, protocol.UID); err != nil {
		if domain.GetErrorCode(err) == domain.CodeAlreadyFinalized {
			winner, errWinner := s.protocolRepository.GetFinalByMeeting(ctx, meetingUID)
			if errWinner != nil {
				return nil, errWinner
			}
			slog.InfoContext(ctx, "concurrent finalize won the final marker",
				"winning_protocol_uid", winner.UID)
			return winner, domain.NewAlreadyFinalizedError(
				fmt.Sprintf("meeting '%s' already has final protocol '%s'", meetingUID, winner.UID))
		}
		return nil, err
	}

	ctx = logging.AppendCtx(ctx, slog.String("protocol_uid", protocol.UID))
	slog.InfoContext(ctx, "protocol finalized",
		"protocol_number", protocol.ProtocolNumber,
		"reference", protocol.Reference,
	)

	s.markMeetingCompleted(ctx, meetingUID)

	// The protocol is committed; the follow-up notifications are
	// best-effort and independent of each other, so one failing must not
	// stop the rest.
	followUps := []func() error{
		func() error {
			return s.messageBuilder.SendProtocolFinalized(ctx, models.ProtocolFinalizedMessage{
				ProtocolUID:    protocol.UID,
				MeetingUID:     meetingUID,
				ProtocolNumber: protocol.ProtocolNumber,
				Reference:      protocol.Reference,
				FinalizedBy:    principal,
			})
		},
		func() error {
			return s.messageBuilder.SendIndexMeetingProtocol(ctx, models.ActionCreated, *protocol)
		},
	}
	if s.renderer != nil {
		followUps = append(followUps, func() error {
			return s.renderer.RequestRender(ctx, protocol)
		})
	}

	pool := concurrent.NewWorkerPool(constants.FinalizeFollowUpWorkers)
	for _, followUpErr := range pool.RunAll(ctx, followUps...) {
		slog.ErrorContext(ctx, "error sending finalize follow-up", logging.ErrKey, followUpErr)
	}

	return protocol, nil
}

// markMeetingCompleted best-effort transitions the meeting to completed.
// The protocol is already final, so a failure here only means the meeting
// status lags behind.
func (s *ProtocolService) markMeetingCompleted(ctx context.Context, meetingUID string) {
	meeting, revision, err := s.meetingRepository.GetWithRevision(ctx, meetingUID)
	if err != nil {
		slog.ErrorContext(ctx, "error reading meeting for completion", logging.ErrKey, err)
		return
	}
	if meeting.Status == models.MeetingStatusCompleted {
		return
	}

	meeting.Status = models.MeetingStatusCompleted
	if err := s.meetingRepository.Update(ctx, meeting, revision); err != nil {
		slog.ErrorContext(ctx, "error marking meeting completed", logging.ErrKey, err)
		return
	}

	if err := s.messageBuilder.SendIndexMeeting(ctx, models.ActionUpdated, *meeting); err != nil {
		slog.ErrorContext(ctx, "error sending meeting index message", logging.ErrKey, err)
	}
}

// AttachRenderedDocument records the rendered document reference on a FINAL
// protocol. The reference can be set exactly once.
func (s *ProtocolService) AttachRenderedDocument(ctx context.Context, protocolUID, documentRef string) (*models.MeetingProtocol, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("protocol service is not ready")
	}

	ctx = logging.AppendCtx(ctx, slog.String("protocol_uid", protocolUID))

	if documentRef == "" {
		return nil, domain.NewValidationError("document reference is required")
	}

	if err := s.protocolRepository.AttachDocument(ctx, protocolUID, documentRef); err != nil {
		return nil, err
	}

	protocol, err := s.protocolRepository.Get(ctx, protocolUID)
	if err != nil {
		return nil, err
	}

	if err := s.messageBuilder.SendIndexMeetingProtocol(ctx, models.ActionUpdated, *protocol); err != nil {
		slog.ErrorContext(ctx, "error sending protocol index message", logging.ErrKey, err)
	}

	return protocol, nil
}

// GetProtocol returns a stored protocol by UID.
func (s *ProtocolService) GetProtocol(ctx context.Context, protocolUID string) (*models.MeetingProtocol, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("protocol service is not ready")
	}

	return s.protocolRepository.Get(ctx, protocolUID)
}

// GetFinalProtocol returns the meeting's final protocol, or a not found error
// when the meeting has not been finalized.
func (s *ProtocolService) GetFinalProtocol(ctx context.Context, meetingUID string) (*models.MeetingProtocol, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("protocol service is not ready")
	}

	return s.protocolRepository.GetFinalByMeeting(ctx, meetingUID)
}
