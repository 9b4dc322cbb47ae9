// Copyright The Open Assembly Project contributors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/openassembly/governance-service/internal/domain"
	"github.com/openassembly/governance-service/internal/domain/models"
	"github.com/openassembly/governance-service/internal/logging"
)

// HandleMessage implements domain.MessageHandler interface
func (s *GovernanceService) HandleMessage(ctx context.Context, msg domain.Message) {
	subject := msg.Subject()
	ctx = logging.AppendCtx(ctx, slog.String("subject", subject))
	slog.DebugContext(ctx, "handling NATS message")

	handlers := map[string]func(ctx context.Context, msg domain.Message) ([]byte, error){
		models.CreateMeetingSubject:          s.HandleCreateMeeting,
		models.GetMeetingSubject:             s.HandleGetMeeting,
		models.AddAgendaItemSubject:          s.HandleAddAgendaItem,
		models.OpenVoteSubject:               s.HandleOpenVote,
		models.CastBallotSubject:             s.HandleCastBallot,
		models.CanCastVoteSubject:            s.HandleCanCastVote,
		models.CloseVoteSubject:              s.HandleCloseVote,
		models.RegisterAttendanceSubject:     s.HandleRegisterAttendance,
		models.GetVoteTallySubject:           s.HandleGetVoteTally,
		models.GetQuorumSubject:              s.HandleGetQuorum,
		models.PreviewProtocolSubject:        s.HandlePreviewProtocol,
		models.FinalizeProtocolSubject:       s.HandleFinalizeProtocol,
		models.AttachProtocolDocumentSubject: s.HandleAttachProtocolDocument,
		models.GetProtocolSubject:            s.HandleGetProtocol,
		models.MembershipUpdatedSubject:      s.HandleMembershipUpdated,
	}

	handler, ok := handlers[subject]
	if !ok {
		slog.WarnContext(ctx, "unknown subject")
		if err := msg.Respond(nil); err != nil {
			slog.ErrorContext(ctx, "error responding to NATS message", logging.ErrKey, err)
		}
		return
	}

	response, err := handler(ctx, msg)
	if err != nil {
		slog.ErrorContext(ctx, "error handling message",
			logging.ErrKey, err,
			"subject", subject,
		)
		s.respondError(ctx, msg, err)
		return
	}

	if !msg.HasReply() {
		return
	}

	if err := msg.Respond(response); err != nil {
		slog.ErrorContext(ctx, "error responding to NATS message", logging.ErrKey, err)
		return
	}

	slog.DebugContext(ctx, "responded to NATS message")
}

// respondError replies with an ErrorResponse so callers can branch on the
// outcome code instead of parsing error strings.
func (s *GovernanceService) respondError(ctx context.Context, msg domain.Message, handlerErr error) {
	if !msg.HasReply() {
		return
	}

	response := models.ErrorResponse{
		Code:    string(domain.GetErrorCode(handlerErr)),
		Message: handlerErr.Error(),
	}

	data, err := json.Marshal(response)
	if err != nil {
		slog.ErrorContext(ctx, "error marshaling error response", logging.ErrKey, err)
		data = nil
	}

	if err := msg.Respond(data); err != nil {
		slog.ErrorContext(ctx, "error responding to NATS message", logging.ErrKey, err)
	}
}

func unmarshalMessage[T any](msg domain.Message) (*T, error) {
	var payload T
	if err := json.Unmarshal(msg.Data(), &payload); err != nil {
		return nil, domain.NewValidationError("invalid message payload", err)
	}
	return &payload, nil
}

// HandleCreateMeeting is the message handler for the create_meeting subject.
func (s *GovernanceService) HandleCreateMeeting(ctx context.Context, msg domain.Message) ([]byte, error) {
	payload, err := unmarshalMessage[models.CreateMeetingMessage](msg)
	if err != nil {
		return nil, err
	}

	meeting, err := s.MeetingService.CreateMeeting(ctx, payload)
	if err != nil {
		return nil, err
	}

	return json.Marshal(meeting)
}

// HandleGetMeeting is the message handler for the get_meeting subject.
func (s *GovernanceService) HandleGetMeeting(ctx context.Context, msg domain.Message) ([]byte, error) {
	meetingUID := string(msg.Data())
	if meetingUID == "" {
		return nil, domain.NewValidationError("meeting UID is required")
	}

	meeting, err := s.MeetingService.GetMeeting(ctx, meetingUID)
	if err != nil {
		return nil, err
	}

	return json.Marshal(meeting)
}

// HandleAddAgendaItem is the message handler for the add_agenda_item subject.
func (s *GovernanceService) HandleAddAgendaItem(ctx context.Context, msg domain.Message) ([]byte, error) {
	payload, err := unmarshalMessage[models.AddAgendaItemMessage](msg)
	if err != nil {
		return nil, err
	}

	item, err := s.MeetingService.AddAgendaItem(ctx, payload)
	if err != nil {
		return nil, err
	}

	return json.Marshal(item)
}

// HandleOpenVote is the message handler for the open_vote subject.
func (s *GovernanceService) HandleOpenVote(ctx context.Context, msg domain.Message) ([]byte, error) {
	payload, err := unmarshalMessage[models.OpenVoteMessage](msg)
	if err != nil {
		return nil, err
	}

	vote, err := s.MeetingService.OpenVote(ctx, payload.AgendaItemUID, payload.Principal)
	if err != nil {
		return nil, err
	}

	return json.Marshal(vote)
}

// HandleCastBallot is the message handler for the cast_ballot subject.
func (s *GovernanceService) HandleCastBallot(ctx context.Context, msg domain.Message) ([]byte, error) {
	payload, err := unmarshalMessage[models.CastBallotMessage](msg)
	if err != nil {
		return nil, err
	}

	ballot, err := s.VoteService.CastBallot(ctx, &models.CastBallotRequest{
		VoteUID:   payload.VoteUID,
		MemberUID: payload.MemberUID,
		Choice:    models.BallotChoice(payload.Choice),
		Channel:   models.BallotChannel(payload.Channel),
	})
	if err != nil {
		return nil, err
	}

	return json.Marshal(ballot)
}

// HandleCanCastVote is the message handler for the can_cast_vote subject.
func (s *GovernanceService) HandleCanCastVote(ctx context.Context, msg domain.Message) ([]byte, error) {
	payload, err := unmarshalMessage[models.CanCastVoteMessage](msg)
	if err != nil {
		return nil, err
	}

	eligibility, err := s.VoteService.CanCastVote(ctx, payload.VoteUID, payload.MemberUID, models.BallotChannel(payload.Channel))
	if err != nil {
		return nil, err
	}

	return json.Marshal(eligibility)
}

// HandleCloseVote is the message handler for the close_vote subject.
func (s *GovernanceService) HandleCloseVote(ctx context.Context, msg domain.Message) ([]byte, error) {
	payload, err := unmarshalMessage[models.CloseVoteMessage](msg)
	if err != nil {
		return nil, err
	}

	vote, err := s.VoteService.CloseVote(ctx, payload.VoteUID, payload.Principal)
	if err != nil {
		return nil, err
	}

	return json.Marshal(vote)
}

// HandleRegisterAttendance is the message handler for the
// register_attendance subject.
func (s *GovernanceService) HandleRegisterAttendance(ctx context.Context, msg domain.Message) ([]byte, error) {
	payload, err := unmarshalMessage[models.RegisterAttendanceMessage](msg)
	if err != nil {
		return nil, err
	}

	record, err := s.AttendanceService.RegisterAttendance(ctx, payload.MeetingUID, payload.MemberUID, models.AttendanceMode(payload.Mode))
	if err != nil {
		return nil, err
	}

	return json.Marshal(record)
}

// HandleGetVoteTally is the message handler for the get_vote_tally subject.
func (s *GovernanceService) HandleGetVoteTally(ctx context.Context, msg domain.Message) ([]byte, error) {
	voteUID := string(msg.Data())
	if voteUID == "" {
		return nil, domain.NewValidationError("vote UID is required")
	}

	tally, err := s.TallyService.TallyVote(ctx, voteUID)
	if err != nil {
		return nil, err
	}

	return json.Marshal(tally)
}

// HandleGetQuorum is the message handler for the get_quorum subject.
func (s *GovernanceService) HandleGetQuorum(ctx context.Context, msg domain.Message) ([]byte, error) {
	meetingUID := string(msg.Data())
	if meetingUID == "" {
		return nil, domain.NewValidationError("meeting UID is required")
	}

	result, err := s.QuorumService.ComputeQuorum(ctx, meetingUID)
	if err != nil {
		return nil, err
	}

	return json.Marshal(result)
}

// HandlePreviewProtocol is the message handler for the preview_protocol
// subject.
func (s *GovernanceService) HandlePreviewProtocol(ctx context.Context, msg domain.Message) ([]byte, error) {
	meetingUID := string(msg.Data())
	if meetingUID == "" {
		return nil, domain.NewValidationError("meeting UID is required")
	}

	snapshot, err := s.ProtocolService.PreviewDraft(ctx, meetingUID)
	if err != nil {
		return nil, err
	}

	return json.Marshal(snapshot)
}

// HandleFinalizeProtocol is the message handler for the finalize_protocol
// subject. When the meeting already has a FINAL protocol, the reply carries
// that protocol together with the already_finalized code.
func (s *GovernanceService) HandleFinalizeProtocol(ctx context.Context, msg domain.Message) ([]byte, error) {
	payload, err := unmarshalMessage[models.FinalizeProtocolMessage](msg)
	if err != nil {
		return nil, err
	}

	protocol, err := s.ProtocolService.Finalize(ctx, payload.MeetingUID, payload.Principal)
	if err != nil {
		if protocol != nil && domain.GetErrorCode(err) == domain.CodeAlreadyFinalized {
			return json.Marshal(models.FinalizeProtocolResponse{
				Protocol: protocol,
				Code:     string(domain.CodeAlreadyFinalized),
			})
		}
		return nil, err
	}

	return json.Marshal(models.FinalizeProtocolResponse{Protocol: protocol})
}

// HandleAttachProtocolDocument is the message handler for the
// attach_protocol_document subject.
func (s *GovernanceService) HandleAttachProtocolDocument(ctx context.Context, msg domain.Message) ([]byte, error) {
	payload, err := unmarshalMessage[models.AttachProtocolDocumentMessage](msg)
	if err != nil {
		return nil, err
	}

	protocol, err := s.ProtocolService.AttachRenderedDocument(ctx, payload.ProtocolUID, payload.DocumentRef)
	if err != nil {
		return nil, err
	}

	return json.Marshal(protocol)
}

// HandleGetProtocol is the message handler for the get_protocol subject.
func (s *GovernanceService) HandleGetProtocol(ctx context.Context, msg domain.Message) ([]byte, error) {
	protocolUID := string(msg.Data())
	if protocolUID == "" {
		return nil, domain.NewValidationError("protocol UID is required")
	}

	protocol, err := s.ProtocolService.GetProtocol(ctx, protocolUID)
	if err != nil {
		return nil, err
	}

	return json.Marshal(protocol)
}

// HandleMembershipUpdated is the message handler for the member_updated
// event. Tallies and quorum are derived on read, so there is nothing to
// invalidate; the event is logged for the audit trail.
func (s *GovernanceService) HandleMembershipUpdated(ctx context.Context, msg domain.Message) ([]byte, error) {
	event, err := unmarshalMessage[models.MembershipEvent](msg)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "membership changed",
		"organization_uid", event.OrganizationUID,
		"member_uid", event.MemberUID,
		"active", event.Active,
		"can_vote", event.CanVote,
	)

	return nil, nil
}
