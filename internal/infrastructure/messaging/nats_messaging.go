// Copyright The Open Assembly Project contributors.
// SPDX-License-Identifier: MIT

package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/nats-io/nats.go"

	"github.com/openassembly/governance-service/internal/domain"
	"github.com/openassembly/governance-service/internal/domain/models"
	"github.com/openassembly/governance-service/internal/logging"
	"github.com/openassembly/governance-service/pkg/constants"
)

// membershipRequestTimeout bounds request/reply lookups against the
// Membership Authority.
const membershipRequestTimeout = 5 * time.Second

// INatsConn is a NATS connection interface needed for the [MessageBuilder].
type INatsConn interface {
	IsConnected() bool
	Publish(subj string, data []byte) error
	Request(subj string, data []byte, timeout time.Duration) (*nats.Msg, error)
}

// MessageBuilder is the builder for the message and sends it to the NATS server.
type MessageBuilder struct {
	NatsConn INatsConn
}

// NewMessageBuilder creates a new MessageBuilder.
func NewMessageBuilder(natsConn INatsConn) *MessageBuilder {
	return &MessageBuilder{
		NatsConn: natsConn,
	}
}

// sendMessage sends the message to the NATS server.
func (m *MessageBuilder) sendMessage(ctx context.Context, subject string, data []byte) error {
	err := m.NatsConn.Publish(subject, data)
	if err != nil {
		slog.ErrorContext(ctx, "error sending message to NATS", logging.ErrKey, err, "subject", subject)
		return err
	}
	slog.DebugContext(ctx, "sent message to NATS", "subject", subject)
	return nil
}

// sendIndexerMessage sends the message to the NATS server for the indexer.
func (m *MessageBuilder) sendIndexerMessage(ctx context.Context, subject string, action models.MessageAction, data []byte, tags []string) error {
	headers := make(map[string]string)
	if authorization, ok := ctx.Value(constants.AuthorizationContextID).(string); ok {
		headers[constants.AuthorizationHeader] = authorization
	} else {
		// Fallback for system-generated events that don't have user auth
		// context. This is just a dummy value so that the indexer service
		// can still process the message, given that it requires an
		// authorization header.
		headers[constants.AuthorizationHeader] = "Bearer governance-service"
	}
	if principal, ok := ctx.Value(constants.PrincipalContextID).(string); ok {
		headers[constants.XOnBehalfOfHeader] = principal
	}
	var payload any
	switch action {
	case models.ActionCreated, models.ActionUpdated:
		// The data should be a JSON object.
		var jsonData any
		if err := json.Unmarshal(data, &jsonData); err != nil {
			slog.ErrorContext(ctx, "error unmarshalling data into JSON", logging.ErrKey, err, "subject", subject)
			return err
		}

		// Decode the JSON data into a map[string]any since that is what the indexer expects.
		config := mapstructure.DecoderConfig{
			TagName: "json",
			Result:  &payload,
		}
		decoder, err := mapstructure.NewDecoder(&config)
		if err != nil {
			slog.ErrorContext(ctx, "error creating decoder", logging.ErrKey, err, "subject", subject)
			return err
		}
		err = decoder.Decode(jsonData)
		if err != nil {
			slog.ErrorContext(ctx, "error decoding data", logging.ErrKey, err, "subject", subject)
			return err
		}
	case models.ActionDeleted:
		// The data should just be a string of the UID being deleted.
		payload = string(data)
	}

	message := models.GovernanceIndexerMessage{
		Action:  action,
		Headers: headers,
		Data:    payload,
		Tags:    tags,
	}

	messageBytes, err := json.Marshal(message)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling message into JSON", logging.ErrKey, err, "subject", subject)
		return err
	}

	slog.DebugContext(ctx, "constructed indexer message",
		"subject", subject,
		"action", action,
		"tags_count", len(tags),
	)

	return m.sendMessage(ctx, subject, messageBytes)
}

// setIndexerTags sets the tags for the indexer.
func (m *MessageBuilder) setIndexerTags(tags ...string) []string {
	return tags
}

// SendIndexMeeting sends the message to the NATS server for the meeting indexing.
func (m *MessageBuilder) SendIndexMeeting(ctx context.Context, action models.MessageAction, data models.Meeting) error {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling data into JSON", logging.ErrKey, err)
		return err
	}

	tags := m.setIndexerTags(data.Tags()...)

	return m.sendIndexerMessage(ctx, models.IndexMeetingSubject, action, dataBytes, tags)
}

// SendDeleteIndexMeeting sends the message to the NATS server for the meeting indexing.
func (m *MessageBuilder) SendDeleteIndexMeeting(ctx context.Context, data string) error {
	return m.sendIndexerMessage(ctx, models.IndexMeetingSubject, models.ActionDeleted, []byte(data), nil)
}

// SendIndexAgendaItem sends the message to the NATS server for the agenda item indexing.
func (m *MessageBuilder) SendIndexAgendaItem(ctx context.Context, action models.MessageAction, data models.AgendaItem) error {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling data into JSON", logging.ErrKey, err)
		return err
	}

	tags := m.setIndexerTags(data.Tags()...)

	return m.sendIndexerMessage(ctx, models.IndexAgendaItemSubject, action, dataBytes, tags)
}

// SendDeleteIndexAgendaItem sends the message to the NATS server for the agenda item indexing.
func (m *MessageBuilder) SendDeleteIndexAgendaItem(ctx context.Context, data string) error {
	return m.sendIndexerMessage(ctx, models.IndexAgendaItemSubject, models.ActionDeleted, []byte(data), nil)
}

// SendIndexVote sends the message to the NATS server for the vote indexing.
func (m *MessageBuilder) SendIndexVote(ctx context.Context, action models.MessageAction, data models.Vote) error {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling data into JSON", logging.ErrKey, err)
		return err
	}

	tags := m.setIndexerTags(data.Tags()...)

	return m.sendIndexerMessage(ctx, models.IndexVoteSubject, action, dataBytes, tags)
}

// SendIndexBallot sends the message to the NATS server for the ballot indexing.
func (m *MessageBuilder) SendIndexBallot(ctx context.Context, action models.MessageAction, data models.Ballot) error {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling data into JSON", logging.ErrKey, err)
		return err
	}

	tags := m.setIndexerTags(data.Tags()...)

	return m.sendIndexerMessage(ctx, models.IndexBallotSubject, action, dataBytes, tags)
}

// SendIndexAttendanceRecord sends the message to the NATS server for the attendance record indexing.
func (m *MessageBuilder) SendIndexAttendanceRecord(ctx context.Context, action models.MessageAction, data models.AttendanceRecord) error {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling data into JSON", logging.ErrKey, err)
		return err
	}

	tags := m.setIndexerTags(data.Tags()...)

	return m.sendIndexerMessage(ctx, models.IndexAttendanceRecordSubject, action, dataBytes, tags)
}

// SendIndexMeetingProtocol sends the message to the NATS server for the meeting protocol indexing.
func (m *MessageBuilder) SendIndexMeetingProtocol(ctx context.Context, action models.MessageAction, data models.MeetingProtocol) error {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling data into JSON", logging.ErrKey, err)
		return err
	}

	tags := m.setIndexerTags(data.Tags()...)

	return m.sendIndexerMessage(ctx, models.IndexMeetingProtocolSubject, action, dataBytes, tags)
}

// SendUpdateAccessMeeting sends the message to the NATS server for the access control updates.
func (m *MessageBuilder) SendUpdateAccessMeeting(ctx context.Context, data models.MeetingAccessMessage) error {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling data into JSON", logging.ErrKey, err)
		return err
	}

	return m.sendMessage(ctx, models.UpdateAccessMeetingSubject, dataBytes)
}

// SendDeleteAllAccessMeeting sends the message to the NATS server for the access control deletion.
func (m *MessageBuilder) SendDeleteAllAccessMeeting(ctx context.Context, data string) error {
	return m.sendMessage(ctx, models.DeleteAllAccessMeetingSubject, []byte(data))
}

// SendVoteClosed sends a message about a vote being closed with its frozen tally.
func (m *MessageBuilder) SendVoteClosed(ctx context.Context, data models.VoteClosedMessage) error {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling data into JSON", logging.ErrKey, err)
		return err
	}

	return m.sendMessage(ctx, models.VoteClosedSubject, dataBytes)
}

// SendProtocolFinalized sends a message about a meeting protocol being finalized.
func (m *MessageBuilder) SendProtocolFinalized(ctx context.Context, data models.ProtocolFinalizedMessage) error {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling data into JSON", logging.ErrKey, err)
		return err
	}

	return m.sendMessage(ctx, models.ProtocolFinalizedSubject, dataBytes)
}

// request sends a request/reply message to the NATS server and returns the
// raw reply data.
func (m *MessageBuilder) request(ctx context.Context, subject string, data []byte) ([]byte, error) {
	if !m.NatsConn.IsConnected() {
		return nil, domain.NewUnavailableError("NATS connection is not available")
	}

	msg, err := m.NatsConn.Request(subject, data, membershipRequestTimeout)
	if err != nil {
		slog.ErrorContext(ctx, "error sending request to NATS", logging.ErrKey, err, "subject", subject)
		return nil, domain.NewUnavailableError(
			fmt.Sprintf("request on subject '%s' failed", subject), err)
	}

	return msg.Data, nil
}

// IsActiveVotingMember asks the Membership Authority for a member's current
// voting status within an organization.
func (m *MessageBuilder) IsActiveVotingMember(ctx context.Context, organizationUID, memberUID string) (*models.MembershipStatus, error) {
	payload, err := json.Marshal(models.MembershipLookupRequest{
		OrganizationUID: organizationUID,
		MemberUID:       memberUID,
	})
	if err != nil {
		return nil, domain.NewInternalError("failed to marshal membership lookup request", err)
	}

	data, err := m.request(ctx, models.MembershipVotingStatusSubject, payload)
	if err != nil {
		return nil, err
	}

	var status models.MembershipStatus
	if err := json.Unmarshal(data, &status); err != nil {
		slog.ErrorContext(ctx, "error unmarshalling membership status reply", logging.ErrKey, err)
		return nil, domain.NewInternalError("failed to unmarshal membership status reply", err)
	}

	return &status, nil
}

// CountEligibleMembers asks the Membership Authority for the number of
// active, voting-eligible memberships of an organization.
func (m *MessageBuilder) CountEligibleMembers(ctx context.Context, organizationUID string) (int, error) {
	payload, err := json.Marshal(models.EligibleCountRequest{
		OrganizationUID: organizationUID,
	})
	if err != nil {
		return 0, domain.NewInternalError("failed to marshal eligible count request", err)
	}

	data, err := m.request(ctx, models.MembershipEligibleCountSubject, payload)
	if err != nil {
		return 0, err
	}

	var response models.EligibleCountResponse
	if err := json.Unmarshal(data, &response); err != nil {
		slog.ErrorContext(ctx, "error unmarshalling eligible count reply", logging.ErrKey, err)
		return 0, domain.NewInternalError("failed to unmarshal eligible count reply", err)
	}

	return response.Count, nil
}
