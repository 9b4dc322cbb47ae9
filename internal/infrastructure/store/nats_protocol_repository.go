// Copyright The Open Assembly Project contributors.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/openassembly/governance-service/internal/domain"
	"github.com/openassembly/governance-service/internal/domain/models"
	"github.com/openassembly/governance-service/internal/logging"
	"github.com/openassembly/governance-service/pkg/utils"
)

// counterRetryLimit bounds the CAS loop when allocating protocol numbers
// under contention.
const counterRetryLimit = 10

// NatsProtocolRepository is the NATS KV store repository for meeting
// protocols.
//
// Protocol rows live in their own bucket keyed by UID. The registry bucket
// holds two kinds of bookkeeping keys: the FINAL marker of a meeting,
// which is created exactly once so at most one protocol per meeting can
// win finalization, and the per-organization protocol number counter,
// advanced with revision-checked updates so numbers are strictly
// increasing and never reused.
type NatsProtocolRepository struct {
	*NatsBaseRepository[models.MeetingProtocol]
	registry   INatsKeyValue
	keyBuilder *KeyBuilder
}

// NewNatsProtocolRepository creates a new NATS KV store repository for
// meeting protocols.
func NewNatsProtocolRepository(kvStore INatsKeyValue, registry INatsKeyValue) *NatsProtocolRepository {
	return &NatsProtocolRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.MeetingProtocol](kvStore, "meeting protocol"),
		registry:           registry,
		keyBuilder:         NewKeyBuilder(""),
	}
}

// IsReady checks if the repository is ready for use.
func (r *NatsProtocolRepository) IsReady() bool {
	return r.NatsBaseRepository.IsReady() && r.registry != nil
}

// Create stores a new protocol keyed by its UID. Protocol rows are never
// overwritten; corrections are new rows.
func (r *NatsProtocolRepository) Create(ctx context.Context, protocol *models.MeetingProtocol) error {
	if protocol.UID == "" {
		return domain.NewValidationError("protocol UID is required")
	}

	return r.CreateOnly(ctx, protocol.UID, protocol)
}

// Get retrieves a protocol by UID.
func (r *NatsProtocolRepository) Get(ctx context.Context, protocolUID string) (*models.MeetingProtocol, error) {
	return r.NatsBaseRepository.Get(ctx, protocolUID)
}

// GetWithRevision retrieves a protocol with its revision by UID.
func (r *NatsProtocolRepository) GetWithRevision(ctx context.Context, protocolUID string) (*models.MeetingProtocol, uint64, error) {
	return r.NatsBaseRepository.GetWithRevision(ctx, protocolUID)
}

// GetFinalByMeeting returns the meeting's FINAL protocol, or a not-found
// error when the meeting has none.
func (r *NatsProtocolRepository) GetFinalByMeeting(ctx context.Context, meetingUID string) (*models.MeetingProtocol, error) {
	if r.registry == nil {
		return nil, domain.NewUnavailableError("protocol registry is not available")
	}

	markerKey := r.keyBuilder.FinalProtocolKey(meetingUID)
	entry, err := r.registry.Get(ctx, markerKey)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, domain.NewNotFoundError(
				fmt.Sprintf("meeting '%s' has no final protocol", meetingUID), err)
		}
		slog.ErrorContext(ctx, "error getting final protocol marker from NATS KV",
			logging.ErrKey, err, "meeting_uid", meetingUID)
		return nil, domain.NewInternalError("failed to retrieve final protocol marker", err)
	}

	return r.Get(ctx, string(entry.Value()))
}

// MarkFinal atomically claims the FINAL slot of a meeting for the given
// protocol. Exactly one caller wins; the rest get a conflict.
func (r *NatsProtocolRepository) MarkFinal(ctx context.Context, meetingUID, protocolUID string) error {
	if r.registry == nil {
		return domain.NewUnavailableError("protocol registry is not available")
	}

	markerKey := r.keyBuilder.FinalProtocolKey(meetingUID)
	_, err := r.registry.Create(ctx, markerKey, []byte(protocolUID))
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyExists) {
			return domain.NewAlreadyFinalizedError(
				fmt.Sprintf("meeting '%s' already has a final protocol", meetingUID), err)
		}
		slog.ErrorContext(ctx, "error creating final protocol marker in NATS KV",
			logging.ErrKey, err, "meeting_uid", meetingUID, "protocol_uid", protocolUID)
		return domain.NewInternalError("failed to mark protocol as final", err)
	}

	return nil
}

// NextProtocolNumber returns the organization's next protocol number.
// Numbers are allocated with a revision-checked counter, so they are
// strictly increasing and never reused even under concurrent finalization
// of different meetings.
func (r *NatsProtocolRepository) NextProtocolNumber(ctx context.Context, organizationUID string) (uint64, error) {
	if r.registry == nil {
		return 0, domain.NewUnavailableError("protocol registry is not available")
	}

	counterKey := r.keyBuilder.ProtocolCounterKey(organizationUID)
	for attempt := 0; attempt < counterRetryLimit; attempt++ {
		entry, err := r.registry.Get(ctx, counterKey)
		if err != nil {
			if errors.Is(err, jetstream.ErrKeyNotFound) {
				_, err = r.registry.Create(ctx, counterKey, []byte("1"))
				if err != nil {
					if errors.Is(err, jetstream.ErrKeyExists) {
						// Another allocator seeded the counter first.
						continue
					}
					slog.ErrorContext(ctx, "error seeding protocol counter in NATS KV",
						logging.ErrKey, err, "organization_uid", organizationUID)
					return 0, domain.NewInternalError("failed to seed protocol counter", err)
				}
				return 1, nil
			}
			slog.ErrorContext(ctx, "error getting protocol counter from NATS KV",
				logging.ErrKey, err, "organization_uid", organizationUID)
			return 0, domain.NewInternalError("failed to retrieve protocol counter", err)
		}

		current, err := strconv.ParseUint(string(entry.Value()), 10, 64)
		if err != nil {
			slog.ErrorContext(ctx, "protocol counter holds a non-numeric value",
				logging.ErrKey, err, "organization_uid", organizationUID, "value", string(entry.Value()))
			return 0, domain.NewInternalError("protocol counter is corrupted", err)
		}

		next := current + 1
		_, err = r.registry.Update(ctx, counterKey, []byte(strconv.FormatUint(next, 10)), entry.Revision())
		if err != nil {
			if strings.Contains(err.Error(), "wrong last sequence") {
				continue
			}
			slog.ErrorContext(ctx, "error advancing protocol counter in NATS KV",
				logging.ErrKey, err, "organization_uid", organizationUID)
			return 0, domain.NewInternalError("failed to advance protocol counter", err)
		}

		return next, nil
	}

	return 0, domain.NewConflictError(
		fmt.Sprintf("protocol counter for organization '%s' is contended", organizationUID))
}

// AttachDocument records the rendered document reference on a FINAL
// protocol, exactly once.
func (r *NatsProtocolRepository) AttachDocument(ctx context.Context, protocolUID, documentRef string) error {
	if documentRef == "" {
		return domain.NewValidationError("document reference is required")
	}

	protocol, revision, err := r.GetWithRevision(ctx, protocolUID)
	if err != nil {
		return err
	}

	if !protocol.IsFinal() {
		return domain.NewValidationError(
			fmt.Sprintf("protocol '%s' is not final", protocolUID))
	}
	if utils.StringValue(protocol.DocumentRef) != "" {
		return domain.NewConflictError(
			fmt.Sprintf("protocol '%s' already has an attached document", protocolUID))
	}

	protocol.DocumentRef = utils.StringPtr(documentRef)
	return r.NatsBaseRepository.Update(ctx, protocolUID, protocol, revision)
}

// ListByMeeting retrieves all protocol rows of a meeting, draft and final.
func (r *NatsProtocolRepository) ListByMeeting(ctx context.Context, meetingUID string) ([]*models.MeetingProtocol, error) {
	allProtocols, err := r.ListEntities(ctx, "")
	if err != nil {
		return nil, err
	}

	var protocols []*models.MeetingProtocol
	for _, protocol := range allProtocols {
		if protocol.MeetingUID == meetingUID {
			protocols = append(protocols, protocol)
		}
	}

	return protocols, nil
}
