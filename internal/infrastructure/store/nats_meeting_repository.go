// Copyright The Open Assembly Project contributors.
// SPDX-License-Identifier: MIT

package store

import (
	"context"

	"github.com/openassembly/governance-service/internal/domain"
	"github.com/openassembly/governance-service/internal/domain/models"
)

// NatsMeetingRepository is the NATS KV store repository for meetings.
type NatsMeetingRepository struct {
	*NatsBaseRepository[models.Meeting]
}

// NewNatsMeetingRepository creates a new NATS KV store repository for meetings.
func NewNatsMeetingRepository(kvStore INatsKeyValue) *NatsMeetingRepository {
	return &NatsMeetingRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.Meeting](kvStore, "meeting"),
	}
}

// Create stores a new meeting keyed by its UID.
func (r *NatsMeetingRepository) Create(ctx context.Context, meeting *models.Meeting) error {
	if meeting.UID == "" {
		return domain.NewValidationError("meeting UID is required")
	}

	return r.NatsBaseRepository.Create(ctx, meeting.UID, meeting)
}

// Exists checks if a meeting exists.
func (r *NatsMeetingRepository) Exists(ctx context.Context, meetingUID string) (bool, error) {
	return r.NatsBaseRepository.Exists(ctx, meetingUID)
}

// Get retrieves a meeting by UID.
func (r *NatsMeetingRepository) Get(ctx context.Context, meetingUID string) (*models.Meeting, error) {
	return r.NatsBaseRepository.Get(ctx, meetingUID)
}

// GetWithRevision retrieves a meeting with its revision by UID.
func (r *NatsMeetingRepository) GetWithRevision(ctx context.Context, meetingUID string) (*models.Meeting, uint64, error) {
	return r.NatsBaseRepository.GetWithRevision(ctx, meetingUID)
}

// Update updates an existing meeting with optimistic concurrency control.
func (r *NatsMeetingRepository) Update(ctx context.Context, meeting *models.Meeting, revision uint64) error {
	return r.NatsBaseRepository.Update(ctx, meeting.UID, meeting, revision)
}

// ListAll lists all meetings.
func (r *NatsMeetingRepository) ListAll(ctx context.Context) ([]*models.Meeting, error) {
	return r.ListEntities(ctx, "")
}
