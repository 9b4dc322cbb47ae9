// Copyright The Open Assembly Project contributors.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"sort"

	"github.com/openassembly/governance-service/internal/domain"
	"github.com/openassembly/governance-service/internal/domain/models"
)

// NatsAgendaItemRepository is the NATS KV store repository for agenda items.
type NatsAgendaItemRepository struct {
	*NatsBaseRepository[models.AgendaItem]
}

// NewNatsAgendaItemRepository creates a new NATS KV store repository for agenda items.
func NewNatsAgendaItemRepository(kvStore INatsKeyValue) *NatsAgendaItemRepository {
	return &NatsAgendaItemRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.AgendaItem](kvStore, "agenda item"),
	}
}

// Create stores a new agenda item keyed by its UID.
func (r *NatsAgendaItemRepository) Create(ctx context.Context, item *models.AgendaItem) error {
	if item.UID == "" {
		return domain.NewValidationError("agenda item UID is required")
	}

	return r.NatsBaseRepository.Create(ctx, item.UID, item)
}

// Get retrieves an agenda item by UID.
func (r *NatsAgendaItemRepository) Get(ctx context.Context, itemUID string) (*models.AgendaItem, error) {
	return r.NatsBaseRepository.Get(ctx, itemUID)
}

// GetWithRevision retrieves an agenda item with its revision by UID.
func (r *NatsAgendaItemRepository) GetWithRevision(ctx context.Context, itemUID string) (*models.AgendaItem, uint64, error) {
	return r.NatsBaseRepository.GetWithRevision(ctx, itemUID)
}

// Update updates an existing agenda item with optimistic concurrency control.
func (r *NatsAgendaItemRepository) Update(ctx context.Context, item *models.AgendaItem, revision uint64) error {
	return r.NatsBaseRepository.Update(ctx, item.UID, item, revision)
}

// ListByMeeting retrieves the meeting's agenda items sorted by sequence.
func (r *NatsAgendaItemRepository) ListByMeeting(ctx context.Context, meetingUID string) ([]*models.AgendaItem, error) {
	allItems, err := r.ListEntities(ctx, "")
	if err != nil {
		return nil, err
	}

	var items []*models.AgendaItem
	for _, item := range allItems {
		if item.MeetingUID == meetingUID {
			items = append(items, item)
		}
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].Sequence < items[j].Sequence
	})

	return items, nil
}
