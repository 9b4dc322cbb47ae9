// Copyright The Open Assembly Project contributors.
// SPDX-License-Identifier: MIT

package store

import (
	"context"

	"github.com/openassembly/governance-service/internal/domain"
	"github.com/openassembly/governance-service/internal/domain/models"
)

// NatsVoteRepository is the NATS KV store repository for votes.
type NatsVoteRepository struct {
	*NatsBaseRepository[models.Vote]
}

// NewNatsVoteRepository creates a new NATS KV store repository for votes.
func NewNatsVoteRepository(kvStore INatsKeyValue) *NatsVoteRepository {
	return &NatsVoteRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.Vote](kvStore, "vote"),
	}
}

// Create stores a new vote keyed by its UID.
func (r *NatsVoteRepository) Create(ctx context.Context, vote *models.Vote) error {
	if vote.UID == "" {
		return domain.NewValidationError("vote UID is required")
	}

	return r.NatsBaseRepository.Create(ctx, vote.UID, vote)
}

// Get retrieves a vote by UID.
func (r *NatsVoteRepository) Get(ctx context.Context, voteUID string) (*models.Vote, error) {
	return r.NatsBaseRepository.Get(ctx, voteUID)
}

// GetWithRevision retrieves a vote with its revision by UID.
func (r *NatsVoteRepository) GetWithRevision(ctx context.Context, voteUID string) (*models.Vote, uint64, error) {
	return r.NatsBaseRepository.GetWithRevision(ctx, voteUID)
}

// Update updates an existing vote with optimistic concurrency control.
func (r *NatsVoteRepository) Update(ctx context.Context, vote *models.Vote, revision uint64) error {
	return r.NatsBaseRepository.Update(ctx, vote.UID, vote, revision)
}
