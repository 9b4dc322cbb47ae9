// Copyright The Open Assembly Project contributors.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"fmt"

	"github.com/openassembly/governance-service/internal/domain"
	"github.com/openassembly/governance-service/internal/domain/models"
)

// NatsBallotRepository is the NATS KV store repository for ballots.
//
// Ballots are keyed by (vote, member), so the KV create operation is the
// uniqueness constraint: one ballot per member per vote, enforced by the
// store rather than by a read-then-write race.
type NatsBallotRepository struct {
	*NatsBaseRepository[models.Ballot]
	keyBuilder *KeyBuilder
}

// NewNatsBallotRepository creates a new NATS KV store repository for ballots.
func NewNatsBallotRepository(kvStore INatsKeyValue) *NatsBallotRepository {
	return &NatsBallotRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.Ballot](kvStore, "ballot"),
		keyBuilder:         NewKeyBuilder(""),
	}
}

// Create records a ballot if and only if no ballot exists for the
// (vote, member) pair. A repeated or concurrent cast yields a conflict.
func (r *NatsBallotRepository) Create(ctx context.Context, ballot *models.Ballot) error {
	if ballot.VoteUID == "" || ballot.MemberUID == "" {
		return domain.NewValidationError("ballot vote UID and member UID are required")
	}

	key := r.keyBuilder.BallotKey(ballot.VoteUID, ballot.MemberUID)
	return r.CreateOnly(ctx, key, ballot)
}

// Get retrieves a member's ballot on a vote.
func (r *NatsBallotRepository) Get(ctx context.Context, voteUID, memberUID string) (*models.Ballot, error) {
	key := r.keyBuilder.BallotKey(voteUID, memberUID)
	return r.NatsBaseRepository.Get(ctx, key)
}

// Exists checks whether a member has already cast a ballot on a vote.
func (r *NatsBallotRepository) Exists(ctx context.Context, voteUID, memberUID string) (bool, error) {
	key := r.keyBuilder.BallotKey(voteUID, memberUID)
	return r.NatsBaseRepository.Exists(ctx, key)
}

// ListByVote retrieves all ballots cast on a vote.
func (r *NatsBallotRepository) ListByVote(ctx context.Context, voteUID string) ([]*models.Ballot, error) {
	pattern := fmt.Sprintf("%s/%s/", KeyPrefixVote, voteUID)
	return r.ListEntities(ctx, pattern)
}

// CountByMeetingAndMember counts a member's ballots across all votes of a
// meeting.
func (r *NatsBallotRepository) CountByMeetingAndMember(ctx context.Context, meetingUID, memberUID string) (int, error) {
	allBallots, err := r.ListEntities(ctx, "")
	if err != nil {
		return 0, err
	}

	count := 0
	for _, ballot := range allBallots {
		if ballot.MeetingUID == meetingUID && ballot.MemberUID == memberUID {
			count++
		}
	}

	return count, nil
}
