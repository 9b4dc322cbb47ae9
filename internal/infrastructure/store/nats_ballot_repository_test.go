// Copyright The Open Assembly Project contributors.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openassembly/governance-service/internal/domain"
	"github.com/openassembly/governance-service/internal/domain/models"
)

func testBallot(voteUID, memberUID string, choice models.BallotChoice) *models.Ballot {
	return &models.Ballot{
		VoteUID:    voteUID,
		MemberUID:  memberUID,
		MeetingUID: "meeting-1",
		Choice:     choice,
		Channel:    models.BallotChannelLive,
		CastAt:     time.Now().UTC(),
	}
}

func TestNatsBallotRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("successful create", func(t *testing.T) {
		mockKV := newMockNatsKeyValue()
		repo := NewNatsBallotRepository(mockKV)

		err := repo.Create(ctx, testBallot("vote-1", "member-1", models.BallotChoiceFor))

		assert.NoError(t, err)
		_, exists := mockKV.data["vote/vote-1/member/member-1"]
		assert.True(t, exists)
	})

	t.Run("second ballot for same member conflicts", func(t *testing.T) {
		mockKV := newMockNatsKeyValue()
		repo := NewNatsBallotRepository(mockKV)

		err := repo.Create(ctx, testBallot("vote-1", "member-1", models.BallotChoiceFor))
		require.NoError(t, err)

		err = repo.Create(ctx, testBallot("vote-1", "member-1", models.BallotChoiceAgainst))

		assert.Error(t, err)
		assert.Equal(t, domain.ErrorTypeConflict, domain.GetErrorType(err))

		// The first ballot must survive unchanged.
		ballot, err := repo.Get(ctx, "vote-1", "member-1")
		require.NoError(t, err)
		assert.Equal(t, models.BallotChoiceFor, ballot.Choice)
	})

	t.Run("same member may vote on different votes", func(t *testing.T) {
		mockKV := newMockNatsKeyValue()
		repo := NewNatsBallotRepository(mockKV)

		assert.NoError(t, repo.Create(ctx, testBallot("vote-1", "member-1", models.BallotChoiceFor)))
		assert.NoError(t, repo.Create(ctx, testBallot("vote-2", "member-1", models.BallotChoiceAgainst)))
	})

	t.Run("missing identifiers", func(t *testing.T) {
		repo := NewNatsBallotRepository(newMockNatsKeyValue())

		err := repo.Create(ctx, &models.Ballot{MemberUID: "member-1"})

		assert.Error(t, err)
		assert.Equal(t, domain.ErrorTypeValidation, domain.GetErrorType(err))
	})
}

func TestNatsBallotRepository_Exists(t *testing.T) {
	ctx := context.Background()
	mockKV := newMockNatsKeyValue()
	repo := NewNatsBallotRepository(mockKV)

	require.NoError(t, repo.Create(ctx, testBallot("vote-1", "member-1", models.BallotChoiceAbstain)))

	exists, err := repo.Exists(ctx, "vote-1", "member-1")
	assert.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.Exists(ctx, "vote-1", "member-2")
	assert.NoError(t, err)
	assert.False(t, exists)
}

func TestNatsBallotRepository_ListByVote(t *testing.T) {
	ctx := context.Background()
	mockKV := newMockNatsKeyValue()
	repo := NewNatsBallotRepository(mockKV)

	require.NoError(t, repo.Create(ctx, testBallot("vote-1", "member-1", models.BallotChoiceFor)))
	require.NoError(t, repo.Create(ctx, testBallot("vote-1", "member-2", models.BallotChoiceAgainst)))
	require.NoError(t, repo.Create(ctx, testBallot("vote-2", "member-1", models.BallotChoiceFor)))

	ballots, err := repo.ListByVote(ctx, "vote-1")

	assert.NoError(t, err)
	assert.Len(t, ballots, 2)
	for _, ballot := range ballots {
		assert.Equal(t, "vote-1", ballot.VoteUID)
	}
}

func TestNatsBallotRepository_CountByMeetingAndMember(t *testing.T) {
	ctx := context.Background()
	mockKV := newMockNatsKeyValue()
	repo := NewNatsBallotRepository(mockKV)

	require.NoError(t, repo.Create(ctx, testBallot("vote-1", "member-1", models.BallotChoiceFor)))
	require.NoError(t, repo.Create(ctx, testBallot("vote-2", "member-1", models.BallotChoiceAgainst)))
	require.NoError(t, repo.Create(ctx, testBallot("vote-1", "member-2", models.BallotChoiceFor)))

	count, err := repo.CountByMeetingAndMember(ctx, "meeting-1", "member-1")
	assert.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = repo.CountByMeetingAndMember(ctx, "meeting-1", "member-3")
	assert.NoError(t, err)
	assert.Equal(t, 0, count)
}
