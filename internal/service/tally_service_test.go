// Copyright The Open Assembly Project contributors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/openassembly/governance-service/internal/domain"
	"github.com/openassembly/governance-service/internal/domain/models"
)

func setupTallyServiceForTesting() (*TallyService, *domain.MockVoteRepository, *domain.MockBallotRepository) {
	mockVoteRepo := new(domain.MockVoteRepository)
	mockBallotRepo := new(domain.MockBallotRepository)

	service := NewTallyService(mockVoteRepo, mockBallotRepo)

	return service, mockVoteRepo, mockBallotRepo
}

func TestTallyService_TallyVote(t *testing.T) {
	ctx := context.Background()

	t.Run("reconciles live and remote ballots", func(t *testing.T) {
		service, voteRepo, ballotRepo := setupTallyServiceForTesting()

		voteRepo.On("Get", mock.Anything, "vote-1").Return(openVote("vote-1"), nil)
		ballotRepo.On("ListByVote", mock.Anything, "vote-1").Return([]*models.Ballot{
			{VoteUID: "vote-1", MemberUID: "member-1", Choice: models.BallotChoiceFor, Channel: models.BallotChannelLive},
			{VoteUID: "vote-1", MemberUID: "member-2", Choice: models.BallotChoiceFor, Channel: models.BallotChannelLive},
			{VoteUID: "vote-1", MemberUID: "member-3", Choice: models.BallotChoiceAgainst, Channel: models.BallotChannelLive},
			{VoteUID: "vote-1", MemberUID: "member-4", Choice: models.BallotChoiceFor, Channel: models.BallotChannelRemote},
			{VoteUID: "vote-1", MemberUID: "member-5", Choice: models.BallotChoiceAbstain, Channel: models.BallotChannelRemote},
		}, nil)

		tally, err := service.TallyVote(ctx, "vote-1")

		assert.NoError(t, err)
		assert.Equal(t, "vote-1", tally.VoteUID)
		assert.Equal(t, models.VoteStatusOpen, tally.VoteStatus)
		assert.Equal(t, models.TallyCounts{For: 2, Against: 1, Abstain: 0, Total: 3}, tally.Live)
		assert.Equal(t, models.TallyCounts{For: 1, Against: 0, Abstain: 1, Total: 2}, tally.Remote)
		assert.Equal(t, models.TallyCounts{For: 3, Against: 1, Abstain: 1, Total: 5}, tally.Combined)
	})

	t.Run("empty ballot set yields a zero tally", func(t *testing.T) {
		service, voteRepo, ballotRepo := setupTallyServiceForTesting()

		closed := openVote("vote-1")
		closed.Status = models.VoteStatusClosed
		voteRepo.On("Get", mock.Anything, "vote-1").Return(closed, nil)
		ballotRepo.On("ListByVote", mock.Anything, "vote-1").Return([]*models.Ballot{}, nil)

		tally, err := service.TallyVote(ctx, "vote-1")

		assert.NoError(t, err)
		assert.Equal(t, models.VoteStatusClosed, tally.VoteStatus)
		assert.Equal(t, 0, tally.Combined.Total)
	})

	t.Run("unknown vote", func(t *testing.T) {
		service, voteRepo, ballotRepo := setupTallyServiceForTesting()

		voteRepo.On("Get", mock.Anything, "vote-404").Return(nil, domain.NewNotFoundError("vote not found"))

		tally, err := service.TallyVote(ctx, "vote-404")

		assert.Error(t, err)
		assert.Nil(t, tally)
		assert.Equal(t, domain.ErrorTypeNotFound, domain.GetErrorType(err))
		ballotRepo.AssertNotCalled(t, "ListByVote", mock.Anything, mock.Anything)
	})
}
