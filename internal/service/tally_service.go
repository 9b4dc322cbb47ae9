// Copyright The Open Assembly Project contributors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"

	"github.com/openassembly/governance-service/internal/domain"
	"github.com/openassembly/governance-service/internal/domain/models"
	"github.com/openassembly/governance-service/internal/logging"
)

// TallyService implements the tally reconciler: live and remote ballots
// merged into one authoritative count, derived from the ballot set on
// every call and never cached.
type TallyService struct {
	voteRepository   domain.VoteRepository
	ballotRepository domain.BallotRepository
}

// NewTallyService creates a new TallyService.
func NewTallyService(
	voteRepository domain.VoteRepository,
	ballotRepository domain.BallotRepository,
) *TallyService {
	return &TallyService{
		voteRepository:   voteRepository,
		ballotRepository: ballotRepository,
	}
}

// ServiceReady checks if the service is ready for use.
func (s *TallyService) ServiceReady() bool {
	return s.voteRepository != nil && s.ballotRepository != nil
}

// TallyVote reconciles a vote's ballots into per-channel and combined
// counts. The result reflects the ballot set at the moment of the read; a
// cast racing this call lands in the next read.
func (s *TallyService) TallyVote(ctx context.Context, voteUID string) (*models.VoteTally, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("tally service is not ready")
	}

	ctx = logging.AppendCtx(ctx, slog.String("vote_uid", voteUID))

	vote, err := s.voteRepository.Get(ctx, voteUID)
	if err != nil {
		return nil, err
	}

	ballots, err := s.ballotRepository.ListByVote(ctx, voteUID)
	if err != nil {
		return nil, err
	}

	tally := models.ReconcileBallots(voteUID, vote.Status, ballots)

	slog.DebugContext(ctx, "vote tally reconciled",
		"ballot_count", tally.Combined.Total,
		"vote_status", vote.Status,
	)

	return &tally, nil
}
