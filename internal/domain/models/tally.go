// Copyright The Open Assembly Project contributors.
// SPDX-License-Identifier: MIT

package models

// TallyCounts are the per-choice counts of one channel (or of both combined).
type TallyCounts struct {
	For     int `json:"for"`
	Against int `json:"against"`
	Abstain int `json:"abstain"`
	Total   int `json:"total"`
}

// AddBallot counts one ballot choice.
func (t *TallyCounts) AddBallot(choice BallotChoice) {
	switch choice {
	case BallotChoiceFor:
		t.For++
	case BallotChoiceAgainst:
		t.Against++
	case BallotChoiceAbstain:
		t.Abstain++
	default:
		return
	}
	t.Total++
}

// Plus returns the element-wise sum of two tallies.
func (t TallyCounts) Plus(other TallyCounts) TallyCounts {
	return TallyCounts{
		For:     t.For + other.For,
		Against: t.Against + other.Against,
		Abstain: t.Abstain + other.Abstain,
		Total:   t.Total + other.Total,
	}
}

// VoteTally is the reconciled result of a vote: per-channel counts and their
// combined sum. Because ballots are unique per (vote, member), a member can
// never contribute to both channels, so Combined.Total always equals
// Live.Total + Remote.Total.
type VoteTally struct {
	VoteUID    string      `json:"vote_uid"`
	VoteStatus VoteStatus  `json:"vote_status"`
	Live       TallyCounts `json:"live"`
	Remote     TallyCounts `json:"remote"`
	Combined   TallyCounts `json:"combined"`
}

// ReconcileBallots derives a vote's tally from its complete ballot set.
// Tallies are always derived on read, never stored alongside the ballots.
func ReconcileBallots(voteUID string, status VoteStatus, ballots []*Ballot) VoteTally {
	tally := VoteTally{
		VoteUID:    voteUID,
		VoteStatus: status,
	}

	for _, ballot := range ballots {
		if ballot == nil {
			continue
		}
		switch ballot.Channel {
		case BallotChannelLive:
			tally.Live.AddBallot(ballot.Choice)
		case BallotChannelRemote:
			tally.Remote.AddBallot(ballot.Choice)
		}
	}

	tally.Combined = tally.Live.Plus(tally.Remote)
	return tally
}
