// Copyright The Open Assembly Project contributors.
// SPDX-License-Identifier: MIT

package models

import (
	"fmt"
	"time"
)

// VoteStatus is the state of a vote on an agenda resolution.
// The only transition is open -> closed, exactly once.
type VoteStatus string

const (
	// VoteStatusOpen is a vote that accepts ballots.
	VoteStatusOpen VoteStatus = "open"
	// VoteStatusClosed is a vote that no longer accepts ballots. Terminal.
	VoteStatusClosed VoteStatus = "closed"
)

// BallotChoice is a member's recorded choice on a vote.
type BallotChoice string

const (
	BallotChoiceFor     BallotChoice = "for"
	BallotChoiceAgainst BallotChoice = "against"
	BallotChoiceAbstain BallotChoice = "abstain"
)

// IsValid reports whether the choice is one of the recognized ballot choices.
func (c BallotChoice) IsValid() bool {
	switch c {
	case BallotChoiceFor, BallotChoiceAgainst, BallotChoiceAbstain:
		return true
	}
	return false
}

// BallotChannel is the pathway through which a ballot was cast.
type BallotChannel string

const (
	// BallotChannelLive is the in-person (or written proxy) voting pathway.
	BallotChannelLive BallotChannel = "live"
	// BallotChannelRemote is the remote voting pathway.
	BallotChannelRemote BallotChannel = "remote"
)

// IsValid reports whether the channel is one of the recognized ballot channels.
func (c BallotChannel) IsValid() bool {
	return c == BallotChannelLive || c == BallotChannelRemote
}

// Vote is the key-value store representation of a vote on an agenda item.
type Vote struct {
	UID             string     `json:"uid"`
	AgendaItemUID   string     `json:"agenda_item_uid"`
	MeetingUID      string     `json:"meeting_uid"`
	OrganizationUID string     `json:"organization_uid"`
	Status          VoteStatus `json:"status"`
	ClosedAt        *time.Time `json:"closed_at,omitempty"`
	CreatedAt       *time.Time `json:"created_at,omitempty"`
}

// IsOpen reports whether the vote still accepts ballots.
func (v *Vote) IsOpen() bool {
	return v != nil && v.Status == VoteStatusOpen
}

// Tags generates a consistent set of tags for the vote for searching/indexing.
func (v *Vote) Tags() []string {
	tags := []string{}

	if v == nil {
		return nil
	}

	if v.UID != "" {
		tags = append(tags, v.UID)
		tags = append(tags, fmt.Sprintf("vote_uid:%s", v.UID))
	}

	if v.MeetingUID != "" {
		tags = append(tags, fmt.Sprintf("meeting_uid:%s", v.MeetingUID))
	}

	if v.AgendaItemUID != "" {
		tags = append(tags, fmt.Sprintf("agenda_item_uid:%s", v.AgendaItemUID))
	}

	if v.Status != "" {
		tags = append(tags, fmt.Sprintf("status:%s", v.Status))
	}

	return tags
}

// Ballot is one member's recorded choice on one vote. At most one ballot
// exists per (vote, member) pair regardless of channel, and a ballot is
// never mutated or deleted once created.
type Ballot struct {
	VoteUID    string        `json:"vote_uid"`
	MemberUID  string        `json:"member_uid"`
	MeetingUID string        `json:"meeting_uid"`
	Choice     BallotChoice  `json:"choice"`
	Channel    BallotChannel `json:"channel"`
	CastAt     time.Time     `json:"cast_at"`
}

// Tags generates a consistent set of tags for the ballot for searching/indexing.
func (b *Ballot) Tags() []string {
	tags := []string{}

	if b == nil {
		return nil
	}

	if b.VoteUID != "" {
		tags = append(tags, fmt.Sprintf("vote_uid:%s", b.VoteUID))
	}

	if b.MemberUID != "" {
		tags = append(tags, fmt.Sprintf("member_uid:%s", b.MemberUID))
	}

	if b.Channel != "" {
		tags = append(tags, fmt.Sprintf("channel:%s", b.Channel))
	}

	return tags
}

// CastBallotRequest is a request to record a member's ballot on a vote.
type CastBallotRequest struct {
	VoteUID   string        // Vote the ballot is cast on
	MemberUID string        // Member casting the ballot
	Choice    BallotChoice  // for/against/abstain
	Channel   BallotChannel // live/remote
}

// BallotEligibility is the result of the read-only CanCastVote predicate.
// Reason carries the outcome code that CastBallot would fail with, empty
// when the member may cast.
type BallotEligibility struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}
