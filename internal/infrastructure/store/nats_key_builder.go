// Copyright The Open Assembly Project contributors.
// SPDX-License-Identifier: MIT

package store

import (
	"fmt"
	"strings"
)

// Common key prefixes
const (
	// Entity prefixes
	KeyPrefixMeeting      = "meeting"
	KeyPrefixVote         = "vote"
	KeyPrefixMember       = "member"
	KeyPrefixOrganization = "organization"

	// Registry prefixes
	KeyPrefixFinal   = "final"
	KeyPrefixCounter = "counter"
)

// KeyBuilder provides utilities for building consistent NATS KV keys
type KeyBuilder struct {
	prefix string
}

// NewKeyBuilder creates a new key builder with an optional prefix
func NewKeyBuilder(prefix string) *KeyBuilder {
	return &KeyBuilder{
		prefix: prefix,
	}
}

// EntityKey builds a key for an entity (e.g., "vote/uid-123")
func (kb *KeyBuilder) EntityKey(entityType, uid string) string {
	key := fmt.Sprintf("%s/%s", entityType, uid)
	return kb.applyPrefix(key)
}

// CompoundKey builds a compound key from multiple parts
// (e.g., "vote/uid-123/member/uid-456")
func (kb *KeyBuilder) CompoundKey(parts ...string) string {
	key := strings.Join(parts, "/")
	return kb.applyPrefix(key)
}

// BallotKey builds the unique key of a member's ballot on a vote. The
// (vote, member) pair is the uniqueness constraint behind one ballot per
// member per vote.
func (kb *KeyBuilder) BallotKey(voteUID, memberUID string) string {
	return kb.CompoundKey(KeyPrefixVote, voteUID, KeyPrefixMember, memberUID)
}

// AttendanceKey builds the unique key of a member's attendance record in a
// meeting.
func (kb *KeyBuilder) AttendanceKey(meetingUID, memberUID string) string {
	return kb.CompoundKey(KeyPrefixMeeting, meetingUID, KeyPrefixMember, memberUID)
}

// FinalProtocolKey builds the key of the marker that claims the single
// FINAL protocol slot of a meeting.
func (kb *KeyBuilder) FinalProtocolKey(meetingUID string) string {
	return kb.CompoundKey(KeyPrefixMeeting, meetingUID, KeyPrefixFinal)
}

// ProtocolCounterKey builds the key of an organization's protocol number
// counter.
func (kb *KeyBuilder) ProtocolCounterKey(organizationUID string) string {
	return kb.CompoundKey(KeyPrefixCounter, KeyPrefixOrganization, organizationUID)
}

// applyPrefix adds the builder's prefix if one is set
func (kb *KeyBuilder) applyPrefix(key string) string {
	if kb.prefix == "" {
		return key
	}
	return fmt.Sprintf("%s/%s", kb.prefix, key)
}
