// Copyright The Open Assembly Project contributors.
// SPDX-License-Identifier: MIT

package models

import "github.com/openassembly/governance-service/pkg/constants"

// MembershipStatus is the Membership Authority's answer about one member of
// an organization. Active tells whether the membership exists and is not
// terminated; CanVote tells whether voting rights are currently held (e.g.,
// not suspended over outstanding dues).
type MembershipStatus struct {
	Active  bool   `json:"active"`
	CanVote bool   `json:"can_vote"`
	Role    string `json:"role,omitempty"`
}

// IsChairOrBoard reports whether the member holds chair/board authority.
func (m *MembershipStatus) IsChairOrBoard() bool {
	if m == nil {
		return false
	}
	return m.Role == constants.RoleChair || m.Role == constants.RoleBoard
}

// MembershipLookupRequest is the request payload sent to the Membership
// Authority for a voting-status lookup.
type MembershipLookupRequest struct {
	OrganizationUID string `json:"organization_uid"`
	MemberUID       string `json:"member_uid"`
}

// EligibleCountRequest is the request payload for the count of active
// memberships of an organization.
type EligibleCountRequest struct {
	OrganizationUID string `json:"organization_uid"`
}

// EligibleCountResponse is the Membership Authority's response with the
// number of active, voting-eligible memberships.
type EligibleCountResponse struct {
	Count int `json:"count"`
}

// MembershipEvent is an event published by the Membership Authority when a
// membership changes (deactivation, voting-rights suspension).
type MembershipEvent struct {
	OrganizationUID string `json:"organization_uid"`
	MemberUID       string `json:"member_uid"`
	Active          bool   `json:"active"`
	CanVote         bool   `json:"can_vote"`
}
