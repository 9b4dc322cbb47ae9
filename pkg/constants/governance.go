// Copyright The Open Assembly Project contributors.
// SPDX-License-Identifier: MIT

package constants

// Roles recognized by the governance service for administrative operations.
const (
	// RoleChair is the chairperson role of an organization.
	RoleChair = "chair"

	// RoleBoard is the board member role of an organization.
	RoleBoard = "board"

	// RoleMember is a regular member role of an organization.
	RoleMember = "member"
)

// SnapshotTallyWorkers is the number of concurrent workers used when
// tallying the votes of a meeting's agenda items for a protocol snapshot.
const SnapshotTallyWorkers = 5

// FinalizeFollowUpWorkers is the number of concurrent workers used for the
// best-effort notifications sent after a protocol is finalized.
const FinalizeFollowUpWorkers = 3
