// Copyright The Open Assembly Project contributors.
// SPDX-License-Identifier: MIT

package models

import (
	"fmt"
	"time"
)

// AttendanceMode is how a member participates in a meeting. Modes are
// mutually exclusive per member per meeting.
type AttendanceMode string

const (
	// AttendanceModeInPerson is a member physically checked in at the venue.
	AttendanceModeInPerson AttendanceMode = "in_person"
	// AttendanceModeWrittenProxy is a member represented by a written proxy,
	// counted as present and voting through the live channel.
	AttendanceModeWrittenProxy AttendanceMode = "written_proxy"
	// AttendanceModeRemote is a member who registered remote participation intent.
	AttendanceModeRemote AttendanceMode = "remote"
)

// IsValid reports whether the mode is one of the recognized attendance modes.
func (m AttendanceMode) IsValid() bool {
	switch m {
	case AttendanceModeInPerson, AttendanceModeWrittenProxy, AttendanceModeRemote:
		return true
	}
	return false
}

// Channel returns the ballot channel the attendance mode grants eligibility
// for. In-person and written-proxy members vote through the live channel,
// remote members through the remote channel.
func (m AttendanceMode) Channel() BallotChannel {
	if m == AttendanceModeRemote {
		return BallotChannelRemote
	}
	return BallotChannelLive
}

// AttendanceRecord is the key-value store representation of a member's
// participation in a meeting. Unique per (meeting, member).
type AttendanceRecord struct {
	MeetingUID   string         `json:"meeting_uid"`
	MemberUID    string         `json:"member_uid"`
	Mode         AttendanceMode `json:"mode"`
	RegisteredAt time.Time      `json:"registered_at"`
	UpdatedAt    *time.Time     `json:"updated_at,omitempty"`
}

// Tags generates a consistent set of tags for the attendance record for
// searching/indexing.
func (a *AttendanceRecord) Tags() []string {
	tags := []string{}

	if a == nil {
		return nil
	}

	if a.MeetingUID != "" {
		tags = append(tags, fmt.Sprintf("meeting_uid:%s", a.MeetingUID))
	}

	if a.MemberUID != "" {
		tags = append(tags, fmt.Sprintf("member_uid:%s", a.MemberUID))
	}

	if a.Mode != "" {
		tags = append(tags, fmt.Sprintf("mode:%s", a.Mode))
	}

	return tags
}
