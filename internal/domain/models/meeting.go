// Copyright The Open Assembly Project contributors.
// SPDX-License-Identifier: MIT

package models

import (
	"fmt"
	"time"
)

// MeetingStatus is the lifecycle status of a governance meeting.
type MeetingStatus string

const (
	// MeetingStatusScheduled is a meeting that has been created but not announced.
	MeetingStatusScheduled MeetingStatus = "scheduled"
	// MeetingStatusPublished is a meeting announced to the membership.
	MeetingStatusPublished MeetingStatus = "published"
	// MeetingStatusCompleted is a meeting whose protocol has been finalized.
	// Completed meetings are immutable for voting purposes.
	MeetingStatusCompleted MeetingStatus = "completed"
	// MeetingStatusCancelled is a meeting that was called off.
	MeetingStatusCancelled MeetingStatus = "cancelled"
)

// Meeting is the key-value store representation of a governance meeting
// (general assembly, board meeting, extraordinary assembly).
type Meeting struct {
	UID             string        `json:"uid"`
	OrganizationUID string        `json:"organization_uid"`
	Title           string        `json:"title"`
	Description     string        `json:"description,omitempty"`
	ScheduledAt     time.Time     `json:"scheduled_at"`
	Location        string        `json:"location,omitempty"`
	Status          MeetingStatus `json:"status"`
	CreatedAt       *time.Time    `json:"created_at,omitempty"`
	UpdatedAt       *time.Time    `json:"updated_at,omitempty"`
}

// AcceptsVoting reports whether the meeting is in a state where votes and
// attendance registrations may still be recorded.
func (m *Meeting) AcceptsVoting() bool {
	if m == nil {
		return false
	}
	return m.Status == MeetingStatusScheduled || m.Status == MeetingStatusPublished
}

// Tags generates a consistent set of tags for the meeting for searching/indexing.
func (m *Meeting) Tags() []string {
	tags := []string{}

	if m == nil {
		return nil
	}

	if m.UID != "" {
		tags = append(tags, m.UID)
		tags = append(tags, fmt.Sprintf("meeting_uid:%s", m.UID))
	}

	if m.OrganizationUID != "" {
		tags = append(tags, fmt.Sprintf("organization_uid:%s", m.OrganizationUID))
	}

	if m.Title != "" {
		tags = append(tags, fmt.Sprintf("title:%s", m.Title))
	}

	if m.Status != "" {
		tags = append(tags, fmt.Sprintf("status:%s", m.Status))
	}

	return tags
}
