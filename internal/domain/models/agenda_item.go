// Copyright The Open Assembly Project contributors.
// SPDX-License-Identifier: MIT

package models

import (
	"fmt"
	"time"
)

// AgendaItem is one discussion item on a meeting's agenda. The sequence
// number is unique within the meeting, defines presentation and protocol
// order, and is stable once assigned.
type AgendaItem struct {
	UID         string          `json:"uid"`
	MeetingUID  string          `json:"meeting_uid"`
	Sequence    int             `json:"sequence"`
	Title       string          `json:"title"`
	Body        string          `json:"body,omitempty"`
	Resolution  *string         `json:"resolution,omitempty"`
	VoteUID     *string         `json:"vote_uid,omitempty"`
	Attachments []AttachmentRef `json:"attachments,omitempty"`
	CreatedAt   *time.Time      `json:"created_at,omitempty"`
	UpdatedAt   *time.Time      `json:"updated_at,omitempty"`
}

// AttachmentRef is a reference to a file held by the attachment store.
// File bytes never enter the governance service.
type AttachmentRef struct {
	UID      string `json:"uid"`
	FileName string `json:"file_name"`
	MimeType string `json:"mime_type,omitempty"`
	FileURL  string `json:"file_url,omitempty"`
}

// HasVote reports whether the agenda item is linked to a vote.
func (a *AgendaItem) HasVote() bool {
	return a != nil && a.VoteUID != nil && *a.VoteUID != ""
}

// Tags generates a consistent set of tags for the agenda item for searching/indexing.
func (a *AgendaItem) Tags() []string {
	tags := []string{}

	if a == nil {
		return nil
	}

	if a.UID != "" {
		tags = append(tags, a.UID)
		tags = append(tags, fmt.Sprintf("agenda_item_uid:%s", a.UID))
	}

	if a.MeetingUID != "" {
		tags = append(tags, fmt.Sprintf("meeting_uid:%s", a.MeetingUID))
	}

	if a.Title != "" {
		tags = append(tags, fmt.Sprintf("title:%s", a.Title))
	}

	if a.HasVote() {
		tags = append(tags, fmt.Sprintf("vote_uid:%s", *a.VoteUID))
	}

	return tags
}
