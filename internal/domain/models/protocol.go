// Copyright The Open Assembly Project contributors.
// SPDX-License-Identifier: MIT

package models

import (
	"fmt"
	"time"

	"github.com/akamensky/base58"
	"github.com/google/uuid"
)

// ProtocolStatus is the lifecycle status of a meeting protocol.
// DRAFT snapshots may be regenerated any number of times; the transition to
// FINAL happens at most once per meeting and is terminal.
type ProtocolStatus string

const (
	ProtocolStatusDraft ProtocolStatus = "draft"
	ProtocolStatusFinal ProtocolStatus = "final"
)

// SnapshotAgendaEntry is the frozen copy of one agenda item inside a
// protocol snapshot, including the reconciled tally when the item carried a
// vote.
type SnapshotAgendaEntry struct {
	AgendaItemUID string          `json:"agenda_item_uid"`
	Sequence      int             `json:"sequence"`
	Title         string          `json:"title"`
	Body          string          `json:"body,omitempty"`
	Resolution    *string         `json:"resolution,omitempty"`
	Attachments   []AttachmentRef `json:"attachments,omitempty"`
	Tally         *VoteTally      `json:"tally,omitempty"`
}

// AttendanceSummary is the frozen per-mode attendance breakdown of a
// protocol snapshot.
type AttendanceSummary struct {
	InPerson     int      `json:"in_person"`
	WrittenProxy int      `json:"written_proxy"`
	Remote       int      `json:"remote"`
	Total        int      `json:"total"`
	MemberUIDs   []string `json:"member_uids,omitempty"`
}

// SummarizeAttendance folds a meeting's attendance records into per-mode
// counts. Member UIDs are listed in registration order.
func SummarizeAttendance(records []*AttendanceRecord) AttendanceSummary {
	summary := AttendanceSummary{}
	for _, record := range records {
		if record == nil {
			continue
		}
		switch record.Mode {
		case AttendanceModeInPerson:
			summary.InPerson++
		case AttendanceModeWrittenProxy:
			summary.WrittenProxy++
		case AttendanceModeRemote:
			summary.Remote++
		default:
			continue
		}
		summary.Total++
		summary.MemberUIDs = append(summary.MemberUIDs, record.MemberUID)
	}
	return summary
}

// ProtocolSnapshot is a point-in-time read of a meeting's governance state:
// agenda in sequence order, tallies, attendance and quorum. Building one has
// no side effects; a snapshot is only persisted when a protocol is
// finalized.
type ProtocolSnapshot struct {
	MeetingUID      string                `json:"meeting_uid"`
	OrganizationUID string                `json:"organization_uid"`
	MeetingTitle    string                `json:"meeting_title"`
	ScheduledAt     time.Time             `json:"scheduled_at"`
	Location        string                `json:"location,omitempty"`
	AgendaEntries   []SnapshotAgendaEntry `json:"agenda_entries"`
	Attendance      AttendanceSummary     `json:"attendance"`
	Quorum          QuorumResult          `json:"quorum"`
	BuiltAt         time.Time             `json:"built_at"`
}

// MeetingProtocol is the stored, versioned record of a meeting. A meeting
// has at most one FINAL protocol; the snapshot content of a FINAL protocol
// is frozen at finalization time and never rewritten. Corrections are new
// versioned records, not mutations.
type MeetingProtocol struct {
	UID             string         `json:"uid"`
	MeetingUID      string         `json:"meeting_uid"`
	OrganizationUID string         `json:"organization_uid"`
	ProtocolNumber  uint64         `json:"protocol_number"`
	Reference       string         `json:"reference"`
	Version         int            `json:"version"`
	Status          ProtocolStatus `json:"status"`
	// Content is the msgpack-encoded ProtocolSnapshot, kept opaque so the
	// frozen bytes are never round-tripped through mutable structs.
	Content     []byte     `json:"content"`
	FinalizedAt *time.Time `json:"finalized_at,omitempty"`
	DocumentRef *string    `json:"document_ref,omitempty"`
	// SupersedesID links a correcting protocol to the FINAL row it
	// replaces. It is reserved for the correction flow; the finalizer
	// itself only ever writes version 1 rows.
	SupersedesID *string    `json:"supersedes_id,omitempty"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
}

// IsFinal reports whether the protocol has reached its terminal status.
func (p *MeetingProtocol) IsFinal() bool {
	return p != nil && p.Status == ProtocolStatusFinal
}

// NewProtocolReference derives the human-shareable short code for a
// protocol from its UID.
func NewProtocolReference(protocolUID string) string {
	id, err := uuid.Parse(protocolUID)
	if err != nil {
		return ""
	}
	return base58.Encode(id[:])
}

// Tags generates a consistent set of tags for the protocol for searching/indexing.
func (p *MeetingProtocol) Tags() []string {
	tags := []string{}

	if p == nil {
		return nil
	}

	if p.UID != "" {
		tags = append(tags, p.UID)
		tags = append(tags, fmt.Sprintf("protocol_uid:%s", p.UID))
	}

	if p.MeetingUID != "" {
		tags = append(tags, fmt.Sprintf("meeting_uid:%s", p.MeetingUID))
	}

	if p.OrganizationUID != "" {
		tags = append(tags, fmt.Sprintf("organization_uid:%s", p.OrganizationUID))
	}

	if p.ProtocolNumber > 0 {
		tags = append(tags, fmt.Sprintf("protocol_number:%d", p.ProtocolNumber))
	}

	if p.Reference != "" {
		tags = append(tags, fmt.Sprintf("reference:%s", p.Reference))
	}

	if p.Status != "" {
		tags = append(tags, fmt.Sprintf("status:%s", p.Status))
	}

	return tags
}
