// Copyright The Open Assembly Project contributors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/openassembly/governance-service/internal/domain"
	"github.com/openassembly/governance-service/internal/domain/models"
	"github.com/openassembly/governance-service/internal/logging"
	"github.com/openassembly/governance-service/pkg/concurrent"
	"github.com/openassembly/governance-service/pkg/constants"
)

// SnapshotService builds point-in-time protocol snapshots of a meeting.
// Building a snapshot is strictly read-only; nothing is persisted and two
// concurrent builds may legitimately observe different ballot sets.
type SnapshotService struct {
	meetingRepository    domain.MeetingRepository
	agendaItemRepository domain.AgendaItemRepository
	attendanceRepository domain.AttendanceRepository
	tallyService         *TallyService
	quorumService        *QuorumService
}

// NewSnapshotService creates a new SnapshotService.
func NewSnapshotService(
	meetingRepository domain.MeetingRepository,
	agendaItemRepository domain.AgendaItemRepository,
	attendanceRepository domain.AttendanceRepository,
	tallyService *TallyService,
	quorumService *QuorumService,
) *SnapshotService {
	return &SnapshotService{
		meetingRepository:    meetingRepository,
		agendaItemRepository: agendaItemRepository,
		attendanceRepository: attendanceRepository,
		tallyService:         tallyService,
		quorumService:        quorumService,
	}
}

// ServiceReady checks if the service is ready for use.
func (s *SnapshotService) ServiceReady() bool {
	return s.meetingRepository != nil &&
		s.agendaItemRepository != nil &&
		s.attendanceRepository != nil &&
		s.tallyService != nil &&
		s.quorumService != nil
}

// BuildSnapshot assembles the meeting's agenda in sequence order, reconciles
// a tally for every agenda item that carries a vote, and attaches the
// current attendance summary and quorum result. Tallies for different items
// are reconciled concurrently.
func (s *SnapshotService) BuildSnapshot(ctx context.Context, meetingUID string) (*models.ProtocolSnapshot, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("snapshot service is not ready")
	}

	ctx = logging.AppendCtx(ctx, slog.String("meeting_uid", meetingUID))

	meeting, err := s.meetingRepository.Get(ctx, meetingUID)
	if err != nil {
		return nil, err
	}

	items, err := s.agendaItemRepository.ListByMeeting(ctx, meetingUID)
	if err != nil {
		return nil, err
	}

	entries := make([]models.SnapshotAgendaEntry, len(items))
	tallyTasks := make([]func() error, 0, len(items))
	for i, item := range items {
		entries[i] = models.SnapshotAgendaEntry{
			AgendaItemUID: item.UID,
			Sequence:      item.Sequence,
			Title:         item.Title,
			Body:          item.Body,
			Resolution:    item.Resolution,
			Attachments:   item.Attachments,
		}

		if !item.HasVote() {
			continue
		}

		voteUID := *item.VoteUID
		entry := &entries[i]
		tallyTasks = append(tallyTasks, func() error {
			tally, errTally := s.tallyService.TallyVote(ctx, voteUID)
			if errTally != nil {
				return errTally
			}
			entry.Tally = tally
			return nil
		})
	}

	pool := concurrent.NewWorkerPool(constants.SnapshotTallyWorkers)
	if err := pool.Run(ctx, tallyTasks...); err != nil {
		slog.ErrorContext(ctx, "reconciling agenda item tallies failed", logging.ErrKey, err)
		return nil, err
	}

	records, err := s.attendanceRepository.ListByMeeting(ctx, meetingUID)
	if err != nil {
		return nil, err
	}

	quorum, err := s.quorumService.ComputeQuorum(ctx, meetingUID)
	if err != nil {
		return nil, err
	}

	snapshot := &models.ProtocolSnapshot{
		MeetingUID:      meeting.UID,
		OrganizationUID: meeting.OrganizationUID,
		MeetingTitle:    meeting.Title,
		ScheduledAt:     meeting.ScheduledAt,
		Location:        meeting.Location,
		AgendaEntries:   entries,
		Attendance:      models.SummarizeAttendance(records),
		Quorum:          *quorum,
		BuiltAt:         time.Now().UTC(),
	}

	slog.DebugContext(ctx, "protocol snapshot built",
		"agenda_entries", len(snapshot.AgendaEntries),
		"voted_items", len(tallyTasks),
		"present_total", snapshot.Attendance.Total,
	)

	return snapshot, nil
}
