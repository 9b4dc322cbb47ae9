// Copyright The Open Assembly Project contributors.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openassembly/governance-service/internal/domain"
	"github.com/openassembly/governance-service/internal/domain/models"
)

func testAttendanceRecord(meetingUID, memberUID string, mode models.AttendanceMode) *models.AttendanceRecord {
	return &models.AttendanceRecord{
		MeetingUID:   meetingUID,
		MemberUID:    memberUID,
		Mode:         mode,
		RegisteredAt: time.Now().UTC(),
	}
}

func TestNatsAttendanceRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("successful create", func(t *testing.T) {
		mockKV := newMockNatsKeyValue()
		repo := NewNatsAttendanceRepository(mockKV)

		err := repo.Create(ctx, testAttendanceRecord("meeting-1", "member-1", models.AttendanceModeInPerson))

		assert.NoError(t, err)
		_, exists := mockKV.data["meeting/meeting-1/member/member-1"]
		assert.True(t, exists)
	})

	t.Run("duplicate registration conflicts", func(t *testing.T) {
		repo := NewNatsAttendanceRepository(newMockNatsKeyValue())

		require.NoError(t, repo.Create(ctx, testAttendanceRecord("meeting-1", "member-1", models.AttendanceModeInPerson)))
		err := repo.Create(ctx, testAttendanceRecord("meeting-1", "member-1", models.AttendanceModeRemote))

		assert.Error(t, err)
		assert.Equal(t, domain.ErrorTypeConflict, domain.GetErrorType(err))

		record, err := repo.Get(ctx, "meeting-1", "member-1")
		require.NoError(t, err)
		assert.Equal(t, models.AttendanceModeInPerson, record.Mode)
	})
}

func TestNatsAttendanceRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo := NewNatsAttendanceRepository(newMockNatsKeyValue())

	require.NoError(t, repo.Create(ctx, testAttendanceRecord("meeting-1", "member-1", models.AttendanceModeRemote)))

	record, revision, err := repo.GetWithRevision(ctx, "meeting-1", "member-1")
	require.NoError(t, err)

	record.Mode = models.AttendanceModeInPerson
	err = repo.Update(ctx, record, revision)
	assert.NoError(t, err)

	updated, err := repo.Get(ctx, "meeting-1", "member-1")
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceModeInPerson, updated.Mode)

	// A stale revision must not win.
	record.Mode = models.AttendanceModeWrittenProxy
	err = repo.Update(ctx, record, revision)
	assert.Error(t, err)
	assert.Equal(t, domain.ErrorTypeConflict, domain.GetErrorType(err))
}

func TestNatsAttendanceRepository_ListByMeeting(t *testing.T) {
	ctx := context.Background()
	repo := NewNatsAttendanceRepository(newMockNatsKeyValue())

	require.NoError(t, repo.Create(ctx, testAttendanceRecord("meeting-1", "member-1", models.AttendanceModeInPerson)))
	require.NoError(t, repo.Create(ctx, testAttendanceRecord("meeting-1", "member-2", models.AttendanceModeRemote)))
	require.NoError(t, repo.Create(ctx, testAttendanceRecord("meeting-2", "member-1", models.AttendanceModeInPerson)))

	records, err := repo.ListByMeeting(ctx, "meeting-1")

	assert.NoError(t, err)
	assert.Len(t, records, 2)
	for _, record := range records {
		assert.Equal(t, "meeting-1", record.MeetingUID)
	}
}

func TestNatsAgendaItemRepository_ListByMeeting(t *testing.T) {
	ctx := context.Background()
	repo := NewNatsAgendaItemRepository(newMockNatsKeyValue())

	items := []*models.AgendaItem{
		{UID: "item-3", MeetingUID: "meeting-1", Title: "Any other business", Sequence: 3},
		{UID: "item-1", MeetingUID: "meeting-1", Title: "Approval of the budget", Sequence: 1},
		{UID: "item-2", MeetingUID: "meeting-1", Title: "Board election", Sequence: 2},
		{UID: "item-4", MeetingUID: "meeting-2", Title: "Other meeting item", Sequence: 1},
	}
	for _, item := range items {
		require.NoError(t, repo.Create(ctx, item))
	}

	result, err := repo.ListByMeeting(ctx, "meeting-1")

	assert.NoError(t, err)
	require.Len(t, result, 3)
	assert.Equal(t, "item-1", result[0].UID)
	assert.Equal(t, "item-2", result[1].UID)
	assert.Equal(t, "item-3", result[2].UID)
}
