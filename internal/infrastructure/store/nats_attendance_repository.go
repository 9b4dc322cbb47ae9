// Copyright The Open Assembly Project contributors.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"fmt"

	"github.com/openassembly/governance-service/internal/domain"
	"github.com/openassembly/governance-service/internal/domain/models"
)

// NatsAttendanceRepository is the NATS KV store repository for attendance
// records. Records are keyed by (meeting, member), so a member has at most
// one record per meeting.
type NatsAttendanceRepository struct {
	*NatsBaseRepository[models.AttendanceRecord]
	keyBuilder *KeyBuilder
}

// NewNatsAttendanceRepository creates a new NATS KV store repository for
// attendance records.
func NewNatsAttendanceRepository(kvStore INatsKeyValue) *NatsAttendanceRepository {
	return &NatsAttendanceRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.AttendanceRecord](kvStore, "attendance record"),
		keyBuilder:         NewKeyBuilder(""),
	}
}

// Create stores a new attendance record. Creation is first-writer-wins: a
// concurrent registration for the same (meeting, member) pair yields a
// conflict, and the caller decides whether the surviving record satisfies
// the request.
func (r *NatsAttendanceRepository) Create(ctx context.Context, record *models.AttendanceRecord) error {
	if record.MeetingUID == "" || record.MemberUID == "" {
		return domain.NewValidationError("attendance record meeting UID and member UID are required")
	}

	key := r.keyBuilder.AttendanceKey(record.MeetingUID, record.MemberUID)
	return r.CreateOnly(ctx, key, record)
}

// Get retrieves a member's attendance record for a meeting.
func (r *NatsAttendanceRepository) Get(ctx context.Context, meetingUID, memberUID string) (*models.AttendanceRecord, error) {
	key := r.keyBuilder.AttendanceKey(meetingUID, memberUID)
	return r.NatsBaseRepository.Get(ctx, key)
}

// GetWithRevision retrieves a member's attendance record with its revision.
func (r *NatsAttendanceRepository) GetWithRevision(ctx context.Context, meetingUID, memberUID string) (*models.AttendanceRecord, uint64, error) {
	key := r.keyBuilder.AttendanceKey(meetingUID, memberUID)
	return r.NatsBaseRepository.GetWithRevision(ctx, key)
}

// Update updates an existing attendance record with optimistic concurrency
// control.
func (r *NatsAttendanceRepository) Update(ctx context.Context, record *models.AttendanceRecord, revision uint64) error {
	key := r.keyBuilder.AttendanceKey(record.MeetingUID, record.MemberUID)
	return r.NatsBaseRepository.Update(ctx, key, record, revision)
}

// ListByMeeting retrieves all attendance records of a meeting.
func (r *NatsAttendanceRepository) ListByMeeting(ctx context.Context, meetingUID string) ([]*models.AttendanceRecord, error) {
	pattern := fmt.Sprintf("%s/%s/", KeyPrefixMeeting, meetingUID)
	return r.ListEntities(ctx, pattern)
}
