// Copyright The Open Assembly Project contributors.
// SPDX-License-Identifier: MIT

package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/openassembly/governance-service/pkg/utils"
)

func attendance(member string, mode AttendanceMode) *AttendanceRecord {
	return &AttendanceRecord{
		MeetingUID:   "meeting-1",
		MemberUID:    member,
		Mode:         mode,
		RegisteredAt: time.Now(),
	}
}

func TestQuorumRuleRequiredFor(t *testing.T) {
	tests := []struct {
		name          string
		rule          QuorumRule
		totalEligible int
		expected      int
	}{
		{
			name:          "empty rule requires nothing",
			rule:          QuorumRule{},
			totalEligible: 10,
			expected:      0,
		},
		{
			name:          "absolute minimum",
			rule:          QuorumRule{MinimumCount: utils.IntPtr(7)},
			totalEligible: 10,
			expected:      7,
		},
		{
			name:          "percentage rounds up",
			rule:          QuorumRule{RequiredPercentage: utils.Float64Ptr(50)},
			totalEligible: 9,
			expected:      5,
		},
		{
			name:          "percentage exact",
			rule:          QuorumRule{RequiredPercentage: utils.Float64Ptr(50)},
			totalEligible: 10,
			expected:      5,
		},
		{
			name: "stricter of both wins",
			rule: QuorumRule{
				MinimumCount:       utils.IntPtr(3),
				RequiredPercentage: utils.Float64Ptr(50),
			},
			totalEligible: 10,
			expected:      5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.rule.RequiredFor(tt.totalEligible))
		})
	}
}

func TestComputeQuorum(t *testing.T) {
	fiftyPercent := QuorumRule{RequiredPercentage: utils.Float64Ptr(50)}

	t.Run("quorum reached", func(t *testing.T) {
		records := []*AttendanceRecord{
			attendance("m1", AttendanceModeInPerson),
			attendance("m2", AttendanceModeInPerson),
			attendance("m3", AttendanceModeInPerson),
			attendance("m4", AttendanceModeInPerson),
			attendance("m5", AttendanceModeRemote),
			attendance("m6", AttendanceModeRemote),
		}

		result := ComputeQuorum(records, 10, fiftyPercent)

		assert.Equal(t, 4, result.PresentInPerson)
		assert.Equal(t, 0, result.PresentWritten)
		assert.Equal(t, 2, result.PresentRemote)
		assert.Equal(t, 6, result.PresentTotal)
		assert.Equal(t, 10, result.TotalEligible)
		assert.Equal(t, 5, result.RequiredCount)
		assert.True(t, result.HasQuorum)
		assert.InDelta(t, 60.0, result.QuorumPercentage, 0.001)
	})

	t.Run("quorum missed", func(t *testing.T) {
		records := []*AttendanceRecord{
			attendance("m1", AttendanceModeInPerson),
			attendance("m2", AttendanceModeWrittenProxy),
		}

		result := ComputeQuorum(records, 10, fiftyPercent)

		assert.Equal(t, 1, result.PresentWritten)
		assert.Equal(t, 2, result.PresentTotal)
		assert.False(t, result.HasQuorum)
	})

	t.Run("deterministic for fixed inputs", func(t *testing.T) {
		records := []*AttendanceRecord{
			attendance("m1", AttendanceModeInPerson),
			attendance("m2", AttendanceModeRemote),
		}

		first := ComputeQuorum(records, 4, fiftyPercent)
		second := ComputeQuorum(records, 4, fiftyPercent)

		assert.Equal(t, first, second)
	})

	t.Run("zero eligible members", func(t *testing.T) {
		result := ComputeQuorum(nil, 0, fiftyPercent)

		assert.Equal(t, 0, result.PresentTotal)
		assert.Equal(t, 0, result.RequiredCount)
		assert.True(t, result.HasQuorum)
		assert.Zero(t, result.QuorumPercentage)
	})

	t.Run("nil records are skipped", func(t *testing.T) {
		records := []*AttendanceRecord{nil, attendance("m1", AttendanceModeInPerson)}

		result := ComputeQuorum(records, 2, QuorumRule{MinimumCount: utils.IntPtr(1)})

		assert.Equal(t, 1, result.PresentTotal)
		assert.True(t, result.HasQuorum)
	})
}

func TestAttendanceModeChannel(t *testing.T) {
	assert.Equal(t, BallotChannelLive, AttendanceModeInPerson.Channel())
	assert.Equal(t, BallotChannelLive, AttendanceModeWrittenProxy.Channel())
	assert.Equal(t, BallotChannelRemote, AttendanceModeRemote.Channel())
}

func TestAttendanceModeIsValid(t *testing.T) {
	assert.True(t, AttendanceModeInPerson.IsValid())
	assert.True(t, AttendanceModeWrittenProxy.IsValid())
	assert.True(t, AttendanceModeRemote.IsValid())
	assert.False(t, AttendanceMode("telepathy").IsValid())
}
