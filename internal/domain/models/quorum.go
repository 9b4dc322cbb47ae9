// Copyright The Open Assembly Project contributors.
// SPDX-License-Identifier: MIT

package models

import (
	"math"
	"time"

	"github.com/openassembly/governance-service/pkg/utils"
)

// QuorumRule is an organization's rule for when a meeting may validly
// decide: either an absolute minimum present-member count, or a required
// percentage of the eligible membership. When both are set the stricter
// (higher) requirement wins.
type QuorumRule struct {
	MinimumCount       *int     `json:"minimum_count,omitempty"`
	RequiredPercentage *float64 `json:"required_percentage,omitempty"`
}

// RequiredFor computes the present-member count the rule demands for the
// given number of eligible members. Percentages round up: 50% of 9 eligible
// members requires 5 present.
func (r QuorumRule) RequiredFor(totalEligible int) int {
	required := 0

	if r.MinimumCount != nil && *r.MinimumCount > required {
		required = *r.MinimumCount
	}

	if r.RequiredPercentage != nil {
		byPercentage := int(math.Ceil(float64(totalEligible) * *r.RequiredPercentage / 100.0))
		if byPercentage > required {
			required = byPercentage
		}
	}

	return required
}

// DefaultQuorumRule returns the rule applied to organizations that have
// stored no quorum configuration: a simple majority of the eligible
// membership, with at least one member present.
func DefaultQuorumRule() QuorumRule {
	return QuorumRule{
		MinimumCount:       utils.IntPtr(1),
		RequiredPercentage: utils.Float64Ptr(50),
	}
}

// OrganizationSettings is the per-organization governance configuration.
type OrganizationSettings struct {
	OrganizationUID string     `json:"organization_uid"`
	QuorumRule      QuorumRule `json:"quorum_rule"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`
}

// QuorumResult is the outcome of a quorum computation for a meeting at a
// point in time. It is always recomputed from current attendance and
// membership counts, never carried forward.
type QuorumResult struct {
	PresentInPerson  int     `json:"present_in_person"`
	PresentWritten   int     `json:"present_written"`
	PresentRemote    int     `json:"present_remote"`
	PresentTotal     int     `json:"present_total"`
	TotalEligible    int     `json:"total_eligible"`
	RequiredCount    int     `json:"required_count"`
	HasQuorum        bool    `json:"has_quorum"`
	QuorumPercentage float64 `json:"quorum_percentage"`
}

// ComputeQuorum evaluates the quorum rule against a meeting's attendance
// records. Attendance modes are mutually exclusive per member, so the
// present total is a plain sum. Pure: identical inputs yield identical
// results.
func ComputeQuorum(records []*AttendanceRecord, totalEligible int, rule QuorumRule) QuorumResult {
	result := QuorumResult{
		TotalEligible: totalEligible,
	}

	for _, record := range records {
		if record == nil {
			continue
		}
		switch record.Mode {
		case AttendanceModeInPerson:
			result.PresentInPerson++
		case AttendanceModeWrittenProxy:
			result.PresentWritten++
		case AttendanceModeRemote:
			result.PresentRemote++
		}
	}

	result.PresentTotal = result.PresentInPerson + result.PresentWritten + result.PresentRemote
	result.RequiredCount = rule.RequiredFor(totalEligible)
	result.HasQuorum = result.PresentTotal >= result.RequiredCount

	if totalEligible > 0 {
		result.QuorumPercentage = float64(result.PresentTotal) / float64(totalEligible) * 100.0
	}

	return result
}
