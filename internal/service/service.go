// Copyright The Open Assembly Project contributors.
// SPDX-License-Identifier: MIT

package service

type Service interface {
	ServiceReady() bool
}

// GovernanceService bundles the per-concern services behind the NATS
// message surface. It is the domain.MessageHandler the subscriptions
// dispatch into.
type GovernanceService struct {
	MeetingService    *MeetingService
	VoteService       *VoteService
	AttendanceService *AttendanceService
	TallyService      *TallyService
	QuorumService     *QuorumService
	SnapshotService   *SnapshotService
	ProtocolService   *ProtocolService
}

// NewGovernanceService creates a new GovernanceService.
func NewGovernanceService(
	meetingService *MeetingService,
	voteService *VoteService,
	attendanceService *AttendanceService,
	tallyService *TallyService,
	quorumService *QuorumService,
	snapshotService *SnapshotService,
	protocolService *ProtocolService,
) *GovernanceService {
	return &GovernanceService{
		MeetingService:    meetingService,
		VoteService:       voteService,
		AttendanceService: attendanceService,
		TallyService:      tallyService,
		QuorumService:     quorumService,
		SnapshotService:   snapshotService,
		ProtocolService:   protocolService,
	}
}

// HandlerReady checks if the handler and all underlying services are ready.
func (s *GovernanceService) HandlerReady() bool {
	return s.MeetingService != nil && s.MeetingService.ServiceReady() &&
		s.VoteService != nil && s.VoteService.ServiceReady() &&
		s.AttendanceService != nil && s.AttendanceService.ServiceReady() &&
		s.TallyService != nil && s.TallyService.ServiceReady() &&
		s.QuorumService != nil && s.QuorumService.ServiceReady() &&
		s.SnapshotService != nil && s.SnapshotService.ServiceReady() &&
		s.ProtocolService != nil && s.ProtocolService.ServiceReady()
}
