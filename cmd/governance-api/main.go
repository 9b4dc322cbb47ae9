// Copyright The Open Assembly Project contributors.
// SPDX-License-Identifier: MIT

// Package main is the governance service API that keeps the vote ledger,
// tallies, quorum and meeting protocols for associations, and handles NATS
// messages for the governance service.
package main

import (
	"context"
	_ "expvar"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/openassembly/governance-service/internal/infrastructure/messaging"
	"github.com/openassembly/governance-service/internal/logging"
	"github.com/openassembly/governance-service/internal/service"
)

func main() {
	env := parseEnv()
	flags := parseFlags(env.Port)

	logging.InitStructureLogConfig()

	// Set up JWT validator for the HTTP query endpoints.
	jwtAuth, err := setupJWTAuth()
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up JWT authentication")
		os.Exit(1)
	}

	// Initialize the protocol renderer client (optional).
	protocolRenderer, err := setupRenderer(env.RendererConfig)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up protocol renderer client")
		return
	}

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	gracefulCloseWG := sync.WaitGroup{}

	// Setup NATS connection
	natsConn, err := setupNATS(ctx, env, &gracefulCloseWG, done)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up NATS")
		return
	}

	// Get the key-value stores for the service.
	repos, err := getKeyValueStores(ctx, natsConn)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error getting key-value stores")
		return
	}

	// Initialize services
	messageBuilder := messaging.NewMessageBuilder(natsConn)
	authService := service.NewAuthService(jwtAuth)
	meetingService := service.NewMeetingService(
		repos.Meeting,
		repos.AgendaItem,
		repos.Vote,
		messageBuilder,
		messageBuilder,
	)
	voteService := service.NewVoteService(
		repos.Vote,
		repos.Ballot,
		repos.Meeting,
		repos.Attendance,
		messageBuilder,
		messageBuilder,
	)
	attendanceService := service.NewAttendanceService(
		repos.Attendance,
		repos.Meeting,
		repos.Ballot,
		messageBuilder,
		messageBuilder,
	)
	tallyService := service.NewTallyService(
		repos.Vote,
		repos.Ballot,
	)
	quorumService := service.NewQuorumService(
		repos.Meeting,
		repos.Attendance,
		repos.Settings,
		messageBuilder,
	)
	snapshotService := service.NewSnapshotService(
		repos.Meeting,
		repos.AgendaItem,
		repos.Attendance,
		tallyService,
		quorumService,
	)
	protocolService := service.NewProtocolService(
		repos.Meeting,
		repos.Protocol,
		snapshotService,
		messageBuilder,
		messageBuilder,
		protocolRenderer,
	)

	govService := service.NewGovernanceService(
		meetingService,
		voteService,
		attendanceService,
		tallyService,
		quorumService,
		snapshotService,
		protocolService,
	)

	httpServer := setupHTTPServer(flags, &governanceHTTPServer{
		authService: authService,
		govService:  govService,
		natsConn:    natsConn,
	}, &gracefulCloseWG)

	// Create NATS subscriptions for the service.
	err = createNatsSubcriptions(ctx, govService, natsConn)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error creating NATS subscriptions")
		return
	}

	// This next line blocks until SIGINT or SIGTERM is received.
	<-done

	gracefulShutdown(httpServer, natsConn, &gracefulCloseWG, cancel)
}
