// Copyright The Open Assembly Project contributors.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/openassembly/governance-service/internal/domain"
	"github.com/openassembly/governance-service/internal/domain/models"
	"github.com/openassembly/governance-service/internal/infrastructure/store"
	"github.com/openassembly/governance-service/internal/logging"
)

const (
	// natsConnectTimeout is how long to keep retrying the initial NATS connection.
	natsConnectTimeout = 10 * time.Second

	// gracefulShutdownSeconds should be higher than NATS request timeout so
	// that in-flight requests can finish draining.
	gracefulShutdownSeconds = 25
)

// natsMsg adapts a NATS message to the [domain.Message] interface.
type natsMsg struct {
	*nats.Msg
}

func (m *natsMsg) Subject() string {
	return m.Msg.Subject
}

func (m *natsMsg) Data() []byte {
	return m.Msg.Data
}

func (m *natsMsg) Respond(data []byte) error {
	return m.Msg.Respond(data)
}

func (m *natsMsg) HasReply() bool {
	return m.Msg.Reply != ""
}

// setupNATS establishes the NATS connection. The closed handler decrements
// the graceful close wait group and signals shutdown so that a dropped
// connection takes the whole process down rather than leaving a zombie.
func setupNATS(ctx context.Context, env environment, gracefulCloseWG *sync.WaitGroup, done chan os.Signal) (*nats.Conn, error) {
	slog.DebugContext(ctx, "attempting to connect to NATS", "nats_url", env.NatsURL)

	gracefulCloseWG.Add(1)
	natsConn, err := nats.Connect(
		env.NatsURL,
		nats.DrainTimeout(gracefulShutdownSeconds*time.Second),
		nats.ConnectHandler(func(nc *nats.Conn) {
			slog.InfoContext(ctx, "connected to NATS", "nats_url", nc.ConnectedUrl())
		}),
		nats.ErrorHandler(func(_ *nats.Conn, s *nats.Subscription, err error) {
			if s != nil {
				slog.ErrorContext(ctx, "async NATS error inside subscription", logging.ErrKey, err, "subject", s.Subject)
				return
			}
			slog.ErrorContext(ctx, "async NATS error", logging.ErrKey, err)
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			slog.InfoContext(ctx, "NATS connection closed", logging.ErrKey, nc.LastError())
			gracefulCloseWG.Done()
			select {
			case done <- os.Interrupt:
			default:
			}
		}),
		nats.RetryOnFailedConnect(true),
		nats.Timeout(natsConnectTimeout),
	)
	if err != nil {
		gracefulCloseWG.Done()
		return nil, err
	}

	return natsConn, nil
}

// repositories bundles the KV-backed stores used by the governance services.
type repositories struct {
	Meeting    *store.NatsMeetingRepository
	AgendaItem *store.NatsAgendaItemRepository
	Vote       *store.NatsVoteRepository
	Ballot     *store.NatsBallotRepository
	Attendance *store.NatsAttendanceRepository
	Protocol   *store.NatsProtocolRepository
	Settings   *store.NatsSettingsRepository
}

// getKeyValueStore fetches a KV bucket, creating it when it doesn't exist yet.
func getKeyValueStore(ctx context.Context, js jetstream.JetStream, bucket string) (jetstream.KeyValue, error) {
	kv, err := js.KeyValue(ctx, bucket)
	if err == nil {
		return kv, nil
	}
	if !errors.Is(err, jetstream.ErrBucketNotFound) {
		return nil, err
	}

	slog.InfoContext(ctx, "creating NATS KV bucket", "bucket", bucket)
	return js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:  bucket,
		History: 1,
	})
}

// getKeyValueStores sets up the KV buckets and wraps them in repositories.
func getKeyValueStores(ctx context.Context, natsConn *nats.Conn) (*repositories, error) {
	js, err := jetstream.New(natsConn)
	if err != nil {
		return nil, err
	}

	buckets := make(map[string]jetstream.KeyValue)
	for _, bucket := range []string{
		store.KVStoreNameMeetings,
		store.KVStoreNameAgendaItems,
		store.KVStoreNameVotes,
		store.KVStoreNameBallots,
		store.KVStoreNameAttendanceRecords,
		store.KVStoreNameMeetingProtocols,
		store.KVStoreNameProtocolRegistry,
		store.KVStoreNameGovernanceSettings,
	} {
		kv, err := getKeyValueStore(ctx, js, bucket)
		if err != nil {
			return nil, err
		}
		buckets[bucket] = kv
	}

	return &repositories{
		Meeting:    store.NewNatsMeetingRepository(buckets[store.KVStoreNameMeetings]),
		AgendaItem: store.NewNatsAgendaItemRepository(buckets[store.KVStoreNameAgendaItems]),
		Vote:       store.NewNatsVoteRepository(buckets[store.KVStoreNameVotes]),
		Ballot:     store.NewNatsBallotRepository(buckets[store.KVStoreNameBallots]),
		Attendance: store.NewNatsAttendanceRepository(buckets[store.KVStoreNameAttendanceRecords]),
		Protocol: store.NewNatsProtocolRepository(
			buckets[store.KVStoreNameMeetingProtocols],
			buckets[store.KVStoreNameProtocolRegistry],
		),
		Settings: store.NewNatsSettingsRepository(buckets[store.KVStoreNameGovernanceSettings]),
	}, nil
}

// createNatsSubcriptions subscribes the message handler to the governance
// subjects. Request/reply subjects share a queue group so that only one
// instance answers each request; the membership event subject is a plain
// subscription because every instance may observe it.
func createNatsSubcriptions(ctx context.Context, handler domain.MessageHandler, natsConn *nats.Conn) error {
	queueSubjects := []string{
		models.CreateMeetingSubject,
		models.GetMeetingSubject,
		models.AddAgendaItemSubject,
		models.OpenVoteSubject,
		models.CastBallotSubject,
		models.CanCastVoteSubject,
		models.CloseVoteSubject,
		models.RegisterAttendanceSubject,
		models.GetVoteTallySubject,
		models.GetQuorumSubject,
		models.PreviewProtocolSubject,
		models.FinalizeProtocolSubject,
		models.AttachProtocolDocumentSubject,
		models.GetProtocolSubject,
	}

	for _, subject := range queueSubjects {
		_, err := natsConn.QueueSubscribe(subject, models.GovernanceAPIQueue, func(m *nats.Msg) {
			handler.HandleMessage(ctx, &natsMsg{m})
		})
		if err != nil {
			slog.ErrorContext(ctx, "error subscribing to NATS subject", logging.ErrKey, err, "subject", subject)
			return err
		}
		slog.DebugContext(ctx, "subscribed to NATS subject", "subject", subject, "queue", models.GovernanceAPIQueue)
	}

	_, err := natsConn.Subscribe(models.MembershipUpdatedSubject, func(m *nats.Msg) {
		handler.HandleMessage(ctx, &natsMsg{m})
	})
	if err != nil {
		slog.ErrorContext(ctx, "error subscribing to NATS subject", logging.ErrKey, err, "subject", models.MembershipUpdatedSubject)
		return err
	}

	return nil
}

// gracefulShutdown drains NATS and shuts down the HTTP listener, waiting
// for both to finish before returning.
func gracefulShutdown(httpServer *http.Server, natsConn *nats.Conn, gracefulCloseWG *sync.WaitGroup, cancel context.CancelFunc) {
	slog.Info("shutting down")
	cancel()

	ctx, shutdownCancel := context.WithTimeout(context.Background(), gracefulShutdownSeconds*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		slog.With(logging.ErrKey, err).Error("error shutting down http server")
	}
	gracefulCloseWG.Done()

	if natsConn != nil && !natsConn.IsClosed() {
		// Drain unsubscribes, waits for in-flight handlers, then closes; the
		// closed handler decrements the wait group.
		if err := natsConn.Drain(); err != nil {
			slog.With(logging.ErrKey, err).Error("error draining NATS connection")
			natsConn.Close()
		}
	}

	gracefulCloseWG.Wait()
	slog.Info("shutdown complete")
}
