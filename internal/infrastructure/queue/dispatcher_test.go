package queue

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/hasandag/auth-service/internal/core/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recordingService struct {
	mu     sync.Mutex
	events []domain.AuditEvent
	fail   bool
}

func (s *recordingService) Process(_ context.Context, ev domain.AuditEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("store down")
	}
	s.events = append(s.events, ev)
	return nil
}

func (s *recordingService) byUser(username string) []domain.AuditKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.AuditKind
	for _, ev := range s.events {
		if ev.Username == username {
			out = append(out, ev.Kind)
		}
	}
	return out
}

func TestDispatcher_DeliversInOrderPerUser(t *testing.T) {
	svc := &recordingService{}
	d := NewDispatcher(3, svc, zerolog.Nop())
	d.Start(context.Background())

	kinds := []domain.AuditKind{
		domain.AuditSignInFailed,
		domain.AuditSignInFailed,
		domain.AuditSignInSucceeded,
	}
	for _, user := range []string{"alice", "bob", "carol"} {
		for _, k := range kinds {
			d.Record(domain.AuditEvent{Kind: k, Username: user})
		}
	}

	d.Close()
	d.Wait()

	for _, user := range []string{"alice", "bob", "carol"} {
		assert.Equal(t, kinds, svc.byUser(user), user)
	}
}

func TestDispatcher_StampsOccurredAt(t *testing.T) {
	svc := &recordingService{}
	d := NewDispatcher(1, svc, zerolog.Nop())
	d.Start(context.Background())

	d.Record(domain.AuditEvent{Kind: domain.AuditSignUpSucceeded, Username: "dave"})
	d.Close()
	d.Wait()

	require.Len(t, svc.events, 1)
	assert.False(t, svc.events[0].OccurredAt.IsZero())
}

func TestDispatcher_RecordAfterCloseDrops(t *testing.T) {
	svc := &recordingService{}
	d := NewDispatcher(2, svc, zerolog.Nop())
	d.Start(context.Background())
	d.Close()
	d.Close()

	assert.NotPanics(t, func() {
		d.Record(domain.AuditEvent{Kind: domain.AuditSignInFailed, Username: "eve"})
	})
	d.Wait()
	assert.Empty(t, svc.events)
}

func TestDispatcher_FullQueueDoesNotBlock(t *testing.T) {
	svc := &recordingService{}
	d := NewDispatcher(1, svc, zerolog.Nop())
	dropped := testutil.ToFloat64(auditDroppedTotal)

	// Workers are not started, so the buffer fills and further events drop.
	for i := 0; i < channelBuffer+10; i++ {
		d.Record(domain.AuditEvent{Kind: domain.AuditSignInFailed, Username: "flood"})
	}
	assert.Len(t, d.workers[0], channelBuffer)
	assert.Equal(t, dropped+10, testutil.ToFloat64(auditDroppedTotal))

	d.Close()
}

func TestDispatcher_ProcessErrorsKeepWorkerAlive(t *testing.T) {
	svc := &recordingService{fail: true}
	d := NewDispatcher(1, svc, zerolog.Nop())
	d.Start(context.Background())

	d.Record(domain.AuditEvent{Kind: domain.AuditSignInFailed, Username: "x"})
	d.Record(domain.AuditEvent{Kind: domain.AuditSignInFailed, Username: "x"})
	d.Close()
	d.Wait()

	assert.Empty(t, svc.events)
}

func TestDispatcher_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	d := NewDispatcher(4, &recordingService{}, zerolog.Nop())
	d.Start(ctx)

	cancel()
	d.Wait()
}

func TestShardIndex_Deterministic(t *testing.T) {
	d := NewDispatcher(8, &recordingService{}, zerolog.Nop())
	assert.Equal(t, d.shardIndex("alice"), d.shardIndex("alice"))
	assert.Less(t, d.shardIndex("bob"), 8)
	assert.Len(t, NewDispatcher(0, &recordingService{}, zerolog.Nop()).workers, defaultWorkers)
}
