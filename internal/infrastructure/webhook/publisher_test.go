package webhook

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/devstack-game/leaderboard/internal/domain/result"
	"github.com/devstack-game/leaderboard/internal/platform/logging"
	"github.com/devstack-game/leaderboard/internal/platform/resilience"
)

func acceptedResult() result.Result {
	return result.Result{
		ID:          "result-001",
		PlayerID:    "player-1",
		PlayerName:  "Dev One",
		Score:       900,
		Rounds:      40,
		Fingerprint: "abc123",
		CompletedAt: time.Date(2026, 4, 2, 15, 30, 0, 0, time.UTC),
	}
}

func TestPublishAccepted_PostsSignedEvent(t *testing.T) {
	t.Parallel()

	var received atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Webhook-Token"); got != "sink-secret" {
			t.Errorf("unexpected webhook token: %q", got)
		}
		var event map[string]any
		if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&event); err != nil {
			t.Errorf("decode event: %v", err)
		}
		received.Store(event)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	publisher := NewPublisher(PublisherConfig{
		SinkURL:        srv.URL,
		SigningToken:   "sink-secret",
		Timeout:        time.Second,
		MaxAttempts:    1,
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: false},
	}, logging.NewNop())

	if err := publisher.PublishAccepted(context.Background(), acceptedResult()); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	event, _ := received.Load().(map[string]any)
	if event == nil {
		t.Fatal("sink did not receive the event")
	}
	if event["event"] != "score.accepted" {
		t.Fatalf("unexpected event type: %v", event["event"])
	}
	if event["result_id"] != "result-001" || event["fingerprint"] != "abc123" {
		t.Fatalf("unexpected event payload: %v", event)
	}
}

func TestPublishAccepted_RetriesServerErrors(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	publisher := NewPublisher(PublisherConfig{
		SinkURL:        srv.URL,
		Timeout:        time.Second,
		MaxAttempts:    3,
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: false},
	}, logging.NewNop())

	if err := publisher.PublishAccepted(context.Background(), acceptedResult()); err != nil {
		t.Fatalf("expected the third attempt to succeed: %v", err)
	}
	if got := hits.Load(); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestPublishAccepted_DoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	publisher := NewPublisher(PublisherConfig{
		SinkURL:        srv.URL,
		Timeout:        time.Second,
		MaxAttempts:    3,
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: false},
	}, logging.NewNop())

	if err := publisher.PublishAccepted(context.Background(), acceptedResult()); err == nil {
		t.Fatal("expected an error for a 4xx response")
	}
	if got := hits.Load(); got != 1 {
		t.Fatalf("4xx responses must not be retried, got %d attempts", got)
	}
}

func TestPublishAccepted_EmptySinkIsNoop(t *testing.T) {
	t.Parallel()

	publisher := NewPublisher(PublisherConfig{SinkURL: ""}, logging.NewNop())

	if err := publisher.PublishAccepted(context.Background(), acceptedResult()); err != nil {
		t.Fatalf("expected a no-op without a sink, got %v", err)
	}
}

func TestPublishAccepted_CircuitFailsFastWhenOpen(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	publisher := NewPublisher(PublisherConfig{
		SinkURL:     srv.URL,
		Timeout:     time.Second,
		MaxAttempts: 1,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	}, logging.NewNop())

	for i := 0; i < 2; i++ {
		if err := publisher.PublishAccepted(context.Background(), acceptedResult()); err == nil {
			t.Fatal("expected failure from a 500 response")
		}
	}

	if err := publisher.PublishAccepted(context.Background(), acceptedResult()); err == nil {
		t.Fatal("expected the open circuit to reject the publish")
	}
	if got := hits.Load(); got != 2 {
		t.Fatalf("expected the third publish to skip the network, got %d hits", got)
	}
}
