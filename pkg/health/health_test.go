package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execTimes(ctx context.Context, p *probe, n int) {
	for range n {
		p.exec(ctx)
	}
}

func TestProbeThresholds(t *testing.T) {
	ctx := context.Background()
	var fail atomic.Bool
	p := &probe{
		name:    "db",
		timeout: time.Second,
		fn: func(context.Context) error {
			if fail.Load() {
				return errors.New("connection refused")
			}
			return nil
		},
	}

	_, bad := p.failure()
	assert.False(t, bad, "probe starts healthy")

	// Two failures are still within the threshold.
	fail.Store(true)
	execTimes(ctx, p, failureThreshold-1)
	_, bad = p.failure()
	assert.False(t, bad)

	p.exec(ctx)
	reason, bad := p.failure()
	assert.True(t, bad)
	assert.Equal(t, "connection refused", reason)

	// One success recovers.
	fail.Store(false)
	p.exec(ctx)
	_, bad = p.failure()
	assert.False(t, bad)
}

func TestProbeTimeout(t *testing.T) {
	p := &probe{
		name:    "slow",
		timeout: 10 * time.Millisecond,
		fn: func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		},
	}
	execTimes(context.Background(), p, failureThreshold)
	reason, bad := p.failure()
	require.True(t, bad)
	assert.Contains(t, reason, "context deadline exceeded")
}

func TestReadyEndpoint(t *testing.T) {
	h := New()
	var fail atomic.Bool
	h.AddReadinessCheck("postgres", time.Second, func(context.Context) error {
		if fail.Load() {
			return errors.New("down")
		}
		return nil
	})

	probeOnce := func() (int, probeResponse) {
		rec := httptest.NewRecorder()
		h.ReadyEndpoint(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		var body probeResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		return rec.Code, body
	}

	// Gate closed: 503 regardless of check state.
	code, body := probeOnce()
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "starting or draining", body.Checks["service"])

	h.SetReady(true)
	code, body = probeOnce()
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body.Status)
	assert.True(t, h.IsReady())

	// Check failing past the threshold: 503 with the reason.
	fail.Store(true)
	execTimes(context.Background(), h.readiness[0], failureThreshold)
	code, body = probeOnce()
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "down", body.Checks["postgres"])
	assert.False(t, h.IsReady())
}

func TestLiveEndpoint(t *testing.T) {
	h := New()
	h.AddLivenessCheck("always", time.Second, func(context.Context) error { return nil })

	rec := httptest.NewRecorder()
	h.LiveEndpoint(rec, httptest.NewRequest(http.MethodGet, "/livez", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStartStop(t *testing.T) {
	h := New()
	var calls atomic.Int32
	h.AddReadinessCheck("counter", time.Second, func(context.Context) error {
		calls.Add(1)
		return nil
	})

	h.Start(context.Background(), 5*time.Millisecond)
	assert.Eventually(t, func() bool { return calls.Load() >= 3 },
		time.Second, time.Millisecond)
	h.Stop()
	h.Stop() // idempotent

	n := calls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.LessOrEqual(t, calls.Load(), n+1, "loop stopped ticking")
}

func TestGoroutineCountCheck(t *testing.T) {
	require.NoError(t, GoroutineCountCheck(1_000_000)(context.Background()))
	assert.Error(t, GoroutineCountCheck(0)(context.Background()))
}
