// Package health serves the /livez and /readyz probe endpoints.
//
// Registered checks all run on one shared ticker in a single background
// goroutine. A check turns unhealthy only after three consecutive failures
// and recovers on the first success, so a transient database hiccup does
// not bounce the pod.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// CheckFunc reports nil when the checked component is healthy.
type CheckFunc func(ctx context.Context) error

const failureThreshold = 3

type probe struct {
	name    string
	timeout time.Duration
	fn      CheckFunc

	mu      sync.Mutex
	fails   int
	lastErr error
}

func (p *probe) exec(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	err := p.fn(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastErr = err
	if err != nil {
		p.fails++
	} else {
		p.fails = 0
	}
}

// failure returns the reason this probe is unhealthy, if it is.
func (p *probe) failure() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fails < failureThreshold {
		return "", false
	}
	if p.lastErr != nil {
		return p.lastErr.Error(), true
	}
	return "unhealthy", true
}

// Health tracks liveness and readiness probes for a service.
type Health struct {
	ready atomic.Bool

	mu        sync.Mutex
	liveness  []*probe
	readiness []*probe
	cancel    context.CancelFunc
}

// New returns a Health in the not-ready state. Call SetReady(true) once
// initialization finishes.
func New() *Health {
	return &Health{}
}

// AddLivenessCheck registers a check that decides whether the process is
// alive at all, such as a goroutine count limit.
func (h *Health) AddLivenessCheck(name string, timeout time.Duration, check CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.liveness = append(h.liveness, &probe{name: name, timeout: timeout, fn: check})
}

// AddReadinessCheck registers a check that decides whether the service can
// take traffic, such as a database ping.
func (h *Health) AddReadinessCheck(name string, timeout time.Duration, check CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.readiness = append(h.readiness, &probe{name: name, timeout: timeout, fn: check})
}

// Start runs every registered probe once immediately and then on each tick
// of the interval, until the context is cancelled or Stop is called.
// Register all checks before calling Start.
func (h *Health) Start(ctx context.Context, interval time.Duration) {
	ctx, cancel := context.WithCancel(ctx)

	h.mu.Lock()
	h.cancel = cancel
	probes := make([]*probe, 0, len(h.liveness)+len(h.readiness))
	probes = append(probes, h.liveness...)
	probes = append(probes, h.readiness...)
	h.mu.Unlock()

	go func() {
		for _, p := range probes {
			p.exec(ctx)
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				for _, p := range probes {
					p.exec(ctx)
				}
			}
		}
	}()
}

// Stop cancels the background probe loop. Safe to call more than once.
func (h *Health) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cancel != nil {
		h.cancel()
		h.cancel = nil
	}
}

// SetReady flips the manual readiness gate. It is set true after startup
// and false at the beginning of graceful shutdown to drain traffic.
func (h *Health) SetReady(ready bool) {
	h.ready.Store(ready)
}

// IsReady reports whether the gate is open and every readiness probe passes.
func (h *Health) IsReady() bool {
	if !h.ready.Load() {
		return false
	}
	h.mu.Lock()
	probes := h.readiness
	h.mu.Unlock()
	for _, p := range probes {
		if _, bad := p.failure(); bad {
			return false
		}
	}
	return true
}

type probeResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// LiveEndpoint answers 200 while all liveness probes pass, 503 otherwise.
func (h *Health) LiveEndpoint(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	probes := h.liveness
	h.mu.Unlock()
	respondProbe(w, failures(probes))
}

// ReadyEndpoint answers 200 while the readiness gate is open and all
// readiness probes pass, 503 otherwise.
func (h *Health) ReadyEndpoint(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	probes := h.readiness
	h.mu.Unlock()

	bad := failures(probes)
	if !h.ready.Load() {
		bad["service"] = "starting or draining"
	}
	respondProbe(w, bad)
}

func failures(probes []*probe) map[string]string {
	bad := make(map[string]string)
	for _, p := range probes {
		if reason, failed := p.failure(); failed {
			bad[p.name] = reason
		}
	}
	return bad
}

func respondProbe(w http.ResponseWriter, bad map[string]string) {
	resp := probeResponse{Status: "ok"}
	code := http.StatusOK
	if len(bad) > 0 {
		resp.Status = "unhealthy"
		resp.Checks = bad
		code = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}
