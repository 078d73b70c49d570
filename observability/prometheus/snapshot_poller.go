package prometheus

import (
	"context"
	"sync"
	"time"

	"github.com/Swind/go-task-queue/core"
	prom "github.com/prometheus/client_golang/prometheus"
)

// WorkerSnapshotProvider provides current worker stats snapshots.
// *core.TaskQueueWorker satisfies it.
type WorkerSnapshotProvider interface {
	Stats() core.WorkerStats
}

var _ WorkerSnapshotProvider = (*core.TaskQueueWorker)(nil)

// SnapshotPoller periodically exports worker Stats() snapshots into Prometheus gauges.
type SnapshotPoller struct {
	interval time.Duration

	workersMu sync.RWMutex
	workers   map[string]WorkerSnapshotProvider

	workerPending  *prom.GaugeVec
	workerExecuted *prom.GaugeVec
	workerFailed   *prom.GaugeVec
	workerRejected *prom.GaugeVec
	workerState    *prom.GaugeVec

	stateMu sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewSnapshotPoller creates a snapshot poller and registers its collectors.
func NewSnapshotPoller(namespace string, reg prom.Registerer, interval time.Duration) (*SnapshotPoller, error) {
	if namespace == "" {
		namespace = "taskqueue"
	}
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	if interval <= 0 {
		interval = time.Second
	}

	workerPending := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "worker_pending",
		Help:      "Number of pending work items per worker.",
	}, []string{"worker"})
	workerExecuted := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "worker_executed",
		Help:      "Executed work item count snapshot.",
	}, []string{"worker"})
	workerFailed := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "worker_failed",
		Help:      "Failed work item count snapshot.",
	}, []string{"worker"})
	workerRejected := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "worker_rejected",
		Help:      "Rejected work item count snapshot.",
	}, []string{"worker"})
	workerState := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "worker_state",
		Help:      "Worker lifecycle state (1 for the current state, 0 otherwise).",
	}, []string{"worker", "state"})

	var err error
	if workerPending, err = registerCollector(reg, workerPending); err != nil {
		return nil, err
	}
	if workerExecuted, err = registerCollector(reg, workerExecuted); err != nil {
		return nil, err
	}
	if workerFailed, err = registerCollector(reg, workerFailed); err != nil {
		return nil, err
	}
	if workerRejected, err = registerCollector(reg, workerRejected); err != nil {
		return nil, err
	}
	if workerState, err = registerCollector(reg, workerState); err != nil {
		return nil, err
	}

	return &SnapshotPoller{
		interval:       interval,
		workers:        make(map[string]WorkerSnapshotProvider),
		workerPending:  workerPending,
		workerExecuted: workerExecuted,
		workerFailed:   workerFailed,
		workerRejected: workerRejected,
		workerState:    workerState,
	}, nil
}

// AddWorker adds or replaces a worker snapshot provider by name.
func (p *SnapshotPoller) AddWorker(name string, provider WorkerSnapshotProvider) {
	if p == nil || provider == nil {
		return
	}
	name = normalizeLabel(name, "worker")
	p.workersMu.Lock()
	p.workers[name] = provider
	p.workersMu.Unlock()
}

// Start begins periodic polling; repeated calls are no-ops.
func (p *SnapshotPoller) Start(ctx context.Context) {
	if p == nil {
		return
	}

	p.stateMu.Lock()
	if p.running {
		p.stateMu.Unlock()
		return
	}
	pollCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.running = true
	done := p.done
	p.stateMu.Unlock()

	go p.loop(pollCtx, done)
}

// Stop stops periodic polling; repeated calls are safe.
func (p *SnapshotPoller) Stop() {
	if p == nil {
		return
	}

	p.stateMu.Lock()
	if !p.running {
		p.stateMu.Unlock()
		return
	}
	cancel := p.cancel
	done := p.done
	p.stateMu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}

	p.stateMu.Lock()
	p.running = false
	p.cancel = nil
	p.done = nil
	p.stateMu.Unlock()
}

func (p *SnapshotPoller) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.collectOnce()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.collectOnce()
		}
	}
}

var workerStates = []core.WorkerState{
	core.WorkerStateStopped,
	core.WorkerStateRunning,
	core.WorkerStateDraining,
}

func (p *SnapshotPoller) collectOnce() {
	p.workersMu.RLock()
	defer p.workersMu.RUnlock()

	for name, provider := range p.workers {
		stats := provider.Stats()
		p.workerPending.WithLabelValues(name).Set(float64(stats.Pending))
		p.workerExecuted.WithLabelValues(name).Set(float64(stats.Executed))
		p.workerFailed.WithLabelValues(name).Set(float64(stats.Failed))
		p.workerRejected.WithLabelValues(name).Set(float64(stats.Rejected))
		for _, state := range workerStates {
			v := 0.0
			if stats.State == state {
				v = 1
			}
			p.workerState.WithLabelValues(name, state.String()).Set(v)
		}
	}
}
