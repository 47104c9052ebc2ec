// Package accountant is the behavioral accounting layer: per-metric
// counters, soft/hard threshold detection, once-per-metric alert dedup,
// and install-mode multipliers. It is grounded on
// proxy/interceptors/stats.go's thread-safe counter struct
// (sync.RWMutex-guarded fields, Record*/Get* accessor shape), generalized
// from a fixed set of package-manager-analysis counters to the open
// per-metric map the Behavioral config section describes.
package accountant

import (
	"sync"
	"time"

	"github.com/safedep/firewall/config"
	"github.com/safedep/firewall/model"
	"golang.org/x/time/rate"
)

// Metric names, matching config.BehavioralPolicy's max*/alert_thresholds
// keys.
const (
	MetricFileReads       = "file_reads"
	MetricFileWrites      = "file_writes"
	MetricNetworkRequests = "network_requests"
	MetricProcessSpawns   = "process_spawns"
)

// metricForKind maps an OperationKind to the metric it increments.
// env_read and module_load have no behavioral threshold of their own
// and are intentionally excluded (they return "", false).
func metricForKind(kind model.OperationKind) (string, bool) {
	switch kind {
	case model.OpFileRead, model.OpFileOpen, model.OpFileReaddir:
		return MetricFileReads, true
	case model.OpFileWrite, model.OpFileUnlink:
		return MetricFileWrites, true
	case model.OpNetConnect, model.OpNetRequest:
		return MetricNetworkRequests, true
	case model.OpProcessSpawn:
		return MetricProcessSpawns, true
	default:
		return "", false
	}
}

type counterState struct {
	count             int64
	firstExceedLogged bool
	hardLimitLogged   bool
}

// Accountant is the process-wide singleton counter store. It implements
// evaluator.CounterReader so the evaluator can read hard-limit state
// without importing this package (avoiding the cycle evaluator would
// otherwise have with accountant).
type Accountant struct {
	mu       sync.Mutex
	counters map[string]*counterState

	// limiters smooth the soft-alert emission per metric, supplementing
	// the once-per-metric dedup with a real token bucket so a burst of
	// crossings in one tight loop cannot still spam once per metric
	// *per threshold tier* if alertThresholds has several tiers for the
	// same metric.
	limiters map[string]*rate.Limiter
}

// New creates an empty Accountant with all counters initialized to zero.
func New() *Accountant {
	return &Accountant{
		counters: map[string]*counterState{},
		limiters: map[string]*rate.Limiter{},
	}
}

func (a *Accountant) stateFor(metric string) *counterState {
	s, ok := a.counters[metric]
	if !ok {
		s = &counterState{}
		a.counters[metric] = s
	}
	return s
}

func (a *Accountant) limiterFor(metric string) *rate.Limiter {
	l, ok := a.limiters[metric]
	if !ok {
		l = rate.NewLimiter(rate.Every(time.Second), 1)
		a.limiters[metric] = l
	}
	return l
}

// Count returns the current value of metric (0 if never incremented).
func (a *Accountant) Count(metric string) int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stateFor(metric).count
}

// HardLimitBreached implements evaluator.CounterReader: true once metric's
// count has reached hardLimit (after install-mode multiplication).
func (a *Accountant) HardLimitBreached(kind model.OperationKind, cfg config.Config, ctx model.ProcessContext) bool {
	metric, ok := metricForKind(kind)
	if !ok {
		return false
	}

	hardLimit := hardLimitFor(metric, cfg)
	if hardLimit <= 0 {
		return false
	}

	if ctx.InstallMode {
		hardLimit *= multiplierFor(metric, cfg)
	}

	return a.Count(metric) >= int64(hardLimit)
}

// ThresholdCrossing is emitted (at most once per metric/threshold pair)
// when Record observes a new soft or hard threshold crossing, so the
// interceptor can fold it into the audit entry for that operation.
type ThresholdCrossing struct {
	Metric    string
	Threshold int
	Hard      bool
}

// Record increments the metric for op's kind and reports whether this
// increment just crossed the soft or hard threshold for the first time.
// Callers must call Record for every operation that reaches a verdict,
// including Blocks, before the operation short-circuits.
func (a *Accountant) Record(op model.Operation, cfg config.Config, ctx model.ProcessContext) (crossing *ThresholdCrossing, ok bool) {
	metric, ok := metricForKind(op.Kind)
	if !ok {
		return nil, false
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	state := a.stateFor(metric)
	state.count++

	soft := softThresholdFor(metric, cfg)
	hard := hardLimitFor(metric, cfg)
	if ctx.InstallMode {
		mult := multiplierFor(metric, cfg)
		soft *= mult
		hard *= mult
	}

	if hard > 0 && state.count >= int64(hard) && !state.hardLimitLogged {
		state.hardLimitLogged = true
		if a.limiterFor(metric + ":hard").Allow() {
			return &ThresholdCrossing{Metric: metric, Threshold: hard, Hard: true}, true
		}
	}

	if soft > 0 && state.count >= int64(soft) && !state.firstExceedLogged {
		state.firstExceedLogged = true
		if a.limiterFor(metric + ":soft").Allow() {
			return &ThresholdCrossing{Metric: metric, Threshold: soft, Hard: false}, true
		}
	}

	return nil, false
}

func hardLimitFor(metric string, cfg config.Config) int {
	switch metric {
	case MetricFileReads:
		return cfg.Behavioral.MaxFileReads
	case MetricFileWrites:
		return cfg.Behavioral.MaxFileWrites
	case MetricNetworkRequests:
		return cfg.Behavioral.MaxNetworkRequests
	case MetricProcessSpawns:
		return cfg.Behavioral.MaxProcessSpawns
	default:
		return 0
	}
}

func softThresholdFor(metric string, cfg config.Config) int {
	for _, t := range cfg.Behavioral.AlertThresholds {
		if t.Metric == metric {
			return t.Threshold
		}
	}
	return 0
}

func multiplierFor(metric string, cfg config.Config) int {
	m := cfg.Behavioral.InstallModeMultipliers
	switch metric {
	case MetricFileReads:
		if m.FileReads > 0 {
			return m.FileReads
		}
	case MetricFileWrites:
		if m.FileWrites > 0 {
			return m.FileWrites
		}
	case MetricNetworkRequests:
		if m.NetworkRequests > 0 {
			return m.NetworkRequests
		}
	case MetricProcessSpawns:
		if m.ProcessSpawns > 0 {
			return m.ProcessSpawns
		}
	}
	return 1
}
