// Package gate holds the bootstrap gate: the state machine that decides,
// from identity snapshots alone, whether the application may render
// anything beyond a loading or failure placeholder.
package gate

import (
	"sync"
	"time"

	"github.com/dalemusser/vocabhub/internal/app/system/identity"
	"go.uber.org/zap"
)

// State is the gate's rendering decision tier.
type State int

const (
	// Initializing renders only the loading placeholder.
	Initializing State = iota
	// Ready is the only state from which view routing happens.
	Ready
	// Error renders the recoverable failure surface. It is terminal until
	// an external reload; no partial state is trusted once entered.
	Error
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case Error:
		return "error"
	default:
		return "initializing"
	}
}

// ReadinessFunc decides whether a snapshot counts as ready. The exact flag
// combination is a contract with the identity provider, so it is injectable
// rather than hard-coded.
type ReadinessFunc func(identity.State) bool

// DefaultReadiness requires the provider to report ready and to have left
// its initializing phase.
func DefaultReadiness(st identity.State) bool {
	return st.Ready && !st.Initializing
}

// Options configures a Gate.
type Options struct {
	// Readiness overrides DefaultReadiness when set.
	Readiness ReadinessFunc
	// WarnAfter is the advisory wall-clock budget for reaching Ready.
	// Zero disables the warning.
	WarnAfter time.Duration
	// OnWarn runs once if the budget elapses before Ready. Advisory only;
	// it is not a transition.
	OnWarn func()
	Logger *zap.Logger
}

// Gate is the bootstrap state machine. Safe for concurrent use.
type Gate struct {
	mu        sync.Mutex
	state     State
	lastSeq   uint64
	err       *identity.ErrorInfo
	slowStart bool

	readiness ReadinessFunc
	warnAfter time.Duration
	onWarn    func()
	warnTimer *time.Timer
	log       *zap.Logger
}

// New creates a gate in the Initializing state and arms the advisory
// warning timer if one is configured.
func New(opts Options) *Gate {
	g := &Gate{
		state:     Initializing,
		readiness: opts.Readiness,
		warnAfter: opts.WarnAfter,
		onWarn:    opts.OnWarn,
		log:       opts.Logger,
	}
	if g.readiness == nil {
		g.readiness = DefaultReadiness
	}
	if g.log == nil {
		g.log = zap.NewNop()
	}
	if g.warnAfter > 0 {
		g.warnTimer = time.AfterFunc(g.warnAfter, g.warn)
	}
	return g
}

// Attach subscribes the gate to a snapshot stream. Deliveries arrive in
// emission order and are each processed to completion before the next.
func (g *Gate) Attach(s *identity.Stream) {
	s.Subscribe(g.Apply)
}

// Apply feeds one identity snapshot through the state machine.
//
// Rules:
//   - Stale deliveries (sequence at or below the last applied one) are
//     dropped; only the latest snapshot counts.
//   - A present error wins from any state, including Ready.
//   - Error is terminal until an external reload.
//   - Ready never regresses to Initializing.
func (g *Gate) Apply(st identity.State) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if st.Seq != 0 && st.Seq <= g.lastSeq {
		return
	}
	g.lastSeq = st.Seq

	if g.state == Error {
		return
	}

	if st.HasError && st.Err != nil {
		g.state = Error
		g.err = st.Err
		g.stopWarnLocked()
		g.log.Error("identity provider failed; bootstrap halted",
			zap.String("code", st.Err.Code),
			zap.String("message", st.Err.Message))
		return
	}

	if g.state == Ready {
		return
	}

	if g.readiness(st) {
		g.state = Ready
		g.stopWarnLocked()
		g.log.Info("bootstrap ready")
	}
}

// State returns the current gate state.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Err returns the provider error once the gate is in Error, else nil.
func (g *Gate) Err() *identity.ErrorInfo {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.err
}

// SlowStart reports whether the advisory warning fired before Ready.
func (g *Gate) SlowStart() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.slowStart
}

func (g *Gate) warn() {
	g.mu.Lock()
	if g.state != Initializing {
		// Became Ready (or failed) first: the warning re-arms instead of
		// firing, so a fresh gate gets a fresh budget.
		g.mu.Unlock()
		return
	}
	g.slowStart = true
	fn := g.onWarn
	g.mu.Unlock()

	g.log.Warn("bootstrap not ready within budget", zap.Duration("budget", g.warnAfter))
	if fn != nil {
		fn()
	}
}

func (g *Gate) stopWarnLocked() {
	if g.warnTimer != nil {
		g.warnTimer.Stop()
		g.warnTimer = nil
	}
	g.slowStart = false
}
