package watcher

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	watcherr "github.com/kyleking/tcnotify/internal/errors"
	"github.com/kyleking/tcnotify/internal/logger"
	"github.com/kyleking/tcnotify/internal/teamcity"
)

// PollInterval is the default delay between the end of one cycle and the
// start of the next.
const PollInterval = 10 * time.Second

// Config selects which builds a Watcher reports on.
type Config struct {
	PipelineIDs []string // polled and reported in this order; duplicates are kept
	Usernames   UserSet
}

// NewConfig builds a Config from raw pipeline ids and usernames.
func NewConfig(pipelineIDs, usernames []string) Config {
	return Config{
		PipelineIDs: append([]string(nil), pipelineIDs...),
		Usernames:   NewUserSet(usernames...),
	}
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithInterval overrides PollInterval.
func WithInterval(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.interval = d
		}
	}
}

// WithLogger sets the logger used for cycle diagnostics.
func WithLogger(l logger.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.log = l
		}
	}
}

// WithAfterFunc replaces the timer used to schedule the next cycle.
func WithAfterFunc(fn AfterFunc) Option {
	return func(w *Watcher) {
		if fn != nil {
			w.afterFunc = fn
		}
	}
}

// Watcher polls the configured pipelines on a fixed cadence and publishes
// classified results on its EventBus. At most one cycle runs at a time.
type Watcher struct {
	client    BuildClient
	events    *EventBus
	log       logger.Logger
	interval  time.Duration
	afterFunc AfterFunc

	mu       sync.Mutex
	cfg      Config
	tracking *TrackingSet
	state    State
	timer    Timer
	timerSeq uint64 // identifies the live timer; replaced timers compare against it
	started  bool
	epoch    uint64 // bumped by Stop; stale timers and cycles compare against it

	// pending holds state changes not yet delivered, in transition order.
	// One goroutine at a time drains it.
	pending  []StateChange
	draining bool

	cycleMu sync.Mutex
}

// New creates a stopped Watcher. cfg is read once here; use ReplaceConfig to
// swap it later.
func New(client BuildClient, cfg Config, opts ...Option) *Watcher {
	w := &Watcher{
		client:    client,
		events:    NewEventBus(),
		log:       logger.NewSilentLogger(),
		interval:  PollInterval,
		afterFunc: realAfterFunc,
		cfg:       cfg,
		tracking:  NewTrackingSet(),
		state:     StateStopped,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Events returns the bus on which the watcher publishes.
func (w *Watcher) Events() *EventBus {
	return w.events
}

// State returns the current lifecycle state.
func (w *Watcher) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Tracked returns the ids of builds currently believed to be running.
func (w *Watcher) Tracked() []int64 {
	w.mu.Lock()
	tracking := w.tracking
	w.mu.Unlock()

	return tracking.IDs()
}

// Start runs the first cycle in the background. Subsequent cycles are
// scheduled by the cycle itself. Start is a no-op while already started;
// after a failed cycle the watcher stays stalled until Stop is called.
func (w *Watcher) Start(ctx context.Context) {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return
	}
	w.started = true
	epoch := w.epoch
	w.mu.Unlock()

	w.log.Info("watching %d pipelines", len(w.config().PipelineIDs))

	go w.runScheduled(ctx, epoch)
}

// Stop cancels the pending cycle, if any, and moves to StateStopped. A cycle
// already fetching completes and publishes its result, but schedules nothing.
// Calling Stop while stopped does nothing.
func (w *Watcher) Stop() {
	w.mu.Lock()
	w.epoch++
	w.started = false

	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}

	changed := w.transitionLocked(StateStopped)
	w.mu.Unlock()

	if changed {
		w.log.Info("watcher stopped")
		w.drainStateChanges()
	}
}

// ReplaceConfig stops the watcher, installs cfg, and resets tracking. The
// caller restarts the watcher with Start.
func (w *Watcher) ReplaceConfig(cfg Config) {
	w.Stop()

	w.mu.Lock()
	w.cfg = cfg
	w.tracking = NewTrackingSet()
	w.mu.Unlock()
}

// CheckBuilds runs one cycle synchronously: fetch every pipeline
// concurrently, classify, publish, then schedule the next cycle unless the
// watcher was stopped meanwhile. A fetch failure aborts the cycle before
// anything is classified or published on the build check channel, and no
// further cycle is scheduled.
func (w *Watcher) CheckBuilds(ctx context.Context) error {
	w.mu.Lock()
	epoch := w.epoch
	w.mu.Unlock()

	return w.runCycle(ctx, epoch)
}

func (w *Watcher) runScheduled(ctx context.Context, epoch uint64) {
	if err := w.runCycle(ctx, epoch); err != nil {
		w.log.Error("build check failed, watcher stalled: %v", err)
	}
}

func (w *Watcher) runCycle(ctx context.Context, epoch uint64) error {
	w.cycleMu.Lock()
	defer w.cycleMu.Unlock()

	w.mu.Lock()
	if w.epoch != epoch {
		w.mu.Unlock()
		return nil
	}
	cfg := w.cfg
	tracking := w.tracking
	changed := w.transitionLocked(StateRunning)
	w.mu.Unlock()

	if changed {
		w.drainStateChanges()
	}

	w.log.Debug("checking %d pipelines", len(cfg.PipelineIDs))

	builds, err := w.fetchAll(ctx, cfg.PipelineIDs)
	if err != nil {
		w.events.publishCycleError(err)
		return err
	}

	result := Classify(builds, tracking, cfg.Usernames)
	w.log.Debug("started=%d running=%d run=%d", len(result.Started), len(result.Running), len(result.Run))

	w.events.publishBuildCheck(result)

	w.mu.Lock()
	if w.epoch != epoch || w.state == StateStopped {
		w.mu.Unlock()
		return nil
	}
	changed = w.transitionLocked(StateWaiting)

	// CheckBuilds may run while a cycle is already scheduled; keep a single chain.
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timerSeq++
	seq := w.timerSeq
	w.timer = w.afterFunc(w.interval, func() { w.onTimer(ctx, epoch, seq) })
	w.mu.Unlock()

	if changed {
		w.drainStateChanges()
	}

	return nil
}

// fetchAll fetches every pipeline concurrently and concatenates the results
// in configuration order, whatever order the responses arrive in.
func (w *Watcher) fetchAll(ctx context.Context, pipelineIDs []string) ([]teamcity.Build, error) {
	perPipeline := make([][]teamcity.Build, len(pipelineIDs))

	g, gctx := errgroup.WithContext(ctx)
	for i, id := range pipelineIDs {
		g.Go(func() error {
			builds, err := w.client.Builds(gctx, id)
			if err != nil {
				return &watcherr.FetchError{PipelineID: id, Err: err}
			}
			perPipeline[i] = builds
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var builds []teamcity.Build
	for _, b := range perPipeline {
		builds = append(builds, b...)
	}

	return builds, nil
}

func (w *Watcher) onTimer(ctx context.Context, epoch, seq uint64) {
	w.mu.Lock()
	stale := w.epoch != epoch || w.timerSeq != seq
	if !stale {
		w.timer = nil
	}
	w.mu.Unlock()

	if stale {
		return
	}

	if ctx.Err() != nil {
		w.Stop()
		return
	}

	w.runScheduled(ctx, epoch)
}

func (w *Watcher) config() Config {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cfg
}

// transitionLocked must be called with mu held. A real change is queued for
// drainStateChanges; it reports false, and queues nothing, when the state is
// unchanged.
func (w *Watcher) transitionLocked(to State) bool {
	if w.state == to {
		return false
	}

	w.pending = append(w.pending, StateChange{From: w.state, To: to})
	w.state = to

	return true
}

// drainStateChanges publishes queued state changes in the order the
// transitions happened. When another goroutine is already draining, or a
// handler triggers a transition, the active drainer delivers the new change
// after the current one.
func (w *Watcher) drainStateChanges() {
	w.mu.Lock()
	if w.draining {
		w.mu.Unlock()
		return
	}
	w.draining = true

	for len(w.pending) > 0 {
		change := w.pending[0]
		w.pending = w.pending[1:]
		w.mu.Unlock()

		w.events.publishStateChange(change)

		w.mu.Lock()
	}

	w.draining = false
	w.mu.Unlock()
}

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
