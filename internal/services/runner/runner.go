// Package runner owns the extract -> load -> classify -> annotate -> save
// cycle and guarantees it executes effectively once per watch lifetime, no
// matter how many triggers race into it.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/packwatch/packwatch/internal/models"
	"github.com/packwatch/packwatch/internal/parser"
	"github.com/packwatch/packwatch/internal/repository"
	"github.com/packwatch/packwatch/internal/repository/sqlite"
	"github.com/packwatch/packwatch/internal/services/differ"
)

// State of the run controller.
type State int

const (
	// StateIdle - no cycle in flight; a trigger may start one.
	StateIdle State = iota
	// StateRunning - a cycle is in flight; further triggers are no-ops.
	StateRunning
	// StateDone - a cycle completed and was persisted. Terminal.
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Annotator is the rendering layer the runner hands its results to.
type Annotator interface {
	Apply(doc *goquery.Document, packages []parser.ExtractedPackage, results []models.Result) models.Summary
}

// Notifier delivers the cycle summary to subscribers. Optional.
type Notifier interface {
	NotifySummary(ctx context.Context, summary models.Summary) error
}

// Runner is the run controller. It owns the state machine and the
// per-classification counters; nothing here is package-level state.
type Runner struct {
	log        *slog.Logger
	parser     parser.HTMLParser
	repo       sqlite.SnapshotRepository
	annotator  Annotator
	notifier   Notifier
	interval   time.Duration
	outputPath string

	mutations chan struct{}
	resets    chan struct{}

	mu           sync.Mutex
	state        State
	summary      models.Summary
	pendingReset bool
}

// NewRunner creates a new Runner instance. outputPath may be empty; when set,
// the annotated document is written there after each completed cycle.
func NewRunner(
	log *slog.Logger,
	htmlParser parser.HTMLParser,
	repo sqlite.SnapshotRepository,
	annotator Annotator,
	interval time.Duration,
	outputPath string,
) *Runner {
	return &Runner{
		log:        log,
		parser:     htmlParser,
		repo:       repo,
		annotator:  annotator,
		interval:   interval,
		outputPath: outputPath,
		mutations:  make(chan struct{}, 1),
		resets:     make(chan struct{}, 1),
	}
}

// SetNotifier attaches the summary notifier. Must be called before Watch.
func (r *Runner) SetNotifier(n Notifier) {
	r.notifier = n
}

// State returns the current controller state.
func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.state
}

// Summary returns the counters of the last completed cycle.
func (r *Runner) Summary() models.Summary {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.summary
}

// NotifyMutation signals that the page markup changed. Non-blocking: one
// pending signal is enough, extra signals coalesce.
func (r *Runner) NotifyMutation() {
	select {
	case r.mutations <- struct{}{}:
	default:
	}
}

// Watch multiplexes the poll ticker and mutation notifications into guarded
// cycle attempts until ctx is cancelled or a store operation fails. The
// ticker is cancelled once the terminal state is reached; mutation signals
// keep draining but become no-ops. A reset re-arms the ticker.
func (r *Runner) Watch(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer func() { ticker.Stop() }()
	tick := ticker.C

	// The page may already be complete; try once before the first tick.
	if err := r.Trigger(ctx); err != nil {
		return err
	}

	for {
		if r.State() == StateDone && tick != nil {
			ticker.Stop()
			tick = nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick:
		case <-r.mutations:
		case <-r.resets:
			if tick == nil {
				ticker = time.NewTicker(r.interval)
				tick = ticker.C
			}
		}

		if err := r.Trigger(ctx); err != nil {
			return err
		}
	}
}

// Trigger attempts one full cycle. The guard is taken synchronously, before
// any suspending operation, so a second trigger arriving during the store
// load is rejected instead of racing. Triggers while Running or Done are
// no-ops. A store failure is returned with the guard still held: the cycle
// stays blocked until the process is restarted.
func (r *Runner) Trigger(ctx context.Context) error {
	r.mu.Lock()
	if r.state != StateIdle {
		r.mu.Unlock()
		return nil
	}
	r.state = StateRunning
	r.mu.Unlock()

	return r.runCycle(ctx)
}

// Reset clears the persisted snapshot set, zeroes the counters and returns
// the controller to Idle, so the next trigger re-extracts from a clean
// slate. If a cycle is in flight the reset is deferred: the cycle discards
// its result instead of saving, so the clear cannot be overwritten. Invoked
// only by the explicit user reset action.
func (r *Runner) Reset(ctx context.Context) error {
	const opn = "runner.Reset"

	if err := r.repo.ClearSnapshots(ctx); err != nil {
		return fmt.Errorf("%s: failed to clear snapshots: %w", opn, err)
	}

	r.mu.Lock()
	if r.state == StateRunning {
		r.pendingReset = true
	} else {
		r.state = StateIdle
		r.summary = models.Summary{}
	}
	r.mu.Unlock()

	// Wake the watch loop so the fresh cycle starts without waiting for the
	// next external trigger.
	select {
	case r.resets <- struct{}{}:
	default:
	}

	r.log.InfoContext(ctx, "Stored snapshots cleared, controller returned to idle")

	return nil
}

// runCycle performs one extract -> load -> classify -> annotate -> save pass.
// Transient conditions (page unavailable, zero packages) release the guard;
// store failures leave it held and propagate.
func (r *Runner) runCycle(ctx context.Context) error {
	const opn = "runner.Trigger"
	log := r.log.With("op", opn)

	doc, err := r.parser.GetDocument(ctx)
	if err != nil {
		r.setState(StateIdle)
		log.WarnContext(ctx, "Failed to load listing page, will retry on next trigger", "error", err)

		return nil
	}

	packages := r.parser.ExtractPackages(ctx, doc)
	if len(packages) == 0 {
		r.setState(StateIdle)
		log.DebugContext(ctx, "No packages present yet, waiting for content")

		return nil
	}

	current := make([]models.PackageSnapshot, 0, len(packages))
	for _, pkg := range packages {
		current = append(current, pkg.Snapshot)
	}

	previous, err := r.repo.GetSnapshots(ctx)
	if err != nil && !errors.Is(err, repository.ErrStateNotFound) {
		return fmt.Errorf("%s: failed to load previous snapshots: %w", opn, err)
	}

	results := differ.Classify(current, previous)
	summary := r.annotator.Apply(doc, packages, results)

	if r.outputPath != "" {
		r.writeAnnotated(ctx, doc)
	}

	// A reset may have landed while the cycle was fetching or classifying;
	// saving now would overwrite its clear.
	if r.consumePendingReset() {
		log.InfoContext(ctx, "Reset arrived mid-cycle, result discarded")

		return nil
	}

	if err = r.repo.SaveSnapshots(ctx, current); err != nil {
		return fmt.Errorf("%s: failed to save snapshots: %w", opn, err)
	}

	// The reset window extends over the save itself; honoring it here means
	// the snapshots just written have to go as well.
	if r.consumePendingReset() {
		log.InfoContext(ctx, "Reset arrived mid-cycle, result discarded")
		if cerr := r.repo.ClearSnapshots(ctx); cerr != nil {
			return fmt.Errorf("%s: failed to clear snapshots after reset: %w", opn, cerr)
		}

		return nil
	}

	r.mu.Lock()
	r.state = StateDone
	r.summary = summary
	r.mu.Unlock()

	log.InfoContext(
		ctx,
		"Cycle complete",
		"total", summary.Total(),
		"new", summary.New,
		"offer_changed", summary.OfferChanged,
		"price_changed", summary.PriceChanged,
		"unchanged", summary.Unchanged,
	)

	if r.notifier != nil {
		if nerr := r.notifier.NotifySummary(ctx, summary); nerr != nil {
			log.WarnContext(ctx, "Failed to notify subscribers", "error", nerr)
		}
	}

	return nil
}

// writeAnnotated dumps the annotated document. Presentational only: failures
// are logged, never fatal.
func (r *Runner) writeAnnotated(ctx context.Context, doc *goquery.Document) {
	rendered, err := doc.Html()
	if err != nil {
		r.log.WarnContext(ctx, "Failed to render annotated document", "error", err)
		return
	}

	if err = os.WriteFile(r.outputPath, []byte(rendered), 0o600); err != nil {
		r.log.WarnContext(ctx, "Failed to write annotated document", "path", r.outputPath, "error", err)
	}
}

// consumePendingReset applies a reset that arrived while the cycle was in
// flight: the controller returns to Idle and the counters are zeroed.
func (r *Runner) consumePendingReset() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.pendingReset {
		return false
	}
	r.pendingReset = false
	r.state = StateIdle
	r.summary = models.Summary{}

	return true
}

func (r *Runner) setState(s State) {
	r.mu.Lock()
	r.state = s
	if s == StateIdle {
		// The cycle saved nothing, so a reset that landed mid-flight is
		// already satisfied.
		r.pendingReset = false
	}
	r.mu.Unlock()
}
