package present

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/tw93/insight/internal/facts"
)

// ViewState is one of Loading, Success or Error.
type ViewState interface {
	isViewState()
}

type Loading struct{}

type Success struct {
	Snapshot facts.Snapshot
}

// Error is published only when collection itself broke; probe failures never
// reach this far.
type Error struct {
	Message string
}

func (Loading) isViewState() {}
func (Success) isViewState() {}
func (Error) isViewState()   {}

// Aggregator produces snapshots. *facts.Collector satisfies it.
type Aggregator interface {
	Collect(ctx context.Context) facts.Snapshot
	Refresh(ctx context.Context) facts.Snapshot
}

// Controller holds the published view state, the sections built from the last
// successful snapshot and the per-section expansion flags.
type Controller struct {
	agg Aggregator
	log *slog.Logger

	mu       sync.Mutex
	state    ViewState
	sections []Section
	expanded map[Key]bool // nil until the first successful build
	gen      uint64

	digest    uint64
	hasDigest bool
	changed   bool

	subs    map[int]chan ViewState
	nextSub int
}

func NewController(agg Aggregator, log *slog.Logger) *Controller {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Controller{
		agg:   agg,
		log:   log,
		state: Loading{},
		subs:  make(map[int]chan ViewState),
	}
}

// Load publishes Loading, collects a snapshot and publishes the outcome.
func (c *Controller) Load(ctx context.Context) ViewState {
	return c.run(ctx, c.agg.Collect)
}

// Refresh is Load against a fresh query of every source.
func (c *Controller) Refresh(ctx context.Context) ViewState {
	return c.run(ctx, c.agg.Refresh)
}

// run returns the state it published, or the current state when a newer
// Load or Refresh superseded it while collecting.
func (c *Controller) run(ctx context.Context, collect func(context.Context) facts.Snapshot) ViewState {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.publishLocked(Loading{})
	c.mu.Unlock()

	snap, err := safeCollect(ctx, collect)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		c.log.Debug("dropping superseded snapshot", "generation", gen, "latest", c.gen)
		return c.state
	}
	if err != nil {
		c.log.Error("collection failed", "err", err)
		c.publishLocked(Error{Message: err.Error()})
		return c.state
	}
	c.rebuildLocked(snap)
	c.publishLocked(Success{Snapshot: snap})
	return c.state
}

func safeCollect(ctx context.Context, collect func(context.Context) facts.Snapshot) (snap facts.Snapshot, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("collection failed: %v", r)
		}
	}()
	snap = collect(ctx)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return facts.Snapshot{}, fmt.Errorf("collection cancelled: %w", ctxErr)
	}
	return snap, nil
}

func (c *Controller) rebuildLocked(snap facts.Snapshot) {
	built := Build(snap)
	if c.expanded == nil {
		c.expanded = make(map[Key]bool, len(built))
		for _, s := range built {
			c.expanded[s.Key] = s.Expanded
		}
	}
	for i := range built {
		built[i].Expanded = c.expanded[built[i].Key]
	}

	d := digestSections(built)
	c.changed = c.hasDigest && d != c.digest
	c.digest, c.hasDigest = d, true
	c.sections = built
}

// publishLocked replaces the state and hands it to every subscriber without
// blocking: each channel keeps only the newest value.
func (c *Controller) publishLocked(s ViewState) {
	c.state = s
	for _, ch := range c.subs {
		select {
		case <-ch:
		default:
		}
		ch <- s
	}
}

func (c *Controller) State() ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Sections returns a copy of the sections built from the last successful
// snapshot. They stay available while a refresh is loading or after an error.
func (c *Controller) Sections() []Section {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Section, len(c.sections))
	for i, s := range c.sections {
		out[i] = s.clone()
	}
	return out
}

// ToggleSection flips the expanded flag of the section with the given title.
// The flag is remembered across rebuilds. It reports false for unknown titles.
func (c *Controller) ToggleSection(title string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.sections {
		if c.sections[i].Title != title {
			continue
		}
		c.sections[i].Expanded = !c.sections[i].Expanded
		c.expanded[c.sections[i].Key] = c.sections[i].Expanded
		return true
	}
	return false
}

// Changed reports whether the last rebuild produced different labels or
// values than the one before it. Expansion flags are not compared.
func (c *Controller) Changed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.changed
}

// Subscribe returns a channel that immediately holds the current state and
// afterwards the latest published one. Slow readers miss intermediate states.
func (c *Controller) Subscribe() (<-chan ViewState, func()) {
	ch := make(chan ViewState, 1)

	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch
	ch <- c.state
	c.mu.Unlock()

	cancel := sync.OnceFunc(func() {
		c.mu.Lock()
		delete(c.subs, id)
		close(ch)
		c.mu.Unlock()
	})
	return ch, cancel
}

func digestSections(sections []Section) uint64 {
	h := xxhash.New()
	for _, s := range sections {
		_, _ = h.WriteString(string(s.Key))
		_, _ = h.WriteString("\x00")
		_, _ = h.WriteString(s.Title)
		for _, item := range s.Items {
			_, _ = h.WriteString("\x00")
			_, _ = h.WriteString(item.Label)
			_, _ = h.WriteString("\x1f")
			_, _ = h.WriteString(item.Value)
		}
		_, _ = h.WriteString("\x1e")
	}
	return h.Sum64()
}
