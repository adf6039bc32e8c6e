package ladder

import (
	"context"
	"sync/atomic"

	"rtladder/pkg/logger"
)

// Runner owns the tick lifecycle around the engine: it refuses overlapping
// ticks and lets an operator pause the ladder without touching in-flight
// state. The current tick always runs to completion; pausing only suppresses
// future ones.
type Runner struct {
	engine  *Engine
	log     *logger.Logger
	paused  atomic.Bool
	running atomic.Bool
}

// NewRunner wraps the engine.
func NewRunner(engine *Engine, log *logger.Logger) *Runner {
	return &Runner{
		engine: engine,
		log:    log,
	}
}

// Tick runs one engine pass, at most one at a time.
func (r *Runner) Tick(ctx context.Context) {
	if r.paused.Load() {
		return
	}

	if !r.running.CompareAndSwap(false, true) {
		r.log.Warnf("previous tick still running, skipping this one")
		return
	}
	defer r.running.Store(false)

	r.engine.RunTick(ctx)
}

// Pause suspends future ticks.
func (r *Runner) Pause() {
	r.paused.Store(true)
	r.log.Infof("engine paused by operator")
}

// Resume re-enables ticks.
func (r *Runner) Resume() {
	r.paused.Store(false)
	r.log.Infof("engine resumed by operator")
}

// Paused reports whether ticks are currently suspended.
func (r *Runner) Paused() bool {
	return r.paused.Load()
}

// HandleControl applies an operator command from the control channel.
func (r *Runner) HandleControl(command string) {
	switch command {
	case "pause":
		r.Pause()
	case "resume":
		r.Resume()
	default:
		r.log.Warnf("ignoring unknown control command %q", command)
	}
}
