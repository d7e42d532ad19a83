package engine

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/oshokin/tank-emergency/internal/domain/emergency"
	"github.com/oshokin/tank-emergency/internal/domain/tank"
	"github.com/oshokin/tank-emergency/internal/logger"
)

const (
	// peakTemperatureBase is the lowest internal temperature a fire reaches.
	peakTemperatureBase = 2000
	// peakTemperatureSpread is the number of distinct peak values above the base.
	peakTemperatureSpread = 3000
	// externalTemperatureRatio scales the peak down to the shell temperature.
	externalTemperatureRatio = 0.7
)

// TankState is the mutable tank state the engine reads and writes.
type TankState interface {
	Level(t tank.ID) float64
	SetLevel(t tank.ID, value float64)
	SetTemperatures(t tank.ID, internal, external float64)
	SetFlowEnabled(value bool)
}

// Engine selects, activates and resolves emergencies.
type Engine struct {
	// tanks receives every state mutation.
	tanks TankState
	// rng drives scenario, outcome and temperature draws.
	rng Random
	// now stamps newly triggered emergencies.
	now func() time.Time

	// mu makes Trigger and Resolve atomic.
	mu sync.Mutex
	// active is the pending emergency, nil when idle.
	active *emergency.Emergency
}

// Option configures the engine.
type Option func(*Engine)

// WithRandom replaces the default random source.
func WithRandom(rng Random) Option {
	return func(e *Engine) {
		if rng != nil {
			e.rng = rng
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// New creates an idle engine that mutates the provided tank state.
func New(tanks TankState, opts ...Option) *Engine {
	e := &Engine{
		tanks: tanks,
		rng:   NewRandom(0),
		now:   time.Now,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Trigger activates a random scenario, replacing any pending one.
// Fires set the affected tank's temperatures immediately.
func (e *Engine) Trigger(ctx context.Context) *emergency.Emergency {
	e.mu.Lock()
	defer e.mu.Unlock()

	templates := emergency.Templates()
	active := emergency.New(templates[e.rng.IntN(len(templates))], e.now())

	if active.IsFire() {
		responses := emergency.FireResponses()
		response := responses[e.rng.IntN(len(responses))]
		active.SystemResponse = &response

		peak := float64(e.rng.IntN(peakTemperatureSpread) + peakTemperatureBase)
		active.PeakTemperature = peak
		active.ExternalTemperature = math.Floor(externalTemperatureRatio * peak)

		e.tanks.SetTemperatures(active.AffectedTank, active.PeakTemperature, active.ExternalTemperature)
	}

	if e.active != nil {
		logger.WarnKV(ctx, "Replacing pending emergency", "pending_id", e.active.ID)
	}

	e.active = active

	logger.InfoKV(ctx, "Emergency triggered",
		"id", active.ID,
		"tank", active.AffectedTank,
		"category", active.Category,
		"action", active.Action,
	)

	return active.Clone()
}

// Resolve applies the pending emergency's corrective action and clears it.
// It returns the resolved emergency, or false when nothing was pending.
func (e *Engine) Resolve(ctx context.Context) (*emergency.Emergency, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active == nil {
		logger.Debug(ctx, "Resolve requested with no pending emergency")

		return nil, false
	}

	resolved := e.active

	switch resolved.Action {
	case emergency.ActionShutdown:
		// Unreachable from the current catalog.
		e.tanks.SetFlowEnabled(false)
	case emergency.ActionFireResponse:
		e.tanks.SetTemperatures(resolved.AffectedTank, tank.AmbientTemperature, tank.AmbientTemperature)
	case emergency.ActionTransfer:
		if resolved.TargetLevel != nil {
			e.transfer(resolved.AffectedTank, *resolved.TargetLevel)
		}
	}

	e.active = nil

	logger.InfoKV(ctx, "Emergency resolved", "id", resolved.ID, "action", resolved.Action)

	return resolved, true
}

// Active returns a copy of the pending emergency, or nil.
func (e *Engine) Active() *emergency.Emergency {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.active.Clone()
}

// IsActive reports whether an emergency is pending.
func (e *Engine) IsActive() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.active != nil
}

// transfer sets the affected tank to target and moves the difference into the
// other tank. The sum of both levels is preserved and nothing is clamped.
func (e *Engine) transfer(affected tank.ID, target float64) {
	var (
		other      = affected.Other()
		current    = e.tanks.Level(affected)
		otherLevel = e.tanks.Level(other)
		difference = current - target
	)

	e.tanks.SetLevel(affected, target)
	e.tanks.SetLevel(other, otherLevel+difference)
}
