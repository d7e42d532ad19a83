package server

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/oshokin/tank-emergency/internal/domain/emergency"
	"github.com/oshokin/tank-emergency/internal/domain/tank"
	"github.com/oshokin/tank-emergency/internal/logger"
	"github.com/oshokin/tank-emergency/internal/metrics"
	"github.com/oshokin/tank-emergency/internal/notify"
	repo "github.com/oshokin/tank-emergency/internal/repository/snapshot"
	"github.com/oshokin/tank-emergency/internal/service/engine"
)

// dependencies are the collaborators of the service. Nil fields are optional.
type dependencies struct {
	// repo persists the tank snapshot.
	repo repo.Repository
	// initial is used when the repository has no snapshot yet.
	initial tank.Snapshot
	// rng drives the engine.
	rng engine.Random
	// recorder receives metrics.
	recorder *metrics.Recorder
	// publisher receives lifecycle events.
	publisher notify.Publisher
}

// service orchestrates the engine, the tank store and their side channels.
// It is unexported to keep the transport decoupled from the implementation.
type service struct {
	// engine owns the pending emergency.
	engine *engine.Engine
	// store owns the tank values.
	store *tank.Store
	// repo persists the tank snapshot.
	repo repo.Repository
	// recorder receives metrics.
	recorder *metrics.Recorder
	// publisher receives lifecycle events.
	publisher notify.Publisher
	// mu keeps each state change and its persisted snapshot in the same order.
	mu sync.Mutex
}

// newService restores the tank snapshot and builds the engine.
func newService(ctx context.Context, deps dependencies) (*service, error) {
	initial := deps.initial

	if deps.repo != nil {
		snapshot, err := deps.repo.Load(ctx)

		switch {
		case err == nil:
			if snapshot != nil {
				initial = *snapshot
			}
		case errors.Is(err, repo.ErrNotFound):
			// Keep the initial snapshot.
		default:
			return nil, fmt.Errorf("load snapshot: %w", err)
		}
	}

	publisher := deps.publisher
	if publisher == nil {
		publisher = notify.Nop{}
	}

	store := tank.NewStore(initial)

	s := &service{
		engine:    engine.New(store, engine.WithRandom(deps.rng)),
		store:     store,
		repo:      deps.repo,
		recorder:  deps.recorder,
		publisher: publisher,
	}

	s.observe()

	logger.InfoKV(ctx, "Tank state restored",
		"tank1_level", initial.Tank1.Level,
		"tank2_level", initial.Tank2.Level,
		"flow_enabled", initial.FlowEnabled,
	)

	return s, nil
}

// Trigger activates a random emergency and persists any temperature spike.
// The emergency is returned even when saving fails, together with the error.
func (s *service) Trigger(ctx context.Context) (*emergency.Emergency, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.trigger(ctx)
}

// TriggerIfIdle activates a random emergency only when none is pending.
// The check and the trigger happen under one lock, so a concurrent manual
// trigger is never replaced.
func (s *service) TriggerIfIdle(ctx context.Context) (*emergency.Emergency, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.engine.IsActive() {
		return nil, false, nil
	}

	e, err := s.trigger(ctx)

	return e, true, err
}

// trigger runs the engine and its side channels. Callers must hold mu.
func (s *service) trigger(ctx context.Context) (*emergency.Emergency, error) {
	e := s.engine.Trigger(ctx)

	if s.recorder != nil {
		s.recorder.Triggered(e)
	}

	// The engine change is committed; a failed save does not undo it.
	snapshot, err := s.persist(ctx)

	s.publish(ctx, notify.NewEvent(notify.KindTriggered, e, nil, snapshot))

	return e, err
}

// Resolve applies the pending emergency. It returns nil when nothing was pending.
// A save failure is returned together with the resolved emergency.
func (s *service) Resolve(ctx context.Context, operator *emergency.Operator) (*emergency.Emergency, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.engine.Resolve(ctx)

	if s.recorder != nil {
		s.recorder.Resolved(e)
	}

	if !ok {
		return nil, nil //nolint:nilnil // Nothing pending is not an error.
	}

	logger.InfoKV(ctx, "Emergency acknowledged", "id", e.ID, "operator", operator.String())

	// Resolution cannot be retried once the slot is cleared, so the result is
	// returned and published even when the snapshot is not saved.
	snapshot, err := s.persist(ctx)

	s.publish(ctx, notify.NewEvent(notify.KindResolved, e, operator, snapshot))

	return e, err
}

// ActiveEmergency returns the pending emergency, or nil.
func (s *service) ActiveEmergency(context.Context) *emergency.Emergency {
	return s.engine.Active()
}

// Tanks returns the current tank state.
func (s *service) Tanks(context.Context) tank.Snapshot {
	return s.store.Snapshot()
}

// SetFlow toggles the shared flow flag.
func (s *service) SetFlow(ctx context.Context, enabled bool) (tank.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.store.SetFlowEnabled(enabled)

	logger.InfoKV(ctx, "Flow changed", "flow_enabled", enabled)

	return s.persist(ctx)
}

// persist saves the current snapshot and mirrors it into metrics.
func (s *service) persist(ctx context.Context) (tank.Snapshot, error) {
	snapshot := s.observe()

	if s.repo == nil {
		return snapshot, nil
	}

	if err := s.repo.Save(ctx, snapshot); err != nil {
		logger.Errorf(ctx, "Failed to persist tank snapshot: %v", err)

		return snapshot, fmt.Errorf("persist snapshot: %w", err)
	}

	return snapshot, nil
}

// observe reads the snapshot and updates the tank gauges.
func (s *service) observe() tank.Snapshot {
	snapshot := s.store.Snapshot()

	if s.recorder != nil {
		s.recorder.ObserveTanks(snapshot)
	}

	return snapshot
}

// publish sends ev, logging failures. Events are best effort.
func (s *service) publish(ctx context.Context, ev notify.Event) {
	if err := s.publisher.Publish(ctx, ev); err != nil {
		logger.ErrorKV(ctx, "Failed to publish event", "kind", ev.Kind, "id", ev.ID, "error", err)
	}
}
