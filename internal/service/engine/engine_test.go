package engine

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/tank-emergency/internal/domain/emergency"
	"github.com/oshokin/tank-emergency/internal/domain/tank"
)

// Catalog indexes in the order Templates returns them.
const (
	leakIndex     = 0
	pressureIndex = 1
	fire1Index    = 2
	fire2Index    = 3
	successIndex  = 0
	failureIndex  = 1
)

// sequenceRandom replays a fixed list of draws.
type sequenceRandom struct {
	// values are returned in order, each reduced modulo n.
	values []int
	// next is the index of the next value.
	next int
}

// IntN returns the next queued value.
func (s *sequenceRandom) IntN(n int) int {
	v := s.values[s.next%len(s.values)]
	s.next++

	return v % n
}

// newStore returns a tank store with the given levels and ambient temperatures.
func newStore(level1, level2 float64) *tank.Store {
	snapshot := tank.DefaultSnapshot()
	snapshot.Tank1.Level = level1
	snapshot.Tank2.Level = level2

	return tank.NewStore(snapshot)
}

// TestTrigger_OnlyKnownScenarios draws many scenarios and checks their invariants.
func TestTrigger_OnlyKnownScenarios(t *testing.T) {
	t.Parallel()

	var (
		ctx   = context.Background()
		store = newStore(50, 50)
		e     = New(store, WithRandom(NewRandom(42)))
		known = map[string]bool{
			emergency.IDLeak:     true,
			emergency.IDPressure: true,
			emergency.IDFire1:    true,
			emergency.IDFire2:    true,
		}
		seen = make(map[string]int)
	)

	for range 1000 {
		got := e.Trigger(ctx)
		require.True(t, known[got.ID], got.ID)
		require.True(t, e.IsActive())

		seen[got.ID]++

		if got.Category == emergency.CategoryFire {
			require.NotNil(t, got.SystemResponse)
			require.Contains(t, []emergency.Status{emergency.StatusSuccess, emergency.StatusFailure},
				got.SystemResponse.Status)

			require.GreaterOrEqual(t, got.PeakTemperature, 2000.0)
			require.LessOrEqual(t, got.PeakTemperature, 5000.0)
			require.InDelta(t, math.Floor(0.7*got.PeakTemperature), got.ExternalTemperature, 0)

			temps := store.Temperatures(got.AffectedTank)
			require.InDelta(t, got.PeakTemperature, temps.Internal, 0)
			require.InDelta(t, got.ExternalTemperature, temps.External, 0)
		} else {
			require.Nil(t, got.SystemResponse)
			require.NotNil(t, got.TargetLevel)
		}
	}

	// Uniform selection over 4 entries reaches all of them.
	require.Len(t, seen, 4)
}

// TestTrigger_OperationalLeavesTanksAlone ensures levels and flow only change on resolve.
func TestTrigger_OperationalLeavesTanksAlone(t *testing.T) {
	t.Parallel()

	store := newStore(80, 20)
	e := New(store, WithRandom(&sequenceRandom{values: []int{leakIndex}}))

	before := store.Snapshot()
	got := e.Trigger(context.Background())

	require.Equal(t, emergency.IDLeak, got.ID)
	require.Equal(t, before, store.Snapshot())
}

// TestResolve_Idle verifies resolve without a pending emergency changes nothing.
func TestResolve_Idle(t *testing.T) {
	t.Parallel()

	store := newStore(80, 20)
	store.SetTemperatures(tank.Tank2, 300, 200)

	e := New(store)
	before := store.Snapshot()

	resolved, ok := e.Resolve(context.Background())
	require.False(t, ok)
	require.Nil(t, resolved)
	require.False(t, e.IsActive())
	require.Nil(t, e.Active())
	require.Equal(t, before, store.Snapshot())
}

// TestResolve_Leak transfers the leaking tank's surplus into tank 2.
func TestResolve_Leak(t *testing.T) {
	t.Parallel()

	store := newStore(80, 20)
	e := New(store, WithRandom(&sequenceRandom{values: []int{leakIndex}}))

	e.Trigger(context.Background())

	resolved, ok := e.Resolve(context.Background())
	require.True(t, ok)
	require.Equal(t, emergency.IDLeak, resolved.ID)

	require.InDelta(t, 50.0, store.Level(tank.Tank1), 0)
	require.InDelta(t, 50.0, store.Level(tank.Tank2), 0)
	require.False(t, e.IsActive())
	require.Nil(t, e.Active())
}

// TestResolve_Pressure moves tank 2's excess into tank 1.
func TestResolve_Pressure(t *testing.T) {
	t.Parallel()

	store := newStore(10, 90)
	e := New(store, WithRandom(&sequenceRandom{values: []int{pressureIndex}}))

	e.Trigger(context.Background())

	_, ok := e.Resolve(context.Background())
	require.True(t, ok)
	require.InDelta(t, 70.0, store.Level(tank.Tank1), 0)
	require.InDelta(t, 30.0, store.Level(tank.Tank2), 0)
}

// TestResolve_TransferConservesVolume checks the level sum across many inputs, including
// ones that push a tank out of [0, 100].
func TestResolve_TransferConservesVolume(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name           string
		index          int
		level1, level2 float64
	}{
		{name: "leak below target", index: leakIndex, level1: 10, level2: 5},
		{name: "leak overflow", index: leakIndex, level1: 100, level2: 90},
		{name: "pressure underflow", index: pressureIndex, level1: 5, level2: 0},
		{name: "pressure fractional", index: pressureIndex, level1: 12.5, level2: 77.25},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			store := newStore(tc.level1, tc.level2)
			e := New(store, WithRandom(&sequenceRandom{values: []int{tc.index}}))

			e.Trigger(context.Background())
			e.Resolve(context.Background())

			require.InDelta(t, tc.level1+tc.level2, store.Snapshot().TotalLevel(), 1e-9)
		})
	}

	// Unclamped: tank 2 ends at 140.
	store := newStore(100, 90)
	e := New(store, WithRandom(&sequenceRandom{values: []int{leakIndex}}))

	e.Trigger(context.Background())
	e.Resolve(context.Background())
	require.InDelta(t, 140.0, store.Level(tank.Tank2), 0)

	// Tank 1 goes negative when tank 2 sits below its target.
	store = newStore(0, 0)
	e = New(store, WithRandom(&sequenceRandom{values: []int{pressureIndex}}))

	e.Trigger(context.Background())
	e.Resolve(context.Background())
	require.InDelta(t, -30.0, store.Level(tank.Tank1), 0)
}

// TestFire_Tank1 spikes tank 1 on trigger and restores ambient on resolve.
func TestFire_Tank1(t *testing.T) {
	t.Parallel()

	store := newStore(50, 50)
	store.SetTemperatures(tank.Tank2, 40, 30)

	e := New(store, WithRandom(&sequenceRandom{values: []int{fire1Index, failureIndex, 500}}))

	got := e.Trigger(context.Background())
	require.Equal(t, emergency.IDFire1, got.ID)
	require.Equal(t, emergency.StatusFailure, got.SystemResponse.Status)

	// 500 + 2000 and floor(0.7 * 2500).
	require.Equal(t, tank.Temperatures{Internal: 2500, External: 1750}, store.Temperatures(tank.Tank1))

	_, ok := e.Resolve(context.Background())
	require.True(t, ok)
	require.Equal(t, tank.Ambient(), store.Temperatures(tank.Tank1))
	require.Equal(t, tank.Temperatures{Internal: 40, External: 30}, store.Temperatures(tank.Tank2))

	// Levels are untouched by fires.
	require.InDelta(t, 100.0, store.Snapshot().TotalLevel(), 0)
}

// TestFire_PeakBounds checks the extreme temperature draws.
func TestFire_PeakBounds(t *testing.T) {
	t.Parallel()

	store := newStore(50, 50)
	e := New(store, WithRandom(&sequenceRandom{values: []int{fire2Index, successIndex, 0, fire2Index, successIndex, 2999}}))

	got := e.Trigger(context.Background())
	require.InDelta(t, 2000.0, got.PeakTemperature, 0)
	require.InDelta(t, math.Floor(0.7*2000), got.ExternalTemperature, 0)
	require.Equal(t, tank.Ambient(), store.Temperatures(tank.Tank1))

	got = e.Trigger(context.Background())
	require.InDelta(t, 4999.0, got.PeakTemperature, 0)
	require.InDelta(t, math.Floor(0.7*4999), store.Temperatures(tank.Tank2).External, 0)
}

// TestTrigger_ReplacesPending verifies that a second trigger overrides the first.
func TestTrigger_ReplacesPending(t *testing.T) {
	t.Parallel()

	store := newStore(80, 20)
	e := New(store, WithRandom(&sequenceRandom{values: []int{leakIndex, pressureIndex}}))

	e.Trigger(context.Background())
	e.Trigger(context.Background())

	require.Equal(t, emergency.IDPressure, e.Active().ID)

	e.Resolve(context.Background())

	// Only the pressure scenario ran: tank 2 to 30, its surplus of -10 into tank 1.
	require.InDelta(t, 70.0, store.Level(tank.Tank1), 0)
	require.InDelta(t, 30.0, store.Level(tank.Tank2), 0)
}

// TestActive_ReturnsCopy ensures callers cannot mutate the pending emergency.
func TestActive_ReturnsCopy(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	e := New(newStore(80, 20),
		WithRandom(&sequenceRandom{values: []int{leakIndex}}),
		WithClock(func() time.Time { return fixed }),
	)

	e.Trigger(context.Background())

	active := e.Active()
	require.Equal(t, fixed, active.TriggeredAt)

	*active.TargetLevel = 0
	require.InDelta(t, 50.0, *e.Active().TargetLevel, 0)
}

// flowRecorder is a TankState that records flow changes.
type flowRecorder struct {
	// mu protects the fields below.
	mu sync.Mutex
	// flow is the last flow value written.
	flow *bool
}

func (f *flowRecorder) Level(tank.ID) float64                     { return 0 }
func (f *flowRecorder) SetLevel(tank.ID, float64)                 {}
func (f *flowRecorder) SetTemperatures(tank.ID, float64, float64) {}

// SetFlowEnabled records the flow value.
func (f *flowRecorder) SetFlowEnabled(value bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.flow = &value
}

// TestResolve_Shutdown covers the shutdown branch no catalog entry reaches yet.
func TestResolve_Shutdown(t *testing.T) {
	t.Parallel()

	recorder := new(flowRecorder)
	e := New(recorder)

	e.active = &emergency.Emergency{
		Template: emergency.Template{
			ID:           "shutdown",
			AffectedTank: tank.Tank1,
			Action:       emergency.ActionShutdown,
			Category:     emergency.CategoryOperational,
		},
	}

	_, ok := e.Resolve(context.Background())
	require.True(t, ok)
	require.NotNil(t, recorder.flow)
	require.False(t, *recorder.flow)
	require.False(t, e.IsActive())
}

// TestEngine_ConcurrentTriggers checks that the published emergency matches its fire side effects.
func TestEngine_ConcurrentTriggers(t *testing.T) {
	t.Parallel()

	store := newStore(50, 50)
	e := New(store, WithRandom(NewRandom(7)))

	var wg sync.WaitGroup

	for range 16 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			e.Trigger(context.Background())
		}()
	}

	wg.Wait()

	active := e.Active()
	require.NotNil(t, active)

	if active.IsFire() {
		require.InDelta(t, active.PeakTemperature, store.Temperatures(active.AffectedTank).Internal, 0)
	}
}
