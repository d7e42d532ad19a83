package tank

import "fmt"

// ID identifies one of the two storage tanks.
type ID int

const (
	// Tank1 is the first storage tank.
	Tank1 ID = 1
	// Tank2 is the second storage tank.
	Tank2 ID = 2
)

const (
	// AmbientTemperature is the baseline temperature of a tank at rest.
	AmbientTemperature = 25.0
	// DefaultLevel is the fill level a fresh tank starts with.
	DefaultLevel = 50.0
)

// Other returns the tank paired with t.
func (t ID) Other() ID {
	if t == Tank1 {
		return Tank2
	}

	return Tank1
}

// Valid reports whether t is a known tank.
func (t ID) Valid() bool {
	return t == Tank1 || t == Tank2
}

// String returns a human-readable tank name.
func (t ID) String() string {
	return fmt.Sprintf("tank-%d", int(t))
}

// Temperatures holds the internal and external temperature of a tank.
type Temperatures struct {
	// Internal is the temperature of the stored liquid.
	Internal float64 `yaml:"internal"`
	// External is the temperature of the tank shell.
	External float64 `yaml:"external"`
}

// Ambient returns a temperature pair at the ambient baseline.
func Ambient() Temperatures {
	return Temperatures{
		Internal: AmbientTemperature,
		External: AmbientTemperature,
	}
}

// Reading is the state of a single tank.
type Reading struct {
	// Level is the fill percentage. Transfers do not clamp it to [0, 100].
	Level float64 `yaml:"level"`
	// Temperatures is the current temperature pair.
	Temperatures Temperatures `yaml:"temperatures"`
}

// Snapshot is a point-in-time copy of the dashboard state.
type Snapshot struct {
	// Tank1 is the state of the first tank.
	Tank1 Reading `yaml:"tank1"`
	// Tank2 is the state of the second tank.
	Tank2 Reading `yaml:"tank2"`
	// FlowEnabled is the process-wide flow flag shared by both tanks.
	FlowEnabled bool `yaml:"flow_enabled"`
}

// DefaultSnapshot returns the state of a freshly started dashboard.
func DefaultSnapshot() Snapshot {
	return Snapshot{
		Tank1:       Reading{Level: DefaultLevel, Temperatures: Ambient()},
		Tank2:       Reading{Level: DefaultLevel, Temperatures: Ambient()},
		FlowEnabled: true,
	}
}

// Reading returns the state of the requested tank.
func (s Snapshot) Reading(t ID) Reading {
	if t == Tank2 {
		return s.Tank2
	}

	return s.Tank1
}

// TotalLevel returns the sum of both tank levels.
func (s Snapshot) TotalLevel() float64 {
	return s.Tank1.Level + s.Tank2.Level
}
