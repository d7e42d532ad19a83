package notify

import (
	"time"

	"github.com/oshokin/tank-emergency/internal/domain/emergency"
	"github.com/oshokin/tank-emergency/internal/domain/tank"
)

// Kind is the lifecycle step an event reports.
type Kind string

const (
	// KindTriggered is sent when an emergency is activated.
	KindTriggered Kind = "triggered"
	// KindResolved is sent when an operator resolves an emergency.
	KindResolved Kind = "resolved"
)

// Event is the published document.
type Event struct {
	Kind        Kind      `json:"kind"`
	OccurredAt  time.Time `json:"occurred_at"`
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Tank        int       `json:"tank"`
	Category    string    `json:"category"`
	Action      string    `json:"action"`
	TargetLevel *float64  `json:"target_level,omitempty"`
	// SystemStatus is the fire-suppression result, fires only.
	SystemStatus string `json:"system_status,omitempty"`
	// PeakTemperature is set for fires.
	PeakTemperature float64 `json:"peak_temperature,omitempty"`
	// ExternalTemperature is the shell temperature of a fire.
	ExternalTemperature float64 `json:"external_temperature,omitempty"`
	Operator            string  `json:"operator,omitempty"`
	Tanks               Tanks   `json:"tanks"`
}

// Tanks is the tank state attached to an event.
type Tanks struct {
	Tank1Level    float64 `json:"tank1_level"`
	Tank2Level    float64 `json:"tank2_level"`
	Tank1Internal float64 `json:"tank1_internal_temperature"`
	Tank1External float64 `json:"tank1_external_temperature"`
	Tank2Internal float64 `json:"tank2_internal_temperature"`
	Tank2External float64 `json:"tank2_external_temperature"`
	FlowEnabled   bool    `json:"flow_enabled"`
}

// NewEvent builds an event for e after the state change described by kind.
func NewEvent(kind Kind, e *emergency.Emergency, operator *emergency.Operator, s tank.Snapshot) Event {
	ev := Event{
		Kind:                kind,
		OccurredAt:          time.Now().UTC(),
		ID:                  e.ID,
		Title:               e.Title,
		Tank:                int(e.AffectedTank),
		Category:            string(e.Category),
		Action:              string(e.Action),
		TargetLevel:         e.TargetLevel,
		PeakTemperature:     e.PeakTemperature,
		ExternalTemperature: e.ExternalTemperature,
		Tanks: Tanks{
			Tank1Level:    s.Tank1.Level,
			Tank2Level:    s.Tank2.Level,
			Tank1Internal: s.Tank1.Temperatures.Internal,
			Tank1External: s.Tank1.Temperatures.External,
			Tank2Internal: s.Tank2.Temperatures.Internal,
			Tank2External: s.Tank2.Temperatures.External,
			FlowEnabled:   s.FlowEnabled,
		},
	}

	if e.SystemResponse != nil {
		ev.SystemStatus = string(e.SystemResponse.Status)
	}

	if operator != nil {
		ev.Operator = operator.String()
	}

	return ev
}
