package emergency

import (
	"time"

	"github.com/oshokin/tank-emergency/internal/domain/tank"
)

// Action is the corrective action applied when an emergency is resolved.
type Action string

const (
	// ActionTransfer moves liquid between the tanks until the affected one reaches the target level.
	ActionTransfer Action = "transfer"
	// ActionShutdown disables the shared flow. No catalog entry produces it yet.
	ActionShutdown Action = "shutdown"
	// ActionFireResponse resets the affected tank's temperatures to ambient.
	ActionFireResponse Action = "fire-response"
)

// Category groups emergencies by nature.
type Category string

const (
	// CategoryOperational covers leaks and pressure events.
	CategoryOperational Category = "operational"
	// CategoryFire covers fires.
	CategoryFire Category = "fire"
)

// Status is the result reported by the fire-suppression system.
type Status string

const (
	// StatusSuccess means the suppression system activated.
	StatusSuccess Status = "success"
	// StatusFailure means activation failed and a fallback was started.
	StatusFailure Status = "failure"
)

// Outcome is one possible response of the fire-suppression system.
type Outcome struct {
	// Status is the activation result.
	Status Status
	// Message is the text shown to the operator.
	Message string
}

// Template is an immutable scenario definition.
type Template struct {
	// ID uniquely identifies the scenario.
	ID string
	// Title is the alert headline.
	Title string
	// Description is the alert body.
	Description string
	// AffectedTank is the tank the scenario happens in.
	AffectedTank tank.ID
	// Action is applied on resolution.
	Action Action
	// TargetLevel is set only for ActionTransfer.
	TargetLevel *float64
	// Category tells operational scenarios from fires.
	Category Category
}

// Clone returns a deep copy of the template.
func (t *Template) Clone() *Template {
	if t == nil {
		return nil
	}

	cloned := *t
	if t.TargetLevel != nil {
		level := *t.TargetLevel
		cloned.TargetLevel = &level
	}

	return &cloned
}

// Emergency is the active instance of a scenario.
type Emergency struct {
	Template

	// SystemResponse is present only for fires.
	SystemResponse *Outcome
	// PeakTemperature is the internal temperature a fire drove the tank to.
	PeakTemperature float64
	// ExternalTemperature is the shell temperature a fire drove the tank to.
	ExternalTemperature float64
	// TriggeredAt is when the emergency was activated.
	TriggeredAt time.Time
}

// New creates an emergency from the template.
func New(tmpl *Template, triggeredAt time.Time) *Emergency {
	return &Emergency{
		Template:    *tmpl.Clone(),
		TriggeredAt: triggeredAt,
	}
}

// IsFire reports whether the emergency is a fire.
func (e *Emergency) IsFire() bool {
	return e.Category == CategoryFire
}

// Clone returns a deep copy of the emergency.
func (e *Emergency) Clone() *Emergency {
	if e == nil {
		return nil
	}

	cloned := *e
	cloned.Template = *e.Template.Clone()

	if e.SystemResponse != nil {
		response := *e.SystemResponse
		cloned.SystemResponse = &response
	}

	return &cloned
}

// Operator identifies who acknowledged an emergency.
type Operator struct {
	// Hostname is the machine the operator acted from.
	Hostname string
	// Username is the system user of the operator.
	Username string
}

// Clone returns a copy of the operator.
func (o *Operator) Clone() *Operator {
	if o == nil {
		return nil
	}

	cloned := *o

	return &cloned
}

// String renders the operator as user@host.
func (o *Operator) String() string {
	if o == nil {
		return "<unknown>"
	}

	return o.Username + "@" + o.Hostname
}
