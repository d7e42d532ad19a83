package emergency

import (
	"github.com/samber/lo"

	"github.com/oshokin/tank-emergency/internal/domain/tank"
)

// Catalog identifiers.
const (
	IDLeak     = "leak"
	IDPressure = "pressure"
	IDFire1    = "fire-1"
	IDFire2    = "fire-2"
)

//nolint:gochecknoglobals // Immutable catalog, exposed only through copies.
var (
	templates = []Template{
		{
			ID:    IDLeak,
			Title: "¡Fuga Detectada!",
			Description: "Se ha detectado una fuga en el Tanque 1. " +
				"Es necesario transferir el 50% del contenido al Tanque 2 inmediatamente.",
			AffectedTank: tank.Tank1,
			Action:       ActionTransfer,
			TargetLevel:  lo.ToPtr(50.0),
			Category:     CategoryOperational,
		},
		{
			ID:    IDPressure,
			Title: "¡Presión Crítica!",
			Description: "Presión crítica detectada en el Tanque 2. " +
				"Protocolo de emergencia: reducir nivel al 30%.",
			AffectedTank: tank.Tank2,
			Action:       ActionTransfer,
			TargetLevel:  lo.ToPtr(30.0),
			Category:     CategoryOperational,
		},
		{
			ID:    IDFire1,
			Title: "¡ALERTA DE INCENDIO!",
			Description: "Temperatura crítica detectada en Tanque 1. " +
				"Temperatura interna: 2500°C y aumentando.",
			AffectedTank: tank.Tank1,
			Action:       ActionFireResponse,
			Category:     CategoryFire,
		},
		{
			ID:    IDFire2,
			Title: "¡ALERTA DE INCENDIO!",
			Description: "Temperatura crítica detectada en Tanque 2. " +
				"Temperatura interna: 4800°C y aumentando.",
			AffectedTank: tank.Tank2,
			Action:       ActionFireResponse,
			Category:     CategoryFire,
		},
	}

	fireResponses = []Outcome{
		{Status: StatusSuccess, Message: "Sistema activado exitosamente"},
		{Status: StatusFailure, Message: "Activación fallida - Iniciando sistema secundario"},
	}
)

// Templates returns copies of every scenario, operational ones first.
func Templates() []*Template {
	return lo.Map(templates, func(t Template, _ int) *Template {
		return t.Clone()
	})
}

// FireResponses returns copies of the fire-suppression outcomes.
func FireResponses() []Outcome {
	return append([]Outcome(nil), fireResponses...)
}

// Lookup returns a copy of the scenario with the given id.
func Lookup(id string) (*Template, bool) {
	t, ok := lo.Find(templates, func(t Template) bool {
		return t.ID == id
	})
	if !ok {
		return nil, false
	}

	return t.Clone(), true
}
