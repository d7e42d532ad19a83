package emergency

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/tank-emergency/internal/domain/tank"
)

// TestTemplates_Catalog checks the catalog content and its invariants.
func TestTemplates_Catalog(t *testing.T) {
	t.Parallel()

	all := Templates()
	require.Len(t, all, 4)

	var operational, fire int

	for _, tmpl := range all {
		// Target level goes with transfers only.
		require.Equal(t, tmpl.Action == ActionTransfer, tmpl.TargetLevel != nil, tmpl.ID)

		switch tmpl.Category {
		case CategoryOperational:
			operational++
		case CategoryFire:
			fire++
			require.Equal(t, ActionFireResponse, tmpl.Action)
		}
	}

	require.Equal(t, 2, operational)
	require.Equal(t, 2, fire)

	leak, ok := Lookup(IDLeak)
	require.True(t, ok)
	require.Equal(t, tank.Tank1, leak.AffectedTank)
	require.InDelta(t, 50.0, *leak.TargetLevel, 0)

	pressure, ok := Lookup(IDPressure)
	require.True(t, ok)
	require.Equal(t, tank.Tank2, pressure.AffectedTank)
	require.InDelta(t, 30.0, *pressure.TargetLevel, 0)

	_, ok = Lookup("flood")
	require.False(t, ok)
}

// TestTemplates_ReturnsCopies ensures callers cannot mutate the catalog.
func TestTemplates_ReturnsCopies(t *testing.T) {
	t.Parallel()

	first := Templates()
	*first[0].TargetLevel = 99
	first[0].Title = "changed"

	again, ok := Lookup(IDLeak)
	require.True(t, ok)
	require.InDelta(t, 50.0, *again.TargetLevel, 0)
	require.NotEqual(t, "changed", again.Title)

	responses := FireResponses()
	require.Len(t, responses, 2)
	require.Equal(t, StatusSuccess, responses[0].Status)
	require.Equal(t, StatusFailure, responses[1].Status)

	responses[0].Message = "changed"
	require.NotEqual(t, "changed", FireResponses()[0].Message)
}
