package client

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/oshokin/tank-emergency/internal/domain/emergency"
	"github.com/oshokin/tank-emergency/internal/domain/tank"
)

const (
	// fireSystemPrefix introduces the fire-suppression outcome.
	fireSystemPrefix = "Sistema contra incendios: "
	// protocolPrompt is the label of the operator's response.
	protocolPrompt = "[ Iniciar Protocolo ]"
	// alertWidth wraps long descriptions.
	alertWidth = 60
)

// RenderAlert writes the overlay for e. A nil emergency renders nothing.
func RenderAlert(w io.Writer, e *emergency.Emergency) {
	if e == nil {
		return
	}

	colors := text.Colors{text.BgRed, text.FgWhite, text.Bold}
	if e.IsFire() {
		colors = text.Colors{text.BgHiRed, text.FgHiYellow, text.Bold}
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.SetTitle(e.Title)
	t.Style().Title.Colors = colors
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMax: alertWidth, WidthMaxEnforcer: text.WrapSoft},
	})

	t.AppendRow(table.Row{e.Description})

	if e.SystemResponse != nil {
		color := text.FgHiGreen
		if e.SystemResponse.Status == emergency.StatusFailure {
			color = text.FgHiRed
		}

		t.AppendRow(table.Row{color.Sprint(fireSystemPrefix + e.SystemResponse.Message)})
	}

	t.AppendFooter(table.Row{protocolPrompt})
	t.Render()
}

// RenderTanks writes the tank state as a table.
func RenderTanks(w io.Writer, s tank.Snapshot) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Tank", "Level %", "Internal °C", "External °C"})

	for _, id := range []tank.ID{tank.Tank1, tank.Tank2} {
		r := s.Reading(id)
		t.AppendRow(table.Row{
			strconv.Itoa(int(id)),
			formatNumber(r.Level),
			formatNumber(r.Temperatures.Internal),
			formatNumber(r.Temperatures.External),
		})
	}

	flow := "disabled"
	if s.FlowEnabled {
		flow = "enabled"
	}

	t.SetCaption("Flow: %s", flow)
	t.Render()
}

// formatNumber drops trailing zeros.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// describeResolution is the one-line summary printed after a resolve.
func describeResolution(e *emergency.Emergency) string {
	switch e.Action {
	case emergency.ActionTransfer:
		if e.TargetLevel != nil {
			return fmt.Sprintf("%s resolved: tank %d brought to %s%%", e.ID, int(e.AffectedTank), formatNumber(*e.TargetLevel))
		}
	case emergency.ActionFireResponse:
		return fmt.Sprintf("%s resolved: tank %d cooled to ambient", e.ID, int(e.AffectedTank))
	case emergency.ActionShutdown:
		return e.ID + " resolved: flow shut down"
	}

	return e.ID + " resolved"
}
