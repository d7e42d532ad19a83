// Package engine implements the emergency scenario engine.
//
// The Engine owns a single active-emergency slot. Trigger draws a random
// scenario from the catalog and activates it, spiking the affected tank's
// temperatures right away for fires. Resolve applies the scenario's corrective
// action to the injected TankState and clears the slot.
package engine
