// Package server runs the tank-emergency gRPC server.
//
// It restores the tank snapshot, builds the scenario engine on top of the tank
// store, persists the snapshot after every state change, records metrics,
// publishes lifecycle events and optionally triggers emergencies on a timer.
package server
