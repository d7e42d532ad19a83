// Package client implements the operator console commands.
//
// Each command loads the settings, connects to the tank server and prints the
// result. Alerts are rendered like the dashboard overlay: title, description,
// the fire-suppression line for fires, and the protocol prompt.
package client
