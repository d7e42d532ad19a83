// Package tank contains the domain types for the two storage tanks.
//
// It defines the tank identifiers, the temperature pair of a tank, the Snapshot
// of the whole dashboard state and a thread-safe in-memory Store that owns
// those values at runtime.
package tank
