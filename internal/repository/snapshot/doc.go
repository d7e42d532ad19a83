// Package snapshot persists the tank state between server restarts.
//
// FileRepository stores the tank Snapshot as YAML on disk behind the
// Repository interface the server service depends on. Emergencies themselves
// are never persisted.
package snapshot
