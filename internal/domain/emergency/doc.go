// Package emergency contains the scenario catalog and the emergency types.
//
// A Template is an immutable scenario definition, an Outcome is a possible
// answer of the fire-suppression system, and an Emergency is the single
// in-flight instance awaiting an operator. Clone helpers keep callers from
// sharing internal references.
package emergency
