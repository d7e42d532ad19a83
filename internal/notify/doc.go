// Package notify publishes emergency lifecycle events so other dashboards can
// follow along. Events are JSON documents sent to NATS subjects of the form
// <prefix>.triggered and <prefix>.resolved.
package notify
