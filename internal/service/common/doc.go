// Package common holds helpers shared by several services.
//
// It provides a lightweight gRPC client for the emergency service with call
// timeouts, and detection of the current operator (hostname/username) for the
// resolution audit trail.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
