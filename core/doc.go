// Package core contains app-wide contracts and state orchestration.
//
// Allowed here:
// - model routing, message contracts, command and key registries
// - path routing with auth guards, tab activation and the screen stack
// - delivery of fetch events into the store and slice change fan-out
//
// Not allowed here:
// - concrete tab/screen rendering implementations
// - low-level widget rendering primitives
// - HTTP or storage access
package core
