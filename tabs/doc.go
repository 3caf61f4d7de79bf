// Package tabs contains the domain tabs and their pane composition.
//
// Allowed here:
// - binding a tab to its slice through a screen controller
// - tab-specific layout trees and cursor state
//
// Not allowed here:
// - shared app routing logic (core) or low-level drawing primitives (widgets)
// - HTTP details beyond choosing a resource
package tabs
