// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - EntityStore: Geometric entity registry rebuilt on every recompute
//   - VariableStore: Formula namespace
//   - DraftingCodec: Drafting document format
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - MeasurementSource: Without it, draftings are recomputed without measurements.
//   - MeasurementWatcher: Only used by the watch command.
//   - LibraryStore: Without it, library commands are unavailable.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
