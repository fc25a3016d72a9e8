// Package services implements the driving port interfaces.
// Services contain the drafting logic and orchestrate
// calls to driven ports (adapters).
//
// The Engine replays a drafting's operations into the entity and variable
// stores. The HistoryService wraps every edit in a reversible Command and
// recomputes from the earliest operation it affects.
package services
