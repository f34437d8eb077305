// Package overlay defines the persisted user overlay and its schema registry.
//
// The overlay is every piece of state a user creates on top of the read-only
// base dataset: checklist ticks, day notes, logged bugs/ideas/decisions, a
// locally patched documentation page, settings and a bounded activity log.
//
// This package contains type definitions and the registry only. It imports
// nothing internal; codec, migrate, progress and store all build on it.
//
// Key constraints:
//   - SchemaVersion always equals CurrentVersion once an overlay is in memory
//   - DayProgress holds exactly one record per id in DayIDs()
//   - len(ActivityLog) <= ActivityCap after every append
//   - All JSON tags use the camelCase names of the export format
package overlay
