// Package migrate reconciles a parsed payload of any declared version into a
// current-schema overlay.
//
// Reconciliation starts from overlay.Default() and copies in every field of
// the payload whose shape matches the current schema. Fields that do not
// match keep their default; nothing is rejected wholesale. dayProgress is
// merged per day and per sub-field, so corruption in one day never costs
// the progress recorded on another.
//
// The declared schemaVersion is informational only. The result always
// carries overlay.CurrentVersion. The version 1 browser shape is recognized
// and its keys are aliased onto the current ones before reconciling.
//
// Reconcile never fails. ReconcileWithReport additionally lists which paths
// were defaulted or dropped, for diagnostics.
package migrate
