// Package harness runs scripted scenarios against the overlay store.
//
// A scenario drives a store through a flow of operations over an in-memory
// slot, with a deterministic clock and id generator, and then checks the
// operation trace, the activity log and the final overlay.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: scenario_name
//	description: "What this scenario checks"
//	base: ../../../../data      # optional base dataset, relative to the file
//	stored: legacy.json         # optional raw slot content, relative to the file
//	flow:
//	  - invoke: tick
//	    args: { day: D1, item: d1-repo }
//	    expect:
//	      case: Success
//	      result: { milestones: [] }
//	assertions:
//	  - type: trace_contains
//	    action: tick
//	    args: { day: D1 }
//	  - type: activity_count
//	    kind: milestone
//	    count: 1
//	  - type: final_state
//	    path: dayProgress.D1.tickedItemIds
//	    equals: [d1-repo]
//
// # Actions
//
// tick, note, complete, bug.add, bug.status, bug.delete, idea.add,
// idea.delete, decision.add, decision.delete, doc.set, doc.clear, setting,
// import, reset, reload and fail_writes. reload builds a new store over the
// same slot, as a restart would; fail_writes toggles write failures.
//
// # Output Cases
//
// Every invocation completes with one case: Success, UnknownDay, NotFound,
// InvalidValue, ImportInvalid, StorageUnavailable or Error.
package harness
