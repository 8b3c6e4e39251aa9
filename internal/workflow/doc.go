// Package workflow orchestrates single stage executions end-to-end: resolve
// the stage, gate on predecessor artifacts, collect interview answers,
// invoke the caller's content producer, persist the result, and report the
// next stage for hand-off.
//
// There is no pipeline state beyond the artifact files themselves; every
// run reconstructs its view from existence checks, so a crashed run is
// recovered by simply running the stage again.
package workflow
