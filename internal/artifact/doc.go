// Package artifact persists pipeline documents in a flat-file namespace and
// answers the existence queries that gate stage execution.
//
// Every document lives at <root>/<sequence>-<slug>.<suffix>.md. Path
// resolution is pure and injective over (feature, stage) pairs; slug
// normalization rejects anything that could collide with the separator or
// suffix grammar. The filesystem is the only pipeline state there is: no
// in-memory registry shadows it, and re-running a stage simply overwrites
// the file.
package artifact
