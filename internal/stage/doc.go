// Package stage defines the fixed development pipeline: the closed set of
// stage names, their total ordering, and each stage's artifact suffix,
// precondition set, and interview questions.
//
// The table is defined once at init and never mutated. Treat this package as
// the single source of truth for pipeline shape; adding a stage means adding
// a row here and nothing else.
package stage
