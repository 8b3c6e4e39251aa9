// Package interview models the blocking question/answer exchanges a stage
// uses to resolve ambiguous decisions before producing its document.
//
// A Gate presents one question with an enumerated option list plus an
// implicit trailing "Other (specify)" choice and blocks until the answer
// source responds. The gate never validates the semantic content of an
// answer; that responsibility belongs to the stage's content producer.
package interview
