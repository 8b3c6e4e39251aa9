package artifact

import "errors"

// ErrNotFound is returned when a read targets an artifact that does not
// exist (or exists as an empty file, which the pipeline treats the same).
var ErrNotFound = errors.New("artifact not found")

// ErrNoDocument is returned when a store operation targets a stage that
// persists no document (coder, code-review, qa act on code instead).
var ErrNoDocument = errors.New("stage persists no document")
