package workflow

import (
	"fmt"

	"stagehand/internal/stage"
)

// MissingPreconditionError reports the first unmet predecessor of a stage.
// It is fatal for the call but recoverable: run the missing stage first.
type MissingPreconditionError struct {
	Stage   stage.Name
	Missing stage.Name
}

func (e *MissingPreconditionError) Error() string {
	return fmt.Sprintf("stage %s requires the %s artifact; run %s first", e.Stage, e.Missing, e.Missing)
}
