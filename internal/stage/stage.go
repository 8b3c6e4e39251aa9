package stage

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"stagehand/internal/interview"
)

// Name identifies one pipeline stage.
type Name string

const (
	Feature    Name = "feature"
	TDD        Name = "tdd"
	Breakdown  Name = "breakdown"
	Engineer   Name = "engineer"
	TestDesign Name = "test-design"
	Coder      Name = "coder"
	CodeReview Name = "code-review"
	QA         Name = "qa"
)

// ErrUnknown is returned for stage names outside the closed set.
var ErrUnknown = errors.New("unknown stage")

// Stage is an immutable descriptor for one pipeline step.
//
// ArtifactSuffix is the filename suffix of the document the stage persists;
// stages that act on code rather than a new document leave it empty.
// RequiredPredecessors lists the stages whose artifacts must exist before
// this stage may run; only the immediate persisting predecessor is listed,
// deeper chains are guaranteed transitively by construction.
type Stage struct {
	Name                 Name
	ArtifactSuffix       string
	RequiredPredecessors []Name
	Questions            []interview.Question
}

// PersistsArtifact reports whether a successful run writes a document.
func (s Stage) PersistsArtifact() bool {
	return s.ArtifactSuffix != ""
}

// UsesInterview reports whether the stage gates content production on
// interview answers.
func (s Stage) UsesInterview() bool {
	return len(s.Questions) > 0
}

var titleCaser = cases.Title(language.English)

// DisplayName renders the stage name for human-facing output, e.g.
// "Test Design" or "Code Review".
func (s Stage) DisplayName() string {
	switch s.Name {
	case TDD:
		return "TDD"
	case QA:
		return "QA"
	default:
		return titleCaser.String(strings.ReplaceAll(string(s.Name), "-", " "))
	}
}

// ordered is the fixed total order of the pipeline. Stage execution,
// Next computation, and status rendering all follow this slice.
var ordered = []Stage{
	{
		Name:           Feature,
		ArtifactSuffix: "feature",
		Questions: []interview.Question{
			{
				ID:      "scope",
				Prompt:  "How should the first iteration be scoped?",
				Options: []string{"Smallest useful slice", "Complete feature", "Exploratory spike"},
			},
		},
	},
	{
		Name:                 TDD,
		ArtifactSuffix:       "tdd",
		RequiredPredecessors: []Name{Feature},
	},
	{
		Name:                 Breakdown,
		ArtifactSuffix:       "breakdown",
		RequiredPredecessors: []Name{TDD},
	},
	{
		Name:                 Engineer,
		ArtifactSuffix:       "engineer",
		RequiredPredecessors: []Name{Breakdown},
	},
	{
		Name:                 TestDesign,
		ArtifactSuffix:       "test",
		RequiredPredecessors: []Name{TDD},
		Questions: []interview.Question{
			{
				ID:      "depth",
				Prompt:  "What test depth should the plan target?",
				Options: []string{"Happy path only", "Happy path plus edge cases", "Exhaustive"},
			},
		},
	},
	{
		Name:                 Coder,
		RequiredPredecessors: []Name{TestDesign},
	},
	{
		// Code review operates on an in-progress diff, not on a prior
		// artifact, so it carries no formal precondition.
		Name: CodeReview,
	},
	{
		Name: QA,
	},
}

var byName = func() map[Name]int {
	index := make(map[Name]int, len(ordered))
	for i, s := range ordered {
		index[s.Name] = i
	}
	return index
}()

// All returns the stages in pipeline order.
func All() []Stage {
	out := make([]Stage, len(ordered))
	copy(out, ordered)
	return out
}

// Get resolves a stage by name.
func Get(name Name) (Stage, error) {
	i, ok := byName[name]
	if !ok {
		return Stage{}, fmt.Errorf("%w: %q", ErrUnknown, string(name))
	}
	return ordered[i], nil
}

// Lookup resolves a stage from raw CLI input, trimming whitespace and
// ignoring case.
func Lookup(raw string) (Stage, error) {
	return Get(Name(strings.ToLower(strings.TrimSpace(raw))))
}

// Next returns the stage immediately following name, or false when name is
// terminal.
func Next(name Name) (Stage, bool) {
	i, ok := byName[name]
	if !ok || i+1 >= len(ordered) {
		return Stage{}, false
	}
	return ordered[i+1], true
}

// RequiredPredecessors resolves the precondition stages for name.
func RequiredPredecessors(name Name) ([]Stage, error) {
	s, err := Get(name)
	if err != nil {
		return nil, err
	}
	preds := make([]Stage, 0, len(s.RequiredPredecessors))
	for _, predName := range s.RequiredPredecessors {
		pred, err := Get(predName)
		if err != nil {
			return nil, err
		}
		preds = append(preds, pred)
	}
	return preds, nil
}
