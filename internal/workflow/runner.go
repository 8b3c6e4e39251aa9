package workflow

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"stagehand/internal/artifact"
	"stagehand/internal/interview"
	"stagehand/internal/logging"
	"stagehand/internal/stage"
)

// ContentProducer supplies a stage's document body. It is the external
// collaborator slot: an LLM call, an editor session, a file read. Errors
// it returns propagate to the RunStage caller untouched.
type ContentProducer func(ctx context.Context, feature artifact.FeatureID, answers []interview.Answer) (string, error)

// Result reports one completed stage execution. Content always carries the
// produced body, including for stages that persist nothing, so callers can
// surface it as hand-off material.
type Result struct {
	Stage    stage.Stage
	Artifact *artifact.Artifact // nil when the stage persists no document
	Content  string
	Answers  []interview.Answer
	Next     *stage.Stage // nil when the stage is terminal
}

// Runner executes pipeline stages one at a time.
type Runner struct {
	store  *artifact.Store
	gate   interview.Gate
	logger *slog.Logger
}

// NewRunner constructs a runner with initialized dependencies. The gate may
// be nil when no interviewing stage will run.
func NewRunner(store *artifact.Store, gate interview.Gate, logger *slog.Logger) (*Runner, error) {
	if store == nil {
		return nil, errors.New("runner requires an artifact store")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{
		store:  store,
		gate:   gate,
		logger: logger.With(logging.String(logging.FieldComponent, "workflow")),
	}, nil
}

// RunStage executes one stage for one feature: precondition gate, optional
// interview, content production, artifact write, next-stage hand-off. On
// failure nothing is written; one file write happens on success, and only
// for stages that persist a document.
func (r *Runner) RunStage(ctx context.Context, feature artifact.FeatureID, name stage.Name, produce ContentProducer) (*Result, error) {
	st, err := stage.Get(name)
	if err != nil {
		return nil, err
	}
	if produce == nil {
		return nil, errors.New("content producer must not be nil")
	}

	runID := uuid.NewString()
	ctx = logging.WithFeature(ctx, feature.Ref())
	ctx = logging.WithStage(ctx, string(st.Name))
	ctx = logging.WithRunID(ctx, runID)
	runLogger := logging.WithContext(ctx, r.logger)

	lock, err := r.store.Lock(feature)
	if err != nil {
		return nil, err
	}
	defer func() {
		if unlockErr := lock.Unlock(); unlockErr != nil {
			runLogger.Warn("failed to release feature lock", logging.Error(unlockErr))
		}
	}()

	start := time.Now()
	runLogger.Info("stage started",
		logging.String(logging.FieldEventType, "stage_start"),
		logging.Bool("persists_artifact", st.PersistsArtifact()),
	)

	// Fail fast on the first missing predecessor; the pipeline's "use
	// after X" framing is sequential, not aggregated.
	for _, predName := range st.RequiredPredecessors {
		pred, err := stage.Get(predName)
		if err != nil {
			return nil, err
		}
		exists, err := r.store.Exists(feature, pred)
		if err != nil {
			return nil, err
		}
		if !exists {
			missing := &MissingPreconditionError{Stage: st.Name, Missing: pred.Name}
			runLogger.Warn("precondition not met",
				logging.String("missing", string(pred.Name)),
			)
			return nil, missing
		}
	}

	answers, err := r.collectAnswers(ctx, st, runLogger)
	if err != nil {
		return nil, err
	}

	// Authoring failures pass through verbatim; the orchestrator has no
	// domain knowledge of them.
	content, err := produce(ctx, feature, answers)
	if err != nil {
		return nil, err
	}

	result := &Result{Stage: st, Content: content, Answers: answers}
	if st.PersistsArtifact() {
		written, err := r.store.Write(feature, st, content)
		if err != nil {
			return nil, err
		}
		result.Artifact = &written
	}

	if next, ok := stage.Next(st.Name); ok {
		result.Next = &next
	}

	attrs := []logging.Attr{
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.Duration("stage_duration", time.Since(start)),
	}
	if result.Artifact != nil {
		attrs = append(attrs, logging.String("artifact", result.Artifact.Path))
	}
	if result.Next != nil {
		attrs = append(attrs, logging.String("next_stage", string(result.Next.Name)))
	}
	runLogger.Info("stage completed", logging.Args(attrs...)...)

	return result, nil
}

func (r *Runner) collectAnswers(ctx context.Context, st stage.Stage, runLogger *slog.Logger) ([]interview.Answer, error) {
	if !st.UsesInterview() {
		return nil, nil
	}
	if r.gate == nil {
		return nil, errors.New("stage requires an interview gate")
	}
	answers := make([]interview.Answer, 0, len(st.Questions))
	for _, q := range st.Questions {
		answer, err := r.gate.Ask(ctx, q)
		if err != nil {
			return nil, err
		}
		runLogger.Debug("interview answered",
			logging.String("question", q.ID),
			logging.String("answer", answer.String()),
		)
		answers = append(answers, answer)
	}
	return answers, nil
}

// NextRunnable returns the first stage in pipeline order whose artifact is
// missing but whose preconditions hold, or false when every persisting
// stage's document already exists. Code stages (no artifact) are skipped;
// their execution leaves no trace the store could observe.
func (r *Runner) NextRunnable(feature artifact.FeatureID) (stage.Stage, bool, error) {
	for _, st := range stage.All() {
		if !st.PersistsArtifact() {
			continue
		}
		exists, err := r.store.Exists(feature, st)
		if err != nil {
			return stage.Stage{}, false, err
		}
		if exists {
			continue
		}
		ready := true
		for _, predName := range st.RequiredPredecessors {
			pred, err := stage.Get(predName)
			if err != nil {
				return stage.Stage{}, false, err
			}
			predExists, err := r.store.Exists(feature, pred)
			if err != nil {
				return stage.Stage{}, false, err
			}
			if !predExists {
				ready = false
				break
			}
		}
		if ready {
			return st, true, nil
		}
	}
	return stage.Stage{}, false, nil
}
