package workflow_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"stagehand/internal/artifact"
	"stagehand/internal/interview"
	"stagehand/internal/stage"
	"stagehand/internal/testsupport"
	"stagehand/internal/workflow"
)

func newRunner(t *testing.T) (*workflow.Runner, *artifact.Store, *interview.ScriptedGate) {
	t.Helper()
	store := testsupport.NewStore(t)
	gate := interview.NewScriptedGate(
		interview.Answer{Option: "Smallest useful slice"},
		interview.Answer{Option: "Happy path plus edge cases"},
		interview.Answer{Option: interview.OptionOther, Text: "spare"},
	)
	runner, err := workflow.NewRunner(store, gate, nil)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	return runner, store, gate
}

func mustFeature(t *testing.T, seq int, slug string) artifact.FeatureID {
	t.Helper()
	id, err := artifact.NewFeatureID(seq, slug)
	if err != nil {
		t.Fatalf("NewFeatureID: %v", err)
	}
	return id
}

func staticBody(body string) workflow.ContentProducer {
	return func(ctx context.Context, feature artifact.FeatureID, answers []interview.Answer) (string, error) {
		return body, nil
	}
}

func TestRunStageWritesArtifactAndReportsNext(t *testing.T) {
	runner, store, _ := newRunner(t)
	feature := mustFeature(t, 1, "user-auth")

	result, err := runner.RunStage(context.Background(), feature, stage.Feature, staticBody("# User Auth\n"))
	if err != nil {
		t.Fatalf("RunStage(feature): %v", err)
	}
	if result.Artifact == nil {
		t.Fatal("feature stage must persist a document")
	}
	if filepath.Base(result.Artifact.Path) != "1-user-auth.feature.md" {
		t.Fatalf("artifact path = %s", result.Artifact.Path)
	}
	if result.Next == nil || result.Next.Name != stage.TDD {
		t.Fatalf("next = %+v", result.Next)
	}

	result, err = runner.RunStage(context.Background(), feature, stage.TDD, staticBody("# Design\n"))
	if err != nil {
		t.Fatalf("RunStage(tdd): %v", err)
	}
	if filepath.Base(result.Artifact.Path) != "1-user-auth.tdd.md" {
		t.Fatalf("tdd artifact path = %s", result.Artifact.Path)
	}
	if result.Next == nil || result.Next.Name != stage.Breakdown {
		t.Fatalf("next after tdd = %+v", result.Next)
	}

	tddStage, _ := stage.Get(stage.TDD)
	exists, err := store.Exists(feature, tddStage)
	if err != nil || !exists {
		t.Fatalf("tdd artifact existence: %v %v", exists, err)
	}
}

func TestRunStageFailsFastOnMissingPredecessor(t *testing.T) {
	runner, store, _ := newRunner(t)
	feature := mustFeature(t, 1, "user-auth")

	_, err := runner.RunStage(context.Background(), feature, stage.TDD, staticBody("body"))
	var missing *workflow.MissingPreconditionError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingPreconditionError, got %v", err)
	}
	if missing.Missing != stage.Feature {
		t.Fatalf("missing predecessor = %s", missing.Missing)
	}

	// Failure leaves no trace on disk.
	tddStage, _ := stage.Get(stage.TDD)
	if exists, _ := store.Exists(feature, tddStage); exists {
		t.Fatal("failed run must not write an artifact")
	}
}

func TestRunStageRejectsUnknownStage(t *testing.T) {
	runner, _, _ := newRunner(t)
	feature := mustFeature(t, 1, "user-auth")

	_, err := runner.RunStage(context.Background(), feature, stage.Name("deploy"), staticBody("body"))
	if !errors.Is(err, stage.ErrUnknown) {
		t.Fatalf("expected ErrUnknown, got %v", err)
	}
}

func TestProducerErrorPropagatesVerbatim(t *testing.T) {
	runner, store, _ := newRunner(t)
	feature := mustFeature(t, 1, "user-auth")
	authoringErr := errors.New("model refused to elaborate")

	_, err := runner.RunStage(context.Background(), feature, stage.Feature,
		func(ctx context.Context, feature artifact.FeatureID, answers []interview.Answer) (string, error) {
			return "", authoringErr
		})
	if !errors.Is(err, authoringErr) {
		t.Fatalf("expected authoring error unchanged, got %v", err)
	}

	featureStage, _ := stage.Get(stage.Feature)
	if exists, _ := store.Exists(feature, featureStage); exists {
		t.Fatal("no artifact may exist after a failed producer")
	}
}

func TestRunStageIsIdempotent(t *testing.T) {
	runner, store, _ := newRunner(t)
	feature := mustFeature(t, 1, "user-auth")

	if _, err := runner.RunStage(context.Background(), feature, stage.Feature, staticBody("stable body")); err != nil {
		t.Fatalf("first run: %v", err)
	}
	result, err := runner.RunStage(context.Background(), feature, stage.Feature, staticBody("stable body"))
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	featureStage, _ := stage.Get(stage.Feature)
	content, err := store.Read(feature, featureStage)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if content != "stable body" {
		t.Fatalf("content drifted: %q", content)
	}

	entries, err := os.ReadDir(filepath.Dir(result.Artifact.Path))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	files := 0
	for _, entry := range entries {
		if filepath.Ext(entry.Name()) == ".md" {
			files++
		}
	}
	if files != 1 {
		t.Fatalf("expected one markdown file, found %d", files)
	}
}

func TestInterviewAnswersReachProducer(t *testing.T) {
	runner, _, _ := newRunner(t)
	feature := mustFeature(t, 1, "user-auth")

	var seen []interview.Answer
	_, err := runner.RunStage(context.Background(), feature, stage.Feature,
		func(ctx context.Context, feature artifact.FeatureID, answers []interview.Answer) (string, error) {
			seen = answers
			return "body", nil
		})
	if err != nil {
		t.Fatalf("RunStage: %v", err)
	}
	if len(seen) != 1 || seen[0].Option != "Smallest useful slice" {
		t.Fatalf("answers = %+v", seen)
	}
}

func TestCodeStagesPersistNothing(t *testing.T) {
	runner, store, _ := newRunner(t)
	feature := mustFeature(t, 1, "user-auth")

	// Seed the document pipeline far enough for coder's precondition.
	testsupport.SeedArtifacts(t, store, feature, stage.Feature, stage.TDD, stage.TestDesign)

	result, err := runner.RunStage(context.Background(), feature, stage.Coder, staticBody("hand-off"))
	if err != nil {
		t.Fatalf("RunStage(coder): %v", err)
	}
	if result.Artifact != nil {
		t.Fatal("coder must not persist a document")
	}
	if result.Content != "hand-off" {
		t.Fatalf("content = %q", result.Content)
	}
	if result.Next == nil || result.Next.Name != stage.CodeReview {
		t.Fatalf("next after coder = %+v", result.Next)
	}

	entries, err := os.ReadDir(store.Root())
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	markdown := 0
	for _, entry := range entries {
		if filepath.Ext(entry.Name()) == ".md" {
			markdown++
		}
	}
	if markdown != 3 {
		t.Fatalf("expected 3 documents, found %d", markdown)
	}
}

func TestQAIsTerminal(t *testing.T) {
	runner, _, _ := newRunner(t)
	feature := mustFeature(t, 1, "user-auth")

	result, err := runner.RunStage(context.Background(), feature, stage.QA, staticBody("done"))
	if err != nil {
		t.Fatalf("RunStage(qa): %v", err)
	}
	if result.Next != nil {
		t.Fatalf("qa must be terminal, got next %s", result.Next.Name)
	}
}

func TestNextRunnable(t *testing.T) {
	runner, _, _ := newRunner(t)
	feature := mustFeature(t, 1, "user-auth")

	next, ok, err := runner.NextRunnable(feature)
	if err != nil || !ok || next.Name != stage.Feature {
		t.Fatalf("fresh feature: next = %v ok=%v err=%v", next.Name, ok, err)
	}

	if _, err := runner.RunStage(context.Background(), feature, stage.Feature, staticBody("body")); err != nil {
		t.Fatalf("RunStage(feature): %v", err)
	}
	next, ok, err = runner.NextRunnable(feature)
	if err != nil || !ok || next.Name != stage.TDD {
		t.Fatalf("after feature: next = %v ok=%v err=%v", next.Name, ok, err)
	}

	for _, name := range []stage.Name{stage.TDD, stage.Breakdown, stage.Engineer, stage.TestDesign} {
		if _, err := runner.RunStage(context.Background(), feature, name, staticBody("body")); err != nil {
			t.Fatalf("RunStage(%s): %v", name, err)
		}
	}
	if _, ok, err := runner.NextRunnable(feature); err != nil || ok {
		t.Fatalf("pipeline documents complete: ok=%v err=%v", ok, err)
	}
}

func TestRunStageRequiresGateForInterviewStages(t *testing.T) {
	store := artifact.NewStore(t.TempDir(), nil)
	runner, err := workflow.NewRunner(store, nil, nil)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	feature := mustFeature(t, 1, "user-auth")

	if _, err := runner.RunStage(context.Background(), feature, stage.Feature, staticBody("body")); err == nil {
		t.Fatal("expected error when interview stage runs without a gate")
	}
}
