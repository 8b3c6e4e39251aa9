package artifact_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"stagehand/internal/artifact"
	"stagehand/internal/stage"
)

func mustFeature(t *testing.T, seq int, slug string) artifact.FeatureID {
	t.Helper()
	id, err := artifact.NewFeatureID(seq, slug)
	if err != nil {
		t.Fatalf("NewFeatureID: %v", err)
	}
	return id
}

func mustStage(t *testing.T, name stage.Name) stage.Stage {
	t.Helper()
	st, err := stage.Get(name)
	if err != nil {
		t.Fatalf("stage.Get(%s): %v", name, err)
	}
	return st
}

func TestWriteReadRoundTrip(t *testing.T) {
	store := artifact.NewStore(filepath.Join(t.TempDir(), "docs", "features"), nil)
	feature := mustFeature(t, 1, "user-auth")
	featureStage := mustStage(t, stage.Feature)

	exists, err := store.Exists(feature, featureStage)
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if exists {
		t.Fatal("artifact must not exist before any write")
	}

	written, err := store.Write(feature, featureStage, "# User Auth\n")
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if filepath.Base(written.Path) != "1-user-auth.feature.md" {
		t.Fatalf("unexpected artifact filename: %s", written.Path)
	}

	exists, err = store.Exists(feature, featureStage)
	if err != nil {
		t.Fatalf("Exists after write: %v", err)
	}
	if !exists {
		t.Fatal("artifact must exist after write")
	}

	content, err := store.Read(feature, featureStage)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if content != "# User Auth\n" {
		t.Fatalf("Read returned %q", content)
	}
}

func TestWriteOverwrites(t *testing.T) {
	store := artifact.NewStore(t.TempDir(), nil)
	feature := mustFeature(t, 1, "user-auth")
	featureStage := mustStage(t, stage.Feature)

	if _, err := store.Write(feature, featureStage, "first"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := store.Write(feature, featureStage, "second"); err != nil {
		t.Fatalf("second Write: %v", err)
	}
	content, err := store.Read(feature, featureStage)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if content != "second" {
		t.Fatalf("overwrite lost: %q", content)
	}

	entries, err := os.ReadDir(store.Root())
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly one file, found %d", len(entries))
	}
}

func TestReadMissingArtifact(t *testing.T) {
	store := artifact.NewStore(t.TempDir(), nil)
	feature := mustFeature(t, 2, "billing")

	if _, err := store.Read(feature, mustStage(t, stage.TDD)); !errors.Is(err, artifact.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEmptyFileTreatedAsAbsent(t *testing.T) {
	store := artifact.NewStore(t.TempDir(), nil)
	feature := mustFeature(t, 2, "billing")
	tddStage := mustStage(t, stage.TDD)

	path, err := store.ResolvePath(feature, tddStage)
	if err != nil {
		t.Fatalf("ResolvePath: %v", err)
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	exists, err := store.Exists(feature, tddStage)
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if exists {
		t.Fatal("empty file must not count as an artifact")
	}
	if _, err := store.Read(feature, tddStage); !errors.Is(err, artifact.ErrNotFound) {
		t.Fatalf("Read of empty file: expected ErrNotFound, got %v", err)
	}
}

func TestResolvePathInjective(t *testing.T) {
	store := artifact.NewStore(t.TempDir(), nil)
	features := []artifact.FeatureID{
		mustFeature(t, 1, "user-auth"),
		mustFeature(t, 1, "user"),
		mustFeature(t, 2, "user-auth"),
		mustFeature(t, 12, "user-auth"),
		mustFeature(t, 1, "2-user-auth"),
	}

	seen := map[string]string{}
	for _, feature := range features {
		for _, st := range stage.All() {
			if !st.PersistsArtifact() {
				continue
			}
			path, err := store.ResolvePath(feature, st)
			if err != nil {
				t.Fatalf("ResolvePath(%s, %s): %v", feature.Ref(), st.Name, err)
			}
			key := feature.Ref() + "/" + string(st.Name)
			if prev, dup := seen[path]; dup {
				t.Fatalf("path collision: %s and %s both resolve to %s", prev, key, path)
			}
			seen[path] = key
		}
	}
}

func TestStoreRejectsCodeStages(t *testing.T) {
	store := artifact.NewStore(t.TempDir(), nil)
	feature := mustFeature(t, 1, "user-auth")

	for _, name := range []stage.Name{stage.Coder, stage.CodeReview, stage.QA} {
		st := mustStage(t, name)
		if _, err := store.ResolvePath(feature, st); !errors.Is(err, artifact.ErrNoDocument) {
			t.Fatalf("%s: expected ErrNoDocument, got %v", name, err)
		}
		if _, err := store.Write(feature, st, "body"); !errors.Is(err, artifact.ErrNoDocument) {
			t.Fatalf("%s Write: expected ErrNoDocument, got %v", name, err)
		}
	}
}

func TestFeatureLockExcludesSecondHolder(t *testing.T) {
	store := artifact.NewStore(t.TempDir(), nil)
	feature := mustFeature(t, 1, "user-auth")

	lock, err := store.Lock(feature)
	if err != nil {
		t.Fatalf("Lock: %v", err)
	}
	if _, err := store.Lock(feature); err == nil {
		t.Fatal("second Lock on same feature must fail")
	}

	// A different feature is unaffected.
	other, err := store.Lock(mustFeature(t, 2, "billing"))
	if err != nil {
		t.Fatalf("Lock(other): %v", err)
	}
	if err := other.Unlock(); err != nil {
		t.Fatalf("Unlock(other): %v", err)
	}

	if err := lock.Unlock(); err != nil {
		t.Fatalf("Unlock: %v", err)
	}
	relock, err := store.Lock(feature)
	if err != nil {
		t.Fatalf("relock after Unlock: %v", err)
	}
	if err := relock.Unlock(); err != nil {
		t.Fatalf("Unlock relock: %v", err)
	}
}
