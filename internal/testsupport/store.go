package testsupport

import (
	"testing"

	"stagehand/internal/artifact"
	"stagehand/internal/logging"
	"stagehand/internal/stage"
)

// NewStore builds an artifact store rooted at a fresh temp directory.
func NewStore(t testing.TB) *artifact.Store {
	t.Helper()
	return artifact.NewStore(t.TempDir(), logging.NewNop())
}

// MustFeature parses a feature reference, failing the test on error.
func MustFeature(t testing.TB, ref string) artifact.FeatureID {
	t.Helper()
	id, err := artifact.ParseRef(ref)
	if err != nil {
		t.Fatalf("parse feature ref %q: %v", ref, err)
	}
	return id
}

// SeedArtifacts writes a placeholder document for each named stage, so tests
// can start a feature mid-pipeline.
func SeedArtifacts(t testing.TB, store *artifact.Store, feature artifact.FeatureID, stages ...stage.Name) {
	t.Helper()
	for _, name := range stages {
		st, err := stage.Get(name)
		if err != nil {
			t.Fatalf("unknown stage %s: %v", name, err)
		}
		if _, err := store.Write(feature, st, "# "+string(name)+"\n"); err != nil {
			t.Fatalf("seed %s artifact: %v", name, err)
		}
	}
}
