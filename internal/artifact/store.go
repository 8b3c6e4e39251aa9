package artifact

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"stagehand/internal/fileutil"
	"stagehand/internal/logging"
	"stagehand/internal/stage"
)

// Artifact is a persisted pipeline document.
type Artifact struct {
	Feature FeatureID
	Stage   stage.Name
	Path    string
	Content string
}

// Store maps (feature, stage) pairs to files under a single root directory.
type Store struct {
	root   string
	logger *slog.Logger
}

// NewStore builds a store rooted at dir. The directory is created lazily on
// first write.
func NewStore(dir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Store{root: dir, logger: logger.With(logging.String(logging.FieldComponent, "artifact-store"))}
}

// Root returns the store's root directory.
func (s *Store) Root() string {
	return s.root
}

// ResolvePath derives the document path for a (feature, stage) pair. Pure
// and deterministic; injective because slugs never contain the separator or
// suffix grammar characters.
func (s *Store) ResolvePath(id FeatureID, st stage.Stage) (string, error) {
	if !st.PersistsArtifact() {
		return "", fmt.Errorf("%w: %s", ErrNoDocument, st.Name)
	}
	return filepath.Join(s.root, fmt.Sprintf("%d-%s.%s.md", id.Seq, id.Slug, st.ArtifactSuffix)), nil
}

// Exists reports whether the artifact file exists and is non-empty.
func (s *Store) Exists(id FeatureID, st stage.Stage) (bool, error) {
	path, err := s.ResolvePath(id, st)
	if err != nil {
		return false, err
	}
	exists, err := fileutil.NonEmpty(path)
	if err != nil {
		return false, fmt.Errorf("stat artifact %s: %w", path, err)
	}
	return exists, nil
}

// Read returns the artifact's content. Absent and empty files both map to
// ErrNotFound so Read never disagrees with Exists.
func (s *Store) Read(id FeatureID, st stage.Stage) (string, error) {
	path, err := s.ResolvePath(id, st)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return "", fmt.Errorf("read artifact %s: %w", path, err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: %s is empty", ErrNotFound, path)
	}
	return string(data), nil
}

// Write persists the document, creating parent directories as needed and
// overwriting any previous run's output. This is the only mutating
// operation in the pipeline; the write is atomic so a crash mid-run cannot
// leave a truncated document that Exists would treat as satisfied.
func (s *Store) Write(id FeatureID, st stage.Stage, content string) (Artifact, error) {
	path, err := s.ResolvePath(id, st)
	if err != nil {
		return Artifact{}, err
	}
	if err := fileutil.WriteAtomic(path, []byte(content), 0o644); err != nil {
		return Artifact{}, fmt.Errorf("write artifact %s: %w", path, err)
	}
	s.logger.Debug("artifact written",
		logging.String("path", path),
		logging.Int("bytes", len(content)),
	)
	return Artifact{Feature: id, Stage: st.Name, Path: path, Content: content}, nil
}

// Lock acquires an advisory lock scoped to one feature, so concurrent CLI
// invocations cannot run stages for the same feature at once. Distinct
// features never contend. The caller must Unlock the returned lock.
func (s *Store) Lock(id FeatureID) (*flock.Flock, error) {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact directory %q: %w", s.root, err)
	}
	lock := flock.New(filepath.Join(s.root, "."+id.Ref()+".lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock feature %s: %w", id.Ref(), err)
	}
	if !locked {
		return nil, fmt.Errorf("feature %s is locked by another stage run", id.Ref())
	}
	return lock, nil
}
