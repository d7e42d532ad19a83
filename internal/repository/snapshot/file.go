package snapshot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/tank-emergency/internal/config"
	"github.com/oshokin/tank-emergency/internal/domain/tank"
)

// Repository defines persistence operations for the tank snapshot.
type Repository interface {
	Load(ctx context.Context) (*tank.Snapshot, error)
	Save(ctx context.Context, snapshot tank.Snapshot) error
}

// FileRepository persists the tank snapshot to a YAML file on disk.
type FileRepository struct {
	// path is the filesystem location of the state file.
	path string
	// mu protects concurrent access to the state file.
	mu sync.Mutex
}

// document is the on-disk layout of the state file.
type document struct {
	// SavedAt is when the snapshot was written.
	SavedAt time.Time `yaml:"saved_at"`
	// Tanks is the persisted state.
	Tanks tank.Snapshot `yaml:"tanks"`
}

// ErrNotFound is returned when the state file does not exist yet.
var ErrNotFound = errors.New("snapshot not found")

// NewFileRepository creates a repository that reads/writes YAML at the provided path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// Load reads the snapshot from disk.
func (r *FileRepository) Load(_ context.Context) (*tank.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("read state file: %w", err)
	}

	var doc document
	if err = yaml.Unmarshal(contents, &doc); err != nil {
		return nil, fmt.Errorf("decode state file: %w", err)
	}

	return &doc.Tanks, nil
}

// Save writes the snapshot to disk, replacing the file atomically.
func (r *FileRepository) Save(_ context.Context, snapshot tank.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := yaml.Marshal(&document{
		SavedAt: time.Now().UTC(),
		Tanks:   snapshot,
	})
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	tmp := r.path + ".tmp"
	if err = os.WriteFile(tmp, data, config.DefaultFilePermissions); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}

	if err = os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}

	return nil
}
