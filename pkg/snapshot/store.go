package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
)

const (
	// DefaultDir is where snapshots are stored when no directory is set.
	DefaultDir = "api_snapshots"

	// LatestFile always holds a copy of the most recently saved snapshot.
	LatestFile = "latest.json"

	filePrefix   = "snapshot_"
	fileSuffix   = ".json"
	fileTimeForm = "20060102_150405"
)

// ErrNoSnapshot is returned by Latest when nothing has been saved yet.
var ErrNoSnapshot = errors.New("no previous snapshot found")

// Store saves snapshots as indented JSON files in a directory.
type Store struct {
	fs  afero.Fs
	dir string
}

// NewStore returns a Store rooted at dir. A nil fs uses the OS filesystem.
func NewStore(fs afero.Fs, dir string) *Store {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if dir == "" {
		dir = DefaultDir
	}
	return &Store{fs: fs, dir: dir}
}

// Dir returns the snapshot directory.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes snap to snapshot_YYYYMMDD_HHMMSS.json and to latest.json, and
// returns the path of the timestamped file.
func (s *Store) Save(snap *Snapshot) (string, error) {
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating snapshot directory: %w", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("error encoding snapshot: %w", err)
	}

	name := filePrefix + snap.Timestamp.Time.Format(fileTimeForm) + fileSuffix
	path := filepath.Join(s.dir, name)

	var result *multierror.Error
	if err := s.writeAtomic(path, data); err != nil {
		result = multierror.Append(result, err)
	}
	if err := s.writeAtomic(filepath.Join(s.dir, LatestFile), data); err != nil {
		result = multierror.Append(result, err)
	}

	return path, result.ErrorOrNil()
}

// Latest returns the most recently saved snapshot or ErrNoSnapshot.
func (s *Store) Latest() (*Snapshot, error) {
	snap, err := s.Load(LatestFile)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoSnapshot
	}
	return snap, err
}

// Load reads the snapshot file with the given name from the store.
func (s *Store) Load(name string) (*Snapshot, error) {
	data, err := afero.ReadFile(s.fs, filepath.Join(s.dir, name))
	if err != nil {
		return nil, fmt.Errorf("error reading snapshot %s: %w", name, err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("error decoding snapshot %s: %w", name, err)
	}
	return &snap, nil
}

// List returns the names of the timestamped snapshot files, oldest first.
func (s *Store) List() ([]string, error) {
	entries, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("error listing snapshots: %w", err)
	}

	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *Store) writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0o644); err != nil {
		return fmt.Errorf("error writing %s: %w", tmp, err)
	}
	if err := s.fs.Rename(tmp, path); err != nil {
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("error replacing %s: %w", path, err)
	}
	return nil
}
