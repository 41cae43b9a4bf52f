package yamlstore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-yaml"
)

// document is the on-disk shape of the profile store.
type document struct {
	Profiles map[string]map[string]any `yaml:"profiles"`
}

// fileStore keeps all profiles in memory and rewrites the backing YAML
// file on every mutation. Profiles key by name.
type fileStore struct {
	path string

	mu       sync.Mutex
	profiles map[string]map[string]any
}

func newFileStore(path string) *fileStore {
	return &fileStore{
		path:     path,
		profiles: make(map[string]map[string]any),
	}
}

// load reads the backing file into memory. A missing file is not an
// error; it is created on the first write.
func (s *fileStore) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("malformed profile file %s: %w", s.path, err)
	}
	if doc.Profiles != nil {
		s.profiles = doc.Profiles
	}
	return nil
}

// save writes the in-memory profiles back to disk. Caller holds s.mu.
func (s *fileStore) save() error {
	data, err := yaml.Marshal(document{Profiles: s.profiles})
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return err
		}
	}
	return os.WriteFile(s.path, data, 0600)
}

func (s *fileStore) create(name string, attrs map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.profiles[name]; exists {
		return fmt.Errorf("profile %q already exists", name)
	}
	s.profiles[name] = attrs
	return s.save()
}

func (s *fileStore) get(name string) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	attrs, ok := s.profiles[name]
	if !ok {
		return nil, fmt.Errorf("profile %q not found", name)
	}
	return attrs, nil
}

func (s *fileStore) update(name string, attrs map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[name]; !ok {
		return fmt.Errorf("profile %q not found", name)
	}
	s.profiles[name] = attrs
	return s.save()
}

func (s *fileStore) delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[name]; !ok {
		return fmt.Errorf("profile %q not found", name)
	}
	delete(s.profiles, name)
	return s.save()
}

func (s *fileStore) len() int {
	return len(s.profiles)
}
