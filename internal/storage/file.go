package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jwebster45206/ride-engine/pkg/dialogue"
	"github.com/jwebster45206/ride-engine/pkg/passenger"
)

var profileExts = []string{".json", ".yaml", ".yml"}

// FileStore implements Store on top of the filesystem.
type FileStore struct {
	dataDir string
	logger  *slog.Logger
}

var _ Store = (*FileStore)(nil)

func NewFileStore(dataDir string, logger *slog.Logger) *FileStore {
	if dataDir == "" {
		dataDir = "./data"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FileStore{dataDir: dataDir, logger: logger}
}

func (f *FileStore) DataDir() string { return f.dataDir }

func (f *FileStore) ListProfiles(ctx context.Context) (map[string]string, error) {
	profilesDir := filepath.Join(f.dataDir, "profiles")
	profiles := make(map[string]string)

	err := filepath.WalkDir(profilesDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !isProfileFile(path) {
			return nil
		}
		p, err := dialogue.LoadProfile(path)
		if err != nil {
			f.logger.Warn("Failed to load profile file", "path", path, "error", err)
			return nil
		}
		id := p.ID
		if id == "" {
			id = profileIDFromFile(path)
		}
		profiles[id] = filepath.Base(path)
		return nil
	})
	if err != nil {
		f.logger.Error("Failed to walk profiles directory", "error", err)
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	return profiles, nil
}

// GetProfile loads the profile stored as <id>.json, <id>.yaml or <id>.yml.
// The file name supplies the id when the file leaves it empty.
func (f *FileStore) GetProfile(ctx context.Context, id string) (*dialogue.Profile, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty id", ErrProfileNotFound)
	}
	for _, ext := range profileExts {
		path := filepath.Join(f.dataDir, "profiles", id+ext)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		f.logger.Debug("Loading profile", "id", id, "path", path)
		p, err := dialogue.LoadProfile(path)
		if err != nil {
			return nil, err
		}
		if p.ID == "" {
			p.ID = id
		}
		return p, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, id)
}

// LoadPassengers reads passengers.json or passengers.yaml and resolves each
// passenger's profile. A passenger whose profile cannot be loaded keeps a nil
// profile so that its pickup is declined at runtime.
func (f *FileStore) LoadPassengers(ctx context.Context) ([]*passenger.Passenger, error) {
	specs, err := f.readPassengerSpecs()
	if err != nil {
		return nil, err
	}

	cache := make(map[string]*dialogue.Profile)
	out := make([]*passenger.Passenger, 0, len(specs))
	seen := make(map[int]bool)
	for _, s := range specs {
		if seen[s.ID] {
			return nil, fmt.Errorf("duplicate passenger id %d", s.ID)
		}
		seen[s.ID] = true

		profile, ok := cache[s.Profile]
		if !ok && s.Profile != "" {
			profile, err = f.GetProfile(ctx, s.Profile)
			if err != nil {
				f.logger.Warn("Passenger profile unavailable", "passenger_id", s.ID, "profile", s.Profile, "error", err)
				profile = nil
			}
			cache[s.Profile] = profile
		}
		p := passenger.New(s.ID, s.Name, s.Kind, profile)
		p.ProfileKey = s.Profile
		out = append(out, p)
	}
	return out, nil
}

func (f *FileStore) readPassengerSpecs() ([]PassengerSpec, error) {
	for _, ext := range profileExts {
		path := filepath.Join(f.dataDir, "passengers"+ext)
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to read passenger roster: %w", err)
		}
		specs, err := ParsePassengers(path, data)
		if err != nil {
			return nil, err
		}
		return specs, nil
	}
	return nil, fmt.Errorf("%w in %s", ErrPassengersNotFound, f.dataDir)
}

// ParsePassengers decodes a roster file, picking JSON or YAML by extension.
func ParsePassengers(name string, data []byte) ([]PassengerSpec, error) {
	var specs []PassengerSpec
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&specs); err != nil {
			return nil, fmt.Errorf("failed to parse passenger roster %s: %w", name, err)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&specs); err != nil {
			return nil, fmt.Errorf("failed to parse passenger roster %s: %w", name, err)
		}
	default:
		return nil, fmt.Errorf("unsupported roster format: %s", name)
	}
	return specs, nil
}

func isProfileFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range profileExts {
		if ext == e {
			return true
		}
	}
	return false
}

func profileIDFromFile(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
