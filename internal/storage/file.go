package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rcwolf97/market-research-study-simulator/internal/profile"
)

const profilesFileName = "user_profiles.json"

// FileStore persists one simulation run under
// <dataRoot>/simulation/<simulationID>/ with the profile batch at the root
// and one JSON document per conversation under conversations/.
type FileStore struct {
	root             string
	conversationsDir string
	mu               sync.Mutex
}

func NewFileStore(dataRoot, simulationID string) (*FileStore, error) {
	root := filepath.Join(dataRoot, "simulation", simulationID)
	conversationsDir := filepath.Join(root, "conversations")
	if err := os.MkdirAll(conversationsDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to ensure run dir: %w", err)
	}
	return &FileStore{root: root, conversationsDir: conversationsDir}, nil
}

func (s *FileStore) profilesPath() string {
	return filepath.Join(s.root, profilesFileName)
}

func (s *FileStore) SaveProfiles(profiles []profile.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := json.MarshalIndent(profiles, "", "  ")
	if err != nil {
		return fmt.Errorf("encode profiles: %w", err)
	}
	if err := os.WriteFile(s.profilesPath(), data, 0o644); err != nil {
		return fmt.Errorf("write profiles: %w", err)
	}
	return nil
}

func (s *FileStore) LoadProfiles() ([]profile.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(s.profilesPath())
	if err != nil {
		return nil, fmt.Errorf("read profiles: %w", err)
	}
	var profiles []profile.Profile
	if err := json.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("decode profiles: %w", err)
	}
	return profiles, nil
}

func (s *FileStore) HasProfiles() bool {
	_, err := os.Stat(s.profilesPath())
	return err == nil
}

// SaveConversation writes one transcript document. The filename carries the
// respondent index and a timestamp for uniqueness.
func (s *FileStore) SaveConversation(index int, t Transcript) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode conversation %d: %w", index, err)
	}
	name := fmt.Sprintf("conversation_%03d_%s.json", index, time.Now().Format("20060102_150405"))
	path := filepath.Join(s.conversationsDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write conversation %d: %w", index, err)
	}
	return path, nil
}

// LoadConversations reads back every persisted transcript of the run in
// filename order.
func (s *FileStore) LoadConversations() ([]Transcript, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := os.ReadDir(s.conversationsDir)
	if err != nil {
		return nil, fmt.Errorf("read conversations dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	var out []Transcript
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(s.conversationsDir, name))
		if err != nil {
			return nil, fmt.Errorf("read conversation %s: %w", name, err)
		}
		var t Transcript
		if err := json.Unmarshal(data, &t); err != nil {
			return nil, fmt.Errorf("decode conversation %s: %w", name, err)
		}
		out = append(out, t)
	}
	return out, nil
}
