package study

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Question is one big question of a discussion block together with its
// probe follow-ups.
type Question struct {
	BigQuestion string   `json:"big_question"`
	Probes      []string `json:"probes"`
}

// Block is a titled group of related questions, processed as one unit
// before the interview advances.
type Block struct {
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// DiscussionGuide is the ordered interview plan produced by the study-design
// pipeline. It is immutable input, traversed strictly in order.
type DiscussionGuide struct {
	Intro  string  `json:"intro"`
	Blocks []Block `json:"blocks"`
}

type Study struct {
	StudyName       string          `json:"study_name"`
	StudySummary    string          `json:"study_summary"`
	DiscussionGuide DiscussionGuide `json:"discussion_guide"`
}

// Load reads a study document from <dataRoot>/studies/<name>.json.
// A missing study file is fatal for the run.
func Load(dataRoot, name string) (*Study, error) {
	path := filepath.Join(dataRoot, "studies", name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("study %s not found: %w", name, err)
	}
	var s Study
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse study %s: %w", name, err)
	}
	if len(s.DiscussionGuide.Blocks) == 0 {
		return nil, fmt.Errorf("study %s has no discussion blocks", name)
	}
	return &s, nil
}

// Block returns the discussion block at the given index, reporting whether
// the guide still has one there.
func (s *Study) Block(index int) (Block, bool) {
	if index < 0 || index >= len(s.DiscussionGuide.Blocks) {
		return Block{}, false
	}
	return s.DiscussionGuide.Blocks[index], true
}
