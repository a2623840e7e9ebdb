package storage

import (
	"github.com/rcwolf97/market-research-study-simulator/internal/dialogue"
	"github.com/rcwolf97/market-research-study-simulator/internal/profile"
)

// Metadata describes one persisted conversation.
type Metadata struct {
	SimulationID   string `json:"simulation_id"`
	UserIndex      int    `json:"user_index"`
	Study          string `json:"study"`
	Timestamp      string `json:"timestamp"`
	TotalTurns     int    `json:"total_turns"`
	UserPopulation string `json:"user_population"`
}

// Transcript is the persisted document for one finished conversation.
type Transcript struct {
	Profile  profile.Profile `json:"profile"`
	Dialogue []dialogue.Turn `json:"dialogue"`
	Metadata Metadata        `json:"metadata"`
}

// Store abstracts run-scoped persistence of profiles and transcripts.
// Implementations can be file-based, database, etc., and must be safe for
// concurrent use. Writes are append-only: a persisted transcript is never
// mutated afterwards.
type Store interface {
	SaveProfiles(profiles []profile.Profile) error
	LoadProfiles() ([]profile.Profile, error)
	HasProfiles() bool
	SaveConversation(index int, t Transcript) (string, error)
	LoadConversations() ([]Transcript, error)
}
