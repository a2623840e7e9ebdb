package analytics

import (
	"encoding/json"
	"fmt"

	"github.com/rcwolf97/market-research-study-simulator/internal/dialogue"
	"github.com/rcwolf97/market-research-study-simulator/internal/storage"
)

// RunStats summarizes the persisted transcripts of one simulation run.
type RunStats struct {
	SimulationID    string            `json:"simulation_id"`
	Conversations   int               `json:"conversations"`
	TotalTurns      int               `json:"total_turns"`
	ResearcherTurns int               `json:"researcher_turns"`
	RespondentTurns int               `json:"respondent_turns"`
	AverageTurns    float64           `json:"average_turns"`
	ByRespondent    []RespondentStats `json:"by_respondent"`
}

// RespondentStats holds the per-respondent turn count.
type RespondentStats struct {
	Index int `json:"index"`
	Turns int `json:"turns"`
}

// AnalyzeRun computes run statistics from persisted transcripts.
func AnalyzeRun(transcripts []storage.Transcript) *RunStats {
	stats := &RunStats{}
	for _, t := range transcripts {
		if stats.SimulationID == "" {
			stats.SimulationID = t.Metadata.SimulationID
		}
		stats.Conversations++
		stats.TotalTurns += len(t.Dialogue)
		for _, turn := range t.Dialogue {
			switch turn.Role {
			case dialogue.RoleResearcher:
				stats.ResearcherTurns++
			case dialogue.RoleRespondent:
				stats.RespondentTurns++
			}
		}
		stats.ByRespondent = append(stats.ByRespondent, RespondentStats{
			Index: t.Metadata.UserIndex,
			Turns: len(t.Dialogue),
		})
	}
	if stats.Conversations > 0 {
		stats.AverageTurns = float64(stats.TotalTurns) / float64(stats.Conversations)
	}
	return stats
}

// Summary renders a plain-text report for the CLI.
func (s *RunStats) Summary() string {
	out := fmt.Sprintf(`Simulation run %s:

- Conversations: %d
- Total turns: %d (researcher %d, respondent %d)
- Average turns per conversation: %.1f

`, s.SimulationID, s.Conversations, s.TotalTurns, s.ResearcherTurns, s.RespondentTurns, s.AverageTurns)

	for _, r := range s.ByRespondent {
		out += fmt.Sprintf("- Respondent %d: %d turns\n", r.Index, r.Turns)
	}
	return out
}

// ToJSON serializes the statistics for downstream analysis.
func (s *RunStats) ToJSON() (string, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
