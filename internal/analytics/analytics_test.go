package analytics

import (
	"strings"
	"testing"

	"github.com/rcwolf97/market-research-study-simulator/internal/dialogue"
	"github.com/rcwolf97/market-research-study-simulator/internal/storage"
)

func transcript(index, pairs int) storage.Transcript {
	var turns []dialogue.Turn
	for i := 0; i < pairs; i++ {
		turns = append(turns, dialogue.Turn{Role: dialogue.RoleResearcher, Content: "q"})
		turns = append(turns, dialogue.Turn{Role: dialogue.RoleRespondent, Content: "a"})
	}
	return storage.Transcript{
		Dialogue: turns,
		Metadata: storage.Metadata{
			SimulationID: "run1",
			UserIndex:    index,
			TotalTurns:   len(turns),
		},
	}
}

func TestAnalyzeRun(t *testing.T) {
	stats := AnalyzeRun([]storage.Transcript{transcript(0, 3), transcript(1, 5)})

	if stats.SimulationID != "run1" {
		t.Fatalf("simulation id not carried: %q", stats.SimulationID)
	}
	if stats.Conversations != 2 {
		t.Fatalf("want 2 conversations, got %d", stats.Conversations)
	}
	if stats.TotalTurns != 16 || stats.ResearcherTurns != 8 || stats.RespondentTurns != 8 {
		t.Fatalf("turn counts wrong: %+v", stats)
	}
	if stats.AverageTurns != 8 {
		t.Fatalf("want average 8, got %f", stats.AverageTurns)
	}
	if len(stats.ByRespondent) != 2 || stats.ByRespondent[1].Index != 1 || stats.ByRespondent[1].Turns != 10 {
		t.Fatalf("per-respondent stats wrong: %+v", stats.ByRespondent)
	}
}

func TestAnalyzeRunEmpty(t *testing.T) {
	stats := AnalyzeRun(nil)
	if stats.Conversations != 0 || stats.AverageTurns != 0 {
		t.Fatalf("empty run should produce zero stats: %+v", stats)
	}
}

func TestSummaryAndJSON(t *testing.T) {
	stats := AnalyzeRun([]storage.Transcript{transcript(0, 2)})

	sum := stats.Summary()
	if !strings.Contains(sum, "Conversations: 1") || !strings.Contains(sum, "Respondent 0: 4 turns") {
		t.Fatalf("unexpected summary: %q", sum)
	}

	out, err := stats.ToJSON()
	if err != nil {
		t.Fatalf("to json: %v", err)
	}
	if !strings.Contains(out, `"total_turns": 4`) {
		t.Fatalf("unexpected json: %q", out)
	}
}
