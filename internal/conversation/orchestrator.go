package conversation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/rcwolf97/market-research-study-simulator/internal/dialogue"
	"github.com/rcwolf97/market-research-study-simulator/internal/profile"
	"github.com/rcwolf97/market-research-study-simulator/internal/storage"
	"github.com/rcwolf97/market-research-study-simulator/internal/study"
)

// ErrNoNextQuestion reports a structurally invalid researcher turn: neither
// a next question nor a finished signal. Distinct from an empty respondent
// reply, which is valid.
var ErrNoNextQuestion = errors.New("no next question from market researcher")

// ErrTurnLimit reports that a conversation exceeded the configured safety
// bound before the researcher finished every block.
var ErrTurnLimit = errors.New("conversation exceeded max turn limit")

// TurnRunner executes single agent turns. Implemented by Executor;
// narrowed to an interface so the orchestrator can be driven by stubs.
type TurnRunner interface {
	ResearcherTurn(ctx context.Context, sc study.Context, turns []dialogue.Turn) (ResearcherOutput, error)
	RespondentTurn(ctx context.Context, sc study.Context, turns []dialogue.Turn) (string, error)
}

type state int

const (
	stateAwaitingResearcher state = iota
	stateAwaitingRespondent
	stateAdvancingBlock
	stateFinished
)

// Orchestrator drives one interview from block to block until the
// discussion guide is exhausted, then persists the transcript. All
// per-conversation state is local to Run, so one orchestrator serves any
// number of sequential or concurrent conversations.
type Orchestrator struct {
	runner       TurnRunner
	study        *study.Study
	store        storage.Store
	simulationID string
	population   string

	// maxTurns bounds the dialogue length; 0 means unbounded, relying on
	// the researcher agent eventually finishing every block.
	maxTurns int
}

func NewOrchestrator(runner TurnRunner, s *study.Study, store storage.Store, simulationID, population string, maxTurns int) *Orchestrator {
	return &Orchestrator{
		runner:       runner,
		study:        s,
		store:        store,
		simulationID: simulationID,
		population:   population,
		maxTurns:     maxTurns,
	}
}

// syntheticOpener gives the researcher agent a non-empty input on turn one.
// It is not part of the dialogue and is never persisted.
var syntheticOpener = []dialogue.Turn{{Role: dialogue.RoleRespondent, Content: "Hi"}}

// Run simulates one full interview for the given respondent and persists
// the finished transcript. The returned turns are the persisted dialogue.
func (o *Orchestrator) Run(ctx context.Context, index int, p profile.Profile) ([]dialogue.Turn, error) {
	sc := study.NewContext(o.study, o.population, p)
	dlg := dialogue.New()
	blockIndex := 0

	st := stateAwaitingResearcher
	for st != stateFinished {
		if o.maxTurns > 0 && dlg.Len() >= o.maxTurns {
			return nil, fmt.Errorf("%w after %d turns (respondent %d)", ErrTurnLimit, dlg.Len(), index)
		}

		switch st {
		case stateAwaitingResearcher:
			input := dlg.Turns()
			if dlg.Empty() {
				input = syntheticOpener
			}
			out, err := o.runner.ResearcherTurn(ctx, sc, input)
			if err != nil {
				return nil, err
			}
			if out.Finished {
				st = stateAdvancingBlock
				continue
			}
			if out.NextQuestion == nil || *out.NextQuestion == "" {
				return nil, ErrNoNextQuestion
			}
			dlg.AppendResearcher(*out.NextQuestion)
			log.Printf("Researcher: %s", *out.NextQuestion)
			st = stateAwaitingRespondent

		case stateAwaitingRespondent:
			answer, err := o.runner.RespondentTurn(ctx, sc, dlg.Window(respondentWindow))
			if err != nil {
				return nil, err
			}
			dlg.AppendRespondent(answer)
			log.Printf("User: %s", answer)
			st = stateAwaitingResearcher

		case stateAdvancingBlock:
			blockIndex++
			next, ok := o.study.Block(blockIndex)
			if !ok {
				st = stateFinished
				continue
			}
			// Dialogue is not reset: it keeps accumulating across blocks.
			sc.Block = next
			st = stateAwaitingResearcher
		}
	}

	turns := dlg.Turns()
	transcript := storage.Transcript{
		Profile:  p,
		Dialogue: turns,
		Metadata: storage.Metadata{
			SimulationID:   o.simulationID,
			UserIndex:      index,
			Study:          o.study.StudyName,
			Timestamp:      time.Now().Format(time.RFC3339),
			TotalTurns:     len(turns),
			UserPopulation: o.population,
		},
	}
	path, err := o.store.SaveConversation(index, transcript)
	if err != nil {
		return nil, fmt.Errorf("failed to persist conversation %d: %w", index, err)
	}
	log.Printf("Conversation saved: %s", path)
	return turns, nil
}
