package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"

	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/rcwolf97/market-research-study-simulator/internal/dialogue"
	"github.com/rcwolf97/market-research-study-simulator/internal/llm"
	"github.com/rcwolf97/market-research-study-simulator/internal/prompt"
	"github.com/rcwolf97/market-research-study-simulator/internal/study"
)

const (
	userPromptName    = "user_simulator"
	userPromptVersion = "v0.0.1"

	researcherPromptName    = "interviewer_simulator"
	researcherPromptVersion = "v0.0.1"

	// Bounded recall for the simulated respondent: it only ever sees the
	// last respondentWindow dialogue turns.
	respondentWindow = 4
)

// Decoding settings per role: low temperature keeps the researcher
// consistent, higher temperature varies the respondent; both are capped
// short to mimic terse interview exchanges.
var (
	researcherParams = llm.Params{Temperature: 0.3, MaxTokens: 500}
	respondentParams = llm.Params{Temperature: 0.8, MaxTokens: 500}
)

// ResearcherOutput is the structured result of a researcher turn. Exactly
// one of NextQuestion or Finished is expected per call.
type ResearcherOutput struct {
	NextQuestion *string `json:"next_question"`
	Finished     bool    `json:"finished"`
}

var researcherSchema = llm.Schema{
	Name: "researcher_output",
	Definition: &jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"next_question": {Type: jsonschema.String},
			"finished":      {Type: jsonschema.Boolean},
		},
		Required: []string{"finished"},
	},
}

// Executor runs single agent turns against the backend. It is safe for
// concurrent use; the random source behind friction injection is guarded.
type Executor struct {
	client  llm.Client
	prompts *prompt.Store

	mu  sync.Mutex
	rng *rand.Rand
}

func NewExecutor(client llm.Client, prompts *prompt.Store, rng *rand.Rand) *Executor {
	return &Executor{client: client, prompts: prompts, rng: rng}
}

// ResearcherTurn asks the researcher agent for the next move within the
// active discussion block. Instructions carry only the serialized active
// block, keeping the prompt bounded and the agent focused.
func (e *Executor) ResearcherTurn(ctx context.Context, sc study.Context, turns []dialogue.Turn) (ResearcherOutput, error) {
	tmpl, err := e.prompts.Load(researcherPromptName, researcherPromptVersion)
	if err != nil {
		return ResearcherOutput{}, err
	}
	block, err := json.Marshal(sc.Block)
	if err != nil {
		return ResearcherOutput{}, fmt.Errorf("failed to serialize discussion block: %w", err)
	}
	instructions, err := tmpl.Render(map[string]any{
		"Population":   sc.UserPopulation,
		"StudyTitle":   sc.StudyTitle,
		"StudySummary": sc.StudySummary,
		"Discussion":   string(block),
	})
	if err != nil {
		return ResearcherOutput{}, err
	}

	messages := make([]llm.Message, 0, len(turns)+1)
	messages = append(messages, llm.Message{Role: "system", Content: instructions})
	for _, t := range turns {
		messages = append(messages, llm.Message{Role: t.Role, Content: t.Content})
	}

	resp, err := e.client.GenerateStructured(ctx, messages, researcherParams, researcherSchema)
	if err != nil {
		return ResearcherOutput{}, fmt.Errorf("researcher turn failed: %w", err)
	}

	var out ResearcherOutput
	if err := json.Unmarshal([]byte(llm.ExtractJSON(resp.Content)), &out); err != nil {
		return ResearcherOutput{}, fmt.Errorf("failed to parse researcher output: %w", err)
	}
	return out, nil
}

// RespondentTurn asks the simulated respondent to answer, conditioned on
// its persona profile and the last few dialogue turns. An empty reply is
// valid: a short or absent human answer is plausible.
func (e *Executor) RespondentTurn(ctx context.Context, sc study.Context, turns []dialogue.Turn) (string, error) {
	tmpl, err := e.prompts.Load(userPromptName, userPromptVersion)
	if err != nil {
		return "", err
	}
	instructions, err := tmpl.Render(map[string]any{
		"ProfessionalBackground": sc.Profile.ProfessionalBackground,
		"PracticeSetting":        sc.Profile.PracticeSetting,
		"TreatmentPhilosophy":    sc.Profile.TreatmentPhilosophy,
		"PersonalNotes":          sc.Profile.PersonalNotes,
		"CommunicationStyle":     sc.Profile.CommunicationStyle,
	})
	if err != nil {
		return "", err
	}

	if len(turns) > respondentWindow {
		turns = turns[len(turns)-respondentWindow:]
	}

	e.mu.Lock()
	friction := frictionDirective(e.rng)
	e.mu.Unlock()

	messages := buildRequestMessages(instructions, turns, sc.Profile, friction)

	resp, err := e.client.Generate(ctx, messages, respondentParams)
	if err != nil {
		return "", fmt.Errorf("respondent turn failed: %w", err)
	}
	return resp.Content, nil
}
