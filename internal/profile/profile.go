package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/rcwolf97/market-research-study-simulator/internal/llm"
	"github.com/rcwolf97/market-research-study-simulator/internal/prompt"
)

const (
	promptName    = "generate_users"
	promptVersion = "v0.0.1"

	// One profile is roughly 512 tokens; the batch call scales with size.
	tokensPerProfile = 512
)

// ErrNoProfiles is returned when the backend produced no parseable profiles.
// The caller must not proceed with an empty persona.
var ErrNoProfiles = errors.New("backend returned no parseable profiles")

// Profile is a synthetic respondent identity. Once generated it is
// immutable for the duration of a simulated interview.
type Profile struct {
	ProfessionalBackground string `json:"professional_background"`
	PracticeSetting        string `json:"practice_setting"`
	TreatmentPhilosophy    string `json:"treatment_philosophy"`
	PersonalNotes          string `json:"personal_notes"`
	CommunicationStyle     string `json:"communication_style"`

	// Descriptor is the short human-readable summary of the demographic
	// seed, e.g. "52yo female, urban, academic, Ohio".
	Descriptor string `json:"profile,omitempty"`
}

// Seed holds optional demographic attributes used to condition profile
// generation. Unset fields are omitted from the prompt, never defaulted.
type Seed struct {
	Age                  string
	Gender               string
	Urban                string
	Academic             string
	State                string
	OtherCharacteristics string
}

type profileList struct {
	Profiles []Profile `json:"profiles"`
}

// Generator produces persona profiles by asking the backend for a batch of
// candidates in one call and sampling one uniformly at random. Batching
// amortizes the round trip; sampling keeps repeated invocations from being
// visibly repetitive.
type Generator struct {
	client    llm.Client
	prompts   *prompt.Store
	batchSize int

	mu  sync.Mutex
	rng *rand.Rand
}

func NewGenerator(client llm.Client, prompts *prompt.Store, batchSize int, rng *rand.Rand) *Generator {
	if batchSize < 1 {
		batchSize = 1
	}
	return &Generator{client: client, prompts: prompts, batchSize: batchSize, rng: rng}
}

var profileListSchema = llm.Schema{
	Name: "profile_list",
	Definition: &jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"profiles": {
				Type: jsonschema.Array,
				Items: &jsonschema.Definition{
					Type: jsonschema.Object,
					Properties: map[string]jsonschema.Definition{
						"professional_background": {Type: jsonschema.String},
						"practice_setting":        {Type: jsonschema.String},
						"treatment_philosophy":    {Type: jsonschema.String},
						"personal_notes":          {Type: jsonschema.String},
						"communication_style":     {Type: jsonschema.String},
					},
					Required: []string{
						"professional_background", "practice_setting",
						"treatment_philosophy", "personal_notes", "communication_style",
					},
				},
			},
		},
		Required: []string{"profiles"},
	},
}

// Generate builds the batch generation request from the seed, asks the
// backend for batchSize candidate profiles and returns one of them chosen
// uniformly at random.
func (g *Generator) Generate(ctx context.Context, seed Seed) (Profile, error) {
	tmpl, err := g.prompts.Load(promptName, promptVersion)
	if err != nil {
		return Profile{}, err
	}
	rendered, err := tmpl.Render(map[string]any{
		"NumberOfProfiles":     g.batchSize,
		"Age":                  seed.Age,
		"Gender":               seed.Gender,
		"Urban":                seed.Urban,
		"Academic":             seed.Academic,
		"State":                seed.State,
		"OtherCharacteristics": seed.OtherCharacteristics,
	})
	if err != nil {
		return Profile{}, err
	}

	messages := []llm.Message{{Role: "system", Content: rendered}}
	params := llm.Params{Temperature: 0.5, MaxTokens: tokensPerProfile * g.batchSize}

	resp, err := g.client.GenerateStructured(ctx, messages, params, profileListSchema)
	if err != nil {
		return Profile{}, fmt.Errorf("profile generation failed: %w", err)
	}

	var list profileList
	if err := json.Unmarshal([]byte(llm.ExtractJSON(resp.Content)), &list); err != nil {
		return Profile{}, fmt.Errorf("failed to parse profile batch: %w", err)
	}
	if len(list.Profiles) == 0 {
		return Profile{}, ErrNoProfiles
	}

	g.mu.Lock()
	pick := g.rng.Intn(len(list.Profiles))
	g.mu.Unlock()
	return list.Profiles[pick], nil
}
