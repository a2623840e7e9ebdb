package conversation

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/rcwolf97/market-research-study-simulator/internal/dialogue"
	"github.com/rcwolf97/market-research-study-simulator/internal/llm"
	"github.com/rcwolf97/market-research-study-simulator/internal/profile"
)

const (
	lowFrequencyFrictionProb = 0.3
	shortResponseProb        = 0.5

	shortResponseDirective = "Keep this response SHORT (1-2 sentences max)"
)

// Catalog of low-frequency realism directives. When triggered, exactly one
// is chosen uniformly at random for the call.
var lowFrequencyFriction = []string{
	"Keep this response SHORT (1-2 sentences max)",
	"This is a complex topic for you - give a longer, more thoughtful response with specific examples",
	"In this response, include a brief false start or self-correction (e.g., 'Well, I usually... actually, let me think about that differently...')",
	"For this response, reference a very specific recent case with messy details (exact dates, specific numbers, real frustrations)",
	"In this answer, show some uncertainty or admit a knowledge gap rather than being overly confident",
	"Reference a specific practice constraint or workaround you've had to develop (EMR quirks, insurance hassles, scheduling issues)",
	"Mention a specific time period or event that anchors your experience ('last winter when COVID cases spiked,' 'after the Epic upgrade,' 'during the formulary change')",
	"Show mild emotion about something in your practice - frustration, satisfaction, surprise, or concern",
	"Include a specific detail that reveals your practice's unique context (rural patient travel times, academic teaching load, specific payer mix, etc.)",
	"Reference a colleague interaction or case discussion that influenced your thinking",
	"Mention a patient outcome that surprised you or changed your approach slightly",
	"Use some colloquial language or sentence fragments that match your age and background",
}

// frictionDirective draws the per-call friction instruction. Both triggers
// fire independently; the result joins whatever fired, or is empty.
func frictionDirective(rng *rand.Rand) string {
	var injected []string
	if rng.Float64() < lowFrequencyFrictionProb {
		injected = append(injected, lowFrequencyFriction[rng.Intn(len(lowFrequencyFriction))])
	}
	if rng.Float64() < shortResponseProb {
		injected = append(injected, shortResponseDirective)
	}
	return strings.Join(injected, "\n")
}

// personaDirective grounds the respondent in its profile and steers the
// backend away from stereotyped assistant phrasing. Always present.
func personaDirective(p profile.Profile) string {
	var elements []string
	if p.ProfessionalBackground != "" {
		elements = append(elements, fmt.Sprintf("Professional background: %s", p.ProfessionalBackground))
	}
	if p.PracticeSetting != "" {
		elements = append(elements, fmt.Sprintf("Practice setting: %s", p.PracticeSetting))
	}
	if p.CommunicationStyle != "" {
		elements = append(elements, fmt.Sprintf("Communication style: %s", p.CommunicationStyle))
	}
	profileContext := "Medical professional"
	if len(elements) > 0 {
		profileContext = strings.Join(elements, "\n")
	}

	style := p.CommunicationStyle
	if style == "" {
		style = "Professional"
	}

	return fmt.Sprintf(`Respond as a real clinician. Communication style: %s

%s

Avoid AI patterns:
- Don't start with "That's a good question"
- Don't perfectly mirror question structure
- Include natural speech patterns and minor imperfections
- Reference your actual practice context when relevant
`, style, profileContext)
}

// buildRequestMessages assembles the backend request for a respondent turn
// without mutating the caller's dialogue: instructions first, then the
// persona-grounding directive, then the optional friction directive, then
// the (already windowed) dialogue turns. Injected directives never reach
// the persisted transcript by construction.
func buildRequestMessages(instructions string, turns []dialogue.Turn, p profile.Profile, friction string) []llm.Message {
	out := make([]llm.Message, 0, len(turns)+3)
	out = append(out, llm.Message{Role: "system", Content: instructions})
	out = append(out, llm.Message{Role: "system", Content: personaDirective(p)})
	if friction != "" {
		out = append(out, llm.Message{Role: "system", Content: friction})
	}
	for _, t := range turns {
		out = append(out, llm.Message{Role: t.Role, Content: t.Content})
	}
	return out
}
