package conversation

import (
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/rcwolf97/market-research-study-simulator/internal/dialogue"
	"github.com/rcwolf97/market-research-study-simulator/internal/profile"
)

// Replays the documented draw sequence on an identical random source and
// checks both exact per-call output and empirical trigger rates.
func TestFrictionDirectiveRates(t *testing.T) {
	const n = 10000
	rng := rand.New(rand.NewSource(1234))
	replay := rand.New(rand.NewSource(1234))

	lowCount, shortCount := 0, 0
	for i := 0; i < n; i++ {
		got := frictionDirective(rng)

		var want []string
		if replay.Float64() < lowFrequencyFrictionProb {
			want = append(want, lowFrequencyFriction[replay.Intn(len(lowFrequencyFriction))])
			lowCount++
		}
		if replay.Float64() < shortResponseProb {
			want = append(want, shortResponseDirective)
			shortCount++
		}
		if got != strings.Join(want, "\n") {
			t.Fatalf("draw %d mismatch:\n got %q\nwant %q", i, got, strings.Join(want, "\n"))
		}
	}

	lowRate := float64(lowCount) / n
	shortRate := float64(shortCount) / n
	if math.Abs(lowRate-lowFrequencyFrictionProb) > 0.02 {
		t.Fatalf("low-frequency rate %f not near %f", lowRate, lowFrequencyFrictionProb)
	}
	if math.Abs(shortRate-shortResponseProb) > 0.02 {
		t.Fatalf("short-response rate %f not near %f", shortRate, shortResponseProb)
	}
}

func TestFrictionCatalogSize(t *testing.T) {
	if len(lowFrequencyFriction) != 12 {
		t.Fatalf("catalog should hold 12 directives, got %d", len(lowFrequencyFriction))
	}
}

func TestPersonaDirective(t *testing.T) {
	p := profile.Profile{
		ProfessionalBackground: "15 years in pulmonology",
		PracticeSetting:        "large urban hospital",
		CommunicationStyle:     "terse",
	}
	d := personaDirective(p)
	if !strings.Contains(d, "15 years in pulmonology") || !strings.Contains(d, "large urban hospital") {
		t.Fatalf("profile fields missing from directive: %q", d)
	}
	if !strings.Contains(d, "Communication style: terse") {
		t.Fatalf("style note missing: %q", d)
	}

	empty := personaDirective(profile.Profile{})
	if !strings.Contains(empty, "Medical professional") || !strings.Contains(empty, "Communication style: Professional") {
		t.Fatalf("empty profile should fall back to defaults: %q", empty)
	}
}

func TestBuildRequestMessagesOrdering(t *testing.T) {
	p := profile.Profile{CommunicationStyle: "chatty"}
	turns := []dialogue.Turn{
		{Role: dialogue.RoleResearcher, Content: "q1"},
		{Role: dialogue.RoleRespondent, Content: "a1"},
	}

	msgs := buildRequestMessages("instructions", turns, p, "be brief")
	if len(msgs) != 5 {
		t.Fatalf("want 5 messages, got %d", len(msgs))
	}
	if msgs[0].Role != "system" || msgs[0].Content != "instructions" {
		t.Fatalf("instructions must come first: %+v", msgs[0])
	}
	if msgs[1].Role != "system" || !strings.Contains(msgs[1].Content, "Respond as a real clinician") {
		t.Fatalf("persona directive must come second: %+v", msgs[1])
	}
	if msgs[2].Role != "system" || msgs[2].Content != "be brief" {
		t.Fatalf("friction directive must come third: %+v", msgs[2])
	}
	if msgs[3].Content != "q1" || msgs[4].Content != "a1" {
		t.Fatalf("dialogue turns must follow directives: %+v", msgs[3:])
	}

	// No friction: directives collapse, dialogue still follows.
	msgs = buildRequestMessages("instructions", turns, p, "")
	if len(msgs) != 4 {
		t.Fatalf("want 4 messages without friction, got %d", len(msgs))
	}
	if msgs[2].Content != "q1" {
		t.Fatalf("dialogue should directly follow persona directive: %+v", msgs[2])
	}

	// Caller's slice is never mutated.
	if turns[0].Content != "q1" || len(turns) != 2 {
		t.Fatalf("input turns mutated: %+v", turns)
	}
}
