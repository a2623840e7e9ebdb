package profile

import (
	"context"
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rcwolf97/market-research-study-simulator/internal/llm"
	"github.com/rcwolf97/market-research-study-simulator/internal/prompt"
)

type stubClient struct {
	content  string
	err      error
	messages []llm.Message
	params   llm.Params
	schema   llm.Schema
	calls    int
}

func (c *stubClient) Generate(ctx context.Context, messages []llm.Message, params llm.Params) (llm.Response, error) {
	return c.record(messages, params, llm.Schema{})
}

func (c *stubClient) GenerateStructured(ctx context.Context, messages []llm.Message, params llm.Params, schema llm.Schema) (llm.Response, error) {
	return c.record(messages, params, schema)
}

func (c *stubClient) record(messages []llm.Message, params llm.Params, schema llm.Schema) (llm.Response, error) {
	c.calls++
	c.messages = messages
	c.params = params
	c.schema = schema
	if c.err != nil {
		return llm.Response{}, c.err
	}
	return llm.Response{Content: c.content}, nil
}

func promptStore(t *testing.T, body string) *prompt.Store {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "generate_users")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "v0.0.1.tmpl"), []byte(body), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}
	return prompt.NewStore(root)
}

const batchJSON = `{"profiles":[
  {"professional_background":"a","practice_setting":"s1","treatment_philosophy":"t","personal_notes":"n","communication_style":"terse"},
  {"professional_background":"b","practice_setting":"s2","treatment_philosophy":"t","personal_notes":"n","communication_style":"chatty"},
  {"professional_background":"c","practice_setting":"s3","treatment_philosophy":"t","personal_notes":"n","communication_style":"precise"}
]}`

func TestGenerateSamplesFromBatch(t *testing.T) {
	client := &stubClient{content: batchJSON}
	store := promptStore(t, "generate {{.NumberOfProfiles}} for age {{.Age}}{{if .State}} in {{.State}}{{end}}")
	g := NewGenerator(client, store, 3, rand.New(rand.NewSource(7)))

	p, err := g.Generate(context.Background(), Seed{Age: "52", State: "Ohio"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if client.calls != 1 {
		t.Fatalf("want exactly one backend call, got %d", client.calls)
	}
	if p.ProfessionalBackground != "a" && p.ProfessionalBackground != "b" && p.ProfessionalBackground != "c" {
		t.Fatalf("sampled profile not from batch: %+v", p)
	}

	// Request shape: one system message rendered from the template.
	if len(client.messages) != 1 || client.messages[0].Role != "system" {
		t.Fatalf("unexpected request messages: %+v", client.messages)
	}
	if !strings.Contains(client.messages[0].Content, "generate 3") || !strings.Contains(client.messages[0].Content, "in Ohio") {
		t.Fatalf("template values missing from prompt: %q", client.messages[0].Content)
	}
	if client.params.Temperature != 0.5 || client.params.MaxTokens != 512*3 {
		t.Fatalf("unexpected decoding params: %+v", client.params)
	}
	if client.schema.Name != "profile_list" || client.schema.Definition == nil {
		t.Fatalf("schema not passed: %+v", client.schema)
	}
}

func TestGenerateOmitsUnsetSeedFields(t *testing.T) {
	client := &stubClient{content: batchJSON}
	store := promptStore(t, "age:{{.Age}}{{if .State}} state:{{.State}}{{end}}{{if .Gender}} gender:{{.Gender}}{{end}}")
	g := NewGenerator(client, store, 2, rand.New(rand.NewSource(1)))

	if _, err := g.Generate(context.Background(), Seed{Age: "40"}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	got := client.messages[0].Content
	if strings.Contains(got, "state:") || strings.Contains(got, "gender:") {
		t.Fatalf("unset seed fields leaked into prompt: %q", got)
	}
}

func TestGenerateEmptyBatchIsHardFailure(t *testing.T) {
	client := &stubClient{content: `{"profiles":[]}`}
	store := promptStore(t, "x")
	g := NewGenerator(client, store, 5, rand.New(rand.NewSource(1)))

	_, err := g.Generate(context.Background(), Seed{})
	if !errors.Is(err, ErrNoProfiles) {
		t.Fatalf("want ErrNoProfiles, got %v", err)
	}
}

func TestGenerateUnparseableBatchFails(t *testing.T) {
	client := &stubClient{content: "not json at all"}
	store := promptStore(t, "x")
	g := NewGenerator(client, store, 5, rand.New(rand.NewSource(1)))

	if _, err := g.Generate(context.Background(), Seed{}); err == nil {
		t.Fatalf("expected parse failure")
	}
}

func TestGenerateFencedJSONIsAccepted(t *testing.T) {
	client := &stubClient{content: "```json\n" + batchJSON + "\n```"}
	store := promptStore(t, "x")
	g := NewGenerator(client, store, 3, rand.New(rand.NewSource(1)))

	if _, err := g.Generate(context.Background(), Seed{}); err != nil {
		t.Fatalf("fenced JSON should parse: %v", err)
	}
}

func TestRandomSeedAndDescriptor(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 100; i++ {
		s := RandomSeed(rng)
		if s.Age == "" || s.Gender == "" || s.Urban == "" || s.Academic == "" || s.State == "" {
			t.Fatalf("incomplete random seed: %+v", s)
		}
		d := s.Descriptor()
		if !strings.Contains(d, s.Gender) || !strings.Contains(d, s.State) || !strings.HasSuffix(strings.Split(d, ",")[0], "yo "+s.Gender) {
			t.Fatalf("unexpected descriptor %q for seed %+v", d, s)
		}
	}
}
