package simulator

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sort"
	"strings"
	"sync"

	"github.com/rcwolf97/market-research-study-simulator/internal/dialogue"
	"github.com/rcwolf97/market-research-study-simulator/internal/profile"
	"github.com/rcwolf97/market-research-study-simulator/internal/storage"
)

// ProfileGenerator produces one persona profile from a demographic seed.
type ProfileGenerator interface {
	Generate(ctx context.Context, seed profile.Seed) (profile.Profile, error)
}

// ConversationRunner simulates one full interview for a respondent.
type ConversationRunner interface {
	Run(ctx context.Context, index int, p profile.Profile) ([]dialogue.Turn, error)
}

// Options configures one simulation batch.
type Options struct {
	NumberOfUsers  int
	UserPopulation string
	SimulationID   string

	// Concurrency bounds how many conversations run at once; values below
	// 1 run the batch sequentially. Conversations share no mutable state,
	// so respondent-level parallelism is safe.
	Concurrency int
}

// RespondentFailure records one failed conversation by respondent index.
type RespondentFailure struct {
	Index int
	Err   error
}

// BatchError aggregates per-respondent failures so one broken conversation
// does not silently abort or corrupt the rest of the batch.
type BatchError struct {
	Failures []RespondentFailure
}

func (e *BatchError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("respondent %d: %v", f.Index, f.Err))
	}
	return fmt.Sprintf("%d of the batch failed: %s", len(e.Failures), strings.Join(parts, "; "))
}

// Simulator is the batch driver: it owns run identity, ensures the profile
// batch exists, and runs one independent conversation per respondent.
type Simulator struct {
	opts   Options
	store  storage.Store
	gen    ProfileGenerator
	runner ConversationRunner

	mu  sync.Mutex
	rng *rand.Rand
}

func New(opts Options, store storage.Store, gen ProfileGenerator, runner ConversationRunner, rng *rand.Rand) *Simulator {
	return &Simulator{opts: opts, store: store, gen: gen, runner: runner, rng: rng}
}

// ensureProfiles loads the persisted profile batch for this run id, or
// generates and persists it once. Re-running with the same id reuses the
// stored profiles verbatim and never calls the generator again.
func (s *Simulator) ensureProfiles(ctx context.Context) ([]profile.Profile, error) {
	if s.store.HasProfiles() {
		profiles, err := s.store.LoadProfiles()
		if err != nil {
			return nil, err
		}
		log.Printf("Reusing %d persisted profiles for run %s", len(profiles), s.opts.SimulationID)
		return profiles, nil
	}

	profiles := make([]profile.Profile, 0, s.opts.NumberOfUsers)
	for i := 0; i < s.opts.NumberOfUsers; i++ {
		s.mu.Lock()
		seed := profile.RandomSeed(s.rng)
		s.mu.Unlock()
		p, err := s.gen.Generate(ctx, seed)
		if err != nil {
			return nil, fmt.Errorf("failed to generate profile %d: %w", i, err)
		}
		p.Descriptor = seed.Descriptor()
		profiles = append(profiles, p)
	}
	if err := s.store.SaveProfiles(profiles); err != nil {
		return nil, err
	}
	log.Printf("Generated %d profiles for run %s", len(profiles), s.opts.SimulationID)
	return profiles, nil
}

// Run executes the whole batch. Failures are isolated per respondent; if
// any occurred, the returned error is a *BatchError listing them by index.
func (s *Simulator) Run(ctx context.Context) error {
	profiles, err := s.ensureProfiles(ctx)
	if err != nil {
		return err
	}
	count := s.opts.NumberOfUsers
	if count > len(profiles) {
		count = len(profiles)
	}

	conc := s.opts.Concurrency
	if conc < 1 {
		conc = 1
	}

	var (
		wg       sync.WaitGroup
		failMu   sync.Mutex
		failures []RespondentFailure
	)
	sem := make(chan struct{}, conc)
	for i := 0; i < count; i++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(index int, p profile.Profile) {
			defer wg.Done()
			defer func() { <-sem }()
			if _, err := s.runner.Run(ctx, index, p); err != nil {
				log.Printf("respondent %d failed: %v", index, err)
				failMu.Lock()
				failures = append(failures, RespondentFailure{Index: index, Err: err})
				failMu.Unlock()
			}
		}(i, profiles[i])
	}
	wg.Wait()

	if len(failures) > 0 {
		sort.Slice(failures, func(a, b int) bool { return failures[a].Index < failures[b].Index })
		return &BatchError{Failures: failures}
	}
	return nil
}
