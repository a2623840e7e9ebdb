package main

import (
	"context"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/rcwolf97/market-research-study-simulator/internal/analytics"
	"github.com/rcwolf97/market-research-study-simulator/internal/config"
	"github.com/rcwolf97/market-research-study-simulator/internal/conversation"
	"github.com/rcwolf97/market-research-study-simulator/internal/llm"
	"github.com/rcwolf97/market-research-study-simulator/internal/profile"
	"github.com/rcwolf97/market-research-study-simulator/internal/prompt"
	"github.com/rcwolf97/market-research-study-simulator/internal/scheduler"
	"github.com/rcwolf97/market-research-study-simulator/internal/simulator"
	"github.com/rcwolf97/market-research-study-simulator/internal/storage"
	"github.com/rcwolf97/market-research-study-simulator/internal/study"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()

	factory := llm.NewFactory(cfg)
	client, err := factory.CreateClient(string(cfg.LLMProvider), cfg.OpenAIModel)
	if err != nil {
		log.Fatalf("failed to create llm client: %v", err)
	}

	prompts := prompt.NewStore(cfg.PromptLibraryPath)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	st, err := study.Load(cfg.DataRoot, cfg.Study)
	if err != nil {
		log.Fatalf("failed to load study: %v", err)
	}

	runBatch := func(ctx context.Context, simulationID string) error {
		store, err := storage.NewFileStore(cfg.DataRoot, simulationID)
		if err != nil {
			return err
		}

		gen := profile.NewGenerator(client, prompts, cfg.ProfileBatchSize, rng)
		exec := conversation.NewExecutor(client, prompts, rng)
		orch := conversation.NewOrchestrator(exec, st, store, simulationID, cfg.UserPopulation, cfg.MaxTurns)

		sim := simulator.New(simulator.Options{
			NumberOfUsers:  cfg.NumberOfUsers,
			UserPopulation: cfg.UserPopulation,
			SimulationID:   simulationID,
			Concurrency:    cfg.Concurrency,
		}, store, gen, orch, rng)

		runErr := sim.Run(ctx)

		transcripts, err := store.LoadConversations()
		if err != nil {
			log.Printf("failed to load transcripts for report: %v", err)
		} else {
			log.Print(analytics.AnalyzeRun(transcripts).Summary())
		}
		return runErr
	}

	ctx := context.Background()

	simulationID := cfg.SimulationID
	if simulationID == "" {
		simulationID = time.Now().Format("20060102150405")
	}
	if err := runBatch(ctx, simulationID); err != nil {
		if cfg.SimulateCron == "" {
			log.Fatalf("simulation run failed: %v", err)
		}
		log.Printf("simulation run failed: %v", err)
	}

	if cfg.SimulateCron == "" {
		return
	}

	// Recurring mode: every tick starts a fresh run with a timestamp id.
	sched := scheduler.New(cfg.SimulateCron)
	sched.SetRunFunction(func(ctx context.Context) error {
		return runBatch(ctx, time.Now().Format("20060102150405"))
	})
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
}
