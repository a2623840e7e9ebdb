package config

import (
	"log"

	"github.com/caarlos0/env/v6"
)

type LLMProvider string

const (
	ProviderOpenAI LLMProvider = "openai"
	ProviderYandex LLMProvider = "yandex"
)

type Config struct {
	// LLM settings
	LLMProvider      LLMProvider `env:"LLM_PROVIDER" envDefault:"openai"`
	OpenAIAPIKey     string      `env:"OPENAI_API_KEY"`
	OpenAIBaseURL    string      `env:"OPENAI_BASE_URL"`
	OpenAIModel      string      `env:"OPENAI_MODEL" envDefault:"gpt-4.1"`
	YandexOAuthToken string      `env:"YANDEX_OAUTH_TOKEN"`
	YandexFolderID   string      `env:"YANDEX_FOLDER_ID"`

	// OpenRouter (optional)
	OpenRouterReferrer string `env:"OPENROUTER_REFERRER"`
	OpenRouterTitle    string `env:"OPENROUTER_TITLE"`

	// Simulation
	Study            string `env:"STUDY" envDefault:"study_1"`
	NumberOfUsers    int    `env:"NUMBER_OF_USERS" envDefault:"30"`
	UserPopulation   string `env:"USER_POPULATION" envDefault:"pulmonologist"`
	SimulationID     string `env:"SIMULATION_ID"`
	ProfileBatchSize int    `env:"PROFILE_BATCH_SIZE" envDefault:"5"`
	Concurrency      int    `env:"CONCURRENCY" envDefault:"1"`

	// Safety bound for a single conversation; 0 keeps the loop unbounded and
	// relies on the researcher agent signalling the end of every block.
	MaxTurns int `env:"MAX_TURNS" envDefault:"0"`

	// Storage
	DataRoot          string `env:"DATA_ROOT" envDefault:"data"`
	PromptLibraryPath string `env:"PROMPT_LIBRARY_PATH" envDefault:"prompt_library"`

	// Recurring runs (optional cron spec, e.g. "0 2 * * *")
	SimulateCron string `env:"SIMULATE_CRON"`
}

func New() *Config {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}
