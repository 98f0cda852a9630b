package config

import (
	"log"
	"sync"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

var (
	once     sync.Once
	instance *Config
)

type Config struct {
	APIAddress string `envconfig:"API_ADDRESS" default:":8080"`
	JWTSecret  string `envconfig:"JWT_SECRET" required:"true"`

	PostgresAddress  string `envconfig:"POSTGRES_DB_ADDRESS" default:"localhost:5432"`
	PostgresUser     string `envconfig:"POSTGRES_USER" default:"fitquest"`
	PostgresPassword string `envconfig:"POSTGRES_PASSWORD" required:"true"`
	PostgresDB       string `envconfig:"POSTGRES_DB" default:"fitquest"`

	RedisAddress  string `envconfig:"REDIS_ADDRESS" default:"localhost:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`

	// External LLM gateway consumed by internal/assistant.
	AssistantURL     string `envconfig:"ASSISTANT_URL" required:"true"`
	AssistantAPIKey  string `envconfig:"ASSISTANT_API_KEY" default:""`
	AssistantModel   string `envconfig:"ASSISTANT_MODEL" default:"gemini-2.0-flash"`
	AssistantTimeout int    `envconfig:"ASSISTANT_TIMEOUT_SECONDS" default:"60"`

	// Streak bonus granted per streak day on every XP grant. Compounds
	// into mission payouts as well, which is the intended game design.
	StreakBonusPerDay int `envconfig:"STREAK_BONUS_PER_DAY" default:"10"`

	LeaderboardCacheTTLSeconds int `envconfig:"LEADERBOARD_CACHE_TTL_SECONDS" default:"60"`
}

func New() *Config {
	once.Do(func() {
		// .env is optional outside local development, envs may already be set.
		if err := godotenv.Load("./configs/.env"); err != nil {
			log.Println("no .env file loaded: " + err.Error())
		}
		var cfg Config
		if err := envconfig.Process("", &cfg); err != nil {
			log.Fatal("processing envs error: ", err)
		}
		instance = &cfg
	})
	return instance
}
