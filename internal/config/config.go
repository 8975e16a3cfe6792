package config

import "github.com/caarlos0/env/v10"

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort      string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL   string `env:"DATABASE_URL,required"`
	LLMAPIKey     string `env:"LLM_API_KEY,required"`
	LLMBaseURL    string `env:"LLM_BASE_URL" envDefault:"https://api.openai.com/v1"`
	LLMModel      string `env:"LLM_MODEL" envDefault:"gpt-4o"`
	LLMEmbedModel string `env:"LLM_EMBED_MODEL" envDefault:"text-embedding-ada-002"`
	JWTSecret     string `env:"JWT_SECRET,required"`

	// Texto del esquema relacional que se inyecta al tool estructurado.
	SchemaFile string `env:"SCHEMA_FILE" envDefault:"schema.txt"`

	HistoryWindow int `env:"HISTORY_WINDOW" envDefault:"5"`
	SearchTopK    int `env:"SEARCH_TOP_K" envDefault:"3"`

	RedisAddr       string `env:"REDIS_ADDR"`
	RedisPassword   string `env:"REDIS_PASSWORD"`
	RedisDB         int    `env:"REDIS_DB" envDefault:"0"`
	RateLimitMax    int    `env:"RATE_LIMIT_MAX" envDefault:"20"`
	RateLimitWindow int    `env:"RATE_LIMIT_WINDOW_SECONDS" envDefault:"60"`

	TranslatorEndpoint string `env:"TRANSLATOR_ENDPOINT"`
	TranslatorKey      string `env:"TRANSLATOR_KEY"`
	TranslatorRegion   string `env:"TRANSLATOR_REGION"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
