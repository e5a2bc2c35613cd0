package config

import (
	"time"
)

// HTTP holds web-server tunables
type HTTP struct {
	ListenAddr      string        `koanf:"listen_addr" validate:"required,hostname_port"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"min=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"min=0"`
	IdleTimeout     time.Duration `koanf:"idle_timeout" validate:"min=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"min=0"`
	GinMode         string        `koanf:"gin_mode" validate:"oneof=debug release test"`
}

// Database selects the storage driver and pool sizes.
// Driver "memory" keeps records in process and is meant for local runs.
type Database struct {
	Driver          string        `koanf:"driver" validate:"oneof=postgres sqlite memory"`
	DSN             string        `koanf:"dsn" validate:"required_unless=Driver memory"`
	MaxOpenConns    int           `koanf:"max_open_conns" validate:"min=1"`
	MaxIdleConns    int           `koanf:"max_idle_conns" validate:"min=0"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
}

type Log struct {
	Dir     string `koanf:"dir" validate:"required"`
	Level   string `koanf:"level" validate:"oneof=debug info warn error"`
	Console bool   `koanf:"console"`
}

type Ollama struct {
	BaseURL string `koanf:"base_url" validate:"omitempty,url"`
	Model   string `koanf:"model"`
}

type Gemini struct {
	APIKey string `koanf:"api_key"`
	Model  string `koanf:"model"`
}

type Bedrock struct {
	Region string `koanf:"region"`
	Model  string `koanf:"model"`
	APIKey string `koanf:"api_key"`
}

// Summarizer configures background summary generation
type Summarizer struct {
	Provider          string        `koanf:"provider" validate:"oneof=extractive ollama gemini bedrock noop"`
	Fallback          string        `koanf:"fallback" validate:"omitempty,oneof=extractive ollama gemini bedrock noop"`
	Sentences         int           `koanf:"sentences" validate:"min=1"`
	MaxInputChars     int           `koanf:"max_input_chars" validate:"min=100"`
	MaxTokens         int           `koanf:"max_tokens" validate:"min=0"`
	SystemInstruction string        `koanf:"system_instruction"`
	JobTimeout        time.Duration `koanf:"job_timeout" validate:"min=0"`
	Workers           int           `koanf:"workers" validate:"min=1"`
	QueueSize         int           `koanf:"queue_size" validate:"min=1"`
	Ollama            Ollama        `koanf:"ollama"`
	Gemini            Gemini        `koanf:"gemini"`
	Bedrock           Bedrock       `koanf:"bedrock"`
}

type Scraper struct {
	Timeout   time.Duration `koanf:"timeout" validate:"min=0"`
	UserAgent string        `koanf:"user_agent"`
	MaxBytes  int64         `koanf:"max_bytes" validate:"min=1024"`
}

// Scheduler re-queues records whose summary never arrived.
// An Interval of zero disables it.
type Scheduler struct {
	Interval    time.Duration `koanf:"interval" validate:"min=0"`
	RetryAfter  time.Duration `koanf:"retry_after" validate:"min=0"`
	BatchSize   int           `koanf:"batch_size" validate:"min=1"`
	MaxAttempts int           `koanf:"max_attempts" validate:"min=0"` // 0 retries forever
}

// Config is the aggregate returned by Load
type Config struct {
	Environment string     `koanf:"environment" validate:"required"`
	Testing     bool       `koanf:"testing"`
	HTTP        HTTP       `koanf:"http"`
	Database    Database   `koanf:"database"`
	Log         Log        `koanf:"log"`
	Summarizer  Summarizer `koanf:"summarizer"`
	Scraper     Scraper    `koanf:"scraper"`
	Scheduler   Scheduler  `koanf:"scheduler"`
}

// Default returns the configuration used when nothing overrides it
func Default() Config {
	return Config{
		Environment: "dev",
		HTTP: HTTP{
			ListenAddr:      ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			GinMode:         "release",
		},
		Database: Database{
			Driver:          "sqlite",
			DSN:             "summaries.db",
			MaxOpenConns:    15,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Log: Log{
			Dir:     "logs",
			Level:   "info",
			Console: true,
		},
		Summarizer: Summarizer{
			Provider:      "extractive",
			Sentences:     5,
			MaxInputChars: 8000,
			MaxTokens:     512,
			JobTimeout:    60 * time.Second,
			Workers:       3,
			QueueSize:     500,
			Ollama: Ollama{
				BaseURL: "http://localhost:11434",
				Model:   "llama3",
			},
			Gemini: Gemini{
				Model: "gemini-2.5-flash",
			},
		},
		Scraper: Scraper{
			Timeout:   15 * time.Second,
			UserAgent: "SummarizerBot/1.0",
			MaxBytes:  2 * 1024 * 1024,
		},
		Scheduler: Scheduler{
			Interval:    time.Minute,
			RetryAfter:  5 * time.Minute,
			BatchSize:   50,
			MaxAttempts: 5,
		},
	}
}
