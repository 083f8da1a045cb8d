package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests. Wikimedia
	// rejects requests without one.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds the defaults for article fetches.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// Lang is the default language when none is given.
	Lang Lang `json:"lang" yaml:"lang"`

	// Site is the default project when none is given.
	Site Site `json:"site" yaml:"site"`
}

// EmbedBackend selects how sections are embedded.
type EmbedBackend string

const (
	// BackendCommand shells out to `llm embed-multi`.
	BackendCommand EmbedBackend = "command"
	// BackendOpenAI calls the OpenAI embeddings API and stores vectors locally.
	BackendOpenAI EmbedBackend = "openai"
)

// EmbedConfig holds settings for the embedding pipeline.
type EmbedConfig struct {
	Backend EmbedBackend `json:"backend" yaml:"backend"`

	// Model is the embedding model. Empty lets the command backend use its
	// own default; the openai backend falls back to DefaultOpenAIModel.
	Model string `json:"model" yaml:"model"`

	// Command is the llm executable used by the command backend.
	Command string `json:"command" yaml:"command"`

	// Pandoc is the pandoc executable. When it is not on PATH the
	// pandoc/core container image is used instead.
	Pandoc string `json:"pandoc" yaml:"pandoc"`
}

// DefaultOpenAIModel is used by the openai backend when no model is configured.
const DefaultOpenAIModel = "text-embedding-3-small"

// OpenAIConfig holds credentials for the openai backend.
type OpenAIConfig struct {
	APIKey  string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
}

// StoreConfig holds settings for the local embedding store.
type StoreConfig struct {
	// Path is the SQLite database file.
	Path string `json:"path" yaml:"path"`

	// MaxResults is the default number of similar sections returned (default 10).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
}

// Config groups every setting read from the config file and environment.
type Config struct {
	Fetch  FetchConfig  `json:"fetch" yaml:"fetch"`
	Embed  EmbedConfig  `json:"embed" yaml:"embed"`
	OpenAI OpenAIConfig `json:"openai" yaml:"openai"`
	Store  StoreConfig  `json:"store" yaml:"store"`
	Log    LogConfig    `json:"log" yaml:"log"`
}
